package availability

import (
	"fmt"
	"time"
)

// Status is the availability verdict for a person and interval.
type Status string

const (
	StatusAvailable   Status = "available"
	StatusUnavailable Status = "unavailable"
	StatusUnknown     Status = "unknown"
)

// StatusResult carries the verdict and the rules that decided it.
type StatusResult struct {
	Status  Status   `json:"status"`
	Reasons []string `json:"reasons"`
}

// ComputePersonStatusForInterval evaluates date-scoped rules for personID
// against the candidate interval. Any overlapping unavailable rule wins over
// available ones. Reasons only list rules of the deciding kind.
func ComputePersonStatusForInterval(personID string, iv Interval, rules []Rule) StatusResult {
	target := IntervalBounds(iv)

	var available, unavailable []Rule
	for _, r := range rules {
		if r.PersonID == "" || r.PersonID != personID || r.Date == "" || r.Date != iv.Date {
			continue
		}
		if !Overlaps(IntervalBounds(r.Interval()), target) {
			continue
		}
		switch r.Kind {
		case KindUnavailable:
			unavailable = append(unavailable, r)
		case KindAvailable:
			available = append(available, r)
		}
	}

	return decide(available, unavailable, func(r Rule) string {
		return DescribeInterval(r.Interval())
	})
}

// ComputePersonStatusForRange evaluates UTC-scoped rules for personID
// against a half-open [start, end) range with the same tie-break policy.
func ComputePersonStatusForRange(personID string, start, end time.Time, rules []Rule) StatusResult {
	var available, unavailable []Rule
	for _, r := range rules {
		if r.PersonID == "" || r.PersonID != personID || !r.HasUTCRange() {
			continue
		}
		if !(r.StartUtc.Before(end) && r.EndUtc.After(start)) {
			continue
		}
		switch r.Kind {
		case KindUnavailable:
			unavailable = append(unavailable, r)
		case KindAvailable:
			available = append(available, r)
		}
	}

	return decide(available, unavailable, describeUTC)
}

// ComputeGroupStatus evaluates every person in personIDs against a UTC range.
func ComputeGroupStatus(personIDs []string, start, end time.Time, rules []Rule) map[string]StatusResult {
	out := make(map[string]StatusResult, len(personIDs))
	for _, id := range personIDs {
		out[id] = ComputePersonStatusForRange(id, start, end, rules)
	}
	return out
}

func decide(available, unavailable []Rule, describe func(Rule) string) StatusResult {
	switch {
	case len(unavailable) > 0:
		return StatusResult{Status: StatusUnavailable, Reasons: renderReasons(unavailable, describe)}
	case len(available) > 0:
		return StatusResult{Status: StatusAvailable, Reasons: renderReasons(available, describe)}
	default:
		return StatusResult{Status: StatusUnknown, Reasons: []string{}}
	}
}

func renderReasons(rules []Rule, describe func(Rule) string) []string {
	reasons := make([]string, 0, len(rules))
	for _, r := range rules {
		reason := fmt.Sprintf("%s %s %s", r.Code, r.Kind, describe(r))
		if r.Desc != "" {
			reason += ": " + r.Desc
		}
		reasons = append(reasons, reason)
	}
	return reasons
}

func describeUTC(r Rule) string {
	return fmt.Sprintf("%s-%s UTC", r.StartUtc.UTC().Format("2006-01-02 15:04"), r.EndUtc.UTC().Format("15:04"))
}
