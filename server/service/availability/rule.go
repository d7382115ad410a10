package availability

import (
	"slices"
	"strings"
	"time"

	"github.com/lithammer/shortuuid/v4"

	"github.com/hrygo/kinsync/plugin/ai/aitime"
)

// RuleKind is the polarity of an availability rule.
type RuleKind string

const (
	KindAvailable   RuleKind = "available"
	KindUnavailable RuleKind = "unavailable"
)

// Rule is a single availability statement for a person.
//
// Date-scoped rules use Date/StartTime/DurationMins. Normalized (v2) rules
// use StartUtc/EndUtc instead.
type Rule struct {
	PersonID     string    `json:"personId"`
	Date         string    `json:"date,omitempty"`
	StartTime    string    `json:"startTime,omitempty"`
	DurationMins int       `json:"durationMins,omitempty"`
	StartUtc     time.Time `json:"startUtc,omitzero"`
	EndUtc       time.Time `json:"endUtc,omitzero"`
	Kind         RuleKind  `json:"kind"`
	Code         string    `json:"code"`
	Desc         string    `json:"desc,omitempty"`
	PromptID     string    `json:"promptId,omitempty"`
	Timezone     string    `json:"timezone,omitempty"`
	Assumptions  []string  `json:"assumptions,omitempty"`
}

// Interval returns the date-scoped interval of the rule.
func (r Rule) Interval() Interval {
	return Interval{Date: r.Date, StartTime: r.StartTime, DurationMins: r.DurationMins}
}

// HasUTCRange reports whether the rule carries a usable v2 range.
func (r Rule) HasUTCRange() bool {
	return !r.StartUtc.IsZero() && !r.EndUtc.IsZero() && !r.EndUtc.Before(r.StartUtc)
}

// NewRuleCode returns a short human-referenceable rule code.
func NewRuleCode() string {
	return "R" + strings.ToUpper(shortuuid.New()[:6])
}

// NewRuleV2 builds a UTC-scoped rule with a fresh code.
func NewRuleV2(personID string, kind RuleKind, start, end time.Time, timezone, promptID string) Rule {
	return Rule{
		PersonID: personID,
		StartUtc: start.UTC(),
		EndUtc:   end.UTC(),
		Kind:     kind,
		Code:     NewRuleCode(),
		PromptID: promptID,
		Timezone: timezone,
	}
}

// RuleFromResolved converts a resolved time interval into a v2 rule. The
// rule inherits the interpretation timezone and a copy of the assumptions
// made while resolving.
func RuleFromResolved(personID string, kind RuleKind, spec aitime.TimeSpec, promptID string) (Rule, bool) {
	if !spec.IsResolved() {
		return Rule{}, false
	}
	r := NewRuleV2(personID, kind, spec.Resolved.StartUtc, spec.Resolved.EndUtc, spec.Resolved.Timezone, promptID)
	r.Desc = spec.Intent.OriginalText
	r.Assumptions = slices.Clone(spec.Intent.Assumptions)
	return r, true
}
