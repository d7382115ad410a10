package aitime

import (
	"context"
	"fmt"
	"regexp"
	"time"
)

// ExternalRequest is the input handed to an external time resolver.
type ExternalRequest struct {
	WhenText string
	Timezone string
	Now      time.Time
	Locale   string
	Context  string
	Model    string
	TraceID  string
}

// OpenAITimeResolve is the structured answer expected from the external
// resolver. Empty strings stand for absent optional values.
type OpenAITimeResolve struct {
	Status      string   `json:"status"`
	StartUtc    string   `json:"startUtc"`
	EndUtc      string   `json:"endUtc"`
	Missing     []string `json:"missing"`
	Assumptions []string `json:"assumptions"`
}

// ExternalResult is a raw external answer plus call metadata.
type ExternalResult struct {
	Response OpenAITimeResolve
	OpID     string
	Model    string
}

// ExternalResolver resolves text the deterministic parser could not.
type ExternalResolver interface {
	ResolveTime(ctx context.Context, req ExternalRequest) (*ExternalResult, error)
}

var utcTimestampPattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}(?:\.\d{1,9})?Z$`)

// validatedResolve is an external answer that passed shape validation.
type validatedResolve struct {
	resolved    bool
	start       time.Time
	end         time.Time
	hasEnd      bool
	missing     []MissingField
	assumptions []string
}

// validateResolve checks the external answer strictly. Nothing is coerced:
// any deviation from the two accepted shapes is an error.
func validateResolve(r OpenAITimeResolve) (*validatedResolve, error) {
	switch r.Status {
	case string(StatusResolved):
		start, err := parseUTCTimestamp(r.StartUtc)
		if err != nil {
			return nil, fmt.Errorf("startUtc: %w", err)
		}
		out := &validatedResolve{resolved: true, start: start, assumptions: r.Assumptions}
		if r.EndUtc != "" {
			end, err := parseUTCTimestamp(r.EndUtc)
			if err != nil {
				return nil, fmt.Errorf("endUtc: %w", err)
			}
			if end.Before(start) {
				return nil, fmt.Errorf("endUtc %s is before startUtc %s", r.EndUtc, r.StartUtc)
			}
			out.end, out.hasEnd = end, true
		}
		return out, nil

	case string(StatusUnresolved):
		if len(r.Missing) == 0 {
			return nil, fmt.Errorf("unresolved answer must list missing fields")
		}
		missing := make([]MissingField, 0, len(r.Missing))
		for _, m := range r.Missing {
			f := MissingField(m)
			if !validMissing[f] {
				return nil, fmt.Errorf("unknown missing field %q", m)
			}
			missing = append(missing, f)
		}
		return &validatedResolve{missing: missing, assumptions: r.Assumptions}, nil

	default:
		return nil, fmt.Errorf("unexpected status %q", r.Status)
	}
}

func parseUTCTimestamp(s string) (time.Time, error) {
	if !utcTimestampPattern.MatchString(s) {
		return time.Time{}, fmt.Errorf("%q is not a UTC timestamp", s)
	}
	return time.Parse(time.RFC3339Nano, s)
}
