// Package aitime turns natural-language time expressions into concrete UTC
// intervals.
//
// Parsing is deterministic first. Only when the rule-based parser cannot
// fully resolve an expression is an external language model consulted, and
// its structured answer is validated before it is trusted.
package aitime

import "time"

// IntentStatus describes how far an expression could be resolved.
type IntentStatus string

const (
	StatusResolved   IntentStatus = "resolved"
	StatusPartial    IntentStatus = "partial"
	StatusUnresolved IntentStatus = "unresolved"
)

// MissingField names a component the parser could not determine.
type MissingField string

const (
	MissingDate      MissingField = "date"
	MissingStartTime MissingField = "startTime"
	MissingEndTime   MissingField = "endTime"
	MissingDuration  MissingField = "duration"
	MissingTimezone  MissingField = "timezone"
)

// validMissing is the closed set of names accepted in Missing.
var validMissing = map[MissingField]bool{
	MissingDate:      true,
	MissingStartTime: true,
	MissingEndTime:   true,
	MissingDuration:  true,
	MissingTimezone:  true,
}

// DurationSource tells whether the end of an interval was stated or inferred.
type DurationSource string

const (
	DurationExplicit  DurationSource = "explicit"
	DurationSuggested DurationSource = "suggested"
)

// DurationAcceptance records how a suggested duration was accepted.
type DurationAcceptance string

const (
	AcceptanceAuto          DurationAcceptance = "auto"
	AcceptanceUserConfirmed DurationAcceptance = "user_confirmed"
	AcceptanceUserEdited    DurationAcceptance = "user_edited"
)

// Inference version tags stamped on resolved intervals.
const (
	InferenceDeterministic = "det-v1"
	InferenceOpenAI        = "openai-v1"
)

// TimeIntent is the parsed "ask" behind a time expression.
type TimeIntent struct {
	Status       IntentStatus   `json:"status"`
	OriginalText string         `json:"originalText"`
	Missing      []MissingField `json:"missing,omitempty"`
	Assumptions  []string       `json:"assumptions,omitempty"`
	Evidence     []string       `json:"evidence,omitempty"`
}

// ResolvedInterval is an immutable UTC interval produced by one resolution
// attempt. A later resolution supersedes it rather than mutating it.
type ResolvedInterval struct {
	StartUtc           time.Time          `json:"startUtc"`
	EndUtc             time.Time          `json:"endUtc"`
	Timezone           string             `json:"timezone"`
	DurationSource     DurationSource     `json:"durationSource"`
	DurationConfidence *float64           `json:"durationConfidence,omitempty"`
	DurationReason     string             `json:"durationReason,omitempty"`
	DurationAcceptance DurationAcceptance `json:"durationAcceptance,omitempty"`
	InferenceVersion   string             `json:"inferenceVersion,omitempty"`
}

// DurationMins returns the whole-minute length of the interval.
func (r ResolvedInterval) DurationMins() int {
	return int(r.EndUtc.Sub(r.StartUtc) / time.Minute)
}

// TimeSpec is the parsed intent plus, when successful, its resolved interval.
type TimeSpec struct {
	Intent   TimeIntent        `json:"intent"`
	Resolved *ResolvedInterval `json:"resolved,omitempty"`
}

// IsResolved reports whether the spec carries a usable interval.
func (s TimeSpec) IsResolved() bool {
	return s.Intent.Status == StatusResolved && s.Resolved != nil
}

func confidence(v float64) *float64 {
	return &v
}
