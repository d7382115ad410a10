// Package appointment implements the multi-party negotiation model of a
// group appointment: members propose non-binding suggestions and set
// binding constraints per field, and the appointment is reconciled when all
// constraints on each constrained field agree.
//
// Every operation takes an Appointment value and returns a new one. The
// input is never modified, so several proposals can be evaluated against the
// same state concurrently.
package appointment

import (
	"encoding/json"
	"maps"
	"slices"

	"github.com/hrygo/kinsync/plugin/ai/aitime"
)

// Well-known appointment fields.
const (
	FieldTitle    = "title"
	FieldTime     = "time"
	FieldLocation = "location"
	FieldNotes    = "notes"
	FieldStatus   = "status"
)

// Appointment status values.
const (
	StatusProposed  = "proposed"
	StatusScheduled = "scheduled"
	StatusCancelled = "cancelled"
)

// Location carries a raw location string and its display form.
type Location struct {
	Raw     string `json:"raw,omitempty"`
	Display string `json:"display,omitempty"`
	MapURL  string `json:"mapUrl,omitempty"`
}

// Text returns the display form, falling back to the raw text.
func (l Location) Text() string {
	if l.Display != "" {
		return l.Display
	}
	return l.Raw
}

// Appointment is a single group appointment plus its negotiation state.
type Appointment struct {
	ID        string `json:"id"`
	Title     string `json:"title,omitempty"`
	Desc      string `json:"desc,omitempty"`
	Status    string `json:"status,omitempty"`
	CreatedBy string `json:"createdBy,omitempty"`

	// Date and StartTime are the raw, pre-resolution time fields.
	Date         string `json:"date,omitempty"`
	StartTime    string `json:"startTime,omitempty"`
	DurationMins int    `json:"durationMins,omitempty"`
	// Start and End are explicit ISO instants set by direct edits.
	Start    string           `json:"start,omitempty"`
	End      string           `json:"end,omitempty"`
	Timezone string           `json:"timezone,omitempty"`
	Time     *aitime.TimeSpec `json:"time,omitempty"`

	Location Location `json:"location"`
	Notes    string   `json:"notes,omitempty"`
	People   []string `json:"people,omitempty"`

	Suggestions Suggestions  `json:"suggestions"`
	Constraints []Constraint `json:"constraints"`
}

// Suggestions indexes suggestions by field name.
type Suggestions struct {
	ByField map[string][]Suggestion `json:"byField"`
}

// EnsureAppointmentDoc initializes the negotiation structure of appt without
// discarding anything already present. An appointment without a creator is
// attributed to actorEmail. Applying it twice yields the same result.
func EnsureAppointmentDoc(appt Appointment, actorEmail string) Appointment {
	out := appt.clone()
	if out.Suggestions.ByField == nil {
		out.Suggestions.ByField = map[string][]Suggestion{}
	}
	if out.Constraints == nil {
		out.Constraints = []Constraint{}
	}
	if out.CreatedBy == "" {
		out.CreatedBy = actorEmail
	}
	if out.Status == "" {
		out.Status = StatusProposed
	}
	return out
}

// DecodeAppointment reads an appointment from its stored JSON form and
// ensures its negotiation structure.
func DecodeAppointment(raw []byte, actorEmail string) (Appointment, error) {
	var appt Appointment
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &appt); err != nil {
			return Appointment{}, err
		}
	}
	return EnsureAppointmentDoc(appt, actorEmail), nil
}

// clone returns a copy of appt that shares no mutable state with it.
func (a Appointment) clone() Appointment {
	out := a
	out.People = slices.Clone(a.People)
	out.Constraints = slices.Clone(a.Constraints)
	if a.Suggestions.ByField != nil {
		out.Suggestions.ByField = maps.Clone(a.Suggestions.ByField)
		for field, list := range out.Suggestions.ByField {
			out.Suggestions.ByField[field] = slices.Clone(list)
		}
	}
	if a.Time != nil {
		t := *a.Time
		out.Time = &t
	}
	return out
}

// valuesEqual compares two field values structurally. Values are compared
// in their JSON form so that numerically equal values decoded with
// different Go types agree.
func valuesEqual(a, b any) bool {
	ab, errA := json.Marshal(a)
	bb, errB := json.Marshal(b)
	if errA != nil || errB != nil {
		return false
	}
	return string(ab) == string(bb)
}
