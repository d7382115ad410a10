package appointment

import (
	"time"

	"github.com/lithammer/shortuuid/v4"
)

// Suggestion is a non-binding proposed value for an appointment field.
type Suggestion struct {
	ID            string    `json:"id"`
	ProposerEmail string    `json:"proposerEmail"`
	Field         string    `json:"field"`
	Value         any       `json:"value"`
	CreatedAt     time.Time `json:"createdAt"`
	Active        bool      `json:"active"`
}

// SuggestionInput is the member-supplied part of a suggestion.
type SuggestionInput struct {
	ProposerEmail string
	Field         string
	Value         any
}

// NewSuggestion creates a new active suggestion. It never supersedes
// existing suggestions for the same field.
func NewSuggestion(in SuggestionInput) Suggestion {
	return Suggestion{
		ID:            "s_" + shortuuid.New(),
		ProposerEmail: in.ProposerEmail,
		Field:         in.Field,
		Value:         in.Value,
		CreatedAt:     time.Now().UTC(),
		Active:        true,
	}
}

// AddSuggestion appends s to the suggestions of its field.
func AddSuggestion(appt Appointment, s Suggestion) Appointment {
	out := EnsureAppointmentDoc(appt, s.ProposerEmail)
	out.Suggestions.ByField[s.Field] = append(out.Suggestions.ByField[s.Field], s)
	return out
}

// ActiveSuggestionsByField returns the active suggestions for field in the
// order they were added.
func ActiveSuggestionsByField(appt Appointment, field string) []Suggestion {
	var out []Suggestion
	for _, s := range appt.Suggestions.ByField[field] {
		if s.Active {
			out = append(out, s)
		}
	}
	return out
}

// DeactivateSuggestion withdraws a suggestion by id. The suggestion is kept
// for history. It reports false when no active suggestion has that id.
func DeactivateSuggestion(appt Appointment, id string) (Appointment, bool) {
	for field, list := range appt.Suggestions.ByField {
		for i, s := range list {
			if s.ID != id || !s.Active {
				continue
			}
			out := appt.clone()
			out.Suggestions.ByField[field][i].Active = false
			return out, true
		}
	}
	return appt, false
}

// FindSuggestion looks a suggestion up by id, active or not.
func FindSuggestion(appt Appointment, id string) (Suggestion, bool) {
	for _, list := range appt.Suggestions.ByField {
		for _, s := range list {
			if s.ID == id {
				return s, true
			}
		}
	}
	return Suggestion{}, false
}
