package schedule

import (
	"context"

	"github.com/hrygo/kinsync/plugin/ai/aitime"
	"github.com/hrygo/kinsync/server/service/appointment"
	"github.com/hrygo/kinsync/server/service/availability"
	"github.com/hrygo/kinsync/server/service/notify"
)

// Service defines the group scheduling operations. Every mutation loads the
// group document, applies a pure domain operation and saves it back under
// the etag it was loaded with.
type Service interface {
	// CreateGroup stores an empty group. It fails with CONFLICT when the
	// group already exists.
	CreateGroup(ctx context.Context, create *CreateGroupRequest) (*GroupState, error)

	// GetGroup returns the stored group document.
	GetGroup(ctx context.Context, groupID string) (*GroupState, error)

	// CreateAppointment adds a new appointment to a group.
	CreateAppointment(ctx context.Context, groupID, actor string, create *CreateAppointmentRequest) (*MutationResult, error)

	// ProposeTime resolves free text into a time and applies it to the
	// appointment. The resolved value is also recorded as a time suggestion.
	ProposeTime(ctx context.Context, groupID, appointmentID, actor, whenText string) (*MutationResult, error)

	// Suggest records a non-binding value for an appointment field.
	Suggest(ctx context.Context, groupID, appointmentID, actor, field string, value any) (*MutationResult, error)

	// WithdrawSuggestion deactivates one of the actor's suggestions. The
	// suggestion stays in the document for history.
	WithdrawSuggestion(ctx context.Context, groupID, appointmentID, actor, suggestionID string) (*MutationResult, error)

	// SetConstraint upserts the actor's constraint for a field.
	SetConstraint(ctx context.Context, groupID, appointmentID, actor string, in appointment.ConstraintInput) (*MutationResult, error)

	// RemoveConstraint removes one of the actor's constraints.
	RemoveConstraint(ctx context.Context, groupID, appointmentID, actor, constraintID string) (*MutationResult, error)

	// ApplyUpdate applies direct field edits to an appointment.
	ApplyUpdate(ctx context.Context, groupID, appointmentID, actor string, update *UpdateAppointmentRequest) (*MutationResult, error)

	// AddAvailability resolves free text into an availability rule for a
	// person and merges it into the group's rules.
	AddAvailability(ctx context.Context, groupID, personID string, kind availability.RuleKind, whenText string) (*AvailabilityResult, error)

	// CheckAvailability evaluates every participant against the
	// appointment's time.
	CheckAvailability(ctx context.Context, groupID, appointmentID string) (map[string]availability.StatusResult, error)

	// RankSuggestions orders the active suggestions of a field by the
	// number of constraints they satisfy.
	RankSuggestions(ctx context.Context, groupID, appointmentID, field string) ([]appointment.RankedSuggestion, error)

	// ChangeFeed renders the group's recent notifications as an Atom feed.
	ChangeFeed(ctx context.Context, groupID string) (string, error)
}

// GroupState is the persisted document of one group.
type GroupState struct {
	GroupID      string                    `json:"groupId"`
	Timezone     string                    `json:"timezone,omitempty"`
	Members      []string                  `json:"members"`
	Appointments []appointment.Appointment `json:"appointments"`
	Rules        []availability.Rule       `json:"rules"`
	History      []notify.ChangeEntry      `json:"history"`
}

// CreateGroupRequest represents the request to create a group.
type CreateGroupRequest struct {
	GroupID  string
	Timezone string
	Members  []string
}

// CreateAppointmentRequest represents the request to create an appointment.
type CreateAppointmentRequest struct {
	Title    string
	Desc     string
	Location string
	Notes    string
	People   []string
	// WhenText is resolved into the appointment's time when set.
	WhenText string
}

// UpdateAppointmentRequest holds direct edits. Nil fields are left as is.
type UpdateAppointmentRequest struct {
	Title    *string
	Location *string
	Notes    *string
	Status   *string
	// Start and End are RFC 3339 instants. Setting Start replaces any
	// resolved time.
	Start *string
	End   *string
}

// MutationResult is returned by every appointment mutation.
type MutationResult struct {
	Appointment    appointment.Appointment    `json:"appointment"`
	Reconciliation appointment.Reconciliation `json:"reconciliation"`
	Changes        []appointment.DiffItem     `json:"changes"`
	// Notification and ICS are set only when the change is
	// notification-worthy.
	Notification *notify.NotificationSnapshot `json:"notification,omitempty"`
	ICS          *notify.ICSFile              `json:"ics,omitempty"`
	// Resolve is set by operations that resolved free text.
	Resolve *aitime.ResolveResult `json:"resolve,omitempty"`
}

// AvailabilityResult is returned by AddAvailability.
type AvailabilityResult struct {
	Rule    availability.Rule     `json:"rule"`
	Rules   []availability.Rule   `json:"rules"`
	Resolve *aitime.ResolveResult `json:"resolve"`
}
