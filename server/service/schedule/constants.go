package schedule

// Package-level constants for group scheduling.

const (
	// DefaultTimezone applies to groups created without a timezone.
	DefaultTimezone = "UTC"

	// MaxHistory is the number of notifications kept per group for the
	// change feed. Older entries are dropped first.
	MaxHistory = 50

	// groupDocPrefix namespaces group documents in the store.
	groupDocPrefix = "group:"

	// icsContentType is stored with rendered calendar attachments.
	icsContentType = "text/calendar; charset=utf-8"
)

// Operation names used for logging and metrics.
const (
	opCreateGroup       = "create_group"
	opCreateAppointment = "create_appointment"
	opProposeTime       = "propose_time"
	opSuggest           = "suggest"
	opWithdraw          = "withdraw_suggestion"
	opSetConstraint     = "set_constraint"
	opRemoveConstraint  = "remove_constraint"
	opApplyUpdate       = "apply_update"
	opAddAvailability   = "add_availability"
)
