// Package notify builds notification payloads for appointment changes: the
// immutable NotificationSnapshot, its ICS calendar attachment, an Atom feed
// of recent changes and an HTML change summary for email bodies.
package notify

import (
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hrygo/kinsync/server/service/appointment"
)

// DefaultDurationMins applies when a snapshot has a start but no end.
const DefaultDurationMins = 60

// NotificationTime is the time block of a notification.
type NotificationTime struct {
	StartUtc     time.Time `json:"startUtc"`
	EndUtc       time.Time `json:"endUtc,omitzero"`
	Timezone     string    `json:"timezone,omitempty"`
	DurationMins int       `json:"durationMins,omitempty"`
}

// ReconciliationInfo is the reconciliation state carried by a notification.
type ReconciliationInfo struct {
	Status  string   `json:"status"`
	Reasons []string `json:"reasons"`
}

// NotificationSnapshot is created when a notification is triggered and is
// never modified afterwards.
type NotificationSnapshot struct {
	SnapshotID     string             `json:"snapshotId"`
	TsUtc          time.Time          `json:"tsUtc"`
	GroupID        string             `json:"groupId"`
	AppointmentID  string             `json:"appointmentId"`
	Title          string             `json:"title"`
	Time           NotificationTime   `json:"time"`
	Location       string             `json:"location,omitempty"`
	Reconciliation ReconciliationInfo `json:"reconciliation"`
	DeepLink       string             `json:"deepLink"`
	ActorEmail     string             `json:"actorEmail"`
}

// SnapshotInput collects what a notification snapshot is built from.
type SnapshotInput struct {
	GroupID        string
	Appointment    appointment.Appointment
	Reconciliation appointment.Reconciliation
	// ExtraReasons are appended after the reconciliation reasons, e.g.
	// availability conflicts of group members.
	ExtraReasons []string
	ActorEmail   string
	BaseURL      string
	Now          time.Time
}

// NewNotificationSnapshot builds a snapshot with a fresh id.
func NewNotificationSnapshot(in SnapshotInput) NotificationSnapshot {
	now := in.Now
	if now.IsZero() {
		now = time.Now()
	}
	snap := appointment.BuildAppointmentSnapshot(in.Appointment)

	nt := NotificationTime{Timezone: snap.Tz, DurationMins: in.Appointment.DurationMins}
	if t, err := time.Parse(time.RFC3339, snap.StartIso); err == nil {
		nt.StartUtc = t.UTC()
	}
	if t, err := time.Parse(time.RFC3339, snap.EndIso); err == nil {
		nt.EndUtc = t.UTC()
		if !nt.StartUtc.IsZero() {
			nt.DurationMins = int(nt.EndUtc.Sub(nt.StartUtc) / time.Minute)
		}
	}

	reasons := append([]string{}, in.Reconciliation.Reasons...)
	reasons = append(reasons, in.ExtraReasons...)

	return NotificationSnapshot{
		SnapshotID:    uuid.NewString(),
		TsUtc:         now.UTC(),
		GroupID:       in.GroupID,
		AppointmentID: in.Appointment.ID,
		Title:         snap.Title,
		Time:          nt,
		Location:      snap.Location,
		Reconciliation: ReconciliationInfo{
			Status:  string(in.Reconciliation.Status),
			Reasons: reasons,
		},
		DeepLink:   DeepLink(in.BaseURL, in.GroupID, in.Appointment.ID),
		ActorEmail: in.ActorEmail,
	}
}

// DeepLink returns the app URL of an appointment.
func DeepLink(baseURL, groupID, appointmentID string) string {
	return strings.TrimRight(baseURL, "/") +
		"/groups/" + url.PathEscape(groupID) +
		"/appointments/" + url.PathEscape(appointmentID)
}

// End returns the end of the notification's time block, defaulting to
// start plus the duration (or DefaultDurationMins).
func (t NotificationTime) End() time.Time {
	if !t.EndUtc.IsZero() {
		return t.EndUtc
	}
	mins := t.DurationMins
	if mins <= 0 {
		mins = DefaultDurationMins
	}
	return t.StartUtc.Add(time.Duration(mins) * time.Minute)
}
