package notify

import (
	"fmt"
	"strings"

	ical "github.com/arran4/golang-ical"
)

const icsProductID = "-//kinsync//Appointments//EN"

// ICSFile is a rendered calendar attachment.
type ICSFile struct {
	Filename string `json:"filename"`
	Content  string `json:"content"`
}

// SnapshotToICS renders a notification snapshot as a single-event calendar.
// The event UID is derived from the snapshot id, so rendering the same
// snapshot twice yields the same event. It reports false when the
// appointment has no start time yet.
func SnapshotToICS(ns NotificationSnapshot) (ICSFile, bool) {
	if ns.Time.StartUtc.IsZero() {
		return ICSFile{}, false
	}

	cal := ical.NewCalendar()
	cal.SetProductId(icsProductID)
	cal.SetMethod(ical.MethodPublish)

	event := cal.AddEvent(ns.SnapshotID + "@kinsync")
	event.SetDtStampTime(ns.TsUtc.UTC())
	event.SetStartAt(ns.Time.StartUtc.UTC())
	event.SetEndAt(ns.Time.End().UTC())

	title := ns.Title
	if title == "" {
		title = "Appointment"
	}
	event.SetSummary(title)
	if ns.Location != "" {
		event.SetLocation(ns.Location)
	}
	event.SetDescription(icsDescription(ns))
	if ns.DeepLink != "" {
		event.SetURL(ns.DeepLink)
	}

	return ICSFile{
		Filename: fmt.Sprintf("appointment-%s-%s.ics", ns.AppointmentID, ns.SnapshotID),
		Content:  cal.Serialize(ical.WithNewLineWindows),
	}, true
}

func icsDescription(ns NotificationSnapshot) string {
	var sb strings.Builder
	status := ns.Reconciliation.Status
	if status == "" {
		status = "unknown"
	}
	fmt.Fprintf(&sb, "Status: %s", status)
	for _, r := range ns.Reconciliation.Reasons {
		sb.WriteString("\n- ")
		sb.WriteString(r)
	}
	if ns.DeepLink != "" {
		sb.WriteString("\n")
		sb.WriteString(ns.DeepLink)
	}
	return sb.String()
}
