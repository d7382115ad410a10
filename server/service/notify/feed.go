package notify

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/gorilla/feeds"
	"github.com/pkg/errors"
	"github.com/yuin/goldmark"

	"github.com/hrygo/kinsync/server/service/appointment"
)

// ChangeEntry is one notification with the changes that triggered it.
type ChangeEntry struct {
	Snapshot NotificationSnapshot   `json:"snapshot"`
	Changes  []appointment.DiffItem `json:"changes"`
}

// ChangeSummaryMarkdown renders a change list as markdown. Notes changes
// are reported without content.
func ChangeSummaryMarkdown(ns NotificationSnapshot, changes []appointment.DiffItem) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "**%s** was updated by %s.\n\n", markdownEscape(ns.Title), markdownEscape(ns.ActorEmail))
	if len(changes) == 0 {
		sb.WriteString("No visible changes.\n")
	}
	for _, c := range changes {
		sb.WriteString("- ")
		sb.WriteString(describeChange(c))
		sb.WriteString("\n")
	}
	if ns.Reconciliation.Status != "" {
		fmt.Fprintf(&sb, "\nStatus: %s\n", ns.Reconciliation.Status)
	}
	if ns.DeepLink != "" {
		fmt.Fprintf(&sb, "\n[Open appointment](%s)\n", ns.DeepLink)
	}
	return sb.String()
}

// RenderChangeSummaryHTML renders the change summary as HTML for email
// bodies. Raw HTML in user-supplied text is not passed through.
func RenderChangeSummaryHTML(ns NotificationSnapshot, changes []appointment.DiffItem) (string, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(ChangeSummaryMarkdown(ns, changes)), &buf); err != nil {
		return "", errors.Wrap(err, "failed to render change summary")
	}
	return buf.String(), nil
}

// ChangeFeed renders a group's recent notifications as an Atom feed.
func ChangeFeed(groupID, baseURL string, entries []ChangeEntry) (string, error) {
	feed := &feeds.Feed{
		Title:       "Appointment changes",
		Link:        &feeds.Link{Href: strings.TrimRight(baseURL, "/") + "/groups/" + groupID},
		Description: "Recent appointment changes for group " + groupID,
		Id:          "urn:kinsync:group:" + groupID,
	}

	var latest time.Time
	for _, e := range entries {
		html, err := RenderChangeSummaryHTML(e.Snapshot, e.Changes)
		if err != nil {
			return "", err
		}
		feed.Items = append(feed.Items, &feeds.Item{
			Id:          "urn:uuid:" + e.Snapshot.SnapshotID,
			Title:       e.Snapshot.Title,
			Link:        &feeds.Link{Href: e.Snapshot.DeepLink},
			Author:      &feeds.Author{Email: e.Snapshot.ActorEmail},
			Description: ChangeSummaryMarkdown(e.Snapshot, e.Changes),
			Content:     html,
			Created:     e.Snapshot.TsUtc,
		})
		if e.Snapshot.TsUtc.After(latest) {
			latest = e.Snapshot.TsUtc
		}
	}
	feed.Updated = latest

	return feed.ToAtom()
}

func describeChange(c appointment.DiffItem) string {
	switch c.Field {
	case appointment.FieldNotes:
		return "Notes changed"
	case appointment.FieldTime:
		before, after := "unset", "unset"
		if c.TimeBefore != nil && c.TimeBefore.StartIso != "" {
			before = c.TimeBefore.StartIso
		}
		if c.TimeAfter != nil && c.TimeAfter.StartIso != "" {
			after = c.TimeAfter.StartIso
		}
		return fmt.Sprintf("Time: %s → %s", before, after)
	default:
		return fmt.Sprintf("%s: %s → %s", fieldLabel(c.Field), orUnset(c.Before), orUnset(c.After))
	}
}

func fieldLabel(field string) string {
	if field == "" {
		return field
	}
	return strings.ToUpper(field[:1]) + field[1:]
}

func orUnset(s string) string {
	if s == "" {
		return "unset"
	}
	return markdownEscape(s)
}

var markdownEscaper = strings.NewReplacer(
	`\`, `\\`, "*", `\*`, "_", `\_`, "`", "\\`", "[", `\[`, "]", `\]`, "<", "&lt;", ">", "&gt;",
)

func markdownEscape(s string) string {
	return markdownEscaper.Replace(s)
}
