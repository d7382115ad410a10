package appointment

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/hrygo/kinsync/internal/timezone"
)

// SnapshotVersion is the current snapshot format version.
const SnapshotVersion = 1

// notesHashLen is the number of hex characters kept from the notes digest.
const notesHashLen = 12

// Snapshot is an immutable projection of an appointment used for change
// detection. Notes are represented only by a truncated digest.
type Snapshot struct {
	V         int    `json:"v"`
	Title     string `json:"title,omitempty"`
	StartIso  string `json:"startIso,omitempty"`
	EndIso    string `json:"endIso,omitempty"`
	Tz        string `json:"tz,omitempty"`
	Location  string `json:"location,omitempty"`
	Status    string `json:"status,omitempty"`
	NotesHash string `json:"notesHash,omitempty"`
}

// TimeBlock is the time part of a snapshot.
func (s Snapshot) TimeBlock() TimeBlock {
	return TimeBlock{StartIso: s.StartIso, EndIso: s.EndIso, Tz: s.Tz}
}

// TimeBlock groups the start, end and timezone of an appointment.
type TimeBlock struct {
	StartIso string `json:"startIso,omitempty"`
	EndIso   string `json:"endIso,omitempty"`
	Tz       string `json:"tz,omitempty"`
}

// BuildAppointmentSnapshot projects appt into a Snapshot.
//
// The time block prefers a resolved interval, then explicit start and end,
// then the raw date and start time.
func BuildAppointmentSnapshot(appt Appointment) Snapshot {
	snap := Snapshot{
		V:        SnapshotVersion,
		Title:    appt.Title,
		Location: appt.Location.Text(),
		Status:   appt.Status,
	}
	if snap.Title == "" {
		snap.Title = appt.Desc
	}

	tb := appointmentTime(appt)
	snap.StartIso, snap.EndIso, snap.Tz = tb.StartIso, tb.EndIso, tb.Tz

	if appt.Notes != "" {
		snap.NotesHash = HashNotes(appt.Notes)
	}
	return snap
}

// HashNotes returns the truncated hex SHA-256 digest of notes.
func HashNotes(notes string) string {
	sum := sha256.Sum256([]byte(notes))
	return hex.EncodeToString(sum[:])[:notesHashLen]
}

func appointmentTime(appt Appointment) TimeBlock {
	if appt.Time != nil && appt.Time.Resolved != nil {
		r := appt.Time.Resolved
		return TimeBlock{
			StartIso: formatISO(r.StartUtc),
			EndIso:   formatISO(r.EndUtc),
			Tz:       r.Timezone,
		}
	}

	if appt.Start != "" {
		return TimeBlock{StartIso: appt.Start, EndIso: appt.End, Tz: appt.Timezone}
	}

	if appt.Date == "" {
		return TimeBlock{Tz: appt.Timezone}
	}

	loc := timezone.LocationOrUTC(appt.Timezone)
	day, err := time.ParseInLocation(time.DateOnly, appt.Date, loc)
	if err != nil {
		return TimeBlock{Tz: appt.Timezone}
	}

	if appt.StartTime == "" {
		return TimeBlock{
			StartIso: formatISO(day),
			EndIso:   formatISO(day.AddDate(0, 0, 1)),
			Tz:       appt.Timezone,
		}
	}

	clock, err := time.Parse("15:04", appt.StartTime)
	if err != nil {
		return TimeBlock{StartIso: formatISO(day), Tz: appt.Timezone}
	}
	start := time.Date(day.Year(), day.Month(), day.Day(), clock.Hour(), clock.Minute(), 0, 0, loc)
	dur := appt.DurationMins
	if dur <= 0 {
		dur = 60
	}
	return TimeBlock{
		StartIso: formatISO(start),
		EndIso:   formatISO(start.Add(time.Duration(dur) * time.Minute)),
		Tz:       appt.Timezone,
	}
}

func formatISO(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
