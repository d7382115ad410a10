// Package timezone provides timezone helpers shared by the parser, the
// snapshot builder and the schedule service.
package timezone

import (
	"time"

	"github.com/pkg/errors"
)

// UTC is the zone used when none is given.
const UTC = "UTC"

// ParseTimezone parses an IANA timezone identifier (e.g., "America/Los_Angeles").
// The empty string means UTC. If the timezone is invalid, returns UTC and an error.
func ParseTimezone(tz string) (*time.Location, error) {
	if tz == "" || tz == UTC {
		return time.UTC, nil
	}

	loc, err := time.LoadLocation(tz)
	if err != nil {
		return time.UTC, errors.Wrapf(err, "invalid timezone %q", tz)
	}
	return loc, nil
}

// LocationOrUTC parses tz and falls back to UTC when it is unknown.
func LocationOrUTC(tz string) *time.Location {
	loc, _ := ParseTimezone(tz)
	return loc
}

// IsValidTimezone checks if a timezone identifier is valid.
func IsValidTimezone(tz string) bool {
	_, err := ParseTimezone(tz)
	return err == nil
}

// LocalDate formats t as a calendar date in loc.
func LocalDate(t time.Time, loc *time.Location) string {
	return t.In(orUTC(loc)).Format(time.DateOnly)
}

// LocalClock formats t as a zero-padded 24-hour HH:MM in loc.
func LocalClock(t time.Time, loc *time.Location) string {
	return t.In(orUTC(loc)).Format("15:04")
}

// StartOfDay returns the start of the day (00:00:00) in the given timezone.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	loc = orUTC(loc)
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

func orUTC(loc *time.Location) *time.Location {
	if loc == nil {
		return time.UTC
	}
	return loc
}
