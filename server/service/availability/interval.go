// Package availability evaluates per-person availability rules against
// candidate appointment times.
//
// It provides minute-of-day interval arithmetic for date-scoped rules,
// normalization of UTC-scoped (v2) rules, and the status engine that decides
// whether a person is available for a candidate interval.
package availability

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	// MinutesPerDay is the exclusive upper bound of a day in minutes.
	MinutesPerDay = 1440

	// DefaultDurationMins applies when an interval has a start time but no duration.
	DefaultDurationMins = 60
)

// Interval is a date-scoped time window. An empty StartTime means the whole day.
type Interval struct {
	Date         string `json:"date"`
	StartTime    string `json:"startTime,omitempty"`
	DurationMins int    `json:"durationMins,omitempty"`
}

// Bounds is a half-open [Start, End) range in minutes since midnight.
type Bounds struct {
	Start int
	End   int
}

// ToMinutes converts "HH:MM" to minutes since midnight.
// Empty or malformed input yields 0.
func ToMinutes(hhmm string) int {
	hhmm = strings.TrimSpace(hhmm)
	if hhmm == "" {
		return 0
	}
	parts := strings.SplitN(hhmm, ":", 2)
	if len(parts) != 2 {
		return 0
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0
	}
	return h*60 + m
}

// FromMinutes formats minutes since midnight as zero-padded "HH:MM".
func FromMinutes(mins int) string {
	return fmt.Sprintf("%02d:%02d", mins/60, mins%60)
}

// IntervalBounds returns the minute bounds of an interval. Whole-day
// intervals span [0, 1440); otherwise the end is clamped to the end of day.
func IntervalBounds(iv Interval) Bounds {
	if strings.TrimSpace(iv.StartTime) == "" {
		return Bounds{Start: 0, End: MinutesPerDay}
	}
	start := ToMinutes(iv.StartTime)
	dur := iv.DurationMins
	if dur <= 0 {
		dur = DefaultDurationMins
	}
	return Bounds{Start: start, End: min(MinutesPerDay, start+dur)}
}

// Overlaps reports whether two half-open ranges intersect.
func Overlaps(a, b Bounds) bool {
	return a.Start < b.End && a.End > b.Start
}

// DescribeInterval renders an interval for humans, e.g.
// "2026-03-03 13:00-14:00" or "2026-03-03 (all day)".
func DescribeInterval(iv Interval) string {
	if strings.TrimSpace(iv.StartTime) == "" {
		return fmt.Sprintf("%s (all day)", iv.Date)
	}
	b := IntervalBounds(iv)
	return fmt.Sprintf("%s %s-%s", iv.Date, FromMinutes(b.Start), FromMinutes(b.End))
}
