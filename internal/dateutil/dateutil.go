// Package dateutil provides the Monday-start week arithmetic used by the
// schedule, override and streak logic. All operations take an explicit
// reference time so week-boundary behaviour is deterministic in tests.
package dateutil

import (
	"fmt"
	"time"
)

// DayFormat is the wire format for all dates (YYYY-MM-DD).
const DayFormat = "2006-01-02"

// Clock supplies "today". Production code uses System; tests inject a Fixed
// clock to pin week boundaries.
type Clock interface {
	Today() time.Time
}

type systemClock struct{}

func (systemClock) Today() time.Time { return time.Now() }

// System is the wall-clock implementation of Clock.
var System Clock = systemClock{}

// Fixed is a Clock pinned to a single day, for tests.
type Fixed struct {
	Day time.Time
}

func (f Fixed) Today() time.Time { return f.Day }

// DayIndex returns the weekday as 0=Monday..6=Sunday.
func DayIndex(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

// WeekStart returns the Monday of t's calendar week, at midnight.
func WeekStart(t time.Time) time.Time {
	y, m, d := t.Date()
	midnight := time.Date(y, m, d, 0, 0, 0, 0, t.Location())
	return midnight.AddDate(0, 0, -DayIndex(t))
}

// WeekEnd returns the Sunday of t's calendar week.
func WeekEnd(t time.Time) time.Time {
	return WeekStart(t).AddDate(0, 0, 6)
}

// WorkWeekEnd returns the Friday of t's calendar week. The skip/shift
// engine never touches Saturday or Sunday.
func WorkWeekEnd(t time.Time) time.Time {
	return WeekStart(t).AddDate(0, 0, 4)
}

// FormatDay renders a time as a wire date.
func FormatDay(t time.Time) string {
	return t.Format(DayFormat)
}

// ParseDay parses a strict YYYY-MM-DD date. Anything else, including
// normalisable dates like 2025-02-30, is rejected.
func ParseDay(s string) (time.Time, error) {
	t, err := time.Parse(DayFormat, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	if t.Format(DayFormat) != s {
		return time.Time{}, fmt.Errorf("invalid date %q", s)
	}
	return t, nil
}
