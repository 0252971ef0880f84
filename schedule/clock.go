package schedule

import (
	"fmt"
	"time"
)

// =============================================================================
// CLOCK TIME - Wall-clock HH:MM values and the midnight-crossing rule
// =============================================================================

// ClockTime is a wall-clock time of day with minute precision.
// It carries no date; shifts combine it with a calendar date.
type ClockTime struct {
	Hour   int
	Minute int
}

// ParseClock parses a strict HH:MM string (24-hour, zero-padded).
// Malformed input returns a TimeFormatError wrapping ErrInvalidTimeFormat.
func ParseClock(s string) (ClockTime, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return ClockTime{}, &TimeFormatError{Value: s}
	}
	return ClockTime{Hour: t.Hour(), Minute: t.Minute()}, nil
}

// MustClock parses HH:MM and panics on malformed input.
// Intended for static definitions and tests only.
func MustClock(s string) ClockTime {
	c, err := ParseClock(s)
	if err != nil {
		panic(err)
	}
	return c
}

func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

func (c ClockTime) Minutes() int { return c.Hour*60 + c.Minute }

// Before reports whether c is numerically earlier in the day than other.
func (c ClockTime) Before(other ClockTime) bool { return c.Minutes() < other.Minutes() }

// On places the clock time on a calendar date, in the date's location.
func (c ClockTime) On(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), c.Hour, c.Minute, 0, 0, date.Location())
}

// =============================================================================
// DURATION - Elapsed hours between two times of day
// =============================================================================

// HoursBetween returns the elapsed hours from start to end, both HH:MM.
// If end is numerically at or before start, the span crosses midnight and
// 24 hours are added to end before subtracting. This single rule is applied
// everywhere shift length is computed: rest-period end resolution and payroll.
func HoursBetween(start, end string) (float64, error) {
	s, err := ParseClock(start)
	if err != nil {
		return 0, err
	}
	e, err := ParseClock(end)
	if err != nil {
		return 0, err
	}
	return hoursBetween(s, e), nil
}

func hoursBetween(start, end ClockTime) float64 {
	minutes := end.Minutes() - start.Minutes()
	if minutes <= 0 {
		minutes += 24 * 60
	}
	return float64(minutes) / 60
}

// spanEnd resolves the true end instant of a start/end window anchored on a
// calendar date, applying the midnight-crossing rule relative to the window's
// own start.
func spanEnd(date time.Time, start, end ClockTime) time.Time {
	endAt := end.On(date)
	if end.Minutes() <= start.Minutes() {
		endAt = endAt.AddDate(0, 0, 1)
	}
	return endAt
}

// DateOnly truncates an instant to its calendar day at midnight UTC.
// Shift dates are always stored this way so inclusive range checks are
// plain time comparisons.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD calendar date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, &TimeFormatError{Value: s}
	}
	return t, nil
}

// FormatDate renders a calendar date as YYYY-MM-DD.
func FormatDate(t time.Time) string { return t.Format("2006-01-02") }
