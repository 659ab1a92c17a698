// Package datex does calendar-day arithmetic for punches, adjustments and
// leave ranges.
//
// Days are compared by their year/month/day in the location of the value
// passed in, never by subtracting instants, so DST shifts and UTC offsets
// cannot move a punch to a neighbouring day.
package datex

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/punchkeeper/internal/common"
)

// ClockLayout is the "HH:MM" format of draft punch times.
const ClockLayout = "15:04"

// ParseDate parses a YYYY-MM-DD string as local midnight in loc.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	t, err := time.ParseInLocation(common.DateLayout, strings.TrimSpace(s), loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return t, nil
}

// FormatDate renders the calendar day of t as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(common.DateLayout)
}

// Midnight truncates t to the start of its calendar day in t's location.
func Midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// EndOfDay returns 23:59:59 of t's calendar day.
func EndOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, 0, t.Location())
}

// AddDays moves t by n calendar days keeping the wall clock.
func AddDays(t time.Time, n int) time.Time {
	return t.AddDate(0, 0, n)
}

// SameDay reports whether a and b fall on the same calendar day. b is
// viewed in a's location.
func SameDay(a, b time.Time) bool {
	return CompareDays(a, b) == 0
}

// CompareDays orders the calendar days of a and b: -1, 0 or +1.
func CompareDays(a, b time.Time) int {
	da, db := dayNumber(a), dayNumber(b.In(a.Location()))
	switch {
	case da < db:
		return -1
	case da > db:
		return 1
	default:
		return 0
	}
}

// DaysInclusive counts the calendar days from start to end, both included.
// It returns 0 when end is before start.
func DaysInclusive(start, end time.Time) int {
	n := dayNumber(end.In(start.Location())) - dayNumber(start) + 1
	if n < 0 {
		return 0
	}
	return n
}

func dayNumber(t time.Time) int {
	y, m, d := t.Date()
	return int(time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Unix() / 86400)
}

// ParseClock validates an "HH:MM" string and returns hours and minutes.
func ParseClock(s string) (int, int, error) {
	s = strings.TrimSpace(s)
	parts := strings.Split(s, ":")
	if len(parts) != 2 || len(parts[0]) == 0 || len(parts[0]) > 2 || len(parts[1]) != 2 {
		return 0, 0, fmt.Errorf("invalid time %q, want HH:MM", s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, 0, fmt.Errorf("invalid hour in %q", s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, 0, fmt.Errorf("invalid minute in %q", s)
	}
	return h, m, nil
}

// CombineClock places an "HH:MM" wall-clock time on day's calendar date.
func CombineClock(day time.Time, hhmm string) (time.Time, error) {
	h, m, err := ParseClock(hhmm)
	if err != nil {
		return time.Time{}, err
	}
	y, mo, d := day.Date()
	return time.Date(y, mo, d, h, m, 0, 0, day.Location()), nil
}

// FormatClock renders t as HH:MM.
func FormatClock(t time.Time) string {
	return t.Format(ClockLayout)
}

// MonthBounds returns the first and last calendar day of a month in loc.
func MonthBounds(year int, month time.Month, loc *time.Location) (time.Time, time.Time) {
	if loc == nil {
		loc = time.Local
	}
	first := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	last := first.AddDate(0, 1, -1)
	return first, last
}

// MonthsOfService counts whole months between hireDate (YYYY-MM-DD) and
// today. Missing, invalid or future hire dates give 0.
func MonthsOfService(hireDate string, today time.Time) int {
	hired, err := ParseDate(hireDate, today.Location())
	if err != nil {
		return 0
	}
	if CompareDays(hired, today) > 0 {
		return 0
	}

	hy, hm, hd := hired.Date()
	ty, tm, td := today.Date()
	months := (ty-hy)*12 + int(tm-hm)
	if td < hd {
		months--
	}
	if months < 0 {
		return 0
	}
	return months
}
