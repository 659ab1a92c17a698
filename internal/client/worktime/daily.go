package worktime

import (
	"fmt"
	"sort"
	"time"

	"github.com/dmitrijs2005/punchkeeper/internal/client/models"
	"github.com/dmitrijs2005/punchkeeper/internal/datex"
)

const (
	DefaultRequired = 8 * time.Hour

	// A closed day is fine when worked minutes fall in [ToleranceLow, ToleranceHigh].
	ToleranceLow  = 470 * time.Minute
	ToleranceHigh = 490 * time.Minute
)

// DayEntries filters entries to day's calendar date, sorted by time.
func DayEntries(entries []models.TimeEntry, day time.Time) []models.TimeEntry {
	var out []models.TimeEntry
	for _, e := range entries {
		if datex.SameDay(day, e.Timestamp) {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.Before(out[j].Timestamp) })
	return out
}

// Bounds returns the earliest CLOCK_IN and latest CLOCK_OUT of day.
func Bounds(entries []models.TimeEntry, day time.Time) (firstIn, lastOut *time.Time) {
	for _, e := range DayEntries(entries, day) {
		ts := e.Timestamp
		switch e.Type {
		case models.ClockIn:
			if firstIn == nil || ts.Before(*firstIn) {
				firstIn = &ts
			}
		case models.ClockOut:
			if lastOut == nil || ts.After(*lastOut) {
				lastOut = &ts
			}
		}
	}
	return firstIn, lastOut
}

// DailyWorked is the span from the earliest CLOCK_IN to the latest
// CLOCK_OUT of day. Breaks in between are not subtracted. While day is
// today and nobody clocked out yet, the span runs up to now. Never negative.
func DailyWorked(entries []models.TimeEntry, day, now time.Time) time.Duration {
	firstIn, lastOut := Bounds(entries, day)
	if firstIn == nil {
		return 0
	}

	var end time.Time
	switch {
	case lastOut != nil:
		end = *lastOut
	case datex.SameDay(day, now):
		end = now
	default:
		return 0
	}

	if d := end.Sub(*firstIn); d > 0 {
		return d
	}
	return 0
}

// HourBank is the signed difference between worked and required.
func HourBank(worked, required time.Duration) time.Duration {
	return worked - required
}

// FormatSigned renders a balance as "+1h05m" or "-0h20m".
func FormatSigned(d time.Duration) string {
	sign := "+"
	if d < 0 {
		sign = "-"
		d = -d
	}
	return sign + FormatDuration(d)
}

// FormatDuration renders a non-negative duration as "8h00m".
func FormatDuration(d time.Duration) string {
	d = d.Truncate(time.Minute)
	h := d / time.Hour
	m := (d % time.Hour) / time.Minute
	return fmt.Sprintf("%dh%02dm", h, m)
}

// NeedsAdjustment flags a closed day whose punches look wrong: an odd count
// or a span outside the tolerance band. Today and future days are never
// flagged, and neither are days without punches.
func NeedsAdjustment(entries []models.TimeEntry, day, today time.Time) bool {
	if datex.CompareDays(day, today) >= 0 {
		return false
	}
	dayEntries := DayEntries(entries, day)
	if len(dayEntries) == 0 {
		return false
	}
	if len(dayEntries)%2 == 1 {
		return true
	}
	worked := DailyWorked(dayEntries, day, today).Truncate(time.Minute)
	return worked < ToleranceLow || worked > ToleranceHigh
}
