package datex

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustLoc(t *testing.T, name string) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation(name)
	if err != nil {
		t.Skipf("tzdata for %s unavailable: %v", name, err)
	}
	return loc
}

func TestParseDate(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*3600)

	got, err := ParseDate("2024-06-01", loc)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 6, 1, 0, 0, 0, 0, loc), got)

	_, err = ParseDate("01/06/2024", loc)
	require.Error(t, err)

	_, err = ParseDate("", loc)
	require.Error(t, err)
}

func TestDaysInclusive(t *testing.T) {
	day := func(s string) time.Time {
		d, err := ParseDate(s, time.UTC)
		require.NoError(t, err)
		return d
	}

	assert.Equal(t, 5, DaysInclusive(day("2024-06-01"), day("2024-06-05")))
	assert.Equal(t, 1, DaysInclusive(day("2024-06-01"), day("2024-06-01")))
	assert.Equal(t, 0, DaysInclusive(day("2024-06-05"), day("2024-06-01")))
	assert.Equal(t, 30, DaysInclusive(day("2024-02-01"), day("2024-03-01")))
}

func TestDaysInclusive_AcrossDST(t *testing.T) {
	loc := mustLoc(t, "Europe/Riga")

	start := time.Date(2024, 3, 30, 0, 0, 0, 0, loc)
	end := time.Date(2024, 4, 2, 0, 0, 0, 0, loc)

	assert.Equal(t, 4, DaysInclusive(start, end))
}

func TestSameDayAndCompare(t *testing.T) {
	loc := time.FixedZone("UTC-5", -5*3600)
	late := time.Date(2024, 6, 1, 23, 30, 0, 0, loc)
	early := time.Date(2024, 6, 1, 0, 5, 0, 0, loc)
	next := time.Date(2024, 6, 2, 0, 0, 0, 0, loc)

	assert.True(t, SameDay(late, early))
	assert.False(t, SameDay(late, next))
	assert.Equal(t, -1, CompareDays(early, next))
	assert.Equal(t, 1, CompareDays(next, late))

	// 04:30 UTC on June 2nd is still June 1st in UTC-5.
	assert.True(t, SameDay(late, time.Date(2024, 6, 2, 4, 30, 0, 0, time.UTC)))
}

func TestMidnightAndEndOfDay(t *testing.T) {
	ts := time.Date(2024, 6, 1, 13, 45, 12, 99, time.UTC)

	assert.Equal(t, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), Midnight(ts))
	assert.Equal(t, time.Date(2024, 6, 1, 23, 59, 59, 0, time.UTC), EndOfDay(ts))
}

func TestParseClock(t *testing.T) {
	tests := []struct {
		in      string
		h, m    int
		wantErr bool
	}{
		{in: "08:00", h: 8, m: 0},
		{in: "8:05", h: 8, m: 5},
		{in: " 23:59 ", h: 23, m: 59},
		{in: "24:00", wantErr: true},
		{in: "12:60", wantErr: true},
		{in: "1200", wantErr: true},
		{in: "", wantErr: true},
		{in: "ab:cd", wantErr: true},
		{in: "12:5", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			h, m, err := ParseClock(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.h, h)
			assert.Equal(t, tt.m, m)
		})
	}
}

func TestCombineClock(t *testing.T) {
	day := time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)

	got, err := CombineClock(day, "13:30")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 6, 3, 13, 30, 0, 0, time.UTC), got)
	assert.Equal(t, "13:30", FormatClock(got))

	_, err = CombineClock(day, "later")
	require.Error(t, err)
}

func TestMonthBounds(t *testing.T) {
	first, last := MonthBounds(2024, time.February, time.UTC)

	assert.Equal(t, "2024-02-01", FormatDate(first))
	assert.Equal(t, "2024-02-29", FormatDate(last))
}

func TestMonthsOfService(t *testing.T) {
	today := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		hire string
		want int
	}{
		{"", 0},
		{"not-a-date", 0},
		{"2025-01-01", 0},
		{"2024-06-10", 0},
		{"2024-05-10", 1},
		{"2024-05-11", 0},
		{"2023-06-10", 12},
		{"2023-06-11", 11},
		{"2020-01-31", 52},
	}
	for _, tt := range tests {
		t.Run(tt.hire, func(t *testing.T) {
			assert.Equal(t, tt.want, MonthsOfService(tt.hire, today))
		})
	}
}
