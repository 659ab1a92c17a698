package worktime

import (
	"time"

	"github.com/dmitrijs2005/punchkeeper/internal/client/models"
	"github.com/dmitrijs2005/punchkeeper/internal/datex"
)

type DaySummary struct {
	Date            time.Time
	Punches         int
	Worked          time.Duration
	Balance         time.Duration
	NeedsAdjustment bool
}

type MonthSummary struct {
	Year                  int
	Month                 time.Month
	Days                  []DaySummary
	DaysWorked            int
	TotalWorked           time.Duration
	Balance               time.Duration
	DaysNeedingAdjustment int
}

// Summarize builds the month view: one row per day that has punches, up to
// and including today. Only days with punches count toward the balance.
func Summarize(entries []models.TimeEntry, year int, month time.Month, now time.Time, required time.Duration) MonthSummary {
	s := MonthSummary{Year: year, Month: month}
	first, last := datex.MonthBounds(year, month, now.Location())

	for day := first; datex.CompareDays(day, last) <= 0; day = datex.AddDays(day, 1) {
		if datex.CompareDays(day, now) > 0 {
			break
		}
		dayEntries := DayEntries(entries, day)
		if len(dayEntries) == 0 {
			continue
		}
		worked := DailyWorked(dayEntries, day, now)
		row := DaySummary{
			Date:            day,
			Punches:         len(dayEntries),
			Worked:          worked,
			Balance:         HourBank(worked, required),
			NeedsAdjustment: NeedsAdjustment(dayEntries, day, now),
		}
		s.Days = append(s.Days, row)
		s.DaysWorked++
		s.TotalWorked += worked
		s.Balance += row.Balance
		if row.NeedsAdjustment {
			s.DaysNeedingAdjustment++
		}
	}
	return s
}
