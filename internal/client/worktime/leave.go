package worktime

import (
	"time"

	"github.com/dmitrijs2005/punchkeeper/internal/client/models"
	"github.com/dmitrijs2005/punchkeeper/internal/datex"
)

// LeaveDaysUsed sums the inclusive day spans of APPROVED requests that
// already started. A range still in progress only counts up to today.
// Requests with unparsable dates are skipped.
func LeaveDaysUsed(requests []models.LeaveRequest, today time.Time) int {
	loc := today.Location()
	used := 0
	for _, r := range requests {
		if r.Status != models.StatusApproved {
			continue
		}
		start, err := datex.ParseDate(r.StartDate, loc)
		if err != nil {
			continue
		}
		end, err := datex.ParseDate(r.EndDate, loc)
		if err != nil {
			continue
		}
		if datex.CompareDays(start, today) > 0 {
			continue
		}
		if datex.CompareDays(end, today) > 0 {
			end = datex.Midnight(today)
		}
		used += datex.DaysInclusive(start, end)
	}
	return used
}
