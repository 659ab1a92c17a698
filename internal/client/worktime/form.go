package worktime

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/punchkeeper/internal/client/models"
	"github.com/dmitrijs2005/punchkeeper/internal/datex"
	"github.com/dmitrijs2005/punchkeeper/internal/validator"
)

// MaxLeaveDays caps every leave type except maternity.
const MaxLeaveDays = 30

var NoticeLeaveCapped = fmt.Sprintf("Leave is limited to %d days; adjusted to %d", MaxLeaveDays, MaxLeaveDays)

// LeaveForm keeps the start date, end date and day count of a leave
// request consistent while the user edits any of them. Dates are
// YYYY-MM-DD strings, NumDays is the raw text of the day-count field.
type LeaveForm struct {
	Type      models.LeaveType
	StartDate string
	EndDate   string
	NumDays   string
	Reason    string
	// Notice is set when an edit was silently corrected.
	Notice   string
	Location *time.Location
}

func NewLeaveForm(t models.LeaveType, loc *time.Location) *LeaveForm {
	return &LeaveForm{Type: t, Location: loc}
}

func (f *LeaveForm) loc() *time.Location {
	if f.Location == nil {
		return time.Local
	}
	return f.Location
}

func (f *LeaveForm) capped() bool {
	return f.Type != models.LeaveMaternity
}

func (f *LeaveForm) SetType(t models.LeaveType) {
	f.Type = t
	f.Notice = ""
	f.recompute()
}

// SetStart updates the start date and recomputes NumDays.
func (f *LeaveForm) SetStart(s string) {
	f.StartDate = strings.TrimSpace(s)
	f.Notice = ""
	f.recompute()
}

// SetEnd updates the end date and recomputes NumDays.
func (f *LeaveForm) SetEnd(s string) {
	f.EndDate = strings.TrimSpace(s)
	f.Notice = ""
	f.recompute()
}

func (f *LeaveForm) recompute() {
	start, err := datex.ParseDate(f.StartDate, f.loc())
	if err != nil {
		return
	}
	end, err := datex.ParseDate(f.EndDate, f.loc())
	if err != nil {
		return
	}

	n := datex.DaysInclusive(start, end)
	if n == 0 {
		f.NumDays = ""
		return
	}
	if f.capped() && n > MaxLeaveDays {
		n = MaxLeaveDays
		f.EndDate = datex.FormatDate(datex.AddDays(start, n-1))
		f.Notice = NoticeLeaveCapped
	}
	f.NumDays = strconv.Itoa(n)
}

// SetNumDays takes the day-count field and moves the end date. Without a
// start date the range starts today. Non-numeric or non-positive input is
// kept as typed and changes nothing else.
func (f *LeaveForm) SetNumDays(s string, today time.Time) {
	f.NumDays = strings.TrimSpace(s)
	f.Notice = ""

	n, err := strconv.Atoi(f.NumDays)
	if err != nil || n <= 0 {
		return
	}

	start, err := datex.ParseDate(f.StartDate, f.loc())
	if err != nil {
		start = datex.Midnight(today.In(f.loc()))
		f.StartDate = datex.FormatDate(start)
	}

	if f.capped() && n > MaxLeaveDays {
		n = MaxLeaveDays
		f.NumDays = strconv.Itoa(n)
		f.Notice = NoticeLeaveCapped
	}
	f.EndDate = datex.FormatDate(datex.AddDays(start, n-1))
}

// Days is the parsed day count, 0 when the field is not a number.
func (f *LeaveForm) Days() int {
	n, err := strconv.Atoi(f.NumDays)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// Validate runs before anything is queued or sent.
func (f *LeaveForm) Validate(today time.Time) error {
	var errs validator.ValidationErrors

	if !f.Type.Valid() {
		errs.Add("leave_type", "is not a known leave type")
	}

	start, startErr := datex.ParseDate(f.StartDate, f.loc())
	if startErr != nil {
		errs.Add("start_date", "must be a date in YYYY-MM-DD format")
	}
	end, endErr := datex.ParseDate(f.EndDate, f.loc())
	if endErr != nil {
		errs.Add("end_date", "must be a date in YYYY-MM-DD format")
	}

	if startErr == nil && endErr == nil {
		if datex.CompareDays(end, start) < 0 {
			errs.Add("end_date", "must not be before start date")
		}
		if datex.CompareDays(start, today) < 0 {
			errs.Add("start_date", "must not be in the past")
		}
		if f.capped() && datex.DaysInclusive(start, end) > MaxLeaveDays {
			errs.Add("num_days", fmt.Sprintf("must not exceed %d", MaxLeaveDays))
		}
	}

	return errs.Err()
}

// Request turns a valid form into a leave request owned by scope.
func (f *LeaveForm) Request(scope models.Scope) models.LeaveRequest {
	days := f.Days()
	if start, err := datex.ParseDate(f.StartDate, f.loc()); err == nil {
		if end, err := datex.ParseDate(f.EndDate, f.loc()); err == nil {
			days = datex.DaysInclusive(start, end)
		}
	}
	return models.LeaveRequest{
		TenantID:  scope.TenantID,
		UserID:    scope.UserID,
		Type:      f.Type,
		StartDate: f.StartDate,
		EndDate:   f.EndDate,
		Days:      days,
		Reason:    strings.TrimSpace(f.Reason),
		Status:    models.StatusPending,
	}
}
