package api

import (
	"github.com/dmitrijs2005/punchkeeper/internal/server/models"
	"github.com/dmitrijs2005/punchkeeper/internal/server/services"
	"github.com/dmitrijs2005/punchkeeper/internal/wire"
)

func timeEntryFromWire(in wire.TimeEntry) *models.TimeEntry {
	return &models.TimeEntry{
		ID:                  in.ID,
		TenantID:            in.TenantID,
		UserID:              in.UserID,
		Type:                models.PunchType(in.Type),
		Timestamp:           in.Timestamp,
		Latitude:            in.Latitude,
		Longitude:           in.Longitude,
		Accuracy:            in.Accuracy,
		PhotoURL:            in.PhotoURL,
		VerificationSkipped: in.VerificationSkipped,
	}
}

func timeEntryToWire(e *models.TimeEntry) wire.TimeEntry {
	return wire.TimeEntry{
		ID:                  e.ID,
		TenantID:            e.TenantID,
		UserID:              e.UserID,
		Type:                string(e.Type),
		Timestamp:           e.Timestamp,
		Latitude:            e.Latitude,
		Longitude:           e.Longitude,
		Accuracy:            e.Accuracy,
		PhotoURL:            e.PhotoURL,
		VerificationSkipped: e.VerificationSkipped,
	}
}

// adjustmentFromWire drops id, status and review fields: the server owns them.
func adjustmentFromWire(in wire.TimeAdjustment) *models.TimeAdjustment {
	punches := make([]models.RequestedPunch, 0, len(in.RequestedPunches))
	for _, p := range in.RequestedPunches {
		punches = append(punches, models.RequestedPunch{
			Time:        p.Time,
			Type:        models.PunchType(p.Type),
			Reason:      p.Reason,
			DocumentURL: p.DocumentURL,
		})
	}
	return &models.TimeAdjustment{
		TenantID:          in.TenantID,
		UserID:            in.UserID,
		EmployeeName:      in.EmployeeName,
		Date:              in.Date,
		ClockIn:           in.ClockIn,
		ClockOut:          in.ClockOut,
		RequestedClockIn:  in.RequestedClockIn,
		RequestedClockOut: in.RequestedClockOut,
		RequestedPunches:  punches,
		Reason:            in.Reason,
		DocumentURL:       in.DocumentURL,
	}
}

func adjustmentToWire(a *models.TimeAdjustment) wire.TimeAdjustment {
	punches := make([]wire.RequestedPunch, 0, len(a.RequestedPunches))
	for _, p := range a.RequestedPunches {
		punches = append(punches, wire.RequestedPunch{
			Time:        p.Time,
			Type:        string(p.Type),
			Reason:      p.Reason,
			DocumentURL: p.DocumentURL,
		})
	}
	return wire.TimeAdjustment{
		ID:                a.ID,
		TenantID:          a.TenantID,
		UserID:            a.UserID,
		EmployeeName:      a.EmployeeName,
		Date:              a.Date,
		ClockIn:           a.ClockIn,
		ClockOut:          a.ClockOut,
		RequestedClockIn:  a.RequestedClockIn,
		RequestedClockOut: a.RequestedClockOut,
		RequestedPunches:  punches,
		Reason:            a.Reason,
		DocumentURL:       a.DocumentURL,
		Status:            string(a.Status),
		ReviewedBy:        a.ReviewedBy,
		ReviewedAt:        a.ReviewedAt,
		CreatedAt:         a.CreatedAt,
	}
}

func leaveFromWire(in wire.LeaveRequest) *models.LeaveRequest {
	return &models.LeaveRequest{
		TenantID:  in.TenantID,
		UserID:    in.UserID,
		LeaveType: models.LeaveType(in.LeaveType),
		StartDate: in.StartDate,
		EndDate:   in.EndDate,
		Days:      in.Days,
		Reason:    in.Reason,
		Status:    models.Status(in.Status),
	}
}

func leaveToWire(r *models.LeaveRequest) wire.LeaveRequest {
	return wire.LeaveRequest{
		ID:        r.ID,
		TenantID:  r.TenantID,
		UserID:    r.UserID,
		LeaveType: string(r.LeaveType),
		StartDate: r.StartDate,
		EndDate:   r.EndDate,
		Days:      r.Days,
		Reason:    r.Reason,
		Status:    string(r.Status),
		CreatedAt: r.CreatedAt,
	}
}

func balanceToWire(b models.LeaveBalance) wire.LeaveBalance {
	return wire.LeaveBalance{
		LeaveType:     string(b.LeaveType),
		EntitledDays:  b.EntitledDays,
		UsedDays:      b.UsedDays,
		PendingDays:   b.PendingDays,
		RemainingDays: b.RemainingDays,
	}
}

func expenseFromWire(in wire.ExpenseClaim) *models.ExpenseClaim {
	return &models.ExpenseClaim{
		TenantID:    in.TenantID,
		UserID:      in.UserID,
		ExpenseDate: in.ExpenseDate,
		Category:    in.Category,
		Description: in.Description,
		Amount:      in.Amount,
		Currency:    in.Currency,
		ReceiptURL:  in.ReceiptURL,
		Status:      models.Status(in.Status),
	}
}

func expenseToWire(c *models.ExpenseClaim) wire.ExpenseClaim {
	return wire.ExpenseClaim{
		ID:          c.ID,
		TenantID:    c.TenantID,
		UserID:      c.UserID,
		ExpenseDate: c.ExpenseDate,
		Category:    c.Category,
		Description: c.Description,
		Amount:      c.Amount,
		Currency:    c.Currency,
		ReceiptURL:  c.ReceiptURL,
		Status:      string(c.Status),
		CreatedAt:   c.CreatedAt,
	}
}

func uploadToWire(u *services.Upload) wire.Upload {
	return wire.Upload{Key: u.Key, UploadURL: u.URL, ExpiresAt: u.ExpiresAt}
}

func mapSlice[T any, W any](in []T, f func(T) W) []W {
	out := make([]W, 0, len(in))
	for _, v := range in {
		out = append(out, f(v))
	}
	return out
}
