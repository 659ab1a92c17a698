package client

import (
	"github.com/dmitrijs2005/punchkeeper/internal/client/models"
	"github.com/dmitrijs2005/punchkeeper/internal/wire"
)

// Every record crossing the wire goes through exactly one of the functions
// below. Provisional ids never leave the device: the server assigns ids.

func wireID(id string) string {
	if models.IsProvisional(id) {
		return ""
	}
	return id
}

func timeEntryToWire(e models.TimeEntry) wire.TimeEntry {
	w := wire.TimeEntry{
		ID:                  e.ID,
		TenantID:            e.TenantID,
		UserID:              e.UserID,
		Type:                string(e.Type),
		Timestamp:           e.Timestamp,
		PhotoURL:            e.PhotoURL,
		VerificationSkipped: e.VerificationSkipped,
	}
	if e.Location != nil {
		lat, lon, acc := e.Location.Latitude, e.Location.Longitude, e.Location.Accuracy
		w.Latitude, w.Longitude, w.Accuracy = &lat, &lon, &acc
	}
	return w
}

func timeEntryFromWire(w wire.TimeEntry) models.TimeEntry {
	e := models.TimeEntry{
		ID:                  w.ID,
		TenantID:            w.TenantID,
		UserID:              w.UserID,
		Type:                models.PunchType(w.Type),
		Timestamp:           w.Timestamp,
		PhotoURL:            w.PhotoURL,
		VerificationSkipped: w.VerificationSkipped,
		Synced:              true,
	}
	if w.Latitude != nil && w.Longitude != nil {
		e.Location = &models.Location{Latitude: *w.Latitude, Longitude: *w.Longitude}
		if w.Accuracy != nil {
			e.Location.Accuracy = *w.Accuracy
		}
	}
	return e
}

func adjustmentToWire(a models.AdjustmentRequest) wire.TimeAdjustment {
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
		ID:                wireID(a.ID),
		TenantID:          a.TenantID,
		UserID:            a.UserID,
		EmployeeName:      a.EmployeeName,
		Date:              a.Date,
		ClockIn:           a.OriginalClockIn,
		ClockOut:          a.OriginalClockOut,
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

func adjustmentFromWire(w wire.TimeAdjustment) models.AdjustmentRequest {
	punches := make([]models.RequestedPunch, 0, len(w.RequestedPunches))
	for _, p := range w.RequestedPunches {
		punches = append(punches, models.RequestedPunch{
			Time:        p.Time,
			Type:        models.PunchType(p.Type),
			Reason:      p.Reason,
			DocumentURL: p.DocumentURL,
		})
	}
	return models.AdjustmentRequest{
		ID:                w.ID,
		TenantID:          w.TenantID,
		UserID:            w.UserID,
		EmployeeName:      w.EmployeeName,
		Date:              w.Date,
		OriginalClockIn:   w.ClockIn,
		OriginalClockOut:  w.ClockOut,
		RequestedClockIn:  w.RequestedClockIn,
		RequestedClockOut: w.RequestedClockOut,
		RequestedPunches:  punches,
		Reason:            w.Reason,
		DocumentURL:       w.DocumentURL,
		Status:            models.AdjustmentStatus(w.Status),
		ReviewedBy:        w.ReviewedBy,
		ReviewedAt:        w.ReviewedAt,
		CreatedAt:         w.CreatedAt,
	}
}

func leaveToWire(r models.LeaveRequest) wire.LeaveRequest {
	return wire.LeaveRequest{
		ID:        wireID(r.ID),
		TenantID:  r.TenantID,
		UserID:    r.UserID,
		LeaveType: string(r.Type),
		StartDate: r.StartDate,
		EndDate:   r.EndDate,
		Days:      r.Days,
		Reason:    r.Reason,
		Status:    string(r.Status),
		CreatedAt: r.CreatedAt,
	}
}

func leaveFromWire(w wire.LeaveRequest) models.LeaveRequest {
	return models.LeaveRequest{
		ID:        w.ID,
		TenantID:  w.TenantID,
		UserID:    w.UserID,
		Type:      models.LeaveType(w.LeaveType),
		StartDate: w.StartDate,
		EndDate:   w.EndDate,
		Days:      w.Days,
		Reason:    w.Reason,
		Status:    models.RequestStatus(w.Status),
		CreatedAt: w.CreatedAt,
		Synced:    true,
	}
}

func balanceFromWire(w wire.LeaveBalance) models.LeaveBalance {
	return models.LeaveBalance{
		Type:          models.LeaveType(w.LeaveType),
		EntitledDays:  w.EntitledDays,
		UsedDays:      w.UsedDays,
		PendingDays:   w.PendingDays,
		RemainingDays: w.RemainingDays,
	}
}

func expenseToWire(c models.ExpenseClaim) wire.ExpenseClaim {
	return wire.ExpenseClaim{
		ID:          wireID(c.ID),
		TenantID:    c.TenantID,
		UserID:      c.UserID,
		ExpenseDate: c.Date,
		Category:    c.Category,
		Description: c.Description,
		Amount:      c.Amount,
		Currency:    c.Currency,
		ReceiptURL:  c.ReceiptURL,
		Status:      string(c.Status),
		CreatedAt:   c.CreatedAt,
	}
}

func expenseFromWire(w wire.ExpenseClaim) models.ExpenseClaim {
	return models.ExpenseClaim{
		ID:          w.ID,
		TenantID:    w.TenantID,
		UserID:      w.UserID,
		Date:        w.ExpenseDate,
		Category:    w.Category,
		Description: w.Description,
		Amount:      w.Amount,
		Currency:    w.Currency,
		ReceiptURL:  w.ReceiptURL,
		Status:      models.RequestStatus(w.Status),
		CreatedAt:   w.CreatedAt,
		Synced:      true,
	}
}

func uploadFromWire(w wire.Upload) models.Upload {
	return models.Upload{Key: w.Key, URL: w.UploadURL, ExpiresAt: w.ExpiresAt}
}

func mapSlice[W, M any](in []W, fn func(W) M) []M {
	out := make([]M, 0, len(in))
	for _, w := range in {
		out = append(out, fn(w))
	}
	return out
}
