package client

import (
	"context"

	"github.com/dmitrijs2005/punchkeeper/internal/client/models"
)

// Client is the remote system of record.
type Client interface {
	Ping(ctx context.Context) error

	// GetTimeEntries lists punches between two YYYY-MM-DD dates, inclusive.
	GetTimeEntries(ctx context.Context, scope models.Scope, from, to string) ([]models.TimeEntry, error)
	// SaveTimePunch is safe to replay: the server ignores a known id.
	SaveTimePunch(ctx context.Context, e models.TimeEntry) (models.TimeEntry, error)

	CreateTimeAdjustmentRequest(ctx context.Context, a models.AdjustmentRequest) (models.AdjustmentRequest, error)
	GetTimeAdjustmentRequests(ctx context.Context, scope models.Scope) ([]models.AdjustmentRequest, error)

	GetLeaveRequests(ctx context.Context, scope models.Scope) ([]models.LeaveRequest, error)
	CreateLeaveRequest(ctx context.Context, r models.LeaveRequest) (models.LeaveRequest, error)
	UpdateLeaveRequest(ctx context.Context, r models.LeaveRequest) (models.LeaveRequest, error)
	GetLeaveBalances(ctx context.Context, scope models.Scope) ([]models.LeaveBalance, error)

	GetExpenseClaims(ctx context.Context, scope models.Scope) ([]models.ExpenseClaim, error)
	CreateExpenseClaim(ctx context.Context, c models.ExpenseClaim) (models.ExpenseClaim, error)
	UpdateExpenseClaim(ctx context.Context, c models.ExpenseClaim) (models.ExpenseClaim, error)

	// CreateUpload reserves a presigned slot for an attachment.
	CreateUpload(ctx context.Context, tenantID, kind, contentType string) (models.Upload, error)
}
