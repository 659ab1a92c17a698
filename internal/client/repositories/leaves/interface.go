// Package leaves stores leave requests created or edited on this device
// until the server confirms them.
package leaves

import (
	"context"

	"github.com/dmitrijs2005/punchkeeper/internal/client/models"
)

type Repository interface {
	Save(ctx context.Context, r *models.LeaveRequest) error
	// Get returns common.ErrorNotFound for an unknown id.
	Get(ctx context.Context, id string) (*models.LeaveRequest, error)
	ListUnsynced(ctx context.Context, tenantID string) ([]models.LeaveRequest, error)
	ListByUser(ctx context.Context, scope models.Scope) ([]models.LeaveRequest, error)
	MarkSynced(ctx context.Context, id string) error
	ReplaceID(ctx context.Context, oldID, newID string) error
	Delete(ctx context.Context, id string) error
}
