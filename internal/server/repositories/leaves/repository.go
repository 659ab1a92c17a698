package leaves

import (
	"context"

	"github.com/dmitrijs2005/punchkeeper/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, r *models.LeaveRequest) (*models.LeaveRequest, error)
	Get(ctx context.Context, tenantID, id string) (*models.LeaveRequest, error)
	// Update rewrites a PENDING request. Anything else yields common.ErrorNotEditable.
	Update(ctx context.Context, r *models.LeaveRequest) (*models.LeaveRequest, error)
	ListByUser(ctx context.Context, tenantID, userID string) ([]*models.LeaveRequest, error)

	Entitlements(ctx context.Context, tenantID string) ([]models.Entitlement, error)
	SetEntitlement(ctx context.Context, e models.Entitlement) error
}
