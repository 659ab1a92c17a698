package adjustments

import (
	"context"

	"github.com/dmitrijs2005/punchkeeper/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, a *models.TimeAdjustment) (*models.TimeAdjustment, error)
	ListByUser(ctx context.Context, tenantID, userID string) ([]*models.TimeAdjustment, error)
	// HasActive reports whether a PENDING or APPROVED request exists for the day.
	HasActive(ctx context.Context, tenantID, userID, date string) (bool, error)
}
