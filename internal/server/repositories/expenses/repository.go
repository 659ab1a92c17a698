package expenses

import (
	"context"

	"github.com/dmitrijs2005/punchkeeper/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, c *models.ExpenseClaim) (*models.ExpenseClaim, error)
	Get(ctx context.Context, tenantID, id string) (*models.ExpenseClaim, error)
	// Update rewrites a PENDING claim. Anything else yields common.ErrorNotEditable.
	Update(ctx context.Context, c *models.ExpenseClaim) (*models.ExpenseClaim, error)
	ListByUser(ctx context.Context, tenantID, userID string) ([]*models.ExpenseClaim, error)
}
