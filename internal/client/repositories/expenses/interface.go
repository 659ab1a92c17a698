// Package expenses stores expense claims created or edited on this device
// until the server confirms them.
package expenses

import (
	"context"

	"github.com/dmitrijs2005/punchkeeper/internal/client/models"
)

type Repository interface {
	Save(ctx context.Context, c *models.ExpenseClaim) error
	// Get returns common.ErrorNotFound for an unknown id.
	Get(ctx context.Context, id string) (*models.ExpenseClaim, error)
	ListUnsynced(ctx context.Context, tenantID string) ([]models.ExpenseClaim, error)
	ListByUser(ctx context.Context, scope models.Scope) ([]models.ExpenseClaim, error)
	MarkSynced(ctx context.Context, id string) error
	ReplaceID(ctx context.Context, oldID, newID string) error
	Delete(ctx context.Context, id string) error
}
