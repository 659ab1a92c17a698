package punches

import (
	"context"

	"github.com/dmitrijs2005/punchkeeper/internal/client/models"
)

type Repository interface {
	// Save inserts or replaces a punch by id.
	Save(ctx context.Context, e *models.TimeEntry) error

	// ListUnsynced returns the tenant's unsynced punches in insertion order.
	ListUnsynced(ctx context.Context, tenantID string) ([]models.TimeEntry, error)

	// ListByUser returns every stored punch of the scope, oldest first.
	ListByUser(ctx context.Context, scope models.Scope) ([]models.TimeEntry, error)

	MarkSynced(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}
