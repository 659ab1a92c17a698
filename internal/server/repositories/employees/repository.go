package employees

import (
	"context"

	"github.com/dmitrijs2005/punchkeeper/internal/server/models"
)

type Repository interface {
	Get(ctx context.Context, tenantID, userID string) (*models.Employee, error)
	Upsert(ctx context.Context, e *models.Employee) error
}
