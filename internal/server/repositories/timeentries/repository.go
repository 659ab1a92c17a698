package timeentries

import (
	"context"
	"time"

	"github.com/dmitrijs2005/punchkeeper/internal/server/models"
)

type Repository interface {
	// Insert stores e unless a row with the same id exists. It reports
	// whether a row was written.
	Insert(ctx context.Context, e *models.TimeEntry) (bool, error)
	Get(ctx context.Context, tenantID, id string) (*models.TimeEntry, error)
	// ListByUser returns punches with from <= ts < to, oldest first. Zero
	// bounds are open.
	ListByUser(ctx context.Context, tenantID, userID string, from, to time.Time) ([]*models.TimeEntry, error)
}
