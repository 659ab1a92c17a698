// Package adjustments is the per-user staging area for time adjustment
// requests the server has not returned yet.
package adjustments

import (
	"context"

	"github.com/dmitrijs2005/punchkeeper/internal/client/models"
)

type Repository interface {
	// Save inserts or replaces a staged request by id.
	Save(ctx context.Context, a *models.AdjustmentRequest) error

	// List returns the staged requests of scope in staging order.
	List(ctx context.Context, scope models.Scope) ([]models.AdjustmentRequest, error)

	// ListProvisional returns the tenant's requests that were never
	// accepted by the server.
	ListProvisional(ctx context.Context, tenantID string) ([]models.AdjustmentRequest, error)

	// Replace swaps the whole staged set of scope for items atomically.
	Replace(ctx context.Context, scope models.Scope, items []models.AdjustmentRequest) error

	// ReplaceID moves a staged request from its provisional id to the
	// id the server issued.
	ReplaceID(ctx context.Context, oldID, newID string) error

	Delete(ctx context.Context, id string) error
}
