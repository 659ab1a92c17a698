package adjustments

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/punchkeeper/internal/client/models"
	"github.com/dmitrijs2005/punchkeeper/internal/dbx"
)

// SQLiteRepository keeps each request as a JSON payload next to the
// columns it is looked up by. The id column is authoritative.
type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Save(ctx context.Context, a *models.AdjustmentRequest) error {
	return save(ctx, r.db, a)
}

func save(ctx context.Context, db dbx.DBTX, a *models.AdjustmentRequest) error {
	payload, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("failed to encode adjustment: %w", err)
	}
	query := `INSERT INTO adjustment_staging (id, tenant_id, user_id, date, status, payload)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET tenant_id = excluded.tenant_id,
			user_id = excluded.user_id,
			date = excluded.date,
			status = excluded.status,
			payload = excluded.payload`
	if _, err := db.ExecContext(ctx, query, a.ID, a.TenantID, a.UserID, a.Date, string(a.Status), payload); err != nil {
		return fmt.Errorf("failed to stage adjustment: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) List(ctx context.Context, scope models.Scope) ([]models.AdjustmentRequest, error) {
	return r.list(ctx, `SELECT id, payload FROM adjustment_staging
		WHERE tenant_id = ? AND user_id = ? ORDER BY seq`, scope.TenantID, scope.UserID)
}

func (r *SQLiteRepository) ListProvisional(ctx context.Context, tenantID string) ([]models.AdjustmentRequest, error) {
	return r.list(ctx, `SELECT id, payload FROM adjustment_staging
		WHERE tenant_id = ? AND id LIKE ? ORDER BY seq`, tenantID, models.ProvisionalPrefix+"%")
}

func (r *SQLiteRepository) Replace(ctx context.Context, scope models.Scope, items []models.AdjustmentRequest) error {
	return dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM adjustment_staging WHERE tenant_id = ? AND user_id = ?`,
			scope.TenantID, scope.UserID); err != nil {
			return fmt.Errorf("failed to clear staged adjustments: %w", err)
		}
		for i := range items {
			if err := save(ctx, tx, &items[i]); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *SQLiteRepository) ReplaceID(ctx context.Context, oldID, newID string) error {
	err := dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		// the confirmed id may already be staged from an earlier refresh
		if _, err := tx.ExecContext(ctx, `DELETE FROM adjustment_staging WHERE id = ?`, newID); err != nil {
			return err
		}
		return dbx.ExecOne(ctx, tx, `UPDATE adjustment_staging SET id = ? WHERE id = ?`, newID, oldID)
	})
	if err != nil {
		return fmt.Errorf("failed to confirm adjustment %s: %w", oldID, err)
	}
	return nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, id string) error {
	if err := dbx.ExecOne(ctx, r.db, `DELETE FROM adjustment_staging WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete adjustment %s: %w", id, err)
	}
	return nil
}

func (r *SQLiteRepository) list(ctx context.Context, query string, args ...any) ([]models.AdjustmentRequest, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select staged adjustments: %w", err)
	}
	defer rows.Close()

	var result []models.AdjustmentRequest
	for rows.Next() {
		var (
			id      string
			payload []byte
		)
		if err := rows.Scan(&id, &payload); err != nil {
			return nil, err
		}
		var a models.AdjustmentRequest
		if err := json.Unmarshal(payload, &a); err != nil {
			return nil, fmt.Errorf("staged adjustment %s is corrupt: %w", id, err)
		}
		a.ID = id
		result = append(result, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
