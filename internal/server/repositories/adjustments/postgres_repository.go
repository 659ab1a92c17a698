// Package adjustments stores time adjustment requests in PostgreSQL.
package adjustments

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/punchkeeper/internal/common"
	"github.com/dmitrijs2005/punchkeeper/internal/dbx"
	"github.com/dmitrijs2005/punchkeeper/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
)

// uniqueViolation is raised by the one-active-request-per-day index.
const uniqueViolation = "23505"

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, a *models.TimeAdjustment) (*models.TimeAdjustment, error) {
	punches := a.RequestedPunches
	if punches == nil {
		punches = []models.RequestedPunch{}
	}
	payload, err := json.Marshal(punches)
	if err != nil {
		return nil, fmt.Errorf("encode requested punches: %w", err)
	}

	query := `
		INSERT INTO time_adjustments (tenant_id, user_id, employee_name, date, clock_in, clock_out,
			requested_clock_in, requested_clock_out, requested_punches, reason, document_url, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id, created_at
	`
	err = r.db.QueryRowContext(ctx, query,
		a.TenantID, a.UserID, a.EmployeeName, a.Date, a.ClockIn, a.ClockOut,
		a.RequestedClockIn, a.RequestedClockOut, string(payload), a.Reason, a.DocumentURL, string(a.Status),
	).Scan(&a.ID, &a.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, fmt.Errorf("adjustment for %s: %w", a.Date, common.ErrorConflict)
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return a, nil
}

func (r *PostgresRepository) ListByUser(ctx context.Context, tenantID, userID string) ([]*models.TimeAdjustment, error) {
	query := `
		SELECT id, tenant_id, user_id, employee_name, date::text, clock_in, clock_out,
			requested_clock_in, requested_clock_out, requested_punches, reason, document_url,
			status, reviewed_by, reviewed_at, created_at
		FROM time_adjustments
		WHERE tenant_id = $1 AND user_id = $2
		ORDER BY date DESC, created_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query, tenantID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to select adjustments: %w", err)
	}
	defer rows.Close()

	var result []*models.TimeAdjustment
	for rows.Next() {
		var (
			a       models.TimeAdjustment
			payload []byte
			status  string
		)
		if err := rows.Scan(
			&a.ID, &a.TenantID, &a.UserID, &a.EmployeeName, &a.Date, &a.ClockIn, &a.ClockOut,
			&a.RequestedClockIn, &a.RequestedClockOut, &payload, &a.Reason, &a.DocumentURL,
			&status, &a.ReviewedBy, &a.ReviewedAt, &a.CreatedAt,
		); err != nil {
			return nil, err
		}
		if len(payload) > 0 {
			if err := json.Unmarshal(payload, &a.RequestedPunches); err != nil {
				return nil, fmt.Errorf("decode requested punches of %s: %w", a.ID, err)
			}
		}
		a.Status = models.Status(status)
		result = append(result, &a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) HasActive(ctx context.Context, tenantID, userID, date string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM time_adjustments
			WHERE tenant_id = $1 AND user_id = $2 AND date = $3 AND status IN ('PENDING', 'APPROVED')
		)
	`
	var exists bool
	if err := r.db.QueryRowContext(ctx, query, tenantID, userID, date).Scan(&exists); err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return exists, nil
}
