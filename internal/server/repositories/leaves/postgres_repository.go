// Package leaves stores leave requests and per-tenant entitlements in
// PostgreSQL.
package leaves

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/punchkeeper/internal/common"
	"github.com/dmitrijs2005/punchkeeper/internal/dbx"
	"github.com/dmitrijs2005/punchkeeper/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const columns = `id, tenant_id, user_id, leave_type, start_date::text, end_date::text, days, reason, status, created_at, updated_at`

func (r *PostgresRepository) Create(ctx context.Context, req *models.LeaveRequest) (*models.LeaveRequest, error) {
	query := `
		INSERT INTO leave_requests (tenant_id, user_id, leave_type, start_date, end_date, days, reason, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		req.TenantID, req.UserID, string(req.LeaveType), req.StartDate, req.EndDate, req.Days, req.Reason, string(req.Status),
	).Scan(&req.ID, &req.CreatedAt, &req.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return req, nil
}

func (r *PostgresRepository) Get(ctx context.Context, tenantID, id string) (*models.LeaveRequest, error) {
	query := `SELECT ` + columns + ` FROM leave_requests WHERE tenant_id = $1 AND id = $2`

	req, err := scanRequest(r.db.QueryRowContext(ctx, query, tenantID, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return req, nil
}

func (r *PostgresRepository) Update(ctx context.Context, req *models.LeaveRequest) (*models.LeaveRequest, error) {
	query := `
		UPDATE leave_requests
		SET leave_type = $3, start_date = $4, end_date = $5, days = $6, reason = $7, status = $8, updated_at = now()
		WHERE tenant_id = $1 AND id = $2 AND status = 'PENDING'
		RETURNING updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		req.TenantID, req.ID, string(req.LeaveType), req.StartDate, req.EndDate, req.Days, req.Reason, string(req.Status),
	).Scan(&req.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotEditable
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return req, nil
}

func (r *PostgresRepository) ListByUser(ctx context.Context, tenantID, userID string) ([]*models.LeaveRequest, error) {
	query := `SELECT ` + columns + ` FROM leave_requests
		WHERE tenant_id = $1 AND user_id = $2
		ORDER BY start_date DESC, created_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query, tenantID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to select leave requests: %w", err)
	}
	defer rows.Close()

	var result []*models.LeaveRequest
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, req)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) Entitlements(ctx context.Context, tenantID string) ([]models.Entitlement, error) {
	query := `SELECT tenant_id, leave_type, days FROM leave_entitlements WHERE tenant_id = $1`

	rows, err := r.db.QueryContext(ctx, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to select entitlements: %w", err)
	}
	defer rows.Close()

	var result []models.Entitlement
	for rows.Next() {
		var (
			e  models.Entitlement
			lt string
		)
		if err := rows.Scan(&e.TenantID, &lt, &e.Days); err != nil {
			return nil, err
		}
		e.LeaveType = models.LeaveType(lt)
		result = append(result, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) SetEntitlement(ctx context.Context, e models.Entitlement) error {
	query := `
		INSERT INTO leave_entitlements (tenant_id, leave_type, days)
		VALUES ($1, $2, $3)
		ON CONFLICT (tenant_id, leave_type) DO UPDATE SET days = EXCLUDED.days
	`
	if _, err := r.db.ExecContext(ctx, query, e.TenantID, string(e.LeaveType), e.Days); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRequest(s scanner) (*models.LeaveRequest, error) {
	var (
		req            models.LeaveRequest
		leaveType, sts string
	)
	if err := s.Scan(&req.ID, &req.TenantID, &req.UserID, &leaveType, &req.StartDate, &req.EndDate,
		&req.Days, &req.Reason, &sts, &req.CreatedAt, &req.UpdatedAt); err != nil {
		return nil, err
	}
	req.LeaveType = models.LeaveType(leaveType)
	req.Status = models.Status(sts)
	return &req, nil
}
