// Package expenses stores expense claims in PostgreSQL.
package expenses

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

const columns = `id, tenant_id, user_id, expense_date::text, category, description, amount, currency, receipt_url, status, created_at, updated_at`

func (r *PostgresRepository) Create(ctx context.Context, c *models.ExpenseClaim) (*models.ExpenseClaim, error) {
	query := `
		INSERT INTO expense_claims (tenant_id, user_id, expense_date, category, description, amount, currency, receipt_url, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		c.TenantID, c.UserID, c.ExpenseDate, c.Category, c.Description, c.Amount, c.Currency, c.ReceiptURL, string(c.Status),
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return c, nil
}

func (r *PostgresRepository) Get(ctx context.Context, tenantID, id string) (*models.ExpenseClaim, error) {
	query := `SELECT ` + columns + ` FROM expense_claims WHERE tenant_id = $1 AND id = $2`

	c, err := scanClaim(r.db.QueryRowContext(ctx, query, tenantID, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return c, nil
}

func (r *PostgresRepository) Update(ctx context.Context, c *models.ExpenseClaim) (*models.ExpenseClaim, error) {
	query := `
		UPDATE expense_claims
		SET expense_date = $3, category = $4, description = $5, amount = $6, currency = $7,
			receipt_url = $8, status = $9, updated_at = now()
		WHERE tenant_id = $1 AND id = $2 AND status = 'PENDING'
		RETURNING updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		c.TenantID, c.ID, c.ExpenseDate, c.Category, c.Description, c.Amount, c.Currency, c.ReceiptURL, string(c.Status),
	).Scan(&c.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotEditable
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return c, nil
}

func (r *PostgresRepository) ListByUser(ctx context.Context, tenantID, userID string) ([]*models.ExpenseClaim, error) {
	query := `SELECT ` + columns + ` FROM expense_claims
		WHERE tenant_id = $1 AND user_id = $2
		ORDER BY expense_date DESC, created_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query, tenantID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to select expense claims: %w", err)
	}
	defer rows.Close()

	var result []*models.ExpenseClaim
	for rows.Next() {
		c, err := scanClaim(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanClaim(s scanner) (*models.ExpenseClaim, error) {
	var (
		c   models.ExpenseClaim
		sts string
	)
	if err := s.Scan(&c.ID, &c.TenantID, &c.UserID, &c.ExpenseDate, &c.Category, &c.Description,
		&c.Amount, &c.Currency, &c.ReceiptURL, &sts, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	c.Status = models.Status(sts)
	return &c, nil
}
