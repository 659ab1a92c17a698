package expenses

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/punchkeeper/internal/client/models"
	"github.com/dmitrijs2005/punchkeeper/internal/common"
	"github.com/dmitrijs2005/punchkeeper/internal/dbx"
	"github.com/shopspring/decimal"
)

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

const columns = `id, tenant_id, user_id, expense_date, category, description, amount, currency,
	receipt_url, local_receipt, status, created_at, synced`

// Save stores the amount as its exact decimal string.
func (r *SQLiteRepository) Save(ctx context.Context, c *models.ExpenseClaim) error {
	query := `INSERT INTO expense_claims (` + columns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET expense_date = excluded.expense_date,
			category = excluded.category,
			description = excluded.description,
			amount = excluded.amount,
			currency = excluded.currency,
			receipt_url = excluded.receipt_url,
			local_receipt = excluded.local_receipt,
			status = excluded.status,
			synced = excluded.synced`
	_, err := r.db.ExecContext(ctx, query,
		c.ID, c.TenantID, c.UserID, c.Date, c.Category, c.Description, c.Amount.String(), c.Currency,
		c.ReceiptURL, c.LocalReceipt, string(c.Status), dbx.FormatTime(c.CreatedAt), c.Synced)
	if err != nil {
		return fmt.Errorf("failed to save expense claim: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) Get(ctx context.Context, id string) (*models.ExpenseClaim, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+columns+` FROM expense_claims WHERE id = ?`, id)
	c, err := scan(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get expense claim %s: %w", id, err)
	}
	return c, nil
}

func (r *SQLiteRepository) ListUnsynced(ctx context.Context, tenantID string) ([]models.ExpenseClaim, error) {
	return r.list(ctx, `SELECT `+columns+` FROM expense_claims WHERE tenant_id = ? AND synced = 0 ORDER BY seq`, tenantID)
}

func (r *SQLiteRepository) ListByUser(ctx context.Context, scope models.Scope) ([]models.ExpenseClaim, error) {
	return r.list(ctx, `SELECT `+columns+` FROM expense_claims WHERE tenant_id = ? AND user_id = ? ORDER BY seq`,
		scope.TenantID, scope.UserID)
}

func (r *SQLiteRepository) MarkSynced(ctx context.Context, id string) error {
	if err := dbx.ExecOne(ctx, r.db, `UPDATE expense_claims SET synced = 1 WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to mark expense claim %s synced: %w", id, err)
	}
	return nil
}

func (r *SQLiteRepository) ReplaceID(ctx context.Context, oldID, newID string) error {
	if err := dbx.ExecOne(ctx, r.db, `UPDATE expense_claims SET id = ? WHERE id = ?`, newID, oldID); err != nil {
		return fmt.Errorf("failed to confirm expense claim %s: %w", oldID, err)
	}
	return nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, id string) error {
	if err := dbx.ExecOne(ctx, r.db, `DELETE FROM expense_claims WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete expense claim %s: %w", id, err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scan(s scanner) (*models.ExpenseClaim, error) {
	var (
		c                     models.ExpenseClaim
		amount, status, creat string
	)
	if err := s.Scan(&c.ID, &c.TenantID, &c.UserID, &c.Date, &c.Category, &c.Description, &amount,
		&c.Currency, &c.ReceiptURL, &c.LocalReceipt, &status, &creat, &c.Synced); err != nil {
		return nil, err
	}
	var err error
	if c.Amount, err = decimal.NewFromString(amount); err != nil {
		return nil, fmt.Errorf("bad stored amount %q: %w", amount, err)
	}
	c.Status = models.RequestStatus(status)
	if c.CreatedAt, err = dbx.ParseTime(creat); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *SQLiteRepository) list(ctx context.Context, query string, args ...any) ([]models.ExpenseClaim, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select expense claims: %w", err)
	}
	defer rows.Close()

	var result []models.ExpenseClaim
	for rows.Next() {
		c, err := scan(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
