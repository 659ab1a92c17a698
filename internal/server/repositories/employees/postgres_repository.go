// Package employees stores the HR facts (name, hire date) that leave
// balances depend on.
package employees

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

func (r *PostgresRepository) Get(ctx context.Context, tenantID, userID string) (*models.Employee, error) {
	query := `
		SELECT tenant_id, user_id, name, COALESCE(hire_date::text, '')
		FROM employees
		WHERE tenant_id = $1 AND user_id = $2
	`
	var e models.Employee
	err := r.db.QueryRowContext(ctx, query, tenantID, userID).Scan(&e.TenantID, &e.UserID, &e.Name, &e.HireDate)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return &e, nil
}

// Upsert creates or replaces the employee. An empty HireDate is stored as NULL.
func (r *PostgresRepository) Upsert(ctx context.Context, e *models.Employee) error {
	query := `
		INSERT INTO employees (tenant_id, user_id, name, hire_date)
		VALUES ($1, $2, $3, NULLIF($4, '')::date)
		ON CONFLICT (tenant_id, user_id)
		DO UPDATE SET name = EXCLUDED.name, hire_date = EXCLUDED.hire_date
	`
	if _, err := r.db.ExecContext(ctx, query, e.TenantID, e.UserID, e.Name, e.HireDate); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
