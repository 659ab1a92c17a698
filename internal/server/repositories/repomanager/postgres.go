// Package repomanager provides a concrete RepositoryManager for PostgreSQL,
// wiring together repository constructors and database migrations (via goose).
package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/punchkeeper/internal/dbx"
	"github.com/dmitrijs2005/punchkeeper/internal/server/migrations"
	"github.com/dmitrijs2005/punchkeeper/internal/server/repositories/adjustments"
	"github.com/dmitrijs2005/punchkeeper/internal/server/repositories/employees"
	"github.com/dmitrijs2005/punchkeeper/internal/server/repositories/expenses"
	"github.com/dmitrijs2005/punchkeeper/internal/server/repositories/leaves"
	"github.com/dmitrijs2005/punchkeeper/internal/server/repositories/timeentries"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// PostgresRepositoryManager vends PostgreSQL-backed repository implementations
// and exposes a schema migration hook.
type PostgresRepositoryManager struct{}

// TimeEntries returns a timeentries.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) TimeEntries(db dbx.DBTX) timeentries.Repository {
	return timeentries.NewPostgresRepository(db)
}

// Adjustments returns an adjustments.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) Adjustments(db dbx.DBTX) adjustments.Repository {
	return adjustments.NewPostgresRepository(db)
}

// Leaves returns a leaves.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) Leaves(db dbx.DBTX) leaves.Repository {
	return leaves.NewPostgresRepository(db)
}

// Expenses returns an expenses.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) Expenses(db dbx.DBTX) expenses.Repository {
	return expenses.NewPostgresRepository(db)
}

// Employees returns an employees.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) Employees(db dbx.DBTX) employees.Repository {
	return employees.NewPostgresRepository(db)
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations sets up goose with the embedded migrations and runs them
// against the provided database connection.
func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	if err := gooseUpContext(ctx, db, "."); err != nil {
		return err
	}
	return nil
}

// NewPostgresRepositoryManager constructs a PostgreSQL-backed RepositoryManager.
func NewPostgresRepositoryManager() RepositoryManager {
	return &PostgresRepositoryManager{}
}
