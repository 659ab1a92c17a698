package client

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/punchkeeper/internal/client/migrations"
	"github.com/dmitrijs2005/punchkeeper/internal/client/repositories/adjustments"
	"github.com/dmitrijs2005/punchkeeper/internal/client/repositories/cache"
	"github.com/dmitrijs2005/punchkeeper/internal/client/repositories/expenses"
	"github.com/dmitrijs2005/punchkeeper/internal/client/repositories/leaves"
	"github.com/dmitrijs2005/punchkeeper/internal/client/repositories/punches"

	_ "modernc.org/sqlite" // pure-Go SQLite driver
)

// Repositories bundles the local store.
type Repositories struct {
	DB          *sql.DB
	Punches     punches.Repository
	Adjustments adjustments.Repository
	Leaves      leaves.Repository
	Expenses    expenses.Repository
	Cache       cache.Repository
}

func (r *Repositories) Close() error {
	return r.DB.Close()
}

// runMigrations is a seam for tests.
var runMigrations = migrations.Up

func RunMigrations(ctx context.Context, db *sql.DB) error {
	if err := runMigrations(ctx, db); err != nil {
		return fmt.Errorf("migrate local store: %w", err)
	}
	return nil
}

// InitDatabase opens the SQLite file at dsn, migrates it and wires the
// repositories. SQLite allows one writer, so the pool holds one connection.
func InitDatabase(ctx context.Context, dsn string) (*Repositories, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Repositories{
		DB:          db,
		Punches:     punches.NewSQLiteRepository(db),
		Adjustments: adjustments.NewSQLiteRepository(db),
		Leaves:      leaves.NewSQLiteRepository(db),
		Expenses:    expenses.NewSQLiteRepository(db),
		Cache:       cache.NewSQLiteRepository(db),
	}, nil
}
