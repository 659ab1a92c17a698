// Package admin implements the operator CLI: minting bearer tokens and
// maintaining the HR facts leave balances depend on.
package admin

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/spf13/cobra"

	"github.com/dmitrijs2005/punchkeeper/internal/server/config"
	"github.com/dmitrijs2005/punchkeeper/internal/server/repositories/repomanager"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	DatabaseDSN string
	SecretKey   string
	Migrate     bool

	config *config.Config
}

var openDB = func(dsn string) (*sql.DB, error) {
	return sql.Open("pgx", dsn)
}

var newRepositoryManager = repomanager.NewPostgresRepositoryManager

// NewRootCommand creates the root command; cfg supplies flag defaults.
func NewRootCommand(cfg *config.Config) *cobra.Command {
	opts := &RootOptions{config: cfg}

	cmd := &cobra.Command{
		Use:   "punchkeeper-admin",
		Short: "Operator tools for the punchkeeper server",
		Long:  "Mint API tokens and maintain employees and leave entitlements of a tenant.",
	}

	cmd.PersistentFlags().StringVarP(&opts.DatabaseDSN, "dsn", "d", cfg.DatabaseDSN, "PostgreSQL DSN")
	cmd.PersistentFlags().StringVarP(&opts.SecretKey, "secret", "s", cfg.SecretKey, "JWT secret key")
	cmd.PersistentFlags().BoolVar(&opts.Migrate, "migrate", false, "apply pending migrations before writing")

	cmd.AddCommand(NewTokenCommand(opts))
	cmd.AddCommand(NewEmployeeCommand(opts))
	cmd.AddCommand(NewEntitlementCommand(opts))

	return cmd
}

// withRepositories opens the database for one command.
func withRepositories(ctx context.Context, opts *RootOptions, fn func(db *sql.DB, m repomanager.RepositoryManager) error) error {
	db, err := openDB(opts.DatabaseDSN)
	if err != nil {
		return fmt.Errorf("db init error: %w", err)
	}
	defer db.Close()

	m := newRepositoryManager()
	if opts.Migrate {
		if err := m.RunMigrations(ctx, db); err != nil {
			return fmt.Errorf("migrations error: %w", err)
		}
	}
	return fn(db, m)
}
