// Package server wires the punchkeeper REST API: PostgreSQL storage,
// migrations, domain services and the HTTP server.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib"
	"golang.org/x/sync/errgroup"

	"github.com/dmitrijs2005/punchkeeper/internal/logging"
	"github.com/dmitrijs2005/punchkeeper/internal/server/api"
	"github.com/dmitrijs2005/punchkeeper/internal/server/config"
	"github.com/dmitrijs2005/punchkeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/punchkeeper/internal/server/services"
)

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	server *api.Server
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {

	slogger := slog.New(slog.NewJSONHandler(os.Stdout, api.ECSHandlerOptions(slog.LevelInfo))).
		With(slog.String("app", "punchkeeper"))
	logger := logging.NewSlogLogger(slogger)

	db, err := sql.Open("pgx", c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("db ping error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrations error: %w", err)
	}

	h := api.NewHandler(
		services.NewTimesheetService(db, rm, logger),
		services.NewLeaveService(db, rm, logger),
		services.NewExpenseService(db, rm, logger),
		services.NewUploadService(c),
		logger,
	)
	router := api.NewRouter(h, []byte(c.SecretKey), c.AllowedOrigins, slogger)

	return &App{
		config: c,
		logger: logger,
		db:     db,
		server: api.NewServer(c.HTTPAddr, router, logger),
	}, nil
}

// Run serves until ctx is cancelled and closes the database afterwards.
func (app *App) Run(ctx context.Context) error {

	app.logger.Info(ctx, "Starting app...")
	defer app.db.Close()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return app.server.Run(gctx)
	})

	if err := g.Wait(); err != nil {
		app.logger.Error(ctx, "server stopped", "error", err)
		return err
	}

	app.logger.Info(ctx, "App stopped")
	return nil
}
