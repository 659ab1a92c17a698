package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dmitrijs2005/punchkeeper/internal/client/client"
	"github.com/dmitrijs2005/punchkeeper/internal/client/config"
	"github.com/dmitrijs2005/punchkeeper/internal/client/geo"
	"github.com/dmitrijs2005/punchkeeper/internal/client/services"
	"github.com/dmitrijs2005/punchkeeper/internal/client/timeline"
	"github.com/dmitrijs2005/punchkeeper/internal/logging"
	"github.com/dmitrijs2005/punchkeeper/internal/schedule"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

// pingTimeout bounds one connectivity probe.
const pingTimeout = 3 * time.Second

type App struct {
	config  *config.Config
	log     logging.Logger
	session services.Session
	repos   *client.Repositories
	api     client.Client

	punch       services.PunchService
	adjustments services.AdjustmentService
	leaves      services.LeaveService
	expenses    services.ExpenseService
	sync        services.SyncService

	// reader is shared by the REPL and interactive prompts.
	reader *bufio.Reader
	out    io.Writer

	mu   sync.Mutex
	mode Mode

	// editor holds the drafts of the adjustment being edited, nil when
	// none is open.
	editor *editor
}

type editor struct {
	day    time.Time
	drafts *timeline.Drafts
}

func NewApp(ctx context.Context, c *config.Config, log logging.Logger) (*App, error) {
	loc, err := c.Location()
	if err != nil {
		return nil, err
	}

	repos, err := client.InitDatabase(ctx, c.DSN)
	if err != nil {
		log.Error(ctx, "error initializing database", "error", err)
		return nil, err
	}

	api := client.NewHTTPClient(c.ServerURL, c.AccessToken, client.DefaultTimeout)

	session := services.Session{
		Scope:        c.Scope(),
		EmployeeName: c.EmployeeName,
		Location:     loc,
		Log:          log.With("module", "services"),
	}

	var locator geo.Locator = geo.DeniedLocator{}
	if c.Site != nil {
		locator = geo.StaticLocator(*c.Site)
	}

	uploader := services.NewUploader(api, &http.Client{Timeout: 2 * time.Minute})
	punch := services.NewPunchService(session, api, repos.Punches, repos.Cache, services.PunchOptions{
		Locator:         locator,
		LocationTimeout: c.LocationTimeout,
		RequiredHours:   c.RequiredHours,
		Uploader:        uploader,
	})
	adjustments := services.NewAdjustmentService(session, api, repos.Adjustments, repos.Cache, punch, uploader)
	leaves := services.NewLeaveService(session, api, repos.Leaves, repos.Cache)
	expenses := services.NewExpenseService(session, api, repos.Expenses, repos.Cache, uploader)
	syncSvc := services.NewSyncService(session, api, services.SyncRepositories{
		Punches:     repos.Punches,
		Adjustments: repos.Adjustments,
		Leaves:      repos.Leaves,
		Expenses:    repos.Expenses,
		Cache:       repos.Cache,
	}, adjustments, leaves, expenses)

	return &App{
		config:      c,
		log:         log.With("module", "cli"),
		session:     session,
		repos:       repos,
		api:         api,
		punch:       punch,
		adjustments: adjustments,
		leaves:      leaves,
		expenses:    expenses,
		sync:        syncSvc,
		out:         os.Stdout,
		mode:        ModeOffline,
	}, nil
}

func (a *App) Mode() Mode {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.mode
}

// setMode records mode and reports whether it changed.
func (a *App) setMode(ctx context.Context, mode Mode) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.mode == mode {
		return false
	}
	a.mode = mode
	a.log.Info(ctx, "switched mode", "mode", mode)
	return true
}

// Run starts the connectivity watcher and the refresh job, then serves the
// REPL until the user exits or ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	defer a.repos.Close()

	ctx, cancel := context.WithCancel(ctx)
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.StartOnlineStatusWatcher(gctx, a.config.OnlineCheckInterval)
		return nil
	})

	sched := schedule.NewScheduler(a.log)
	sched.AddJob(schedule.Job{
		Name:     "refresh",
		Interval: a.config.PollInterval,
		Fn:       a.refresh,
	})
	g.Go(func() error { return sched.Run(gctx) })

	g.Go(func() error {
		defer cancel()
		a.Root(gctx, os.Stdin)
		return nil
	})

	return g.Wait()
}

// checkOnline probes the server once and drains the queues on the
// offline→online transition.
func (a *App) checkOnline(ctx context.Context) {
	pctx, cancel := context.WithTimeout(ctx, pingTimeout)
	err := a.api.Ping(pctx)
	cancel()

	if err != nil {
		a.setMode(ctx, ModeOffline)
		return
	}
	if a.setMode(ctx, ModeOnline) {
		a.drain(ctx)
	}
}

func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	a.checkOnline(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.checkOnline(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (a *App) drain(ctx context.Context) {
	report, err := a.sync.Drain(ctx)
	if err != nil {
		a.log.Warn(ctx, "drain stopped", "error", err)
		return
	}
	if report.Synced() > 0 {
		a.log.Info(ctx, "queued records synced", "count", report.Synced())
	}
	for _, f := range report.Refused {
		a.log.Warn(ctx, "queued record refused by the server", "kind", f.Kind, "id", f.ID, "error", f.Err)
	}
}

// refresh keeps caches warm while online so offline views stay recent.
func (a *App) refresh(ctx context.Context) error {
	if a.Mode() != ModeOnline {
		return nil
	}
	a.drain(ctx)

	today := a.punch.Today(ctx)
	if today.Notice != "" {
		return fmt.Errorf("refresh: %s", today.Notice)
	}
	a.adjustments.Load(ctx)
	a.leaves.List(ctx)
	a.leaves.Balances(ctx)
	a.expenses.List(ctx)
	return nil
}
