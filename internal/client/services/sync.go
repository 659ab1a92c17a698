package services

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/dmitrijs2005/punchkeeper/internal/client/client"
	"github.com/dmitrijs2005/punchkeeper/internal/client/models"
	"github.com/dmitrijs2005/punchkeeper/internal/client/reconcile"
	"github.com/dmitrijs2005/punchkeeper/internal/client/repositories/adjustments"
	"github.com/dmitrijs2005/punchkeeper/internal/client/repositories/expenses"
	"github.com/dmitrijs2005/punchkeeper/internal/client/repositories/leaves"
	"github.com/dmitrijs2005/punchkeeper/internal/client/repositories/punches"
)

const (
	KindPunch      = "punch"
	KindAdjustment = "adjustment"
	KindLeave      = "leave"
	KindExpense    = "expense"
)

// DrainFailure is a record the server did not accept. An empty ID means the
// queue itself could not be read.
type DrainFailure struct {
	Kind string
	ID   string
	Err  error
}

func (f DrainFailure) String() string {
	if f.ID == "" {
		return fmt.Sprintf("%s queue: %v", f.Kind, f.Err)
	}
	return fmt.Sprintf("%s %s: %v", f.Kind, f.ID, f.Err)
}

// DrainReport counts records the server accepted during one drain.
// Failures stayed queued; Refused were rejected by the server and removed
// from the queue.
type DrainReport struct {
	Punches     int
	Adjustments int
	Leaves      int
	Expenses    int
	Failures    []DrainFailure
	Refused     []DrainFailure
}

func (r *DrainReport) Synced() int {
	return r.Punches + r.Adjustments + r.Leaves + r.Expenses
}

func (r *DrainReport) fail(kind, id string, err error) {
	r.Failures = append(r.Failures, DrainFailure{Kind: kind, ID: id, Err: err})
}

// reject files err under Failures or Refused and reports whether the record
// has to leave the queue.
func (r *DrainReport) reject(kind, id string, err error) bool {
	if keepQueued(err) {
		r.fail(kind, id, err)
		return false
	}
	r.Refused = append(r.Refused, DrainFailure{Kind: kind, ID: id, Err: err})
	return true
}

func listFailures(b *strings.Builder, fs []DrainFailure) {
	for _, f := range fs {
		b.WriteString("\n  ")
		b.WriteString(f.String())
	}
}

func (r *DrainReport) String() string {
	s := fmt.Sprintf("synced %d punches, %d adjustments, %d leave requests, %d expense claims",
		r.Punches, r.Adjustments, r.Leaves, r.Expenses)
	if len(r.Failures) > 0 {
		var b strings.Builder
		listFailures(&b, r.Failures)
		s += fmt.Sprintf("; %d still queued:%s", len(r.Failures), b.String())
	}
	if len(r.Refused) > 0 {
		var b strings.Builder
		listFailures(&b, r.Refused)
		s += fmt.Sprintf("; %d refused by the server and removed:%s", len(r.Refused), b.String())
	}
	return s
}

// PendingCounts is what is still waiting in the local queues of a tenant.
type PendingCounts struct {
	Punches     int
	Adjustments int
	Leaves      int
	Expenses    int
}

func (p PendingCounts) Total() int {
	return p.Punches + p.Adjustments + p.Leaves + p.Expenses
}

// SyncService drains the local queues to the server.
type SyncService interface {
	// Drain offers every queued record to the server, one at a time. A
	// record the server could not be reached for stays queued for the next
	// drain; one the server refused is removed.
	Drain(ctx context.Context) (*DrainReport, error)
	Pending(ctx context.Context) (PendingCounts, error)
}

type SyncRepositories struct {
	Punches     punches.Repository
	Adjustments adjustments.Repository
	Leaves      leaves.Repository
	Expenses    expenses.Repository
	Cache       reconcile.Cache
}

type syncService struct {
	session     Session
	client      client.Client
	repos       SyncRepositories
	adjustments AdjustmentService
	leaves      LeaveService
	expenses    ExpenseService
	mu          sync.Mutex
}

func NewSyncService(session Session, c client.Client, repos SyncRepositories,
	adj AdjustmentService, lv LeaveService, exp ExpenseService) SyncService {
	return &syncService{
		session:     session,
		client:      c,
		repos:       repos,
		adjustments: adj,
		leaves:      lv,
		expenses:    exp,
	}
}

func (s *syncService) Drain(ctx context.Context) (*DrainReport, error) {
	if !s.mu.TryLock() {
		return nil, ErrActionInProgress
	}
	defer s.mu.Unlock()

	log := s.session.log()
	tenant := s.session.Scope.TenantID
	report := &DrainReport{}

	s.drainPunches(ctx, tenant, report)
	if err := ctx.Err(); err != nil {
		return report, err
	}

	staged, err := s.repos.Adjustments.ListProvisional(ctx, tenant)
	if err != nil {
		report.fail(KindAdjustment, "", err)
	}
	for _, a := range staged {
		if _, err := s.adjustments.Confirm(ctx, a); err != nil {
			if report.reject(KindAdjustment, a.ID, err) {
				s.adjustments.Discard(ctx, a.ID)
			}
			continue
		}
		report.Adjustments++
	}
	if err := ctx.Err(); err != nil {
		return report, err
	}

	queuedLeaves, err := s.repos.Leaves.ListUnsynced(ctx, tenant)
	if err != nil {
		report.fail(KindLeave, "", err)
	}
	for _, r := range queuedLeaves {
		if _, err := s.leaves.Push(ctx, r); err != nil {
			if report.reject(KindLeave, r.ID, err) {
				s.leaves.Discard(ctx, r.ID)
			}
			continue
		}
		report.Leaves++
	}
	if err := ctx.Err(); err != nil {
		return report, err
	}

	queuedExpenses, err := s.repos.Expenses.ListUnsynced(ctx, tenant)
	if err != nil {
		report.fail(KindExpense, "", err)
	}
	for _, c := range queuedExpenses {
		if _, err := s.expenses.Push(ctx, c); err != nil {
			if report.reject(KindExpense, c.ID, err) {
				s.expenses.Discard(ctx, c.ID)
			}
			continue
		}
		report.Expenses++
	}

	if report.Synced() > 0 || len(report.Failures) > 0 || len(report.Refused) > 0 {
		log.Info(ctx, "drain finished",
			"punches", report.Punches,
			"adjustments", report.Adjustments,
			"leaves", report.Leaves,
			"expenses", report.Expenses,
			"failures", len(report.Failures),
			"refused", len(report.Refused))
	}
	return report, ctx.Err()
}

func (s *syncService) drainPunches(ctx context.Context, tenant string, report *DrainReport) {
	log := s.session.log()

	queued, err := s.repos.Punches.ListUnsynced(ctx, tenant)
	if err != nil {
		report.fail(KindPunch, "", err)
		return
	}

	for _, e := range queued {
		if ctx.Err() != nil {
			return
		}
		if _, err := s.client.SaveTimePunch(ctx, e); err != nil {
			if !report.reject(KindPunch, e.ID, err) {
				log.Info(ctx, "punch still queued", "id", e.ID, "error", err)
				continue
			}
			log.Warn(ctx, "punch refused", "id", e.ID, "error", err)
			if err := s.repos.Punches.Delete(ctx, e.ID); err != nil {
				log.Warn(ctx, "failed to drop refused punch", "id", e.ID, "error", err)
			}
			continue
		}
		report.Punches++

		if err := s.repos.Punches.MarkSynced(ctx, e.ID); err != nil {
			log.Warn(ctx, "failed to mark punch synced", "id", e.ID, "error", err)
			continue
		}
		if err := s.repos.Punches.Delete(ctx, e.ID); err != nil {
			log.Warn(ctx, "failed to drop synced punch", "id", e.ID, "error", err)
		}

		e.Synced = true
		session := s.session
		session.Scope = models.Scope{TenantID: e.TenantID, UserID: e.UserID}
		rememberPunch(ctx, session, s.repos.Cache, e)
	}
}

func (s *syncService) Pending(ctx context.Context) (PendingCounts, error) {
	tenant := s.session.Scope.TenantID
	var p PendingCounts

	ps, err := s.repos.Punches.ListUnsynced(ctx, tenant)
	if err != nil {
		return p, err
	}
	as, err := s.repos.Adjustments.ListProvisional(ctx, tenant)
	if err != nil {
		return p, err
	}
	ls, err := s.repos.Leaves.ListUnsynced(ctx, tenant)
	if err != nil {
		return p, err
	}
	es, err := s.repos.Expenses.ListUnsynced(ctx, tenant)
	if err != nil {
		return p, err
	}

	p.Punches, p.Adjustments, p.Leaves, p.Expenses = len(ps), len(as), len(ls), len(es)
	return p, nil
}
