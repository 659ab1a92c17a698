package services

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/punchkeeper/internal/common"
	"github.com/dmitrijs2005/punchkeeper/internal/dbx"
	"github.com/dmitrijs2005/punchkeeper/internal/logging"
	"github.com/dmitrijs2005/punchkeeper/internal/server/models"
	"github.com/dmitrijs2005/punchkeeper/internal/server/repositories/adjustments"
	"github.com/dmitrijs2005/punchkeeper/internal/server/repositories/employees"
	"github.com/dmitrijs2005/punchkeeper/internal/server/repositories/expenses"
	"github.com/dmitrijs2005/punchkeeper/internal/server/repositories/leaves"
	"github.com/dmitrijs2005/punchkeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/punchkeeper/internal/server/repositories/timeentries"
)

// -------- test fakes --------

type fakeTimeEntries struct {
	timeentries.Repository
	rows      map[string]*models.TimeEntry
	insertErr error

	listFrom, listTo time.Time
}

func (f *fakeTimeEntries) Insert(ctx context.Context, e *models.TimeEntry) (bool, error) {
	if f.insertErr != nil {
		return false, f.insertErr
	}
	if _, ok := f.rows[e.ID]; ok {
		return false, nil
	}
	cp := *e
	cp.CreatedAt = e.Timestamp
	f.rows[e.ID] = &cp
	return true, nil
}

func (f *fakeTimeEntries) Get(ctx context.Context, tenantID, id string) (*models.TimeEntry, error) {
	e, ok := f.rows[id]
	if !ok || e.TenantID != tenantID {
		return nil, common.ErrorNotFound
	}
	cp := *e
	return &cp, nil
}

func (f *fakeTimeEntries) ListByUser(ctx context.Context, tenantID, userID string, from, to time.Time) ([]*models.TimeEntry, error) {
	f.listFrom, f.listTo = from, to
	return nil, nil
}

type fakeAdjustments struct {
	adjustments.Repository
	active  bool
	created []*models.TimeAdjustment
}

func (f *fakeAdjustments) HasActive(ctx context.Context, tenantID, userID, date string) (bool, error) {
	return f.active, nil
}

func (f *fakeAdjustments) Create(ctx context.Context, a *models.TimeAdjustment) (*models.TimeAdjustment, error) {
	a.ID = "a1"
	f.created = append(f.created, a)
	return a, nil
}

type fakeLeaves struct {
	leaves.Repository
	rows         map[string]*models.LeaveRequest
	entitlements []models.Entitlement
	updated      []*models.LeaveRequest
}

func (f *fakeLeaves) Create(ctx context.Context, r *models.LeaveRequest) (*models.LeaveRequest, error) {
	r.ID = "l-new"
	f.rows[r.ID] = r
	return r, nil
}

func (f *fakeLeaves) Get(ctx context.Context, tenantID, id string) (*models.LeaveRequest, error) {
	r, ok := f.rows[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *r
	return &cp, nil
}

func (f *fakeLeaves) Update(ctx context.Context, r *models.LeaveRequest) (*models.LeaveRequest, error) {
	f.updated = append(f.updated, r)
	return r, nil
}

func (f *fakeLeaves) ListByUser(ctx context.Context, tenantID, userID string) ([]*models.LeaveRequest, error) {
	var out []*models.LeaveRequest
	for _, r := range f.rows {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeLeaves) Entitlements(ctx context.Context, tenantID string) ([]models.Entitlement, error) {
	return f.entitlements, nil
}

type fakeExpenses struct {
	expenses.Repository
	rows    map[string]*models.ExpenseClaim
	updated []*models.ExpenseClaim
}

func (f *fakeExpenses) Create(ctx context.Context, c *models.ExpenseClaim) (*models.ExpenseClaim, error) {
	c.ID = "x-new"
	return c, nil
}

func (f *fakeExpenses) Get(ctx context.Context, tenantID, id string) (*models.ExpenseClaim, error) {
	c, ok := f.rows[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *c
	return &cp, nil
}

func (f *fakeExpenses) Update(ctx context.Context, c *models.ExpenseClaim) (*models.ExpenseClaim, error) {
	f.updated = append(f.updated, c)
	return c, nil
}

type fakeEmployees struct {
	employees.Repository
	emp *models.Employee
	err error
}

func (f *fakeEmployees) Get(ctx context.Context, tenantID, userID string) (*models.Employee, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.emp == nil {
		return nil, common.ErrorNotFound
	}
	return f.emp, nil
}

type fakeRepoManager struct {
	repomanager.RepositoryManager
	te  *fakeTimeEntries
	adj *fakeAdjustments
	lv  *fakeLeaves
	ex  *fakeExpenses
	emp *fakeEmployees
}

func newFakeRepoManager() *fakeRepoManager {
	return &fakeRepoManager{
		te:  &fakeTimeEntries{rows: map[string]*models.TimeEntry{}},
		adj: &fakeAdjustments{},
		lv:  &fakeLeaves{rows: map[string]*models.LeaveRequest{}},
		ex:  &fakeExpenses{rows: map[string]*models.ExpenseClaim{}},
		emp: &fakeEmployees{},
	}
}

func (m *fakeRepoManager) TimeEntries(db dbx.DBTX) timeentries.Repository { return m.te }
func (m *fakeRepoManager) Adjustments(db dbx.DBTX) adjustments.Repository { return m.adj }
func (m *fakeRepoManager) Leaves(db dbx.DBTX) leaves.Repository           { return m.lv }
func (m *fakeRepoManager) Expenses(db dbx.DBTX) expenses.Repository       { return m.ex }
func (m *fakeRepoManager) Employees(db dbx.DBTX) employees.Repository     { return m.emp }

// -------- helpers --------

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

func discard() logging.Logger {
	return logging.NewDiscardLogger()
}

var testNow = time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)

func fixedNow() time.Time { return testNow }
