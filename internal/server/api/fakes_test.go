package api

import (
	"context"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dmitrijs2005/punchkeeper/internal/logging"
	"github.com/dmitrijs2005/punchkeeper/internal/server/auth"
	"github.com/dmitrijs2005/punchkeeper/internal/server/models"
	"github.com/dmitrijs2005/punchkeeper/internal/server/services"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test-secret")

type fakeTimesheet struct {
	saved        *models.TimeEntry
	savePunchErr error
	listArgs     []string
	entries      []*models.TimeEntry
	adjustment   *models.TimeAdjustment
	adjustErr    error
}

func (f *fakeTimesheet) SavePunch(ctx context.Context, e *models.TimeEntry) (*models.TimeEntry, error) {
	f.saved = e
	if f.savePunchErr != nil {
		return nil, f.savePunchErr
	}
	return e, nil
}

func (f *fakeTimesheet) ListPunches(ctx context.Context, tenantID, userID, from, to string) ([]*models.TimeEntry, error) {
	f.listArgs = []string{tenantID, userID, from, to}
	return f.entries, nil
}

func (f *fakeTimesheet) CreateAdjustment(ctx context.Context, a *models.TimeAdjustment) (*models.TimeAdjustment, error) {
	f.adjustment = a
	if f.adjustErr != nil {
		return nil, f.adjustErr
	}
	out := *a
	out.ID = "adj-1"
	out.Status = models.StatusPending
	return &out, nil
}

func (f *fakeTimesheet) ListAdjustments(ctx context.Context, tenantID, userID string) ([]*models.TimeAdjustment, error) {
	return nil, nil
}

type fakeLeaves struct {
	updated  *models.LeaveRequest
	balances []models.LeaveBalance
	err      error
}

func (f *fakeLeaves) Create(ctx context.Context, r *models.LeaveRequest) (*models.LeaveRequest, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := *r
	out.ID = "leave-1"
	out.Status = models.StatusPending
	return &out, nil
}

func (f *fakeLeaves) Update(ctx context.Context, r *models.LeaveRequest) (*models.LeaveRequest, error) {
	f.updated = r
	if f.err != nil {
		return nil, f.err
	}
	return r, nil
}

func (f *fakeLeaves) List(ctx context.Context, tenantID, userID string) ([]*models.LeaveRequest, error) {
	return []*models.LeaveRequest{}, f.err
}

func (f *fakeLeaves) Balances(ctx context.Context, tenantID, userID string) ([]models.LeaveBalance, error) {
	return f.balances, f.err
}

type fakeExpenses struct {
	created *models.ExpenseClaim
	err     error
}

func (f *fakeExpenses) Create(ctx context.Context, c *models.ExpenseClaim) (*models.ExpenseClaim, error) {
	f.created = c
	if f.err != nil {
		return nil, f.err
	}
	out := *c
	out.ID = "exp-1"
	out.Status = models.StatusPending
	return &out, nil
}

func (f *fakeExpenses) Update(ctx context.Context, c *models.ExpenseClaim) (*models.ExpenseClaim, error) {
	return c, f.err
}

func (f *fakeExpenses) List(ctx context.Context, tenantID, userID string) ([]*models.ExpenseClaim, error) {
	return nil, f.err
}

type fakeUploads struct {
	args []string
}

func (f *fakeUploads) CreateUpload(ctx context.Context, tenantID, kind, contentType string) (*services.Upload, error) {
	f.args = []string{tenantID, kind, contentType}
	return &services.Upload{
		Key:       tenantID + "/" + kind + "/2026/03/abc",
		URL:       "https://s3.example/put",
		ExpiresAt: time.Date(2026, 3, 10, 10, 15, 0, 0, time.UTC),
	}, nil
}

type testAPI struct {
	srv       *httptest.Server
	timesheet *fakeTimesheet
	leaves    *fakeLeaves
	expenses  *fakeExpenses
	uploads   *fakeUploads
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()

	a := &testAPI{
		timesheet: &fakeTimesheet{},
		leaves:    &fakeLeaves{},
		expenses:  &fakeExpenses{},
		uploads:   &fakeUploads{},
	}
	h := NewHandler(a.timesheet, a.leaves, a.expenses, a.uploads, logging.NewDiscardLogger())
	h.now = func() time.Time { return time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC) }

	reqLogger := slog.New(slog.NewJSONHandler(io.Discard, ECSHandlerOptions(slog.LevelInfo)))
	a.srv = httptest.NewServer(NewRouter(h, testSecret, []string{"*"}, reqLogger))
	t.Cleanup(a.srv.Close)
	return a
}

func token(t *testing.T, tenantID, userID string, role auth.Role) string {
	t.Helper()
	tok, err := auth.GenerateToken(auth.Principal{TenantID: tenantID, UserID: userID, Role: role}, testSecret, time.Hour)
	require.NoError(t, err)
	return tok
}
