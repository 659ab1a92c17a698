package services

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/punchkeeper/internal/client/client"
	"github.com/dmitrijs2005/punchkeeper/internal/client/models"
	"github.com/dmitrijs2005/punchkeeper/internal/datex"
	"github.com/stretchr/testify/require"
)

var testScope = models.Scope{TenantID: "t1", UserID: "u1"}

// fakeClient is an in-memory system of record. When down is set every
// call fails like an unreachable server. failPunch fails single punches by
// id and refuse fails every write of a record kind.
type fakeClient struct {
	client.Client

	mu        sync.Mutex
	down      bool
	failPunch map[string]error
	refuse    map[string]error
	uploadURL string
	seq       int

	punches     []models.TimeEntry
	adjustments []models.AdjustmentRequest
	leaves      []models.LeaveRequest
	expenses    []models.ExpenseClaim
	balances    []models.LeaveBalance
	uploads     int
	calls       int
}

func newFakeClient() *fakeClient {
	return &fakeClient{failPunch: map[string]error{}, refuse: map[string]error{}}
}

func (f *fakeClient) setRefuse(kind string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err == nil {
		delete(f.refuse, kind)
		return
	}
	f.refuse[kind] = err
}

func (f *fakeClient) setDown(down bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.down = down
}

func (f *fakeClient) enter() error {
	f.mu.Lock()
	f.calls++
	if f.down {
		f.mu.Unlock()
		return fmt.Errorf("%w: connection refused", client.ErrUnavailable)
	}
	return nil
}

func (f *fakeClient) nextID(prefix string) string {
	f.seq++
	return fmt.Sprintf("%s-%d", prefix, f.seq)
}

func (f *fakeClient) Ping(context.Context) error {
	if err := f.enter(); err != nil {
		return err
	}
	defer f.mu.Unlock()
	return nil
}

func (f *fakeClient) GetTimeEntries(_ context.Context, scope models.Scope, from, to string) ([]models.TimeEntry, error) {
	if err := f.enter(); err != nil {
		return nil, err
	}
	defer f.mu.Unlock()
	var out []models.TimeEntry
	for _, e := range f.punches {
		d := datex.FormatDate(e.Timestamp.UTC())
		if e.UserID == scope.UserID && d >= from && d <= to {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeClient) SaveTimePunch(_ context.Context, e models.TimeEntry) (models.TimeEntry, error) {
	if err := f.enter(); err != nil {
		return e, err
	}
	defer f.mu.Unlock()
	if err := f.failPunch[e.ID]; err != nil {
		return e, fmt.Errorf("punch %s: %w", e.ID, err)
	}
	e.Synced = true
	for _, p := range f.punches {
		if p.ID == e.ID {
			return p, nil
		}
	}
	f.punches = append(f.punches, e)
	return e, nil
}

func (f *fakeClient) CreateTimeAdjustmentRequest(_ context.Context, a models.AdjustmentRequest) (models.AdjustmentRequest, error) {
	if err := f.enter(); err != nil {
		return a, err
	}
	defer f.mu.Unlock()
	if err := f.refuse[KindAdjustment]; err != nil {
		return a, err
	}
	a.ID = f.nextID("adj")
	f.adjustments = append(f.adjustments, a)
	return a, nil
}

func (f *fakeClient) GetTimeAdjustmentRequests(_ context.Context, scope models.Scope) ([]models.AdjustmentRequest, error) {
	if err := f.enter(); err != nil {
		return nil, err
	}
	defer f.mu.Unlock()
	return append([]models.AdjustmentRequest{}, f.adjustments...), nil
}

func (f *fakeClient) GetLeaveRequests(_ context.Context, scope models.Scope) ([]models.LeaveRequest, error) {
	if err := f.enter(); err != nil {
		return nil, err
	}
	defer f.mu.Unlock()
	return append([]models.LeaveRequest{}, f.leaves...), nil
}

func (f *fakeClient) CreateLeaveRequest(_ context.Context, r models.LeaveRequest) (models.LeaveRequest, error) {
	if err := f.enter(); err != nil {
		return r, err
	}
	defer f.mu.Unlock()
	if err := f.refuse[KindLeave]; err != nil {
		return r, err
	}
	r.ID = f.nextID("lv")
	r.Synced = true
	f.leaves = append(f.leaves, r)
	return r, nil
}

func (f *fakeClient) UpdateLeaveRequest(_ context.Context, r models.LeaveRequest) (models.LeaveRequest, error) {
	if err := f.enter(); err != nil {
		return r, err
	}
	defer f.mu.Unlock()
	if err := f.refuse[KindLeave]; err != nil {
		return r, err
	}
	for i := range f.leaves {
		if f.leaves[i].ID == r.ID {
			r.Synced = true
			f.leaves[i] = r
			return r, nil
		}
	}
	return r, client.ErrNotFound
}

func (f *fakeClient) GetLeaveBalances(_ context.Context, scope models.Scope) ([]models.LeaveBalance, error) {
	if err := f.enter(); err != nil {
		return nil, err
	}
	defer f.mu.Unlock()
	return append([]models.LeaveBalance{}, f.balances...), nil
}

func (f *fakeClient) GetExpenseClaims(_ context.Context, scope models.Scope) ([]models.ExpenseClaim, error) {
	if err := f.enter(); err != nil {
		return nil, err
	}
	defer f.mu.Unlock()
	return append([]models.ExpenseClaim{}, f.expenses...), nil
}

func (f *fakeClient) CreateExpenseClaim(_ context.Context, c models.ExpenseClaim) (models.ExpenseClaim, error) {
	if err := f.enter(); err != nil {
		return c, err
	}
	defer f.mu.Unlock()
	if err := f.refuse[KindExpense]; err != nil {
		return c, err
	}
	c.ID = f.nextID("exp")
	c.Synced = true
	f.expenses = append(f.expenses, c)
	return c, nil
}

func (f *fakeClient) UpdateExpenseClaim(_ context.Context, c models.ExpenseClaim) (models.ExpenseClaim, error) {
	if err := f.enter(); err != nil {
		return c, err
	}
	defer f.mu.Unlock()
	if err := f.refuse[KindExpense]; err != nil {
		return c, err
	}
	for i := range f.expenses {
		if f.expenses[i].ID == c.ID {
			c.Synced = true
			f.expenses[i] = c
			return c, nil
		}
	}
	return c, client.ErrNotFound
}

func (f *fakeClient) CreateUpload(_ context.Context, tenantID, kind, contentType string) (models.Upload, error) {
	if err := f.enter(); err != nil {
		return models.Upload{}, err
	}
	defer f.mu.Unlock()
	f.uploads++
	key := fmt.Sprintf("%s/%s/%d", tenantID, kind, f.uploads)
	return models.Upload{Key: key, URL: f.uploadURL + "/" + key, ExpiresAt: time.Now().Add(time.Hour)}, nil
}

// storageServer accepts presigned PUTs and counts them.
func storageServer(t *testing.T, f *fakeClient) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)
	f.uploadURL = srv.URL
	return srv
}

// clock returns a Now func starting at start that advances one minute per
// call, so consecutive punches get distinct timestamps.
func clock(start time.Time) func() time.Time {
	var mu sync.Mutex
	cur := start
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		t := cur
		cur = cur.Add(time.Minute)
		return t
	}
}

func fixedNow(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func newRepos(t *testing.T) *client.Repositories {
	t.Helper()
	repos, err := client.InitDatabase(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = repos.Close() })
	return repos
}

type fixture struct {
	fake        *fakeClient
	repos       *client.Repositories
	session     Session
	punch       PunchService
	adjustments AdjustmentService
	leaves      LeaveService
	expenses    ExpenseService
	sync        SyncService
}

func newFixture(t *testing.T, now func() time.Time) *fixture {
	t.Helper()
	return newFixtureIn(t, now, time.UTC)
}

// newFixtureIn is newFixture for a user whose calendar runs in loc.
func newFixtureIn(t *testing.T, now func() time.Time, loc *time.Location) *fixture {
	t.Helper()
	fake := newFakeClient()
	storageServer(t, fake)
	repos := newRepos(t)

	session := Session{
		Scope:        testScope,
		EmployeeName: "Jane Doe",
		Location:     loc,
		Now:          now,
	}
	uploader := NewUploader(fake, nil)

	punch := NewPunchService(session, fake, repos.Punches, repos.Cache, PunchOptions{
		Locator:  staticSite,
		Uploader: uploader,
	})
	adj := NewAdjustmentService(session, fake, repos.Adjustments, repos.Cache, punch, uploader)
	lv := NewLeaveService(session, fake, repos.Leaves, repos.Cache)
	exp := NewExpenseService(session, fake, repos.Expenses, repos.Cache, uploader)
	syncSvc := NewSyncService(session, fake, SyncRepositories{
		Punches:     repos.Punches,
		Adjustments: repos.Adjustments,
		Leaves:      repos.Leaves,
		Expenses:    repos.Expenses,
		Cache:       repos.Cache,
	}, adj, lv, exp)

	return &fixture{
		fake:        fake,
		repos:       repos,
		session:     session,
		punch:       punch,
		adjustments: adj,
		leaves:      lv,
		expenses:    exp,
		sync:        syncSvc,
	}
}
