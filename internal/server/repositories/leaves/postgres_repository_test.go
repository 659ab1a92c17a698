package leaves

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/punchkeeper/internal/common"
	"github.com/dmitrijs2005/punchkeeper/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewPostgresRepository(db), mock, db
}

var (
	stamp = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	cols  = []string{"id", "tenant_id", "user_id", "leave_type", "start_date", "end_date", "days", "reason", "status", "created_at", "updated_at"}
)

func request() *models.LeaveRequest {
	return &models.LeaveRequest{
		TenantID: "t1", UserID: "u1", LeaveType: models.LeaveAnnual,
		StartDate: "2026-03-16", EndDate: "2026-03-17", Days: 2, Reason: "trip", Status: models.StatusPending,
	}
}

func TestCreate(t *testing.T) {
	repo, mock, _ := newRepoWithMock(t)

	mock.ExpectQuery(`INSERT INTO leave_requests .* RETURNING id, created_at, updated_at`).
		WithArgs("t1", "u1", "ANNUAL", "2026-03-16", "2026-03-17", 2, "trip", "PENDING").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow("l1", stamp, stamp))

	got, err := repo.Create(context.Background(), request())
	require.NoError(t, err)
	assert.Equal(t, "l1", got.ID)
	assert.True(t, got.CreatedAt.Equal(stamp))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_DBError(t *testing.T) {
	repo, mock, _ := newRepoWithMock(t)

	mock.ExpectQuery(`INSERT INTO leave_requests`).WillReturnError(errors.New("db down"))

	_, err := repo.Create(context.Background(), request())
	require.Error(t, err)
	assert.Regexp(t, regexp.MustCompile(`db error: .*db down`), err.Error())
}

func TestGet(t *testing.T) {
	repo, mock, _ := newRepoWithMock(t)

	mock.ExpectQuery(`SELECT id, .* FROM leave_requests WHERE tenant_id = \$1 AND id = \$2`).
		WithArgs("t1", "l1").
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow("l1", "t1", "u1", "SICK", "2026-03-16", "2026-03-16", 1, "", "APPROVED", stamp, stamp))

	got, err := repo.Get(context.Background(), "t1", "l1")
	require.NoError(t, err)
	assert.Equal(t, models.LeaveSick, got.LeaveType)
	assert.Equal(t, models.StatusApproved, got.Status)
	assert.Equal(t, "2026-03-16", got.StartDate)
}

func TestGet_NotFound(t *testing.T) {
	repo, mock, _ := newRepoWithMock(t)

	mock.ExpectQuery(`FROM leave_requests`).WillReturnError(sql.ErrNoRows)

	_, err := repo.Get(context.Background(), "t1", "nope")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestUpdate(t *testing.T) {
	repo, mock, _ := newRepoWithMock(t)

	later := stamp.Add(time.Hour)
	req := request()
	req.ID = "l1"
	req.Status = models.StatusCancelled
	mock.ExpectQuery(`UPDATE leave_requests SET .* WHERE tenant_id = \$1 AND id = \$2 AND status = 'PENDING' RETURNING updated_at`).
		WithArgs("t1", "l1", "ANNUAL", "2026-03-16", "2026-03-17", 2, "trip", "CANCELLED").
		WillReturnRows(sqlmock.NewRows([]string{"updated_at"}).AddRow(later))

	got, err := repo.Update(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, got.UpdatedAt.Equal(later))
}

func TestUpdate_NotPending(t *testing.T) {
	repo, mock, _ := newRepoWithMock(t)

	mock.ExpectQuery(`UPDATE leave_requests`).WillReturnError(sql.ErrNoRows)

	_, err := repo.Update(context.Background(), request())
	assert.ErrorIs(t, err, common.ErrorNotEditable)
}

func TestListByUser(t *testing.T) {
	repo, mock, _ := newRepoWithMock(t)

	mock.ExpectQuery(`FROM leave_requests WHERE tenant_id = \$1 AND user_id = \$2 ORDER BY start_date DESC`).
		WithArgs("t1", "u1").
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow("l2", "t1", "u1", "ANNUAL", "2026-04-01", "2026-04-03", 3, "", "PENDING", stamp, stamp).
			AddRow("l1", "t1", "u1", "SICK", "2026-03-02", "2026-03-02", 1, "", "APPROVED", stamp, stamp))

	got, err := repo.ListByUser(context.Background(), "t1", "u1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "l2", got[0].ID)
	assert.Equal(t, 1, got[1].Days)
}

func TestListByUser_ScanError(t *testing.T) {
	repo, mock, _ := newRepoWithMock(t)

	mock.ExpectQuery(`FROM leave_requests`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("l1"))

	_, err := repo.ListByUser(context.Background(), "t1", "u1")
	assert.Error(t, err)
}

func TestEntitlements(t *testing.T) {
	repo, mock, _ := newRepoWithMock(t)

	mock.ExpectQuery(`SELECT tenant_id, leave_type, days FROM leave_entitlements WHERE tenant_id = \$1`).
		WithArgs("t1").
		WillReturnRows(sqlmock.NewRows([]string{"tenant_id", "leave_type", "days"}).
			AddRow("t1", "ANNUAL", 25))

	got, err := repo.Entitlements(context.Background(), "t1")
	require.NoError(t, err)
	assert.Equal(t, []models.Entitlement{{TenantID: "t1", LeaveType: models.LeaveAnnual, Days: 25}}, got)
}

func TestSetEntitlement(t *testing.T) {
	repo, mock, _ := newRepoWithMock(t)

	mock.ExpectExec(`INSERT INTO leave_entitlements .* ON CONFLICT \(tenant_id, leave_type\) DO UPDATE SET days = EXCLUDED.days`).
		WithArgs("t1", "SICK", 12).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.SetEntitlement(context.Background(), models.Entitlement{TenantID: "t1", LeaveType: models.LeaveSick, Days: 12}))

	mock.ExpectExec(`INSERT INTO leave_entitlements`).WillReturnError(errors.New("db down"))
	assert.Error(t, repo.SetEntitlement(context.Background(), models.Entitlement{TenantID: "t1"}))
}
