package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/dmitrijs2005/punchkeeper/internal/client/client"
	"github.com/dmitrijs2005/punchkeeper/internal/client/models"
	"github.com/dmitrijs2005/punchkeeper/internal/client/reconcile"
	"github.com/dmitrijs2005/punchkeeper/internal/client/worktime"
	"github.com/dmitrijs2005/punchkeeper/internal/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var leaveNow = time.Date(2024, 6, 3, 9, 0, 0, 0, time.UTC)

func annualForm(start, days string) *worktime.LeaveForm {
	form := worktime.NewLeaveForm(models.LeaveAnnual, time.UTC)
	form.SetStart(start)
	form.SetNumDays(days, leaveNow)
	form.Reason = " family trip "
	return form
}

func TestLeaveCreate_Online(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, fixedNow(leaveNow))

	out, err := f.leaves.Create(ctx, annualForm("2024-06-10", "5"))
	require.NoError(t, err)
	assert.True(t, out.Synced)
	assert.Equal(t, "lv-1", out.Record.ID)
	assert.Equal(t, "2024-06-14", out.Record.EndDate)
	assert.Equal(t, 5, out.Record.Days)
	assert.Equal(t, "family trip", out.Record.Reason)

	stored, err := f.repos.Leaves.Get(ctx, "lv-1")
	require.NoError(t, err)
	assert.True(t, stored.Synced)

	queued, err := f.repos.Leaves.ListUnsynced(ctx, "t1")
	require.NoError(t, err)
	assert.Empty(t, queued)
}

func TestLeaveCreate_ValidationBeforeNetwork(t *testing.T) {
	f := newFixture(t, fixedNow(leaveNow))

	_, err := f.leaves.Create(context.Background(), annualForm("2024-05-01", "3"))
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs.ToMap(), "start_date")
	assert.Zero(t, f.fake.calls)
}

func TestLeaveCreate_RefusedIsNotQueued(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, fixedNow(leaveNow))
	f.fake.setRefuse(KindLeave, fmt.Errorf("%w: overlaps approved leave", client.ErrConflict))

	out, err := f.leaves.Create(ctx, annualForm("2024-06-10", "5"))
	require.ErrorIs(t, err, client.ErrConflict)
	assert.Nil(t, out)

	stored, err := f.repos.Leaves.ListByUser(ctx, testScope)
	require.NoError(t, err)
	assert.Empty(t, stored)
	assert.Empty(t, f.leaves.List(ctx).Items)
}

func TestLeave_OfflineCreateAndCancel(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, fixedNow(leaveNow))
	f.fake.setDown(true)

	out, err := f.leaves.Create(ctx, annualForm("2024-06-10", "2"))
	require.NoError(t, err)
	assert.False(t, out.Synced)
	assert.Equal(t, NoticeQueued, out.Notice)
	require.True(t, models.IsProvisional(out.Record.ID))

	res := f.leaves.List(ctx)
	assert.Equal(t, reconcile.SourceNone, res.Source)
	require.Len(t, res.Items, 1)

	cancelled, err := f.leaves.Cancel(ctx, out.Record.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCancelled, cancelled.Record.Status)

	res = f.leaves.List(ctx)
	assert.Empty(t, res.Items)
	assert.Zero(t, len(f.fake.leaves))
}

func TestLeaveCancel_Synced(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, fixedNow(leaveNow))

	out, err := f.leaves.Create(ctx, annualForm("2024-06-10", "2"))
	require.NoError(t, err)

	f.fake.setDown(true)
	cancelled, err := f.leaves.Cancel(ctx, out.Record.ID)
	require.NoError(t, err)
	assert.Equal(t, NoticeQueued, cancelled.Notice)

	// nothing was ever listed, so offline the local store is all there is
	res := f.leaves.List(ctx)
	assert.Equal(t, reconcile.SourceNone, res.Source)
	require.Len(t, res.Items, 1)
	assert.Equal(t, models.StatusCancelled, res.Items[0].Status)

	f.fake.setDown(false)
	report, err := f.sync.Drain(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Leaves)
	assert.Equal(t, models.StatusCancelled, f.fake.leaves[0].Status)
}

func TestLeaveCancel_NotEditable(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, fixedNow(leaveNow))
	f.fake.leaves = []models.LeaveRequest{
		{ID: "lv-7", TenantID: "t1", UserID: "u1", Type: models.LeaveSick, StartDate: "2024-05-02", EndDate: "2024-05-03", Days: 2, Status: models.StatusApproved},
	}

	_, err := f.leaves.Cancel(ctx, "lv-7")
	require.ErrorIs(t, err, ErrNotEditable)

	_, err = f.leaves.Cancel(ctx, "lv-404")
	require.Error(t, err)
}

func TestLeaveEdit(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, fixedNow(leaveNow))

	out, err := f.leaves.Create(ctx, annualForm("2024-06-10", "2"))
	require.NoError(t, err)

	edited, err := f.leaves.Edit(ctx, out.Record.ID, annualForm("2024-06-17", "3"))
	require.NoError(t, err)
	assert.True(t, edited.Synced)
	assert.Equal(t, out.Record.ID, edited.Record.ID)
	require.Len(t, f.fake.leaves, 1)
	assert.Equal(t, "2024-06-19", f.fake.leaves[0].EndDate)
	assert.Equal(t, 3, f.fake.leaves[0].Days)
}

func TestLeaveBalancesAndDaysUsed(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, fixedNow(leaveNow))
	f.fake.balances = []models.LeaveBalance{
		{Type: models.LeaveAnnual, EntitledDays: 25, UsedDays: 3, RemainingDays: 22},
	}
	f.fake.leaves = []models.LeaveRequest{
		{ID: "lv-1", UserID: "u1", StartDate: "2024-05-06", EndDate: "2024-05-08", Status: models.StatusApproved},
		{ID: "lv-2", UserID: "u1", StartDate: "2024-06-01", EndDate: "2024-06-10", Status: models.StatusApproved},
		{ID: "lv-3", UserID: "u1", StartDate: "2024-04-01", EndDate: "2024-04-05", Status: models.StatusRejected},
	}

	res := f.leaves.Balances(ctx)
	require.Len(t, res.Items, 1)
	assert.Equal(t, 22, res.Items[0].RemainingDays)

	used, notice := f.leaves.DaysUsed(ctx)
	assert.Equal(t, 6, used)
	assert.Empty(t, notice)

	f.fake.setDown(true)
	res = f.leaves.Balances(ctx)
	assert.Equal(t, reconcile.SourceCache, res.Source)
	assert.Len(t, res.Items, 1)

	used, notice = f.leaves.DaysUsed(ctx)
	assert.Equal(t, 6, used)
	assert.Equal(t, reconcile.NoticeOffline, notice)
}
