package services

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/punchkeeper/internal/client/geo"
	"github.com/dmitrijs2005/punchkeeper/internal/client/models"
	"github.com/dmitrijs2005/punchkeeper/internal/client/reconcile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var staticSite = geo.StaticLocator{Latitude: 56.9496, Longitude: 24.1052, Accuracy: 15}

var morning = time.Date(2024, 6, 3, 8, 0, 0, 0, time.UTC)

func TestPunch_Online(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, clock(morning))

	out, err := f.punch.Punch(ctx, "")
	require.NoError(t, err)
	assert.True(t, out.Synced)
	assert.Empty(t, out.Notice)
	assert.Equal(t, models.ClockIn, out.Record.Type)
	require.NotNil(t, out.Record.Location)
	assert.InDelta(t, 56.9496, out.Record.Location.Latitude, 1e-9)
	assert.False(t, out.Record.VerificationSkipped)

	require.Len(t, f.fake.punches, 1)
	queued, err := f.repos.Punches.ListUnsynced(ctx, testScope.TenantID)
	require.NoError(t, err)
	assert.Empty(t, queued)

	day := f.punch.Today(ctx)
	require.Len(t, day.Timeline, 1)
	assert.Equal(t, models.ClockOut, day.Next)
	assert.Empty(t, day.Notice)
}

func TestPunchWithPhoto_AttachesUploadedKey(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, clock(morning))

	photo := filepath.Join(t.TempDir(), "selfie.png")
	require.NoError(t, os.WriteFile(photo, []byte("\x89PNG\r\n\x1a\nfake"), 0o600))

	out, err := f.punch.PunchWithPhoto(ctx, models.ClockIn, photo)
	require.NoError(t, err)
	assert.True(t, out.Synced)
	assert.Empty(t, out.Notice)
	assert.Equal(t, "t1/punch-photo/1", out.Record.PhotoURL)
	assert.Equal(t, 1, f.fake.uploads)
	require.Len(t, f.fake.punches, 1)
	assert.Equal(t, "t1/punch-photo/1", f.fake.punches[0].PhotoURL)
}

func TestPunchWithPhoto_MissingFileStillPunches(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, clock(morning))

	out, err := f.punch.PunchWithPhoto(ctx, models.ClockIn, filepath.Join(t.TempDir(), "gone.jpg"))
	require.NoError(t, err)
	assert.True(t, out.Synced)
	assert.Equal(t, NoticePhotoSkipped, out.Notice)
	assert.Empty(t, out.Record.PhotoURL)
	assert.Zero(t, f.fake.uploads)
}

func TestPunch_OfflineIsQueued(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, clock(morning))
	f.fake.setDown(true)

	out, err := f.punch.Punch(ctx, models.ClockIn)
	require.NoError(t, err)
	assert.False(t, out.Synced)
	assert.Equal(t, NoticeQueued, out.Notice)

	queued, err := f.repos.Punches.ListUnsynced(ctx, testScope.TenantID)
	require.NoError(t, err)
	require.Len(t, queued, 1)
	assert.Equal(t, out.Record.ID, queued[0].ID)

	day := f.punch.Today(ctx)
	require.Len(t, day.Timeline, 1)
	assert.Equal(t, reconcile.NoticeOfflineEmpty, day.Notice)
	assert.Equal(t, models.ClockOut, day.Next)
}

func TestPunch_WithoutLocation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, clock(morning))
	svc := NewPunchService(f.session, f.fake, f.repos.Punches, f.repos.Cache, PunchOptions{
		Locator: geo.DeniedLocator{},
	})

	out, err := svc.Punch(ctx, models.ClockIn)
	require.NoError(t, err)
	assert.True(t, out.Record.VerificationSkipped)
	assert.Nil(t, out.Record.Location)
	assert.Equal(t, NoticeVerificationSkipped, out.Notice)
	require.Len(t, f.fake.punches, 1)
	assert.True(t, f.fake.punches[0].VerificationSkipped)
}

func TestPunch_RejectsReentrantPunch(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, clock(morning))

	entered := make(chan struct{})
	release := make(chan struct{})
	slow := geo.LocatorFunc(func(ctx context.Context) (models.Location, error) {
		close(entered)
		<-release
		return models.Location{Latitude: 1, Longitude: 2}, nil
	})
	svc := NewPunchService(f.session, f.fake, f.repos.Punches, f.repos.Cache, PunchOptions{
		Locator:         slow,
		LocationTimeout: 5 * time.Second,
	})

	var wg sync.WaitGroup
	wg.Add(1)
	var firstErr error
	go func() {
		defer wg.Done()
		_, firstErr = svc.Punch(ctx, models.ClockIn)
	}()

	<-entered
	_, err := svc.Punch(ctx, models.ClockIn)
	require.ErrorIs(t, err, ErrActionInProgress)

	close(release)
	wg.Wait()
	require.NoError(t, firstErr)
	assert.Len(t, f.fake.punches, 1)
}

func TestPunch_ConfirmedPunchVisibleOffline(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, clock(morning))

	_, err := f.punch.Punch(ctx, models.ClockIn)
	require.NoError(t, err)
	_, err = f.punch.Punch(ctx, models.ClockOut)
	require.NoError(t, err)

	f.fake.setDown(true)
	day := f.punch.Today(ctx)
	require.Len(t, day.Timeline, 2)
	assert.Equal(t, reconcile.NoticeOffline, day.Notice)
	assert.Equal(t, models.ClockIn, day.Next)
}

func TestPunch_EveningWestOfUTC(t *testing.T) {
	ctx := context.Background()
	newYork := time.FixedZone("EDT", -4*60*60)
	evening := time.Date(2024, 6, 3, 21, 0, 0, 0, newYork)
	f := newFixtureIn(t, clock(evening), newYork)
	// 22:00 the evening before is 2024-06-03 in UTC
	f.fake.punches = []models.TimeEntry{
		{ID: "prev", UserID: "u1", Type: models.ClockIn, Timestamp: time.Date(2024, 6, 2, 22, 0, 0, 0, newYork)},
	}

	out, err := f.punch.Punch(ctx, models.ClockIn)
	require.NoError(t, err)
	require.True(t, out.Synced)

	day := f.punch.Today(ctx)
	assert.Empty(t, day.Notice)
	require.Len(t, day.Timeline, 1)
	assert.Equal(t, out.Record.ID, day.Timeline[0].EntryID)
	assert.Equal(t, models.ClockOut, day.Next)

	prev := f.punch.History(ctx, time.Date(2024, 6, 2, 0, 0, 0, 0, newYork), time.Date(2024, 6, 2, 0, 0, 0, 0, newYork))
	require.Len(t, prev.Items, 1)
	assert.Equal(t, "prev", prev.Items[0].ID)
}

func TestPunch_ConfirmedPunchInCachedMonth(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, clock(morning))

	mv := f.punch.Month(ctx, 2024, time.June)
	require.Empty(t, mv.Summary.Days)

	_, err := f.punch.Punch(ctx, models.ClockIn)
	require.NoError(t, err)
	_, err = f.punch.Punch(ctx, models.ClockOut)
	require.NoError(t, err)

	f.fake.setDown(true)
	mv = f.punch.Month(ctx, 2024, time.June)
	assert.Equal(t, reconcile.NoticeOffline, mv.Notice)
	require.Len(t, mv.Summary.Days, 1)
	assert.Equal(t, time.Minute, mv.Summary.TotalWorked)
}

func TestPunch_UnknownType(t *testing.T) {
	f := newFixture(t, clock(morning))
	_, err := f.punch.Punch(context.Background(), models.PunchType("BREAK"))
	require.Error(t, err)
	assert.Empty(t, f.fake.punches)
}

func TestHistory_MergesQueuedPunches(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, fixedNow(morning.Add(10*time.Hour)))

	f.fake.punches = []models.TimeEntry{
		{ID: "r1", TenantID: "t1", UserID: "u1", Type: models.ClockIn, Timestamp: morning, Synced: true},
	}
	local := models.TimeEntry{ID: "l1", TenantID: "t1", UserID: "u1", Type: models.ClockOut, Timestamp: morning.Add(9 * time.Hour)}
	require.NoError(t, f.repos.Punches.Save(ctx, &local))
	// outside the range
	old := models.TimeEntry{ID: "l0", TenantID: "t1", UserID: "u1", Type: models.ClockIn, Timestamp: morning.AddDate(0, 0, -3)}
	require.NoError(t, f.repos.Punches.Save(ctx, &old))

	res := f.punch.History(ctx, morning, morning)
	assert.Equal(t, reconcile.SourceRemote, res.Source)
	require.Len(t, res.Items, 2)
	assert.Equal(t, "r1", res.Items[0].ID)
	assert.Equal(t, "l1", res.Items[1].ID)

	day := f.punch.Today(ctx)
	assert.Equal(t, 9*time.Hour, day.Worked)
	assert.Equal(t, time.Hour, day.Balance)
}

func TestMonth(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, fixedNow(time.Date(2024, 6, 20, 12, 0, 0, 0, time.UTC)))

	at := func(d, h int) time.Time { return time.Date(2024, 6, d, h, 0, 0, 0, time.UTC) }
	f.fake.punches = []models.TimeEntry{
		{ID: "a", UserID: "u1", Type: models.ClockIn, Timestamp: at(3, 8)},
		{ID: "b", UserID: "u1", Type: models.ClockOut, Timestamp: at(3, 16)},
		{ID: "c", UserID: "u1", Type: models.ClockIn, Timestamp: at(4, 8)},
	}

	mv := f.punch.Month(ctx, 2024, time.June)
	assert.Empty(t, mv.Notice)
	assert.Equal(t, 8*time.Hour, mv.Summary.TotalWorked)
	assert.Equal(t, 2, mv.Summary.DaysWorked)
	assert.Equal(t, 1, mv.Summary.DaysNeedingAdjustment)
}
