package adjustments

import (
	"context"
	"database/sql"
	"testing"

	"github.com/dmitrijs2005/punchkeeper/internal/client/migrations"
	"github.com/dmitrijs2005/punchkeeper/internal/client/models"
	"github.com/dmitrijs2005/punchkeeper/internal/dbx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

var scope = models.Scope{TenantID: "t1", UserID: "u1"}

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, migrations.Up(context.Background(), db))
	return db
}

func staged(id, date string) *models.AdjustmentRequest {
	return &models.AdjustmentRequest{
		ID:       id,
		TenantID: scope.TenantID,
		UserID:   scope.UserID,
		Date:     date,
		Status:   models.AdjustmentPending,
		Reason:   "forgot to clock out",
		RequestedPunches: []models.RequestedPunch{
			{Time: "17:00", Type: models.ClockOut, Reason: "forgot to clock out"},
		},
	}
}

func TestSaveAndList(t *testing.T) {
	ctx := context.Background()
	r := NewSQLiteRepository(setupDB(t))

	require.NoError(t, r.Save(ctx, staged("temp-1", "2024-06-03")))
	require.NoError(t, r.Save(ctx, staged("srv-2", "2024-06-04")))
	other := staged("temp-3", "2024-06-05")
	other.UserID = "u2"
	require.NoError(t, r.Save(ctx, other))

	got, err := r.List(ctx, scope)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, *staged("temp-1", "2024-06-03"), got[0])
	assert.Equal(t, "srv-2", got[1].ID)

	prov, err := r.ListProvisional(ctx, "t1")
	require.NoError(t, err)
	require.Len(t, prov, 2)
	assert.Equal(t, "temp-1", prov[0].ID)
	assert.Equal(t, "temp-3", prov[1].ID)
}

func TestReplace(t *testing.T) {
	ctx := context.Background()
	r := NewSQLiteRepository(setupDB(t))
	require.NoError(t, r.Save(ctx, staged("temp-1", "2024-06-03")))
	require.NoError(t, r.Save(ctx, staged("temp-2", "2024-06-04")))

	require.NoError(t, r.Replace(ctx, scope, []models.AdjustmentRequest{*staged("temp-2", "2024-06-04")}))

	got, err := r.List(ctx, scope)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "temp-2", got[0].ID)

	require.NoError(t, r.Replace(ctx, scope, nil))
	got, err = r.List(ctx, scope)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestReplaceID(t *testing.T) {
	ctx := context.Background()
	r := NewSQLiteRepository(setupDB(t))
	require.NoError(t, r.Save(ctx, staged("temp-1", "2024-06-03")))

	require.NoError(t, r.ReplaceID(ctx, "temp-1", "srv-10"))

	got, err := r.List(ctx, scope)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "srv-10", got[0].ID)

	prov, err := r.ListProvisional(ctx, "t1")
	require.NoError(t, err)
	assert.Empty(t, prov)

	assert.ErrorIs(t, r.ReplaceID(ctx, "temp-1", "srv-11"), dbx.ErrNoRowsAffected)
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	r := NewSQLiteRepository(setupDB(t))
	require.NoError(t, r.Save(ctx, staged("temp-1", "2024-06-03")))

	require.NoError(t, r.Delete(ctx, "temp-1"))
	assert.ErrorIs(t, r.Delete(ctx, "temp-1"), dbx.ErrNoRowsAffected)
}
