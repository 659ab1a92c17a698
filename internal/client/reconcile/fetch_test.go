package reconcile

import (
	"context"
	"errors"
	"testing"

	"github.com/dmitrijs2005/punchkeeper/internal/client/models"
	"github.com/dmitrijs2005/punchkeeper/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memCache struct {
	data   map[string][]byte
	getErr error
	setErr error
}

func newMemCache() *memCache { return &memCache{data: map[string][]byte{}} }

func (c *memCache) Get(_ context.Context, key string) ([]byte, error) {
	if c.getErr != nil {
		return nil, c.getErr
	}
	return c.data[key], nil
}

func (c *memCache) Set(_ context.Context, key string, value []byte) error {
	if c.setErr != nil {
		return c.setErr
	}
	c.data[key] = value
	return nil
}

var errOffline = errors.New("dial tcp: connection refused")

func remoteOK(items ...models.LeaveRequest) func(context.Context) ([]models.LeaveRequest, error) {
	return func(context.Context) ([]models.LeaveRequest, error) { return items, nil }
}

func remoteDown(context.Context) ([]models.LeaveRequest, error) { return nil, errOffline }

func TestFetch_RemoteRefreshesCache(t *testing.T) {
	ctx := context.Background()
	cache := newMemCache()
	log := logging.NewDiscardLogger()

	res := Fetch(ctx, log, cache, "leaves:t:u", remoteOK(models.LeaveRequest{ID: "l1", Type: models.LeaveSick}))
	require.Equal(t, SourceRemote, res.Source)
	assert.Empty(t, res.Notice())
	assert.Contains(t, cache.data, "leaves:t:u")

	res = Fetch(ctx, log, cache, "leaves:t:u", remoteDown)
	require.Equal(t, SourceCache, res.Source)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "l1", res.Items[0].ID)
	assert.ErrorIs(t, res.Err, errOffline)
	assert.Equal(t, NoticeOffline, res.Notice())
}

func TestFetch_NoCacheIsNotEmptyList(t *testing.T) {
	res := Fetch(context.Background(), logging.NewDiscardLogger(), newMemCache(), "k", remoteDown)
	assert.Equal(t, SourceNone, res.Source)
	assert.Nil(t, res.Items)
	assert.Equal(t, NoticeOfflineEmpty, res.Notice())
}

func TestFetch_StorageFailuresDegrade(t *testing.T) {
	ctx := context.Background()
	log := logging.NewDiscardLogger()

	t.Run("write", func(t *testing.T) {
		cache := newMemCache()
		cache.setErr = errors.New("disk full")
		res := Fetch(ctx, log, cache, "k", remoteOK(models.LeaveRequest{ID: "l1"}))
		assert.Equal(t, SourceRemote, res.Source)
		assert.True(t, res.Degraded)
		assert.Equal(t, NoticeDegraded, res.Notice())
		assert.Len(t, res.Items, 1)
	})

	t.Run("read", func(t *testing.T) {
		cache := newMemCache()
		cache.getErr = errors.New("locked")
		res := Fetch(ctx, log, cache, "k", remoteDown)
		assert.Equal(t, SourceNone, res.Source)
		assert.True(t, res.Degraded)
	})

	t.Run("corrupt", func(t *testing.T) {
		cache := newMemCache()
		cache.data["k"] = []byte("{not json")
		res := Fetch(ctx, log, cache, "k", remoteDown)
		assert.Equal(t, SourceNone, res.Source)
		assert.Nil(t, res.Items)
		assert.True(t, res.Degraded)
	})
}

func TestSource_String(t *testing.T) {
	assert.Equal(t, "remote", SourceRemote.String())
	assert.Equal(t, "cache", SourceCache.String())
	assert.Equal(t, "none", SourceNone.String())
}
