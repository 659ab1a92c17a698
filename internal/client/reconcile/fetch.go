package reconcile

import (
	"context"
	"encoding/json"

	"github.com/dmitrijs2005/punchkeeper/internal/logging"
)

// Source tells where a list shown to the user came from.
type Source int

const (
	SourceRemote Source = iota
	SourceCache
	// SourceNone means the fetch failed and nothing was cached. This is
	// not the same as an empty list.
	SourceNone
)

func (s Source) String() string {
	switch s {
	case SourceRemote:
		return "remote"
	case SourceCache:
		return "cache"
	default:
		return "none"
	}
}

const (
	NoticeOffline      = "📴 Offline — showing cached data"
	NoticeOfflineEmpty = "Offline, no cached data"
	NoticeDegraded     = "Showing cached data"
)

// Result is a list plus how it was obtained.
type Result[T any] struct {
	Items  []T
	Source Source
	// Degraded is set when local storage failed while building the list.
	Degraded bool
	// Err is the remote error that caused a fallback, if any.
	Err error
}

// Notice is the banner to show above the list, empty when the data is live.
func (r Result[T]) Notice() string {
	switch {
	case r.Source == SourceNone:
		return NoticeOfflineEmpty
	case r.Source == SourceCache:
		return NoticeOffline
	case r.Degraded:
		return NoticeDegraded
	default:
		return ""
	}
}

// Cache is the keyed byte store the fetch falls back to.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}

// Fetch reads a list remotely and refreshes the cache entry key with it.
// When the remote call fails the last cached copy is returned instead.
// Storage errors never fail the call, they only mark the result degraded.
func Fetch[T any](ctx context.Context, log logging.Logger, cache Cache, key string, fetch func(context.Context) ([]T, error)) Result[T] {
	items, err := fetch(ctx)
	if err == nil {
		res := Result[T]{Items: items, Source: SourceRemote}
		payload, err := json.Marshal(items)
		if err == nil {
			err = cache.Set(ctx, key, payload)
		}
		if err != nil {
			log.Warn(ctx, "cache write failed", "key", key, "error", err)
			res.Degraded = true
		}
		return res
	}

	log.Warn(ctx, "remote fetch failed, falling back to cache", "key", key, "error", err)
	res := Result[T]{Source: SourceNone, Err: err}

	payload, cerr := cache.Get(ctx, key)
	if cerr != nil {
		log.Error(ctx, "cache read failed", "key", key, "error", cerr)
		res.Degraded = true
		return res
	}
	if payload == nil {
		return res
	}
	if cerr := json.Unmarshal(payload, &res.Items); cerr != nil {
		log.Error(ctx, "cached payload is corrupt", "key", key, "error", cerr)
		res.Items = nil
		res.Degraded = true
		return res
	}
	res.Source = SourceCache
	return res
}
