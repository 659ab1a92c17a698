// Package cache is the local read cache: the last successful remote payload
// of each list, keyed by kind, tenant and user.
package cache

import (
	"context"
)

type Repository interface {
	// Get returns nil, nil for a key that was never cached.
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context) (map[string][]byte, error)
	Clear(ctx context.Context) error
}
