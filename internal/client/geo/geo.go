// Package geo acquires the device position for a punch without ever
// blocking the punch for long.
package geo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/punchkeeper/internal/client/models"
)

const (
	// OuterTimeout is how long a punch waits for a position.
	OuterTimeout = 5 * time.Second
	// InnerTimeout bounds the locator call itself.
	InnerTimeout = 10 * time.Second
)

var (
	ErrLocationUnavailable = errors.New("location unavailable")
	ErrPermissionDenied    = errors.New("location permission denied")
)

type Locator interface {
	Locate(ctx context.Context) (models.Location, error)
}

type LocatorFunc func(ctx context.Context) (models.Location, error)

func (f LocatorFunc) Locate(ctx context.Context) (models.Location, error) { return f(ctx) }

// StaticLocator always reports the same position, e.g. one set in config.
type StaticLocator models.Location

func (s StaticLocator) Locate(context.Context) (models.Location, error) {
	return models.Location(s), nil
}

// DeniedLocator stands in when no position source is configured.
type DeniedLocator struct{}

func (DeniedLocator) Locate(context.Context) (models.Location, error) {
	return models.Location{}, ErrPermissionDenied
}

type result struct {
	loc models.Location
	err error
}

// Acquire races l against timeout. Every failure wraps
// ErrLocationUnavailable so callers can proceed without a position.
func Acquire(ctx context.Context, l Locator, timeout time.Duration) (*models.Location, error) {
	if l == nil {
		return nil, ErrLocationUnavailable
	}
	if timeout <= 0 {
		timeout = OuterTimeout
	}

	inner, cancel := context.WithTimeout(ctx, InnerTimeout)
	defer cancel()

	ch := make(chan result, 1)
	go func() {
		loc, err := l.Locate(inner)
		ch <- result{loc: loc, err: err}
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case r := <-ch:
		if r.err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLocationUnavailable, r.err)
		}
		return &r.loc, nil
	case <-timer.C:
		return nil, fmt.Errorf("%w: timed out after %s", ErrLocationUnavailable, timeout)
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %w", ErrLocationUnavailable, ctx.Err())
	}
}
