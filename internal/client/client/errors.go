package client

import "errors"

var (
	ErrUnavailable           = errors.New("server unavailable")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrLocalDataNotAvailable = errors.New("local data unavailable")
	ErrNotFound              = errors.New("not found")
	ErrConflict              = errors.New("conflict")
	// ErrRejected covers the remaining 4xx answers, usually validation.
	ErrRejected = errors.New("request rejected")
)

// IsTransient reports whether retrying later may succeed.
func IsTransient(err error) bool {
	return errors.Is(err, ErrUnavailable)
}
