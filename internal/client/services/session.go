// Package services contains the application services of the PunchKeeper
// client: punching, adjustment requests, leave, expenses and the sync pass
// that drains the local queues.
//
// Every write lands in the local store first and is then offered to the
// server. When the server cannot be reached the record stays queued for the
// next drain. When the server refuses it (a conflict or a validation error)
// the local copy is discarded and the refusal is returned to the caller.
package services

import (
	"errors"
	"time"

	"github.com/dmitrijs2005/punchkeeper/internal/client/client"
	"github.com/dmitrijs2005/punchkeeper/internal/client/models"
	"github.com/dmitrijs2005/punchkeeper/internal/common"
	"github.com/dmitrijs2005/punchkeeper/internal/datex"
	"github.com/dmitrijs2005/punchkeeper/internal/logging"
)

var (
	ErrActionInProgress    = errors.New("another action is still in progress")
	ErrDuplicateAdjustment = errors.New("an adjustment for this day is already pending or approved")
	ErrNotEditable         = common.ErrorNotEditable
)

const (
	NoticeVerificationSkipped = "Location unavailable — verification skipped"
	NoticeQueued              = "Saved offline, will sync when back online"
	NoticeQueuedUnauthorized  = "Saved locally, will sync once the access token is renewed"
	NoticeStorageFailed       = "Could not save locally"
	NoticePhotoSkipped        = "Photo not attached"
)

// Session is who is using the client and in which time zone.
type Session struct {
	Scope        models.Scope
	EmployeeName string
	Location     *time.Location
	Now          func() time.Time
	Log          logging.Logger
}

func (s Session) loc() *time.Location {
	if s.Location == nil {
		return time.Local
	}
	return s.Location
}

func (s Session) now() time.Time {
	if s.Now == nil {
		return time.Now().In(s.loc())
	}
	return s.Now().In(s.loc())
}

func (s Session) today() time.Time {
	return datex.Midnight(s.now())
}

func (s Session) log() logging.Logger {
	if s.Log == nil {
		return logging.NewDiscardLogger()
	}
	return s.Log
}

// Outcome reports what happened to a write.
type Outcome[T any] struct {
	Record T
	// Synced is true when the server accepted the write right away.
	Synced bool
	Notice string
}

// keepQueued reports whether a record the server did not accept should
// wait in the local queue. Anything else would be refused again unchanged.
func keepQueued(err error) bool {
	return client.IsTransient(err) || errors.Is(err, client.ErrUnauthorized)
}

func queuedNotice(err error) string {
	if errors.Is(err, client.ErrUnauthorized) {
		return NoticeQueuedUnauthorized
	}
	return NoticeQueued
}
