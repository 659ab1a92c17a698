package models

import "time"

// TimeEntry is one punch. ID is chosen by the client so a replayed punch
// lands on the same row.
type TimeEntry struct {
	ID                  string
	TenantID            string
	UserID              string
	Type                PunchType
	Timestamp           time.Time
	Latitude            *float64
	Longitude           *float64
	Accuracy            *float64
	PhotoURL            string
	VerificationSkipped bool
	CreatedAt           time.Time
}
