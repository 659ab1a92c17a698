// Package models defines the client's domain records: punches, adjustment
// requests, leave requests and expense claims.
package models

import "time"

type PunchType string

const (
	ClockIn  PunchType = "CLOCK_IN"
	ClockOut PunchType = "CLOCK_OUT"
)

func (p PunchType) Valid() bool {
	return p == ClockIn || p == ClockOut
}

// Label is the short form used in listings.
func (p PunchType) Label() string {
	switch p {
	case ClockIn:
		return "IN"
	case ClockOut:
		return "OUT"
	default:
		return "?"
	}
}

type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Accuracy  float64 `json:"accuracy,omitempty"`
}

// TimeEntry is a single punch. Once created only Synced changes.
type TimeEntry struct {
	ID                  string    `json:"id"`
	TenantID            string    `json:"tenantId"`
	UserID              string    `json:"userId"`
	Type                PunchType `json:"type"`
	Timestamp           time.Time `json:"timestamp"`
	Location            *Location `json:"location,omitempty"`
	PhotoURL            string    `json:"photoUrl,omitempty"`
	VerificationSkipped bool      `json:"verificationSkipped"`
	Synced              bool      `json:"synced"`
}
