// Package models defines server-side records persisted in PostgreSQL.
package models

// Status is the review state shared by adjustments, leave requests and
// expense claims.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusApproved  Status = "APPROVED"
	StatusRejected  Status = "REJECTED"
	StatusCancelled Status = "CANCELLED"
)

// Editable reports whether the owner may still change the record.
func (s Status) Editable() bool {
	return s == StatusPending
}

// PunchType is the direction of a time entry.
type PunchType string

const (
	ClockIn  PunchType = "CLOCK_IN"
	ClockOut PunchType = "CLOCK_OUT"
)

func (t PunchType) Valid() bool {
	return t == ClockIn || t == ClockOut
}
