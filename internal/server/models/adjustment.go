package models

import "time"

// RequestedPunch is stored as a JSONB array on its adjustment.
type RequestedPunch struct {
	Time        string    `json:"time"`
	Type        PunchType `json:"type"`
	Reason      string    `json:"reason"`
	DocumentURL string    `json:"document_url,omitempty"`
}

type TimeAdjustment struct {
	ID                string
	TenantID          string
	UserID            string
	EmployeeName      string
	Date              string
	ClockIn           *time.Time
	ClockOut          *time.Time
	RequestedClockIn  *time.Time
	RequestedClockOut *time.Time
	RequestedPunches  []RequestedPunch
	Reason            string
	DocumentURL       string
	Status            Status
	ReviewedBy        *string
	ReviewedAt        *time.Time
	CreatedAt         time.Time
}
