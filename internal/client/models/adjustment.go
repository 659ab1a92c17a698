package models

import "time"

type AdjustmentStatus string

const (
	AdjustmentPending  AdjustmentStatus = "PENDING"
	AdjustmentApproved AdjustmentStatus = "APPROVED"
	AdjustmentRejected AdjustmentStatus = "REJECTED"
)

// BlocksResubmission reports whether a request in this status prevents a
// second request for the same day. Only REJECTED frees the day again.
func (s AdjustmentStatus) BlocksResubmission() bool {
	return s == AdjustmentPending || s == AdjustmentApproved
}

// RequestedPunch is one corrected punch inside an adjustment request.
type RequestedPunch struct {
	Time        string    `json:"time"`
	Type        PunchType `json:"type"`
	Reason      string    `json:"reason"`
	DocumentURL string    `json:"documentUrl,omitempty"`
	// LocalDocument is the path of an attachment not uploaded yet.
	LocalDocument string `json:"localDocument,omitempty"`
}

type AdjustmentRequest struct {
	ID                string           `json:"id"`
	TenantID          string           `json:"tenantId"`
	UserID            string           `json:"userId"`
	EmployeeName      string           `json:"employeeName"`
	Date              string           `json:"date"`
	OriginalClockIn   *time.Time       `json:"originalClockIn,omitempty"`
	OriginalClockOut  *time.Time       `json:"originalClockOut,omitempty"`
	RequestedClockIn  *time.Time       `json:"requestedClockIn,omitempty"`
	RequestedClockOut *time.Time       `json:"requestedClockOut,omitempty"`
	RequestedPunches  []RequestedPunch `json:"requestedPunches"`
	Reason            string           `json:"reason"`
	DocumentURL       string           `json:"documentUrl,omitempty"`
	Status            AdjustmentStatus `json:"status"`
	ReviewedBy        *string          `json:"reviewedBy,omitempty"`
	ReviewedAt        *time.Time       `json:"reviewedAt,omitempty"`
	CreatedAt         time.Time        `json:"createdAt"`
}

// AdjustmentDraft is a punch being added in the correction editor. It only
// lives in memory. Seq is the creation order; an empty Time means the user
// has not picked one yet.
type AdjustmentDraft struct {
	ID       string
	Seq      int
	Time     string
	Reason   string
	Document string
}
