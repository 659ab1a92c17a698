package models

import "time"

type LeaveType string

const (
	LeaveAnnual    LeaveType = "ANNUAL"
	LeaveSick      LeaveType = "SICK"
	LeaveMaternity LeaveType = "MATERNITY"
	LeavePaternity LeaveType = "PATERNITY"
	LeaveUnpaid    LeaveType = "UNPAID"
	LeavePersonal  LeaveType = "PERSONAL"
)

var LeaveTypes = []LeaveType{LeaveAnnual, LeaveSick, LeaveMaternity, LeavePaternity, LeaveUnpaid, LeavePersonal}

func (t LeaveType) Valid() bool {
	for _, lt := range LeaveTypes {
		if lt == t {
			return true
		}
	}
	return false
}

// RequestStatus is shared by leave requests and expense claims.
type RequestStatus string

const (
	StatusPending   RequestStatus = "PENDING"
	StatusApproved  RequestStatus = "APPROVED"
	StatusRejected  RequestStatus = "REJECTED"
	StatusCancelled RequestStatus = "CANCELLED"
)

// Editable reports whether the owner may still cancel or edit the record.
func (s RequestStatus) Editable() bool {
	return s == StatusPending
}

type LeaveRequest struct {
	ID        string        `json:"id"`
	TenantID  string        `json:"tenantId"`
	UserID    string        `json:"userId"`
	Type      LeaveType     `json:"type"`
	StartDate string        `json:"startDate"`
	EndDate   string        `json:"endDate"`
	Days      int           `json:"days"`
	Reason    string        `json:"reason"`
	Status    RequestStatus `json:"status"`
	CreatedAt time.Time     `json:"createdAt"`
	Synced    bool          `json:"synced"`
}

type LeaveBalance struct {
	Type          LeaveType `json:"type"`
	EntitledDays  int       `json:"entitledDays"`
	UsedDays      int       `json:"usedDays"`
	PendingDays   int       `json:"pendingDays"`
	RemainingDays int       `json:"remainingDays"`
}
