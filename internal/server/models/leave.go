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

// LeaveTypes lists every type in the order balances are reported.
var LeaveTypes = []LeaveType{LeaveAnnual, LeaveSick, LeaveMaternity, LeavePaternity, LeaveUnpaid, LeavePersonal}

func (t LeaveType) Valid() bool {
	for _, lt := range LeaveTypes {
		if lt == t {
			return true
		}
	}
	return false
}

type LeaveRequest struct {
	ID        string
	TenantID  string
	UserID    string
	LeaveType LeaveType
	StartDate string
	EndDate   string
	Days      int
	Reason    string
	Status    Status
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Entitlement is the yearly allowance of one leave type for a tenant.
type Entitlement struct {
	TenantID  string
	LeaveType LeaveType
	Days      int
}

// Employee holds the HR facts balances depend on.
type Employee struct {
	TenantID string
	UserID   string
	Name     string
	HireDate string
}

type LeaveBalance struct {
	LeaveType     LeaveType
	EntitledDays  int
	UsedDays      int
	PendingDays   int
	RemainingDays int
}
