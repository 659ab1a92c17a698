package wire

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// Envelope is the outer shape of every response body.
type Envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   *ErrorDetail    `json:"error,omitempty"`
}

type ErrorDetail struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

type Ping struct {
	Status string    `json:"status"`
	Time   time.Time `json:"time"`
}

type TimeEntry struct {
	ID                  string    `json:"id"`
	TenantID            string    `json:"tenant_id"`
	UserID              string    `json:"user_id"`
	Type                string    `json:"type"`
	Timestamp           time.Time `json:"timestamp"`
	Latitude            *float64  `json:"latitude,omitempty"`
	Longitude           *float64  `json:"longitude,omitempty"`
	Accuracy            *float64  `json:"accuracy,omitempty"`
	PhotoURL            string    `json:"photo_url,omitempty"`
	VerificationSkipped bool      `json:"verification_skipped"`
}

type RequestedPunch struct {
	Time        string `json:"time"`
	Type        string `json:"type"`
	Reason      string `json:"reason"`
	DocumentURL string `json:"document_url,omitempty"`
}

type TimeAdjustment struct {
	ID                string           `json:"id"`
	TenantID          string           `json:"tenant_id"`
	UserID            string           `json:"user_id"`
	EmployeeName      string           `json:"employee_name"`
	Date              string           `json:"date"`
	ClockIn           *time.Time       `json:"clock_in,omitempty"`
	ClockOut          *time.Time       `json:"clock_out,omitempty"`
	RequestedClockIn  *time.Time       `json:"requested_clock_in,omitempty"`
	RequestedClockOut *time.Time       `json:"requested_clock_out,omitempty"`
	RequestedPunches  []RequestedPunch `json:"requested_punches"`
	Reason            string           `json:"reason"`
	DocumentURL       string           `json:"document_url,omitempty"`
	Status            string           `json:"status"`
	ReviewedBy        *string          `json:"reviewed_by,omitempty"`
	ReviewedAt        *time.Time       `json:"reviewed_at,omitempty"`
	CreatedAt         time.Time        `json:"created_at"`
}

type LeaveRequest struct {
	ID        string    `json:"id"`
	TenantID  string    `json:"tenant_id"`
	UserID    string    `json:"user_id"`
	LeaveType string    `json:"leave_type"`
	StartDate string    `json:"start_date"`
	EndDate   string    `json:"end_date"`
	Days      int       `json:"days"`
	Reason    string    `json:"reason"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

type LeaveBalance struct {
	LeaveType     string `json:"leave_type"`
	EntitledDays  int    `json:"entitled_days"`
	UsedDays      int    `json:"used_days"`
	PendingDays   int    `json:"pending_days"`
	RemainingDays int    `json:"remaining_days"`
}

type ExpenseClaim struct {
	ID          string          `json:"id"`
	TenantID    string          `json:"tenant_id"`
	UserID      string          `json:"user_id"`
	ExpenseDate string          `json:"expense_date"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
	ReceiptURL  string          `json:"receipt_url,omitempty"`
	Status      string          `json:"status"`
	CreatedAt   time.Time       `json:"created_at"`
}

type UploadRequest struct {
	Kind        string `json:"kind"`
	ContentType string `json:"content_type"`
}

type Upload struct {
	Key       string    `json:"key"`
	UploadURL string    `json:"upload_url"`
	ExpiresAt time.Time `json:"expires_at"`
}
