package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type ExpenseClaim struct {
	ID          string          `json:"id"`
	TenantID    string          `json:"tenantId"`
	UserID      string          `json:"userId"`
	Date        string          `json:"date"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
	ReceiptURL  string          `json:"receiptUrl,omitempty"`
	// LocalReceipt is the path of a receipt not uploaded yet.
	LocalReceipt string        `json:"localReceipt,omitempty"`
	Status       RequestStatus `json:"status"`
	CreatedAt    time.Time     `json:"createdAt"`
	Synced       bool          `json:"synced"`
}
