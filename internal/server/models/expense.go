package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type ExpenseClaim struct {
	ID          string
	TenantID    string
	UserID      string
	ExpenseDate string
	Category    string
	Description string
	Amount      decimal.Decimal
	Currency    string
	ReceiptURL  string
	Status      Status
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
