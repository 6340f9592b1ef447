package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Expense statuses. Approved expenses cannot be deleted.
const (
	ExpenseStatusPending  = "pending"
	ExpenseStatusApproved = "approved"
	ExpenseStatusRejected = "rejected"
)

// Expense is an operational cost entry.
type Expense struct {
	ID          string
	CategoryID  string
	UserID      string
	Reference   string // unique
	Description string
	Amount      decimal.Decimal
	Date        time.Time
	Status      string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
