package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Invoice is a customer billing document (credit sales, deferred payment).
// Distinct from FiscalTransaction, which records the FDMS submission itself.
type Invoice struct {
	ID         string
	InvoiceNo  string // unique
	CustomerID string
	UserID     string
	Subtotal   decimal.Decimal
	TaxAmount  decimal.Decimal
	Total      decimal.Decimal
	AmountPaid decimal.Decimal
	DueDate    time.Time
	Status     string // unpaid, partial, paid, cancelled
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
