package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Quotation is a non-binding price offer; never fiscalized.
type Quotation struct {
	ID          string
	ReferenceNo string // unique
	CustomerID  string
	UserID      string
	Subtotal    decimal.Decimal
	TaxAmount   decimal.Decimal
	Total       decimal.Decimal
	ValidUntil  time.Time
	Status      string // draft, sent, accepted, expired
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// QuotationItem is one line of a quotation.
type QuotationItem struct {
	ID          string
	QuotationID string
	ProductID   string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	Subtotal    decimal.Decimal
}
