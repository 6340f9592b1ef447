package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Purchase is stock received from a supplier.
type Purchase struct {
	ID          string
	ReferenceNo string // unique
	SupplierID  string
	UserID      string
	Subtotal    decimal.Decimal
	TaxAmount   decimal.Decimal
	Total       decimal.Decimal
	Status      string // received, cancelled
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// PurchaseItem is one line of a purchase.
type PurchaseItem struct {
	ID         string
	PurchaseID string
	ProductID  string
	Quantity   decimal.Decimal
	UnitCost   decimal.Decimal
	Subtotal   decimal.Decimal
}
