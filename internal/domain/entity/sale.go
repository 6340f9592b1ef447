package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sale statuses.
const (
	SaleStatusCompleted = "completed"
	SaleStatusVoided    = "voided"
)

// Sale is a point-of-sale transaction. Fiscalization fields are stamped
// best-effort after a successful FDMS submission; a sale is valid without
// them.
type Sale struct {
	ID                  string
	InvoiceNo           string // unique human-facing reference
	CustomerID          string // optional; empty = walk-in
	UserID              string // cashier
	Subtotal            decimal.Decimal
	TaxAmount           decimal.Decimal
	Discount            decimal.Decimal
	Total               decimal.Decimal
	PaymentMethod       string // cash, card, mobile, mixed
	Status              string
	IsFiscalized        bool
	FiscalTransactionID string
	FiscalQRData        string
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// SaleItem is one line of a sale.
type SaleItem struct {
	ID        string
	SaleID    string
	ProductID string
	Quantity  decimal.Decimal
	UnitPrice decimal.Decimal
	TaxRate   decimal.Decimal
	Subtotal  decimal.Decimal
}
