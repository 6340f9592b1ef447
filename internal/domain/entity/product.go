package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a sellable item. Stock is the on-hand quantity; decremented by
// sales and incremented by purchases inside the same transaction.
type Product struct {
	ID         string
	SKU        string // unique
	Name       string
	BrandID    string
	CategoryID string
	Cost       decimal.Decimal
	Price      decimal.Decimal
	TaxRate    decimal.Decimal // VAT percentage, e.g. 15
	Stock      decimal.Decimal
	ReorderAt  decimal.Decimal // threshold for the low-stock dashboard widget
	Status     string          // active, inactive
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
