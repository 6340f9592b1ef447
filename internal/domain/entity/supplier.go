package entity

import "time"

// Supplier provides purchased stock.
type Supplier struct {
	ID        string
	Name      string
	Email     string
	Phone     string
	Address   string
	TaxID     string
	Status    string // active, inactive
	CreatedAt time.Time
	UpdatedAt time.Time
}
