package entity

import "time"

// Customer is a buyer of the business.
type Customer struct {
	ID        string
	Name      string
	Email     string
	Phone     string
	Address   string
	TaxID     string // buyer TIN, optional; printed on fiscal receipts when present
	Status    string // active, inactive
	CreatedAt time.Time
	UpdatedAt time.Time
}
