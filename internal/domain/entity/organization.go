package entity

import "time"

// Organization is the business profile of the deployment. Single logical row.
type Organization struct {
	ID        string
	Name      string
	TradeName string
	TIN       string // ZIMRA taxpayer identification number
	VATNumber string
	Address   string
	Phone     string
	Email     string
	Currency  string // ISO code shown on receipts, e.g. "USD", "ZWG"
	CreatedAt time.Time
	UpdatedAt time.Time
}
