package entity

import "time"

// Brand groups products by manufacturer label.
type Brand struct {
	ID        string
	Name      string
	Status    string // active, inactive
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Category groups products. Code is unique case-insensitively.
type Category struct {
	ID        string
	Name      string
	Code      string
	Status    string // active, inactive
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ExpenseCategory groups expenses.
type ExpenseCategory struct {
	ID        string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}
