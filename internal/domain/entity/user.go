package entity

import "time"

// Roles recognized by the RBAC middleware.
const (
	RoleAdmin   = "admin"
	RoleManager = "manager"
	RoleCashier = "cashier"
)

// User is an operator of the system.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         string // see Role* constants
	Status       string // active, suspended
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
