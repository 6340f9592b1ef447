package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateExpenseRequest body for POST /api/expenses.
type CreateExpenseRequest struct {
	CategoryID  string          `json:"category_id"`
	Reference   string          `json:"reference,omitempty"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Date        time.Time       `json:"date"`
}

// UpdateExpenseRequest body for PUT/PATCH /api/expenses/:id.
type UpdateExpenseRequest struct {
	CategoryID  *string          `json:"category_id"`
	Description *string          `json:"description"`
	Amount      *decimal.Decimal `json:"amount"`
	Date        *time.Time       `json:"date"`
	Status      *string          `json:"status"`
}

// ExpenseResponse expense in responses.
type ExpenseResponse struct {
	ID          string          `json:"id"`
	CategoryID  string          `json:"category_id"`
	UserID      string          `json:"user_id"`
	Reference   string          `json:"reference"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Date        time.Time       `json:"date"`
	Status      string          `json:"status"`
}

// UpsertOrganizationRequest body for POST/PUT /api/organization.
type UpsertOrganizationRequest struct {
	Name      string `json:"name"`
	TradeName string `json:"trade_name,omitempty"`
	TIN       string `json:"tin,omitempty"`
	VATNumber string `json:"vat_number,omitempty"`
	Address   string `json:"address,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Email     string `json:"email,omitempty"`
	Currency  string `json:"currency,omitempty"`
}

// OrganizationResponse organization in responses.
type OrganizationResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	TradeName string `json:"trade_name,omitempty"`
	TIN       string `json:"tin,omitempty"`
	VATNumber string `json:"vat_number,omitempty"`
	Address   string `json:"address,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Email     string `json:"email,omitempty"`
	Currency  string `json:"currency"`
}

// CreateUserRequest body for POST /api/users.
type CreateUserRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// UpdateUserRequest body for PUT/PATCH /api/users/:id.
type UpdateUserRequest struct {
	Name     *string `json:"name"`
	Role     *string `json:"role"`
	Status   *string `json:"status"`
	Password *string `json:"password"`
}

// UserResponse user in responses. Never carries the password hash.
type UserResponse struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	Status string `json:"status"`
}

// LoginRequest body for POST /api/auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse token plus the authenticated user.
type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// NotificationResponse one notification in responses.
type NotificationResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	Kind      string    `json:"kind"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

// DashboardSummaryResponse body of GET /api/dashboard/summary.
type DashboardSummaryResponse struct {
	TodaySales    decimal.Decimal   `json:"today_sales"`
	TodayCount    int               `json:"today_count"`
	MonthSales    decimal.Decimal   `json:"month_sales"`
	MonthCount    int               `json:"month_count"`
	MonthExpenses decimal.Decimal   `json:"month_expenses"`
	CustomerCount int               `json:"customer_count"`
	TopProducts   []TopProductEntry `json:"top_products"`
	LowStock      []LowStockEntry   `json:"low_stock"`
}

// TopProductEntry one best-seller row.
type TopProductEntry struct {
	ProductID string          `json:"product_id"`
	SKU       string          `json:"sku"`
	Name      string          `json:"name"`
	UnitsSold decimal.Decimal `json:"units_sold"`
	Revenue   decimal.Decimal `json:"revenue"`
}

// LowStockEntry one low-stock row.
type LowStockEntry struct {
	ProductID string          `json:"product_id"`
	SKU       string          `json:"sku"`
	Name      string          `json:"name"`
	Stock     decimal.Decimal `json:"stock"`
	ReorderAt decimal.Decimal `json:"reorder_at"`
}

// SalesReportRequest descriptor for POST /api/reports/sales/pdf.
type SalesReportRequest struct {
	From  time.Time `json:"from"`
	To    time.Time `json:"to"`
	Title string    `json:"title,omitempty"`
}
