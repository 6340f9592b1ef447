package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// SalesMetrics is an aggregate over completed sales in a date range.
type SalesMetrics struct {
	SaleCount int
	Revenue   decimal.Decimal
	Tax       decimal.Decimal
}

// TopProductResult is one row of the best-sellers widget.
type TopProductResult struct {
	ProductID string
	SKU       string
	Name      string
	UnitsSold decimal.Decimal
	Revenue   decimal.Decimal
}

// LowStockResult is one row of the low-stock widget.
type LowStockResult struct {
	ProductID string
	SKU       string
	Name      string
	Stock     decimal.Decimal
	ReorderAt decimal.Decimal
}

// AnalyticsRepository runs the read-only dashboard aggregation queries.
type AnalyticsRepository interface {
	GetSalesMetrics(ctx context.Context, start, end time.Time) (*SalesMetrics, error)
	GetExpenseTotal(ctx context.Context, start, end time.Time) (decimal.Decimal, error)
	GetTopProducts(ctx context.Context, start, end time.Time, limit int) ([]TopProductResult, error)
	GetLowStock(ctx context.Context, limit int) ([]LowStockResult, error)
	CountCustomers(ctx context.Context) (int, error)
}
