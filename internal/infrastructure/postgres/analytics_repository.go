package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/retailcore/pos-api/internal/domain/entity"
	"github.com/retailcore/pos-api/internal/domain/repository"
)

var _ repository.AnalyticsRepository = (*AnalyticsRepo)(nil)

// AnalyticsRepo runs the dashboard aggregation queries on PostgreSQL.
type AnalyticsRepo struct {
	pool *pgxpool.Pool
}

// NewAnalyticsRepository builds the adapter.
func NewAnalyticsRepository(pool *pgxpool.Pool) *AnalyticsRepo {
	return &AnalyticsRepo{pool: pool}
}

func (r *AnalyticsRepo) GetSalesMetrics(ctx context.Context, start, end time.Time) (*repository.SalesMetrics, error) {
	var m repository.SalesMetrics
	err := querier(ctx, r.pool).QueryRow(ctx, `
		SELECT count(*), coalesce(sum(total), 0), coalesce(sum(tax_amount), 0)
		FROM sales
		WHERE status = $1 AND created_at >= $2 AND created_at < $3`,
		entity.SaleStatusCompleted, start, end,
	).Scan(&m.SaleCount, &m.Revenue, &m.Tax)
	if err != nil {
		return nil, fmt.Errorf("sales metrics: %w", err)
	}
	return &m, nil
}

func (r *AnalyticsRepo) GetExpenseTotal(ctx context.Context, start, end time.Time) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := querier(ctx, r.pool).QueryRow(ctx, `
		SELECT coalesce(sum(amount), 0)
		FROM expenses
		WHERE status = $1 AND date >= $2 AND date < $3`,
		entity.ExpenseStatusApproved, start, end,
	).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("expense total: %w", err)
	}
	return total, nil
}

func (r *AnalyticsRepo) GetTopProducts(ctx context.Context, start, end time.Time, limit int) ([]repository.TopProductResult, error) {
	rows, err := querier(ctx, r.pool).Query(ctx, `
		SELECT p.id, p.sku, p.name, sum(si.quantity), sum(si.subtotal)
		FROM sale_items si
		JOIN sales s ON s.id = si.sale_id
		JOIN products p ON p.id = si.product_id
		WHERE s.status = $1 AND s.created_at >= $2 AND s.created_at < $3
		GROUP BY p.id, p.sku, p.name
		ORDER BY sum(si.quantity) DESC
		LIMIT $4`,
		entity.SaleStatusCompleted, start, end, limit)
	if err != nil {
		return nil, fmt.Errorf("top products: %w", err)
	}
	defer rows.Close()

	var out []repository.TopProductResult
	for rows.Next() {
		var t repository.TopProductResult
		if err := rows.Scan(&t.ProductID, &t.SKU, &t.Name, &t.UnitsSold, &t.Revenue); err != nil {
			return nil, fmt.Errorf("scan top product: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *AnalyticsRepo) GetLowStock(ctx context.Context, limit int) ([]repository.LowStockResult, error) {
	rows, err := querier(ctx, r.pool).Query(ctx, `
		SELECT id, sku, name, stock, reorder_at
		FROM products
		WHERE status = 'active' AND stock <= reorder_at
		ORDER BY stock
		LIMIT $1`,
		limit)
	if err != nil {
		return nil, fmt.Errorf("low stock: %w", err)
	}
	defer rows.Close()

	var out []repository.LowStockResult
	for rows.Next() {
		var l repository.LowStockResult
		if err := rows.Scan(&l.ProductID, &l.SKU, &l.Name, &l.Stock, &l.ReorderAt); err != nil {
			return nil, fmt.Errorf("scan low stock: %w", err)
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (r *AnalyticsRepo) CountCustomers(ctx context.Context) (int, error) {
	var n int
	err := querier(ctx, r.pool).QueryRow(ctx, `SELECT count(*) FROM customers`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count customers: %w", err)
	}
	return n, nil
}
