package analytics

import (
	"context"
	"time"

	"github.com/retailcore/pos-api/internal/application/dto"
	"github.com/retailcore/pos-api/internal/domain/repository"
)

const (
	topProductsLimit = 5
	lowStockLimit    = 10
)

// DashboardUseCase assembles the summary widgets from the read-only
// aggregation queries.
type DashboardUseCase struct {
	repo repository.AnalyticsRepository
}

// NewDashboardUseCase builds the use case.
func NewDashboardUseCase(repo repository.AnalyticsRepository) *DashboardUseCase {
	return &DashboardUseCase{repo: repo}
}

// Summary returns today's and the current month's figures plus the
// best-seller and low-stock widgets.
func (uc *DashboardUseCase) Summary(ctx context.Context) (*dto.DashboardSummaryResponse, error) {
	now := time.Now()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	today, err := uc.repo.GetSalesMetrics(ctx, dayStart, now)
	if err != nil {
		return nil, err
	}
	month, err := uc.repo.GetSalesMetrics(ctx, monthStart, now)
	if err != nil {
		return nil, err
	}
	expenses, err := uc.repo.GetExpenseTotal(ctx, monthStart, now)
	if err != nil {
		return nil, err
	}
	customers, err := uc.repo.CountCustomers(ctx)
	if err != nil {
		return nil, err
	}
	top, err := uc.repo.GetTopProducts(ctx, monthStart, now, topProductsLimit)
	if err != nil {
		return nil, err
	}
	low, err := uc.repo.GetLowStock(ctx, lowStockLimit)
	if err != nil {
		return nil, err
	}

	out := &dto.DashboardSummaryResponse{
		TodaySales:    today.Revenue,
		TodayCount:    today.SaleCount,
		MonthSales:    month.Revenue,
		MonthCount:    month.SaleCount,
		MonthExpenses: expenses,
		CustomerCount: customers,
	}
	for _, p := range top {
		out.TopProducts = append(out.TopProducts, dto.TopProductEntry{
			ProductID: p.ProductID,
			SKU:       p.SKU,
			Name:      p.Name,
			UnitsSold: p.UnitsSold,
			Revenue:   p.Revenue,
		})
	}
	for _, p := range low {
		out.LowStock = append(out.LowStock, dto.LowStockEntry{
			ProductID: p.ProductID,
			SKU:       p.SKU,
			Name:      p.Name,
			Stock:     p.Stock,
			ReorderAt: p.ReorderAt,
		})
	}
	return out, nil
}
