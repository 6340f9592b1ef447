package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/retailcore/pos-api/internal/domain/entity"
)

// ProductRepository is the persistence port for Product.
type ProductRepository interface {
	Create(ctx context.Context, p *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	GetBySKU(ctx context.Context, sku string) (*entity.Product, error)
	List(ctx context.Context, f ListFilter) ([]*entity.Product, int, error)
	Update(ctx context.Context, p *entity.Product) error
	Delete(ctx context.Context, id string) error

	// AdjustStock applies a signed delta to the on-hand quantity. A negative
	// delta that would take stock below zero returns domain.ErrInsufficientStock.
	AdjustStock(ctx context.Context, id string, delta decimal.Decimal) error

	CountByBrand(ctx context.Context, brandID string) (int, error)
	CountByCategory(ctx context.Context, categoryID string) (int, error)
}
