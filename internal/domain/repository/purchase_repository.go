package repository

import (
	"context"

	"github.com/retailcore/pos-api/internal/domain/entity"
)

// PurchaseRepository is the persistence port for Purchase and its items.
type PurchaseRepository interface {
	Create(ctx context.Context, p *entity.Purchase, items []*entity.PurchaseItem) error
	GetByID(ctx context.Context, id string) (*entity.Purchase, error)
	GetByReferenceNo(ctx context.Context, ref string) (*entity.Purchase, error)
	GetItems(ctx context.Context, purchaseID string) ([]*entity.PurchaseItem, error)
	List(ctx context.Context, f ListFilter) ([]*entity.Purchase, int, error)
	Update(ctx context.Context, p *entity.Purchase) error

	CountBySupplier(ctx context.Context, supplierID string) (int, error)
}
