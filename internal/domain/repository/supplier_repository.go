package repository

import (
	"context"

	"github.com/retailcore/pos-api/internal/domain/entity"
)

// SupplierRepository is the persistence port for Supplier.
type SupplierRepository interface {
	Create(ctx context.Context, s *entity.Supplier) error
	GetByID(ctx context.Context, id string) (*entity.Supplier, error)
	GetByEmail(ctx context.Context, email string) (*entity.Supplier, error)
	List(ctx context.Context, f ListFilter) ([]*entity.Supplier, int, error)
	Update(ctx context.Context, s *entity.Supplier) error
	Delete(ctx context.Context, id string) error
}
