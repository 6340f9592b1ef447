package repository

import (
	"context"

	"github.com/retailcore/pos-api/internal/domain/entity"
)

// QuotationRepository is the persistence port for Quotation and its items.
type QuotationRepository interface {
	Create(ctx context.Context, q *entity.Quotation, items []*entity.QuotationItem) error
	GetByID(ctx context.Context, id string) (*entity.Quotation, error)
	GetByReferenceNo(ctx context.Context, ref string) (*entity.Quotation, error)
	GetItems(ctx context.Context, quotationID string) ([]*entity.QuotationItem, error)
	List(ctx context.Context, f ListFilter) ([]*entity.Quotation, int, error)
	Update(ctx context.Context, q *entity.Quotation) error
	Delete(ctx context.Context, id string) error

	CountByCustomer(ctx context.Context, customerID string) (int, error)
}
