package repository

import (
	"context"

	"github.com/retailcore/pos-api/internal/domain/entity"
)

// SaleRepository is the persistence port for Sale and its items.
type SaleRepository interface {
	Create(ctx context.Context, s *entity.Sale, items []*entity.SaleItem) error
	GetByID(ctx context.Context, id string) (*entity.Sale, error)
	GetByInvoiceNo(ctx context.Context, invoiceNo string) (*entity.Sale, error)
	GetItems(ctx context.Context, saleID string) ([]*entity.SaleItem, error)
	List(ctx context.Context, f ListFilter) ([]*entity.Sale, int, error)
	Update(ctx context.Context, s *entity.Sale) error

	// MarkFiscalized stamps fiscalization metadata on the sale. Best-effort
	// caller side: a failure here must not fail the fiscal submission.
	MarkFiscalized(ctx context.Context, saleID, transactionID, qrData string) error

	CountByCustomer(ctx context.Context, customerID string) (int, error)
}
