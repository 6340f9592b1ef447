package repository

import (
	"context"

	"github.com/retailcore/pos-api/internal/domain/entity"
)

// InvoiceRepository is the persistence port for Invoice (credit billing).
type InvoiceRepository interface {
	Create(ctx context.Context, inv *entity.Invoice) error
	GetByID(ctx context.Context, id string) (*entity.Invoice, error)
	GetByInvoiceNo(ctx context.Context, invoiceNo string) (*entity.Invoice, error)
	List(ctx context.Context, f ListFilter) ([]*entity.Invoice, int, error)
	Update(ctx context.Context, inv *entity.Invoice) error
	Delete(ctx context.Context, id string) error

	CountByCustomer(ctx context.Context, customerID string) (int, error)
}
