package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/retailcore/pos-api/internal/application/dto"
	"github.com/retailcore/pos-api/internal/domain"
	"github.com/retailcore/pos-api/internal/domain/entity"
	"github.com/retailcore/pos-api/internal/domain/repository"
)

// Invoice statuses.
const (
	invoiceStatusUnpaid    = "unpaid"
	invoiceStatusPartial   = "partial"
	invoiceStatusPaid      = "paid"
	invoiceStatusCancelled = "cancelled"
)

// InvoiceUseCase CRUD for credit invoices plus payment recording.
type InvoiceUseCase struct {
	repo      repository.InvoiceRepository
	customers repository.CustomerRepository
}

// NewInvoiceUseCase builds the use case.
func NewInvoiceUseCase(repo repository.InvoiceRepository, customers repository.CustomerRepository) *InvoiceUseCase {
	return &InvoiceUseCase{repo: repo, customers: customers}
}

// Create opens an unpaid invoice against an existing customer.
func (uc *InvoiceUseCase) Create(ctx context.Context, userID string, in dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error) {
	if in.CustomerID == "" || !in.Total.IsPositive() {
		return nil, domain.ErrInvalidInput
	}
	customer, err := uc.customers.GetByID(ctx, in.CustomerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, fmt.Errorf("%w: customer %s", domain.ErrNotFound, in.CustomerID)
	}
	now := time.Now()
	no := in.InvoiceNo
	if no == "" {
		no = fmt.Sprintf("CINV-%d", now.UnixMilli())
	} else {
		existing, err := uc.repo.GetByInvoiceNo(ctx, no)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, domain.ErrDuplicate
		}
	}
	inv := &entity.Invoice{
		ID:         uuid.New().String(),
		InvoiceNo:  no,
		CustomerID: in.CustomerID,
		UserID:     userID,
		Subtotal:   in.Subtotal,
		TaxAmount:  in.TaxAmount,
		Total:      in.Total,
		AmountPaid: decimal.Zero,
		DueDate:    in.DueDate,
		Status:     invoiceStatusUnpaid,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := uc.repo.Create(ctx, inv); err != nil {
		return nil, err
	}
	return toInvoiceResponse(inv), nil
}

// GetByID returns one invoice or ErrNotFound.
func (uc *InvoiceUseCase) GetByID(ctx context.Context, id string) (*dto.InvoiceResponse, error) {
	inv, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, domain.ErrNotFound
	}
	return toInvoiceResponse(inv), nil
}

// List returns a page of invoices.
func (uc *InvoiceUseCase) List(ctx context.Context, page dto.PageRequest) (*dto.ListResponse[dto.InvoiceResponse], error) {
	page.Normalize()
	list, total, err := uc.repo.List(ctx, repository.ListFilter{
		Search: page.Search,
		Status: page.Status,
		Limit:  page.Limit,
		Offset: page.Offset(),
	})
	if err != nil {
		return nil, err
	}
	out := make([]dto.InvoiceResponse, 0, len(list))
	for _, inv := range list {
		out = append(out, *toInvoiceResponse(inv))
	}
	return &dto.ListResponse[dto.InvoiceResponse]{
		Data:       out,
		Pagination: dto.NewPagination(total, page.Page, page.Limit),
	}, nil
}

// RecordPayment adds a payment and re-derives the status. Overpaying is
// rejected.
func (uc *InvoiceUseCase) RecordPayment(ctx context.Context, id string, amount decimal.Decimal) (*dto.InvoiceResponse, error) {
	if !amount.IsPositive() {
		return nil, domain.ErrInvalidInput
	}
	inv, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, domain.ErrNotFound
	}
	if inv.Status == invoiceStatusCancelled {
		return nil, domain.ErrConflict
	}
	paid := inv.AmountPaid.Add(amount)
	if paid.GreaterThan(inv.Total) {
		return nil, fmt.Errorf("%w: payment exceeds the outstanding balance", domain.ErrInvalidInput)
	}
	inv.AmountPaid = paid
	if paid.Equal(inv.Total) {
		inv.Status = invoiceStatusPaid
	} else {
		inv.Status = invoiceStatusPartial
	}
	inv.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, inv); err != nil {
		return nil, err
	}
	return toInvoiceResponse(inv), nil
}

// Cancel voids an invoice with no payments against it.
func (uc *InvoiceUseCase) Cancel(ctx context.Context, id string) (*dto.InvoiceResponse, error) {
	inv, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, domain.ErrNotFound
	}
	if inv.AmountPaid.IsPositive() {
		return nil, fmt.Errorf("%w: invoices with payments cannot be cancelled", domain.ErrConflict)
	}
	inv.Status = invoiceStatusCancelled
	inv.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, inv); err != nil {
		return nil, err
	}
	return toInvoiceResponse(inv), nil
}

// Delete removes an unpaid invoice.
func (uc *InvoiceUseCase) Delete(ctx context.Context, id string) error {
	inv, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if inv == nil {
		return domain.ErrNotFound
	}
	if inv.AmountPaid.IsPositive() {
		return domain.ErrConflict
	}
	return uc.repo.Delete(ctx, id)
}

func toInvoiceResponse(inv *entity.Invoice) *dto.InvoiceResponse {
	return &dto.InvoiceResponse{
		ID:         inv.ID,
		InvoiceNo:  inv.InvoiceNo,
		CustomerID: inv.CustomerID,
		UserID:     inv.UserID,
		Subtotal:   inv.Subtotal,
		TaxAmount:  inv.TaxAmount,
		Total:      inv.Total,
		AmountPaid: inv.AmountPaid,
		DueDate:    inv.DueDate,
		Status:     inv.Status,
		CreatedAt:  inv.CreatedAt,
	}
}
