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

// QuotationUseCase CRUD for quotations. Quotations never touch stock and are
// never fiscalized.
type QuotationUseCase struct {
	repo     repository.QuotationRepository
	products repository.ProductRepository
}

// NewQuotationUseCase builds the use case.
func NewQuotationUseCase(repo repository.QuotationRepository, products repository.ProductRepository) *QuotationUseCase {
	return &QuotationUseCase{repo: repo, products: products}
}

// Create prices the requested lines against the catalog and stores the
// quotation as a draft.
func (uc *QuotationUseCase) Create(ctx context.Context, userID string, in dto.CreateQuotationRequest) (*dto.QuotationResponse, error) {
	if in.CustomerID == "" || len(in.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	ref := in.ReferenceNo
	now := time.Now()
	if ref == "" {
		ref = fmt.Sprintf("QT-%d", now.UnixMilli())
	} else {
		existing, err := uc.repo.GetByReferenceNo(ctx, ref)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, domain.ErrDuplicate
		}
	}

	q := &entity.Quotation{
		ID:          uuid.New().String(),
		ReferenceNo: ref,
		CustomerID:  in.CustomerID,
		UserID:      userID,
		ValidUntil:  in.ValidUntil,
		Status:      "draft",
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	subtotal := decimal.Zero
	tax := decimal.Zero
	items := make([]*entity.QuotationItem, 0, len(in.Items))
	for _, line := range in.Items {
		if !line.Quantity.IsPositive() {
			return nil, domain.ErrInvalidInput
		}
		p, err := uc.products.GetByID(ctx, line.ProductID)
		if err != nil {
			return nil, err
		}
		if p == nil {
			return nil, fmt.Errorf("%w: product %s", domain.ErrNotFound, line.ProductID)
		}
		unit := line.UnitPrice
		if unit.IsZero() {
			unit = p.Price
		}
		lineTotal := unit.Mul(line.Quantity)
		subtotal = subtotal.Add(lineTotal)
		tax = tax.Add(lineTotal.Mul(p.TaxRate).Div(decimal.NewFromInt(100)))
		items = append(items, &entity.QuotationItem{
			ID:          uuid.New().String(),
			QuotationID: q.ID,
			ProductID:   p.ID,
			Quantity:    line.Quantity,
			UnitPrice:   unit,
			Subtotal:    lineTotal,
		})
	}
	q.Subtotal = subtotal
	q.TaxAmount = tax
	q.Total = subtotal.Add(tax)

	if err := uc.repo.Create(ctx, q, items); err != nil {
		return nil, err
	}
	return toQuotationResponse(q), nil
}

// GetByID returns one quotation or ErrNotFound.
func (uc *QuotationUseCase) GetByID(ctx context.Context, id string) (*dto.QuotationResponse, error) {
	q, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if q == nil {
		return nil, domain.ErrNotFound
	}
	return toQuotationResponse(q), nil
}

// List returns a page of quotations.
func (uc *QuotationUseCase) List(ctx context.Context, page dto.PageRequest) (*dto.ListResponse[dto.QuotationResponse], error) {
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
	out := make([]dto.QuotationResponse, 0, len(list))
	for _, q := range list {
		out = append(out, *toQuotationResponse(q))
	}
	return &dto.ListResponse[dto.QuotationResponse]{
		Data:       out,
		Pagination: dto.NewPagination(total, page.Page, page.Limit),
	}, nil
}

// SetStatus moves a quotation through draft, sent, accepted or expired.
func (uc *QuotationUseCase) SetStatus(ctx context.Context, id, status string) (*dto.QuotationResponse, error) {
	switch status {
	case "draft", "sent", "accepted", "expired":
	default:
		return nil, domain.ErrInvalidInput
	}
	q, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if q == nil {
		return nil, domain.ErrNotFound
	}
	q.Status = status
	q.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, q); err != nil {
		return nil, err
	}
	return toQuotationResponse(q), nil
}

// Delete removes a quotation.
func (uc *QuotationUseCase) Delete(ctx context.Context, id string) error {
	q, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if q == nil {
		return domain.ErrNotFound
	}
	return uc.repo.Delete(ctx, id)
}

func toQuotationResponse(q *entity.Quotation) *dto.QuotationResponse {
	return &dto.QuotationResponse{
		ID:          q.ID,
		ReferenceNo: q.ReferenceNo,
		CustomerID:  q.CustomerID,
		UserID:      q.UserID,
		Subtotal:    q.Subtotal,
		TaxAmount:   q.TaxAmount,
		Total:       q.Total,
		ValidUntil:  q.ValidUntil,
		Status:      q.Status,
		CreatedAt:   q.CreatedAt,
	}
}
