package sales

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

// PurchaseUseCase records stock received from suppliers. The stock increment
// and the purchase insert share one transaction.
type PurchaseUseCase struct {
	repo      repository.PurchaseRepository
	products  repository.ProductRepository
	suppliers repository.SupplierRepository
	tx        TxRunner
}

// NewPurchaseUseCase builds the use case.
func NewPurchaseUseCase(
	repo repository.PurchaseRepository,
	products repository.ProductRepository,
	suppliers repository.SupplierRepository,
	tx TxRunner,
) *PurchaseUseCase {
	return &PurchaseUseCase{repo: repo, products: products, suppliers: suppliers, tx: tx}
}

// Create registers a purchase and increments the stock of every line.
func (uc *PurchaseUseCase) Create(ctx context.Context, userID string, in dto.CreatePurchaseRequest) (*dto.PurchaseResponse, error) {
	if in.SupplierID == "" || len(in.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	supplier, err := uc.suppliers.GetByID(ctx, in.SupplierID)
	if err != nil {
		return nil, err
	}
	if supplier == nil {
		return nil, fmt.Errorf("%w: supplier %s", domain.ErrNotFound, in.SupplierID)
	}

	now := time.Now()
	ref := in.ReferenceNo
	if ref == "" {
		ref = fmt.Sprintf("PO-%d", now.UnixMilli())
	} else {
		existing, err := uc.repo.GetByReferenceNo(ctx, ref)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, domain.ErrDuplicate
		}
	}

	purchase := &entity.Purchase{
		ID:          uuid.New().String(),
		ReferenceNo: ref,
		SupplierID:  in.SupplierID,
		UserID:      userID,
		Status:      "received",
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	subtotal := decimal.Zero
	tax := decimal.Zero
	items := make([]*entity.PurchaseItem, 0, len(in.Items))
	for _, line := range in.Items {
		if !line.Quantity.IsPositive() || line.UnitPrice.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		p, err := uc.products.GetByID(ctx, line.ProductID)
		if err != nil {
			return nil, err
		}
		if p == nil {
			return nil, fmt.Errorf("%w: product %s", domain.ErrNotFound, line.ProductID)
		}
		lineTotal := line.UnitPrice.Mul(line.Quantity)
		subtotal = subtotal.Add(lineTotal)
		tax = tax.Add(lineTotal.Mul(p.TaxRate).Div(percentBase))
		items = append(items, &entity.PurchaseItem{
			ID:         uuid.New().String(),
			PurchaseID: purchase.ID,
			ProductID:  p.ID,
			Quantity:   line.Quantity,
			UnitCost:   line.UnitPrice,
			Subtotal:   lineTotal,
		})
	}
	purchase.Subtotal = subtotal
	purchase.TaxAmount = tax
	purchase.Total = subtotal.Add(tax)

	err = uc.tx.RunInTx(ctx, func(txCtx context.Context) error {
		for _, item := range items {
			if err := uc.products.AdjustStock(txCtx, item.ProductID, item.Quantity); err != nil {
				return err
			}
		}
		return uc.repo.Create(txCtx, purchase, items)
	})
	if err != nil {
		return nil, err
	}
	return toPurchaseResponse(purchase), nil
}

// GetByID returns one purchase or ErrNotFound.
func (uc *PurchaseUseCase) GetByID(ctx context.Context, id string) (*dto.PurchaseResponse, error) {
	p, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	return toPurchaseResponse(p), nil
}

// List returns a page of purchases.
func (uc *PurchaseUseCase) List(ctx context.Context, page dto.PageRequest) (*dto.ListResponse[dto.PurchaseResponse], error) {
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
	out := make([]dto.PurchaseResponse, 0, len(list))
	for _, p := range list {
		out = append(out, *toPurchaseResponse(p))
	}
	return &dto.ListResponse[dto.PurchaseResponse]{
		Data:       out,
		Pagination: dto.NewPagination(total, page.Page, page.Limit),
	}, nil
}

// Cancel reverses a received purchase, returning the stock it added.
func (uc *PurchaseUseCase) Cancel(ctx context.Context, id string) (*dto.PurchaseResponse, error) {
	p, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	if p.Status == "cancelled" {
		return nil, domain.ErrConflict
	}
	items, err := uc.repo.GetItems(ctx, id)
	if err != nil {
		return nil, err
	}
	err = uc.tx.RunInTx(ctx, func(txCtx context.Context) error {
		for _, item := range items {
			if err := uc.products.AdjustStock(txCtx, item.ProductID, item.Quantity.Neg()); err != nil {
				return err
			}
		}
		p.Status = "cancelled"
		p.UpdatedAt = time.Now()
		return uc.repo.Update(txCtx, p)
	})
	if err != nil {
		return nil, err
	}
	return toPurchaseResponse(p), nil
}

func toPurchaseResponse(p *entity.Purchase) *dto.PurchaseResponse {
	return &dto.PurchaseResponse{
		ID:          p.ID,
		ReferenceNo: p.ReferenceNo,
		SupplierID:  p.SupplierID,
		UserID:      p.UserID,
		Subtotal:    p.Subtotal,
		TaxAmount:   p.TaxAmount,
		Total:       p.Total,
		Status:      p.Status,
		CreatedAt:   p.CreatedAt,
	}
}
