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
	"github.com/retailcore/pos-api/pkg/logger"
)

var percentBase = decimal.NewFromInt(100)

// SaleUseCase creates point-of-sale transactions. Stock decrement and sale
// insert happen in one database transaction; fiscalization runs after commit
// and its failure never voids the sale.
type SaleUseCase struct {
	repo      repository.SaleRepository
	products  repository.ProductRepository
	customers repository.CustomerRepository
	tx        TxRunner
	fiscal    Fiscalizer
	log       *logger.Logger
}

// NewSaleUseCase builds the use case.
func NewSaleUseCase(
	repo repository.SaleRepository,
	products repository.ProductRepository,
	customers repository.CustomerRepository,
	tx TxRunner,
	fiscal Fiscalizer,
	log *logger.Logger,
) *SaleUseCase {
	return &SaleUseCase{repo: repo, products: products, customers: customers, tx: tx, fiscal: fiscal, log: log}
}

// Create registers a sale. Every line is priced against the catalog, stock
// is decremented atomically with the insert, and the committed sale is then
// handed to the fiscal coordinator.
func (uc *SaleUseCase) Create(ctx context.Context, userID string, in dto.CreateSaleRequest) (*dto.SaleResponse, error) {
	if len(in.Items) == 0 || in.PaymentMethod == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.Discount.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	if in.CustomerID != "" {
		customer, err := uc.customers.GetByID(ctx, in.CustomerID)
		if err != nil {
			return nil, err
		}
		if customer == nil {
			return nil, fmt.Errorf("%w: customer %s", domain.ErrNotFound, in.CustomerID)
		}
	}

	now := time.Now()
	invoiceNo := in.InvoiceNo
	if invoiceNo == "" {
		invoiceNo = fmt.Sprintf("INV-%d", now.UnixMilli())
	} else {
		existing, err := uc.repo.GetByInvoiceNo(ctx, invoiceNo)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, domain.ErrDuplicate
		}
	}

	sale := &entity.Sale{
		ID:            uuid.New().String(),
		InvoiceNo:     invoiceNo,
		CustomerID:    in.CustomerID,
		UserID:        userID,
		Discount:      in.Discount,
		PaymentMethod: in.PaymentMethod,
		Status:        entity.SaleStatusCompleted,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	subtotal := decimal.Zero
	tax := decimal.Zero
	items := make([]*entity.SaleItem, 0, len(in.Items))
	fiscalLines := make([]dto.FiscalInvoiceItem, 0, len(in.Items))
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
		tax = tax.Add(lineTotal.Mul(p.TaxRate).Div(percentBase))
		items = append(items, &entity.SaleItem{
			ID:        uuid.New().String(),
			SaleID:    sale.ID,
			ProductID: p.ID,
			Quantity:  line.Quantity,
			UnitPrice: unit,
			TaxRate:   p.TaxRate,
			Subtotal:  lineTotal,
		})
		fiscalLines = append(fiscalLines, dto.FiscalInvoiceItem{
			Name:      p.Name,
			Quantity:  line.Quantity,
			UnitPrice: unit,
			TaxRate:   p.TaxRate,
		})
	}
	if in.Discount.GreaterThan(subtotal) {
		return nil, fmt.Errorf("%w: discount exceeds the subtotal", domain.ErrInvalidInput)
	}
	sale.Subtotal = subtotal
	sale.TaxAmount = tax
	sale.Total = subtotal.Add(tax).Sub(in.Discount)

	// Stock and sale move together or not at all.
	err := uc.tx.RunInTx(ctx, func(txCtx context.Context) error {
		for _, item := range items {
			if err := uc.products.AdjustStock(txCtx, item.ProductID, item.Quantity.Neg()); err != nil {
				return err
			}
		}
		return uc.repo.Create(txCtx, sale, items)
	})
	if err != nil {
		return nil, err
	}

	uc.fiscalize(ctx, sale, fiscalLines)

	// Re-read so the response reflects fiscal annotations when they landed.
	stored, err := uc.repo.GetByID(ctx, sale.ID)
	if err == nil && stored != nil {
		sale = stored
	}
	return toSaleResponse(sale, items), nil
}

// fiscalize hands the committed sale to the fiscal coordinator. Failures are
// logged only; the sale stands regardless.
func (uc *SaleUseCase) fiscalize(ctx context.Context, sale *entity.Sale, lines []dto.FiscalInvoiceItem) {
	if uc.fiscal == nil {
		return
	}
	_, err := uc.fiscal.Submit(ctx, dto.SubmitFiscalInvoiceRequest{
		InvoiceNo: sale.InvoiceNo,
		SaleID:    sale.ID,
		Total:     sale.Total,
		TaxAmount: sale.TaxAmount,
		Items:     lines,
	})
	if err != nil {
		uc.log.Warn().Err(err).Str("sale_id", sale.ID).Msg("sale stored but fiscalization failed")
	}
}

// GetByID returns one sale with its items, or ErrNotFound.
func (uc *SaleUseCase) GetByID(ctx context.Context, id string) (*dto.SaleResponse, error) {
	sale, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, domain.ErrNotFound
	}
	items, err := uc.repo.GetItems(ctx, id)
	if err != nil {
		return nil, err
	}
	return toSaleResponse(sale, items), nil
}

// List returns a page of sales.
func (uc *SaleUseCase) List(ctx context.Context, page dto.PageRequest) (*dto.ListResponse[dto.SaleResponse], error) {
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
	out := make([]dto.SaleResponse, 0, len(list))
	for _, s := range list {
		out = append(out, *toSaleResponse(s, nil))
	}
	return &dto.ListResponse[dto.SaleResponse]{
		Data:       out,
		Pagination: dto.NewPagination(total, page.Page, page.Limit),
	}, nil
}

// Void cancels a completed sale and restores the stock it consumed.
func (uc *SaleUseCase) Void(ctx context.Context, id string) (*dto.SaleResponse, error) {
	sale, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, domain.ErrNotFound
	}
	if sale.Status == entity.SaleStatusVoided {
		return nil, domain.ErrConflict
	}
	items, err := uc.repo.GetItems(ctx, id)
	if err != nil {
		return nil, err
	}
	err = uc.tx.RunInTx(ctx, func(txCtx context.Context) error {
		for _, item := range items {
			if err := uc.products.AdjustStock(txCtx, item.ProductID, item.Quantity); err != nil {
				return err
			}
		}
		sale.Status = entity.SaleStatusVoided
		sale.UpdatedAt = time.Now()
		return uc.repo.Update(txCtx, sale)
	})
	if err != nil {
		return nil, err
	}
	return toSaleResponse(sale, items), nil
}

func toSaleResponse(s *entity.Sale, items []*entity.SaleItem) *dto.SaleResponse {
	out := &dto.SaleResponse{
		ID:                  s.ID,
		InvoiceNo:           s.InvoiceNo,
		CustomerID:          s.CustomerID,
		UserID:              s.UserID,
		Subtotal:            s.Subtotal,
		TaxAmount:           s.TaxAmount,
		Discount:            s.Discount,
		Total:               s.Total,
		PaymentMethod:       s.PaymentMethod,
		Status:              s.Status,
		IsFiscalized:        s.IsFiscalized,
		FiscalTransactionID: s.FiscalTransactionID,
		FiscalQRData:        s.FiscalQRData,
		CreatedAt:           s.CreatedAt,
	}
	for _, item := range items {
		out.Items = append(out.Items, dto.SaleItemResponse{
			ID:        item.ID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			TaxRate:   item.TaxRate,
			Subtotal:  item.Subtotal,
		})
	}
	return out
}
