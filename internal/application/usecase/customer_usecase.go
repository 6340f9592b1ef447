package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/retailcore/pos-api/internal/application/dto"
	"github.com/retailcore/pos-api/internal/domain"
	"github.com/retailcore/pos-api/internal/domain/entity"
	"github.com/retailcore/pos-api/internal/domain/repository"
)

// CustomerUseCase CRUD for customers. Deletion is blocked while sales,
// invoices or quotations still reference the customer.
type CustomerUseCase struct {
	repo       repository.CustomerRepository
	sales      repository.SaleRepository
	invoices   repository.InvoiceRepository
	quotations repository.QuotationRepository
}

// NewCustomerUseCase builds the use case.
func NewCustomerUseCase(
	repo repository.CustomerRepository,
	sales repository.SaleRepository,
	invoices repository.InvoiceRepository,
	quotations repository.QuotationRepository,
) *CustomerUseCase {
	return &CustomerUseCase{repo: repo, sales: sales, invoices: invoices, quotations: quotations}
}

// Create registers a customer. Email, when given, must be unused.
func (uc *CustomerUseCase) Create(ctx context.Context, in dto.CreateCustomerRequest) (*dto.CustomerResponse, error) {
	if in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.Email != "" {
		existing, err := uc.repo.GetByEmail(ctx, in.Email)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, domain.ErrDuplicate
		}
	}
	now := time.Now()
	c := &entity.Customer{
		ID:        uuid.New().String(),
		Name:      in.Name,
		Email:     in.Email,
		Phone:     in.Phone,
		Address:   in.Address,
		TaxID:     in.TaxID,
		Status:    "active",
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return toCustomerResponse(c), nil
}

// GetByID returns one customer or ErrNotFound.
func (uc *CustomerUseCase) GetByID(ctx context.Context, id string) (*dto.CustomerResponse, error) {
	c, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrNotFound
	}
	return toCustomerResponse(c), nil
}

// List returns a page of customers.
func (uc *CustomerUseCase) List(ctx context.Context, page dto.PageRequest) (*dto.ListResponse[dto.CustomerResponse], error) {
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
	out := make([]dto.CustomerResponse, 0, len(list))
	for _, c := range list {
		out = append(out, *toCustomerResponse(c))
	}
	return &dto.ListResponse[dto.CustomerResponse]{
		Data:       out,
		Pagination: dto.NewPagination(total, page.Page, page.Limit),
	}, nil
}

// Update applies the non-nil fields.
func (uc *CustomerUseCase) Update(ctx context.Context, id string, in dto.UpdateCustomerRequest) (*dto.CustomerResponse, error) {
	c, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrNotFound
	}
	if in.Email != nil && *in.Email != c.Email && *in.Email != "" {
		existing, err := uc.repo.GetByEmail(ctx, *in.Email)
		if err != nil {
			return nil, err
		}
		if existing != nil && existing.ID != id {
			return nil, domain.ErrDuplicate
		}
		c.Email = *in.Email
	}
	if in.Name != nil {
		c.Name = *in.Name
	}
	if in.Phone != nil {
		c.Phone = *in.Phone
	}
	if in.Address != nil {
		c.Address = *in.Address
	}
	if in.TaxID != nil {
		c.TaxID = *in.TaxID
	}
	if in.Status != nil {
		c.Status = *in.Status
	}
	c.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return toCustomerResponse(c), nil
}

// Delete removes a customer with no dependent documents.
func (uc *CustomerUseCase) Delete(ctx context.Context, id string) error {
	c, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if c == nil {
		return domain.ErrNotFound
	}
	for _, count := range []func(context.Context, string) (int, error){
		uc.sales.CountByCustomer,
		uc.invoices.CountByCustomer,
		uc.quotations.CountByCustomer,
	} {
		n, err := count(ctx, id)
		if err != nil {
			return err
		}
		if n > 0 {
			return domain.ErrHasDependents
		}
	}
	return uc.repo.Delete(ctx, id)
}

func toCustomerResponse(c *entity.Customer) *dto.CustomerResponse {
	return &dto.CustomerResponse{
		ID:      c.ID,
		Name:    c.Name,
		Email:   c.Email,
		Phone:   c.Phone,
		Address: c.Address,
		TaxID:   c.TaxID,
		Status:  c.Status,
	}
}
