package usecase_test

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/retailcore/pos-api/internal/domain"
	"github.com/retailcore/pos-api/internal/domain/entity"
	"github.com/retailcore/pos-api/internal/domain/repository"
)

// Map-backed fakes. Only the behavior the use cases exercise is modeled;
// everything returns copies so tests never alias stored state.

type memCustomerRepo struct {
	byID map[string]*entity.Customer
}

func newMemCustomerRepo() *memCustomerRepo {
	return &memCustomerRepo{byID: map[string]*entity.Customer{}}
}

func (r *memCustomerRepo) Create(_ context.Context, c *entity.Customer) error {
	cp := *c
	r.byID[c.ID] = &cp
	return nil
}

func (r *memCustomerRepo) GetByID(_ context.Context, id string) (*entity.Customer, error) {
	c, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (r *memCustomerRepo) GetByEmail(_ context.Context, email string) (*entity.Customer, error) {
	for _, c := range r.byID {
		if c.Email == email {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memCustomerRepo) List(_ context.Context, f repository.ListFilter) ([]*entity.Customer, int, error) {
	var out []*entity.Customer
	for _, c := range r.byID {
		cp := *c
		out = append(out, &cp)
	}
	return out, len(out), nil
}

func (r *memCustomerRepo) Update(_ context.Context, c *entity.Customer) error {
	if _, ok := r.byID[c.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *c
	r.byID[c.ID] = &cp
	return nil
}

func (r *memCustomerRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

// countingSaleRepo only answers CountByCustomer; the customer use case never
// touches the rest.
type countingSaleRepo struct {
	repository.SaleRepository
	count int
}

func (r *countingSaleRepo) CountByCustomer(_ context.Context, _ string) (int, error) {
	return r.count, nil
}

type countingQuotationRepo struct {
	repository.QuotationRepository
	count int
}

func (r *countingQuotationRepo) CountByCustomer(_ context.Context, _ string) (int, error) {
	return r.count, nil
}

type memInvoiceRepo struct {
	byID  map[string]*entity.Invoice
	count int
}

func newMemInvoiceRepo() *memInvoiceRepo {
	return &memInvoiceRepo{byID: map[string]*entity.Invoice{}}
}

func (r *memInvoiceRepo) Create(_ context.Context, inv *entity.Invoice) error {
	cp := *inv
	r.byID[inv.ID] = &cp
	return nil
}

func (r *memInvoiceRepo) GetByID(_ context.Context, id string) (*entity.Invoice, error) {
	inv, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	cp := *inv
	return &cp, nil
}

func (r *memInvoiceRepo) GetByInvoiceNo(_ context.Context, no string) (*entity.Invoice, error) {
	for _, inv := range r.byID {
		if inv.InvoiceNo == no {
			cp := *inv
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memInvoiceRepo) List(_ context.Context, f repository.ListFilter) ([]*entity.Invoice, int, error) {
	var out []*entity.Invoice
	for _, inv := range r.byID {
		if f.Status != "" && inv.Status != f.Status {
			continue
		}
		cp := *inv
		out = append(out, &cp)
	}
	return out, len(out), nil
}

func (r *memInvoiceRepo) Update(_ context.Context, inv *entity.Invoice) error {
	if _, ok := r.byID[inv.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *inv
	r.byID[inv.ID] = &cp
	return nil
}

func (r *memInvoiceRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *memInvoiceRepo) CountByCustomer(_ context.Context, _ string) (int, error) {
	return r.count, nil
}

type memProductRepo struct {
	byID map[string]*entity.Product
}

func newMemProductRepo() *memProductRepo {
	return &memProductRepo{byID: map[string]*entity.Product{}}
}

func (r *memProductRepo) Create(_ context.Context, p *entity.Product) error {
	cp := *p
	r.byID[p.ID] = &cp
	return nil
}

func (r *memProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	p, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *memProductRepo) GetBySKU(_ context.Context, sku string) (*entity.Product, error) {
	for _, p := range r.byID {
		if p.SKU == sku {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memProductRepo) List(_ context.Context, f repository.ListFilter) ([]*entity.Product, int, error) {
	var out []*entity.Product
	for _, p := range r.byID {
		cp := *p
		out = append(out, &cp)
	}
	return out, len(out), nil
}

func (r *memProductRepo) Update(_ context.Context, p *entity.Product) error {
	if _, ok := r.byID[p.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *p
	r.byID[p.ID] = &cp
	return nil
}

func (r *memProductRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *memProductRepo) AdjustStock(_ context.Context, id string, delta decimal.Decimal) error {
	p, ok := r.byID[id]
	if !ok {
		return domain.ErrNotFound
	}
	next := p.Stock.Add(delta)
	if next.IsNegative() {
		return domain.ErrInsufficientStock
	}
	p.Stock = next
	return nil
}

func (r *memProductRepo) CountByBrand(_ context.Context, _ string) (int, error)    { return 0, nil }
func (r *memProductRepo) CountByCategory(_ context.Context, _ string) (int, error) { return 0, nil }

func strp(s string) *string { return &s }

func decp(s string) *decimal.Decimal { d := decimal.RequireFromString(s); return &d }

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }
