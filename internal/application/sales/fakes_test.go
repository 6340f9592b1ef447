package sales_test

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/retailcore/pos-api/internal/application/dto"
	"github.com/retailcore/pos-api/internal/domain"
	"github.com/retailcore/pos-api/internal/domain/entity"
	"github.com/retailcore/pos-api/internal/domain/repository"
)

// In-memory fakes. Copy-on-return so tests can assert stored state without
// aliasing the use case's pointers.

type fakeSaleRepo struct {
	sales     map[string]*entity.Sale
	items     map[string][]*entity.SaleItem
	createErr error
	marked    []struct{ saleID, txID, qr string }
}

func newFakeSaleRepo() *fakeSaleRepo {
	return &fakeSaleRepo{
		sales: map[string]*entity.Sale{},
		items: map[string][]*entity.SaleItem{},
	}
}

func (r *fakeSaleRepo) Create(_ context.Context, s *entity.Sale, items []*entity.SaleItem) error {
	if r.createErr != nil {
		return r.createErr
	}
	cp := *s
	r.sales[s.ID] = &cp
	for _, it := range items {
		icp := *it
		r.items[s.ID] = append(r.items[s.ID], &icp)
	}
	return nil
}

func (r *fakeSaleRepo) GetByID(_ context.Context, id string) (*entity.Sale, error) {
	s, ok := r.sales[id]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (r *fakeSaleRepo) GetByInvoiceNo(_ context.Context, invoiceNo string) (*entity.Sale, error) {
	for _, s := range r.sales {
		if s.InvoiceNo == invoiceNo {
			cp := *s
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeSaleRepo) GetItems(_ context.Context, saleID string) ([]*entity.SaleItem, error) {
	var out []*entity.SaleItem
	for _, it := range r.items[saleID] {
		cp := *it
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeSaleRepo) List(_ context.Context, f repository.ListFilter) ([]*entity.Sale, int, error) {
	var out []*entity.Sale
	for _, s := range r.sales {
		if f.Status != "" && s.Status != f.Status {
			continue
		}
		cp := *s
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	total := len(out)
	if f.Offset < len(out) {
		out = out[f.Offset:]
	} else {
		out = nil
	}
	if len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, total, nil
}

func (r *fakeSaleRepo) Update(_ context.Context, s *entity.Sale) error {
	if _, ok := r.sales[s.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *s
	r.sales[s.ID] = &cp
	return nil
}

func (r *fakeSaleRepo) MarkFiscalized(_ context.Context, saleID, transactionID, qrData string) error {
	s, ok := r.sales[saleID]
	if !ok {
		return domain.ErrNotFound
	}
	s.IsFiscalized = true
	s.FiscalTransactionID = transactionID
	s.FiscalQRData = qrData
	r.marked = append(r.marked, struct{ saleID, txID, qr string }{saleID, transactionID, qrData})
	return nil
}

func (r *fakeSaleRepo) CountByCustomer(_ context.Context, customerID string) (int, error) {
	n := 0
	for _, s := range r.sales {
		if s.CustomerID == customerID {
			n++
		}
	}
	return n, nil
}

type fakeProductRepo struct {
	products map[string]*entity.Product
	adjusts  []struct {
		id    string
		delta decimal.Decimal
	}
}

func newFakeProductRepo(products ...*entity.Product) *fakeProductRepo {
	r := &fakeProductRepo{products: map[string]*entity.Product{}}
	for _, p := range products {
		cp := *p
		r.products[p.ID] = &cp
	}
	return r
}

func (r *fakeProductRepo) Create(_ context.Context, p *entity.Product) error {
	cp := *p
	r.products[p.ID] = &cp
	return nil
}

func (r *fakeProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *fakeProductRepo) GetBySKU(_ context.Context, sku string) (*entity.Product, error) {
	for _, p := range r.products {
		if p.SKU == sku {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeProductRepo) List(_ context.Context, _ repository.ListFilter) ([]*entity.Product, int, error) {
	return nil, 0, nil
}

func (r *fakeProductRepo) Update(_ context.Context, p *entity.Product) error {
	cp := *p
	r.products[p.ID] = &cp
	return nil
}

func (r *fakeProductRepo) Delete(_ context.Context, id string) error {
	delete(r.products, id)
	return nil
}

func (r *fakeProductRepo) AdjustStock(_ context.Context, id string, delta decimal.Decimal) error {
	p, ok := r.products[id]
	if !ok {
		return domain.ErrNotFound
	}
	next := p.Stock.Add(delta)
	if next.IsNegative() {
		return fmt.Errorf("%w: product %s", domain.ErrInsufficientStock, id)
	}
	p.Stock = next
	r.adjusts = append(r.adjusts, struct {
		id    string
		delta decimal.Decimal
	}{id, delta})
	return nil
}

func (r *fakeProductRepo) CountByBrand(_ context.Context, _ string) (int, error)    { return 0, nil }
func (r *fakeProductRepo) CountByCategory(_ context.Context, _ string) (int, error) { return 0, nil }

type fakeCustomerRepo struct {
	customers map[string]*entity.Customer
}

func newFakeCustomerRepo(customers ...*entity.Customer) *fakeCustomerRepo {
	r := &fakeCustomerRepo{customers: map[string]*entity.Customer{}}
	for _, c := range customers {
		cp := *c
		r.customers[c.ID] = &cp
	}
	return r
}

func (r *fakeCustomerRepo) Create(_ context.Context, c *entity.Customer) error {
	cp := *c
	r.customers[c.ID] = &cp
	return nil
}

func (r *fakeCustomerRepo) GetByID(_ context.Context, id string) (*entity.Customer, error) {
	c, ok := r.customers[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (r *fakeCustomerRepo) GetByEmail(_ context.Context, email string) (*entity.Customer, error) {
	for _, c := range r.customers {
		if c.Email == email {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeCustomerRepo) List(_ context.Context, _ repository.ListFilter) ([]*entity.Customer, int, error) {
	return nil, 0, nil
}

func (r *fakeCustomerRepo) Update(_ context.Context, c *entity.Customer) error {
	cp := *c
	r.customers[c.ID] = &cp
	return nil
}

func (r *fakeCustomerRepo) Delete(_ context.Context, id string) error {
	delete(r.customers, id)
	return nil
}

// fakeTxRunner runs fn inline. Rollback is emulated by the caller checking the
// returned error; the fakes have no transactional isolation.
type fakeTxRunner struct {
	runs int
	err  error
}

func (t *fakeTxRunner) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	t.runs++
	if t.err != nil {
		return t.err
	}
	return fn(ctx)
}

// fakeFiscalizer records submissions and can be scripted to fail.
type fakeFiscalizer struct {
	err   error
	calls []dto.SubmitFiscalInvoiceRequest
}

func (f *fakeFiscalizer) Submit(_ context.Context, in dto.SubmitFiscalInvoiceRequest) (*dto.SubmitFiscalInvoiceResponse, error) {
	f.calls = append(f.calls, in)
	if f.err != nil {
		return nil, f.err
	}
	return &dto.SubmitFiscalInvoiceResponse{
		Success:       true,
		FDMSMode:      true,
		TransactionID: "tx-1",
		ReceiptGlobal: 1,
		Status:        entity.ZIMRAStatusConfirmed,
	}, nil
}

var errGatewayDown = errors.New("network call failed: connection refused")

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func testProduct(id string, price, taxRate, stock string) *entity.Product {
	now := time.Now()
	return &entity.Product{
		ID:        id,
		SKU:       "SKU-" + id,
		Name:      "Product " + id,
		Cost:      dec(price).Div(decimal.NewFromInt(2)),
		Price:     dec(price),
		TaxRate:   dec(taxRate),
		Stock:     dec(stock),
		Status:    "active",
		CreatedAt: now,
		UpdatedAt: now,
	}
}
