package sales_test

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/retailcore/pos-api/internal/application/dto"
	"github.com/retailcore/pos-api/internal/application/sales"
	"github.com/retailcore/pos-api/internal/domain"
	"github.com/retailcore/pos-api/internal/domain/entity"
	"github.com/retailcore/pos-api/internal/domain/repository"
)

type fakePurchaseRepo struct {
	purchases map[string]*entity.Purchase
	items     map[string][]*entity.PurchaseItem
}

func newFakePurchaseRepo() *fakePurchaseRepo {
	return &fakePurchaseRepo{
		purchases: map[string]*entity.Purchase{},
		items:     map[string][]*entity.PurchaseItem{},
	}
}

func (r *fakePurchaseRepo) Create(_ context.Context, p *entity.Purchase, items []*entity.PurchaseItem) error {
	cp := *p
	r.purchases[p.ID] = &cp
	for _, it := range items {
		icp := *it
		r.items[p.ID] = append(r.items[p.ID], &icp)
	}
	return nil
}

func (r *fakePurchaseRepo) GetByID(_ context.Context, id string) (*entity.Purchase, error) {
	p, ok := r.purchases[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *fakePurchaseRepo) GetByReferenceNo(_ context.Context, ref string) (*entity.Purchase, error) {
	for _, p := range r.purchases {
		if p.ReferenceNo == ref {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakePurchaseRepo) GetItems(_ context.Context, purchaseID string) ([]*entity.PurchaseItem, error) {
	var out []*entity.PurchaseItem
	for _, it := range r.items[purchaseID] {
		cp := *it
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakePurchaseRepo) List(_ context.Context, f repository.ListFilter) ([]*entity.Purchase, int, error) {
	var out []*entity.Purchase
	for _, p := range r.purchases {
		if f.Status != "" && p.Status != f.Status {
			continue
		}
		cp := *p
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, len(out), nil
}

func (r *fakePurchaseRepo) Update(_ context.Context, p *entity.Purchase) error {
	if _, ok := r.purchases[p.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *p
	r.purchases[p.ID] = &cp
	return nil
}

func (r *fakePurchaseRepo) CountBySupplier(_ context.Context, supplierID string) (int, error) {
	n := 0
	for _, p := range r.purchases {
		if p.SupplierID == supplierID {
			n++
		}
	}
	return n, nil
}

type fakeSupplierRepo struct {
	suppliers map[string]*entity.Supplier
}

func newFakeSupplierRepo(suppliers ...*entity.Supplier) *fakeSupplierRepo {
	r := &fakeSupplierRepo{suppliers: map[string]*entity.Supplier{}}
	for _, s := range suppliers {
		cp := *s
		r.suppliers[s.ID] = &cp
	}
	return r
}

func (r *fakeSupplierRepo) Create(_ context.Context, s *entity.Supplier) error {
	cp := *s
	r.suppliers[s.ID] = &cp
	return nil
}

func (r *fakeSupplierRepo) GetByID(_ context.Context, id string) (*entity.Supplier, error) {
	s, ok := r.suppliers[id]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (r *fakeSupplierRepo) GetByEmail(_ context.Context, email string) (*entity.Supplier, error) {
	for _, s := range r.suppliers {
		if s.Email == email {
			cp := *s
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeSupplierRepo) List(_ context.Context, _ repository.ListFilter) ([]*entity.Supplier, int, error) {
	return nil, 0, nil
}

func (r *fakeSupplierRepo) Update(_ context.Context, s *entity.Supplier) error {
	cp := *s
	r.suppliers[s.ID] = &cp
	return nil
}

func (r *fakeSupplierRepo) Delete(_ context.Context, id string) error {
	delete(r.suppliers, id)
	return nil
}

func testSupplier(id string) *entity.Supplier {
	now := time.Now()
	return &entity.Supplier{
		ID:        id,
		Name:      "Supplier " + id,
		Status:    "active",
		CreatedAt: now,
		UpdatedAt: now,
	}
}

type purchaseFixture struct {
	uc       *sales.PurchaseUseCase
	repo     *fakePurchaseRepo
	products *fakeProductRepo
}

func newPurchaseFixture(products ...*entity.Product) *purchaseFixture {
	f := &purchaseFixture{
		repo:     newFakePurchaseRepo(),
		products: newFakeProductRepo(products...),
	}
	f.uc = sales.NewPurchaseUseCase(f.repo, f.products, newFakeSupplierRepo(testSupplier("s1")), &fakeTxRunner{})
	return f
}

func TestPurchaseCreate_IncrementsStockAndTotals(t *testing.T) {
	f := newPurchaseFixture(testProduct("p1", "10.00", "15", "5"))

	resp, err := f.uc.Create(context.Background(), testUserID, dto.CreatePurchaseRequest{
		SupplierID: "s1",
		Items: []dto.SaleItemRequest{
			{ProductID: "p1", Quantity: dec("10"), UnitPrice: dec("6.00")},
		},
	})
	require.NoError(t, err)

	// 10*6.00 = 60.00 plus 15% tax = 69.00
	assert.True(t, dec("60.00").Equal(resp.Subtotal))
	assert.True(t, dec("9.00").Equal(resp.TaxAmount))
	assert.True(t, dec("69.00").Equal(resp.Total))
	assert.Equal(t, "received", resp.Status)

	p, _ := f.products.GetByID(context.Background(), "p1")
	assert.True(t, dec("15").Equal(p.Stock), "purchase adds to on-hand stock")
}

func TestPurchaseCreate_Validation(t *testing.T) {
	f := newPurchaseFixture(testProduct("p1", "10.00", "0", "0"))

	_, err := f.uc.Create(context.Background(), testUserID, dto.CreatePurchaseRequest{SupplierID: "s1"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "a purchase needs at least one line")

	_, err = f.uc.Create(context.Background(), testUserID, dto.CreatePurchaseRequest{
		SupplierID: "ghost",
		Items:      []dto.SaleItemRequest{{ProductID: "p1", Quantity: dec("1"), UnitPrice: dec("1")}},
	})
	assert.ErrorIs(t, err, domain.ErrNotFound, "supplier must exist")

	_, err = f.uc.Create(context.Background(), testUserID, dto.CreatePurchaseRequest{
		SupplierID: "s1",
		Items:      []dto.SaleItemRequest{{ProductID: "p1", Quantity: dec("1"), UnitPrice: dec("-2")}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "unit cost cannot be negative")
}

func TestPurchaseCreate_DuplicateReference(t *testing.T) {
	f := newPurchaseFixture(testProduct("p1", "10.00", "0", "0"))

	in := dto.CreatePurchaseRequest{
		ReferenceNo: "PO-1",
		SupplierID:  "s1",
		Items:       []dto.SaleItemRequest{{ProductID: "p1", Quantity: dec("1"), UnitPrice: dec("1")}},
	}
	_, err := f.uc.Create(context.Background(), testUserID, in)
	require.NoError(t, err)
	_, err = f.uc.Create(context.Background(), testUserID, in)
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestPurchaseCancel_ReversesStock(t *testing.T) {
	f := newPurchaseFixture(testProduct("p1", "10.00", "0", "0"))

	resp, err := f.uc.Create(context.Background(), testUserID, dto.CreatePurchaseRequest{
		SupplierID: "s1",
		Items:      []dto.SaleItemRequest{{ProductID: "p1", Quantity: dec("8"), UnitPrice: dec("2")}},
	})
	require.NoError(t, err)

	cancelled, err := f.uc.Cancel(context.Background(), resp.ID)
	require.NoError(t, err)
	assert.Equal(t, "cancelled", cancelled.Status)

	p, _ := f.products.GetByID(context.Background(), "p1")
	assert.True(t, p.Stock.IsZero(), "cancel removes the stock the purchase added")

	_, err = f.uc.Cancel(context.Background(), resp.ID)
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestPurchaseCancel_FailsWhenStockAlreadySold(t *testing.T) {
	f := newPurchaseFixture(testProduct("p1", "10.00", "0", "0"))

	resp, err := f.uc.Create(context.Background(), testUserID, dto.CreatePurchaseRequest{
		SupplierID: "s1",
		Items:      []dto.SaleItemRequest{{ProductID: "p1", Quantity: dec("5"), UnitPrice: dec("2")}},
	})
	require.NoError(t, err)

	// Drain the stock as if it had been sold on.
	require.NoError(t, f.products.AdjustStock(context.Background(), "p1", dec("-5")))

	_, err = f.uc.Cancel(context.Background(), resp.ID)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	stored, _ := f.repo.GetByID(context.Background(), resp.ID)
	assert.Equal(t, "received", stored.Status, "a failed cancel leaves the purchase untouched")
}
