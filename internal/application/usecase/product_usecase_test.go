package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/retailcore/pos-api/internal/application/dto"
	"github.com/retailcore/pos-api/internal/application/usecase"
	"github.com/retailcore/pos-api/internal/domain"
)

func TestProductCreate_UniqueSKU(t *testing.T) {
	uc := usecase.NewProductUseCase(newMemProductRepo())

	resp, err := uc.Create(context.Background(), dto.CreateProductRequest{
		SKU:     "WID-001",
		Name:    "Widget",
		Cost:    dec("5.00"),
		Price:   dec("10.00"),
		TaxRate: dec("15"),
		Stock:   dec("100"),
	})
	require.NoError(t, err)
	assert.Equal(t, "active", resp.Status)
	assert.True(t, dec("100").Equal(resp.Stock))

	_, err = uc.Create(context.Background(), dto.CreateProductRequest{SKU: "WID-001", Name: "Widget clone"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestProductCreate_Validation(t *testing.T) {
	uc := usecase.NewProductUseCase(newMemProductRepo())

	cases := []struct {
		name string
		in   dto.CreateProductRequest
	}{
		{"no sku", dto.CreateProductRequest{Name: "x"}},
		{"no name", dto.CreateProductRequest{SKU: "X-1"}},
		{"negative price", dto.CreateProductRequest{SKU: "X-1", Name: "x", Price: dec("-1")}},
		{"negative cost", dto.CreateProductRequest{SKU: "X-1", Name: "x", Cost: dec("-1")}},
		{"negative stock", dto.CreateProductRequest{SKU: "X-1", Name: "x", Stock: dec("-1")}},
		{"negative tax rate", dto.CreateProductRequest{SKU: "X-1", Name: "x", TaxRate: dec("-1")}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := uc.Create(context.Background(), tc.in)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestProductUpdate_SKUAndStockImmutable(t *testing.T) {
	repo := newMemProductRepo()
	uc := usecase.NewProductUseCase(repo)

	created, err := uc.Create(context.Background(), dto.CreateProductRequest{
		SKU:   "WID-001",
		Name:  "Widget",
		Price: dec("10.00"),
		Stock: dec("50"),
	})
	require.NoError(t, err)

	resp, err := uc.Update(context.Background(), created.ID, dto.UpdateProductRequest{
		Name:  strp("Widget v2"),
		Price: decp("12.00"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Widget v2", resp.Name)
	assert.True(t, dec("12.00").Equal(resp.Price))
	assert.Equal(t, "WID-001", resp.SKU)
	assert.True(t, dec("50").Equal(resp.Stock), "stock only moves through sales and purchases")

	_, err = uc.Update(context.Background(), created.ID, dto.UpdateProductRequest{Price: decp("-3")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestProductGetAndDelete(t *testing.T) {
	uc := usecase.NewProductUseCase(newMemProductRepo())

	_, err := uc.GetByID(context.Background(), "ghost")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	created, err := uc.Create(context.Background(), dto.CreateProductRequest{SKU: "A-1", Name: "A"})
	require.NoError(t, err)

	require.NoError(t, uc.Delete(context.Background(), created.ID))
	err = uc.Delete(context.Background(), created.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
