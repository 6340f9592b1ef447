package dto

import "github.com/shopspring/decimal"

// CreateBrandRequest body for POST /api/brands.
type CreateBrandRequest struct {
	Name string `json:"name"`
}

// BrandResponse brand in responses.
type BrandResponse struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Status string `json:"status"`
}

// CreateCategoryRequest body for POST /api/categories.
type CreateCategoryRequest struct {
	Name string `json:"name"`
	Code string `json:"code"`
}

// CategoryResponse category in responses.
type CategoryResponse struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Code   string `json:"code"`
	Status string `json:"status"`
}

// CreateExpenseCategoryRequest body for POST /api/expense-categories.
type CreateExpenseCategoryRequest struct {
	Name string `json:"name"`
}

// ExpenseCategoryResponse expense category in responses.
type ExpenseCategoryResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// CreateProductRequest body for POST /api/products.
type CreateProductRequest struct {
	SKU        string          `json:"sku"`
	Name       string          `json:"name"`
	BrandID    string          `json:"brand_id,omitempty"`
	CategoryID string          `json:"category_id,omitempty"`
	Cost       decimal.Decimal `json:"cost"`
	Price      decimal.Decimal `json:"price"`
	TaxRate    decimal.Decimal `json:"tax_rate"`
	Stock      decimal.Decimal `json:"stock"`
	ReorderAt  decimal.Decimal `json:"reorder_at"`
}

// UpdateProductRequest body for PUT/PATCH /api/products/:id.
type UpdateProductRequest struct {
	Name       *string          `json:"name"`
	BrandID    *string          `json:"brand_id"`
	CategoryID *string          `json:"category_id"`
	Cost       *decimal.Decimal `json:"cost"`
	Price      *decimal.Decimal `json:"price"`
	TaxRate    *decimal.Decimal `json:"tax_rate"`
	ReorderAt  *decimal.Decimal `json:"reorder_at"`
	Status     *string          `json:"status"`
}

// ProductResponse product in responses.
type ProductResponse struct {
	ID         string          `json:"id"`
	SKU        string          `json:"sku"`
	Name       string          `json:"name"`
	BrandID    string          `json:"brand_id,omitempty"`
	CategoryID string          `json:"category_id,omitempty"`
	Cost       decimal.Decimal `json:"cost"`
	Price      decimal.Decimal `json:"price"`
	TaxRate    decimal.Decimal `json:"tax_rate"`
	Stock      decimal.Decimal `json:"stock"`
	ReorderAt  decimal.Decimal `json:"reorder_at"`
	Status     string          `json:"status"`
}
