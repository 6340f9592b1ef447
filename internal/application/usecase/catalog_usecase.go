package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/retailcore/pos-api/internal/application/dto"
	"github.com/retailcore/pos-api/internal/domain"
	"github.com/retailcore/pos-api/internal/domain/entity"
	"github.com/retailcore/pos-api/internal/domain/repository"
)

// BrandUseCase CRUD for brands.
type BrandUseCase struct {
	repo     repository.BrandRepository
	products repository.ProductRepository
}

// NewBrandUseCase builds the use case.
func NewBrandUseCase(repo repository.BrandRepository, products repository.ProductRepository) *BrandUseCase {
	return &BrandUseCase{repo: repo, products: products}
}

// Create registers a brand with a unique name.
func (uc *BrandUseCase) Create(ctx context.Context, in dto.CreateBrandRequest) (*dto.BrandResponse, error) {
	if in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	existing, err := uc.repo.GetByName(ctx, in.Name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	now := time.Now()
	b := &entity.Brand{
		ID:        uuid.New().String(),
		Name:      in.Name,
		Status:    "active",
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(ctx, b); err != nil {
		return nil, err
	}
	return toBrandResponse(b), nil
}

// List returns a page of brands.
func (uc *BrandUseCase) List(ctx context.Context, page dto.PageRequest) (*dto.ListResponse[dto.BrandResponse], error) {
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
	out := make([]dto.BrandResponse, 0, len(list))
	for _, b := range list {
		out = append(out, *toBrandResponse(b))
	}
	return &dto.ListResponse[dto.BrandResponse]{
		Data:       out,
		Pagination: dto.NewPagination(total, page.Page, page.Limit),
	}, nil
}

// Rename changes the brand name, keeping uniqueness.
func (uc *BrandUseCase) Rename(ctx context.Context, id, name string) (*dto.BrandResponse, error) {
	if name == "" {
		return nil, domain.ErrInvalidInput
	}
	b, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, domain.ErrNotFound
	}
	existing, err := uc.repo.GetByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if existing != nil && existing.ID != id {
		return nil, domain.ErrDuplicate
	}
	b.Name = name
	b.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, b); err != nil {
		return nil, err
	}
	return toBrandResponse(b), nil
}

// Delete removes a brand with no products attached.
func (uc *BrandUseCase) Delete(ctx context.Context, id string) error {
	b, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if b == nil {
		return domain.ErrNotFound
	}
	n, err := uc.products.CountByBrand(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return domain.ErrHasDependents
	}
	return uc.repo.Delete(ctx, id)
}

func toBrandResponse(b *entity.Brand) *dto.BrandResponse {
	return &dto.BrandResponse{ID: b.ID, Name: b.Name, Status: b.Status}
}

// CategoryUseCase CRUD for product categories. Codes are stored upper-cased
// and compared case-insensitively.
type CategoryUseCase struct {
	repo     repository.CategoryRepository
	products repository.ProductRepository
}

// NewCategoryUseCase builds the use case.
func NewCategoryUseCase(repo repository.CategoryRepository, products repository.ProductRepository) *CategoryUseCase {
	return &CategoryUseCase{repo: repo, products: products}
}

// Create registers a category with a unique code.
func (uc *CategoryUseCase) Create(ctx context.Context, in dto.CreateCategoryRequest) (*dto.CategoryResponse, error) {
	if in.Name == "" || in.Code == "" {
		return nil, domain.ErrInvalidInput
	}
	code := strings.ToUpper(strings.TrimSpace(in.Code))
	existing, err := uc.repo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	now := time.Now()
	c := &entity.Category{
		ID:        uuid.New().String(),
		Name:      in.Name,
		Code:      code,
		Status:    "active",
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return toCategoryResponse(c), nil
}

// List returns a page of categories.
func (uc *CategoryUseCase) List(ctx context.Context, page dto.PageRequest) (*dto.ListResponse[dto.CategoryResponse], error) {
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
	out := make([]dto.CategoryResponse, 0, len(list))
	for _, c := range list {
		out = append(out, *toCategoryResponse(c))
	}
	return &dto.ListResponse[dto.CategoryResponse]{
		Data:       out,
		Pagination: dto.NewPagination(total, page.Page, page.Limit),
	}, nil
}

// Delete removes a category with no products attached.
func (uc *CategoryUseCase) Delete(ctx context.Context, id string) error {
	c, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if c == nil {
		return domain.ErrNotFound
	}
	n, err := uc.products.CountByCategory(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return domain.ErrHasDependents
	}
	return uc.repo.Delete(ctx, id)
}

func toCategoryResponse(c *entity.Category) *dto.CategoryResponse {
	return &dto.CategoryResponse{ID: c.ID, Name: c.Name, Code: c.Code, Status: c.Status}
}

// ExpenseCategoryUseCase CRUD for expense categories.
type ExpenseCategoryUseCase struct {
	repo     repository.ExpenseCategoryRepository
	expenses repository.ExpenseRepository
}

// NewExpenseCategoryUseCase builds the use case.
func NewExpenseCategoryUseCase(repo repository.ExpenseCategoryRepository, expenses repository.ExpenseRepository) *ExpenseCategoryUseCase {
	return &ExpenseCategoryUseCase{repo: repo, expenses: expenses}
}

// Create registers an expense category with a unique name.
func (uc *ExpenseCategoryUseCase) Create(ctx context.Context, in dto.CreateExpenseCategoryRequest) (*dto.ExpenseCategoryResponse, error) {
	if in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	existing, err := uc.repo.GetByName(ctx, in.Name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	now := time.Now()
	c := &entity.ExpenseCategory{
		ID:        uuid.New().String(),
		Name:      in.Name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return &dto.ExpenseCategoryResponse{ID: c.ID, Name: c.Name}, nil
}

// List returns a page of expense categories.
func (uc *ExpenseCategoryUseCase) List(ctx context.Context, page dto.PageRequest) (*dto.ListResponse[dto.ExpenseCategoryResponse], error) {
	page.Normalize()
	list, total, err := uc.repo.List(ctx, repository.ListFilter{
		Search: page.Search,
		Limit:  page.Limit,
		Offset: page.Offset(),
	})
	if err != nil {
		return nil, err
	}
	out := make([]dto.ExpenseCategoryResponse, 0, len(list))
	for _, c := range list {
		out = append(out, dto.ExpenseCategoryResponse{ID: c.ID, Name: c.Name})
	}
	return &dto.ListResponse[dto.ExpenseCategoryResponse]{
		Data:       out,
		Pagination: dto.NewPagination(total, page.Page, page.Limit),
	}, nil
}

// Delete removes an expense category with no expenses attached.
func (uc *ExpenseCategoryUseCase) Delete(ctx context.Context, id string) error {
	c, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if c == nil {
		return domain.ErrNotFound
	}
	n, err := uc.expenses.CountByCategory(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return domain.ErrHasDependents
	}
	return uc.repo.Delete(ctx, id)
}
