package repository

import (
	"context"

	"github.com/retailcore/pos-api/internal/domain/entity"
)

// BrandRepository is the persistence port for Brand.
type BrandRepository interface {
	Create(ctx context.Context, b *entity.Brand) error
	GetByID(ctx context.Context, id string) (*entity.Brand, error)
	GetByName(ctx context.Context, name string) (*entity.Brand, error)
	List(ctx context.Context, f ListFilter) ([]*entity.Brand, int, error)
	Update(ctx context.Context, b *entity.Brand) error
	Delete(ctx context.Context, id string) error
}

// CategoryRepository is the persistence port for Category.
// GetByCode matches case-insensitively.
type CategoryRepository interface {
	Create(ctx context.Context, c *entity.Category) error
	GetByID(ctx context.Context, id string) (*entity.Category, error)
	GetByCode(ctx context.Context, code string) (*entity.Category, error)
	List(ctx context.Context, f ListFilter) ([]*entity.Category, int, error)
	Update(ctx context.Context, c *entity.Category) error
	Delete(ctx context.Context, id string) error
}

// ExpenseCategoryRepository is the persistence port for ExpenseCategory.
type ExpenseCategoryRepository interface {
	Create(ctx context.Context, c *entity.ExpenseCategory) error
	GetByID(ctx context.Context, id string) (*entity.ExpenseCategory, error)
	GetByName(ctx context.Context, name string) (*entity.ExpenseCategory, error)
	List(ctx context.Context, f ListFilter) ([]*entity.ExpenseCategory, int, error)
	Update(ctx context.Context, c *entity.ExpenseCategory) error
	Delete(ctx context.Context, id string) error
}
