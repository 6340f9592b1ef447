package repository

import (
	"context"

	"github.com/retailcore/pos-api/internal/domain/entity"
)

// ExpenseRepository is the persistence port for Expense.
type ExpenseRepository interface {
	Create(ctx context.Context, e *entity.Expense) error
	GetByID(ctx context.Context, id string) (*entity.Expense, error)
	GetByReference(ctx context.Context, ref string) (*entity.Expense, error)
	List(ctx context.Context, f ListFilter) ([]*entity.Expense, int, error)
	Update(ctx context.Context, e *entity.Expense) error
	Delete(ctx context.Context, id string) error

	CountByCategory(ctx context.Context, categoryID string) (int, error)
}
