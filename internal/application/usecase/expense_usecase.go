package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/retailcore/pos-api/internal/application/dto"
	"github.com/retailcore/pos-api/internal/domain"
	"github.com/retailcore/pos-api/internal/domain/entity"
	"github.com/retailcore/pos-api/internal/domain/repository"
)

// ExpenseUseCase CRUD for expenses. Approved expenses are immutable toward
// deletion; they stay in the books.
type ExpenseUseCase struct {
	repo       repository.ExpenseRepository
	categories repository.ExpenseCategoryRepository
}

// NewExpenseUseCase builds the use case.
func NewExpenseUseCase(repo repository.ExpenseRepository, categories repository.ExpenseCategoryRepository) *ExpenseUseCase {
	return &ExpenseUseCase{repo: repo, categories: categories}
}

// Create records an expense in pending state. The reference is generated
// when the caller leaves it empty.
func (uc *ExpenseUseCase) Create(ctx context.Context, userID string, in dto.CreateExpenseRequest) (*dto.ExpenseResponse, error) {
	if in.CategoryID == "" || in.Description == "" || !in.Amount.IsPositive() {
		return nil, domain.ErrInvalidInput
	}
	cat, err := uc.categories.GetByID(ctx, in.CategoryID)
	if err != nil {
		return nil, err
	}
	if cat == nil {
		return nil, fmt.Errorf("%w: expense category %s", domain.ErrNotFound, in.CategoryID)
	}
	now := time.Now()
	ref := in.Reference
	if ref == "" {
		ref = fmt.Sprintf("EXP-%d", now.UnixMilli())
	} else {
		existing, err := uc.repo.GetByReference(ctx, ref)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, domain.ErrDuplicate
		}
	}
	date := in.Date
	if date.IsZero() {
		date = now
	}
	e := &entity.Expense{
		ID:          uuid.New().String(),
		CategoryID:  in.CategoryID,
		UserID:      userID,
		Reference:   ref,
		Description: in.Description,
		Amount:      in.Amount,
		Date:        date,
		Status:      entity.ExpenseStatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repo.Create(ctx, e); err != nil {
		return nil, err
	}
	return toExpenseResponse(e), nil
}

// GetByID returns one expense or ErrNotFound.
func (uc *ExpenseUseCase) GetByID(ctx context.Context, id string) (*dto.ExpenseResponse, error) {
	e, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, domain.ErrNotFound
	}
	return toExpenseResponse(e), nil
}

// List returns a page of expenses.
func (uc *ExpenseUseCase) List(ctx context.Context, page dto.PageRequest) (*dto.ListResponse[dto.ExpenseResponse], error) {
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
	out := make([]dto.ExpenseResponse, 0, len(list))
	for _, e := range list {
		out = append(out, *toExpenseResponse(e))
	}
	return &dto.ListResponse[dto.ExpenseResponse]{
		Data:       out,
		Pagination: dto.NewPagination(total, page.Page, page.Limit),
	}, nil
}

// Update applies the non-nil fields. Status transitions go through here
// (pending to approved or rejected).
func (uc *ExpenseUseCase) Update(ctx context.Context, id string, in dto.UpdateExpenseRequest) (*dto.ExpenseResponse, error) {
	e, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, domain.ErrNotFound
	}
	if in.CategoryID != nil {
		cat, err := uc.categories.GetByID(ctx, *in.CategoryID)
		if err != nil {
			return nil, err
		}
		if cat == nil {
			return nil, fmt.Errorf("%w: expense category %s", domain.ErrNotFound, *in.CategoryID)
		}
		e.CategoryID = *in.CategoryID
	}
	if in.Description != nil {
		e.Description = *in.Description
	}
	if in.Amount != nil {
		if !in.Amount.IsPositive() {
			return nil, domain.ErrInvalidInput
		}
		e.Amount = *in.Amount
	}
	if in.Date != nil {
		e.Date = *in.Date
	}
	if in.Status != nil {
		switch *in.Status {
		case entity.ExpenseStatusPending, entity.ExpenseStatusApproved, entity.ExpenseStatusRejected:
			e.Status = *in.Status
		default:
			return nil, domain.ErrInvalidInput
		}
	}
	e.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, e); err != nil {
		return nil, err
	}
	return toExpenseResponse(e), nil
}

// Delete removes an expense unless it has been approved.
func (uc *ExpenseUseCase) Delete(ctx context.Context, id string) error {
	e, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if e == nil {
		return domain.ErrNotFound
	}
	if e.Status == entity.ExpenseStatusApproved {
		return fmt.Errorf("%w: approved expenses cannot be deleted", domain.ErrConflict)
	}
	return uc.repo.Delete(ctx, id)
}

func toExpenseResponse(e *entity.Expense) *dto.ExpenseResponse {
	return &dto.ExpenseResponse{
		ID:          e.ID,
		CategoryID:  e.CategoryID,
		UserID:      e.UserID,
		Reference:   e.Reference,
		Description: e.Description,
		Amount:      e.Amount,
		Date:        e.Date,
		Status:      e.Status,
	}
}
