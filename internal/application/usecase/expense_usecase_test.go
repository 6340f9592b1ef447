package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/retailcore/pos-api/internal/application/dto"
	"github.com/retailcore/pos-api/internal/application/usecase"
	"github.com/retailcore/pos-api/internal/domain"
	"github.com/retailcore/pos-api/internal/domain/entity"
	"github.com/retailcore/pos-api/internal/domain/repository"
)

type memExpenseRepo struct {
	byID map[string]*entity.Expense
}

func newMemExpenseRepo() *memExpenseRepo { return &memExpenseRepo{byID: map[string]*entity.Expense{}} }

func (r *memExpenseRepo) Create(_ context.Context, e *entity.Expense) error {
	cp := *e
	r.byID[e.ID] = &cp
	return nil
}

func (r *memExpenseRepo) GetByID(_ context.Context, id string) (*entity.Expense, error) {
	e, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	cp := *e
	return &cp, nil
}

func (r *memExpenseRepo) GetByReference(_ context.Context, ref string) (*entity.Expense, error) {
	for _, e := range r.byID {
		if e.Reference == ref {
			cp := *e
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memExpenseRepo) List(_ context.Context, _ repository.ListFilter) ([]*entity.Expense, int, error) {
	var out []*entity.Expense
	for _, e := range r.byID {
		cp := *e
		out = append(out, &cp)
	}
	return out, len(out), nil
}

func (r *memExpenseRepo) Update(_ context.Context, e *entity.Expense) error {
	cp := *e
	r.byID[e.ID] = &cp
	return nil
}

func (r *memExpenseRepo) Delete(_ context.Context, id string) error {
	delete(r.byID, id)
	return nil
}

func (r *memExpenseRepo) CountByCategory(_ context.Context, categoryID string) (int, error) {
	n := 0
	for _, e := range r.byID {
		if e.CategoryID == categoryID {
			n++
		}
	}
	return n, nil
}

type memExpenseCategoryRepo struct {
	byID map[string]*entity.ExpenseCategory
}

func newMemExpenseCategoryRepo(cats ...*entity.ExpenseCategory) *memExpenseCategoryRepo {
	r := &memExpenseCategoryRepo{byID: map[string]*entity.ExpenseCategory{}}
	for _, c := range cats {
		cp := *c
		r.byID[c.ID] = &cp
	}
	return r
}

func (r *memExpenseCategoryRepo) Create(_ context.Context, c *entity.ExpenseCategory) error {
	cp := *c
	r.byID[c.ID] = &cp
	return nil
}

func (r *memExpenseCategoryRepo) GetByID(_ context.Context, id string) (*entity.ExpenseCategory, error) {
	c, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (r *memExpenseCategoryRepo) GetByName(_ context.Context, name string) (*entity.ExpenseCategory, error) {
	for _, c := range r.byID {
		if c.Name == name {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memExpenseCategoryRepo) List(_ context.Context, _ repository.ListFilter) ([]*entity.ExpenseCategory, int, error) {
	var out []*entity.ExpenseCategory
	for _, c := range r.byID {
		cp := *c
		out = append(out, &cp)
	}
	return out, len(out), nil
}

func (r *memExpenseCategoryRepo) Update(_ context.Context, c *entity.ExpenseCategory) error {
	cp := *c
	r.byID[c.ID] = &cp
	return nil
}

func (r *memExpenseCategoryRepo) Delete(_ context.Context, id string) error {
	delete(r.byID, id)
	return nil
}

func newExpenseFixture() *usecase.ExpenseUseCase {
	cats := newMemExpenseCategoryRepo(&entity.ExpenseCategory{ID: "ec1", Name: "Utilities"})
	return usecase.NewExpenseUseCase(newMemExpenseRepo(), cats)
}

func TestExpenseCreate(t *testing.T) {
	uc := newExpenseFixture()

	resp, err := uc.Create(context.Background(), actorID, dto.CreateExpenseRequest{
		CategoryID:  "ec1",
		Description: "September electricity",
		Amount:      dec("120.50"),
	})
	require.NoError(t, err)
	assert.Equal(t, entity.ExpenseStatusPending, resp.Status)
	assert.NotEmpty(t, resp.Reference, "reference is generated when omitted")

	_, err = uc.Create(context.Background(), actorID, dto.CreateExpenseRequest{
		CategoryID: "ec1", Description: "no amount",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Create(context.Background(), actorID, dto.CreateExpenseRequest{
		CategoryID: "ghost", Description: "x", Amount: dec("1"),
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestExpenseUpdate_StatusTransitions(t *testing.T) {
	uc := newExpenseFixture()

	created, err := uc.Create(context.Background(), actorID, dto.CreateExpenseRequest{
		CategoryID: "ec1", Description: "rent", Amount: dec("300"),
	})
	require.NoError(t, err)

	resp, err := uc.Update(context.Background(), created.ID, dto.UpdateExpenseRequest{
		Status: strp(entity.ExpenseStatusApproved),
	})
	require.NoError(t, err)
	assert.Equal(t, entity.ExpenseStatusApproved, resp.Status)

	_, err = uc.Update(context.Background(), created.ID, dto.UpdateExpenseRequest{
		Status: strp("archived"),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "unknown status is rejected")
}

func TestExpenseDelete_ApprovedIsImmutable(t *testing.T) {
	uc := newExpenseFixture()

	created, err := uc.Create(context.Background(), actorID, dto.CreateExpenseRequest{
		CategoryID: "ec1", Description: "rent", Amount: dec("300"),
	})
	require.NoError(t, err)

	_, err = uc.Update(context.Background(), created.ID, dto.UpdateExpenseRequest{
		Status: strp(entity.ExpenseStatusApproved),
	})
	require.NoError(t, err)

	err = uc.Delete(context.Background(), created.ID)
	assert.ErrorIs(t, err, domain.ErrConflict, "approved expenses stay in the books")

	_, err = uc.Update(context.Background(), created.ID, dto.UpdateExpenseRequest{
		Status: strp(entity.ExpenseStatusRejected),
	})
	require.NoError(t, err)
	require.NoError(t, uc.Delete(context.Background(), created.ID))
}
