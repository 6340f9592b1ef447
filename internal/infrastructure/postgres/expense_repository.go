package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/retailcore/pos-api/internal/domain"
	"github.com/retailcore/pos-api/internal/domain/entity"
	"github.com/retailcore/pos-api/internal/domain/repository"
)

var _ repository.ExpenseRepository = (*ExpenseRepo)(nil)

// ExpenseRepo implements ExpenseRepository on PostgreSQL.
type ExpenseRepo struct {
	pool *pgxpool.Pool
}

// NewExpenseRepository builds the adapter.
func NewExpenseRepository(pool *pgxpool.Pool) *ExpenseRepo {
	return &ExpenseRepo{pool: pool}
}

const expenseColumns = "id, category_id, user_id, reference, description, amount, date, status, created_at, updated_at"

func scanExpense(row pgx.Row) (*entity.Expense, error) {
	var e entity.Expense
	err := row.Scan(&e.ID, &e.CategoryID, &e.UserID, &e.Reference, &e.Description,
		&e.Amount, &e.Date, &e.Status, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &e, nil
}

func (r *ExpenseRepo) Create(ctx context.Context, e *entity.Expense) error {
	_, err := querier(ctx, r.pool).Exec(ctx, `
		INSERT INTO expenses (id, category_id, user_id, reference, description, amount, date, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		e.ID, e.CategoryID, e.UserID, e.Reference, e.Description, e.Amount, e.Date, e.Status, e.CreatedAt, e.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert expense: %w", err)
	}
	return nil
}

func (r *ExpenseRepo) GetByID(ctx context.Context, id string) (*entity.Expense, error) {
	e, err := scanExpense(querier(ctx, r.pool).QueryRow(ctx,
		`SELECT `+expenseColumns+` FROM expenses WHERE id = $1`, id))
	if err != nil {
		return nil, fmt.Errorf("get expense: %w", err)
	}
	return e, nil
}

func (r *ExpenseRepo) GetByReference(ctx context.Context, ref string) (*entity.Expense, error) {
	e, err := scanExpense(querier(ctx, r.pool).QueryRow(ctx,
		`SELECT `+expenseColumns+` FROM expenses WHERE reference = $1`, ref))
	if err != nil {
		return nil, fmt.Errorf("get expense by reference: %w", err)
	}
	return e, nil
}

func (r *ExpenseRepo) List(ctx context.Context, f repository.ListFilter) ([]*entity.Expense, int, error) {
	q := querier(ctx, r.pool)
	where := `WHERE ($1 = '' OR reference ILIKE $2 OR description ILIKE $2) AND ($3 = '' OR status = $3)`
	var total int
	if err := q.QueryRow(ctx, `SELECT count(*) FROM expenses `+where,
		f.Search, like(f.Search), f.Status).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count expenses: %w", err)
	}
	rows, err := q.Query(ctx, `
		SELECT `+expenseColumns+` FROM expenses `+where+`
		ORDER BY date DESC LIMIT $4 OFFSET $5`,
		f.Search, like(f.Search), f.Status, f.Limit, f.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list expenses: %w", err)
	}
	defer rows.Close()
	var out []*entity.Expense
	for rows.Next() {
		var e entity.Expense
		if err := rows.Scan(&e.ID, &e.CategoryID, &e.UserID, &e.Reference, &e.Description,
			&e.Amount, &e.Date, &e.Status, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan expense: %w", err)
		}
		out = append(out, &e)
	}
	return out, total, rows.Err()
}

func (r *ExpenseRepo) Update(ctx context.Context, e *entity.Expense) error {
	_, err := querier(ctx, r.pool).Exec(ctx, `
		UPDATE expenses SET category_id = $2, description = $3, amount = $4, date = $5, status = $6, updated_at = $7
		WHERE id = $1`,
		e.ID, e.CategoryID, e.Description, e.Amount, e.Date, e.Status, e.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update expense: %w", err)
	}
	return nil
}

func (r *ExpenseRepo) Delete(ctx context.Context, id string) error {
	_, err := querier(ctx, r.pool).Exec(ctx, `DELETE FROM expenses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	return nil
}

func (r *ExpenseRepo) CountByCategory(ctx context.Context, categoryID string) (int, error) {
	var n int
	err := querier(ctx, r.pool).QueryRow(ctx,
		`SELECT count(*) FROM expenses WHERE category_id = $1`, categoryID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count expenses by category: %w", err)
	}
	return n, nil
}
