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

var (
	_ repository.BrandRepository           = (*BrandRepo)(nil)
	_ repository.CategoryRepository        = (*CategoryRepo)(nil)
	_ repository.ExpenseCategoryRepository = (*ExpenseCategoryRepo)(nil)
)

// BrandRepo implements BrandRepository on PostgreSQL.
type BrandRepo struct {
	pool *pgxpool.Pool
}

// NewBrandRepository builds the adapter.
func NewBrandRepository(pool *pgxpool.Pool) *BrandRepo {
	return &BrandRepo{pool: pool}
}

func (r *BrandRepo) Create(ctx context.Context, b *entity.Brand) error {
	_, err := querier(ctx, r.pool).Exec(ctx, `
		INSERT INTO brands (id, name, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)`,
		b.ID, b.Name, b.Status, b.CreatedAt, b.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert brand: %w", err)
	}
	return nil
}

func (r *BrandRepo) GetByID(ctx context.Context, id string) (*entity.Brand, error) {
	var b entity.Brand
	err := querier(ctx, r.pool).QueryRow(ctx,
		`SELECT id, name, status, created_at, updated_at FROM brands WHERE id = $1`, id,
	).Scan(&b.ID, &b.Name, &b.Status, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get brand: %w", err)
	}
	return &b, nil
}

func (r *BrandRepo) GetByName(ctx context.Context, name string) (*entity.Brand, error) {
	var b entity.Brand
	err := querier(ctx, r.pool).QueryRow(ctx,
		`SELECT id, name, status, created_at, updated_at FROM brands WHERE lower(name) = lower($1)`, name,
	).Scan(&b.ID, &b.Name, &b.Status, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get brand by name: %w", err)
	}
	return &b, nil
}

func (r *BrandRepo) List(ctx context.Context, f repository.ListFilter) ([]*entity.Brand, int, error) {
	q := querier(ctx, r.pool)
	where := `WHERE ($1 = '' OR name ILIKE $2) AND ($3 = '' OR status = $3)`
	var total int
	if err := q.QueryRow(ctx, `SELECT count(*) FROM brands `+where,
		f.Search, like(f.Search), f.Status).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count brands: %w", err)
	}
	rows, err := q.Query(ctx, `
		SELECT id, name, status, created_at, updated_at FROM brands `+where+`
		ORDER BY name LIMIT $4 OFFSET $5`,
		f.Search, like(f.Search), f.Status, f.Limit, f.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list brands: %w", err)
	}
	defer rows.Close()
	var out []*entity.Brand
	for rows.Next() {
		var b entity.Brand
		if err := rows.Scan(&b.ID, &b.Name, &b.Status, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan brand: %w", err)
		}
		out = append(out, &b)
	}
	return out, total, rows.Err()
}

func (r *BrandRepo) Update(ctx context.Context, b *entity.Brand) error {
	_, err := querier(ctx, r.pool).Exec(ctx,
		`UPDATE brands SET name = $2, status = $3, updated_at = $4 WHERE id = $1`,
		b.ID, b.Name, b.Status, b.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update brand: %w", err)
	}
	return nil
}

func (r *BrandRepo) Delete(ctx context.Context, id string) error {
	_, err := querier(ctx, r.pool).Exec(ctx, `DELETE FROM brands WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete brand: %w", err)
	}
	return nil
}

// CategoryRepo implements CategoryRepository on PostgreSQL.
type CategoryRepo struct {
	pool *pgxpool.Pool
}

// NewCategoryRepository builds the adapter.
func NewCategoryRepository(pool *pgxpool.Pool) *CategoryRepo {
	return &CategoryRepo{pool: pool}
}

func (r *CategoryRepo) Create(ctx context.Context, c *entity.Category) error {
	_, err := querier(ctx, r.pool).Exec(ctx, `
		INSERT INTO categories (id, name, code, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		c.ID, c.Name, c.Code, c.Status, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert category: %w", err)
	}
	return nil
}

func (r *CategoryRepo) GetByID(ctx context.Context, id string) (*entity.Category, error) {
	var c entity.Category
	err := querier(ctx, r.pool).QueryRow(ctx,
		`SELECT id, name, code, status, created_at, updated_at FROM categories WHERE id = $1`, id,
	).Scan(&c.ID, &c.Name, &c.Code, &c.Status, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get category: %w", err)
	}
	return &c, nil
}

func (r *CategoryRepo) GetByCode(ctx context.Context, code string) (*entity.Category, error) {
	var c entity.Category
	err := querier(ctx, r.pool).QueryRow(ctx,
		`SELECT id, name, code, status, created_at, updated_at FROM categories WHERE upper(code) = upper($1)`, code,
	).Scan(&c.ID, &c.Name, &c.Code, &c.Status, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get category by code: %w", err)
	}
	return &c, nil
}

func (r *CategoryRepo) List(ctx context.Context, f repository.ListFilter) ([]*entity.Category, int, error) {
	q := querier(ctx, r.pool)
	where := `WHERE ($1 = '' OR name ILIKE $2 OR code ILIKE $2) AND ($3 = '' OR status = $3)`
	var total int
	if err := q.QueryRow(ctx, `SELECT count(*) FROM categories `+where,
		f.Search, like(f.Search), f.Status).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count categories: %w", err)
	}
	rows, err := q.Query(ctx, `
		SELECT id, name, code, status, created_at, updated_at FROM categories `+where+`
		ORDER BY name LIMIT $4 OFFSET $5`,
		f.Search, like(f.Search), f.Status, f.Limit, f.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()
	var out []*entity.Category
	for rows.Next() {
		var c entity.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Code, &c.Status, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan category: %w", err)
		}
		out = append(out, &c)
	}
	return out, total, rows.Err()
}

func (r *CategoryRepo) Update(ctx context.Context, c *entity.Category) error {
	_, err := querier(ctx, r.pool).Exec(ctx,
		`UPDATE categories SET name = $2, code = $3, status = $4, updated_at = $5 WHERE id = $1`,
		c.ID, c.Name, c.Code, c.Status, c.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update category: %w", err)
	}
	return nil
}

func (r *CategoryRepo) Delete(ctx context.Context, id string) error {
	_, err := querier(ctx, r.pool).Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	return nil
}

// ExpenseCategoryRepo implements ExpenseCategoryRepository on PostgreSQL.
type ExpenseCategoryRepo struct {
	pool *pgxpool.Pool
}

// NewExpenseCategoryRepository builds the adapter.
func NewExpenseCategoryRepository(pool *pgxpool.Pool) *ExpenseCategoryRepo {
	return &ExpenseCategoryRepo{pool: pool}
}

func (r *ExpenseCategoryRepo) Create(ctx context.Context, c *entity.ExpenseCategory) error {
	_, err := querier(ctx, r.pool).Exec(ctx, `
		INSERT INTO expense_categories (id, name, created_at, updated_at)
		VALUES ($1, $2, $3, $4)`,
		c.ID, c.Name, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert expense category: %w", err)
	}
	return nil
}

func (r *ExpenseCategoryRepo) GetByID(ctx context.Context, id string) (*entity.ExpenseCategory, error) {
	var c entity.ExpenseCategory
	err := querier(ctx, r.pool).QueryRow(ctx,
		`SELECT id, name, created_at, updated_at FROM expense_categories WHERE id = $1`, id,
	).Scan(&c.ID, &c.Name, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get expense category: %w", err)
	}
	return &c, nil
}

func (r *ExpenseCategoryRepo) GetByName(ctx context.Context, name string) (*entity.ExpenseCategory, error) {
	var c entity.ExpenseCategory
	err := querier(ctx, r.pool).QueryRow(ctx,
		`SELECT id, name, created_at, updated_at FROM expense_categories WHERE lower(name) = lower($1)`, name,
	).Scan(&c.ID, &c.Name, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get expense category by name: %w", err)
	}
	return &c, nil
}

func (r *ExpenseCategoryRepo) List(ctx context.Context, f repository.ListFilter) ([]*entity.ExpenseCategory, int, error) {
	q := querier(ctx, r.pool)
	where := `WHERE ($1 = '' OR name ILIKE $2)`
	var total int
	if err := q.QueryRow(ctx, `SELECT count(*) FROM expense_categories `+where,
		f.Search, like(f.Search)).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count expense categories: %w", err)
	}
	rows, err := q.Query(ctx, `
		SELECT id, name, created_at, updated_at FROM expense_categories `+where+`
		ORDER BY name LIMIT $3 OFFSET $4`,
		f.Search, like(f.Search), f.Limit, f.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list expense categories: %w", err)
	}
	defer rows.Close()
	var out []*entity.ExpenseCategory
	for rows.Next() {
		var c entity.ExpenseCategory
		if err := rows.Scan(&c.ID, &c.Name, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan expense category: %w", err)
		}
		out = append(out, &c)
	}
	return out, total, rows.Err()
}

func (r *ExpenseCategoryRepo) Update(ctx context.Context, c *entity.ExpenseCategory) error {
	_, err := querier(ctx, r.pool).Exec(ctx,
		`UPDATE expense_categories SET name = $2, updated_at = $3 WHERE id = $1`,
		c.ID, c.Name, c.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update expense category: %w", err)
	}
	return nil
}

func (r *ExpenseCategoryRepo) Delete(ctx context.Context, id string) error {
	_, err := querier(ctx, r.pool).Exec(ctx, `DELETE FROM expense_categories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete expense category: %w", err)
	}
	return nil
}
