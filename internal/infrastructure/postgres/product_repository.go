package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/retailcore/pos-api/internal/domain"
	"github.com/retailcore/pos-api/internal/domain/entity"
	"github.com/retailcore/pos-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implements ProductRepository on PostgreSQL.
type ProductRepo struct {
	pool *pgxpool.Pool
}

// NewProductRepository builds the adapter.
func NewProductRepository(pool *pgxpool.Pool) *ProductRepo {
	return &ProductRepo{pool: pool}
}

const productColumns = "id, sku, name, brand_id, category_id, cost, price, tax_rate, stock, reorder_at, status, created_at, updated_at"

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	err := row.Scan(&p.ID, &p.SKU, &p.Name, &p.BrandID, &p.CategoryID, &p.Cost, &p.Price,
		&p.TaxRate, &p.Stock, &p.ReorderAt, &p.Status, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	_, err := querier(ctx, r.pool).Exec(ctx, `
		INSERT INTO products (id, sku, name, brand_id, category_id, cost, price, tax_rate, stock, reorder_at, status, created_at, updated_at)
		VALUES ($1, $2, $3, NULLIF($4, ''), NULLIF($5, ''), $6, $7, $8, $9, $10, $11, $12, $13)`,
		p.ID, p.SKU, p.Name, p.BrandID, p.CategoryID, p.Cost, p.Price, p.TaxRate,
		p.Stock, p.ReorderAt, p.Status, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	p, err := scanProduct(querier(ctx, r.pool).QueryRow(ctx,
		`SELECT `+productColumnsCoalesced+` FROM products WHERE id = $1`, id))
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

func (r *ProductRepo) GetBySKU(ctx context.Context, sku string) (*entity.Product, error) {
	p, err := scanProduct(querier(ctx, r.pool).QueryRow(ctx,
		`SELECT `+productColumnsCoalesced+` FROM products WHERE sku = $1`, sku))
	if err != nil {
		return nil, fmt.Errorf("get product by sku: %w", err)
	}
	return p, nil
}

// brand_id and category_id are nullable; scan them as empty strings.
const productColumnsCoalesced = "id, sku, name, coalesce(brand_id, ''), coalesce(category_id, ''), cost, price, tax_rate, stock, reorder_at, status, created_at, updated_at"

func (r *ProductRepo) List(ctx context.Context, f repository.ListFilter) ([]*entity.Product, int, error) {
	q := querier(ctx, r.pool)
	where := `WHERE ($1 = '' OR name ILIKE $2 OR sku ILIKE $2) AND ($3 = '' OR status = $3)`
	var total int
	if err := q.QueryRow(ctx, `SELECT count(*) FROM products `+where,
		f.Search, like(f.Search), f.Status).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}
	rows, err := q.Query(ctx, `
		SELECT `+productColumnsCoalesced+` FROM products `+where+`
		ORDER BY name LIMIT $4 OFFSET $5`,
		f.Search, like(f.Search), f.Status, f.Limit, f.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()
	var out []*entity.Product
	for rows.Next() {
		var p entity.Product
		if err := rows.Scan(&p.ID, &p.SKU, &p.Name, &p.BrandID, &p.CategoryID, &p.Cost, &p.Price,
			&p.TaxRate, &p.Stock, &p.ReorderAt, &p.Status, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan product: %w", err)
		}
		out = append(out, &p)
	}
	return out, total, rows.Err()
}

func (r *ProductRepo) Update(ctx context.Context, p *entity.Product) error {
	_, err := querier(ctx, r.pool).Exec(ctx, `
		UPDATE products SET name = $2, brand_id = NULLIF($3, ''), category_id = NULLIF($4, ''),
			cost = $5, price = $6, tax_rate = $7, reorder_at = $8, status = $9, updated_at = $10
		WHERE id = $1`,
		p.ID, p.Name, p.BrandID, p.CategoryID, p.Cost, p.Price, p.TaxRate, p.ReorderAt, p.Status, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	return nil
}

func (r *ProductRepo) Delete(ctx context.Context, id string) error {
	_, err := querier(ctx, r.pool).Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	return nil
}

// AdjustStock applies the delta with a guard in the WHERE clause, so two
// concurrent sales can never take stock negative.
func (r *ProductRepo) AdjustStock(ctx context.Context, id string, delta decimal.Decimal) error {
	cmd, err := querier(ctx, r.pool).Exec(ctx, `
		UPDATE products SET stock = stock + $2, updated_at = now()
		WHERE id = $1 AND stock + $2 >= 0`,
		id, delta,
	)
	if err != nil {
		return fmt.Errorf("adjust stock: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrInsufficientStock
	}
	return nil
}

func (r *ProductRepo) CountByBrand(ctx context.Context, brandID string) (int, error) {
	var n int
	err := querier(ctx, r.pool).QueryRow(ctx,
		`SELECT count(*) FROM products WHERE brand_id = $1`, brandID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count products by brand: %w", err)
	}
	return n, nil
}

func (r *ProductRepo) CountByCategory(ctx context.Context, categoryID string) (int, error) {
	var n int
	err := querier(ctx, r.pool).QueryRow(ctx,
		`SELECT count(*) FROM products WHERE category_id = $1`, categoryID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count products by category: %w", err)
	}
	return n, nil
}
