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

var _ repository.PurchaseRepository = (*PurchaseRepo)(nil)

// PurchaseRepo implements PurchaseRepository on PostgreSQL.
type PurchaseRepo struct {
	pool *pgxpool.Pool
}

// NewPurchaseRepository builds the adapter.
func NewPurchaseRepository(pool *pgxpool.Pool) *PurchaseRepo {
	return &PurchaseRepo{pool: pool}
}

const purchaseColumns = "id, reference_no, supplier_id, user_id, subtotal, tax_amount, total, status, created_at, updated_at"

func scanPurchase(row pgx.Row) (*entity.Purchase, error) {
	var p entity.Purchase
	err := row.Scan(&p.ID, &p.ReferenceNo, &p.SupplierID, &p.UserID, &p.Subtotal,
		&p.TaxAmount, &p.Total, &p.Status, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *PurchaseRepo) Create(ctx context.Context, p *entity.Purchase, items []*entity.PurchaseItem) error {
	q := querier(ctx, r.pool)
	_, err := q.Exec(ctx, `
		INSERT INTO purchases (id, reference_no, supplier_id, user_id, subtotal, tax_amount, total, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		p.ID, p.ReferenceNo, p.SupplierID, p.UserID, p.Subtotal, p.TaxAmount, p.Total, p.Status, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert purchase: %w", err)
	}
	for _, item := range items {
		_, err := q.Exec(ctx, `
			INSERT INTO purchase_items (id, purchase_id, product_id, quantity, unit_cost, subtotal)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			item.ID, item.PurchaseID, item.ProductID, item.Quantity, item.UnitCost, item.Subtotal,
		)
		if err != nil {
			return fmt.Errorf("insert purchase item: %w", err)
		}
	}
	return nil
}

func (r *PurchaseRepo) GetByID(ctx context.Context, id string) (*entity.Purchase, error) {
	p, err := scanPurchase(querier(ctx, r.pool).QueryRow(ctx,
		`SELECT `+purchaseColumns+` FROM purchases WHERE id = $1`, id))
	if err != nil {
		return nil, fmt.Errorf("get purchase: %w", err)
	}
	return p, nil
}

func (r *PurchaseRepo) GetByReferenceNo(ctx context.Context, ref string) (*entity.Purchase, error) {
	p, err := scanPurchase(querier(ctx, r.pool).QueryRow(ctx,
		`SELECT `+purchaseColumns+` FROM purchases WHERE reference_no = $1`, ref))
	if err != nil {
		return nil, fmt.Errorf("get purchase by reference: %w", err)
	}
	return p, nil
}

func (r *PurchaseRepo) GetItems(ctx context.Context, purchaseID string) ([]*entity.PurchaseItem, error) {
	rows, err := querier(ctx, r.pool).Query(ctx, `
		SELECT id, purchase_id, product_id, quantity, unit_cost, subtotal
		FROM purchase_items WHERE purchase_id = $1`, purchaseID)
	if err != nil {
		return nil, fmt.Errorf("list purchase items: %w", err)
	}
	defer rows.Close()
	var out []*entity.PurchaseItem
	for rows.Next() {
		var item entity.PurchaseItem
		if err := rows.Scan(&item.ID, &item.PurchaseID, &item.ProductID, &item.Quantity,
			&item.UnitCost, &item.Subtotal); err != nil {
			return nil, fmt.Errorf("scan purchase item: %w", err)
		}
		out = append(out, &item)
	}
	return out, rows.Err()
}

func (r *PurchaseRepo) List(ctx context.Context, f repository.ListFilter) ([]*entity.Purchase, int, error) {
	q := querier(ctx, r.pool)
	where := `WHERE ($1 = '' OR reference_no ILIKE $2) AND ($3 = '' OR status = $3)`
	var total int
	if err := q.QueryRow(ctx, `SELECT count(*) FROM purchases `+where,
		f.Search, like(f.Search), f.Status).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count purchases: %w", err)
	}
	rows, err := q.Query(ctx, `
		SELECT `+purchaseColumns+` FROM purchases `+where+`
		ORDER BY created_at DESC LIMIT $4 OFFSET $5`,
		f.Search, like(f.Search), f.Status, f.Limit, f.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list purchases: %w", err)
	}
	defer rows.Close()
	var out []*entity.Purchase
	for rows.Next() {
		var p entity.Purchase
		if err := rows.Scan(&p.ID, &p.ReferenceNo, &p.SupplierID, &p.UserID, &p.Subtotal,
			&p.TaxAmount, &p.Total, &p.Status, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan purchase: %w", err)
		}
		out = append(out, &p)
	}
	return out, total, rows.Err()
}

func (r *PurchaseRepo) Update(ctx context.Context, p *entity.Purchase) error {
	_, err := querier(ctx, r.pool).Exec(ctx,
		`UPDATE purchases SET status = $2, updated_at = $3 WHERE id = $1`,
		p.ID, p.Status, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update purchase: %w", err)
	}
	return nil
}

func (r *PurchaseRepo) CountBySupplier(ctx context.Context, supplierID string) (int, error) {
	var n int
	err := querier(ctx, r.pool).QueryRow(ctx,
		`SELECT count(*) FROM purchases WHERE supplier_id = $1`, supplierID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count purchases by supplier: %w", err)
	}
	return n, nil
}
