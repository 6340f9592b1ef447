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

var _ repository.QuotationRepository = (*QuotationRepo)(nil)

// QuotationRepo implements QuotationRepository on PostgreSQL.
type QuotationRepo struct {
	pool *pgxpool.Pool
}

// NewQuotationRepository builds the adapter.
func NewQuotationRepository(pool *pgxpool.Pool) *QuotationRepo {
	return &QuotationRepo{pool: pool}
}

const quotationColumns = "id, reference_no, customer_id, user_id, subtotal, tax_amount, total, valid_until, status, created_at, updated_at"

func scanQuotation(row pgx.Row) (*entity.Quotation, error) {
	var q entity.Quotation
	err := row.Scan(&q.ID, &q.ReferenceNo, &q.CustomerID, &q.UserID, &q.Subtotal,
		&q.TaxAmount, &q.Total, &q.ValidUntil, &q.Status, &q.CreatedAt, &q.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &q, nil
}

func (r *QuotationRepo) Create(ctx context.Context, q *entity.Quotation, items []*entity.QuotationItem) error {
	db := querier(ctx, r.pool)
	_, err := db.Exec(ctx, `
		INSERT INTO quotations (id, reference_no, customer_id, user_id, subtotal, tax_amount, total, valid_until, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		q.ID, q.ReferenceNo, q.CustomerID, q.UserID, q.Subtotal, q.TaxAmount, q.Total,
		q.ValidUntil, q.Status, q.CreatedAt, q.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert quotation: %w", err)
	}
	for _, item := range items {
		_, err := db.Exec(ctx, `
			INSERT INTO quotation_items (id, quotation_id, product_id, quantity, unit_price, subtotal)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			item.ID, item.QuotationID, item.ProductID, item.Quantity, item.UnitPrice, item.Subtotal,
		)
		if err != nil {
			return fmt.Errorf("insert quotation item: %w", err)
		}
	}
	return nil
}

func (r *QuotationRepo) GetByID(ctx context.Context, id string) (*entity.Quotation, error) {
	q, err := scanQuotation(querier(ctx, r.pool).QueryRow(ctx,
		`SELECT `+quotationColumns+` FROM quotations WHERE id = $1`, id))
	if err != nil {
		return nil, fmt.Errorf("get quotation: %w", err)
	}
	return q, nil
}

func (r *QuotationRepo) GetByReferenceNo(ctx context.Context, ref string) (*entity.Quotation, error) {
	q, err := scanQuotation(querier(ctx, r.pool).QueryRow(ctx,
		`SELECT `+quotationColumns+` FROM quotations WHERE reference_no = $1`, ref))
	if err != nil {
		return nil, fmt.Errorf("get quotation by reference: %w", err)
	}
	return q, nil
}

func (r *QuotationRepo) GetItems(ctx context.Context, quotationID string) ([]*entity.QuotationItem, error) {
	rows, err := querier(ctx, r.pool).Query(ctx, `
		SELECT id, quotation_id, product_id, quantity, unit_price, subtotal
		FROM quotation_items WHERE quotation_id = $1`, quotationID)
	if err != nil {
		return nil, fmt.Errorf("list quotation items: %w", err)
	}
	defer rows.Close()
	var out []*entity.QuotationItem
	for rows.Next() {
		var item entity.QuotationItem
		if err := rows.Scan(&item.ID, &item.QuotationID, &item.ProductID, &item.Quantity,
			&item.UnitPrice, &item.Subtotal); err != nil {
			return nil, fmt.Errorf("scan quotation item: %w", err)
		}
		out = append(out, &item)
	}
	return out, rows.Err()
}

func (r *QuotationRepo) List(ctx context.Context, f repository.ListFilter) ([]*entity.Quotation, int, error) {
	db := querier(ctx, r.pool)
	where := `WHERE ($1 = '' OR reference_no ILIKE $2) AND ($3 = '' OR status = $3)`
	var total int
	if err := db.QueryRow(ctx, `SELECT count(*) FROM quotations `+where,
		f.Search, like(f.Search), f.Status).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count quotations: %w", err)
	}
	rows, err := db.Query(ctx, `
		SELECT `+quotationColumns+` FROM quotations `+where+`
		ORDER BY created_at DESC LIMIT $4 OFFSET $5`,
		f.Search, like(f.Search), f.Status, f.Limit, f.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list quotations: %w", err)
	}
	defer rows.Close()
	var out []*entity.Quotation
	for rows.Next() {
		var q entity.Quotation
		if err := rows.Scan(&q.ID, &q.ReferenceNo, &q.CustomerID, &q.UserID, &q.Subtotal,
			&q.TaxAmount, &q.Total, &q.ValidUntil, &q.Status, &q.CreatedAt, &q.UpdatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan quotation: %w", err)
		}
		out = append(out, &q)
	}
	return out, total, rows.Err()
}

func (r *QuotationRepo) Update(ctx context.Context, q *entity.Quotation) error {
	_, err := querier(ctx, r.pool).Exec(ctx,
		`UPDATE quotations SET status = $2, valid_until = $3, updated_at = $4 WHERE id = $1`,
		q.ID, q.Status, q.ValidUntil, q.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update quotation: %w", err)
	}
	return nil
}

func (r *QuotationRepo) Delete(ctx context.Context, id string) error {
	db := querier(ctx, r.pool)
	if _, err := db.Exec(ctx, `DELETE FROM quotation_items WHERE quotation_id = $1`, id); err != nil {
		return fmt.Errorf("delete quotation items: %w", err)
	}
	if _, err := db.Exec(ctx, `DELETE FROM quotations WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete quotation: %w", err)
	}
	return nil
}

func (r *QuotationRepo) CountByCustomer(ctx context.Context, customerID string) (int, error) {
	var n int
	err := querier(ctx, r.pool).QueryRow(ctx,
		`SELECT count(*) FROM quotations WHERE customer_id = $1`, customerID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count quotations by customer: %w", err)
	}
	return n, nil
}
