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

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

// InvoiceRepo implements InvoiceRepository on PostgreSQL.
type InvoiceRepo struct {
	pool *pgxpool.Pool
}

// NewInvoiceRepository builds the adapter.
func NewInvoiceRepository(pool *pgxpool.Pool) *InvoiceRepo {
	return &InvoiceRepo{pool: pool}
}

const invoiceColumns = "id, invoice_no, customer_id, user_id, subtotal, tax_amount, total, amount_paid, due_date, status, created_at, updated_at"

func scanInvoice(row pgx.Row) (*entity.Invoice, error) {
	var inv entity.Invoice
	err := row.Scan(&inv.ID, &inv.InvoiceNo, &inv.CustomerID, &inv.UserID, &inv.Subtotal,
		&inv.TaxAmount, &inv.Total, &inv.AmountPaid, &inv.DueDate, &inv.Status, &inv.CreatedAt, &inv.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &inv, nil
}

func (r *InvoiceRepo) Create(ctx context.Context, inv *entity.Invoice) error {
	_, err := querier(ctx, r.pool).Exec(ctx, `
		INSERT INTO invoices (id, invoice_no, customer_id, user_id, subtotal, tax_amount, total, amount_paid, due_date, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		inv.ID, inv.InvoiceNo, inv.CustomerID, inv.UserID, inv.Subtotal, inv.TaxAmount,
		inv.Total, inv.AmountPaid, inv.DueDate, inv.Status, inv.CreatedAt, inv.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert invoice: %w", err)
	}
	return nil
}

func (r *InvoiceRepo) GetByID(ctx context.Context, id string) (*entity.Invoice, error) {
	inv, err := scanInvoice(querier(ctx, r.pool).QueryRow(ctx,
		`SELECT `+invoiceColumns+` FROM invoices WHERE id = $1`, id))
	if err != nil {
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	return inv, nil
}

func (r *InvoiceRepo) GetByInvoiceNo(ctx context.Context, invoiceNo string) (*entity.Invoice, error) {
	inv, err := scanInvoice(querier(ctx, r.pool).QueryRow(ctx,
		`SELECT `+invoiceColumns+` FROM invoices WHERE invoice_no = $1`, invoiceNo))
	if err != nil {
		return nil, fmt.Errorf("get invoice by number: %w", err)
	}
	return inv, nil
}

func (r *InvoiceRepo) List(ctx context.Context, f repository.ListFilter) ([]*entity.Invoice, int, error) {
	q := querier(ctx, r.pool)
	where := `WHERE ($1 = '' OR invoice_no ILIKE $2) AND ($3 = '' OR status = $3)`
	var total int
	if err := q.QueryRow(ctx, `SELECT count(*) FROM invoices `+where,
		f.Search, like(f.Search), f.Status).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count invoices: %w", err)
	}
	rows, err := q.Query(ctx, `
		SELECT `+invoiceColumns+` FROM invoices `+where+`
		ORDER BY created_at DESC LIMIT $4 OFFSET $5`,
		f.Search, like(f.Search), f.Status, f.Limit, f.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list invoices: %w", err)
	}
	defer rows.Close()
	var out []*entity.Invoice
	for rows.Next() {
		var inv entity.Invoice
		if err := rows.Scan(&inv.ID, &inv.InvoiceNo, &inv.CustomerID, &inv.UserID, &inv.Subtotal,
			&inv.TaxAmount, &inv.Total, &inv.AmountPaid, &inv.DueDate, &inv.Status, &inv.CreatedAt, &inv.UpdatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan invoice: %w", err)
		}
		out = append(out, &inv)
	}
	return out, total, rows.Err()
}

func (r *InvoiceRepo) Update(ctx context.Context, inv *entity.Invoice) error {
	_, err := querier(ctx, r.pool).Exec(ctx, `
		UPDATE invoices SET amount_paid = $2, status = $3, due_date = $4, updated_at = $5 WHERE id = $1`,
		inv.ID, inv.AmountPaid, inv.Status, inv.DueDate, inv.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update invoice: %w", err)
	}
	return nil
}

func (r *InvoiceRepo) Delete(ctx context.Context, id string) error {
	_, err := querier(ctx, r.pool).Exec(ctx, `DELETE FROM invoices WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete invoice: %w", err)
	}
	return nil
}

func (r *InvoiceRepo) CountByCustomer(ctx context.Context, customerID string) (int, error) {
	var n int
	err := querier(ctx, r.pool).QueryRow(ctx,
		`SELECT count(*) FROM invoices WHERE customer_id = $1`, customerID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count invoices by customer: %w", err)
	}
	return n, nil
}
