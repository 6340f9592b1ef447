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

var _ repository.SaleRepository = (*SaleRepo)(nil)

// SaleRepo implements SaleRepository on PostgreSQL.
type SaleRepo struct {
	pool *pgxpool.Pool
}

// NewSaleRepository builds the adapter.
func NewSaleRepository(pool *pgxpool.Pool) *SaleRepo {
	return &SaleRepo{pool: pool}
}

const saleColumns = `id, invoice_no, coalesce(customer_id, ''), user_id, subtotal, tax_amount, discount, total,
	payment_method, status, is_fiscalized, coalesce(fiscal_transaction_id, ''), coalesce(fiscal_qr_data, ''),
	created_at, updated_at`

func scanSale(row pgx.Row) (*entity.Sale, error) {
	var s entity.Sale
	err := row.Scan(&s.ID, &s.InvoiceNo, &s.CustomerID, &s.UserID, &s.Subtotal, &s.TaxAmount,
		&s.Discount, &s.Total, &s.PaymentMethod, &s.Status, &s.IsFiscalized,
		&s.FiscalTransactionID, &s.FiscalQRData, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

// Create inserts the sale header and all of its items. The caller is
// expected to run this inside RunInTx together with the stock decrements.
func (r *SaleRepo) Create(ctx context.Context, s *entity.Sale, items []*entity.SaleItem) error {
	q := querier(ctx, r.pool)
	_, err := q.Exec(ctx, `
		INSERT INTO sales (id, invoice_no, customer_id, user_id, subtotal, tax_amount, discount, total,
			payment_method, status, is_fiscalized, created_at, updated_at)
		VALUES ($1, $2, NULLIF($3, ''), $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		s.ID, s.InvoiceNo, s.CustomerID, s.UserID, s.Subtotal, s.TaxAmount, s.Discount, s.Total,
		s.PaymentMethod, s.Status, s.IsFiscalized, s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert sale: %w", err)
	}
	for _, item := range items {
		_, err := q.Exec(ctx, `
			INSERT INTO sale_items (id, sale_id, product_id, quantity, unit_price, tax_rate, subtotal)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			item.ID, item.SaleID, item.ProductID, item.Quantity, item.UnitPrice, item.TaxRate, item.Subtotal,
		)
		if err != nil {
			return fmt.Errorf("insert sale item: %w", err)
		}
	}
	return nil
}

func (r *SaleRepo) GetByID(ctx context.Context, id string) (*entity.Sale, error) {
	s, err := scanSale(querier(ctx, r.pool).QueryRow(ctx,
		`SELECT `+saleColumns+` FROM sales WHERE id = $1`, id))
	if err != nil {
		return nil, fmt.Errorf("get sale: %w", err)
	}
	return s, nil
}

func (r *SaleRepo) GetByInvoiceNo(ctx context.Context, invoiceNo string) (*entity.Sale, error) {
	s, err := scanSale(querier(ctx, r.pool).QueryRow(ctx,
		`SELECT `+saleColumns+` FROM sales WHERE invoice_no = $1`, invoiceNo))
	if err != nil {
		return nil, fmt.Errorf("get sale by invoice: %w", err)
	}
	return s, nil
}

func (r *SaleRepo) GetItems(ctx context.Context, saleID string) ([]*entity.SaleItem, error) {
	rows, err := querier(ctx, r.pool).Query(ctx, `
		SELECT id, sale_id, product_id, quantity, unit_price, tax_rate, subtotal
		FROM sale_items WHERE sale_id = $1`, saleID)
	if err != nil {
		return nil, fmt.Errorf("list sale items: %w", err)
	}
	defer rows.Close()
	var out []*entity.SaleItem
	for rows.Next() {
		var item entity.SaleItem
		if err := rows.Scan(&item.ID, &item.SaleID, &item.ProductID, &item.Quantity,
			&item.UnitPrice, &item.TaxRate, &item.Subtotal); err != nil {
			return nil, fmt.Errorf("scan sale item: %w", err)
		}
		out = append(out, &item)
	}
	return out, rows.Err()
}

func (r *SaleRepo) List(ctx context.Context, f repository.ListFilter) ([]*entity.Sale, int, error) {
	q := querier(ctx, r.pool)
	where := `WHERE ($1 = '' OR invoice_no ILIKE $2) AND ($3 = '' OR status = $3)`
	var total int
	if err := q.QueryRow(ctx, `SELECT count(*) FROM sales `+where,
		f.Search, like(f.Search), f.Status).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count sales: %w", err)
	}
	rows, err := q.Query(ctx, `
		SELECT `+saleColumns+` FROM sales `+where+`
		ORDER BY created_at DESC LIMIT $4 OFFSET $5`,
		f.Search, like(f.Search), f.Status, f.Limit, f.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list sales: %w", err)
	}
	defer rows.Close()
	var out []*entity.Sale
	for rows.Next() {
		var s entity.Sale
		if err := rows.Scan(&s.ID, &s.InvoiceNo, &s.CustomerID, &s.UserID, &s.Subtotal, &s.TaxAmount,
			&s.Discount, &s.Total, &s.PaymentMethod, &s.Status, &s.IsFiscalized,
			&s.FiscalTransactionID, &s.FiscalQRData, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan sale: %w", err)
		}
		out = append(out, &s)
	}
	return out, total, rows.Err()
}

func (r *SaleRepo) Update(ctx context.Context, s *entity.Sale) error {
	_, err := querier(ctx, r.pool).Exec(ctx, `
		UPDATE sales SET status = $2, updated_at = $3 WHERE id = $1`,
		s.ID, s.Status, s.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update sale: %w", err)
	}
	return nil
}

func (r *SaleRepo) MarkFiscalized(ctx context.Context, saleID, transactionID, qrData string) error {
	cmd, err := querier(ctx, r.pool).Exec(ctx, `
		UPDATE sales SET is_fiscalized = true, fiscal_transaction_id = $2, fiscal_qr_data = NULLIF($3, ''), updated_at = now()
		WHERE id = $1`,
		saleID, transactionID, qrData,
	)
	if err != nil {
		return fmt.Errorf("mark sale fiscalized: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *SaleRepo) CountByCustomer(ctx context.Context, customerID string) (int, error) {
	var n int
	err := querier(ctx, r.pool).QueryRow(ctx,
		`SELECT count(*) FROM sales WHERE customer_id = $1`, customerID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count sales by customer: %w", err)
	}
	return n, nil
}
