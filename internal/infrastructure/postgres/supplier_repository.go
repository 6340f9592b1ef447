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

var _ repository.SupplierRepository = (*SupplierRepo)(nil)

// SupplierRepo implements SupplierRepository on PostgreSQL.
type SupplierRepo struct {
	pool *pgxpool.Pool
}

// NewSupplierRepository builds the adapter.
func NewSupplierRepository(pool *pgxpool.Pool) *SupplierRepo {
	return &SupplierRepo{pool: pool}
}

const supplierColumns = "id, name, email, phone, address, tax_id, status, created_at, updated_at"

func scanSupplier(row pgx.Row) (*entity.Supplier, error) {
	var s entity.Supplier
	err := row.Scan(&s.ID, &s.Name, &s.Email, &s.Phone, &s.Address, &s.TaxID, &s.Status, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

func (r *SupplierRepo) Create(ctx context.Context, s *entity.Supplier) error {
	_, err := querier(ctx, r.pool).Exec(ctx, `
		INSERT INTO suppliers (id, name, email, phone, address, tax_id, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		s.ID, s.Name, s.Email, s.Phone, s.Address, s.TaxID, s.Status, s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert supplier: %w", err)
	}
	return nil
}

func (r *SupplierRepo) GetByID(ctx context.Context, id string) (*entity.Supplier, error) {
	s, err := scanSupplier(querier(ctx, r.pool).QueryRow(ctx,
		`SELECT `+supplierColumns+` FROM suppliers WHERE id = $1`, id))
	if err != nil {
		return nil, fmt.Errorf("get supplier: %w", err)
	}
	return s, nil
}

func (r *SupplierRepo) GetByEmail(ctx context.Context, email string) (*entity.Supplier, error) {
	s, err := scanSupplier(querier(ctx, r.pool).QueryRow(ctx,
		`SELECT `+supplierColumns+` FROM suppliers WHERE lower(email) = lower($1)`, email))
	if err != nil {
		return nil, fmt.Errorf("get supplier by email: %w", err)
	}
	return s, nil
}

func (r *SupplierRepo) List(ctx context.Context, f repository.ListFilter) ([]*entity.Supplier, int, error) {
	q := querier(ctx, r.pool)
	where := `WHERE ($1 = '' OR name ILIKE $2 OR email ILIKE $2 OR phone ILIKE $2)
		AND ($3 = '' OR status = $3)`
	var total int
	err := q.QueryRow(ctx, `SELECT count(*) FROM suppliers `+where,
		f.Search, like(f.Search), f.Status).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("count suppliers: %w", err)
	}
	rows, err := q.Query(ctx, `
		SELECT `+supplierColumns+` FROM suppliers `+where+`
		ORDER BY created_at DESC LIMIT $4 OFFSET $5`,
		f.Search, like(f.Search), f.Status, f.Limit, f.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list suppliers: %w", err)
	}
	defer rows.Close()
	var out []*entity.Supplier
	for rows.Next() {
		var s entity.Supplier
		if err := rows.Scan(&s.ID, &s.Name, &s.Email, &s.Phone, &s.Address, &s.TaxID, &s.Status, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan supplier: %w", err)
		}
		out = append(out, &s)
	}
	return out, total, rows.Err()
}

func (r *SupplierRepo) Update(ctx context.Context, s *entity.Supplier) error {
	_, err := querier(ctx, r.pool).Exec(ctx, `
		UPDATE suppliers SET name = $2, email = $3, phone = $4, address = $5, tax_id = $6, status = $7, updated_at = $8
		WHERE id = $1`,
		s.ID, s.Name, s.Email, s.Phone, s.Address, s.TaxID, s.Status, s.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update supplier: %w", err)
	}
	return nil
}

func (r *SupplierRepo) Delete(ctx context.Context, id string) error {
	_, err := querier(ctx, r.pool).Exec(ctx, `DELETE FROM suppliers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete supplier: %w", err)
	}
	return nil
}
