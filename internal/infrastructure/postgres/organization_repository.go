package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/retailcore/pos-api/internal/domain/entity"
	"github.com/retailcore/pos-api/internal/domain/repository"
)

var _ repository.OrganizationRepository = (*OrganizationRepo)(nil)

// OrganizationRepo implements OrganizationRepository on PostgreSQL. The
// table holds at most one row.
type OrganizationRepo struct {
	pool *pgxpool.Pool
}

// NewOrganizationRepository builds the adapter.
func NewOrganizationRepository(pool *pgxpool.Pool) *OrganizationRepo {
	return &OrganizationRepo{pool: pool}
}

func (r *OrganizationRepo) Get(ctx context.Context) (*entity.Organization, error) {
	var o entity.Organization
	err := querier(ctx, r.pool).QueryRow(ctx, `
		SELECT id, name, trade_name, tin, vat_number, address, phone, email, currency, created_at, updated_at
		FROM organization LIMIT 1`,
	).Scan(&o.ID, &o.Name, &o.TradeName, &o.TIN, &o.VATNumber, &o.Address, &o.Phone, &o.Email,
		&o.Currency, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get organization: %w", err)
	}
	return &o, nil
}

func (r *OrganizationRepo) Upsert(ctx context.Context, o *entity.Organization) error {
	_, err := querier(ctx, r.pool).Exec(ctx, `
		INSERT INTO organization (id, name, trade_name, tin, vat_number, address, phone, email, currency, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name, trade_name = EXCLUDED.trade_name, tin = EXCLUDED.tin,
			vat_number = EXCLUDED.vat_number, address = EXCLUDED.address, phone = EXCLUDED.phone,
			email = EXCLUDED.email, currency = EXCLUDED.currency, updated_at = EXCLUDED.updated_at`,
		o.ID, o.Name, o.TradeName, o.TIN, o.VATNumber, o.Address, o.Phone, o.Email,
		o.Currency, o.CreatedAt, o.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert organization: %w", err)
	}
	return nil
}
