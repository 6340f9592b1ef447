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
	_ repository.FiscalConfigRepository      = (*FiscalConfigRepo)(nil)
	_ repository.FiscalDeviceRepository      = (*FiscalDeviceRepo)(nil)
	_ repository.FiscalTransactionRepository = (*FiscalTransactionRepo)(nil)
	_ repository.OfflineQueueRepository      = (*OfflineQueueRepo)(nil)
)

// FiscalConfigRepo implements FiscalConfigRepository on PostgreSQL.
type FiscalConfigRepo struct {
	pool *pgxpool.Pool
}

// NewFiscalConfigRepository builds the adapter.
func NewFiscalConfigRepository(pool *pgxpool.Pool) *FiscalConfigRepo {
	return &FiscalConfigRepo{pool: pool}
}

const fiscalConfigColumns = "id, tin, vat_number, business_name, business_type, branch_name, branch_address, enabled, test_environment, status, created_at, updated_at"

func scanFiscalConfig(row pgx.Row) (*entity.FiscalConfiguration, error) {
	var c entity.FiscalConfiguration
	err := row.Scan(&c.ID, &c.TIN, &c.VATNumber, &c.BusinessName, &c.BusinessType,
		&c.BranchName, &c.BranchAddress, &c.Enabled, &c.TestEnvironment, &c.Status,
		&c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (r *FiscalConfigRepo) Create(ctx context.Context, c *entity.FiscalConfiguration) error {
	_, err := querier(ctx, r.pool).Exec(ctx, `
		INSERT INTO fiscal_configurations (id, tin, vat_number, business_name, business_type, branch_name, branch_address, enabled, test_environment, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		c.ID, c.TIN, c.VATNumber, c.BusinessName, c.BusinessType, c.BranchName, c.BranchAddress,
		c.Enabled, c.TestEnvironment, c.Status, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert fiscal configuration: %w", err)
	}
	return nil
}

func (r *FiscalConfigRepo) GetActive(ctx context.Context) (*entity.FiscalConfiguration, error) {
	c, err := scanFiscalConfig(querier(ctx, r.pool).QueryRow(ctx,
		`SELECT `+fiscalConfigColumns+` FROM fiscal_configurations ORDER BY created_at DESC LIMIT 1`))
	if err != nil {
		return nil, fmt.Errorf("get active fiscal configuration: %w", err)
	}
	return c, nil
}

func (r *FiscalConfigRepo) GetByTIN(ctx context.Context, tin string) (*entity.FiscalConfiguration, error) {
	c, err := scanFiscalConfig(querier(ctx, r.pool).QueryRow(ctx,
		`SELECT `+fiscalConfigColumns+` FROM fiscal_configurations WHERE tin = $1`, tin))
	if err != nil {
		return nil, fmt.Errorf("get fiscal configuration by tin: %w", err)
	}
	return c, nil
}

func (r *FiscalConfigRepo) Update(ctx context.Context, c *entity.FiscalConfiguration) error {
	_, err := querier(ctx, r.pool).Exec(ctx, `
		UPDATE fiscal_configurations SET vat_number = $2, business_name = $3, business_type = $4,
			branch_name = $5, branch_address = $6, enabled = $7, test_environment = $8, status = $9, updated_at = $10
		WHERE id = $1`,
		c.ID, c.VATNumber, c.BusinessName, c.BusinessType, c.BranchName, c.BranchAddress,
		c.Enabled, c.TestEnvironment, c.Status, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update fiscal configuration: %w", err)
	}
	return nil
}

// FiscalDeviceRepo implements FiscalDeviceRepository on PostgreSQL.
type FiscalDeviceRepo struct {
	pool *pgxpool.Pool
}

// NewFiscalDeviceRepository builds the adapter.
func NewFiscalDeviceRepository(pool *pgxpool.Pool) *FiscalDeviceRepo {
	return &FiscalDeviceRepo{pool: pool}
}

const fiscalDeviceColumns = "id, configuration_id, device_id, serial_no, global_receipt_counter, daily_receipt_counter, status, activated_at, created_at, updated_at"

func scanFiscalDevice(row pgx.Row) (*entity.FiscalDevice, error) {
	var d entity.FiscalDevice
	err := row.Scan(&d.ID, &d.ConfigurationID, &d.DeviceID, &d.SerialNo,
		&d.GlobalReceiptCounter, &d.DailyReceiptCounter, &d.Status, &d.ActivatedAt,
		&d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &d, nil
}

func (r *FiscalDeviceRepo) Create(ctx context.Context, d *entity.FiscalDevice) error {
	_, err := querier(ctx, r.pool).Exec(ctx, `
		INSERT INTO fiscal_devices (id, configuration_id, device_id, serial_no, global_receipt_counter, daily_receipt_counter, status, activated_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		d.ID, d.ConfigurationID, d.DeviceID, d.SerialNo, d.GlobalReceiptCounter,
		d.DailyReceiptCounter, d.Status, d.ActivatedAt, d.CreatedAt, d.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert fiscal device: %w", err)
	}
	return nil
}

func (r *FiscalDeviceRepo) GetByConfiguration(ctx context.Context, configID string) (*entity.FiscalDevice, error) {
	d, err := scanFiscalDevice(querier(ctx, r.pool).QueryRow(ctx,
		`SELECT `+fiscalDeviceColumns+` FROM fiscal_devices WHERE configuration_id = $1`, configID))
	if err != nil {
		return nil, fmt.Errorf("get fiscal device: %w", err)
	}
	return d, nil
}

func (r *FiscalDeviceRepo) GetActiveByConfiguration(ctx context.Context, configID string) (*entity.FiscalDevice, error) {
	d, err := scanFiscalDevice(querier(ctx, r.pool).QueryRow(ctx,
		`SELECT `+fiscalDeviceColumns+` FROM fiscal_devices WHERE configuration_id = $1 AND status = $2`,
		configID, entity.DeviceStatusActive))
	if err != nil {
		return nil, fmt.Errorf("get active fiscal device: %w", err)
	}
	return d, nil
}

func (r *FiscalDeviceRepo) Update(ctx context.Context, d *entity.FiscalDevice) error {
	_, err := querier(ctx, r.pool).Exec(ctx, `
		UPDATE fiscal_devices SET status = $2, activated_at = $3, updated_at = $4 WHERE id = $1`,
		d.ID, d.Status, d.ActivatedAt, d.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update fiscal device: %w", err)
	}
	return nil
}

// IncrementCounters bumps both receipt counters atomically and returns the
// new global number. Only an Active device may issue receipts, hence the
// status guard in the WHERE clause.
func (r *FiscalDeviceRepo) IncrementCounters(ctx context.Context, deviceRowID string) (int64, error) {
	var globalNo int64
	err := querier(ctx, r.pool).QueryRow(ctx, `
		UPDATE fiscal_devices
		SET global_receipt_counter = global_receipt_counter + 1,
			daily_receipt_counter = daily_receipt_counter + 1,
			updated_at = now()
		WHERE id = $1 AND status = $2
		RETURNING global_receipt_counter`,
		deviceRowID, entity.DeviceStatusActive,
	).Scan(&globalNo)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, domain.ErrConflict
		}
		return 0, fmt.Errorf("increment receipt counters: %w", err)
	}
	return globalNo, nil
}

func (r *FiscalDeviceRepo) ResetDailyCounters(ctx context.Context, configID string) (int, error) {
	cmd, err := querier(ctx, r.pool).Exec(ctx, `
		UPDATE fiscal_devices SET daily_receipt_counter = 0, updated_at = now()
		WHERE configuration_id = $1`,
		configID,
	)
	if err != nil {
		return 0, fmt.Errorf("reset daily counters: %w", err)
	}
	return int(cmd.RowsAffected()), nil
}

// FiscalTransactionRepo implements FiscalTransactionRepository on PostgreSQL.
type FiscalTransactionRepo struct {
	pool *pgxpool.Pool
}

// NewFiscalTransactionRepository builds the adapter.
func NewFiscalTransactionRepository(pool *pgxpool.Pool) *FiscalTransactionRepo {
	return &FiscalTransactionRepo{pool: pool}
}

const fiscalTxColumns = `id, coalesce(device_id, ''), receipt_global, receipt_type, invoice_no, coalesce(sale_id, ''),
	total, tax_amount, buyer_name, buyer_tin, zimra_status, receipt_qr, signature, retry_count,
	error_message, submitted_at, created_at, updated_at`

func scanFiscalTx(row pgx.Row) (*entity.FiscalTransaction, error) {
	var t entity.FiscalTransaction
	err := row.Scan(&t.ID, &t.DeviceID, &t.ReceiptGlobal, &t.ReceiptType, &t.InvoiceNo, &t.SaleID,
		&t.Total, &t.TaxAmount, &t.BuyerName, &t.BuyerTIN, &t.ZIMRAStatus, &t.ReceiptQR,
		&t.Signature, &t.RetryCount, &t.ErrorMessage, &t.SubmittedAt, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}

func (r *FiscalTransactionRepo) Create(ctx context.Context, t *entity.FiscalTransaction) error {
	_, err := querier(ctx, r.pool).Exec(ctx, `
		INSERT INTO fiscal_transactions (id, device_id, receipt_global, receipt_type, invoice_no, sale_id,
			total, tax_amount, buyer_name, buyer_tin, zimra_status, receipt_qr, signature, retry_count,
			error_message, submitted_at, created_at, updated_at)
		VALUES ($1, NULLIF($2, ''), $3, $4, $5, NULLIF($6, ''), $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`,
		t.ID, t.DeviceID, t.ReceiptGlobal, t.ReceiptType, t.InvoiceNo, t.SaleID,
		t.Total, t.TaxAmount, t.BuyerName, t.BuyerTIN, t.ZIMRAStatus, t.ReceiptQR, t.Signature,
		t.RetryCount, t.ErrorMessage, t.SubmittedAt, t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert fiscal transaction: %w", err)
	}
	return nil
}

func (r *FiscalTransactionRepo) GetByID(ctx context.Context, id string) (*entity.FiscalTransaction, error) {
	t, err := scanFiscalTx(querier(ctx, r.pool).QueryRow(ctx,
		`SELECT `+fiscalTxColumns+` FROM fiscal_transactions WHERE id = $1`, id))
	if err != nil {
		return nil, fmt.Errorf("get fiscal transaction: %w", err)
	}
	return t, nil
}

func (r *FiscalTransactionRepo) List(ctx context.Context, status string, limit int) ([]*entity.FiscalTransaction, error) {
	rows, err := querier(ctx, r.pool).Query(ctx, `
		SELECT `+fiscalTxColumns+` FROM fiscal_transactions
		WHERE ($1 = '' OR zimra_status = $1)
		ORDER BY created_at DESC LIMIT $2`,
		status, limit)
	if err != nil {
		return nil, fmt.Errorf("list fiscal transactions: %w", err)
	}
	return collectFiscalTxs(rows)
}

func (r *FiscalTransactionRepo) Update(ctx context.Context, t *entity.FiscalTransaction) error {
	_, err := querier(ctx, r.pool).Exec(ctx, `
		UPDATE fiscal_transactions SET zimra_status = $2, receipt_qr = $3, signature = $4,
			retry_count = $5, error_message = $6, submitted_at = $7, updated_at = $8
		WHERE id = $1`,
		t.ID, t.ZIMRAStatus, t.ReceiptQR, t.Signature, t.RetryCount, t.ErrorMessage, t.SubmittedAt, t.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update fiscal transaction: %w", err)
	}
	return nil
}

func (r *FiscalTransactionRepo) ListRetryable(ctx context.Context, maxRetries, limit int) ([]*entity.FiscalTransaction, error) {
	rows, err := querier(ctx, r.pool).Query(ctx, `
		SELECT `+fiscalTxColumns+` FROM fiscal_transactions
		WHERE zimra_status = $1 AND retry_count < $2
		ORDER BY created_at LIMIT $3`,
		entity.ZIMRAStatusFailed, maxRetries, limit)
	if err != nil {
		return nil, fmt.Errorf("list retryable fiscal transactions: %w", err)
	}
	return collectFiscalTxs(rows)
}

func (r *FiscalTransactionRepo) CountByStatus(ctx context.Context, status string) (int, error) {
	var n int
	err := querier(ctx, r.pool).QueryRow(ctx,
		`SELECT count(*) FROM fiscal_transactions WHERE zimra_status = $1`, status).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count fiscal transactions: %w", err)
	}
	return n, nil
}

func collectFiscalTxs(rows pgx.Rows) ([]*entity.FiscalTransaction, error) {
	defer rows.Close()
	var out []*entity.FiscalTransaction
	for rows.Next() {
		var t entity.FiscalTransaction
		if err := rows.Scan(&t.ID, &t.DeviceID, &t.ReceiptGlobal, &t.ReceiptType, &t.InvoiceNo, &t.SaleID,
			&t.Total, &t.TaxAmount, &t.BuyerName, &t.BuyerTIN, &t.ZIMRAStatus, &t.ReceiptQR,
			&t.Signature, &t.RetryCount, &t.ErrorMessage, &t.SubmittedAt, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan fiscal transaction: %w", err)
		}
		out = append(out, &t)
	}
	return out, rows.Err()
}

// OfflineQueueRepo implements OfflineQueueRepository on PostgreSQL.
type OfflineQueueRepo struct {
	pool *pgxpool.Pool
}

// NewOfflineQueueRepository builds the adapter.
func NewOfflineQueueRepository(pool *pgxpool.Pool) *OfflineQueueRepo {
	return &OfflineQueueRepo{pool: pool}
}

func (r *OfflineQueueRepo) Enqueue(ctx context.Context, e *entity.OfflineQueueEntry) error {
	_, err := querier(ctx, r.pool).Exec(ctx, `
		INSERT INTO fiscal_offline_queue (id, configuration_id, transaction_id, payload, status, synced_at, created_at)
		VALUES ($1, $2, NULLIF($3, ''), $4, $5, $6, $7)`,
		e.ID, e.ConfigurationID, e.TransactionID, e.Payload, e.Status, e.SyncedAt, e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("enqueue offline entry: %w", err)
	}
	return nil
}

func (r *OfflineQueueRepo) ListPending(ctx context.Context, configID string, limit int) ([]*entity.OfflineQueueEntry, error) {
	rows, err := querier(ctx, r.pool).Query(ctx, `
		SELECT id, configuration_id, coalesce(transaction_id, ''), payload, status, synced_at, created_at
		FROM fiscal_offline_queue
		WHERE configuration_id = $1 AND status = $2
		ORDER BY created_at LIMIT $3`,
		configID, entity.QueueStatusPending, limit)
	if err != nil {
		return nil, fmt.Errorf("list pending offline entries: %w", err)
	}
	defer rows.Close()
	var out []*entity.OfflineQueueEntry
	for rows.Next() {
		var e entity.OfflineQueueEntry
		if err := rows.Scan(&e.ID, &e.ConfigurationID, &e.TransactionID, &e.Payload, &e.Status, &e.SyncedAt, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan offline entry: %w", err)
		}
		out = append(out, &e)
	}
	return out, rows.Err()
}

func (r *OfflineQueueRepo) MarkSynchronized(ctx context.Context, id string) error {
	cmd, err := querier(ctx, r.pool).Exec(ctx, `
		UPDATE fiscal_offline_queue SET status = $2, synced_at = now() WHERE id = $1`,
		id, entity.QueueStatusSynchronized,
	)
	if err != nil {
		return fmt.Errorf("mark offline entry synchronized: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *OfflineQueueRepo) CountPending(ctx context.Context, configID string) (int, error) {
	var n int
	err := querier(ctx, r.pool).QueryRow(ctx,
		`SELECT count(*) FROM fiscal_offline_queue WHERE configuration_id = $1 AND status = $2`,
		configID, entity.QueueStatusPending).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count pending offline entries: %w", err)
	}
	return n, nil
}
