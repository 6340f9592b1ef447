package repository

import (
	"context"

	"github.com/retailcore/pos-api/internal/domain/entity"
)

// FiscalConfigRepository is the persistence port for FiscalConfiguration.
// Upsert-by-TIN semantics live in the application layer; the repo exposes the
// lookups it needs.
type FiscalConfigRepository interface {
	Create(ctx context.Context, c *entity.FiscalConfiguration) error
	GetActive(ctx context.Context) (*entity.FiscalConfiguration, error)
	GetByTIN(ctx context.Context, tin string) (*entity.FiscalConfiguration, error)
	Update(ctx context.Context, c *entity.FiscalConfiguration) error
}

// FiscalDeviceRepository is the persistence port for FiscalDevice.
type FiscalDeviceRepository interface {
	Create(ctx context.Context, d *entity.FiscalDevice) error
	GetByConfiguration(ctx context.Context, configID string) (*entity.FiscalDevice, error)
	GetActiveByConfiguration(ctx context.Context, configID string) (*entity.FiscalDevice, error)
	Update(ctx context.Context, d *entity.FiscalDevice) error

	// IncrementCounters atomically bumps both receipt counters on an Active
	// device and returns the new global receipt number. Conditional SQL
	// update; fails with domain.ErrConflict if the device is not Active.
	IncrementCounters(ctx context.Context, deviceRowID string) (int64, error)

	// ResetDailyCounters zeroes DailyReceiptCounter on every device under
	// the configuration, leaving GlobalReceiptCounter untouched. Returns the
	// number of devices touched.
	ResetDailyCounters(ctx context.Context, configID string) (int, error)
}

// FiscalTransactionRepository is the persistence port for FiscalTransaction.
// Append/update only; there is intentionally no Delete.
type FiscalTransactionRepository interface {
	Create(ctx context.Context, t *entity.FiscalTransaction) error
	GetByID(ctx context.Context, id string) (*entity.FiscalTransaction, error)
	List(ctx context.Context, status string, limit int) ([]*entity.FiscalTransaction, error)
	Update(ctx context.Context, t *entity.FiscalTransaction) error

	// ListRetryable returns failed transactions with RetryCount below the
	// cap, oldest first.
	ListRetryable(ctx context.Context, maxRetries, limit int) ([]*entity.FiscalTransaction, error)
	CountByStatus(ctx context.Context, status string) (int, error)
}

// OfflineQueueRepository is the persistence port for OfflineQueueEntry.
type OfflineQueueRepository interface {
	Enqueue(ctx context.Context, e *entity.OfflineQueueEntry) error
	ListPending(ctx context.Context, configID string, limit int) ([]*entity.OfflineQueueEntry, error)
	MarkSynchronized(ctx context.Context, id string) error
	CountPending(ctx context.Context, configID string) (int, error)
}
