package fiscal

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/retailcore/pos-api/internal/application/dto"
	"github.com/retailcore/pos-api/internal/domain"
	"github.com/retailcore/pos-api/internal/domain/entity"
	domfiscal "github.com/retailcore/pos-api/internal/domain/fiscal"
	"github.com/retailcore/pos-api/internal/domain/repository"
	"github.com/retailcore/pos-api/pkg/logger"
)

// Maintenance action names dispatched by POST /api/fdms/status.
const (
	ActionSyncOfflineQueue  = "sync_offline_queue"
	ActionRetryFailed       = "retry_failed"
	ActionResetDailyCounter = "reset_daily_counter"
)

const (
	offlineBatchSize = 10
	retryBatchSize   = 5
)

// MaintenanceUseCase runs the three bulk maintenance actions and derives the
// aggregated FDMS health status.
type MaintenanceUseCase struct {
	configRepo repository.FiscalConfigRepository
	deviceRepo repository.FiscalDeviceRepository
	txRepo     repository.FiscalTransactionRepository
	queueRepo  repository.OfflineQueueRepository
	submitter  Submitter // nil = offline sync degrades to mark-only
	log        *logger.Logger
}

// NewMaintenanceUseCase builds the use case.
func NewMaintenanceUseCase(
	configRepo repository.FiscalConfigRepository,
	deviceRepo repository.FiscalDeviceRepository,
	txRepo repository.FiscalTransactionRepository,
	queueRepo repository.OfflineQueueRepository,
	submitter Submitter,
	log *logger.Logger,
) *MaintenanceUseCase {
	return &MaintenanceUseCase{
		configRepo: configRepo,
		deviceRepo: deviceRepo,
		txRepo:     txRepo,
		queueRepo:  queueRepo,
		submitter:  submitter,
		log:        log,
	}
}

// Run dispatches one maintenance action by name.
func (uc *MaintenanceUseCase) Run(ctx context.Context, action string) (*dto.FiscalActionResponse, error) {
	cfg, err := uc.configRepo.GetActive(ctx)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return nil, domain.ErrNotConfigured
	}

	var affected int
	switch action {
	case ActionSyncOfflineQueue:
		affected, err = uc.syncOfflineQueue(ctx, cfg)
	case ActionRetryFailed:
		affected, err = uc.retryFailed(ctx)
	case ActionResetDailyCounter:
		affected, err = uc.deviceRepo.ResetDailyCounters(ctx, cfg.ID)
	default:
		return nil, fmt.Errorf("%w: unknown action %q", domain.ErrInvalidInput, action)
	}
	if err != nil {
		return nil, err
	}
	return &dto.FiscalActionResponse{Success: true, Action: action, Affected: affected}, nil
}

// syncOfflineQueue drains up to ten pending entries. With a gateway client
// configured each payload is genuinely resubmitted: successes are marked
// synchronized and their transaction confirmed, failures stay pending for the
// next run. Without a client the entries are marked synchronized as-is,
// which matches the legacy stub behavior.
//
// Idempotent: rows already synchronized are excluded by the pending filter,
// so re-running after a full drain is a no-op.
func (uc *MaintenanceUseCase) syncOfflineQueue(ctx context.Context, cfg *entity.FiscalConfiguration) (int, error) {
	entries, err := uc.queueRepo.ListPending(ctx, cfg.ID, offlineBatchSize)
	if err != nil {
		return 0, err
	}

	synced := 0
	for _, e := range entries {
		if uc.submitter != nil {
			var payload ReceiptPayload
			if err := json.Unmarshal(e.Payload, &payload); err != nil {
				uc.log.Error().Err(err).Str("entry_id", e.ID).Msg("corrupt offline queue payload")
				continue
			}
			result, subErr := uc.submitter.SubmitReceipt(ctx, &payload)
			if subErr != nil {
				uc.log.Warn().Err(subErr).Str("entry_id", e.ID).Msg("offline entry resubmission failed, staying pending")
				continue
			}
			uc.confirmTransaction(ctx, e.TransactionID, result)
		}
		if err := uc.queueRepo.MarkSynchronized(ctx, e.ID); err != nil {
			return synced, err
		}
		synced++
	}
	return synced, nil
}

// confirmTransaction flips the queued transaction out of failed once its
// payload finally reached FDMS.
func (uc *MaintenanceUseCase) confirmTransaction(ctx context.Context, transactionID string, result *SubmitResult) {
	if transactionID == "" {
		return
	}
	tx, err := uc.txRepo.GetByID(ctx, transactionID)
	if err != nil || tx == nil {
		return
	}
	now := time.Now()
	tx.ZIMRAStatus = entity.ZIMRAStatusSubmitted
	if result.Confirmed {
		tx.ZIMRAStatus = entity.ZIMRAStatusConfirmed
	}
	tx.Signature = result.Signature
	tx.ErrorMessage = ""
	tx.SubmittedAt = &now
	tx.UpdatedAt = now
	if err := uc.txRepo.Update(ctx, tx); err != nil {
		uc.log.Error().Err(err).Str("transaction_id", transactionID).Msg("persist synced fiscal transaction")
	}
}

// retryFailed requeues up to five failed transactions with fewer than three
// attempts: status back to pending, retry count incremented, error cleared.
// It does not resubmit; an external drain picks up pending rows.
func (uc *MaintenanceUseCase) retryFailed(ctx context.Context) (int, error) {
	list, err := uc.txRepo.ListRetryable(ctx, entity.MaxRetryCount, retryBatchSize)
	if err != nil {
		return 0, err
	}
	for _, tx := range list {
		tx.ZIMRAStatus = entity.ZIMRAStatusPending
		tx.RetryCount++
		tx.ErrorMessage = ""
		tx.UpdatedAt = time.Now()
		if err := uc.txRepo.Update(ctx, tx); err != nil {
			return 0, err
		}
	}
	return len(list), nil
}

// Status derives the aggregated FDMS health word from the priority rule
// table in internal/domain/fiscal.
func (uc *MaintenanceUseCase) Status(ctx context.Context) (*dto.FiscalStatusResponse, error) {
	cfg, err := uc.configRepo.GetActive(ctx)
	if err != nil {
		return nil, err
	}
	snap := domfiscal.Snapshot{}
	out := &dto.FiscalStatusResponse{}
	if cfg != nil {
		snap.Configured = true
		snap.Enabled = cfg.Enabled
		out.Enabled = cfg.Enabled

		device, err := uc.deviceRepo.GetActiveByConfiguration(ctx, cfg.ID)
		if err != nil {
			return nil, err
		}
		if device != nil {
			snap.HasActiveDevice = true
			out.DeviceStatus = device.Status
		}

		failed, err := uc.txRepo.CountByStatus(ctx, entity.ZIMRAStatusFailed)
		if err != nil {
			return nil, err
		}
		snap.FailedCount = failed
		out.FailedCount = failed

		queued, err := uc.queueRepo.CountPending(ctx, cfg.ID)
		if err != nil {
			return nil, err
		}
		snap.OfflineQueued = queued
		out.OfflineQueued = queued
	}
	out.Status = domfiscal.AggregateStatus(snap)
	return out, nil
}
