package fiscal

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/retailcore/pos-api/internal/application/dto"
	"github.com/retailcore/pos-api/internal/domain"
	"github.com/retailcore/pos-api/internal/domain/entity"
	domfiscal "github.com/retailcore/pos-api/internal/domain/fiscal"
	"github.com/retailcore/pos-api/internal/domain/repository"
	"github.com/retailcore/pos-api/pkg/fdms"
	"github.com/retailcore/pos-api/pkg/logger"
)

const defaultReceiptType = "FiscalInvoice"

// submitTimeout bounds one FDMS round trip.
const submitTimeout = 30 * time.Second

// Coordinator is the invoice submission entry point. It decides FDMS versus
// non-FDMS handling, owns the receipt counters on the FDMS path, queues
// payloads when the gateway is unreachable and best-effort-annotates the
// originating sale.
type Coordinator struct {
	configRepo repository.FiscalConfigRepository
	deviceRepo repository.FiscalDeviceRepository
	txRepo     repository.FiscalTransactionRepository
	queueRepo  repository.OfflineQueueRepository
	sales      SaleAnnotator
	submitter  Submitter // nil = permanently non-FDMS
	notifier   Notifier
	record     SubmissionRecorder
	log        *logger.Logger
}

// NewCoordinator builds the coordinator.
func NewCoordinator(
	configRepo repository.FiscalConfigRepository,
	deviceRepo repository.FiscalDeviceRepository,
	txRepo repository.FiscalTransactionRepository,
	queueRepo repository.OfflineQueueRepository,
	sales SaleAnnotator,
	submitter Submitter,
	notifier Notifier,
	record SubmissionRecorder,
	log *logger.Logger,
) *Coordinator {
	return &Coordinator{
		configRepo: configRepo,
		deviceRepo: deviceRepo,
		txRepo:     txRepo,
		queueRepo:  queueRepo,
		sales:      sales,
		submitter:  submitter,
		notifier:   notifier,
		record:     record,
		log:        log,
	}
}

// recordOutcome feeds the submission counter when a recorder is wired.
func (c *Coordinator) recordOutcome(status string) {
	if c.record != nil {
		c.record(status)
	}
}

// Submit fiscalizes one invoice. Validation failures are terminal; gateway
// failures are recorded on the transaction row and classified for the
// handler; sale-annotation failures are logged and swallowed.
func (c *Coordinator) Submit(ctx context.Context, in dto.SubmitFiscalInvoiceRequest) (*dto.SubmitFiscalInvoiceResponse, error) {
	if in.InvoiceNo == "" || !in.Total.IsPositive() || len(in.Items) == 0 {
		return nil, fmt.Errorf("%w: invoiceNo, positive total and at least one item are required", domain.ErrInvalidInput)
	}
	if in.ReceiptType == "" {
		in.ReceiptType = defaultReceiptType
	}

	cfg, err := c.configRepo.GetActive(ctx)
	if err != nil {
		return nil, err
	}
	if cfg == nil || !cfg.Enabled {
		return c.submitLocal(ctx, in)
	}
	return c.submitFDMS(ctx, cfg, in)
}

// submitLocal synthesizes a receipt while FDMS is disabled. The pseudo
// receipt number is the current Unix-millisecond timestamp and the device
// counters are never touched. This mirrors the legacy non-FDMS behavior; see
// DESIGN.md for why the divergence from the global counter is kept.
func (c *Coordinator) submitLocal(ctx context.Context, in dto.SubmitFiscalInvoiceRequest) (*dto.SubmitFiscalInvoiceResponse, error) {
	now := time.Now()
	tx := &entity.FiscalTransaction{
		ID:            uuid.New().String(),
		ReceiptGlobal: now.UnixMilli(),
		ReceiptType:   in.ReceiptType,
		InvoiceNo:     in.InvoiceNo,
		SaleID:        in.SaleID,
		Total:         in.Total,
		TaxAmount:     in.TaxAmount,
		BuyerName:     in.BuyerName,
		BuyerTIN:      in.BuyerTIN,
		ZIMRAStatus:   entity.ZIMRAStatusNonFDMS,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := c.txRepo.Create(ctx, tx); err != nil {
		return nil, err
	}
	c.recordOutcome(tx.ZIMRAStatus)
	c.annotateSale(ctx, in.SaleID, tx.ID, "")

	return &dto.SubmitFiscalInvoiceResponse{
		Success:       true,
		FDMSMode:      false,
		TransactionID: tx.ID,
		ReceiptGlobal: tx.ReceiptGlobal,
		Status:        tx.ZIMRAStatus,
	}, nil
}

// submitFDMS runs the real lifecycle: counter increment, gateway call,
// offline queueing on network failure, transaction bookkeeping.
func (c *Coordinator) submitFDMS(ctx context.Context, cfg *entity.FiscalConfiguration, in dto.SubmitFiscalInvoiceRequest) (*dto.SubmitFiscalInvoiceResponse, error) {
	if c.submitter == nil {
		return nil, fmt.Errorf("fdms: gateway client not initialized")
	}
	device, err := c.deviceRepo.GetActiveByConfiguration(ctx, cfg.ID)
	if err != nil {
		return nil, err
	}
	if device == nil {
		return nil, fmt.Errorf("fdms: device not initialized for configuration %s", cfg.ID)
	}

	// The receipt global number is assigned here, before the wire call, and
	// is never reused even if the submission fails.
	globalNo, err := c.deviceRepo.IncrementCounters(ctx, device.ID)
	if err != nil {
		return nil, fmt.Errorf("fdms: increment receipt counters: %w", err)
	}

	now := time.Now()
	tx := &entity.FiscalTransaction{
		ID:            uuid.New().String(),
		DeviceID:      device.ID,
		ReceiptGlobal: globalNo,
		ReceiptType:   in.ReceiptType,
		InvoiceNo:     in.InvoiceNo,
		SaleID:        in.SaleID,
		Total:         in.Total,
		TaxAmount:     in.TaxAmount,
		BuyerName:     in.BuyerName,
		BuyerTIN:      in.BuyerTIN,
		ZIMRAStatus:   entity.ZIMRAStatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := c.txRepo.Create(ctx, tx); err != nil {
		return nil, err
	}

	payload := buildPayload(device, tx, in.Items, now)

	subCtx, cancel := context.WithTimeout(ctx, submitTimeout)
	defer cancel()
	result, subErr := c.submitter.SubmitReceipt(subCtx, payload)
	if subErr != nil {
		return nil, c.recordFailure(ctx, cfg, tx, payload, subErr)
	}

	tx.ZIMRAStatus = entity.ZIMRAStatusSubmitted
	if result.Confirmed {
		tx.ZIMRAStatus = entity.ZIMRAStatusConfirmed
	}
	tx.Signature = result.Signature
	tx.ReceiptQR = fdms.BuildQR(&fdms.QRParams{
		DeviceID:      device.DeviceID,
		ReceiptGlobal: globalNo,
		InvoiceNo:     tx.InvoiceNo,
		IssuedAt:      now,
		Total:         tx.Total,
		TaxAmount:     tx.TaxAmount,
		TestEnv:       cfg.TestEnvironment,
	})
	tx.SubmittedAt = &now
	tx.UpdatedAt = time.Now()
	if err := c.txRepo.Update(ctx, tx); err != nil {
		return nil, err
	}
	c.recordOutcome(tx.ZIMRAStatus)

	c.annotateSale(ctx, in.SaleID, tx.ID, tx.ReceiptQR)

	return &dto.SubmitFiscalInvoiceResponse{
		Success:       true,
		FDMSMode:      true,
		TransactionID: tx.ID,
		ReceiptGlobal: globalNo,
		Status:        tx.ZIMRAStatus,
		QRData:        tx.ReceiptQR,
		Signature:     tx.Signature,
	}, nil
}

// recordFailure marks the transaction failed and, for network-class errors,
// parks the payload in the offline queue for sync_offline_queue to pick up.
// The original submission error is returned for handler classification.
func (c *Coordinator) recordFailure(ctx context.Context, cfg *entity.FiscalConfiguration, tx *entity.FiscalTransaction, payload *ReceiptPayload, subErr error) error {
	tx.ZIMRAStatus = entity.ZIMRAStatusFailed
	tx.ErrorMessage = subErr.Error()
	tx.UpdatedAt = time.Now()
	c.recordOutcome(entity.ZIMRAStatusFailed)
	if err := c.txRepo.Update(ctx, tx); err != nil {
		c.log.Error().Err(err).Str("transaction_id", tx.ID).Msg("persist failed fiscal transaction")
	}

	if domfiscal.ClassifyError(subErr) == domfiscal.ClassNetwork {
		raw, err := json.Marshal(payload)
		if err == nil {
			entry := &entity.OfflineQueueEntry{
				ID:              uuid.New().String(),
				ConfigurationID: cfg.ID,
				TransactionID:   tx.ID,
				Payload:         raw,
				Status:          entity.QueueStatusPending,
				CreatedAt:       time.Now(),
			}
			if qErr := c.queueRepo.Enqueue(ctx, entry); qErr != nil {
				c.log.Error().Err(qErr).Str("transaction_id", tx.ID).Msg("enqueue offline fiscal payload")
			} else {
				c.log.Warn().Str("transaction_id", tx.ID).Msg("FDMS unreachable, receipt queued offline")
			}
		}
	}

	if c.notifier != nil {
		c.notifier.NotifyFiscal(ctx, "Fiscal submission failed",
			fmt.Sprintf("invoice %s: %s", tx.InvoiceNo, subErr.Error()))
	}
	return subErr
}

// annotateSale is best-effort: any failure is logged and swallowed so it can
// never fail the fiscal submission itself.
func (c *Coordinator) annotateSale(ctx context.Context, saleID, transactionID, qrData string) {
	if saleID == "" {
		return
	}
	if err := c.sales.MarkFiscalized(ctx, saleID, transactionID, qrData); err != nil {
		c.log.Warn().Err(err).Str("sale_id", saleID).Msg("could not annotate sale with fiscal metadata")
	}
}

func buildPayload(device *entity.FiscalDevice, tx *entity.FiscalTransaction, items []dto.FiscalInvoiceItem, issuedAt time.Time) *ReceiptPayload {
	lines := make([]ReceiptLine, 0, len(items))
	for _, it := range items {
		lines = append(lines, ReceiptLine{
			Name:      it.Name,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
			TaxRate:   it.TaxRate,
		})
	}
	return &ReceiptPayload{
		DeviceID:      device.DeviceID,
		ReceiptType:   tx.ReceiptType,
		ReceiptGlobal: tx.ReceiptGlobal,
		ReceiptDaily:  device.DailyReceiptCounter + 1,
		InvoiceNo:     tx.InvoiceNo,
		Total:         tx.Total,
		TaxAmount:     tx.TaxAmount,
		BuyerName:     tx.BuyerName,
		BuyerTIN:      tx.BuyerTIN,
		IssuedAt:      issuedAt,
		Lines:         lines,
	}
}

// ListTransactions returns recent fiscal transactions, optionally filtered by
// status, newest first.
func (c *Coordinator) ListTransactions(ctx context.Context, status string, limit int) ([]*dto.FiscalTransactionResponse, error) {
	if limit <= 0 {
		limit = 20
	} else if limit > 100 {
		limit = 100
	}
	list, err := c.txRepo.List(ctx, status, limit)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.FiscalTransactionResponse, 0, len(list))
	for _, t := range list {
		out = append(out, &dto.FiscalTransactionResponse{
			ID:            t.ID,
			InvoiceNo:     t.InvoiceNo,
			ReceiptGlobal: t.ReceiptGlobal,
			ReceiptType:   t.ReceiptType,
			Total:         t.Total,
			TaxAmount:     t.TaxAmount,
			ZIMRAStatus:   t.ZIMRAStatus,
			RetryCount:    t.RetryCount,
			ErrorMessage:  t.ErrorMessage,
			CreatedAt:     t.CreatedAt,
		})
	}
	return out, nil
}
