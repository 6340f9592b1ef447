package fiscal_test

import (
	"context"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/retailcore/pos-api/internal/application/dto"
	appfiscal "github.com/retailcore/pos-api/internal/application/fiscal"
	"github.com/retailcore/pos-api/internal/domain"
	"github.com/retailcore/pos-api/internal/domain/entity"
	domfiscal "github.com/retailcore/pos-api/internal/domain/fiscal"
	"github.com/retailcore/pos-api/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Env: "production", Level: "error"})
}

type fiscalFixture struct {
	configs   *fakeConfigRepo
	devices   *fakeDeviceRepo
	txs       *fakeTxRepo
	queue     *fakeQueueRepo
	submitter *fakeSubmitter
	sales     *fakeSales
	notifier  *fakeNotifier
	outcomes  []string
}

func newFixture() *fiscalFixture {
	return &fiscalFixture{
		configs:   newFakeConfigRepo(),
		devices:   newFakeDeviceRepo(),
		txs:       newFakeTxRepo(),
		queue:     newFakeQueueRepo(),
		submitter: &fakeSubmitter{},
		sales:     &fakeSales{},
		notifier:  &fakeNotifier{},
	}
}

func (f *fiscalFixture) configUC() *appfiscal.ConfigUseCase {
	return appfiscal.NewConfigUseCase(f.configs, f.devices, f.submitter, testLogger())
}

func (f *fiscalFixture) coordinator() *appfiscal.Coordinator {
	record := func(status string) { f.outcomes = append(f.outcomes, status) }
	return appfiscal.NewCoordinator(f.configs, f.devices, f.txs, f.queue, f.sales, f.submitter, f.notifier, record, testLogger())
}

func (f *fiscalFixture) maintenanceUC() *appfiscal.MaintenanceUseCase {
	return appfiscal.NewMaintenanceUseCase(f.configs, f.devices, f.txs, f.queue, f.submitter, testLogger())
}

func validConfigRequest(enabled bool) dto.UpsertFiscalConfigRequest {
	return dto.UpsertFiscalConfigRequest{
		TIN:             "1234567890",
		BusinessName:    "Chikwanha General Dealers",
		BusinessType:    "Retail",
		BranchName:      "Harare CBD",
		BranchAddress:   "45 Samora Machel Ave",
		IsFDMSEnabled:   enabled,
		TestEnvironment: true,
	}
}

func submitRequest() dto.SubmitFiscalInvoiceRequest {
	return dto.SubmitFiscalInvoiceRequest{
		InvoiceNo: "INV-0042",
		SaleID:    "sale-1",
		Total:     decimal.NewFromFloat(115.00),
		TaxAmount: decimal.NewFromFloat(15.00),
		Items: []dto.FiscalInvoiceItem{
			{Name: "Mealie meal 10kg", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromFloat(115.00), TaxRate: decimal.NewFromFloat(15)},
		},
	}
}

func TestConfigUpsertRejectsBadTINBeforeWrite(t *testing.T) {
	cases := []struct {
		name string
		tin  string
	}{
		{"too short", "12345"},
		{"too long", "12345678901"},
		{"letters", "12345678AB"},
		{"empty", ""},
		{"spaces inside", "12345 7890"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture()
			in := validConfigRequest(true)
			in.TIN = tc.tin

			_, err := f.configUC().Upsert(context.Background(), in)

			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
			assert.Zero(t, f.configs.writes, "invalid TIN must not reach the repository")
			assert.Empty(t, f.devices.devices)
		})
	}
}

func TestConfigUpsertRequiresIdentityFields(t *testing.T) {
	f := newFixture()
	in := validConfigRequest(true)
	in.BranchAddress = ""

	_, err := f.configUC().Upsert(context.Background(), in)

	require.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Zero(t, f.configs.writes)
}

func TestConfigUpsertProvisionsPendingDevice(t *testing.T) {
	f := newFixture()

	out, err := f.configUC().Upsert(context.Background(), validConfigRequest(true))
	require.NoError(t, err)

	assert.True(t, out.Enabled)
	require.NotNil(t, out.Device)
	assert.True(t, strings.HasPrefix(out.Device.DeviceID, "VFD_1234567890_"))
	assert.Equal(t, entity.DeviceStatusPending, out.Device.Status)
	assert.Zero(t, out.Device.GlobalReceiptCounter)
	assert.Zero(t, out.Device.DailyReceiptCounter)
	assert.Len(t, f.devices.devices, 1)
}

func TestConfigUpsertIsIdempotentOnDevice(t *testing.T) {
	f := newFixture()
	uc := f.configUC()
	ctx := context.Background()

	_, err := uc.Upsert(ctx, validConfigRequest(true))
	require.NoError(t, err)

	// Same TIN again: config updated in place, no second device row.
	in := validConfigRequest(true)
	in.BranchName = "Bulawayo"
	out, err := uc.Upsert(ctx, in)
	require.NoError(t, err)

	assert.Equal(t, "Bulawayo", out.BranchName)
	assert.Len(t, f.configs.configs, 1)
	assert.Len(t, f.devices.devices, 1)
}

func TestConfigUpsertDisabledSkipsDevice(t *testing.T) {
	f := newFixture()

	out, err := f.configUC().Upsert(context.Background(), validConfigRequest(false))
	require.NoError(t, err)

	assert.Nil(t, out.Device)
	assert.Empty(t, f.devices.devices)
}

func TestToggleActivatesPendingDevice(t *testing.T) {
	f := newFixture()
	uc := f.configUC()
	ctx := context.Background()

	_, err := uc.Upsert(ctx, validConfigRequest(true))
	require.NoError(t, err)

	out, err := uc.Toggle(ctx, true)
	require.NoError(t, err)

	require.NotNil(t, out.Device)
	assert.Equal(t, entity.DeviceStatusActive, out.Device.Status)
	assert.Len(t, f.devices.devices, 1, "toggle must reuse the provisioned device")
}

func TestToggleWithoutConfig(t *testing.T) {
	f := newFixture()

	_, err := f.configUC().Toggle(context.Background(), true)

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSubmitValidation(t *testing.T) {
	f := newFixture()
	c := f.coordinator()
	ctx := context.Background()

	cases := []struct {
		name   string
		mutate func(*dto.SubmitFiscalInvoiceRequest)
	}{
		{"missing invoice number", func(r *dto.SubmitFiscalInvoiceRequest) { r.InvoiceNo = "" }},
		{"zero total", func(r *dto.SubmitFiscalInvoiceRequest) { r.Total = decimal.Zero }},
		{"negative total", func(r *dto.SubmitFiscalInvoiceRequest) { r.Total = decimal.NewFromInt(-5) }},
		{"no items", func(r *dto.SubmitFiscalInvoiceRequest) { r.Items = nil }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := submitRequest()
			tc.mutate(&in)
			_, err := c.Submit(ctx, in)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
	assert.Empty(t, f.txs.txs, "validation failures must not create transactions")
}

func TestSubmitNonFDMSMode(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	// Config exists but FDMS is disabled.
	_, err := f.configUC().Upsert(ctx, validConfigRequest(false))
	require.NoError(t, err)

	out, err := f.coordinator().Submit(ctx, submitRequest())
	require.NoError(t, err)

	assert.False(t, out.FDMSMode)
	assert.Equal(t, entity.ZIMRAStatusNonFDMS, out.Status)
	// Pseudo receipt numbers are millisecond timestamps, far above any
	// counter a device could have reached.
	assert.Greater(t, out.ReceiptGlobal, int64(1_000_000_000_000))
	assert.Zero(t, f.submitter.calls, "disabled mode never reaches the gateway")
	for _, d := range f.devices.devices {
		assert.Zero(t, d.GlobalReceiptCounter, "non-FDMS submissions must not touch counters")
	}
	assert.Equal(t, 1, f.sales.calls)
	assert.Equal(t, "sale-1", f.sales.last.saleID)
}

func TestSubmitNoConfigFallsBackToLocal(t *testing.T) {
	f := newFixture()

	out, err := f.coordinator().Submit(context.Background(), submitRequest())
	require.NoError(t, err)

	assert.False(t, out.FDMSMode)
	assert.Equal(t, entity.ZIMRAStatusNonFDMS, out.Status)
}

func enableFDMS(t *testing.T, f *fiscalFixture) {
	t.Helper()
	ctx := context.Background()
	_, err := f.configUC().Upsert(ctx, validConfigRequest(true))
	require.NoError(t, err)
	_, err = f.configUC().Toggle(ctx, true)
	require.NoError(t, err)
}

func TestSubmitFDMSSuccess(t *testing.T) {
	f := newFixture()
	enableFDMS(t, f)
	f.submitter.confirmed = true

	out, err := f.coordinator().Submit(context.Background(), submitRequest())
	require.NoError(t, err)

	assert.True(t, out.FDMSMode)
	assert.Equal(t, int64(1), out.ReceiptGlobal)
	assert.Equal(t, entity.ZIMRAStatusConfirmed, out.Status)
	assert.Equal(t, "sig-abc", out.Signature)
	assert.Contains(t, out.QRData, "VFD_1234567890_")
	assert.Contains(t, out.QRData, "fdmstest.zimra.co.zw")

	require.Equal(t, 1, f.submitter.calls)
	sent := f.submitter.payloads[0]
	assert.Equal(t, int64(1), sent.ReceiptGlobal)
	assert.Equal(t, "INV-0042", sent.InvoiceNo)
	require.Len(t, sent.Lines, 1)
	assert.Equal(t, "Mealie meal 10kg", sent.Lines[0].Name)

	assert.Equal(t, 1, f.sales.calls)
	assert.NotEmpty(t, f.sales.last.qr)
}

func TestSubmitFDMSCountersAreMonotonic(t *testing.T) {
	f := newFixture()
	enableFDMS(t, f)
	c := f.coordinator()
	ctx := context.Background()

	for want := int64(1); want <= 3; want++ {
		in := submitRequest()
		out, err := c.Submit(ctx, in)
		require.NoError(t, err)
		assert.Equal(t, want, out.ReceiptGlobal)
	}
	for _, d := range f.devices.devices {
		assert.Equal(t, int64(3), d.GlobalReceiptCounter)
		assert.Equal(t, int64(3), d.DailyReceiptCounter)
	}
}

func TestSubmitFDMSNetworkFailureQueuesOffline(t *testing.T) {
	f := newFixture()
	enableFDMS(t, f)
	f.submitter.err = errNetwork

	_, err := f.coordinator().Submit(context.Background(), submitRequest())
	require.Error(t, err)
	assert.Equal(t, domfiscal.ClassNetwork, domfiscal.ClassifyError(err))

	// Transaction recorded as failed with the error message.
	require.Len(t, f.txs.txs, 1)
	for _, tx := range f.txs.txs {
		assert.Equal(t, entity.ZIMRAStatusFailed, tx.ZIMRAStatus)
		assert.Contains(t, tx.ErrorMessage, "connection refused")
	}
	// Payload parked for sync_offline_queue; counter was still consumed.
	assert.Len(t, f.queue.entries, 1)
	for _, d := range f.devices.devices {
		assert.Equal(t, int64(1), d.GlobalReceiptCounter, "failed submissions never reuse receipt numbers")
	}
	assert.NotEmpty(t, f.notifier.events)
}

func TestSubmitFDMSValidationErrorNotQueued(t *testing.T) {
	f := newFixture()
	enableFDMS(t, f)
	f.submitter.err = assert.AnError

	_, err := f.coordinator().Submit(context.Background(), submitRequest())
	require.Error(t, err)

	assert.Empty(t, f.queue.entries, "only network-class failures are queued offline")
}

func TestSubmitAnnotationFailureIsSwallowed(t *testing.T) {
	f := newFixture()
	enableFDMS(t, f)
	f.sales.err = assert.AnError

	out, err := f.coordinator().Submit(context.Background(), submitRequest())

	require.NoError(t, err, "sale annotation must never fail the submission")
	assert.True(t, out.Success)
	assert.Equal(t, 1, f.sales.calls)
}

func TestSubmitOutcomeCounterByStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("confirmed", func(t *testing.T) {
		f := newFixture()
		enableFDMS(t, f)
		f.submitter.confirmed = true

		_, err := f.coordinator().Submit(ctx, submitRequest())
		require.NoError(t, err)
		assert.Equal(t, []string{entity.ZIMRAStatusConfirmed}, f.outcomes)
	})

	t.Run("failed", func(t *testing.T) {
		f := newFixture()
		enableFDMS(t, f)
		f.submitter.err = errNetwork

		_, err := f.coordinator().Submit(ctx, submitRequest())
		require.Error(t, err)
		assert.Equal(t, []string{entity.ZIMRAStatusFailed}, f.outcomes)
	})

	t.Run("non-FDMS", func(t *testing.T) {
		f := newFixture()

		_, err := f.coordinator().Submit(ctx, submitRequest())
		require.NoError(t, err)
		assert.Equal(t, []string{entity.ZIMRAStatusNonFDMS}, f.outcomes)
	})
}

func TestListTransactionsClampsLimit(t *testing.T) {
	f := newFixture()
	c := f.coordinator()
	ctx := context.Background()

	_, err := c.ListTransactions(ctx, "", 101)
	require.NoError(t, err)
	_, err = c.ListTransactions(ctx, "", 0)
	require.NoError(t, err)
	_, err = c.ListTransactions(ctx, "", 50)
	require.NoError(t, err)

	assert.Equal(t, []int{100, 20, 50}, f.txs.listLimits)
}

func TestMaintenanceRequiresConfig(t *testing.T) {
	f := newFixture()

	_, err := f.maintenanceUC().Run(context.Background(), appfiscal.ActionSyncOfflineQueue)

	assert.ErrorIs(t, err, domain.ErrNotConfigured)
}

func TestMaintenanceUnknownAction(t *testing.T) {
	f := newFixture()
	enableFDMS(t, f)

	_, err := f.maintenanceUC().Run(context.Background(), "compact_ledger")

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSyncOfflineQueueResubmitsAndConfirms(t *testing.T) {
	f := newFixture()
	enableFDMS(t, f)
	ctx := context.Background()

	// Park two receipts via a real network failure, then restore the gateway.
	f.submitter.err = errNetwork
	c := f.coordinator()
	_, _ = c.Submit(ctx, submitRequest())
	_, _ = c.Submit(ctx, submitRequest())
	require.Equal(t, 2, len(f.queue.entries))
	f.submitter.err = nil
	f.submitter.confirmed = true
	gatewayCallsBefore := f.submitter.calls

	out, err := f.maintenanceUC().Run(ctx, appfiscal.ActionSyncOfflineQueue)
	require.NoError(t, err)

	assert.Equal(t, 2, out.Affected)
	assert.Equal(t, gatewayCallsBefore+2, f.submitter.calls, "each entry is genuinely resubmitted")
	for _, e := range f.queue.entries {
		assert.Equal(t, entity.QueueStatusSynchronized, e.Status)
		assert.NotNil(t, e.SyncedAt)
	}
	for _, tx := range f.txs.txs {
		assert.Equal(t, entity.ZIMRAStatusConfirmed, tx.ZIMRAStatus)
		assert.Empty(t, tx.ErrorMessage)
	}

	// Second run is a no-op.
	out, err = f.maintenanceUC().Run(ctx, appfiscal.ActionSyncOfflineQueue)
	require.NoError(t, err)
	assert.Zero(t, out.Affected)
}

func TestSyncOfflineQueueKeepsFailuresPending(t *testing.T) {
	f := newFixture()
	enableFDMS(t, f)
	ctx := context.Background()

	f.submitter.err = errNetwork
	_, _ = f.coordinator().Submit(ctx, submitRequest())
	require.Len(t, f.queue.entries, 1)

	// Gateway still down during the sync run.
	out, err := f.maintenanceUC().Run(ctx, appfiscal.ActionSyncOfflineQueue)
	require.NoError(t, err)

	assert.Zero(t, out.Affected)
	for _, e := range f.queue.entries {
		assert.Equal(t, entity.QueueStatusPending, e.Status)
	}
}

func TestRetryFailedRequeuesUnderCap(t *testing.T) {
	f := newFixture()
	enableFDMS(t, f)
	ctx := context.Background()

	f.submitter.err = assert.AnError
	_, _ = f.coordinator().Submit(ctx, submitRequest())
	require.Len(t, f.txs.txs, 1)

	out, err := f.maintenanceUC().Run(ctx, appfiscal.ActionRetryFailed)
	require.NoError(t, err)

	assert.Equal(t, 1, out.Affected)
	for _, tx := range f.txs.txs {
		assert.Equal(t, entity.ZIMRAStatusPending, tx.ZIMRAStatus)
		assert.Equal(t, 1, tx.RetryCount)
		assert.Empty(t, tx.ErrorMessage)
	}
	assert.Equal(t, 1, f.submitter.calls, "retry requeues without resubmitting")
}

func TestRetryFailedSkipsExhaustedTransactions(t *testing.T) {
	f := newFixture()
	enableFDMS(t, f)
	ctx := context.Background()

	f.submitter.err = assert.AnError
	_, _ = f.coordinator().Submit(ctx, submitRequest())
	for _, tx := range f.txs.txs {
		tx.RetryCount = entity.MaxRetryCount
	}

	out, err := f.maintenanceUC().Run(ctx, appfiscal.ActionRetryFailed)
	require.NoError(t, err)

	assert.Zero(t, out.Affected)
	for _, tx := range f.txs.txs {
		assert.Equal(t, entity.ZIMRAStatusFailed, tx.ZIMRAStatus)
		assert.Equal(t, entity.MaxRetryCount, tx.RetryCount)
	}
}

func TestResetDailyCounterLeavesGlobal(t *testing.T) {
	f := newFixture()
	enableFDMS(t, f)
	ctx := context.Background()
	c := f.coordinator()
	for i := 0; i < 3; i++ {
		_, err := c.Submit(ctx, submitRequest())
		require.NoError(t, err)
	}

	out, err := f.maintenanceUC().Run(ctx, appfiscal.ActionResetDailyCounter)
	require.NoError(t, err)

	assert.Equal(t, 1, out.Affected)
	for _, d := range f.devices.devices {
		assert.Zero(t, d.DailyReceiptCounter)
		assert.Equal(t, int64(3), d.GlobalReceiptCounter, "daily reset must not disturb the global counter")
	}
}

func TestStatusAggregation(t *testing.T) {
	ctx := context.Background()

	t.Run("not configured", func(t *testing.T) {
		f := newFixture()
		out, err := f.maintenanceUC().Status(ctx)
		require.NoError(t, err)
		assert.Equal(t, domfiscal.StatusNotConfigured, out.Status)
	})

	t.Run("configured but disabled", func(t *testing.T) {
		f := newFixture()
		_, err := f.configUC().Upsert(ctx, validConfigRequest(false))
		require.NoError(t, err)
		out, err := f.maintenanceUC().Status(ctx)
		require.NoError(t, err)
		assert.Equal(t, domfiscal.StatusConfigured, out.Status)
	})

	t.Run("active", func(t *testing.T) {
		f := newFixture()
		enableFDMS(t, f)
		out, err := f.maintenanceUC().Status(ctx)
		require.NoError(t, err)
		assert.Equal(t, domfiscal.StatusActive, out.Status)
		assert.Equal(t, entity.DeviceStatusActive, out.DeviceStatus)
	})

	t.Run("offline wins over warning", func(t *testing.T) {
		f := newFixture()
		enableFDMS(t, f)
		f.submitter.err = errNetwork
		_, _ = f.coordinator().Submit(ctx, submitRequest())

		out, err := f.maintenanceUC().Status(ctx)
		require.NoError(t, err)

		assert.Equal(t, domfiscal.StatusOffline, out.Status)
		assert.Equal(t, 1, out.OfflineQueued)
		assert.Equal(t, 1, out.FailedCount)
	})

	t.Run("failed without queue is warning", func(t *testing.T) {
		f := newFixture()
		enableFDMS(t, f)
		f.submitter.err = assert.AnError
		_, _ = f.coordinator().Submit(ctx, submitRequest())

		out, err := f.maintenanceUC().Status(ctx)
		require.NoError(t, err)

		assert.Equal(t, domfiscal.StatusWarning, out.Status)
	})
}
