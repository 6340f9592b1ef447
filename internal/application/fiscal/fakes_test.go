package fiscal_test

import (
	"context"
	"errors"
	"sort"
	"time"

	appfiscal "github.com/retailcore/pos-api/internal/application/fiscal"
	"github.com/retailcore/pos-api/internal/domain"
	"github.com/retailcore/pos-api/internal/domain/entity"
)

// In-memory fakes for the fiscal repositories. Deliberately dumb: maps plus
// copy-on-return so tests can assert on stored state without aliasing.

type fakeConfigRepo struct {
	configs map[string]*entity.FiscalConfiguration // by ID
	writes  int
}

func newFakeConfigRepo() *fakeConfigRepo {
	return &fakeConfigRepo{configs: map[string]*entity.FiscalConfiguration{}}
}

func (r *fakeConfigRepo) Create(_ context.Context, c *entity.FiscalConfiguration) error {
	r.writes++
	cp := *c
	r.configs[c.ID] = &cp
	return nil
}

func (r *fakeConfigRepo) GetActive(_ context.Context) (*entity.FiscalConfiguration, error) {
	for _, c := range r.configs {
		cp := *c
		return &cp, nil
	}
	return nil, nil
}

func (r *fakeConfigRepo) GetByTIN(_ context.Context, tin string) (*entity.FiscalConfiguration, error) {
	for _, c := range r.configs {
		if c.TIN == tin {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeConfigRepo) Update(_ context.Context, c *entity.FiscalConfiguration) error {
	r.writes++
	cp := *c
	r.configs[c.ID] = &cp
	return nil
}

type fakeDeviceRepo struct {
	devices map[string]*entity.FiscalDevice // by row ID
}

func newFakeDeviceRepo() *fakeDeviceRepo {
	return &fakeDeviceRepo{devices: map[string]*entity.FiscalDevice{}}
}

func (r *fakeDeviceRepo) Create(_ context.Context, d *entity.FiscalDevice) error {
	cp := *d
	r.devices[d.ID] = &cp
	return nil
}

func (r *fakeDeviceRepo) GetByConfiguration(_ context.Context, configID string) (*entity.FiscalDevice, error) {
	for _, d := range r.devices {
		if d.ConfigurationID == configID {
			cp := *d
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeDeviceRepo) GetActiveByConfiguration(_ context.Context, configID string) (*entity.FiscalDevice, error) {
	for _, d := range r.devices {
		if d.ConfigurationID == configID && d.Status == entity.DeviceStatusActive {
			cp := *d
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeDeviceRepo) Update(_ context.Context, d *entity.FiscalDevice) error {
	cp := *d
	r.devices[d.ID] = &cp
	return nil
}

func (r *fakeDeviceRepo) IncrementCounters(_ context.Context, deviceRowID string) (int64, error) {
	d, ok := r.devices[deviceRowID]
	if !ok || d.Status != entity.DeviceStatusActive {
		return 0, domain.ErrConflict
	}
	d.GlobalReceiptCounter++
	d.DailyReceiptCounter++
	return d.GlobalReceiptCounter, nil
}

func (r *fakeDeviceRepo) ResetDailyCounters(_ context.Context, configID string) (int, error) {
	n := 0
	for _, d := range r.devices {
		if d.ConfigurationID == configID {
			d.DailyReceiptCounter = 0
			n++
		}
	}
	return n, nil
}

type fakeTxRepo struct {
	txs        map[string]*entity.FiscalTransaction
	listLimits []int
}

func newFakeTxRepo() *fakeTxRepo {
	return &fakeTxRepo{txs: map[string]*entity.FiscalTransaction{}}
}

func (r *fakeTxRepo) Create(_ context.Context, t *entity.FiscalTransaction) error {
	cp := *t
	r.txs[t.ID] = &cp
	return nil
}

func (r *fakeTxRepo) GetByID(_ context.Context, id string) (*entity.FiscalTransaction, error) {
	t, ok := r.txs[id]
	if !ok {
		return nil, nil
	}
	cp := *t
	return &cp, nil
}

func (r *fakeTxRepo) List(_ context.Context, status string, limit int) ([]*entity.FiscalTransaction, error) {
	r.listLimits = append(r.listLimits, limit)
	var out []*entity.FiscalTransaction
	for _, t := range r.txs {
		if status == "" || t.ZIMRAStatus == status {
			cp := *t
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeTxRepo) Update(_ context.Context, t *entity.FiscalTransaction) error {
	cp := *t
	r.txs[t.ID] = &cp
	return nil
}

func (r *fakeTxRepo) ListRetryable(_ context.Context, maxRetries, limit int) ([]*entity.FiscalTransaction, error) {
	var out []*entity.FiscalTransaction
	for _, t := range r.txs {
		if t.ZIMRAStatus == entity.ZIMRAStatusFailed && t.RetryCount < maxRetries {
			cp := *t
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeTxRepo) CountByStatus(_ context.Context, status string) (int, error) {
	n := 0
	for _, t := range r.txs {
		if t.ZIMRAStatus == status {
			n++
		}
	}
	return n, nil
}

type fakeQueueRepo struct {
	entries map[string]*entity.OfflineQueueEntry
}

func newFakeQueueRepo() *fakeQueueRepo {
	return &fakeQueueRepo{entries: map[string]*entity.OfflineQueueEntry{}}
}

func (r *fakeQueueRepo) Enqueue(_ context.Context, e *entity.OfflineQueueEntry) error {
	cp := *e
	r.entries[e.ID] = &cp
	return nil
}

func (r *fakeQueueRepo) ListPending(_ context.Context, configID string, limit int) ([]*entity.OfflineQueueEntry, error) {
	var out []*entity.OfflineQueueEntry
	for _, e := range r.entries {
		if e.ConfigurationID == configID && e.Status == entity.QueueStatusPending {
			cp := *e
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeQueueRepo) MarkSynchronized(_ context.Context, id string) error {
	e, ok := r.entries[id]
	if !ok {
		return domain.ErrNotFound
	}
	now := time.Now()
	e.Status = entity.QueueStatusSynchronized
	e.SyncedAt = &now
	return nil
}

func (r *fakeQueueRepo) CountPending(_ context.Context, configID string) (int, error) {
	n := 0
	for _, e := range r.entries {
		if e.ConfigurationID == configID && e.Status == entity.QueueStatusPending {
			n++
		}
	}
	return n, nil
}

// fakeSubmitter scripts gateway behavior per call.
type fakeSubmitter struct {
	err       error
	confirmed bool
	calls     int
	payloads  []*appfiscal.ReceiptPayload
}

func (s *fakeSubmitter) SubmitReceipt(_ context.Context, p *appfiscal.ReceiptPayload) (*appfiscal.SubmitResult, error) {
	s.calls++
	s.payloads = append(s.payloads, p)
	if s.err != nil {
		return nil, s.err
	}
	return &appfiscal.SubmitResult{
		ReceiptID: "R-1",
		Signature: "sig-abc",
		Confirmed: s.confirmed,
	}, nil
}

func (s *fakeSubmitter) RegisterDevice(_ context.Context, _, _, _ string) error { return nil }

// fakeSales records annotation calls and can be scripted to fail.
type fakeSales struct {
	err   error
	calls int
	last  struct{ saleID, txID, qr string }
}

func (s *fakeSales) MarkFiscalized(_ context.Context, saleID, transactionID, qrData string) error {
	s.calls++
	s.last.saleID = saleID
	s.last.txID = transactionID
	s.last.qr = qrData
	return s.err
}

type fakeNotifier struct{ events []string }

func (n *fakeNotifier) NotifyFiscal(_ context.Context, title, _ string) {
	n.events = append(n.events, title)
}

var errNetwork = errors.New("dial tcp: connection refused")
