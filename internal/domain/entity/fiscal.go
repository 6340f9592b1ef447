package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// FiscalConfiguration statuses.
const (
	FiscalConfigPending   = "pending"
	FiscalConfigApproved  = "approved"
	FiscalConfigActive    = "active"
	FiscalConfigSuspended = "suspended"
)

// FiscalDevice statuses.
const (
	DeviceStatusPending = "Pending"
	DeviceStatusActive  = "Active"
	DeviceStatusBlocked = "Blocked"
)

// FiscalTransaction submission statuses.
const (
	ZIMRAStatusPending   = "pending"
	ZIMRAStatusSubmitted = "submitted"
	ZIMRAStatusConfirmed = "confirmed"
	ZIMRAStatusFailed    = "failed"
	// ZIMRAStatusNonFDMS marks locally synthesized receipts issued while
	// FDMS was disabled; these never touch the device counters.
	ZIMRAStatusNonFDMS = "non_fdms_mode"
)

// MaxRetryCount caps how many times retry_failed will requeue a transaction.
const MaxRetryCount = 3

// Offline queue entry statuses.
const (
	QueueStatusPending      = "pending"
	QueueStatusSynchronized = "synchronized"
)

// FiscalConfiguration is the fiscal registration record of the business.
// One logical instance per deployment; upserted by TIN, never deleted.
type FiscalConfiguration struct {
	ID              string
	TIN             string // 10 ASCII digits
	VATNumber       string
	BusinessName    string
	BusinessType    string
	BranchName      string
	BranchAddress   string
	Enabled         bool
	TestEnvironment bool
	Status          string // see FiscalConfig* constants
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// FiscalDevice is a virtual fiscal device registered under a configuration.
// GlobalReceiptCounter is monotonic and never reused; DailyReceiptCounter is
// zeroed by the reset_daily_counter maintenance action.
type FiscalDevice struct {
	ID                   string
	ConfigurationID      string
	DeviceID             string // VFD_<TIN>_<timestamp>
	SerialNo             string
	GlobalReceiptCounter int64
	DailyReceiptCounter  int64
	Status               string // see DeviceStatus* constants
	ActivatedAt          *time.Time
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// FiscalTransaction is one row per invoice submission attempt. Append/update
// only; rows are never deleted.
type FiscalTransaction struct {
	ID            string
	DeviceID      string // FiscalDevice.ID; empty in non-FDMS mode
	ReceiptGlobal int64  // receipt global number assigned at submission time
	ReceiptType   string // FiscalInvoice, CreditNote, DebitNote
	InvoiceNo     string
	SaleID        string
	Total         decimal.Decimal
	TaxAmount     decimal.Decimal
	BuyerName     string
	BuyerTIN      string
	ZIMRAStatus   string // see ZIMRAStatus* constants
	ReceiptQR     string
	Signature     string
	RetryCount    int
	ErrorMessage  string
	SubmittedAt   *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// OfflineQueueEntry holds a submission payload queued while FDMS was
// unreachable. Consumed in batches of ten by sync_offline_queue.
type OfflineQueueEntry struct {
	ID              string
	ConfigurationID string
	TransactionID   string // FiscalTransaction.ID being retried
	Payload         []byte // serialized receipt payload as sent to FDMS
	Status          string // see QueueStatus* constants
	SyncedAt        *time.Time
	CreatedAt       time.Time
}
