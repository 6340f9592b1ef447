package fiscal

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// ReceiptLine is one line of a receipt payload sent to FDMS.
type ReceiptLine struct {
	Name      string          `json:"name"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	TaxRate   decimal.Decimal `json:"taxRate"`
}

// ReceiptPayload is the wire-shaped submission handed to the FDMS client and
// serialized verbatim into the offline queue.
type ReceiptPayload struct {
	DeviceID      string          `json:"deviceId"`
	ReceiptType   string          `json:"receiptType"`
	ReceiptGlobal int64           `json:"receiptGlobalNo"`
	ReceiptDaily  int64           `json:"receiptCounter"`
	InvoiceNo     string          `json:"invoiceNo"`
	Total         decimal.Decimal `json:"total"`
	TaxAmount     decimal.Decimal `json:"taxAmount"`
	BuyerName     string          `json:"buyerName,omitempty"`
	BuyerTIN      string          `json:"buyerTIN,omitempty"`
	IssuedAt      time.Time       `json:"issuedAt"`
	Lines         []ReceiptLine   `json:"lines"`
}

// SubmitResult is the FDMS gateway's answer to a receipt submission.
type SubmitResult struct {
	ReceiptID string // server-side receipt identifier
	Signature string // device signature echo from FDMS
	Confirmed bool   // true when FDMS validated the receipt synchronously
	Errors    string // validation messages from FDMS (may be empty)
}

// Submitter is the outbound port to the ZIMRA FDMS gateway. nil in
// deployments that run permanently in non-FDMS mode.
type Submitter interface {
	SubmitReceipt(ctx context.Context, p *ReceiptPayload) (*SubmitResult, error)
	RegisterDevice(ctx context.Context, tin, deviceID, serialNo string) error
}

// SaleAnnotator stamps fiscalization metadata on the originating sale.
// Failures are logged and swallowed by the coordinator.
type SaleAnnotator interface {
	MarkFiscalized(ctx context.Context, saleID, transactionID, qrData string) error
}

// Notifier publishes operator-facing events (failed submissions, offline
// queue growth). A no-op implementation is acceptable.
type Notifier interface {
	NotifyFiscal(ctx context.Context, title, body string)
}

// SubmissionRecorder counts one fiscal submission outcome, labeled with the
// resulting transaction status. Nil disables recording.
type SubmissionRecorder func(status string)
