package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// UpsertFiscalConfigRequest body for POST /api/fdms/config.
// A TIN that already has a configuration updates it; otherwise one is created.
type UpsertFiscalConfigRequest struct {
	TIN             string `json:"tin"`
	VATNumber       string `json:"vat_number,omitempty"`
	BusinessName    string `json:"businessName"`
	BusinessType    string `json:"businessType"`
	BranchName      string `json:"branchName"`
	BranchAddress   string `json:"branchAddress"`
	IsFDMSEnabled   bool   `json:"isFDMSEnabled"`
	TestEnvironment bool   `json:"testEnvironment"`
}

// ToggleFiscalConfigRequest body for PATCH /api/fdms/config.
type ToggleFiscalConfigRequest struct {
	Enabled bool `json:"enabled"`
}

// FiscalConfigResponse configuration in responses.
type FiscalConfigResponse struct {
	Success         bool                  `json:"success"`
	ID              string                `json:"id"`
	TIN             string                `json:"tin"`
	VATNumber       string                `json:"vat_number,omitempty"`
	BusinessName    string                `json:"businessName"`
	BusinessType    string                `json:"businessType"`
	BranchName      string                `json:"branchName"`
	BranchAddress   string                `json:"branchAddress"`
	Enabled         bool                  `json:"enabled"`
	TestEnvironment bool                  `json:"testEnvironment"`
	Status          string                `json:"status"`
	Device          *FiscalDeviceResponse `json:"device,omitempty"`
}

// FiscalDeviceResponse device in responses.
type FiscalDeviceResponse struct {
	ID                   string `json:"id"`
	DeviceID             string `json:"deviceId"`
	SerialNo             string `json:"serialNo"`
	GlobalReceiptCounter int64  `json:"globalReceiptCounter"`
	DailyReceiptCounter  int64  `json:"dailyReceiptCounter"`
	Status               string `json:"status"`
}

// FiscalInvoiceItem one receipt line.
type FiscalInvoiceItem struct {
	Name      string          `json:"name"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	TaxRate   decimal.Decimal `json:"tax_rate"`
}

// SubmitFiscalInvoiceRequest body for POST /api/fdms/invoice.
type SubmitFiscalInvoiceRequest struct {
	InvoiceNo   string              `json:"invoiceNo"`
	SaleID      string              `json:"sale_id,omitempty"`
	ReceiptType string              `json:"receiptType,omitempty"` // defaults to FiscalInvoice
	Total       decimal.Decimal     `json:"total"`
	TaxAmount   decimal.Decimal     `json:"taxAmount"`
	BuyerName   string              `json:"buyerName,omitempty"`
	BuyerTIN    string              `json:"buyerTIN,omitempty"`
	Items       []FiscalInvoiceItem `json:"items"`
}

// SubmitFiscalInvoiceResponse result of a submission.
type SubmitFiscalInvoiceResponse struct {
	Success       bool   `json:"success"`
	FDMSMode      bool   `json:"fdmsMode"`
	TransactionID string `json:"transaction_id"`
	ReceiptGlobal int64  `json:"receiptGlobalNo"`
	Status        string `json:"status"`
	QRData        string `json:"qr_data,omitempty"`
	Signature     string `json:"signature,omitempty"`
}

// FiscalTransactionResponse one row of GET /api/fdms/invoice.
type FiscalTransactionResponse struct {
	ID            string          `json:"id"`
	InvoiceNo     string          `json:"invoiceNo"`
	ReceiptGlobal int64           `json:"receiptGlobalNo"`
	ReceiptType   string          `json:"receiptType"`
	Total         decimal.Decimal `json:"total"`
	TaxAmount     decimal.Decimal `json:"taxAmount"`
	ZIMRAStatus   string          `json:"zimraStatus"`
	RetryCount    int             `json:"retryCount"`
	ErrorMessage  string          `json:"errorMessage,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

// FiscalStatusResponse body of GET /api/fdms/status.
type FiscalStatusResponse struct {
	Status        string `json:"status"` // not_configured|configured|active|error|warning|offline
	Enabled       bool   `json:"enabled"`
	DeviceStatus  string `json:"deviceStatus,omitempty"`
	FailedCount   int    `json:"failedCount"`
	OfflineQueued int    `json:"offlineQueued"`
}

// FiscalActionRequest body of POST /api/fdms/status.
type FiscalActionRequest struct {
	Action string `json:"action"` // sync_offline_queue | retry_failed | reset_daily_counter
}

// FiscalActionResponse result of a maintenance action.
type FiscalActionResponse struct {
	Success  bool   `json:"success"`
	Action   string `json:"action"`
	Affected int    `json:"affected"`
}
