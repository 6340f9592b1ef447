package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleItemRequest one line of a sale/quotation/purchase body.
type SaleItemRequest struct {
	ProductID string          `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// CreateSaleRequest body for POST /api/sales.
type CreateSaleRequest struct {
	InvoiceNo     string            `json:"invoice_no,omitempty"` // generated when empty
	CustomerID    string            `json:"customer_id,omitempty"`
	PaymentMethod string            `json:"payment_method"`
	Discount      decimal.Decimal   `json:"discount"`
	Items         []SaleItemRequest `json:"items"`
}

// SaleItemResponse one sale line in responses.
type SaleItemResponse struct {
	ID        string          `json:"id"`
	ProductID string          `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	TaxRate   decimal.Decimal `json:"tax_rate"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// SaleResponse sale in responses.
type SaleResponse struct {
	ID                  string             `json:"id"`
	InvoiceNo           string             `json:"invoice_no"`
	CustomerID          string             `json:"customer_id,omitempty"`
	UserID              string             `json:"user_id"`
	Subtotal            decimal.Decimal    `json:"subtotal"`
	TaxAmount           decimal.Decimal    `json:"tax_amount"`
	Discount            decimal.Decimal    `json:"discount"`
	Total               decimal.Decimal    `json:"total"`
	PaymentMethod       string             `json:"payment_method"`
	Status              string             `json:"status"`
	IsFiscalized        bool               `json:"is_fiscalized"`
	FiscalTransactionID string             `json:"fiscal_transaction_id,omitempty"`
	FiscalQRData        string             `json:"fiscal_qr_data,omitempty"`
	CreatedAt           time.Time          `json:"created_at"`
	Items               []SaleItemResponse `json:"items,omitempty"`
}

// CreatePurchaseRequest body for POST /api/purchases.
type CreatePurchaseRequest struct {
	ReferenceNo string            `json:"reference_no,omitempty"`
	SupplierID  string            `json:"supplier_id"`
	Items       []SaleItemRequest `json:"items"` // UnitPrice carries the unit cost
}

// PurchaseResponse purchase in responses.
type PurchaseResponse struct {
	ID          string          `json:"id"`
	ReferenceNo string          `json:"reference_no"`
	SupplierID  string          `json:"supplier_id"`
	UserID      string          `json:"user_id"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	TaxAmount   decimal.Decimal `json:"tax_amount"`
	Total       decimal.Decimal `json:"total"`
	Status      string          `json:"status"`
	CreatedAt   time.Time       `json:"created_at"`
}

// CreateQuotationRequest body for POST /api/quotations.
type CreateQuotationRequest struct {
	ReferenceNo string            `json:"reference_no,omitempty"`
	CustomerID  string            `json:"customer_id"`
	ValidUntil  time.Time         `json:"valid_until"`
	Items       []SaleItemRequest `json:"items"`
}

// QuotationResponse quotation in responses.
type QuotationResponse struct {
	ID          string          `json:"id"`
	ReferenceNo string          `json:"reference_no"`
	CustomerID  string          `json:"customer_id"`
	UserID      string          `json:"user_id"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	TaxAmount   decimal.Decimal `json:"tax_amount"`
	Total       decimal.Decimal `json:"total"`
	ValidUntil  time.Time       `json:"valid_until"`
	Status      string          `json:"status"`
	CreatedAt   time.Time       `json:"created_at"`
}

// CreateInvoiceRequest body for POST /api/invoices (credit billing).
type CreateInvoiceRequest struct {
	InvoiceNo  string          `json:"invoice_no,omitempty"`
	CustomerID string          `json:"customer_id"`
	Subtotal   decimal.Decimal `json:"subtotal"`
	TaxAmount  decimal.Decimal `json:"tax_amount"`
	Total      decimal.Decimal `json:"total"`
	DueDate    time.Time       `json:"due_date"`
}

// RecordPaymentRequest body for POST /api/invoices/:id/payments.
type RecordPaymentRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

// InvoiceResponse invoice in responses.
type InvoiceResponse struct {
	ID         string          `json:"id"`
	InvoiceNo  string          `json:"invoice_no"`
	CustomerID string          `json:"customer_id"`
	UserID     string          `json:"user_id"`
	Subtotal   decimal.Decimal `json:"subtotal"`
	TaxAmount  decimal.Decimal `json:"tax_amount"`
	Total      decimal.Decimal `json:"total"`
	AmountPaid decimal.Decimal `json:"amount_paid"`
	DueDate    time.Time       `json:"due_date"`
	Status     string          `json:"status"`
	CreatedAt  time.Time       `json:"created_at"`
}
