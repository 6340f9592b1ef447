package sales

import (
	"context"

	"github.com/retailcore/pos-api/internal/application/dto"
)

// TxRunner executes fn inside one database transaction. Repositories called
// through the ctx it passes share that transaction.
type TxRunner interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Fiscalizer submits a completed sale for fiscalization. Satisfied by the
// fiscal coordinator; nil disables fiscalization entirely.
type Fiscalizer interface {
	Submit(ctx context.Context, in dto.SubmitFiscalInvoiceRequest) (*dto.SubmitFiscalInvoiceResponse, error)
}
