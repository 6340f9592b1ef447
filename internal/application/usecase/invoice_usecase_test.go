package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/retailcore/pos-api/internal/application/dto"
	"github.com/retailcore/pos-api/internal/application/usecase"
	"github.com/retailcore/pos-api/internal/domain"
)

const actorID = "00000000-0000-0000-0000-0000000000ee"

func newInvoiceFixture(t *testing.T) (*usecase.InvoiceUseCase, string) {
	t.Helper()
	customers := newMemCustomerRepo()
	custUC := usecase.NewCustomerUseCase(customers, &countingSaleRepo{}, newMemInvoiceRepo(), &countingQuotationRepo{})
	c, err := custUC.Create(context.Background(), dto.CreateCustomerRequest{Name: "Debtor Ltd"})
	require.NoError(t, err)
	return usecase.NewInvoiceUseCase(newMemInvoiceRepo(), customers), c.ID
}

func createInvoice(t *testing.T, uc *usecase.InvoiceUseCase, customerID, total string) *dto.InvoiceResponse {
	t.Helper()
	resp, err := uc.Create(context.Background(), actorID, dto.CreateInvoiceRequest{
		CustomerID: customerID,
		Subtotal:   dec(total),
		Total:      dec(total),
		DueDate:    time.Now().AddDate(0, 1, 0),
	})
	require.NoError(t, err)
	return resp
}

func TestInvoiceCreate(t *testing.T) {
	uc, customerID := newInvoiceFixture(t)

	resp := createInvoice(t, uc, customerID, "200.00")
	assert.Equal(t, "unpaid", resp.Status)
	assert.True(t, resp.AmountPaid.IsZero())
	assert.NotEmpty(t, resp.InvoiceNo)

	_, err := uc.Create(context.Background(), actorID, dto.CreateInvoiceRequest{CustomerID: customerID})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "total must be positive")

	_, err = uc.Create(context.Background(), actorID, dto.CreateInvoiceRequest{CustomerID: "ghost", Total: dec("10")})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestInvoiceRecordPayment_StatusDerivation(t *testing.T) {
	uc, customerID := newInvoiceFixture(t)
	inv := createInvoice(t, uc, customerID, "100.00")

	resp, err := uc.RecordPayment(context.Background(), inv.ID, dec("40.00"))
	require.NoError(t, err)
	assert.Equal(t, "partial", resp.Status)
	assert.True(t, dec("40.00").Equal(resp.AmountPaid))

	resp, err = uc.RecordPayment(context.Background(), inv.ID, dec("60.00"))
	require.NoError(t, err)
	assert.Equal(t, "paid", resp.Status)

	_, err = uc.RecordPayment(context.Background(), inv.ID, dec("0.01"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "overpayment is rejected")
}

func TestInvoiceRecordPayment_Validation(t *testing.T) {
	uc, customerID := newInvoiceFixture(t)
	inv := createInvoice(t, uc, customerID, "100.00")

	_, err := uc.RecordPayment(context.Background(), inv.ID, dec("0"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.RecordPayment(context.Background(), "ghost", dec("10"))
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = uc.Cancel(context.Background(), inv.ID)
	require.NoError(t, err)
	_, err = uc.RecordPayment(context.Background(), inv.ID, dec("10"))
	assert.ErrorIs(t, err, domain.ErrConflict, "cancelled invoices take no payments")
}

func TestInvoiceCancelAndDelete_GuardedByPayments(t *testing.T) {
	uc, customerID := newInvoiceFixture(t)
	inv := createInvoice(t, uc, customerID, "100.00")

	_, err := uc.RecordPayment(context.Background(), inv.ID, dec("10.00"))
	require.NoError(t, err)

	_, err = uc.Cancel(context.Background(), inv.ID)
	assert.ErrorIs(t, err, domain.ErrConflict)

	err = uc.Delete(context.Background(), inv.ID)
	assert.ErrorIs(t, err, domain.ErrConflict)

	fresh := createInvoice(t, uc, customerID, "50.00")
	require.NoError(t, uc.Delete(context.Background(), fresh.ID))
}
