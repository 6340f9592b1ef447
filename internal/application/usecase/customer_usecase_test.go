package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/retailcore/pos-api/internal/application/dto"
	"github.com/retailcore/pos-api/internal/application/usecase"
	"github.com/retailcore/pos-api/internal/domain"
)

type customerFixture struct {
	uc         *usecase.CustomerUseCase
	repo       *memCustomerRepo
	sales      *countingSaleRepo
	invoices   *memInvoiceRepo
	quotations *countingQuotationRepo
}

func newCustomerFixture() *customerFixture {
	f := &customerFixture{
		repo:       newMemCustomerRepo(),
		sales:      &countingSaleRepo{},
		invoices:   newMemInvoiceRepo(),
		quotations: &countingQuotationRepo{},
	}
	f.uc = usecase.NewCustomerUseCase(f.repo, f.sales, f.invoices, f.quotations)
	return f
}

func TestCustomerCreate(t *testing.T) {
	f := newCustomerFixture()

	resp, err := f.uc.Create(context.Background(), dto.CreateCustomerRequest{
		Name:  "Tariro Moyo",
		Email: "tariro@example.com",
		TaxID: "2000054321",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.ID)
	assert.Equal(t, "active", resp.Status)

	_, err = f.uc.Create(context.Background(), dto.CreateCustomerRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "name is mandatory")

	_, err = f.uc.Create(context.Background(), dto.CreateCustomerRequest{
		Name:  "Someone Else",
		Email: "tariro@example.com",
	})
	assert.ErrorIs(t, err, domain.ErrDuplicate, "email must be unused")
}

func TestCustomerUpdate_EmailUniqueness(t *testing.T) {
	f := newCustomerFixture()

	a, err := f.uc.Create(context.Background(), dto.CreateCustomerRequest{Name: "A", Email: "a@example.com"})
	require.NoError(t, err)
	b, err := f.uc.Create(context.Background(), dto.CreateCustomerRequest{Name: "B", Email: "b@example.com"})
	require.NoError(t, err)

	_, err = f.uc.Update(context.Background(), b.ID, dto.UpdateCustomerRequest{Email: strp("a@example.com")})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	// Re-saving your own email is not a collision.
	resp, err := f.uc.Update(context.Background(), a.ID, dto.UpdateCustomerRequest{
		Email: strp("a@example.com"),
		Phone: strp("+263771234567"),
	})
	require.NoError(t, err)
	assert.Equal(t, "+263771234567", resp.Phone)
}

func TestCustomerDelete_BlockedByDependents(t *testing.T) {
	f := newCustomerFixture()

	c, err := f.uc.Create(context.Background(), dto.CreateCustomerRequest{Name: "C"})
	require.NoError(t, err)

	f.sales.count = 2
	err = f.uc.Delete(context.Background(), c.ID)
	assert.ErrorIs(t, err, domain.ErrHasDependents, "sales keep the customer alive")

	f.sales.count = 0
	f.invoices.count = 1
	err = f.uc.Delete(context.Background(), c.ID)
	assert.ErrorIs(t, err, domain.ErrHasDependents, "invoices keep the customer alive")

	f.invoices.count = 0
	f.quotations.count = 1
	err = f.uc.Delete(context.Background(), c.ID)
	assert.ErrorIs(t, err, domain.ErrHasDependents, "quotations keep the customer alive")

	f.quotations.count = 0
	require.NoError(t, f.uc.Delete(context.Background(), c.ID))

	_, err = f.uc.GetByID(context.Background(), c.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCustomerDelete_Unknown(t *testing.T) {
	f := newCustomerFixture()
	err := f.uc.Delete(context.Background(), "ghost")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
