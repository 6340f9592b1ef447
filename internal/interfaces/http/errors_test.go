package http

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/retailcore/pos-api/internal/domain"
)

// respondStatus routes an error through respondError on a throwaway app and
// returns the resulting status code and body.
func respondStatus(t *testing.T, err error) (int, string) {
	t.Helper()
	app := fiber.New()
	app.Get("/boom", func(c *fiber.Ctx) error { return respondError(c, err) })

	resp, rErr := app.Test(httptest.NewRequest(http.MethodGet, "/boom", nil), -1)
	require.NoError(t, rErr)
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, string(body)
}

func TestRespondError_BusinessRuleViolationsAnswer400(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code string
	}{
		{"duplicate resource", domain.ErrDuplicate, "DUPLICATE"},
		{"referenced by dependents", domain.ErrHasDependents, "HAS_DEPENDENTS"},
		{"state conflict", fmt.Errorf("%w: approved expenses cannot be deleted", domain.ErrConflict), "CONFLICT"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, body := respondStatus(t, tc.err)
			assert.Equal(t, http.StatusBadRequest, status)
			assert.Contains(t, body, tc.code)
		})
	}
}

func TestRespondError_StatusMap(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{domain.ErrInvalidInput, http.StatusBadRequest},
		{domain.ErrNotFound, http.StatusNotFound},
		{domain.ErrInsufficientStock, http.StatusUnprocessableEntity},
		{domain.ErrUnauthorized, http.StatusUnauthorized},
		{domain.ErrForbidden, http.StatusForbidden},
		{domain.ErrNotConfigured, http.StatusServiceUnavailable},
		{errors.New("something unexpected"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		status, _ := respondStatus(t, tc.err)
		assert.Equal(t, tc.status, status, "error %v", tc.err)
	}
}

func TestRespondError_InternalErrorLeaksNothing(t *testing.T) {
	_, body := respondStatus(t, errors.New("pq: connection reset by peer"))
	assert.NotContains(t, body, "connection reset")
	assert.Contains(t, body, "INTERNAL")
}
