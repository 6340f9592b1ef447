package http_test

import (
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"

	apphttp "github.com/retailcore/pos-api/internal/interfaces/http"
)

// registeredRoutes builds the route table with zero-value dependencies.
// Handlers are never invoked; only registration is under test.
func registeredRoutes() map[string]bool {
	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{})

	set := map[string]bool{}
	for _, routes := range app.Stack() {
		for _, r := range routes {
			set[r.Method+" "+r.Path] = true
		}
	}
	return set
}

func TestRouter_UpdatableResourcesAcceptPutAndPatch(t *testing.T) {
	set := registeredRoutes()
	for _, res := range []string{"customers", "suppliers", "products", "expenses", "users"} {
		assert.True(t, set["PUT /api/"+res+"/:id"], "missing PUT /api/%s/:id", res)
		assert.True(t, set["PATCH /api/"+res+"/:id"], "missing PATCH /api/%s/:id", res)
	}
}

func TestRouter_CoreSurface(t *testing.T) {
	set := registeredRoutes()
	for _, route := range []string{
		"POST /api/auth/login",
		"POST /api/sales/:id/void",
		"POST /api/purchases/:id/cancel",
		"PATCH /api/quotations/:id/status",
		"POST /api/invoices/:id/payments",
		"GET /api/dashboard/summary",
		"POST /api/fdms/invoice",
		"POST /api/fdms/status",
	} {
		assert.True(t, set[route], "missing %s", route)
	}
}
