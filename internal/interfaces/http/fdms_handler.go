package http

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/retailcore/pos-api/internal/application/dto"
	"github.com/retailcore/pos-api/internal/application/fiscal"
)

// FDMSHandler exposes the ZIMRA fiscal gateway surface: configuration,
// invoice submission, transaction history and maintenance actions.
type FDMSHandler struct {
	config      *fiscal.ConfigUseCase
	coordinator *fiscal.Coordinator
	maintenance *fiscal.MaintenanceUseCase
}

// NewFDMSHandler builds the handler.
func NewFDMSHandler(
	config *fiscal.ConfigUseCase,
	coordinator *fiscal.Coordinator,
	maintenance *fiscal.MaintenanceUseCase,
) *FDMSHandler {
	return &FDMSHandler{config: config, coordinator: coordinator, maintenance: maintenance}
}

// GetConfig GET /api/fdms/config
func (h *FDMSHandler) GetConfig(c *fiber.Ctx) error {
	out, err := h.config.Get(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	if out == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_CONFIGURED", Message: "no fiscal configuration"})
	}
	return c.JSON(out)
}

// UpsertConfig POST /api/fdms/config
func (h *FDMSHandler) UpsertConfig(c *fiber.Ctx) error {
	var in dto.UpsertFiscalConfigRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.config.Upsert(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ToggleConfig PATCH /api/fdms/config
func (h *FDMSHandler) ToggleConfig(c *fiber.Ctx) error {
	var in dto.ToggleFiscalConfigRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.config.Toggle(c.UserContext(), in.Enabled)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// SubmitInvoice POST /api/fdms/invoice
func (h *FDMSHandler) SubmitInvoice(c *fiber.Ctx) error {
	var in dto.SubmitFiscalInvoiceRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.coordinator.Submit(c.UserContext(), in)
	if err != nil {
		return respondFiscalError(c, err)
	}
	return c.JSON(out)
}

// ListTransactions GET /api/fdms/invoice?status=failed&limit=50
func (h *FDMSHandler) ListTransactions(c *fiber.Ctx) error {
	limit, _ := strconv.Atoi(c.Query("limit", "50"))
	out, err := h.coordinator.ListTransactions(c.UserContext(), c.Query("status"), limit)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Status GET /api/fdms/status
func (h *FDMSHandler) Status(c *fiber.Ctx) error {
	out, err := h.maintenance.Status(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// RunAction POST /api/fdms/status
func (h *FDMSHandler) RunAction(c *fiber.Ctx) error {
	var in dto.FiscalActionRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.maintenance.Run(c.UserContext(), in.Action)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
