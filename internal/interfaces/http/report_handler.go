package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/retailcore/pos-api/internal/application/dto"
	"github.com/retailcore/pos-api/internal/application/reports"
)

// ReportHandler serves downloadable PDF documents.
type ReportHandler struct {
	uc *reports.UseCase
}

// NewReportHandler builds the handler.
func NewReportHandler(uc *reports.UseCase) *ReportHandler {
	return &ReportHandler{uc: uc}
}

// SalesPDF POST /api/reports/sales/pdf
func (h *ReportHandler) SalesPDF(c *fiber.Ctx) error {
	var in dto.SalesReportRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	pdf, name, err := h.uc.SalesPDF(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return sendPDF(c, pdf, name)
}

// ReceiptPDF GET /api/reports/receipt/:saleId
func (h *ReportHandler) ReceiptPDF(c *fiber.Ctx) error {
	pdf, name, err := h.uc.ReceiptPDF(c.UserContext(), c.Params("saleId"))
	if err != nil {
		return respondError(c, err)
	}
	return sendPDF(c, pdf, name)
}

func sendPDF(c *fiber.Ctx, pdf []byte, name string) error {
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+name+`"`)
	return c.Send(pdf)
}
