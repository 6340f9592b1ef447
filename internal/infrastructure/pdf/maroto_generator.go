// Package pdf renders the downloadable documents of the API: the sales
// report for a date range and the printable receipt of a single sale, fiscal
// QR included when the sale was fiscalized.
package pdf

import (
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	mentity "github.com/johnfercher/maroto/v2/pkg/core/entity"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/retailcore/pos-api/internal/application/reports"
	"github.com/retailcore/pos-api/internal/domain/entity"
)

var (
	colorPrimary = &props.Color{Red: 16, Green: 84, Blue: 60}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

var _ reports.Generator = (*MarotoGenerator)(nil)

// MarotoGenerator implements reports.Generator using Maroto v2.
type MarotoGenerator struct{}

// NewMarotoGenerator builds the generator.
func NewMarotoGenerator() *MarotoGenerator { return &MarotoGenerator{} }

// SalesReport renders the sales report for a date range.
func (g *MarotoGenerator) SalesReport(data *reports.SalesReportData) ([]byte, error) {
	m := maroto.New(pageConfig(data.Title, data.Organization))

	m.AddRows(reportHeaderRow(data))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(metricsRow(data.Metrics.SaleCount, data.Metrics.Revenue, data.Metrics.Tax))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))

	m.AddRows(salesTableHeaderRow())
	for _, s := range data.Sales {
		m.AddRows(salesTableRow(s))
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generate sales report: %w", err)
	}
	return doc.GetBytes(), nil
}

// ReceiptPDF renders one sale as a printable receipt.
func (g *MarotoGenerator) ReceiptPDF(sale *entity.Sale, lines []reports.ReceiptLine, org *entity.Organization) ([]byte, error) {
	m := maroto.New(pageConfig("Receipt "+sale.InvoiceNo, org))

	m.AddRows(receiptHeaderRow(sale, org))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	m.AddRows(receiptTableHeaderRow())
	for _, l := range lines {
		m.AddRows(receiptLineRow(l))
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(receiptTotalsRow(sale, currency(org)))

	if sale.IsFiscalized && sale.FiscalQRData != "" {
		m.AddRows(fiscalFooterRows(sale)...)
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generate receipt: %w", err)
	}
	return doc.GetBytes(), nil
}

func pageConfig(title string, org *entity.Organization) *mentity.Config {
	builder := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(title, true)
	if org != nil {
		builder = builder.WithAuthor(org.Name, true)
	}
	return builder.Build()
}

func reportHeaderRow(data *reports.SalesReportData) core.Row {
	orgName, orgTIN := "", ""
	if data.Organization != nil {
		orgName = data.Organization.Name
		orgTIN = data.Organization.TIN
	}
	period := data.From.Format("02 Jan 2006") + " to " + data.To.Format("02 Jan 2006")

	return row.New(18).Add(
		col.New(7).Add(
			text.New(orgName, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("TIN: "+nonEmpty(orgTIN, "-"), props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New(data.Title, props.Text{
				Style: fontstyle.Bold, Size: 11, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New(period, props.Text{
				Size: 8, Align: align.Right, Top: 9, Color: colorGray,
			}),
		),
	)
}

func metricsRow(count int, revenue, tax decimal.Decimal) core.Row {
	metric := func(label, value string) core.Col {
		return col.New(4).Add(
			text.New(label, props.Text{Size: 8, Color: colorGray, Top: 1, Align: align.Center}),
			text.New(value, props.Text{
				Style: fontstyle.Bold, Size: 12, Top: 6, Align: align.Center, Color: colorPrimary,
			}),
		)
	}
	return row.New(14).Add(
		metric("Sales", fmt.Sprintf("%d", count)),
		metric("Revenue", revenue.StringFixed(2)),
		metric("Tax collected", tax.StringFixed(2)),
	)
}

func salesTableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorPrimary, Top: 2,
		}))
	}
	return row.New(8).Add(
		h("Invoice", 3, align.Left),
		h("Date", 3, align.Left),
		h("Status", 2, align.Center),
		h("Tax", 2, align.Right),
		h("Total", 2, align.Right),
	)
}

func salesTableRow(s *entity.Sale) core.Row {
	cell := func(value string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(value, props.Text{Size: 8, Align: a, Top: 1}))
	}
	return row.New(6).Add(
		cell(s.InvoiceNo, 3, align.Left),
		cell(s.CreatedAt.Format("02/01/2006 15:04"), 3, align.Left),
		cell(s.Status, 2, align.Center),
		cell(s.TaxAmount.StringFixed(2), 2, align.Right),
		cell(s.Total.StringFixed(2), 2, align.Right),
	)
}

func receiptHeaderRow(sale *entity.Sale, org *entity.Organization) core.Row {
	orgName, orgAddr := "", ""
	if org != nil {
		orgName = org.Name
		orgAddr = org.Address
	}
	return row.New(18).Add(
		col.New(7).Add(
			text.New(orgName, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New(nonEmpty(orgAddr, "-"), props.Text{Size: 8, Top: 9, Color: colorGray}),
		),
		col.New(5).Add(
			text.New("RECEIPT", props.Text{
				Style: fontstyle.Bold, Size: 9, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New(sale.InvoiceNo, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
			}),
			text.New(sale.CreatedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

func receiptTableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorPrimary, Top: 2,
		}))
	}
	return row.New(8).Add(
		h("Qty", 1, align.Center),
		h("Item", 6, align.Left),
		h("Unit", 2, align.Right),
		h("Tax%", 1, align.Center),
		h("Amount", 2, align.Right),
	)
}

func receiptLineRow(l reports.ReceiptLine) core.Row {
	return row.New(6).Add(
		col.New(1).Add(text.New(l.Quantity.String(), props.Text{Size: 8, Align: align.Center, Top: 1})),
		col.New(6).Add(text.New(l.ProductName, props.Text{Size: 8, Align: align.Left, Top: 1})),
		col.New(2).Add(text.New(l.UnitPrice.StringFixed(2), props.Text{Size: 8, Align: align.Right, Top: 1})),
		col.New(1).Add(text.New(l.TaxRate.StringFixed(0), props.Text{Size: 8, Align: align.Center, Top: 1})),
		col.New(2).Add(text.New(l.Subtotal.StringFixed(2), props.Text{Size: 8, Align: align.Right, Top: 1})),
	)
}

func receiptTotalsRow(sale *entity.Sale, cur string) core.Row {
	label := func(s string) core.Component {
		return text.New(s, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2})
	}
	value := func(s string) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1})
	}
	return row.New(26).Add(
		col.New(5),
		col.New(4).Add(
			label("Subtotal:"),
			label("Discount:"),
			label("Tax:"),
			text.New("TOTAL ("+cur+"):", props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Right: 2,
			}),
		),
		col.New(3).Add(
			value(sale.Subtotal.StringFixed(2)),
			value(sale.Discount.StringFixed(2)),
			value(sale.TaxAmount.StringFixed(2)),
			text.New(sale.Total.StringFixed(2), props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Right: 1,
			}),
		),
	)
}

func fiscalFooterRows(sale *entity.Sale) []core.Row {
	return []core.Row{
		row.New(3),
		row.New(1).Add(line.NewCol(12, props.Line{Color: colorGray, Thickness: 0.3})),
		row.New(50).Add(
			col.New(4).Add(code.NewQr(sale.FiscalQRData, props.Rect{
				Percent: 95,
				Center:  true,
			})),
			col.New(8).Add(
				text.New("Scan the QR code to verify this\nreceipt on the ZIMRA FDMS portal.", props.Text{
					Size: 8, Top: 4, Left: 3, Color: colorGray,
				}),
				text.New("FISCALIZED RECEIPT", props.Text{
					Style: fontstyle.Bold, Size: 10, Top: 24, Left: 3, Color: colorPrimary,
				}),
			),
		),
	}
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

func currency(org *entity.Organization) string {
	if org != nil && org.Currency != "" {
		return org.Currency
	}
	return "USD"
}
