package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/retailcore/pos-api/internal/application/analytics"
	"github.com/retailcore/pos-api/internal/application/auth"
	"github.com/retailcore/pos-api/internal/application/fiscal"
	"github.com/retailcore/pos-api/internal/application/notify"
	"github.com/retailcore/pos-api/internal/application/reports"
	"github.com/retailcore/pos-api/internal/application/sales"
	"github.com/retailcore/pos-api/internal/application/usecase"
)

// Role names as carried in the JWT.
const (
	RoleAdmin   = "admin"
	RoleManager = "manager"
	RoleCashier = "cashier"
)

// RouterDeps carries every use case the router wires.
type RouterDeps struct {
	AuthUC         *auth.UseCase
	CustomerUC     *usecase.CustomerUseCase
	SupplierUC     *usecase.SupplierUseCase
	BrandUC        *usecase.BrandUseCase
	CategoryUC     *usecase.CategoryUseCase
	ExpenseCatUC   *usecase.ExpenseCategoryUseCase
	ProductUC      *usecase.ProductUseCase
	SaleUC         *sales.SaleUseCase
	PurchaseUC     *sales.PurchaseUseCase
	QuotationUC    *usecase.QuotationUseCase
	InvoiceUC      *usecase.InvoiceUseCase
	ExpenseUC      *usecase.ExpenseUseCase
	OrganizationUC *usecase.OrganizationUseCase
	UserUC         *usecase.UserUseCase
	DashboardUC    *analytics.DashboardUseCase
	ReportUC       *reports.UseCase
	Notifications  *notify.Service
	FiscalConfig   *fiscal.ConfigUseCase
	FiscalCoord    *fiscal.Coordinator
	FiscalMaint    *fiscal.MaintenanceUseCase
	JWTSecret      string
}

// Router registers the API routes.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api")

	// Auth (public)
	authHandler := NewAuthHandler(deps.AuthUC)
	api.Post("/auth/login", authHandler.Login)

	// Everything below requires a Bearer token.
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	backoffice := RequireRole(RoleAdmin, RoleManager)

	customers := protected.Group("/customers")
	customerHandler := NewCustomerHandler(deps.CustomerUC)
	customers.Post("/", customerHandler.Create)
	customers.Get("/", customerHandler.List)
	customers.Get("/:id", customerHandler.GetByID)
	customers.Put("/:id", customerHandler.Update)
	customers.Patch("/:id", customerHandler.Update)
	customers.Delete("/:id", backoffice, customerHandler.Delete)

	suppliers := protected.Group("/suppliers")
	supplierHandler := NewSupplierHandler(deps.SupplierUC)
	suppliers.Post("/", supplierHandler.Create)
	suppliers.Get("/", supplierHandler.List)
	suppliers.Get("/:id", supplierHandler.GetByID)
	suppliers.Put("/:id", supplierHandler.Update)
	suppliers.Patch("/:id", supplierHandler.Update)
	suppliers.Delete("/:id", backoffice, supplierHandler.Delete)

	catalogHandler := NewCatalogHandler(deps.BrandUC, deps.CategoryUC, deps.ExpenseCatUC)
	brands := protected.Group("/brands")
	brands.Post("/", catalogHandler.CreateBrand)
	brands.Get("/", catalogHandler.ListBrands)
	brands.Put("/:id", catalogHandler.RenameBrand)
	brands.Delete("/:id", backoffice, catalogHandler.DeleteBrand)

	categories := protected.Group("/categories")
	categories.Post("/", catalogHandler.CreateCategory)
	categories.Get("/", catalogHandler.ListCategories)
	categories.Delete("/:id", backoffice, catalogHandler.DeleteCategory)

	expenseCategories := protected.Group("/expense-categories")
	expenseCategories.Post("/", catalogHandler.CreateExpenseCategory)
	expenseCategories.Get("/", catalogHandler.ListExpenseCategories)
	expenseCategories.Delete("/:id", backoffice, catalogHandler.DeleteExpenseCategory)

	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)
	products.Patch("/:id", productHandler.Update)
	products.Delete("/:id", backoffice, productHandler.Delete)

	salesGroup := protected.Group("/sales")
	saleHandler := NewSaleHandler(deps.SaleUC)
	salesGroup.Post("/", saleHandler.Create)
	salesGroup.Get("/", saleHandler.List)
	salesGroup.Get("/:id", saleHandler.GetByID)
	salesGroup.Post("/:id/void", backoffice, saleHandler.Void)

	purchases := protected.Group("/purchases")
	purchaseHandler := NewPurchaseHandler(deps.PurchaseUC)
	purchases.Post("/", purchaseHandler.Create)
	purchases.Get("/", purchaseHandler.List)
	purchases.Get("/:id", purchaseHandler.GetByID)
	purchases.Post("/:id/cancel", backoffice, purchaseHandler.Cancel)

	quotations := protected.Group("/quotations")
	quotationHandler := NewQuotationHandler(deps.QuotationUC)
	quotations.Post("/", quotationHandler.Create)
	quotations.Get("/", quotationHandler.List)
	quotations.Get("/:id", quotationHandler.GetByID)
	quotations.Patch("/:id/status", quotationHandler.SetStatus)
	quotations.Delete("/:id", quotationHandler.Delete)

	invoices := protected.Group("/invoices")
	invoiceHandler := NewInvoiceHandler(deps.InvoiceUC)
	invoices.Post("/", invoiceHandler.Create)
	invoices.Get("/", invoiceHandler.List)
	invoices.Get("/:id", invoiceHandler.GetByID)
	invoices.Post("/:id/payments", invoiceHandler.RecordPayment)
	invoices.Post("/:id/cancel", backoffice, invoiceHandler.Cancel)
	invoices.Delete("/:id", backoffice, invoiceHandler.Delete)

	expenses := protected.Group("/expenses")
	expenseHandler := NewExpenseHandler(deps.ExpenseUC)
	expenses.Post("/", expenseHandler.Create)
	expenses.Get("/", expenseHandler.List)
	expenses.Get("/:id", expenseHandler.GetByID)
	expenses.Put("/:id", backoffice, expenseHandler.Update)
	expenses.Patch("/:id", backoffice, expenseHandler.Update)
	expenses.Delete("/:id", backoffice, expenseHandler.Delete)

	organization := protected.Group("/organization")
	organizationHandler := NewOrganizationHandler(deps.OrganizationUC)
	organization.Get("/", organizationHandler.Get)
	organization.Put("/", RequireRole(RoleAdmin), organizationHandler.Upsert)

	users := protected.Group("/users", RequireRole(RoleAdmin))
	userHandler := NewUserHandler(deps.UserUC)
	users.Post("/", userHandler.Create)
	users.Get("/", userHandler.List)
	users.Get("/:id", userHandler.GetByID)
	users.Put("/:id", userHandler.Update)
	users.Patch("/:id", userHandler.Update)
	users.Delete("/:id", userHandler.Delete)

	dashboardHandler := NewDashboardHandler(deps.DashboardUC)
	protected.Get("/dashboard/summary", dashboardHandler.Summary)

	reportsGroup := protected.Group("/reports")
	reportHandler := NewReportHandler(deps.ReportUC)
	reportsGroup.Post("/sales/pdf", backoffice, reportHandler.SalesPDF)
	reportsGroup.Get("/receipt/:saleId", reportHandler.ReceiptPDF)

	notifications := protected.Group("/notifications")
	notificationHandler := NewNotificationHandler(deps.Notifications)
	notifications.Get("/", notificationHandler.List)
	notifications.Patch("/:id/read", notificationHandler.MarkRead)

	fdms := protected.Group("/fdms")
	fdmsHandler := NewFDMSHandler(deps.FiscalConfig, deps.FiscalCoord, deps.FiscalMaint)
	fdms.Get("/config", fdmsHandler.GetConfig)
	fdms.Post("/config", backoffice, fdmsHandler.UpsertConfig)
	fdms.Patch("/config", backoffice, fdmsHandler.ToggleConfig)
	fdms.Post("/invoice", fdmsHandler.SubmitInvoice)
	fdms.Get("/invoice", fdmsHandler.ListTransactions)
	fdms.Get("/status", fdmsHandler.Status)
	fdms.Post("/status", backoffice, fdmsHandler.RunAction)
}
