package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/retailcore/pos-api/internal/application/analytics"
	"github.com/retailcore/pos-api/internal/application/auth"
	appfiscal "github.com/retailcore/pos-api/internal/application/fiscal"
	"github.com/retailcore/pos-api/internal/application/notify"
	"github.com/retailcore/pos-api/internal/application/reports"
	"github.com/retailcore/pos-api/internal/application/sales"
	"github.com/retailcore/pos-api/internal/application/usecase"
	"github.com/retailcore/pos-api/internal/infrastructure/cache"
	"github.com/retailcore/pos-api/internal/infrastructure/metrics"
	infrapdf "github.com/retailcore/pos-api/internal/infrastructure/pdf"
	"github.com/retailcore/pos-api/internal/infrastructure/postgres"
	"github.com/retailcore/pos-api/internal/infrastructure/zimra"
	httpRouter "github.com/retailcore/pos-api/internal/interfaces/http"
	"github.com/retailcore/pos-api/pkg/config"
	"github.com/retailcore/pos-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("load configuration: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("starting application")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("connect to PostgreSQL")
	}
	defer pool.Close()

	customerRepo := postgres.NewCustomerRepository(pool)
	supplierRepo := postgres.NewSupplierRepository(pool)
	brandRepo := postgres.NewBrandRepository(pool)
	categoryRepo := postgres.NewCategoryRepository(pool)
	expenseCatRepo := postgres.NewExpenseCategoryRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	saleRepo := postgres.NewSaleRepository(pool)
	purchaseRepo := postgres.NewPurchaseRepository(pool)
	quotationRepo := postgres.NewQuotationRepository(pool)
	invoiceRepo := postgres.NewInvoiceRepository(pool)
	expenseRepo := postgres.NewExpenseRepository(pool)
	organizationRepo := postgres.NewOrganizationRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	analyticsRepo := postgres.NewAnalyticsRepository(pool)
	fiscalConfigRepo := postgres.NewFiscalConfigRepository(pool)
	fiscalDeviceRepo := postgres.NewFiscalDeviceRepository(pool)
	fiscalTxRepo := postgres.NewFiscalTransactionRepository(pool)
	offlineQueueRepo := postgres.NewOfflineQueueRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// Notification store: redis when configured, process memory otherwise.
	var notifyStore notify.Store
	if cfg.Redis.Addr != "" {
		redisStore := cache.NewRedisStore(cfg.Redis.Addr)
		if err := redisStore.Ping(ctx); err != nil {
			log.Fatal().Err(err).Msg("connect to redis")
		}
		defer redisStore.Close()
		notifyStore = redisStore
	} else {
		log.Warn().Msg("no redis address; notifications are in-memory only")
		notifyStore = cache.NewMemoryStore()
	}
	notifications := notify.NewService(notifyStore, log)

	// FDMS client: only deployments with an environment other than "dev"
	// talk to the gateway. In dev the coordinator issues local receipts.
	var submitter appfiscal.Submitter
	if cfg.App.Env != "dev" {
		client, err := zimra.New(cfg.ZIMRA)
		if err != nil {
			log.Fatal().Err(err).Msg("build FDMS client")
		}
		submitter = client
	}

	fiscalConfigUC := appfiscal.NewConfigUseCase(fiscalConfigRepo, fiscalDeviceRepo, submitter, log)
	fiscalCoord := appfiscal.NewCoordinator(
		fiscalConfigRepo, fiscalDeviceRepo, fiscalTxRepo, offlineQueueRepo,
		saleRepo, submitter, notifications, metrics.RecordFiscalSubmission, log,
	)
	fiscalMaint := appfiscal.NewMaintenanceUseCase(
		fiscalConfigRepo, fiscalDeviceRepo, fiscalTxRepo, offlineQueueRepo, submitter, log,
	)

	customerUC := usecase.NewCustomerUseCase(customerRepo, saleRepo, invoiceRepo, quotationRepo)
	supplierUC := usecase.NewSupplierUseCase(supplierRepo, purchaseRepo)
	brandUC := usecase.NewBrandUseCase(brandRepo, productRepo)
	categoryUC := usecase.NewCategoryUseCase(categoryRepo, productRepo)
	expenseCatUC := usecase.NewExpenseCategoryUseCase(expenseCatRepo, expenseRepo)
	productUC := usecase.NewProductUseCase(productRepo)
	saleUC := sales.NewSaleUseCase(saleRepo, productRepo, customerRepo, txRunner, fiscalCoord, log)
	purchaseUC := sales.NewPurchaseUseCase(purchaseRepo, productRepo, supplierRepo, txRunner)
	quotationUC := usecase.NewQuotationUseCase(quotationRepo, productRepo)
	invoiceUC := usecase.NewInvoiceUseCase(invoiceRepo, customerRepo)
	expenseUC := usecase.NewExpenseUseCase(expenseRepo, expenseCatRepo)
	organizationUC := usecase.NewOrganizationUseCase(organizationRepo)
	userUC := usecase.NewUserUseCase(userRepo)
	dashboardUC := analytics.NewDashboardUseCase(analyticsRepo)
	reportUC := reports.NewUseCase(saleRepo, productRepo, analyticsRepo, organizationRepo, infrapdf.NewMarotoGenerator())
	authUC := auth.NewUseCase(userRepo, cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.Expiration)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(metrics.Middleware())
	app.Get("/metrics", metrics.Handler())

	// Swagger UI: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "POS API",
	}))

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:         authUC,
		CustomerUC:     customerUC,
		SupplierUC:     supplierUC,
		BrandUC:        brandUC,
		CategoryUC:     categoryUC,
		ExpenseCatUC:   expenseCatUC,
		ProductUC:      productUC,
		SaleUC:         saleUC,
		PurchaseUC:     purchaseUC,
		QuotationUC:    quotationUC,
		InvoiceUC:      invoiceUC,
		ExpenseUC:      expenseUC,
		OrganizationUC: organizationUC,
		UserUC:         userUC,
		DashboardUC:    dashboardUC,
		ReportUC:       reportUC,
		Notifications:  notifications,
		FiscalConfig:   fiscalConfigUC,
		FiscalCoord:    fiscalCoord,
		FiscalMaint:    fiscalMaint,
		JWTSecret:      cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("HTTP server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutdown signal received, stopping server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}

	log.Info().Msg("application stopped")
}
