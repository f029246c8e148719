package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/kinawahq/foodorder-backend/api/routes"
	"github.com/kinawahq/foodorder-backend/internal/catalog"
	"github.com/kinawahq/foodorder-backend/internal/invoices"
	"github.com/kinawahq/foodorder-backend/internal/orders"
	"github.com/kinawahq/foodorder-backend/internal/programs"
	"github.com/kinawahq/foodorder-backend/pkg/config"
	"github.com/kinawahq/foodorder-backend/pkg/db"
	"github.com/kinawahq/foodorder-backend/pkg/db/models"
	"github.com/kinawahq/foodorder-backend/pkg/logger"
	"github.com/kinawahq/foodorder-backend/pkg/metrics"
	"github.com/kinawahq/foodorder-backend/pkg/migrate"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, cfg.FeatureFlags, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if cfg.FeatureFlags.UseSQLite {
		if err := dbClient.DB().AutoMigrate(
			&models.Product{},
			&models.Program{},
			&models.Order{},
			&models.OrderItem{},
			&models.InvoiceRecord{},
			&models.InvoiceItem{},
		); err != nil {
			logg.Error(context.Background(), "failed to auto-migrate sqlite schema", err)
			os.Exit(1)
		}
	} else if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	if cfg.FeatureFlags.SeedOnBoot {
		created, err := programs.Seed(context.Background(), dbClient.DB())
		if err != nil {
			logg.Error(context.Background(), "failed to seed programs", err)
			os.Exit(1)
		}
		if created > 0 {
			ctx := logg.WithField(context.Background(), "programs_created", created)
			logg.Info(ctx, "seeded default programs")
		}
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	reconcileMetrics := metrics.NewReconcileMetrics(registry)

	catalogSvc, err := catalog.NewService(
		catalog.NewRepository(dbClient.DB()),
		reconcileMetrics,
		cfg.Catalog.SearchLimit,
		cfg.Catalog.FrequentLimit,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog service", err)
		os.Exit(1)
	}

	programSvc, err := programs.NewService(programs.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create program service", err)
		os.Exit(1)
	}

	orderSvc, err := orders.NewService(
		orders.NewRepository(dbClient.DB()),
		dbClient,
		catalog.NewRepository(dbClient.DB()),
		programs.NewRepository(dbClient.DB()),
		logg,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create order service", err)
		os.Exit(1)
	}

	invoiceSvc, err := invoices.NewService(
		invoices.NewRepository(dbClient.DB()),
		dbClient,
		catalogSvc,
		reconcileMetrics,
		logg,
		cfg.Reconcile.PriceToleranceCents,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create invoice service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:    addr,
		Handler: routes.NewRouter(cfg, logg, dbClient, registry, catalogSvc, programSvc, orderSvc, invoiceSvc),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
