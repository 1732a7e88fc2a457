package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/denimhub/denimhub-backend/api/routes"
	"github.com/denimhub/denimhub-backend/internal/activitylog"
	"github.com/denimhub/denimhub-backend/internal/coupons"
	"github.com/denimhub/denimhub-backend/internal/exchangerates"
	"github.com/denimhub/denimhub-backend/internal/inventory"
	"github.com/denimhub/denimhub-backend/internal/orders"
	"github.com/denimhub/denimhub-backend/internal/reports"
	"github.com/denimhub/denimhub-backend/internal/tracking"
	"github.com/denimhub/denimhub-backend/internal/users"
	"github.com/denimhub/denimhub-backend/pkg/config"
	"github.com/denimhub/denimhub-backend/pkg/db"
	"github.com/denimhub/denimhub-backend/pkg/instance"
	"github.com/denimhub/denimhub-backend/pkg/logger"
	"github.com/denimhub/denimhub-backend/pkg/metrics"
	"github.com/denimhub/denimhub-backend/pkg/migrate"
	"github.com/denimhub/denimhub-backend/pkg/redis"
)

const shutdownTimeout = 15 * time.Second

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

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRun(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run migrations", err)
		os.Exit(1)
	}

	var redisClient *redis.Client
	if cfg.Redis.Enabled() {
		redisClient, err = redis.New(context.Background(), cfg.Redis, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap redis", err)
			os.Exit(1)
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing redis", err)
			}
		}()
	} else {
		logg.Warn(context.Background(), "redis not configured, idempotent replay disabled")
	}

	deps, err := buildDependencies(cfg, logg, dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to wire services", err)
		os.Exit(1)
	}
	deps.Redis = redisClient

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"instance": instance.ID(),
	})

	server := &http.Server{
		Addr:              addr,
		Handler:           routes.NewRouter(cfg, logg, deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		logg.Info(ctx, "starting api server")
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-runCtx.Done():
		logg.Info(ctx, "shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
		}
	}
	logg.Info(ctx, "api server stopped")
}

func buildDependencies(cfg *config.Config, logg *logger.Logger, dbClient *db.Client) (routes.Dependencies, error) {
	gormDB := dbClient.DB()

	activityRepo := activitylog.NewRepository(gormDB)
	recorder := activitylog.NewRecorder(activityRepo, logg)
	activityService, err := activitylog.NewService(activityRepo)
	if err != nil {
		return routes.Dependencies{}, err
	}

	stock := inventory.NewStock(inventory.StockOptions{
		AllowNegative: cfg.Inventory.AllowNegativeStock,
		Logger:        logg,
	})

	ordersService, err := orders.NewService(orders.ServiceParams{
		Repo:      orders.NewRepository(gormDB),
		Tx:        dbClient,
		Stock:     stock,
		Coupons:   coupons.NewTracker(),
		Customers: users.NewProvisioner(cfg.Password),
		Activity:  recorder,
		Metrics:   metrics.NewOrderMetrics(prometheus.DefaultRegisterer),
		Logger:    logg,
	})
	if err != nil {
		return routes.Dependencies{}, err
	}

	inventoryService, err := inventory.NewService(inventory.ServiceParams{
		Repo:     inventory.NewRepository(gormDB),
		Tx:       dbClient,
		Stock:    stock,
		Activity: recorder,
	})
	if err != nil {
		return routes.Dependencies{}, err
	}

	reportsService, err := reports.NewService(reports.NewRepository(gormDB))
	if err != nil {
		return routes.Dependencies{}, err
	}

	ratesService, err := exchangerates.NewService(exchangerates.NewRepository(gormDB), dbClient, recorder)
	if err != nil {
		return routes.Dependencies{}, err
	}

	trackingService, err := tracking.NewService(tracking.NewRepository(gormDB))
	if err != nil {
		return routes.Dependencies{}, err
	}

	return routes.Dependencies{
		DB:            dbClient,
		Gatherer:      prometheus.DefaultGatherer,
		HTTPMetrics:   metrics.NewHTTPMetrics(prometheus.DefaultRegisterer),
		Orders:        ordersService,
		Inventory:     inventoryService,
		Reports:       reportsService,
		ExchangeRates: ratesService,
		Tracking:      trackingService,
		ActivityLogs:  activityService,
	}, nil
}
