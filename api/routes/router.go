package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/denimhub/denimhub-backend/api/controllers"
	inventorycontrollers "github.com/denimhub/denimhub-backend/api/controllers/inventory"
	ordercontrollers "github.com/denimhub/denimhub-backend/api/controllers/orders"
	"github.com/denimhub/denimhub-backend/api/middleware"
	"github.com/denimhub/denimhub-backend/internal/activitylog"
	"github.com/denimhub/denimhub-backend/internal/exchangerates"
	"github.com/denimhub/denimhub-backend/internal/inventory"
	"github.com/denimhub/denimhub-backend/internal/orders"
	"github.com/denimhub/denimhub-backend/internal/reports"
	"github.com/denimhub/denimhub-backend/internal/tracking"
	"github.com/denimhub/denimhub-backend/pkg/config"
	"github.com/denimhub/denimhub-backend/pkg/logger"
	"github.com/denimhub/denimhub-backend/pkg/metrics"
	"github.com/denimhub/denimhub-backend/pkg/redis"
)

// Dependencies are the services and infrastructure the router mounts.
// DB and Redis may be nil; Redis being nil disables idempotent replay.
type Dependencies struct {
	DB          controllers.Pinger
	Redis       *redis.Client
	Gatherer    prometheus.Gatherer
	HTTPMetrics *metrics.HTTPMetrics

	Orders        orders.Service
	Inventory     inventory.Service
	Reports       reports.Service
	ExchangeRates exchangerates.Service
	Tracking      tracking.Service
	ActivityLogs  activitylog.Service
}

func NewRouter(cfg *config.Config, logg *logger.Logger, deps Dependencies) http.Handler {
	// config.Load rejects an unparsable list.
	trustedProxies, _ := cfg.Proxy.Networks()

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.ClientIP(trustedProxies),
		middleware.Logging(logg, deps.HTTPMetrics),
		middleware.CORS(cfg.CORS.AllowedOrigins),
	)

	readiness := map[string]controllers.Pinger{"db": deps.DB}
	var idempotencyStore redis.IdempotencyStore
	if deps.Redis != nil {
		readiness["redis"] = deps.Redis
		idempotencyStore = deps.Redis
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, readiness, logg))
	})
	if deps.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/public", func(r chi.Router) {
		r.Get("/orders/track/{token}", controllers.TrackOrder(deps.Tracking, logg))
		r.Get("/exchange-rates/convert", controllers.ConvertCurrency(deps.ExchangeRates, logg))
	})

	r.Route("/api/admin", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.RequireConsole(logg))
		r.Use(middleware.Idempotency(idempotencyStore, logg))

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", ordercontrollers.List(deps.Orders, logg))
			r.Post("/manual", ordercontrollers.CreateManual(deps.Orders, logg))
			r.Get("/{id}", ordercontrollers.Detail(deps.Orders, logg))
			r.Patch("/{id}/status", ordercontrollers.UpdateStatus(deps.Orders, logg))
			r.Patch("/{id}/payment-status", ordercontrollers.UpdatePaymentStatus(deps.Orders, logg))
			r.Put("/{id}/tracking", ordercontrollers.UpdateTracking(deps.Orders, logg))
		})

		r.Route("/inventory", func(r chi.Router) {
			r.Get("/", inventorycontrollers.Overview(deps.Inventory, logg))
			r.Get("/low-stock", inventorycontrollers.LowStock(deps.Inventory, logg))
			r.Get("/movements", inventorycontrollers.Movements(deps.Inventory, logg))
			r.Post("/adjustments", inventorycontrollers.CreateAdjustment(deps.Inventory, logg))
		})

		r.Get("/reports/sales", controllers.SalesReport(deps.Reports, logg))

		r.Route("/exchange-rates", func(r chi.Router) {
			r.Get("/", controllers.ListExchangeRates(deps.ExchangeRates, logg))
			r.Post("/", controllers.UpsertExchangeRate(deps.ExchangeRates, logg))
			r.Delete("/{id}", controllers.DeleteExchangeRate(deps.ExchangeRates, logg))
			r.Get("/{id}/logs", controllers.ExchangeRateLogs(deps.ExchangeRates, logg))
		})

		r.Get("/activity-logs", controllers.ActivityLogs(deps.ActivityLogs, logg))
	})

	return r
}
