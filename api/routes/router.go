package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dariomunoz/forkline-backend/api/controllers"
	"github.com/dariomunoz/forkline-backend/api/middleware"
	"github.com/dariomunoz/forkline-backend/pkg/config"
	"github.com/dariomunoz/forkline-backend/pkg/logger"
	"github.com/dariomunoz/forkline-backend/pkg/metrics"
)

// Deps bundles everything the router wires into handlers.
type Deps struct {
	Config      *config.Config
	Logger      *logger.Logger
	Registry    *prometheus.Registry
	HTTPMetrics *metrics.HTTPMetrics
	DBPinger    controllers.HealthPinger
	RedisPinger controllers.HealthPinger
	Limiter     middleware.RateLimiter
	Quotes      controllers.QuoteService
	Settlements controllers.SettlementService
	FeeConfigs  controllers.FeeConfigService
	Analytics   controllers.AnalyticsService
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(deps.HTTPMetrics),
		middleware.CORS(cfg.CORS.AllowedOrigins),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.DBPinger, deps.RedisPinger))
	})

	if deps.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}

	writeLimit := middleware.RateLimit(
		middleware.NewRateLimitPolicy("write", cfg.RateLimit.Window, cfg.RateLimit.WriteLimit),
		deps.Limiter, logg,
	)
	adminLimit := middleware.RateLimit(
		middleware.NewRateLimitPolicy("admin", cfg.RateLimit.Window, cfg.RateLimit.AdminLimit),
		deps.Limiter, logg,
	)

	r.Route("/api/v1", func(r chi.Router) {
		r.With(writeLimit).Post("/quotes", controllers.CreateQuote(deps.Quotes, logg))
		r.With(writeLimit).Post("/settlements", controllers.RecordSettlement(deps.Settlements, logg))
		r.Get("/restaurants/{restaurantId}/settlements", controllers.ListSettlements(deps.Settlements, logg))
		r.Get("/analytics/revenue", controllers.RevenueAnalytics(deps.Analytics, logg))
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(adminLimit)
		r.Route("/restaurants/{restaurantId}/fee-config", func(r chi.Router) {
			r.Get("/", controllers.GetFeeConfig(deps.FeeConfigs, logg))
			r.Put("/", controllers.PutFeeConfig(deps.FeeConfigs, logg))
			r.Delete("/", controllers.DeleteFeeConfig(deps.FeeConfigs, logg))
		})
	})

	return r
}
