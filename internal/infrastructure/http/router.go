package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	"wishlist-service/pkg/health"
	"wishlist-service/pkg/middleware"
)

// RouterConfig carries everything the HTTP surface needs.
type RouterConfig struct {
	ServiceName        string
	Controller         *HTTPWishlistController
	Health             *health.Handler
	Registry           *prometheus.Registry
	CORSAllowedOrigins []string
	RateLimitRPS       float64
	RateLimitBurst     int
	TrustForwardedFor  bool
	RequestTimeout     time.Duration
}

// NewRouter builds the chi router with the full middleware chain.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestIDMiddleware)
	r.Use(middleware.RecoveryMiddleware)
	r.Use(middleware.LoggingMiddleware)
	if cfg.Registry != nil {
		r.Use(middleware.NewHTTPMetrics(cfg.Registry).Middleware)
	}
	r.Use(middleware.Tracing(cfg.ServiceName))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(cors.New(cors.Options{
			AllowedOrigins: cfg.CORSAllowedOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Content-Type", middleware.RequestIDHeader, "traceparent"},
			ExposedHeaders: []string{middleware.RequestIDHeader},
			MaxAge:         300,
		}).Handler)
	}
	if cfg.RateLimitRPS > 0 {
		limiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
		limiter.TrustForwardedFor = cfg.TrustForwardedFor
		r.Use(limiter.Middleware)
	}
	r.Use(middleware.TimeoutMiddleware(cfg.RequestTimeout))

	r.NotFound(middleware.NotFoundHandler)
	r.MethodNotAllowed(middleware.MethodNotAllowedHandler)

	if cfg.Health != nil {
		r.Get("/health", cfg.Health.ReadinessHandler())
		r.Get("/health/live", cfg.Health.LivenessHandler())
		r.Get("/health/ready", cfg.Health.ReadinessHandler())
	}
	if cfg.Registry != nil {
		r.Handle("/metrics", promhttp.HandlerFor(cfg.Registry, promhttp.HandlerOpts{Registry: cfg.Registry}))
	}

	cfg.Controller.RegisterRoutes(r)

	return r
}
