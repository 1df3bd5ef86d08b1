package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"loan-engine/internal/api/handler"
	mw "loan-engine/internal/api/middleware"
	"loan-engine/internal/config"
	"loan-engine/internal/domain/loan"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/traceid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SetupRouter wires the HTTP API. ctx bounds background work started by the
// middleware stack.
func SetupRouter(ctx context.Context, loanService loan.Service, cfg *config.Config, logger *slog.Logger) *chi.Mux {
	router := chi.NewRouter()

	setupMiddleware(ctx, router, cfg, logger)
	setupMetricsEndpoint(router, cfg, logger)
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})
	setupLoanRoutes(router, loanService, cfg, logger)

	return router
}

func setupMiddleware(ctx context.Context, router *chi.Mux, cfg *config.Config, logger *slog.Logger) {
	router.Use(middleware.RequestID)
	if cfg.Server.TrustProxyHeaders {
		router.Use(middleware.RealIP)
	}
	router.Use(traceid.Middleware)
	router.Use(mw.StructuredLogger(logger))
	router.Use(middleware.Recoverer)
	router.Use(middleware.Compress(5))
	router.Use(middleware.Timeout(60 * time.Second))
	router.Use(mw.NewRateLimiterMiddleware(ctx, cfg.Server.RateLimit, logger).Middleware)
	router.Use(mw.MetricsMiddleware())
}

func setupMetricsEndpoint(router *chi.Mux, cfg *config.Config, logger *slog.Logger) {
	metricsPath := cfg.Metrics.Path
	if metricsPath == "" {
		metricsPath = "/metrics"
	}
	logger.Info("Setting up Prometheus metrics endpoint", "path", metricsPath)
	router.Handle(metricsPath, promhttp.Handler())
}

func setupLoanRoutes(router *chi.Mux, loanService loan.Service, cfg *config.Config, logger *slog.Logger) {
	loanHandler := handler.NewLoanHandler(loanService, logger)

	if cfg.Server.Auth.Enabled {
		authHandler := handler.NewAuthHandler(cfg.Server.Auth, logger)
		router.Route("/auth", func(r chi.Router) {
			r.Post("/token", authHandler.GenerateBearerToken)
		})
	}

	router.Route("/loans", func(r chi.Router) {
		r.Use(mw.AuthMiddleware(cfg.Server.Auth, logger))
		r.Post("/validate", loanHandler.ValidateLoan)
		r.Post("/projection", loanHandler.ProjectLoan)
		r.Post("/schedule", loanHandler.GetSchedule)
		r.Post("/summary", loanHandler.Summarize)
	})
}
