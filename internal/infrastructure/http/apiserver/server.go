// Package apiserver provides the JSON API HTTP server
package apiserver

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/shelfie/shelfie/internal/infrastructure/config"
	"github.com/shelfie/shelfie/internal/infrastructure/http/handlers"
	"github.com/shelfie/shelfie/internal/infrastructure/http/middleware"
	"github.com/shelfie/shelfie/internal/infrastructure/monitoring"
	"github.com/shelfie/shelfie/internal/ports/inbound"
	"github.com/shelfie/shelfie/pkg/healthcheck"
)

// APIServer represents the JSON API HTTP server
type APIServer struct {
	config         *config.Config
	logger         *zap.Logger
	server         *http.Server
	router         *chi.Mux
	mealService    inbound.MealService
	metrics        *monitoring.MetricsCollector
	health         *healthcheck.HealthCheck
	openAPIHandler *OpenAPIHandler
}

// NewAPIServer creates a new API server instance. metrics and health may be nil.
func NewAPIServer(
	cfg *config.Config,
	log *zap.Logger,
	mealService inbound.MealService,
	metrics *monitoring.MetricsCollector,
	health *healthcheck.HealthCheck,
) *APIServer {
	server := &APIServer{
		config:         cfg,
		logger:         log.Named("api-server"),
		mealService:    mealService,
		metrics:        metrics,
		health:         health,
		openAPIHandler: NewOpenAPIHandler(log),
	}

	server.router = server.setupRoutes()
	server.server = &http.Server{
		Addr:         cfg.Address(),
		Handler:      server.router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return server
}

// setupRoutes configures the API routes
func (s *APIServer) setupRoutes() *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(middleware.EchoRequestID())
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(s.logger))
	r.Use(chimiddleware.Recoverer)
	if s.metrics != nil {
		r.Use(s.metrics.HTTPMiddleware)
	}
	r.Use(middleware.Security())
	r.Use(middleware.CORS(""))

	// generative calls dominate; the per-call ai timeout is enforced below this
	requestTimeout := s.config.Server.RequestTimeout
	if requestTimeout <= 0 {
		requestTimeout = 2 * time.Minute
	}
	r.Use(chimiddleware.Timeout(requestTimeout))

	h := handlers.NewMealAPIHandlers(s.mealService, s.config.Server.MaxUploadBytes, s.config.App.Version, s.logger).
		WithHealthCheck(s.health)

	healthPath := s.config.Monitoring.HealthCheckPath
	if healthPath == "" {
		healthPath = "/health"
	}
	r.Get(healthPath, h.HealthCheck)

	if s.metrics != nil && s.config.Monitoring.EnableMetrics {
		metricsPath := s.config.Monitoring.MetricsPath
		if metricsPath == "" {
			metricsPath = "/metrics"
		}
		r.Handle(metricsPath, s.metrics.Handler())
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/openapi.yaml", s.openAPIHandler.ServeOpenAPISpec)
		r.Get("/docs", s.openAPIHandler.ServeSwaggerUI)

		r.Route("/meals", func(r chi.Router) {
			r.Post("/analyze", h.AnalyzeMeal)
			r.Post("/suggest", h.SuggestMeals)
		})
		r.Post("/narrate", h.Narrate)
		r.Get("/capabilities", h.Capabilities)
		r.Get("/history", h.History)
	})

	return r
}

// Handler exposes the router, mainly for tests
func (s *APIServer) Handler() http.Handler {
	return s.router
}

// Start starts the API HTTP server
func (s *APIServer) Start() error {
	s.logger.Info("Starting JSON API server",
		zap.String("address", s.server.Addr),
	)

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Server returns the underlying HTTP server instance
func (s *APIServer) Server() *http.Server {
	return s.server
}

// Shutdown gracefully shuts down the API server
func (s *APIServer) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down API server...")
	return s.server.Shutdown(ctx)
}
