// Package server provides the HTTP server exposing the catalog as a JSON API
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/alchemorsel/recipebook/internal/infrastructure/config"
	"github.com/alchemorsel/recipebook/internal/infrastructure/http/handlers"
	"github.com/alchemorsel/recipebook/internal/infrastructure/http/middleware"
	"github.com/alchemorsel/recipebook/internal/infrastructure/monitoring"
	"github.com/alchemorsel/recipebook/internal/ports/inbound"
	"github.com/alchemorsel/recipebook/pkg/healthcheck"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// Server represents the HTTP server
type Server struct {
	config  *config.Config
	logger  *zap.Logger
	router  *chi.Mux
	server  *http.Server
	catalog inbound.CatalogService
	metrics *monitoring.MetricsCollector
	health  *healthcheck.HealthCheck
}

// NewServer creates a new HTTP server instance. metrics may be nil.
func NewServer(
	cfg *config.Config,
	logger *zap.Logger,
	catalog inbound.CatalogService,
	metrics *monitoring.MetricsCollector,
) *Server {
	s := &Server{
		config:  cfg,
		logger:  logger.Named("http"),
		catalog: catalog,
		metrics: metrics,
	}

	s.health = s.setupHealth()

	// Initialize router
	s.router = s.setupRouter()

	// Create HTTP server
	s.server = &http.Server{
		Addr:              cfg.Address(),
		Handler:           s.router,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		MaxHeaderBytes:    1 << 20, // 1 MB
		ErrorLog:          zap.NewStdLog(s.logger),
	}

	return s
}

// setupRouter configures the HTTP router with middleware and routes
func (s *Server) setupRouter() *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(s.logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.Security())
	if s.metrics != nil {
		r.Use(s.metrics.HTTPMiddleware)
	}

	h := handlers.NewAPIHandlers(s.catalog, s.logger)
	r.NotFound(h.NotFound)

	// Health check
	r.Get("/health", s.health.Handler())
	r.Get("/health/live", s.health.LivenessHandler())

	if s.metrics != nil && s.config.Monitoring.EnableMetrics {
		r.Handle(s.config.Monitoring.MetricsPath, s.metrics.Handler())
	}

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.JSONOnly())
		s.setupAPIRoutes(r, h)
	})

	return r
}

// setupHealth registers the catalog checks served on /health
func (s *Server) setupHealth() *healthcheck.HealthCheck {
	hc := healthcheck.New(s.config.App.Version, s.logger)
	hc.SetCacheTTL(time.Second)

	hc.Register("catalog", healthcheck.NewCustomChecker("catalog",
		func(ctx context.Context) (healthcheck.Status, string, interface{}) {
			return healthcheck.StatusHealthy, "", map[string]interface{}{"recipes": s.catalog.Len()}
		},
	))
	if s.config.Catalog.File != "" {
		hc.Register("catalog_file", healthcheck.NewFileChecker(s.config.Catalog.File))
	}

	return hc
}

// setupAPIRoutes configures REST API routes
func (s *Server) setupAPIRoutes(r chi.Router, h *handlers.APIHandlers) {
	writeLimit := middleware.RateLimit(s.config.Server.WriteRatePerMin, s.config.Server.WriteBurst)

	r.Route("/recipes", func(r chi.Router) {
		r.Get("/", h.ListRecipes)
		r.With(writeLimit).Post("/", h.CreateRecipe)
		r.Get("/sorted", h.SortedRecipes)
		r.Get("/random", h.RandomRecipe)
		r.Get("/{name}", h.GetRecipe)
		r.Get("/{name}/healthier", h.HealthierAlternative)
	})

	r.Route("/search", func(r chi.Router) {
		r.Get("/ingredient", h.SearchByIngredient)
		r.Get("/ingredients", h.SearchByIngredientSet)
		r.Get("/category", h.SearchByCategory)
		r.Get("/calories", h.SearchByCalories)
	})

	r.Get("/meal-plan", h.MealPlan)
	r.With(writeLimit).Post("/reload", h.Reload)
}

// Handler returns the root handler, used by tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start listens on the configured address and serves until Shutdown
func (s *Server) Start() error {
	listener, err := net.Listen("tcp", s.server.Addr)
	if err != nil {
		return err
	}
	return s.Serve(listener)
}

// Serve serves on an existing listener until Shutdown
func (s *Server) Serve(listener net.Listener) error {
	s.logger.Info("Starting HTTP server",
		zap.String("address", listener.Addr().String()),
		zap.String("environment", s.config.App.Environment),
	)

	if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully shuts down the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	return s.server.Shutdown(ctx)
}
