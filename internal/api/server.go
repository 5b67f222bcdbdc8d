// Package api provides the HTTP API server and handlers for the Rasa server.
package api

import (
	"log/slog"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/rasa-media/rasa-server/internal/bootstrap"
	domainerrors "github.com/rasa-media/rasa-server/internal/errors"
	"github.com/rasa-media/rasa-server/internal/ratelimit"
	"github.com/rasa-media/rasa-server/internal/service"
)

// Server holds dependencies for HTTP handlers. The catalog endpoints are
// read-only; all writes happen through the sync engine behind the
// orchestrator.
type Server struct {
	catalog      *service.CatalogService
	instance     *service.InstanceService
	orchestrator *bootstrap.Orchestrator
	router       *chi.Mux
	api          huma.API
	syncLimiter  *ratelimit.Limiter
	logger       *slog.Logger
}

// NewServer creates an HTTP server with all routes configured.
func NewServer(catalog *service.CatalogService, instance *service.InstanceService, orchestrator *bootstrap.Orchestrator, logger *slog.Logger) *Server {
	// One sync trigger per 10s per client, small burst for retries.
	syncLimiter := ratelimit.New(0.1, 3)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Compress(5))
	router.Use(syncRateLimit(syncLimiter, logger))
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	humaConfig := huma.DefaultConfig("Rasa API", "1.0.0")
	humaAPI := humachi.New(router, humaConfig)
	RegisterErrorHandler()

	s := &Server{
		catalog:      catalog,
		instance:     instance,
		orchestrator: orchestrator,
		router:       router,
		api:          humaAPI,
		syncLimiter:  syncLimiter,
		logger:       logger,
	}

	s.registerHealthRoutes()
	s.registerInstanceRoutes()
	s.registerMovieRoutes()
	s.registerMoodRoutes()
	s.registerSyncRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Close releases server resources.
func (s *Server) Close() error {
	s.syncLimiter.Stop()
	return nil
}

// requireReady gates catalog endpoints on bootstrap completion. Until the
// schema is migrated and the initial sync settled, catalog data may not
// exist or may be unsafe to read.
func (s *Server) requireReady() error {
	if !s.orchestrator.Ready() {
		return domainerrors.NotReady("server is still starting up")
	}
	return nil
}
