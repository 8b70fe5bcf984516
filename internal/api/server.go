// Package api provides the HTTP API server and handlers for the Inkmark annotation server.
package api

import (
	"log/slog"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/listenupapp/inkmark/internal/config"
	"github.com/listenupapp/inkmark/internal/http/response"
	"github.com/listenupapp/inkmark/internal/ratelimit"
	"github.com/listenupapp/inkmark/internal/service"
	"github.com/listenupapp/inkmark/internal/sse"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	api           huma.API
	router        *chi.Mux
	cfg           *config.Config
	sessions      *service.SessionService
	sseManager    *sse.Manager
	sseHandler    *sse.Handler
	uploadLimiter *ratelimit.KeyedRateLimiter
	logger        *slog.Logger
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(
	cfg *config.Config,
	sessions *service.SessionService,
	sseManager *sse.Manager,
	uploadLimiter *ratelimit.KeyedRateLimiter,
	logger *slog.Logger,
) *Server {
	s := &Server{
		router:        chi.NewRouter(),
		cfg:           cfg,
		sessions:      sessions,
		sseManager:    sseManager,
		uploadLimiter: uploadLimiter,
		logger:        logger,
	}
	if sseManager != nil {
		s.sseHandler = sse.NewHandler(sseManager, sessions.Exists, logger)
	}

	s.setupMiddleware()

	humaConfig := huma.DefaultConfig("Inkmark API", "1.0.0")
	humaConfig.Info.Description = "Annotation sessions over PDF documents"
	humaConfig.Transformers = append(humaConfig.Transformers, EnvelopeTransformer)
	s.api = humachi.New(s.router, humaConfig)

	RegisterErrorHandler()
	s.setupRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// API returns the huma API, for tests and OpenAPI export.
func (s *Server) API() huma.API {
	return s.api
}

// setupMiddleware configures middleware stack.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(requestLogger(s.logger))
	s.router.Use(middleware.Recoverer)
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.cfg.Server.CORSOrigins,
		AllowedMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPut,
			http.MethodPatch, http.MethodDelete, http.MethodOptions,
		},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{"Content-Disposition", "X-Flattened", "X-Placeholder"},
		MaxAge:         300,
	}))

	s.router.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		response.NotFound(w, "Route not found", s.logger)
	})
	s.router.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		response.MethodNotAllowed(w, "Method not allowed", s.logger)
	})
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	s.registerHealthRoutes()
	s.registerSessionRoutes()
	s.registerDocumentRoutes()
	s.registerToolRoutes()
	s.registerAnnotationRoutes()
	s.registerCommentRoutes()
	s.registerSignatureRoutes()

	// SSE is a raw stream outside huma.
	if s.sseHandler != nil {
		s.router.Get("/api/v1/sessions/{id}/events", s.sseHandler.ServeHTTP)
	}
}
