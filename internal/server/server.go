// Package server provides the HTTP API for the portfolio analysis toolkit.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/aristath/tiker/internal/cache"
	"github.com/aristath/tiker/internal/config"
	"github.com/aristath/tiker/internal/events"
	"github.com/aristath/tiker/internal/modules/analysis"
	"github.com/aristath/tiker/internal/modules/portfolio"
	"github.com/aristath/tiker/internal/modules/reports"
	"github.com/aristath/tiker/internal/modules/scoring"
)

// Config holds everything the server needs.
type Config struct {
	Log       zerolog.Logger
	AppConfig *config.Config
	Cache     *cache.Manager
	Analysis  *analysis.Service
	History   *scoring.HistoryRepository
	Manifest  *reports.ManifestRepository
	Portfolio *portfolio.Portfolio
	Bus       *events.Bus
}

// Server is the HTTP server.
type Server struct {
	router    *chi.Mux
	server    *http.Server
	log       zerolog.Logger
	cfg       *config.Config
	cache     *cache.Manager
	analysis  *analysis.Service
	history   *scoring.HistoryRepository
	manifest  *reports.ManifestRepository
	portfolio *portfolio.Portfolio
	bus       *events.Bus
	startedAt time.Time

	refreshRunning atomic.Bool
}

// New creates the HTTP server and mounts all routes.
func New(cfg Config) *Server {
	s := &Server{
		router:    chi.NewRouter(),
		log:       cfg.Log.With().Str("component", "server").Logger(),
		cfg:       cfg.AppConfig,
		cache:     cfg.Cache,
		analysis:  cfg.Analysis,
		history:   cfg.History,
		manifest:  cfg.Manifest,
		portfolio: cfg.Portfolio,
		bus:       cfg.Bus,
		startedAt: time.Now(),
	}

	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.loggingMiddleware)
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	s.setupRoutes()

	s.server = &http.Server{
		Addr:        fmt.Sprintf(":%d", s.cfg.Port),
		Handler:     s.router,
		ReadTimeout: 15 * time.Second,
		// No write timeout: SSE connections stay open
		IdleTimeout: 120 * time.Second,
	}

	return s
}

func (s *Server) setupRoutes() {
	s.router.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Get("/portfolio", s.handlePortfolio)
		r.Get("/analysis/{ticker}", s.handleAnalysis)
		r.Get("/scores", s.handleScores)
		r.Get("/scores/{ticker}/history", s.handleScoreHistory)
		r.Get("/reports", s.handleReportsList)
		r.Get("/reports/{ticker}/latest", s.handleLatestReport)
		r.Get("/cache/stats", s.handleCacheStats)
		r.Post("/cache/clear-expired", s.handleCacheClearExpired)
		r.Post("/cache/clear", s.handleCacheClear)
		r.Post("/refresh", s.handleRefresh)
		r.Get("/events/stream", s.handleEventsStream)
	})
}

// Start begins serving. Blocks until shutdown.
func (s *Server) Start() error {
	s.log.Info().Int("port", s.cfg.Port).Msg("Starting HTTP server")
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info().Msg("Shutting down HTTP server")
	return s.server.Shutdown(ctx)
}

// Handler exposes the router, used by tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		s.log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("duration", time.Since(start)).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("Request handled")
	})
}

// respondJSON writes a JSON response.
func (s *Server) respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.log.Error().Err(err).Msg("Failed to encode response")
	}
}

// respondError writes a JSON error response.
func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}
