// Package api exposes the trip-planning HTTP API.
package api

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/openfreight/roadlog/internal/planner"
	"github.com/openfreight/roadlog/internal/storage"
)

// Config holds the API server configuration.
type Config struct {
	ListenAddr      string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// TripPlanner plans trips. Satisfied by *planner.Planner.
type TripPlanner interface {
	Plan(ctx context.Context, req planner.Request) (*planner.Trip, error)
}

// Server represents the trip-planning HTTP server.
type Server struct {
	config   Config
	planner  TripPlanner
	cache    storage.PlanStore
	server   *http.Server
	router   *mux.Router
	listener net.Listener
	logger   zerolog.Logger
}

// NewServer creates a new API server.
func NewServer(cfg Config, tripPlanner TripPlanner, cache storage.PlanStore, logger zerolog.Logger) *Server {
	if cfg.ShutdownTimeout == 0 {
		cfg.ShutdownTimeout = 10 * time.Second
	}

	router := mux.NewRouter()

	s := &Server{
		config:  cfg,
		planner: tripPlanner,
		cache:   cache,
		router:  router,
		logger:  logger.With().Str("component", "api").Logger(),
	}

	s.setupRoutes()

	s.server = &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	s.router.Use(LoggingMiddleware(s.logger))
	s.router.Use(MetricsMiddleware())

	s.router.HandleFunc("/api/v1/trips/plan", s.handlePlanTrip).Methods("POST")
	s.router.HandleFunc("/api/v1/health", s.handleHealth).Methods("GET")
}

// SetListener overrides the listener used by Start, for systemd socket
// activation.
func (s *Server) SetListener(ln net.Listener) {
	s.listener = ln
}

// Handler returns the server's HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start begins serving requests in a background goroutine.
func (s *Server) Start() error {
	s.logger.Info().
		Str("addr", s.config.ListenAddr).
		Bool("socket_activated", s.listener != nil).
		Msg("Starting API server")

	go func() {
		var err error
		if s.listener != nil {
			err = s.server.Serve(s.listener)
		} else {
			err = s.server.ListenAndServe()
		}
		if err != nil && err != http.ErrServerClosed {
			s.logger.Error().Err(err).Msg("API server error")
		}
	}()

	return nil
}

// Stop gracefully shuts down the server.
func (s *Server) Stop() error {
	s.logger.Info().Msg("Stopping API server")

	ctx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
	defer cancel()

	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("api server shutdown: %w", err)
	}

	return nil
}
