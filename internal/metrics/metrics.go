package metrics

import (
	"net"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

var (
	// Planner metrics
	TripsPlanned = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "roadlog_trips_planned_total",
			Help: "Total trips planned successfully",
		},
	)

	PlanDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "roadlog_plan_duration_seconds",
			Help:    "End-to-end trip planning duration in seconds",
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		},
	)

	// Upstream metrics
	RoutingUpstreamErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "roadlog_routing_upstream_errors_total",
			Help: "Routing (OSRM) upstream request errors",
		},
		[]string{"reason"},
	)

	GeocodeUpstreamErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "roadlog_geocode_upstream_errors_total",
			Help: "Geocoding (Nominatim) upstream request errors",
		},
		[]string{"reason"},
	)

	// Cache metrics
	GeocodeCacheHits = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "roadlog_geocode_cache_hits_total",
			Help: "Geocode LRU cache hits",
		},
	)

	GeocodeCacheMisses = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "roadlog_geocode_cache_misses_total",
			Help: "Geocode LRU cache misses",
		},
	)

	PlanCacheHits = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "roadlog_plan_cache_hits_total",
			Help: "Plan cache hits",
		},
	)

	PlanCacheMisses = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "roadlog_plan_cache_misses_total",
			Help: "Plan cache misses",
		},
	)

	// HTTP API metrics
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "roadlog_http_requests_total",
			Help: "Total HTTP API requests processed",
		},
		[]string{"path", "method", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "roadlog_http_request_duration_seconds",
			Help:    "HTTP API request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"path"},
	)
)

func init() {
	// Register all metrics
	prometheus.MustRegister(
		TripsPlanned,
		PlanDuration,
		RoutingUpstreamErrors,
		GeocodeUpstreamErrors,
		GeocodeCacheHits,
		GeocodeCacheMisses,
		PlanCacheHits,
		PlanCacheMisses,
		HTTPRequestsTotal,
		HTTPRequestDuration,
	)
}

// Server is the metrics HTTP server
type Server struct {
	server   *http.Server
	logger   zerolog.Logger
	listener net.Listener // Optional pre-created listener (for systemd socket activation)
}

// NewServer creates a new metrics server
func NewServer(addr string, logger zerolog.Logger) *Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	return &Server{
		server: &http.Server{
			Addr:    addr,
			Handler: mux,
		},
		logger: logger.With().Str("component", "metrics").Logger(),
	}
}

// SetListener sets a pre-created listener for systemd socket activation
func (s *Server) SetListener(ln net.Listener) {
	s.listener = ln
}

// Start starts the metrics server
func (s *Server) Start() error {
	s.logger.Info().Str("addr", s.server.Addr).Msg("Starting metrics server")
	go func() {
		var err error
		if s.listener != nil {
			s.logger.Debug().Msg("Using systemd socket-activated metrics listener")
			err = s.server.Serve(s.listener)
		} else {
			err = s.server.ListenAndServe()
		}
		if err != nil && err != http.ErrServerClosed {
			s.logger.Error().Err(err).Msg("Metrics server error")
		}
	}()
	return nil
}

// Stop stops the metrics server
func (s *Server) Stop() error {
	s.logger.Info().Msg("Stopping metrics server")
	return s.server.Close()
}
