package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/openfreight/roadlog/internal/api"
	"github.com/openfreight/roadlog/internal/config"
	"github.com/openfreight/roadlog/internal/geocode"
	"github.com/openfreight/roadlog/internal/metrics"
	"github.com/openfreight/roadlog/internal/planner"
	"github.com/openfreight/roadlog/internal/routing"
	"github.com/openfreight/roadlog/internal/storage"
	"github.com/openfreight/roadlog/internal/storage/memory"
	"github.com/openfreight/roadlog/internal/storage/redis"
	"github.com/openfreight/roadlog/internal/systemd"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the Roadlog API server",
	Long:  `Start the Roadlog server with the trip-planning API and metrics endpoints.`,
	RunE:  runServer,
}

func init() {
	rootCmd.AddCommand(serverCmd)
}

func runServer(cmd *cobra.Command, args []string) error {
	// Load configuration
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Setup logger
	logger := setupLogger(cfg.Logging)
	log.Logger = logger

	logger.Info().
		Str("version", version).
		Str("config", configPath).
		Msg("Starting Roadlog")

	// Check for systemd socket activation
	sdListeners, err := systemd.GetListeners()
	if err != nil {
		return fmt.Errorf("failed to get systemd listeners: %w", err)
	}
	if sdListeners.Activated {
		logger.Info().Msg("Running with systemd socket activation")
	}

	// Initialize plan cache
	store, err := openPlanStore(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize plan cache: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error().Err(err).Msg("Failed to close plan cache")
		}
	}()

	logger.Info().
		Str("type", cfg.Cache.Type).
		Str("ttl", cfg.Cache.TTL).
		Msg("Plan cache initialized")

	// Initialize geocoding client
	geocoder, err := geocode.New(geocode.Config{
		BaseURL:   cfg.Geocoding.BaseURL,
		UserAgent: cfg.Geocoding.UserAgent,
		Timeout:   parseDuration(cfg.Geocoding.Timeout, 30*time.Second),
		Retries:   cfg.Geocoding.Retries,
		CacheSize: cfg.Geocoding.CacheSize,
	}, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize geocoder: %w", err)
	}

	// Initialize routing client
	router, err := routing.New(routing.Config{
		BaseURL: cfg.Routing.BaseURL,
		Timeout: parseDuration(cfg.Routing.Timeout, 30*time.Second),
		Retries: cfg.Routing.Retries,
	}, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize router: %w", err)
	}

	// Initialize planner
	tripPlanner := planner.New(geocoder, router, plannerConfig(cfg.HOS), logger)

	logger.Info().
		Float64("max_cycle_hours", cfg.HOS.MaxCycleHours).
		Float64("max_daily_driving_hours", cfg.HOS.MaxDailyDrivingHours).
		Msg("Planner initialized")

	// Initialize API server
	apiServer := api.NewServer(api.Config{
		ListenAddr:      fmt.Sprintf("%s:%d", cfg.Server.BindAddress, cfg.Server.HTTPPort),
		ReadTimeout:     parseDuration(cfg.Server.ReadTimeout, 15*time.Second),
		WriteTimeout:    parseDuration(cfg.Server.WriteTimeout, 60*time.Second),
		ShutdownTimeout: parseDuration(cfg.Server.ShutdownTimeout, 10*time.Second),
	}, tripPlanner, store, logger)

	if sdListeners.API != nil {
		apiServer.SetListener(sdListeners.API)
	}

	if err := apiServer.Start(); err != nil {
		return fmt.Errorf("failed to start API server: %w", err)
	}

	logger.Info().
		Str("addr", fmt.Sprintf("%s:%d", cfg.Server.BindAddress, cfg.Server.HTTPPort)).
		Msg("API server started")

	// Initialize metrics server
	metricsAddr := fmt.Sprintf("%s:%d", cfg.Server.BindAddress, cfg.Server.MetricsPort)
	metricsServer := metrics.NewServer(metricsAddr, logger)

	if sdListeners.Metrics != nil {
		metricsServer.SetListener(sdListeners.Metrics)
	}

	if err := metricsServer.Start(); err != nil {
		return fmt.Errorf("failed to start metrics server: %w", err)
	}

	logger.Info().
		Str("addr", metricsAddr).
		Msg("Metrics server started")

	if err := systemd.NotifyReady(); err != nil {
		logger.Warn().Err(err).Msg("Failed to notify systemd readiness")
	}

	logger.Info().Msg("Roadlog startup complete")
	logger.Info().Msgf("Planning API: http://%s:%d/api/v1/trips/plan", cfg.Server.BindAddress, cfg.Server.HTTPPort)
	logger.Info().Msgf("Metrics: http://%s/metrics", metricsAddr)

	// Wait for shutdown signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	<-sigChan

	logger.Info().Msg("Shutdown signal received, gracefully stopping...")

	if err := systemd.NotifyStopping(); err != nil {
		logger.Warn().Err(err).Msg("Failed to notify systemd stopping")
	}

	if err := apiServer.Stop(); err != nil {
		logger.Error().Err(err).Msg("Error stopping API server")
	}

	if err := metricsServer.Stop(); err != nil {
		logger.Error().Err(err).Msg("Error stopping metrics server")
	}

	logger.Info().Msg("Roadlog stopped")

	return nil
}

// openPlanStore creates the configured plan cache backend.
func openPlanStore(cfg *config.Config) (storage.PlanStore, error) {
	ttl := parseDuration(cfg.Cache.TTL, time.Hour)

	switch cfg.Cache.Type {
	case "redis":
		return redis.Open(cfg.Redis, ttl)
	case "memory":
		return memory.Open(cfg.Cache.Size, ttl)
	default:
		return nil, fmt.Errorf("unknown cache type: %q", cfg.Cache.Type)
	}
}

// plannerConfig maps the HOS configuration section onto the planner's limits.
func plannerConfig(cfg config.HOSConfig) planner.Config {
	return planner.Config{
		MaxCycleHours:        cfg.MaxCycleHours,
		MaxDailyDrivingHours: cfg.MaxDailyDrivingHours,
		DailyRestHours:       cfg.DailyRestHours,
		RefuelIntervalMiles:  cfg.RefuelIntervalMiles,
		RefuelStopHours:      cfg.RefuelStopHours,
		PickupStopHours:      cfg.PickupStopHours,
		DropoffStopHours:     cfg.DropoffStopHours,
	}
}
