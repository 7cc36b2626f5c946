package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds the complete application configuration
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Routing   RoutingConfig   `mapstructure:"routing"`
	Geocoding GeocodingConfig `mapstructure:"geocoding"`
	HOS       HOSConfig       `mapstructure:"hos"`
	Cache     CacheConfig     `mapstructure:"cache"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// ServerConfig defines server ports and addresses
type ServerConfig struct {
	HTTPPort        int    `mapstructure:"http_port"`
	MetricsPort     int    `mapstructure:"metrics_port"`
	BindAddress     string `mapstructure:"bind_address"`
	ReadTimeout     string `mapstructure:"read_timeout"`
	WriteTimeout    string `mapstructure:"write_timeout"`
	ShutdownTimeout string `mapstructure:"shutdown_timeout"`
}

// RoutingConfig defines the OSRM routing backend settings
type RoutingConfig struct {
	BaseURL string `mapstructure:"base_url"`
	Timeout string `mapstructure:"timeout"`
	Retries int    `mapstructure:"retries"`
}

// GeocodingConfig defines the Nominatim geocoding settings
type GeocodingConfig struct {
	BaseURL   string `mapstructure:"base_url"`
	UserAgent string `mapstructure:"user_agent"`
	Timeout   string `mapstructure:"timeout"`
	Retries   int    `mapstructure:"retries"`
	CacheSize int    `mapstructure:"cache_size"`
}

// HOSConfig defines the hours-of-service limits the planner enforces
type HOSConfig struct {
	MaxCycleHours        float64 `mapstructure:"max_cycle_hours"`
	MaxDailyDrivingHours float64 `mapstructure:"max_daily_driving_hours"`
	DailyRestHours       float64 `mapstructure:"daily_rest_hours"`
	RefuelIntervalMiles  float64 `mapstructure:"refuel_interval_miles"`
	RefuelStopHours      float64 `mapstructure:"refuel_stop_hours"`
	PickupStopHours      float64 `mapstructure:"pickup_stop_hours"`
	DropoffStopHours     float64 `mapstructure:"dropoff_stop_hours"`
}

// CacheConfig defines the plan cache backend settings
type CacheConfig struct {
	Type string `mapstructure:"type"` // "memory" or "redis"
	Size int    `mapstructure:"size"` // memory backend only
	TTL  string `mapstructure:"ttl"`
}

// RedisConfig defines the Redis connection settings
type RedisConfig struct {
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	Password     string `mapstructure:"password"`
	DB           int    `mapstructure:"db"`
	PoolSize     int    `mapstructure:"pool_size"`
	MinIdleConns int    `mapstructure:"min_idle_conns"`
	DialTimeout  string `mapstructure:"dial_timeout"`
	ReadTimeout  string `mapstructure:"read_timeout"`
	WriteTimeout string `mapstructure:"write_timeout"`
}

// LoggingConfig defines logging behavior
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load loads configuration from file and environment variables
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set defaults
	setDefaults(v)

	// Configure viper
	v.SetConfigFile(configPath)
	v.SetEnvPrefix("ROADLOG")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found, use defaults and environment variables
	}

	// Unmarshal config
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Validate config
	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.http_port", 8080)
	v.SetDefault("server.metrics_port", 9090)
	v.SetDefault("server.bind_address", "0.0.0.0")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "60s")
	v.SetDefault("server.shutdown_timeout", "10s")

	// Routing defaults
	v.SetDefault("routing.base_url", "https://router.project-osrm.org/route/v1/driving")
	v.SetDefault("routing.timeout", "30s")
	v.SetDefault("routing.retries", 3)

	// Geocoding defaults
	v.SetDefault("geocoding.base_url", "https://nominatim.openstreetmap.org")
	v.SetDefault("geocoding.user_agent", "roadlog/1.0")
	v.SetDefault("geocoding.timeout", "30s")
	v.SetDefault("geocoding.retries", 3)
	v.SetDefault("geocoding.cache_size", 1000)

	// HOS defaults: standard property-carrying limits
	v.SetDefault("hos.max_cycle_hours", 70.0)
	v.SetDefault("hos.max_daily_driving_hours", 11.0)
	v.SetDefault("hos.daily_rest_hours", 10.0)
	v.SetDefault("hos.refuel_interval_miles", 1000.0)
	v.SetDefault("hos.refuel_stop_hours", 0.5)
	v.SetDefault("hos.pickup_stop_hours", 1.0)
	v.SetDefault("hos.dropoff_stop_hours", 1.0)

	// Cache defaults
	v.SetDefault("cache.type", "memory")
	v.SetDefault("cache.size", 1024)
	v.SetDefault("cache.ttl", "1h")

	// Redis defaults
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.pool_size", 10)
	v.SetDefault("redis.min_idle_conns", 5)
	v.SetDefault("redis.dial_timeout", "5s")
	v.SetDefault("redis.read_timeout", "3s")
	v.SetDefault("redis.write_timeout", "3s")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}

// validate validates the configuration
func validate(cfg *Config) error {
	if cfg.Server.HTTPPort <= 0 || cfg.Server.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", cfg.Server.HTTPPort)
	}
	if cfg.Server.MetricsPort <= 0 || cfg.Server.MetricsPort > 65535 {
		return fmt.Errorf("invalid metrics port: %d", cfg.Server.MetricsPort)
	}

	if cfg.Routing.BaseURL == "" {
		return fmt.Errorf("routing base_url is required")
	}
	if cfg.Geocoding.BaseURL == "" {
		return fmt.Errorf("geocoding base_url is required")
	}
	if cfg.Geocoding.UserAgent == "" {
		return fmt.Errorf("geocoding user_agent is required")
	}

	if cfg.HOS.MaxCycleHours <= 0 {
		return fmt.Errorf("hos max_cycle_hours must be positive")
	}
	if cfg.HOS.MaxDailyDrivingHours <= 0 {
		return fmt.Errorf("hos max_daily_driving_hours must be positive")
	}
	if cfg.HOS.MaxDailyDrivingHours > cfg.HOS.MaxCycleHours {
		return fmt.Errorf("hos max_daily_driving_hours cannot exceed max_cycle_hours")
	}
	if cfg.HOS.DailyRestHours <= 0 {
		return fmt.Errorf("hos daily_rest_hours must be positive")
	}
	if cfg.HOS.RefuelIntervalMiles <= 0 {
		return fmt.Errorf("hos refuel_interval_miles must be positive")
	}

	switch cfg.Cache.Type {
	case "memory", "redis":
	default:
		return fmt.Errorf("invalid cache type: %q (must be memory or redis)", cfg.Cache.Type)
	}
	if _, err := time.ParseDuration(cfg.Cache.TTL); err != nil {
		return fmt.Errorf("invalid cache ttl: %w", err)
	}

	return nil
}
