package main

import (
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/openfreight/roadlog/internal/config"
)

var validateDump bool

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration file",
	Long:  `Validate the Roadlog configuration file for syntax and semantic errors.`,
	RunE:  runValidate,
}

func init() {
	validateCmd.Flags().BoolVar(&validateDump, "dump", false, "Dump full configuration with defaults highlighted")
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ Configuration validation failed: %v\n", err)
		return err
	}

	unknownKeys, err := findUnknownKeys(configPath)
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "⚠️  Warning: Could not check for unknown keys: %v\n", err)
	}

	_, _ = fmt.Fprintf(os.Stdout, "✅ Configuration is valid: %s\n", configPath)

	if len(unknownKeys) > 0 {
		red := color.New(color.FgRed, color.Bold)
		fmt.Fprintln(os.Stdout)
		red.Fprintf(os.Stdout, "⚠️  WARNING: Found %d unknown configuration key(s):\n", len(unknownKeys))
		for _, key := range unknownKeys {
			red.Fprintf(os.Stdout, "   - %s\n", key)
		}
		fmt.Fprintln(os.Stdout, "\nThese keys will be ignored and may indicate typos or deprecated settings.")
	}

	if validateDump {
		_, _ = fmt.Fprintln(os.Stdout, "\n"+strings.Repeat("=", 80))
		_, _ = fmt.Fprintln(os.Stdout, "FULL CONFIGURATION (values different from defaults are highlighted)")
		_, _ = fmt.Fprintln(os.Stdout, strings.Repeat("=", 80))

		dumpConfig(cfg, getDefaultConfig())
	}

	return nil
}

// getDefaultConfig loads a configuration from defaults only, by pointing
// the loader at an empty file.
func getDefaultConfig() *config.Config {
	f, err := os.CreateTemp("", "roadlog-defaults-*.yaml")
	if err != nil {
		return &config.Config{}
	}
	defer func() { _ = os.Remove(f.Name()) }()
	_ = f.Close()

	cfg, err := config.Load(f.Name())
	if err != nil {
		return &config.Config{}
	}
	return cfg
}

// findUnknownKeys loads the config file and checks for unknown keys
func findUnknownKeys(configPath string) ([]string, error) {
	v := viper.New()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	validKeys := getValidKeys()

	unknown := []string{}
	for _, key := range v.AllKeys() {
		if !validKeys[key] {
			unknown = append(unknown, key)
		}
	}

	return unknown, nil
}

// getValidKeys returns a set of all valid configuration keys
func getValidKeys() map[string]bool {
	return map[string]bool{
		// Server
		"server.http_port":        true,
		"server.metrics_port":     true,
		"server.bind_address":     true,
		"server.read_timeout":     true,
		"server.write_timeout":    true,
		"server.shutdown_timeout": true,

		// Routing
		"routing.base_url": true,
		"routing.timeout":  true,
		"routing.retries":  true,

		// Geocoding
		"geocoding.base_url":   true,
		"geocoding.user_agent": true,
		"geocoding.timeout":    true,
		"geocoding.retries":    true,
		"geocoding.cache_size": true,

		// HOS
		"hos.max_cycle_hours":         true,
		"hos.max_daily_driving_hours": true,
		"hos.daily_rest_hours":        true,
		"hos.refuel_interval_miles":   true,
		"hos.refuel_stop_hours":       true,
		"hos.pickup_stop_hours":       true,
		"hos.dropoff_stop_hours":      true,

		// Cache
		"cache.type": true,
		"cache.size": true,
		"cache.ttl":  true,

		// Redis
		"redis.host":           true,
		"redis.port":           true,
		"redis.password":       true,
		"redis.db":             true,
		"redis.pool_size":      true,
		"redis.min_idle_conns": true,
		"redis.dial_timeout":   true,
		"redis.read_timeout":   true,
		"redis.write_timeout":  true,

		// Logging
		"logging.level":  true,
		"logging.format": true,
	}
}

// dumpConfig dumps configuration with color highlighting for non-default values
func dumpConfig(cfg, defaultCfg *config.Config) {
	yellow := color.New(color.FgYellow, color.Bold)
	green := color.New(color.FgGreen)
	cyan := color.New(color.FgCyan, color.Bold)

	_, _ = cyan.Println("\n[server]")
	dumpField("  http_port", cfg.Server.HTTPPort, defaultCfg.Server.HTTPPort, yellow, green)
	dumpField("  metrics_port", cfg.Server.MetricsPort, defaultCfg.Server.MetricsPort, yellow, green)
	dumpField("  bind_address", cfg.Server.BindAddress, defaultCfg.Server.BindAddress, yellow, green)
	dumpField("  read_timeout", cfg.Server.ReadTimeout, defaultCfg.Server.ReadTimeout, yellow, green)
	dumpField("  write_timeout", cfg.Server.WriteTimeout, defaultCfg.Server.WriteTimeout, yellow, green)
	dumpField("  shutdown_timeout", cfg.Server.ShutdownTimeout, defaultCfg.Server.ShutdownTimeout, yellow, green)

	_, _ = cyan.Println("\n[routing]")
	dumpField("  base_url", cfg.Routing.BaseURL, defaultCfg.Routing.BaseURL, yellow, green)
	dumpField("  timeout", cfg.Routing.Timeout, defaultCfg.Routing.Timeout, yellow, green)
	dumpField("  retries", cfg.Routing.Retries, defaultCfg.Routing.Retries, yellow, green)

	_, _ = cyan.Println("\n[geocoding]")
	dumpField("  base_url", cfg.Geocoding.BaseURL, defaultCfg.Geocoding.BaseURL, yellow, green)
	dumpField("  user_agent", cfg.Geocoding.UserAgent, defaultCfg.Geocoding.UserAgent, yellow, green)
	dumpField("  timeout", cfg.Geocoding.Timeout, defaultCfg.Geocoding.Timeout, yellow, green)
	dumpField("  retries", cfg.Geocoding.Retries, defaultCfg.Geocoding.Retries, yellow, green)
	dumpField("  cache_size", cfg.Geocoding.CacheSize, defaultCfg.Geocoding.CacheSize, yellow, green)

	_, _ = cyan.Println("\n[hos]")
	dumpField("  max_cycle_hours", cfg.HOS.MaxCycleHours, defaultCfg.HOS.MaxCycleHours, yellow, green)
	dumpField("  max_daily_driving_hours", cfg.HOS.MaxDailyDrivingHours, defaultCfg.HOS.MaxDailyDrivingHours, yellow, green)
	dumpField("  daily_rest_hours", cfg.HOS.DailyRestHours, defaultCfg.HOS.DailyRestHours, yellow, green)
	dumpField("  refuel_interval_miles", cfg.HOS.RefuelIntervalMiles, defaultCfg.HOS.RefuelIntervalMiles, yellow, green)
	dumpField("  refuel_stop_hours", cfg.HOS.RefuelStopHours, defaultCfg.HOS.RefuelStopHours, yellow, green)
	dumpField("  pickup_stop_hours", cfg.HOS.PickupStopHours, defaultCfg.HOS.PickupStopHours, yellow, green)
	dumpField("  dropoff_stop_hours", cfg.HOS.DropoffStopHours, defaultCfg.HOS.DropoffStopHours, yellow, green)

	_, _ = cyan.Println("\n[cache]")
	dumpField("  type", cfg.Cache.Type, defaultCfg.Cache.Type, yellow, green)
	dumpField("  size", cfg.Cache.Size, defaultCfg.Cache.Size, yellow, green)
	dumpField("  ttl", cfg.Cache.TTL, defaultCfg.Cache.TTL, yellow, green)

	_, _ = cyan.Println("\n[redis]")
	dumpField("  host", cfg.Redis.Host, defaultCfg.Redis.Host, yellow, green)
	dumpField("  port", cfg.Redis.Port, defaultCfg.Redis.Port, yellow, green)
	dumpField("  password", redactPassword(cfg.Redis.Password), redactPassword(defaultCfg.Redis.Password), yellow, green)
	dumpField("  db", cfg.Redis.DB, defaultCfg.Redis.DB, yellow, green)
	dumpField("  pool_size", cfg.Redis.PoolSize, defaultCfg.Redis.PoolSize, yellow, green)
	dumpField("  min_idle_conns", cfg.Redis.MinIdleConns, defaultCfg.Redis.MinIdleConns, yellow, green)
	dumpField("  dial_timeout", cfg.Redis.DialTimeout, defaultCfg.Redis.DialTimeout, yellow, green)
	dumpField("  read_timeout", cfg.Redis.ReadTimeout, defaultCfg.Redis.ReadTimeout, yellow, green)
	dumpField("  write_timeout", cfg.Redis.WriteTimeout, defaultCfg.Redis.WriteTimeout, yellow, green)

	_, _ = cyan.Println("\n[logging]")
	dumpField("  level", cfg.Logging.Level, defaultCfg.Logging.Level, yellow, green)
	dumpField("  format", cfg.Logging.Format, defaultCfg.Logging.Format, yellow, green)

	_, _ = fmt.Fprintln(os.Stdout, "\n"+strings.Repeat("=", 80))
}

// dumpField prints a field with color if it differs from default
func dumpField(name string, value, defaultValue interface{}, modifiedColor, defaultColor *color.Color) {
	isDefault := reflect.DeepEqual(value, defaultValue)

	valueStr := fmt.Sprintf("%v", value)

	if isDefault {
		_, _ = defaultColor.Printf("%s = %s\n", name, valueStr)
	} else {
		_, _ = modifiedColor.Printf("%s = %s  (modified from default: %v)\n", name, valueStr, defaultValue)
	}
}

// redactPassword redacts password if not empty
func redactPassword(password string) string {
	if password == "" {
		return ""
	}
	return "***REDACTED***"
}
