package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, ""))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.HTTPPort != 8080 {
		t.Errorf("Expected default HTTP port 8080, got %d", cfg.Server.HTTPPort)
	}
	if cfg.HOS.MaxCycleHours != 70 {
		t.Errorf("Expected default cycle limit 70, got %g", cfg.HOS.MaxCycleHours)
	}
	if cfg.HOS.MaxDailyDrivingHours != 11 {
		t.Errorf("Expected default daily driving limit 11, got %g", cfg.HOS.MaxDailyDrivingHours)
	}
	if cfg.Cache.Type != "memory" {
		t.Errorf("Expected default cache type memory, got %s", cfg.Cache.Type)
	}
	if cfg.Logging.Format != "json" {
		t.Errorf("Expected default log format json, got %s", cfg.Logging.Format)
	}
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
server:
  http_port: 9999
hos:
  max_daily_driving_hours: 10
cache:
  type: redis
redis:
  host: redis.internal
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.HTTPPort != 9999 {
		t.Errorf("Expected HTTP port 9999, got %d", cfg.Server.HTTPPort)
	}
	if cfg.HOS.MaxDailyDrivingHours != 10 {
		t.Errorf("Expected daily driving limit 10, got %g", cfg.HOS.MaxDailyDrivingHours)
	}
	if cfg.Cache.Type != "redis" {
		t.Errorf("Expected cache type redis, got %s", cfg.Cache.Type)
	}
	if cfg.Redis.Host != "redis.internal" {
		t.Errorf("Expected redis host redis.internal, got %s", cfg.Redis.Host)
	}
	// Untouched sections keep their defaults
	if cfg.Server.MetricsPort != 9090 {
		t.Errorf("Expected default metrics port 9090, got %d", cfg.Server.MetricsPort)
	}
}

func TestLoad_InvalidConfig(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad http port", "server:\n  http_port: 0\n"},
		{"bad cache type", "cache:\n  type: bolt\n"},
		{"bad cache ttl", "cache:\n  ttl: never\n"},
		{"daily exceeds cycle", "hos:\n  max_daily_driving_hours: 80\n"},
		{"missing routing url", "routing:\n  base_url: \"\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, tt.content)
			if _, err := Load(path); err == nil {
				t.Error("Expected validation error, got nil")
			}
		})
	}
}
