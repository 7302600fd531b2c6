package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// Config holds the configuration for the mission-control service.
// Environment variables are parsed from the MISSION_CONTROL_ prefix,
// e.g. MISSION_CONTROL_HTTP_PORT, MISSION_CONTROL_DB_DRIVER.
type Config struct {
	// HTTP Configuration
	HTTPPort int `envconfig:"HTTP_PORT" default:"8080"`

	// Storage: sqlite (default, single-node) or postgres
	DBDriver    string `envconfig:"DB_DRIVER" default:"sqlite"`
	SQLitePath  string `envconfig:"SQLITE_PATH" default:"./data/mission-control.db"`
	PostgresDSN string `envconfig:"POSTGRES_DSN" default:""`

	// External Supabase project the metrics sync reads from. Sync is
	// disabled when the service role key is absent.
	SupabaseURL            string `envconfig:"SUPABASE_URL" default:""`
	SupabaseServiceRoleKey string `envconfig:"SUPABASE_SERVICE_ROLE_KEY" default:""`

	// Calendar grid scale (layout units per hour).
	CalendarUnitsPerHour float64 `envconfig:"CALENDAR_UNITS_PER_HOUR" default:"64"`

	// Client search throttle hint in milliseconds. The server does not
	// enforce it; callers are expected to debounce their input.
	SearchDebounceMillis int `envconfig:"SEARCH_DEBOUNCE_MILLIS" default:"200"`

	// Event bus buffer size for write notifications.
	EventBufferSize int `envconfig:"EVENT_BUFFER_SIZE" default:"256"`

	// Health probing
	HealthIntervalSeconds     int `envconfig:"HEALTH_INTERVAL_SECONDS" default:"30"`
	HealthProbeTimeoutSeconds int `envconfig:"HEALTH_PROBE_TIMEOUT_SECONDS" default:"2"`
}

// New creates a Config by parsing environment variables.
func New() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("MISSION_CONTROL", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects unsupported driver selections early.
func (c *Config) Validate() error {
	switch c.DBDriver {
	case "sqlite":
		if c.SQLitePath == "" {
			return fmt.Errorf("MISSION_CONTROL_SQLITE_PATH is required when DB_DRIVER=sqlite")
		}
	case "postgres":
		if c.PostgresDSN == "" {
			return fmt.Errorf("MISSION_CONTROL_POSTGRES_DSN is required when DB_DRIVER=postgres")
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER: %s", c.DBDriver)
	}
	return nil
}

// GetHTTPAddr returns the HTTP server address.
func (c *Config) GetHTTPAddr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}

// SyncEnabled reports whether the Supabase metrics sync is configured.
func (c *Config) SyncEnabled() bool {
	return c.SupabaseURL != "" && c.SupabaseServiceRoleKey != ""
}
