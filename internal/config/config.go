// Package config defines service configuration structures and loading hooks.
//
// Conventions:
//   - Defaults live in New; Load layers an optional YAML file and COURTSIDE_* env vars on top.
//   - Connection coordinates are fixed at startup and never change per request.
//   - External errors are wrapped with this package's sentinels.
package config

import (
	"fmt"
	"time"
)

// Supported database drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the slog handler: text or json.
	LogFormat string `koanf:"log_format" validate:"oneof=text json"`

	// Addr configures the HTTP listen address, e.g. ":8501".
	Addr string `koanf:"addr"`

	// LeaderboardSize caps both leaderboards.
	LeaderboardSize int `koanf:"leaderboard_size" validate:"min=1,max=1000"`

	// MetricsRefreshMS is how often runtime gauges are sampled; 0 keeps the metrics default.
	MetricsRefreshMS int `koanf:"metrics_refresh_ms" validate:"min=0"`

	// Database holds the fixed connection coordinates.
	Database DatabaseConfig `koanf:"database"`
}

// DatabaseConfig describes where the competitor tables live.
type DatabaseConfig struct {
	// Driver is postgres or sqlite.
	Driver string `koanf:"driver" validate:"oneof=postgres sqlite"`

	Host     string `koanf:"host" validate:"required_if=Driver postgres"`
	Port     int    `koanf:"port" validate:"min=0,max=65535"`
	User     string `koanf:"user"`
	Password string `koanf:"password"`
	Name     string `koanf:"name" validate:"required_if=Driver postgres"`
	SSLMode  string `koanf:"sslmode" validate:"omitempty,oneof=disable allow prefer require verify-ca verify-full"`

	// Path is the database file for the sqlite driver.
	Path string `koanf:"path" validate:"required_if=Driver sqlite"`

	// QueryTimeoutMS bounds each query including its connection; 0 leaves it to the driver.
	QueryTimeoutMS int `koanf:"query_timeout_ms" validate:"min=0"`
}

// QueryTimeout returns QueryTimeoutMS as a duration.
func (d DatabaseConfig) QueryTimeout() time.Duration {
	return time.Duration(d.QueryTimeoutMS) * time.Millisecond
}

// MetricsRefresh returns MetricsRefreshMS as a duration.
func (c *Config) MetricsRefresh() time.Duration {
	return time.Duration(c.MetricsRefreshMS) * time.Millisecond
}

// String renders the coordinates without the password.
func (d DatabaseConfig) String() string {
	if d.Driver == DriverSQLite {
		return fmt.Sprintf("sqlite:%s", d.Path)
	}
	return fmt.Sprintf("%s://%s@%s:%d/%s", d.Driver, d.User, d.Host, d.Port, d.Name)
}

// New returns a Config populated with defaults. The database defaults match
// a local development server.
func New() *Config {
	return &Config{
		LogLevel:        "info",
		LogFormat:       "text",
		Addr:            ":8501",
		LeaderboardSize: 10,
		Database: DatabaseConfig{
			Driver:   DriverPostgres,
			Host:     "localhost",
			Port:     5432,
			User:     "root",
			Password: "",
			Name:     "project",
			SSLMode:  "disable",
			Path:     "courtside.db",
		},
	}
}
