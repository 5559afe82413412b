package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// Config holds the service configuration. Environment variables use the
// BINDLE_ prefix, e.g. BINDLE_HTTP_PORT, BINDLE_DB_DRIVER.
type Config struct {
	// HTTP Configuration
	HTTPPort int `envconfig:"HTTP_PORT" default:"8080"`

	// Storage driver: "postgres", "sqlite", or "auto" (derived from which
	// connection setting is present).
	DBDriver    string `envconfig:"DB_DRIVER" default:"auto"`
	PostgresDSN string `envconfig:"POSTGRES_DSN" default:""`
	SQLitePath  string `envconfig:"SQLITE_PATH" default:"bindle.db"`

	// Indexer
	IndexQueueSize int `envconfig:"INDEX_QUEUE_SIZE" default:"256"`

	// Logging
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
}

// ResolveDefaults derives DBDriver when left on "auto" and validates the
// result: a Postgres DSN selects postgres, otherwise the embedded SQLite
// database is used.
func (c *Config) ResolveDefaults() error {
	if c.DBDriver == "" || c.DBDriver == "auto" {
		if c.PostgresDSN != "" {
			c.DBDriver = "postgres"
		} else {
			c.DBDriver = "sqlite"
		}
	}
	switch c.DBDriver {
	case "postgres":
		if c.PostgresDSN == "" {
			return fmt.Errorf("BINDLE_POSTGRES_DSN is required for DB_DRIVER=postgres")
		}
	case "sqlite":
		if c.SQLitePath == "" {
			return fmt.Errorf("BINDLE_SQLITE_PATH is required for DB_DRIVER=sqlite")
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER: %s", c.DBDriver)
	}
	return nil
}

// New creates a Config from the environment.
func New() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("BINDLE", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}
	if err := cfg.ResolveDefaults(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// NewForTesting returns a config wired for ephemeral in-process testing.
func NewForTesting() *Config {
	return &Config{
		HTTPPort:       8080,
		DBDriver:       "sqlite",
		SQLitePath:     ":memory:",
		IndexQueueSize: 16,
		LogLevel:       "debug",
	}
}

// GetHTTPAddr returns the HTTP server address.
func (c *Config) GetHTTPAddr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}
