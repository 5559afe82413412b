package factory

import (
	"fmt"

	"github.com/bindlehq/bindle/internal/config"
	"github.com/bindlehq/bindle/internal/storage"
	"github.com/bindlehq/bindle/internal/storage/postgres"
	"github.com/bindlehq/bindle/internal/storage/sqlite"
)

// NewStore builds the storage adapter selected by configuration.
func NewStore(cfg *config.Config) (storage.Store, error) {
	switch cfg.DBDriver {
	case "postgres":
		return postgres.Open(cfg.PostgresDSN)
	case "sqlite":
		return sqlite.Open(cfg.SQLitePath)
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER: %s", cfg.DBDriver)
	}
}
