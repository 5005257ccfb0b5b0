package dataaccess

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/guichet-bot/guichet/pkg/entities"
)

const guildDalName = "guild_dal"

// ErrNotFound is returned when a guild has no stored configuration.
var ErrNotFound = errors.New("guild configuration not found")

// Supported guild store drivers.
const (
	DriverJSONFile = "jsonfile"
	DriverSQLite   = "sqlite"
	DriverMongo    = "mongodb"
)

// GuildDal is the data access layer for per-guild ticket configuration.
type GuildDal interface {
	// Get returns the configuration for a guild, or ErrNotFound.
	Get(ctx context.Context, guildID string) (*entities.GuildConfig, error)

	// Set creates or replaces the configuration for a guild.
	Set(ctx context.Context, cfg *entities.GuildConfig) error

	// Update applies a partial update to an existing configuration and
	// returns the result, or ErrNotFound when the guild is not configured.
	Update(ctx context.Context, guildID string, patch *entities.GuildConfigPatch) (*entities.GuildConfig, error)

	// Delete removes the configuration for a guild. Deleting a guild that
	// was never configured returns ErrNotFound.
	Delete(ctx context.Context, guildID string) error

	// Ping verifies that the backing store is reachable.
	Ping(ctx context.Context) error
}

// Config selects and configures the guild store backend.
type Config struct {
	// Driver is one of DriverJSONFile, DriverSQLite or DriverMongo.
	Driver string

	// JSONPath is the path of the json file store.
	JSONPath string

	// SQLitePath is the path of the sqlite database file.
	SQLitePath string

	// MongoURI is the MongoDB connection string.
	MongoURI string
}

// NewGuildDal creates the guild store for the configured driver.
func NewGuildDal(l *slog.Logger, cfg *Config) (GuildDal, error) {
	switch cfg.Driver {
	case DriverJSONFile, "":
		return newJSONFileDal(l, cfg.JSONPath)
	case DriverSQLite:
		return newSQLiteDal(l, cfg.SQLitePath)
	case DriverMongo:
		return newMongoDal(l, cfg.MongoURI)
	default:
		return nil, fmt.Errorf("unsupported guild store driver: %s", cfg.Driver)
	}
}
