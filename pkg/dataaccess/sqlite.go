package dataaccess

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/guichet-bot/guichet/pkg/custom"
	"github.com/guichet-bot/guichet/pkg/dataaccess/monitoring"
	"github.com/guichet-bot/guichet/pkg/entities"
	"github.com/guichet-bot/guichet/pkg/logging"
	"github.com/prometheus/client_golang/prometheus"
	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS guild_configs (
	guild_id   TEXT PRIMARY KEY,
	config     TEXT NOT NULL,
	updated_at TEXT NOT NULL
);`

type sqliteDal struct {
	// l is the logger.
	l *slog.Logger

	// db is the sqlite database handle.
	db *sql.DB
}

// newSQLiteDal creates a guild store backed by a sqlite database file.
func newSQLiteDal(l *slog.Logger, path string) (GuildDal, error) {
	if path == "" {
		path = filepath.Join("data", "guichet.db")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("error creating data directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("error opening sqlite database: %w", err)
	}

	if _, err := db.Exec(sqliteSchema); err != nil {
		return nil, fmt.Errorf("error creating sqlite schema: %w", err)
	}

	return &sqliteDal{
		l:  l.With(slog.String(logging.KeyDal, guildDalName)),
		db: db,
	}, nil
}

func (d *sqliteDal) observe(query string) func() {
	monitoring.StoreTotalRequests.WithLabelValues(guildDalName, query, DriverSQLite).Inc()
	t := prometheus.NewTimer(monitoring.StoreLatency.WithLabelValues(guildDalName, query, DriverSQLite))
	return func() { t.ObserveDuration() }
}

func (d *sqliteDal) Get(ctx context.Context, guildID string) (*entities.GuildConfig, error) {
	defer d.observe("get_guild_config")()

	var raw string
	err := d.db.QueryRowContext(ctx,
		`SELECT config FROM guild_configs WHERE guild_id = ?`, guildID,
	).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, fmt.Errorf("error getting guild config: %w", err)
	}

	cfg := new(entities.GuildConfig)
	if err := json.Unmarshal([]byte(raw), cfg); err != nil {
		return nil, fmt.Errorf("error decoding guild config: %w", err)
	}
	return cfg, nil
}

func (d *sqliteDal) Set(ctx context.Context, cfg *entities.GuildConfig) error {
	defer d.observe("set_guild_config")()

	cfg.UpdatedAt = custom.Now()

	raw, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("error encoding guild config: %w", err)
	}

	_, err = d.db.ExecContext(ctx,
		`INSERT INTO guild_configs (guild_id, config, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(guild_id) DO UPDATE SET config = excluded.config, updated_at = excluded.updated_at`,
		cfg.GuildID, string(raw), cfg.UpdatedAt.String(),
	)
	if err != nil {
		return fmt.Errorf("error saving guild config: %w", err)
	}
	return nil
}

func (d *sqliteDal) Update(ctx context.Context, guildID string, patch *entities.GuildConfigPatch) (*entities.GuildConfig, error) {
	defer d.observe("update_guild_config")()

	cfg, err := d.Get(ctx, guildID)
	if err != nil {
		return nil, err
	}

	patch.Apply(cfg)
	if err := d.Set(ctx, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (d *sqliteDal) Delete(ctx context.Context, guildID string) error {
	defer d.observe("delete_guild_config")()

	res, err := d.db.ExecContext(ctx, `DELETE FROM guild_configs WHERE guild_id = ?`, guildID)
	if err != nil {
		return fmt.Errorf("error deleting guild config: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("error reading affected rows: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (d *sqliteDal) Ping(ctx context.Context) error {
	defer d.observe("ping")()
	return d.db.PingContext(ctx)
}
