package dataaccess

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/guichet-bot/guichet/pkg/custom"
	"github.com/guichet-bot/guichet/pkg/dataaccess/monitoring"
	"github.com/guichet-bot/guichet/pkg/entities"
	"github.com/guichet-bot/guichet/pkg/logging"
	"github.com/prometheus/client_golang/prometheus"
)

// jsonFileStore is the on-disk layout: one record per guild keyed by guild ID.
type jsonFileStore struct {
	Guilds map[string]*entities.GuildConfig `json:"guilds"`
}

type jsonFileDal struct {
	// l is the logger.
	l *slog.Logger

	// path is the location of the store file.
	path string

	// mu guards the read-modify-write cycle on the file.
	mu sync.Mutex
}

// newJSONFileDal creates a guild store backed by a single json file.
func newJSONFileDal(l *slog.Logger, path string) (GuildDal, error) {
	if path == "" {
		path = filepath.Join("data", "guilds.json")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("error creating data directory: %w", err)
	}

	return &jsonFileDal{
		l:    l.With(slog.String(logging.KeyDal, guildDalName)),
		path: path,
	}, nil
}

func (d *jsonFileDal) load() (*jsonFileStore, error) {
	data, err := os.ReadFile(d.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &jsonFileStore{Guilds: make(map[string]*entities.GuildConfig)}, nil
		}
		return nil, fmt.Errorf("error reading guild store: %w", err)
	}

	store := new(jsonFileStore)
	if err := json.Unmarshal(data, store); err != nil {
		return nil, fmt.Errorf("error parsing guild store: %w", err)
	}
	if store.Guilds == nil {
		store.Guilds = make(map[string]*entities.GuildConfig)
	}
	return store, nil
}

func (d *jsonFileDal) save(store *jsonFileStore) error {
	data, err := json.MarshalIndent(store, "", "  ")
	if err != nil {
		return fmt.Errorf("error encoding guild store: %w", err)
	}

	if err := os.WriteFile(d.path, data, 0o644); err != nil {
		return fmt.Errorf("error writing guild store: %w", err)
	}
	return nil
}

func (d *jsonFileDal) observe(query string) func() {
	monitoring.StoreTotalRequests.WithLabelValues(guildDalName, query, DriverJSONFile).Inc()
	t := prometheus.NewTimer(monitoring.StoreLatency.WithLabelValues(guildDalName, query, DriverJSONFile))
	return func() { t.ObserveDuration() }
}

func (d *jsonFileDal) Get(_ context.Context, guildID string) (*entities.GuildConfig, error) {
	defer d.observe("get_guild_config")()

	d.mu.Lock()
	defer d.mu.Unlock()

	store, err := d.load()
	if err != nil {
		return nil, err
	}

	cfg, ok := store.Guilds[guildID]
	if !ok {
		return nil, ErrNotFound
	}
	return cfg, nil
}

func (d *jsonFileDal) Set(_ context.Context, cfg *entities.GuildConfig) error {
	defer d.observe("set_guild_config")()

	d.mu.Lock()
	defer d.mu.Unlock()

	store, err := d.load()
	if err != nil {
		return err
	}

	cfg.UpdatedAt = custom.Now()
	store.Guilds[cfg.GuildID] = cfg
	return d.save(store)
}

func (d *jsonFileDal) Update(_ context.Context, guildID string, patch *entities.GuildConfigPatch) (*entities.GuildConfig, error) {
	defer d.observe("update_guild_config")()

	d.mu.Lock()
	defer d.mu.Unlock()

	store, err := d.load()
	if err != nil {
		return nil, err
	}

	cfg, ok := store.Guilds[guildID]
	if !ok {
		return nil, ErrNotFound
	}

	patch.Apply(cfg)
	cfg.UpdatedAt = custom.Now()
	if err := d.save(store); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (d *jsonFileDal) Delete(_ context.Context, guildID string) error {
	defer d.observe("delete_guild_config")()

	d.mu.Lock()
	defer d.mu.Unlock()

	store, err := d.load()
	if err != nil {
		return err
	}

	if _, ok := store.Guilds[guildID]; !ok {
		return ErrNotFound
	}

	delete(store.Guilds, guildID)
	return d.save(store)
}

func (d *jsonFileDal) Ping(_ context.Context) error {
	defer d.observe("ping")()

	d.mu.Lock()
	defer d.mu.Unlock()

	if _, err := d.load(); err != nil {
		return err
	}
	return nil
}
