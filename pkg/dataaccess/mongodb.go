package dataaccess

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/guichet-bot/guichet/pkg/custom"
	"github.com/guichet-bot/guichet/pkg/dataaccess/monitoring"
	"github.com/guichet-bot/guichet/pkg/entities"
	"github.com/guichet-bot/guichet/pkg/logging"
	"github.com/prometheus/client_golang/prometheus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	mongoDatabase   = "guichet"
	mongoCollection = "guild_configs"
)

type mongoDal struct {
	// l is the logger.
	l *slog.Logger

	// client is the database. This is a connection pool.
	client *mongo.Client
}

// newMongoDal creates a guild store backed by MongoDB.
func newMongoDal(l *slog.Logger, uri string) (GuildDal, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	serverAPI := options.ServerAPI(options.ServerAPIVersion1)
	opts := options.Client().ApplyURI(uri).SetServerAPIOptions(serverAPI)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("error connecting to mongo: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("error pinging mongo: %w", err)
	}

	return &mongoDal{
		l:      l.With(slog.String(logging.KeyDal, guildDalName)),
		client: client,
	}, nil
}

func (d *mongoDal) collection() *mongo.Collection {
	return d.client.Database(mongoDatabase).Collection(mongoCollection)
}

func (d *mongoDal) observe(query string) func() {
	monitoring.StoreTotalRequests.WithLabelValues(guildDalName, query, DriverMongo).Inc()
	t := prometheus.NewTimer(monitoring.StoreLatency.WithLabelValues(guildDalName, query, DriverMongo))
	return func() { t.ObserveDuration() }
}

func (d *mongoDal) Get(ctx context.Context, guildID string) (*entities.GuildConfig, error) {
	defer d.observe("get_guild_config")()

	cfg := new(entities.GuildConfig)
	err := d.collection().FindOne(ctx, bson.M{"guild_id": guildID}).Decode(cfg)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, fmt.Errorf("error getting guild config: %w", err)
	}
	return cfg, nil
}

func (d *mongoDal) Set(ctx context.Context, cfg *entities.GuildConfig) error {
	defer d.observe("set_guild_config")()

	cfg.UpdatedAt = custom.Now()

	opts := options.Update().SetUpsert(true)
	_, err := d.collection().UpdateOne(ctx, bson.M{"guild_id": cfg.GuildID}, bson.M{"$set": cfg}, opts)
	if err != nil {
		return fmt.Errorf("error saving guild config: %w", err)
	}
	return nil
}

func (d *mongoDal) Update(ctx context.Context, guildID string, patch *entities.GuildConfigPatch) (*entities.GuildConfig, error) {
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

func (d *mongoDal) Delete(ctx context.Context, guildID string) error {
	defer d.observe("delete_guild_config")()

	res, err := d.collection().DeleteOne(ctx, bson.M{"guild_id": guildID})
	if err != nil {
		return fmt.Errorf("error deleting guild config: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (d *mongoDal) Ping(ctx context.Context) error {
	defer d.observe("ping")()
	return d.client.Ping(ctx, nil)
}
