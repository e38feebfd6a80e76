// Package app wires configured adapters into stores and catalogs.
package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-pg/pg/v10"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/rbroggi/hbnb/internal/actors/file"
	"github.com/rbroggi/hbnb/internal/actors/hasher"
	mongoactor "github.com/rbroggi/hbnb/internal/actors/mongo"
	postgresactor "github.com/rbroggi/hbnb/internal/actors/postgres"
	redisactor "github.com/rbroggi/hbnb/internal/actors/redis"
	s3actor "github.com/rbroggi/hbnb/internal/actors/s3"
	"github.com/rbroggi/hbnb/internal/config"
	"github.com/rbroggi/hbnb/internal/core/ports"
	"github.com/rbroggi/hbnb/internal/core/store"
	"github.com/rbroggi/hbnb/internal/core/usecase"
	log "github.com/sirupsen/logrus"
)

// Closer releases the clients behind a medium.
type Closer func() error

func noop() error { return nil }

// OpenMedium builds the backing medium selected by cfg.
func OpenMedium(ctx context.Context, cfg config.StoreConfig) (ports.Medium, Closer, error) {
	switch cfg.Medium {
	case config.MediumFile:
		m, err := file.NewMedium(cfg.FilePath)
		return m, noop, err

	case config.MediumPostgres:
		opt, err := pg.ParseURL(cfg.PostgresURL)
		if err != nil {
			return nil, nil, fmt.Errorf("error parsing postgres url: %w", err)
		}
		db := pg.Connect(opt)
		if err := db.Ping(ctx); err != nil {
			_ = db.Close()
			return nil, nil, fmt.Errorf("error connecting to postgres: %w", err)
		}
		m, err := postgresactor.NewPostgresMedium(postgresactor.PostgresMediumArgs{DB: db, Name: cfg.Document})
		if err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		return m, db.Close, nil

	case config.MediumMongo:
		client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURL))
		if err != nil {
			return nil, nil, fmt.Errorf("error connecting to mongo: %w", err)
		}
		closer := func() error { return client.Disconnect(context.Background()) }
		if err := client.Ping(ctx, nil); err != nil {
			_ = closer()
			return nil, nil, fmt.Errorf("error pinging mongo: %w", err)
		}
		m, err := mongoactor.NewMongoMedium(mongoactor.MongoMediumArgs{
			Collection: client.Database(cfg.MongoDatabase).Collection(cfg.MongoCollection),
			Name:       cfg.Document,
		})
		if err != nil {
			_ = closer()
			return nil, nil, err
		}
		return m, closer, nil

	case config.MediumS3:
		client, err := s3actor.NewClient(ctx, s3actor.Config{
			Region:          cfg.S3Region,
			Endpoint:        cfg.S3Endpoint,
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretAccessKey,
			PathStyle:       cfg.S3PathStyle,
		})
		if err != nil {
			return nil, nil, err
		}
		m, err := s3actor.NewS3Medium(s3actor.S3MediumArgs{Client: client, Bucket: cfg.S3Bucket, Key: cfg.Document})
		return m, noop, err

	case config.MediumRedis:
		client, err := redisactor.NewClient(ctx, redisactor.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			return nil, nil, err
		}
		m, err := redisactor.NewRedisMedium(redisactor.RedisMediumArgs{Client: client, Key: cfg.Document})
		if err != nil {
			_ = client.Close()
			return nil, nil, err
		}
		return m, client.Close, nil
	}
	return nil, nil, fmt.Errorf("unknown medium %q", cfg.Medium)
}

// OpenStore opens the medium selected by cfg and reloads the store from it.
// The returned closer flushes the store and releases the medium.
func OpenStore(ctx context.Context, cfg config.StoreConfig, optArgs ...store.StoreOptArgs) (*store.Store, Closer, error) {
	medium, closeMedium, err := OpenMedium(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	if cfg.SilentIO {
		optArgs = append(optArgs, store.WithSilentIO())
	}
	if cfg.Compact {
		optArgs = append(optArgs, store.WithDocumentIndent(""))
	}
	st, err := store.NewStore(store.StoreArgs{Medium: medium}, optArgs...)
	if err != nil {
		_ = closeMedium()
		return nil, nil, err
	}
	if err := st.Open(ctx); err != nil {
		_ = closeMedium()
		return nil, nil, fmt.Errorf("error opening the %s store: %w", cfg.Medium, err)
	}
	log.WithField("medium", cfg.Medium).WithField("entities", st.Len()).Info("store opened")

	closer := func() error {
		return errors.Join(st.Close(context.Background()), closeMedium())
	}
	return st, closer, nil
}

// NewCatalog builds the catalog services over st with the configured password hasher.
func NewCatalog(st ports.ObjectStore, cfg config.HashConfig, optArgs ...usecase.CatalogOptArgs) (*usecase.Catalog, error) {
	h, err := hasher.NewArgon2Hasher(hasher.WithIterations(cfg.Iterations), hasher.WithMemory(cfg.Memory))
	if err != nil {
		return nil, fmt.Errorf("error building the password hasher: %w", err)
	}
	return usecase.NewCatalog(usecase.CatalogArgs{Store: st, Hasher: h}, optArgs...)
}
