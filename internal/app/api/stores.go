package api

import (
	"context"
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	petsmemory "github.com/Apurer/petguard-api/internal/domains/pets/adapters/memory"
	petspostgres "github.com/Apurer/petguard-api/internal/domains/pets/adapters/persistence/postgres"
	petss3 "github.com/Apurer/petguard-api/internal/domains/pets/adapters/storage/s3"
	petsports "github.com/Apurer/petguard-api/internal/domains/pets/ports"
	sessionredis "github.com/Apurer/petguard-api/internal/domains/principals/adapters/cache/redis"
	principalsmemory "github.com/Apurer/petguard-api/internal/domains/principals/adapters/memory"
	principalspostgres "github.com/Apurer/petguard-api/internal/domains/principals/adapters/persistence/postgres"
	principalsports "github.com/Apurer/petguard-api/internal/domains/principals/ports"
	"github.com/Apurer/petguard-api/internal/platform/migrations"
	platformpostgres "github.com/Apurer/petguard-api/internal/platform/postgres"
	platformredis "github.com/Apurer/petguard-api/internal/platform/redis"
)

// Stores groups the persistence adapters a process needs.
type Stores struct {
	// DB is nil when the process runs on in-memory adapters.
	DB          *gorm.DB
	Directory   principalsports.Directory
	Sessions    principalsports.SessionStore
	Pets        petsports.Repository
	Idempotency petsports.IdempotencyStore
	Photos      petsports.PhotoStore
}

// BuildStores connects to postgres when a DSN is configured and falls back to memory otherwise.
// The photo store follows the S3 settings independently of the database, and sessions
// move to Redis when REDIS_ADDR is reachable.
func BuildStores(ctx context.Context, cfg Config, logger *slog.Logger) (*Stores, func(), error) {
	stores, cleanup, err := buildStores(ctx, cfg, logger)
	if err != nil {
		return nil, cleanup, err
	}
	client, closeRedis := platformredis.Open(ctx, cfg.Redis, logger)
	if client == nil {
		return stores, cleanup, nil
	}
	stores.Sessions = sessionredis.NewSessionStore(client)
	return stores, func() {
		closeRedis()
		cleanup()
	}, nil
}

func buildStores(ctx context.Context, cfg Config, logger *slog.Logger) (*Stores, func(), error) {
	photos, err := buildPhotoStore(cfg, logger)
	if err != nil {
		return nil, func() {}, err
	}
	db, cleanup := platformpostgres.Open(ctx, cfg.PostgresDSN, logger)
	if db == nil {
		return &Stores{
			Directory:   principalsmemory.NewDirectory(),
			Sessions:    principalsmemory.NewSessionStore(),
			Pets:        petsmemory.NewRepository(),
			Idempotency: petsmemory.NewIdempotencyStore(),
			Photos:      photos,
		}, cleanup, nil
	}
	if err := migrations.Run(db); err != nil {
		cleanup()
		return nil, func() {}, fmt.Errorf("migrate schema: %w", err)
	}
	logger.Info("repositories configured with postgres")
	return &Stores{
		DB:          db,
		Directory:   principalspostgres.NewDirectory(db),
		Sessions:    principalspostgres.NewSessionStore(db),
		Pets:        petspostgres.NewRepository(db),
		Idempotency: petspostgres.NewIdempotencyStore(db),
		Photos:      photos,
	}, cleanup, nil
}

func buildPhotoStore(cfg Config, logger *slog.Logger) (petsports.PhotoStore, error) {
	if cfg.S3.Bucket == "" {
		logger.Warn("S3_BUCKET not set, keeping photos in memory")
		return petsmemory.NewPhotoStore(cfg.PhotoMaxBytes, "memory://photos"), nil
	}
	store, err := petss3.NewPhotoStore(cfg.S3)
	if err != nil {
		return nil, fmt.Errorf("configure s3 photo store: %w", err)
	}
	logger.Info("photo store configured with s3", slog.String("bucket", cfg.S3.Bucket))
	return store, nil
}
