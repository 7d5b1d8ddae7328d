package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/Apurer/petguard-api/internal/app/api"
)

func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	if err := api.LoadDotEnv(); err != nil {
		log.Fatalf("failed to load .env: %v", err)
	}
	cfg, err := api.LoadConfig()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	stores, cleanup, err := api.BuildStores(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("failed to build stores: %v", err)
	}
	defer cleanup()
	if stores.DB == nil {
		log.Fatal("POSTGRES_DSN not set or connection failed; nothing to purge")
	}

	result, err := api.Purge(ctx, stores, cfg.IdempotencyRetention, time.Now())
	if err != nil {
		log.Fatalf("failed to purge: %v", err)
	}
	logger.Info("purge completed",
		slog.Int64("sessions", result.Sessions),
		slog.Int64("idempotency_keys", result.IdempotencyKeys),
	)
}
