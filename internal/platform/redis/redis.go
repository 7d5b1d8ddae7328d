package redis

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	goredis "github.com/go-redis/redis/v8"
)

// Config locates a Redis server. An empty Addr disables Redis.
type Config struct {
	Addr     string
	Password string
	DB       int
}

// Connect dials Redis and verifies connectivity with PING.
func Connect(ctx context.Context, cfg Config) (*goredis.Client, error) {
	if strings.TrimSpace(cfg.Addr) == "" {
		return nil, fmt.Errorf("redis address is empty")
	}
	client := goredis.NewClient(&goredis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     10,
		MinIdleConns: 2,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}

// Open dials cfg and returns the client plus a cleanup function.
// When Addr is empty or the connection fails, it logs and returns nil with a no-op cleanup.
func Open(ctx context.Context, cfg Config, logger *slog.Logger) (*goredis.Client, func()) {
	if strings.TrimSpace(cfg.Addr) == "" {
		return nil, func() {}
	}
	client, err := Connect(ctx, cfg)
	if err != nil {
		if logger != nil {
			logger.Warn("failed to connect to redis, keeping the default session store",
				slog.String("addr", cfg.Addr), slog.String("error", err.Error()))
		}
		return nil, func() {}
	}
	if logger != nil {
		logger.Info("redis connection established", slog.String("addr", cfg.Addr))
	}
	return client, func() { _ = client.Close() }
}
