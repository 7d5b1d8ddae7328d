package api

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// PurgeResult reports how many rows one purge pass removed.
type PurgeResult struct {
	Sessions        int64
	IdempotencyKeys int64
}

// Purge removes expired sessions and idempotency keys older than retention.
func Purge(ctx context.Context, stores *Stores, retention time.Duration, now time.Time) (PurgeResult, error) {
	var result PurgeResult
	if stores == nil {
		return result, nil
	}
	var err error
	if stores.Sessions != nil {
		if result.Sessions, err = stores.Sessions.PurgeExpired(ctx); err != nil {
			return result, fmt.Errorf("purge sessions: %w", err)
		}
	}
	if stores.Idempotency != nil && retention > 0 {
		if result.IdempotencyKeys, err = stores.Idempotency.PurgeBefore(ctx, now.Add(-retention)); err != nil {
			return result, fmt.Errorf("purge idempotency keys: %w", err)
		}
	}
	return result, nil
}

// runPurgeLoop purges on every tick until ctx is done.
func runPurgeLoop(ctx context.Context, stores *Stores, interval, retention time.Duration, logger *slog.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			result, err := Purge(ctx, stores, retention, now)
			if err != nil {
				logger.Error("purge failed", slog.String("error", err.Error()))
				continue
			}
			logger.Info("purge completed",
				slog.Int64("sessions", result.Sessions),
				slog.Int64("idempotencyKeys", result.IdempotencyKeys),
			)
		}
	}
}
