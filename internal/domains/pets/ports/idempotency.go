package ports

import (
	"context"
	"errors"
	"time"
)

// ErrIdempotencyConflict indicates the same key was used with a different payload or target.
var ErrIdempotencyConflict = errors.New("idempotency conflict")

// IdempotencyRecord ties a client-supplied key, scoped to the calling account, to the pet it created.
type IdempotencyRecord struct {
	AccountID   int64
	Key         string
	RequestHash string
	PetID       int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IdempotencyStore persists idempotency keys so retries can be replayed safely.
type IdempotencyStore interface {
	// Get returns the record stored for the account and key, or nil when unknown.
	Get(ctx context.Context, accountID int64, key string) (*IdempotencyRecord, error)
	// Save persists the record; if the key already exists with the same hash and pet, the stored record is returned.
	// When the key exists but points to a different request/pet, ErrIdempotencyConflict is returned with the stored record.
	Save(ctx context.Context, record IdempotencyRecord) (*IdempotencyRecord, error)
	// PurgeBefore drops records created before cutoff and reports how many were removed.
	PurgeBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
