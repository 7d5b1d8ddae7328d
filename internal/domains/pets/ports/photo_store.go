package ports

import (
	"context"
	"errors"
)

// ErrPhotoTooLarge is returned when an upload exceeds the configured limit.
var ErrPhotoTooLarge = errors.New("photo exceeds the size limit")

// StoredPhoto describes a blob after upload.
type StoredPhoto struct {
	Key  string
	Size int64
	URL  string
}

// PhotoStore keeps pet images outside the relational store.
type PhotoStore interface {
	Put(ctx context.Context, name, contentType string, content []byte) (*StoredPhoto, error)
	// Delete is idempotent; unknown keys are not an error.
	Delete(ctx context.Context, key string) error
}
