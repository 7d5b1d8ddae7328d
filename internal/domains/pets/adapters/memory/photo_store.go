package memory

import (
	"context"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/Apurer/petguard-api/internal/domains/pets/ports"
)

var _ ports.PhotoStore = (*PhotoStore)(nil)

// PhotoStore keeps photo bytes in memory, addressed by generated keys.
type PhotoStore struct {
	mu       sync.RWMutex
	blobs    map[string][]byte
	maxBytes int64
	baseURL  string
}

// NewPhotoStore builds a store rejecting uploads above maxBytes; zero disables the limit.
func NewPhotoStore(maxBytes int64, baseURL string) *PhotoStore {
	return &PhotoStore{blobs: map[string][]byte{}, maxBytes: maxBytes, baseURL: baseURL}
}

func (s *PhotoStore) Put(_ context.Context, name, _ string, content []byte) (*ports.StoredPhoto, error) {
	if s.maxBytes > 0 && int64(len(content)) > s.maxBytes {
		return nil, ports.ErrPhotoTooLarge
	}
	key := "pets/" + uuid.NewString() + strings.ToLower(filepath.Ext(name))
	s.mu.Lock()
	s.blobs[key] = append([]byte(nil), content...)
	s.mu.Unlock()
	return &ports.StoredPhoto{Key: key, Size: int64(len(content)), URL: s.baseURL + "/" + key}, nil
}

func (s *PhotoStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.blobs, key)
	s.mu.Unlock()
	return nil
}

// Get returns the stored bytes for key.
func (s *PhotoStore) Get(key string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	blob, ok := s.blobs[key]
	return blob, ok
}

// Len reports how many blobs are stored.
func (s *PhotoStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.blobs)
}
