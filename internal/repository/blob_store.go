package repository

import (
	"context"
	"errors"
	"sync"
)

// ErrBlobNotFound is returned by BlobStore.Get for keys never written.
var ErrBlobNotFound = errors.New("blob not found")

// BlobStore is the key-value contract behind the persisted state.
// PutMany must apply every blob or none of them.
type BlobStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	PutMany(ctx context.Context, blobs map[string][]byte) error
	Ping(ctx context.Context) error
}

// memoryStore keeps blobs in process memory. Used by STORAGE_DRIVER=memory and in tests.
type memoryStore struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

func NewMemoryBlobStore() BlobStore {
	return &memoryStore{blobs: make(map[string][]byte)}
}

func (s *memoryStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.blobs[key]
	if !ok {
		return nil, ErrBlobNotFound
	}
	return append([]byte(nil), b...), nil
}

func (s *memoryStore) PutMany(_ context.Context, blobs map[string][]byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, v := range blobs {
		s.blobs[k] = append([]byte(nil), v...)
	}
	return nil
}

func (s *memoryStore) Ping(context.Context) error { return nil }
