package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/muanproworks-spec/hf-frozen-food-pos/internal/repository"
)

// State is the single in-memory copy of the persisted store state.
//
// Every mutation is a unit of work (see runUnit): it edits a private clone,
// persists exactly the blobs it touched in one atomic write, and only then
// becomes visible. A failed write leaves both storage and memory unchanged.
type State struct {
	mu   sync.RWMutex
	repo repository.StateRepository
	snap *repository.Snapshot
}

// NewState loads the persisted snapshot. Missing blobs fall back to defaults.
func NewState(ctx context.Context, repo repository.StateRepository) (*State, error) {
	snap, err := repo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load state: %w", err)
	}
	return &State{repo: repo, snap: snap}, nil
}

// read runs fn under the read lock. fn must copy anything it keeps.
func (s *State) read(fn func(snap *repository.Snapshot)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(s.snap)
}

// runUnit serializes a mutation. fn returns the keys it changed; returning
// no keys (or an error) discards the clone without touching storage.
func (s *State) runUnit(ctx context.Context, fn func(next *repository.Snapshot) ([]repository.Key, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.snap.Clone()
	keys, err := fn(next)
	if err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	if err := s.repo.Save(ctx, next, keys...); err != nil {
		return fmt.Errorf("persist state: %w", err)
	}
	s.snap = next
	return nil
}

// Ping checks the storage backend.
func (s *State) Ping(ctx context.Context) error {
	return s.repo.Ping(ctx)
}
