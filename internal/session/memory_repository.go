package session

import (
	"context"
	"sync"
)

type memoryRepository struct {
	mu  sync.RWMutex
	rec Record
	set bool
}

// NewMemoryRepository builds an in-memory session repository. Used in tests
// and as the dev fallback when no redis is configured; state does not survive
// a process restart.
func NewMemoryRepository() Repository {
	return &memoryRepository{}
}

func (r *memoryRepository) Save(_ context.Context, rec Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rec = rec
	r.set = true
	return nil
}

func (r *memoryRepository) Load(_ context.Context) (Record, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.rec, r.set, nil
}

func (r *memoryRepository) Clear(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rec = Record{}
	r.set = false
	return nil
}
