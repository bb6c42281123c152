package address

import (
	"context"
	"sync"
)

type Repository interface {
	Get(ctx context.Context, email string) (Saved, error)
	// Save stores a as the user's address, replacing any previous one.
	Save(ctx context.Context, s Saved) (Saved, error)
}

// InMemoryRepository for tests
type InMemoryRepository struct {
	mu   sync.RWMutex
	data map[string]Saved // keyed by user email
}

func NewInMemoryRepository(seed []Saved) *InMemoryRepository {
	r := &InMemoryRepository{data: make(map[string]Saved, len(seed))}
	for _, s := range seed {
		r.data[s.UserEmail] = s
	}
	return r
}

func (r *InMemoryRepository) Get(_ context.Context, email string) (Saved, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if s, ok := r.data[email]; ok {
		return s, nil
	}
	return Saved{}, ErrNotFound
}

func (r *InMemoryRepository) Save(_ context.Context, s Saved) (Saved, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[s.UserEmail] = s
	return s, nil
}
