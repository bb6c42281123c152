package cart

import (
	"context"
	"sync"
	"time"
)

// Repository stores cart items.
type Repository interface {
	ListByOwner(ctx context.Context, owner string) ([]Item, error)
	Get(ctx context.Context, id int) (Item, error)
	// Add merges qty units of productID into owner's cart and returns the
	// resulting line.
	Add(ctx context.Context, owner string, productID, qty int) (Item, error)
	SetQuantity(ctx context.Context, id, qty int) (Item, error)
	Delete(ctx context.Context, id int) error
	DeleteByOwner(ctx context.Context, owner string) error
}

// InMemoryRepository is used for tests and local scenarios.
type InMemoryRepository struct {
	mu     sync.RWMutex
	items  []Item
	nextID int
	now    func() time.Time
}

func NewInMemoryRepository(seed []Item) *InMemoryRepository {
	r := &InMemoryRepository{items: make([]Item, 0, len(seed)), nextID: 1, now: time.Now}
	maxID := 0
	for _, it := range seed {
		r.items = append(r.items, it)
		if it.ID > maxID {
			maxID = it.ID
		}
	}
	r.nextID = maxID + 1
	return r
}

func (r *InMemoryRepository) ListByOwner(_ context.Context, owner string) ([]Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Item, 0)
	for _, it := range r.items {
		if it.UserEmail == owner {
			out = append(out, it)
		}
	}
	return out, nil
}

func (r *InMemoryRepository) Get(_ context.Context, id int) (Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, it := range r.items {
		if it.ID == id {
			return it, nil
		}
	}
	return Item{}, ErrNotFound
}

func (r *InMemoryRepository) Add(_ context.Context, owner string, productID, qty int) (Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	items, err := MergeAdd(r.items, productID, owner, qty)
	if err != nil {
		return Item{}, err
	}
	r.items = items
	for i := range r.items {
		it := &r.items[i]
		if it.UserEmail != owner || it.ProductID != productID {
			continue
		}
		if it.ID == 0 {
			it.ID = r.nextID
			it.CreatedAt = r.now().UTC()
			r.nextID++
		}
		return *it, nil
	}
	return Item{}, ErrNotFound
}

func (r *InMemoryRepository) SetQuantity(_ context.Context, id, qty int) (Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.items {
		if r.items[i].ID == id {
			r.items[i].Quantity = qty
			return r.items[i], nil
		}
	}
	return Item{}, ErrNotFound
}

func (r *InMemoryRepository) Delete(_ context.Context, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.items {
		if r.items[i].ID == id {
			r.items = append(r.items[:i], r.items[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

// DeleteByOwner empties a user's cart.
func (r *InMemoryRepository) DeleteByOwner(_ context.Context, owner string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.items[:0]
	for _, it := range r.items {
		if it.UserEmail != owner {
			kept = append(kept, it)
		}
	}
	r.items = kept
	return nil
}
