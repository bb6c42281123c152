package category

import (
	"context"
	"sort"
	"sync"
)

type Repository interface {
	List(ctx context.Context, f Filter) ([]Category, error)
	GetByID(ctx context.Context, id int) (Category, error)
	GetByName(ctx context.Context, name string) (Category, error)
}

// InMemoryRepository is a simple in-memory implementation useful for tests and
// local runs without a database.
type InMemoryRepository struct {
	mu      sync.RWMutex
	storage []Category
}

func NewInMemoryRepository(seed []Category) *InMemoryRepository {
	r := &InMemoryRepository{storage: make([]Category, 0, len(seed))}
	r.storage = append(r.storage, seed...)
	return r
}

func (r *InMemoryRepository) List(_ context.Context, f Filter) ([]Category, error) {
	r.mu.RLock()
	out := make([]Category, 0, len(r.storage))
	for _, c := range r.storage {
		if f.FeaturedOnly && !c.IsFeatured {
			continue
		}
		out = append(out, c)
	}
	r.mu.RUnlock()

	SortByDisplayOrder(out)
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (r *InMemoryRepository) GetByID(_ context.Context, id int) (Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, c := range r.storage {
		if c.ID == id {
			return c, nil
		}
	}
	return Category{}, ErrNotFound
}

func (r *InMemoryRepository) GetByName(_ context.Context, name string) (Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, c := range r.storage {
		if c.Name == name {
			return c, nil
		}
	}
	return Category{}, ErrNotFound
}

// SortByDisplayOrder orders categories by sort_order, then name.
func SortByDisplayOrder(cs []Category) {
	sort.SliceStable(cs, func(i, j int) bool {
		if cs[i].SortOrder != cs[j].SortOrder {
			return cs[i].SortOrder < cs[j].SortOrder
		}
		return cs[i].Name < cs[j].Name
	})
}
