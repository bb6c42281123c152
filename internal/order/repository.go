package order

import (
	"context"
	"sort"
	"sync"
)

// Repository persists orders and their items.
type Repository interface {
	// CreateWithItems stores an order and all of its items, or nothing.
	CreateWithItems(ctx context.Context, o Order, items []Item) (Order, error)
	// ListByOwner returns a user's orders newest first, without items.
	ListByOwner(ctx context.Context, email string) ([]Order, error)
	// List returns the newest orders across all users. A limit <= 0 means
	// no limit.
	List(ctx context.Context, limit int) ([]Order, error)
	ItemsByOrderIDs(ctx context.Context, ids []int) ([]Item, error)
	UpdateStatus(ctx context.Context, id int, status Status) (Order, error)
}

type InMemoryRepository struct {
	mu         sync.RWMutex
	orders     []Order
	items      []Item
	nextID     int
	nextItemID int
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{nextID: 1, nextItemID: 1}
}

func (r *InMemoryRepository) CreateWithItems(_ context.Context, o Order, items []Item) (Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o.ID = r.nextID
	r.nextID++
	o.Items = make([]Item, 0, len(items))
	for _, it := range items {
		it.ID = r.nextItemID
		it.OrderID = o.ID
		r.nextItemID++
		o.Items = append(o.Items, it)
	}
	r.items = append(r.items, o.Items...)
	stored := o
	stored.Items = nil
	r.orders = append(r.orders, stored)
	return o, nil
}

func (r *InMemoryRepository) ListByOwner(_ context.Context, email string) ([]Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Order, 0)
	for _, o := range r.orders {
		if o.UserEmail == email {
			out = append(out, o)
		}
	}
	newestFirst(out)
	return out, nil
}

func (r *InMemoryRepository) List(_ context.Context, limit int) ([]Order, error) {
	r.mu.RLock()
	out := append([]Order(nil), r.orders...)
	r.mu.RUnlock()
	newestFirst(out)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	if out == nil {
		out = []Order{}
	}
	return out, nil
}

func (r *InMemoryRepository) ItemsByOrderIDs(_ context.Context, ids []int) ([]Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	want := make(map[int]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	out := make([]Item, 0)
	for _, it := range r.items {
		if want[it.OrderID] {
			out = append(out, it)
		}
	}
	return out, nil
}

func (r *InMemoryRepository) UpdateStatus(_ context.Context, id int, status Status) (Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.orders {
		if r.orders[i].ID == id {
			r.orders[i].Status = status
			return r.orders[i], nil
		}
	}
	return Order{}, ErrNotFound
}

// newestFirst orders by created_at descending, then id descending.
func newestFirst(os []Order) {
	sort.SliceStable(os, func(i, j int) bool {
		if !os[i].CreatedAt.Equal(os[j].CreatedAt) {
			return os[i].CreatedAt.After(os[j].CreatedAt)
		}
		return os[i].ID > os[j].ID
	})
}
