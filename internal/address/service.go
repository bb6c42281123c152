package address

import (
	"context"
	"time"

	"github.com/freshcart/grocery-backend/internal/apperr"
)

// Service remembers the delivery address each user last checked out with.
type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: func() time.Time { return time.Now().UTC() }}
}

func (s *Service) Get(ctx context.Context, email string) (Saved, error) {
	if email == "" {
		return Saved{}, ErrNotFound
	}
	return s.repo.Get(ctx, email)
}

// Save validates a and stores it for email. Saving the address already on
// file is a no-op.
func (s *Service) Save(ctx context.Context, email string, a Address) (Saved, error) {
	if email == "" {
		return Saved{}, apperr.ErrUnauthorized
	}
	a = a.Normalize()
	if err := a.Validate(); err != nil {
		return Saved{}, err
	}
	if cur, err := s.repo.Get(ctx, email); err == nil && cur.Address == a {
		return cur, nil
	}
	return s.repo.Save(ctx, Saved{UserEmail: email, Address: a, UpdatedAt: s.now()})
}
