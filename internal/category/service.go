package category

import "context"

// Service provides business logic for categories and acts as the category
// directory for catalog queries.
type Service struct {
	repo Repository
}

func NewService(r Repository) *Service {
	return &Service{repo: r}
}

// List returns categories in display order.
func (s *Service) List(ctx context.Context, f Filter) ([]Category, error) {
	return s.repo.List(ctx, f)
}

func (s *Service) GetByID(ctx context.Context, id int) (Category, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) GetByName(ctx context.Context, name string) (Category, error) {
	return s.repo.GetByName(ctx, name)
}

// Resolve translates a category id into the name stored on products.
// It returns ErrNotFound for an unknown id; storage failures pass through.
func (s *Service) Resolve(ctx context.Context, id int) (string, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	return c.Name, nil
}
