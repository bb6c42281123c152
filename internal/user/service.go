package user

import (
	"context"
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/freshcart/grocery-backend/internal/apperr"
	"github.com/freshcart/grocery-backend/internal/logging"
)

type Service struct {
	repo   Repository
	logger logging.Logger
	now    func() time.Time
}

func NewService(repo Repository, logger logging.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logging.OrNoOp(logger),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (s *Service) List(ctx context.Context) ([]User, error) {
	return s.repo.List(ctx)
}

func (s *Service) GetByID(ctx context.Context, id int) (User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) GetByEmail(ctx context.Context, email string) (User, error) {
	return s.repo.GetByEmail(ctx, normalizeEmail(email))
}

// Register creates a customer account.
func (s *Service) Register(ctx context.Context, user User) (User, error) {
	user.Email = normalizeEmail(user.Email)
	user.FullName = strings.TrimSpace(user.FullName)

	errs := map[string]string{}
	if user.Email == "" || !strings.Contains(user.Email, "@") {
		errs["email"] = "a valid email is required"
	}
	if len(user.Password) < 6 {
		errs["password"] = "password must be at least 6 characters"
	}
	if user.FullName == "" {
		errs["full_name"] = "full_name is required"
	}
	if len(errs) > 0 {
		return User{}, apperr.Validation("user.Register", errs)
	}

	if _, err := s.repo.GetByEmail(ctx, user.Email); err == nil {
		return User{}, ErrEmailExists
	} else if !errors.Is(err, ErrNotFound) {
		return User{}, err
	}

	user.Role = RoleCustomer
	return s.create(ctx, user)
}

// EnsureAdmin creates the back-office account when it does not exist yet.
func (s *Service) EnsureAdmin(ctx context.Context, email, password string) (User, error) {
	email = normalizeEmail(email)
	if u, err := s.repo.GetByEmail(ctx, email); err == nil {
		return u, nil
	} else if !errors.Is(err, ErrNotFound) {
		return User{}, err
	}
	u, err := s.create(ctx, User{Email: email, Password: password, FullName: "Store Admin", Role: RoleAdmin})
	if err != nil {
		return User{}, err
	}
	s.logger.Info("admin account created", map[string]interface{}{"email": email})
	return u, nil
}

func (s *Service) create(ctx context.Context, user User) (User, error) {
	if !looksLikeBcrypt(user.Password) {
		hashed, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
		if err != nil {
			return User{}, err
		}
		user.Password = string(hashed)
	}
	now := s.now()
	user.CreatedAt, user.UpdatedAt = now, now
	return s.repo.Create(ctx, user)
}

func (s *Service) Authenticate(ctx context.Context, email, password string) (User, error) {
	user, err := s.repo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			s.logger.Error("user lookup failed", map[string]interface{}{"error": err})
		}
		return User{}, ErrInvalidCredentials
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return User{}, ErrInvalidCredentials
	}

	return user, nil
}

// UpdateProfile changes the display fields of the user with the given email.
func (s *Service) UpdateProfile(ctx context.Context, email string, fullName, phone *string) (User, error) {
	existing, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return User{}, err
	}
	if fullName != nil {
		name := strings.TrimSpace(*fullName)
		if name == "" {
			return User{}, apperr.Invalid("user.UpdateProfile", "full_name", "full_name cannot be empty")
		}
		existing.FullName = name
	}
	if phone != nil {
		existing.Phone = strings.TrimSpace(*phone)
	}
	existing.Password = ""
	existing.UpdatedAt = s.now()
	return s.repo.Update(ctx, existing.ID, existing)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func looksLikeBcrypt(value string) bool {
	return len(value) > 4 && value[0:2] == "$2"
}
