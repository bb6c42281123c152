package user

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	jwtware "github.com/gofiber/jwt/v2"
	"github.com/golang-jwt/jwt/v4"

	"github.com/freshcart/grocery-backend/internal/apperr"
)

const TokenTTL = 72 * time.Hour

// Tokens signs and verifies the bearer tokens handed out at sign-in.
type Tokens struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokens(secret string) *Tokens {
	return &Tokens{secret: []byte(secret), ttl: TokenTTL, now: time.Now}
}

// Issue returns a signed HS256 token carrying the user's id, email and role.
func (t *Tokens) Issue(u User) (string, error) {
	claims := jwt.MapClaims{
		"user_id": u.ID,
		"email":   u.Email,
		"role":    string(u.Role),
		"exp":     t.now().Add(t.ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.secret)
}

// Middleware verifies the bearer token and stores it in c.Locals("user").
// Requests for which public returns true pass through without a token.
func (t *Tokens) Middleware(public func(c *fiber.Ctx) bool) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey: t.secret,
		Filter:     public,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return apperr.Respond(c, apperr.ErrUnauthorized)
		},
	})
}

func claimsFromCtx(c *fiber.Ctx) (jwt.MapClaims, error) {
	tok, ok := c.Locals("user").(*jwt.Token)
	if !ok || tok == nil {
		return nil, apperr.ErrUnauthorized
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return nil, apperr.ErrUnauthorized
	}
	return claims, nil
}

// OwnerFromCtx returns the email of the signed-in user. Carts, orders and
// saved addresses are keyed by it.
func OwnerFromCtx(c *fiber.Ctx) (string, error) {
	claims, err := claimsFromCtx(c)
	if err != nil {
		return "", err
	}
	email, _ := claims["email"].(string)
	if strings.TrimSpace(email) == "" {
		return "", apperr.ErrUnauthorized
	}
	return email, nil
}

// RequireAdmin rejects requests whose token does not carry the admin role.
func RequireAdmin(c *fiber.Ctx) error {
	claims, err := claimsFromCtx(c)
	if err != nil {
		return apperr.Respond(c, err)
	}
	if role, _ := claims["role"].(string); Role(role) != RoleAdmin {
		return apperr.Respond(c, apperr.ErrForbidden)
	}
	return c.Next()
}
