package address

import (
	"fmt"
	"strings"
	"time"

	"github.com/freshcart/grocery-backend/internal/apperr"
)

// ErrNotFound is returned when a user has no saved address yet.
var ErrNotFound = fmt.Errorf("address %w", apperr.ErrNotFound)

const DefaultCountry = "USA"

// Address is a delivery address. Orders carry a copy of it under
// delivery_address; the user's last used one is kept for the next checkout.
type Address struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	Zip     string `json:"zip"`
	Country string `json:"country,omitempty"`
}

// Saved is the address remembered for a user.
type Saved struct {
	UserEmail string    `json:"user_email"`
	Address   Address   `json:"address"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Normalize trims every field and fills in the default country.
func (a Address) Normalize() Address {
	a.Street = strings.TrimSpace(a.Street)
	a.City = strings.TrimSpace(a.City)
	a.State = strings.TrimSpace(a.State)
	a.Zip = strings.TrimSpace(a.Zip)
	a.Country = strings.TrimSpace(a.Country)
	if a.Country == "" {
		a.Country = DefaultCountry
	}
	return a
}

// Validate requires street, city, state and zip.
func (a Address) Validate() error {
	errs := map[string]string{}
	if a.Street == "" {
		errs["street"] = "street is required"
	}
	if a.City == "" {
		errs["city"] = "city is required"
	}
	if a.State == "" {
		errs["state"] = "state is required"
	}
	if a.Zip == "" {
		errs["zip"] = "zip is required"
	}
	if len(errs) > 0 {
		return apperr.Validation("address.Validate", errs)
	}
	return nil
}

// IsZero reports whether no field is set.
func (a Address) IsZero() bool {
	return a == Address{}
}
