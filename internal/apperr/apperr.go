// Package apperr defines the error taxonomy shared by the storefront services.
//
// Every failure returned by a repository or service is either one of the sentinel
// errors below or an *Error wrapping one of them, so callers can branch with
// errors.Is and the HTTP layer can map a failure to a status code in one place.
package apperr

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/gofiber/fiber/v2"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrValidation   = errors.New("validation failed")
	ErrTransientIO  = errors.New("storage unavailable")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrConflict     = errors.New("already exists")
)

// Error carries the operation that failed and, for validation failures, the
// per-field messages that should reach the user.
type Error struct {
	Op     string
	Kind   error
	ID     string
	Fields map[string]string
	Err    error
}

func (e *Error) Error() string {
	var b strings.Builder
	if e.Op != "" {
		b.WriteString(e.Op)
		if e.ID != "" {
			fmt.Fprintf(&b, " [%s]", e.ID)
		}
		b.WriteString(": ")
	}
	switch {
	case len(e.Fields) > 0:
		b.WriteString(e.Kind.Error())
		b.WriteString(": ")
		b.WriteString(joinFields(e.Fields))
	case e.Err != nil:
		b.WriteString(e.Err.Error())
	default:
		b.WriteString(e.Kind.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is the kind of this error.
func (e *Error) Is(target error) bool { return e.Kind == target }

// NotFound reports a missing entity.
func NotFound(op, id string) error {
	return &Error{Op: op, Kind: ErrNotFound, ID: id}
}

// Validation reports user input that must block a write.
func Validation(op string, fields map[string]string) error {
	return &Error{Op: op, Kind: ErrValidation, Fields: fields}
}

// Invalid is a shorthand for a single-field validation failure.
func Invalid(op, field, msg string) error {
	return Validation(op, map[string]string{field: msg})
}

// IO wraps a storage failure. A nil err yields nil.
func IO(op string, err error) error {
	if err == nil {
		return nil
	}
	var ae *Error
	if errors.As(err, &ae) {
		return err
	}
	return &Error{Op: op, Kind: ErrTransientIO, Err: err}
}

// FieldsOf returns the validation messages carried by err, if any.
func FieldsOf(err error) map[string]string {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Fields
	}
	return nil
}

// Status maps err to the HTTP status the API answers with.
func Status(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, ErrValidation):
		return fiber.StatusBadRequest
	case errors.Is(err, ErrUnauthorized):
		return fiber.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return fiber.StatusForbidden
	case errors.Is(err, ErrConflict):
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

// Respond writes err as the JSON error body used across the API.
func Respond(c *fiber.Ctx, err error) error {
	status := Status(err)
	if fields := FieldsOf(err); len(fields) > 0 {
		return c.Status(status).JSON(fiber.Map{"errors": fields})
	}
	msg := err.Error()
	if status == fiber.StatusInternalServerError {
		msg = "internal error"
	}
	return c.Status(status).JSON(fiber.Map{"message": msg})
}

func joinFields(fields map[string]string) string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+fields[k])
	}
	return strings.Join(parts, ", ")
}
