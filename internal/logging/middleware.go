package logging

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

// RequestLogger logs one line per request once the handler chain has run.
func RequestLogger(l Logger) fiber.Handler {
	l = OrNoOp(l)
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}
		fields := map[string]interface{}{
			"method":      c.Method(),
			"url":         c.OriginalURL(),
			"status":      status,
			"duration_ms": time.Since(start).Milliseconds(),
		}
		switch {
		case err != nil:
			fields["error"] = err
			l.Error("request failed", fields)
		case status >= fiber.StatusInternalServerError:
			l.Error("request", fields)
		default:
			l.Info("request", fields)
		}
		return err
	}
}
