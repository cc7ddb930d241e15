package connectivity

import (
	"github.com/gofiber/fiber/v2"
)

// GateMiddleware short-circuits routes that need the dependency while it is
// not connected. Routes that do not require it are simply not wrapped.
func GateMiddleware(sup *Supervisor, retryAfter int) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		if !sup.Connected() {
			return ctx.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"error":      "Database connection error. Please try again in a few seconds.",
				"retryAfter": retryAfter,
			})
		}
		return ctx.Next()
	}
}
