package serverutils

import (
	"github.com/gofiber/fiber/v2"

	"ai-playground-be/internal/pkg/apperrors"
	"ai-playground-be/internal/pkg/logger"
)

// ErrorHandlerMiddleware is the outermost request boundary. Services return
// typed errors; anything else is an unexpected failure and gets reduced to a
// generic 500 outside development.
func ErrorHandlerMiddleware(log logger.ILogger, isDev bool) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		if appErr, ok := apperrors.As(err); ok {
			body := fiber.Map{"error": appErr.Message}
			if appErr.Kind == apperrors.KindServiceUnavailable {
				body["retryAfter"] = appErr.RetryAfter
			}
			if appErr.Detail != "" {
				body["details"] = appErr.Detail
			}
			if appErr.Kind == apperrors.KindInternal || appErr.Kind == apperrors.KindUpstream {
				log.Error("http", "request failed", map[string]interface{}{
					"path":  ctx.Path(),
					"error": appErr.Error(),
				})
				if isDev && appErr.Err != nil {
					body["details"] = appErr.Err.Error()
				}
			}
			return ctx.Status(appErr.StatusCode()).JSON(body)
		}

		if fiberErr, ok := err.(*fiber.Error); ok {
			return ctx.Status(fiberErr.Code).JSON(fiber.Map{"error": fiberErr.Message})
		}

		log.Error("http", "unhandled error", map[string]interface{}{
			"path":  ctx.Path(),
			"error": err.Error(),
		})
		message := "Internal server error"
		if isDev {
			message = err.Error()
		}
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": message})
	}
}
