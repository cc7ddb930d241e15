package serverutils

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

// VerifyToken validates a signed access token and returns its identity
// claims. Used by both the HTTP middleware and the websocket upgrade path.
func VerifyToken(secret, tokenStr string) (userId, email string, err error) {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return "", "", ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", "", ErrInvalidToken
	}

	userId, _ = claims["userId"].(string)
	email, _ = claims["email"].(string)
	if userId == "" {
		return "", "", ErrInvalidToken
	}
	return userId, email, nil
}

// NewJwtMiddleware gates protected routes. The signing secret is injected at
// startup; config refuses to boot without one, so it is never empty here.
func NewJwtMiddleware(secret string) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		authHeader := ctx.Get("Authorization")
		if len(authHeader) < 7 || authHeader[:7] != "Bearer " {
			return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Missing token"})
		}

		userId, email, err := VerifyToken(secret, authHeader[7:])
		if err != nil {
			return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
		}

		ctx.Locals("user_id", userId)
		ctx.Locals("email", email)
		return ctx.Next()
	}
}
