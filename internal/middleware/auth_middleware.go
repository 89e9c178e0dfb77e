package middleware

import (
	"strings"

	"conceptme/internal/domain"
	"conceptme/internal/logger"
	"conceptme/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const (
	AuthorizationHeader = "Authorization"
	BearerSchema        = "Bearer "
	UserIDKey           = "userID" // Key for storing UserID in fiber.Ctx locals
)

// Protected requires a valid bearer token and stores the owner id in the context.
func Protected(authService service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(AuthorizationHeader)
		if authHeader == "" {
			return domain.NewUnauthorizedError("authorization header is missing")
		}
		if !strings.HasPrefix(authHeader, BearerSchema) {
			return domain.NewUnauthorizedError("authorization scheme is not Bearer")
		}

		tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, BearerSchema))
		if tokenString == "" {
			return domain.NewUnauthorizedError("token is empty")
		}

		ownerID, err := authService.ValidateToken(c.Context(), tokenString)
		if err != nil {
			logger.Get().Debug("Rejected bearer token", zap.String("path", c.Path()), zap.Error(err))
			return err
		}

		c.Locals(UserIDKey, ownerID)
		return c.Next()
	}
}

// OwnerID returns the owner id set by Protected.
func OwnerID(c *fiber.Ctx) (string, error) {
	ownerID, ok := c.Locals(UserIDKey).(string)
	if !ok || ownerID == "" {
		return "", domain.NewUnauthorizedError("user id not found in context")
	}
	return ownerID, nil
}
