package middleware

import (
	"conceptme/internal/validation"

	"github.com/gofiber/fiber/v2"
)

const (
	ValidatedIDKey    = "validated_id"
	ValidatedLimitKey = "validated_limit"
)

// ValidationMiddleware provides request validation middleware
type ValidationMiddleware struct {
	validator *validation.Validator
}

// NewValidationMiddleware creates a new validation middleware instance
func NewValidationMiddleware() *ValidationMiddleware {
	return &ValidationMiddleware{
		validator: validation.NewValidator(),
	}
}

// ValidateRecordID checks the :id path parameter against the <prefix>_<ULID> format.
func (vm *ValidationMiddleware) ValidateRecordID(prefix string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if errs := vm.validator.ValidateRecordID("id", prefix, id); len(errs) > 0 {
			return errs
		}
		c.Locals(ValidatedIDKey, id)
		return c.Next()
	}
}

// ValidateLimit parses the limit query parameter, defaulting to def.
func (vm *ValidationMiddleware) ValidateLimit(def, max int) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit, errs := vm.validator.ParseLimit(c.Query("limit"), def, max)
		if len(errs) > 0 {
			return errs
		}
		c.Locals(ValidatedLimitKey, limit)
		return c.Next()
	}
}
