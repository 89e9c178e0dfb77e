package handler

import (
	"context"
	"time"

	"conceptme/internal/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Pinger is anything that can report its own reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingerFunc adapts a function to Pinger.
type PingerFunc func(ctx context.Context) error

func (f PingerFunc) Ping(ctx context.Context) error { return f(ctx) }

type HealthHandler struct {
	checks  map[string]Pinger
	timeout time.Duration
}

func NewHealthHandler(checks map[string]Pinger) *HealthHandler {
	return &HealthHandler{checks: checks, timeout: 2 * time.Second}
}

// Healthz reports 200 when every dependency answers, 503 otherwise.
func (h *HealthHandler) Healthz(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(context.Background(), h.timeout)
	defer cancel()

	status := fiber.StatusOK
	results := make(map[string]string, len(h.checks))
	for name, check := range h.checks {
		if err := check.Ping(ctx); err != nil {
			logger.Get().Warn("Health check failed", zap.String("dependency", name), zap.Error(err))
			results[name] = "down"
			status = fiber.StatusServiceUnavailable
			continue
		}
		results[name] = "up"
	}
	return c.Status(status).JSON(fiber.Map{"status": statusText(status), "checks": results})
}

func statusText(status int) string {
	if status == fiber.StatusOK {
		return "ok"
	}
	return "degraded"
}
