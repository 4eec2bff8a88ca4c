package handler

import (
	"context"
	"time"

	"job-tracker/internal/pkg/response"

	"github.com/gofiber/fiber/v3"
)

// Check tests one dependency. A nil Check marks it as disabled.
type Check func(ctx context.Context) error

type HealthHandler struct {
	checks map[string]Check
}

func NewHealthHandler(checks map[string]Check) *HealthHandler {
	return &HealthHandler{checks: checks}
}

func (h *HealthHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Get("/health", h.Health)
}

// Health reports each dependency. Only a failing check marks the service
// degraded; the cache being disabled does not.
func (h *HealthHandler) Health(c fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
	defer cancel()

	deps := make(fiber.Map, len(h.checks))
	healthy := true
	for name, check := range h.checks {
		switch {
		case check == nil:
			deps[name] = "disabled"
		case check(ctx) != nil:
			deps[name] = "down"
			healthy = false
		default:
			deps[name] = "up"
		}
	}

	if !healthy {
		return response.Error(c, fiber.StatusServiceUnavailable, response.MessageServiceUnavailable, fiber.Map{"dependencies": deps})
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, fiber.Map{"dependencies": deps})
}
