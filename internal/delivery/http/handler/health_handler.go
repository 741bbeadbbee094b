package handler

import (
	"context"
	"time"

	"competency-hub/internal/pkg/response"

	"github.com/gofiber/fiber/v3"
)

// Pinger is anything the health check can probe.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	db    Pinger
	cache Pinger
}

func NewHealthHandler(db, cache Pinger) *HealthHandler {
	return &HealthHandler{db: db, cache: cache}
}

func (h *HealthHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/health", h.Health)
}

// Health fails only when the database is down. A missing cache is reported but tolerated.
func (h *HealthHandler) Health(c fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
	defer cancel()

	status := fiber.Map{"database": "up", "cache": "up"}
	if h.db != nil {
		if err := h.db.Ping(ctx); err != nil {
			status["database"] = "down"
			return response.Error(c, fiber.StatusServiceUnavailable, "database unavailable", status)
		}
	}
	if h.cache == nil || h.cache.Ping(ctx) != nil {
		status["cache"] = "down"
	}
	return response.OK(c, status)
}
