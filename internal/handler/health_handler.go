package handler

import (
	"context"
	"time"

	"quiz-bank/internal/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Pinger is anything whose reachability the health check reports.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	store   Pinger
	cache   Pinger // nil when no cache is configured
	timeout time.Duration
}

func NewHealthHandler(store, cache Pinger) *HealthHandler {
	return &HealthHandler{store: store, cache: cache, timeout: 3 * time.Second}
}

// Check godoc
// @Summary Health check
// @Description Reports store and cache reachability. The cache is optional and never fails the check.
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 503 {object} map[string]string
// @Router /health [get]
func (h *HealthHandler) Check(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), h.timeout)
	defer cancel()

	body := fiber.Map{"status": "ok", "store": "up", "cache": "disabled"}
	status := fiber.StatusOK

	if err := h.store.Ping(ctx); err != nil {
		logger.Get().Error("Store health check failed", zap.Error(err))
		body["status"] = "unavailable"
		body["store"] = "down"
		status = fiber.StatusServiceUnavailable
	}

	if h.cache != nil {
		body["cache"] = "up"
		if err := h.cache.Ping(ctx); err != nil {
			logger.Get().Warn("Cache health check failed", zap.Error(err))
			body["cache"] = "down"
		}
	}

	return c.Status(status).JSON(body)
}
