package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Check reports whether a backing service is reachable.
type Check func(ctx context.Context) error

type HealthHandler struct {
	name    string
	version string
	checks  map[string]Check
	log     *zap.Logger
}

func NewHealthHandler(name, version string, checks map[string]Check, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{name: name, version: version, checks: checks, log: logger}
}

var endpoints = []string{
	"GET /api/health",
	"POST /api/auth/register",
	"POST /api/auth/login",
	"GET /api/auth/profile",
	"GET /api/videos",
	"GET /api/videos/:id",
	"POST /api/videos/upload",
	"DELETE /api/videos/:id",
	"POST /api/videos/:id/like",
	"POST /api/videos/:id/download",
	"GET /api/videos/user/:username",
	"GET /api/categories",
	"GET /api/categories/:slug",
	"GET /api/trending",
	"GET /api/recent",
	"GET /api/search",
	"GET /api/stats",
	"POST /api/init",
}

func (h *HealthHandler) Health(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
	defer cancel()

	status, code := "ok", fiber.StatusOK
	deps := fiber.Map{}
	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			h.log.Warn("health check failed", zap.String("dependency", name), zap.Error(err))
			deps[name] = "unavailable"
			status, code = "degraded", fiber.StatusServiceUnavailable
			continue
		}
		deps[name] = "ok"
	}
	return c.Status(code).JSON(fiber.Map{
		"message":      h.name + " API is running!",
		"status":       status,
		"timestamp":    time.Now().UTC().Format(time.RFC3339),
		"version":      h.version,
		"dependencies": deps,
		"endpoints":    endpoints,
	})
}
