package handler

import (
	"context"
	"sort"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const healthCheckTimeout = 2 * time.Second

// HealthCheck probes one backing service.
type HealthCheck func(ctx context.Context) error

// HealthDeps groups the probes reported by /health.
type HealthDeps struct {
	Logger *zap.Logger
	Checks map[string]HealthCheck
}

// HealthHandler reports liveness of the app and its backends.
type HealthHandler struct {
	logger *zap.Logger
	checks map[string]HealthCheck
	names  []string
}

// NewHealthHandler creates a health handler with the provided dependencies.
func NewHealthHandler(deps HealthDeps) *HealthHandler {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	names := make([]string, 0, len(deps.Checks))
	for name := range deps.Checks {
		names = append(names, name)
	}
	sort.Strings(names)
	return &HealthHandler{logger: logger, checks: deps.Checks, names: names}
}

// Register wires the health route onto the provided router.
func (h *HealthHandler) Register(router fiber.Router) {
	router.Get("/health", h.Health)
}

// Health handles GET /health. Any failing probe turns the response into a 503.
func (h *HealthHandler) Health(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(requestContext(c), healthCheckTimeout)
	defer cancel()

	status := "ok"
	results := make(map[string]string, len(h.names))
	for _, name := range h.names {
		if err := h.checks[name](ctx); err != nil {
			h.logger.Warn("health check failed", zap.String("check", name), zap.Error(err))
			results[name] = "down"
			status = "degraded"
			continue
		}
		results[name] = "up"
	}

	code := fiber.StatusOK
	if status != "ok" {
		code = fiber.StatusServiceUnavailable
	}
	return c.Status(code).JSON(fiber.Map{
		"service": "LinkDesk",
		"status":  status,
		"checks":  results,
		"time":    time.Now().UTC().Format(time.RFC3339),
	})
}
