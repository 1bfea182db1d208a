package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/log"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ============================================================
// Health Check Handlers
// ============================================================

type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	store   Pinger
	started time.Time
}

func NewHealthHandler(store Pinger) *HealthHandler {
	return &HealthHandler{store: store, started: time.Now()}
}

// LivenessProbe проверяет, что приложение работает
func (h *HealthHandler) LivenessProbe(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "alive",
	})
}

// ReadinessProbe проверяет, что хранилище отвечает
func (h *HealthHandler) ReadinessProbe(c fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
	defer cancel()

	if err := h.store.Ping(ctx); err != nil {
		log.Warnf("[HEALTH] store ping failed: %v", err)
		return c.Status(http.StatusServiceUnavailable).JSON(fiber.Map{
			"status": "not ready",
			"error":  err.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"status": "ready",
	})
}

// StartupProbe проверяет, что приложение успешно запустилось
func (h *HealthHandler) StartupProbe(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "started",
		"uptime": time.Since(h.started).Round(time.Second).String(),
	})
}

// Register вешает пробы на /health/*.
func (h *HealthHandler) Register(app fiber.Router) {
	app.Get("/health/live", h.LivenessProbe)
	app.Get("/health/ready", h.ReadinessProbe)
	app.Get("/health/startup", h.StartupProbe)
}

// MetricsHandler отдает метрики registry в формате Prometheus.
func MetricsHandler(registry *prometheus.Registry) fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(registry, promhttp.HandlerOpts{
		ErrorHandling: promhttp.ContinueOnError,
	}))
}
