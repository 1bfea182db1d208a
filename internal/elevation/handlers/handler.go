package handlers

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/log"
	"github.com/pkg/errors"

	"wall-elevation/internal/common/metrics"
	"wall-elevation/internal/elevation/agent"
	"wall-elevation/internal/elevation/models"
	"wall-elevation/internal/elevation/repository"
	"wall-elevation/internal/elevation/service"
)

// ============================================================
// Elevation Handler
// ============================================================

// maxTargetWidth ограничивает ширину холста, заказанную через ?width=.
const maxTargetWidth = 4000

type Deps struct {
	Store       repository.Store
	Interpreter agent.Interpreter
	Sessions    *service.SessionManager
	Cache       *service.RenderCache
	Exports     *service.ExportStorage
	Metrics     *metrics.ElevationMetrics
	TargetWidth float64
}

type ElevationHandler struct {
	store       repository.Store
	interpreter agent.Interpreter
	sessions    *service.SessionManager
	cache       *service.RenderCache
	exports     *service.ExportStorage
	metrics     *metrics.ElevationMetrics
	targetWidth float64
}

func NewElevationHandler(d Deps) *ElevationHandler {
	return &ElevationHandler{
		store:       d.Store,
		interpreter: d.Interpreter,
		sessions:    d.Sessions,
		cache:       d.Cache,
		exports:     d.Exports,
		metrics:     d.Metrics,
		targetWidth: d.TargetWidth,
	}
}

// Register вешает маршруты API на router (обычно группа /api/v1).
func (h *ElevationHandler) Register(router fiber.Router) {
	router.Get("/sample-wall", h.SampleWall)

	router.Get("/walls", h.ListWalls)
	router.Post("/walls", h.CreateWall)
	router.Get("/walls/:id", h.GetWall)
	router.Get("/walls/:id/elevation.png", h.RenderPNG)
	router.Get("/walls/:id/elevation.svg", h.RenderSVG)
	router.Post("/walls/:id/export", h.Export)
	router.Post("/walls/:id/sessions", h.OpenSession)

	router.Post("/fixtures", h.CreateFixture)
	router.Patch("/fixtures/:id", h.UpdateFixture)
	router.Delete("/fixtures/:id", h.DeleteFixture)

	router.Post("/ai-agent", h.Interpret)

	router.Get("/sessions/:sid", h.GetSession)
	router.Post("/sessions/:sid/pointer", h.Pointer)
	router.Post("/sessions/:sid/refresh", h.RefreshSession)
	router.Get("/sessions/:sid/frame.png", h.Frame)
	router.Delete("/sessions/:sid", h.CloseSession)
}

// ============================================================
// Helpers
// ============================================================

func errorJSON(c fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(fiber.Map{"error": msg})
}

// respondError переводит ошибку слоя хранения в HTTP статус.
// notFoundMsg уходит с 404, failMsg с 500.
func respondError(c fiber.Ctx, err error, notFoundMsg, failMsg string) error {
	switch {
	case repository.IsNotFound(err):
		return errorJSON(c, http.StatusNotFound, notFoundMsg)
	case errors.Is(err, service.ErrSessionNotFound):
		return errorJSON(c, http.StatusNotFound, "Session not found")
	case errors.Is(err, models.ErrInvalidFixture):
		return errorJSON(c, http.StatusBadRequest, "Invalid fixture")
	case errors.Is(err, models.ErrInvalidWall):
		return errorJSON(c, http.StatusBadRequest, "Invalid wall dimensions")
	}
	log.Errorf("[HTTP] %s %s: %v", c.Method(), c.Path(), err)
	return errorJSON(c, http.StatusInternalServerError, failMsg)
}

// widthParam читает ?width=, по умолчанию ширина из конфигурации.
func (h *ElevationHandler) widthParam(c fiber.Ctx) (float64, error) {
	raw := c.Query("width")
	if raw == "" {
		return h.targetWidth, nil
	}
	width, err := strconv.ParseFloat(raw, 64)
	if err != nil || width <= 0 || width > maxTargetWidth {
		return 0, errors.Errorf("width must be in (0, %d]", maxTargetWidth)
	}
	return width, nil
}

func (h *ElevationHandler) wall(c fiber.Ctx, id string) (*models.WallWithFixtures, error) {
	return h.store.GetWallWithFixtures(c.Context(), id)
}
