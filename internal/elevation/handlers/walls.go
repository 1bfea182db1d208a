package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/log"

	"wall-elevation/internal/elevation/models"
)

// ============================================================
// Walls
// ============================================================

// SampleWall отдает id демонстрационной стены.
func (h *ElevationHandler) SampleWall(c fiber.Ctx) error {
	return c.JSON(fiber.Map{"wallId": h.store.SampleWallID()})
}

func (h *ElevationHandler) ListWalls(c fiber.Ctx) error {
	walls, err := h.store.ListWalls(c.Context())
	if err != nil {
		return respondError(c, err, "Wall not found", "Failed to fetch walls")
	}
	return c.JSON(walls)
}

// GetWall отдает стену вместе с фикстурами в порядке отрисовки.
func (h *ElevationHandler) GetWall(c fiber.Ctx) error {
	wall, err := h.wall(c, c.Params("id"))
	if err != nil {
		return respondError(c, err, "Wall not found", "Failed to fetch wall")
	}
	return c.JSON(wall)
}

type createWallRequest struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	WidthFeet  float64 `json:"widthFeet"`
	HeightFeet float64 `json:"heightFeet"`
	RoomID     string  `json:"roomId"`
}

func (h *ElevationHandler) CreateWall(c fiber.Ctx) error {
	var req createWallRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid json")
	}
	if req.Name == "" {
		return errorJSON(c, http.StatusBadRequest, "Missing required fields")
	}

	wall, err := h.store.CreateWall(c.Context(), models.Wall{
		ID:         req.ID,
		Name:       req.Name,
		WidthFeet:  req.WidthFeet,
		HeightFeet: req.HeightFeet,
		RoomID:     req.RoomID,
	})
	if err != nil {
		return respondError(c, err, "Wall not found", "Failed to create wall")
	}

	log.Infof("[STORE] wall %s created (%gx%g ft)", wall.ID, wall.WidthFeet, wall.HeightFeet)
	return c.Status(http.StatusCreated).JSON(wall)
}
