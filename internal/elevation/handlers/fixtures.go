package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/log"

	"wall-elevation/internal/elevation/models"
)

// ============================================================
// Fixtures
// ============================================================

// createFixtureRequest: числа указателями, чтобы отличить 0 от отсутствующего поля.
type createFixtureRequest struct {
	Type         string   `json:"type"`
	Name         string   `json:"name"`
	WidthInches  *float64 `json:"widthInches"`
	HeightInches *float64 `json:"heightInches"`
	PositionX    *float64 `json:"positionX"`
	PositionY    *float64 `json:"positionY"`
	WallID       string   `json:"wallId"`
	ProductURL   *string  `json:"productUrl"`
	Notes        *string  `json:"notes"`
}

func (r createFixtureRequest) complete() bool {
	return r.Type != "" && r.Name != "" && r.WallID != "" &&
		r.WidthInches != nil && *r.WidthInches != 0 &&
		r.HeightInches != nil && *r.HeightInches != 0 &&
		r.PositionX != nil && r.PositionY != nil
}

func (h *ElevationHandler) CreateFixture(c fiber.Ctx) error {
	var req createFixtureRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid json")
	}
	if !req.complete() {
		return errorJSON(c, http.StatusBadRequest, "Missing required fields")
	}

	draft := models.FixtureDraft{
		Type:         req.Type,
		Name:         req.Name,
		WidthInches:  *req.WidthInches,
		HeightInches: *req.HeightInches,
		PositionX:    *req.PositionX,
		PositionY:    *req.PositionY,
		WallID:       req.WallID,
		ProductURL:   req.ProductURL,
		Notes:        req.Notes,
	}

	fixture, err := h.store.CreateFixture(c.Context(), draft.Fixture())
	if err != nil {
		return respondError(c, err, "Wall not found", "Failed to create fixture")
	}

	log.Infof("[STORE] fixture %s (%s) added to wall %s", fixture.ID, fixture.Type, fixture.WallID)
	h.sessions.WallChanged(c.Context(), fixture.WallID)
	return c.Status(http.StatusCreated).JSON(fixture)
}

// UpdateFixture применяет частичное обновление. wallId в теле игнорируется.
func (h *ElevationHandler) UpdateFixture(c fiber.Ctx) error {
	var patch models.FixturePatch
	if err := json.Unmarshal(c.Body(), &patch); err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid json")
	}

	fixture, err := h.store.UpdateFixture(c.Context(), c.Params("id"), patch)
	if err != nil {
		return respondError(c, err, "Fixture not found", "Failed to update fixture")
	}

	log.Debugf("[STORE] fixture %s updated", fixture.ID)
	h.sessions.WallChanged(c.Context(), fixture.WallID)
	return c.JSON(fixture)
}

func (h *ElevationHandler) DeleteFixture(c fiber.Ctx) error {
	id := c.Params("id")

	fixture, err := h.store.GetFixture(c.Context(), id)
	if err != nil {
		return respondError(c, err, "Fixture not found", "Failed to delete fixture")
	}
	if err := h.store.DeleteFixture(c.Context(), id); err != nil {
		return respondError(c, err, "Fixture not found", "Failed to delete fixture")
	}

	log.Infof("[STORE] fixture %s deleted", id)
	h.sessions.WallChanged(c.Context(), fixture.WallID)
	return c.JSON(fiber.Map{"success": true})
}
