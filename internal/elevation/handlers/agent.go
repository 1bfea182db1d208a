package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/log"

	"wall-elevation/internal/elevation/agent"
	"wall-elevation/internal/elevation/models"
)

// ============================================================
// Instruction Agent
// ============================================================

type interpretRequest struct {
	Instruction string `json:"instruction"`
	WallID      string `json:"wallId"`
}

type interpretResponse struct {
	Action   agent.Action     `json:"action"`
	Fixtures []models.Fixture `json:"fixtures,omitempty"`
	Message  string           `json:"message"`
}

// Interpret разбирает инструкцию и создает предложенные фикстуры на стене.
func (h *ElevationHandler) Interpret(c fiber.Ctx) error {
	var req interpretRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid json")
	}
	if req.Instruction == "" || req.WallID == "" {
		return errorJSON(c, http.StatusBadRequest, "Missing instruction or wallId")
	}

	wall, err := h.wall(c, req.WallID)
	if err != nil {
		return respondError(c, err, "Wall not found", "Failed to process instruction")
	}

	log.Infof("[AGENT] wall %s: %q", wall.ID, req.Instruction)
	resp, err := h.interpreter.Interpret(c.Context(), req.Instruction, *wall)
	if err != nil {
		log.Errorf("[AGENT] interpret failed: %v", err)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{
			"error":   "Failed to process instruction",
			"details": err.Error(),
		})
	}

	if resp.Action != agent.ActionAddFixture || len(resp.Fixtures) == 0 {
		return c.JSON(interpretResponse{Action: resp.Action, Message: resp.Message})
	}

	created := make([]models.Fixture, 0, len(resp.Fixtures))
	for _, draft := range resp.Fixtures {
		draft.WallID = wall.ID
		f, err := h.store.CreateFixture(c.Context(), draft.Fixture())
		if err != nil {
			return respondError(c, err, "Wall not found", "Failed to process instruction")
		}
		created = append(created, *f)
	}

	h.sessions.WallChanged(c.Context(), wall.ID)
	return c.JSON(interpretResponse{
		Action:   resp.Action,
		Fixtures: created,
		Message:  resp.Message,
	})
}
