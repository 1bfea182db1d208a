package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/log"

	"wall-elevation/internal/elevation/interaction"
	"wall-elevation/internal/elevation/render"
	"wall-elevation/internal/elevation/service"
)

// ============================================================
// Interaction Sessions
// ============================================================

type openSessionRequest struct {
	TargetWidth float64 `json:"targetWidth"`
}

type sessionResponse struct {
	ID       string               `json:"id"`
	WallID   string               `json:"wallId"`
	Snapshot interaction.Snapshot `json:"snapshot"`
}

func sessionPayload(s *service.Session) sessionResponse {
	return sessionResponse{ID: s.ID, WallID: s.WallID, Snapshot: s.Controller.Snapshot()}
}

// OpenSession создает сессию перетаскивания для стены.
func (h *ElevationHandler) OpenSession(c fiber.Ctx) error {
	var req openSessionRequest
	if body := c.Body(); len(body) > 0 {
		if err := json.Unmarshal(body, &req); err != nil {
			return errorJSON(c, http.StatusBadRequest, "invalid json")
		}
	}
	width := req.TargetWidth
	if width == 0 {
		width = h.targetWidth
	}
	if width < 0 || width > maxTargetWidth {
		return errorJSON(c, http.StatusBadRequest, "invalid targetWidth")
	}

	s, err := h.sessions.Open(c.Context(), c.Params("id"), width)
	if err != nil {
		return respondError(c, err, "Wall not found", "Failed to open session")
	}
	return c.Status(http.StatusCreated).JSON(sessionPayload(s))
}

func (h *ElevationHandler) GetSession(c fiber.Ctx) error {
	s, err := h.sessions.Get(c.Params("sid"))
	if err != nil {
		return respondError(c, err, "Session not found", "Failed to fetch session")
	}
	return c.JSON(sessionPayload(s))
}

type pointerRequest struct {
	Type string `json:"type"` // down, move, up, leave
	interaction.PointerEvent
}

type pointerResponse struct {
	Started  *bool                 `json:"started,omitempty"`
	Feedback *interaction.Feedback `json:"feedback,omitempty"`
	Snapshot interaction.Snapshot  `json:"snapshot"`
}

// Pointer передает событие указателя контроллеру сессии.
func (h *ElevationHandler) Pointer(c fiber.Ctx) error {
	s, err := h.sessions.Get(c.Params("sid"))
	if err != nil {
		return respondError(c, err, "Session not found", "Failed to handle pointer event")
	}

	var req pointerRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid json")
	}

	var resp pointerResponse
	switch req.Type {
	case "down":
		started := s.Controller.PointerDown(req.PointerEvent)
		resp.Started = &started
	case "move":
		fb := s.Controller.PointerMove(req.PointerEvent)
		resp.Feedback = &fb
	case "up":
		// сохранение живет дольше запроса
		s.Controller.PointerUp(context.Background(), req.PointerEvent)
	case "leave":
		s.Controller.PointerLeave()
	default:
		return errorJSON(c, http.StatusBadRequest, "type must be one of down, move, up, leave")
	}

	resp.Snapshot = s.Controller.Snapshot()
	return c.JSON(resp)
}

// RefreshSession перечитывает стену и сверяет ее с локальными правками.
func (h *ElevationHandler) RefreshSession(c fiber.Ctx) error {
	s, err := h.sessions.Refresh(c.Context(), c.Params("sid"))
	if err != nil {
		return respondError(c, err, "Wall not found", "Failed to refresh session")
	}
	return c.JSON(sessionPayload(s))
}

// Frame рисует текущую видимую стену сессии, включая незавершенное перетаскивание.
func (h *ElevationHandler) Frame(c fiber.Ctx) error {
	s, err := h.sessions.Get(c.Params("sid"))
	if err != nil {
		return respondError(c, err, "Session not found", "Failed to render frame")
	}

	wall := s.Controller.VisibleWall()
	dims := s.Controller.Dimensions()
	if err := wall.Validate(); err != nil {
		return respondError(c, err, "Wall not found", "Failed to render frame")
	}

	dc := render.NewSurface(dims)
	render.DrawElevation(dc, wall, dims)

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return respondError(c, err, "Wall not found", "Failed to render frame")
	}

	c.Set(fiber.HeaderContentType, "image/png")
	return c.Send(buf.Bytes())
}

// CloseSession закрывает сессию, дождавшись сохранений.
func (h *ElevationHandler) CloseSession(c fiber.Ctx) error {
	sid := c.Params("sid")
	if err := h.sessions.Close(sid); err != nil {
		return respondError(c, err, "Session not found", "Failed to close session")
	}
	log.Debugf("[SESSION] %s closed by client", sid)
	return c.JSON(fiber.Map{"success": true})
}
