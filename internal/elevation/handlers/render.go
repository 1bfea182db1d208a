package handlers

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/log"

	"wall-elevation/internal/common/metrics"
	"wall-elevation/internal/elevation/models"
	"wall-elevation/internal/elevation/render"
	"wall-elevation/internal/elevation/scale"
)

// ============================================================
// Rendering
// ============================================================

// RenderPNG рисует стену в PNG. ?width= задает ширину холста.
func (h *ElevationHandler) RenderPNG(c fiber.Ctx) error {
	return h.renderCached(c, metrics.FormatPNG, "image/png", func(wall models.WallWithFixtures, width float64) ([]byte, error) {
		data, _, err := render.RenderPNG(wall, width)
		return data, err
	})
}

// RenderSVG отдает статичный SVG для экспорта.
func (h *ElevationHandler) RenderSVG(c fiber.Ctx) error {
	return h.renderCached(c, metrics.FormatSVG, "image/svg+xml", func(wall models.WallWithFixtures, width float64) ([]byte, error) {
		if err := wall.Validate(); err != nil {
			return nil, err
		}
		dims := scale.CalculateCanvasDimensions(wall.Wall, width)
		return []byte(render.GenerateElevationSVG(wall, dims)), nil
	})
}

type renderFunc func(wall models.WallWithFixtures, width float64) ([]byte, error)

func (h *ElevationHandler) renderCached(c fiber.Ctx, format, contentType string, fn renderFunc) error {
	width, err := h.widthParam(c)
	if err != nil {
		return errorJSON(c, http.StatusBadRequest, err.Error())
	}

	wall, err := h.wall(c, c.Params("id"))
	if err != nil {
		return respondError(c, err, "Wall not found", "Failed to fetch wall")
	}

	key, err := h.cache.Key(format, width, *wall)
	if err != nil {
		return respondError(c, err, "Wall not found", "Failed to render elevation")
	}

	start := time.Now()
	data, hit, err := h.cache.GetOrRender(key, func() ([]byte, error) {
		return fn(*wall, width)
	})
	if err != nil {
		return respondError(c, err, "Wall not found", "Failed to render elevation")
	}

	if hit {
		h.metrics.RecordRenderCacheHit(format)
	} else {
		h.metrics.RecordRender(format, time.Since(start))
		log.Debugf("[RENDER] %s %s at %gpx in %s", wall.ID, format, width, time.Since(start))
	}

	c.Set(fiber.HeaderContentType, contentType)
	return c.Send(data)
}

// Export рисует PNG, сохраняет его в хранилище экспортов и отдает data URI для скачивания.
func (h *ElevationHandler) Export(c fiber.Ctx) error {
	width, err := h.widthParam(c)
	if err != nil {
		return errorJSON(c, http.StatusBadRequest, err.Error())
	}

	wall, err := h.wall(c, c.Params("id"))
	if err != nil {
		return respondError(c, err, "Wall not found", "Failed to fetch wall")
	}
	if err := wall.Validate(); err != nil {
		return respondError(c, err, "Wall not found", "Failed to export elevation")
	}

	start := time.Now()
	dims := scale.CalculateCanvasDimensions(wall.Wall, width)
	dc := render.NewSurface(dims)
	render.DrawElevation(dc, *wall, dims)

	dataURL, err := render.ExportElevationAsImage(dc)
	if err != nil {
		return respondError(c, err, "Wall not found", "Failed to export elevation")
	}
	h.metrics.RecordRender(metrics.FormatPNG, time.Since(start))

	data, err := render.DecodeDataURI(dataURL)
	if err != nil {
		return respondError(c, err, "Wall not found", "Failed to export elevation")
	}
	path, err := h.exports.SavePNG(wall.Wall, data)
	if err != nil {
		return respondError(c, err, "Wall not found", "Failed to export elevation")
	}

	log.Infof("[RENDER] exported %s to %s", wall.ID, path)
	return c.JSON(fiber.Map{
		"filename": render.ExportFilename(wall.Wall),
		"dataUrl":  dataURL,
		"path":     path,
	})
}
