package scale

import (
	"math"

	"wall-elevation/internal/elevation/models"
)

// ============================================================
// Drawing Scale
// ============================================================

const (
	// архитектурный масштаб чертежа 1/2" = 1'-0"
	InchesPerFoot = 0.5

	DefaultTargetWidth = 800.0
)

// FeetToPixels переводит футы стены в пиксели (линии сетки).
func FeetToPixels(feet, pixelsPerInch float64) float64 {
	drawingInches := feet * InchesPerFoot
	return drawingInches * pixelsPerInch
}

// InchesToPixels переводит реальные дюймы фикстуры сначала в дюймы чертежа, затем в пиксели.
func InchesToPixels(inches, pixelsPerInch float64) float64 {
	drawingInches := inches * InchesPerFoot / 12
	return drawingInches * pixelsPerInch
}

// PixelsToInches обратна InchesToPixels.
func PixelsToInches(pixels, pixelsPerInch float64) float64 {
	drawingInches := pixels / pixelsPerInch
	return drawingInches * 12 / InchesPerFoot
}

// CalculateCanvasDimensions подбирает pixelsPerInch под targetWidth.
// Высота считается тем же множителем, так что пропорции стены сохраняются.
// Стену с нулевыми размерами должен отсечь вызывающий (models.Wall.Validate).
func CalculateCanvasDimensions(wall models.Wall, targetWidth float64) models.DrawingDimensions {
	drawingWidthInches := wall.WidthFeet * InchesPerFoot
	drawingHeightInches := wall.HeightFeet * InchesPerFoot

	pixelsPerInch := targetWidth / drawingWidthInches

	return models.DrawingDimensions{
		Width:         int(math.Round(drawingWidthInches * pixelsPerInch)),
		Height:        int(math.Round(drawingHeightInches * pixelsPerInch)),
		PixelsPerInch: pixelsPerInch,
	}
}

// WallHeightPixels: высота стены в пикселях без округления.
// Используется для переворота оси Y у фикстур.
func WallHeightPixels(wallHeightFeet, pixelsPerInch float64) float64 {
	return FeetToPixels(wallHeightFeet, pixelsPerInch)
}
