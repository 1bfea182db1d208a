package render

import (
	"bytes"
	"fmt"
	"math"
	"strconv"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"

	"wall-elevation/internal/elevation/hittest"
	"wall-elevation/internal/elevation/models"
	"wall-elevation/internal/elevation/scale"
)

// ============================================================
// Surface
// ============================================================

const (
	// LabelBand: полоса под чертежом для подписи ширины и масштаба, px.
	LabelBand = 40

	backgroundColor = "#FFFFFF"
	borderColor     = "#000000"
	gridColor       = "#E0E0E0"
	labelColor      = "#000000"
	captionColor    = "#666666"

	labelFontSize   = 12
	captionFontSize = 10
	wallFontSize    = 14
	labelHeight     = 16
)

var (
	regularFont = mustParseFont(goregular.TTF)
	boldFont    = mustParseFont(gobold.TTF)
)

func mustParseFont(data []byte) *truetype.Font {
	f, err := truetype.Parse(data)
	if err != nil {
		panic(fmt.Sprintf("parse embedded font: %v", err))
	}
	return f
}

func newFace(f *truetype.Font, size float64) font.Face {
	return truetype.NewFace(f, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
}

// NewSurface создает растровую поверхность под чертеж плюс полосу подписей.
func NewSurface(dims models.DrawingDimensions) *gg.Context {
	return gg.NewContext(dims.Width, dims.Height+LabelBand)
}

// ============================================================
// Elevation
// ============================================================

// DrawElevation рисует развертку стены на поверхности.
// Порядок: очистка, белый фон, рамка, сетка по футам, фикстуры, размеры стены и масштаб.
// Результат детерминирован для пары (wall, dims).
func DrawElevation(dc *gg.Context, wall models.WallWithFixtures, dims models.DrawingDimensions) {
	width := float64(dims.Width)
	height := float64(dims.Height)
	ppi := dims.PixelsPerInch

	dc.SetRGBA(0, 0, 0, 0)
	dc.Clear()

	dc.SetHexColor(backgroundColor)
	dc.DrawRectangle(0, 0, width, height)
	dc.Fill()

	dc.SetHexColor(borderColor)
	dc.SetLineWidth(2)
	dc.DrawRectangle(0, 0, width, height)
	dc.Stroke()

	drawGrid(dc, wall.Wall, width, height, ppi)

	labelFace := newFace(regularFont, labelFontSize)
	captionFace := newFace(regularFont, captionFontSize)
	for _, fixture := range wall.Fixtures {
		drawFixture(dc, fixture, wall.HeightFeet, ppi, labelFace, captionFace)
	}

	drawDimensions(dc, wall.Wall, width, height)
}

func drawGrid(dc *gg.Context, wall models.Wall, width, height, ppi float64) {
	dc.SetHexColor(gridColor)
	dc.SetLineWidth(0.5)

	for feet := 1.0; feet < wall.WidthFeet; feet++ {
		x := scale.FeetToPixels(feet, ppi)
		dc.DrawLine(x, 0, x, height)
		dc.Stroke()
	}

	// горизонтальные линии считаются от пола
	for feet := 1.0; feet < wall.HeightFeet; feet++ {
		y := height - scale.FeetToPixels(feet, ppi)
		dc.DrawLine(0, y, width, y)
		dc.Stroke()
	}
}

func drawFixture(dc *gg.Context, fixture models.Fixture, wallHeightFeet, ppi float64, labelFace, captionFace font.Face) {
	r := hittest.FixturePixelRect(fixture, wallHeightFeet, ppi)

	dc.SetHexColor(FillColorFor(fixture.Type))
	dc.DrawRectangle(r.X, r.Y, r.Width, r.Height)
	dc.Fill()

	dc.SetHexColor(ColorFor(fixture.Type))
	dc.SetLineWidth(2)
	dc.DrawRectangle(r.X, r.Y, r.Width, r.Height)
	dc.Stroke()

	// подпись с белой подложкой
	dc.SetFontFace(labelFace)
	center := r.Center()
	textWidth, _ := dc.MeasureString(fixture.Name)

	dc.SetRGBA(1, 1, 1, 0.8)
	dc.DrawRectangle(center.X-textWidth/2-2, center.Y-labelHeight/2, textWidth+4, labelHeight)
	dc.Fill()

	dc.SetHexColor(labelColor)
	dc.DrawStringAnchored(fixture.Name, center.X, center.Y, 0.5, 0.5)

	// ширина над фикстурой, высота слева с поворотом
	dc.SetFontFace(captionFace)
	dc.SetHexColor(captionColor)
	dc.DrawStringAnchored(formatInches(fixture.WidthInches), center.X, r.Y-5, 0.5, 0.5)

	hx, hy := r.X-5, center.Y
	dc.Push()
	dc.RotateAbout(-math.Pi/2, hx, hy)
	dc.DrawStringAnchored(formatInches(fixture.HeightInches), hx, hy, 0.5, 0.5)
	dc.Pop()
}

func drawDimensions(dc *gg.Context, wall models.Wall, width, height float64) {
	dc.SetHexColor(labelColor)
	dc.SetFontFace(newFace(boldFont, wallFontSize))

	dc.DrawStringAnchored(formatFeet(wall.WidthFeet), width/2, height+20, 0.5, 0.5)

	dc.Push()
	dc.RotateAbout(-math.Pi/2, 12, height/2)
	dc.DrawStringAnchored(formatFeet(wall.HeightFeet), 12, height/2, 0.5, 0.5)
	dc.Pop()

	dc.SetFontFace(newFace(regularFont, labelFontSize))
	dc.DrawStringAnchored(ScaleNotation, 10, height+20, 0, 0.5)
}

// ============================================================
// Convenience
// ============================================================

// RenderPNG считает размеры под targetWidth, рисует развертку и кодирует PNG.
func RenderPNG(wall models.WallWithFixtures, targetWidth float64) ([]byte, models.DrawingDimensions, error) {
	if err := wall.Validate(); err != nil {
		return nil, models.DrawingDimensions{}, err
	}

	dims := scale.CalculateCanvasDimensions(wall.Wall, targetWidth)
	dc := NewSurface(dims)
	DrawElevation(dc, wall, dims)

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, dims, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), dims, nil
}

// ============================================================
// Formatting helpers
// ============================================================

const ScaleNotation = `Scale: 1/2" = 1'-0"`

func formatFloat(val float64) string {
	return strconv.FormatFloat(val, 'f', -1, 64)
}

func formatInches(val float64) string {
	return formatFloat(val) + `"`
}

func formatFeet(val float64) string {
	return formatFloat(val) + `' - 0"`
}
