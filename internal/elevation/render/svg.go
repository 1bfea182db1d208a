package render

import (
	"bytes"
	"fmt"
	"math"

	svg "github.com/ajstarks/svgo"

	"wall-elevation/internal/elevation/hittest"
	"wall-elevation/internal/elevation/models"
	"wall-elevation/internal/elevation/scale"
)

// ============================================================
// SVG export
// ============================================================

// GenerateElevationSVG собирает статичный SVG: фон, сетка, фикстуры с подписями и ширина стены.
// Только для экспорта: координаты округляются до целых пикселей, перетаскивания нет.
func GenerateElevationSVG(wall models.WallWithFixtures, dims models.DrawingDimensions) string {
	width := dims.Width
	height := dims.Height
	ppi := dims.PixelsPerInch

	var buf bytes.Buffer
	canvas := svg.New(&buf)
	canvas.Start(width, height+LabelBand)

	canvas.Rect(0, 0, width, height, `fill="white"`, `stroke="black"`, `stroke-width="2"`)

	for feet := 1.0; feet < wall.WidthFeet; feet++ {
		x := px(scale.FeetToPixels(feet, ppi))
		canvas.Line(x, 0, x, height, fmt.Sprintf(`stroke="%s"`, gridColor), `stroke-width="0.5"`)
	}
	for feet := 1.0; feet < wall.HeightFeet; feet++ {
		y := height - px(scale.FeetToPixels(feet, ppi))
		canvas.Line(0, y, width, y, fmt.Sprintf(`stroke="%s"`, gridColor), `stroke-width="0.5"`)
	}

	for _, fixture := range wall.Fixtures {
		r := hittest.FixturePixelRect(fixture, wall.HeightFeet, ppi)
		canvas.Rect(px(r.X), px(r.Y), px(r.Width), px(r.Height),
			fmt.Sprintf(`fill="%s"`, FillColorFor(fixture.Type)),
			fmt.Sprintf(`stroke="%s"`, ColorFor(fixture.Type)),
			`stroke-width="2"`)

		center := r.Center()
		canvas.Text(px(center.X), px(center.Y), fixture.Name,
			`text-anchor="middle"`, `dominant-baseline="middle"`, `font-size="12"`, `fill="black"`)
	}

	canvas.Text(width/2, height+20, formatFeet(wall.WidthFeet),
		`text-anchor="middle"`, `font-size="14"`, `font-weight="bold"`)

	canvas.End()
	return buf.String()
}

func px(v float64) int {
	return int(math.Round(v))
}
