package hittest

import (
	"wall-elevation/internal/elevation/models"
	"wall-elevation/internal/elevation/scale"
)

// ============================================================
// Pixel geometry
// ============================================================

// Point: пиксели холста, ось Y вниз.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Contains включает все четыре края.
func (r Rect) Contains(px, py float64) bool {
	return px >= r.X && px <= r.X+r.Width &&
		py >= r.Y && py <= r.Y+r.Height
}

func (r Rect) Center() Point {
	return Point{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

// GetFixturePixelPosition возвращает левый верхний угол фикстуры на холсте.
// positionY отсчитывается от пола, поэтому Y переворачивается:
// pixelY = wallHeightPx - inchesToPixels(positionY) - inchesToPixels(heightInches).
func GetFixturePixelPosition(fixture models.Fixture, wallHeightFeet, pixelsPerInch float64) Point {
	wallHeightPx := scale.WallHeightPixels(wallHeightFeet, pixelsPerInch)
	return Point{
		X: scale.InchesToPixels(fixture.PositionX, pixelsPerInch),
		Y: wallHeightPx -
			scale.InchesToPixels(fixture.PositionY, pixelsPerInch) -
			scale.InchesToPixels(fixture.HeightInches, pixelsPerInch),
	}
}

// FixturePixelRect считает прямоугольник фикстуры тем же преобразованием, что и рендер.
func FixturePixelRect(fixture models.Fixture, wallHeightFeet, pixelsPerInch float64) Rect {
	topLeft := GetFixturePixelPosition(fixture, wallHeightFeet, pixelsPerInch)
	return Rect{
		X:      topLeft.X,
		Y:      topLeft.Y,
		Width:  scale.InchesToPixels(fixture.WidthInches, pixelsPerInch),
		Height: scale.InchesToPixels(fixture.HeightInches, pixelsPerInch),
	}
}

// ============================================================
// Hit testing
// ============================================================

// GetFixtureAtPosition ищет фикстуру под точкой (pixelX, pixelY).
//
// Явного z-порядка в модели нет. Рендер рисует фикстуры в порядке списка,
// поэтому при перекрытии побеждает последняя нарисованная (верхняя):
// список просматривается с конца. Промах не ошибка: ok == false.
func GetFixtureAtPosition(wall models.WallWithFixtures, pixelX, pixelY float64, dims models.DrawingDimensions) (models.Fixture, bool) {
	for i := len(wall.Fixtures) - 1; i >= 0; i-- {
		f := wall.Fixtures[i]
		if FixturePixelRect(f, wall.HeightFeet, dims.PixelsPerInch).Contains(pixelX, pixelY) {
			return f, true
		}
	}
	return models.Fixture{}, false
}
