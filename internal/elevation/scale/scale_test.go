package scale

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"wall-elevation/internal/elevation/models"
)

func TestFeetToPixels(t *testing.T) {
	// 8' wall at 800px: 200 px per drawing inch, one foot = 0.5" = 100px
	assert.InDelta(t, 100.0, FeetToPixels(1, 200), 1e-9)
	assert.InDelta(t, 800.0, FeetToPixels(8, 200), 1e-9)
	assert.InDelta(t, 0.0, FeetToPixels(0, 200), 1e-9)
}

func TestInchesToPixels(t *testing.T) {
	assert.InDelta(t, 200.0, InchesToPixels(24, 200), 1e-9)
	assert.InDelta(t, 300.0, InchesToPixels(36, 200), 1e-9)
	assert.InDelta(t, 66.6666666, InchesToPixels(8, 200), 1e-6)
}

func TestPixelsToInchesRoundTrip(t *testing.T) {
	values := []float64{0, 0.05, 1, 8, 24, 36, 95.5, 144, 1234.5678}
	scales := []float64{0.01, 1, 33.3333, 200, 987.65}

	for _, ppi := range scales {
		for _, v := range values {
			got := PixelsToInches(InchesToPixels(v, ppi), ppi)
			assert.InDelta(t, v, got, 1e-9, "value %v at ppi %v", v, ppi)
		}
	}
}

func TestCalculateCanvasDimensions(t *testing.T) {
	tests := []struct {
		name       string
		wall       models.Wall
		target     float64
		wantWidth  int
		wantHeight int
		wantPPI    float64
	}{
		{"square_8x8", models.Wall{WidthFeet: 8, HeightFeet: 8}, 800, 800, 800, 200},
		{"wide_12x8", models.Wall{WidthFeet: 12, HeightFeet: 8}, 600, 600, 400, 100},
		{"tall_4x10", models.Wall{WidthFeet: 4, HeightFeet: 10}, 400, 400, 1000, 200},
		{"fractional_7.5x9", models.Wall{WidthFeet: 7.5, HeightFeet: 9}, 750, 750, 900, 200},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dims := CalculateCanvasDimensions(tt.wall, tt.target)
			assert.Equal(t, tt.wantWidth, dims.Width)
			assert.Equal(t, tt.wantHeight, dims.Height)
			assert.InDelta(t, tt.wantPPI, dims.PixelsPerInch, 1e-9)
		})
	}
}

func TestCalculateCanvasDimensionsAspectRatio(t *testing.T) {
	walls := []models.Wall{
		{WidthFeet: 8, HeightFeet: 8},
		{WidthFeet: 10, HeightFeet: 8},
		{WidthFeet: 3, HeightFeet: 9},
		{WidthFeet: 22.5, HeightFeet: 9.25},
	}
	targets := []float64{400, 800, 1024, 1920}

	for _, w := range walls {
		for _, target := range targets {
			dims := CalculateCanvasDimensions(w, target)
			want := w.HeightFeet / w.WidthFeet
			got := float64(dims.Height) / float64(dims.Width)
			// integral pixels introduce at most half a pixel of error per side
			tolerance := 1.0 / float64(dims.Width)
			assert.InDelta(t, want, got, tolerance*(1+want), "wall %vx%v at %v", w.WidthFeet, w.HeightFeet, target)
		}
	}
}
