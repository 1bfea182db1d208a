package hittest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wall-elevation/internal/elevation/models"
	"wall-elevation/internal/elevation/scale"
)

func sampleWall() models.WallWithFixtures {
	return models.WallWithFixtures{
		Wall: models.Wall{ID: "wall-1", Name: "North Wall", WidthFeet: 8, HeightFeet: 8},
		Fixtures: []models.Fixture{
			{ID: "sink", Type: "sink", Name: "Vanity Sink", WidthInches: 24, HeightInches: 8, PositionX: 24, PositionY: 36, WallID: "wall-1"},
		},
	}
}

func TestGetFixturePixelPosition(t *testing.T) {
	wall := sampleWall()
	dims := scale.CalculateCanvasDimensions(wall.Wall, 800)
	require.Equal(t, 800, dims.Width)
	require.Equal(t, 800, dims.Height)

	p := GetFixturePixelPosition(wall.Fixtures[0], wall.HeightFeet, dims.PixelsPerInch)
	assert.InDelta(t, 200.0, p.X, 1e-9)
	assert.InDelta(t, 800-300-66.6666667, p.Y, 1e-6)
}

func TestGetFixtureAtPositionContainment(t *testing.T) {
	wall := sampleWall()
	dims := scale.CalculateCanvasDimensions(wall.Wall, 800)

	center := FixturePixelRect(wall.Fixtures[0], wall.HeightFeet, dims.PixelsPerInch).Center()
	hit, ok := GetFixtureAtPosition(wall, center.X, center.Y, dims)
	require.True(t, ok)
	assert.Equal(t, "sink", hit.ID)

	_, ok = GetFixtureAtPosition(wall, 10, 10, dims)
	assert.False(t, ok)

	_, ok = GetFixtureAtPosition(wall, 790, 790, dims)
	assert.False(t, ok)
}

func TestGetFixtureAtPositionEdges(t *testing.T) {
	wall := sampleWall()
	dims := scale.CalculateCanvasDimensions(wall.Wall, 800)
	r := FixturePixelRect(wall.Fixtures[0], wall.HeightFeet, dims.PixelsPerInch)

	tests := []struct {
		name string
		x, y float64
		want bool
	}{
		{"top_left", r.X, r.Y, true},
		{"bottom_right", r.X + r.Width, r.Y + r.Height, true},
		{"left_outside", r.X - 0.01, r.Y + 1, false},
		{"below_outside", r.X + 1, r.Y + r.Height + 0.01, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := GetFixtureAtPosition(wall, tt.x, tt.y, dims)
			assert.Equal(t, tt.want, ok)
		})
	}
}

func TestGetFixtureAtPositionOverlapPicksTopmost(t *testing.T) {
	wall := sampleWall()
	wall.Fixtures = append(wall.Fixtures, models.Fixture{
		ID: "mirror", Type: "mirror", Name: "Wall Mirror",
		WidthInches: 30, HeightInches: 36, PositionX: 21, PositionY: 30, WallID: "wall-1",
	})
	dims := scale.CalculateCanvasDimensions(wall.Wall, 800)

	center := FixturePixelRect(wall.Fixtures[0], wall.HeightFeet, dims.PixelsPerInch).Center()
	hit, ok := GetFixtureAtPosition(wall, center.X, center.Y, dims)
	require.True(t, ok)
	assert.Equal(t, "mirror", hit.ID, "last painted fixture is on top")
}

func TestGetFixtureAtPositionEmptyWall(t *testing.T) {
	wall := models.WallWithFixtures{Wall: models.Wall{WidthFeet: 8, HeightFeet: 8}}
	dims := scale.CalculateCanvasDimensions(wall.Wall, 800)

	_, ok := GetFixtureAtPosition(wall, 400, 400, dims)
	assert.False(t, ok)
}
