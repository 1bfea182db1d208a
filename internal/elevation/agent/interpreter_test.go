package agent

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wall-elevation/internal/elevation/models"
)

func testWall() models.WallWithFixtures {
	return models.WallWithFixtures{
		Wall: models.Wall{ID: "wall-sample", Name: "North Wall", WidthFeet: 8, HeightFeet: 8},
	}
}

func TestKeywordInterpreterAddsFixture(t *testing.T) {
	tests := []struct {
		instruction string
		want        models.FixtureDraft
		message     string
	}{
		{
			instruction: "Add a sink that is 24 by 8 inches at position 30, 36",
			want:        models.FixtureDraft{Type: "sink", Name: "Sink", WidthInches: 24, HeightInches: 8, PositionX: 30, PositionY: 36, WallID: "wall-sample"},
			message:     `Added Sink (24" × 8") at position (30", 36")`,
		},
		{
			instruction: "place a mirror",
			want:        models.FixtureDraft{Type: "mirror", Name: "Mirror", WidthInches: 30, HeightInches: 36, PositionX: 48, PositionY: 48, WallID: "wall-sample"},
		},
		{
			instruction: "Put an outlet at (12in and 18in)",
			want:        models.FixtureDraft{Type: "outlet", Name: "Outlet", WidthInches: 4, HeightInches: 6, PositionX: 12, PositionY: 18, WallID: "wall-sample"},
		},
		{
			instruction: "add light 30x5",
			want:        models.FixtureDraft{Type: "light", Name: "Light Fixture", WidthInches: 30, HeightInches: 5, PositionX: 48, PositionY: 78, WallID: "wall-sample"},
		},
		{
			instruction: "ADD A WINDOW",
			want:        models.FixtureDraft{Type: "window", Name: "Window", WidthInches: 36, HeightInches: 48, PositionX: 48, PositionY: 42, WallID: "wall-sample"},
		},
		{
			instruction: "add a towel bar",
			want:        models.FixtureDraft{Type: "unknown", Name: "New Fixture", WidthInches: 24, HeightInches: 24, PositionX: 48, PositionY: 36, WallID: "wall-sample"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.instruction, func(t *testing.T) {
			resp, err := NewKeywordInterpreter().Interpret(context.Background(), tt.instruction, testWall())
			require.NoError(t, err)
			assert.Equal(t, ActionAddFixture, resp.Action)
			require.Len(t, resp.Fixtures, 1)
			assert.Equal(t, tt.want, resp.Fixtures[0])
			if tt.message != "" {
				assert.Equal(t, tt.message, resp.Message)
			}
		})
	}
}

func TestKeywordInterpreterClarifies(t *testing.T) {
	resp, err := NewKeywordInterpreter().Interpret(context.Background(), "how tall should a vanity be?", testWall())
	require.NoError(t, err)

	assert.Equal(t, ActionClarify, resp.Action)
	assert.Empty(t, resp.Fixtures)
	assert.Contains(t, resp.Message, "Add a sink that is 24 by 8 inches at position 30, 36")
}

func TestKeywordInterpreterRejectsZeroSize(t *testing.T) {
	resp, err := NewKeywordInterpreter().Interpret(context.Background(), "add a sink 0 by 8", testWall())
	require.NoError(t, err)

	assert.Equal(t, ActionError, resp.Action)
	assert.Empty(t, resp.Fixtures)
}

func TestKeywordInterpreterDraftsAreValid(t *testing.T) {
	resp, err := NewKeywordInterpreter().Interpret(context.Background(), "add a mirror", testWall())
	require.NoError(t, err)
	require.Len(t, resp.Fixtures, 1)

	assert.NoError(t, resp.Fixtures[0].Fixture().Validate())
}
