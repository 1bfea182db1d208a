package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wall-elevation/internal/elevation/interaction"
	"wall-elevation/internal/elevation/models"
	"wall-elevation/internal/elevation/repository"
)

func sampleWall() models.WallWithFixtures {
	return models.WallWithFixtures{
		Wall:     repository.SampleWall(),
		Fixtures: repository.SampleFixtures(),
	}
}

func writeWallFile(t *testing.T, wall models.WallWithFixtures) string {
	t.Helper()
	data, err := json.Marshal(wall)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "wall.json")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestParsePoint(t *testing.T) {
	p, err := parsePoint("300, 450.5")
	require.NoError(t, err)
	assert.Equal(t, interaction.PointerEvent{X: 300, Y: 450.5}, p)

	for _, bad := range []string{"", "300", "a,1", "1,b"} {
		_, err := parsePoint(bad)
		assert.Error(t, err, bad)
	}
}

func TestRenderCommandWritesPNG(t *testing.T) {
	in := writeWallFile(t, sampleWall())
	out := filepath.Join(t.TempDir(), "wall.png")

	cmd := rootCommand()
	cmd.SetArgs([]string{"render", "--wall-file", in, "--out", out, "--width", "400"})
	cmd.SetErr(&bytes.Buffer{})
	require.NoError(t, cmd.Execute())

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("\x89PNG")))
}

func TestRenderCommandSVGToStdout(t *testing.T) {
	in := writeWallFile(t, sampleWall())

	var stdout bytes.Buffer
	cmd := rootCommand()
	cmd.SetArgs([]string{"render", "--wall-file", in, "-f", "svg"})
	cmd.SetOut(&stdout)
	require.NoError(t, cmd.Execute())

	assert.Contains(t, stdout.String(), "<svg")
}

func TestRenderCommandRejectsBadInput(t *testing.T) {
	flat := sampleWall()
	flat.Wall.HeightFeet = 0
	in := writeWallFile(t, flat)

	cmd := rootCommand()
	cmd.SetArgs([]string{"render", "--wall-file", in})
	cmd.SetOut(&bytes.Buffer{})
	assert.ErrorIs(t, cmd.Execute(), models.ErrInvalidWall)

	cmd = rootCommand()
	cmd.SetArgs([]string{"render", "--wall-file", writeWallFile(t, sampleWall()), "-f", "gif"})
	assert.Error(t, cmd.Execute())
}

func TestRunDragSavesThroughStore(t *testing.T) {
	store := repository.NewMemoryStore()
	require.NoError(t, repository.Seed(context.Background(), store))

	var out bytes.Buffer
	// раковина: x 200..400, y 433.33..500 на холсте 800px
	err := runDrag(context.Background(), &out, store, sampleWall(), 800,
		interaction.PointerEvent{X: 300, Y: 450},
		interaction.PointerEvent{X: 400, Y: 450})
	require.NoError(t, err)

	f, err := store.GetFixture(context.Background(), "fixture-sink")
	require.NoError(t, err)
	assert.InDelta(t, 36, f.PositionX, 1e-9)
	assert.Contains(t, out.String(), "fixture-sink")
	assert.Contains(t, out.String(), `36"`)
}

func TestRunDragMiss(t *testing.T) {
	err := runDrag(context.Background(), &bytes.Buffer{}, repository.NewMemoryStore(), sampleWall(), 800,
		interaction.PointerEvent{X: 5, Y: 5},
		interaction.PointerEvent{X: 50, Y: 50})
	assert.Error(t, err)
}

func TestMoveCommand(t *testing.T) {
	httpmock.Activate()
	t.Cleanup(httpmock.DeactivateAndReset)

	var patch models.FixturePatch
	httpmock.RegisterResponder(http.MethodPatch, "http://elevation.test/api/v1/fixtures/fixture-sink",
		func(req *http.Request) (*http.Response, error) {
			if err := json.NewDecoder(req.Body).Decode(&patch); err != nil {
				return httpmock.NewStringResponse(http.StatusBadRequest, `{"error":"invalid json"}`), nil
			}
			f := repository.SampleFixtures()[0]
			f.PositionX = *patch.PositionX
			return httpmock.NewJsonResponse(http.StatusOK, f)
		})

	var stdout bytes.Buffer
	cmd := rootCommand()
	cmd.SetArgs([]string{"move", "--fixture", "fixture-sink", "--x", "12.5", "--server", "http://elevation.test/api/v1"})
	cmd.SetOut(&stdout)
	require.NoError(t, cmd.Execute())

	require.NotNil(t, patch.PositionX)
	assert.Nil(t, patch.PositionY)
	assert.Contains(t, stdout.String(), `fixture-sink moved to (12.5", 36")`)
}

func TestFetchCommandSampleWall(t *testing.T) {
	httpmock.Activate()
	t.Cleanup(httpmock.DeactivateAndReset)

	httpmock.RegisterResponder(http.MethodGet, "http://elevation.test/api/v1/sample-wall",
		httpmock.NewStringResponder(http.StatusOK, `{"wallId":"wall-sample"}`))
	httpmock.RegisterResponder(http.MethodGet, "http://elevation.test/api/v1/walls/wall-sample",
		func(*http.Request) (*http.Response, error) {
			return httpmock.NewJsonResponse(http.StatusOK, sampleWall())
		})

	var stdout bytes.Buffer
	cmd := rootCommand()
	cmd.SetArgs([]string{"fetch", "--server", "http://elevation.test/api/v1"})
	cmd.SetOut(&stdout)
	require.NoError(t, cmd.Execute())

	var got models.WallWithFixtures
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &got))
	assert.Equal(t, "North Wall", got.Name)
	assert.Len(t, got.Fixtures, 4)

	stdout.Reset()
	cmd = rootCommand()
	cmd.SetArgs([]string{"fetch", "--server", "http://elevation.test/api/v1", "--wall", "wall-sample", "-f", "png"})
	cmd.SetOut(&stdout)
	require.NoError(t, cmd.Execute())
	assert.True(t, bytes.HasPrefix(stdout.Bytes(), []byte("\x89PNG")))
}
