package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wall-elevation/internal/elevation/interaction"
	"wall-elevation/internal/elevation/models"
	"wall-elevation/internal/elevation/repository"
)

const baseURL = "http://elevation.test"

var _ interaction.Persistence = (*Client)(nil)

func setupHTTPMock(t *testing.T) {
	t.Helper()
	httpmock.Activate()
	t.Cleanup(httpmock.DeactivateAndReset)
}

const wallJSON = `{
  "id": "wall-sample",
  "name": "North Wall",
  "widthFeet": 8,
  "heightFeet": 8,
  "roomId": "room-sample",
  "createdAt": "2024-01-01T00:00:00Z",
  "updatedAt": "2024-01-01T00:00:00Z",
  "fixtures": [
    {"id": "fixture-sink", "type": "sink", "name": "Vanity Sink", "widthInches": 24, "heightInches": 8,
     "positionX": 24, "positionY": 36, "wallId": "wall-sample", "productUrl": "https://example.com/sink",
     "createdAt": "2024-01-01T00:00:00Z", "updatedAt": "2024-01-01T00:00:00Z"}
  ]
}`

func TestGetWallWithFixtures(t *testing.T) {
	setupHTTPMock(t)
	httpmock.RegisterResponder(http.MethodGet, baseURL+"/api/v1/walls/wall-sample",
		httpmock.NewStringResponder(http.StatusOK, wallJSON))

	wall, err := New(baseURL+"/").GetWallWithFixtures(context.Background(), "wall-sample")
	require.NoError(t, err)

	assert.Equal(t, "North Wall", wall.Name)
	require.Len(t, wall.Fixtures, 1)
	assert.Equal(t, 36.0, wall.Fixtures[0].PositionY)
	require.NotNil(t, wall.Fixtures[0].ProductURL)
	assert.Nil(t, wall.Fixtures[0].Notes)
}

func TestGetWallNotFound(t *testing.T) {
	setupHTTPMock(t)
	httpmock.RegisterResponder(http.MethodGet, baseURL+"/api/v1/walls/missing",
		httpmock.NewStringResponder(http.StatusNotFound, `{"error":"Wall not found"}`))

	_, err := New(baseURL).GetWallWithFixtures(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, repository.IsNotFound(err))
	assert.Contains(t, err.Error(), "Wall not found")
}

func TestUpdateFixtureSendsPatch(t *testing.T) {
	setupHTTPMock(t)

	var sent map[string]any
	httpmock.RegisterResponder(http.MethodPatch, baseURL+"/api/v1/fixtures/fixture-sink",
		func(req *http.Request) (*http.Response, error) {
			if err := json.NewDecoder(req.Body).Decode(&sent); err != nil {
				return httpmock.NewStringResponse(http.StatusBadRequest, `{"error":"bad json"}`), nil
			}
			return httpmock.NewJsonResponse(http.StatusOK, models.Fixture{
				ID: "fixture-sink", Type: "sink", Name: "Vanity Sink", WidthInches: 24, HeightInches: 8,
				PositionX: 30, PositionY: 40, WallID: "wall-sample",
			})
		})

	f, err := New(baseURL).UpdateFixture(context.Background(), "fixture-sink", models.PositionPatch(30, 40))
	require.NoError(t, err)

	assert.Equal(t, 30.0, f.PositionX)
	assert.Equal(t, map[string]any{"positionX": 30.0, "positionY": 40.0}, sent, "only position fields are sent")
	assert.Equal(t, 1, httpmock.GetTotalCallCount())
}

func TestServerErrorCarriesStatus(t *testing.T) {
	setupHTTPMock(t)
	httpmock.RegisterResponder(http.MethodPatch, baseURL+"/api/v1/fixtures/fixture-sink",
		httpmock.NewStringResponder(http.StatusInternalServerError, `{"error":"Failed to update fixture"}`))

	_, err := New(baseURL).UpdateFixture(context.Background(), "fixture-sink", models.PositionPatch(1, 1))
	require.Error(t, err)

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusInternalServerError, statusErr.StatusCode)
	assert.Equal(t, "Failed to update fixture", statusErr.Message)
	assert.False(t, repository.IsNotFound(err))
}

func TestSampleWallID(t *testing.T) {
	setupHTTPMock(t)
	httpmock.RegisterResponder(http.MethodGet, baseURL+"/api/v1/sample-wall",
		httpmock.NewStringResponder(http.StatusOK, `{"wallId":"wall-sample"}`))

	id, err := New(baseURL).SampleWallID(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "wall-sample", id)
}
