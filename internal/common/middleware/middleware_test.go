package middleware

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCORSAllowsConfiguredOrigin(t *testing.T) {
	app := fiber.New()
	app.Use(CORS([]string{"http://localhost:3000"}))
	app.Get("/ping", func(c fiber.Ctx) error { return c.SendString("pong") })

	req := httptest.NewRequest(fiber.MethodGet, "/ping", nil)
	req.Header.Set(fiber.HeaderOrigin, "http://localhost:3000")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:3000", resp.Header.Get(fiber.HeaderAccessControlAllowOrigin))

	req = httptest.NewRequest(fiber.MethodGet, "/ping", nil)
	req.Header.Set(fiber.HeaderOrigin, "http://evil.example")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Empty(t, resp.Header.Get(fiber.HeaderAccessControlAllowOrigin))
}

func TestLoggerPassesThrough(t *testing.T) {
	app := fiber.New()
	app.Use(Logger())
	app.Get("/ping", func(c fiber.Ctx) error { return c.SendString("pong") })

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/ping", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestSetLogLevel(t *testing.T) {
	t.Cleanup(func() { SetLogLevel("info") })

	assert.Equal(t, log.LevelDebug, SetLogLevel("DEBUG"))
	assert.Equal(t, log.LevelWarn, SetLogLevel("warning"))
	assert.Equal(t, log.LevelInfo, SetLogLevel("nonsense"))
}
