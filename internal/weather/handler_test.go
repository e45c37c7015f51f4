package weather

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"agrilink-backend/internal/config"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetWeatherHandler(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"current": {"temperature_2m": 31.2, "relative_humidity_2m": 70}}`))
	}))
	defer srv.Close()

	cl := NewClient(&config.Config{})
	cl.openMeteoURL = srv.URL

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{"error": e.Message})
			}
			return c.SendStatus(fiber.StatusInternalServerError)
		},
	})
	// nil cache: caching disabled, handler must still work
	app.Get("/weather", GetWeatherHandler(cl, nil))

	resp, err := app.Test(httptest.NewRequest("GET", "/weather?lat=30.901&lon=75.857", nil), -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var d Data
	require.NoError(t, json.Unmarshal(raw, &d))
	assert.Equal(t, 31.2, d.Temperature)
	assert.Equal(t, "Open-Meteo_Free", d.Source)

	for _, path := range []string{
		"/weather",
		"/weather?lat=30.901",
		"/weather?lat=abc&lon=75.857",
		"/weather?lat=99&lon=75.857",
		"/weather?lat=30.901&lon=999",
	} {
		resp, err := app.Test(httptest.NewRequest("GET", path, nil), -1)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode, path)
	}
}

func TestNilCacheIsNoop(t *testing.T) {
	var c *Cache
	assert.Nil(t, c.Get(context.Background(), 30.9, 75.8))
	// Set on a nil cache must not panic
	c.Set(context.Background(), 30.9, 75.8, &Data{Temperature: 30})
}
