package predict

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPredictApp(model *Model) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{"error": e.Message})
			}
			return c.SendStatus(fiber.StatusInternalServerError)
		},
	})
	app.Post("/predict", PredictHandler(model))
	app.Get("/crops", ListCropsHandler())
	app.Get("/districts", ListDistrictsHandler())
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body any) (*http.Response, []byte) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, raw
}

func TestPredictHandler(t *testing.T) {
	app := newPredictApp(DefaultModel())

	resp, raw := doJSON(t, app, "POST", "/predict", fiber.Map{
		"crop":      "Wheat",
		"acres":     10,
		"latitude":  30.9,
		"longitude": 75.85,
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode, string(raw))

	var body PredictResponse
	require.NoError(t, json.Unmarshal(raw, &body))

	assert.True(t, body.Success)
	assert.Greater(t, body.PredictedYield, 0.0)
	assert.InDelta(t, body.PredictedYield*0.85, body.YieldRange.Minimum, 0.1)
	assert.InDelta(t, body.PredictedYield*1.15, body.YieldRange.Maximum, 0.1)
	assert.Contains(t, []string{"High", "Medium", "Low"}, body.Confidence)
	assert.Equal(t, APIVersion, body.APIVersion)
	assert.Equal(t, "wheat", body.UserInput["crop"])
	assert.Equal(t, SeasonRabi, body.EstimatedParameters["season"])
	assert.NotEmpty(t, body.CropRecommendations)
	assert.NotEmpty(t, body.FarmingTips)
	assert.NotEmpty(t, body.SeasonalAdvice)
}

func TestPredictHandlerValidation(t *testing.T) {
	app := newPredictApp(DefaultModel())

	tests := []struct {
		name string
		body fiber.Map
	}{
		{"missing crop", fiber.Map{"acres": 10, "latitude": 30.9, "longitude": 75.85}},
		{"zero acres", fiber.Map{"crop": "wheat", "acres": 0, "latitude": 30.9, "longitude": 75.85}},
		{"latitude outside Punjab", fiber.Map{"crop": "wheat", "acres": 10, "latitude": 48.8, "longitude": 75.85}},
		{"longitude outside Punjab", fiber.Map{"crop": "wheat", "acres": 10, "latitude": 30.9, "longitude": 2.3}},
		{"bad season", fiber.Map{"crop": "wheat", "acres": 10, "latitude": 30.9, "longitude": 75.85, "season": "monsoon"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, _ := doJSON(t, app, "POST", "/predict", tt.body)
			assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
		})
	}
}

func TestPredictHandlerSeasonOverride(t *testing.T) {
	app := newPredictApp(DefaultModel())

	resp, raw := doJSON(t, app, "POST", "/predict", fiber.Map{
		"crop":      "maize",
		"acres":     8,
		"latitude":  30.9,
		"longitude": 75.85,
		"season":    "kharif",
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body PredictResponse
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.Equal(t, SeasonKharif, body.EstimatedParameters["season"])
}

func TestListCropsHandler(t *testing.T) {
	app := newPredictApp(DefaultModel())

	resp, raw := doJSON(t, app, "GET", "/crops", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body struct {
		Crops       []string `json:"crops"`
		RabiCrops   []string `json:"rabi_crops"`
		KharifCrops []string `json:"kharif_crops"`
	}
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.Contains(t, body.Crops, "wheat")
	assert.Contains(t, body.RabiCrops, "wheat")
	assert.Contains(t, body.KharifCrops, "rice")
	assert.NotContains(t, body.RabiCrops, "rice")
}

func TestListDistrictsHandler(t *testing.T) {
	app := newPredictApp(DefaultModel())

	resp, raw := doJSON(t, app, "GET", "/districts", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body struct {
		Districts []string `json:"districts"`
	}
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.Contains(t, body.Districts, "Ludhiana")
	assert.Len(t, body.Districts, 22)
}
