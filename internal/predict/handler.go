package predict

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

const APIVersion = "1.0.0"

var validate = validator.New()

// PredictRequest keeps the original service's simplified contract: four
// essential fields, bounded to Punjab coordinates.
type PredictRequest struct {
	Crop      string  `json:"crop" validate:"required"`
	Acres     float64 `json:"acres" validate:"required,gt=0"`
	Latitude  float64 `json:"latitude" validate:"required,gte=29,lte=33"`
	Longitude float64 `json:"longitude" validate:"required,gte=73,lte=77"`

	// Optional overrides for advanced callers
	Year   int    `json:"year" validate:"omitempty,gte=2000,lte=2100"`
	Season string `json:"season" validate:"omitempty,oneof=rabi kharif"`
}

type YieldRange struct {
	Minimum float64 `json:"minimum"`
	Maximum float64 `json:"maximum"`
}

type PredictResponse struct {
	Success             bool              `json:"success"`
	PredictedYield      float64           `json:"predicted_yield"`
	YieldRange          YieldRange        `json:"yield_range"`
	Confidence          string            `json:"confidence"`
	UserInput           map[string]any    `json:"user_input"`
	EstimatedParameters map[string]any    `json:"estimated_parameters"`
	ModelInfo           map[string]string `json:"model_info"`
	APIVersion          string            `json:"api_version"`
	Timestamp           string            `json:"timestamp"`

	CropRecommendations []Recommendation `json:"crop_recommendations"`
	FarmingTips         []string         `json:"farming_tips"`
	SeasonalAdvice      string           `json:"seasonal_advice"`
}

// POST /api/v1/predict
func PredictHandler(model *Model) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if model == nil {
			return fiber.NewError(fiber.StatusServiceUnavailable, "Prediction model not available")
		}

		var body PredictRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		body.Crop = strings.ToLower(strings.TrimSpace(body.Crop))

		if err := validate.Struct(body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Validation failed: "+err.Error())
		}

		params := EstimateParams(body.Crop, body.Latitude, body.Longitude, body.Year)
		if body.Season != "" {
			params.Season = body.Season
		}

		yield := round1(model.Predict(body.Crop, body.Acres, body.Latitude))

		resp := PredictResponse{
			Success:        true,
			PredictedYield: yield,
			YieldRange: YieldRange{
				Minimum: round1(yield * 0.85),
				Maximum: round1(yield * 1.15),
			},
			Confidence: Confidence(yield),
			UserInput: map[string]any{
				"crop":            body.Crop,
				"farm_size_acres": body.Acres,
				"latitude":        body.Latitude,
				"longitude":       body.Longitude,
			},
			EstimatedParameters: map[string]any{
				"season":      params.Season,
				"temperature": params.Temperature,
				"humidity":    params.Humidity,
				"rainfall":    params.Rainfall,
				"soil_pH":     params.PH,
			},
			ModelInfo: map[string]string{
				"model_type": model.Type,
				"version":    model.Version,
				"units":      "kg/acre",
			},
			APIVersion: APIVersion,
			Timestamp:  time.Now().Format(time.RFC3339),

			CropRecommendations: Recommendations(body.Latitude, body.Longitude, body.Crop, body.Acres, params.Season),
			FarmingTips:         GeneralTips(params.Season, body.Latitude, body.Acres),
			SeasonalAdvice:      SeasonalAdvice(params.Season, body.Latitude, time.Now().Month()),
		}

		return c.JSON(resp)
	}
}

// GET /api/v1/crops
func ListCropsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		rabi := make([]string, 0, len(rabiCrops))
		kharif := make([]string, 0, len(kharifCrops))
		for _, crop := range SupportedCrops {
			if rabiCrops[crop] {
				rabi = append(rabi, crop)
			}
			if kharifCrops[crop] {
				kharif = append(kharif, crop)
			}
		}
		return c.JSON(fiber.Map{
			"crops":        SupportedCrops,
			"rabi_crops":   rabi,
			"kharif_crops": kharif,
		})
	}
}

// GET /api/v1/districts
func ListDistrictsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"districts": Districts})
	}
}
