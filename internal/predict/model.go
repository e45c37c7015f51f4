package predict

import (
	"encoding/json"
	"os"
	"strings"
	"time"

	"agrilink-backend/internal/logger"
)

// Model is the serving form of the trained yield regressor: per-crop base
// yields plus location/size adjustment coefficients, exported to JSON by the
// training pipeline. When no model file is present the built-in coefficients
// are used, so the API stays functional in demo setups.
type Model struct {
	Type       string             `json:"model_type"`
	Version    string             `json:"version"`
	BaseYields map[string]float64 `json:"base_yields"` // kg/acre

	LatOrigin float64 `json:"lat_origin"`
	LatCoeff  float64 `json:"lat_coeff"`

	SizeOrigin float64 `json:"size_origin"`
	SizeCoeff  float64 `json:"size_coeff"`
	SizeCap    float64 `json:"size_cap"`

	MinYield     float64 `json:"min_yield"`
	MaxYield     float64 `json:"max_yield"`
	DefaultYield float64 `json:"default_yield"` // unknown crop fallback

	LoadedAt time.Time `json:"-"`
}

func DefaultModel() *Model {
	return &Model{
		Type:    "BaselineYieldModel",
		Version: "1.0.0-builtin",
		BaseYields: map[string]float64{
			"wheat":     1800,
			"rice":      2200,
			"corn":      2000,
			"maize":     2000,
			"cotton":    900,
			"soybean":   1300,
			"barley":    1600,
			"mustard":   1100,
			"potato":    2500,
			"sugarcane": 2800,
		},
		LatOrigin:    31.0,
		LatCoeff:     0.02,
		SizeOrigin:   5.0,
		SizeCoeff:    0.01,
		SizeCap:      1.2,
		MinYield:     800,
		MaxYield:     3500,
		DefaultYield: 1500,
		LoadedAt:     time.Now(),
	}
}

// LoadModel reads the exported model package from disk, falling back to the
// built-in model when the file is missing or unparsable.
func LoadModel(path string) *Model {
	data, err := os.ReadFile(path)
	if err != nil {
		logger.L().Warnf("yield model file not found at %s, using builtin model", path)
		return DefaultModel()
	}

	m := DefaultModel()
	if err := json.Unmarshal(data, m); err != nil {
		logger.L().Warnf("could not parse yield model %s: %v, using builtin model", path, err)
		return DefaultModel()
	}
	m.LoadedAt = time.Now()
	if m.Version == "" {
		m.Version = "1.0.0"
	}
	logger.L().Infof("yield model loaded: %s %s", m.Type, m.Version)
	return m
}

// Predict returns the estimated yield in kg/acre for a crop grown on a farm
// of the given size and latitude. Deterministic for a given input.
func (m *Model) Predict(crop string, acres, latitude float64) float64 {
	base, ok := m.BaseYields[strings.ToLower(strings.TrimSpace(crop))]
	if !ok {
		base = m.DefaultYield
	}

	latFactor := 1.0 + (latitude-m.LatOrigin)*m.LatCoeff
	sizeFactor := 1.0 + (acres-m.SizeOrigin)*m.SizeCoeff
	if sizeFactor > m.SizeCap {
		sizeFactor = m.SizeCap
	}

	y := base * latFactor * sizeFactor
	if y < m.MinYield {
		y = m.MinYield
	}
	if y > m.MaxYield {
		y = m.MaxYield
	}
	return y
}

// Confidence buckets the predicted yield the way the original service
// reported it.
func Confidence(yield float64) string {
	switch {
	case yield > 2000:
		return "High"
	case yield > 1200:
		return "Medium"
	default:
		return "Low"
	}
}
