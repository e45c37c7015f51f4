package predict

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectSeason(t *testing.T) {
	tests := []struct {
		crop   string
		season string
		month  int
	}{
		{"wheat", SeasonRabi, 11},
		{"Barley", SeasonRabi, 11},
		{"rice", SeasonKharif, 6},
		{"COTTON", SeasonKharif, 6},
		{"dragonfruit", SeasonRabi, 11}, // unknown defaults to rabi
	}
	for _, tt := range tests {
		season, month := DetectSeason(tt.crop)
		assert.Equal(t, tt.season, season, tt.crop)
		assert.Equal(t, tt.month, month, tt.crop)
	}
}

func TestEstimateParamsCentralPunjab(t *testing.T) {
	// at the reference point (31.0N, 75.5E) the offsets vanish
	p := EstimateParams("wheat", 31.0, 75.5, 2025)

	assert.Equal(t, 2025, p.Year)
	assert.Equal(t, SeasonRabi, p.Season)
	assert.Equal(t, 11, p.SowingMonth)
	assert.InDelta(t, 22.0, p.Temperature, 0.01)
	assert.InDelta(t, 70.0, p.Humidity, 0.01)
	assert.InDelta(t, 550.0, p.Rainfall, 0.01)
	assert.InDelta(t, 8.0, p.WindSpeed, 0.01)
	assert.InDelta(t, 7.1, p.PH, 0.01)
	assert.InDelta(t, 270.0, p.NAvailable, 0.01)
}

func TestEstimateParamsKharifShifts(t *testing.T) {
	p := EstimateParams("rice", 32.0, 76.0, 2025)

	assert.Equal(t, SeasonKharif, p.Season)
	// kharif baseline 28.0 + (32-31)*0.4
	assert.InDelta(t, 28.4, p.Temperature, 0.01)
	assert.InDelta(t, 816.0, p.Rainfall, 0.5)
}

func TestEstimateParamsDefaultsYear(t *testing.T) {
	p := EstimateParams("wheat", 31.0, 75.5, 0)
	assert.Equal(t, time.Now().Year(), p.Year)
}

func TestModelPredict(t *testing.T) {
	m := DefaultModel()

	// central Punjab, reference farm size: base yield unchanged
	assert.InDelta(t, 1800, m.Predict("wheat", 5, 31.0), 0.01)

	// unknown crop uses the default
	assert.InDelta(t, 1500, m.Predict("dragonfruit", 5, 31.0), 0.01)

	// deterministic
	assert.Equal(t, m.Predict("rice", 12, 30.7), m.Predict("rice", 12, 30.7))

	// size factor is capped at 1.2
	capped := m.Predict("wheat", 500, 31.0)
	assert.InDelta(t, 1800*1.2, capped, 0.01)

	// clamped to the trained range
	lo := m.Predict("cotton", 1, 29.0)
	assert.GreaterOrEqual(t, lo, m.MinYield)
	hi := m.Predict("sugarcane", 100, 33.0)
	assert.LessOrEqual(t, hi, m.MaxYield)
}

func TestConfidenceBuckets(t *testing.T) {
	assert.Equal(t, "High", Confidence(2500))
	assert.Equal(t, "Medium", Confidence(1500))
	assert.Equal(t, "Low", Confidence(900))
}

func TestLoadModelFallsBackToBuiltin(t *testing.T) {
	m := LoadModel("/nonexistent/yield_model.json")
	require.NotNil(t, m)
	assert.Equal(t, "BaselineYieldModel", m.Type)
	assert.Equal(t, "1.0.0-builtin", m.Version)
}

func TestRecommendations(t *testing.T) {
	recs := Recommendations(31.0, 75.8, "wheat", 15, SeasonRabi)

	require.NotEmpty(t, recs)
	assert.LessOrEqual(t, len(recs), 5)

	for _, r := range recs {
		// current crop is never recommended back
		assert.NotEqual(t, "Wheat", r.CropName)
		assert.LessOrEqual(t, r.SuitabilityScore, 1.0)
		assert.LessOrEqual(t, len(r.Reasons), 3)
		assert.LessOrEqual(t, len(r.Tips), 3)
	}

	// sorted best-first
	for i := 1; i < len(recs); i++ {
		if recs[i-1].SuitabilityScore == recs[i].SuitabilityScore {
			assert.GreaterOrEqual(t, recs[i-1].ExpectedYield, recs[i].ExpectedYield)
		} else {
			assert.Greater(t, recs[i-1].SuitabilityScore, recs[i].SuitabilityScore)
		}
	}
}

func TestRecommendationsSeasonFilter(t *testing.T) {
	recs := Recommendations(31.0, 75.8, "rice", 10, SeasonKharif)
	for _, r := range recs {
		// rabi-only crops must not appear in a kharif recommendation,
		// annual crops (sugarcane) may
		assert.NotContains(t, []string{"Wheat", "Mustard", "Barley", "Potato"}, r.CropName)
	}
}

func TestCropTipsUnknownCrop(t *testing.T) {
	tips := CropTips("quinoa", 31.0, 75.5, 10)
	require.NotEmpty(t, tips)
	assert.Contains(t, tips[0], "quinoa")
}

func TestGeneralTipsCapped(t *testing.T) {
	tips := GeneralTips(SeasonKharif, 31.2, 30)
	assert.LessOrEqual(t, len(tips), 6)
}

func TestSeasonalAdvice(t *testing.T) {
	advice := SeasonalAdvice(SeasonRabi, 31.0, time.November)
	assert.Contains(t, advice, "wheat sowing")

	advice = SeasonalAdvice(SeasonKharif, 31.0, time.August)
	assert.Contains(t, advice, "Monsoon")

	// location suffix
	north := SeasonalAdvice(SeasonRabi, 31.8, time.November)
	assert.Contains(t, north, "northern Punjab")
	south := SeasonalAdvice(SeasonKharif, 30.2, time.August)
	assert.Contains(t, south, "warm-season")
}
