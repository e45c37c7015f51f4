package predict

import (
	"math"
	"strings"
	"time"
)

const (
	SeasonRabi   = "rabi"
	SeasonKharif = "kharif"
)

var rabiCrops = map[string]bool{
	"wheat": true, "barley": true, "mustard": true, "potato": true, "peas": true,
}

var kharifCrops = map[string]bool{
	"rice": true, "corn": true, "maize": true, "cotton": true, "soybean": true, "sugarcane": true,
}

// DetectSeason maps a crop to its Punjab growing season and typical sowing
// month. Unknown crops default to rabi, like the original estimator.
func DetectSeason(crop string) (string, int) {
	c := strings.ToLower(strings.TrimSpace(crop))
	switch {
	case rabiCrops[c]:
		return SeasonRabi, 11
	case kharifCrops[c]:
		return SeasonKharif, 6
	default:
		return SeasonRabi, 11
	}
}

// EstimatedParams are the weather, soil and satellite inputs the model was
// trained on, estimated from crop and location when the caller supplies only
// the four essential fields.
type EstimatedParams struct {
	Year        int     `json:"year"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	Season      string  `json:"season"`
	SowingMonth int     `json:"sowing_month"`

	Temperature float64 `json:"temperature"`
	Humidity    float64 `json:"humidity"`
	Rainfall    float64 `json:"rainfall"`
	WindSpeed   float64 `json:"wind_speed"`

	PH            float64 `json:"pH"`
	OrganicCarbon float64 `json:"organic_carbon"`
	NAvailable    float64 `json:"N_available"`
	PAvailable    float64 `json:"P_available"`
	KAvailable    float64 `json:"K_available"`

	NDVIMean float64 `json:"ndvi_mean"`
	NDWIMean float64 `json:"ndwi_mean"`
	Blue     float64 `json:"blue"`
	Green    float64 `json:"green"`
	Red      float64 `json:"red"`
	NIR      float64 `json:"nir"`
}

// EstimateParams reproduces the regional estimator of the original service:
// seasonal climate baselines shifted by the farm's offset from central
// Punjab (31.0N, 75.5E), typical alluvial soil values, and healthy-crop
// satellite band assumptions.
func EstimateParams(crop string, latitude, longitude float64, year int) EstimatedParams {
	if year == 0 {
		year = time.Now().Year()
	}

	season, sowingMonth := DetectSeason(crop)

	latFactor := (latitude - 31.0) * 0.4
	lonFactor := (longitude - 75.5) * 0.3

	var temperature, humidity, rainfall float64
	if season == SeasonRabi {
		temperature = 22.0 + latFactor
		humidity = 70.0 - math.Abs(latFactor)*2
		rainfall = 550.0 + latFactor*25
	} else {
		temperature = 28.0 + latFactor
		humidity = 75.0 - math.Abs(latFactor)
		rainfall = 800.0 + latFactor*40
	}

	return EstimatedParams{
		Year:        year,
		Latitude:    latitude,
		Longitude:   longitude,
		Season:      season,
		SowingMonth: sowingMonth,

		Temperature: round1(temperature),
		Humidity:    round1(humidity),
		Rainfall:    math.Round(rainfall),
		WindSpeed:   round1(8.0 + math.Abs(lonFactor)),

		PH:            round1(7.1 + (latitude-31.0)*0.1),
		OrganicCarbon: round2(0.6 + lonFactor*0.05),
		NAvailable:    round1(270.0 + latFactor*10),
		PAvailable:    round1(22.0 + lonFactor*2),
		KAvailable:    round1(310.0 + latFactor*15),

		NDVIMean: 0.75,
		NDWIMean: 0.35,
		Blue:     0.08,
		Green:    0.12,
		Red:      0.15,
		NIR:      0.40,
	}
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }
func round2(v float64) float64 { return math.Round(v*100) / 100 }
