package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"agrilink-backend/internal/config"
	"agrilink-backend/internal/logger"
)

// Data is a normalized current-weather observation. Source names which
// provider actually answered.
type Data struct {
	Temperature   float64 `json:"temperature"`
	Humidity      float64 `json:"humidity"`
	Pressure      float64 `json:"pressure"`
	Rainfall      float64 `json:"rainfall"`
	WindSpeed     float64 `json:"wind_speed"`
	WindDirection float64 `json:"wind_direction"`
	Description   string  `json:"weather_description"`
	Source        string  `json:"data_source"`
	Timestamp     string  `json:"timestamp"`
}

type Client struct {
	httpClient *http.Client
	apiKey     string

	// overridable in tests
	openWeatherURL string
	openMeteoURL   string
}

func NewClient(cfg *config.Config) *Client {
	return &Client{
		httpClient:     &http.Client{Timeout: 10 * time.Second},
		apiKey:         cfg.OpenWeatherAPIKey,
		openWeatherURL: "http://api.openweathermap.org/data/2.5",
		openMeteoURL:   "https://api.open-meteo.com/v1",
	}
}

// Current fetches weather for a location with the fallback chain
// OpenWeatherMap -> Open-Meteo -> synthetic regional model. It always
// returns data; only the source differs.
func (cl *Client) Current(ctx context.Context, lat, lon float64) *Data {
	if cl.apiKey != "" {
		if d, err := cl.fromOpenWeather(ctx, lat, lon); err == nil {
			return d
		} else {
			logger.L().Warnf("openweathermap failed: %v", err)
		}
	}

	if d, err := cl.fromOpenMeteo(ctx, lat, lon); err == nil {
		return d
	} else {
		logger.L().Warnf("open-meteo failed: %v", err)
	}

	return Synthetic(lat, lon, time.Now())
}

func (cl *Client) fromOpenWeather(ctx context.Context, lat, lon float64) (*Data, error) {
	q := url.Values{}
	q.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))
	q.Set("appid", cl.apiKey)
	q.Set("units", "metric")

	var payload struct {
		Main struct {
			Temp     float64 `json:"temp"`
			Humidity float64 `json:"humidity"`
			Pressure float64 `json:"pressure"`
		} `json:"main"`
		Rain struct {
			OneHour float64 `json:"1h"`
		} `json:"rain"`
		Wind struct {
			Speed float64 `json:"speed"`
			Deg   float64 `json:"deg"`
		} `json:"wind"`
		Weather []struct {
			Description string `json:"description"`
		} `json:"weather"`
	}

	if err := cl.getJSON(ctx, cl.openWeatherURL+"/weather?"+q.Encode(), &payload); err != nil {
		return nil, err
	}

	desc := ""
	if len(payload.Weather) > 0 {
		desc = payload.Weather[0].Description
	}

	return &Data{
		Temperature:   payload.Main.Temp,
		Humidity:      payload.Main.Humidity,
		Pressure:      payload.Main.Pressure,
		Rainfall:      payload.Rain.OneHour,
		WindSpeed:     payload.Wind.Speed,
		WindDirection: payload.Wind.Deg,
		Description:   desc,
		Source:        "OpenWeatherMap",
		Timestamp:     time.Now().Format(time.RFC3339),
	}, nil
}

func (cl *Client) fromOpenMeteo(ctx context.Context, lat, lon float64) (*Data, error) {
	q := url.Values{}
	q.Set("latitude", strconv.FormatFloat(lat, 'f', -1, 64))
	q.Set("longitude", strconv.FormatFloat(lon, 'f', -1, 64))
	q.Set("current", "temperature_2m,relative_humidity_2m,precipitation,wind_speed_10m,wind_direction_10m,surface_pressure")
	q.Set("timezone", "Asia/Kolkata")

	var payload struct {
		Current struct {
			Time            string  `json:"time"`
			Temperature     float64 `json:"temperature_2m"`
			Humidity        float64 `json:"relative_humidity_2m"`
			Precipitation   float64 `json:"precipitation"`
			WindSpeed       float64 `json:"wind_speed_10m"`
			WindDirection   float64 `json:"wind_direction_10m"`
			SurfacePressure float64 `json:"surface_pressure"`
		} `json:"current"`
	}

	if err := cl.getJSON(ctx, cl.openMeteoURL+"/forecast?"+q.Encode(), &payload); err != nil {
		return nil, err
	}

	pressure := payload.Current.SurfacePressure
	if pressure == 0 {
		pressure = 1013
	}

	return &Data{
		Temperature:   payload.Current.Temperature,
		Humidity:      payload.Current.Humidity,
		Pressure:      pressure,
		Rainfall:      payload.Current.Precipitation,
		WindSpeed:     payload.Current.WindSpeed,
		WindDirection: payload.Current.WindDirection,
		Description:   "clear sky",
		Source:        "Open-Meteo_Free",
		Timestamp:     payload.Current.Time,
	}, nil
}

func (cl *Client) getJSON(ctx context.Context, rawURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("could not build request: %w", err)
	}

	resp, err := cl.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("could not decode response: %w", err)
	}
	return nil
}

// Synthetic generates plausible Punjab weather as a last resort, seeded from
// the coordinates so repeated calls for the same location agree.
func Synthetic(lat, lon float64, now time.Time) *Data {
	rng := rand.New(rand.NewSource(int64((lat+lon)*1000) % 1000))

	var (
		tempMin, tempMax float64
		humMin, humMax   float64
		rainProb         float64
	)
	switch now.Month() {
	case time.December, time.January, time.February: // winter
		tempMin, tempMax = 8, 22
		humMin, humMax = 60, 85
		rainProb = 0.15
	case time.March, time.April, time.May: // summer
		tempMin, tempMax = 25, 45
		humMin, humMax = 30, 60
		rainProb = 0.05
	case time.June, time.July, time.August, time.September: // monsoon
		tempMin, tempMax = 28, 38
		humMin, humMax = 70, 95
		rainProb = 0.60
	default: // post-monsoon
		tempMin, tempMax = 18, 32
		humMin, humMax = 50, 75
		rainProb = 0.20
	}

	rainfall := 0.0
	if rng.Float64() < rainProb {
		rainfall = rng.ExpFloat64() * 3
	}

	return &Data{
		Temperature:   tempMin + rng.Float64()*(tempMax-tempMin),
		Humidity:      humMin + rng.Float64()*(humMax-humMin),
		Pressure:      1013 + rng.NormFloat64()*15,
		Rainfall:      rainfall,
		WindSpeed:     8 + rng.NormFloat64()*3,
		WindDirection: rng.Float64() * 360,
		Description:   "partly cloudy",
		Source:        "Punjab_Synthetic_Model",
		Timestamp:     now.Format(time.RFC3339),
	}
}
