package soil

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"agrilink-backend/internal/logger"
)

// Data describes topsoil (0-5cm) properties for a location.
type Data struct {
	PH            float64 `json:"pH"`
	OrganicCarbon float64 `json:"organic_carbon"`
	SandPercent   float64 `json:"sand_percent"`
	SiltPercent   float64 `json:"silt_percent"`
	ClayPercent   float64 `json:"clay_percent"`

	NAvailable float64 `json:"N_available"` // kg/ha
	PAvailable float64 `json:"P_available"` // kg/ha
	KAvailable float64 `json:"K_available"` // kg/ha

	HealthStatus string `json:"soil_health_status"` // Good | Medium | Poor
	Source       string `json:"data_source"`
}

type Client struct {
	httpClient *http.Client

	// overridable in tests
	soilGridsURL string
}

func NewClient() *Client {
	return &Client{
		httpClient:   &http.Client{Timeout: 15 * time.Second},
		soilGridsURL: "https://rest.soilgrids.org/soilgrids/v2.0",
	}
}

// ForLocation queries ISRIC SoilGrids and falls back to the regional model
// when the service is unreachable.
func (cl *Client) ForLocation(ctx context.Context, lat, lon float64) *Data {
	d, err := cl.fromSoilGrids(ctx, lat, lon)
	if err != nil {
		logger.L().Warnf("soilgrids failed, using regional model: %v", err)
		return Regional(lat, lon)
	}
	return d
}

func (cl *Client) fromSoilGrids(ctx context.Context, lat, lon float64) (*Data, error) {
	q := url.Values{}
	q.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))
	for _, p := range []string{"phh2o", "soc", "sand", "silt", "clay"} {
		q.Add("property", p)
	}
	q.Set("depth", "0-5cm")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, cl.soilGridsURL+"/properties/query?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("could not build request: %w", err)
	}

	resp, err := cl.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var payload struct {
		Properties map[string]struct {
			Values []float64 `json:"values"`
		} `json:"properties"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("could not decode response: %w", err)
	}

	first := func(prop string) (float64, error) {
		p, ok := payload.Properties[prop]
		if !ok || len(p.Values) == 0 {
			return 0, fmt.Errorf("property %s missing", prop)
		}
		return p.Values[0], nil
	}

	ph, err := first("phh2o")
	if err != nil {
		return nil, err
	}
	soc, err := first("soc")
	if err != nil {
		return nil, err
	}
	sand, err := first("sand")
	if err != nil {
		return nil, err
	}
	silt, err := first("silt")
	if err != nil {
		return nil, err
	}
	clay, err := first("clay")
	if err != nil {
		return nil, err
	}

	// SoilGrids reports scaled integers: pH*10, soc in g/kg*10, texture in g/kg
	d := &Data{
		PH:            ph / 10,
		OrganicCarbon: soc / 1000,
		SandPercent:   sand / 10,
		SiltPercent:   silt / 10,
		ClayPercent:   clay / 10,
		Source:        "ISRIC_SoilGrids_Global",
	}
	d.deriveNutrients()
	return d, nil
}

// deriveNutrients estimates N/P/K availability and a health status from
// organic carbon and texture, using the Punjab research-based coefficients
// of the original collector.
func (d *Data) deriveNutrients() {
	oc := d.OrganicCarbon
	clay := d.ClayPercent

	d.NAvailable = maxf(120, oc*400)
	d.PAvailable = maxf(8, oc*25+clay*0.5)
	d.KAvailable = maxf(150, clay*8)

	switch {
	case oc > 0.75 && d.NAvailable > 200:
		d.HealthStatus = "Good"
	case oc > 0.50 && d.NAvailable > 150:
		d.HealthStatus = "Medium"
	default:
		d.HealthStatus = "Poor"
	}
}

// Regional generates soil data from the Punjab zone model, seeded by the
// coordinates so repeated calls agree.
func Regional(lat, lon float64) *Data {
	rng := rand.New(rand.NewSource(int64((lat+lon)*1000) % 1000))

	var phBase, ocBase, fertility float64
	switch {
	case lat > 31.5: // northern (Gurdaspur, Amritsar)
		phBase, ocBase, fertility = 7.6, 0.65, 0.8
	case lat > 30.8: // central (Ludhiana, Jalandhar)
		phBase, ocBase, fertility = 7.4, 0.70, 0.9
	default: // southern (Bathinda, Mansa)
		phBase, ocBase, fertility = 8.1, 0.45, 0.6
	}

	d := &Data{
		PH:            phBase + rng.NormFloat64()*0.3,
		OrganicCarbon: ocBase + rng.NormFloat64()*0.15,
		SandPercent:   45 + rng.Float64()*30,
		SiltPercent:   20 + rng.Float64()*15,
		ClayPercent:   10 + rng.Float64()*15,
		NAvailable:    maxf(120, 180*fertility+rng.NormFloat64()*35),
		PAvailable:    maxf(8, 15*fertility+rng.NormFloat64()*6),
		KAvailable:    maxf(150, 280*fertility+rng.NormFloat64()*50),
		Source:        "Punjab_Regional_Model",
	}

	switch {
	case d.OrganicCarbon > 0.75 && d.NAvailable > 200:
		d.HealthStatus = "Good"
	case d.OrganicCarbon > 0.50 && d.NAvailable > 150:
		d.HealthStatus = "Medium"
	default:
		d.HealthStatus = "Poor"
	}

	return d
}

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
