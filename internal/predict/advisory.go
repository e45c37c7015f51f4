package predict

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

type cropProfile struct {
	BaseYield     float64
	Seasons       []string
	MinTemp       float64
	MaxTemp       float64
	Water         string // low | medium | high | very_high
	PHMin         float64
	PHMax         float64
	Profitability string
	MarketDemand  string
}

// Punjab crop knowledge base carried over from the original advisory service.
var cropDatabase = map[string]cropProfile{
	"wheat":     {1800, []string{SeasonRabi}, 15, 25, "medium", 6.5, 7.5, "High", "Very High"},
	"rice":      {2200, []string{SeasonKharif}, 22, 35, "high", 6.0, 7.0, "High", "Very High"},
	"cotton":    {900, []string{SeasonKharif}, 20, 35, "medium", 5.8, 8.0, "Very High", "High"},
	"maize":     {2000, []string{SeasonKharif, SeasonRabi}, 18, 32, "medium", 6.0, 7.5, "Medium", "High"},
	"sugarcane": {2800, []string{"annual"}, 20, 35, "very_high", 6.5, 7.5, "Very High", "High"},
	"mustard":   {1100, []string{SeasonRabi}, 10, 25, "low", 6.0, 7.5, "Medium", "Medium"},
	"barley":    {1600, []string{SeasonRabi}, 12, 22, "low", 6.0, 7.8, "Medium", "Medium"},
	"potato":    {2500, []string{SeasonRabi}, 15, 25, "medium", 5.5, 6.5, "High", "Very High"},
}

var cropTipsDatabase = map[string][]string{
	"wheat": {
		"Plant wheat in November for optimal yield in Punjab climate",
		"Use certified seeds with 100-120 kg/acre seeding rate",
		"Apply balanced NPK fertilizer: 120:60:30 kg/acre",
		"Ensure 4-5 irrigations during growing season",
		"Monitor for rust diseases and apply fungicides if needed",
		"Harvest when moisture content is 20-25% for best quality",
	},
	"rice": {
		"Transplant 25-30 day old seedlings in June-July",
		"Maintain 2-3 cm water level throughout growing season",
		"Use recommended varieties like PR-126, PR-121 for Punjab",
		"Apply silicon fertilizer to strengthen stems",
		"Practice direct seeded rice (DSR) to save water",
		"Monitor for brown plant hopper and stem borer",
	},
	"cotton": {
		"Plant Bt cotton varieties approved for Punjab",
		"Sow in May for optimal fiber quality",
		"Maintain plant population of 80,000-100,000 plants/acre",
		"Deep plowing and good drainage essential",
		"Regular monitoring for pink bollworm required",
		"Harvest when 60% bolls are open for best fiber quality",
	},
	"maize": {
		"Use hybrid varieties for higher yield potential",
		"Plant with 60cm row spacing and 20cm plant distance",
		"Side-dress nitrogen at knee-high stage",
		"Ensure adequate moisture during tasseling and grain filling",
		"Monitor for fall armyworm and stem borer",
		"Harvest at 18-20% moisture for good storage",
	},
	"sugarcane": {
		"Plant healthy setts from 8-10 month old canes",
		"Ensure proper drainage to prevent water logging",
		"Apply organic manure before planting",
		"Regular earthing up and gap filling essential",
		"Monitor for red rot and smut diseases",
		"Harvest at optimal maturity (12 months) for maximum sugar",
	},
	"mustard": {
		"Sow in October for timely harvest before heat",
		"Use line sowing with 30cm row spacing",
		"Light irrigation during flowering stage",
		"Apply sulfur fertilizer for better oil content",
		"Monitor for aphids and white rust disease",
		"Harvest when pods turn brown but not fully dry",
	},
	"barley": {
		"Choose malting or feed varieties based on market",
		"Sow in November for avoiding heat stress",
		"Requires less water compared to wheat",
		"Apply moderate nitrogen to avoid lodging",
		"Good rotation crop after paddy",
		"Harvest when grain moisture is around 20%",
	},
	"potato": {
		"Use certified seed potatoes for disease-free crop",
		"Plant in raised beds for better drainage",
		"Hill up regularly to prevent greening of tubers",
		"Monitor soil moisture - avoid over and under watering",
		"Watch for late blight especially in humid conditions",
		"Harvest when skin is firm and doesn't rub off easily",
	},
}

// SupportedCrops is the full crop vocabulary of the prediction endpoint.
var SupportedCrops = []string{
	"wheat", "rice", "corn", "maize", "cotton", "soybean",
	"barley", "mustard", "potato", "sugarcane", "tomato", "onion",
}

// Districts of Punjab recognized by the marketplace and the advisory.
var Districts = []string{
	"Amritsar", "Ludhiana", "Jalandhar", "Patiala", "Bathinda",
	"Mohali", "Gurdaspur", "Kapurthala", "Hoshiarpur", "Faridkot",
	"Firozpur", "Muktsar", "Sangrur", "Barnala", "Mansa",
	"Nawanshahr", "Ropar", "Fatehgarh Sahib", "Moga", "Pathankot",
	"Fazilka", "Tarn Taran",
}

type Recommendation struct {
	CropName         string   `json:"crop_name"`
	SuitabilityScore float64  `json:"suitability_score"`
	ExpectedYield    float64  `json:"expected_yield"`
	Profitability    string   `json:"profitability"`
	Reasons          []string `json:"reasons"`
	Tips             []string `json:"tips"`
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func seasonMatches(profile cropProfile, season string) bool {
	for _, s := range profile.Seasons {
		if s == season || s == "annual" {
			return true
		}
	}
	return false
}

// Recommendations scores alternative crops for the farm and returns the top
// five, best first.
func Recommendations(latitude, longitude float64, currentCrop string, farmSize float64, season string) []Recommendation {
	currentCrop = strings.ToLower(strings.TrimSpace(currentCrop))
	season = strings.ToLower(season)

	latFactor := 1.0 + (latitude-31.0)*0.02
	sizeFactor := 1.0 + (farmSize-5.0)*0.01
	if sizeFactor > 1.2 {
		sizeFactor = 1.2
	}

	recs := make([]Recommendation, 0, len(cropDatabase))
	for name, profile := range cropDatabase {
		if name == currentCrop {
			continue
		}
		if !seasonMatches(profile, season) {
			continue
		}

		score := 0.7
		// central Punjab bonus
		if latitude >= 30.5 && latitude <= 31.5 && longitude >= 75.0 && longitude <= 76.5 {
			score += 0.2
		}
		if farmSize >= 10 {
			score += 0.1
		}
		if score > 1.0 {
			score = 1.0
		}

		expectedYield := profile.BaseYield * latFactor * sizeFactor

		var reasons []string
		if profile.Profitability == "High" || profile.Profitability == "Very High" {
			reasons = append(reasons, fmt.Sprintf("High profitability - %s returns expected", profile.Profitability))
		}
		if profile.MarketDemand == "High" || profile.MarketDemand == "Very High" {
			reasons = append(reasons, fmt.Sprintf("Strong market demand - %s buyer interest", profile.MarketDemand))
		}
		if profile.Water == "low" {
			reasons = append(reasons, "Water efficient - suitable for sustainable farming")
		}
		if latitude > 31.0 && (name == "wheat" || name == "rice") {
			reasons = append(reasons, "Excellent climate match for this region")
		}
		if farmSize >= 20 && (name == "cotton" || name == "sugarcane") {
			reasons = append(reasons, "Large farm size ideal for commercial cultivation")
		}
		if len(reasons) > 3 {
			reasons = reasons[:3]
		}

		tips := CropTips(name, latitude, longitude, farmSize)
		if len(tips) > 3 {
			tips = tips[:3]
		}

		recs = append(recs, Recommendation{
			CropName:         titleCase(name),
			SuitabilityScore: round2(score),
			ExpectedYield:    round1(expectedYield),
			Profitability:    profile.Profitability,
			Reasons:          reasons,
			Tips:             tips,
		})
	}

	sort.SliceStable(recs, func(i, j int) bool {
		if recs[i].SuitabilityScore != recs[j].SuitabilityScore {
			return recs[i].SuitabilityScore > recs[j].SuitabilityScore
		}
		return recs[i].ExpectedYield > recs[j].ExpectedYield
	})

	if len(recs) > 5 {
		recs = recs[:5]
	}
	return recs
}

// CropTips returns cultivation tips for a crop, extended with
// location/size-specific advice.
func CropTips(crop string, latitude, longitude, farmSize float64) []string {
	crop = strings.ToLower(strings.TrimSpace(crop))

	tips, ok := cropTipsDatabase[crop]
	if !ok {
		tips = []string{
			fmt.Sprintf("Research best practices for %s cultivation", crop),
			fmt.Sprintf("Consult local agricultural extension officer for %s guidance", crop),
			fmt.Sprintf("Consider market prices before growing %s", crop),
		}
	}
	out := append([]string{}, tips...)

	if latitude > 31.5 {
		out = append(out, "Your northern location is ideal for cool-season crops")
	} else if latitude < 30.5 {
		out = append(out, "Your southern location suits warm-season crops better")
	}

	if farmSize >= 50 {
		out = append(out, "Consider mechanization for large farm operations")
	} else if farmSize <= 5 {
		out = append(out, "Focus on intensive cultivation methods for small farms")
	}

	return out
}

// GeneralTips returns season/location-aware farming guidance, capped at six.
func GeneralTips(season string, latitude, farmSize float64) []string {
	tips := []string{
		"Conduct soil testing every 2-3 years for optimal fertilizer management",
		"Practice crop rotation to maintain soil health and break pest cycles",
		"Use drip irrigation or sprinkler systems to conserve water",
		"Maintain farm records for input costs and yield tracking",
		"Join farmer producer organizations (FPOs) for better market access",
	}

	switch strings.ToLower(season) {
	case SeasonKharif:
		tips = append(tips,
			"Ensure proper drainage during monsoon season",
			"Monitor weather forecasts for pest and disease outbreaks",
			"Stock up on plant protection chemicals before monsoon")
	case SeasonRabi:
		tips = append(tips,
			"Plan irrigation schedule as winter has less rainfall",
			"Take advantage of cooler weather for farm operations",
			"Prepare for harvesting equipment rental in advance")
	}

	if latitude > 31.0 {
		tips = append(tips, "Take advantage of your region's reputation for quality wheat")
	}

	if farmSize >= 25 {
		tips = append(tips, "Consider contract farming for assured market and prices")
	} else {
		tips = append(tips, "Focus on value addition and direct marketing")
	}

	if len(tips) > 6 {
		tips = tips[:6]
	}
	return tips
}

// SeasonalAdvice returns month-aware guidance for the growing season.
func SeasonalAdvice(season string, latitude float64, month time.Month) string {
	var advice string

	switch strings.ToLower(season) {
	case SeasonRabi:
		switch month {
		case time.October, time.November:
			advice = "Rabi season: perfect time for wheat sowing. Prepare fields and arrange quality seeds. " +
				"Ensure timely planting to avoid heat stress during grain filling stage."
		case time.December, time.January, time.February:
			advice = "Winter care: monitor crop growth and provide irrigation as needed. " +
				"Watch for pest infestations in cool weather. Apply nitrogen top-dressing if required."
		case time.March, time.April:
			advice = "Harvest time: prepare for rabi harvest. Check grain moisture and arrange harvest machinery. " +
				"Plan for immediate marketing or proper storage to avoid post-harvest losses."
		default:
			advice = "Field preparation: use this time for land preparation, soil testing, and planning next rabi season. " +
				"Consider green manuring with summer crops."
		}
	case SeasonKharif:
		switch month {
		case time.May, time.June:
			advice = "Kharif preparation: prepare nurseries for rice and get ready for kharif sowing. " +
				"Ensure water availability and check irrigation systems. Pre-monsoon field preparation is crucial."
		case time.July, time.August, time.September:
			advice = "Monsoon season: monitor crops for pest and disease outbreaks. Ensure proper drainage. " +
				"This is crucial growth period - maintain optimal plant nutrition and protection."
		case time.October, time.November:
			advice = "Kharif harvest: prepare for kharif harvest. Monitor grain maturity and weather forecasts. " +
				"Plan storage facilities and explore marketing options for better prices."
		default:
			advice = "Summer season: consider summer crops like fodder maize or green manure crops. " +
				"This is ideal time for deep plowing and soil health improvement activities."
		}
	}

	if latitude > 31.5 {
		advice += " Your northern Punjab location has advantages for wheat cultivation and cooler climate crops."
	} else if latitude < 30.5 {
		advice += " Your location is well-suited for cotton and other warm-season crops."
	}

	return advice
}
