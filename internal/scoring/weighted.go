package scoring

import (
	"sort"

	"github.com/i474232898/runnability/internal/weather"
)

// Parameter names a slot field the weighted scorer can rate.
type Parameter string

const (
	ParamTemperature   Parameter = "temperature"
	ParamWindSpeed     Parameter = "windSpeed"
	ParamPrecipitation Parameter = "precipitation"
	ParamHumidity      Parameter = "humidity"
	ParamVisibility    Parameter = "visibility"
	ParamUVIndex       Parameter = "uvIndex"
)

// Parameters lists every known parameter in evaluation order.
var Parameters = []Parameter{
	ParamTemperature,
	ParamWindSpeed,
	ParamPrecipitation,
	ParamHumidity,
	ParamVisibility,
	ParamUVIndex,
}

var accessors = map[Parameter]func(weather.TimeSlot) float64{
	ParamTemperature:   func(s weather.TimeSlot) float64 { return s.Temperature },
	ParamWindSpeed:     func(s weather.TimeSlot) float64 { return s.WindSpeed },
	ParamPrecipitation: func(s weather.TimeSlot) float64 { return float64(s.Precipitation) },
	ParamHumidity:      func(s weather.TimeSlot) float64 { return float64(s.Humidity) },
	ParamVisibility:    func(s weather.TimeSlot) float64 { return s.Visibility },
	ParamUVIndex:       func(s weather.TimeSlot) float64 { return s.UVIndex },
}

// Value returns the slot field p rates, and false for an unknown parameter.
func (p Parameter) Value(slot weather.TimeSlot) (float64, bool) {
	get, ok := accessors[p]
	if !ok {
		return 0, false
	}
	return get(slot), true
}

// Tier scores.
const (
	tierGreat = 1.0
	tierGood  = 0.75
	tierOkay  = 0.5
	tierPoor  = 0.25
)

// WeightedScorer rates slots with the weighted-range model.
type WeightedScorer struct {
	profile Profile
}

// NewWeightedScorer creates a scorer for a validated profile.
func NewWeightedScorer(profile Profile) *WeightedScorer {
	return &WeightedScorer{profile: profile}
}

// Profile returns the scorer's profile.
func (w *WeightedScorer) Profile() Profile {
	return w.profile
}

// WithPreferences returns a scorer whose profile honours the preference toggles.
func (w *WeightedScorer) WithPreferences(prefs Preferences) *WeightedScorer {
	return &WeightedScorer{profile: w.profile.WithPreferences(prefs)}
}

// Score returns the weighted runnability score of slot in [0, 100].
// It is 0 when no parameter with positive weight is enabled.
func (w *WeightedScorer) Score(slot weather.TimeSlot) float64 {
	var total, totalWeight float64

	for _, p := range Parameters {
		cfg, ok := w.profile.Parameters[p]
		if !ok || !cfg.Enabled {
			continue
		}
		v, _ := p.Value(slot)
		total += cfg.Ranges.tier(v) * cfg.Weight
		totalWeight += cfg.Weight
	}

	if totalWeight <= 0 {
		return 0
	}
	return total / totalWeight * 100
}

// RankedSlot is a slot with its weighted score and four-tier category.
type RankedSlot struct {
	weather.TimeSlot
	Score    float64  `json:"score"`
	Category Category `json:"category"`
	Class    string   `json:"class"`
}

// Rank scores every slot and orders them best first; equal scores keep input order.
func (w *WeightedScorer) Rank(slots []weather.TimeSlot) []RankedSlot {
	ranked := make([]RankedSlot, 0, len(slots))
	for _, s := range slots {
		score := w.Score(s)
		cat := CategorizeFourTier(score)
		ranked = append(ranked, RankedSlot{
			TimeSlot: s,
			Score:    score,
			Category: cat,
			Class:    cat.Class(),
		})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	return ranked
}
