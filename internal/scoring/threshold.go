package scoring

import (
	"math"

	"github.com/i474232898/runnability/internal/weather"
)

// band is a penalty applied when a value exceeds above.
type band struct {
	above   float64
	penalty float64
}

var (
	windBands = []band{{20, 30}, {15, 20}, {10, 10}}
	rainBands = []band{{50, 30}, {30, 20}, {10, 10}}

	humidityHot  = []band{{80, 30}, {70, 20}, {60, 10}} // temp > 20
	humidityMild = []band{{85, 20}, {75, 15}, {65, 5}}  // 15 < temp <= 20
	humidityCool = []band{{90, 10}, {80, 5}}            // temp <= 15
)

// penalty returns the penalty of the first band v exceeds.
// Bands are ordered highest threshold first.
func penalty(v float64, bands []band) float64 {
	for _, b := range bands {
		if v > b.above {
			return b.penalty
		}
	}
	return 0
}

func temperaturePenalty(t float64) float64 {
	switch {
	case t < 5 || t > 25:
		return 30
	case t < 10 || t > 20:
		return 15
	default:
		return 0
	}
}

func humidityPenalty(humidity, temp float64) float64 {
	switch {
	case temp > 20:
		return penalty(humidity, humidityHot)
	case temp > 15:
		return penalty(humidity, humidityMild)
	default:
		return penalty(humidity, humidityCool)
	}
}

// Score computes the threshold-penalty runnability score of a slot in [0, 100].
// Humidity is always applied; the other dimensions follow prefs.
func Score(slot weather.TimeSlot, prefs Preferences) float64 {
	score := 100.0

	if prefs.ConsiderTemperature {
		score -= temperaturePenalty(slot.Temperature)
	}
	if prefs.ConsiderWind {
		score -= penalty(slot.WindSpeed, windBands)
	}
	if prefs.ConsiderRain {
		score -= penalty(float64(slot.Precipitation), rainBands)
	}
	score -= humidityPenalty(float64(slot.Humidity), slot.Temperature)

	return math.Max(0, score)
}
