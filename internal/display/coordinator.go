package display

import (
	"math"
	"sort"

	"github.com/i474232898/runnability/internal/scoring"
	"github.com/i474232898/runnability/internal/weather"
)

// Display window: at most MaxDays dates, hours in [FirstHour, LastHour).
const (
	MaxDays   = 3
	FirstHour = 5
	LastHour  = 22
)

// comfortTemperature is the midpoint of the penalty-free temperature band.
const comfortTemperature = 15.0

// SortKey selects the order of slots within a day.
type SortKey string

const (
	SortTime        SortKey = "time"
	SortWind        SortKey = "wind"
	SortScore       SortKey = "score"
	SortTemperature SortKey = "temp"
	SortRain        SortKey = "rain"
)

// SortKeys lists the accepted keys, default first.
var SortKeys = []SortKey{SortTime, SortWind, SortScore, SortTemperature, SortRain}

// ParseSortKey returns the key for s, falling back to SortTime.
func ParseSortKey(s string) SortKey {
	for _, k := range SortKeys {
		if string(k) == s {
			return k
		}
	}
	return SortTime
}

// DateGroup holds the slots of one date in their original order.
type DateGroup struct {
	Date  string
	Slots []weather.TimeSlot
}

// GroupByDate groups slots by date, keeping dates in first-seen order.
func GroupByDate(slots []weather.TimeSlot) []DateGroup {
	var groups []DateGroup
	index := make(map[string]int)
	for _, s := range slots {
		i, ok := index[s.Date]
		if !ok {
			i = len(groups)
			index[s.Date] = i
			groups = append(groups, DateGroup{Date: s.Date})
		}
		groups[i].Slots = append(groups[i].Slots, s)
	}
	return groups
}

// Daytime keeps slots whose hour is in [FirstHour, LastHour).
func Daytime(slots []weather.TimeSlot) []weather.TimeSlot {
	out := make([]weather.TimeSlot, 0, len(slots))
	for _, s := range slots {
		if h := s.Hour(); h >= FirstHour && h < LastHour {
			out = append(out, s)
		}
	}
	return out
}

// Options control how slots are scored and ordered.
type Options struct {
	Preferences scoring.Preferences
	// IgnoreRain drops the rain penalty regardless of Preferences.
	IgnoreRain bool
	Sort       SortKey
}

// Effective returns the preferences actually used for scoring.
func (o Options) Effective() scoring.Preferences {
	p := o.Preferences
	if o.IgnoreRain {
		p.ConsiderRain = false
	}
	return p
}

// Slot is a time-slot with its score badge.
type Slot struct {
	weather.TimeSlot
	Score    float64          `json:"score"`
	Category scoring.Category `json:"category"`
	Class    string           `json:"class"`
}

// Day is one rendered date.
type Day struct {
	Date  string `json:"date"`
	Slots []Slot `json:"slots"`
}

// Build groups slots by date, keeps the first MaxDays dates, filters each to
// daytime hours, scores every slot once and sorts by opts.Sort.
func Build(slots []weather.TimeSlot, opts Options) []Day {
	prefs := opts.Effective()

	groups := GroupByDate(slots)
	if len(groups) > MaxDays {
		groups = groups[:MaxDays]
	}

	days := make([]Day, 0, len(groups))
	for _, g := range groups {
		daytime := Daytime(g.Slots)
		scored := make([]Slot, 0, len(daytime))
		for _, s := range daytime {
			score := scoring.Score(s, prefs)
			cat := scoring.Categorize(score)
			scored = append(scored, Slot{
				TimeSlot: s,
				Score:    score,
				Category: cat,
				Class:    cat.Class(),
			})
		}
		Sort(scored, opts.Sort)
		days = append(days, Day{Date: g.Date, Slots: scored})
	}
	return days
}

// Sort orders scored slots in place by key. The sort is stable.
func Sort(slots []Slot, key SortKey) {
	var less func(a, b Slot) bool
	switch key {
	case SortWind:
		less = func(a, b Slot) bool { return a.WindSpeed < b.WindSpeed }
	case SortScore:
		less = func(a, b Slot) bool { return a.Score > b.Score }
	case SortTemperature:
		less = func(a, b Slot) bool {
			return math.Abs(a.Temperature-comfortTemperature) < math.Abs(b.Temperature-comfortTemperature)
		}
	case SortRain:
		less = func(a, b Slot) bool { return a.Precipitation < b.Precipitation }
	default:
		less = func(a, b Slot) bool { return a.Timestamp.Before(b.Timestamp) }
	}
	sort.SliceStable(slots, func(i, j int) bool { return less(slots[i], slots[j]) })
}
