package display

import (
	"strings"
	"testing"
	"time"

	"github.com/i474232898/runnability/internal/scoring"
	"github.com/i474232898/runnability/internal/weather"
)

func at(date string, hour int, mutate func(*weather.TimeSlot)) weather.TimeSlot {
	ts, _ := time.Parse("2006-01-02", date)
	ts = ts.Add(time.Duration(hour) * time.Hour)
	s := weather.TimeSlot{
		Date:        date,
		Time:        ts.Format("15:04"),
		Timestamp:   ts,
		Temperature: 15,
		Humidity:    50,
	}
	if mutate != nil {
		mutate(&s)
	}
	return s
}

func times(slots []Slot) string {
	out := make([]string, 0, len(slots))
	for _, s := range slots {
		out = append(out, s.Time)
	}
	return strings.Join(out, ",")
}

func TestGroupByDateKeepsFirstSeenOrder(t *testing.T) {
	slots := []weather.TimeSlot{
		at("2024-05-02", 10, nil),
		at("2024-05-01", 23, nil),
		at("2024-05-02", 11, nil),
		at("2024-05-03", 1, nil),
	}
	groups := GroupByDate(slots)
	if len(groups) != 3 {
		t.Fatalf("expected 3 groups, got %d", len(groups))
	}
	if groups[0].Date != "2024-05-02" || groups[1].Date != "2024-05-01" || groups[2].Date != "2024-05-03" {
		t.Fatalf("unexpected group order %v", groups)
	}
	if len(groups[0].Slots) != 2 || groups[0].Slots[1].Time != "11:00" {
		t.Fatalf("unexpected slots in first group %+v", groups[0].Slots)
	}
}

func TestDaytimeWindow(t *testing.T) {
	var slots []weather.TimeSlot
	for h := 0; h < 24; h++ {
		slots = append(slots, at("2024-05-01", h, nil))
	}
	day := Daytime(slots)
	if len(day) != 17 {
		t.Fatalf("expected 17 daytime slots, got %d", len(day))
	}
	if day[0].Time != "05:00" || day[len(day)-1].Time != "21:00" {
		t.Fatalf("unexpected window %s..%s", day[0].Time, day[len(day)-1].Time)
	}
}

func TestBuildLimitsDaysAndScores(t *testing.T) {
	slots := []weather.TimeSlot{
		at("2024-05-01", 14, func(s *weather.TimeSlot) { s.Time = "14:37" }),
		at("2024-05-01", 15, func(s *weather.TimeSlot) { s.WindSpeed = 25 }),
		at("2024-05-01", 23, nil),
		at("2024-05-02", 6, nil),
		at("2024-05-03", 7, nil),
		at("2024-05-04", 8, nil),
	}

	days := Build(slots, Options{Preferences: scoring.DefaultPreferences(), Sort: SortTime})
	if len(days) != MaxDays {
		t.Fatalf("expected %d days, got %d", MaxDays, len(days))
	}
	if days[0].Date != "2024-05-01" || len(days[0].Slots) != 2 {
		t.Fatalf("unexpected first day %+v", days[0])
	}

	first, second := days[0].Slots[0], days[0].Slots[1]
	if first.Score != 100 || first.Category != scoring.Excellent || first.Class != "excellent" {
		t.Fatalf("unexpected badge %v %s %s", first.Score, first.Category, first.Class)
	}
	if second.Score != 70 || second.Category != scoring.Good {
		t.Fatalf("unexpected badge %v %s", second.Score, second.Category)
	}
}

func TestBuildIgnoreRain(t *testing.T) {
	slots := []weather.TimeSlot{at("2024-05-01", 9, func(s *weather.TimeSlot) { s.Precipitation = 90 })}

	days := Build(slots, Options{Preferences: scoring.DefaultPreferences()})
	if got := days[0].Slots[0].Score; got != 70 {
		t.Fatalf("expected rain penalty, got %v", got)
	}

	days = Build(slots, Options{Preferences: scoring.DefaultPreferences(), IgnoreRain: true})
	if got := days[0].Slots[0].Score; got != 100 {
		t.Fatalf("expected rain ignored, got %v", got)
	}
}

func TestSortKeys(t *testing.T) {
	slots := []weather.TimeSlot{
		at("2024-05-01", 9, func(s *weather.TimeSlot) { s.WindSpeed = 12; s.Precipitation = 40; s.Temperature = 24 }),
		at("2024-05-01", 7, func(s *weather.TimeSlot) { s.WindSpeed = 3; s.Precipitation = 60; s.Temperature = 2 }),
		at("2024-05-01", 8, func(s *weather.TimeSlot) { s.WindSpeed = 8; s.Precipitation = 0; s.Temperature = 16 }),
	}
	prefs := scoring.DefaultPreferences()

	tests := []struct {
		key  SortKey
		want string
	}{
		{SortTime, "07:00,08:00,09:00"},
		{SortWind, "07:00,08:00,09:00"},
		{SortScore, "08:00,09:00,07:00"},
		{SortTemperature, "08:00,09:00,07:00"},
		{SortRain, "08:00,09:00,07:00"},
		{SortKey("bogus"), "07:00,08:00,09:00"},
	}
	for _, tt := range tests {
		days := Build(slots, Options{Preferences: prefs, Sort: tt.key})
		if got := times(days[0].Slots); got != tt.want {
			t.Errorf("sort %q: got %s, want %s", tt.key, got, tt.want)
		}
	}
}

func TestSortByScoreIsStable(t *testing.T) {
	// Same score, different wind below every threshold.
	slots := []weather.TimeSlot{
		at("2024-05-01", 12, func(s *weather.TimeSlot) { s.WindSpeed = 4 }),
		at("2024-05-01", 10, func(s *weather.TimeSlot) { s.WindSpeed = 25 }),
		at("2024-05-01", 11, func(s *weather.TimeSlot) { s.WindSpeed = 1 }),
		at("2024-05-01", 9, func(s *weather.TimeSlot) { s.WindSpeed = 2 }),
	}
	days := Build(slots, Options{Preferences: scoring.DefaultPreferences(), Sort: SortScore})
	if got := times(days[0].Slots); got != "12:00,11:00,09:00,10:00" {
		t.Fatalf("expected ties in input order, got %s", got)
	}
}

func TestParseSortKey(t *testing.T) {
	if ParseSortKey("wind") != SortWind || ParseSortKey("") != SortTime || ParseSortKey("x") != SortTime {
		t.Fatalf("unexpected sort key parsing")
	}
}
