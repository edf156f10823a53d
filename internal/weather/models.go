package weather

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// UnknownLocation is the label used when a reverse lookup fails.
const UnknownLocation = "Unknown Location"

// Coordinates is a latitude/longitude pair in decimal degrees.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

func (c Coordinates) String() string {
	return fmt.Sprintf("%.4f,%.4f", c.Lat, c.Lon)
}

// SunTimes holds the local sunrise and sunset labels for a slot's day.
type SunTimes struct {
	Sunrise string `json:"sunrise"`
	Sunset  string `json:"sunset"`
}

// TimeSlot is one normalized hourly (or current) observation.
// Values are never modified after normalization.
type TimeSlot struct {
	Date      string    `json:"date"` // YYYY-MM-DD, local to the forecast location
	Time      string    `json:"time"` // HH:MM, local to the forecast location
	Timestamp time.Time `json:"timestamp"`

	Temperature   float64 `json:"temperature"` // °C
	FeelsLike     float64 `json:"feelsLike"`   // °C
	WindSpeed     float64 `json:"windSpeed"`   // mph
	WindDirection int     `json:"windDirection"`
	Precipitation int     `json:"precipitation"` // chance of rain, percent
	RainIntensity float64 `json:"rainIntensity"` // mm
	Humidity      int     `json:"humidity"`
	Visibility    float64 `json:"visibility"` // km
	UVIndex       float64 `json:"uvIndex"`

	Description string   `json:"description"`
	Icon        string   `json:"icon"`
	SunTimes    SunTimes `json:"sunTimes"`
}

// Hour returns the hour-of-day of the slot's local time label, or -1 if it cannot be parsed.
func (s TimeSlot) Hour() int {
	var h, m int
	if _, err := fmt.Sscanf(s.Time, "%d:%d", &h, &m); err != nil {
		return -1
	}
	return h
}

// Forecast is one fetch of normalized slots for a place.
type Forecast struct {
	ID          string      `json:"id"`
	Query       string      `json:"query,omitempty"`
	Label       string      `json:"location"`
	Coordinates Coordinates `json:"coordinates"`
	Source      string      `json:"source"`
	FetchedAt   time.Time   `json:"fetchedAt"`
	Slots       []TimeSlot  `json:"slots"`
}

// LocationKey returns the key a forecast is indexed under for latest-lookups.
// Queries are matched case-insensitively.
func LocationKey(query string) string {
	return strings.ToLower(strings.TrimSpace(query))
}

// FormatLabel builds the "City, CC" display label.
func FormatLabel(city, country string) string {
	city = strings.TrimSpace(city)
	country = strings.TrimSpace(country)
	if city == "" {
		return UnknownLocation
	}
	city = cases.Title(language.English, cases.NoLower).String(city)
	if country == "" {
		return city
	}
	return city + ", " + strings.ToUpper(country)
}
