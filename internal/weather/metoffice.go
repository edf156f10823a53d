package weather

import (
	"bytes"
	"encoding/json"
	"sort"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// metOfficeZone is the zone DataPoint site forecasts are labelled in.
const metOfficeZone = "Europe/London"

var visibilityKm = map[string]float64{
	"UN": 0,   // unknown
	"VP": 0.1, // very poor
	"PO": 1,   // poor
	"MO": 4,   // moderate
	"GO": 10,  // good
	"VG": 20,  // very good
	"EX": 40,  // excellent
}

// VisibilityKm converts a Met Office visibility code to kilometres.
// Unrecognized codes convert to 0.
func VisibilityKm(code string) float64 {
	return visibilityKm[strings.ToUpper(strings.TrimSpace(code))]
}

var compassDegrees = map[string]int{
	"N": 0, "NNE": 22, "NE": 45, "ENE": 67,
	"E": 90, "ESE": 112, "SE": 135, "SSE": 157,
	"S": 180, "SSW": 202, "SW": 225, "WSW": 247,
	"W": 270, "WNW": 292, "NW": 315, "NNW": 337,
}

// CompassDegrees converts a 16-point compass code to degrees; unknown codes give 0.
func CompassDegrees(code string) int {
	return compassDegrees[strings.ToUpper(strings.TrimSpace(code))]
}

var metOfficeWeatherTypes = []string{
	"clear night", "sunny day", "partly cloudy", "partly cloudy", "not used",
	"mist", "fog", "cloudy", "overcast",
	"light rain shower", "light rain shower", "drizzle", "light rain",
	"heavy rain shower", "heavy rain shower", "heavy rain",
	"sleet shower", "sleet shower", "sleet",
	"hail shower", "hail shower", "hail",
	"light snow shower", "light snow shower", "light snow",
	"heavy snow shower", "heavy snow shower", "heavy snow",
	"thunder shower", "thunder shower", "thunder",
}

func metOfficeDescription(code string) string {
	n, err := strconv.Atoi(code)
	if err != nil || n < 0 || n >= len(metOfficeWeatherTypes) {
		return "Not available"
	}
	return cases.Title(language.English).String(metOfficeWeatherTypes[n])
}

// oneOrMany decodes DataPoint fields that are an object when there is a
// single element and an array otherwise.
type oneOrMany[T any] []T

func (o *oneOrMany[T]) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		var items []T
		if err := json.Unmarshal(data, &items); err != nil {
			return err
		}
		*o = items
		return nil
	}
	if bytes.Equal(data, []byte("null")) {
		*o = nil
		return nil
	}
	var item T
	if err := json.Unmarshal(data, &item); err != nil {
		return err
	}
	*o = []T{item}
	return nil
}

// MetOfficeRep is one report in a DataPoint site forecast. All values are strings.
type MetOfficeRep struct {
	WindDirection string `json:"D"`
	FeelsLike     string `json:"F"`
	Humidity      string `json:"H"`
	PrecipProb    string `json:"Pp"`
	WindSpeed     string `json:"S"` // mph
	Temperature   string `json:"T"`
	Visibility    string `json:"V"`
	WeatherType   string `json:"W"`
	UVIndex       string `json:"U"`
	Minutes       string `json:"$"` // minutes after midnight UTC
}

// MetOfficePeriod is one day of reports; Value looks like "2024-12-19Z".
type MetOfficePeriod struct {
	Type  string                  `json:"type"`
	Value string                  `json:"value"`
	Rep   oneOrMany[MetOfficeRep] `json:"Rep"`
}

// MetOfficeForecast is the subset of a DataPoint wxfcs response we consume.
type MetOfficeForecast struct {
	SiteRep struct {
		DV struct {
			DataDate string `json:"dataDate"`
			Location struct {
				ID      string                     `json:"i"`
				Name    string                     `json:"name"`
				Country string                     `json:"country"`
				Period  oneOrMany[MetOfficePeriod] `json:"Period"`
			} `json:"Location"`
		} `json:"DV"`
	} `json:"SiteRep"`
}

// NormalizeMetOffice flattens a DataPoint site forecast into time-slots. The
// report covering now (the latest one at or before now, else the first) becomes
// the current slot stamped at now; every report strictly after now follows.
// A forecast without reports yields no slots.
func NormalizeMetOffice(resp MetOfficeForecast, now time.Time) []TimeSlot {
	zone := loadZone(metOfficeZone)

	var reports []TimeSlot
	for _, period := range resp.SiteRep.DV.Location.Period {
		day, err := time.Parse("2006-01-02", strings.TrimSuffix(period.Value, "Z"))
		if err != nil {
			continue
		}
		for _, rep := range period.Rep {
			minutes, err := strconv.Atoi(rep.Minutes)
			if err != nil {
				continue
			}
			ts := day.Add(time.Duration(minutes) * time.Minute).In(zone)
			reports = append(reports, TimeSlot{
				Date:          ts.Format("2006-01-02"),
				Time:          ts.Format("15:04"),
				Timestamp:     ts,
				Temperature:   parseFloat(rep.Temperature),
				FeelsLike:     parseFloat(rep.FeelsLike),
				WindSpeed:     parseFloat(rep.WindSpeed),
				WindDirection: CompassDegrees(rep.WindDirection),
				Precipitation: int(parseFloat(rep.PrecipProb)),
				Humidity:      int(parseFloat(rep.Humidity)),
				Visibility:    VisibilityKm(rep.Visibility),
				UVIndex:       parseFloat(rep.UVIndex),
				Description:   metOfficeDescription(rep.WeatherType),
				Icon:          rep.WeatherType,
			})
		}
	}
	if len(reports) == 0 {
		return nil
	}
	sort.SliceStable(reports, func(i, j int) bool {
		return reports[i].Timestamp.Before(reports[j].Timestamp)
	})

	current := reports[0]
	for _, r := range reports {
		if r.Timestamp.After(now) {
			break
		}
		current = r
	}
	local := now.In(zone)
	current.Date = local.Format("2006-01-02")
	current.Time = local.Format("15:04")
	current.Timestamp = now

	slots := []TimeSlot{current}
	for _, r := range reports {
		if r.Timestamp.After(now) {
			slots = append(slots, r)
		}
	}
	return slots
}

func parseFloat(s string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return f
}
