package weather

import (
	"strings"
	"time"
)

// WeatherAPICondition is the condition block shared by current and hourly records.
type WeatherAPICondition struct {
	Text string `json:"text"`
	Icon string `json:"icon"`
}

// WeatherAPICurrent holds the current-conditions fields of a forecast.json response.
type WeatherAPICurrent struct {
	TempC      float64             `json:"temp_c"`
	FeelsLikeC float64             `json:"feelslike_c"`
	WindMph    float64             `json:"wind_mph"`
	WindDegree int                 `json:"wind_degree"`
	PrecipMm   float64             `json:"precip_mm"`
	Humidity   int                 `json:"humidity"`
	VisKm      float64             `json:"vis_km"`
	UV         float64             `json:"uv"`
	Condition  WeatherAPICondition `json:"condition"`
}

// WeatherAPIHour is one entry of a forecast day's hourly array.
type WeatherAPIHour struct {
	TimeEpoch    int64               `json:"time_epoch"`
	Time         string              `json:"time"` // "2006-01-02 15:04", location local time
	TempC        float64             `json:"temp_c"`
	FeelsLikeC   float64             `json:"feelslike_c"`
	WindMph      float64             `json:"wind_mph"`
	WindDegree   int                 `json:"wind_degree"`
	PrecipMm     float64             `json:"precip_mm"`
	Humidity     int                 `json:"humidity"`
	VisKm        float64             `json:"vis_km"`
	UV           float64             `json:"uv"`
	ChanceOfRain int                 `json:"chance_of_rain"`
	Condition    WeatherAPICondition `json:"condition"`
}

// WeatherAPIDay is one element of forecast.forecastday.
type WeatherAPIDay struct {
	Date string `json:"date"`
	Day  struct {
		DailyChanceOfRain int `json:"daily_chance_of_rain"`
	} `json:"day"`
	Astro struct {
		Sunrise string `json:"sunrise"`
		Sunset  string `json:"sunset"`
	} `json:"astro"`
	Hour []WeatherAPIHour `json:"hour"`
}

// WeatherAPIForecast is the subset of the WeatherAPI.com forecast.json response we consume.
type WeatherAPIForecast struct {
	Location struct {
		Name    string  `json:"name"`
		Country string  `json:"country"`
		Lat     float64 `json:"lat"`
		Lon     float64 `json:"lon"`
		TzID    string  `json:"tz_id"`
	} `json:"location"`
	Current  WeatherAPICurrent `json:"current"`
	Forecast struct {
		ForecastDay []WeatherAPIDay `json:"forecastday"`
	} `json:"forecast"`
}

// NormalizeWeatherAPI flattens a forecast.json response into time-slots.
// The first slot describes current conditions at now; it is followed by every
// hourly record strictly after now, in day then hour order.
func NormalizeWeatherAPI(resp WeatherAPIForecast, now time.Time) []TimeSlot {
	loc := loadZone(resp.Location.TzID)
	local := now.In(loc)

	cur := resp.Current
	current := TimeSlot{
		Date:          local.Format("2006-01-02"),
		Time:          local.Format("15:04"),
		Timestamp:     now,
		Temperature:   cur.TempC,
		FeelsLike:     cur.FeelsLikeC,
		WindSpeed:     cur.WindMph,
		WindDirection: cur.WindDegree,
		RainIntensity: cur.PrecipMm,
		Humidity:      cur.Humidity,
		Visibility:    cur.VisKm,
		UVIndex:       cur.UV,
		Description:   cur.Condition.Text,
		Icon:          cur.Condition.Icon,
	}

	days := resp.Forecast.ForecastDay
	if len(days) > 0 {
		today := days[0]
		if cur.PrecipMm > 0 {
			current.Precipitation = today.Day.DailyChanceOfRain
		} else if h := local.Hour(); h < len(today.Hour) {
			current.Precipitation = today.Hour[h].ChanceOfRain
		}
		current.SunTimes = SunTimes{Sunrise: today.Astro.Sunrise, Sunset: today.Astro.Sunset}
	}

	slots := []TimeSlot{current}
	for _, day := range days {
		sun := SunTimes{Sunrise: day.Astro.Sunrise, Sunset: day.Astro.Sunset}
		for _, h := range day.Hour {
			ts := time.Unix(h.TimeEpoch, 0).In(loc)
			if !ts.After(now) {
				continue
			}
			slots = append(slots, TimeSlot{
				Date:          day.Date,
				Time:          clockLabel(h.Time, ts),
				Timestamp:     ts,
				Temperature:   h.TempC,
				FeelsLike:     h.FeelsLikeC,
				WindSpeed:     h.WindMph,
				WindDirection: h.WindDegree,
				Precipitation: h.ChanceOfRain,
				RainIntensity: h.PrecipMm,
				Humidity:      h.Humidity,
				Visibility:    h.VisKm,
				UVIndex:       h.UV,
				Description:   h.Condition.Text,
				Icon:          h.Condition.Icon,
				SunTimes:      sun,
			})
		}
	}
	return slots
}

// clockLabel extracts "HH:MM" from a provider local time string, falling back to ts.
func clockLabel(raw string, ts time.Time) string {
	if i := strings.LastIndexByte(raw, ' '); i >= 0 && len(raw)-i-1 == 5 {
		return raw[i+1:]
	}
	return ts.Format("15:04")
}

func loadZone(name string) *time.Location {
	if name == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC
	}
	return loc
}
