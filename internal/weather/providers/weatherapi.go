package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/i474232898/runnability/internal/weather"
	"github.com/sony/gobreaker"
)

// WeatherAPIProvider implements weather.ForecastProvider for WeatherAPI.com.
type WeatherAPIProvider struct {
	name    string
	apiKey  string
	baseURL string
	days    int
	client  *http.Client
	circuit *gobreaker.CircuitBreaker

	now func() time.Time
}

func NewWeatherAPIProvider(client *http.Client, apiKey string, days int) *WeatherAPIProvider {
	if days <= 0 {
		days = 3
	}
	return &WeatherAPIProvider{
		name:    "weatherapi",
		apiKey:  apiKey,
		baseURL: "https://api.weatherapi.com/v1/forecast.json",
		days:    days,
		client:  client,
		circuit: newCircuitBreaker("weatherapi"),
		now:     time.Now,
	}
}

func (p *WeatherAPIProvider) Name() string {
	return p.name
}

func (p *WeatherAPIProvider) FetchForecast(ctx context.Context, coords weather.Coordinates) ([]weather.TimeSlot, error) {
	if p.apiKey == "" {
		return nil, fmt.Errorf("%w: weatherapi api key is not configured", weather.ErrNetworkFailure)
	}

	values := url.Values{}
	values.Set("key", p.apiKey)
	// WeatherAPI uses "q" for location; it accepts "lat,lon".
	values.Set("q", fmt.Sprintf("%f,%f", coords.Lat, coords.Lon))
	values.Set("days", strconv.Itoa(p.days))
	values.Set("aqi", "no")
	values.Set("alerts", "no")

	resp, err := doRequest(ctx, p.client, p.circuit, getRequest(p.baseURL+"?"+values.Encode()))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var payload weather.WeatherAPIForecast
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: decode weatherapi forecast: %v", weather.ErrNetworkFailure, err)
	}

	return weather.NormalizeWeatherAPI(payload, p.now()), nil
}
