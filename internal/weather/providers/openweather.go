package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/i474232898/runnability/internal/weather"
	"github.com/sony/gobreaker"
)

// OpenWeatherGeocoder implements weather.Geocoder with the OpenWeatherMap
// direct geocoding and current weather endpoints.
type OpenWeatherGeocoder struct {
	apiKey  string
	baseURL string
	client  *http.Client
	circuit *gobreaker.CircuitBreaker
}

func NewOpenWeatherGeocoder(client *http.Client, apiKey string) *OpenWeatherGeocoder {
	return &OpenWeatherGeocoder{
		apiKey:  apiKey,
		baseURL: "https://api.openweathermap.org",
		client:  client,
		circuit: newCircuitBreaker("openweather"),
	}
}

func (g *OpenWeatherGeocoder) Geocode(ctx context.Context, query string) (weather.Coordinates, error) {
	if g.apiKey == "" {
		return weather.Coordinates{}, fmt.Errorf("%w: openweather api key is not configured", weather.ErrNetworkFailure)
	}

	values := url.Values{}
	values.Set("q", query)
	values.Set("limit", "1")
	values.Set("appid", g.apiKey)

	resp, err := doRequest(ctx, g.client, g.circuit, getRequest(g.baseURL+"/geo/1.0/direct?"+values.Encode()))
	if err != nil {
		return weather.Coordinates{}, err
	}
	defer resp.Body.Close()

	var payload []struct {
		Name    string  `json:"name"`
		Lat     float64 `json:"lat"`
		Lon     float64 `json:"lon"`
		Country string  `json:"country"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return weather.Coordinates{}, fmt.Errorf("%w: decode openweather geocoding: %v", weather.ErrNetworkFailure, err)
	}
	if len(payload) == 0 {
		return weather.Coordinates{}, weather.ErrNoResultFound
	}

	return weather.Coordinates{Lat: payload[0].Lat, Lon: payload[0].Lon}, nil
}

func (g *OpenWeatherGeocoder) ReverseLabel(ctx context.Context, coords weather.Coordinates) (string, error) {
	if g.apiKey == "" {
		return "", fmt.Errorf("%w: openweather api key is not configured", weather.ErrNetworkFailure)
	}

	values := url.Values{}
	values.Set("lat", fmt.Sprintf("%f", coords.Lat))
	values.Set("lon", fmt.Sprintf("%f", coords.Lon))
	values.Set("appid", g.apiKey)

	resp, err := doRequest(ctx, g.client, g.circuit, getRequest(g.baseURL+"/data/2.5/weather?"+values.Encode()))
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var payload struct {
		Name string `json:"name"`
		Sys  struct {
			Country string `json:"country"`
		} `json:"sys"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("%w: decode openweather weather: %v", weather.ErrNetworkFailure, err)
	}
	if payload.Name == "" {
		return "", weather.ErrNoResultFound
	}

	return weather.FormatLabel(payload.Name, payload.Sys.Country), nil
}
