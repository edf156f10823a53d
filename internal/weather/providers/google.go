package providers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/kelvins/geocoder"
	"github.com/sony/gobreaker"

	"github.com/i474232898/runnability/internal/common"
	"github.com/i474232898/runnability/internal/weather"
)

// GoogleGeocoder implements weather.Geocoder with the Google Geocoding API.
// Forward lookups go through kelvins/geocoder, which keeps its key in package
// state, so only one key can be in use. Reverse lookups call the endpoint
// directly because the label needs the ISO country code.
type GoogleGeocoder struct {
	apiKey  string
	baseURL string
	client  *http.Client
	circuit *gobreaker.CircuitBreaker

	geocode func(geocoder.Address) (geocoder.Location, error)
}

func NewGoogleGeocoder(client *http.Client, apiKey string) *GoogleGeocoder {
	geocoder.ApiKey = apiKey
	return &GoogleGeocoder{
		apiKey:  apiKey,
		baseURL: "https://maps.googleapis.com/maps/api/geocode/json",
		client:  client,
		circuit: newCircuitBreaker("google"),
		geocode: geocoder.Geocoding,
	}
}

type googleLocation struct {
	loc geocoder.Location
	err error
}

func (g *GoogleGeocoder) Geocode(ctx context.Context, query string) (weather.Coordinates, error) {
	if err := ctx.Err(); err != nil {
		return weather.Coordinates{}, fmt.Errorf("%w: google geocoding: %w", weather.ErrNetworkFailure, err)
	}

	// The library neither takes a context nor guards against unexpected
	// statuses, so the call runs aside and a panic counts as a failed request.
	done := make(chan googleLocation, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- googleLocation{err: fmt.Errorf("unexpected google response: %v", r)}
			}
		}()
		// The library only swaps spaces for '+' when building the URL.
		loc, err := g.geocode(geocoder.Address{City: url.QueryEscape(query)})
		done <- googleLocation{loc: loc, err: err}
	}()

	select {
	case <-ctx.Done():
		return weather.Coordinates{}, fmt.Errorf("%w: google geocoding: %w", weather.ErrNetworkFailure, ctx.Err())
	case res := <-done:
		if res.err != nil {
			return weather.Coordinates{}, mapGoogleError(res.err)
		}
		return weather.Coordinates{Lat: res.loc.Latitude, Lon: res.loc.Longitude}, nil
	}
}

type googleGeocodeResponse struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
	Results      []struct {
		AddressComponents []struct {
			LongName  string   `json:"long_name"`
			ShortName string   `json:"short_name"`
			Types     []string `json:"types"`
		} `json:"address_components"`
	} `json:"results"`
}

func (g *GoogleGeocoder) ReverseLabel(ctx context.Context, coords weather.Coordinates) (string, error) {
	if g.apiKey == "" {
		return "", fmt.Errorf("%w: google api key is not configured", weather.ErrNetworkFailure)
	}

	values := url.Values{}
	values.Set("latlng", fmt.Sprintf("%f,%f", coords.Lat, coords.Lon))
	values.Set("key", g.apiKey)

	resp, err := doRequest(ctx, g.client, g.circuit, getRequest(g.baseURL+"?"+values.Encode()))
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var payload googleGeocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("%w: decode google reverse geocoding: %v", weather.ErrNetworkFailure, err)
	}

	switch payload.Status {
	case "OK":
	case "ZERO_RESULTS":
		return "", weather.ErrNoResultFound
	default:
		return "", fmt.Errorf("%w: google reverse geocoding: %s %s", weather.ErrNetworkFailure, payload.Status, payload.ErrorMessage)
	}

	for _, result := range payload.Results {
		var city, town, country string
		for _, c := range result.AddressComponents {
			switch {
			case hasType(c.Types, "locality"):
				city = c.LongName
			case hasType(c.Types, "postal_town"):
				town = c.LongName
			case hasType(c.Types, "country"):
				country = c.ShortName
			}
		}
		if city == "" {
			city = town
		}
		if city != "" {
			return weather.FormatLabel(city, country), nil
		}
	}
	return "", weather.ErrNoResultFound
}

func hasType(types []string, want string) bool {
	for _, t := range types {
		if t == want {
			return true
		}
	}
	return false
}

func mapGoogleError(err error) error {
	if errors.Is(err, weather.ErrNoResultFound) {
		return err
	}
	if common.HasAny(err.Error(), "ZERO_RESULTS", "no results") {
		return fmt.Errorf("%w: %v", weather.ErrNoResultFound, err)
	}
	return fmt.Errorf("%w: google geocoding: %v", weather.ErrNetworkFailure, err)
}
