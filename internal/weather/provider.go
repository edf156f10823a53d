package weather

import (
	"context"
)

// ForecastProvider abstracts a forecast source (e.g. WeatherAPI.com, Met Office DataPoint).
// Implementations return slots already normalized and in chronological order.
type ForecastProvider interface {
	Name() string
	FetchForecast(ctx context.Context, coords Coordinates) ([]TimeSlot, error)
}

// Geocoder resolves free-text queries to coordinates and coordinates back to a label.
type Geocoder interface {
	// Geocode returns the single best match for query, or ErrNoResultFound.
	Geocode(ctx context.Context, query string) (Coordinates, error)
	// ReverseLabel returns a "City, CC" label for coords.
	ReverseLabel(ctx context.Context, coords Coordinates) (string, error)
}

// Store is the contract the in-memory forecast store must satisfy.
type Store interface {
	SaveForecast(forecast Forecast)
	GetForecast(id string) (Forecast, error)
	GetLatest(key string) (Forecast, error)
}
