package providers

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"

	"github.com/i474232898/runnability/internal/weather"
)

// RateLimitedForecastProvider wraps a ForecastProvider with rate limiting.
type RateLimitedForecastProvider struct {
	provider weather.ForecastProvider
	limiter  *rate.Limiter
}

// NewRateLimitedForecastProvider creates a rate limited forecast provider.
// rps may be fractional; burst is the maximum burst size.
func NewRateLimitedForecastProvider(provider weather.ForecastProvider, rps float64, burst int) *RateLimitedForecastProvider {
	return &RateLimitedForecastProvider{
		provider: provider,
		limiter:  rate.NewLimiter(rate.Limit(rps), burst),
	}
}

func (r *RateLimitedForecastProvider) Name() string {
	return r.provider.Name()
}

func (r *RateLimitedForecastProvider) FetchForecast(ctx context.Context, coords weather.Coordinates) ([]weather.TimeSlot, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: rate limit wait: %w", weather.ErrNetworkFailure, err)
	}
	return r.provider.FetchForecast(ctx, coords)
}

// RateLimitedGeocoder wraps a Geocoder with rate limiting.
type RateLimitedGeocoder struct {
	geocoder weather.Geocoder
	limiter  *rate.Limiter
}

func NewRateLimitedGeocoder(geocoder weather.Geocoder, rps float64, burst int) *RateLimitedGeocoder {
	return &RateLimitedGeocoder{
		geocoder: geocoder,
		limiter:  rate.NewLimiter(rate.Limit(rps), burst),
	}
}

func (r *RateLimitedGeocoder) Geocode(ctx context.Context, query string) (weather.Coordinates, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return weather.Coordinates{}, fmt.Errorf("%w: rate limit wait: %w", weather.ErrNetworkFailure, err)
	}
	return r.geocoder.Geocode(ctx, query)
}

func (r *RateLimitedGeocoder) ReverseLabel(ctx context.Context, coords weather.Coordinates) (string, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("%w: rate limit wait: %w", weather.ErrNetworkFailure, err)
	}
	return r.geocoder.ReverseLabel(ctx, coords)
}

// Verify that our rate limited types implement the required interfaces
var (
	_ weather.ForecastProvider = (*RateLimitedForecastProvider)(nil)
	_ weather.Geocoder         = (*RateLimitedGeocoder)(nil)
	_ weather.ForecastProvider = (*WeatherAPIProvider)(nil)
	_ weather.ForecastProvider = (*MetOfficeProvider)(nil)
	_ weather.Geocoder         = (*OpenWeatherGeocoder)(nil)
	_ weather.Geocoder         = (*GoogleGeocoder)(nil)
)
