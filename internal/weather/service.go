package weather

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Service resolves places, fetches forecasts and keeps them for re-rendering.
type Service struct {
	store    Store
	geocoder Geocoder
	provider ForecastProvider

	now func() time.Time
}

// NewService creates a new Service.
func NewService(store Store, geocoder Geocoder, provider ForecastProvider) *Service {
	return &Service{
		store:    store,
		geocoder: geocoder,
		provider: provider,
		now:      time.Now,
	}
}

// Search geocodes a free-text query and fetches the forecast for the best match.
func (s *Service) Search(ctx context.Context, query string) (Forecast, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return Forecast{}, fmt.Errorf("%w: empty query", ErrNoResultFound)
	}
	if s.geocoder == nil {
		return Forecast{}, fmt.Errorf("no geocoder configured")
	}

	coords, err := s.geocoder.Geocode(ctx, query)
	if errors.Is(err, ErrNoResultFound) {
		return Forecast{}, fmt.Errorf("geocode %q: %w", query, err)
	}
	if err != nil {
		return Forecast{}, fmt.Errorf("%w: geocode %q: %w", ErrSearchFailure, query, err)
	}
	log.Printf("DEBUG: geocoded %q to %s", query, coords)

	return s.fetch(ctx, query, coords)
}

// ForecastAt fetches the forecast for coordinates, e.g. from browser geolocation.
func (s *Service) ForecastAt(ctx context.Context, coords Coordinates) (Forecast, error) {
	return s.fetch(ctx, "", coords)
}

// Refresh re-runs Search for a query; used by the scheduler.
func (s *Service) Refresh(ctx context.Context, query string) error {
	f, err := s.Search(ctx, query)
	if err != nil {
		return err
	}
	log.Printf("INFO: refreshed %q (%s, %d slots)", query, f.Label, len(f.Slots))
	return nil
}

// Get returns a previously fetched forecast without contacting any provider.
func (s *Service) Get(id string) (Forecast, error) {
	return s.store.GetForecast(id)
}

// Latest returns the most recent forecast fetched for query.
func (s *Service) Latest(query string) (Forecast, error) {
	return s.store.GetLatest(LocationKey(query))
}

func (s *Service) fetch(ctx context.Context, query string, coords Coordinates) (Forecast, error) {
	if s.provider == nil {
		return Forecast{}, fmt.Errorf("no forecast provider configured")
	}

	label := s.label(ctx, coords)

	slots, err := s.provider.FetchForecast(ctx, coords)
	if err != nil {
		log.Printf("ERROR: provider %s forecast failed for %s: %v", s.provider.Name(), coords, err)
		return Forecast{}, fmt.Errorf("fetch forecast: %w", err)
	}

	f := Forecast{
		ID:          uuid.NewString(),
		Query:       LocationKey(query),
		Label:       label,
		Coordinates: coords,
		Source:      s.provider.Name(),
		FetchedAt:   s.now().UTC(),
		Slots:       slots,
	}
	s.store.SaveForecast(f)
	return f, nil
}

// label never fails: reverse lookup errors degrade to UnknownLocation.
func (s *Service) label(ctx context.Context, coords Coordinates) string {
	if s.geocoder == nil {
		return UnknownLocation
	}
	name, err := s.geocoder.ReverseLabel(ctx, coords)
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			log.Printf("INFO: reverse lookup failed for %s: %v", coords, err)
		}
		return UnknownLocation
	}
	if name == "" {
		return UnknownLocation
	}
	return name
}
