package store

import (
	"errors"
	"sync"
	"time"

	"github.com/i474232898/runnability/internal/weather"
)

var (
	// ErrNotFound is returned when no forecast is stored for an id or location key.
	ErrNotFound = errors.New("forecast not found")
)

// MemoryStore is a concurrency-safe in-memory forecast store.
// Nothing survives a restart.
type MemoryStore struct {
	mu sync.RWMutex

	forecasts map[string]weather.Forecast
	// key: location key, value: id of the newest forecast for it
	latest map[string]string
	// ids in insertion order, oldest first
	order []string

	// retention configuration
	maxEntries int           // max number of forecasts kept (0 = unlimited)
	maxAge     time.Duration // max age by FetchedAt (0 = unlimited)

	now func() time.Time
}

// NewMemoryStore creates a new MemoryStore with optional limits.
func NewMemoryStore(maxEntries int, maxAge time.Duration) *MemoryStore {
	return &MemoryStore{
		forecasts:  make(map[string]weather.Forecast),
		latest:     make(map[string]string),
		maxEntries: maxEntries,
		maxAge:     maxAge,
		now:        time.Now,
	}
}

// SaveForecast stores a forecast and enforces retention.
func (s *MemoryStore) SaveForecast(f weather.Forecast) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.forecasts[f.ID]; !exists {
		s.order = append(s.order, f.ID)
	}
	s.forecasts[f.ID] = f
	if f.Query != "" {
		s.latest[f.Query] = f.ID
	}

	// Enforce retention by count.
	if s.maxEntries > 0 && len(s.order) > s.maxEntries {
		over := len(s.order) - s.maxEntries
		s.evict(s.order[:over])
		s.order = s.order[over:]
	}

	// Enforce retention by age.
	if s.maxAge > 0 {
		cutoff := s.now().Add(-s.maxAge)
		i := 0
		for ; i < len(s.order); i++ {
			if !s.forecasts[s.order[i]].FetchedAt.Before(cutoff) {
				break
			}
		}
		if i > 0 {
			s.evict(s.order[:i])
			s.order = s.order[i:]
		}
	}
}

func (s *MemoryStore) evict(ids []string) {
	for _, id := range ids {
		f := s.forecasts[id]
		delete(s.forecasts, id)
		if s.latest[f.Query] == id {
			delete(s.latest, f.Query)
		}
	}
}

// GetForecast returns the forecast stored under id.
func (s *MemoryStore) GetForecast(id string) (weather.Forecast, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	f, ok := s.forecasts[id]
	if !ok {
		return weather.Forecast{}, ErrNotFound
	}
	return f, nil
}

// GetLatest returns the newest forecast saved for a location key.
func (s *MemoryStore) GetLatest(key string) (weather.Forecast, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.latest[key]
	if !ok {
		return weather.Forecast{}, ErrNotFound
	}
	f, ok := s.forecasts[id]
	if !ok {
		return weather.Forecast{}, ErrNotFound
	}
	return f, nil
}
