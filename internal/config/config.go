package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/i474232898/runnability/internal/common"
)

// Forecast sources.
const (
	SourceWeatherAPI = "weatherapi"
	SourceMetOffice  = "metoffice"
)

type AppConfig struct {
	WeatherAPIKey        string
	OpenWeatherAPIKey    string
	MetOfficeAPIKey      string
	GoogleGeocoderAPIKey string

	// ForecastSource selects the forecast provider: weatherapi or metoffice.
	ForecastSource string
	ForecastDays   int

	// HTTPTimeout bounds outbound calls; 0 disables the timeout.
	HTTPTimeout time.Duration

	// Outbound rate limit per provider (0 = unlimited).
	ProviderRPS   float64
	ProviderBurst int

	// RefreshInterval controls how often RefreshLocations are prefetched.
	RefreshInterval  time.Duration
	RefreshLocations []string

	// In-memory store retention.
	StoreMaxEntries int           // max number of forecasts kept (0 = unlimited)
	StoreMaxAge     time.Duration // max age of forecasts (0 = unlimited)

	// ScoringProfile is a YAML weighted-range profile; empty uses the built-in one.
	ScoringProfile string

	Port string
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}
	cfg := &AppConfig{}

	cfg.WeatherAPIKey = os.Getenv("WEATHERAPI_API_KEY")
	cfg.OpenWeatherAPIKey = os.Getenv("OPENWEATHER_API_KEY")
	cfg.MetOfficeAPIKey = os.Getenv("METOFFICE_API_KEY")
	cfg.GoogleGeocoderAPIKey = os.Getenv("GOOGLE_GEOCODER_API_KEY")

	cfg.ForecastSource = strings.ToLower(getenvDefault("FORECAST_SOURCE", SourceWeatherAPI))
	switch cfg.ForecastSource {
	case SourceWeatherAPI, SourceMetOffice:
	default:
		return nil, fmt.Errorf("invalid FORECAST_SOURCE %q: want %s or %s", cfg.ForecastSource, SourceWeatherAPI, SourceMetOffice)
	}
	cfg.ForecastDays = getenvInt("FORECAST_DAYS", 3)
	if cfg.ForecastDays < 1 {
		return nil, fmt.Errorf("invalid FORECAST_DAYS: must be at least 1")
	}

	var err error
	if cfg.HTTPTimeout, err = getenvDuration("HTTP_TIMEOUT", "15s"); err != nil {
		return nil, err
	}
	if cfg.RefreshInterval, err = getenvDuration("REFRESH_INTERVAL", "30m"); err != nil {
		return nil, err
	}
	if cfg.StoreMaxAge, err = getenvDuration("STORE_MAX_AGE", "6h"); err != nil {
		return nil, err
	}

	cfg.ProviderRPS = getenvFloat("PROVIDER_RPS", 0)
	cfg.ProviderBurst = getenvInt("PROVIDER_BURST", 1)
	cfg.StoreMaxEntries = getenvInt("STORE_MAX_ENTRIES", 256)
	cfg.RefreshLocations = common.SplitList(os.Getenv("REFRESH_LOCATIONS"), ";")
	cfg.ScoringProfile = os.Getenv("SCORING_PROFILE")
	cfg.Port = getenvDefault("PORT", "8080")

	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}

func getenvFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err == nil {
			return f
		}
	}
	return def
}

func getenvDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(getenvDefault(key, def))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
