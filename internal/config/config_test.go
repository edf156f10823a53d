package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"FORECAST_SOURCE", "FORECAST_DAYS", "HTTP_TIMEOUT", "REFRESH_INTERVAL", "REFRESH_LOCATIONS", "STORE_MAX_ENTRIES", "STORE_MAX_AGE", "PROVIDER_RPS", "PORT"} {
		t.Setenv(k, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.ForecastSource != SourceWeatherAPI || cfg.ForecastDays != 3 {
		t.Fatalf("unexpected source defaults %q %d", cfg.ForecastSource, cfg.ForecastDays)
	}
	if cfg.HTTPTimeout != 15*time.Second || cfg.RefreshInterval != 30*time.Minute || cfg.StoreMaxAge != 6*time.Hour {
		t.Fatalf("unexpected duration defaults %+v", cfg)
	}
	if cfg.StoreMaxEntries != 256 || cfg.ProviderRPS != 0 || cfg.Port != "8080" || len(cfg.RefreshLocations) != 0 {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("FORECAST_SOURCE", "MetOffice")
	t.Setenv("HTTP_TIMEOUT", "0s")
	t.Setenv("PROVIDER_RPS", "0.5")
	t.Setenv("PROVIDER_BURST", "3")
	t.Setenv("REFRESH_LOCATIONS", "London, GB; Exeter, GB")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.ForecastSource != SourceMetOffice {
		t.Fatalf("expected metoffice, got %q", cfg.ForecastSource)
	}
	if cfg.HTTPTimeout != 0 || cfg.ProviderRPS != 0.5 || cfg.ProviderBurst != 3 {
		t.Fatalf("unexpected overrides %+v", cfg)
	}
	if len(cfg.RefreshLocations) != 2 || cfg.RefreshLocations[1] != "Exeter, GB" {
		t.Fatalf("unexpected locations %v", cfg.RefreshLocations)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	t.Setenv("FORECAST_SOURCE", "darksky")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for unknown source")
	}

	t.Setenv("FORECAST_SOURCE", "")
	t.Setenv("STORE_MAX_AGE", "soon")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid duration")
	}
}
