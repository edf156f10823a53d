package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	httpapi "github.com/i474232898/runnability/internal/api/http"
	"github.com/i474232898/runnability/internal/config"
	"github.com/i474232898/runnability/internal/scheduler"
	"github.com/i474232898/runnability/internal/scoring"
	"github.com/i474232898/runnability/internal/store"
	"github.com/i474232898/runnability/internal/weather"
	"github.com/i474232898/runnability/internal/weather/providers"
)

func main() {
	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	profile, err := scoring.LoadProfile(cfg.ScoringProfile)
	if err != nil {
		log.Fatalf("failed to load scoring profile: %v", err)
	}

	// Shared HTTP client for outbound provider calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	// In-memory store with configured retention.
	memStore := store.NewMemoryStore(cfg.StoreMaxEntries, cfg.StoreMaxAge)

	var provider weather.ForecastProvider
	switch cfg.ForecastSource {
	case config.SourceMetOffice:
		provider = providers.NewMetOfficeProvider(httpClient, cfg.MetOfficeAPIKey)
	default:
		provider = providers.NewWeatherAPIProvider(httpClient, cfg.WeatherAPIKey, cfg.ForecastDays)
	}

	// Google geocoding takes precedence when a key is configured.
	var geocoder weather.Geocoder = providers.NewOpenWeatherGeocoder(httpClient, cfg.OpenWeatherAPIKey)
	if cfg.GoogleGeocoderAPIKey != "" {
		geocoder = providers.NewGoogleGeocoder(httpClient, cfg.GoogleGeocoderAPIKey)
	}

	if cfg.ProviderRPS > 0 {
		provider = providers.NewRateLimitedForecastProvider(provider, cfg.ProviderRPS, cfg.ProviderBurst)
		geocoder = providers.NewRateLimitedGeocoder(geocoder, cfg.ProviderRPS, cfg.ProviderBurst)
		log.Printf("INFO: outbound calls limited to %.2f rps (burst %d)", cfg.ProviderRPS, cfg.ProviderBurst)
	}
	log.Printf("INFO: forecast source %s", provider.Name())

	// Core service orchestrating geocoding, forecasts and the store.
	service := weather.NewService(memStore, geocoder, provider)

	// Scheduler that periodically prefetches configured locations.
	sched := scheduler.New(cfg.RefreshLocations, cfg.RefreshInterval, service)
	if err := sched.Start(); err != nil {
		log.Fatalf("failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	// Basic app configuration
	app := fiber.New(fiber.Config{
		AppName:               "runnability",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          30 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Centralized error response
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
			})
		},
	})

	// Global middleware
	app.Use(logger.New())
	app.Use(recover.New())

	// Basic health endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "runnability",
			"source":  provider.Name(),
		})
	})

	// API routes.
	httpapi.RegisterRoutes(app, service, scoring.NewWeightedScorer(profile))

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Printf("fiber server stopped: %v", err)
		}
	}()
	log.Printf("INFO: listening on :%s", cfg.Port)

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("error during shutdown: %v", err)
	}
}
