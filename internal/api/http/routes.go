package httpapi

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/runnability/internal/display"
	"github.com/i474232898/runnability/internal/scoring"
	"github.com/i474232898/runnability/internal/store"
	"github.com/i474232898/runnability/internal/weather"
)

var validate = validator.New()

// geolocationTimeoutMs bounds the browser's one-shot position request.
const geolocationTimeoutMs = 5000

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, service *weather.Service, scorer *scoring.WeightedScorer) {
	v1 := app.Group("/api/v1")

	v1.Get("/settings", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"preferences": scoring.DefaultPreferences(),
			"sortOptions": display.SortKeys,
			"maxDays":     display.MaxDays,
			"hours":       fiber.Map{"from": display.FirstHour, "to": display.LastHour},
			"geolocation": fiber.Map{
				"enableHighAccuracy": true,
				"timeout":            geolocationTimeoutMs,
				"maximumAge":         0,
			},
			"weightedProfile": scorer.Profile(),
		})
	})

	v1.Get("/runs", func(c *fiber.Ctx) error {
		var req runsQuery
		if err := req.bind(c); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		if req.GeoError != 0 {
			return failure(weather.GeolocationError(req.GeoError))
		}

		var (
			forecast weather.Forecast
			err      error
		)
		if req.Query != "" {
			forecast, err = service.Search(c.UserContext(), req.Query)
		} else {
			forecast, err = service.ForecastAt(c.UserContext(), weather.Coordinates{Lat: *req.Lat, Lon: *req.Lon})
		}
		if err != nil {
			return failure(err)
		}

		return c.JSON(render(forecast, req.View))
	})

	v1.Get("/forecasts/:id", func(c *fiber.Ctx) error {
		var view viewQuery
		if err := view.bind(c); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if err := validate.Struct(view); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		forecast, err := service.Get(c.Params("id"))
		if err != nil {
			return failure(err)
		}
		return c.JSON(render(forecast, view))
	})

	v1.Get("/forecasts/:id/ranking", func(c *fiber.Ctx) error {
		var view viewQuery
		if err := view.bind(c); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if err := validate.Struct(view); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		forecast, err := service.Get(c.Params("id"))
		if err != nil {
			return failure(err)
		}

		ranked := scorer.WithPreferences(view.options().Effective()).Rank(forecast.Slots)
		return c.JSON(fiber.Map{
			"id":       forecast.ID,
			"location": forecast.Label,
			"slots":    ranked,
		})
	})

	v1.Get("/locations/latest", func(c *fiber.Ctx) error {
		q := strings.TrimSpace(c.Query("q"))
		if q == "" {
			return fiber.NewError(fiber.StatusBadRequest, "q query parameter is required")
		}
		var view viewQuery
		if err := view.bind(c); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if err := validate.Struct(view); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		forecast, err := service.Latest(q)
		if err != nil {
			return failure(err)
		}
		return c.JSON(render(forecast, view))
	})
}

// failure maps the failure taxonomy to an HTTP error carrying the user-visible notice.
func failure(err error) error {
	notice := display.Notice(err)
	switch {
	case errors.Is(err, store.ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, "forecast not found; please search again")
	case errors.Is(err, weather.ErrNoResultFound):
		return fiber.NewError(fiber.StatusNotFound, notice)
	case weather.IsGeolocation(err):
		return fiber.NewError(fiber.StatusUnprocessableEntity, notice)
	case errors.Is(err, weather.ErrSearchFailure), errors.Is(err, weather.ErrNetworkFailure):
		return fiber.NewError(fiber.StatusBadGateway, notice)
	default:
		return fiber.NewError(fiber.StatusInternalServerError, notice)
	}
}

type forecastView struct {
	ID          string              `json:"id"`
	Location    string              `json:"location"`
	Source      string              `json:"source"`
	FetchedAt   time.Time           `json:"fetchedAt"`
	Sort        display.SortKey     `json:"sort"`
	Preferences scoring.Preferences `json:"preferences"`
	Days        []display.Day       `json:"days"`
}

func render(f weather.Forecast, view viewQuery) forecastView {
	opts := view.options()
	return forecastView{
		ID:          f.ID,
		Location:    f.Label,
		Source:      f.Source,
		FetchedAt:   f.FetchedAt,
		Sort:        opts.Sort,
		Preferences: opts.Effective(),
		Days:        display.Build(f.Slots, opts),
	}
}

// viewQuery holds the query parameters that control scoring and ordering.
type viewQuery struct {
	Sort        string `validate:"omitempty,oneof=time wind score temp rain"`
	Temperature bool
	Wind        bool
	Rain        bool
	IgnoreRain  bool
}

func (v *viewQuery) bind(c *fiber.Ctx) error {
	v.Sort = c.Query("sort")

	prefs := scoring.DefaultPreferences()
	var err error
	if v.Temperature, err = parseBool(c, "temperature", prefs.ConsiderTemperature); err != nil {
		return err
	}
	if v.Wind, err = parseBool(c, "wind", prefs.ConsiderWind); err != nil {
		return err
	}
	if v.Rain, err = parseBool(c, "rain", prefs.ConsiderRain); err != nil {
		return err
	}
	if v.IgnoreRain, err = parseBool(c, "ignore_rain", false); err != nil {
		return err
	}
	return nil
}

func (v viewQuery) options() display.Options {
	return display.Options{
		Preferences: scoring.Preferences{
			ConsiderTemperature: v.Temperature,
			ConsiderWind:        v.Wind,
			ConsiderRain:        v.Rain,
		},
		IgnoreRain: v.IgnoreRain,
		Sort:       display.ParseSortKey(v.Sort),
	}
}

// runsQuery holds query parameters for the runs endpoint: either a free-text
// query or a coordinate pair, plus the view parameters.
type runsQuery struct {
	Query    string
	Lat      *float64 `validate:"omitempty,gte=-90,lte=90"`
	Lon      *float64 `validate:"omitempty,gte=-180,lte=180"`
	GeoError int      `validate:"gte=0,lte=3"`
	View     viewQuery
}

func (r *runsQuery) bind(c *fiber.Ctx) error {
	if err := r.View.bind(c); err != nil {
		return err
	}

	if s := c.Query("geo_error"); s != "" {
		code, err := strconv.Atoi(s)
		if err != nil {
			return fmt.Errorf("invalid geo_error: %q", s)
		}
		if code != 0 {
			r.GeoError = code
			return nil
		}
	}

	r.Query = strings.TrimSpace(c.Query("q"))

	latStr, lonStr := c.Query("lat"), c.Query("lon")
	if r.Query == "" && (latStr == "" || lonStr == "") {
		return errors.New("either q or both lat and lon query parameters are required")
	}
	if r.Query != "" {
		return nil
	}

	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		return fmt.Errorf("invalid lat: %q", latStr)
	}
	lon, err := strconv.ParseFloat(lonStr, 64)
	if err != nil {
		return fmt.Errorf("invalid lon: %q", lonStr)
	}
	r.Lat, r.Lon = &lat, &lon
	return nil
}

func parseBool(c *fiber.Ctx, key string, def bool) (bool, error) {
	s := c.Query(key)
	if s == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %q", key, s)
	}
	return b, nil
}
