package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/i474232898/runnability/internal/weather"
	"github.com/sony/gobreaker"
)

// MetOfficeProvider implements weather.ForecastProvider for Met Office DataPoint.
// DataPoint forecasts are per site, so the nearest site to the requested
// coordinates is used.
type MetOfficeProvider struct {
	name    string
	apiKey  string
	baseURL string
	client  *http.Client
	circuit *gobreaker.CircuitBreaker

	mu    sync.Mutex
	sites []metOfficeSite

	now func() time.Time
}

type metOfficeSite struct {
	ID   string
	Name string
	Lat  float64
	Lon  float64
}

func NewMetOfficeProvider(client *http.Client, apiKey string) *MetOfficeProvider {
	return &MetOfficeProvider{
		name:    "metoffice",
		apiKey:  apiKey,
		baseURL: "http://datapoint.metoffice.gov.uk/public/data/val/wxfcs/all/json",
		client:  client,
		circuit: newCircuitBreaker("metoffice"),
		now:     time.Now,
	}
}

func (p *MetOfficeProvider) Name() string {
	return p.name
}

func (p *MetOfficeProvider) FetchForecast(ctx context.Context, coords weather.Coordinates) ([]weather.TimeSlot, error) {
	if p.apiKey == "" {
		return nil, fmt.Errorf("%w: metoffice api key is not configured", weather.ErrNetworkFailure)
	}

	site, err := p.nearestSite(ctx, coords)
	if err != nil {
		return nil, err
	}

	values := url.Values{}
	values.Set("res", "3hourly")
	values.Set("key", p.apiKey)

	u := fmt.Sprintf("%s/%s?%s", p.baseURL, url.PathEscape(site.ID), values.Encode())
	resp, err := doRequest(ctx, p.client, p.circuit, getRequest(u))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var payload weather.MetOfficeForecast
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: decode metoffice forecast: %v", weather.ErrNetworkFailure, err)
	}

	slots := weather.NormalizeMetOffice(payload, p.now())
	if len(slots) == 0 {
		return nil, fmt.Errorf("%w: metoffice forecast for site %s has no reports", weather.ErrNetworkFailure, site.ID)
	}
	return slots, nil
}

// nearestSite loads the site list once and picks the closest site.
func (p *MetOfficeProvider) nearestSite(ctx context.Context, coords weather.Coordinates) (metOfficeSite, error) {
	sites, err := p.siteList(ctx)
	if err != nil {
		return metOfficeSite{}, err
	}
	if len(sites) == 0 {
		return metOfficeSite{}, fmt.Errorf("%w: metoffice site list is empty", weather.ErrNoResultFound)
	}

	best := sites[0]
	bestDist := distanceKm(coords, weather.Coordinates{Lat: best.Lat, Lon: best.Lon})
	for _, s := range sites[1:] {
		if d := distanceKm(coords, weather.Coordinates{Lat: s.Lat, Lon: s.Lon}); d < bestDist {
			best, bestDist = s, d
		}
	}
	return best, nil
}

func (p *MetOfficeProvider) siteList(ctx context.Context) ([]metOfficeSite, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.sites != nil {
		return p.sites, nil
	}

	values := url.Values{}
	values.Set("key", p.apiKey)
	resp, err := doRequest(ctx, p.client, p.circuit, getRequest(p.baseURL+"/sitelist?"+values.Encode()))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var payload struct {
		Locations struct {
			Location []struct {
				ID        string `json:"id"`
				Name      string `json:"name"`
				Latitude  string `json:"latitude"`
				Longitude string `json:"longitude"`
			} `json:"Location"`
		} `json:"Locations"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: decode metoffice site list: %v", weather.ErrNetworkFailure, err)
	}

	sites := make([]metOfficeSite, 0, len(payload.Locations.Location))
	for _, l := range payload.Locations.Location {
		lat, errLat := strconv.ParseFloat(l.Latitude, 64)
		lon, errLon := strconv.ParseFloat(l.Longitude, 64)
		if errLat != nil || errLon != nil {
			continue
		}
		sites = append(sites, metOfficeSite{ID: l.ID, Name: l.Name, Lat: lat, Lon: lon})
	}
	if len(sites) > 0 {
		p.sites = sites
	}
	return sites, nil
}

// distanceKm is the great-circle distance between two points.
func distanceKm(a, b weather.Coordinates) float64 {
	const earthRadiusKm = 6371.0
	rad := func(d float64) float64 { return d * math.Pi / 180 }

	dLat := rad(b.Lat - a.Lat)
	dLon := rad(b.Lon - a.Lon)
	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(rad(a.Lat))*math.Cos(rad(b.Lat))*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusKm * math.Asin(math.Sqrt(h))
}
