package providers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/i474232898/runnability/internal/weather"
)

const metOfficeSiteList = `{"Locations":{"Location":[
  {"id":"3772","name":"Heathrow","latitude":"51.479","longitude":"-0.449"},
  {"id":"3166","name":"Edinburgh Gogarbank","latitude":"55.928","longitude":"-3.343"},
  {"id":"bad","name":"Broken","latitude":"n/a","longitude":"0"}
]}}`

const metOfficeSiteForecast = `{"SiteRep":{"DV":{"dataDate":"2024-07-01T09:00:00Z","Location":{
  "i":"3166","name":"EDINBURGH/GOGARBANK","country":"SCOTLAND",
  "Period":{"type":"Day","value":"2024-07-01Z","Rep":[
    {"D":"SW","F":"12","H":"80","Pp":"10","S":"9","T":"14","V":"GO","W":"7","U":"2","$":"540"},
    {"D":"W","F":"14","H":"70","Pp":"40","S":"11","T":"16","V":"VG","W":"12","U":"4","$":"720"}
  ]}}}}}`

func TestMetOfficeProviderUsesNearestSite(t *testing.T) {
	var siteListCalls int32
	mux := http.NewServeMux()
	mux.HandleFunc("/sitelist", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&siteListCalls, 1)
		_, _ = w.Write([]byte(metOfficeSiteList))
	})
	// Only the Edinburgh site is served; any other site id 404s.
	mux.HandleFunc("/3166", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("res") != "3hourly" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		_, _ = w.Write([]byte(metOfficeSiteForecast))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	p := NewMetOfficeProvider(srv.Client(), "k")
	p.baseURL = srv.URL
	p.now = func() time.Time { return time.Date(2024, 7, 1, 10, 0, 0, 0, time.UTC) }

	edinburgh := weather.Coordinates{Lat: 55.95, Lon: -3.19}
	for i := 0; i < 2; i++ {
		slots, err := p.FetchForecast(context.Background(), edinburgh)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(slots) != 2 {
			t.Fatalf("expected current + 1 future report, got %d", len(slots))
		}
		if slots[0].Temperature != 14 || slots[1].Temperature != 16 {
			t.Fatalf("unexpected temperatures %.0f, %.0f", slots[0].Temperature, slots[1].Temperature)
		}
	}
	if n := atomic.LoadInt32(&siteListCalls); n != 1 {
		t.Fatalf("expected site list to be fetched once, got %d", n)
	}
}

func TestMetOfficeProviderEmptySiteListIsNotCached(t *testing.T) {
	var siteListCalls int32
	mux := http.NewServeMux()
	mux.HandleFunc("/sitelist", func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&siteListCalls, 1) == 1 {
			_, _ = w.Write([]byte(`{"Locations":{"Location":[]}}`))
			return
		}
		_, _ = w.Write([]byte(metOfficeSiteList))
	})
	mux.HandleFunc("/3166", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(metOfficeSiteForecast))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	p := NewMetOfficeProvider(srv.Client(), "k")
	p.baseURL = srv.URL
	p.now = func() time.Time { return time.Date(2024, 7, 1, 10, 0, 0, 0, time.UTC) }

	edinburgh := weather.Coordinates{Lat: 55.95, Lon: -3.19}
	if _, err := p.FetchForecast(context.Background(), edinburgh); !errors.Is(err, weather.ErrNoResultFound) {
		t.Fatalf("expected ErrNoResultFound for an empty site list, got %v", err)
	}
	if _, err := p.FetchForecast(context.Background(), edinburgh); err != nil {
		t.Fatalf("expected the site list to be fetched again, got %v", err)
	}
	if n := atomic.LoadInt32(&siteListCalls); n != 2 {
		t.Fatalf("expected two site list requests, got %d", n)
	}
}

func TestMetOfficeProviderMissingKey(t *testing.T) {
	p := NewMetOfficeProvider(http.DefaultClient, "")
	_, err := p.FetchForecast(context.Background(), weather.Coordinates{})
	if !errors.Is(err, weather.ErrNetworkFailure) {
		t.Fatalf("expected ErrNetworkFailure without api key, got %v", err)
	}
}

func TestDistanceKm(t *testing.T) {
	london := weather.Coordinates{Lat: 51.5074, Lon: -0.1278}
	paris := weather.Coordinates{Lat: 48.8566, Lon: 2.3522}

	d := distanceKm(london, paris)
	if d < 330 || d > 350 {
		t.Fatalf("expected roughly 344km, got %.1f", d)
	}
	if distanceKm(london, london) != 0 {
		t.Fatalf("expected zero distance to self")
	}
}
