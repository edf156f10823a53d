package weather

import (
	"encoding/json"
	"testing"
	"time"
)

const metOfficeFixture = `{
  "SiteRep": {
    "DV": {
      "dataDate": "2024-01-10T09:00:00Z",
      "type": "Forecast",
      "Location": {
        "i": "3772", "name": "HEATHROW", "country": "ENGLAND",
        "Period": [
          {"type": "Day", "value": "2024-01-10Z", "Rep": [
            {"D": "SW", "F": "2", "H": "85", "Pp": "40", "S": "11", "T": "5", "V": "GO", "W": "7", "U": "1", "$": "540"},
            {"D": "WSW", "F": "4", "H": "80", "Pp": "20", "S": "9", "T": "7", "V": "VG", "W": "3", "U": "1", "$": "720"},
            {"D": "W", "F": "3", "H": "90", "Pp": "60", "S": "14", "T": "6", "V": "ZZ", "W": "12", "U": "0", "$": "900"}
          ]},
          {"type": "Day", "value": "2024-01-11Z", "Rep":
            {"D": "N", "F": "-1", "H": "95", "Pp": "5", "S": "3", "T": "1", "V": "PO", "W": "6", "U": "0", "$": "0"}
          }
        ]
      }
    }
  }
}`

func decodeMetOffice(t *testing.T) MetOfficeForecast {
	t.Helper()
	var resp MetOfficeForecast
	if err := json.Unmarshal([]byte(metOfficeFixture), &resp); err != nil {
		t.Fatalf("decode fixture: %v", err)
	}
	return resp
}

func TestVisibilityKm(t *testing.T) {
	tests := map[string]float64{
		"UN": 0, "VP": 0.1, "PO": 1, "MO": 4, "GO": 10, "VG": 20, "EX": 40,
		"vg": 20, "ZZ": 0, "": 0,
	}
	for code, want := range tests {
		if got := VisibilityKm(code); got != want {
			t.Errorf("VisibilityKm(%q) = %v, want %v", code, got, want)
		}
	}
}

func TestCompassDegrees(t *testing.T) {
	tests := map[string]int{"N": 0, "E": 90, "SW": 225, "nnw": 337, "??": 0}
	for code, want := range tests {
		if got := CompassDegrees(code); got != want {
			t.Errorf("CompassDegrees(%q) = %d, want %d", code, got, want)
		}
	}
}

func TestNormalizeMetOffice(t *testing.T) {
	resp := decodeMetOffice(t)
	// 10:30 UTC (GMT in January): the 09:00 report covers now.
	now := time.Date(2024, 1, 10, 10, 30, 0, 0, time.UTC)

	slots := NormalizeMetOffice(resp, now)
	if len(slots) != 4 {
		t.Fatalf("expected current + 3 future reports, got %d", len(slots))
	}

	cur := slots[0]
	if cur.Time != "10:30" || cur.Date != "2024-01-10" || !cur.Timestamp.Equal(now) {
		t.Fatalf("unexpected current slot %s %s %v", cur.Date, cur.Time, cur.Timestamp)
	}
	if cur.Temperature != 5 || cur.Humidity != 85 || cur.Precipitation != 40 || cur.WindDirection != 225 {
		t.Fatalf("current slot should use the 09:00 report: %+v", cur)
	}
	if cur.Visibility != 10 || cur.Description != "Cloudy" {
		t.Fatalf("unexpected visibility/description %v %q", cur.Visibility, cur.Description)
	}

	if slots[1].Time != "12:00" || slots[1].Visibility != 20 {
		t.Fatalf("unexpected second slot %+v", slots[1])
	}
	if slots[2].Visibility != 0 {
		t.Fatalf("unrecognized visibility code should be 0 km, got %v", slots[2].Visibility)
	}
	if slots[3].Date != "2024-01-11" || slots[3].Time != "00:00" || slots[3].FeelsLike != -1 {
		t.Fatalf("single-object Rep not decoded: %+v", slots[3])
	}
}

func TestNormalizeMetOfficeBeforeFirstReport(t *testing.T) {
	resp := decodeMetOffice(t)
	now := time.Date(2024, 1, 10, 6, 0, 0, 0, time.UTC)

	slots := NormalizeMetOffice(resp, now)
	if len(slots) != 5 {
		t.Fatalf("expected current + 4 reports, got %d", len(slots))
	}
	if slots[0].Temperature != 5 || slots[0].Time != "06:00" {
		t.Fatalf("expected first report as current, got %+v", slots[0])
	}
}

func TestNormalizeMetOfficeEmpty(t *testing.T) {
	if slots := NormalizeMetOffice(MetOfficeForecast{}, time.Now()); slots != nil {
		t.Fatalf("expected no slots, got %d", len(slots))
	}
}
