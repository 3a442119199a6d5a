package enrich

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/infoshield/infoshield/internal/cache"
	"github.com/infoshield/infoshield/internal/model"
)

func newWeatherServer(t *testing.T, hits *int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/search":
			*hits++
			fmt.Fprint(w, `{"results":[{"latitude":13.0878,"longitude":80.2785}]}`)
		case "/forecast":
			fmt.Fprint(w, `{"current":{"temperature_2m":31.5,"wind_speed_10m":95.0,"weather_code":65}}`)
		default:
			http.NotFound(w, r)
		}
	}))
}

func testEnricher(serverURL string) *WeatherEnricher {
	return NewWeatherEnricher(model.HTTPConfig{
		Timeout:    5 * time.Second,
		UserAgent:  "test",
		WeatherURL: serverURL,
	})
}

func TestWeatherEnricher_Enrich(t *testing.T) {
	hits := 0
	server := newWeatherServer(t, &hits)
	defer server.Close()

	sc, err := testEnricher(server.URL).Enrich(context.Background(), "Chennai")
	if err != nil {
		t.Fatalf("Enrich: %v", err)
	}

	if sc.Conditions != "heavy rain" {
		t.Errorf("conditions = %q, want heavy rain", sc.Conditions)
	}
	if sc.Temperature != 31.5 {
		t.Errorf("temperature = %v, want 31.5", sc.Temperature)
	}
	if len(sc.Alerts) == 0 {
		t.Error("expected wind alert for 95 km/h winds")
	}
}

func TestWeatherEnricher_UnavailableOnServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	_, err := testEnricher(server.URL).Enrich(context.Background(), "Chennai")
	if err == nil {
		t.Fatal("expected error for failing server")
	}
}

func TestCachedEnricher_SecondLookupIsCached(t *testing.T) {
	hits := 0
	server := newWeatherServer(t, &hits)
	defer server.Close()

	cached := NewCachedEnricher(
		testEnricher(server.URL),
		cache.NewMemoryCache(time.Minute, time.Minute),
		time.Minute,
	)

	for i := 0; i < 3; i++ {
		if _, err := cached.Enrich(context.Background(), "Chennai"); err != nil {
			t.Fatalf("Enrich #%d: %v", i+1, err)
		}
	}

	if hits != 1 {
		t.Errorf("geocode hits = %d, want 1 (cache should absorb repeats)", hits)
	}
}
