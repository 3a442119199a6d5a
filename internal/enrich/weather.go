package enrich

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/infoshield/infoshield/internal/model"
	"github.com/infoshield/infoshield/internal/util"
)

const maxResponseBytes = 1 << 20

// WeatherEnricher backs the context capability with an Open-Meteo style
// conditions API: geocode the location, then fetch current conditions.
type WeatherEnricher struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
}

// NewWeatherEnricher creates a weather-backed enricher
func NewWeatherEnricher(cfg model.HTTPConfig) *WeatherEnricher {
	return &WeatherEnricher{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
			Transport: &http.Transport{
				Proxy: util.NewProxyFunc(cfg.HTTPProxy, cfg.HTTPSProxy, cfg.NoProxy),
			},
		},
		baseURL:   cfg.WeatherURL,
		userAgent: cfg.UserAgent,
	}
}

// weatherCode maps WMO weather interpretation codes to condition strings
var weatherCode = map[int]string{
	0: "clear", 1: "mainly clear", 2: "partly cloudy", 3: "overcast",
	45: "fog", 51: "light drizzle", 61: "light rain", 63: "moderate rain",
	65: "heavy rain", 71: "light snow", 75: "heavy snow", 80: "rain showers",
	82: "violent rain showers", 95: "thunderstorm", 96: "thunderstorm with hail",
	99: "thunderstorm with heavy hail",
}

// Enrich geocodes the location and fetches its current conditions.
// All failures map to ErrUnavailable; the pipeline degrades, never aborts.
func (e *WeatherEnricher) Enrich(ctx context.Context, location string) (*model.SituationContext, error) {
	lat, lon, err := e.geocode(ctx, location)
	if err != nil {
		return nil, fmt.Errorf("%w: geocode %q: %v", ErrUnavailable, location, err)
	}

	endpoint := fmt.Sprintf("%s/forecast?latitude=%.4f&longitude=%.4f&current=temperature_2m,wind_speed_10m,weather_code",
		e.baseURL, lat, lon)

	var body struct {
		Current struct {
			Temperature float64 `json:"temperature_2m"`
			WindSpeed   float64 `json:"wind_speed_10m"`
			WeatherCode int     `json:"weather_code"`
		} `json:"current"`
	}
	if err := e.getJSON(ctx, endpoint, &body); err != nil {
		return nil, fmt.Errorf("%w: conditions for %q: %v", ErrUnavailable, location, err)
	}

	conditions := weatherCode[body.Current.WeatherCode]
	if conditions == "" {
		conditions = fmt.Sprintf("weather code %d", body.Current.WeatherCode)
	}

	sc := &model.SituationContext{
		Location:    location,
		Conditions:  conditions,
		Temperature: body.Current.Temperature,
		WindSpeed:   body.Current.WindSpeed,
		ObservedAt:  time.Now().UTC(),
	}

	// Severe conditions become alerts so the report can surface them
	if body.Current.WeatherCode >= 95 {
		sc.Alerts = append(sc.Alerts, "thunderstorm conditions reported")
	}
	if body.Current.WindSpeed >= 90 {
		sc.Alerts = append(sc.Alerts, "damaging winds reported")
	}

	return sc, nil
}

func (e *WeatherEnricher) geocode(ctx context.Context, location string) (lat, lon float64, err error) {
	endpoint := fmt.Sprintf("%s/search?name=%s&count=1", e.geocodeBase(), url.QueryEscape(location))

	var body struct {
		Results []struct {
			Latitude  float64 `json:"latitude"`
			Longitude float64 `json:"longitude"`
		} `json:"results"`
	}
	if err := e.getJSON(ctx, endpoint, &body); err != nil {
		return 0, 0, err
	}
	if len(body.Results) == 0 {
		return 0, 0, fmt.Errorf("no match for location")
	}

	return body.Results[0].Latitude, body.Results[0].Longitude, nil
}

// geocodeBase derives the geocoding endpoint from the configured base URL.
// Open-Meteo serves geocoding from a separate host; test servers serve both.
func (e *WeatherEnricher) geocodeBase() string {
	if e.baseURL == "https://api.open-meteo.com/v1" {
		return "https://geocoding-api.open-meteo.com/v1"
	}
	return e.baseURL
}

func (e *WeatherEnricher) getJSON(ctx context.Context, endpoint string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", e.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}

	return json.Unmarshal(data, out)
}
