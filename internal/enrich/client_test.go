package enrich

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/five82/wayfarer/internal/destination"
)

func TestParseBaseURL_DefaultsAndNormalizes(t *testing.T) {
	u, err := parseBaseURL("", defaultNominatimURL)
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.String() != defaultNominatimURL {
		t.Fatalf("url = %q, want %q", u.String(), defaultNominatimURL)
	}

	u, err = parseBaseURL("example.com:1234/path?x=1#frag", defaultNominatimURL)
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.Scheme != "https" || u.Host != "example.com:1234" {
		t.Fatalf("url = %q, want https://example.com:1234", u.String())
	}
	if u.Path != "" || u.RawQuery != "" || u.Fragment != "" {
		t.Fatalf("url not normalized: %q", u.String())
	}
}

func newTestServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	c, err := NewClient(Endpoints{
		NominatimURL:      server.URL,
		OpenMeteoURL:      server.URL,
		UnsplashURL:       server.URL,
		UnsplashAccessKey: "key-123",
		UserAgent:         "wayfarer-test/1.0",
	})
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	return c
}

func TestClient_Geocode(t *testing.T) {
	var gotQuery url.Values
	var gotUserAgent string
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search" {
			http.NotFound(w, r)
			return
		}
		gotQuery = r.URL.Query()
		gotUserAgent = r.Header.Get("User-Agent")
		_ = json.NewEncoder(w).Encode([]nominatimPlace{{DisplayName: "Kyoto", Lat: "35.0116", Lon: "135.7681"}})
	})

	coords, err := c.Geocode(context.Background(), "  Kyoto Japan ")
	if err != nil {
		t.Fatalf("Geocode returned error: %v", err)
	}
	if coords.Lat != 35.0116 || coords.Lng != 135.7681 {
		t.Fatalf("Geocode = %+v, want 35.0116,135.7681", coords)
	}
	if gotQuery.Get("q") != "Kyoto Japan" || gotQuery.Get("format") != "json" || gotQuery.Get("limit") != "1" {
		t.Fatalf("Geocode query = %v, want q/format/limit encoded", gotQuery)
	}
	if gotUserAgent != "wayfarer-test/1.0" {
		t.Fatalf("User-Agent = %q, want wayfarer-test/1.0", gotUserAgent)
	}
}

func TestClient_GeocodeNoMatch(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("[]"))
	})

	_, err := c.Geocode(context.Background(), "Atlantis")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("Geocode error = %v, want ErrNotFound", err)
	}
}

func TestClient_GeocodeBadCoordinates(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"lat":"north","lon":"1"}]`))
	})

	_, err := c.Geocode(context.Background(), "Somewhere")
	if err == nil || !strings.Contains(err.Error(), "parse latitude") {
		t.Fatalf("Geocode error = %v, want parse latitude error", err)
	}
}

func TestClient_GeocodeEmptyQuery(t *testing.T) {
	c, err := NewClient(Endpoints{})
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	if _, err := c.Geocode(context.Background(), "  "); err == nil {
		t.Fatal("Geocode returned nil error for empty query")
	}
}

func TestClient_Weather(t *testing.T) {
	var gotQuery url.Values
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/forecast" {
			http.NotFound(w, r)
			return
		}
		gotQuery = r.URL.Query()
		_, _ = w.Write([]byte(`{
			"latitude": 35.0,
			"longitude": 135.75,
			"timezone": "Asia/Tokyo",
			"timezone_abbreviation": "JST",
			"utc_offset_seconds": 32400,
			"current": {"time": "2026-10-17T18:00", "temperature_2m": 18.4, "relative_humidity_2m": 71.6, "weather_code": 3}
		}`))
	})

	cond, err := c.Weather(context.Background(), destination.Coordinates{Lat: 35.0116, Lng: 135.7681})
	if err != nil {
		t.Fatalf("Weather returned error: %v", err)
	}
	if gotQuery.Get("latitude") != "35.0116" || gotQuery.Get("longitude") != "135.7681" || gotQuery.Get("timezone") != "auto" {
		t.Fatalf("Weather query = %v, want coordinates and timezone=auto", gotQuery)
	}
	if !strings.Contains(gotQuery.Get("current"), "weather_code") {
		t.Fatalf("Weather query current = %q, want weather_code", gotQuery.Get("current"))
	}
	if cond.TemperatureC != 18.4 || cond.Humidity != 72 || cond.Description != "overcast" {
		t.Fatalf("Weather = %+v, want 18.4C 72%% overcast", cond)
	}
	if cond.UTCOffset != 9*time.Hour || cond.Timezone != "Asia/Tokyo" {
		t.Fatalf("Weather offset = %v tz = %q, want 9h Asia/Tokyo", cond.UTCOffset, cond.Timezone)
	}

	now := time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC)
	if got := cond.LocalTime(now).Hour(); got != 18 {
		t.Fatalf("LocalTime hour = %d, want 18", got)
	}
}

func TestClient_WeatherInvalidCoordinates(t *testing.T) {
	c, err := NewClient(Endpoints{})
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	if _, err := c.Weather(context.Background(), destination.Coordinates{Lat: 91}); err == nil {
		t.Fatal("Weather returned nil error for invalid coordinates")
	}
}

func TestClient_ImageWithAccessKey(t *testing.T) {
	var gotAuth string
	var gotQuery url.Values
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search/photos" {
			http.NotFound(w, r)
			return
		}
		gotAuth = r.Header.Get("Authorization")
		gotQuery = r.URL.Query()
		_, _ = w.Write([]byte(`{"results":[{"urls":{"small":"https://img/small.jpg","regular":"https://img/regular.jpg"}}]}`))
	})

	got, err := c.Image(context.Background(), "Kyoto Japan")
	if err != nil {
		t.Fatalf("Image returned error: %v", err)
	}
	if got != "https://img/regular.jpg" {
		t.Fatalf("Image = %q, want regular url", got)
	}
	if gotAuth != "Client-ID key-123" {
		t.Fatalf("Authorization = %q, want Client-ID key-123", gotAuth)
	}
	if gotQuery.Get("query") != "Kyoto Japan" || gotQuery.Get("per_page") != "1" {
		t.Fatalf("Image query = %v, want query and per_page", gotQuery)
	}
}

func TestClient_ImageNoResults(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"results":[]}`))
	})

	_, err := c.Image(context.Background(), "nowhere")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("Image error = %v, want ErrNotFound", err)
	}
}

func TestClient_ImageWithoutKeyUsesFallback(t *testing.T) {
	c, err := NewClient(Endpoints{NominatimURL: "127.0.0.1:1"})
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	got, err := c.Image(context.Background(), "Paris France")
	if err != nil {
		t.Fatalf("Image returned error: %v", err)
	}
	if !strings.Contains(got, "1502602898657-3e91760cbb34") {
		t.Fatalf("Image = %q, want the Paris photo", got)
	}
}

func TestClient_HTTPErrorAndDecodeError(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/search":
			_, _ = w.Write([]byte("{not-json"))
		case "/v1/forecast":
			http.Error(w, "nope", http.StatusInternalServerError)
		default:
			http.NotFound(w, r)
		}
	})

	_, err := c.Geocode(context.Background(), "Kyoto")
	if err == nil || !strings.Contains(err.Error(), "decode response") {
		t.Fatalf("Geocode error = %v, want decode response error", err)
	}

	_, err = c.Weather(context.Background(), destination.Coordinates{Lat: 1, Lng: 1})
	if !errors.Is(err, ErrUnavailable) || !strings.Contains(err.Error(), "returned status 500") {
		t.Fatalf("Weather error = %v, want ErrUnavailable with status 500", err)
	}
}

func TestFallbackImage(t *testing.T) {
	cases := []struct {
		query string
		photo string
	}{
		{"Bali beach", "1507525428034-b723cf961d3e"},
		{"Swiss ALPS", "1464822759023-fed622ff2c3b"},
		{"Kyoto Japan", "1493976040374-85c8e12f0c0e"},
		{"Reykjavik Iceland", defaultPhoto},
	}
	for _, tc := range cases {
		t.Run(tc.query, func(t *testing.T) {
			got := fallbackImage(tc.query)
			if !strings.Contains(got, tc.photo) {
				t.Fatalf("fallbackImage(%q) = %q, want photo %s", tc.query, got, tc.photo)
			}
		})
	}
}

func TestApproximateLocalTime(t *testing.T) {
	now := time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)
	cases := []struct {
		lng  float64
		zone string
		hour int
	}{
		{0, "UTC+0", 12},
		{135.7681, "UTC+9", 21},
		{-74.006, "UTC-5", 7},
		{-112.5, "UTC-7", 5},
		{180, "UTC+12", 0},
	}
	for _, tc := range cases {
		t.Run(tc.zone, func(t *testing.T) {
			got := ApproximateLocalTime(tc.lng, now)
			if got.Zone != tc.zone {
				t.Fatalf("Zone = %q, want %q", got.Zone, tc.zone)
			}
			if got.Time.Hour() != tc.hour {
				t.Fatalf("Hour = %d, want %d", got.Time.Hour(), tc.hour)
			}
			if !got.Approximate {
				t.Fatal("Approximate = false, want true")
			}
		})
	}
}

func TestWeatherDescription(t *testing.T) {
	if got := weatherDescription(0); got != "clear sky" {
		t.Fatalf("weatherDescription(0) = %q", got)
	}
	if got := weatherDescription(63); got != "rain" {
		t.Fatalf("weatherDescription(63) = %q", got)
	}
	if got := weatherDescription(1234); got != "unknown" {
		t.Fatalf("weatherDescription(1234) = %q", got)
	}
}
