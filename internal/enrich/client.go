package enrich

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/five82/wayfarer/internal/destination"
)

var (
	// ErrNotFound means the service answered but had no match.
	ErrNotFound = errors.New("no match")
	// ErrUnavailable means the service could not be reached or refused the request.
	ErrUnavailable = errors.New("service unavailable")
)

// Lookup defines the enrichment calls the UI makes.
// This interface is implemented by *Client and can be used for testing.
type Lookup interface {
	Geocode(ctx context.Context, query string) (destination.Coordinates, error)
	Weather(ctx context.Context, at destination.Coordinates) (Conditions, error)
	Image(ctx context.Context, query string) (string, error)
}

// Ensure Client implements Lookup at compile time.
var _ Lookup = (*Client)(nil)

// Endpoints configures the services a Client talks to.
type Endpoints struct {
	NominatimURL      string
	OpenMeteoURL      string
	UnsplashURL       string
	UnsplashAccessKey string
	UserAgent         string
}

// Client talks to the geocoding, weather and image services.
type Client struct {
	nominatim   *url.URL
	openMeteo   *url.URL
	unsplash    *url.URL
	unsplashKey string
	http        *http.Client
	userAgent   string
}

const (
	defaultNominatimURL = "https://nominatim.openstreetmap.org"
	defaultOpenMeteoURL = "https://api.open-meteo.com"
	defaultUnsplashURL  = "https://api.unsplash.com"
	defaultUserAgent    = "wayfarer/0.1"
	requestTimeout      = 10 * time.Second
)

// NewClient builds a Client, filling unset endpoints with the public services.
func NewClient(ep Endpoints) (*Client, error) {
	nominatim, err := parseBaseURL(ep.NominatimURL, defaultNominatimURL)
	if err != nil {
		return nil, err
	}
	openMeteo, err := parseBaseURL(ep.OpenMeteoURL, defaultOpenMeteoURL)
	if err != nil {
		return nil, err
	}
	unsplash, err := parseBaseURL(ep.UnsplashURL, defaultUnsplashURL)
	if err != nil {
		return nil, err
	}
	ua := strings.TrimSpace(ep.UserAgent)
	if ua == "" {
		ua = defaultUserAgent
	}
	return &Client{
		nominatim:   nominatim,
		openMeteo:   openMeteo,
		unsplash:    unsplash,
		unsplashKey: strings.TrimSpace(ep.UnsplashAccessKey),
		http: &http.Client{
			Timeout: requestTimeout,
		},
		userAgent: ua,
	}, nil
}

// Geocode resolves a free-text place name to coordinates.
func (c *Client) Geocode(ctx context.Context, query string) (destination.Coordinates, error) {
	if c == nil {
		return destination.Coordinates{}, fmt.Errorf("client is nil")
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return destination.Coordinates{}, fmt.Errorf("query is empty")
	}

	values := url.Values{}
	values.Set("q", query)
	values.Set("format", "json")
	values.Set("limit", "1")
	rel := &url.URL{Path: "/search", RawQuery: values.Encode()}

	var places []nominatimPlace
	if err := c.get(ctx, c.nominatim, rel, nil, &places); err != nil {
		return destination.Coordinates{}, err
	}
	if len(places) == 0 {
		return destination.Coordinates{}, fmt.Errorf("geocode %q: %w", query, ErrNotFound)
	}

	lat, err := strconv.ParseFloat(strings.TrimSpace(places[0].Lat), 64)
	if err != nil {
		return destination.Coordinates{}, fmt.Errorf("parse latitude %q: %w", places[0].Lat, err)
	}
	lng, err := strconv.ParseFloat(strings.TrimSpace(places[0].Lon), 64)
	if err != nil {
		return destination.Coordinates{}, fmt.Errorf("parse longitude %q: %w", places[0].Lon, err)
	}
	coords := destination.Coordinates{Lat: lat, Lng: lng}
	if !coords.Valid() {
		return destination.Coordinates{}, fmt.Errorf("geocode %q returned out-of-range coordinates", query)
	}
	return coords, nil
}

// Weather fetches current conditions and the timezone offset at a point.
func (c *Client) Weather(ctx context.Context, at destination.Coordinates) (Conditions, error) {
	if c == nil {
		return Conditions{}, fmt.Errorf("client is nil")
	}
	if !at.Valid() {
		return Conditions{}, fmt.Errorf("invalid coordinates %v,%v", at.Lat, at.Lng)
	}

	values := url.Values{}
	values.Set("latitude", strconv.FormatFloat(at.Lat, 'f', -1, 64))
	values.Set("longitude", strconv.FormatFloat(at.Lng, 'f', -1, 64))
	values.Set("current", "temperature_2m,relative_humidity_2m,weather_code")
	values.Set("timezone", "auto")
	rel := &url.URL{Path: "/v1/forecast", RawQuery: values.Encode()}

	var payload openMeteoForecast
	if err := c.get(ctx, c.openMeteo, rel, nil, &payload); err != nil {
		return Conditions{}, err
	}
	return Conditions{
		TemperatureC: payload.Current.Temperature,
		Humidity:     int(payload.Current.Humidity + 0.5),
		Code:         payload.Current.WeatherCode,
		Description:  weatherDescription(payload.Current.WeatherCode),
		Timezone:     payload.Timezone,
		UTCOffset:    time.Duration(payload.UTCOffsetSeconds) * time.Second,
	}, nil
}

// Image returns a representative photo URL for query. With an Unsplash
// access key it searches Unsplash; without one it picks from a fixed set of
// travel photos by keyword.
func (c *Client) Image(ctx context.Context, query string) (string, error) {
	if c == nil {
		return "", fmt.Errorf("client is nil")
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return "", fmt.Errorf("query is empty")
	}
	if c.unsplashKey == "" {
		return fallbackImage(query), nil
	}

	values := url.Values{}
	values.Set("query", query)
	values.Set("per_page", "1")
	values.Set("orientation", "landscape")
	rel := &url.URL{Path: "/search/photos", RawQuery: values.Encode()}
	headers := http.Header{}
	headers.Set("Authorization", "Client-ID "+c.unsplashKey)

	var payload unsplashSearch
	if err := c.get(ctx, c.unsplash, rel, headers, &payload); err != nil {
		return "", err
	}
	for _, result := range payload.Results {
		if u := result.URLs["regular"]; u != "" {
			return u, nil
		}
		if u := result.URLs["small"]; u != "" {
			return u, nil
		}
	}
	return "", fmt.Errorf("image %q: %w", query, ErrNotFound)
}

func (c *Client) get(ctx context.Context, base *url.URL, rel *url.URL, headers http.Header, dest any) error {
	reqURL := base.ResolveReference(rel)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	for key, vals := range headers {
		for _, v := range vals {
			req.Header.Add(key, v)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w: %w", ErrUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("%w: %s returned status %d", ErrUnavailable, rel.Path, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func parseBaseURL(raw, fallback string) (*url.URL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		trimmed = fallback
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "https://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse endpoint %q: %w", raw, err)
	}
	u.Path = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
