package enrich

import (
	"fmt"
	"math"
	"time"
)

// nominatimPlace mirrors one element of Nominatim's /search response.
// Coordinates arrive as strings.
type nominatimPlace struct {
	DisplayName string `json:"display_name"`
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
}

// openMeteoForecast mirrors the subset of /v1/forecast we request.
type openMeteoForecast struct {
	Latitude         float64 `json:"latitude"`
	Longitude        float64 `json:"longitude"`
	Timezone         string  `json:"timezone"`
	TimezoneAbbrev   string  `json:"timezone_abbreviation"`
	UTCOffsetSeconds int     `json:"utc_offset_seconds"`
	Current          struct {
		Time        string  `json:"time"`
		Temperature float64 `json:"temperature_2m"`
		Humidity    float64 `json:"relative_humidity_2m"`
		WeatherCode int     `json:"weather_code"`
	} `json:"current"`
}

// unsplashSearch mirrors /search/photos.
type unsplashSearch struct {
	Results []struct {
		URLs map[string]string `json:"urls"`
	} `json:"results"`
}

// Conditions is the current weather and clock at a destination.
type Conditions struct {
	TemperatureC float64
	Humidity     int
	Code         int
	Description  string
	Timezone     string
	UTCOffset    time.Duration
}

// LocalTime converts now to the destination's wall clock.
func (c Conditions) LocalTime(now time.Time) time.Time {
	name := c.Timezone
	if name == "" {
		name = formatOffset(c.UTCOffset)
	}
	return now.In(time.FixedZone(name, int(c.UTCOffset.Seconds())))
}

// LocalClock is a destination's time of day, exact or estimated.
type LocalClock struct {
	Time        time.Time
	Zone        string
	Approximate bool
}

// ApproximateLocalTime estimates local time from longitude alone: one hour
// per 15 degrees, rounded. Used when no timezone data is available.
func ApproximateLocalTime(lng float64, now time.Time) LocalClock {
	hours := int(math.Floor(lng/15 + 0.5))
	offset := time.Duration(hours) * time.Hour
	zone := formatOffset(offset)
	return LocalClock{
		Time:        now.In(time.FixedZone(zone, int(offset.Seconds()))),
		Zone:        zone,
		Approximate: true,
	}
}

func formatOffset(offset time.Duration) string {
	hours := int(offset.Hours())
	if hours >= 0 {
		return fmt.Sprintf("UTC+%d", hours)
	}
	return fmt.Sprintf("UTC%d", hours)
}

// weatherDescription maps WMO weather interpretation codes to text.
func weatherDescription(code int) string {
	switch code {
	case 0:
		return "clear sky"
	case 1:
		return "mainly clear"
	case 2:
		return "partly cloudy"
	case 3:
		return "overcast"
	case 45, 48:
		return "fog"
	case 51, 53, 55:
		return "drizzle"
	case 56, 57:
		return "freezing drizzle"
	case 61, 63, 65:
		return "rain"
	case 66, 67:
		return "freezing rain"
	case 71, 73, 75:
		return "snow"
	case 77:
		return "snow grains"
	case 80, 81, 82:
		return "rain showers"
	case 85, 86:
		return "snow showers"
	case 95:
		return "thunderstorm"
	case 96, 99:
		return "thunderstorm with hail"
	default:
		return "unknown"
	}
}
