package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/Jake-Garneau/weather-backend/internal/weather"
)

type AppConfig struct {
	OpenWeatherAPIKey string

	// FetchInterval controls how often we run a fetch cycle for each location.
	FetchInterval time.Duration

	// HTTPTimeout bounds each outbound provider request.
	HTTPTimeout time.Duration

	// Locations to track.
	Locations []weather.Location

	DatabaseDSN string
	Port        string
}

// Load reads configuration from environment with sensible defaults. Locations
// with unparsable coordinates are skipped with a warning rather than failing
// startup.
func Load(log *logrus.Logger) (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.WithError(err).Info("no .env file loaded")
	}
	cfg := &AppConfig{}

	cfg.OpenWeatherAPIKey = os.Getenv("OPENWEATHER_API_KEY")
	if cfg.OpenWeatherAPIKey == "" {
		return nil, fmt.Errorf("OPENWEATHER_API_KEY is required")
	}

	cfg.DatabaseDSN = os.Getenv("DATABASE_DSN")
	if cfg.DatabaseDSN == "" {
		return nil, fmt.Errorf("DATABASE_DSN is required")
	}

	intervalStr := getenvDefault("FETCH_INTERVAL", "5m")
	interval, err := time.ParseDuration(intervalStr)
	if err != nil {
		return nil, fmt.Errorf("invalid FETCH_INTERVAL: %w", err)
	}
	cfg.FetchInterval = interval

	timeoutStr := getenvDefault("HTTP_TIMEOUT", "10s")
	timeout, err := time.ParseDuration(timeoutStr)
	if err != nil {
		return nil, fmt.Errorf("invalid HTTP_TIMEOUT: %w", err)
	}
	cfg.HTTPTimeout = timeout

	cfg.Port = getenvDefault("PORT", "8080")

	locs, err := loadLocations(log)
	if err != nil {
		return nil, err
	}
	if len(locs) == 0 {
		return nil, fmt.Errorf("no usable locations configured")
	}
	cfg.Locations = locs

	return cfg, nil
}

// loadLocations parses the parallel LOCATION_NAMES, LOCATION_LATS, and
// LOCATION_LONS lists. List length mismatch is fatal; a single bad entry is
// skipped.
func loadLocations(log *logrus.Logger) ([]weather.Location, error) {
	names := splitList(os.Getenv("LOCATION_NAMES"))
	lats := splitList(os.Getenv("LOCATION_LATS"))
	lons := splitList(os.Getenv("LOCATION_LONS"))

	if len(names) != len(lats) || len(names) != len(lons) {
		return nil, fmt.Errorf("LOCATION_NAMES, LOCATION_LATS, and LOCATION_LONS must have the same length")
	}

	validate := validator.New()

	var locs []weather.Location
	for i := range names {
		lat, latErr := strconv.ParseFloat(lats[i], 64)
		lon, lonErr := strconv.ParseFloat(lons[i], 64)
		if latErr != nil || lonErr != nil {
			log.WithField("location", names[i]).Warn("skipping location with unparsable coordinates")
			continue
		}
		loc := weather.Location{Name: names[i], Lat: lat, Lon: lon}
		if err := validate.Struct(loc); err != nil {
			log.WithField("location", names[i]).WithError(err).Warn("skipping invalid location")
			continue
		}
		locs = append(locs, loc)
	}
	return locs, nil
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
