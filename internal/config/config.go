package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Environment variable holding the OpenWeatherMap key. The weather lookup
// reads it on every call, so it is exported for the credential func.
const OpenWeatherAPIKeyEnv = "OPENWEATHER_API_KEY"

type AppConfig struct {
	Port        string
	HTTPTimeout time.Duration

	OpenWeatherAPIKey string
	GoogleMapsAPIKey  string
	UnsplashAccessKey string

	// Upstream base URLs. Overridable so the service can be pointed at stubs.
	OpenWeatherBaseURL  string
	ExchangeRateBaseURL string
	GeocodingBaseURL    string
	GitHubBaseURL       string
	UnsplashBaseURL     string

	// Lookup history retention.
	HistoryMaxEntries    int           // per feature (0 = unlimited)
	HistoryMaxAge        time.Duration // 0 = keep forever
	HistoryPruneInterval time.Duration

	LogLevel  string
	LogFormat string
}

// LoadDotEnv copies .env (or the given files) into the process environment
// without overriding variables that are already set. A missing file is
// returned as an error for the caller to log; it is not fatal.
func LoadDotEnv(filenames ...string) error {
	return godotenv.Load(filenames...)
}

// Load reads configuration from environment with sensible defaults. Call
// LoadDotEnv first for .env support.
func Load() (*AppConfig, error) {
	cfg := &AppConfig{}

	cfg.Port = getenvDefault("PORT", "8080")

	timeout, err := getenvDuration("HTTP_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	cfg.HTTPTimeout = timeout

	cfg.OpenWeatherAPIKey = os.Getenv(OpenWeatherAPIKeyEnv)
	cfg.GoogleMapsAPIKey = os.Getenv("GOOGLE_MAPS_API_KEY")
	cfg.UnsplashAccessKey = os.Getenv("UNSPLASH_ACCESS_KEY")

	cfg.OpenWeatherBaseURL = getenvDefault("OPENWEATHER_BASE_URL", "https://api.openweathermap.org")
	cfg.ExchangeRateBaseURL = getenvDefault("EXCHANGE_RATE_BASE_URL", "https://open.exchangerate-api.com")
	cfg.GeocodingBaseURL = getenvDefault("GEOCODING_BASE_URL", "https://maps.googleapis.com")
	cfg.GitHubBaseURL = getenvDefault("GITHUB_BASE_URL", "https://api.github.com")
	cfg.UnsplashBaseURL = getenvDefault("UNSPLASH_BASE_URL", "https://api.unsplash.com")

	cfg.HistoryMaxEntries = getenvInt("HISTORY_MAX_ENTRIES", 10)

	maxAge, err := getenvDuration("HISTORY_MAX_AGE", "24h")
	if err != nil {
		return nil, err
	}
	cfg.HistoryMaxAge = maxAge

	prune, err := getenvDuration("HISTORY_PRUNE_INTERVAL", "15m")
	if err != nil {
		return nil, err
	}
	cfg.HistoryPruneInterval = prune

	cfg.LogLevel = getenvDefault("LOG_LEVEL", "info")
	cfg.LogFormat = getenvDefault("LOG_FORMAT", "console")

	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}

func getenvDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(getenvDefault(key, def))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
