package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"os"

	"github.com/rs/zerolog"

	"github.com/i474232898/api-showcase/internal/logger"
	"github.com/i474232898/api-showcase/internal/upstream"
)

const (
	currentWeatherPath = "/data/2.5/weather"

	msgMissingAPIKey = "missing API credential: set the OPENWEATHER_API_KEY environment variable"
	msgNetwork       = "network error, retry later"
	msgMalformed     = "malformed weather data"
	msgIncomplete    = "incomplete weather data"
	msgUpstream      = "failed to fetch weather data"
)

// CredentialFunc returns the OpenWeatherMap key, or "" when none is set.
type CredentialFunc func() string

// EnvCredential reads the key from the named environment variable on every
// call, so a key exported after start-up is picked up.
func EnvCredential(name string) CredentialFunc {
	return func() string { return os.Getenv(name) }
}

// Service resolves a free-text city name into current weather. It holds no
// per-request state and is safe for concurrent use.
type Service struct {
	client     *upstream.Client
	baseURL    string
	credential CredentialFunc
	log        zerolog.Logger
}

// NewService creates a new Service. baseURL is the OpenWeatherMap origin,
// e.g. https://api.openweathermap.org.
func NewService(client *upstream.Client, baseURL string, credential CredentialFunc) *Service {
	return &Service{
		client:     client,
		baseURL:    baseURL,
		credential: credential,
		log:        logger.Component("weather"),
	}
}

// Lookup validates rawCity, translates a localized name to English, asks
// OpenWeatherMap for the current weather and reshapes it for display.
// Every failure is reported in the result; Lookup never retries.
func (s *Service) Lookup(ctx context.Context, rawCity string) LookupResult {
	city := sanitizeCityName(rawCity)
	if msg := validateCityName(city); msg != "" {
		return lookupFailed(KindValidation, msg)
	}

	apiKey := ""
	if s.credential != nil {
		apiKey = s.credential()
	}
	if apiKey == "" {
		return lookupFailed(KindConfig, msgMissingAPIKey)
	}

	q := weatherQuery{City: NormalizeCityName(city), APIKey: apiKey}
	s.log.Debug().Str("input", city).Str("query", q.City).Msg("weather lookup")

	resp, err := s.client.Get(ctx, s.buildURL(q), upstream.Options{Cache: upstream.NoCache()})
	if err != nil {
		s.log.Error().Err(err).Str("query", q.City).Msg("weather request failed")
		return lookupFailed(KindNetwork, msgNetwork)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return lookupFailed(KindUpstream, upstreamErrorMessage(resp))
	}

	var payload currentWeatherPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil || !payload.wellFormed() {
		return lookupFailed(KindMalformed, msgMalformed)
	}
	if len(*payload.Weather) == 0 {
		return lookupFailed(KindIncomplete, msgIncomplete)
	}

	return lookupOK(toDisplay(&payload))
}

func (s *Service) buildURL(q weatherQuery) string {
	values := url.Values{}
	values.Set("q", q.City)
	values.Set("appid", q.APIKey)
	values.Set("units", "metric")
	values.Set("lang", "ja")

	return fmt.Sprintf("%s%s?%s", s.baseURL, currentWeatherPath, values.Encode())
}

// upstreamErrorMessage surfaces OpenWeatherMap's own message when the body
// carries one, and a status-coded fallback otherwise.
func upstreamErrorMessage(resp *http.Response) string {
	var e errorPayload
	if err := json.NewDecoder(resp.Body).Decode(&e); err == nil && e.Message != nil && e.Weather == nil {
		if *e.Message != "" {
			return *e.Message
		}
		return msgUpstream
	}
	return fmt.Sprintf("%s (status: %d)", msgUpstream, resp.StatusCode)
}

func toDisplay(p *currentWeatherPayload) WeatherDisplay {
	first := (*p.Weather)[0]
	return WeatherDisplay{
		City:        p.Name,
		Country:     p.Sys.Country,
		Temperature: roundToInt(*p.Main.Temp),
		FeelsLike:   roundToInt(*p.Main.FeelsLike),
		Description: first.Description,
		Humidity:    roundToInt(*p.Main.Humidity),
		WindSpeed:   roundToTenth(*p.Wind.Speed),
		Icon:        first.Icon,
		Timestamp:   p.Dt,
		Timezone:    p.Timezone,
	}
}

// roundToInt rounds half away from zero: 15.5 -> 16, -15.5 -> -16.
func roundToInt(v float64) int {
	return int(math.Round(v))
}

// roundToTenth keeps one decimal place: 3.45 -> 3.5.
func roundToTenth(v float64) float64 {
	return math.Round(v*10) / 10
}
