package geocoding

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/rs/zerolog"

	"github.com/i474232898/api-showcase/internal/logger"
	"github.com/i474232898/api-showcase/internal/upstream"
)

const (
	geocodePath = "/maps/api/geocode/json"

	msgAddressRequired = "address required"
	msgMissingAPIKey   = "geocoding API key is not configured; contact the administrator"
	msgNotFound        = "no place found for that address; try another one"
	msgDenied          = "geocoding request denied; check the API key"
	msgFailed          = "failed to look up the address, retry later"
)

// Service resolves addresses through the Google Geocoding API.
type Service struct {
	client  *upstream.Client
	baseURL string
	apiKey  string
	log     zerolog.Logger
}

func NewService(client *upstream.Client, baseURL, apiKey string) *Service {
	return &Service{
		client:  client,
		baseURL: baseURL,
		apiKey:  apiKey,
		log:     logger.Component("geocoding"),
	}
}

// Geocode returns the first match for address.
func (s *Service) Geocode(ctx context.Context, address string) Result {
	address = strings.TrimSpace(address)
	if address == "" {
		return failed(http.StatusBadRequest, msgAddressRequired)
	}
	if s.apiKey == "" {
		s.log.Error().Msg("google maps api key is not configured")
		return failed(http.StatusInternalServerError, msgMissingAPIKey)
	}

	payload, err := s.fetch(ctx, address)
	if err != nil {
		s.log.Error().Err(err).Msg("geocoding request failed")
		return failed(http.StatusInternalServerError, msgFailed)
	}

	switch payload.Status {
	case "OK":
	case "ZERO_RESULTS":
		return failed(http.StatusOK, msgNotFound)
	case "REQUEST_DENIED":
		s.log.Error().Str("detail", payload.ErrorMessage).Msg("geocoding request denied")
		return failed(http.StatusForbidden, msgDenied)
	default:
		s.log.Error().Str("status", payload.Status).Str("detail", payload.ErrorMessage).Msg("geocoding error")
		return failed(http.StatusOK, fmt.Sprintf("geocoding error: %s", payload.Status))
	}
	if len(payload.Results) == 0 {
		return failed(http.StatusOK, msgNotFound)
	}

	first := payload.Results[0]
	components := make([]AddressComponent, 0, len(first.AddressComponents))
	for _, c := range first.AddressComponents {
		components = append(components, AddressComponent{
			LongName:  c.LongName,
			ShortName: c.ShortName,
			Types:     c.Types,
		})
	}

	return Result{
		Success: true,
		Status:  http.StatusOK,
		Data: &Place{
			Lat:               first.Geometry.Location.Lat,
			Lng:               first.Geometry.Location.Lng,
			FormattedAddress:  first.FormattedAddress,
			PlaceID:           first.PlaceID,
			AddressComponents: components,
		},
	}
}

func (s *Service) fetch(ctx context.Context, address string) (*geocodePayload, error) {
	values := url.Values{}
	values.Set("address", address)
	values.Set("key", s.apiKey)
	values.Set("language", "ja")

	u := fmt.Sprintf("%s%s?%s", s.baseURL, geocodePath, values.Encode())
	resp, err := s.client.Get(ctx, u, upstream.Options{})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("geocoding api returned %d", resp.StatusCode)
	}

	var payload geocodePayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode geocoding response: %w", err)
	}
	return &payload, nil
}

func failed(status int, msg string) Result {
	return Result{Success: false, Error: msg, Status: status}
}
