package images

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/i474232898/api-showcase/internal/logger"
	"github.com/i474232898/api-showcase/internal/upstream"
)

// SearchTTL is how stale a search response the transport may serve.
const SearchTTL = time.Hour

const (
	DefaultPage    = 1
	DefaultPerPage = 12

	searchPath = "/search/photos"

	msgQueryRequired = "search keyword required"
	msgBadPaging     = "page must be at least 1 and per_page between 1 and 30"
	msgMissingKey    = "Unsplash API key is not configured; set the UNSPLASH_ACCESS_KEY environment variable"
	msgInvalidKey    = "Unsplash API key is invalid"
	msgRateLimited   = "Unsplash request limit reached, retry later"
	msgFailed        = "failed to fetch images, retry later"
)

var validate = validator.New()

// Service searches Unsplash photos.
type Service struct {
	client    *upstream.Client
	baseURL   string
	accessKey string
	log       zerolog.Logger
}

func NewService(client *upstream.Client, baseURL, accessKey string) *Service {
	return &Service{
		client:    client,
		baseURL:   baseURL,
		accessKey: accessKey,
		log:       logger.Component("images"),
	}
}

// Search runs one page of a photo search.
func (s *Service) Search(ctx context.Context, req Request) Result {
	req.Query = strings.TrimSpace(req.Query)
	if req.Page == 0 {
		req.Page = DefaultPage
	}
	if req.PerPage == 0 {
		req.PerPage = DefaultPerPage
	}

	if req.Query == "" {
		return failed(http.StatusBadRequest, msgQueryRequired)
	}
	if err := validate.Struct(req); err != nil {
		return failed(http.StatusBadRequest, msgBadPaging)
	}
	if s.accessKey == "" {
		return failed(http.StatusInternalServerError, msgMissingKey)
	}

	values := url.Values{}
	values.Set("query", req.Query)
	values.Set("page", strconv.Itoa(req.Page))
	values.Set("per_page", strconv.Itoa(req.PerPage))

	resp, err := s.client.Get(ctx, fmt.Sprintf("%s%s?%s", s.baseURL, searchPath, values.Encode()), upstream.Options{
		Headers: map[string]string{
			"Authorization":  "Client-ID " + s.accessKey,
			"Accept-Version": "v1",
		},
		Cache: upstream.MaxAge(SearchTTL),
	})
	if err != nil {
		s.log.Error().Err(err).Str("query", req.Query).Msg("unsplash request failed")
		return failed(http.StatusInternalServerError, msgFailed)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return failed(http.StatusUnauthorized, msgInvalidKey)
	case resp.StatusCode == http.StatusForbidden:
		return failed(http.StatusForbidden, msgRateLimited)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		s.log.Error().Int("status", resp.StatusCode).Msg("unsplash returned an error")
		return failed(http.StatusInternalServerError, msgFailed)
	}

	var payload searchPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		s.log.Error().Err(err).Msg("decode unsplash response")
		return failed(http.StatusInternalServerError, msgFailed)
	}
	if payload.Results == nil {
		payload.Results = []Image{}
	}

	return Result{
		Success: true,
		Status:  http.StatusOK,
		Data: &Gallery{
			Images:     payload.Results,
			Total:      payload.Total,
			TotalPages: payload.TotalPages,
		},
	}
}

func failed(status int, msg string) Result {
	return Result{Success: false, Error: msg, Status: status}
}
