package github

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/i474232898/api-showcase/internal/common"
	"github.com/i474232898/api-showcase/internal/logger"
	"github.com/i474232898/api-showcase/internal/upstream"
)

// ProfileTTL is how stale a profile response the transport may serve.
const ProfileTTL = 5 * time.Minute

const (
	recentRepos = 10
	// maxBodyBytes caps one user or repository-list response.
	maxBodyBytes = 1 << 20

	msgUsernameRequired = "username required"
	msgUserNotFound     = "user not found"
	msgRateLimited      = "GitHub API rate limit reached, retry later"
	msgFailed           = "GitHub API call failed, retry later"
)

// Service fetches a public GitHub profile and its most recently updated
// repositories. No token is sent.
type Service struct {
	client  *upstream.Client
	baseURL string
	log     zerolog.Logger
}

func NewService(client *upstream.Client, baseURL string) *Service {
	return &Service{
		client:  client,
		baseURL: baseURL,
		log:     logger.Component("github"),
	}
}

// fetched is one of the two concurrent GETs.
type fetched struct {
	status int
	body   []byte
	err    error
}

// Profile fetches the user and their repositories concurrently.
func (s *Service) Profile(ctx context.Context, username string) Result {
	username = strings.TrimSpace(username)
	if username == "" {
		return failed(http.StatusBadRequest, msgUsernameRequired)
	}

	escaped := url.PathEscape(username)
	userURL := fmt.Sprintf("%s/users/%s", s.baseURL, escaped)
	reposURL := fmt.Sprintf("%s/users/%s/repos?sort=updated&per_page=%d", s.baseURL, escaped, recentRepos)

	var (
		wg          sync.WaitGroup
		user, repos fetched
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		user = s.get(ctx, userURL)
	}()
	go func() {
		defer wg.Done()
		repos = s.get(ctx, reposURL)
	}()
	wg.Wait()

	if user.err == nil && user.status == http.StatusNotFound {
		return failed(http.StatusOK, msgUserNotFound)
	}
	for _, f := range []fetched{user, repos} {
		if f.err != nil {
			s.log.Error().Err(f.err).Str("username", username).Msg("github request failed")
			return failed(http.StatusInternalServerError, msgFailed)
		}
		if f.status == http.StatusForbidden && common.HasAny(strings.ToLower(string(f.body)), "rate limit") {
			return failed(http.StatusInternalServerError, msgRateLimited)
		}
		if f.status < 200 || f.status >= 300 {
			s.log.Error().Int("user_status", user.status).Int("repos_status", repos.status).Msg("github returned an error")
			return failed(http.StatusInternalServerError, msgFailed)
		}
	}

	profile := &Profile{}
	if err := json.Unmarshal(user.body, &profile.User); err != nil {
		s.log.Error().Err(err).Msg("decode github user")
		return failed(http.StatusInternalServerError, msgFailed)
	}
	if err := json.Unmarshal(repos.body, &profile.Repositories); err != nil {
		s.log.Error().Err(err).Msg("decode github repositories")
		return failed(http.StatusInternalServerError, msgFailed)
	}

	return Result{Success: true, Status: http.StatusOK, Data: profile}
}

func (s *Service) get(ctx context.Context, rawURL string) fetched {
	resp, err := s.client.Get(ctx, rawURL, upstream.Options{
		Headers: map[string]string{"Accept": "application/vnd.github.v3+json"},
		Cache:   upstream.MaxAge(ProfileTTL),
	})
	if err != nil {
		return fetched{err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes+1))
	if err != nil {
		return fetched{err: fmt.Errorf("read github response: %w", err)}
	}
	if len(body) > maxBodyBytes {
		return fetched{err: fmt.Errorf("github response exceeds %d bytes", maxBodyBytes)}
	}
	return fetched{status: resp.StatusCode, body: body}
}

func failed(status int, msg string) Result {
	return Result{Success: false, Error: msg, Status: status}
}
