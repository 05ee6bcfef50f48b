package upstream

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"

	"github.com/i474232898/api-showcase/internal/logger"
)

var (
	// ErrCircuitOpen is returned without touching the network while the breaker is open.
	ErrCircuitOpen  = errors.New("circuit breaker open")
	errNoHTTPClient = errors.New("http client not configured")
)

// CacheHint is passed to the transport as a Cache-Control request header.
type CacheHint struct {
	noCache bool
	maxAge  time.Duration
}

// NoCache asks intermediaries not to serve a stored response.
func NoCache() CacheHint { return CacheHint{noCache: true} }

// MaxAge accepts a stored response up to ttl old.
func MaxAge(ttl time.Duration) CacheHint { return CacheHint{maxAge: ttl} }

// Header renders the hint. The zero value renders as "".
func (h CacheHint) Header() string {
	switch {
	case h.noCache:
		return "no-cache"
	case h.maxAge > 0:
		return fmt.Sprintf("max-age=%d", int(h.maxAge.Seconds()))
	default:
		return ""
	}
}

// Options configures a single outbound GET.
type Options struct {
	Headers map[string]string
	Cache   CacheHint
}

// Client performs outbound GETs guarded by a circuit breaker. It never
// retries; callers decide whether to call again.
type Client struct {
	name    string
	http    *http.Client
	circuit *gobreaker.CircuitBreaker
	log     zerolog.Logger
}

func NewClient(name string, client *http.Client) *Client {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
	})

	return &Client{
		name:    name,
		http:    client,
		circuit: cb,
		log:     logger.Component("upstream").With().Str("upstream", name).Logger(),
	}
}

func (c *Client) Name() string {
	return c.name
}

// Get issues one GET to rawURL. Any HTTP response, whatever its status, is
// returned to the caller; only transport failures count against the breaker.
// The caller owns resp.Body.
func (c *Client) Get(ctx context.Context, rawURL string, opts Options) (*http.Response, error) {
	if c.http == nil {
		return nil, errNoHTTPClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	for k, v := range opts.Headers {
		req.Header.Set(k, v)
	}
	if cc := opts.Cache.Header(); cc != "" {
		req.Header.Set("Cache-Control", cc)
		if opts.Cache.noCache {
			req.Header.Set("Pragma", "no-cache")
		}
	}

	start := time.Now()
	result, err := c.circuit.Execute(func() (interface{}, error) {
		return c.http.Do(req)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			c.log.Warn().Err(err).Msg("upstream request rejected")
			return nil, fmt.Errorf("%w: %v", ErrCircuitOpen, err)
		}
		c.log.Warn().Err(err).Dur("duration", time.Since(start)).Msg("upstream request failed")
		return nil, fmt.Errorf("%s request: %w", c.name, err)
	}

	resp, ok := result.(*http.Response)
	if !ok {
		return nil, fmt.Errorf("unexpected result type from circuit breaker")
	}

	c.log.Debug().
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("upstream request completed")

	return resp, nil
}
