package upstream

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheHintHeader(t *testing.T) {
	assert.Equal(t, "no-cache", NoCache().Header())
	assert.Equal(t, "max-age=3600", MaxAge(time.Hour).Header())
	assert.Equal(t, "max-age=300", MaxAge(5*time.Minute).Header())
	assert.Equal(t, "", CacheHint{}.Header())
}

func TestGetSendsHeadersAndPassesThroughErrorStatus(t *testing.T) {
	var got http.Header
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClient("test", srv.Client())
	resp, err := c.Get(context.Background(), srv.URL, Options{
		Headers: map[string]string{"Accept": "application/json"},
		Cache:   NoCache(),
	})
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "application/json", got.Get("Accept"))
	assert.Equal(t, "no-cache", got.Get("Cache-Control"))
	assert.Equal(t, "no-cache", got.Get("Pragma"))
}

func TestGetTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	c := NewClient("test", &http.Client{Timeout: time.Second})
	_, err := c.Get(context.Background(), url, Options{})
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrCircuitOpen))
}

func TestGetOpensCircuitAfterRepeatedFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	c := NewClient("test", &http.Client{Timeout: time.Second})
	// gobreaker's default trips after more than five consecutive failures.
	for i := 0; i < 6; i++ {
		_, _ = c.Get(context.Background(), url, Options{})
	}

	_, err := c.Get(context.Background(), url, Options{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCircuitOpen)
}

func TestGetWithoutHTTPClient(t *testing.T) {
	c := NewClient("test", nil)
	_, err := c.Get(context.Background(), "http://example.invalid", Options{})
	assert.ErrorIs(t, err, errNoHTTPClient)
}
