package httpapi

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/api-showcase/internal/currency"
	"github.com/i474232898/api-showcase/internal/geocoding"
	"github.com/i474232898/api-showcase/internal/github"
	"github.com/i474232898/api-showcase/internal/history"
	"github.com/i474232898/api-showcase/internal/images"
	"github.com/i474232898/api-showcase/internal/upstream"
	"github.com/i474232898/api-showcase/internal/weather"
)

// fakeUpstreams serves every third-party API the routes call.
func fakeUpstreams(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/data/2.5/weather", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("q") != "Tokyo" {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"cod":"404","message":"city not found"}`))
			return
		}
		_, _ = w.Write([]byte(`{"weather":[{"description":"晴れ","icon":"01d"}],` +
			`"main":{"temp":15.5,"feels_like":14.3,"humidity":60},"wind":{"speed":3.45},` +
			`"sys":{"country":"JP"},"name":"Tokyo","dt":1699776000,"timezone":32400}`))
	})
	mux.HandleFunc("/v6/latest/USD", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"result":"success","time_last_update_utc":"now","rates":{"JPY":150}}`))
	})
	mux.HandleFunc("/maps/api/geocode/json", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"OK","results":[{"formatted_address":"Shibuya, Tokyo","place_id":"p1",` +
			`"geometry":{"location":{"lat":35.66,"lng":139.70}},"address_components":[]}]}`))
	})
	mux.HandleFunc("/users/octocat", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"login":"octocat","public_repos":8}`))
	})
	mux.HandleFunc("/users/octocat/repos", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	})
	mux.HandleFunc("/search/photos", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"total":1,"total_pages":1,"results":[{"id":"img1"}]}`))
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newTestApp(t *testing.T, weatherKey string) (*fiber.App, *history.MemoryStore) {
	t.Helper()
	srv := fakeUpstreams(t)
	client := &http.Client{Timeout: 2 * time.Second}
	store := history.NewMemoryStore(10, time.Hour)

	app := fiber.New()
	RegisterRoutes(app, Services{
		Weather:   weather.NewService(upstream.NewClient("openweathermap", client), srv.URL, func() string { return weatherKey }),
		Currency:  currency.NewService(upstream.NewClient("exchangerate", client), srv.URL),
		Geocoding: geocoding.NewService(upstream.NewClient("geocoding", client), srv.URL, "maps-key"),
		GitHub:    github.NewService(upstream.NewClient("github", client), srv.URL),
		Images:    images.NewService(upstream.NewClient("unsplash", client), srv.URL, "access-key"),
		History:   store,
	})
	return app, store
}

func doJSON(t *testing.T, app *fiber.App, method, target string) (*http.Response, map[string]any) {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(method, target, nil), 5000)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var out map[string]any
	if strings.HasPrefix(resp.Header.Get(fiber.HeaderContentType), fiber.MIMEApplicationJSON) {
		require.NoError(t, json.Unmarshal(body, &out), string(body))
	}
	return resp, out
}

func TestWeatherRoute(t *testing.T) {
	app, store := newTestApp(t, "test-api-key")

	resp, body := doJSON(t, app, http.MethodGet, "/api/v1/weather?city="+url.QueryEscape("東京"))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "no-store", resp.Header.Get("Cache-Control"))
	assert.Equal(t, true, body["success"])
	assert.NotContains(t, body, "error")

	data := body["data"].(map[string]any)
	assert.Equal(t, "Tokyo", data["city"])
	assert.Equal(t, "JP", data["country"])
	assert.EqualValues(t, 16, data["temperature"])
	assert.EqualValues(t, 14, data["feelsLike"])
	assert.EqualValues(t, 3.5, data["windSpeed"])

	entries, err := store.Recent(history.FeatureWeather, 0)
	require.NoError(t, err)
	assert.Equal(t, "東京", entries[0].Query)
}

func TestWeatherRouteFailures(t *testing.T) {
	tests := []struct {
		name       string
		key        string
		city       string
		wantStatus int
		wantError  string
	}{
		{"empty", "k", "", http.StatusBadRequest, "city name required"},
		{"invalid", "k", "Tokyo123", http.StatusBadRequest, ""},
		{"no key", "", "Tokyo", http.StatusInternalServerError, "missing API credential: set the OPENWEATHER_API_KEY environment variable"},
		{"unknown city", "k", "Atlantis", http.StatusBadGateway, "city not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app, store := newTestApp(t, tt.key)

			resp, body := doJSON(t, app, http.MethodGet, "/api/v1/weather?city="+url.QueryEscape(tt.city))
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			assert.Equal(t, false, body["success"])
			assert.NotContains(t, body, "data")
			if tt.wantError != "" {
				assert.Equal(t, tt.wantError, body["error"])
			}

			_, err := store.Recent(history.FeatureWeather, 0)
			assert.ErrorIs(t, err, history.ErrNotFound)
		})
	}
}

func TestCityRoutes(t *testing.T) {
	app, _ := newTestApp(t, "k")

	resp, body := doJSON(t, app, http.MethodGet, "/api/v1/cities")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Seoul", body["서울"])

	resp, body = doJSON(t, app, http.MethodGet, "/api/v1/cities/"+url.PathEscape("大阪"))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["mapped"])
	assert.Equal(t, "Osaka", body["canonical"])

	_, body = doJSON(t, app, http.MethodGet, "/api/v1/cities/London")
	assert.Equal(t, false, body["mapped"])
	assert.Equal(t, "London", body["canonical"])
}

func TestCurrencyRoute(t *testing.T) {
	app, store := newTestApp(t, "k")

	resp, body := doJSON(t, app, http.MethodGet, "/api/v1/currency?from=usd&amount=2&to=JPY")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "public, max-age=3600", resp.Header.Get("Cache-Control"))
	data := body["data"].(map[string]any)
	conv := data["conversions"].([]any)[0].(map[string]any)
	assert.EqualValues(t, 300, conv["amount"])

	_, _ = doJSON(t, app, http.MethodGet, "/api/v1/currency?from=usd&amount="+url.QueryEscape(" 2.50 ")+"&to=JPY")
	entries, err := store.Recent(history.FeatureCurrency, 0)
	require.NoError(t, err)
	assert.Equal(t, "2.5 USD", entries[0].Query)
	assert.Equal(t, "2 USD", entries[1].Query)

	resp, body = doJSON(t, app, http.MethodGet, "/api/v1/currency?from=USD&amount=-1")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "valid amount required", body["error"])
}

func TestGeocodingGitHubImagesRoutes(t *testing.T) {
	app, store := newTestApp(t, "k")

	resp, body := doJSON(t, app, http.MethodGet, "/api/v1/geocoding?address=Shibuya")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "p1", body["data"].(map[string]any)["placeId"])

	resp, body = doJSON(t, app, http.MethodGet, "/api/v1/github?username=octocat")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "public, max-age=300", resp.Header.Get("Cache-Control"))
	assert.Equal(t, "octocat", body["data"].(map[string]any)["user"].(map[string]any)["login"])

	resp, body = doJSON(t, app, http.MethodGet, "/api/v1/images?query=cat&page=1&per_page=5")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 1, body["data"].(map[string]any)["total"])

	resp, _ = doJSON(t, app, http.MethodGet, "/api/v1/images?query=cat&page=abc")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	for _, f := range []history.Feature{history.FeatureGeocoding, history.FeatureGitHub, history.FeatureImages} {
		entries, err := store.Recent(f, 0)
		require.NoError(t, err, f)
		assert.Len(t, entries, 1, f)
	}
}

func TestHistoryRoutes(t *testing.T) {
	app, store := newTestApp(t, "k")
	store.Record(history.FeatureWeather, "Tokyo", "Tokyo, JP 16°C")
	store.Record(history.FeatureWeather, "Osaka", "Osaka, JP 18°C")

	resp, body := doJSON(t, app, http.MethodGet, "/api/v1/history/weather?limit=1")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	entries := body["entries"].([]any)
	require.Len(t, entries, 1)
	assert.Equal(t, "Osaka", entries[0].(map[string]any)["query"])

	resp, body = doJSON(t, app, http.MethodGet, "/api/v1/history/images")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, body["entries"])

	resp, _ = doJSON(t, app, http.MethodGet, "/api/v1/history/todo")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodGet, "/api/v1/history/weather?limit=1000")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodGet, "/api/v1/history/weather?limit=x")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodDelete, "/api/v1/history/weather")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	_, err := store.Recent(history.FeatureWeather, 0)
	assert.ErrorIs(t, err, history.ErrNotFound)
}
