package providers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Jake-Garneau/weather-backend/internal/weather"
)

const onecallBody = `{
	"lat": 40.0,
	"lon": -75.0,
	"timezone": "America/New_York",
	"timezone_offset": -18000,
	"current": {
		"dt": 1700000000,
		"temp": 60.5,
		"humidity": 55,
		"weather": [{"id": 800, "main": "Clear", "description": "clear sky", "icon": "01d"}]
	},
	"hourly": [{"dt": 1700003600, "temp": 59.0, "pop": 0.1}],
	"daily": [{"dt": 1700000000, "temp": {"day": 65.0, "min": 48.0}}]
}`

func testLocation() weather.Location {
	return weather.Location{Name: "Philadelphia", Lat: 40.0, Lon: -75.0}
}

func TestFetchSuccess(t *testing.T) {
	var gotQuery map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		gotQuery = map[string]string{
			"lat":     q.Get("lat"),
			"lon":     q.Get("lon"),
			"exclude": q.Get("exclude"),
			"units":   q.Get("units"),
			"appid":   q.Get("appid"),
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(onecallBody))
	}))
	defer srv.Close()

	p := NewOneCallProvider(srv.Client(), "test-key", WithBaseURL(srv.URL))
	payload, err := p.Fetch(context.Background(), testLocation())

	require.NoError(t, err)
	assert.Equal(t, "40", gotQuery["lat"])
	assert.Equal(t, "-75", gotQuery["lon"])
	assert.Equal(t, "minutely,alerts", gotQuery["exclude"])
	assert.Equal(t, "imperial", gotQuery["units"])
	assert.Equal(t, "test-key", gotQuery["appid"])

	assert.Equal(t, 40.0, payload.Lat)
	assert.Equal(t, "America/New_York", payload.Timezone)
	require.NotNil(t, payload.Current)
	assert.Equal(t, 60.5, *payload.Current.Temp)
	require.Len(t, payload.Hourly, 1)
	require.Len(t, payload.Daily, 1)
	require.NotNil(t, payload.Daily[0].Temp)
	assert.Equal(t, 65.0, *payload.Daily[0].Temp.Day)
}

func TestFetchServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"cod":500,"message":"internal error"}`))
	}))
	defer srv.Close()

	p := NewOneCallProvider(srv.Client(), "test-key", WithBaseURL(srv.URL))
	_, err := p.Fetch(context.Background(), testLocation())

	require.Error(t, err)
	assert.Equal(t, weather.KindProvider, weather.KindOf(err))
	assert.Contains(t, err.Error(), "status 500")
	assert.Contains(t, err.Error(), "internal error")
}

func TestFetchUnauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"cod":401,"message":"Invalid API key"}`))
	}))
	defer srv.Close()

	p := NewOneCallProvider(srv.Client(), "bad-key", WithBaseURL(srv.URL))
	_, err := p.Fetch(context.Background(), testLocation())

	require.Error(t, err)
	assert.Equal(t, weather.KindProvider, weather.KindOf(err))
}

func TestFetchNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	p := NewOneCallProvider(&http.Client{Timeout: time.Second}, "test-key", WithBaseURL(srv.URL))
	_, err := p.Fetch(context.Background(), testLocation())

	require.Error(t, err)
	assert.Equal(t, weather.KindTransport, weather.KindOf(err))
}

func TestFetchMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"lat": `))
	}))
	defer srv.Close()

	p := NewOneCallProvider(srv.Client(), "test-key", WithBaseURL(srv.URL))
	_, err := p.Fetch(context.Background(), testLocation())

	require.Error(t, err)
	assert.Equal(t, weather.KindProvider, weather.KindOf(err))
}

func TestFetchMissingAPIKey(t *testing.T) {
	p := NewOneCallProvider(&http.Client{}, "")
	_, err := p.Fetch(context.Background(), testLocation())

	require.Error(t, err)
	assert.Equal(t, weather.KindProvider, weather.KindOf(err))
}

func TestFetchMakesSingleAttempt(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	p := NewOneCallProvider(srv.Client(), "test-key", WithBaseURL(srv.URL))
	_, err := p.Fetch(context.Background(), testLocation())

	require.Error(t, err)
	assert.Equal(t, 1, calls)
}
