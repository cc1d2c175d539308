package providers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/sony/gobreaker"

	"github.com/Jake-Garneau/weather-backend/internal/weather"
)

const (
	defaultBaseURL = "https://api.openweathermap.org/data/3.0/onecall"

	// Minutely and alert blocks are never stored, so we ask the provider
	// to omit them.
	excludeBlocks = "minutely,alerts"
	units         = "imperial"

	// Cap on how much of an error body ends up in logs.
	maxErrorBody = 512
)

// OneCallProvider fetches current, hourly, and daily weather from the
// OpenWeatherMap One Call endpoint. It makes exactly one attempt per call;
// a failed cycle is simply retried on the next scheduler tick.
type OneCallProvider struct {
	name    string
	apiKey  string
	baseURL string
	client  *http.Client
	circuit *gobreaker.CircuitBreaker
}

// Option customizes a OneCallProvider.
type Option func(*OneCallProvider)

// WithBaseURL overrides the endpoint URL, mainly for tests.
func WithBaseURL(u string) Option {
	return func(p *OneCallProvider) { p.baseURL = u }
}

// NewOneCallProvider creates a provider backed by client.
func NewOneCallProvider(client *http.Client, apiKey string, opts ...Option) *OneCallProvider {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "onecall",
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
	})

	p := &OneCallProvider{
		name:    "openweathermap",
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		client:  client,
		circuit: cb,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *OneCallProvider) Name() string {
	return p.name
}

// Fetch requests the full One Call payload for loc's coordinates. Both
// network faults and provider rejects count against the circuit breaker.
func (p *OneCallProvider) Fetch(ctx context.Context, loc weather.Location) (*weather.RawPayload, error) {
	if p.apiKey == "" {
		return nil, weather.NewFailure(weather.KindProvider, "api key is not configured", nil)
	}

	values := url.Values{}
	values.Set("lat", strconv.FormatFloat(loc.Lat, 'f', -1, 64))
	values.Set("lon", strconv.FormatFloat(loc.Lon, 'f', -1, 64))
	values.Set("exclude", excludeBlocks)
	values.Set("units", units)
	values.Set("appid", p.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"?"+values.Encode(), nil)
	if err != nil {
		return nil, weather.NewFailure(weather.KindTransport, "build request", err)
	}

	result, err := p.circuit.Execute(func() (interface{}, error) {
		payload, reqErr := p.doRequest(req)
		if reqErr != nil {
			return nil, reqErr
		}
		return payload, nil
	})
	if err != nil {
		var f *weather.Failure
		if errors.As(err, &f) {
			return nil, f
		}
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, weather.NewFailure(weather.KindTransport, "circuit breaker open", err)
		}
		return nil, weather.NewFailure(weather.KindTransport, "request failed", err)
	}
	return result.(*weather.RawPayload), nil
}

func (p *OneCallProvider) doRequest(req *http.Request) (*weather.RawPayload, error) {
	resp, err := p.client.Do(req)
	if err != nil {
		return nil, weather.NewFailure(weather.KindTransport, "request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		detail := fmt.Sprintf("status %d: %s", resp.StatusCode, string(body))
		return nil, weather.NewFailure(weather.KindProvider, detail, nil)
	}

	var payload weather.RawPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, weather.NewFailure(weather.KindProvider, "decode response", err)
	}
	return &payload, nil
}
