package opencage

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

	"github.com/couchcryptid/weather-geocoder/internal/domain"
	"github.com/couchcryptid/weather-geocoder/internal/observability"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// DefaultBaseURL is the OpenCage forward geocoding endpoint.
const DefaultBaseURL = "https://api.opencagedata.com/geocode/v1/json"

var (
	errRateLimited = errors.New("rate limited")
	errServerError = errors.New("server error")
	errCircuitOpen = errors.New("circuit breaker open")
)

// APIError is a non-retryable error status returned by OpenCage, such as an
// invalid key (401) or exhausted quota (402).
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("opencage API error: status %d: %s", e.StatusCode, e.Body)
}

// BackoffConfig controls retries of rate-limited and failed requests.
type BackoffConfig struct {
	MaxRetries      int
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

// Client implements domain.GeocodingProvider using the OpenCage Geocoding API.
type Client struct {
	apiKey     string
	httpClient *http.Client
	baseURL    string
	backoff    BackoffConfig
	circuit    *gobreaker.CircuitBreaker
	metrics    *observability.Metrics
	logger     *zap.Logger
}

// NewClient creates an OpenCage client. An empty baseURL selects DefaultBaseURL.
func NewClient(apiKey, baseURL string, timeout time.Duration, metrics *observability.Metrics, logger *zap.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		backoff: BackoffConfig{
			MaxRetries:      2,
			InitialInterval: 250 * time.Millisecond,
			MaxInterval:     2 * time.Second,
		},
		circuit: newCircuitBreaker(logger),
		metrics: metrics,
		logger:  logger,
	}
}

func newCircuitBreaker(logger *zap.Logger) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "opencage",
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		IsSuccessful: isBreakerSuccess,
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state change",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})
}

// isBreakerSuccess reports whether err leaves the breaker's failure count
// alone. Rejected keys, exhausted quotas and caller cancellations say nothing
// about OpenCage's health.
func isBreakerSuccess(err error) bool {
	if err == nil {
		return true
	}
	var apiErr *APIError
	return errors.As(err, &apiErr) || errors.Is(err, context.Canceled)
}

// Query sends a forward geocoding request and returns every result.
func (c *Client) Query(ctx context.Context, text string, opts domain.QueryOptions) ([]domain.Candidate, error) {
	params := url.Values{
		"q":              {text},
		"key":            {c.apiKey},
		"no_annotations": {"1"},
	}
	if opts.Limit > 0 {
		params.Set("limit", strconv.Itoa(opts.Limit))
	}
	if opts.CountryCode != "" {
		params.Set("countrycode", opts.CountryCode)
	}
	if opts.Language != "" {
		params.Set("language", opts.Language)
	}

	start := time.Now()
	body, err := c.doRequestWithResilience(ctx, c.baseURL+"?"+params.Encode())
	c.metrics.GeocodeAPIDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		outcome := "error"
		if errors.Is(err, errCircuitOpen) {
			outcome = "circuit_open"
		}
		c.metrics.GeocodeRequests.WithLabelValues(outcome).Inc()
		c.logger.Warn("opencage request failed", zap.String("query", text), zap.Error(err))
		return nil, err
	}

	var ocResp response
	if err := json.Unmarshal(body, &ocResp); err != nil {
		c.metrics.GeocodeRequests.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("decode response: %w", err)
	}

	candidates := make([]domain.Candidate, 0, len(ocResp.Results))
	for _, r := range ocResp.Results {
		candidates = append(candidates, r.toCandidate())
	}

	outcome := "success"
	if len(candidates) == 0 {
		outcome = "empty"
	}
	c.metrics.GeocodeRequests.WithLabelValues(outcome).Inc()
	c.logger.Debug("opencage query",
		zap.String("query", text),
		zap.String("country_code", opts.CountryCode),
		zap.Int("results", len(candidates)),
		zap.Int("remaining", ocResp.Rate.Remaining),
	)
	return candidates, nil
}

// doRequestWithResilience runs the request through the circuit breaker,
// retrying rate limits, 5xx responses and transport errors with exponential
// backoff. It returns the body of a 200 response.
func (c *Client) doRequestWithResilience(ctx context.Context, fullURL string) ([]byte, error) {
	delay := c.backoff.InitialInterval
	for attempt := 0; ; attempt++ {
		result, err := c.circuit.Execute(func() (interface{}, error) {
			return c.doRequest(ctx, fullURL)
		})
		if err == nil {
			body, ok := result.([]byte)
			if !ok {
				return nil, errors.New("unexpected result type from circuit breaker")
			}
			return body, nil
		}

		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%w: %v", errCircuitOpen, err)
		}
		var apiErr *APIError
		if errors.As(err, &apiErr) || ctx.Err() != nil || attempt >= c.backoff.MaxRetries {
			return nil, err
		}

		c.logger.Debug("retrying opencage request", zap.Int("attempt", attempt+1), zap.Duration("delay", delay), zap.Error(err))
		if !sleepWithContext(ctx, delay) {
			return nil, ctx.Err()
		}
		delay = min(delay*2, c.backoff.MaxInterval)
	}
}

func (c *Client) doRequest(ctx context.Context, fullURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("geocode request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusOK:
		return body, nil
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, fmt.Errorf("%w: %s", errRateLimited, body)
	case resp.StatusCode >= 500:
		return nil, fmt.Errorf("%w: status %d: %s", errServerError, resp.StatusCode, body)
	default:
		return nil, &APIError{StatusCode: resp.StatusCode, Body: string(body)}
	}
}

func sleepWithContext(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

// OpenCage API response types.

type response struct {
	Results      []result `json:"results"`
	Rate         rate     `json:"rate"`
	TotalResults int      `json:"total_results"`
}

type rate struct {
	Limit     int `json:"limit"`
	Remaining int `json:"remaining"`
}

type result struct {
	Components components `json:"components"`
	Confidence int        `json:"confidence"`
	Formatted  string     `json:"formatted"`
	Geometry   geometry   `json:"geometry"`
}

type geometry struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type components struct {
	Road        string `json:"road"`
	Pedestrian  string `json:"pedestrian"`
	Footway     string `json:"footway"`
	Square      string `json:"square"`
	City        string `json:"city"`
	Town        string `json:"town"`
	Village     string `json:"village"`
	Hamlet      string `json:"hamlet"`
	County      string `json:"county"`
	CountyCode  string `json:"county_code"`
	State       string `json:"state"`
	Postcode    string `json:"postcode"`
	CountryCode string `json:"country_code"`
}

func (r result) toCandidate() domain.Candidate {
	comp := r.Components
	road := comp.Road
	if road == "" {
		road = comp.Pedestrian
	}
	if road == "" {
		road = comp.Footway
	}
	return domain.Candidate{
		Geometry:   domain.Geometry{Lat: r.Geometry.Lat, Lng: r.Geometry.Lng},
		Confidence: r.Confidence,
		Formatted:  r.Formatted,
		Components: domain.Components{
			Road:        road,
			Square:      comp.Square,
			City:        comp.City,
			Town:        comp.Town,
			Village:     comp.Village,
			Hamlet:      comp.Hamlet,
			County:      comp.County,
			CountyCode:  comp.CountyCode,
			State:       comp.State,
			Postcode:    comp.Postcode,
			CountryCode: comp.CountryCode,
		},
	}
}
