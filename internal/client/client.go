package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"mlb_pitchers/report/internal/metrics"
	"mlb_pitchers/report/internal/models"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

// StatusError is returned for any non-200 upstream response. It unwraps to
// models.ErrUpstreamUnavailable.
type StatusError struct {
	URL        string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("API returned status %d for %s: %s", e.StatusCode, e.URL, e.Body)
}

func (e *StatusError) Unwrap() error {
	return models.ErrUpstreamUnavailable
}

// Response is a successful upstream response
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// HTTP is the shared transport for every upstream source. Each request is
// attempted exactly once.
type HTTP struct {
	httpClient *http.Client
	userAgent  string
	limiter    *rate.Limiter
}

// NewHTTP creates the shared transport
func NewHTTP(timeout time.Duration, userAgent string) *HTTP {
	return &HTTP{
		userAgent: userAgent,
		limiter:   rate.NewLimiter(rate.Inf, 1),
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

// WithRateLimit caps outgoing requests at rps per second across all
// sources. rps <= 0 removes the cap.
func (c *HTTP) WithRateLimit(rps float64, burst int) *HTTP {
	if rps <= 0 {
		c.limiter = rate.NewLimiter(rate.Inf, 1)
		return c
	}
	if burst < 1 {
		burst = 1
	}
	c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	return c
}

// Get performs a GET request. endpoint is a short label used for metrics.
func (c *HTTP) Get(ctx context.Context, endpoint, rawURL string, params url.Values) (*Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter for %s: %w", endpoint, err)
	}

	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json, text/html;q=0.9")

	if len(params) > 0 {
		q := req.URL.Query()
		for key, values := range params {
			for _, v := range values {
				q.Add(key, v)
			}
		}
		req.URL.RawQuery = q.Encode()
	}

	log.Debug().
		Str("endpoint", endpoint).
		Str("url", rawURL).
		Msg("Making API request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.RecordAPICall(endpoint, "error", time.Since(start).Seconds())
		return nil, fmt.Errorf("API request %s failed: %v: %w", endpoint, err, models.ErrUpstreamUnavailable)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.RecordAPICall(endpoint, "error", time.Since(start).Seconds())
		return nil, fmt.Errorf("failed to read %s response body: %v: %w", endpoint, err, models.ErrUpstreamUnavailable)
	}

	metrics.RecordAPICall(endpoint, strconv.Itoa(resp.StatusCode), time.Since(start).Seconds())

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{URL: rawURL, StatusCode: resp.StatusCode, Body: truncate(string(body), 256)}
	}

	log.Debug().
		Str("endpoint", endpoint).
		Int("status", resp.StatusCode).
		Int("size", len(body)).
		Msg("API request successful")

	return &Response{StatusCode: resp.StatusCode, Header: resp.Header, Body: body}, nil
}

// GetJSON performs a GET request and decodes the JSON body into v
func (c *HTTP) GetJSON(ctx context.Context, endpoint, rawURL string, params url.Values, v any) (*Response, error) {
	resp, err := c.Get(ctx, endpoint, rawURL, params)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(resp.Body, v); err != nil {
		return nil, fmt.Errorf("failed to unmarshal %s: %v: %w", endpoint, err, models.ErrParseAnomaly)
	}

	return resp, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
