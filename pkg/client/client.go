// Package client provides the HTTP transport shared by the TMDB and
// Rick & Morty gateways: request pacing, typed errors, JSON decoding and an
// optional Redis-backed detail cache.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/Sternrassler/mortyverse/pkg/cache"
	"github.com/Sternrassler/mortyverse/pkg/ratelimit"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

// Prometheus metrics for client operations.
var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mortyverse_requests_total",
		Help: "Total upstream requests by endpoint and status",
	}, []string{"endpoint", "status"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "mortyverse_request_duration_seconds",
		Help:    "Upstream request duration in seconds by endpoint",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5},
	}, []string{"endpoint"})

	errorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mortyverse_errors_total",
		Help: "Total upstream errors by class",
	}, []string{"class"})
)

// maxErrorBody bounds how much of a failed response body ends up in an error.
const maxErrorBody = 256

// Client is the shared HTTP transport. It is safe for concurrent use.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	cooldowns  *ratelimit.Tracker
	cache      *cache.Manager
	config     Config
	logger     zerolog.Logger
}

// Config holds the client configuration.
type Config struct {
	// UserAgent header sent with every request (required).
	UserAgent string

	// Timeout for a whole request. Zero leaves the transport defaults in place.
	Timeout time.Duration

	// RequestsPerSecond paces outgoing requests. Zero disables pacing.
	RequestsPerSecond float64

	// Burst is the number of requests allowed above the pace.
	Burst int

	// Redis enables the detail cache and shared 429 cooldowns. Optional.
	Redis *redis.Client
}

// DefaultConfig returns a default configuration without Redis.
func DefaultConfig(userAgent string) Config {
	return Config{
		UserAgent:         userAgent,
		RequestsPerSecond: 20,
		Burst:             5,
	}
}

// New creates a new client.
func New(cfg Config) (*Client, error) {
	if cfg.UserAgent == "" {
		return nil, fmt.Errorf("user-agent is required")
	}

	if cfg.RequestsPerSecond < 0 {
		return nil, fmt.Errorf("requests_per_second must be >= 0 (got %v)", cfg.RequestsPerSecond)
	}

	if cfg.Timeout < 0 {
		return nil, fmt.Errorf("timeout must be >= 0 (got %v)", cfg.Timeout)
	}

	logger := log.With().Str("component", "http-client").Logger()

	c := &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		config:     cfg,
		logger:     logger,
	}

	if cfg.RequestsPerSecond > 0 {
		burst := cfg.Burst
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst)
	}

	if cfg.Redis != nil {
		c.cooldowns = ratelimit.NewTracker(cfg.Redis, logger)
		c.cache = cache.NewManager(cfg.Redis)
	}

	return c, nil
}

// Get performs a GET and returns the body of a 2xx response.
func (c *Client) Get(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := c.newRequest(ctx, rawURL)
	if err != nil {
		return nil, err
	}

	resp, body, err := c.send(req)
	if err != nil {
		return nil, err
	}

	if err := checkStatus(resp, body, req.URL); err != nil {
		return nil, err
	}

	return body, nil
}

// GetJSON performs a GET and decodes a 2xx JSON body into v.
// Every call is a fresh round trip.
func (c *Client) GetJSON(ctx context.Context, rawURL string, v any) error {
	body, err := c.Get(ctx, rawURL)
	if err != nil {
		return err
	}
	return decode(body, rawURL, v)
}

// GetJSONCached behaves like GetJSON but serves fresh entries from the Redis
// cache and revalidates stale ones. Without Redis it is GetJSON.
func (c *Client) GetJSONCached(ctx context.Context, rawURL string, v any) error {
	if c.cache == nil {
		return c.GetJSON(ctx, rawURL, v)
	}

	req, err := c.newRequest(ctx, rawURL)
	if err != nil {
		return err
	}

	key := cache.KeyFromURL(req.URL)
	entry, err := c.cache.Get(ctx, key)
	if err != nil && !errors.Is(err, cache.ErrCacheMiss) {
		c.logger.Warn().Err(err).Str("key", key.String()).Msg("Cache get error")
	}

	if entry != nil && entry.IsFresh() {
		cache.CacheHits.WithLabelValues("fresh").Inc()
		c.logger.Debug().Str("key", key.String()).Dur("ttl", entry.TTL()).Msg("Serving fresh cache entry")
		return decode(entry.Data, rawURL, v)
	}

	if entry != nil && entry.CanRevalidate() {
		cache.AddConditionalHeaders(req, entry)
	} else {
		entry = nil
	}

	resp, body, err := c.send(req)
	if err != nil {
		return err
	}

	if resp.StatusCode == http.StatusNotModified && entry != nil {
		cache.NotModified.Inc()
		cache.CacheHits.WithLabelValues("revalidated").Inc()
		if err := c.cache.Refresh(ctx, key, entry, resp.Header); err != nil {
			c.logger.Warn().Err(err).Msg("Failed to refresh cache entry")
		}
		return decode(entry.Data, rawURL, v)
	}

	if err := checkStatus(resp, body, req.URL); err != nil {
		return err
	}

	if err := decode(body, rawURL, v); err != nil {
		return err
	}

	if resp.StatusCode == http.StatusOK {
		if err := c.cache.Set(ctx, key, cache.EntryFromResponse(resp, body)); err != nil {
			c.logger.Warn().Err(err).Msg("Failed to cache response")
		}
	}

	return nil
}

// Close releases idle connections.
func (c *Client) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}

// SetHTTPClient sets a custom HTTP client (for testing).
func (c *Client) SetHTTPClient(client *http.Client) {
	c.httpClient = client
}

func (c *Client) newRequest(ctx context.Context, rawURL string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.config.UserAgent)
	req.Header.Set("Accept", "application/json")
	return req, nil
}

// send paces the request, consults the shared cooldown, executes it and reads
// the whole body. Only transport-level failures are returned as errors.
func (c *Client) send(req *http.Request) (*http.Response, []byte, error) {
	ctx := req.Context()
	endpoint := endpointLabel(req.URL.Path)
	target := redactURL(req.URL)

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, nil, c.networkError(endpoint, target, err)
		}
	}

	if c.cooldowns != nil {
		allowed, remaining, err := c.cooldowns.ShouldAllowRequest(ctx, req.URL.Host)
		if err != nil {
			c.logger.Warn().Err(err).Msg("Cooldown check failed")
		} else if !allowed {
			errorsTotal.WithLabelValues(string(ErrorClassRateLimited)).Inc()
			requestsTotal.WithLabelValues(endpoint, "rate_limited").Inc()
			return nil, nil, &APIError{
				ErrorClass: ErrorClassRateLimited,
				Message:    fmt.Sprintf("rate limited, retry in %s", remaining.Round(time.Second)),
				URL:        target,
				Err:        ErrRequestBlocked,
			}
		}
	}

	c.logger.Debug().
		Str("endpoint", endpoint).
		Str("url", target).
		Msg("Executing request")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	requestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, nil, c.networkError(endpoint, target, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, c.networkError(endpoint, target, fmt.Errorf("read body: %w", err))
	}

	requestsTotal.WithLabelValues(endpoint, strconv.Itoa(resp.StatusCode)).Inc()

	if c.cooldowns != nil {
		if err := c.cooldowns.ObserveResponse(ctx, req.URL.Host, resp.StatusCode, resp.Header); err != nil {
			c.logger.Warn().Err(err).Msg("Failed to record cooldown")
		}
	}

	logEvent := c.logger.Debug()
	if resp.StatusCode >= 400 {
		errorsTotal.WithLabelValues(string(ErrorClassStatus)).Inc()
		logEvent = c.logger.Warn()
	}
	logEvent.
		Str("endpoint", endpoint).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("Request completed")

	return resp, body, nil
}

func (c *Client) networkError(endpoint, target string, err error) error {
	// *url.Error embeds the raw request URL, api_key included.
	var ue *url.Error
	if errors.As(err, &ue) {
		ue.URL = target
	}
	errorsTotal.WithLabelValues(string(ErrorClassNetwork)).Inc()
	requestsTotal.WithLabelValues(endpoint, "network_error").Inc()
	c.logger.Error().Err(err).Str("endpoint", endpoint).Msg("HTTP request failed")
	return &APIError{
		ErrorClass: ErrorClassNetwork,
		Message:    "request failed",
		URL:        target,
		Err:        err,
	}
}

// checkStatus turns a response outside 200-299 into a status *APIError.
func checkStatus(resp *http.Response, body []byte, u *url.URL) error {
	if resp.StatusCode >= 200 && resp.StatusCode <= 299 {
		return nil
	}

	apiErr := &APIError{
		StatusCode: resp.StatusCode,
		ErrorClass: ErrorClassStatus,
		Message:    "unexpected response " + resp.Status,
		URL:        redactURL(u),
	}
	if snippet := strings.TrimSpace(string(body)); snippet != "" {
		if len(snippet) > maxErrorBody {
			snippet = snippet[:maxErrorBody] + "..."
		}
		apiErr.Err = errors.New(snippet)
	}
	return apiErr
}

func decode(body []byte, rawURL string, v any) error {
	dec := json.NewDecoder(bytes.NewReader(body))
	if err := dec.Decode(v); err != nil {
		errorsTotal.WithLabelValues(string(ErrorClassDecode)).Inc()
		target := rawURL
		if u, perr := url.Parse(rawURL); perr == nil {
			target = redactURL(u)
		}
		return &APIError{
			ErrorClass: ErrorClassDecode,
			Message:    "decode response",
			URL:        target,
			Err:        err,
		}
	}
	return nil
}

var numericSegment = regexp.MustCompile(`/\d+(/|$)`)

// endpointLabel collapses numeric path segments so metrics stay low-cardinality.
func endpointLabel(path string) string {
	if path == "" {
		return "/"
	}
	// Applied twice: adjacent numeric segments share a slash.
	label := numericSegment.ReplaceAllString(path, "/{id}$1")
	return numericSegment.ReplaceAllString(label, "/{id}$1")
}

// redactURL renders u with credentials removed from the query.
func redactURL(u *url.URL) string {
	if u == nil {
		return ""
	}
	q := u.Query()
	if q.Has("api_key") {
		q.Set("api_key", "REDACTED")
		clone := *u
		clone.RawQuery = q.Encode()
		return clone.String()
	}
	return u.String()
}
