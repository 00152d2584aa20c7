// Package client provides the core CMR HTTP client with error
// classification, metrics, and structured logging.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Prometheus metrics for CMR client operations.
var (
	cmrRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cmr_requests_total",
		Help: "Total CMR requests by endpoint and status",
	}, []string{"endpoint", "status"})

	cmrRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "cmr_request_duration_seconds",
		Help:    "CMR request duration in seconds by endpoint",
		Buckets: []float64{0.1, 0.5, 1, 2, 5, 10},
	}, []string{"endpoint"})

	cmrErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cmr_errors_total",
		Help: "Total CMR errors by class",
	}, []string{"class"})
)

// DefaultEndpoint is the production CMR search API root.
const DefaultEndpoint = "https://cmr.earthdata.nasa.gov/search"

// Client is the main CMR search client.
type Client struct {
	httpClient *http.Client
	endpoint   *url.URL
	config     Config
	logger     zerolog.Logger
}

// Config holds the client configuration.
type Config struct {
	// Endpoint is the CMR search API root (default: production CMR).
	Endpoint string

	// ClientID identifies the caller to CMR (Client-Id header).
	// Format: "AppName/Version (contact@example.com)"
	ClientID string

	// Timeout is the per-request timeout.
	Timeout time.Duration
}

// DefaultConfig returns a safe default configuration.
func DefaultConfig(clientID string) Config {
	return Config{
		Endpoint: DefaultEndpoint,
		ClientID: clientID,
		Timeout:  30 * time.Second,
	}
}

// New creates a new CMR client.
func New(cfg Config) (*Client, error) {
	if cfg.ClientID == "" {
		return nil, fmt.Errorf("client-id is required")
	}

	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEndpoint
	}

	endpoint, err := url.Parse(cfg.Endpoint)
	if err != nil {
		return nil, fmt.Errorf("parse endpoint: %w", err)
	}
	if endpoint.Scheme != "http" && endpoint.Scheme != "https" {
		return nil, fmt.Errorf("endpoint must be http or https (got %q)", cfg.Endpoint)
	}

	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}

	logger := log.With().Str("component", "cmr-client").Logger()

	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		endpoint: endpoint,
		config:   cfg,
		logger:   logger,
	}, nil
}

// Do performs an HTTP request against CMR with content negotiation, error
// classification, and metrics. All request paths go through this method.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	endpoint := req.URL.Path

	startTime := time.Now()
	defer func() {
		cmrRequestDuration.WithLabelValues(endpoint).Observe(time.Since(startTime).Seconds())
	}()

	req.Header.Set("Client-Id", c.config.ClientID)
	if req.Header.Get("Accept") == "" {
		req.Header.Set("Accept", "application/json")
	}

	c.logger.Debug().
		Str("endpoint", endpoint).
		Str("method", req.Method).
		Msg("Executing CMR request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		errClass := classifyError(nil, err)
		cmrErrorsTotal.WithLabelValues(string(errClass)).Inc()
		cmrRequestsTotal.WithLabelValues(endpoint, "network_error").Inc()
		c.logger.Error().Err(err).Str("endpoint", endpoint).Msg("CMR request failed")
		return nil, &CMRError{
			ErrorClass: errClass,
			Message:    "request failed",
			Err:        err,
		}
	}

	if resp.StatusCode >= 400 {
		errClass := classifyError(resp, nil)
		cmrErrorsTotal.WithLabelValues(string(errClass)).Inc()
		cmrRequestsTotal.WithLabelValues(endpoint, fmt.Sprintf("%d", resp.StatusCode)).Inc()

		cmrErr := newStatusError(resp)
		resp.Body.Close()

		c.logger.Warn().
			Str("endpoint", endpoint).
			Int("status", resp.StatusCode).
			Str("error_class", string(errClass)).
			Msg("CMR request error")

		return nil, cmrErr
	}

	cmrRequestsTotal.WithLabelValues(endpoint, fmt.Sprintf("%d", resp.StatusCode)).Inc()
	return resp, nil
}

// Get performs a GET request against a CMR search path. Extra headers are
// added to the request before it is executed; params become the query string.
func (c *Client) Get(ctx context.Context, path string, params url.Values, header http.Header) (*http.Response, error) {
	u := c.resolve(path)
	if len(params) > 0 {
		u.RawQuery = params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	for key, values := range header {
		for _, value := range values {
			req.Header.Add(key, value)
		}
	}

	return c.Do(req)
}

// PostJSON performs a POST request with a JSON body against a CMR path.
func (c *Client) PostJSON(ctx context.Context, path string, body any) (*http.Response, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.resolve(path).String(), bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.Do(req)
}

// resolve joins a search path onto the configured endpoint root.
func (c *Client) resolve(path string) *url.URL {
	u := *c.endpoint
	u.Path = strings.TrimSuffix(u.Path, "/") + "/" + strings.TrimPrefix(path, "/")
	return &u
}

// classifyError categorizes an error for observability and handling.
func classifyError(resp *http.Response, err error) ErrorClass {
	if err != nil {
		return ErrorClassNetwork
	}

	switch {
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		return ErrorClassClient
	case resp.StatusCode >= 500:
		return ErrorClassServer
	default:
		return ""
	}
}

// SetHTTPClient sets a custom HTTP client (for testing).
func (c *Client) SetHTTPClient(client *http.Client) {
	c.httpClient = client
}
