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
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/klauspost/compress/gzhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/saajha/bloodlink/internal/logger"
	"github.com/saajha/bloodlink/internal/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"golang.org/x/oauth2"
)

const maxResponseBytes = 8 << 20

// Config holds common client configuration
type Config struct {
	// ServerURL is the backend origin; the client appends /api.
	ServerURL string
	Timeout   time.Duration
	// CacheDir enables a disk cache for public endpoints. Empty uses memory.
	CacheDir string
	// MaxRetries bounds attempts for idempotent reads. Zero disables retries.
	MaxRetries    uint
	RetryInterval time.Duration
	// Transport is the innermost round tripper, defaults to http.DefaultTransport.
	Transport http.RoundTripper
	Logger    *zerolog.Logger
}

// DefaultConfig returns a default client configuration
func DefaultConfig() Config {
	return Config{
		ServerURL:     "http://localhost:8001",
		Timeout:       30 * time.Second,
		MaxRetries:    3,
		RetryInterval: 250 * time.Millisecond,
	}
}

// Client calls the portal REST API. A Client is bound to at most one bearer
// token; use WithToken to derive an authenticated copy.
type Client struct {
	cfg     Config
	baseURL *url.URL
	base    http.RoundTripper
	public  *http.Client
	api     *http.Client
	token   string
}

// New creates a client for cfg.ServerURL.
func New(cfg Config) (*Client, error) {
	if cfg.ServerURL == "" {
		return nil, errors.New("server URL is required")
	}

	baseURL, err := url.Parse(strings.TrimRight(cfg.ServerURL, "/") + "/api")
	if err != nil {
		return nil, fmt.Errorf("failed to parse server URL: %w", err)
	}
	if baseURL.Scheme != "http" && baseURL.Scheme != "https" {
		return nil, fmt.Errorf("server URL must be http or https: %q", cfg.ServerURL)
	}

	inner := cfg.Transport
	if inner == nil {
		inner = http.DefaultTransport
	}

	reqLogger := log.Logger
	if cfg.Logger != nil {
		reqLogger = *cfg.Logger
	}

	base := logger.NewRequestLogger(reqLogger, gzhttp.Transport(inner))

	return &Client{
		cfg:     cfg,
		baseURL: baseURL,
		base:    base,
		public:  &http.Client{Transport: newCachingTransport(cfg.CacheDir, base), Timeout: cfg.Timeout},
		api:     &http.Client{Transport: base, Timeout: cfg.Timeout},
	}, nil
}

// WithToken returns a copy of c that sends token as a bearer credential.
func (c *Client) WithToken(token string) *Client {
	authed := *c
	authed.token = token
	authed.api = &http.Client{
		Transport: &oauth2.Transport{
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token}),
			Base:   c.base,
		},
		Timeout: c.cfg.Timeout,
	}
	return &authed
}

// Authenticated reports whether the client carries a token.
func (c *Client) Authenticated() bool {
	return c.token != ""
}

// call describes one API request.
type call struct {
	op     string
	method string
	path   string
	query  url.Values
	body   any
	out    any
	// public requests go through the HTTP cache without credentials.
	public bool
	// retry is set for idempotent reads.
	retry bool
}

func (c *Client) do(ctx context.Context, cl call) error {
	ctx, span := telemetry.Tracer().Start(ctx, "bloodlink.api."+cl.op)
	defer span.End()

	m := telemetry.GetMetrics()
	attrs := metric.WithAttributes(attribute.String("operation", cl.op))
	started := time.Now()

	var err error
	if cl.retry && c.cfg.MaxRetries > 0 {
		_, err = backoff.Retry(ctx, func() (struct{}, error) {
			if err := c.roundTrip(ctx, cl); err != nil {
				if !retryable(err) {
					return struct{}{}, backoff.Permanent(err)
				}
				return struct{}{}, err
			}
			return struct{}{}, nil
		},
			backoff.WithBackOff(c.newBackOff()),
			backoff.WithMaxTries(c.cfg.MaxRetries+1),
			backoff.WithNotify(func(err error, next time.Duration) {
				m.APIRequestRetriesTotal.Add(ctx, 1, attrs)
				log.Debug().Err(err).Str("op", cl.op).Dur("next", next).Msg("retrying api call")
			}),
		)
	} else {
		err = c.roundTrip(ctx, cl)
	}

	m.APIRequestsTotal.Add(ctx, 1, attrs)
	m.APIRequestDuration.Record(ctx, float64(time.Since(started).Milliseconds()), attrs)

	if err != nil {
		m.APIRequestErrorsTotal.Add(ctx, 1, attrs)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("%s: %w", cl.op, err)
	}

	return nil
}

func (c *Client) newBackOff() *backoff.ExponentialBackOff {
	b := backoff.NewExponentialBackOff()
	if c.cfg.RetryInterval > 0 {
		b.InitialInterval = c.cfg.RetryInterval
	}
	b.MaxInterval = 5 * time.Second
	return b
}

func (c *Client) roundTrip(ctx context.Context, cl call) error {
	u := c.baseURL.JoinPath(cl.path)
	if len(cl.query) > 0 {
		u.RawQuery = cl.query.Encode()
	}

	var body io.Reader
	if cl.body != nil {
		data, err := json.Marshal(cl.body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, cl.method, u.String(), body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	httpClient := c.api
	if cl.public {
		httpClient = c.public
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return parseAPIError(resp.StatusCode, data)
	}

	if cl.out == nil {
		return nil
	}

	if err := json.Unmarshal(data, cl.out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

// retryable reports whether a failed attempt is worth repeating: transport
// errors and 5xx/429 responses, never caller cancellation or bad payloads.
func retryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Temporary()
	}

	var urlErr *url.Error
	return errors.As(err, &urlErr)
}
