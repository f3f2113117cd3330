package http

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/wesleyorama2/hakai/internal/config"
	"github.com/wesleyorama2/hakai/internal/metrics"
)

// ResponseLogger receives one line per executed request in verbose mode.
type ResponseLogger interface {
	Response(url string, elapsed time.Duration, bodySize int64)
}

// Client executes scenario actions and classifies their outcome.
// It is safe for concurrent use by several workers.
type Client struct {
	httpClient *http.Client
	userAgent  string
	verbose    ResponseLogger
	logger     zerolog.Logger
}

// ClientOption is a function that configures a Client
type ClientOption func(*Client)

// NewClient creates a new client with the given options
func NewClient(options ...ClientOption) *Client {
	client := &Client{
		httpClient: &http.Client{
			Timeout: config.DefaultTimeout,
		},
		userAgent: config.DefaultUserAgent,
		logger:    zerolog.Nop(),
	}

	for _, option := range options {
		option(client)
	}

	return client
}

// WithTimeout bounds each request, body read included
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithUserAgent sets the User-Agent header sent with every request
func WithUserAgent(userAgent string) ClientOption {
	return func(c *Client) {
		c.userAgent = userAgent
	}
}

// WithResponseLogger enables verbose per-request lines
func WithResponseLogger(l ResponseLogger) ClientOption {
	return func(c *Client) {
		c.verbose = l
	}
}

// WithLogger sets the diagnostic logger
func WithLogger(logger zerolog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger.With().Str("component", "executor").Logger()
	}
}

// WithTransport replaces the HTTP transport
func WithTransport(rt http.RoundTripper) ClientOption {
	return func(c *Client) {
		c.httpClient.Transport = rt
	}
}

// Execute performs exactly one request for action against url.
//
// Every failure (request build error, connection or DNS failure, timeout,
// non-200 status, body read error) is folded into a failed Outcome; Execute
// never returns an error and never panics on transport problems.
func (c *Client) Execute(ctx context.Context, url string, action config.Action) metrics.Outcome {
	outcome := metrics.Outcome{URL: url}

	req, err := NewRequest(ctx, url, action, c.userAgent)
	if err != nil {
		outcome.Err = err
		c.logFailure(outcome)
		return outcome
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	outcome.Elapsed = time.Since(start)

	if err != nil {
		outcome.Err = err
		c.logFailure(outcome)
		return outcome
	}
	defer resp.Body.Close()

	outcome.StatusCode = resp.StatusCode

	n, err := io.Copy(io.Discard, resp.Body)
	outcome.BodySize = n
	if err != nil {
		outcome.Err = err
		c.logFailure(outcome)
		return outcome
	}

	if c.verbose != nil {
		c.verbose.Response(url, outcome.Elapsed, outcome.BodySize)
	}

	outcome.Success = resp.StatusCode == http.StatusOK
	if !outcome.Success {
		c.logFailure(outcome)
	}
	return outcome
}

func (c *Client) logFailure(o metrics.Outcome) {
	ev := c.logger.Debug().
		Str("url", o.URL).
		Int("status", o.StatusCode).
		Dur("elapsed", o.Elapsed)
	if o.Err != nil {
		ev = ev.Err(o.Err)
	}
	ev.Msg("request failed")
}
