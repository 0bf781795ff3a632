package httpfetch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/statpull/statpull/htmldoc"
	"github.com/statpull/statpull/internal/utils"
)

const (
	// DefaultTimeout is the default HTTP request timeout
	DefaultTimeout = 30 * time.Second
	// DefaultUserAgent is the default User-Agent header value
	DefaultUserAgent = "statpull-fetcher/1.0"
	// MaxBodySize is the maximum response body size (10MB)
	MaxBodySize = 10 * 1024 * 1024
	// DialTimeout is the maximum time to wait for a TCP connection
	DialTimeout = 10 * time.Second
	// TLSHandshakeTimeout is the maximum time to wait for TLS handshake
	TLSHandshakeTimeout = 10 * time.Second
	// ResponseHeaderTimeout is the maximum time to wait for response headers
	ResponseHeaderTimeout = 10 * time.Second
	// IdleConnTimeout is the maximum time an idle connection can be reused
	IdleConnTimeout = 90 * time.Second
)

// Client fetches pages over HTTP and parses them into [htmldoc.Document]
// trees. It satisfies the metric package's PageFetcher capability and is safe
// for concurrent use: the underlying http.Client is shared and all other
// fields are set once at construction.
type Client struct {
	httpClient *http.Client
	timeout    time.Duration
	userAgent  string
	logger     *slog.Logger
}

// Option configures a [Client].
type Option func(*Client)

// WithTimeout overrides the overall request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.timeout = timeout
	}
}

// WithUserAgent overrides the User-Agent header sent with every request.
func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		c.userAgent = userAgent
	}
}

// WithHTTPClient replaces the built-in HTTP client entirely. Useful for tests
// and for callers with their own transport configuration (proxies, custom
// TLS).
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithLogger sets the logger for per-fetch debug output. The default discards
// everything.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// New returns a Client with a transport configured against slow or
// unresponsive servers: dial, TLS-handshake, response-header and idle
// timeouts, plus an overall request timeout of [DefaultTimeout] unless
// overridden with [WithTimeout].
func New(opts ...Option) *Client {
	c := &Client{
		timeout:   DefaultTimeout,
		userAgent: DefaultUserAgent,
		logger:    slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.New(slog.DiscardHandler)
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{
			Timeout: c.timeout,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout:   DialTimeout,
					KeepAlive: 30 * time.Second,
				}).DialContext,
				TLSHandshakeTimeout:   TLSHandshakeTimeout,
				ResponseHeaderTimeout: ResponseHeaderTimeout,
				IdleConnTimeout:       IdleConnTimeout,
				MaxIdleConns:          100,
				MaxIdleConnsPerHost:   10,
				ForceAttemptHTTP2:     true,
			},
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 10 {
					return fmt.Errorf("too many redirects (>10)")
				}
				return nil
			},
		}
	}
	return c
}

// Fetch retrieves pageURL and parses the response body as HTML.
//
// Partial URLs (e.g. "example.com/team") are normalised by prepending
// "https://". The response body is capped at [MaxBodySize] bytes and read in
// a goroutine so that context cancellation is honoured even during slow
// reads. A non-200 status is an error; no retry is performed.
func (c *Client) Fetch(ctx context.Context, pageURL string) (*htmldoc.Document, error) {
	pageURL = strings.TrimSpace(pageURL)
	if pageURL == "" {
		return nil, fmt.Errorf("URL cannot be empty")
	}
	if !strings.HasPrefix(pageURL, "http://") && !strings.HasPrefix(pageURL, "https://") {
		pageURL = "https://" + pageURL
	}

	ctxWithTimeout, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctxWithTimeout, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctxWithTimeout.Err() != nil {
			return nil, fmt.Errorf("request timeout or canceled: %w", err)
		}
		return nil, fmt.Errorf("failed to fetch URL: %w", err)
	}
	defer utils.CloseWithLog(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d %s", resp.StatusCode, resp.Status)
	}

	limitedReader := io.LimitReader(resp.Body, MaxBodySize)

	type readResult struct {
		data []byte
		err  error
	}
	readChan := make(chan readResult, 1)
	go func() {
		data, err := io.ReadAll(limitedReader)
		readChan <- readResult{data: data, err: err}
	}()

	var body []byte
	select {
	case <-ctxWithTimeout.Done():
		return nil, fmt.Errorf("timeout while reading response body: %w", ctxWithTimeout.Err())
	case result := <-readChan:
		if result.err != nil {
			return nil, fmt.Errorf("failed to read response body: %w", result.err)
		}
		body = result.data
	}

	if len(body) == MaxBodySize {
		return nil, fmt.Errorf("response body exceeds maximum size of %d bytes", MaxBodySize)
	}

	doc, err := htmldoc.ParseString(string(body))
	if err != nil {
		return nil, err
	}

	c.logger.Debug("page fetched",
		"url", resp.Request.URL.String(),
		"bytes", len(body),
		"duration", time.Since(start),
	)
	return doc, nil
}
