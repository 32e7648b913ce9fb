package integrations

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/relcat/pkg/httputil"
	"github.com/matzehuels/relcat/pkg/observability"
)

// Options configures a [Client].
type Options struct {
	Timeout  time.Duration     // Per-attempt timeout (default 10s)
	Attempts int               // Attempts for transient failures (default 3)
	Backoff  time.Duration     // Initial retry delay, doubled per retry (default 1s)
	Headers  map[string]string // Headers applied to every request
	Logger   *log.Logger       // Debug logging of retries (optional)
}

// Client provides shared HTTP functionality for repository clients.
// It handles retry logic, request hooks, and common request headers.
//
// All methods are safe for concurrent use by multiple goroutines.
type Client struct {
	http     *http.Client
	headers  map[string]string
	attempts int
	backoff  time.Duration
	logger   *log.Logger
}

// NewClient creates a Client from opts, filling in defaults.
func NewClient(opts Options) *Client {
	if opts.Attempts <= 0 {
		opts.Attempts = 3
	}
	if opts.Backoff <= 0 {
		opts.Backoff = time.Second
	}
	return &Client{
		http:     NewHTTPClient(opts.Timeout),
		headers:  opts.Headers,
		attempts: opts.Attempts,
		backoff:  opts.Backoff,
		logger:   opts.Logger,
	}
}

// GetBytes performs an HTTP GET request and returns the whole response body.
// Transient failures are retried; a 404 yields [ErrNotFound] without retry.
func (c *Client) GetBytes(ctx context.Context, rawURL string) ([]byte, error) {
	var data []byte
	err := httputil.RetryNotify(ctx, c.attempts, c.backoff, func() error {
		body, err := c.doRequest(ctx, rawURL)
		if err != nil {
			return err
		}
		defer body.Close()
		b, err := io.ReadAll(body)
		if err != nil {
			return httputil.Retryable(fmt.Errorf("%w: read body: %v", ErrNetwork, err))
		}
		data = b
		return nil
	}, func(attempt int, err error) {
		if c.logger != nil {
			c.logger.Debug("retrying request", "url", rawURL, "attempt", attempt, "err", err)
		}
	})
	if err != nil {
		return nil, err
	}
	return data, nil
}

func (c *Client) doRequest(ctx context.Context, rawURL string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	host, path := splitURL(rawURL)
	hooks := observability.HTTP()
	hooks.OnRequest(ctx, http.MethodGet, host, path)
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		hooks.OnError(ctx, http.MethodGet, host, path, err)
		return nil, &httputil.RetryableError{Err: fmt.Errorf("%w: %v", ErrNetwork, err)}
	}
	hooks.OnResponse(ctx, http.MethodGet, host, path, resp.StatusCode, time.Since(start))

	if err := checkStatus(resp.StatusCode); err != nil {
		resp.Body.Close()
		return nil, err
	}
	return resp.Body, nil
}

func checkStatus(code int) error {
	switch {
	case code == http.StatusOK:
		return nil
	case code == http.StatusNotFound:
		return ErrNotFound
	case code >= 500:
		return &httputil.RetryableError{Err: fmt.Errorf("%w: status %d", ErrNetwork, code)}
	default:
		return fmt.Errorf("%w: status %d", ErrNetwork, code)
	}
}

func splitURL(rawURL string) (host, path string) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", rawURL
	}
	return u.Host, u.Path
}
