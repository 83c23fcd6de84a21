// Package fetch retrieves remote documentation pages over HTTP with
// bounded retries and linear backoff.
package fetch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// Defaults match the documented fetch contract: three attempts with a
// 30 second per-attempt timeout and 1s, 2s backoff between them.
const (
	DefaultMaxAttempts = 3
	DefaultTimeout     = 30 * time.Second
	DefaultBackoffBase = 1 * time.Second
	DefaultUserAgent   = "fusion360-docs-mcp/1.0"

	acceptHeader = "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8"
)

// Fetcher performs GET requests with a fixed header set and retries
// transient failures before giving up.
type Fetcher struct {
	client      *http.Client
	userAgent   string
	maxAttempts int
	backoffBase time.Duration
	timeout     time.Duration
	logger      *slog.Logger
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the per-attempt request timeout.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithMaxAttempts sets how many times a URL is tried before failing.
func WithMaxAttempts(n int) Option {
	return func(f *Fetcher) {
		if n > 0 {
			f.maxAttempts = n
		}
	}
}

// WithBackoffBase sets the base delay for linear backoff. The delay before
// retry n is base * n, so the defaults produce 1s, 2s. A zero base disables
// sleeping, which keeps retry tests fast.
func WithBackoffBase(d time.Duration) Option {
	return func(f *Fetcher) {
		f.backoffBase = d
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// WithLogger sets the logger used for retry reporting.
func WithLogger(l *slog.Logger) Option {
	return func(f *Fetcher) {
		f.logger = l
	}
}

// New creates a Fetcher.
func New(opts ...Option) *Fetcher {
	f := &Fetcher{
		userAgent:   DefaultUserAgent,
		maxAttempts: DefaultMaxAttempts,
		backoffBase: DefaultBackoffBase,
		timeout:     DefaultTimeout,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(f)
	}
	f.client = &http.Client{Timeout: f.timeout}
	return f
}

// Fetch retrieves the body of url as text. Transport errors and non-2xx
// responses are retried up to the attempt budget; after the final attempt
// the last error is returned and the caller decides how to degrade.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	var lastErr error

	for attempt := 1; attempt <= f.maxAttempts; attempt++ {
		body, err := f.get(ctx, url)
		if err == nil {
			return body, nil
		}
		lastErr = err

		if attempt == f.maxAttempts {
			break
		}

		f.logger.Warn("fetch retry",
			slog.String("url", url),
			slog.Int("attempt", attempt),
			slog.String("error", err.Error()))

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(f.backoffBase * time.Duration(attempt)):
		}
	}

	return "", fmt.Errorf("fetch %s after %d attempts: %w", url, f.maxAttempts, lastErr)
}

func (f *Fetcher) get(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", acceptHeader)

	resp, err := f.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("HTTP %d for %s", resp.StatusCode, url)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	return string(body), nil
}
