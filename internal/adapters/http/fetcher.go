package http

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/atmouse-/gensokyoradio/internal/domain"
	"github.com/atmouse-/gensokyoradio/internal/ports"
)

// Default retry configuration values.
const (
	DefaultRetries        = 2
	DefaultBackoffInitial = 500 * time.Millisecond
	DefaultBackoffMax     = 5 * time.Second
	DefaultUserAgent      = "gensokyoradio"
)

// maxErrorBody caps how much of an error response is quoted in the error.
const maxErrorBody = 512

// FetcherConfig tunes retry behavior of the Fetcher.
type FetcherConfig struct {
	// Retries is the number of extra attempts after the first one.
	// Only network errors and 5xx responses are retried.
	Retries int

	BackoffInitial time.Duration
	BackoffMax     time.Duration
	UserAgent      string
}

// DefaultFetcherConfig returns a FetcherConfig with default values.
func DefaultFetcherConfig() FetcherConfig {
	return FetcherConfig{
		Retries:        DefaultRetries,
		BackoffInitial: DefaultBackoffInitial,
		BackoffMax:     DefaultBackoffMax,
		UserAgent:      DefaultUserAgent,
	}
}

// Fetcher implements ports.Fetcher with plain HTTP(S) GET requests.
type Fetcher struct {
	client ports.HTTPClient
	config FetcherConfig
	logger ports.Logger
}

// NewFetcher creates a new HTTP asset fetcher.
// Request timeouts are the client's responsibility.
func NewFetcher(client ports.HTTPClient, config FetcherConfig, logger ports.Logger) *Fetcher {
	if config.Retries < 0 {
		config.Retries = 0
	}
	if config.BackoffInitial <= 0 {
		config.BackoffInitial = DefaultBackoffInitial
	}
	if config.BackoffMax < config.BackoffInitial {
		config.BackoffMax = config.BackoffInitial
	}
	return &Fetcher{
		client: client,
		config: config,
		logger: logger,
	}
}

// Fetch downloads locator and returns the response body.
func (f *Fetcher) Fetch(ctx context.Context, locator string) (io.ReadCloser, error) {
	back := newBackoff(f.config.BackoffInitial, f.config.BackoffMax)

	var lastErr error
	for attempt := 0; attempt <= f.config.Retries; attempt++ {
		if attempt > 0 {
			f.logger.Warn("retrying asset fetch",
				ports.String("url", locator),
				ports.Int("attempt", attempt),
				ports.Duration("backoff", back.Current()),
				ports.Err(lastErr),
			)
			if err := back.Wait(ctx); err != nil {
				return nil, err
			}
		}

		body, retryable, err := f.fetchOnce(ctx, locator)
		if err == nil {
			return body, nil
		}
		lastErr = err
		if !retryable {
			break
		}
	}
	return nil, lastErr
}

// fetchOnce performs a single GET. The bool reports whether a failure is
// worth retrying.
func (f *Fetcher) fetchOnce(ctx context.Context, locator string) (io.ReadCloser, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, locator, nil)
	if err != nil {
		return nil, false, fmt.Errorf("create request: %w", err)
	}
	if f.config.UserAgent != "" {
		req.Header.Set("User-Agent", f.config.UserAgent)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, ctx.Err() == nil, fmt.Errorf("send request: %w", err)
	}

	if resp.StatusCode/100 != 2 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		resp.Body.Close()
		return nil, resp.StatusCode >= 500,
			fmt.Errorf("%w: %d: %s", domain.ErrFetchStatus, resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	return resp.Body, false, nil
}
