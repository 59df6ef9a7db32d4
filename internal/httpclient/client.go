// Package httpclient is a throttled, retrying HTTP client used by the
// CLI to talk to a running pricing engine.
package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/time/rate"
)

// Config controls throttling and retry behavior.
type Config struct {
	RequestsPerSecond float64
	MaxRetries        int
	InitialBackoff    time.Duration
	MaxBackoff        time.Duration
	Timeout           time.Duration
}

// DefaultConfig returns conservative client defaults.
func DefaultConfig() Config {
	return Config{
		RequestsPerSecond: 10,
		MaxRetries:        3,
		InitialBackoff:    100 * time.Millisecond,
		MaxBackoff:        30 * time.Second,
		Timeout:           30 * time.Second,
	}
}

// RetryError is returned once every attempt is exhausted.
type RetryError struct {
	URL        string
	Attempts   int
	LastStatus int
	LastErr    error
}

func (e *RetryError) Error() string {
	msg := "request to " + e.URL + " failed after " + strconv.Itoa(e.Attempts) + " attempts"
	if e.LastStatus != 0 {
		msg += " (HTTP " + strconv.Itoa(e.LastStatus) + ")"
	}
	if e.LastErr != nil {
		msg += ": " + e.LastErr.Error()
	}
	return msg
}

func (e *RetryError) Unwrap() error { return e.LastErr }

// Client wraps http.Client with a token-bucket throttle, exponential
// backoff on retryable statuses, and an internal API key header.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	config     Config
	apiKey     string
}

// New creates a client. apiKey is sent as X-Internal-API-Key when
// non-empty.
func New(config Config, apiKey string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: config.Timeout},
		limiter:    rate.NewLimiter(rate.Limit(config.RequestsPerSecond), 1),
		config:     config,
		apiKey:     apiKey,
	}
}

// PostJSON marshals payload, posts it to url and unmarshals the
// response into out.
func (c *Client) PostJSON(ctx context.Context, url string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encoding request body: %w", err)
	}
	return c.doJSON(ctx, http.MethodPost, url, body, out)
}

// GetJSON fetches url and unmarshals the response into out.
func (c *Client) GetJSON(ctx context.Context, url string, out any) error {
	return c.doJSON(ctx, http.MethodGet, url, nil, out)
}

func (c *Client) doJSON(ctx context.Context, method, url string, body []byte, out any) error {
	resp, err := c.do(ctx, method, url, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response body: %w", err)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decoding response from %s: %w", url, err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, url string, body []byte) (*http.Response, error) {
	var lastStatus int
	var lastErr error

	for attempt := 0; attempt <= c.config.MaxRetries; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("throttle wait: %w", err)
		}

		var reader io.Reader
		if body != nil {
			reader = bytes.NewReader(body)
		}
		req, err := http.NewRequestWithContext(ctx, method, url, reader)
		if err != nil {
			return nil, fmt.Errorf("building request: %w", err)
		}
		req.Header.Set("User-Agent", "pricing-engine-cli/1.0")
		req.Header.Set("Accept", "application/json")
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		if c.apiKey != "" {
			req.Header.Set("X-Internal-API-Key", c.apiKey)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			if attempt < c.config.MaxRetries && ctx.Err() == nil {
				c.sleep(ctx, attempt)
				continue
			}
			return nil, &RetryError{URL: url, Attempts: attempt + 1, LastStatus: lastStatus, LastErr: lastErr}
		}

		lastStatus = resp.StatusCode
		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			return resp, nil
		}

		resp.Body.Close()
		if !retryable(resp.StatusCode) || attempt == c.config.MaxRetries {
			return nil, &RetryError{URL: url, Attempts: attempt + 1, LastStatus: resp.StatusCode}
		}
		c.sleep(ctx, attempt)
	}

	return nil, &RetryError{URL: url, Attempts: c.config.MaxRetries + 1, LastStatus: lastStatus, LastErr: lastErr}
}

// retryable covers 429 and server errors.
func retryable(status int) bool {
	return status == http.StatusTooManyRequests || (status >= 500 && status < 600)
}

// sleep applies capped exponential backoff, honoring cancellation.
func (c *Client) sleep(ctx context.Context, attempt int) {
	backoff := c.config.InitialBackoff << uint(attempt)
	if backoff > c.config.MaxBackoff {
		backoff = c.config.MaxBackoff
	}
	select {
	case <-ctx.Done():
	case <-time.After(backoff):
	}
}
