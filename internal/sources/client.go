package sources

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/ternarybob/arbor"
	"golang.org/x/time/rate"
)

const defaultUserAgent = "JobSearchTool/1.0 (github.com/jobsearch)"

// Client is a throttled HTTP client shared by the source adapters. One
// request per RateLimitDelay, enforced with a token bucket so concurrent
// sources sharing a client stay polite.
type Client struct {
	http    *http.Client
	limiter *rate.Limiter
	logger  arbor.ILogger
}

// NewClient creates a client with the given request timeout and minimum
// delay between requests
func NewClient(timeout, delay time.Duration, logger arbor.ILogger) *Client {
	if delay <= 0 {
		delay = time.Second
	}
	return &Client{
		http:    &http.Client{Timeout: timeout},
		limiter: rate.NewLimiter(rate.Every(delay), 1),
		logger:  logger,
	}
}

// Do performs a throttled request and fails on non-2xx statuses. The
// response body is returned fully read.
func (c *Client) Do(ctx context.Context, method, rawURL string, params url.Values, headers map[string]string, body io.Reader) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	if len(params) > 0 {
		sep := "?"
		if u, err := url.Parse(rawURL); err == nil && u.RawQuery != "" {
			sep = "&"
		}
		rawURL = rawURL + sep + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, body)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("User-Agent", defaultUserAgent)
	req.Header.Set("Accept", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected status %d from %s", resp.StatusCode, req.URL.Host)
	}
	return data, nil
}

// GetJSON performs a throttled GET and decodes the JSON response into out
func (c *Client) GetJSON(ctx context.Context, rawURL string, params url.Values, headers map[string]string, out interface{}) error {
	data, err := c.Do(ctx, http.MethodGet, rawURL, params, headers, nil)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// GetBytes performs a throttled GET and returns the raw body. Used for
// RSS feeds and HTML pages.
func (c *Client) GetBytes(ctx context.Context, rawURL string, params url.Values, headers map[string]string) ([]byte, error) {
	return c.Do(ctx, http.MethodGet, rawURL, params, headers, nil)
}

// PostJSON performs a throttled POST with a JSON body and decodes the
// JSON response into out
func (c *Client) PostJSON(ctx context.Context, rawURL string, payload interface{}, headers map[string]string, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}
	if headers == nil {
		headers = map[string]string{}
	}
	headers["Content-Type"] = "application/json"

	data, err := c.Do(ctx, http.MethodPost, rawURL, nil, headers, bytes.NewReader(body))
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
