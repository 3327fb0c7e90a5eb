// Package yahoo implements the price-data API client: a batched
// lightweight quote endpoint (spark) and a per-symbol historical
// endpoint (chart).
package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"indexbot/internal/httpx"
)

const defaultBaseURL = "https://query1.finance.yahoo.com"

// Client talks to the quote provider's HTTP endpoints.
type Client struct {
	baseURL string
	client  *httpx.Client
}

// Option is a configuration option for the Client.
type Option func(*Client)

// WithBaseURL overrides the API base URL.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

func New(hc *httpx.Client, options ...Option) *Client {
	c := &Client{baseURL: defaultBaseURL, client: hc}
	for _, option := range options {
		option(c)
	}
	return c
}

func (c *Client) get(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(ctx, req)
	if err != nil {
		return fmt.Errorf("performing request: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusTooManyRequests:
		return fmt.Errorf("rate limited: GET %s", url)
	default:
		return fmt.Errorf("GET %s -> %d", url, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}
