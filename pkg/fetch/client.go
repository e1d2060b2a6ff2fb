// Package fetch provides the HTTP collaborator used to retrieve the
// remote settings document, the CLI tool archive, and published store
// archives.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

const userAgent = "local-db-remote/1.0"

// Client fetches remote resources as text or raw bytes.
type Client interface {
	Text(ctx context.Context, url string) (string, error)
	Binary(ctx context.Context, url string) ([]byte, error)
}

// HTTPClient is the default Client backed by net/http.
type HTTPClient struct {
	client *http.Client
}

// NewHTTPClient creates an HTTP client with a generous timeout; store
// archives can be large.
func NewHTTPClient() *HTTPClient {
	return &HTTPClient{
		client: &http.Client{Timeout: 10 * time.Minute},
	}
}

// Text fetches a URL and returns its body as a string.
func (c *HTTPClient) Text(ctx context.Context, url string) (string, error) {
	body, err := c.get(ctx, url)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// Binary fetches a URL and returns its raw body.
func (c *HTTPClient) Binary(ctx context.Context, url string) ([]byte, error) {
	return c.get(ctx, url)
}

func (c *HTTPClient) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request for %s: %w", url, err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request to %s failed: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("request to %s failed with status %s", url, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read body from %s: %w", url, err)
	}
	return body, nil
}
