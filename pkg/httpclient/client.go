// Package httpclient wraps net/http with the identifying user-agent
// and timeout policy shared by every outbound request the harvester
// makes.
package httpclient

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// UserAgent identifies the harvester to remote feed and article
// servers.
const UserAgent = "Mozilla/5.0 (compatible; DailyNewsBot/1.0; +https://github.com)"

// Client is an http.Client wrapper applying the shared headers.
type Client struct {
	client *http.Client
}

// New creates a client with the given per-request timeout. A zero
// timeout means no limit.
func New(timeout time.Duration) *Client {
	return &Client{
		client: &http.Client{
			Timeout: timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				// Follow up to 10 redirects
				if len(via) >= 10 {
					return http.ErrUseLastResponse
				}
				return nil
			},
		},
	}
}

// Do executes req with the shared headers applied.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	req.Header.Set("User-Agent", UserAgent)
	return c.client.Do(req)
}

// Get issues a GET for url under ctx.
func (c *Client) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	return c.Do(req)
}

// GetString issues a GET and returns the body text together with the
// response content-type. Non-2xx statuses are errors.
func (c *Client) GetString(ctx context.Context, url string) (body, contentType string, err error) {
	resp, err := c.Get(ctx, url)
	if err != nil {
		return "", "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", "", fmt.Errorf("unexpected status code %d for %s", resp.StatusCode, url)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", "", fmt.Errorf("failed to read response body: %w", err)
	}
	return string(data), resp.Header.Get("Content-Type"), nil
}
