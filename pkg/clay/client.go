// Package clay triggers the asynchronous Clay enrichment workflow through
// its n8n webhook. The workflow runs behind a gateway with a hard timeout,
// so the request timeout here must stay below that ceiling.
package clay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
)

// Default request timeout, under the gateway's 100s ceiling.
const defaultTimeout = 90 * time.Second

// ErrNoEmail is returned when the workflow responds without an email field.
var ErrNoEmail = eris.New("clay: no email returned")

// Client triggers the enrichment workflow.
type Client interface {
	Enrich(ctx context.Context, name, company string) (email string, err error)
}

type enrichRequest struct {
	Name    string `json:"name"`
	Company string `json:"company"`
}

type enrichResponse struct {
	Email string `json:"email"`
}

// APIError is returned when the webhook responds with a non-2xx status.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("clay: HTTP %d: %s", e.StatusCode, e.Body)
}

// Option configures the httpClient.
type Option func(*httpClient)

// WithTimeout overrides the default request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *httpClient) {
		c.http.Timeout = d
	}
}

// WithHTTPClient sets a custom *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

// httpClient implements Client using net/http.
type httpClient struct {
	webhookURL string
	http       *http.Client
}

// NewClient creates a Clay workflow client for the given webhook URL.
func NewClient(webhookURL string, opts ...Option) Client {
	c := &httpClient{
		webhookURL: webhookURL,
		http: &http.Client{
			Timeout: defaultTimeout,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Enrich posts (name, company) to the workflow and waits for its response.
// The call blocks for the workflow's full duration, up to the configured
// timeout; callers run it from a detached goroutine.
func (c *httpClient) Enrich(ctx context.Context, name, company string) (string, error) {
	buf, err := json.Marshal(enrichRequest{Name: name, Company: company})
	if err != nil {
		return "", eris.Wrap(err, "clay: marshal request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.webhookURL, bytes.NewReader(buf))
	if err != nil {
		return "", eris.Wrap(err, "clay: create request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", eris.Wrap(err, "clay: execute request")
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", eris.Wrap(err, "clay: read response body")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &APIError{
			StatusCode: resp.StatusCode,
			Body:       string(data),
		}
	}

	var out enrichResponse
	if err := json.Unmarshal(data, &out); err != nil {
		return "", eris.Wrap(err, "clay: decode response")
	}
	if out.Email == "" {
		return "", ErrNoEmail
	}

	return out.Email, nil
}
