// Package zoominfo provides a client for the ZoomInfo enrichment API and a
// token manager for its JWT credential lifecycle.
package zoominfo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"
)

// Default base URL for the ZoomInfo API.
const defaultBaseURL = "https://api.zoominfo.com"

// Tokens are valid for 60 minutes unless the API says otherwise.
const defaultTokenLifetime = 3600 * time.Second

// ErrNoMatch is returned by EnrichContact when the API has no contact for
// the given (name, company) pair. Absence of a match is an expected outcome,
// not a failure.
var ErrNoMatch = eris.New("zoominfo: no matching contact")

// Client defines the ZoomInfo API operations.
type Client interface {
	Authenticate(ctx context.Context) (jwt string, lifetime time.Duration, err error)
	EnrichContact(ctx context.Context, token, fullName, companyName string) (*Contact, error)
}

// Contact is a single enriched contact from /enrich/contact.
type Contact struct {
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email"`
	JobTitle    string `json:"jobTitle"`
	CompanyName string `json:"companyName"`
}

type authRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type authResponse struct {
	JWT string `json:"jwt"`
}

type matchPersonInput struct {
	FullName    string `json:"fullName"`
	CompanyName string `json:"companyName"`
}

type enrichRequest struct {
	MatchPersonInput []matchPersonInput `json:"matchPersonInput"`
	OutputFields     []string           `json:"outputFields"`
}

type enrichResponse struct {
	Data struct {
		Result []struct {
			Data []Contact `json:"data"`
		} `json:"result"`
	} `json:"data"`
}

// APIError is returned when ZoomInfo responds with a non-2xx status.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("zoominfo: HTTP %d: %s", e.StatusCode, e.Body)
}

// Option configures the httpClient.
type Option func(*httpClient)

// WithBaseURL overrides the default base URL.
func WithBaseURL(url string) Option {
	return func(c *httpClient) {
		c.baseURL = url
	}
}

// WithHTTPClient sets a custom *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

// WithRateLimit caps outbound request rate (requests per second).
func WithRateLimit(perSec int) Option {
	return func(c *httpClient) {
		if perSec > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(perSec), perSec)
		}
	}
}

// httpClient implements Client using net/http.
type httpClient struct {
	username string
	password string
	baseURL  string
	http     *http.Client
	limiter  *rate.Limiter
}

// NewClient creates a ZoomInfo client. Credentials come from configuration;
// the API exchanges them for a JWT via Authenticate.
func NewClient(username, password string, opts ...Option) Client {
	c := &httpClient{
		username: username,
		password: password,
		baseURL:  defaultBaseURL,
		http: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *httpClient) Authenticate(ctx context.Context) (string, time.Duration, error) {
	var resp authResponse
	if err := c.post(ctx, "/authenticate", "", authRequest{
		Username: c.username,
		Password: c.password,
	}, &resp); err != nil {
		return "", 0, eris.Wrap(err, "zoominfo: authenticate")
	}
	if resp.JWT == "" {
		return "", 0, eris.New("zoominfo: no JWT in authentication response")
	}
	return resp.JWT, defaultTokenLifetime, nil
}

func (c *httpClient) EnrichContact(ctx context.Context, token, fullName, companyName string) (*Contact, error) {
	req := enrichRequest{
		MatchPersonInput: []matchPersonInput{{FullName: fullName, CompanyName: companyName}},
		OutputFields:     []string{"firstName", "lastName", "email", "jobTitle", "companyName"},
	}

	var resp enrichResponse
	if err := c.post(ctx, "/enrich/contact", token, req, &resp); err != nil {
		return nil, eris.Wrap(err, "zoominfo: enrich contact")
	}

	if len(resp.Data.Result) == 0 || len(resp.Data.Result[0].Data) == 0 {
		return nil, ErrNoMatch
	}

	contact := resp.Data.Result[0].Data[0]
	return &contact, nil
}

func (c *httpClient) post(ctx context.Context, path, token string, body any, out any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return eris.Wrap(err, "rate limit wait")
		}
	}

	buf, err := json.Marshal(body)
	if err != nil {
		return eris.Wrap(err, "marshal request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(buf))
	if err != nil {
		return eris.Wrap(err, "create request")
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return eris.Wrap(err, "execute request")
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return eris.Wrap(err, "read response body")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{
			StatusCode: resp.StatusCode,
			Body:       string(data),
		}
	}

	if err := json.Unmarshal(data, out); err != nil {
		return eris.Wrap(err, "decode response")
	}

	return nil
}
