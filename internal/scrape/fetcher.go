package scrape

import (
	"bytes"
	"context"
	"io"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/invisible-growth/leadfinder/internal/resilience"
)

const (
	maxBodyBytes = 4 * 1024 * 1024
	userAgent    = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36"
)

// Fetcher retrieves pages and parses them for extraction. Transient HTTP
// failures retry with backoff; a block page fails permanently so callers can
// switch to a saved-page or AI workflow instead of hammering the authwall.
type Fetcher struct {
	client *http.Client
	retry  resilience.RetryConfig
}

// Option configures the fetcher.
type Option func(*Fetcher)

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(f *Fetcher) {
		f.client = hc
	}
}

// WithTimeout overrides the default request timeout.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.client.Timeout = d
	}
}

// WithRetry overrides the default retry policy. The retry logger is kept
// unless the config brings its own OnRetry callback.
func WithRetry(cfg resilience.RetryConfig) Option {
	return func(f *Fetcher) {
		if cfg.OnRetry == nil {
			cfg.OnRetry = f.retry.OnRetry
		}
		f.retry = cfg
	}
}

func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		client: &http.Client{
			Timeout: 15 * time.Second,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: 10 * time.Second,
				}).DialContext,
				TLSHandshakeTimeout: 10 * time.Second,
			},
		},
		retry: resilience.DefaultRetryConfig(),
	}
	f.retry.OnRetry = resilience.RetryLogger("scrape", "fetch")
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch retrieves targetURL and returns the parsed document.
func (f *Fetcher) Fetch(ctx context.Context, targetURL string) (*goquery.Document, error) {
	return resilience.DoVal(ctx, f.retry, func(ctx context.Context) (*goquery.Document, error) {
		return f.fetchOnce(ctx, targetURL)
	})
}

func (f *Fetcher) fetchOnce(ctx context.Context, targetURL string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, nil)
	if err != nil {
		return nil, eris.Wrap(err, "scrape: create request")
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, resilience.NewTransientError(eris.Wrap(err, "scrape: fetch"), 0)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, resilience.NewTransientError(eris.Wrap(err, "scrape: read body"), 0)
	}

	if blocked, blockType := DetectBlock(resp, body); blocked {
		zap.L().Warn("scrape: page blocked",
			zap.String("url", targetURL),
			zap.String("block_type", string(blockType)))
		err := eris.Errorf("scrape: blocked (%s)", blockType)
		// Rate limiting clears on its own; authwalls and captchas do not.
		if blockType == BlockRateLimit {
			return nil, resilience.NewTransientError(err, resp.StatusCode)
		}
		return nil, err
	}

	if resp.StatusCode >= 400 {
		err := eris.Errorf("scrape: status %d", resp.StatusCode)
		if resilience.IsTransientHTTPStatus(resp.StatusCode) {
			return nil, resilience.NewTransientError(err, resp.StatusCode)
		}
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, eris.Wrap(err, "scrape: parse HTML")
	}
	return doc, nil
}

// FetchFile parses a saved page from disk. Profile pages are usually saved
// from an authenticated browser session, which sidesteps the authwall
// entirely.
func (f *Fetcher) FetchFile(path string) (*goquery.Document, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "scrape: open %s", path)
	}
	defer func() { _ = file.Close() }()

	doc, err := goquery.NewDocumentFromReader(file)
	if err != nil {
		return nil, eris.Wrapf(err, "scrape: parse %s", path)
	}
	return doc, nil
}

// Parse reads a page from an arbitrary reader, typically stdin.
func Parse(r io.Reader) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, eris.Wrap(err, "scrape: parse HTML")
	}
	return doc, nil
}
