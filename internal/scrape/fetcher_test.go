package scrape

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/invisible-growth/leadfinder/internal/resilience"
)

func fastRetry() resilience.RetryConfig {
	return resilience.RetryConfig{
		MaxAttempts:    3,
		InitialBackoff: time.Millisecond,
		MaxBackoff:     5 * time.Millisecond,
		Multiplier:     2.0,
	}
}

func TestFetchParsesDocument(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><body><main><h1>Jane Doe</h1>` + strings.Repeat("<p>profile content</p>", 50) + `</main></body></html>`))
	}))
	defer srv.Close()

	f := NewFetcher(WithRetry(fastRetry()))
	doc, err := f.Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", doc.Find("h1").Text())
}

func TestFetchRetriesOnServerError(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`<html><body><h1>Jane Doe</h1></body></html>`))
	}))
	defer srv.Close()

	f := NewFetcher(WithRetry(fastRetry()))
	doc, err := f.Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, int32(3), calls.Load())
	assert.Equal(t, "Jane Doe", doc.Find("h1").Text())
}

func TestFetchAuthwallIsPermanent(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte(`<html><body>Join LinkedIn to view this profile. /authwall</body></html>`))
	}))
	defer srv.Close()

	f := NewFetcher(WithRetry(fastRetry()))
	_, err := f.Fetch(context.Background(), srv.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "authwall")
	assert.Equal(t, int32(1), calls.Load(), "authwall must not be retried")
}

func TestFetchNotFoundIsPermanent(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	f := NewFetcher(WithRetry(fastRetry()))
	_, err := f.Fetch(context.Background(), srv.URL)
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestDetectBlock(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		body       string
		want       BlockType
	}{
		{"clean page", 200, "<html><main>profile</main></html>", BlockNone},
		{"rate limited", 429, "", BlockRateLimit},
		{"forbidden", 403, "", BlockAuthwall},
		{"linkedin 999", 999, "", BlockAuthwall},
		{"authwall marker", 200, "redirecting to /authwall?trk=x", BlockAuthwall},
		{"signup interstitial", 200, "Join LinkedIn to view this profile", BlockAuthwall},
		{"security checkpoint", 200, "checkpoint/challenge please verify", BlockCaptcha},
		{"captcha", 200, "complete the reCAPTCHA below", BlockCaptcha},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := &http.Response{StatusCode: tt.statusCode, Header: http.Header{}}
			blocked, blockType := DetectBlock(resp, []byte(tt.body))
			assert.Equal(t, tt.want, blockType)
			assert.Equal(t, tt.want != BlockNone, blocked)
		})
	}
}

func TestFetchFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.html")
	require.NoError(t, os.WriteFile(path, []byte(`<html><body><h1>Jane Doe</h1></body></html>`), 0o644))

	f := NewFetcher()
	doc, err := f.FetchFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", doc.Find("h1").Text())

	_, err = f.FetchFile(filepath.Join(t.TempDir(), "missing.html"))
	assert.Error(t, err)
}

func TestParse(t *testing.T) {
	doc, err := Parse(strings.NewReader(`<html><body><p>hello</p></body></html>`))
	require.NoError(t, err)
	assert.Equal(t, "hello", doc.Find("p").Text())
}
