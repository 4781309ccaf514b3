package scrape

import (
	"net/http"
	"strings"
)

// BlockType describes the kind of block detected.
type BlockType string

const (
	BlockNone      BlockType = ""
	BlockAuthwall  BlockType = "authwall"
	BlockCaptcha   BlockType = "captcha"
	BlockRateLimit BlockType = "rate_limit"
)

// DetectBlock checks a fetched page for LinkedIn's anti-scraping responses.
// An authwall or checkpoint page parses fine but carries none of the profile
// content, so it has to be caught before extraction runs against it.
func DetectBlock(resp *http.Response, body []byte) (bool, BlockType) {
	if resp == nil {
		return false, BlockNone
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		return true, BlockRateLimit
	}

	lower := strings.ToLower(string(body))

	if resp.StatusCode == 403 || resp.StatusCode == 999 {
		return true, BlockAuthwall
	}

	// Login and signup interstitials.
	if strings.Contains(lower, "authwall") ||
		strings.Contains(lower, "signup/cold-join") ||
		strings.Contains(lower, "join linkedin to view") ||
		strings.Contains(lower, "sign in to view") {
		return true, BlockAuthwall
	}

	// Security checkpoint and challenge pages.
	if strings.Contains(lower, "checkpoint/challenge") ||
		strings.Contains(lower, "captcha") ||
		strings.Contains(lower, "recaptcha") ||
		strings.Contains(lower, "let's do a quick security check") {
		return true, BlockCaptcha
	}

	return false, BlockNone
}
