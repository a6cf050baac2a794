// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fetch retrieves remote XHTML inputs over HTTP with rate-limit
// retries and declared-charset decoding.
// See docs/ARCHITECTURE § Fetch.
package fetch

import (
	"context"
	"fmt"
	"io"
	"math"
	"mime"
	"net/http"
	"strings"
	"time"

	"golang.org/x/text/encoding/htmlindex"

	"github.com/pdiddy/xhtml2html/pkg/types"
)

// RetryBaseDelay controls the base duration for exponential backoff on
// HTTP 429 responses. Tests override this to avoid real sleeps.
var RetryBaseDelay = 10 * time.Second

const defaultMaxRetries = 5

// IsURL reports whether s looks like a fetchable http(s) URL rather
// than a local file path.
func IsURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// NewClient builds an HTTP client with the configured timeout.
func NewClient(cfg types.FetchConfig) *http.Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &http.Client{Timeout: timeout}
}

// Fetch downloads the document at rawURL and returns its bytes decoded
// to UTF-8 when the response declares a charset. tokens maps hostnames
// to bearer tokens for hosts that require authentication.
func Fetch(ctx context.Context, client *http.Client, rawURL string, cfg types.FetchConfig, tokens map[string]string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("building request for %s: %w", rawURL, err)
	}
	if cfg.UserAgent != "" {
		req.Header.Set("User-Agent", cfg.UserAgent)
	}
	if tok := tokens[req.URL.Host]; tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	resp, err := doWithRetry(ctx, client, req, cfg.MaxRetries)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching %s: HTTP %d", rawURL, resp.StatusCode)
	}

	body, err := decodeBody(resp)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", rawURL, err)
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", rawURL, err)
	}
	return data, nil
}

// doWithRetry executes an HTTP request and retries on HTTP 429 with
// exponential backoff starting at RetryBaseDelay. On each 429 the
// response body is drained and closed before sleeping. If the context
// is cancelled during a backoff wait the context error is returned.
// After exhausting retries the last 429 response is returned so the
// caller can inspect it.
func doWithRetry(ctx context.Context, client *http.Client, req *http.Request, maxRetries int) (*http.Response, error) {
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}

	for attempt := 0; ; attempt++ {
		resp, err := client.Do(req.Clone(ctx))
		if err != nil {
			return nil, err
		}

		if resp.StatusCode != http.StatusTooManyRequests {
			return resp, nil
		}

		// Exhausted retries — return the 429 response as-is.
		if attempt >= maxRetries {
			return resp, nil
		}

		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()

		backoff := time.Duration(math.Pow(2, float64(attempt))) * RetryBaseDelay
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
	}
}

// decodeBody wraps the response body in a charset decoder when the
// Content-Type declares a non-UTF-8 charset. Without a declared
// charset the body passes through untouched; the converter honors the
// document's own declaration.
func decodeBody(resp *http.Response) (io.Reader, error) {
	ct := resp.Header.Get("Content-Type")
	if ct == "" {
		return resp.Body, nil
	}
	_, params, err := mime.ParseMediaType(ct)
	if err != nil {
		return resp.Body, nil
	}
	label := params["charset"]
	if label == "" || strings.EqualFold(label, "utf-8") {
		return resp.Body, nil
	}
	enc, err := htmlindex.Get(label)
	if err != nil {
		return nil, fmt.Errorf("unsupported charset %q: %w", label, err)
	}
	return enc.NewDecoder().Reader(resp.Body), nil
}
