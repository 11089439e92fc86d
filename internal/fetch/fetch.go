// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fetch provides the page and byte retrieval capability used by
// extractors. It is the only component that talks to publisher sites;
// the extraction core sees it through the narrow Fetcher interface and
// receives failures as plain errors.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/zotlink/zotlink/internal/httputil"
	"github.com/zotlink/zotlink/pkg/types"
)

// maxBodySize bounds response reads; publisher PDFs above this are
// almost certainly not papers.
const maxBodySize = 128 << 20

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// Fetcher is the capability extractors use to reach the network.
type Fetcher interface {
	// Page fetches the HTML of a URL.
	Page(ctx context.Context, url string) ([]byte, error)

	// Bytes fetches raw content (typically a PDF) from a URL.
	Bytes(ctx context.Context, url string) ([]byte, error)
}

// Client is the HTTP Fetcher. It sends a browser User-Agent and any
// configured cookies with every request and retries on HTTP 429.
type Client struct {
	http       *http.Client
	userAgent  string
	maxRetries int
	cookies    *Jar
}

// NewClient builds a Client from config. A zero UserAgent falls back to
// a browser string; publisher sites reject obvious non-browser agents.
func NewClient(cfg types.FetchConfig) *Client {
	ua := cfg.UserAgent
	if ua == "" {
		ua = defaultUserAgent
	}
	return &Client{
		http:       &http.Client{Timeout: cfg.Timeout},
		userAgent:  ua,
		maxRetries: cfg.MaxRetries,
		cookies:    NewJar(),
	}
}

// Cookies exposes the client's cookie jar for loading and inspection.
func (c *Client) Cookies() *Jar {
	return c.cookies
}

// Page fetches the HTML content of a URL.
func (c *Client) Page(ctx context.Context, url string) ([]byte, error) {
	return c.get(ctx, url, "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
}

// Bytes fetches raw content from a URL.
func (c *Client) Bytes(ctx context.Context, url string) ([]byte, error) {
	return c.get(ctx, url, "application/pdf,*/*")
}

func (c *Client) get(ctx context.Context, url, accept string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", accept)
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	if header := c.cookies.Header(); header != "" {
		req.Header.Set("Cookie", header)
	}

	resp, err := httputil.DoWithRetry(ctx, c.http, req, c.maxRetries)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d from %s", resp.StatusCode, url)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", url, err)
	}
	return body, nil
}
