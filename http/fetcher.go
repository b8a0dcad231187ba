// Package http provides the HTTP-based discovery and fetch implementations:
// the plain GET fetch strategy, sitemap and feed discovery, and the
// WordPress REST client.
package http

import (
	"context"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/sitedigest/sitedigest"
	"github.com/sitedigest/sitedigest/goquery"
)

// DefaultFetchTimeout is the default timeout for HTTP requests.
const DefaultFetchTimeout = 10 * time.Second

// defaultUserAgent identifies requests as a regular desktop browser; many
// protection layers hard-block the Go default.
const defaultUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/126.0.0.0 Safari/537.36"

// sniffWindow bounds how much of a body is examined for HTML markers.
const sniffWindow = 4096

// maxBodyBytes caps response reads.
const maxBodyBytes = 10 * 1024 * 1024

// Ensure Fetcher implements sitedigest.FetchStrategy at compile time.
var _ sitedigest.FetchStrategy = (*Fetcher)(nil)

// Fetcher retrieves HTML pages with plain GET requests. It does not execute
// JavaScript; pages this strategy cannot serve escalate to the headless
// strategy via the fallback fetcher.
type Fetcher struct {
	client  *http.Client
	timeout time.Duration
	cookies []sitedigest.CookieEntry
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the timeout for HTTP requests.
// Defaults to DefaultFetchTimeout (10s) if not specified.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithCookies seeds the fetcher's cookie jar. Entries are filtered per
// target host at request time by the jar's domain matching.
func WithCookies(entries []sitedigest.CookieEntry) Option {
	return func(f *Fetcher) {
		f.cookies = entries
	}
}

// NewFetcher creates a new HTTP-based fetch strategy.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		timeout: DefaultFetchTimeout,
	}
	for _, opt := range opts {
		opt(f)
	}

	jar, _ := cookiejar.New(nil)
	f.client = &http.Client{
		Timeout: f.timeout,
		Jar:     jar,
	}

	return f
}

// Name implements sitedigest.FetchStrategy.
func (f *Fetcher) Name() string { return "http" }

// Fetch issues a GET and returns the page when the response carries HTML.
//
// The body is accepted if either the declared content type or a body sniff
// indicates HTML. A non-success status is still accepted when the body
// sniffs as HTML: protection pages routinely return their interstitial
// markup with a 403 or 503, and the challenge detector needs to see it.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*sitedigest.PageContent, error) {
	body, err := f.Get(ctx, rawURL)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, nil
	}

	title := goquery.Title(body)
	if title == "" {
		title = sitedigest.Slugify(rawURL)
	}

	return &sitedigest.PageContent{
		URL:       sitedigest.Canonicalize(rawURL),
		Title:     title,
		RawHTML:   body,
		FetchedAt: time.Now().UTC(),
	}, nil
}

// Get issues a GET and returns the body when it is (or sniffs as) HTML.
// Used directly by the session probe, which needs the raw body rather
// than a PageContent.
func (f *Fetcher) Get(ctx context.Context, rawURL string) (string, error) {
	resp, body, err := f.do(ctx, rawURL)
	if err != nil {
		return "", err
	}

	isHTML := declaresHTML(resp.Header.Get("Content-Type")) || SniffsHTML(body)
	if !isHTML {
		return "", sitedigest.Errorf(sitedigest.EUNAVAILABLE, "no HTML body for %s (HTTP %d)", rawURL, resp.StatusCode)
	}
	if resp.StatusCode >= 300 && !SniffsHTML(body) {
		return "", sitedigest.Errorf(sitedigest.EUNAVAILABLE, "HTTP %d for %s", resp.StatusCode, rawURL)
	}
	return body, nil
}

// do performs the request with browser-like headers and seeded cookies.
func (f *Fetcher) do(ctx context.Context, rawURL string) (*http.Response, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, "", err
	}
	req.Header.Set("User-Agent", defaultUserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	f.seedJar(req.URL)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, "", err
	}

	return resp, string(data), nil
}

// seedJar installs the configured cookie entries for the request host.
func (f *Fetcher) seedJar(u *url.URL) {
	if len(f.cookies) == 0 || f.client.Jar == nil {
		return
	}
	matched := sitedigest.FilterCookiesByHost(f.cookies, u.Hostname())
	if len(matched) == 0 {
		return
	}
	hc := make([]*http.Cookie, 0, len(matched))
	for _, c := range matched {
		hc = append(hc, &http.Cookie{Name: c.Name, Value: c.Value, Path: c.Path})
	}
	f.client.Jar.SetCookies(u, hc)
}

// declaresHTML reports whether a Content-Type header names an HTML type.
func declaresHTML(contentType string) bool {
	ct := strings.ToLower(contentType)
	return strings.Contains(ct, "text/html") || strings.Contains(ct, "application/xhtml")
}

// SniffsHTML reports whether a body looks like an HTML document: a doctype
// or one of the skeleton tags within the leading window.
func SniffsHTML(body string) bool {
	window := body
	if len(window) > sniffWindow {
		window = window[:sniffWindow]
	}
	window = strings.ToLower(window)
	return strings.Contains(window, "<!doctype") ||
		strings.Contains(window, "<html") ||
		strings.Contains(window, "<head") ||
		strings.Contains(window, "<body")
}

// Close releases resources. For the HTTP fetcher this is a no-op since
// http.Client doesn't require explicit cleanup.
func (f *Fetcher) Close() error {
	return nil
}
