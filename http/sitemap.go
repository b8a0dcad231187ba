package http

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/beevik/etree"
	"github.com/sitedigest/sitedigest"
)

// sitemapPaths are the conventional sitemap locations, tried in order.
// The first candidate that yields at least one usable URL wins.
var sitemapPaths = []string{"/sitemap.xml", "/sitemap_index.xml", "/wp-sitemap.xml"}

// Ensure SitemapStrategy implements sitedigest.DiscoveryStrategy.
var _ sitedigest.DiscoveryStrategy = (*SitemapStrategy)(nil)

// SitemapStrategy discovers URLs from conventional sitemap locations.
// Sitemap indexes are resolved recursively; malformed or unreachable
// documents are swallowed and the next candidate path is tried.
type SitemapStrategy struct {
	client *http.Client
}

// NewSitemapStrategy creates a SitemapStrategy with the given HTTP client.
// If client is nil, http.DefaultClient is used.
func NewSitemapStrategy(client *http.Client) *SitemapStrategy {
	if client == nil {
		client = http.DefaultClient
	}
	return &SitemapStrategy{client: client}
}

// Method implements sitedigest.DiscoveryStrategy.
func (s *SitemapStrategy) Method() sitedigest.DiscoveryMethod { return sitedigest.MethodSitemap }

// Discover tries each conventional sitemap path and returns the URLs of the
// first one that yields results. Expected failures return (nil, nil).
func (s *SitemapStrategy) Discover(ctx context.Context, cfg *sitedigest.RunConfig) ([]sitedigest.DiscoveredURL, error) {
	base, err := url.Parse(cfg.RootURL)
	if err != nil {
		return nil, nil
	}

	for _, path := range sitemapPaths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		candidate := base.ResolveReference(&url.URL{Path: path})
		seen := make(map[string]bool)
		urls := s.processSitemap(ctx, candidate.String(), seen)

		var out []sitedigest.DiscoveredURL
		dedup := make(map[string]bool)
		for _, u := range urls {
			canonical := sitedigest.Canonicalize(u)
			if dedup[canonical] {
				continue
			}
			if cfg.SameHostOnly && !sitedigest.SameHost(canonical, cfg.RootURL) {
				continue
			}
			dedup[canonical] = true
			out = append(out, sitedigest.DiscoveredURL{
				URL:    canonical,
				Method: sitedigest.MethodSitemap,
			})
		}

		if len(out) > 0 {
			return out, nil
		}
	}

	return nil, nil
}

// processSitemap fetches and parses one sitemap document, recursing into
// <sitemapindex> children. Failures yield an empty result.
func (s *SitemapStrategy) processSitemap(ctx context.Context, sitemapURL string, seen map[string]bool) []string {
	if ctx.Err() != nil || seen[sitemapURL] {
		return nil
	}
	seen[sitemapURL] = true

	body, err := s.fetchURL(ctx, sitemapURL)
	if err != nil {
		return nil
	}
	defer body.Close()

	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(body); err != nil {
		return nil
	}

	root := doc.Root()
	if root == nil {
		return nil
	}

	if root.Tag == "sitemapindex" {
		var all []string
		for _, child := range root.SelectElements("sitemap") {
			loc := child.SelectElement("loc")
			if loc == nil {
				continue
			}
			childURL := strings.TrimSpace(loc.Text())
			if childURL == "" {
				continue
			}
			all = append(all, s.processSitemap(ctx, childURL, seen)...)
		}
		return all
	}

	var urls []string
	for _, urlEl := range root.SelectElements("url") {
		loc := urlEl.SelectElement("loc")
		if loc == nil {
			continue
		}
		if u := strings.TrimSpace(loc.Text()); u != "" {
			urls = append(urls, u)
		}
	}
	return urls
}

// fetchURL fetches a URL and returns the response body.
func (s *SitemapStrategy) fetchURL(ctx context.Context, targetURL string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", defaultUserAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, sitedigest.Errorf(sitedigest.EUNAVAILABLE, "HTTP %d for %s", resp.StatusCode, targetURL)
	}
	return resp.Body, nil
}
