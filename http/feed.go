package http

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/beevik/etree"
	"github.com/sitedigest/sitedigest"
)

// feedPaths are the conventional RSS/Atom feed locations, tried in order.
var feedPaths = []string{"/feed/", "/rss.xml", "/atom.xml", "/index.xml"}

// Ensure FeedStrategy implements sitedigest.DiscoveryStrategy.
var _ sitedigest.DiscoveryStrategy = (*FeedStrategy)(nil)

// FeedStrategy discovers URLs from RSS and Atom feeds at conventional
// locations. The first link of each item/entry is taken; malformed or
// unreachable feeds are swallowed and the next candidate path is tried.
type FeedStrategy struct {
	client *http.Client
}

// NewFeedStrategy creates a FeedStrategy with the given HTTP client.
// If client is nil, http.DefaultClient is used.
func NewFeedStrategy(client *http.Client) *FeedStrategy {
	if client == nil {
		client = http.DefaultClient
	}
	return &FeedStrategy{client: client}
}

// Method implements sitedigest.DiscoveryStrategy.
func (s *FeedStrategy) Method() sitedigest.DiscoveryMethod { return sitedigest.MethodFeed }

// Discover tries each conventional feed path and returns the item URLs of
// the first feed that yields results.
func (s *FeedStrategy) Discover(ctx context.Context, cfg *sitedigest.RunConfig) ([]sitedigest.DiscoveredURL, error) {
	base, err := url.Parse(cfg.RootURL)
	if err != nil {
		return nil, nil
	}

	for _, path := range feedPaths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		candidate := base.ResolveReference(&url.URL{Path: path})
		links := s.parseFeed(ctx, candidate.String())

		var out []sitedigest.DiscoveredURL
		dedup := make(map[string]bool)
		for _, link := range links {
			canonical := sitedigest.Canonicalize(link)
			if dedup[canonical] {
				continue
			}
			if cfg.SameHostOnly && !sitedigest.SameHost(canonical, cfg.RootURL) {
				continue
			}
			dedup[canonical] = true
			out = append(out, sitedigest.DiscoveredURL{
				URL:    canonical,
				Method: sitedigest.MethodFeed,
			})
		}

		if len(out) > 0 {
			return out, nil
		}
	}

	return nil, nil
}

// parseFeed fetches and parses one feed document, handling both RSS
// (<channel><item><link>text</link>) and Atom (<entry><link href=""/>).
func (s *FeedStrategy) parseFeed(ctx context.Context, feedURL string) []string {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, nil)
	if err != nil {
		return nil
	}
	req.Header.Set("User-Agent", defaultUserAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil
	}

	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(resp.Body); err != nil {
		return nil
	}

	root := doc.Root()
	if root == nil {
		return nil
	}

	switch root.Tag {
	case "rss":
		return rssLinks(root)
	case "feed":
		return atomLinks(root)
	default:
		return nil
	}
}

// rssLinks extracts the first <link> text per <item>.
func rssLinks(root *etree.Element) []string {
	channel := root.SelectElement("channel")
	if channel == nil {
		return nil
	}
	var links []string
	for _, item := range channel.SelectElements("item") {
		link := item.SelectElement("link")
		if link == nil {
			continue
		}
		if u := strings.TrimSpace(link.Text()); u != "" {
			links = append(links, u)
		}
	}
	return links
}

// atomLinks extracts the first <link href> per <entry>, preferring
// rel="alternate" links.
func atomLinks(root *etree.Element) []string {
	var links []string
	for _, entry := range root.SelectElements("entry") {
		var href string
		for _, link := range entry.SelectElements("link") {
			rel := link.SelectAttrValue("rel", "alternate")
			h := strings.TrimSpace(link.SelectAttrValue("href", ""))
			if h == "" {
				continue
			}
			if href == "" || rel == "alternate" {
				href = h
			}
			if rel == "alternate" {
				break
			}
		}
		if href != "" {
			links = append(links, href)
		}
	}
	return links
}
