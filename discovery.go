package sitedigest

import "context"

// DiscoveryMethod tags how a URL was discovered.
type DiscoveryMethod string

// Discovery method tags, in the order strategies are normally tried.
const (
	MethodWordPress DiscoveryMethod = "wordpress"
	MethodSitemap   DiscoveryMethod = "sitemap"
	MethodFeed      DiscoveryMethod = "feed"
	MethodCrawl     DiscoveryMethod = "crawl"
)

// DiscoveredURL is a candidate page produced by a discovery strategy.
// Identity is the canonical URL string (absolute, fragment stripped).
type DiscoveredURL struct {
	URL    string
	Method DiscoveryMethod
	Depth  int
}

// DiscoveryStrategy turns run configuration into a list of candidate URLs.
//
// Expected failure modes (missing endpoint, malformed feed or sitemap,
// unreachable pages) return an empty list and a nil error so that strategy
// failure is silent and the next strategy can be tried. Only context
// cancellation and run-fatal conditions are returned as errors.
type DiscoveryStrategy interface {
	Discover(ctx context.Context, cfg *RunConfig) ([]DiscoveredURL, error)

	// Method returns the tag attached to URLs this strategy produces.
	Method() DiscoveryMethod
}
