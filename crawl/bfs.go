package crawl

import (
	"context"
	"log/slog"
	"net/url"

	"github.com/sitedigest/sitedigest"
)

var _ sitedigest.DiscoveryStrategy = (*BFS)(nil)

// frontierCapacity sizes the Bloom filter used for URL deduplication.
const frontierCapacity = 100_000

// frontierFPRate is the accepted false positive rate for deduplication.
// A false positive means an occasional page is skipped, never revisited.
const frontierFPRate = 0.001

// PageGetter fetches a URL and returns the raw HTML body.
type PageGetter interface {
	Get(ctx context.Context, rawURL string) (string, error)
}

// LinkExtractor parses HTML and returns absolute page links resolved
// against baseURL.
type LinkExtractor func(html, baseURL string, sameHostOnly bool) ([]string, error)

// BFS is the last-resort discovery strategy: a bounded breadth-first crawl
// from the root URL, following links up to the configured depth and page
// limits. Individual page failures contribute zero links and do not stop
// the crawl.
type BFS struct {
	getter  PageGetter
	extract LinkExtractor
	limiter sitedigest.DomainLimiter
	logger  *slog.Logger
}

// NewBFS creates a BFS crawl strategy.
func NewBFS(getter PageGetter, extract LinkExtractor, limiter sitedigest.DomainLimiter, logger *slog.Logger) *BFS {
	return &BFS{
		getter:  getter,
		extract: extract,
		limiter: limiter,
		logger:  logger,
	}
}

// Method returns the discovery method tag for crawled URLs.
func (b *BFS) Method() sitedigest.DiscoveryMethod { return sitedigest.MethodCrawl }

// Discover runs a breadth-first crawl from cfg.RootURL. Every dequeued URL
// counts toward cfg.MaxPages whether or not its fetch succeeds; links are
// followed only while the source page's depth is below cfg.MaxDepth.
func (b *BFS) Discover(ctx context.Context, cfg *sitedigest.RunConfig) ([]sitedigest.DiscoveredURL, error) {
	root, err := url.Parse(cfg.RootURL)
	if err != nil {
		return nil, sitedigest.Errorf(sitedigest.EINVALID, "invalid root URL %q: %v", cfg.RootURL, err)
	}

	frontier := NewFrontier(frontierCapacity, frontierFPRate)
	frontier.Push(sitedigest.DiscoveredURL{
		URL:    cfg.RootURL,
		Method: sitedigest.MethodCrawl,
		Depth:  0,
	})

	var discovered []sitedigest.DiscoveredURL

	for len(discovered) < cfg.MaxPages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		current, ok := frontier.Pop()
		if !ok {
			break
		}
		discovered = append(discovered, current)

		if current.Depth >= cfg.MaxDepth {
			continue
		}

		if err := b.limiter.Wait(ctx, root.Host); err != nil {
			return nil, err
		}

		html, err := b.getter.Get(ctx, current.URL)
		if err != nil {
			b.logger.Warn("crawl fetch failed, skipping links",
				slog.String("url", current.URL),
				slog.String("error", err.Error()))
			continue
		}

		links, err := b.extract(html, current.URL, cfg.SameHostOnly)
		if err != nil {
			b.logger.Warn("link extraction failed",
				slog.String("url", current.URL),
				slog.String("error", err.Error()))
			continue
		}

		for _, link := range links {
			// Stop enqueuing once the queue plus results cover the budget.
			if len(discovered)+frontier.Len() >= cfg.MaxPages {
				break
			}
			frontier.Push(sitedigest.DiscoveredURL{
				URL:    link,
				Method: sitedigest.MethodCrawl,
				Depth:  current.Depth + 1,
			})
		}
	}

	return discovered, nil
}
