package crawl

import (
	"context"
	"log/slog"

	"github.com/sitedigest/sitedigest"
)

// Composite runs discovery strategies in order and adopts the result of the
// first strategy that yields at least one URL. Later strategies are never
// consulted once one succeeds, so a partial sitemap shadows a full crawl.
type Composite struct {
	strategies []sitedigest.DiscoveryStrategy
	logger     *slog.Logger
}

// NewComposite creates a Composite over the given strategies, tried in the
// order given.
func NewComposite(logger *slog.Logger, strategies ...sitedigest.DiscoveryStrategy) *Composite {
	return &Composite{
		strategies: strategies,
		logger:     logger,
	}
}

// Discover returns the first non-empty strategy result, deduplicated by
// canonical URL and capped at cfg.MaxPages. It returns an empty list when
// every strategy comes up empty.
func (c *Composite) Discover(ctx context.Context, cfg *sitedigest.RunConfig) ([]sitedigest.DiscoveredURL, error) {
	for _, strategy := range c.strategies {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		urls, err := strategy.Discover(ctx, cfg)
		if err != nil {
			return nil, err
		}
		if len(urls) == 0 {
			c.logger.Debug("discovery strategy yielded nothing",
				slog.String("method", string(strategy.Method())))
			continue
		}

		deduped := dedupe(urls, cfg.MaxPages)
		c.logger.Info("discovery complete",
			slog.String("method", string(strategy.Method())),
			slog.Int("urls", len(deduped)))
		return deduped, nil
	}

	c.logger.Warn("all discovery strategies yielded nothing",
		slog.String("root_url", cfg.RootURL))
	return nil, nil
}

// dedupe collapses duplicates by canonical URL, keeping first occurrence
// order, and truncates the result to max entries.
func dedupe(urls []sitedigest.DiscoveredURL, max int) []sitedigest.DiscoveredURL {
	seen := make(map[string]bool, len(urls))
	out := make([]sitedigest.DiscoveredURL, 0, len(urls))
	for _, u := range urls {
		key := sitedigest.Canonicalize(u.URL)
		if seen[key] {
			continue
		}
		seen[key] = true
		u.URL = key
		out = append(out, u)
		if len(out) == max {
			break
		}
	}
	return out
}
