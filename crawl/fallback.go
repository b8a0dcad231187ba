package crawl

import (
	"context"
	"log/slog"

	"github.com/sitedigest/sitedigest"
)

var _ sitedigest.FetchStrategy = (*FallbackFetcher)(nil)

// FallbackFetcher layers fetch strategies: cheap primaries are tried in
// order, and a single escalation strategy (typically a headless browser) is
// consulted at most once per page, only when every primary result is
// missing, challenged, or too thin to carry real content.
type FallbackFetcher struct {
	primaries []sitedigest.FetchStrategy
	escalate  sitedigest.FetchStrategy
	threshold int
	logger    *slog.Logger
}

// NewFallbackFetcher creates a FallbackFetcher. escalate may be nil, in
// which case pages that defeat the primaries are reported as unavailable.
func NewFallbackFetcher(primaries []sitedigest.FetchStrategy, escalate sitedigest.FetchStrategy, logger *slog.Logger) *FallbackFetcher {
	return &FallbackFetcher{
		primaries: primaries,
		escalate:  escalate,
		threshold: sitedigest.DefaultThinThreshold,
		logger:    logger,
	}
}

// Name identifies the strategy in logs.
func (f *FallbackFetcher) Name() string { return "fallback" }

// Fetch tries each primary in order and returns the first sound result.
// An unsound result (nil, challenge page, or thin body) triggers the
// escalation strategy exactly once; a non-nil escalated result supersedes
// whatever the primaries produced. Fetch returns (nil, nil) when every
// layer comes up empty.
func (f *FallbackFetcher) Fetch(ctx context.Context, rawURL string) (*sitedigest.PageContent, error) {
	var candidate *sitedigest.PageContent

	for _, primary := range f.primaries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		page, err := primary.Fetch(ctx, rawURL)
		if err != nil {
			return nil, err
		}
		if page == nil {
			continue
		}

		cause, ok := f.diagnose(page)
		if ok {
			return page, nil
		}
		f.logger.Warn("fetched page looks blocked or empty",
			slog.String("strategy", primary.Name()),
			slog.String("url", rawURL),
			slog.String("cause", cause))
		if candidate == nil {
			candidate = page
		}
	}

	if f.escalate == nil {
		return candidate, nil
	}

	page, err := f.escalate.Fetch(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	if page != nil {
		if cause, ok := f.diagnose(page); !ok {
			f.logger.Warn("escalated fetch still looks blocked",
				slog.String("url", rawURL),
				slog.String("cause", cause))
		}
		return page, nil
	}

	return candidate, nil
}

// diagnose classifies a fetched page. The bool result is true when the page
// is sound; otherwise cause names what disqualified it.
func (f *FallbackFetcher) diagnose(page *sitedigest.PageContent) (cause string, ok bool) {
	if sig, found := sitedigest.DetectChallenge(page.RawHTML); found {
		return "challenge: " + sig, false
	}
	if sitedigest.IsTooThin(page.RawHTML, f.threshold) {
		return "thin response", false
	}
	return "", true
}
