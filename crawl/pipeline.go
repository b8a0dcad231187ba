package crawl

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/sitedigest/sitedigest"
	"golang.org/x/sync/errgroup"
)

// Pipeline drives the per-page loop: fetch, extract, convert, consult the
// manifest, summarize, and write. Fields are collaborators wired at startup;
// optional ones (Summarizer, Writer, Archive) may be nil.
type Pipeline struct {
	Fetcher    sitedigest.FetchStrategy
	Extractor  sitedigest.Extractor
	Converter  sitedigest.Converter
	Summarizer sitedigest.Summarizer
	Writer     sitedigest.SummaryWriter
	Archive    sitedigest.PageArchive
	Limiter    sitedigest.DomainLimiter
	Logger     *slog.Logger

	// Concurrency bounds the worker pool. Values below 1 mean sequential,
	// which keeps per-host pacing exact and is the default.
	Concurrency int
}

// Stats summarizes a pipeline run.
type Stats struct {
	Processed int // pages summarized and written this run
	Cached    int // pages skipped because the manifest hash matched
	Skipped   int // pages fetched but carrying no usable content
	Failed    int // pages no fetch layer could produce
}

// pageResult carries one worker's outcome to the collector.
type pageResult struct {
	url     string
	page    sitedigest.PageContent
	hash    string
	fetched bool
	err     error
}

// Run processes the discovered URLs against the manifest. The manifest is
// consulted and mutated only by the collecting goroutine; workers never
// touch it. When dryRun is set, summarization and writing are skipped and
// the manifest is left unchanged.
func (p *Pipeline) Run(ctx context.Context, cfg *sitedigest.RunConfig, urls []sitedigest.DiscoveredURL, manifest *sitedigest.Manifest) (*Stats, error) {
	root, err := url.Parse(cfg.RootURL)
	if err != nil {
		return nil, sitedigest.Errorf(sitedigest.EINVALID, "invalid root URL %q: %v", cfg.RootURL, err)
	}

	concurrency := p.Concurrency
	if concurrency < 1 {
		concurrency = 1
	}

	resultCh := make(chan pageResult, len(urls))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	go func() {
		for _, u := range urls {
			u := u
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					resultCh <- pageResult{url: u.URL, err: err}
					return nil
				}
				resultCh <- p.processURL(gctx, root.Host, u)
				return nil
			})
		}
		_ = g.Wait()
		close(resultCh)
	}()

	stats := &Stats{}
	for result := range resultCh {
		if err := p.collect(ctx, cfg, manifest, result, stats); err != nil {
			return stats, err
		}
	}

	if err := ctx.Err(); err != nil {
		return stats, err
	}

	p.Logger.Info("run complete",
		slog.Int("processed", stats.Processed),
		slog.Int("cached", stats.Cached),
		slog.Int("skipped", stats.Skipped),
		slog.Int("failed", stats.Failed))
	return stats, nil
}

// processURL fetches, extracts, and hashes one page. Manifest decisions are
// left to the collector.
func (p *Pipeline) processURL(ctx context.Context, host string, u sitedigest.DiscoveredURL) pageResult {
	result := pageResult{url: u.URL}

	if err := p.Limiter.Wait(ctx, host); err != nil {
		result.err = err
		return result
	}

	page, err := p.Fetcher.Fetch(ctx, u.URL)
	if err != nil {
		result.err = err
		return result
	}
	if page == nil {
		return result
	}
	result.fetched = true

	if p.Archive != nil {
		snap := &sitedigest.PageSnapshot{
			URL:       page.URL,
			Title:     page.Title,
			RawHTML:   page.RawHTML,
			FetchedAt: page.FetchedAt,
		}
		if err := p.Archive.CreateSnapshot(ctx, snap); err != nil {
			p.Logger.Warn("page archive write failed",
				slog.String("url", u.URL),
				slog.String("error", err.Error()))
		}
	}

	extracted, err := p.Extractor.Extract(page.RawHTML)
	if err != nil || extracted == nil || extracted.ContentHTML == "" {
		result.page = page.WithSkip("no extractable content")
		return result
	}

	markdown, err := p.Converter.Convert(extracted.ContentHTML)
	if err != nil || markdown == "" {
		result.page = page.WithSkip("markdown conversion produced nothing")
		return result
	}

	result.page = page.WithExtracted(extracted.Title, markdown)
	result.hash = fmt.Sprintf("%016x", xxhash.Sum64String(markdown))
	return result
}

// collect applies one worker result to the stats and, outside dry runs,
// the manifest. It is the only code path that reads or writes the manifest.
func (p *Pipeline) collect(ctx context.Context, cfg *sitedigest.RunConfig, manifest *sitedigest.Manifest, result pageResult, stats *Stats) error {
	if result.err != nil {
		if ctx.Err() != nil {
			return result.err
		}
		stats.Failed++
		p.Logger.Warn("page failed",
			slog.String("url", result.url),
			slog.String("error", result.err.Error()))
		return nil
	}
	if !result.fetched {
		stats.Failed++
		p.Logger.Warn("no fetch strategy produced the page", slog.String("url", result.url))
		return nil
	}
	if result.page.Skipped {
		stats.Skipped++
		p.Logger.Info("page skipped",
			slog.String("url", result.url),
			slog.String("reason", result.page.SkipReason))
		return nil
	}

	if manifest.IsHit(result.url, result.hash) {
		stats.Cached++
		p.Logger.Debug("content unchanged, reusing cached output", slog.String("url", result.url))
		return nil
	}

	if cfg.DryRun {
		stats.Processed++
		p.Logger.Info("would summarize", slog.String("url", result.url))
		return nil
	}

	summary, err := p.Summarizer.Summarize(ctx, result.page)
	if err != nil {
		stats.Failed++
		p.Logger.Warn("summarization failed",
			slog.String("url", result.url),
			slog.String("error", err.Error()))
		return nil
	}

	relPath, err := p.Writer.WriteSummary(ctx, result.page, summary)
	if err != nil {
		stats.Failed++
		p.Logger.Warn("summary write failed",
			slog.String("url", result.url),
			slog.String("error", err.Error()))
		return nil
	}

	manifest.Set(result.url, sitedigest.ManifestEntry{
		ContentHash: result.hash,
		OutputPath:  relPath,
		GeneratedAt: time.Now().UTC(),
		Title:       result.page.Title,
	})
	stats.Processed++
	p.Logger.Info("page summarized",
		slog.String("url", result.url),
		slog.String("output", relPath))
	return nil
}
