package sitedigest

import (
	"context"
	"time"
)

// PageContent is a snapshot of a page as it moves through the pipeline.
// Each stage produces a new value via the With* methods rather than
// mutating shared state, so stages stay independently testable.
type PageContent struct {
	URL        string
	Title      string
	Extracted  string // Markdown, filled by the extraction stage
	RawHTML    string
	FetchedAt  time.Time
	Skipped    bool
	SkipReason string
}

// WithExtracted returns a copy with the extracted content and, when the
// fetch stage produced no title, the extraction-stage title filled in.
func (p PageContent) WithExtracted(title, markdown string) PageContent {
	if p.Title == "" {
		p.Title = title
	}
	p.Extracted = markdown
	return p
}

// WithSkip returns a copy marked as skipped with the given reason.
func (p PageContent) WithSkip(reason string) PageContent {
	p.Skipped = true
	p.SkipReason = reason
	return p
}

// FetchStrategy turns a URL into raw page content.
//
// A (nil, nil) result means the page is not available through this strategy;
// ordinary network and parsing failures are reported the same way so the
// caller can fall back to the next strategy. Errors are reserved for context
// cancellation.
type FetchStrategy interface {
	Fetch(ctx context.Context, url string) (*PageContent, error)

	// Name identifies the strategy in logs ("wordpress-cache", "http", "headless").
	Name() string
}
