package mock

import (
	"context"

	"github.com/sitedigest/sitedigest"
)

var _ sitedigest.Summarizer = (*Summarizer)(nil)

// Summarizer is a mock implementation of sitedigest.Summarizer.
type Summarizer struct {
	SummarizeFn func(ctx context.Context, page sitedigest.PageContent) (*sitedigest.Summary, error)
}

func (s *Summarizer) Summarize(ctx context.Context, page sitedigest.PageContent) (*sitedigest.Summary, error) {
	return s.SummarizeFn(ctx, page)
}

var _ sitedigest.SummaryWriter = (*SummaryWriter)(nil)

// SummaryWriter is a mock implementation of sitedigest.SummaryWriter.
type SummaryWriter struct {
	WriteSummaryFn func(ctx context.Context, page sitedigest.PageContent, summary *sitedigest.Summary) (string, error)
}

func (w *SummaryWriter) WriteSummary(ctx context.Context, page sitedigest.PageContent, summary *sitedigest.Summary) (string, error) {
	return w.WriteSummaryFn(ctx, page, summary)
}
