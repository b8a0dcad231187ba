package sitedigest

import "context"

// Summary is the output of the summarization collaborator.
type Summary struct {
	// Text is the generated summary. The core does not inspect it.
	Text string

	// Model identifies the model that produced the summary.
	Model string
}

// Summarizer generates a summary from extracted page content.
type Summarizer interface {
	Summarize(ctx context.Context, page PageContent) (*Summary, error)
}
