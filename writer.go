package sitedigest

import "context"

// SummaryWriter persists a summary and returns the relative storage path
// recorded verbatim in the manifest.
type SummaryWriter interface {
	WriteSummary(ctx context.Context, page PageContent, summary *Summary) (relPath string, err error)
}
