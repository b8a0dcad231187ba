package sitedigest

import (
	"context"
	"time"
)

// PageSnapshot is a raw-page record kept for re-extraction and debugging.
type PageSnapshot struct {
	ID        string
	URL       string
	Title     string
	RawHTML   string
	FetchedAt time.Time
}

// PageArchive stores raw page snapshots.
type PageArchive interface {
	// CreateSnapshot persists a snapshot, assigning its ID.
	CreateSnapshot(ctx context.Context, snap *PageSnapshot) error

	// FindLatestByURL returns the most recent snapshot for a URL.
	// Returns ENOTFOUND if no snapshot exists.
	FindLatestByURL(ctx context.Context, url string) (*PageSnapshot, error)
}
