package mock

import (
	"context"

	"github.com/sitedigest/sitedigest"
)

var _ sitedigest.PageArchive = (*PageArchive)(nil)

// PageArchive is a mock implementation of sitedigest.PageArchive.
type PageArchive struct {
	CreateSnapshotFn  func(ctx context.Context, snap *sitedigest.PageSnapshot) error
	FindLatestByURLFn func(ctx context.Context, url string) (*sitedigest.PageSnapshot, error)
}

func (a *PageArchive) CreateSnapshot(ctx context.Context, snap *sitedigest.PageSnapshot) error {
	return a.CreateSnapshotFn(ctx, snap)
}

func (a *PageArchive) FindLatestByURL(ctx context.Context, url string) (*sitedigest.PageSnapshot, error) {
	return a.FindLatestByURLFn(ctx, url)
}
