// Package mock provides function-field test doubles for the root package
// interfaces.
package mock

import (
	"context"

	"github.com/sitedigest/sitedigest"
)

var _ sitedigest.FetchStrategy = (*FetchStrategy)(nil)

// FetchStrategy is a mock implementation of sitedigest.FetchStrategy.
type FetchStrategy struct {
	FetchFn func(ctx context.Context, url string) (*sitedigest.PageContent, error)
	NameFn  func() string
}

func (s *FetchStrategy) Fetch(ctx context.Context, url string) (*sitedigest.PageContent, error) {
	return s.FetchFn(ctx, url)
}

func (s *FetchStrategy) Name() string {
	if s.NameFn == nil {
		return "mock"
	}
	return s.NameFn()
}
