package mock

import (
	"context"

	"github.com/sitedigest/sitedigest"
)

var _ sitedigest.DiscoveryStrategy = (*DiscoveryStrategy)(nil)

// DiscoveryStrategy is a mock implementation of sitedigest.DiscoveryStrategy.
type DiscoveryStrategy struct {
	DiscoverFn func(ctx context.Context, cfg *sitedigest.RunConfig) ([]sitedigest.DiscoveredURL, error)
	MethodFn   func() sitedigest.DiscoveryMethod
}

func (s *DiscoveryStrategy) Discover(ctx context.Context, cfg *sitedigest.RunConfig) ([]sitedigest.DiscoveredURL, error) {
	return s.DiscoverFn(ctx, cfg)
}

func (s *DiscoveryStrategy) Method() sitedigest.DiscoveryMethod {
	if s.MethodFn == nil {
		return "mock"
	}
	return s.MethodFn()
}
