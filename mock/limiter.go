package mock

import (
	"context"

	"github.com/sitedigest/sitedigest"
)

var _ sitedigest.DomainLimiter = (*DomainLimiter)(nil)

// DomainLimiter is a mock implementation of sitedigest.DomainLimiter.
// The zero value never blocks.
type DomainLimiter struct {
	WaitFn func(ctx context.Context, domain string) error
}

func (l *DomainLimiter) Wait(ctx context.Context, domain string) error {
	if l.WaitFn == nil {
		return nil
	}
	return l.WaitFn(ctx, domain)
}
