package sitedigest

import "context"

// DomainLimiter throttles requests on a per-domain basis so that a run never
// hits a single host faster than its configured delay allows.
type DomainLimiter interface {
	// Wait blocks until a request to the domain is permitted, or until the
	// context is canceled.
	Wait(ctx context.Context, domain string) error
}
