package sitedigest

import "time"

// RunConfig holds the immutable configuration for a single run.
// It is created once at startup and read-only thereafter.
type RunConfig struct {
	// RootURL is the site entry point. Must be an absolute http(s) URL.
	RootURL string

	// MaxPages bounds how many URLs a run may discover and fetch.
	MaxPages int

	// MaxDepth bounds link-following depth for the crawl strategy.
	// Depth 0 is the root page itself.
	MaxDepth int

	// SameHostOnly restricts discovered URLs to the root URL's host.
	SameHostOnly bool

	// Delay is the minimum pause between requests to the same host.
	Delay time.Duration

	// CookieFile is an optional path to an exported cookie file
	// (Netscape TSV or JSON array format).
	CookieFile string

	// DryRun skips summarization and output writing.
	DryRun bool
}

// Validate returns an error if the configuration cannot support a run.
func (c *RunConfig) Validate() error {
	if c.RootURL == "" {
		return Errorf(EINVALID, "root URL required")
	}
	if c.MaxPages <= 0 {
		return Errorf(EINVALID, "max pages must be positive, got %d", c.MaxPages)
	}
	if c.MaxDepth < 0 {
		return Errorf(EINVALID, "max depth must not be negative, got %d", c.MaxDepth)
	}
	return nil
}
