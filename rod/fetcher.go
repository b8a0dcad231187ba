package rod

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/sitedigest/sitedigest"
)

// Ensure Fetcher implements sitedigest.FetchStrategy at compile time.
var _ sitedigest.FetchStrategy = (*Fetcher)(nil)

// Fetcher is the headless fetch strategy. It prefers the shared resolved
// session, whose browser context carries the cookies accumulated while
// solving the root challenge; without one it lazily creates its own
// stealth session, unauthenticated but still able to render
// JavaScript-dependent pages.
type Fetcher struct {
	mu      sync.Mutex
	session sitedigest.Session
	owned   *Session
	host    string
	cookies []sitedigest.CookieEntry
	logger  *slog.Logger
}

// FetcherOption configures a Fetcher.
type FetcherOption func(*Fetcher)

// WithSharedSession wires the run's resolved session into the fetcher.
// Ignored unless the session state is SessionResolved.
func WithSharedSession(s sitedigest.Session) FetcherOption {
	return func(f *Fetcher) {
		if s != nil && s.State() == sitedigest.SessionResolved {
			f.session = s
		}
	}
}

// WithCookies seeds cookies for a lazily created disposable session.
func WithCookies(host string, cookies []sitedigest.CookieEntry) FetcherOption {
	return func(f *Fetcher) {
		f.host = host
		f.cookies = cookies
	}
}

// NewFetcher creates the headless fetch strategy. No browser is launched
// until the first fetch that needs one.
func NewFetcher(logger *slog.Logger, opts ...FetcherOption) *Fetcher {
	if logger == nil {
		logger = slog.Default()
	}
	f := &Fetcher{logger: logger}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Name implements sitedigest.FetchStrategy.
func (f *Fetcher) Name() string { return "headless" }

// Fetch navigates a browser page and returns the rendered document.
// Browser failures report (nil, nil) so the fallback fetcher can let the
// primary result stand.
func (f *Fetcher) Fetch(ctx context.Context, url string) (*sitedigest.PageContent, error) {
	session, err := f.acquire()
	if err != nil {
		f.logger.Warn("headless fetch unavailable", "url", url, "err", err)
		return nil, nil
	}

	html, title, err := session.Navigate(ctx, url)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		f.logger.Warn("headless navigation failed", "url", url, "err", err)
		return nil, nil
	}

	if title == "" {
		title = sitedigest.Slugify(url)
	}

	return &sitedigest.PageContent{
		URL:       sitedigest.Canonicalize(url),
		Title:     title,
		RawHTML:   html,
		FetchedAt: time.Now().UTC(),
	}, nil
}

// acquire returns the shared session or lazily creates an owned one.
func (f *Fetcher) acquire() (sitedigest.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.session != nil {
		return f.session, nil
	}
	if f.owned != nil {
		return f.owned, nil
	}

	owned, err := NewSession(f.host, f.cookies, f.logger)
	if err != nil {
		return nil, err
	}
	f.owned = owned
	return owned, nil
}

// Close releases any browser the fetcher created itself. The shared
// session belongs to the probe step and is closed there.
func (f *Fetcher) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.owned != nil {
		err := f.owned.Close()
		f.owned = nil
		return err
	}
	return nil
}
