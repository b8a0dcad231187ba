package rod

import (
	"context"
	"log/slog"
	"net/url"

	"github.com/sitedigest/sitedigest"
)

// ProbeGetFunc fetches a URL over plain HTTP and returns the body.
// Wired to the HTTP fetcher's Get; injected so the probe is testable
// without a network.
type ProbeGetFunc func(ctx context.Context, url string) (string, error)

// Probe implements the two-phase challenge probe against the root URL:
// a cheap HTTP GET first, and an expensive browser session only when a
// challenge signature is detected. Headless navigation costs seconds per
// page, so it must never be the default path.
//
// Returns (nil, nil) when the root is served clean and no session is
// needed. When a challenge is detected, the returned session is in either
// the Resolved or StillBlocked state; callers discard StillBlocked
// sessions and own Close in every case. A browser runtime that cannot be
// acquired when one is structurally required is a run-fatal error.
func Probe(ctx context.Context, rootURL string, get ProbeGetFunc, cookies []sitedigest.CookieEntry, logger *slog.Logger, opts ...SessionOption) (*Session, error) {
	if logger == nil {
		logger = slog.Default()
	}

	body, err := get(ctx, rootURL)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		// An unreachable root over plain HTTP is itself a blockage
		// signal; some protection layers reset bot connections outright.
		logger.Warn("root probe failed over plain HTTP, escalating to browser", "url", rootURL, "err", err)
	} else {
		label, challenged := sitedigest.DetectChallenge(body)
		if !challenged {
			return nil, nil
		}
		logger.Warn("challenge detected on root probe", "url", rootURL, "cause", label)
	}

	u, err := url.Parse(rootURL)
	if err != nil {
		return nil, sitedigest.Errorf(sitedigest.EINVALID, "invalid root URL %q: %v", rootURL, err)
	}

	session, err := NewSession(u.Hostname(), cookies, logger, opts...)
	if err != nil {
		return nil, err
	}

	state, err := session.Resolve(ctx, rootURL)
	if err != nil && ctx.Err() != nil {
		session.Close()
		return nil, ctx.Err()
	}

	if state == sitedigest.SessionStillBlocked {
		logger.Warn("challenge could not be resolved; run proceeds without a session",
			"url", rootURL,
			"hint", "export cookies from a logged-in browser and pass them with --cookies")
	}

	return session, nil
}
