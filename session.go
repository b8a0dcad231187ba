package sitedigest

import "context"

// SessionState tracks the headless session's challenge-probe state machine:
// Unprobed → ChallengeDetected → {Resolved | StillBlocked}.
type SessionState int

// Session states.
const (
	SessionUnprobed SessionState = iota
	SessionChallengeDetected
	SessionResolved
	SessionStillBlocked
)

// String returns the state name for logs.
func (s SessionState) String() string {
	switch s {
	case SessionUnprobed:
		return "unprobed"
	case SessionChallengeDetected:
		return "challenge-detected"
	case SessionResolved:
		return "resolved"
	case SessionStillBlocked:
		return "still-blocked"
	default:
		return "unknown"
	}
}

// Session is a process-scoped authenticated browser context. It is created
// lazily only when a challenge is detected on the root URL probe, solves the
// challenge once, and is reused for every subsequent navigation in the run.
//
// A Session is a single shared mutable resource: browser navigation mutates
// page state, so concurrent users must serialize access. Implementations
// serialize internally.
type Session interface {
	// State returns the current lifecycle state. Only Resolved sessions
	// should be wired into discovery and fetch paths.
	State() SessionState

	// Navigate loads a URL in the session's page and returns the rendered
	// HTML and document title after the page settles.
	Navigate(ctx context.Context, url string) (html string, title string, err error)

	// Close destroys the browser context. Must be called at run end
	// regardless of outcome. Safe to call on any state.
	Close() error
}
