// Package rod provides the headless-browser side of the fetch resilience
// layer: the challenge-probe session state machine and the headless fetch
// strategy, built on go-rod.
package rod

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/sitedigest/sitedigest"
)

// Timing defaults for challenge settling.
const (
	// DefaultNavigateTimeout bounds a single page navigation.
	DefaultNavigateTimeout = 30 * time.Second

	// challengeNavWait is how long to wait for a challenge page to
	// navigate away on its own before falling back to a settle delay.
	challengeNavWait = 15 * time.Second

	// challengeSettleDelay is the fixed wait applied when no navigation
	// happens; some interstitials rewrite the document in place.
	challengeSettleDelay = 4 * time.Second

	// requestIdleWindow is the quiet period that counts as network-idle.
	requestIdleWindow = 300 * time.Millisecond
)

// stealthUserAgent replaces the HeadlessChrome token that protection
// vendors key on.
const stealthUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/126.0.0.0 Safari/537.36"

// hideWebdriverJS removes the automation marker checked first by every
// fingerprinting script.
const hideWebdriverJS = `Object.defineProperty(navigator, 'webdriver', {get: () => undefined})`

// Ensure Session implements sitedigest.Session at compile time.
var _ sitedigest.Session = (*Session)(nil)

// Session owns one browser context for the lifetime of a run. Navigation
// mutates shared page state, so all access is serialized internally.
type Session struct {
	mu       sync.Mutex
	state    sitedigest.SessionState
	browser  *rod.Browser
	launcher *launcher.Launcher
	page     *rod.Page
	logger   *slog.Logger

	navTimeout time.Duration
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithNavigateTimeout bounds individual navigations.
// Defaults to DefaultNavigateTimeout (30s).
func WithNavigateTimeout(d time.Duration) SessionOption {
	return func(s *Session) {
		s.navTimeout = d
	}
}

// NewSession launches a stealth-configured headless browser context and
// injects the given cookies, filtered to host. The session starts in the
// ChallengeDetected state; Resolve drives it to Resolved or StillBlocked.
//
// Close must be called at run end regardless of outcome.
func NewSession(host string, cookies []sitedigest.CookieEntry, logger *slog.Logger, opts ...SessionOption) (*Session, error) {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Session{
		state:      sitedigest.SessionChallengeDetected,
		logger:     logger,
		navTimeout: DefaultNavigateTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}

	if err := s.launch(); err != nil {
		return nil, err
	}

	if err := s.injectCookies(host, cookies); err != nil {
		s.Close()
		return nil, err
	}

	page, err := s.newStealthPage()
	if err != nil {
		s.Close()
		return nil, err
	}
	s.page = page

	return s, nil
}

// launch starts a headless browser with stability and stealth flags.
func (s *Session) launch() error {
	lnchr := launcher.New().
		Set("disable-blink-features", "AutomationControlled").
		Set("disable-background-timer-throttling").
		Set("disable-backgrounding-occluded-windows").
		Set("disable-renderer-backgrounding").
		Set("disable-dev-shm-usage").
		Set("disable-hang-monitor").
		Leakless(true).
		Headless(true)

	u, err := lnchr.Launch()
	if err != nil {
		return sitedigest.Errorf(sitedigest.EUNAVAILABLE, "launching browser: %v", err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		lnchr.Kill()
		return sitedigest.Errorf(sitedigest.EUNAVAILABLE, "connecting to browser: %v", err)
	}

	s.browser = browser
	s.launcher = lnchr
	return nil
}

// injectCookies installs the entries applicable to host into the browser
// context before any navigation.
func (s *Session) injectCookies(host string, cookies []sitedigest.CookieEntry) error {
	matched := sitedigest.FilterCookiesByHost(cookies, host)
	if len(matched) == 0 {
		return nil
	}

	params := make([]*proto.NetworkCookieParam, 0, len(matched))
	for _, c := range matched {
		params = append(params, &proto.NetworkCookieParam{
			Name:   c.Name,
			Value:  c.Value,
			Domain: c.Domain,
			Path:   c.Path,
		})
	}
	if err := s.browser.SetCookies(params); err != nil {
		return fmt.Errorf("injecting cookies: %w", err)
	}
	s.logger.Info("cookies injected", "host", host, "count", len(matched))
	return nil
}

// newStealthPage creates the session's single page with automation markers
// suppressed: realistic user agent, viewport, timezone, and no
// navigator.webdriver.
func (s *Session) newStealthPage() (*rod.Page, error) {
	page, err := s.browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, err
	}

	if err := (proto.NetworkSetUserAgentOverride{UserAgent: stealthUserAgent}).Call(page); err != nil {
		return nil, err
	}
	if err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width: 1366, Height: 768, DeviceScaleFactor: 1,
	}); err != nil {
		return nil, err
	}
	if err := (proto.EmulationSetTimezoneOverride{TimezoneID: "America/New_York"}).Call(page); err != nil {
		return nil, err
	}
	if _, err := page.EvalOnNewDocument(hideWebdriverJS); err != nil {
		return nil, err
	}

	return page, nil
}

// State implements sitedigest.Session.
func (s *Session) State() sitedigest.SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Resolve navigates to rootURL and attempts to get past the protection
// challenge, driving the state machine to Resolved or StillBlocked.
func (s *Session) Resolve(ctx context.Context, rootURL string) (sitedigest.SessionState, error) {
	html, _, err := s.Navigate(ctx, rootURL)
	if err != nil {
		s.setState(sitedigest.SessionStillBlocked)
		return sitedigest.SessionStillBlocked, err
	}

	if label, challenged := sitedigest.DetectChallenge(html); challenged {
		s.logger.Warn("challenge persisted after render", "url", rootURL, "cause", label)
		s.setState(sitedigest.SessionStillBlocked)
		return sitedigest.SessionStillBlocked, nil
	}

	s.setState(sitedigest.SessionResolved)
	s.logger.Info("challenge resolved, session authenticated", "url", rootURL)
	return sitedigest.SessionResolved, nil
}

func (s *Session) setState(state sitedigest.SessionState) {
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
}

// Navigate implements sitedigest.Session. It loads the URL, waits for
// network-idle then DOM-ready, and if the rendered document still matches
// a challenge signature, waits for either a same-tab navigation away or a
// fixed settle delay before re-reading content once.
func (s *Session) Navigate(ctx context.Context, url string) (string, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return "", "", err
	}

	page := s.page.Context(ctx).Timeout(s.navTimeout)

	if err := page.Navigate(url); err != nil {
		return "", "", err
	}

	waitIdle := page.WaitRequestIdle(requestIdleWindow, nil, nil, nil)
	waitIdle()
	if err := page.WaitLoad(); err != nil {
		return "", "", err
	}

	html, err := page.HTML()
	if err != nil {
		return "", "", err
	}

	if _, challenged := sitedigest.DetectChallenge(html); challenged {
		html, err = s.settle(page, html)
		if err != nil {
			return "", "", err
		}
	}

	title := pageTitle(page)
	return html, title, nil
}

// settle gives an interstitial the chance to complete: wait for a
// navigation away from the current document (bounded), or sleep a fixed
// settle delay when none happens, then re-read content once.
func (s *Session) settle(page *rod.Page, html string) (string, error) {
	waitNav := page.Timeout(challengeNavWait).
		WaitNavigation(proto.PageLifecycleEventNameNetworkAlmostIdle)
	waitNav()

	refreshed, err := page.HTML()
	if err != nil {
		return html, nil
	}
	if _, challenged := sitedigest.DetectChallenge(refreshed); !challenged {
		return refreshed, nil
	}

	time.Sleep(challengeSettleDelay)

	refreshed, err = page.HTML()
	if err != nil {
		return html, nil
	}
	return refreshed, nil
}

// pageTitle reads the rendered document title. Best effort.
func pageTitle(page *rod.Page) string {
	obj, err := page.Eval(`() => document.title`)
	if err != nil {
		return ""
	}
	return obj.Value.Str()
}

// Close destroys the browser context. Safe to call on any state and more
// than once.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var err error
	if s.browser != nil {
		err = s.browser.Close()
		s.browser = nil
	}
	if s.launcher != nil {
		s.launcher.Kill()
		s.launcher = nil
	}
	s.page = nil
	return err
}
