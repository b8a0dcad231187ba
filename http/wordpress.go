package http

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sitedigest/sitedigest"
	"github.com/sitedigest/sitedigest/crawl"
)

// restRoots are the well-known WordPress REST root endpoints, probed in order.
var restRoots = []string{"/wp-json/", "/?rest_route=/"}

// wpCollections are the REST collections paginated during discovery.
var wpCollections = []string{"pages", "posts"}

// wpPerPage is the REST pagination size.
const wpPerPage = 100

// Ensure WordPress implements sitedigest.DiscoveryStrategy.
var _ sitedigest.DiscoveryStrategy = (*WordPress)(nil)

// WordPress discovers URLs through the WordPress REST API. Because the API
// already returns each item's rendered HTML, discovery doubles as a content
// pre-fetch: the rendered payloads are cached and exposed as a zero-cost
// fetch strategy via CacheStrategy.
type WordPress struct {
	client      *http.Client
	session     sitedigest.Session
	logger      *slog.Logger
	retryDelays []time.Duration

	restRoot string
	cache    map[string]cachedItem
}

// cachedItem is rendered HTML retrieved during REST discovery.
type cachedItem struct {
	html  string
	title string
}

// WordPressOption configures a WordPress strategy.
type WordPressOption func(*WordPress)

// WithSession wires a resolved headless session into REST detection.
// Ignored unless the session state is SessionResolved.
func WithSession(s sitedigest.Session) WordPressOption {
	return func(w *WordPress) {
		if s != nil && s.State() == sitedigest.SessionResolved {
			w.session = s
		}
	}
}

// WithRetryDelays overrides the 429/503 backoff schedule. Used by tests.
func WithRetryDelays(delays []time.Duration) WordPressOption {
	return func(w *WordPress) {
		w.retryDelays = delays
	}
}

// NewWordPress creates a WordPress discovery strategy. If client is nil,
// http.DefaultClient is used.
func NewWordPress(client *http.Client, logger *slog.Logger, opts ...WordPressOption) *WordPress {
	if client == nil {
		client = http.DefaultClient
	}
	if logger == nil {
		logger = slog.Default()
	}
	w := &WordPress{
		client:      client,
		logger:      logger,
		retryDelays: crawl.RateLimitDelays(),
		cache:       make(map[string]cachedItem),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Method implements sitedigest.DiscoveryStrategy.
func (w *WordPress) Method() sitedigest.DiscoveryMethod { return sitedigest.MethodWordPress }

// Discover probes for a WordPress REST API and, when present, paginates the
// pages and posts collections up to the run's page budget. Sites without
// the API return (nil, nil).
func (w *WordPress) Discover(ctx context.Context, cfg *sitedigest.RunConfig) ([]sitedigest.DiscoveredURL, error) {
	base, err := url.Parse(cfg.RootURL)
	if err != nil {
		return nil, nil
	}

	if !w.detect(ctx, base) {
		return nil, nil
	}

	var out []sitedigest.DiscoveredURL
	dedup := make(map[string]bool)

	for _, collection := range wpCollections {
		if len(out) >= cfg.MaxPages {
			break
		}
		items, err := w.paginate(ctx, base, collection, cfg.MaxPages-len(out))
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			continue
		}

		for _, item := range items {
			link, html, title, ok := w.usable(item, cfg)
			if !ok {
				continue
			}
			canonical := sitedigest.Canonicalize(link)
			if dedup[canonical] {
				continue
			}
			dedup[canonical] = true
			w.cache[canonical] = cachedItem{html: html, title: title}
			out = append(out, sitedigest.DiscoveredURL{
				URL:    canonical,
				Method: sitedigest.MethodWordPress,
			})
			if len(out) >= cfg.MaxPages {
				break
			}
		}
	}

	return out, nil
}

// detect probes the REST root endpoints. A response counts as "WordPress
// REST available" only if it is valid JSON containing a routes or
// namespace(s) key. A 401/403 whose body carries a challenge signature is
// retried through the resolved headless session when one is available,
// since that distinguishes "blocked" from "not WordPress".
func (w *WordPress) detect(ctx context.Context, base *url.URL) bool {
	for _, root := range restRoots {
		probeURL := resolveRESTPath(base, root)

		status, body, err := w.get(ctx, probeURL)
		if err != nil {
			continue
		}

		if isRESTRoot(body) {
			w.restRoot = probeURL
			return true
		}

		if status == http.StatusUnauthorized || status == http.StatusForbidden {
			label, challenged := sitedigest.DetectChallenge(body)
			if challenged && w.session != nil {
				w.logger.Warn("wordpress probe blocked, retrying through headless session",
					"url", probeURL, "cause", label)
				if html, _, err := w.session.Navigate(ctx, probeURL); err == nil {
					if isRESTRoot(extractNavigatedJSON(html)) {
						w.restRoot = probeURL
						return true
					}
				}
			}
		}
	}
	return false
}

// paginate walks one REST collection at wpPerPage items per page, stopping
// when budget items have been collected, the X-WP-TotalPages header is
// reached, or (on the session path, where headers are unavailable) an
// empty page comes back.
func (w *WordPress) paginate(ctx context.Context, base *url.URL, collection string, budget int) ([]map[string]json.RawMessage, error) {
	var items []map[string]json.RawMessage
	totalPages := -1

	for page := 1; len(items) < budget; page++ {
		if err := ctx.Err(); err != nil {
			return items, err
		}
		if totalPages > 0 && page > totalPages {
			break
		}

		pageURL := w.collectionURL(base, collection, page)

		var batch []map[string]json.RawMessage
		viaSession := false

		err := crawl.RetryWithBackoff(ctx, w.retryDelays, func(ctx context.Context) (bool, error) {
			status, body, err := w.get(ctx, pageURL)
			if err != nil {
				return false, err
			}
			if status == http.StatusTooManyRequests || status == http.StatusServiceUnavailable {
				return true, sitedigest.Errorf(sitedigest.EUNAVAILABLE, "HTTP %d for %s", status, pageURL)
			}
			if status != http.StatusOK {
				return false, sitedigest.Errorf(sitedigest.EUNAVAILABLE, "HTTP %d for %s", status, pageURL)
			}
			batch = nil
			return false, json.Unmarshal([]byte(body), &batch)
		})
		if err != nil && w.session != nil {
			// Direct HTTP lost to the protection layer; the session's
			// navigation channel has no pagination headers, so the
			// empty-page rule terminates instead.
			html, _, navErr := w.session.Navigate(ctx, pageURL)
			if navErr != nil {
				return items, nil
			}
			if jsonErr := json.Unmarshal([]byte(extractNavigatedJSON(html)), &batch); jsonErr != nil {
				return items, nil
			}
			viaSession = true
		} else if err != nil {
			return items, nil
		}

		if len(batch) == 0 {
			break
		}
		items = append(items, batch...)

		if !viaSession && totalPages < 0 {
			totalPages = w.totalPages(ctx, pageURL)
		}
	}

	if len(items) > budget {
		items = items[:budget]
	}
	return items, nil
}

// totalPages reads the X-WP-TotalPages header off a collection page.
// Returns 0 when the header is absent, which disables the bound.
func (w *WordPress) totalPages(ctx context.Context, pageURL string) int {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, pageURL, nil)
	if err != nil {
		return 0
	}
	req.Header.Set("User-Agent", defaultUserAgent)
	resp, err := w.client.Do(req)
	if err != nil {
		return 0
	}
	resp.Body.Close()
	n, _ := strconv.Atoi(resp.Header.Get("X-WP-TotalPages"))
	return n
}

// usable filters one REST item and returns its link, rendered HTML and
// title. Attachments, password-protected items, items without a resolvable
// same-host URL, and items with no usable text are dropped.
func (w *WordPress) usable(item map[string]json.RawMessage, cfg *sitedigest.RunConfig) (link, html, title string, ok bool) {
	var itemType string
	_ = json.Unmarshal(item["type"], &itemType)
	if itemType == "attachment" {
		return "", "", "", false
	}

	_ = json.Unmarshal(item["link"], &link)
	u, err := url.Parse(link)
	if err != nil || !u.IsAbs() {
		return "", "", "", false
	}
	if cfg.SameHostOnly && !sitedigest.SameHost(link, cfg.RootURL) {
		return "", "", "", false
	}

	content, protected := renderedField(item["content"])
	if protected {
		return "", "", "", false
	}
	html = content
	if strings.TrimSpace(html) == "" {
		excerpt, _ := renderedField(item["excerpt"])
		html = excerpt
	}
	if strings.TrimSpace(html) == "" {
		if desc := metaDescription(item); desc != "" {
			html = "<div><p>" + desc + "</p></div>"
		}
	}
	if strings.TrimSpace(html) == "" {
		return "", "", "", false
	}

	titleHTML, _ := renderedField(item["title"])
	title = strings.TrimSpace(titleHTML)
	if title == "" {
		title = sitedigest.Slugify(link)
	}

	return link, html, title, true
}

// renderedField decodes a {"rendered": ..., "protected": ...} REST object.
func renderedField(raw json.RawMessage) (rendered string, protected bool) {
	if raw == nil {
		return "", false
	}
	var field struct {
		Rendered  string `json:"rendered"`
		Protected bool   `json:"protected"`
	}
	if err := json.Unmarshal(raw, &field); err != nil {
		return "", false
	}
	return field.Rendered, field.Protected
}

// metaDescription pulls a meta description off the item's SEO block when
// neither content nor excerpt carried text.
func metaDescription(item map[string]json.RawMessage) string {
	var head struct {
		Description string `json:"description"`
	}
	if raw, ok := item["yoast_head_json"]; ok {
		if err := json.Unmarshal(raw, &head); err == nil {
			return strings.TrimSpace(head.Description)
		}
	}
	return ""
}

// collectionURL builds a paginated collection URL, preserving the probe
// style (path-based /wp-json/ vs query-based ?rest_route=).
func (w *WordPress) collectionURL(base *url.URL, collection string, page int) string {
	if strings.Contains(w.restRoot, "rest_route") {
		return fmt.Sprintf("%s://%s/?rest_route=/wp/v2/%s&per_page=%d&page=%d",
			base.Scheme, base.Host, collection, wpPerPage, page)
	}
	return fmt.Sprintf("%s://%s/wp-json/wp/v2/%s?per_page=%d&page=%d",
		base.Scheme, base.Host, collection, wpPerPage, page)
}

// resolveRESTPath resolves a REST root probe path against the site base.
func resolveRESTPath(base *url.URL, root string) string {
	if strings.HasPrefix(root, "/?") {
		return base.Scheme + "://" + base.Host + root
	}
	return base.ResolveReference(&url.URL{Path: root}).String()
}

// get issues a GET and returns status and body. Unlike Fetcher.Get this
// accepts any content type; REST responses are JSON.
func (w *WordPress) get(ctx context.Context, rawURL string) (int, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return 0, "", err
	}
	req.Header.Set("User-Agent", defaultUserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return 0, "", err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return 0, "", err
	}
	return resp.StatusCode, string(data), nil
}

// isRESTRoot reports whether a body is valid JSON announcing a WordPress
// REST root: an object with a routes, namespace, or namespaces key.
func isRESTRoot(body string) bool {
	var root map[string]json.RawMessage
	if err := json.Unmarshal([]byte(body), &root); err != nil {
		return false
	}
	for _, key := range []string{"routes", "namespace", "namespaces"} {
		if _, ok := root[key]; ok {
			return true
		}
	}
	return false
}

// extractNavigatedJSON recovers a JSON payload from a browser-rendered
// document. Browsers wrap raw JSON responses in an HTML viewer; the payload
// is the outermost bracketed span of the text.
func extractNavigatedJSON(html string) string {
	start := strings.IndexAny(html, "[{")
	if start == -1 {
		return html
	}
	var closer byte
	if html[start] == '{' {
		closer = '}'
	} else {
		closer = ']'
	}
	end := strings.LastIndexByte(html, closer)
	if end <= start {
		return html
	}
	return html[start : end+1]
}

// Ensure CacheStrategy's type implements sitedigest.FetchStrategy.
var _ sitedigest.FetchStrategy = (*wpCacheStrategy)(nil)

// wpCacheStrategy serves rendered HTML captured during REST discovery.
type wpCacheStrategy struct {
	wp *WordPress
}

// CacheStrategy returns the zero-network-cost fetch strategy backed by the
// rendered HTML captured during discovery. Wire it ahead of the plain HTTP
// strategy so API-discovered pages never hit the network twice.
func (w *WordPress) CacheStrategy() sitedigest.FetchStrategy {
	return &wpCacheStrategy{wp: w}
}

func (s *wpCacheStrategy) Name() string { return "wordpress-cache" }

// Fetch returns cached rendered HTML wrapped as a synthetic article
// container, or (nil, nil) when discovery never saw this URL.
func (s *wpCacheStrategy) Fetch(ctx context.Context, rawURL string) (*sitedigest.PageContent, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	item, ok := s.wp.cache[sitedigest.Canonicalize(rawURL)]
	if !ok {
		return nil, nil
	}
	return &sitedigest.PageContent{
		URL:       sitedigest.Canonicalize(rawURL),
		Title:     item.title,
		RawHTML:   "<html><body><article>" + item.html + "</article></body></html>",
		FetchedAt: time.Now().UTC(),
	}, nil
}
