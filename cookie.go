package sitedigest

import "strings"

// CookieEntry is the cross-format in-memory representation of a cookie,
// shared by the HTTP cookie jar and the headless browser context.
type CookieEntry struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Domain string `json:"domain"`
	Path   string `json:"path"`
}

// FilterCookiesByHost returns the entries applicable to host, following
// cookie domain-matching rules: an exact match, or a suffix match for
// entries whose domain covers subdomains (leading dot or bare parent
// domain).
func FilterCookiesByHost(entries []CookieEntry, host string) []CookieEntry {
	host = normalizeHost(host)
	var out []CookieEntry
	for _, e := range entries {
		domain := strings.TrimPrefix(strings.ToLower(e.Domain), ".")
		domain = strings.TrimPrefix(domain, "www.")
		if domain == "" {
			continue
		}
		if host == domain || strings.HasSuffix(host, "."+domain) {
			out = append(out, e)
		}
	}
	return out
}
