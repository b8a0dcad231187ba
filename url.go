package sitedigest

import (
	"net/url"
	"strings"
)

// Canonicalize returns the stable identity form of a URL: absolute, with the
// fragment removed and scheme/host lowercased. The canonical string is the
// key used for deduplication and caching. Unparseable input is returned
// unchanged so that callers never lose track of a URL entirely.
func Canonicalize(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	u.Fragment = ""
	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	return u.String()
}

// SameHost reports whether two URLs share a host, treating a leading
// "www." as equivalent.
func SameHost(a, b string) bool {
	ua, err := url.Parse(a)
	if err != nil {
		return false
	}
	ub, err := url.Parse(b)
	if err != nil {
		return false
	}
	return normalizeHost(ua.Host) == normalizeHost(ub.Host)
}

func normalizeHost(host string) string {
	return strings.TrimPrefix(strings.ToLower(host), "www.")
}

// Slugify derives a filesystem-safe slug from a URL path.
// The root path yields "index".
func Slugify(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "index"
	}
	path := strings.Trim(u.Path, "/")
	if path == "" {
		return "index"
	}

	var b strings.Builder
	for _, r := range strings.ToLower(path) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			if b.Len() > 0 && !strings.HasSuffix(b.String(), "-") {
				b.WriteByte('-')
			}
		}
	}
	slug := strings.Trim(b.String(), "-")
	if slug == "" {
		return "index"
	}
	return slug
}

// HostPath derives a filesystem-safe name from a URL's host, suitable for
// naming per-site state files. Ports and other unsafe characters are
// replaced with underscores.
func HostPath(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return "site"
	}
	host := normalizeHost(u.Host)
	host = strings.ReplaceAll(host, ":", "_")
	return host
}
