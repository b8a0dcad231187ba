package goquery

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/sitedigest/sitedigest"
)

// assetExtensions are path suffixes that never lead to page content.
var assetExtensions = []string{
	".css", ".js", ".png", ".jpg", ".jpeg", ".gif", ".svg",
	".ico", ".pdf", ".zip", ".xml", ".json", ".webp", ".woff", ".woff2",
}

// Links parses HTML and returns the canonical absolute URLs of page links,
// resolved against baseURL and deduplicated. Anchors, javascript:, mailto:
// and asset links are skipped; with sameHostOnly set, off-host links are
// dropped.
func Links(html, baseURL string, sameHostOnly bool) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}

	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var links []string

	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, ok := s.Attr("href")
		if !ok {
			return
		}
		href = strings.TrimSpace(href)
		if href == "" || strings.HasPrefix(href, "#") ||
			strings.HasPrefix(href, "javascript:") || strings.HasPrefix(href, "mailto:") {
			return
		}

		ref, err := url.Parse(href)
		if err != nil {
			return
		}
		resolved := base.ResolveReference(ref)
		if resolved.Scheme != "http" && resolved.Scheme != "https" {
			return
		}

		canonical := sitedigest.Canonicalize(resolved.String())
		if seen[canonical] {
			return
		}
		if sameHostOnly && !sitedigest.SameHost(canonical, baseURL) {
			return
		}
		if isAsset(resolved.Path) {
			return
		}

		seen[canonical] = true
		links = append(links, canonical)
	})

	return links, nil
}

func isAsset(path string) bool {
	lower := strings.ToLower(path)
	for _, ext := range assetExtensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}
