// Package goquery provides HTML helpers built on PuerkitoBio/goquery:
// document title extraction and same-host link enumeration for the
// crawl discovery strategy.
package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Title returns the document's <title> text, trimmed. Empty when the
// document has no title or cannot be parsed; callers fall back to a
// URL-derived slug.
func Title(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(doc.Find("title").First().Text())
}
