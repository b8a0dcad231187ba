package sitedigest_test

import (
	"testing"

	"github.com/sitedigest/sitedigest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterCookiesByHost(t *testing.T) {
	t.Parallel()

	entries := []sitedigest.CookieEntry{
		{Name: "session", Value: "abc", Domain: "example.com", Path: "/"},
		{Name: "wide", Value: "def", Domain: ".example.com", Path: "/"},
		{Name: "other", Value: "ghi", Domain: "other.com", Path: "/"},
		{Name: "deep", Value: "jkl", Domain: "app.example.com", Path: "/"},
	}

	t.Run("exact domain match", func(t *testing.T) {
		t.Parallel()

		got := sitedigest.FilterCookiesByHost(entries, "example.com")
		names := cookieNames(got)
		assert.Contains(t, names, "session")
		assert.Contains(t, names, "wide")
		assert.NotContains(t, names, "other")
		assert.NotContains(t, names, "deep")
	})

	t.Run("subdomain matches parent-domain cookies", func(t *testing.T) {
		t.Parallel()

		got := sitedigest.FilterCookiesByHost(entries, "app.example.com")
		names := cookieNames(got)
		assert.Contains(t, names, "session")
		assert.Contains(t, names, "wide")
		assert.Contains(t, names, "deep")
	})

	t.Run("leading dot is equivalent to bare domain", func(t *testing.T) {
		t.Parallel()

		dotted := []sitedigest.CookieEntry{{Name: "a", Domain: ".example.com"}}
		bare := []sitedigest.CookieEntry{{Name: "a", Domain: "example.com"}}

		assert.Len(t, sitedigest.FilterCookiesByHost(dotted, "example.com"), 1)
		assert.Len(t, sitedigest.FilterCookiesByHost(bare, "example.com"), 1)
	})

	t.Run("www prefix on host is ignored", func(t *testing.T) {
		t.Parallel()

		got := sitedigest.FilterCookiesByHost(entries, "www.example.com")
		require.NotEmpty(t, got)
		assert.Contains(t, cookieNames(got), "session")
	})

	t.Run("unrelated host gets nothing", func(t *testing.T) {
		t.Parallel()

		got := sitedigest.FilterCookiesByHost(entries, "unrelated.net")
		assert.Empty(t, got)
	})

	t.Run("empty domain entries are dropped", func(t *testing.T) {
		t.Parallel()

		got := sitedigest.FilterCookiesByHost([]sitedigest.CookieEntry{{Name: "x"}}, "example.com")
		assert.Empty(t, got)
	})
}

func cookieNames(entries []sitedigest.CookieEntry) []string {
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name
	}
	return names
}
