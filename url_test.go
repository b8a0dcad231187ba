package sitedigest_test

import (
	"testing"

	"github.com/sitedigest/sitedigest"
	"github.com/stretchr/testify/assert"
)

func TestCanonicalize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"strips fragment", "https://example.com/page#section", "https://example.com/page"},
		{"lowercases host", "https://EXAMPLE.com/Page", "https://example.com/Page"},
		{"lowercases scheme", "HTTPS://example.com/", "https://example.com/"},
		{"preserves query", "https://example.com/p?a=1&b=2", "https://example.com/p?a=1&b=2"},
		{"preserves path case", "https://example.com/About/Team", "https://example.com/About/Team"},
		{"no-op for already canonical", "https://example.com/page", "https://example.com/page"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, sitedigest.Canonicalize(tt.in))
		})
	}
}

func TestSameHost(t *testing.T) {
	t.Parallel()

	assert.True(t, sitedigest.SameHost("https://example.com/a", "https://example.com/b"))
	assert.True(t, sitedigest.SameHost("https://www.example.com/a", "https://example.com/b"))
	assert.True(t, sitedigest.SameHost("https://EXAMPLE.com/a", "https://example.com/b"))
	assert.False(t, sitedigest.SameHost("https://example.com/a", "https://other.com/b"))
	assert.False(t, sitedigest.SameHost("https://blog.example.com/a", "https://example.com/b"))
}

func TestSlugify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"simple path", "https://example.com/about", "about"},
		{"nested path", "https://example.com/about/team", "about-team"},
		{"root is index", "https://example.com/", "index"},
		{"bare host is index", "https://example.com", "index"},
		{"trailing slash trimmed", "https://example.com/blog/", "blog"},
		{"special characters collapse", "https://example.com/2026/08/hello_world!", "2026-08-hello-world"},
		{"uppercase lowered", "https://example.com/About", "about"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, sitedigest.Slugify(tt.in))
		})
	}
}

func TestHostPath(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "example.com", sitedigest.HostPath("https://example.com/a"))
	assert.Equal(t, "example.com", sitedigest.HostPath("https://www.example.com"))
	assert.Equal(t, "localhost_8080", sitedigest.HostPath("http://localhost:8080"))
	assert.Equal(t, "site", sitedigest.HostPath("not a url"))
}
