package crawl_test

import (
	"testing"

	"github.com/sitedigest/sitedigest"
	"github.com/sitedigest/sitedigest/crawl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrontier(t *testing.T) {
	t.Parallel()

	t.Run("pops in insertion order", func(t *testing.T) {
		t.Parallel()

		f := crawl.NewFrontier(100, 0.01)
		f.Push(sitedigest.DiscoveredURL{URL: "https://example.com/a"})
		f.Push(sitedigest.DiscoveredURL{URL: "https://example.com/b"})
		f.Push(sitedigest.DiscoveredURL{URL: "https://example.com/c"})

		first, ok := f.Pop()
		require.True(t, ok)
		assert.Equal(t, "https://example.com/a", first.URL)

		second, ok := f.Pop()
		require.True(t, ok)
		assert.Equal(t, "https://example.com/b", second.URL)
	})

	t.Run("rejects duplicate URLs", func(t *testing.T) {
		t.Parallel()

		f := crawl.NewFrontier(100, 0.01)
		assert.True(t, f.Push(sitedigest.DiscoveredURL{URL: "https://example.com/page"}))
		assert.False(t, f.Push(sitedigest.DiscoveredURL{URL: "https://example.com/page"}))
		assert.Equal(t, 1, f.Len())
	})

	t.Run("fragment variants count as one URL", func(t *testing.T) {
		t.Parallel()

		f := crawl.NewFrontier(100, 0.01)
		assert.True(t, f.Push(sitedigest.DiscoveredURL{URL: "https://example.com/page"}))
		assert.False(t, f.Push(sitedigest.DiscoveredURL{URL: "https://example.com/page#section"}))
		assert.Equal(t, 1, f.Len())
	})

	t.Run("pop on empty frontier returns false", func(t *testing.T) {
		t.Parallel()

		f := crawl.NewFrontier(100, 0.01)
		_, ok := f.Pop()
		assert.False(t, ok)
	})

	t.Run("seen reports queued URLs after pop", func(t *testing.T) {
		t.Parallel()

		f := crawl.NewFrontier(100, 0.01)
		f.Push(sitedigest.DiscoveredURL{URL: "https://example.com/page"})
		f.Pop()

		assert.True(t, f.Seen("https://example.com/page"))
		assert.False(t, f.Seen("https://example.com/other"))
	})
}
