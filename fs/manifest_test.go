package fs_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sitedigest/sitedigest"
	"github.com/sitedigest/sitedigest/fs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManifestStore(t *testing.T) {
	t.Parallel()

	rootURL := "https://example.com"

	t.Run("load of missing file yields empty manifest", func(t *testing.T) {
		t.Parallel()

		store := fs.NewManifestStore(t.TempDir())
		m, err := store.Load(rootURL)

		require.NoError(t, err)
		assert.Equal(t, rootURL, m.RootURL)
		assert.Empty(t, m.Entries)
	})

	t.Run("save then load round-trips entries", func(t *testing.T) {
		t.Parallel()

		store := fs.NewManifestStore(t.TempDir())
		m := sitedigest.NewManifest(rootURL)
		m.Set("https://example.com/a", sitedigest.ManifestEntry{
			ContentHash: "abc123",
			OutputPath:  "a.md",
			GeneratedAt: time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
			Title:       "Page A",
		})

		require.NoError(t, store.Save(m))

		loaded, err := store.Load(rootURL)
		require.NoError(t, err)

		entry, ok := loaded.Lookup("https://example.com/a")
		require.True(t, ok)
		assert.Equal(t, "abc123", entry.ContentHash)
		assert.Equal(t, "a.md", entry.OutputPath)
		assert.Equal(t, "Page A", entry.Title)
	})

	t.Run("corrupt file degrades to empty manifest", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		store := fs.NewManifestStore(dir)

		// Write garbage where the manifest would live.
		m := sitedigest.NewManifest(rootURL)
		require.NoError(t, store.Save(m))
		files, err := filepath.Glob(filepath.Join(dir, "*.manifest.json"))
		require.NoError(t, err)
		require.Len(t, files, 1)
		require.NoError(t, os.WriteFile(files[0], []byte("{not json"), 0644))

		loaded, err := store.Load(rootURL)
		require.NoError(t, err)
		assert.Empty(t, loaded.Entries)
	})

	t.Run("manifests for different hosts do not collide", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		store := fs.NewManifestStore(dir)

		a := sitedigest.NewManifest("https://alpha.example")
		a.Set("https://alpha.example/x", sitedigest.ManifestEntry{ContentHash: "h", OutputPath: "x.md"})
		require.NoError(t, store.Save(a))

		b := sitedigest.NewManifest("https://beta.example")
		require.NoError(t, store.Save(b))

		loaded, err := store.Load("https://alpha.example")
		require.NoError(t, err)
		_, ok := loaded.Lookup("https://alpha.example/x")
		assert.True(t, ok)
	})

	t.Run("save replaces the previous version atomically", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		store := fs.NewManifestStore(dir)

		m := sitedigest.NewManifest(rootURL)
		m.Set("https://example.com/a", sitedigest.ManifestEntry{ContentHash: "v1", OutputPath: "a.md"})
		require.NoError(t, store.Save(m))

		m.Set("https://example.com/a", sitedigest.ManifestEntry{ContentHash: "v2", OutputPath: "a.md"})
		require.NoError(t, store.Save(m))

		loaded, err := store.Load(rootURL)
		require.NoError(t, err)
		entry, _ := loaded.Lookup("https://example.com/a")
		assert.Equal(t, "v2", entry.ContentHash)

		leftovers, err := filepath.Glob(filepath.Join(dir, "*.tmp"))
		require.NoError(t, err)
		assert.Empty(t, leftovers)
	})
}
