package fs_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sitedigest/sitedigest"
	"github.com/sitedigest/sitedigest/fs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriter_WriteSummary(t *testing.T) {
	t.Parallel()

	page := sitedigest.PageContent{
		URL:       "https://example.com/about/team",
		Title:     "Our Team",
		FetchedAt: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
	}
	summary := &sitedigest.Summary{Text: "A page about the team.", Model: "gemini-2.5-flash"}

	t.Run("writes markdown file named by URL slug", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		w := fs.NewWriter(dir)

		relPath, err := w.WriteSummary(context.Background(), page, summary)
		require.NoError(t, err)
		assert.Equal(t, "about-team.md", relPath)

		data, err := os.ReadFile(filepath.Join(dir, relPath))
		require.NoError(t, err)
		assert.Contains(t, string(data), "A page about the team.")
	})

	t.Run("includes frontmatter with source and title", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		w := fs.NewWriter(dir)

		relPath, err := w.WriteSummary(context.Background(), page, summary)
		require.NoError(t, err)

		data, err := os.ReadFile(filepath.Join(dir, relPath))
		require.NoError(t, err)

		content := string(data)
		assert.Contains(t, content, "source: https://example.com/about/team")
		assert.Contains(t, content, "title: Our Team")
		assert.Contains(t, content, "model: gemini-2.5-flash")
		assert.Contains(t, content, "fetched: 2026-08-01")
	})

	t.Run("creates the output directory", func(t *testing.T) {
		t.Parallel()

		dir := filepath.Join(t.TempDir(), "nested", "out")
		w := fs.NewWriter(dir)

		_, err := w.WriteSummary(context.Background(), page, summary)
		require.NoError(t, err)

		_, err = os.Stat(dir)
		assert.NoError(t, err)
	})

	t.Run("root URL writes index.md", func(t *testing.T) {
		t.Parallel()

		root := sitedigest.PageContent{URL: "https://example.com/", Title: "Home"}
		w := fs.NewWriter(t.TempDir())

		relPath, err := w.WriteSummary(context.Background(), root, summary)
		require.NoError(t, err)
		assert.Equal(t, "index.md", relPath)
	})

	t.Run("rejects nil summary", func(t *testing.T) {
		t.Parallel()

		w := fs.NewWriter(t.TempDir())
		_, err := w.WriteSummary(context.Background(), page, nil)

		require.Error(t, err)
		assert.Equal(t, sitedigest.EINVALID, sitedigest.ErrorCode(err))
	})
}

func TestFormatSummary(t *testing.T) {
	t.Parallel()

	page := sitedigest.PageContent{
		URL:       "https://example.com/pricing",
		Title:     "Pricing",
		FetchedAt: time.Date(2026, 8, 15, 9, 30, 0, 0, time.UTC),
	}
	got := fs.FormatSummary(page, &sitedigest.Summary{Text: "Plans and prices.", Model: "test-model"})

	assert.Equal(t, `---
source: https://example.com/pricing
title: Pricing
model: test-model
fetched: 2026-08-15
---

Plans and prices.
`, got)
}
