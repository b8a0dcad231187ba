package gemini_test

import (
	"context"
	"strings"
	"testing"

	"github.com/sitedigest/sitedigest"
	"github.com/sitedigest/sitedigest/gemini"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarizer_Summarize_RejectsEmptyContent(t *testing.T) {
	t.Parallel()

	s := gemini.NewSummarizer(nil) // nil client ok, validation fails first

	_, err := s.Summarize(context.Background(), sitedigest.PageContent{
		URL: "https://example.com/a",
	})

	require.Error(t, err)
	assert.Equal(t, sitedigest.EINVALID, sitedigest.ErrorCode(err))
}

func TestBuildUserPrompt(t *testing.T) {
	t.Parallel()

	t.Run("includes title source and content", func(t *testing.T) {
		t.Parallel()

		prompt := gemini.BuildUserPrompt(sitedigest.PageContent{
			URL:       "https://example.com/pricing",
			Title:     "Pricing",
			Extracted: "# Pricing\n\nPlans start at $10.",
		})

		assert.Contains(t, prompt, "<title>Pricing</title>")
		assert.Contains(t, prompt, "<source>https://example.com/pricing</source>")
		assert.Contains(t, prompt, "Plans start at $10.")
	})

	t.Run("falls back to URL when title is empty", func(t *testing.T) {
		t.Parallel()

		prompt := gemini.BuildUserPrompt(sitedigest.PageContent{
			URL:       "https://example.com/a",
			Extracted: "content",
		})

		assert.Contains(t, prompt, "<title>https://example.com/a</title>")
	})

	t.Run("truncates oversized content", func(t *testing.T) {
		t.Parallel()

		prompt := gemini.BuildUserPrompt(sitedigest.PageContent{
			URL:       "https://example.com/a",
			Title:     "Big",
			Extracted: strings.Repeat("x", 300_000),
		})

		assert.Less(t, len(prompt), 250_000)
	})
}

func TestBuildConfig(t *testing.T) {
	t.Parallel()

	config := gemini.BuildConfig()

	require.NotNil(t, config.SystemInstruction)
	require.NotNil(t, config.Temperature)
	assert.InDelta(t, 0.3, float64(*config.Temperature), 0.001)
}
