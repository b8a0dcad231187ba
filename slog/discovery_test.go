package slog_test

import (
	"bytes"
	"context"
	stdslog "log/slog"
	"testing"

	"github.com/sitedigest/sitedigest"
	"github.com/sitedigest/sitedigest/mock"
	logslog "github.com/sitedigest/sitedigest/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingDiscoveryStrategy(t *testing.T) {
	t.Parallel()

	t.Run("delegates and logs method and count", func(t *testing.T) {
		t.Parallel()

		inner := &mock.DiscoveryStrategy{
			DiscoverFn: func(_ context.Context, _ *sitedigest.RunConfig) ([]sitedigest.DiscoveredURL, error) {
				return []sitedigest.DiscoveredURL{
					{URL: "https://example.com/a", Method: sitedigest.MethodSitemap},
				}, nil
			},
			MethodFn: func() sitedigest.DiscoveryMethod { return sitedigest.MethodSitemap },
		}

		var buf bytes.Buffer
		logger := stdslog.New(stdslog.NewTextHandler(&buf, nil))
		s := logslog.NewLoggingDiscoveryStrategy(inner, logger)

		urls, err := s.Discover(context.Background(), &sitedigest.RunConfig{RootURL: "https://example.com"})
		require.NoError(t, err)
		require.Len(t, urls, 1)

		out := buf.String()
		assert.Contains(t, out, "url discovery")
		assert.Contains(t, out, "method=sitemap")
		assert.Contains(t, out, "count=1")
	})

	t.Run("method passes through", func(t *testing.T) {
		t.Parallel()

		inner := &mock.DiscoveryStrategy{
			MethodFn: func() sitedigest.DiscoveryMethod { return sitedigest.MethodFeed },
		}
		s := logslog.NewLoggingDiscoveryStrategy(inner, stdslog.New(stdslog.DiscardHandler))

		assert.Equal(t, sitedigest.MethodFeed, s.Method())
	})
}
