package rod

import (
	"context"
	"log/slog"
	"time"

	"github.com/sitedigest/sitedigest"
)

// Ensure LoggingStrategy implements sitedigest.FetchStrategy.
var _ sitedigest.FetchStrategy = (*LoggingStrategy)(nil)

// LoggingStrategy wraps a FetchStrategy with debug logging.
type LoggingStrategy struct {
	next   sitedigest.FetchStrategy
	logger *slog.Logger
}

// NewLoggingStrategy creates a new LoggingStrategy.
func NewLoggingStrategy(next sitedigest.FetchStrategy, logger *slog.Logger) *LoggingStrategy {
	return &LoggingStrategy{next: next, logger: logger}
}

// Fetch logs the URL being fetched and delegates to the wrapped strategy.
func (s *LoggingStrategy) Fetch(ctx context.Context, url string) (page *sitedigest.PageContent, err error) {
	defer func(begin time.Time) {
		bytes := 0
		if page != nil {
			bytes = len(page.RawHTML)
		}
		s.logger.Info("fetch",
			"strategy", s.next.Name(),
			"url", url,
			"bytes", bytes,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Fetch(ctx, url)
}

// Name delegates to the wrapped strategy.
func (s *LoggingStrategy) Name() string {
	return s.next.Name()
}
