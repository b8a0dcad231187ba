// Package slog provides logging decorators for the domain interfaces.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/sitedigest/sitedigest"
)

// Ensure LoggingDiscoveryStrategy implements sitedigest.DiscoveryStrategy.
var _ sitedigest.DiscoveryStrategy = (*LoggingDiscoveryStrategy)(nil)

// LoggingDiscoveryStrategy wraps a DiscoveryStrategy with logging.
type LoggingDiscoveryStrategy struct {
	next   sitedigest.DiscoveryStrategy
	logger *slog.Logger
}

// NewLoggingDiscoveryStrategy creates a new LoggingDiscoveryStrategy.
func NewLoggingDiscoveryStrategy(next sitedigest.DiscoveryStrategy, logger *slog.Logger) *LoggingDiscoveryStrategy {
	return &LoggingDiscoveryStrategy{next: next, logger: logger}
}

// Discover delegates to the wrapped strategy and logs the operation.
func (s *LoggingDiscoveryStrategy) Discover(ctx context.Context, cfg *sitedigest.RunConfig) (urls []sitedigest.DiscoveredURL, err error) {
	defer func(begin time.Time) {
		s.logger.Info("url discovery",
			"method", string(s.next.Method()),
			"root_url", cfg.RootURL,
			"count", len(urls),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Discover(ctx, cfg)
}

// Method delegates to the wrapped strategy.
func (s *LoggingDiscoveryStrategy) Method() sitedigest.DiscoveryMethod {
	return s.next.Method()
}
