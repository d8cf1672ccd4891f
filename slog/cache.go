package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/stylemanual"
)

// Ensure LoggingCache implements stylemanual.Cache.
var _ stylemanual.Cache = (*LoggingCache)(nil)

// LoggingCache wraps a Cache with logging of writes. Reads are not logged.
type LoggingCache struct {
	stylemanual.Cache
	logger *slog.Logger
}

// NewLoggingCache creates a new LoggingCache.
func NewLoggingCache(next stylemanual.Cache, logger *slog.Logger) *LoggingCache {
	return &LoggingCache{Cache: next, logger: logger}
}

// WriteAll delegates to the wrapped cache and logs the outcome.
func (c *LoggingCache) WriteAll(ctx context.Context, entries []stylemanual.CacheEntry) (result *stylemanual.WriteResult, err error) {
	defer func(begin time.Time) {
		var written, failed, collisions int
		if result != nil {
			written = len(result.Written)
			failed = len(result.Failed)
			collisions = len(result.Collisions)
		}
		c.logger.Info("cache write",
			"entries", len(entries),
			"written", written,
			"failed", failed,
			"collisions", collisions,
			"duration", time.Since(begin),
			"err", err,
		)
		if result != nil {
			for _, f := range result.Failed {
				c.logger.Warn("cache entry failed", "filename", f.Filename, "err", f.Err)
			}
		}
	}(time.Now())
	return c.Cache.WriteAll(ctx, entries)
}
