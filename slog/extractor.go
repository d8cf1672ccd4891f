package slog

import (
	"log/slog"
	"time"

	"github.com/fwojciec/stylemanual"
)

// Ensure LoggingExtractor implements stylemanual.Extractor.
var _ stylemanual.Extractor = (*LoggingExtractor)(nil)

// LoggingExtractor wraps an Extractor with logging of every page.
type LoggingExtractor struct {
	next   stylemanual.Extractor
	logger *slog.Logger
}

// NewLoggingExtractor creates a new LoggingExtractor.
func NewLoggingExtractor(next stylemanual.Extractor, logger *slog.Logger) *LoggingExtractor {
	return &LoggingExtractor{next: next, logger: logger}
}

// Extract delegates to the wrapped extractor and logs what it found.
func (e *LoggingExtractor) Extract(sourceURL string, html string) (doc *stylemanual.Document, err error) {
	defer func(begin time.Time) {
		var title string
		var sections int
		if doc != nil {
			title = doc.Title
			sections = len(doc.Sections)
		}
		e.logger.Info("extract",
			"url", sourceURL,
			"title", title,
			"sections", sections,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return e.next.Extract(sourceURL, html)
}
