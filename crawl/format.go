package crawl

import (
	"fmt"
	"strings"

	"github.com/fwojciec/stylemanual"
)

// progressURLWidth is how much of a URL a progress line shows.
const progressURLWidth = 60

// TruncateURL shortens a URL for display, keeping the end which is more informative.
func TruncateURL(url string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	if maxLen < 4 {
		// Too short for "..." prefix, just return dots
		return url[:min(len(url), maxLen)]
	}
	if len(url) <= maxLen {
		return url
	}
	return "..." + url[len(url)-maxLen+3:]
}

// FormatBytes formats bytes in human-readable form.
func FormatBytes(bytes int) string {
	const (
		KB = 1024
		MB = KB * 1024
	)
	switch {
	case bytes >= MB:
		return fmt.Sprintf("%.1f MB", float64(bytes)/float64(MB))
	case bytes >= KB:
		return fmt.Sprintf("%.1f KB", float64(bytes)/float64(KB))
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}

// FormatProgress renders a download progress event as a single line.
func FormatProgress(event ProgressEvent) string {
	switch event.Type {
	case ProgressStarted:
		return fmt.Sprintf("Downloading %d pages...", event.Total)
	case ProgressCompleted:
		return fmt.Sprintf("[%d/%d] %s", event.Completed, event.Total, TruncateURL(event.URL, progressURLWidth))
	case ProgressFailed:
		return fmt.Sprintf("[%d/%d] %s failed: %s", event.Completed, event.Total,
			TruncateURL(event.URL, progressURLWidth), stylemanual.ErrorMessage(event.Error))
	case ProgressFinished:
		return fmt.Sprintf("Processed %d pages.", event.Total)
	default:
		return ""
	}
}

// FormatSummary renders the outcome of a download.
func FormatSummary(result *Result) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Downloaded %d of %d pages (%s)\n", result.Written, result.Total, FormatBytes(result.Bytes))
	if result.Failed > 0 {
		fmt.Fprintf(&b, "Failed: %d\n", result.Failed)
		for _, f := range result.Failures {
			fmt.Fprintf(&b, "  %s: %s\n", f.URL, stylemanual.ErrorMessage(f.Err))
		}
	}
	if len(result.Collisions) > 0 {
		fmt.Fprintf(&b, "Filename collisions: %s\n", strings.Join(result.Collisions, ", "))
	}
	return b.String()
}
