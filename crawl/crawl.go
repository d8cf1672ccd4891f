// Package crawl orchestrates fetching Style Manual pages: rate limiting,
// retries, batched downloads into the cache, cache-first lookups and search.
package crawl

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/stylemanual"
)

// Crawler fetches, extracts and caches pages.
type Crawler struct {
	Fetcher     stylemanual.Fetcher
	Extractor   stylemanual.Extractor
	Cache       stylemanual.Cache
	Parser      stylemanual.MarkdownParser
	RateLimiter stylemanual.DomainLimiter
	Logger      *slog.Logger

	// BatchSize and BatchDelay follow BatchOptions semantics.
	BatchSize  int
	BatchDelay time.Duration

	// RetryDelays defaults to DefaultRetryDelays when nil.
	RetryDelays []time.Duration

	// Now defaults to time.Now.
	Now func() time.Time
}

// Result holds the outcome of a DownloadAll call.
type Result struct {
	Total      int
	Succeeded  int
	Failed     int
	Written    int
	Bytes      int
	Collisions []string
	Failures   []Failure
}

// Failure records why a URL did not make it into the cache.
type Failure struct {
	URL string
	Err error
}

// ProgressEvent reports progress during a download.
type ProgressEvent struct {
	Type      ProgressType
	Completed int
	Total     int
	URL       string
	Error     error
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressStarted ProgressType = iota
	ProgressCompleted
	ProgressFailed
	ProgressFinished
)

// ProgressFunc is a callback for reporting download progress.
type ProgressFunc func(event ProgressEvent)

// FetchDocument validates rawURL, waits for the host's rate limit, fetches
// the page with retries and extracts it. Fetch failures are reported as
// EEXTRACT.
func (c *Crawler) FetchDocument(ctx context.Context, rawURL string) (*stylemanual.Document, error) {
	if err := stylemanual.ValidateURL(rawURL); err != nil {
		return nil, err
	}

	if c.RateLimiter != nil {
		if err := c.RateLimiter.Wait(ctx, hostOf(rawURL)); err != nil {
			return nil, err
		}
	}

	html, err := FetchWithRetryDelays(ctx, rawURL, c.Fetcher.Fetch, c.logger(), c.retryDelays())
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, stylemanual.Errorf(stylemanual.EEXTRACT, "extraction failed for %s: %s", rawURL, stylemanual.ErrorMessage(err))
	}

	doc, err := c.Extractor.Extract(rawURL, html)
	if err != nil {
		return nil, err
	}
	doc.FetchedAt = c.now().UTC()

	return doc, nil
}

// RenderPage fetches rawURL and renders it as canonical markdown.
func (c *Crawler) RenderPage(ctx context.Context, rawURL string) (string, error) {
	doc, err := c.FetchDocument(ctx, rawURL)
	if err != nil {
		return "", err
	}
	return stylemanual.RenderMarkdown(doc), nil
}

// DownloadAll fetches and renders every URL in batches, then writes the
// successful pages to the cache. All URLs are validated before anything is
// fetched; duplicates are processed once. Individual page failures are
// counted, not returned. The error is non-nil only for invalid input or a
// cache that cannot be written at all.
func (c *Crawler) DownloadAll(ctx context.Context, urls []string, progress ProgressFunc) (*Result, error) {
	if err := stylemanual.ValidateURLs(urls); err != nil {
		return nil, err
	}
	urls = dedupe(urls)
	total := len(urls)

	if progress != nil {
		progress(ProgressEvent{Type: ProgressStarted, Total: total})
	}

	completed := 0
	opts := c.batchOptions()
	opts.Progress = func(url string, err error) {
		completed++
		if progress == nil {
			return
		}
		event := ProgressEvent{Type: ProgressCompleted, Completed: completed, Total: total, URL: url}
		if err != nil {
			event.Type = ProgressFailed
			event.Error = err
		}
		progress(event)
	}

	outcomes := RunBatches(ctx, urls, func(ctx context.Context, url string) (stylemanual.CacheEntry, error) {
		markdown, err := c.RenderPage(ctx, url)
		if err != nil {
			return stylemanual.CacheEntry{}, err
		}
		return stylemanual.CacheEntry{URL: url, Filename: c.Cache.FilenameFor(url), Markdown: markdown}, nil
	}, opts)

	result := &Result{Total: total}
	var entries []stylemanual.CacheEntry
	for _, o := range outcomes {
		if o.Err != nil {
			result.Failures = append(result.Failures, Failure{URL: o.URL, Err: o.Err})
			continue
		}
		entries = append(entries, o.Value)
	}
	result.Succeeded = len(entries)
	result.Failed = len(result.Failures)

	if len(entries) > 0 {
		written, err := c.Cache.WriteAll(ctx, entries)
		if err != nil {
			return result, err
		}
		result.Written = len(written.Written)
		result.Bytes = writtenBytes(entries, written.Written)
		result.Collisions = written.Collisions
		for _, f := range written.Failed {
			result.Failures = append(result.Failures, Failure{URL: urlForFilename(entries, f.Filename), Err: f.Err})
		}
		result.Succeeded -= len(written.Failed)
		result.Failed = len(result.Failures)
		for _, name := range written.Collisions {
			c.logger().Warn("cache filename collision", "filename", name)
		}
	}

	if progress != nil {
		progress(ProgressEvent{Type: ProgressFinished, Completed: total, Total: total})
	}

	return result, nil
}

// Lookup returns the document for rawURL, preferring the cache. A cached
// entry is used only if it parses and records rawURL as its source; any
// other cache state falls back to a live fetch. The boolean reports whether
// the document came from the cache.
func (c *Crawler) Lookup(ctx context.Context, rawURL string) (*stylemanual.Document, bool, error) {
	if err := stylemanual.ValidateURL(rawURL); err != nil {
		return nil, false, err
	}

	if c.Cache != nil && c.Parser != nil {
		name := c.Cache.FilenameFor(rawURL)
		if markdown, ok := c.Cache.Read(ctx, name); ok {
			doc, err := c.Parser.Parse(markdown)
			if err == nil && doc.SourceURL == rawURL {
				return doc, true, nil
			}
			c.logger().Debug("cached entry not usable", "url", rawURL, "filename", name, "err", err)
		}
	}

	doc, err := c.FetchDocument(ctx, rawURL)
	if err != nil {
		return nil, false, err
	}
	return doc, false, nil
}

func (c *Crawler) batchOptions() BatchOptions {
	return BatchOptions{
		BatchSize: c.BatchSize,
		Delay:     c.BatchDelay,
		Logger:    c.logger(),
	}
}

func (c *Crawler) logger() *slog.Logger {
	if c.Logger == nil {
		return discardLogger
	}
	return c.Logger
}

func (c *Crawler) retryDelays() []time.Duration {
	if c.RetryDelays == nil {
		return DefaultRetryDelays()
	}
	return c.RetryDelays
}

func (c *Crawler) now() time.Time {
	if c.Now == nil {
		return time.Now()
	}
	return c.Now()
}

// dedupe removes repeated URLs, keeping the first occurrence.
func dedupe(urls []string) []string {
	seen := make(map[string]bool, len(urls))
	out := make([]string, 0, len(urls))
	for _, u := range urls {
		if seen[u] {
			continue
		}
		seen[u] = true
		out = append(out, u)
	}
	return out
}

// urlForFilename returns the URL of the last entry for filename, the one
// whose write was attempted.
func urlForFilename(entries []stylemanual.CacheEntry, filename string) string {
	for i := len(entries) - 1; i >= 0; i-- {
		if entries[i].Filename == filename {
			return entries[i].URL
		}
	}
	return filename
}

// writtenBytes sums the markdown size of the entries that were written,
// counting the last entry for a filename as the one stored.
func writtenBytes(entries []stylemanual.CacheEntry, written []string) int {
	sizes := make(map[string]int, len(entries))
	for _, e := range entries {
		sizes[e.Filename] = len(e.Markdown)
	}
	total := 0
	for _, name := range written {
		total += sizes[name]
	}
	return total
}
