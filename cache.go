package stylemanual

import (
	"context"
	"time"
)

// CacheVersion is recorded in cache-info.json by every population run.
const CacheVersion = "1.0.0"

// CacheEntry is one rendered page destined for the cache.
type CacheEntry struct {
	URL      string
	Filename string
	Markdown string
}

// CacheInfo records when the cache was last populated.
type CacheInfo struct {
	LastUpdated time.Time `json:"lastUpdated"`
	Version     string    `json:"version"`
}

// Manifest is the freshness record written alongside the cached pages.
type Manifest struct {
	LastUpdated time.Time      `json:"lastUpdated"`
	TotalFiles  int            `json:"totalFiles"`
	RunID       string         `json:"runId"`
	Files       []ManifestFile `json:"files"`
}

// ManifestFile ties a cached file to the page it came from.
type ManifestFile struct {
	URL      string `json:"url"`
	Filename string `json:"filename"`
	Hash     string `json:"hash"`
}

// EntryFailure describes a cache entry that could not be written.
type EntryFailure struct {
	Filename string
	Err      error
}

// WriteResult summarizes a WriteAll call.
type WriteResult struct {
	Written    []string
	Failed     []EntryFailure
	Collisions []string
}

// Cache stores rendered pages as flat files. Misses are never errors.
type Cache interface {
	// FilenameFor derives the cache filename of a page URL.
	FilenameFor(url string) string

	// IsPopulated reports whether at least one page is cached.
	IsPopulated(ctx context.Context) bool

	// ListEntries returns the sorted filenames of cached pages.
	ListEntries(ctx context.Context) []string

	// Read returns the cached markdown for filename, or false on a miss.
	Read(ctx context.Context, filename string) (string, bool)

	// WriteAll stores entries and regenerates the derived indexes from the
	// entries that were written successfully.
	WriteAll(ctx context.Context, entries []CacheEntry) (*WriteResult, error)

	// Info returns the record of the last population run, or false if none.
	Info(ctx context.Context) (*CacheInfo, bool)
}
