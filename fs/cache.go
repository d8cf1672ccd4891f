// Package fs stores rendered pages and their derived indexes as flat files.
package fs

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/fwojciec/stylemanual"
)

// Cache layout, relative to Config.Root.
const (
	SectionsDir    = "sections"
	SearchIndexDir = "search-index"
	MetadataDir    = "metadata"

	IndexFile       = "index.md"
	KeywordsFile    = "keywords.md"
	TopicsFile      = "topics.md"
	LastUpdatedFile = "last-updated.json"
	InfoFile        = "cache-info.json"
)

// Config configures a Cache.
type Config struct {
	// Root is the cache directory. It is created on the first write.
	Root string
}

// Ensure Cache implements stylemanual.Cache at compile time.
var _ stylemanual.Cache = (*Cache)(nil)

// Cache is a stylemanual.Cache backed by a directory tree.
type Cache struct {
	root string

	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time

	// RunID returns the identifier recorded in the manifest. Defaults to a
	// random UUID.
	RunID func() string
}

// NewCache returns a Cache rooted at cfg.Root.
func NewCache(cfg Config) *Cache {
	return &Cache{root: cfg.Root}
}

// Root returns the cache directory.
func (c *Cache) Root() string {
	return c.root
}

// FilenameFor implements stylemanual.Cache.
func (c *Cache) FilenameFor(rawURL string) string {
	return filenameFor(rawURL, c.now())
}

// IsPopulated implements stylemanual.Cache.
func (c *Cache) IsPopulated(ctx context.Context) bool {
	return len(c.ListEntries(ctx)) > 0
}

// ListEntries implements stylemanual.Cache. A missing or unreadable sections
// directory lists as empty.
func (c *Cache) ListEntries(_ context.Context) []string {
	entries, err := os.ReadDir(filepath.Join(c.root, SectionsDir))
	if err != nil {
		return []string{}
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.Type().IsRegular() || !isPlainName(e.Name()) || filepath.Ext(e.Name()) != ".md" {
			continue
		}
		names = append(names, e.Name())
	}
	slices.Sort(names)
	return names
}

// Read implements stylemanual.Cache.
func (c *Cache) Read(_ context.Context, filename string) (string, bool) {
	if !isPlainName(filename) {
		return "", false
	}
	data, err := os.ReadFile(filepath.Join(c.root, SectionsDir, filename))
	if err != nil {
		return "", false
	}
	return string(data), true
}

// Info implements stylemanual.Cache.
func (c *Cache) Info(_ context.Context) (*stylemanual.CacheInfo, bool) {
	data, err := os.ReadFile(filepath.Join(c.root, InfoFile))
	if err != nil {
		return nil, false
	}
	var info stylemanual.CacheInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, false
	}
	return &info, true
}

// WriteAll implements stylemanual.Cache. When several entries share a
// filename the last one wins and the filename is reported as a collision.
// Derived indexes describe only the entries that were written.
func (c *Cache) WriteAll(ctx context.Context, entries []stylemanual.CacheEntry) (*stylemanual.WriteResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	for _, dir := range []string{SectionsDir, SearchIndexDir, MetadataDir} {
		if err := os.MkdirAll(filepath.Join(c.root, dir), 0o755); err != nil {
			return nil, stylemanual.Errorf(stylemanual.EINTERNAL, "create cache layout: %v", err)
		}
	}

	unique, collisions := resolveCollisions(entries)
	result := &stylemanual.WriteResult{
		Written:    []string{},
		Collisions: collisions,
	}

	written := make([]stylemanual.CacheEntry, 0, len(unique))
	for _, e := range unique {
		if !isPlainName(e.Filename) {
			result.Failed = append(result.Failed, stylemanual.EntryFailure{
				Filename: e.Filename,
				Err:      stylemanual.Errorf(stylemanual.EINVALID, "invalid cache filename %q", e.Filename),
			})
			continue
		}
		if err := writeFileAtomic(filepath.Join(c.root, SectionsDir, e.Filename), []byte(e.Markdown)); err != nil {
			result.Failed = append(result.Failed, stylemanual.EntryFailure{Filename: e.Filename, Err: err})
			continue
		}
		written = append(written, e)
		result.Written = append(result.Written, e.Filename)
	}

	if err := c.writeIndexes(written); err != nil {
		return result, err
	}
	return result, nil
}

// derivedFile is an index regenerated on every WriteAll, relative to the
// cache root.
type derivedFile struct {
	name    string
	content []byte
}

func (c *Cache) writeIndexes(entries []stylemanual.CacheEntry) error {
	now := c.now().UTC()

	manifest, err := marshalJSON(buildManifest(entries, now, c.runID()))
	if err != nil {
		return err
	}
	info, err := marshalJSON(stylemanual.CacheInfo{LastUpdated: now, Version: stylemanual.CacheVersion})
	if err != nil {
		return err
	}

	files := []derivedFile{
		{IndexFile, []byte(mainIndex(entries, now))},
		{filepath.Join(SearchIndexDir, KeywordsFile), []byte(keywordIndex(entries))},
		{filepath.Join(SearchIndexDir, TopicsFile), []byte(topicIndex(entries))},
		{filepath.Join(MetadataDir, LastUpdatedFile), manifest},
		{InfoFile, info},
	}
	for _, f := range files {
		if err := writeFileAtomic(filepath.Join(c.root, f.name), f.content); err != nil {
			return stylemanual.Errorf(stylemanual.EINTERNAL, "write %s: %v", f.name, err)
		}
	}
	return nil
}

func (c *Cache) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}

// resolveCollisions keeps the last entry for every filename, in order of
// first appearance, and returns the sorted filenames that appeared more
// than once.
func resolveCollisions(entries []stylemanual.CacheEntry) ([]stylemanual.CacheEntry, []string) {
	pos := make(map[string]int, len(entries))
	unique := make([]stylemanual.CacheEntry, 0, len(entries))
	var collisions []string

	for _, e := range entries {
		i, ok := pos[e.Filename]
		if !ok {
			pos[e.Filename] = len(unique)
			unique = append(unique, e)
			continue
		}
		if unique[i].URL != e.URL && !slices.Contains(collisions, e.Filename) {
			collisions = append(collisions, e.Filename)
		}
		unique[i] = e
	}
	slices.Sort(collisions)
	return unique, collisions
}

// writeFileAtomic writes data to a temporary file in the target directory
// and renames it into place, so readers never observe a partial file.
func writeFileAtomic(path string, data []byte) error {
	dir, name := filepath.Split(path)
	tmp, err := os.CreateTemp(dir, "."+name+"-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	if err = os.Chmod(tmpName, 0o644); err != nil {
		return err
	}
	err = os.Rename(tmpName, path)
	return err
}

func marshalJSON(v any) ([]byte, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal %T: %w", v, err)
	}
	return append(data, '\n'), nil
}

// trimMD strips the .md extension for display.
func trimMD(filename string) string {
	return strings.TrimSuffix(filename, ".md")
}
