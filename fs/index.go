package fs

import (
	"fmt"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/stylemanual"
	"github.com/google/uuid"
)

// Headings indexed in keywords.md. The page title and the overview are
// left out because every page has them.
const (
	minKeywordLevel = 2
	maxKeywordLevel = 4
	overviewHeading = "Overview"
)

func mainIndex(entries []stylemanual.CacheEntry, now time.Time) string {
	var b strings.Builder
	b.WriteString("# Australian Government Style Manual - Quick Reference\n\n")
	b.WriteString("## How to Use This Cache\n\n")
	b.WriteString("- Search cached pages: `stylemanual search \"<term>\"`\n")
	b.WriteString("- Read a page: `stylemanual read <filename>`\n")
	b.WriteString("- Browse by heading: [keywords](" + SearchIndexDir + "/" + KeywordsFile + ")\n")
	b.WriteString("- Browse by topic: [topics](" + SearchIndexDir + "/" + TopicsFile + ")\n\n")

	b.WriteString("## Available Sections\n\n")
	if len(entries) == 0 {
		b.WriteString("No pages cached.\n")
	}
	for _, e := range sortedByFilename(entries) {
		fmt.Fprintf(&b, "- [%s](%s/%s) - %s\n", trimMD(e.Filename), SectionsDir, e.Filename, e.URL)
	}

	b.WriteString("\n## Last Updated\n\n")
	b.WriteString(now.Format(stylemanual.TimestampFormat))
	b.WriteString("\n")
	return b.String()
}

type keywordRef struct {
	filename string
	anchor   string
}

func keywordIndex(entries []stylemanual.CacheEntry) string {
	refs := make(map[string][]keywordRef)
	var keywords []string

	for _, e := range sortedByFilename(entries) {
		for _, h := range stylemanual.ExtractHeadings(e.Markdown) {
			if h.Level < minKeywordLevel || h.Level > maxKeywordLevel || h.Title == overviewHeading {
				continue
			}
			key := strings.ToLower(h.Title)
			if _, ok := refs[key]; !ok {
				keywords = append(keywords, key)
			}
			refs[key] = append(refs[key], keywordRef{filename: e.Filename, anchor: h.Anchor})
		}
	}
	slices.Sort(keywords)

	var b strings.Builder
	b.WriteString("# Keyword to File Mapping\n\n")
	if len(keywords) == 0 {
		b.WriteString("No headings indexed.\n")
	}
	for _, k := range keywords {
		links := make([]string, 0, len(refs[k]))
		for _, r := range refs[k] {
			links = append(links, fmt.Sprintf("[%s](../%s/%s#%s)", r.filename, SectionsDir, r.filename, r.anchor))
		}
		fmt.Fprintf(&b, "- **%s** → %s\n", k, strings.Join(links, ", "))
	}
	return b.String()
}

func topicIndex(entries []stylemanual.CacheEntry) string {
	groups := make(map[string][]stylemanual.CacheEntry)
	var topics []string

	for _, e := range sortedByFilename(entries) {
		t := topicOf(e.URL)
		if _, ok := groups[t]; !ok {
			topics = append(topics, t)
		}
		groups[t] = append(groups[t], e)
	}
	slices.Sort(topics)

	var b strings.Builder
	b.WriteString("# Topic-Based Navigation\n")
	if len(topics) == 0 {
		b.WriteString("\nNo pages cached.\n")
	}
	for _, t := range topics {
		fmt.Fprintf(&b, "\n## %s\n\n", topicTitle(t))
		for _, e := range groups[t] {
			fmt.Fprintf(&b, "- [%s](../%s/%s) - %s\n", trimMD(e.Filename), SectionsDir, e.Filename, e.URL)
		}
	}
	return b.String()
}

// topicOf returns the first path segment of rawURL, or "general" for pages
// at the site root.
func topicOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "general"
	}
	for _, seg := range strings.Split(u.Path, "/") {
		if seg != "" {
			return strings.ToLower(seg)
		}
	}
	return "general"
}

// topicTitle turns a path segment like "grammar-punctuation-and-conventions"
// into "Grammar punctuation and conventions".
func topicTitle(segment string) string {
	s := strings.ReplaceAll(segment, "-", " ")
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func buildManifest(entries []stylemanual.CacheEntry, now time.Time, runID string) stylemanual.Manifest {
	files := make([]stylemanual.ManifestFile, 0, len(entries))
	for _, e := range sortedByFilename(entries) {
		files = append(files, stylemanual.ManifestFile{
			URL:      e.URL,
			Filename: e.Filename,
			Hash:     ContentHash(e.Markdown),
		})
	}
	return stylemanual.Manifest{
		LastUpdated: now,
		TotalFiles:  len(files),
		RunID:       runID,
		Files:       files,
	}
}

// ContentHash returns the hex xxhash of content, as recorded in the manifest.
func ContentHash(content string) string {
	return fmt.Sprintf("%x", xxhash.Sum64String(content))
}

func (c *Cache) runID() string {
	if c.RunID != nil {
		return c.RunID()
	}
	return uuid.New().String()
}

func sortedByFilename(entries []stylemanual.CacheEntry) []stylemanual.CacheEntry {
	sorted := slices.Clone(entries)
	slices.SortStableFunc(sorted, func(a, b stylemanual.CacheEntry) int {
		return strings.Compare(a.Filename, b.Filename)
	})
	return sorted
}
