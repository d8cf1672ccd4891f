package stylemanual

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// TimestampFormat is the UTC ISO-8601 layout used for Last Fetched lines.
const TimestampFormat = "2006-01-02T15:04:05.000Z"

// Minimum lengths applied when rendering.
const (
	minOverviewLength  = 50
	minParagraphLength = 10
)

var (
	excessNewlines = regexp.MustCompile(`\n{3,}`)
	symbolOnly     = regexp.MustCompile(`^[\s\-•→]+$`)
	edgeSymbols    = regexp.MustCompile(`^[\s\-•→]+|[\s\-•→]+$`)
)

// RenderMarkdown renders doc as canonical markdown. Output depends only on
// doc, so rendering the same document twice yields identical bytes.
func RenderMarkdown(doc *Document) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", CleanText(doc.Title))
	fmt.Fprintf(&b, "**Source:** %s\n", doc.SourceURL)
	fmt.Fprintf(&b, "**Last Fetched:** %s\n\n", doc.FetchedAt.UTC().Format(TimestampFormat))

	if overview := CleanParagraphs(doc.Overview); utf8.RuneCountInString(overview) > minOverviewLength {
		fmt.Fprintf(&b, "## Overview\n\n%s\n\n", overview)
	}

	seen := make(map[string]bool)
	for _, s := range doc.Sections {
		heading := CleanText(s.Heading)
		content := CleanParagraphs(s.Content)
		if heading == "" || content == "" || seen[heading] {
			continue
		}
		seen[heading] = true

		level := min(max(s.Level, 2), 4)
		fmt.Fprintf(&b, "%s %s\n\n%s\n\n", strings.Repeat("#", level), heading, content)
	}

	return excessNewlines.ReplaceAllString(b.String(), "\n\n")
}

// FormatSearchResults renders a search report as markdown.
func FormatSearchResults(report *SearchReport) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Search Results for %q\n\n", report.Query)
	fmt.Fprintf(&b, "Found %d pages with matching content:\n\n", len(report.Results))
	if report.FromCache {
		b.WriteString("*Results from cached content*\n\n")
	}

	for _, r := range report.Results {
		fmt.Fprintf(&b, "## %s\n\n", r.URL)
		for _, m := range r.Matches {
			fmt.Fprintf(&b, "**%s:** %s\n", m.Kind, m.Text)
			fmt.Fprintf(&b, "> %s\n\n", m.Snippet)
		}
		b.WriteString("---\n\n")
	}

	return b.String()
}

// CleanText collapses whitespace to single spaces and strips leading and
// trailing bullets, dashes and arrows.
func CleanText(text string) string {
	text = strings.Join(strings.Fields(text), " ")
	return edgeSymbols.ReplaceAllString(text, "")
}

// CleanParagraphs normalizes multi-paragraph text while keeping its line
// structure. Runs of spaces and tabs collapse within each line, except inside
// fenced code blocks. Paragraphs of minParagraphLength characters or fewer
// and symbol-only paragraphs are dropped.
func CleanParagraphs(text string) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}

	var kept []string
	for _, p := range splitParagraphs(text) {
		p = strings.TrimSpace(p)
		if utf8.RuneCountInString(p) <= minParagraphLength || symbolOnly.MatchString(p) {
			continue
		}
		kept = append(kept, p)
	}
	return strings.Join(kept, "\n\n")
}

// splitParagraphs splits on blank lines outside code fences and collapses
// horizontal whitespace on every non-code line.
func splitParagraphs(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")

	var (
		paragraphs []string
		current    []string
		inFence    bool
	)
	flush := func() {
		if len(current) > 0 {
			paragraphs = append(paragraphs, strings.Join(current, "\n"))
			current = nil
		}
	}

	for _, line := range strings.Split(text, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			inFence = !inFence
			current = append(current, strings.TrimSpace(line))
			continue
		}
		if inFence {
			current = append(current, strings.TrimRight(line, " \t"))
			continue
		}
		line = strings.Join(strings.Fields(line), " ")
		if line == "" {
			flush()
			continue
		}
		current = append(current, line)
	}
	flush()

	return paragraphs
}
