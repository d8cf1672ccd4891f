package stylemanual

import (
	"strings"
	"unicode/utf8"
)

// MatchKind identifies where in a document a query matched.
type MatchKind string

// Match kinds, in the order FindMatches reports them per document.
const (
	MatchTitle   MatchKind = "title"
	MatchHeading MatchKind = "heading"
	MatchContent MatchKind = "content"
)

// SnippetContext is the number of bytes of context kept on each side of a match.
const SnippetContext = 50

// Match is a single query hit inside a document.
type Match struct {
	Kind    MatchKind `json:"kind"`
	Text    string    `json:"text"`
	Snippet string    `json:"snippet"`
}

// SearchResult groups the matches found in one page.
type SearchResult struct {
	URL     string  `json:"url"`
	Matches []Match `json:"matches"`
}

// SearchReport is the outcome of a search across several pages.
type SearchReport struct {
	Query     string         `json:"query"`
	FromCache bool           `json:"fromCache"`
	Results   []SearchResult `json:"results"`
}

// FindMatches scans doc for a case-insensitive substring match of query.
// The title yields at most one match; each section yields at most one
// heading match and one content match. Matches are returned in document
// order, not by relevance. An empty query matches nothing.
func FindMatches(doc *Document, query string) []Match {
	if doc == nil || query == "" {
		return nil
	}

	var matches []Match

	if containsFold(doc.Title, query) {
		matches = append(matches, Match{
			Kind:    MatchTitle,
			Text:    doc.Title,
			Snippet: doc.Title,
		})
	}

	for _, s := range doc.Sections {
		if containsFold(s.Heading, query) {
			// Prefer body context; fall back to the heading when the body lacks the query.
			snippet := Snippet(s.Content, query)
			if snippet == "" {
				snippet = Snippet(s.Heading, query)
			}
			matches = append(matches, Match{
				Kind:    MatchHeading,
				Text:    s.Heading,
				Snippet: snippet,
			})
		}

		if containsFold(s.Content, query) {
			matches = append(matches, Match{
				Kind:    MatchContent,
				Text:    s.Heading,
				Snippet: Snippet(s.Content, query),
			})
		}
	}

	return matches
}

// Snippet returns up to SnippetContext bytes on each side of the first
// case-insensitive occurrence of query in text, bounded by ellipses.
// Boundaries are moved outward to the nearest rune start.
// Returns an empty string if text does not contain query.
func Snippet(text, query string) string {
	idx := indexFold(text, query)
	if idx < 0 || query == "" {
		return ""
	}

	start := max(0, idx-SnippetContext)
	for start > 0 && !utf8.RuneStart(text[start]) {
		start--
	}
	end := min(len(text), idx+len(query)+SnippetContext)
	for end < len(text) && !utf8.RuneStart(text[end]) {
		end++
	}

	return "..." + text[start:end] + "..."
}

func containsFold(s, substr string) bool {
	return substr != "" && indexFold(s, substr) >= 0
}

// indexFold is strings.Index under Unicode case folding, stepping over s one
// rune at a time so returned offsets are valid for slicing the original text.
func indexFold(s, substr string) int {
	n := len(substr)
	if n == 0 {
		return 0
	}
	for i := 0; i+n <= len(s); {
		if strings.EqualFold(s[i:i+n], substr) {
			return i
		}
		_, size := utf8.DecodeRuneInString(s[i:])
		i += size
	}
	return -1
}
