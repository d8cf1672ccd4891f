package stylemanual

import (
	"time"
)

// Section levels mirror HTML heading depth. h1 is reserved for the page title.
const (
	MinSectionLevel = 2
	MaxSectionLevel = 6
)

// DefaultTitle is used when no title candidate yields usable text.
const DefaultTitle = "Style Manual"

// Document represents a single extracted Style Manual page.
type Document struct {
	SourceURL string    `json:"sourceUrl"`
	Title     string    `json:"title"`
	Overview  string    `json:"overview"`
	Sections  []Section `json:"sections"`
	FetchedAt time.Time `json:"fetchedAt"`
}

// Section is a heading plus the content up to the next heading of
// equal or shallower level.
type Section struct {
	Heading string `json:"heading"`
	Level   int    `json:"level"`
	Content string `json:"content"`
}

// Validate returns an error if the document contains invalid fields.
func (d *Document) Validate() error {
	if d.SourceURL == "" {
		return Errorf(EINVALID, "document source URL required")
	}
	if d.Title == "" {
		return Errorf(EINVALID, "document title required")
	}
	for _, s := range d.Sections {
		if s.Heading == "" {
			return Errorf(EINVALID, "section heading required")
		}
		if s.Level < MinSectionLevel || s.Level > MaxSectionLevel {
			return Errorf(EINVALID, "section %q has level %d outside [%d,%d]", s.Heading, s.Level, MinSectionLevel, MaxSectionLevel)
		}
	}
	return nil
}

// MarkdownParser reads rendered markdown back into a Document.
type MarkdownParser interface {
	// Parse reverses RenderMarkdown closely enough for search: title, source,
	// fetch time, overview and one section per heading.
	Parse(markdown string) (*Document, error)
}
