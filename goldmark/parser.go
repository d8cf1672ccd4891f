// Package goldmark reads cached markdown pages back into documents.
package goldmark

import (
	"bytes"
	"regexp"
	"strings"
	"time"

	"github.com/fwojciec/stylemanual"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// overviewHeading is the level-2 heading RenderMarkdown gives the overview.
const overviewHeading = "Overview"

var (
	sourceLine  = regexp.MustCompile(`(?m)^\*\*Source:\*\*[ \t]*(\S+)[ \t]*$`)
	fetchedLine = regexp.MustCompile(`(?m)^\*\*Last Fetched:\*\*[ \t]*(\S+)[ \t]*$`)
)

// Ensure Parser implements stylemanual.MarkdownParser at compile time.
var _ stylemanual.MarkdownParser = (*Parser)(nil)

// Parser parses markdown in the layout produced by stylemanual.RenderMarkdown.
type Parser struct {
	md goldmark.Markdown
}

// NewParser returns a Parser using the CommonMark dialect.
func NewParser() *Parser {
	return &Parser{md: goldmark.New()}
}

// Parse implements stylemanual.MarkdownParser. The first level-1 heading is
// the title. Section content is the raw markdown between headings, so
// formatting survives the round trip.
func (p *Parser) Parse(markdown string) (*stylemanual.Document, error) {
	src := []byte(markdown)
	root := p.md.Parser().Parse(text.NewReader(src))

	doc := &stylemanual.Document{
		SourceURL: submatch(sourceLine, markdown),
		FetchedAt: parseTimestamp(submatch(fetchedLine, markdown)),
	}

	headings := topLevelHeadings(root, src)

	overview := false
	for i, h := range headings {
		end := len(src)
		if i+1 < len(headings) {
			end = headings[i+1].start
		}
		body := strings.TrimSpace(string(src[h.end:end]))

		switch {
		case h.level == 1:
			if doc.Title == "" {
				doc.Title = h.title
			}
			continue
		case h.level == 2 && h.title == overviewHeading && !overview && len(doc.Sections) == 0:
			doc.Overview = body
			overview = true
			continue
		}

		doc.Sections = append(doc.Sections, stylemanual.Section{
			Heading: h.title,
			Level:   h.level,
			Content: body,
		})
	}

	if doc.Title == "" {
		return nil, stylemanual.Errorf(stylemanual.EINVALID, "markdown has no title heading")
	}
	return doc, nil
}

// heading is a top-level ATX or setext heading and the byte range of the
// lines it occupies.
type heading struct {
	level int
	title string
	start int
	end   int
}

func topLevelHeadings(root ast.Node, src []byte) []heading {
	var headings []heading
	for n := root.FirstChild(); n != nil; n = n.NextSibling() {
		h, ok := n.(*ast.Heading)
		if !ok {
			continue
		}
		lines := h.Lines()
		if lines.Len() == 0 {
			continue
		}

		first := lines.At(0)
		last := lines.At(lines.Len() - 1)
		start := bytes.LastIndexByte(src[:first.Start], '\n') + 1
		end := lineEnd(src, max(last.Stop-1, first.Start))
		if !isATX(src[start:]) {
			// Setext headings are followed by their underline.
			end = lineEnd(src, end)
		}

		headings = append(headings, heading{
			level: h.Level,
			title: headingText(lines, src),
			start: start,
			end:   end,
		})
	}
	return headings
}

// headingText joins the raw text lines of a heading.
func headingText(lines *text.Segments, src []byte) string {
	var b strings.Builder
	for i := 0; i < lines.Len(); i++ {
		if i > 0 {
			b.WriteByte(' ')
		}
		seg := lines.At(i)
		b.WriteString(strings.TrimSpace(string(seg.Value(src))))
	}
	return strings.TrimSpace(b.String())
}

// lineEnd returns the offset just past the newline ending the line that
// contains offset i.
func lineEnd(src []byte, i int) int {
	if i >= len(src) {
		return len(src)
	}
	if j := bytes.IndexByte(src[i:], '\n'); j >= 0 {
		return i + j + 1
	}
	return len(src)
}

// isATX reports whether the line starts with an ATX heading marker.
func isATX(line []byte) bool {
	return bytes.HasPrefix(bytes.TrimLeft(line, " "), []byte("#"))
}

func submatch(re *regexp.Regexp, s string) string {
	m := re.FindStringSubmatch(s)
	if m == nil {
		return ""
	}
	return m[1]
}

func parseTimestamp(s string) time.Time {
	for _, layout := range []string{stylemanual.TimestampFormat, time.RFC3339Nano} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}
