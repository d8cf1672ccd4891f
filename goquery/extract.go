package goquery

import (
	"bytes"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/stylemanual"
	"golang.org/x/net/html"
)

var _ stylemanual.Extractor = (*Extractor)(nil)

// titleCandidates are tried in order; the first usable text wins.
var titleCandidates = []string{
	"h1.page-title",
	".main-content h1",
	"main h1",
	".page-header h1",
	".content-header h1",
	"h1",
	".page-title",
	"title",
}

// contentCandidates are tried in order; the first with enough text wins.
var contentCandidates = []string{
	"main .content",
	".main-content",
	`[role="main"]`,
	"main",
	".page-content",
	".entry-content",
	"article",
}

const introSelector = ".intro, .summary, .lead, .description"

// Minimum text lengths, in characters, for content to be kept.
const (
	minContentAreaLength = 100
	minIntroLength       = 20
	minOverviewLength    = 20
	minHeadingLength     = 3
	minParagraphLength   = 10
	minContainerLength   = 20
	minSectionLength     = 20
)

var (
	siteSuffix      = regexp.MustCompile(`(?i)\s*\|\s*Style Manual.*$`)
	sitePrefix      = regexp.MustCompile(`(?i)^Style Manual\s*[-–|]\s*`)
	headingBullets  = regexp.MustCompile(`^[\s\d.\-•→]+`)
	headingTrailers = regexp.MustCompile(`[\s→»›]+$`)
)

// Extractor turns a Style Manual page into a Document using site-specific
// structural heuristics.
type Extractor struct {
	converter stylemanual.Converter
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithConverter renders tables, code and other structured blocks through c
// instead of flattening them to plain text.
func WithConverter(c stylemanual.Converter) Option {
	return func(e *Extractor) {
		e.converter = c
	}
}

// NewExtractor creates an Extractor.
func NewExtractor(opts ...Option) *Extractor {
	e := &Extractor{}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract parses rawHTML and returns the page's title, overview and
// sections. Any failure, including a panic in the heuristics, is reported
// as a single EEXTRACT error and no partial document is returned.
func (e *Extractor) Extract(sourceURL string, rawHTML string) (doc *stylemanual.Document, err error) {
	defer func() {
		if r := recover(); r != nil {
			doc = nil
			err = extractionError(sourceURL, fmt.Sprintf("%v", r))
		}
	}()

	if strings.TrimSpace(rawHTML) == "" {
		return nil, extractionError(sourceURL, "empty HTML")
	}

	page, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return nil, extractionError(sourceURL, err.Error())
	}

	Normalize(page.Selection)

	content := contentArea(page)
	blocks := flatten(content)

	return &stylemanual.Document{
		SourceURL: sourceURL,
		Title:     extractTitle(page),
		Overview:  extractOverview(content, blocks),
		Sections:  e.extractSections(blocks),
	}, nil
}

func extractionError(sourceURL, cause string) error {
	return stylemanual.Errorf(stylemanual.EEXTRACT, "extraction failed for %s: %s", sourceURL, cause)
}

func extractTitle(page *goquery.Document) string {
	for _, selector := range titleCandidates {
		text := collapse(page.Find(selector).First().Text())
		if text == "" || strings.EqualFold(text, stylemanual.DefaultTitle) {
			continue
		}
		if title := cleanTitle(text); title != "" {
			return title
		}
	}
	return stylemanual.DefaultTitle
}

func cleanTitle(title string) string {
	title = siteSuffix.ReplaceAllString(title, "")
	title = sitePrefix.ReplaceAllString(title, "")
	return strings.TrimSpace(title)
}

func contentArea(page *goquery.Document) *goquery.Selection {
	for _, selector := range contentCandidates {
		sel := page.Find(selector).First()
		if sel.Length() > 0 && runes(strings.TrimSpace(sel.Text())) > minContentAreaLength {
			return sel
		}
	}
	return page.Find("body").First()
}

// extractOverview joins the intro block with the loose paragraphs that
// precede the first section heading.
func extractOverview(content *goquery.Selection, blocks []block) string {
	var parts []string

	intro := content.Find(introSelector).First()
	var introNode *html.Node
	if intro.Length() > 0 {
		introNode = intro.Get(0)
		if text := collapse(intro.Text()); runes(text) > minIntroLength {
			parts = append(parts, text)
		}
	}

	for _, b := range blocks {
		if b.kind == blockHeading && b.level >= stylemanual.MinSectionLevel {
			break
		}
		if b.kind != blockParagraph || runes(b.text) <= minOverviewLength {
			continue
		}
		if b.within(content, "section, .section") || (introNode != nil && b.inside(introNode)) {
			continue
		}
		parts = append(parts, b.text)
	}

	return strings.Join(parts, "\n\n")
}

func (e *Extractor) extractSections(blocks []block) []stylemanual.Section {
	var sections []stylemanual.Section
	seen := make(map[string]bool)

	for i, b := range blocks {
		if b.kind != blockHeading || b.level < stylemanual.MinSectionLevel || b.level > stylemanual.MaxSectionLevel {
			continue
		}

		heading := cleanHeading(b.text)
		if runes(heading) < minHeadingLength || seen[heading] {
			continue
		}
		seen[heading] = true

		content := e.captureSection(blocks, i)
		if runes(content) < minSectionLength {
			continue
		}

		sections = append(sections, stylemanual.Section{
			Heading: heading,
			Level:   b.level,
			Content: content,
		})
	}

	return sections
}

func cleanHeading(text string) string {
	text = headingBullets.ReplaceAllString(text, "")
	text = headingTrailers.ReplaceAllString(text, "")
	return collapse(text)
}

// captureSection collects the blocks after blocks[start] up to the next
// heading at the same or a shallower level. Deeper headings are skipped so
// their text never leaks into the enclosing section.
func (e *Extractor) captureSection(blocks []block, start int) string {
	level := blocks[start].level
	var parts []string

	for _, b := range blocks[start+1:] {
		if isBoundary(b, level) {
			break
		}

		switch b.kind {
		case blockHeading:
			continue
		case blockParagraph:
			if runes(b.text) > minParagraphLength {
				parts = append(parts, b.text)
			}
		case blockList:
			if list := formatList(b.sel); list != "" {
				parts = append(parts, list)
			}
		case blockBlockquote:
			if b.text != "" {
				parts = append(parts, "> "+b.text)
			}
		case blockContainer:
			if runes(b.text) > minContainerLength {
				parts = append(parts, b.text)
			}
		case blockOther:
			if text := e.convert(b); text != "" {
				parts = append(parts, text)
			}
		}
	}

	return strings.Join(parts, "\n\n")
}

// formatList renders the direct items of a ul or ol, one per line.
func formatList(list *goquery.Selection) string {
	ordered := goquery.NodeName(list) == "ol"

	var lines []string
	list.ChildrenFiltered("li").Each(func(_ int, li *goquery.Selection) {
		text := collapse(li.Text())
		if text == "" {
			return
		}
		if ordered {
			lines = append(lines, strconv.Itoa(len(lines)+1)+". "+text)
		} else {
			lines = append(lines, "- "+text)
		}
	})

	return strings.Join(lines, "\n")
}

// convert renders a structured block through the converter when one is
// configured, falling back to its plain text.
func (e *Extractor) convert(b block) string {
	if e.converter != nil {
		var buf bytes.Buffer
		if err := html.Render(&buf, b.node()); err == nil {
			if md, err := e.converter.Convert(buf.String()); err == nil && md != "" {
				return md
			}
		}
	}
	if runes(b.text) > minParagraphLength {
		return b.text
	}
	return ""
}

func runes(s string) int {
	return utf8.RuneCountInString(s)
}
