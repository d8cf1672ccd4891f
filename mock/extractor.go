package mock

import "github.com/fwojciec/stylemanual"

var _ stylemanual.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of stylemanual.Extractor.
type Extractor struct {
	ExtractFn func(sourceURL string, html string) (*stylemanual.Document, error)
}

func (e *Extractor) Extract(sourceURL string, html string) (*stylemanual.Document, error) {
	return e.ExtractFn(sourceURL, html)
}

var _ stylemanual.MarkdownParser = (*MarkdownParser)(nil)

// MarkdownParser is a mock implementation of stylemanual.MarkdownParser.
type MarkdownParser struct {
	ParseFn func(markdown string) (*stylemanual.Document, error)
}

func (p *MarkdownParser) Parse(markdown string) (*stylemanual.Document, error) {
	return p.ParseFn(markdown)
}
