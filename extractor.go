package stylemanual

// Extractor derives the structural document model from a raw HTML page.
type Extractor interface {
	// Extract parses raw HTML fetched from sourceURL, strips boilerplate and
	// returns the title, overview text and ordered sections.
	// Any failure is reported as EEXTRACT; partial documents are never returned.
	Extract(sourceURL string, html string) (*Document, error)
}
