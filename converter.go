package stylemanual

// Converter converts HTML fragments to Markdown.
type Converter interface {
	// Convert transforms an HTML fragment (a table, code block or definition
	// list lifted out of a page) into Markdown.
	Convert(html string) (string, error)
}
