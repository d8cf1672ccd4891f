package goquery_test

import (
	"strings"
	"testing"

	"github.com/fwojciec/stylemanual"
	"github.com/fwojciec/stylemanual/goquery"
	"github.com/fwojciec/stylemanual/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const punctuationPage = `<!DOCTYPE html>
<html>
<head><title>Commas | Style Manual</title></head>
<body>
<header class="site-header"><a href="/">Style Manual</a></header>
<nav class="main-nav"><a href="/a">Writing</a><a href="/b">Grammar</a></nav>
<main>
  <div class="content">
    <header class="page-header"><h1>Commas</h1></header>
    <p class="lead">Commas show the relationship between parts of a sentence.</p>
    <p>Use commas sparingly so sentences stay clear and easy to read.</p>
    <h2>Use commas in lists</h2>
    <p>Separate items in a list with commas.</p>
    <ul>
      <li>apples</li>
      <li>pears and plums</li>
    </ul>
    <h3>Serial commas</h3>
    <p>Only use a serial comma when it removes ambiguity.</p>
    <h2>Commas with clauses</h2>
    <p>Put a comma after a long introductory clause.</p>
    <ol><li>Read it aloud.</li><li>Check the pause.</li></ol>
    <blockquote>When in doubt, leave it out of short sentences.</blockquote>
  </div>
</main>
<footer class="site-footer">Copyright</footer>
</body>
</html>`

func TestExtractor_Extract(t *testing.T) {
	t.Parallel()

	t.Run("extracts title overview and sections", func(t *testing.T) {
		t.Parallel()

		doc, err := goquery.NewExtractor().Extract("https://www.stylemanual.gov.au/commas", punctuationPage)

		require.NoError(t, err)
		assert.Equal(t, "https://www.stylemanual.gov.au/commas", doc.SourceURL)
		assert.Equal(t, "Commas", doc.Title)
		assert.Equal(t,
			"Commas show the relationship between parts of a sentence.\n\n"+
				"Use commas sparingly so sentences stay clear and easy to read.",
			doc.Overview)

		require.Len(t, doc.Sections, 3)
		assert.Equal(t, "Use commas in lists", doc.Sections[0].Heading)
		assert.Equal(t, 2, doc.Sections[0].Level)
		assert.Equal(t, "Serial commas", doc.Sections[1].Heading)
		assert.Equal(t, 3, doc.Sections[1].Level)
		assert.Equal(t, "Commas with clauses", doc.Sections[2].Heading)
	})

	t.Run("parent section includes subsection body but not its heading", func(t *testing.T) {
		t.Parallel()

		doc, err := goquery.NewExtractor().Extract("https://www.stylemanual.gov.au/commas", punctuationPage)

		require.NoError(t, err)
		content := doc.Sections[0].Content
		assert.Equal(t,
			"Separate items in a list with commas.\n\n"+
				"- apples\n- pears and plums\n\n"+
				"Only use a serial comma when it removes ambiguity.",
			content)
		for _, s := range doc.Sections {
			for _, other := range doc.Sections {
				if s.Heading != other.Heading {
					assert.NotContains(t, s.Content, other.Heading)
				}
			}
		}
	})

	t.Run("formats ordered lists and blockquotes", func(t *testing.T) {
		t.Parallel()

		doc, err := goquery.NewExtractor().Extract("https://www.stylemanual.gov.au/commas", punctuationPage)

		require.NoError(t, err)
		assert.Equal(t,
			"Put a comma after a long introductory clause.\n\n"+
				"1. Read it aloud.\n2. Check the pause.\n\n"+
				"> When in doubt, leave it out of short sentences.",
			doc.Sections[2].Content)
	})

	t.Run("produces valid documents", func(t *testing.T) {
		t.Parallel()

		doc, err := goquery.NewExtractor().Extract("https://www.stylemanual.gov.au/commas", punctuationPage)

		require.NoError(t, err)
		assert.NoError(t, doc.Validate())
	})

	t.Run("falls back to title tag without site suffix", func(t *testing.T) {
		t.Parallel()

		html := `<html><head><title>Apostrophes | Style Manual</title></head><body><p>Body.</p></body></html>`

		doc, err := goquery.NewExtractor().Extract("https://www.stylemanual.gov.au/apostrophes", html)

		require.NoError(t, err)
		assert.Equal(t, "Apostrophes", doc.Title)
	})

	t.Run("strips site prefix from title", func(t *testing.T) {
		t.Parallel()

		html := `<html><head><title>Style Manual - Dashes</title></head><body></body></html>`

		doc, err := goquery.NewExtractor().Extract("https://www.stylemanual.gov.au/dashes", html)

		require.NoError(t, err)
		assert.Equal(t, "Dashes", doc.Title)
	})

	t.Run("skips bare site name and defaults title", func(t *testing.T) {
		t.Parallel()

		html := `<html><head><title>Style Manual</title></head><body><h1>Style Manual</h1></body></html>`

		doc, err := goquery.NewExtractor().Extract("https://www.stylemanual.gov.au/", html)

		require.NoError(t, err)
		assert.Equal(t, stylemanual.DefaultTitle, doc.Title)
	})

	t.Run("keeps first of duplicate headings", func(t *testing.T) {
		t.Parallel()

		html := `<html><body><main>
<h2>Examples</h2><p>The first examples section is the one kept.</p>
<h2>Examples</h2><p>The second examples section is dropped.</p>
</main></body></html>`

		doc, err := goquery.NewExtractor().Extract("https://www.stylemanual.gov.au/x", html)

		require.NoError(t, err)
		require.Len(t, doc.Sections, 1)
		assert.Equal(t, "The first examples section is the one kept.", doc.Sections[0].Content)
	})

	t.Run("duplicate of a discarded section stays discarded", func(t *testing.T) {
		t.Parallel()

		html := `<html><body><main>
<h2>Examples</h2><p>Tiny.</p>
<h2>Examples</h2><p>This later examples section has enough content.</p>
</main></body></html>`

		doc, err := goquery.NewExtractor().Extract("https://www.stylemanual.gov.au/x", html)

		require.NoError(t, err)
		assert.Empty(t, doc.Sections)
	})

	t.Run("drops sections with too little content", func(t *testing.T) {
		t.Parallel()

		html := `<html><body><main>
<h2>Empty section</h2>
<h2>Full section</h2><p>This section carries enough text to keep.</p>
</main></body></html>`

		doc, err := goquery.NewExtractor().Extract("https://www.stylemanual.gov.au/x", html)

		require.NoError(t, err)
		require.Len(t, doc.Sections, 1)
		assert.Equal(t, "Full section", doc.Sections[0].Heading)
	})

	t.Run("cleans numbering and arrows from headings", func(t *testing.T) {
		t.Parallel()

		html := `<html><body><main>
<h2>1.2 Quotation marks →</h2><p>Use single quotation marks for quotes.</p>
<h2>• Ellipses »</h2><p>Use ellipses to show omitted words.</p>
</main></body></html>`

		doc, err := goquery.NewExtractor().Extract("https://www.stylemanual.gov.au/x", html)

		require.NoError(t, err)
		require.Len(t, doc.Sections, 2)
		assert.Equal(t, "Quotation marks", doc.Sections[0].Heading)
		assert.Equal(t, "Ellipses", doc.Sections[1].Heading)
	})

	t.Run("reads aria headings with default level", func(t *testing.T) {
		t.Parallel()

		html := `<html><body><main>
<div role="heading" aria-level="2">Aria section</div>
<p>Content under the aria heading element.</p>
<div role="heading" aria-level="deep">Unlevelled section</div>
<p>Content under the unlevelled heading element.</p>
</main></body></html>`

		doc, err := goquery.NewExtractor().Extract("https://www.stylemanual.gov.au/x", html)

		require.NoError(t, err)
		require.Len(t, doc.Sections, 2)
		assert.Equal(t, 2, doc.Sections[0].Level)
		assert.Equal(t, 6, doc.Sections[1].Level)
		assert.Equal(t, "Content under the aria heading element.\n\nContent under the unlevelled heading element.", doc.Sections[0].Content)
	})

	t.Run("turns inline runs in mixed containers into paragraphs", func(t *testing.T) {
		t.Parallel()

		html := `<html><body><main>
<h2>Mixed content</h2>
<div>Loose text with <em>emphasis</em> before a block.<p>A proper paragraph follows here.</p></div>
</main></body></html>`

		doc, err := goquery.NewExtractor().Extract("https://www.stylemanual.gov.au/x", html)

		require.NoError(t, err)
		require.Len(t, doc.Sections, 1)
		assert.Equal(t, "Loose text with emphasis before a block.\n\nA proper paragraph follows here.", doc.Sections[0].Content)
	})

	t.Run("renders structured blocks with converter", func(t *testing.T) {
		t.Parallel()

		conv := &mock.Converter{
			ConvertFn: func(html string) (string, error) {
				assert.True(t, strings.HasPrefix(html, "<table>"))
				return "| Term | Use |\n| --- | --- |\n| e.g. | for example |", nil
			},
		}
		html := `<html><body><main>
<h2>Latin forms</h2>
<table><tr><td>e.g.</td><td>for example</td></tr></table>
</main></body></html>`

		doc, err := goquery.NewExtractor(goquery.WithConverter(conv)).Extract("https://www.stylemanual.gov.au/x", html)

		require.NoError(t, err)
		require.Len(t, doc.Sections, 1)
		assert.Contains(t, doc.Sections[0].Content, "| e.g. | for example |")
	})

	t.Run("falls back to plain text without converter", func(t *testing.T) {
		t.Parallel()

		html := `<html><body><main>
<h2>Code samples</h2>
<pre>const   example = "use straight quotes";</pre>
</main></body></html>`

		doc, err := goquery.NewExtractor().Extract("https://www.stylemanual.gov.au/x", html)

		require.NoError(t, err)
		require.Len(t, doc.Sections, 1)
		assert.Equal(t, `const example = "use straight quotes";`, doc.Sections[0].Content)
	})

	t.Run("splits headings nested inside details blocks", func(t *testing.T) {
		t.Parallel()

		html := `<html><body><main>
<h2>Comma rules</h2>
<p>Use commas to separate clauses.</p>
<details><summary>Examples</summary>
<h3>Serial commas</h3>
<p>Do not use a serial comma unless it avoids ambiguity.</p>
</details>
<h2>Serial commas</h2>
<p>This duplicate heading is ignored entirely.</p>
</main></body></html>`

		echo := &mock.Converter{ConvertFn: func(html string) (string, error) { return html, nil }}

		for _, e := range []*goquery.Extractor{goquery.NewExtractor(), goquery.NewExtractor(goquery.WithConverter(echo))} {
			doc, err := e.Extract("https://www.stylemanual.gov.au/x", html)

			require.NoError(t, err)
			require.Len(t, doc.Sections, 2)
			assert.Equal(t, "Comma rules", doc.Sections[0].Heading)
			assert.NotContains(t, doc.Sections[0].Content, "Serial commas")
			assert.Contains(t, doc.Sections[0].Content, "Do not use a serial comma unless it avoids ambiguity.")
			assert.Equal(t, "Serial commas", doc.Sections[1].Heading)
			assert.Equal(t, 3, doc.Sections[1].Level)
			assert.Equal(t, "Do not use a serial comma unless it avoids ambiguity.", doc.Sections[1].Content)
		}
	})

	t.Run("reports panics as extraction errors", func(t *testing.T) {
		t.Parallel()

		conv := &mock.Converter{
			ConvertFn: func(string) (string, error) {
				panic("converter exploded")
			},
		}
		html := `<html><body><main><h2>Tables</h2><table><tr><td>cell</td></tr></table></main></body></html>`

		doc, err := goquery.NewExtractor(goquery.WithConverter(conv)).Extract("https://www.stylemanual.gov.au/x", html)

		assert.Nil(t, doc)
		assert.Equal(t, stylemanual.EEXTRACT, stylemanual.ErrorCode(err))
		assert.Contains(t, stylemanual.ErrorMessage(err), "extraction failed for https://www.stylemanual.gov.au/x")
		assert.Contains(t, stylemanual.ErrorMessage(err), "converter exploded")
	})

	t.Run("returns extraction error for empty input", func(t *testing.T) {
		t.Parallel()

		doc, err := goquery.NewExtractor().Extract("https://www.stylemanual.gov.au/x", "  ")

		assert.Nil(t, doc)
		assert.Equal(t, stylemanual.EEXTRACT, stylemanual.ErrorCode(err))
	})
}
