package crawl

import (
	"context"
	"log/slog"
	"strings"

	"github.com/fwojciec/stylemanual"
)

// Searcher runs full-text searches over cached or live pages.
type Searcher struct {
	Crawler *Crawler
	Cache   stylemanual.Cache
	Parser  stylemanual.MarkdownParser
	Catalog *stylemanual.Catalog
	Logger  *slog.Logger
}

type lookupResult struct {
	doc       *stylemanual.Document
	fromCache bool
}

// Search finds query in pages. Explicit urls are looked up cache-first.
// Without urls, a populated cache is scanned in full; otherwise the
// catalog's default search pages are fetched live. Pages without matches
// and pages that fail are left out of the report.
func (s *Searcher) Search(ctx context.Context, query string, urls []string) (*stylemanual.SearchReport, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, stylemanual.Errorf(stylemanual.EINVALID, "search query required")
	}
	if err := stylemanual.ValidateURLs(urls); err != nil {
		return nil, err
	}

	report := &stylemanual.SearchReport{Query: query}

	switch {
	case len(urls) > 0:
		s.searchPages(ctx, report, dedupe(urls), s.Crawler.Lookup)
	case s.Cache != nil && s.Cache.IsPopulated(ctx):
		s.searchCache(ctx, report)
	default:
		var defaults []string
		if s.Catalog != nil {
			defaults = s.Catalog.DefaultSearchURLs()
		}
		s.searchPages(ctx, report, defaults, func(ctx context.Context, url string) (*stylemanual.Document, bool, error) {
			doc, err := s.Crawler.FetchDocument(ctx, url)
			return doc, false, err
		})
	}

	return report, nil
}

func (s *Searcher) searchCache(ctx context.Context, report *stylemanual.SearchReport) {
	for _, name := range s.Cache.ListEntries(ctx) {
		markdown, ok := s.Cache.Read(ctx, name)
		if !ok {
			continue
		}
		doc, err := s.Parser.Parse(markdown)
		if err != nil {
			s.logger().Warn("skipping unreadable cache entry", "filename", name, "err", err)
			continue
		}

		matches := stylemanual.FindMatches(doc, report.Query)
		if len(matches) == 0 {
			continue
		}
		url := doc.SourceURL
		if url == "" {
			url = name
		}
		report.Results = append(report.Results, stylemanual.SearchResult{URL: url, Matches: matches})
		report.FromCache = true
	}
}

func (s *Searcher) searchPages(ctx context.Context, report *stylemanual.SearchReport, urls []string, lookup func(context.Context, string) (*stylemanual.Document, bool, error)) {
	opts := s.Crawler.batchOptions()
	opts.Logger = s.logger()

	outcomes := RunBatches(ctx, urls, func(ctx context.Context, url string) (lookupResult, error) {
		doc, fromCache, err := lookup(ctx, url)
		return lookupResult{doc: doc, fromCache: fromCache}, err
	}, opts)

	for _, o := range outcomes {
		if o.Err != nil {
			continue
		}
		matches := stylemanual.FindMatches(o.Value.doc, report.Query)
		if len(matches) == 0 {
			continue
		}
		report.Results = append(report.Results, stylemanual.SearchResult{URL: o.URL, Matches: matches})
		if o.Value.fromCache {
			report.FromCache = true
		}
	}
}

func (s *Searcher) logger() *slog.Logger {
	if s.Logger == nil {
		return discardLogger
	}
	return s.Logger
}
