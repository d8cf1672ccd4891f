package main

import (
	"fmt"

	"github.com/fwojciec/stylemanual"
	"github.com/fwojciec/stylemanual/crawl"
)

// Run executes the download command. Progress goes to stderr and the
// summary to stdout.
func (c *DownloadCmd) Run(deps *Dependencies) error {
	urls, err := c.urls(deps.Catalog)
	if err != nil {
		return err
	}

	deps.Crawler.BatchSize = c.BatchSize
	deps.Crawler.BatchDelay = c.Delay
	if c.Delay == 0 {
		// The crawler reads a zero delay as its default pause.
		deps.Crawler.BatchDelay = -1
	}

	result, err := deps.Crawler.DownloadAll(deps.Ctx, urls, func(event crawl.ProgressEvent) {
		fmt.Fprintln(deps.Stderr, crawl.FormatProgress(event))
	})
	if result != nil {
		fmt.Fprint(deps.Stdout, crawl.FormatSummary(result))
	}
	if err != nil {
		return err
	}
	if result.Total > 0 && result.Written == 0 {
		return stylemanual.Errorf(stylemanual.EEXTRACT, "no pages were downloaded")
	}
	return nil
}

func (c *DownloadCmd) urls(catalog *stylemanual.Catalog) ([]string, error) {
	switch {
	case c.All:
		return catalog.URLs(), nil
	case len(c.Focus) > 0:
		return catalog.FocusAreaURLs(c.Focus...)
	default:
		return catalog.DefaultFocusAreaURLs()
	}
}
