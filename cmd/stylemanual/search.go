package main

import (
	"fmt"

	"github.com/fwojciec/stylemanual"
)

// Run executes the search command.
func (c *SearchCmd) Run(deps *Dependencies) error {
	urls := c.URLs
	if c.Focus != "" {
		focus, err := deps.Catalog.FocusAreaURLs(c.Focus)
		if err != nil {
			return err
		}
		urls = append(append([]string{}, urls...), focus...)
	}

	report, err := deps.Searcher.Search(deps.Ctx, c.Query, urls)
	if err != nil {
		return err
	}

	fmt.Fprint(deps.Stdout, stylemanual.FormatSearchResults(report))
	return nil
}
