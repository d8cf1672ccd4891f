package main

import "fmt"

// Run executes the fetch command.
func (c *FetchCmd) Run(deps *Dependencies) error {
	markdown, err := deps.Crawler.RenderPage(deps.Ctx, c.URL)
	if err != nil {
		return err
	}
	fmt.Fprint(deps.Stdout, markdown)
	return nil
}
