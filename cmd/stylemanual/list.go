package main

import (
	"fmt"

	"github.com/fwojciec/stylemanual"
)

// Run executes the list command.
func (c *ListCmd) Run(deps *Dependencies) error {
	entries := deps.Cache.ListEntries(deps.Ctx)
	if len(entries) == 0 {
		fmt.Fprintln(deps.Stdout, "No cached pages. Use 'stylemanual download' to populate the cache.")
		return nil
	}

	fmt.Fprintf(deps.Stdout, "Cached pages (%d total):\n", len(entries))
	if info, ok := deps.Cache.Info(deps.Ctx); ok {
		fmt.Fprintf(deps.Stdout, "Last updated: %s (version %s)\n",
			info.LastUpdated.UTC().Format(stylemanual.TimestampFormat), info.Version)
	}
	fmt.Fprintln(deps.Stdout)

	for _, name := range entries {
		fmt.Fprintf(deps.Stdout, "  %s\n", name)
	}
	return nil
}
