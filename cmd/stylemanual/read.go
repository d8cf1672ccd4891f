package main

import (
	"fmt"
	"path/filepath"

	"github.com/fwojciec/stylemanual"
)

// Run executes the read command.
func (c *ReadCmd) Run(deps *Dependencies) error {
	name := c.Filename
	if filepath.Ext(name) != ".md" {
		name += ".md"
	}

	content, ok := deps.Cache.Read(deps.Ctx, name)
	if !ok {
		return stylemanual.Errorf(stylemanual.ENOTFOUND, "cached page %q not found. Use 'stylemanual list' to see cached pages.", name)
	}

	fmt.Fprint(deps.Stdout, content)
	return nil
}
