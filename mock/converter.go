package mock

import "github.com/fwojciec/stylemanual"

var _ stylemanual.Converter = (*Converter)(nil)

// Converter is a mock implementation of stylemanual.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}
