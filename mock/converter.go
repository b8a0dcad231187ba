package mock

import "github.com/sitedigest/sitedigest"

var _ sitedigest.Converter = (*Converter)(nil)

// Converter is a mock implementation of sitedigest.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}
