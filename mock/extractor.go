package mock

import "github.com/sitedigest/sitedigest"

var _ sitedigest.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of sitedigest.Extractor.
type Extractor struct {
	ExtractFn func(html string) (*sitedigest.ExtractResult, error)
}

func (e *Extractor) Extract(html string) (*sitedigest.ExtractResult, error) {
	return e.ExtractFn(html)
}
