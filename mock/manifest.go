package mock

import "github.com/sitedigest/sitedigest"

var _ sitedigest.ManifestStore = (*ManifestStore)(nil)

// ManifestStore is a mock implementation of sitedigest.ManifestStore.
type ManifestStore struct {
	LoadFn func(rootURL string) (*sitedigest.Manifest, error)
	SaveFn func(manifest *sitedigest.Manifest) error
}

func (s *ManifestStore) Load(rootURL string) (*sitedigest.Manifest, error) {
	return s.LoadFn(rootURL)
}

func (s *ManifestStore) Save(manifest *sitedigest.Manifest) error {
	return s.SaveFn(manifest)
}
