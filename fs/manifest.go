package fs

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/sitedigest/sitedigest"
)

// Ensure ManifestStore implements sitedigest.ManifestStore at compile time.
var _ sitedigest.ManifestStore = (*ManifestStore)(nil)

// ManifestStore persists one manifest file per site, named after the
// site's host, under a base directory.
type ManifestStore struct {
	baseDir string
}

// NewManifestStore creates a ManifestStore rooted at baseDir.
func NewManifestStore(baseDir string) *ManifestStore {
	return &ManifestStore{baseDir: baseDir}
}

func (s *ManifestStore) path(rootURL string) string {
	return filepath.Join(s.baseDir, sitedigest.HostPath(rootURL)+".manifest.json")
}

// Load reads the manifest for a root URL. A missing or unreadable file
// yields an empty manifest: a broken cache index must never abort a run,
// it only costs re-summarization.
func (s *ManifestStore) Load(rootURL string) (*sitedigest.Manifest, error) {
	data, err := os.ReadFile(s.path(rootURL))
	if err != nil {
		return sitedigest.NewManifest(rootURL), nil
	}

	var m sitedigest.Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return sitedigest.NewManifest(rootURL), nil
	}
	if m.Entries == nil {
		m.Entries = make(map[string]sitedigest.ManifestEntry)
	}
	m.RootURL = rootURL
	return &m, nil
}

// Save writes the whole manifest atomically: to a temp file first, then
// renamed over the previous version.
func (s *ManifestStore) Save(manifest *sitedigest.Manifest) error {
	if err := os.MkdirAll(s.baseDir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return err
	}

	path := s.path(manifest.RootURL)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
