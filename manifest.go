package sitedigest

import (
	"strings"
	"time"
)

// ManifestEntry records the durable state for one URL: the hash of its
// extracted content at last successful write, where the output landed, and
// when. The hash reflects *extracted* content, never the raw payload, so
// markup-only changes do not invalidate the cache.
type ManifestEntry struct {
	ContentHash string    `json:"contentHash"`
	OutputPath  string    `json:"outputPath"`
	GeneratedAt time.Time `json:"generatedAt"`
	Title       string    `json:"title"`
}

// Manifest is the per-site incremental cache index, keyed by canonical
// source URL (case-insensitive).
type Manifest struct {
	RootURL string                   `json:"rootUrl"`
	Entries map[string]ManifestEntry `json:"entries"`
}

// NewManifest returns an empty manifest for a root URL.
func NewManifest(rootURL string) *Manifest {
	return &Manifest{
		RootURL: rootURL,
		Entries: make(map[string]ManifestEntry),
	}
}

// manifestKey normalizes a URL into the manifest's case-insensitive key form.
func manifestKey(url string) string {
	return strings.ToLower(Canonicalize(url))
}

// Lookup returns the entry for a URL, if present.
func (m *Manifest) Lookup(url string) (ManifestEntry, bool) {
	e, ok := m.Entries[manifestKey(url)]
	return e, ok
}

// Set records an entry for a URL.
func (m *Manifest) Set(url string, entry ManifestEntry) {
	if m.Entries == nil {
		m.Entries = make(map[string]ManifestEntry)
	}
	m.Entries[manifestKey(url)] = entry
}

// IsHit reports whether a URL with freshly extracted content hash is a
// cache hit: the stored hash matches and a non-empty output path exists.
func (m *Manifest) IsHit(url, contentHash string) bool {
	e, ok := m.Lookup(url)
	return ok && e.ContentHash == contentHash && e.OutputPath != ""
}

// ManifestStore persists manifests across runs.
//
// Load degrades to an empty manifest when the file is absent or corrupt;
// a broken cache index must never abort a run. Save overwrites the whole
// file and is called once at end of run.
type ManifestStore interface {
	Load(rootURL string) (*Manifest, error)
	Save(manifest *Manifest) error
}
