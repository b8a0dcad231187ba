// Package fs provides file-based storage: summary output files and the
// per-site manifest index.
package fs

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/sitedigest/sitedigest"
)

// FormatSummary formats a summary file with YAML frontmatter.
func FormatSummary(page sitedigest.PageContent, summary *sitedigest.Summary) string {
	var b strings.Builder
	b.WriteString("---\n")
	b.WriteString("source: ")
	b.WriteString(page.URL)
	b.WriteString("\ntitle: ")
	b.WriteString(page.Title)
	b.WriteString("\nmodel: ")
	b.WriteString(summary.Model)
	b.WriteString("\nfetched: ")
	b.WriteString(page.FetchedAt.Format("2006-01-02"))
	b.WriteString("\n---\n\n")
	b.WriteString(summary.Text)
	b.WriteString("\n")
	return b.String()
}

// Ensure Writer implements sitedigest.SummaryWriter at compile time.
var _ sitedigest.SummaryWriter = (*Writer)(nil)

// Writer writes summaries as markdown files under a base directory.
type Writer struct {
	baseDir string
}

// NewWriter creates a Writer that writes to the given base directory.
func NewWriter(baseDir string) *Writer {
	return &Writer{baseDir: baseDir}
}

// WriteSummary writes a summary to disk and returns the relative path the
// manifest records. Files are named by URL slug.
func (w *Writer) WriteSummary(ctx context.Context, page sitedigest.PageContent, summary *sitedigest.Summary) (string, error) {
	if summary == nil {
		return "", sitedigest.Errorf(sitedigest.EINVALID, "nil summary")
	}

	if err := os.MkdirAll(w.baseDir, 0755); err != nil {
		return "", err
	}

	relPath := sitedigest.Slugify(page.URL) + ".md"
	fullPath := filepath.Join(w.baseDir, relPath)

	content := FormatSummary(page, summary)
	if err := os.WriteFile(fullPath, []byte(content), 0644); err != nil {
		return "", err
	}
	return relPath, nil
}
