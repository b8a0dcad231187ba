package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sitedigest/sitedigest"
)

// Compile-time interface verification.
var _ sitedigest.PageArchive = (*PageArchive)(nil)

// PageArchive implements sitedigest.PageArchive using SQLite.
type PageArchive struct {
	db *DB
}

// NewPageArchive creates a new PageArchive.
func NewPageArchive(db *DB) *PageArchive {
	return &PageArchive{db: db}
}

// CreateSnapshot persists a raw page snapshot, assigning its ID.
func (a *PageArchive) CreateSnapshot(ctx context.Context, snap *sitedigest.PageSnapshot) error {
	if snap.URL == "" {
		return sitedigest.Errorf(sitedigest.EINVALID, "snapshot URL required")
	}
	if snap.RawHTML == "" {
		return sitedigest.Errorf(sitedigest.EINVALID, "snapshot HTML required")
	}

	snap.ID = uuid.New().String()
	if snap.FetchedAt.IsZero() {
		snap.FetchedAt = time.Now().UTC()
	}

	_, err := a.db.ExecContext(ctx, `
		INSERT INTO snapshots (id, url, title, raw_html, fetched_at)
		VALUES (?, ?, ?, ?, ?)
	`, snap.ID, sitedigest.Canonicalize(snap.URL), snap.Title, snap.RawHTML,
		snap.FetchedAt.Format(time.RFC3339))

	return err
}

// FindLatestByURL returns the most recent snapshot for a URL.
func (a *PageArchive) FindLatestByURL(ctx context.Context, url string) (*sitedigest.PageSnapshot, error) {
	var snap sitedigest.PageSnapshot
	var fetchedAt string

	err := a.db.QueryRowContext(ctx, `
		SELECT id, url, title, raw_html, fetched_at
		FROM snapshots
		WHERE url = ?
		ORDER BY fetched_at DESC
		LIMIT 1
	`, sitedigest.Canonicalize(url)).Scan(&snap.ID, &snap.URL, &snap.Title, &snap.RawHTML, &fetchedAt)

	if err == sql.ErrNoRows {
		return nil, sitedigest.Errorf(sitedigest.ENOTFOUND, "no snapshot for %s", url)
	}
	if err != nil {
		return nil, err
	}

	snap.FetchedAt, err = time.Parse(time.RFC3339, fetchedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse fetched_at: %w", err)
	}

	return &snap, nil
}
