package sitethumbs

import (
	"database/sql"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// Catalog wraps a SQLite database recording every thumbnail written by the
// generator. It is an inventory only; staleness is decided by file times.
type Catalog struct {
	db *sql.DB
}

// OpenCatalog opens (or creates) the SQLite database at path, ensures the
// data directory exists, and creates the schema.
func OpenCatalog(path string) (*Catalog, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(`
		PRAGMA journal_mode=WAL;
		PRAGMA busy_timeout=5000;
		PRAGMA synchronous=NORMAL;
	`); err != nil {
		db.Close()
		return nil, err
	}
	db.SetMaxOpenConns(1)
	c := &Catalog{db: db}
	if err := c.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return c, nil
}

// Close closes the underlying database connection.
func (c *Catalog) Close() error {
	return c.db.Close()
}

func (c *Catalog) ensureSchema() error {
	_, err := c.db.Exec(`
CREATE TABLE IF NOT EXISTS thumbnails (
    target TEXT PRIMARY KEY,
    source TEXT NOT NULL,
    deploy_path TEXT NOT NULL,
    width INTEGER NOT NULL,
    height INTEGER NOT NULL,
    format TEXT NOT NULL,
    bytes INTEGER NOT NULL,
    generated_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS thumbnails_source ON thumbnails (source);
`)
	return err
}

// SaveThumbnail upserts a thumbnail by target path.
func (c *Catalog) SaveThumbnail(t Thumbnail) error {
	_, err := c.db.Exec(`INSERT OR REPLACE INTO thumbnails (target, source, deploy_path, width, height, format, bytes, generated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		t.Target, t.Source, t.DeployPath, t.Width, t.Height, t.Format, t.Size, t.GeneratedAt)
	return err
}

// GetThumbnail returns the thumbnail recorded for target, or sql.ErrNoRows.
func (c *Catalog) GetThumbnail(target string) (Thumbnail, error) {
	t := Thumbnail{Target: target}
	err := c.db.QueryRow(`SELECT source, deploy_path, width, height, format, bytes, generated_at FROM thumbnails WHERE target = ?`, target).
		Scan(&t.Source, &t.DeployPath, &t.Width, &t.Height, &t.Format, &t.Size, &t.GeneratedAt)
	if err != nil {
		return Thumbnail{}, err
	}
	return t, nil
}

// ListThumbnails returns every recorded thumbnail ordered by deploy path.
func (c *Catalog) ListThumbnails() ([]Thumbnail, error) {
	rows, err := c.db.Query(`SELECT target, source, deploy_path, width, height, format, bytes, generated_at FROM thumbnails ORDER BY deploy_path`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var thumbs []Thumbnail
	for rows.Next() {
		var t Thumbnail
		if err := rows.Scan(&t.Target, &t.Source, &t.DeployPath, &t.Width, &t.Height, &t.Format, &t.Size, &t.GeneratedAt); err != nil {
			return nil, err
		}
		thumbs = append(thumbs, t)
	}
	return thumbs, rows.Err()
}

// DeleteThumbnail removes a thumbnail by target path.
func (c *Catalog) DeleteThumbnail(target string) error {
	_, err := c.db.Exec(`DELETE FROM thumbnails WHERE target = ?`, target)
	return err
}

// Prune removes rows whose artifact is gone from disk and returns how many
// were dropped.
func (c *Catalog) Prune() (int, error) {
	thumbs, err := c.ListThumbnails()
	if err != nil {
		return 0, err
	}
	n := 0
	for _, t := range thumbs {
		if _, err := os.Stat(t.Target); !errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err := c.DeleteThumbnail(t.Target); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}
