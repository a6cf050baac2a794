// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package manifest persists conversion records in a SQLite database so
// batch runs can skip inputs whose content has not changed.
package manifest

import (
	"database/sql"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/xhtml2html/pkg/types"
)

const (
	defaultDir = ".xhtml2html"
	dbFile     = "manifest.db"
)

// Store manages the conversion manifest database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the manifest database at cfg.Dir/manifest.db,
// creating the schema if it does not exist.
func Open(cfg types.ManifestConfig) (*Store, error) {
	dir := cfg.Dir
	if dir == "" {
		dir = defaultDir
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating manifest directory: %w", err)
	}

	dbPath := filepath.Join(dir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening manifest database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	const schema = `
CREATE TABLE IF NOT EXISTS conversions (
	input_path   TEXT PRIMARY KEY,
	id           TEXT NOT NULL,
	output_path  TEXT NOT NULL,
	sha256       TEXT NOT NULL,
	source_url   TEXT NOT NULL DEFAULT '',
	converted_at TEXT NOT NULL,
	status       TEXT NOT NULL
);`
	_, err := s.db.Exec(schema)
	return err
}

// Record upserts the conversion record for doc.InputPath.
func (s *Store) Record(doc types.Document) error {
	_, err := s.db.Exec(`
INSERT INTO conversions (input_path, id, output_path, sha256, source_url, converted_at, status)
VALUES (?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(input_path) DO UPDATE SET
	id = excluded.id,
	output_path = excluded.output_path,
	sha256 = excluded.sha256,
	source_url = excluded.source_url,
	converted_at = excluded.converted_at,
	status = excluded.status`,
		doc.InputPath, doc.ID, doc.OutputPath, doc.SHA256, doc.SourceURL,
		doc.ConvertedAt.UTC().Format(time.RFC3339), string(doc.ConversionStatus))
	if err != nil {
		return fmt.Errorf("recording %s: %w", doc.InputPath, err)
	}
	return nil
}

// Lookup returns the record for inputPath, or nil when none exists.
func (s *Store) Lookup(inputPath string) (*types.Document, error) {
	row := s.db.QueryRow(`
SELECT input_path, id, output_path, sha256, source_url, converted_at, status
FROM conversions WHERE input_path = ?`, inputPath)

	doc, err := scanDocument(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("looking up %s: %w", inputPath, err)
	}
	return doc, nil
}

// List returns all conversion records ordered by input path.
func (s *Store) List() ([]types.Document, error) {
	rows, err := s.db.Query(`
SELECT input_path, id, output_path, sha256, source_url, converted_at, status
FROM conversions ORDER BY input_path`)
	if err != nil {
		return nil, fmt.Errorf("listing conversions: %w", err)
	}
	defer rows.Close()

	var docs []types.Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("listing conversions: %w", err)
		}
		docs = append(docs, *doc)
	}
	return docs, rows.Err()
}

// ExportYAML writes all conversion records to w as a YAML list.
func (s *Store) ExportYAML(w io.Writer) error {
	docs, err := s.List()
	if err != nil {
		return err
	}
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	return enc.Encode(docs)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanDocument(row scanner) (*types.Document, error) {
	var doc types.Document
	var convertedAt, status string
	if err := row.Scan(&doc.InputPath, &doc.ID, &doc.OutputPath, &doc.SHA256,
		&doc.SourceURL, &convertedAt, &status); err != nil {
		return nil, err
	}
	if ts, err := time.Parse(time.RFC3339, convertedAt); err == nil {
		doc.ConvertedAt = ts
	}
	doc.ConversionStatus = types.ConversionStatus(status)
	return &doc, nil
}
