// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package catalog persists extraction manifests and document summaries in a
// SQLite index so the archive can be queried instead of grepped.
package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/archive-engine/pkg/types"
)

const (
	indexDir = "index"
	dbFile   = "archive.db"
)

// Store manages the archive catalog SQLite database.
type Store struct {
	db         *sql.DB
	maxResults int
}

// NewStore opens or creates the catalog database at
// catalogDir/index/archive.db, creating the schema if needed.
func NewStore(cfg types.CatalogConfig) (*Store, error) {
	dbDir := filepath.Join(cfg.CatalogDir, indexDir)
	if err := os.MkdirAll(dbDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating index directory: %w", err)
	}

	dbPath := filepath.Join(dbDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 20
	}

	s := &Store{db: db, maxResults: maxResults}

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
	statements := []string{
		`CREATE TABLE IF NOT EXISTS images (
			path TEXT PRIMARY KEY,
			filename TEXT NOT NULL,
			source_pdf TEXT NOT NULL,
			year TEXT,
			pages TEXT,
			width INTEGER,
			height INTEGER,
			size_bytes INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_images_year ON images(year)`,
		`CREATE INDEX IF NOT EXISTS idx_images_source ON images(source_pdf)`,
		`CREATE TABLE IF NOT EXISTS documents (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			folder TEXT NOT NULL,
			model TEXT,
			generated_at TEXT,
			body TEXT NOT NULL,
			UNIQUE(folder, name)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_documents_folder ON documents(folder)`,
		`CREATE TABLE IF NOT EXISTS ingest_status (
			path TEXT PRIMARY KEY,
			file_mod_time TEXT
		)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}

	// FTS5 virtual table over summary bodies, with triggers for sync.
	var ftsExists int
	if err := s.db.QueryRow(
		`SELECT count(*) FROM sqlite_master WHERE type='table' AND name='documents_fts'`,
	).Scan(&ftsExists); err != nil {
		return fmt.Errorf("checking FTS table: %w", err)
	}

	if ftsExists == 0 {
		ftsStatements := []string{
			`CREATE VIRTUAL TABLE documents_fts USING fts5(body, content=documents, content_rowid=rowid)`,
			`CREATE TRIGGER documents_ai AFTER INSERT ON documents BEGIN
				INSERT INTO documents_fts(rowid, body) VALUES (new.rowid, new.body);
			END`,
			`CREATE TRIGGER documents_ad AFTER DELETE ON documents BEGIN
				INSERT INTO documents_fts(documents_fts, rowid, body) VALUES('delete', old.rowid, old.body);
			END`,
			`CREATE TRIGGER documents_au AFTER UPDATE ON documents BEGIN
				INSERT INTO documents_fts(documents_fts, rowid, body) VALUES('delete', old.rowid, old.body);
				INSERT INTO documents_fts(rowid, body) VALUES (new.rowid, new.body);
			END`,
		}
		for _, stmt := range ftsStatements {
			if _, err := s.db.Exec(stmt); err != nil {
				return fmt.Errorf("creating FTS infrastructure: %w", err)
			}
		}
	}

	return nil
}

// IngestSummary holds counts from a catalog ingestion run.
type IngestSummary struct {
	Indexed int
	Updated int
	Skipped int
	Failed  int
}

// Total returns the number of files processed.
func (s IngestSummary) Total() int {
	return s.Indexed + s.Updated + s.Skipped + s.Failed
}

// Ingest reads image manifests from manifestDir and summary records from
// summariesDir and populates the database. Files whose mod time is
// unchanged since the last ingest are skipped.
func (s *Store) Ingest(ctx context.Context, manifestDir, summariesDir string, w io.Writer) (IngestSummary, error) {
	var summary IngestSummary

	if err := s.ingestDir(ctx, manifestDir, &summary, w, s.ingestManifest); err != nil {
		return summary, err
	}
	if err := s.ingestDir(ctx, summariesDir, &summary, w, s.ingestSummaryRecord); err != nil {
		return summary, err
	}

	fmt.Fprintf(w, "\nindexed: %d, updated: %d, skipped: %d, failed: %d\n",
		summary.Indexed, summary.Updated, summary.Skipped, summary.Failed)

	return summary, nil
}

// ingestDir walks one directory of YAML records, handling mod-time change
// detection and per-file error isolation; apply stores a single record.
func (s *Store) ingestDir(ctx context.Context, dir string, summary *IngestSummary, w io.Writer, apply func(ctx context.Context, data []byte) error) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // nothing produced yet for this stage
		}
		return fmt.Errorf("reading %s: %w", dir, err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		path := filepath.Join(dir, entry.Name())

		info, err := entry.Info()
		if err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", entry.Name(), err)
			summary.Failed++
			continue
		}
		modTime := info.ModTime().UTC().Format(time.RFC3339Nano)

		var storedModTime string
		err = s.db.QueryRowContext(ctx,
			`SELECT file_mod_time FROM ingest_status WHERE path = ?`, path,
		).Scan(&storedModTime)

		if err == nil && storedModTime == modTime {
			fmt.Fprintf(w, "skipped %s\n", entry.Name())
			summary.Skipped++
			continue
		}
		isUpdate := err == nil

		data, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", entry.Name(), err)
			summary.Failed++
			continue
		}

		if err := apply(ctx, data); err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", entry.Name(), err)
			summary.Failed++
			continue
		}

		if _, err := s.db.ExecContext(ctx,
			`INSERT INTO ingest_status (path, file_mod_time) VALUES (?, ?)
			 ON CONFLICT(path) DO UPDATE SET file_mod_time=excluded.file_mod_time`,
			path, modTime,
		); err != nil {
			fmt.Fprintf(w, "failed  %s: recording status: %v\n", entry.Name(), err)
			summary.Failed++
			continue
		}

		if isUpdate {
			fmt.Fprintf(w, "updated %s\n", entry.Name())
			summary.Updated++
		} else {
			fmt.Fprintf(w, "indexed %s\n", entry.Name())
			summary.Indexed++
		}
	}

	return nil
}

// ingestManifest stores every image record of one manifest, replacing any
// previous rows for the same source PDF.
func (s *Store) ingestManifest(ctx context.Context, data []byte) error {
	var m types.Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return fmt.Errorf("parse error: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM images WHERE source_pdf = ?`, m.SourcePDF); err != nil {
		return fmt.Errorf("deleting old rows: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT OR REPLACE INTO images (path, filename, source_pdf, year, pages, width, height, size_bytes)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, img := range m.Images {
		if _, err := stmt.ExecContext(ctx,
			img.Path, img.Filename, img.SourcePDF, img.Year, img.Pages,
			img.Width, img.Height, img.SizeBytes,
		); err != nil {
			return fmt.Errorf("inserting image %s: %w", img.Filename, err)
		}
	}

	return tx.Commit()
}

// ingestSummaryRecord upserts one document summary.
func (s *Store) ingestSummaryRecord(ctx context.Context, data []byte) error {
	var rec types.DocumentSummary
	if err := yaml.Unmarshal(data, &rec); err != nil {
		return fmt.Errorf("parse error: %w", err)
	}
	if rec.Name == "" {
		return fmt.Errorf("summary record has no document name")
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO documents (name, folder, model, generated_at, body)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(folder, name) DO UPDATE SET
			model=excluded.model, generated_at=excluded.generated_at, body=excluded.body`,
		rec.Name, rec.Folder, rec.Model, rec.GeneratedAt.Format(time.RFC3339), rec.Body,
	)
	if err != nil {
		return fmt.Errorf("upserting document: %w", err)
	}
	return nil
}
