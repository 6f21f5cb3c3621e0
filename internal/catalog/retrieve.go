// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/pdiddy/archive-engine/pkg/types"
)

// QueryOptions holds parameters for catalog document queries.
type QueryOptions struct {
	// Query is the FTS5 full-text search string over summary bodies.
	Query string

	// Folder filters by priority folder.
	Folder string

	// MaxResults limits result count. Zero uses the store default.
	MaxResults int
}

// IsEmpty reports whether the query has no search terms or filters.
func (q QueryOptions) IsEmpty() bool {
	return q.Query == "" && q.Folder == ""
}

// DocumentResult is one matching document summary.
type DocumentResult struct {
	Name        string `json:"name" yaml:"name"`
	Folder      string `json:"folder" yaml:"folder"`
	Model       string `json:"model" yaml:"model"`
	GeneratedAt string `json:"generated_at" yaml:"generated_at"`
	Body        string `json:"body" yaml:"body"`
}

// RetrieveDocuments queries indexed summaries with optional full-text
// search and a folder filter. Full-text queries are ranked by relevance;
// filter-only queries are sorted by folder then name.
func (s *Store) RetrieveDocuments(ctx context.Context, opts QueryOptions) ([]DocumentResult, error) {
	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = s.maxResults
	}

	var (
		qb     strings.Builder
		args   []any
		useFTS = opts.Query != ""
	)

	if useFTS {
		qb.WriteString(
			`SELECT d.name, d.folder, d.model, d.generated_at, d.body
			FROM documents_fts
			JOIN documents d ON d.rowid = documents_fts.rowid
			WHERE documents_fts MATCH ?`)
		args = append(args, opts.Query)
	} else {
		qb.WriteString(
			`SELECT d.name, d.folder, d.model, d.generated_at, d.body
			FROM documents d
			WHERE 1=1`)
	}

	if opts.Folder != "" {
		qb.WriteString(` AND d.folder = ?`)
		args = append(args, opts.Folder)
	}

	if useFTS {
		qb.WriteString(` ORDER BY documents_fts.rank`)
	} else {
		qb.WriteString(` ORDER BY d.folder, d.name`)
	}

	qb.WriteString(` LIMIT ?`)
	args = append(args, maxResults)

	rows, err := s.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("querying documents: %w", err)
	}
	defer rows.Close()

	var results []DocumentResult
	for rows.Next() {
		var r DocumentResult
		if err := rows.Scan(&r.Name, &r.Folder, &r.Model, &r.GeneratedAt, &r.Body); err != nil {
			return nil, fmt.Errorf("scanning document row: %w", err)
		}
		results = append(results, r)
	}
	return results, rows.Err()
}

// RetrieveImages lists indexed image records, optionally filtered by year
// or source PDF, sorted by year then filename.
func (s *Store) RetrieveImages(ctx context.Context, year, sourcePDF string, maxResults int) ([]types.ImageRecord, error) {
	if maxResults <= 0 {
		maxResults = s.maxResults
	}

	var (
		qb   strings.Builder
		args []any
	)
	qb.WriteString(
		`SELECT path, filename, source_pdf, year, pages, width, height, size_bytes
		FROM images WHERE 1=1`)

	if year != "" {
		qb.WriteString(` AND year = ?`)
		args = append(args, year)
	}
	if sourcePDF != "" {
		qb.WriteString(` AND source_pdf = ?`)
		args = append(args, sourcePDF)
	}

	qb.WriteString(` ORDER BY year, filename LIMIT ?`)
	args = append(args, maxResults)

	rows, err := s.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("querying images: %w", err)
	}
	defer rows.Close()

	var results []types.ImageRecord
	for rows.Next() {
		var r types.ImageRecord
		if err := rows.Scan(&r.Path, &r.Filename, &r.SourcePDF, &r.Year, &r.Pages,
			&r.Width, &r.Height, &r.SizeBytes); err != nil {
			return nil, fmt.Errorf("scanning image row: %w", err)
		}
		results = append(results, r)
	}
	return results, rows.Err()
}
