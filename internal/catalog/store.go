// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package catalog persists extracted report metadata and builds a
// full-text retrieval index over it.
package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/audit-miner/internal/resultsheet"
	"github.com/pdiddy/audit-miner/pkg/types"
)

const (
	indexDir = "index"
	dbFile   = "audit.db"
)

// Store manages the catalog SQLite database.
type Store struct {
	db         *sql.DB
	catalogDir string
	maxResults int
}

// NewStore opens or creates the catalog database at
// catalogDir/index/audit.db, creating the schema if it does not exist.
func NewStore(cfg types.CatalogConfig) (*Store, error) {
	dbDir := filepath.Join(cfg.CatalogDir, indexDir)
	if err := os.MkdirAll(dbDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating index directory: %w", err)
	}

	dbPath := filepath.Join(dbDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 20
	}

	s := &Store{
		db:         db,
		catalogDir: cfg.CatalogDir,
		maxResults: maxResults,
	}

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
		`CREATE TABLE IF NOT EXISTS reports (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			filename TEXT NOT NULL UNIQUE,
			state TEXT,
			location TEXT,
			department TEXT,
			audit_conducted_year TEXT,
			financial_year TEXT,
			ingested_at TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_reports_state ON reports(state)`,
		`CREATE INDEX IF NOT EXISTS idx_reports_department ON reports(department)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}

	// FTS5 virtual table with triggers for sync.
	var ftsExists int
	if err := s.db.QueryRow(
		`SELECT count(*) FROM sqlite_master WHERE type='table' AND name='reports_fts'`,
	).Scan(&ftsExists); err != nil {
		return fmt.Errorf("checking FTS table: %w", err)
	}

	if ftsExists == 0 {
		ftsStatements := []string{
			`CREATE VIRTUAL TABLE reports_fts USING fts5(
				filename, state, location, department,
				content=reports, content_rowid=rowid)`,
			`CREATE TRIGGER reports_ai AFTER INSERT ON reports BEGIN
				INSERT INTO reports_fts(rowid, filename, state, location, department)
				VALUES (new.rowid, new.filename, new.state, new.location, new.department);
			END`,
			`CREATE TRIGGER reports_ad AFTER DELETE ON reports BEGIN
				INSERT INTO reports_fts(reports_fts, rowid, filename, state, location, department)
				VALUES('delete', old.rowid, old.filename, old.state, old.location, old.department);
			END`,
			`CREATE TRIGGER reports_au AFTER UPDATE ON reports BEGIN
				INSERT INTO reports_fts(reports_fts, rowid, filename, state, location, department)
				VALUES('delete', old.rowid, old.filename, old.state, old.location, old.department);
				INSERT INTO reports_fts(rowid, filename, state, location, department)
				VALUES (new.rowid, new.filename, new.state, new.location, new.department);
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

// IngestSummary holds counts from a catalog indexing run.
type IngestSummary struct {
	Indexed int
	Updated int
	Skipped int
}

// Total returns the number of rows processed.
func (s IngestSummary) Total() int {
	return s.Indexed + s.Updated + s.Skipped
}

// Ingest reads a results workbook and populates the database. Rows whose
// stored metadata already matches are skipped so repeated runs are cheap.
func (s *Store) Ingest(ctx context.Context, resultsPath string, w io.Writer) (IngestSummary, error) {
	records, err := resultsheet.Read(resultsPath)
	if err != nil {
		return IngestSummary{}, fmt.Errorf("reading results workbook: %w", err)
	}

	var summary IngestSummary

	for _, rec := range records {
		select {
		case <-ctx.Done():
			return summary, ctx.Err()
		default:
		}

		var stored types.ReportMetadata
		err := s.db.QueryRowContext(ctx,
			`SELECT state, location, department, audit_conducted_year, financial_year
			 FROM reports WHERE filename = ?`, rec.Filename,
		).Scan(&stored.State, &stored.Location, &stored.Department,
			&stored.AuditConductedYear, &stored.FinancialYear)

		exists := err == nil
		if err != nil && err != sql.ErrNoRows {
			return summary, fmt.Errorf("looking up %s: %w", rec.Filename, err)
		}

		if exists && stored == rec.ReportMetadata {
			fmt.Fprintf(w, "skipped %s\n", rec.Filename)
			summary.Skipped++
			continue
		}

		_, err = s.db.ExecContext(ctx,
			`INSERT INTO reports (filename, state, location, department, audit_conducted_year, financial_year, ingested_at)
			 VALUES (?, ?, ?, ?, ?, ?, datetime('now'))
			 ON CONFLICT(filename) DO UPDATE SET
				state=excluded.state, location=excluded.location,
				department=excluded.department,
				audit_conducted_year=excluded.audit_conducted_year,
				financial_year=excluded.financial_year,
				ingested_at=excluded.ingested_at`,
			rec.Filename, rec.State, rec.Location, rec.Department,
			rec.AuditConductedYear, rec.FinancialYear,
		)
		if err != nil {
			return summary, fmt.Errorf("storing %s: %w", rec.Filename, err)
		}

		if exists {
			fmt.Fprintf(w, "updated %s\n", rec.Filename)
			summary.Updated++
		} else {
			fmt.Fprintf(w, "indexed %s\n", rec.Filename)
			summary.Indexed++
		}
	}

	fmt.Fprintf(w, "\nindexed: %d, updated: %d, skipped: %d\n",
		summary.Indexed, summary.Updated, summary.Skipped)

	// Refresh the export files after any change.
	if summary.Indexed > 0 || summary.Updated > 0 {
		if err := s.ExportYAML(ctx, QueryOptions{}); err != nil {
			fmt.Fprintf(w, "warning: export.yaml write failed: %v\n", err)
		}
	}

	return summary, nil
}
