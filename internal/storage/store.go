// Package storage persists extracted records into SQLite, keyed by
// absolute file path. The record schema is open-ended: output field
// names come from the reference table, so columns are added to the data
// table as new fields appear.
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

// DefaultTable is the data table name used when the config leaves it
// unset.
const DefaultTable = "underwriting_model_data"

// Store wraps the SQLite database holding extracted records.
type Store struct {
	db    *sql.DB
	table string
	// cols caches the data table's current column set so upserts only
	// touch sqlite_master when a genuinely new field shows up.
	cols map[string]bool
}

// Open opens (creating if needed) the database at path and ensures the
// schema exists. WAL mode keeps the dashboard readable while a scan is
// writing.
func Open(path, table string) (*Store, error) {
	if table == "" {
		table = DefaultTable
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("storage: create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("storage: open %s: %w", path, err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: enable WAL: %w", err)
	}

	s := &Store{db: db, table: table}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	if err := s.loadColumns(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// ensureSchema creates the data table and the scan_runs table.
func (s *Store) ensureSchema() error {
	dataDDL := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			"file_path" TEXT PRIMARY KEY,
			"file_name" TEXT,
			"deal_stage" TEXT,
			"deal_stage_path" TEXT,
			"last_modified" TEXT,
			"size_bytes" INTEGER,
			"extracted_at" TEXT
		)`, quoteIdent(s.table))
	if _, err := s.db.Exec(dataDDL); err != nil {
		return fmt.Errorf("storage: create %s table: %w", s.table, err)
	}

	runsDDL := `
		CREATE TABLE IF NOT EXISTS scan_runs (
			run_id TEXT PRIMARY KEY,
			started_at TEXT NOT NULL,
			finished_at TEXT NOT NULL,
			files_processed INTEGER NOT NULL,
			files_skipped INTEGER NOT NULL,
			fields_missing INTEGER NOT NULL
		)`
	if _, err := s.db.Exec(runsDDL); err != nil {
		return fmt.Errorf("storage: create scan_runs table: %w", err)
	}
	return nil
}

// loadColumns reads the data table's current column set.
func (s *Store) loadColumns() error {
	rows, err := s.db.Query(fmt.Sprintf("PRAGMA table_info(%s)", quoteIdent(s.table)))
	if err != nil {
		return fmt.Errorf("storage: read table info: %w", err)
	}
	defer rows.Close()

	s.cols = make(map[string]bool)
	for rows.Next() {
		var (
			cid        int
			name, typ  string
			notNull    int
			defaultVal sql.NullString
			pk         int
		)
		if err := rows.Scan(&cid, &name, &typ, &notNull, &defaultVal, &pk); err != nil {
			return fmt.Errorf("storage: scan table info: %w", err)
		}
		s.cols[name] = true
	}
	return rows.Err()
}

// quoteIdent quotes an arbitrary identifier for SQLite. Output field
// names contain spaces, quotes, and cell addresses, so everything is
// double-quoted with embedded quotes doubled.
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
