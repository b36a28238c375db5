package storage

import (
	"encoding/json"
	"fmt"
	"log"
	"sort"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/brcap/uwscan/internal/extract"
)

// UpsertRecords writes records into the data table, replacing any row
// with the same file path. New output fields become new columns first;
// all row writes then happen in one transaction.
func (s *Store) UpsertRecords(records []extract.Record) error {
	if len(records) == 0 {
		return nil
	}

	if err := s.ensureColumns(records); err != nil {
		return err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("storage: begin upsert transaction: %w", err)
	}
	defer tx.Rollback() // Safe to call even after commit

	now := time.Now().UTC().Format(time.RFC3339)
	for _, record := range records {
		cols := make([]string, 0, len(record)+1)
		vals := make([]any, 0, len(record)+1)
		for _, name := range sortedKeys(record) {
			cols = append(cols, quoteIdent(name))
			vals = append(vals, encodeValue(record[name]))
		}
		cols = append(cols, quoteIdent("extracted_at"))
		vals = append(vals, now)

		_, err := sq.Insert(quoteIdent(s.table)).
			Columns(cols...).
			Values(vals...).
			Options("OR REPLACE").
			RunWith(tx).
			Exec()
		if err != nil {
			return fmt.Errorf("storage: upsert record %v: %w", record[extract.ColFilePath], err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage: commit upsert: %w", err)
	}
	return nil
}

// ensureColumns adds a TEXT column for every field name not yet present
// in the data table.
func (s *Store) ensureColumns(records []extract.Record) error {
	var added []string
	for _, record := range records {
		for name := range record {
			if s.cols[name] {
				continue
			}
			ddl := fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s TEXT", quoteIdent(s.table), quoteIdent(name))
			if _, err := s.db.Exec(ddl); err != nil {
				return fmt.Errorf("storage: add column %q: %w", name, err)
			}
			s.cols[name] = true
			added = append(added, name)
		}
	}
	if len(added) > 0 {
		log.Printf("Added %d new columns to %s", len(added), s.table)
	}
	return nil
}

// PruneMissing deletes rows whose file path is not in the live set and
// returns how many were removed.
func (s *Store) PruneMissing(livePaths map[string]bool) (int, error) {
	rows, err := s.db.Query(fmt.Sprintf(`SELECT "file_path" FROM %s`, quoteIdent(s.table)))
	if err != nil {
		return 0, fmt.Errorf("storage: list file paths: %w", err)
	}
	var stale []string
	for rows.Next() {
		var path string
		if err := rows.Scan(&path); err != nil {
			rows.Close()
			return 0, fmt.Errorf("storage: scan file path: %w", err)
		}
		if !livePaths[path] {
			stale = append(stale, path)
		}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return 0, err
	}
	if len(stale) == 0 {
		return 0, nil
	}

	res, err := sq.Delete(quoteIdent(s.table)).
		Where(sq.Eq{`"file_path"`: stale}).
		RunWith(s.db).
		Exec()
	if err != nil {
		return 0, fmt.Errorf("storage: prune missing rows: %w", err)
	}
	n, _ := res.RowsAffected()
	log.Printf("Pruned %d rows for files no longer on disk", n)
	return int(n), nil
}

// RecordRun stores the outcome of one extraction run.
func (s *Store) RecordRun(started time.Time, stats extract.Stats) error {
	_, err := sq.Insert("scan_runs").
		Columns("run_id", "started_at", "finished_at", "files_processed", "files_skipped", "fields_missing").
		Values(
			uuid.NewString(),
			started.UTC().Format(time.RFC3339),
			started.Add(stats.Duration).UTC().Format(time.RFC3339),
			stats.FilesProcessed,
			stats.FilesSkipped,
			stats.FieldsMissing,
		).
		RunWith(s.db).
		Exec()
	if err != nil {
		return fmt.Errorf("storage: record scan run: %w", err)
	}
	return nil
}

// encodeValue flattens an extracted value into something SQLite stores
// directly. Vectors and blocks are JSON-encoded so downstream consumers
// can decode them with their shape intact.
func encodeValue(v any) any {
	switch val := v.(type) {
	case nil, string, float64, int, int64, bool:
		return val
	case time.Time:
		return val.UTC().Format(time.RFC3339)
	case []any, [][]any:
		encoded, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprintf("%v", val)
		}
		return string(encoded)
	default:
		return fmt.Sprintf("%v", val)
	}
}

func sortedKeys(record extract.Record) []string {
	keys := make([]string, 0, len(record))
	for name := range record {
		keys = append(keys, name)
	}
	sort.Strings(keys)
	return keys
}
