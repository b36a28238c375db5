package storage

import (
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
)

// RunInfo describes one recorded extraction run.
type RunInfo struct {
	RunID          string
	StartedAt      time.Time
	FinishedAt     time.Time
	FilesProcessed int
	FilesSkipped   int
	FieldsMissing  int
}

// Summary is a point-in-time view of the database for the status command.
type Summary struct {
	Records int
	Columns int
	LastRun *RunInfo
}

// Summary reports row and column counts plus the most recent run.
func (s *Store) Summary() (Summary, error) {
	var out Summary

	row := sq.Select("COUNT(*)").From(quoteIdent(s.table)).RunWith(s.db).QueryRow()
	if err := row.Scan(&out.Records); err != nil {
		return out, fmt.Errorf("storage: count records: %w", err)
	}
	out.Columns = len(s.cols)

	last, err := s.lastRun()
	if err != nil {
		return out, err
	}
	out.LastRun = last
	return out, nil
}

func (s *Store) lastRun() (*RunInfo, error) {
	row := sq.Select("run_id", "started_at", "finished_at", "files_processed", "files_skipped", "fields_missing").
		From("scan_runs").
		OrderBy("started_at DESC").
		Limit(1).
		RunWith(s.db).
		QueryRow()

	var (
		info              RunInfo
		started, finished string
	)
	err := row.Scan(&info.RunID, &started, &finished, &info.FilesProcessed, &info.FilesSkipped, &info.FieldsMissing)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: read last run: %w", err)
	}

	if t, err := time.Parse(time.RFC3339, started); err == nil {
		info.StartedAt = t
	}
	if t, err := time.Parse(time.RFC3339, finished); err == nil {
		info.FinishedAt = t
	}
	return &info, nil
}
