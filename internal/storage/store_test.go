package storage

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brcap/uwscan/internal/extract"
)

// Test Plan for the SQLite store:
// - Open creates the schema and survives reopen
// - upsert inserts new rows and replaces rows with the same file path
// - new output fields grow the table via ALTER TABLE, including names
//   with spaces, quotes, and cell addresses
// - vectors are JSON-encoded on the way in
// - prune removes rows for vanished files only
// - scan runs are recorded and surfaced via Summary

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "db", "models.db"), "")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleRecord(path string, price float64) extract.Record {
	return extract.Record{
		extract.ColFilePath:     path,
		extract.ColFileName:     filepath.Base(path),
		extract.ColDealStage:    "2) Active UW and Review",
		extract.ColStagePath:    filepath.Dir(path),
		extract.ColLastModified: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
		extract.ColSizeBytes:    int64(2048),
		"Purchase Price":        price,
	}
}

func countRows(t *testing.T, s *Store) int {
	t.Helper()
	var n int
	require.NoError(t, s.db.QueryRow(`SELECT COUNT(*) FROM "underwriting_model_data"`).Scan(&n))
	return n
}

func TestOpen_CreatesSchemaAndReopens(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "models.db")

	s, err := Open(path, "")
	require.NoError(t, err)
	require.NoError(t, s.UpsertRecords([]extract.Record{sampleRecord("/deals/a.xlsb", 1)}))
	require.NoError(t, s.Close())

	// Reopen picks up the evolved column set.
	s2, err := Open(path, "")
	require.NoError(t, err)
	defer s2.Close()
	assert.True(t, s2.cols["Purchase Price"])
	assert.Equal(t, 1, countRows(t, s2))
}

func TestUpsertRecords_ReplacesByFilePath(t *testing.T) {
	s := openTestStore(t)

	require.NoError(t, s.UpsertRecords([]extract.Record{sampleRecord("/deals/a.xlsb", 100)}))
	require.NoError(t, s.UpsertRecords([]extract.Record{sampleRecord("/deals/a.xlsb", 200)}))
	assert.Equal(t, 1, countRows(t, s))

	var price float64
	require.NoError(t, s.db.QueryRow(
		`SELECT "Purchase Price" FROM "underwriting_model_data" WHERE "file_path" = ?`,
		"/deals/a.xlsb",
	).Scan(&price))
	assert.Equal(t, 200.0, price)
}

func TestUpsertRecords_AwkwardColumnNames(t *testing.T) {
	s := openTestStore(t)

	record := sampleRecord("/deals/b.xlsb", 1)
	record["Studio (General Info) - Assumptions (Unit Matrix)!$E$7"] = 510.0
	record[`He said "hello"`] = "quoted"

	require.NoError(t, s.UpsertRecords([]extract.Record{record}))

	var v float64
	require.NoError(t, s.db.QueryRow(
		`SELECT "Studio (General Info) - Assumptions (Unit Matrix)!$E$7" FROM "underwriting_model_data"`,
	).Scan(&v))
	assert.Equal(t, 510.0, v)
}

func TestUpsertRecords_EncodesVectors(t *testing.T) {
	s := openTestStore(t)

	record := sampleRecord("/deals/c.xlsb", 1)
	record["Cash Flows"] = []any{1.0, nil, 3.0}
	require.NoError(t, s.UpsertRecords([]extract.Record{record}))

	var encoded string
	require.NoError(t, s.db.QueryRow(
		`SELECT "Cash Flows" FROM "underwriting_model_data"`,
	).Scan(&encoded))
	assert.JSONEq(t, `[1, null, 3]`, encoded)
}

func TestUpsertRecords_EmptyBatch(t *testing.T) {
	s := openTestStore(t)
	assert.NoError(t, s.UpsertRecords(nil))
}

func TestPruneMissing(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.UpsertRecords([]extract.Record{
		sampleRecord("/deals/a.xlsb", 1),
		sampleRecord("/deals/b.xlsb", 2),
		sampleRecord("/deals/c.xlsb", 3),
	}))

	n, err := s.PruneMissing(map[string]bool{
		"/deals/a.xlsb": true,
		"/deals/c.xlsb": true,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, 2, countRows(t, s))
}

func TestRecordRun_AndSummary(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.UpsertRecords([]extract.Record{sampleRecord("/deals/a.xlsb", 1)}))

	started := time.Now().Add(-time.Minute)
	require.NoError(t, s.RecordRun(started, extract.Stats{
		FilesProcessed: 12,
		FilesSkipped:   2,
		FieldsMissing:  5,
		Duration:       30 * time.Second,
	}))

	summary, err := s.Summary()
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Records)
	assert.Greater(t, summary.Columns, 6)
	require.NotNil(t, summary.LastRun)
	assert.Equal(t, 12, summary.LastRun.FilesProcessed)
	assert.Equal(t, 2, summary.LastRun.FilesSkipped)
	assert.Equal(t, 5, summary.LastRun.FieldsMissing)
	assert.NotEmpty(t, summary.LastRun.RunID)
}

func TestSummary_NoRuns(t *testing.T) {
	s := openTestStore(t)
	summary, err := s.Summary()
	require.NoError(t, err)
	assert.Equal(t, 0, summary.Records)
	assert.Nil(t, summary.LastRun)
}

func TestEncodeValue(t *testing.T) {
	assert.Equal(t, "x", encodeValue("x"))
	assert.Equal(t, 1.5, encodeValue(1.5))
	assert.Nil(t, encodeValue(nil))
	assert.Equal(t, "2026-08-01T00:00:00Z", encodeValue(time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)))

	block := encodeValue([][]any{{1.0}, {2.0}})
	assert.JSONEq(t, `[[1],[2]]`, block.(string))
}
