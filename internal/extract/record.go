package extract

import "time"

// FileMeta is the per-file metadata supplied by the discovery layer.
// Every field is carried through into the output record unchanged.
type FileMeta struct {
	Name       string    // base file name
	Path       string    // absolute file path, the record's identity
	Stage      string    // deal stage directory name
	StagePath  string    // deal stage directory path
	ModifiedAt time.Time // last modified timestamp
	SizeBytes  int64
}

// Record is the flat output for one file: metadata fields merged with
// every value the descriptors extracted. Field names are unique per
// reference table; on collision the later write wins.
type Record map[string]any

// Metadata column names. These are reserved; a reference table output
// name that collides with one overwrites it, which the merge tolerates.
const (
	ColFileName     = "file_name"
	ColFilePath     = "file_path"
	ColDealStage    = "deal_stage"
	ColStagePath    = "deal_stage_path"
	ColLastModified = "last_modified"
	ColSizeBytes    = "size_bytes"
)

// newRecord seeds a record with the file's metadata fields.
func newRecord(meta FileMeta) Record {
	return Record{
		ColFileName:     meta.Name,
		ColFilePath:     meta.Path,
		ColDealStage:    meta.Stage,
		ColStagePath:    meta.StagePath,
		ColLastModified: meta.ModifiedAt,
		ColSizeBytes:    meta.SizeBytes,
	}
}

// merge folds extracted fields into the record, last write wins.
func (r Record) merge(fields []Field) {
	for _, f := range fields {
		r[f.Name] = f.Value
	}
}

// MetadataColumns lists the reserved metadata column names in stable
// order, for schema construction.
func MetadataColumns() []string {
	return []string{
		ColFilePath,
		ColFileName,
		ColDealStage,
		ColStagePath,
		ColLastModified,
		ColSizeBytes,
	}
}
