package refspec

import (
	"errors"
	"fmt"
	"log"

	"github.com/xuri/excelize/v2"
)

// ErrReferenceTable marks failures that make the whole reference table
// unusable: unreadable file, missing sheet, or missing required columns.
// These are fatal for a run; everything below this level is recoverable.
var ErrReferenceTable = errors.New("refspec: reference table unusable")

// TableConfig locates the reference table inside a workbook.
type TableConfig struct {
	Path       string // path to the reference workbook
	Sheet      string // sheet holding the reference table
	RefColumn  string // header of the reference expression column
	NameColumn string // header of the output field name column
}

// LoadTable reads the reference table workbook and parses every row into
// descriptors. The first row of the sheet is the header row; the two
// required columns are located by exact header match.
func LoadTable(cfg TableConfig) ([]Descriptor, error) {
	f, err := excelize.OpenFile(cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", ErrReferenceTable, cfg.Path, err)
	}
	defer f.Close()

	rows, err := f.GetRows(cfg.Sheet)
	if err != nil {
		return nil, fmt.Errorf("%w: read sheet %q: %v", ErrReferenceTable, cfg.Sheet, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: sheet %q is empty", ErrReferenceTable, cfg.Sheet)
	}

	refIdx, nameIdx := -1, -1
	for i, header := range rows[0] {
		switch header {
		case cfg.RefColumn:
			refIdx = i
		case cfg.NameColumn:
			nameIdx = i
		}
	}
	if refIdx < 0 {
		return nil, fmt.Errorf("%w: required column %q not found", ErrReferenceTable, cfg.RefColumn)
	}
	if nameIdx < 0 {
		return nil, fmt.Errorf("%w: required column %q not found", ErrReferenceTable, cfg.NameColumn)
	}

	exprs := make([]string, 0, len(rows)-1)
	names := make([]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		// excelize trims trailing empty cells, so short rows are normal.
		exprs = append(exprs, cellAt(row, refIdx))
		names = append(names, cellAt(row, nameIdx))
	}

	descs, err := Parse(exprs, names)
	if err != nil {
		return nil, err
	}
	log.Printf("Loaded %d cell references from %s", len(descs), cfg.Path)
	return descs, nil
}

func cellAt(row []string, idx int) string {
	if idx < len(row) {
		return row[idx]
	}
	return ""
}
