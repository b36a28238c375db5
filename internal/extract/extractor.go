// Package extract evaluates parsed cell reference descriptors against
// open workbooks and assembles one flat record per file.
package extract

import (
	"fmt"
	"log"

	"github.com/brcap/uwscan/internal/refspec"
	"github.com/brcap/uwscan/internal/workbook"
)

// Field is one named output value produced by a descriptor. A descriptor
// can yield zero fields (resolution or bounds failure), one field, or a
// fan-out of many (column ranges).
type Field struct {
	Name  string
	Value any
}

// Extract evaluates one descriptor against the loaded grid for its sheet.
// grid may be nil only for KindText descriptors, which never touch sheet
// data.
//
// Out-of-bounds handling per shape:
//   - single cell: the descriptor emits nothing, logged;
//   - column range: columns past the grid edge are skipped, so the
//     fan-out emits only the in-bounds columns;
//   - row range / 2D block: missing cells are kept as nil entries so the
//     vector keeps its positional alignment and declared length.
func Extract(d refspec.Descriptor, grid *workbook.Grid) []Field {
	switch d.Kind {
	case refspec.KindText:
		return []Field{{Name: d.OutputName, Value: d.LiteralValue}}
	case refspec.KindSingleCell:
		return extractSingle(d, grid)
	case refspec.KindRange:
		switch {
		case d.IsColRange && !d.IsRowRange:
			return extractColumnRange(d, grid)
		case d.IsRowRange && !d.IsColRange:
			return extractRowRange(d, grid)
		default:
			return extractBlock(d, grid)
		}
	}
	return nil
}

func extractSingle(d refspec.Descriptor, grid *workbook.Grid) []Field {
	v, ok := grid.Value(d.StartRow, d.StartCol)
	if !ok {
		log.Printf("Warning: cell %s in sheet %q is out of bounds", d.Raw, d.SheetName)
		return nil
	}
	return []Field{{Name: d.OutputName, Value: v}}
}

// extractColumnRange fans one reference out into one scalar field per
// column. Field names follow the original naming scheme: with a text
// prefix the full cell address is reproduced per column, without one the
// column letters are appended to the output name.
func extractColumnRange(d refspec.Descriptor, grid *workbook.Grid) []Field {
	fields := make([]Field, 0, d.EndCol-d.StartCol+1)
	for col := d.StartCol; col <= d.EndCol; col++ {
		v, ok := grid.Value(d.StartRow, col)
		if !ok {
			log.Printf("Warning: column %s of range %s is out of bounds", refspec.ColumnLetters(col), d.Raw)
			continue
		}

		letters := refspec.ColumnLetters(col)
		var name string
		if d.TextPrefix != "" {
			name = fmt.Sprintf("%s%s!$%s$%d", d.TextPrefix, d.SheetName, letters, d.StartRow)
		} else {
			name = fmt.Sprintf("%s_%s", d.BaseName, letters)
		}
		fields = append(fields, Field{Name: name, Value: v})
	}
	return fields
}

// extractRowRange produces a single field holding an ordered vector,
// top-to-bottom. Out-of-bounds rows stay as nil entries.
func extractRowRange(d refspec.Descriptor, grid *workbook.Grid) []Field {
	values := make([]any, 0, d.EndRow-d.StartRow+1)
	for row := d.StartRow; row <= d.EndRow; row++ {
		v, _ := grid.Value(row, d.StartCol)
		values = append(values, v)
	}
	return []Field{{Name: d.OutputName, Value: values}}
}

// extractBlock produces a single field holding a row-major 2D array.
func extractBlock(d refspec.Descriptor, grid *workbook.Grid) []Field {
	block := make([][]any, 0, d.EndRow-d.StartRow+1)
	for row := d.StartRow; row <= d.EndRow; row++ {
		line := make([]any, 0, d.EndCol-d.StartCol+1)
		for col := d.StartCol; col <= d.EndCol; col++ {
			v, _ := grid.Value(row, col)
			line = append(line, v)
		}
		block = append(block, line)
	}
	return []Field{{Name: d.OutputName, Value: block}}
}
