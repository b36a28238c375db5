package extract

import (
	"log"

	"github.com/brcap/uwscan/internal/refspec"
	"github.com/brcap/uwscan/internal/workbook"
)

// FileResult is the outcome of processing one workbook.
type FileResult struct {
	Record        Record // nil when the file yielded nothing
	FieldsMissing int    // descriptors that contributed no field
	Err           error  // non-nil only when the workbook could not be opened
}

// ProcessFile opens one workbook, evaluates every descriptor against it,
// and assembles the merged record. The workbook handle is closed on every
// exit path. Failures below the whole-file level are absorbed: a
// descriptor that cannot be resolved or lands out of bounds simply
// contributes nothing.
func ProcessFile(meta FileMeta, descs []refspec.Descriptor) FileResult {
	h, err := workbook.Open(meta.Path)
	if err != nil {
		log.Printf("Error: cannot open workbook %s: %v", meta.Path, err)
		return FileResult{Err: err}
	}
	defer h.Close()

	applyWindows(h, descs)

	record := newRecord(meta)
	extracted := 0
	missing := 0

	for _, d := range descs {
		var fields []Field

		if d.Kind == refspec.KindText {
			fields = Extract(d, nil)
		} else {
			actual, ok := h.ResolveSheet(d.SheetName)
			if !ok {
				missing++
				continue
			}
			fields = Extract(d, h.Grid(actual))
		}

		if len(fields) == 0 {
			missing++
			continue
		}
		record.merge(fields)
		extracted += len(fields)
	}

	if extracted == 0 {
		log.Printf("No data extracted from %s", meta.Path)
		return FileResult{FieldsMissing: missing}
	}
	return FileResult{Record: record, FieldsMissing: missing}
}

// applyWindows computes, per sheet, the minimal bounding rectangle
// covering every descriptor that targets it, and restricts sheet loads to
// that window. Sheets are resolved first so windows are keyed by actual
// sheet names.
func applyWindows(h *workbook.Handle, descs []refspec.Descriptor) {
	windows := make(map[string]workbook.Window)
	for _, d := range descs {
		if d.Kind == refspec.KindText {
			continue
		}
		actual, ok := h.ResolveSheet(d.SheetName)
		if !ok {
			continue
		}

		win, seen := windows[actual]
		if !seen {
			win = workbook.Window{
				MinRow: d.StartRow, MinCol: d.StartCol,
				MaxRow: d.EndRow, MaxCol: d.EndCol,
			}
		} else {
			if d.StartRow < win.MinRow {
				win.MinRow = d.StartRow
			}
			if d.StartCol < win.MinCol {
				win.MinCol = d.StartCol
			}
			if d.EndRow > win.MaxRow {
				win.MaxRow = d.EndRow
			}
			if d.EndCol > win.MaxCol {
				win.MaxCol = d.EndCol
			}
		}
		windows[actual] = win
	}

	for sheet, win := range windows {
		h.SetWindow(sheet, win)
	}
}
