package workbook

import (
	"strconv"

	"github.com/xuri/excelize/v2"
)

// xlsmSource reads macro-enabled and plain zip workbooks via excelize.
type xlsmSource struct {
	f *excelize.File
}

func openXLSM(path string) (source, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	return &xlsmSource{f: f}, nil
}

func (s *xlsmSource) SheetNames() []string {
	return s.f.GetSheetList()
}

func (s *xlsmSource) LoadGrid(name string, win *Window) (*Grid, error) {
	rows, err := s.f.GetRows(name)
	if err != nil {
		return nil, err
	}

	minRow, minCol := 1, 1
	if win != nil {
		minRow, minCol = win.MinRow, win.MinCol
	}
	b := newGridBuilder(minRow, minCol)

	for ri, row := range rows {
		r := ri + 1
		if win != nil && (r < win.MinRow || r > win.MaxRow) {
			continue
		}
		for ci, text := range row {
			c := ci + 1
			if win != nil && (c < win.MinCol || c > win.MaxCol) {
				continue
			}
			if text == "" {
				continue
			}
			b.set(r, c, parseCellText(text))
		}
	}
	return b.grid(), nil
}

func (s *xlsmSource) Close() error {
	return s.f.Close()
}

// parseCellText converts excelize's string cell values into typed ones:
// numeric text becomes float64, everything else stays a string.
func parseCellText(text string) any {
	if f, err := strconv.ParseFloat(text, 64); err == nil {
		return f
	}
	return text
}
