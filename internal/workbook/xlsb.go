package workbook

import (
	xlsb "github.com/TsubasaBE/go-xlsb"
	xlsbwb "github.com/TsubasaBE/go-xlsb/workbook"
)

// xlsbSource reads binary workbooks via go-xlsb.
type xlsbSource struct {
	wb *xlsbwb.Workbook
}

func openXLSB(path string) (source, error) {
	wb, err := xlsb.Open(path)
	if err != nil {
		return nil, err
	}
	return &xlsbSource{wb: wb}, nil
}

func (s *xlsbSource) SheetNames() []string {
	return s.wb.Sheets()
}

func (s *xlsbSource) LoadGrid(name string, win *Window) (*Grid, error) {
	sheet, err := s.wb.SheetByName(name)
	if err != nil {
		return nil, err
	}

	minRow, minCol := 1, 1
	if win != nil {
		minRow, minCol = win.MinRow, win.MinCol
	}
	b := newGridBuilder(minRow, minCol)

	for row := range sheet.Rows(true) {
		for _, cell := range row {
			// go-xlsb coordinates are 0-based.
			r, c := cell.R+1, cell.C+1
			if win != nil && !win.Contains(r, c) {
				continue
			}
			if cell.V == nil {
				continue
			}

			v := cell.V
			// Date cells arrive as serial numbers; convert using the
			// workbook's 1900/1904 date system.
			if serial, ok := v.(float64); ok && s.wb.Styles.IsDate(cell.Style) {
				if t, err := xlsb.ConvertDateEx(serial, s.wb.Date1904); err == nil {
					v = t
				}
			}
			b.set(r, c, v)
		}
	}
	return b.grid(), nil
}

func (s *xlsbSource) Close() error {
	return s.wb.Close()
}
