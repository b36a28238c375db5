package refspec

import (
	"fmt"
	"log"
	"regexp"
	"strconv"
	"strings"
)

// Cell address tokens are matched loosely: an alphabetic run for the
// column and a digit run for the row, each with an optional $ anchor.
// Reference tables are hand-maintained spreadsheets, so anything stricter
// rejects rows that Excel itself accepts.
var (
	colPattern = regexp.MustCompile(`\$?([A-Za-z]+)`)
	rowPattern = regexp.MustCompile(`\$?([0-9]+)`)
)

// Parse converts aligned expression/name sequences into descriptors.
//
// Rows where either value is blank are skipped silently. Rows whose
// expression cannot be parsed are skipped with a logged warning; a single
// bad row never fails the whole table. Parse errors only when the two
// sequences have different lengths, since then row alignment is unknowable.
func Parse(exprs, names []string) ([]Descriptor, error) {
	if len(exprs) != len(names) {
		return nil, fmt.Errorf("refspec: %d reference expressions but %d output names", len(exprs), len(names))
	}

	descs := make([]Descriptor, 0, len(exprs))
	for i := range exprs {
		expr := strings.TrimSpace(exprs[i])
		name := strings.TrimSpace(names[i])
		if expr == "" || name == "" {
			continue
		}

		d, err := parseOne(expr, name)
		if err != nil {
			log.Printf("Warning: skipping reference row %d (%q): %v", i+1, expr, err)
			continue
		}
		descs = append(descs, d)
	}
	return descs, nil
}

// parseOne classifies and parses a single reference expression.
func parseOne(expr, name string) (Descriptor, error) {
	// No sheet separator means the expression is literal text.
	if !strings.Contains(expr, "!") {
		return Descriptor{
			Kind:         KindText,
			OutputName:   name,
			BaseName:     name,
			LiteralValue: expr,
			Raw:          expr,
		}, nil
	}

	parts := strings.SplitN(expr, "!", 2)
	sheet := strings.Trim(parts[0], "'")
	addr := parts[1]

	d := Descriptor{
		OutputName: name,
		SheetName:  sheet,
		Raw:        expr,
	}
	d.TextPrefix, d.BaseName = SplitTextPrefix(name)

	if strings.Contains(addr, ":") {
		cells := strings.SplitN(addr, ":", 2)

		startCol, startRow, err := parseCellToken(cells[0])
		if err != nil {
			return Descriptor{}, fmt.Errorf("start cell %q: %w", cells[0], err)
		}
		endCol, endRow, err := parseCellToken(cells[1])
		if err != nil {
			return Descriptor{}, fmt.Errorf("end cell %q: %w", cells[1], err)
		}

		d.Kind = KindRange
		d.StartCol, d.StartRow = startCol, startRow
		d.EndCol, d.EndRow = endCol, endRow
		d.IsColRange = startCol != endCol
		d.IsRowRange = startRow != endRow
		return d, nil
	}

	col, row, err := parseCellToken(addr)
	if err != nil {
		return Descriptor{}, fmt.Errorf("cell %q: %w", addr, err)
	}
	d.Kind = KindSingleCell
	d.StartCol, d.StartRow = col, row
	d.EndCol, d.EndRow = col, row
	return d, nil
}

// parseCellToken extracts the column number and row number out of one cell
// token like "$D$151" or "D151".
func parseCellToken(token string) (col, row int, err error) {
	colMatch := colPattern.FindStringSubmatch(token)
	rowMatch := rowPattern.FindStringSubmatch(token)
	if colMatch == nil || rowMatch == nil {
		return 0, 0, fmt.Errorf("refspec: no column/row in cell token")
	}

	col, err = ColumnNumber(colMatch[1])
	if err != nil {
		return 0, 0, err
	}
	row, err = strconv.Atoi(rowMatch[1])
	if err != nil || row < 1 {
		return 0, 0, fmt.Errorf("refspec: invalid row in cell token")
	}
	return col, row, nil
}

// SplitTextPrefix splits an output name of the form
// "<free text> - '<Sheet>'!..." into its prefix (including the trailing
// " - ") and the remainder. Names without the pattern return ("", name).
func SplitTextPrefix(name string) (prefix, base string) {
	if !strings.Contains(name, " - ") || !strings.Contains(name, "!") {
		return "", name
	}
	parts := strings.SplitN(name, " - ", 2)
	return parts[0] + " - ", parts[1]
}
