// Package refspec parses the cell reference table that drives extraction.
//
// Each row of the table pairs a spreadsheet-style reference expression
// (e.g. 'Assumptions (Summary)'!$D$6) with the output field name the
// extracted value should be stored under. Parsing happens once; the
// resulting descriptors are immutable and shared across every workbook
// processed in a run.
package refspec

// Kind classifies a reference expression.
type Kind int

const (
	// KindText is a bare text expression with no sheet reference. The raw
	// expression itself becomes the extracted value.
	KindText Kind = iota
	// KindSingleCell addresses exactly one cell on one sheet.
	KindSingleCell
	// KindRange addresses a rectangular cell range on one sheet.
	KindRange
)

// String returns a human-readable name for the kind.
func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindSingleCell:
		return "single"
	case KindRange:
		return "range"
	default:
		return "unknown"
	}
}

// Descriptor is the parsed, typed form of one reference table row.
// It is immutable after Parse returns and safe to share across goroutines.
type Descriptor struct {
	Kind       Kind
	OutputName string // destination field name from the table
	SheetName  string // requested sheet, empty for KindText

	// Grid coordinates, 1-origin spreadsheet convention.
	// For KindSingleCell start == end on both axes.
	StartCol int
	StartRow int
	EndCol   int
	EndRow   int

	// IsColRange / IsRowRange determine the extraction shape of a range:
	// exactly one true is a 1D vector, both true is a 2D block.
	IsColRange bool
	IsRowRange bool

	// TextPrefix is the free-text segment split off the output name
	// ("Studio (General Info) - " in
	// "Studio (General Info) - 'Assumptions (Unit Matrix)'!$E$7:$I$7").
	// When present it prefixes each synthesized field name of a
	// column-range fan-out.
	TextPrefix string

	// BaseName is OutputName with TextPrefix stripped. Equal to OutputName
	// when no prefix pattern was found.
	BaseName string

	// LiteralValue holds the raw expression for KindText, empty otherwise.
	LiteralValue string

	// Raw is the original reference expression, kept for log messages.
	Raw string
}
