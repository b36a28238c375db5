package workbook

// Grid is an addressable 2D view of one loaded sheet, using 1-origin
// row/column coordinates matching spreadsheet convention.
//
// A grid may cover only a window of the sheet (see Window); its index
// origin is preserved, so Value(row, col) always takes original sheet
// coordinates regardless of how the grid was loaded.
type Grid struct {
	minRow, minCol int
	cells          [][]any
}

// Window is an inclusive bounding rectangle of sheet coordinates,
// 1-origin. Loading a windowed grid skips everything outside it.
type Window struct {
	MinRow, MinCol int
	MaxRow, MaxCol int
}

// Contains reports whether the cell at (row, col) falls inside the window.
func (w Window) Contains(row, col int) bool {
	return row >= w.MinRow && row <= w.MaxRow && col >= w.MinCol && col <= w.MaxCol
}

// NewGrid builds a grid from dense rows anchored at (minRow, minCol),
// both 1-origin. Rows may be ragged. Origins below 1 are clamped to 1.
func NewGrid(minRow, minCol int, cells [][]any) *Grid {
	b := newGridBuilder(minRow, minCol)
	for ri, row := range cells {
		for ci, v := range row {
			b.set(b.minRow+ri, b.minCol+ci, v)
		}
	}
	return b.grid()
}

// Value returns the cell value at the given 1-origin coordinates.
// The second return is false when the coordinates fall outside the loaded
// area. A nil value with true means an empty cell inside the area.
func (g *Grid) Value(row, col int) (any, bool) {
	r := row - g.minRow
	c := col - g.minCol
	if r < 0 || c < 0 || r >= len(g.cells) {
		return nil, false
	}
	if c >= len(g.cells[r]) {
		// Rows are ragged; a short row still counts as in bounds when the
		// column exists elsewhere in the grid. Treat it as out of bounds to
		// keep extraction honest about what was actually present.
		return nil, false
	}
	return g.cells[r][c], true
}

// IsEmpty reports whether the grid holds no cells at all.
func (g *Grid) IsEmpty() bool {
	return len(g.cells) == 0
}

// gridBuilder accumulates cells into a growable 2D slice anchored at
// (minRow, minCol).
type gridBuilder struct {
	minRow, minCol int
	cells          [][]any
}

func newGridBuilder(minRow, minCol int) *gridBuilder {
	if minRow < 1 {
		minRow = 1
	}
	if minCol < 1 {
		minCol = 1
	}
	return &gridBuilder{minRow: minRow, minCol: minCol}
}

func (b *gridBuilder) set(row, col int, v any) {
	r := row - b.minRow
	c := col - b.minCol
	if r < 0 || c < 0 {
		return
	}
	for len(b.cells) <= r {
		b.cells = append(b.cells, nil)
	}
	for len(b.cells[r]) <= c {
		b.cells[r] = append(b.cells[r], nil)
	}
	b.cells[r][c] = v
}

func (b *gridBuilder) grid() *Grid {
	return &Grid{minRow: b.minRow, minCol: b.minCol, cells: b.cells}
}

// emptyGrid is what a failed sheet load degrades to: every lookup is out
// of bounds, so descriptors targeting the sheet fail per cell instead of
// failing the file.
func emptyGrid() *Grid {
	return &Grid{minRow: 1, minCol: 1}
}
