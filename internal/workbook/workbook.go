// Package workbook opens underwriting model spreadsheets and presents
// both supported container formats (.xlsb binary workbooks and
// .xlsm/.xlsx zip workbooks) through one addressable-grid interface.
//
// A Handle is exclusively owned by the goroutine processing its file:
// none of its methods are safe for concurrent use, and none need to be.
package workbook

import (
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"strings"
)

// ErrUnreadableWorkbook marks files that cannot be opened at all:
// unsupported extension, corrupt container, or I/O failure. Callers skip
// the whole file when they see it.
var ErrUnreadableWorkbook = errors.New("workbook: unreadable")

// source is the format-specific access shim behind a Handle. Exactly two
// implementations exist, selected by file extension at open time; no code
// past this boundary branches on format.
type source interface {
	// SheetNames returns the workbook's sheet names in native order.
	SheetNames() []string
	// LoadGrid reads one sheet into a grid, restricted to win when
	// non-nil.
	LoadGrid(name string, win *Window) (*Grid, error)
	// Close releases the underlying file handle.
	Close() error
}

// Handle is an open workbook. Sheet grids and sheet-name resolutions are
// memoized for the handle's lifetime, so a workbook is read once per file
// no matter how many descriptors target it.
type Handle struct {
	path     string
	src      source
	names    []string
	windows  map[string]Window // keyed by actual sheet name
	grids    map[string]*Grid  // keyed by actual sheet name
	resolved map[string]string // requested name -> actual name, "" on miss
}

// Open opens the spreadsheet at path, choosing the format shim by
// extension. The caller must Close the returned handle on every exit path.
func Open(path string) (*Handle, error) {
	var (
		src source
		err error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsb":
		src, err = openXLSB(path)
	case ".xlsm", ".xlsx":
		src, err = openXLSM(path)
	default:
		return nil, fmt.Errorf("%w: unsupported extension %q", ErrUnreadableWorkbook, filepath.Ext(path))
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrUnreadableWorkbook, path, err)
	}

	return &Handle{
		path:     path,
		src:      src,
		windows:  make(map[string]Window),
		grids:    make(map[string]*Grid),
		resolved: make(map[string]string),
	}, nil
}

// Path returns the file path the handle was opened from.
func (h *Handle) Path() string {
	return h.path
}

// SheetNames returns the workbook's sheet names in native order.
func (h *Handle) SheetNames() []string {
	if h.names == nil {
		h.names = h.src.SheetNames()
	}
	return h.names
}

// SetWindow restricts future loads of the named sheet (actual name) to
// the given bounding rectangle. It has no effect on sheets already loaded.
func (h *Handle) SetWindow(sheet string, win Window) {
	h.windows[sheet] = win
}

// Grid returns the loaded grid for the named sheet (actual name, as
// returned by ResolveSheet). The grid is loaded at most once per handle.
// A sheet that fails to load is logged and presented as an empty grid, so
// extraction degrades per cell instead of failing the file.
func (h *Handle) Grid(sheet string) *Grid {
	if g, ok := h.grids[sheet]; ok {
		return g
	}

	var win *Window
	if w, ok := h.windows[sheet]; ok {
		win = &w
	}
	g, err := h.src.LoadGrid(sheet, win)
	if err != nil {
		log.Printf("Warning: could not read sheet %q in %s: %v", sheet, h.path, err)
		g = emptyGrid()
	}
	h.grids[sheet] = g
	return g
}

// Close releases the underlying file handle. Safe to defer immediately
// after a successful Open.
func (h *Handle) Close() error {
	return h.src.Close()
}
