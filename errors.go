package lattice

import "github.com/olekukonko/errors"

// Position and lookup errors
var (
	// ErrInvalidPosition indicates that a document position is out of bounds.
	ErrInvalidPosition = errors.New("position out of bounds")

	// ErrNodeNotFound indicates that no node starts at the given position.
	ErrNodeNotFound = errors.New("no node at the given position")

	// ErrCellNotFound indicates that a map offset does not resolve to a cell.
	ErrCellNotFound = errors.New("no cell at the given offset")

	// ErrNotInTable indicates that a position is not inside any table node.
	ErrNotInTable = errors.New("position is not inside a table")
)

// Structure errors
var (
	// ErrNotATable indicates that a node passed to the geometry engine is
	// not a table node.
	ErrNotATable = errors.New("node is not a table")

	// ErrBadReplace indicates that replace boundaries do not align with node
	// boundaries of a shared parent. Continuing would corrupt positions, so
	// the transaction refuses and leaves its document unchanged.
	ErrBadReplace = errors.New("replace boundaries do not align with node boundaries")

	// ErrRowIndex indicates a row index outside the table's grid.
	ErrRowIndex = errors.New("row index out of range")

	// ErrColumnIndex indicates a column index outside the table's grid.
	ErrColumnIndex = errors.New("column index out of range")
)

// Resize errors
var (
	// ErrDragFinished indicates use of a drag session after Commit or Cancel.
	ErrDragFinished = errors.New("drag session already finished")

	// ErrWidthCount indicates a width slice whose length does not match the
	// table's column count.
	ErrWidthCount = errors.New("width count does not match table width")
)
