package lattice

import "github.com/olekukonko/errors"

// DefaultMinColumnWidth is the pixel floor a column cannot be dragged
// below.
const DefaultMinColumnWidth = 25.0

// ResizeOptions configures interactive column resizing.
type ResizeOptions struct {
	// MinColumnWidth is the minimum pixel width any column may be dragged
	// to. Zero selects DefaultMinColumnWidth.
	MinColumnWidth float64
}

func (o ResizeOptions) minWidth() float64 {
	if o.MinColumnWidth > 0 {
		return o.MinColumnWidth
	}
	return DefaultMinColumnWidth
}

// DragSession is the ephemeral state of one column-resize interaction, from
// pointer-down to pointer-up. Every pointer move recomputes widths from the
// pointer-down baseline, never from previously displayed intermediate
// values, so repeated moves cannot accumulate drift. The session is owned
// by the pointer-event handler driving it: created on pointer-down, and
// required to end in exactly one Commit or Cancel.
type DragSession struct {
	startX      float64
	col         int
	startWidths []float64
	tableWidth  float64
	tableEdge   bool
	minWidth    float64
	finished    bool
}

// StartColumnDrag opens a drag session on the boundary between columns col
// and col+1. startWidths are the columns' pixel widths at pointer-down,
// tableWidth the table's pixel width.
func StartColumnDrag(startX float64, col int, startWidths []float64, tableWidth float64, opts ResizeOptions) (*DragSession, error) {
	if col < 0 || col >= len(startWidths)-1 {
		return nil, errors.Newf("drag boundary %d of %d columns", col, len(startWidths)).Wrap(ErrColumnIndex)
	}
	return &DragSession{
		startX:      startX,
		col:         col,
		startWidths: append([]float64(nil), startWidths...),
		tableWidth:  tableWidth,
		minWidth:    opts.minWidth(),
	}, nil
}

// StartTableDrag opens a drag session on the table's trailing edge: all
// columns but the last keep their pixel widths, and the pointer resizes the
// table itself, with the last column taking up the difference.
func StartTableDrag(startX float64, startWidths []float64, tableWidth float64, opts ResizeOptions) (*DragSession, error) {
	if len(startWidths) == 0 {
		return nil, errors.New("table drag needs at least one column").Wrap(ErrWidthCount)
	}
	return &DragSession{
		startX:      startX,
		col:         len(startWidths) - 1,
		startWidths: append([]float64(nil), startWidths...),
		tableWidth:  tableWidth,
		tableEdge:   true,
		minWidth:    opts.minWidth(),
	}, nil
}

// Finished reports whether the session has been committed or cancelled.
func (d *DragSession) Finished() bool {
	return d.finished
}

// Move computes the pixel widths and table width for the pointer at x,
// clamped so no column drops below the minimum width. The result is a
// display approximation for the renderer; nothing is committed.
func (d *DragSession) Move(x float64) ([]float64, float64, error) {
	if d.finished {
		return nil, 0, ErrDragFinished
	}
	delta := x - d.startX
	widths := append([]float64(nil), d.startWidths...)

	if d.tableEdge {
		fixed := 0.0
		for _, w := range widths[:len(widths)-1] {
			fixed += w
		}
		tableWidth := d.tableWidth + delta
		if tableWidth < fixed+d.minWidth {
			tableWidth = fixed + d.minWidth
		}
		widths[len(widths)-1] = tableWidth - fixed
		return widths, tableWidth, nil
	}

	combined := d.startWidths[d.col] + d.startWidths[d.col+1]
	left := d.startWidths[d.col] + delta
	if left < d.minWidth {
		left = d.minWidth
	}
	if left > combined-d.minWidth {
		left = combined - d.minWidth
	}
	widths[d.col] = left
	widths[d.col+1] = combined - left
	return widths, d.tableWidth, nil
}

// Percentages returns the percentage distribution for the pointer at x,
// converted with the last-column-absorbs-remainder rounding rule.
func (d *DragSession) Percentages(x float64) ([]float64, error) {
	widths, tableWidth, err := d.Move(x)
	if err != nil {
		return nil, err
	}
	return PixelsToPercent(widths, tableWidth), nil
}

// Commit ends the session, staging the final percentage distribution for
// the pointer at x into the table's cell attributes on tr.
func (d *DragSession) Commit(tr *Transaction, rect *TableRect, x float64) error {
	pcts, err := d.Percentages(x)
	if err != nil {
		return err
	}
	d.finished = true
	return SetColumnWidths(tr, rect, pcts)
}

// Cancel ends the session without committing anything. Losing pointer
// capture must funnel here so a broken drag never writes attributes.
func (d *DragSession) Cancel() {
	d.finished = true
}

// ResizeState is the renderer-facing view of interactive resizing: which
// grid boundary currently shows a resize handle, and whether a drag is in
// flight. It holds no document state.
type ResizeState struct {
	activeHandle int
	dragging     *DragSession
}

// NewResizeState returns a state with no active handle.
func NewResizeState() *ResizeState {
	return &ResizeState{activeHandle: -1}
}

// ActiveHandle returns the grid position of the current resize handle, or
// -1 when none is active.
func (r *ResizeState) ActiveHandle() int {
	return r.activeHandle
}

// SetHandle activates the resize handle at a grid position.
func (r *ResizeState) SetHandle(pos int) {
	r.activeHandle = pos
}

// ClearHandle deactivates the resize handle.
func (r *ResizeState) ClearHandle() {
	r.activeHandle = -1
}

// StartDrag attaches an in-flight drag session to the state.
func (r *ResizeState) StartDrag(d *DragSession) {
	r.dragging = d
}

// EndDrag detaches the drag session. The caller still owns committing or
// cancelling it.
func (r *ResizeState) EndDrag() {
	r.dragging = nil
}

// IsDragging reports whether a drag session is in flight, for transient
// visual styling.
func (r *ResizeState) IsDragging() bool {
	return r.dragging != nil && !r.dragging.Finished()
}
