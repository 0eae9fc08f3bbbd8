package lattice

// Rect is an axis-aligned rectangle of grid coordinates, half-open on the
// right and bottom.
type Rect struct {
	Left, Top, Right, Bottom int
}

// Width returns the number of columns the rectangle covers.
func (r Rect) Width() int {
	return r.Right - r.Left
}

// Height returns the number of rows the rectangle covers.
func (r Rect) Height() int {
	return r.Bottom - r.Top
}

// Contains reports whether the grid slot (row, col) lies inside the
// rectangle.
func (r Rect) Contains(row, col int) bool {
	return row >= r.Top && row < r.Bottom && col >= r.Left && col < r.Right
}

// CellsOverlapRect reports whether any cell on the rectangle's border
// continues outside it: a span crossing the boundary on any of the four
// sides. A merge of such a rectangle would not produce a rectangular cell,
// so callers use this as a precondition check.
func CellsOverlapRect(m *TableMap, rect Rect) bool {
	indexTop := rect.Top*m.Width + rect.Left
	indexLeft := indexTop
	indexBottom := (rect.Bottom-1)*m.Width + rect.Left
	indexRight := indexTop + rect.Width() - 1

	for i := rect.Top; i < rect.Bottom; i++ {
		if (rect.Left > 0 && m.Map[indexLeft] == m.Map[indexLeft-1]) ||
			(rect.Right < m.Width && m.Map[indexRight] == m.Map[indexRight+1]) {
			return true
		}
		indexLeft += m.Width
		indexRight += m.Width
	}
	for i := rect.Left; i < rect.Right; i++ {
		if (rect.Top > 0 && m.Map[indexTop] == m.Map[indexTop-m.Width]) ||
			(rect.Bottom < m.Height && m.Map[indexBottom] == m.Map[indexBottom+m.Width]) {
			return true
		}
		indexTop++
		indexBottom++
	}
	return false
}
