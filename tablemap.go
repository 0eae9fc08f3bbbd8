package lattice

import (
	"sync"

	"github.com/olekukonko/errors"
)

// Axis selects a grid direction for cell navigation.
type Axis int

const (
	// AxisHoriz moves along a row.
	AxisHoriz Axis = iota

	// AxisVert moves along a column.
	AxisVert
)

// MapProblemKind classifies a defect found while building a table map.
type MapProblemKind int

const (
	// ProblemCollision marks a cell whose span runs into a slot already
	// claimed by an earlier cell. The earlier cell keeps the slot.
	ProblemCollision MapProblemKind = iota

	// ProblemOverlongRowspan marks a cell whose rowspan extends past the
	// table's last row.
	ProblemOverlongRowspan

	// ProblemMissing marks a row that tiles fewer slots than the table is
	// wide.
	ProblemMissing

	// ProblemColwidthMismatch marks a cell whose colwidth array length does
	// not equal its colspan.
	ProblemColwidthMismatch
)

// MapProblem records one tolerated geometry defect. Pos is the cell's start
// offset relative to the table start where applicable; N counts the slots or
// rows involved.
type MapProblem struct {
	Kind MapProblemKind
	Row  int
	Pos  int
	N    int
}

// TableMap is the dense grid of a table: Width*Height slots, each holding
// the start offset (relative to the table start) of the cell occupying it.
// A spanning cell appears in every slot it covers. Zero marks a slot no cell
// claimed; valid cell offsets are always >= 1. The map is a pure function of
// the table's content and is owned by the geometry engine; all other
// components treat it as read-only.
type TableMap struct {
	Width    int
	Height   int
	Map      []int
	Problems []MapProblem
}

// map cache, keyed by table node identity. Tables are immutable: any edit
// produces a new node, so a cached map can never go stale, only unused.
const mapCacheSize = 64

var (
	cacheMu   sync.Mutex
	mapCache  = make(map[*Node]*TableMap)
	cacheKeys []*Node
)

// MapOf returns the table map for a table node, computing and caching it on
// first use.
func MapOf(table *Node) (*TableMap, error) {
	if table.Type.Role != RoleTable {
		return nil, errors.Newf("map of %q node", table.Type.Name).Wrap(ErrNotATable)
	}
	cacheMu.Lock()
	if m, ok := mapCache[table]; ok {
		cacheMu.Unlock()
		return m, nil
	}
	cacheMu.Unlock()

	m := computeMap(table)

	cacheMu.Lock()
	if len(cacheKeys) >= mapCacheSize {
		delete(mapCache, cacheKeys[0])
		cacheKeys = cacheKeys[1:]
	}
	mapCache[table] = m
	cacheKeys = append(cacheKeys, table)
	cacheMu.Unlock()
	return m, nil
}

// findWidth computes the table's width: the maximum over rows of the sum of
// colspans, counting spans carried down from rows above.
func findWidth(table *Node) int {
	width := -1
	hasRowSpan := false
	for row := 0; row < table.ChildCount(); row++ {
		rowNode := table.Child(row)
		rowWidth := 0
		if hasRowSpan {
			for j := 0; j < row; j++ {
				prevRow := table.Child(j)
				for i := 0; i < prevRow.ChildCount(); i++ {
					colspan, rowspan := prevRow.Child(i).span()
					if j+rowspan > row {
						rowWidth += colspan
					}
				}
			}
		}
		for i := 0; i < rowNode.ChildCount(); i++ {
			colspan, rowspan := rowNode.Child(i).span()
			rowWidth += colspan
			if rowspan > 1 {
				hasRowSpan = true
			}
		}
		if width == -1 {
			width = rowWidth
		} else if width != rowWidth {
			if rowWidth > width {
				width = rowWidth
			}
		}
	}
	if width < 0 {
		return 0
	}
	return width
}

// computeMap walks the rows top to bottom, maintaining the partially filled
// grid as the "pending" state: a slot already holding an offset was claimed
// by a rowspan from an earlier row, and the column cursor skips it.
// Conflicting spans keep the earliest-declared cell; every defect is
// absorbed into Problems rather than failing, because the engine must keep
// producing a best-effort map for transient malformed tables.
func computeMap(table *Node) *TableMap {
	width := findWidth(table)
	rows := table.ChildCount()
	height := rows
	for row := 0; row < rows; row++ {
		rowNode := table.Child(row)
		for i := 0; i < rowNode.ChildCount(); i++ {
			_, rowspan := rowNode.Child(i).span()
			if row+rowspan > height {
				height = row + rowspan
			}
		}
	}

	m := &TableMap{Width: width, Height: height}
	if width == 0 || height == 0 {
		m.Map = []int{}
		return m
	}
	m.Map = make([]int, width*height)

	mapPos := 0
	pos := 0
	for row := 0; row < rows; row++ {
		rowNode := table.Child(row)
		pos++ // row open token
		for i := 0; ; i++ {
			for mapPos < len(m.Map) && m.Map[mapPos] != 0 {
				mapPos++
			}
			if i == rowNode.ChildCount() {
				break
			}
			cell := rowNode.Child(i)
			colspan, rowspan := cell.span()
			if row+rowspan > rows {
				m.Problems = append(m.Problems, MapProblem{Kind: ProblemOverlongRowspan, Row: row, Pos: pos, N: row + rowspan - rows})
				logger.Warnf("table map: rowspan at offset %d overruns the last row by %d", pos, row+rowspan-rows)
			}
			for h := 0; h < rowspan; h++ {
				if row+h >= height {
					break
				}
				start := mapPos + h*width
				for w := 0; w < colspan; w++ {
					if start+w >= len(m.Map) {
						break
					}
					if m.Map[start+w] == 0 {
						m.Map[start+w] = pos
					} else {
						m.Problems = append(m.Problems, MapProblem{Kind: ProblemCollision, Row: row, Pos: pos, N: colspan - w})
						logger.Warnf("table map: collision in row %d at offset %d", row, pos)
					}
				}
			}
			if cell.Attrs != nil && cell.Attrs.Colwidth != nil && len(cell.Attrs.Colwidth) != colspan {
				m.Problems = append(m.Problems, MapProblem{Kind: ProblemColwidthMismatch, Row: row, Pos: pos, N: colspan})
				logger.Warnf("table map: colwidth length %d != colspan %d at offset %d", len(cell.Attrs.Colwidth), colspan, pos)
			}
			mapPos += colspan
			pos += cell.NodeSize()
		}
		expected := (row + 1) * width
		missing := 0
		for mapPos < expected {
			if m.Map[mapPos] == 0 {
				missing++
			}
			mapPos++
		}
		if missing > 0 {
			m.Problems = append(m.Problems, MapProblem{Kind: ProblemMissing, Row: row, N: missing})
			logger.Warnf("table map: row %d is %d slot(s) short of width %d", row, missing, width)
		}
		pos++ // row close token
	}

	// Rows appended purely by overlong rowspans exist in the grid but have
	// no row node; their unclaimed slots are missing too.
	for row := rows; row < height; row++ {
		missing := 0
		for col := 0; col < width; col++ {
			if m.Map[row*width+col] == 0 {
				missing++
			}
		}
		if missing > 0 {
			m.Problems = append(m.Problems, MapProblem{Kind: ProblemMissing, Row: row, N: missing})
		}
	}
	return m
}

// FindCell returns the grid rectangle covered by the cell starting at the
// given offset.
func (m *TableMap) FindCell(pos int) (Rect, error) {
	for i, cur := range m.Map {
		if cur != pos {
			continue
		}
		left := i % m.Width
		top := i / m.Width
		right := left + 1
		bottom := top + 1
		for j := left + 1; j < m.Width && m.Map[top*m.Width+j] == cur; j++ {
			right++
		}
		for j := top + 1; j < m.Height && m.Map[j*m.Width+left] == cur; j++ {
			bottom++
		}
		return Rect{Left: left, Top: top, Right: right, Bottom: bottom}, nil
	}
	return Rect{}, errors.Newf("find cell %d", pos).Wrap(ErrCellNotFound)
}

// ColCount returns the column index of the first grid slot the cell at the
// given offset occupies.
func (m *TableMap) ColCount(pos int) (int, error) {
	for i, cur := range m.Map {
		if cur == pos {
			return i % m.Width, nil
		}
	}
	return 0, errors.Newf("col count of cell %d", pos).Wrap(ErrCellNotFound)
}

// NextCell returns the offset of the cell adjacent to the one at pos along
// the given axis and direction, or -1 at the table edge.
func (m *TableMap) NextCell(pos int, axis Axis, dir int) int {
	rect, err := m.FindCell(pos)
	if err != nil {
		return -1
	}
	if axis == AxisHoriz {
		col := rect.Left - 1
		if dir > 0 {
			col = rect.Right
		}
		if col < 0 || col >= m.Width {
			return -1
		}
		return m.Map[rect.Top*m.Width+col]
	}
	row := rect.Top - 1
	if dir > 0 {
		row = rect.Bottom
	}
	if row < 0 || row >= m.Height {
		return -1
	}
	return m.Map[row*m.Width+rect.Left]
}

// RectBetween returns the bounding rectangle of the two cells starting at
// offsets a and b.
func (m *TableMap) RectBetween(a, b int) (Rect, error) {
	ra, err := m.FindCell(a)
	if err != nil {
		return Rect{}, err
	}
	rb, err := m.FindCell(b)
	if err != nil {
		return Rect{}, err
	}
	return Rect{
		Left:   min(ra.Left, rb.Left),
		Top:    min(ra.Top, rb.Top),
		Right:  max(ra.Right, rb.Right),
		Bottom: max(ra.Bottom, rb.Bottom),
	}, nil
}

// CellsInRect returns the distinct cell offsets whose footprint lies in the
// rectangle, each counted once. Cells whose span enters the rectangle from
// outside its left or top edge are not included.
func (m *TableMap) CellsInRect(rect Rect) []int {
	var result []int
	seen := make(map[int]bool)
	for row := rect.Top; row < rect.Bottom; row++ {
		for col := rect.Left; col < rect.Right; col++ {
			index := row*m.Width + col
			pos := m.Map[index]
			if pos == 0 || seen[pos] {
				continue
			}
			seen[pos] = true
			if (col == rect.Left && col > 0 && m.Map[index-1] == pos) ||
				(row == rect.Top && row > 0 && m.Map[index-m.Width] == pos) {
				continue
			}
			result = append(result, pos)
		}
	}
	return result
}

// PositionAt returns the offset (relative to the table start) at which a new
// cell for the given grid slot would be inserted: the start of the cell
// occupying the slot, or the row's end when every remaining slot of the row
// is claimed by spans from earlier rows.
func (m *TableMap) PositionAt(row, col int, table *Node) int {
	rowStart := 0
	for i := 0; i < table.ChildCount(); i++ {
		rowEnd := rowStart + table.Child(i).NodeSize()
		if i == row {
			index := col + row*m.Width
			rowEndIndex := (row + 1) * m.Width
			// Skip slots filled by cells anchored in earlier rows.
			for index < rowEndIndex && m.Map[index] < rowStart {
				index++
			}
			if index == rowEndIndex {
				return rowEnd - 1
			}
			return m.Map[index]
		}
		rowStart = rowEnd
	}
	return rowStart
}

// cellAt returns the cell node at a map offset. A zero offset (unclaimed
// slot) or an offset resolving to a non-cell node is a hard failure.
func cellAt(table *Node, pos int) (*Node, error) {
	if pos <= 0 {
		return nil, errors.Newf("cell at offset %d", pos).Wrap(ErrCellNotFound)
	}
	n := table.NodeAt(pos)
	if n == nil || !n.Type.IsCell() {
		return nil, errors.Newf("cell at offset %d", pos).Wrap(ErrCellNotFound)
	}
	return n, nil
}
