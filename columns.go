package lattice

import "github.com/olekukonko/errors"

// columnIsHeader reports whether every cell in a grid column is a header
// cell.
func columnIsHeader(m *TableMap, table *Node, col int) bool {
	for row := 0; row < m.Height; row++ {
		cell, err := cellAt(table, m.Map[col+row*m.Width])
		if err != nil || cell.Type.Role != RoleHeaderCell {
			return false
		}
	}
	return true
}

// AddColumn stages the insertion of a new column at logical column index
// col. Slots covered by a colspan crossing the insertion point widen that
// cell; all others get a blank cell whose type comes from the adjacent
// reference column.
func AddColumn(s *Schema, tr *Transaction, rect *TableRect, col int) error {
	m := rect.Map
	if col < 0 || col > m.Width {
		return errors.Newf("add column %d in %dx%d table", col, m.Width, m.Height).Wrap(ErrColumnIndex)
	}

	refColumn := -1
	if col == 0 {
		refColumn = 0
	}
	haveRef := true
	if columnIsHeader(m, rect.Table, col+refColumn) {
		if col == 0 || col == m.Width {
			haveRef = false
		} else {
			refColumn = 0
		}
	}

	for row := 0; row < m.Height; row++ {
		index := row*m.Width + col
		if col > 0 && col < m.Width && m.Map[index-1] == m.Map[index] {
			// Insertion point lands inside a colspan: widen that cell and
			// skip the rows it covers.
			pos := m.Map[index]
			cell, err := cellAt(rect.Table, pos)
			if err != nil {
				return err
			}
			colOff, err := m.ColCount(pos)
			if err != nil {
				return err
			}
			attrs := AddColSpan(*cell.Attrs, col-colOff, 1)
			if err := tr.SetNodeMarkup(tr.Mapping().Map(rect.TableStart+pos, 1), nil, &attrs); err != nil {
				return err
			}
			row += cell.Attrs.Rowspan - 1
		} else {
			typ := s.Cell
			if haveRef {
				if ref, err := cellAt(rect.Table, m.Map[index+refColumn]); err == nil {
					typ = ref.Type
				}
			}
			pos := m.PositionAt(row, col, rect.Table)
			if err := tr.Insert(tr.Mapping().Map(rect.TableStart+pos, 1), s.CreateCell(typ, DefaultCellAttrs())); err != nil {
				return err
			}
		}
	}
	return nil
}

// RemoveColumn stages the removal of logical column index col. Cells
// spanning across the column shrink by one colspan, keeping the width
// values of their remaining columns; cells confined to it are deleted. All
// decisions come from the pre-edit map, with offsets threaded through the
// remaps this call accumulates.
func RemoveColumn(tr *Transaction, rect *TableRect, col int) error {
	m := rect.Map
	if col < 0 || col >= m.Width {
		return errors.Newf("remove column %d of %d", col, m.Width).Wrap(ErrColumnIndex)
	}
	mapStart := tr.Mapping().Len()
	for row := 0; row < m.Height; {
		index := row*m.Width + col
		pos := m.Map[index]
		cell, err := cellAt(rect.Table, pos)
		if err != nil {
			return err
		}
		if (col > 0 && m.Map[index-1] == pos) || (col < m.Width-1 && m.Map[index+1] == pos) {
			// Part of a colspan: narrow the cell.
			colOff, err := m.ColCount(pos)
			if err != nil {
				return err
			}
			attrs := RemoveColSpan(*cell.Attrs, col-colOff, 1)
			mapped := tr.Mapping().Slice(mapStart).Map(rect.TableStart+pos, 1)
			if err := tr.SetNodeMarkup(mapped, nil, &attrs); err != nil {
				return err
			}
		} else {
			start := tr.Mapping().Slice(mapStart).Map(rect.TableStart+pos, 1)
			if err := tr.Delete(start, start+cell.NodeSize()); err != nil {
				return err
			}
		}
		row += cell.Attrs.Rowspan
	}
	return nil
}

// AddColumnBefore inserts a blank column left of the selection's rectangle.
func AddColumnBefore(s *Schema, doc *Node, sel *Selection) (*Transaction, bool, error) {
	rect, ok, err := selectedRect(sel)
	if err != nil || !ok {
		return nil, false, err
	}
	tr := NewTransaction(doc)
	if err := AddColumn(s, tr, rect, rect.Left); err != nil {
		return nil, false, err
	}
	return tr, true, nil
}

// AddColumnAfter inserts a blank column right of the selection's rectangle.
func AddColumnAfter(s *Schema, doc *Node, sel *Selection) (*Transaction, bool, error) {
	rect, ok, err := selectedRect(sel)
	if err != nil || !ok {
		return nil, false, err
	}
	tr := NewTransaction(doc)
	if err := AddColumn(s, tr, rect, rect.Right); err != nil {
		return nil, false, err
	}
	return tr, true, nil
}

// RemoveSelectedColumns removes every column the selection's rectangle
// touches. Declines when the rectangle covers the full width: a table must
// keep at least one column.
func RemoveSelectedColumns(doc *Node, sel *Selection) (*Transaction, bool, error) {
	rect, ok, err := selectedRect(sel)
	if err != nil || !ok {
		return nil, false, err
	}
	if rect.Left == 0 && rect.Right == rect.Map.Width {
		return nil, false, nil
	}
	tr := NewTransaction(doc)
	for i := rect.Right - 1; ; i-- {
		if err := RemoveColumn(tr, rect, i); err != nil {
			return nil, false, err
		}
		if i == rect.Left {
			break
		}
		if err := rect.refresh(tr); err != nil {
			return nil, false, err
		}
	}
	return tr, true, nil
}

// MoveColumn removes the cells of column from and re-inserts them so the
// column ends up at index to (interpreted after the removal). Declines when
// a colspan crosses any boundary the move would cut. With follow set, the
// returned transaction proposes a selection on the moved column's first
// cell.
func MoveColumn(doc *Node, sel *Selection, from, to int, follow bool) (*Transaction, bool, error) {
	rect, ok, err := selectedRect(sel)
	if err != nil || !ok {
		return nil, false, err
	}
	m := rect.Map
	if from < 0 || from >= m.Width || to < 0 || to >= m.Width {
		return nil, false, nil
	}
	if from == to {
		return NewTransaction(doc), true, nil
	}
	boundary := to
	if to > from {
		boundary = to + 1
	}
	if !cleanColBoundary(m, from) || !cleanColBoundary(m, from+1) || !cleanColBoundary(m, boundary) {
		return nil, false, nil
	}

	tr := NewTransaction(doc)
	mapStart := tr.Mapping().Len()
	firstMoved := -1
	for row := 0; row < m.Height; row++ {
		index := row*m.Width + from
		pos := m.Map[index]
		if row > 0 && m.Map[index-m.Width] == pos {
			continue // continuation of a rowspan handled at its top row
		}
		cell, err := cellAt(rect.Table, pos)
		if err != nil {
			return nil, false, err
		}
		start := tr.Mapping().Slice(mapStart).Map(rect.TableStart+pos, 1)
		if err := tr.Delete(start, start+cell.NodeSize()); err != nil {
			return nil, false, err
		}
		insPos := m.PositionAt(row, boundary, rect.Table)
		mapped := tr.Mapping().Slice(mapStart).Map(rect.TableStart+insPos, -1)
		if err := tr.Insert(mapped, cell); err != nil {
			return nil, false, err
		}
		if firstMoved == -1 {
			firstMoved = mapped
		}
	}
	if follow && firstMoved != -1 {
		moved, err := NewCellSelection(tr.Doc(), firstMoved, firstMoved)
		if err != nil {
			return nil, false, err
		}
		tr.SetSelection(moved)
	}
	return tr, true, nil
}

// cleanColBoundary reports whether no cell spans across the vertical
// boundary left of grid column col. The table's outer edges are always
// clean.
func cleanColBoundary(m *TableMap, col int) bool {
	if col <= 0 || col >= m.Width {
		return true
	}
	for row := 0; row < m.Height; row++ {
		if m.Map[row*m.Width+col] == m.Map[row*m.Width+col-1] {
			return false
		}
	}
	return true
}

// ToggleHeaderColumn flips the cells of the table's first column between
// header and data cells.
func ToggleHeaderColumn(s *Schema, doc *Node, sel *Selection) (*Transaction, bool, error) {
	rect, ok, err := selectedRect(sel)
	if err != nil || !ok {
		return nil, false, err
	}
	m := rect.Map
	target := s.HeaderCell
	if columnIsHeader(m, rect.Table, 0) {
		target = s.Cell
	}
	tr := NewTransaction(doc)
	for _, pos := range m.CellsInRect(Rect{Left: 0, Top: 0, Right: 1, Bottom: m.Height}) {
		cell, err := cellAt(rect.Table, pos)
		if err != nil {
			return nil, false, err
		}
		if cell.Type == target {
			continue
		}
		if err := tr.SetNodeMarkup(rect.TableStart+pos, target, cell.Attrs); err != nil {
			return nil, false, err
		}
	}
	return tr, true, nil
}
