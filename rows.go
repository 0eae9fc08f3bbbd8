package lattice

import "github.com/olekukonko/errors"

// rowIsHeader reports whether every cell in a grid row is a header cell.
func rowIsHeader(m *TableMap, table *Node, row int) bool {
	for col := 0; col < m.Width; col++ {
		cell, err := cellAt(table, m.Map[col+row*m.Width])
		if err != nil || cell.Type.Role != RoleHeaderCell {
			return false
		}
	}
	return true
}

// AddRow stages the insertion of a new row at logical row index row. Grid
// slots covered by a rowspan crossing the insertion point widen that cell
// instead of receiving a new one. Synthesized cells inherit their type from
// the adjacent reference row, so inserting below an all-header top row keeps
// producing header cells; a full-header reference at the table edge falls
// back to blank data cells.
func AddRow(s *Schema, tr *Transaction, rect *TableRect, row int) error {
	m := rect.Map
	if row < 0 || row > m.Height {
		return errors.Newf("add row %d in %dx%d table", row, m.Width, m.Height).Wrap(ErrRowIndex)
	}
	rowPos := rect.TableStart
	for i := 0; i < row && i < rect.Table.ChildCount(); i++ {
		rowPos += rect.Table.Child(i).NodeSize()
	}

	refRow := -1
	if row == 0 {
		refRow = 0
	}
	haveRef := true
	if rowIsHeader(m, rect.Table, row+refRow) {
		if row == 0 || row == m.Height {
			haveRef = false
		} else {
			refRow = 0
		}
	}

	var cells []*Node
	for col, index := 0, m.Width*row; col < m.Width; col, index = col+1, index+1 {
		if row > 0 && row < m.Height && m.Map[index] == m.Map[index-m.Width] {
			// Slot covered by a rowspan from above: stretch that cell over
			// the new row instead of synthesizing one.
			pos := m.Map[index]
			cell, err := cellAt(rect.Table, pos)
			if err != nil {
				return err
			}
			attrs := cell.Attrs.Clone()
			attrs.Rowspan++
			if err := tr.SetNodeMarkup(rect.TableStart+pos, nil, &attrs); err != nil {
				return err
			}
			col += cell.Attrs.Colspan - 1
			index += cell.Attrs.Colspan - 1
		} else {
			typ := s.Cell
			if haveRef {
				if ref, err := cellAt(rect.Table, m.Map[index+refRow*m.Width]); err == nil {
					typ = ref.Type
				}
			}
			cells = append(cells, s.CreateCell(typ, DefaultCellAttrs()))
		}
	}
	return tr.Insert(rowPos, s.CreateRow(cells...))
}

// RemoveRow stages the removal of logical row index row. Cells spanning
// down into the removed row from above lose one rowspan; cells anchored in
// the removed row but continuing below are re-anchored in the next row with
// their content and a decremented rowspan. All structural decisions come
// from the pre-edit map; every write maps its offsets through the remaps
// accumulated since this call started.
func RemoveRow(tr *Transaction, rect *TableRect, row int) error {
	m := rect.Map
	if row < 0 || row >= rect.Table.ChildCount() {
		return errors.Newf("remove row %d of %d", row, rect.Table.ChildCount()).Wrap(ErrRowIndex)
	}
	rowPos := 0
	for i := 0; i < row; i++ {
		rowPos += rect.Table.Child(i).NodeSize()
	}
	nextRow := rowPos + rect.Table.Child(row).NodeSize()

	mapFrom := tr.Mapping().Len()
	if err := tr.Delete(rowPos+rect.TableStart, nextRow+rect.TableStart); err != nil {
		return err
	}

	for col, index := 0, row*m.Width; col < m.Width; col, index = col+1, index+1 {
		pos := m.Map[index]
		switch {
		case row > 0 && pos == m.Map[index-m.Width]:
			// Span crossing the deleted row from above: shrink it.
			cell, err := cellAt(rect.Table, pos)
			if err != nil {
				return err
			}
			attrs := cell.Attrs.Clone()
			attrs.Rowspan--
			mapped := tr.Mapping().Slice(mapFrom).Map(pos+rect.TableStart, 1)
			if err := tr.SetNodeMarkup(mapped, nil, &attrs); err != nil {
				return err
			}
			col += cell.Attrs.Colspan - 1
			index += cell.Attrs.Colspan - 1
		case row < m.Height-1 && pos == m.Map[index+m.Width]:
			// Span anchored in the deleted row: relocate its anchor (and
			// content) into the row below.
			cell, err := cellAt(rect.Table, pos)
			if err != nil {
				return err
			}
			attrs := cell.Attrs.Clone()
			attrs.Rowspan--
			copied := cell.WithMarkup(nil, &attrs)
			newPos := m.PositionAt(row+1, col, rect.Table)
			mapped := tr.Mapping().Slice(mapFrom).Map(rect.TableStart+newPos, 1)
			if err := tr.Insert(mapped, copied); err != nil {
				return err
			}
			col += cell.Attrs.Colspan - 1
			index += cell.Attrs.Colspan - 1
		}
	}
	return nil
}

// AddRowBefore inserts a blank row above the selection's rectangle.
func AddRowBefore(s *Schema, doc *Node, sel *Selection) (*Transaction, bool, error) {
	rect, ok, err := selectedRect(sel)
	if err != nil || !ok {
		return nil, false, err
	}
	tr := NewTransaction(doc)
	if err := AddRow(s, tr, rect, rect.Top); err != nil {
		return nil, false, err
	}
	return tr, true, nil
}

// AddRowAfter inserts a blank row below the selection's rectangle.
func AddRowAfter(s *Schema, doc *Node, sel *Selection) (*Transaction, bool, error) {
	rect, ok, err := selectedRect(sel)
	if err != nil || !ok {
		return nil, false, err
	}
	tr := NewTransaction(doc)
	if err := AddRow(s, tr, rect, rect.Bottom); err != nil {
		return nil, false, err
	}
	return tr, true, nil
}

// RemoveSelectedRows removes every row the selection's rectangle touches.
// Declines when the rectangle covers all rows: a table must keep at least
// one.
func RemoveSelectedRows(doc *Node, sel *Selection) (*Transaction, bool, error) {
	rect, ok, err := selectedRect(sel)
	if err != nil || !ok {
		return nil, false, err
	}
	if rect.Top == 0 && rect.Bottom == rect.Map.Height {
		return nil, false, nil
	}
	tr := NewTransaction(doc)
	for i := rect.Bottom - 1; ; i-- {
		if err := RemoveRow(tr, rect, i); err != nil {
			return nil, false, err
		}
		if i == rect.Top {
			break
		}
		if err := rect.refresh(tr); err != nil {
			return nil, false, err
		}
	}
	return tr, true, nil
}

// MoveRow removes the row at index from and re-inserts it so that it ends
// up at index to (interpreted after the removal). Declines when a rowspan
// crosses any boundary the move would cut. With follow set, the returned
// transaction proposes a selection covering the moved row.
func MoveRow(doc *Node, sel *Selection, from, to int, follow bool) (*Transaction, bool, error) {
	rect, ok, err := selectedRect(sel)
	if err != nil || !ok {
		return nil, false, err
	}
	m := rect.Map
	if from < 0 || from >= m.Height || to < 0 || to >= m.Height || from >= rect.Table.ChildCount() {
		return nil, false, nil
	}
	if from == to {
		return NewTransaction(doc), true, nil
	}
	boundary := to
	if to > from {
		boundary = to + 1
	}
	if !cleanRowBoundary(m, from) || !cleanRowBoundary(m, from+1) || !cleanRowBoundary(m, boundary) {
		return nil, false, nil
	}

	tr := NewTransaction(doc)
	mapStart := tr.Mapping().Len()
	rowStart := 0
	for i := 0; i < from; i++ {
		rowStart += rect.Table.Child(i).NodeSize()
	}
	rowNode := rect.Table.Child(from)
	if err := tr.Delete(rect.TableStart+rowStart, rect.TableStart+rowStart+rowNode.NodeSize()); err != nil {
		return nil, false, err
	}
	insPos := 0
	for i := 0; i < boundary && i < rect.Table.ChildCount(); i++ {
		insPos += rect.Table.Child(i).NodeSize()
	}
	mapped := tr.Mapping().Slice(mapStart).Map(rect.TableStart+insPos, -1)
	if err := tr.Insert(mapped, rowNode); err != nil {
		return nil, false, err
	}
	if follow && rowNode.ChildCount() > 0 {
		first := mapped + 1
		last := mapped + 1 + rowNode.ContentSize() - rowNode.Child(rowNode.ChildCount()-1).NodeSize()
		moved, err := NewCellSelection(tr.Doc(), first, last)
		if err != nil {
			return nil, false, err
		}
		tr.SetSelection(moved)
	}
	return tr, true, nil
}

// cleanRowBoundary reports whether no cell spans across the horizontal
// boundary above grid row `row`. The table's outer edges are always clean.
func cleanRowBoundary(m *TableMap, row int) bool {
	if row <= 0 || row >= m.Height {
		return true
	}
	for col := 0; col < m.Width; col++ {
		if m.Map[row*m.Width+col] == m.Map[(row-1)*m.Width+col] {
			return false
		}
	}
	return true
}

// ToggleHeaderRow flips the cells of the table's first row between header
// and data cells. The row becomes all-header unless it already is, in which
// case it becomes all-data.
func ToggleHeaderRow(s *Schema, doc *Node, sel *Selection) (*Transaction, bool, error) {
	rect, ok, err := selectedRect(sel)
	if err != nil || !ok {
		return nil, false, err
	}
	m := rect.Map
	target := s.HeaderCell
	if rowIsHeader(m, rect.Table, 0) {
		target = s.Cell
	}
	tr := NewTransaction(doc)
	for _, pos := range m.CellsInRect(Rect{Left: 0, Top: 0, Right: m.Width, Bottom: 1}) {
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
