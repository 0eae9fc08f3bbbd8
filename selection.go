package lattice

import "github.com/olekukonko/errors"

// Selection is the shape the editing commands consume: either a single
// resolved position somewhere inside a cell, or an anchor/head pair of
// resolved cell positions describing a rectangular selection. The pair may
// be given in either order; rectangle derivation normalizes it. The
// selection primitive itself is owned by the host; this type only captures
// what the table algorithms need from it.
type Selection struct {
	From       *ResolvedPos
	AnchorCell *ResolvedPos
	HeadCell   *ResolvedPos
}

// NewSelection returns a single-position selection at pos.
func NewSelection(doc *Node, pos int) (*Selection, error) {
	rp, err := Resolve(doc, pos)
	if err != nil {
		return nil, err
	}
	return &Selection{From: rp}, nil
}

// NewCellSelection returns a rectangular selection between two cell
// positions, each the position directly before a cell node.
func NewCellSelection(doc *Node, anchor, head int) (*Selection, error) {
	ra, err := Resolve(doc, anchor)
	if err != nil {
		return nil, err
	}
	rh, err := Resolve(doc, head)
	if err != nil {
		return nil, err
	}
	for _, rp := range []*ResolvedPos{ra, rh} {
		n := rp.NodeAfter()
		if n == nil || !n.Type.IsCell() {
			return nil, errors.Newf("cell selection at %d", rp.Pos).Wrap(ErrCellNotFound)
		}
	}
	return &Selection{From: ra, AnchorCell: ra, HeadCell: rh}, nil
}

// IsCellSelection reports whether the selection is an anchor/head pair.
func (s *Selection) IsCellSelection() bool {
	return s.AnchorCell != nil && s.HeadCell != nil
}

// cellAround returns the position directly before the cell wrapping rp, or
// nil when rp is not inside a cell.
func cellAround(rp *ResolvedPos) *ResolvedPos {
	for d := rp.Depth(); d > 0; d-- {
		if rp.Node(d).Type.IsCell() {
			inner, err := Resolve(rp.root(), rp.Before(d))
			if err != nil {
				return nil
			}
			return inner
		}
	}
	// The position may sit directly before a cell (inside a row).
	if n := rp.NodeAfter(); n != nil && n.Type.IsCell() {
		return rp
	}
	return nil
}

// findTable locates the table node wrapping rp. Returns the table and the
// position of its first content slot.
func findTable(rp *ResolvedPos) (table *Node, tableStart int, ok bool) {
	for d := rp.Depth(); d >= 0; d-- {
		if rp.Node(d).Type.Role == RoleTable {
			return rp.Node(d), rp.Start(d), true
		}
	}
	return nil, 0, false
}

// TableRect is the context every structural edit algorithm operates on: the
// acting rectangle plus the table, its start offset, and its grid map.
type TableRect struct {
	Rect
	Table      *Node
	TableStart int
	Map        *TableMap
}

// selectedRect derives the acting rectangle for a selection. ok is false
// when the selection is not inside a table (a precondition decline, not an
// error).
func selectedRect(sel *Selection) (*TableRect, bool, error) {
	base := sel.From
	if sel.IsCellSelection() {
		base = sel.AnchorCell
	}
	if base == nil {
		return nil, false, nil
	}
	table, tableStart, ok := findTable(base)
	if !ok {
		return nil, false, nil
	}
	m, err := MapOf(table)
	if err != nil {
		return nil, false, err
	}
	if m.Width == 0 || m.Height == 0 {
		return nil, false, nil
	}

	var rect Rect
	if sel.IsCellSelection() {
		r, err := m.RectBetween(sel.AnchorCell.Pos-tableStart, sel.HeadCell.Pos-tableStart)
		if err != nil {
			return nil, false, err
		}
		rect = r
	} else {
		cell := cellAround(sel.From)
		if cell == nil {
			return nil, false, nil
		}
		r, err := m.FindCell(cell.Pos - tableStart)
		if err != nil {
			return nil, false, err
		}
		rect = r
	}
	return &TableRect{Rect: rect, Table: table, TableStart: tableStart, Map: m}, true, nil
}

// refresh re-derives the table node and map after edits staged on tr, for
// algorithms that loop over several rows or columns within one call. The
// table's start offset is stable across such edits.
func (r *TableRect) refresh(tr *Transaction) error {
	var table *Node
	if r.TableStart == 0 {
		table = tr.Doc()
	} else {
		table = tr.Doc().NodeAt(r.TableStart - 1)
	}
	if table == nil || table.Type.Role != RoleTable {
		return errors.Newf("table at %d disappeared mid-edit", r.TableStart).Wrap(ErrNotInTable)
	}
	m, err := MapOf(table)
	if err != nil {
		return err
	}
	r.Table = table
	r.Map = m
	return nil
}
