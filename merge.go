package lattice

// CellTypeChooser decides the node type of each cell a split produces,
// given the cell's grid coordinates and the original spanning cell. A nil
// chooser reuses the original cell's type everywhere.
type CellTypeChooser func(row, col int, cell *Node) *NodeType

// MergeCells merges every cell the selection's rectangle touches into its
// first (top-left) cell. Declines when a spanning cell crosses the
// rectangle's border, since the merge result would not be rectangular. A
// rectangle already covering exactly one cell succeeds without staging any
// change. Content of merged cells is appended to the surviving cell, except
// for blank cells, whose single empty block is dropped rather than carried
// along. The returned transaction proposes a single-cell selection on the
// survivor.
func MergeCells(doc *Node, sel *Selection) (*Transaction, bool, error) {
	rect, ok, err := selectedRect(sel)
	if err != nil || !ok {
		return nil, false, err
	}
	m := rect.Map
	if len(m.CellsInRect(rect.Rect)) <= 1 {
		return NewTransaction(doc), true, nil
	}
	if CellsOverlapRect(m, rect.Rect) {
		return nil, false, nil
	}

	tr := NewTransaction(doc)
	seen := make(map[int]bool)
	var content []*Node
	mergedPos := -1
	var mergedCell *Node
	for row := rect.Top; row < rect.Bottom; row++ {
		for col := rect.Left; col < rect.Right; col++ {
			pos := m.Map[row*m.Width+col]
			if pos == 0 || seen[pos] {
				continue
			}
			seen[pos] = true
			cell, err := cellAt(rect.Table, pos)
			if err != nil {
				return nil, false, err
			}
			if mergedPos == -1 {
				mergedPos = pos
				mergedCell = cell
				continue
			}
			if !isEmptyCell(cell) {
				content = append(content, cell.Children...)
			}
			mapped := tr.Mapping().Map(rect.TableStart+pos, 1)
			if err := tr.Delete(mapped, mapped+cell.NodeSize()); err != nil {
				return nil, false, err
			}
		}
	}

	attrs := mergedCell.Attrs.Clone()
	attrs.Rowspan = rect.Height()
	attrs = AddColSpan(attrs, attrs.Colspan, rect.Width()-attrs.Colspan)
	if err := tr.SetNodeMarkup(rect.TableStart+mergedPos, nil, &attrs); err != nil {
		return nil, false, err
	}

	if len(content) > 0 {
		end := mergedPos + 1 + mergedCell.ContentSize()
		start := end
		if isEmptyCell(mergedCell) {
			start = mergedPos + 1
		}
		if err := tr.ReplaceWith(rect.TableStart+start, rect.TableStart+end, content...); err != nil {
			return nil, false, err
		}
	}

	merged, err := NewCellSelection(tr.Doc(), rect.TableStart+mergedPos, rect.TableStart+mergedPos)
	if err != nil {
		return nil, false, err
	}
	tr.SetSelection(merged)
	return tr, true, nil
}

// SplitCell splits a spanning cell back into 1x1 cells, reusing the
// original cell's type for every produced cell.
func SplitCell(s *Schema, doc *Node, sel *Selection) (*Transaction, bool, error) {
	return SplitCellWith(s, doc, sel, nil)
}

// SplitCellWith splits a spanning cell back into 1x1 cells, asking chooser
// for the type of each produced cell. Declines when the target cell does
// not span, or when a rectangular selection covers more than one cell. The
// original cell keeps its content and the width slot of its own first
// column; every other produced slot becomes a blank cell inheriting its
// one-column slice of the original width array.
func SplitCellWith(s *Schema, doc *Node, sel *Selection, chooser CellTypeChooser) (*Transaction, bool, error) {
	var cellNode *Node
	if sel.IsCellSelection() {
		if sel.AnchorCell.Pos != sel.HeadCell.Pos {
			return nil, false, nil
		}
		cellNode = sel.AnchorCell.NodeAfter()
	} else if sel.From != nil {
		if rp := cellAround(sel.From); rp != nil {
			cellNode = rp.NodeAfter()
		}
	}
	if cellNode == nil || cellNode.Attrs == nil {
		return nil, false, nil
	}
	if cellNode.Attrs.Colspan == 1 && cellNode.Attrs.Rowspan == 1 {
		return nil, false, nil
	}
	if chooser == nil {
		chooser = func(row, col int, cell *Node) *NodeType { return cell.Type }
	}

	rect, ok, err := selectedRect(sel)
	if err != nil || !ok {
		return nil, false, err
	}
	m := rect.Map

	colwidth := cellNode.Attrs.Colwidth
	attrs := make([]CellAttrs, rect.Width())
	for i := range attrs {
		a := CellAttrs{Colspan: 1, Rowspan: 1}
		if i < len(colwidth) && colwidth[i] != 0 {
			a.Colwidth = []float64{colwidth[i]}
		}
		attrs[i] = a
	}

	tr := NewTransaction(doc)
	lastCell := -1
	for row := rect.Top; row < rect.Bottom; row++ {
		pos := m.PositionAt(row, rect.Left, rect.Table)
		if row == rect.Top {
			pos += cellNode.NodeSize()
		}
		for col, i := rect.Left, 0; col < rect.Right; col, i = col+1, i+1 {
			if col == rect.Left && row == rect.Top {
				continue
			}
			lastCell = tr.Mapping().Map(rect.TableStart+pos, 1)
			if err := tr.Insert(lastCell, s.CreateCell(chooser(row, col, cellNode), attrs[i])); err != nil {
				return nil, false, err
			}
		}
	}

	origPos := m.PositionAt(rect.Top, rect.Left, rect.Table)
	origAttrs := attrs[0].Clone()
	if err := tr.SetNodeMarkup(rect.TableStart+origPos, chooser(rect.Top, rect.Left, cellNode), &origAttrs); err != nil {
		return nil, false, err
	}

	head := rect.TableStart + origPos
	if lastCell != -1 {
		head = lastCell
	}
	split, err := NewCellSelection(tr.Doc(), rect.TableStart+origPos, head)
	if err != nil {
		return nil, false, err
	}
	tr.SetSelection(split)
	return tr, true, nil
}
