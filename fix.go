package lattice

// FixTable repairs the defects the geometry engine absorbed while mapping
// the table at tablePos: colliding colspans are narrowed, overlong rowspans
// clamped, colwidth arrays resized to their colspan, and short rows padded
// with blank cells. Returns whether any repair was staged. The engine
// tolerates these states indefinitely; FixTable is for hosts that want to
// normalize a document once the dust settles.
func FixTable(s *Schema, tr *Transaction, table *Node, tablePos int) (bool, error) {
	m, err := MapOf(table)
	if err != nil {
		return false, err
	}
	if len(m.Problems) == 0 {
		return false, nil
	}
	tableStart := tablePos + 1
	mapStart := tr.Mapping().Len()

	// Collisions narrow a later cell, freeing slots that then count as
	// missing; track the extra cells each row will need.
	mustAdd := make([]int, m.Height)
	for _, prob := range m.Problems {
		switch prob.Kind {
		case ProblemCollision:
			cell, err := cellAt(table, prob.Pos)
			if err != nil {
				return false, err
			}
			if cell.Attrs.Colspan <= prob.N {
				continue
			}
			for j := 0; j < cell.Attrs.Rowspan && prob.Row+j < m.Height; j++ {
				mustAdd[prob.Row+j] += prob.N
			}
			attrs := RemoveColSpan(*cell.Attrs, cell.Attrs.Colspan-prob.N, prob.N)
			mapped := tr.Mapping().Slice(mapStart).Map(tableStart+prob.Pos, 1)
			if err := tr.SetNodeMarkup(mapped, nil, &attrs); err != nil {
				return false, err
			}
		case ProblemMissing:
			if prob.Row < len(mustAdd) {
				mustAdd[prob.Row] += prob.N
			}
		case ProblemOverlongRowspan:
			cell, err := cellAt(table, prob.Pos)
			if err != nil {
				return false, err
			}
			attrs := cell.Attrs.Clone()
			attrs.Rowspan -= prob.N
			if attrs.Rowspan < 1 {
				attrs.Rowspan = 1
			}
			mapped := tr.Mapping().Slice(mapStart).Map(tableStart+prob.Pos, 1)
			if err := tr.SetNodeMarkup(mapped, nil, &attrs); err != nil {
				return false, err
			}
		case ProblemColwidthMismatch:
			cell, err := cellAt(table, prob.Pos)
			if err != nil {
				return false, err
			}
			attrs := cell.Attrs.Clone()
			w := make([]float64, attrs.Colspan)
			copy(w, attrs.Colwidth)
			attrs.Colwidth = w
			mapped := tr.Mapping().Slice(mapStart).Map(tableStart+prob.Pos, 1)
			if err := tr.SetNodeMarkup(mapped, nil, &attrs); err != nil {
				return false, err
			}
		}
	}

	first, last := -1, -1
	for i, n := range mustAdd {
		if n > 0 {
			if first == -1 {
				first = i
			}
			last = i
		}
	}
	pos := tablePos + 1
	for i := 0; i < table.ChildCount(); i++ {
		row := table.Child(i)
		end := pos + row.NodeSize()
		if i < len(mustAdd) && mustAdd[i] > 0 {
			cells := make([]*Node, mustAdd[i])
			for j := range cells {
				cells[j] = s.CreateCell(s.Cell, DefaultCellAttrs())
			}
			// If it looks like a bite was taken out of the table's left
			// side, pad at the row start; otherwise pad at the end.
			side := end - 1
			if (i == 0 || first == i-1) && last == i {
				side = pos + 1
			}
			mapped := tr.Mapping().Slice(mapStart).Map(side, 1)
			if err := tr.Insert(mapped, cells...); err != nil {
				return false, err
			}
		}
		pos = end
	}
	return tr.DocChanged(), nil
}
