package lattice

import "math"

// Distribute converts raw per-column widths into percentages summing to
// exactly 100. A zero entry means "unspecified". When nothing is specified
// the input comes back unchanged; callers interpret an all-zero result as
// even distribution. Otherwise unspecified columns are weighted at the
// average of the specified ones, so they receive a fair share instead of
// collapsing. Every column except the last is rounded to three decimals;
// the last column absorbs whatever remains up to 100 (floored at zero), so
// the total never drifts under rounding.
func Distribute(raw []float64) []float64 {
	out := make([]float64, len(raw))
	copy(out, raw)
	if len(raw) == 0 {
		return out
	}

	specified := 0
	sum := 0.0
	for _, w := range raw {
		if w > 0 {
			specified++
			sum += w
		}
	}
	if specified == 0 {
		return out
	}

	base := sum / float64(specified)
	weights := make([]float64, len(raw))
	total := 0.0
	for i, w := range raw {
		if w <= 0 {
			w = base
		}
		weights[i] = w
		total += w
	}

	running := 0.0
	for i := 0; i < len(weights)-1; i++ {
		p := round3(weights[i] / total * 100)
		out[i] = p
		running += p
	}
	lastIdx := len(weights) - 1
	lastVal := 100 - running
	if lastVal < 0 {
		lastVal = 0
	}
	out[lastIdx] = round3(lastVal)
	return out
}

// PixelsToPercent converts pixel widths to percentages of the table's pixel
// width using the same last-column-absorbs-remainder rule as Distribute.
func PixelsToPercent(widths []float64, tableWidth float64) []float64 {
	out := make([]float64, len(widths))
	if len(widths) == 0 || tableWidth <= 0 {
		return out
	}
	running := 0.0
	for i := 0; i < len(widths)-1; i++ {
		p := round3(widths[i] / tableWidth * 100)
		out[i] = p
		running += p
	}
	last := 100 - running
	if last < 0 {
		last = 0
	}
	out[len(widths)-1] = round3(last)
	return out
}

// ColumnWidths reads the table's per-column raw widths from cell attributes:
// the first specified width seen for each column wins, columns never
// specified stay zero.
func ColumnWidths(table *Node) ([]float64, error) {
	m, err := MapOf(table)
	if err != nil {
		return nil, err
	}
	out := make([]float64, m.Width)
	seen := make(map[int]bool)
	for row := 0; row < m.Height; row++ {
		for col := 0; col < m.Width; col++ {
			pos := m.Map[row*m.Width+col]
			if pos == 0 || seen[pos] {
				continue
			}
			seen[pos] = true
			cell, err := cellAt(table, pos)
			if err != nil {
				continue
			}
			if cell.Attrs.Colwidth == nil {
				continue
			}
			left, err := m.ColCount(pos)
			if err != nil {
				continue
			}
			for k, w := range cell.Attrs.Colwidth {
				if w != 0 && left+k < len(out) && out[left+k] == 0 {
					out[left+k] = w
				}
			}
		}
	}
	return out, nil
}

// SetColumnWidths writes one percentage per column into the colwidth
// attribute of every cell in the table, slicing each cell its spanned
// range. The widths slice must have exactly one entry per grid column.
func SetColumnWidths(tr *Transaction, rect *TableRect, widths []float64) error {
	m := rect.Map
	if len(widths) != m.Width {
		return ErrWidthCount
	}
	seen := make(map[int]bool)
	for row := 0; row < m.Height; row++ {
		for col := 0; col < m.Width; col++ {
			pos := m.Map[row*m.Width+col]
			if pos == 0 || seen[pos] {
				continue
			}
			seen[pos] = true
			cell, err := cellAt(rect.Table, pos)
			if err != nil {
				return err
			}
			attrs := cell.Attrs.Clone()
			hi := col + attrs.Colspan
			if hi > len(widths) {
				hi = len(widths)
			}
			attrs.Colwidth = append([]float64(nil), widths[col:hi]...)
			if err := tr.SetNodeMarkup(rect.TableStart+pos, nil, &attrs); err != nil {
				return err
			}
		}
	}
	return nil
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
