package lattice

// StepMap records how one structural step moves positions: a sequence of
// replaced ranges, each a (start, oldSize, newSize) triple in coordinates of
// the document before the step.
type StepMap struct {
	ranges []int
}

// NewStepMap builds a StepMap from (start, oldSize, newSize) triples.
func NewStepMap(ranges ...int) StepMap {
	return StepMap{ranges: ranges}
}

// Map translates a position through the step. assoc determines which side a
// position exactly on a replaced boundary associates with: negative keeps it
// before inserted content, positive moves it after.
func (m StepMap) Map(pos, assoc int) int {
	diff := 0
	for i := 0; i+2 < len(m.ranges); i += 3 {
		start := m.ranges[i]
		if start > pos {
			break
		}
		oldSize, newSize := m.ranges[i+1], m.ranges[i+2]
		end := start + oldSize
		if pos <= end {
			var side int
			switch {
			case oldSize == 0:
				side = assoc
			case pos == start:
				side = -1
			case pos == end:
				side = 1
			default:
				side = assoc
			}
			if side < 0 {
				return start + diff
			}
			return start + diff + newSize
		}
		diff += newSize - oldSize
	}
	return pos + diff
}

// Mapping is the cumulative position remap of a transaction: an append-only
// sequence of step maps composed in order. A position captured before a
// batch of edits is translated to its post-edit location by mapping it
// through every step map in sequence.
type Mapping struct {
	maps []StepMap
}

// Map translates a position through every step map in order, using assoc at
// each step.
func (m *Mapping) Map(pos, assoc int) int {
	for _, sm := range m.maps {
		pos = sm.Map(pos, assoc)
	}
	return pos
}

// Slice returns a view of the mapping containing only the step maps appended
// at or after index from. Algorithms that precompute positions from a
// pre-edit snapshot use this to replay only the remaps their own later edits
// introduced.
func (m *Mapping) Slice(from int) *Mapping {
	return &Mapping{maps: m.maps[from:]}
}

// Len returns the number of step maps accumulated so far.
func (m *Mapping) Len() int {
	return len(m.maps)
}

func (m *Mapping) appendMap(sm StepMap) {
	m.maps = append(m.maps, sm)
}
