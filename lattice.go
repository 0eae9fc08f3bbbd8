// Package lattice implements the structural-editing core of a table data
// type embedded in a tree-shaped document: dense grid geometry for tables
// with spanning cells, rectangle-based selections, row/column/merge/split
// edit algorithms, and a column-width distribution algorithm for explicit
// widths and interactive resizing.
package lattice

// Schema is the capability table mapping structural roles to the concrete
// node types of the host document model. The host supplies one; code that
// does not care about the host's type names can use DefaultSchema.
type Schema struct {
	Table      *NodeType
	Row        *NodeType
	Cell       *NodeType
	HeaderCell *NodeType
	Block      *NodeType
	Text       *NodeType
}

// DefaultSchema returns a self-contained schema with conventional names.
func DefaultSchema() *Schema {
	return &Schema{
		Table:      &NodeType{Name: "table", Role: RoleTable},
		Row:        &NodeType{Name: "table_row", Role: RoleRow},
		Cell:       &NodeType{Name: "table_cell", Role: RoleCell},
		HeaderCell: &NodeType{Name: "table_header", Role: RoleHeaderCell},
		Block:      &NodeType{Name: "paragraph", Role: RoleBlock},
		Text:       &NodeType{Name: "text", Role: RoleText},
	}
}

// NodeType returns the concrete type registered for a role, or nil for an
// unknown role.
func (s *Schema) NodeType(role Role) *NodeType {
	switch role {
	case RoleTable:
		return s.Table
	case RoleRow:
		return s.Row
	case RoleCell:
		return s.Cell
	case RoleHeaderCell:
		return s.HeaderCell
	case RoleBlock:
		return s.Block
	case RoleText:
		return s.Text
	}
	return nil
}

// CreateCell returns a blank cell of the given type, filled with a single
// empty block. A nil typ produces an ordinary data cell.
func (s *Schema) CreateCell(typ *NodeType, attrs CellAttrs) *Node {
	if typ == nil {
		typ = s.Cell
	}
	a := attrs.Clone()
	return NewNode(typ, &a, NewNode(s.Block, nil))
}

// CreateRow returns a row node wrapping the given cells.
func (s *Schema) CreateRow(cells ...*Node) *Node {
	return NewNode(s.Row, nil, cells...)
}

// CreateTable returns a rows x cols table of blank 1x1 data cells.
func (s *Schema) CreateTable(rows, cols int) *Node {
	rowNodes := make([]*Node, rows)
	for r := 0; r < rows; r++ {
		cells := make([]*Node, cols)
		for c := 0; c < cols; c++ {
			cells[c] = s.CreateCell(s.Cell, DefaultCellAttrs())
		}
		rowNodes[r] = s.CreateRow(cells...)
	}
	return NewNode(s.Table, nil, rowNodes...)
}
