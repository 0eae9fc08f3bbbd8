package lattice

import (
	"unicode/utf8"

	"github.com/olekukonko/errors"
)

// Role identifies the structural function of a node type within a table
// document. The set is closed: the editing algorithms dispatch on roles, and
// the host schema supplies one concrete node type per role.
type Role int

const (
	// RoleBlock is a generic content block (paragraph-like) inside a cell.
	RoleBlock Role = iota

	// RoleText is an inline text leaf.
	RoleText

	// RoleTable is the table node itself: an ordered sequence of rows.
	RoleTable

	// RoleRow is a table row: an ordered sequence of cells.
	RoleRow

	// RoleCell is an ordinary data cell.
	RoleCell

	// RoleHeaderCell is a header cell. Structurally identical to RoleCell;
	// the distinction only matters when synthesizing new cells.
	RoleHeaderCell
)

// NodeType describes one concrete node type of the host schema.
type NodeType struct {
	Name string
	Role Role
}

// IsCell reports whether the type plays either cell role.
func (t *NodeType) IsCell() bool {
	return t.Role == RoleCell || t.Role == RoleHeaderCell
}

// CellAttrs carries the span and width attributes of a cell node.
// Colwidth is either nil or has exactly Colspan entries, one percentage per
// spanned column slot; a zero entry means "unspecified".
type CellAttrs struct {
	Colspan  int
	Rowspan  int
	Colwidth []float64
}

// DefaultCellAttrs returns the attributes of a plain 1x1 cell.
func DefaultCellAttrs() CellAttrs {
	return CellAttrs{Colspan: 1, Rowspan: 1}
}

// Clone returns a deep copy of the attributes.
func (a CellAttrs) Clone() CellAttrs {
	out := a
	if a.Colwidth != nil {
		out.Colwidth = append([]float64(nil), a.Colwidth...)
	}
	return out
}

// AddColSpan returns attrs widened by n columns, inserting the new span
// slots at span offset pos. Existing per-column width values are preserved;
// the new slots are unspecified. A Colwidth shorter than the span is
// tolerated, its missing tail counting as unspecified.
func AddColSpan(attrs CellAttrs, pos, n int) CellAttrs {
	out := attrs.Clone()
	out.Colspan += n
	if out.Colwidth != nil {
		at := min(pos, len(out.Colwidth))
		w := make([]float64, 0, out.Colspan)
		w = append(w, out.Colwidth[:at]...)
		w = append(w, make([]float64, n)...)
		w = append(w, out.Colwidth[at:]...)
		out.Colwidth = w
	}
	return out
}

// RemoveColSpan returns attrs narrowed by n columns, dropping the span slots
// at span offset pos. Width values of the remaining columns are preserved;
// when no specified width survives, Colwidth collapses to nil. A Colwidth
// shorter than the span is tolerated, its missing tail counting as
// unspecified.
func RemoveColSpan(attrs CellAttrs, pos, n int) CellAttrs {
	out := attrs.Clone()
	out.Colspan -= n
	if out.Colwidth != nil {
		from := min(pos, len(out.Colwidth))
		to := min(pos+n, len(out.Colwidth))
		w := make([]float64, 0, out.Colspan)
		w = append(w, out.Colwidth[:from]...)
		w = append(w, out.Colwidth[to:]...)
		all0 := true
		for _, v := range w {
			if v != 0 {
				all0 = false
				break
			}
		}
		if all0 {
			w = nil
		}
		out.Colwidth = w
	}
	return out
}

// Node is an immutable node of the host document tree. Element nodes carry
// children; text leaves carry Text. Attrs is non-nil only on cell nodes.
// Node values, once built, must never be mutated: node identity (the
// pointer) keys the geometry cache.
type Node struct {
	Type     *NodeType
	Attrs    *CellAttrs
	Children []*Node
	Text     string
}

// NewNode creates an element node.
func NewNode(typ *NodeType, attrs *CellAttrs, children ...*Node) *Node {
	return &Node{Type: typ, Attrs: attrs, Children: children}
}

// NewText creates a text leaf.
func NewText(typ *NodeType, text string) *Node {
	return &Node{Type: typ, Text: text}
}

// NodeSize returns the node's size in the flattened token stream: element
// nodes cost an open and a close token around their content, text leaves
// cost one token per rune.
func (n *Node) NodeSize() int {
	if n.Type.Role == RoleText {
		return utf8.RuneCountInString(n.Text)
	}
	return 2 + n.ContentSize()
}

// ContentSize returns the combined size of the node's children.
func (n *Node) ContentSize() int {
	size := 0
	for _, c := range n.Children {
		size += c.NodeSize()
	}
	return size
}

// ChildCount returns the number of direct children.
func (n *Node) ChildCount() int {
	return len(n.Children)
}

// Child returns the i'th child, or nil when i is out of range.
func (n *Node) Child(i int) *Node {
	if i < 0 || i >= len(n.Children) {
		return nil
	}
	return n.Children[i]
}

// findIndex locates the child touching pos within the node's content.
// It returns the child's index and starting offset; a pos lying exactly on
// a child boundary returns the index of the following child with
// offset == pos.
func (n *Node) findIndex(pos int) (index, offset int) {
	if pos == 0 {
		return 0, 0
	}
	cur := 0
	for i, c := range n.Children {
		end := cur + c.NodeSize()
		if end >= pos {
			if end == pos {
				return i + 1, end
			}
			return i, cur
		}
		cur = end
	}
	return len(n.Children), cur
}

// NodeAt returns the node starting at the given offset into this node's
// content, descending through children as needed. Returns nil when no node
// starts there.
func (n *Node) NodeAt(pos int) *Node {
	node := n
	for {
		index, offset := node.findIndex(pos)
		node = node.Child(index)
		if node == nil {
			return nil
		}
		if offset == pos || node.Type.Role == RoleText {
			return node
		}
		pos -= offset + 1
	}
}

// WithMarkup returns a copy of the node with a new type and attributes but
// the same content. A nil typ keeps the current type.
func (n *Node) WithMarkup(typ *NodeType, attrs *CellAttrs) *Node {
	if typ == nil {
		typ = n.Type
	}
	return &Node{Type: typ, Attrs: attrs, Children: n.Children, Text: n.Text}
}

// replace returns a copy of the node with content positions [from, to)
// replaced by the given nodes. Both boundaries must lie on child boundaries
// of one shared descendant; anything else is a structural misuse and fails
// with ErrBadReplace.
func (n *Node) replace(from, to int, with []*Node) (*Node, error) {
	if from < 0 || to < from || to > n.ContentSize() {
		return nil, errors.Newf("replace range [%d,%d)", from, to).Wrap(ErrInvalidPosition)
	}
	iFrom, offFrom := n.findIndex(from)
	iTo, offTo := n.findIndex(to)

	// Clean splice at this node's own child boundaries.
	if offFrom == from && offTo == to {
		children := make([]*Node, 0, iFrom+len(with)+len(n.Children)-iTo)
		children = append(children, n.Children[:iFrom]...)
		children = append(children, with...)
		children = append(children, n.Children[iTo:]...)
		return &Node{Type: n.Type, Attrs: n.Attrs, Children: children, Text: n.Text}, nil
	}

	// Otherwise both ends must fall inside the same child; descend.
	if offFrom == from {
		// from on a boundary but to inside a child: the range would cut a
		// node open on one side only.
		return nil, errors.Newf("range [%d,%d) cuts a node open", from, to).Wrap(ErrBadReplace)
	}
	child := n.Child(iFrom)
	if child == nil || child.Type.Role == RoleText {
		return nil, errors.Newf("range [%d,%d) enters a leaf", from, to).Wrap(ErrBadReplace)
	}
	childEnd := offFrom + child.NodeSize()
	if to >= childEnd {
		return nil, errors.Newf("range [%d,%d) crosses a node boundary", from, to).Wrap(ErrBadReplace)
	}
	inner, err := child.replace(from-offFrom-1, to-offFrom-1, with)
	if err != nil {
		return nil, err
	}
	children := make([]*Node, len(n.Children))
	copy(children, n.Children)
	children[iFrom] = inner
	return &Node{Type: n.Type, Attrs: n.Attrs, Children: children, Text: n.Text}, nil
}

// span returns the cell's colspan/rowspan, defaulting to 1x1 when the node
// carries no attributes.
func (n *Node) span() (colspan, rowspan int) {
	if n.Attrs == nil {
		return 1, 1
	}
	return n.Attrs.Colspan, n.Attrs.Rowspan
}

// isEmptyCell reports whether a cell contains exactly one empty block, the
// shape of a freshly synthesized blank cell. Merging skips such content.
func isEmptyCell(cell *Node) bool {
	if cell.ChildCount() != 1 {
		return false
	}
	c := cell.Child(0)
	return c.Type.Role == RoleBlock && c.ChildCount() == 0
}
