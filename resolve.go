package lattice

import "github.com/olekukonko/errors"

// pathEntry is one step of a resolved position's ancestor chain: the node at
// that depth, the child index the position descends into (or points at), and
// the absolute position where that child begins.
type pathEntry struct {
	node   *Node
	index  int
	before int
}

// ResolvedPos is a document position together with the chain of ancestor
// nodes it passes through. Positions count tokens of the flattened document:
// entering an element node costs one token, leaving it another.
type ResolvedPos struct {
	Pos          int
	path         []pathEntry
	parentOffset int
}

// Resolve computes the ancestor chain for a position in doc. Positions
// outside [0, doc.ContentSize()] are a hard failure.
func Resolve(doc *Node, pos int) (*ResolvedPos, error) {
	if pos < 0 || pos > doc.ContentSize() {
		return nil, errors.Newf("resolve %d in document of size %d", pos, doc.ContentSize()).Wrap(ErrInvalidPosition)
	}
	rp := &ResolvedPos{Pos: pos}
	start := 0
	parentOffset := pos
	node := doc
	for {
		index, offset := node.findIndex(parentOffset)
		rem := parentOffset - offset
		rp.path = append(rp.path, pathEntry{node, index, start + offset})
		if rem == 0 {
			break
		}
		node = node.Child(index)
		if node == nil {
			return nil, errors.Newf("resolve %d walked off the tree", pos).Wrap(ErrInvalidPosition)
		}
		if node.Type.Role == RoleText {
			break
		}
		parentOffset = rem - 1
		start += offset + 1
	}
	rp.parentOffset = parentOffset
	return rp, nil
}

// Depth returns the depth of the position's parent node; 0 is the document.
func (p *ResolvedPos) Depth() int {
	return len(p.path) - 1
}

// Node returns the ancestor node at the given depth.
func (p *ResolvedPos) Node(depth int) *Node {
	return p.path[depth].node
}

// Index returns the child index the position occupies within the ancestor at
// the given depth.
func (p *ResolvedPos) Index(depth int) int {
	return p.path[depth].index
}

// Before returns the position directly before the ancestor at the given
// depth. Only meaningful for depth >= 1.
func (p *ResolvedPos) Before(depth int) int {
	return p.path[depth-1].before
}

// After returns the position directly after the ancestor at the given depth.
func (p *ResolvedPos) After(depth int) int {
	return p.Before(depth) + p.Node(depth).NodeSize()
}

// Start returns the position where the content of the ancestor at the given
// depth starts.
func (p *ResolvedPos) Start(depth int) int {
	if depth == 0 {
		return 0
	}
	return p.path[depth-1].before + 1
}

// End returns the position where the content of the ancestor at the given
// depth ends.
func (p *ResolvedPos) End(depth int) int {
	return p.Start(depth) + p.Node(depth).ContentSize()
}

// NodeAfter returns the node starting directly at the position, or nil when
// the position does not sit on a node boundary.
func (p *ResolvedPos) NodeAfter() *Node {
	last := p.path[len(p.path)-1]
	if p.Pos != last.before {
		return nil
	}
	return last.node.Child(last.index)
}

// root returns the document node the position was resolved against.
func (p *ResolvedPos) root() *Node {
	return p.path[0].node
}
