package lattice

import "github.com/olekukonko/errors"

// StepKind distinguishes the structural step variants a transaction records.
type StepKind int

const (
	// StepReplace replaces a document range with zero or more nodes; it
	// covers plain insertion (empty range) and deletion (no nodes) too.
	StepReplace StepKind = iota

	// StepSetMarkup rewrites the type and attributes of a single node,
	// keeping its content. It never moves positions.
	StepSetMarkup
)

// Step is one recorded structural edit.
type Step struct {
	Kind     StepKind
	From, To int
	Inserted []*Node

	// StepSetMarkup only
	Pos   int
	Type  *NodeType
	Attrs *CellAttrs
}

// Transaction is an ordered batch of structural steps applied eagerly to an
// immutable document, together with the cumulative position remap the steps
// build up. A transaction either stages a fully consistent batch or, on a
// hard failure, leaves its document exactly as it was.
type Transaction struct {
	doc     *Node
	steps   []Step
	mapping Mapping
	sel     *Selection
}

// NewTransaction starts an empty transaction over doc.
func NewTransaction(doc *Node) *Transaction {
	return &Transaction{doc: doc}
}

// Doc returns the document as transformed by the steps staged so far.
func (tr *Transaction) Doc() *Node {
	return tr.doc
}

// Mapping returns the transaction's cumulative position remap. The returned
// value remains live: later steps append to it.
func (tr *Transaction) Mapping() *Mapping {
	return &tr.mapping
}

// Steps returns the staged steps in application order.
func (tr *Transaction) Steps() []Step {
	return tr.steps
}

// DocChanged reports whether any step has been staged.
func (tr *Transaction) DocChanged() bool {
	return len(tr.steps) > 0
}

// Selection returns the selection the transaction proposes for after it is
// applied, or nil when no algorithm set one.
func (tr *Transaction) Selection() *Selection {
	return tr.sel
}

// SetSelection records the selection to restore after the transaction.
func (tr *Transaction) SetSelection(sel *Selection) {
	tr.sel = sel
}

// ReplaceWith replaces the range [from, to) with the given nodes. Both
// boundaries must align with node boundaries of one shared parent.
func (tr *Transaction) ReplaceWith(from, to int, nodes ...*Node) error {
	newDoc, err := tr.doc.replace(from, to, nodes)
	if err != nil {
		return err
	}
	size := 0
	for _, n := range nodes {
		size += n.NodeSize()
	}
	tr.doc = newDoc
	tr.steps = append(tr.steps, Step{Kind: StepReplace, From: from, To: to, Inserted: nodes})
	tr.mapping.appendMap(NewStepMap(from, to-from, size))
	return nil
}

// Delete removes the range [from, to).
func (tr *Transaction) Delete(from, to int) error {
	return tr.ReplaceWith(from, to)
}

// Insert inserts nodes at pos.
func (tr *Transaction) Insert(pos int, nodes ...*Node) error {
	return tr.ReplaceWith(pos, pos, nodes...)
}

// SetNodeMarkup rewrites the type and attributes of the node starting at
// pos, keeping its content. A nil typ keeps the node's current type. The
// node's size is unchanged, so the step contributes an identity remap.
func (tr *Transaction) SetNodeMarkup(pos int, typ *NodeType, attrs *CellAttrs) error {
	rp, err := Resolve(tr.doc, pos)
	if err != nil {
		return err
	}
	node := rp.NodeAfter()
	if node == nil {
		return errors.Newf("set markup at %d", pos).Wrap(ErrNodeNotFound)
	}
	newDoc, err := tr.doc.replace(pos, pos+node.NodeSize(), []*Node{node.WithMarkup(typ, attrs)})
	if err != nil {
		return err
	}
	tr.doc = newDoc
	tr.steps = append(tr.steps, Step{Kind: StepSetMarkup, Pos: pos, Type: typ, Attrs: attrs})
	tr.mapping.appendMap(NewStepMap())
	return nil
}
