package ast

import (
	"fmt"

	"fortio.org/safecast"

	"bindery/internal/source"
)

// Hints provide optional capacity suggestions for the node arena.
type Hints struct{ Nodes uint }

// Builder owns the node arena and the identifier interner for one tree.
type Builder struct {
	nodes   []Node // index 0 reserved for NoNodeID
	Strings *source.Interner
}

// NewBuilder creates a builder with optional capacity hints. If strings is
// nil, a fresh interner is allocated.
func NewBuilder(h Hints, strings *source.Interner) *Builder {
	capHint := h.Nodes
	if capHint == 0 {
		capHint = 1 << 8
	}
	if strings == nil {
		strings = source.NewInterner()
	}
	return &Builder{
		nodes:   make([]Node, 1, capHint+1),
		Strings: strings,
	}
}

// New allocates a node and returns its ID. The node has no parent until it
// is attached with AddChild.
func (b *Builder) New(kind NodeKind, span source.Span) NodeID {
	value, err := safecast.Conv[uint32](len(b.nodes))
	if err != nil {
		panic(fmt.Errorf("node arena overflow: %w", err))
	}
	id := NodeID(value)
	b.nodes = append(b.nodes, Node{Kind: kind, Span: span})
	return id
}

// NewNamed allocates a node carrying an identifier spelling.
func (b *Builder) NewNamed(kind NodeKind, name string, span source.Span) NodeID {
	id := b.New(kind, span)
	b.nodes[id].Name = b.Strings.Intern(name)
	return id
}

// AddChild appends child to parent's ordered child list and sets the
// backlink. Attaching an already-attached node panics: the tree must stay a
// tree.
func (b *Builder) AddChild(parent, child NodeID) {
	p := b.Get(parent)
	c := b.Get(child)
	if p == nil || c == nil {
		panic("ast: AddChild on invalid node")
	}
	if c.Parent.IsValid() {
		panic(fmt.Sprintf("ast: node %d already has parent %d", child, c.Parent))
	}
	c.Parent = parent
	p.Children = append(p.Children, child)
}

// Get returns the node pointer or nil for an invalid ID.
func (b *Builder) Get(id NodeID) *Node {
	if !id.IsValid() || int(id) >= len(b.nodes) {
		return nil
	}
	return &b.nodes[id]
}

// SetFlags ORs flags into the node.
func (b *Builder) SetFlags(id NodeID, flags NodeFlags) {
	if n := b.Get(id); n != nil {
		n.Flags |= flags
	}
}

// SetMode records the declaration mode of a var_decl node.
func (b *Builder) SetMode(id NodeID, mode DeclMode) {
	if n := b.Get(id); n != nil {
		n.Mode = mode
	}
}

// SetOp records the assignment operator class of an assign node.
func (b *Builder) SetOp(id NodeID, op AssignOp) {
	if n := b.Get(id); n != nil {
		n.Op = op
	}
}

// Len reports the number of allocated nodes excluding the sentinel.
func (b *Builder) Len() int { return len(b.nodes) - 1 }

// Nodes exposes the arena without the sentinel. Read-only.
func (b *Builder) Nodes() []Node {
	if len(b.nodes) <= 1 {
		return nil
	}
	return b.nodes[1:]
}
