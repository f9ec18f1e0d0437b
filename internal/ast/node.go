package ast

import (
	"bindery/internal/source"
)

// NodeFlags encode small per-node attributes.
type NodeFlags uint8

const (
	// FlagStrict marks a program or function body with strict-mode-like
	// semantics.
	FlagStrict NodeFlags = 1 << iota
	// FlagTypeOnly marks an import (or import binding) that exists only in
	// the type namespace.
	FlagTypeOnly
	// FlagComputed marks a member access whose property is an expression
	// rather than a fixed name.
	FlagComputed
	// FlagExported marks a declaration wrapped in an export.
	FlagExported
)

// DeclMode distinguishes the binding behavior of a var_decl node.
type DeclMode uint8

const (
	ModeNone DeclMode = iota
	ModeVar           // function-scoped, hoisted
	ModeLet           // block-scoped
	ModeConst         // block-scoped, single assignment
)

func (m DeclMode) String() string {
	switch m {
	case ModeVar:
		return "var"
	case ModeLet:
		return "let"
	case ModeConst:
		return "const"
	default:
		return "none"
	}
}

// DeclModeByName maps the textual form used in serialized trees.
func DeclModeByName(name string) (DeclMode, bool) {
	switch name {
	case "var":
		return ModeVar, true
	case "let":
		return ModeLet, true
	case "const":
		return ModeConst, true
	case "", "none":
		return ModeNone, true
	}
	return ModeNone, false
}

// AssignOp distinguishes plain assignment from compound forms (+=, -=, ...),
// which read the target before writing it.
type AssignOp uint8

const (
	OpSimple AssignOp = iota
	OpCompound
)

// Node is one syntax tree node. The first child of an assign node is its
// target; the first child of a member node is the object and the second the
// property.
type Node struct {
	Kind     NodeKind
	Span     source.Span
	Name     source.StringID // identifier spelling, or NoStringID
	Parent   NodeID
	Children []NodeID
	Flags    NodeFlags
	Mode     DeclMode
	Op       AssignOp
}
