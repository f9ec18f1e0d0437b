package binding

import (
	"bindery/internal/ast"
	"bindery/internal/source"
)

// ScopeKind enumerates supported scope categories.
type ScopeKind uint8

const (
	ScopeInvalid         ScopeKind = iota
	ScopeGlobal                    // artificial root; owns implicit globals
	ScopeModule                    // top-level program scope
	ScopeFunction                  // function parameters and hoisted locals
	ScopeBlock                     // generic block scope
	ScopeClass                     // class body, holds the inner class name
	ScopeSwitch                    // switch cases
	ScopeCatch                     // catch clause binding
	ScopeFor                       // for-loop head declarations
	ScopeEnum                      // enum members
	ScopeNamespace                 // namespace/module declaration body
	ScopeType                      // type parameters of an alias or interface
	ScopeConditionalType           // infer bindings of a conditional type
)

func (k ScopeKind) String() string {
	switch k {
	case ScopeGlobal:
		return "global"
	case ScopeModule:
		return "module"
	case ScopeFunction:
		return "function"
	case ScopeBlock:
		return "block"
	case ScopeClass:
		return "class"
	case ScopeSwitch:
		return "switch"
	case ScopeCatch:
		return "catch"
	case ScopeFor:
		return "for"
	case ScopeEnum:
		return "enum"
	case ScopeNamespace:
		return "namespace"
	case ScopeType:
		return "type"
	case ScopeConditionalType:
		return "conditional_type"
	default:
		return "invalid"
	}
}

// ScopeKindByName maps the stable textual form used in dialect files.
func ScopeKindByName(name string) (ScopeKind, bool) {
	for k := ScopeGlobal; k <= ScopeConditionalType; k++ {
		if k.String() == name {
			return k, true
		}
	}
	return ScopeInvalid, false
}

// HoistBoundary reports whether var-like and function declarations nested
// below this scope attach here instead of bubbling further out.
func (k ScopeKind) HoistBoundary() bool {
	switch k {
	case ScopeGlobal, ScopeModule, ScopeFunction, ScopeNamespace, ScopeEnum:
		return true
	default:
		return false
	}
}

// Space selects which of a scope's two name tables a declaration or
// reference participates in. A name may occupy both.
type Space uint8

const (
	SpaceValue Space = 1 << iota
	SpaceType

	SpaceBoth = SpaceValue | SpaceType
)

func (s Space) String() string {
	switch s {
	case SpaceValue:
		return "value"
	case SpaceType:
		return "type"
	case SpaceBoth:
		return "value+type"
	default:
		return "none"
	}
}

// Scope models one lexical region. Name lookup uses two independent tables,
// one per namespace, so type and value declarations of the same spelling
// never collide. Buckets keep declaration order; the newest entry wins
// lookups, which is what makes incompatible redeclaration supersede earlier
// bindings.
type Scope struct {
	Kind     ScopeKind
	Node     ast.NodeID // the syntax node that introduced this scope
	Span     source.Span
	Parent   ScopeID
	Children []ScopeID // source order

	Values map[source.StringID][]VariableID
	Types  map[source.StringID][]VariableID

	Ordered []VariableID  // declaration order, both namespaces
	Refs    []ReferenceID // references recorded directly in this scope
	Through []ReferenceID // references this scope could not resolve

	Strict bool
}

func (s *Scope) table(space Space) map[source.StringID][]VariableID {
	if space == SpaceType {
		return s.Types
	}
	return s.Values
}
