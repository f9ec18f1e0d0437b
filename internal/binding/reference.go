package binding

import (
	"bindery/internal/ast"
	"bindery/internal/source"
)

// RefAccess classifies how a reference touches its target.
type RefAccess uint8

const (
	RefRead RefAccess = iota
	RefWrite
	RefReadWrite
)

func (a RefAccess) String() string {
	switch a {
	case RefRead:
		return "read"
	case RefWrite:
		return "write"
	case RefReadWrite:
		return "read-write"
	default:
		return "invalid"
	}
}

// RefFlags encode per-reference attributes set by the binder and resolver.
type RefFlags uint8

const (
	// RefFlagTypePosition marks an occurrence inside a type annotation or
	// other type-only context.
	RefFlagTypePosition RefFlags = 1 << iota
	// RefFlagUsedBeforeDecl marks a resolved reference that precedes the
	// first declaration point of a block-scoped target (dead-zone use).
	RefFlagUsedBeforeDecl
	// RefFlagInit marks the write a declarator initializer performs on its
	// own binding.
	RefFlagInit
)

// Reference is one identifier occurrence in a use position. It is created by
// the binder and mutated exactly once by the resolver, which sets Resolved
// (or leaves it NoVariableID for strict-mode undeclared writes).
type Reference struct {
	Node     ast.NodeID
	Scope    ScopeID // innermost scope at creation time
	Span     source.Span
	Access   RefAccess
	Flags    RefFlags
	Resolved VariableID
}

// IsRead reports whether the reference observes the target's value.
func (r *Reference) IsRead() bool { return r.Access != RefWrite }

// IsWrite reports whether the reference stores into the target.
func (r *Reference) IsWrite() bool { return r.Access != RefRead }

// TypePosition reports whether the occurrence is a type-namespace use.
func (r *Reference) TypePosition() bool { return r.Flags&RefFlagTypePosition != 0 }

// UsedBeforeDecl reports whether the reference is a dead-zone use.
func (r *Reference) UsedBeforeDecl() bool { return r.Flags&RefFlagUsedBeforeDecl != 0 }

// IsInit reports whether the reference is a declarator initializer write.
func (r *Reference) IsInit() bool { return r.Flags&RefFlagInit != 0 }

// IsResolved reports whether the resolver attached a target variable.
func (r *Reference) IsResolved() bool { return r.Resolved.IsValid() }

func (r *Reference) space() Space {
	if r.TypePosition() {
		return SpaceType
	}
	return SpaceValue
}
