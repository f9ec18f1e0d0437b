package binding

import (
	"slices"

	"bindery/internal/ast"
	"bindery/internal/source"
)

// GlobalScope returns the root scope. Implicit globals live here.
func (t *Table) GlobalScope() ScopeID { return t.Root }

// ModuleScope returns the program scope nested directly under the root.
func (t *Table) ModuleScope() ScopeID { return t.Module }

// Resolved reports whether Analyze finished over this table.
func (t *Table) Resolved() bool { return t.resolved }

// ScopeForNode returns the innermost scope enclosing node. For a
// scope-introducing node that is the scope it introduces; for any other
// node the walk follows parent links until it hits one. Returns NoScopeID
// for nodes outside the tree.
func (t *Table) ScopeForNode(node ast.NodeID) ScopeID {
	for node.IsValid() {
		if id, ok := t.nodeScopes[node]; ok {
			return id
		}
		n := t.Tree.Get(node)
		if n == nil {
			return NoScopeID
		}
		node = n.Parent
	}
	return NoScopeID
}

// VariablesOf returns the variables declared directly in scope, in
// declaration order. The slice is a copy.
func (t *Table) VariablesOf(scope ScopeID) []VariableID {
	s := t.Scopes.Get(scope)
	if s == nil {
		return nil
	}
	return slices.Clone(s.Ordered)
}

// ReferencesOf returns the references recorded directly in scope, in
// source order. The slice is a copy.
func (t *Table) ReferencesOf(scope ScopeID) []ReferenceID {
	s := t.Scopes.Get(scope)
	if s == nil {
		return nil
	}
	return slices.Clone(s.Refs)
}

// ThroughOf returns the references that originated in scope or below and
// were not bound by anything up to and including scope. The slice is a copy.
func (t *Table) ThroughOf(scope ScopeID) []ReferenceID {
	s := t.Scopes.Get(scope)
	if s == nil {
		return nil
	}
	return slices.Clone(s.Through)
}

// ChildrenOf returns the child scopes of scope in creation order.
func (t *Table) ChildrenOf(scope ScopeID) []ScopeID {
	s := t.Scopes.Get(scope)
	if s == nil {
		return nil
	}
	return slices.Clone(s.Children)
}

// DefinitionsOf returns the definition sites of v, oldest first.
func (t *Table) DefinitionsOf(v VariableID) []DefinitionID {
	vv := t.Vars.Get(v)
	if vv == nil {
		return nil
	}
	return slices.Clone(vv.Defs)
}

// UsesOf returns the references resolved to v, in resolution order.
func (t *Table) UsesOf(v VariableID) []ReferenceID {
	vv := t.Vars.Get(v)
	if vv == nil {
		return nil
	}
	return slices.Clone(vv.Refs)
}

// IsGlobal reports whether v is declared in the root scope. Both explicit
// top-level declarations hoisted past the module scope and materialized
// implicit globals qualify.
func (t *Table) IsGlobal(v VariableID) bool {
	vv := t.Vars.Get(v)
	return vv != nil && vv.Scope == t.Root
}

// Lookup resolves name in the given namespace starting from scope and
// walking outward, exactly as the resolver would for a reference placed
// there. Returns NoVariableID when nothing declares the name.
func (t *Table) Lookup(scope ScopeID, name source.StringID, space Space) VariableID {
	for scope.IsValid() {
		if v := t.lookupLocal(scope, name, space); v.IsValid() {
			return v
		}
		scope = t.Scopes.Get(scope).Parent
	}
	return NoVariableID
}

// LookupName is Lookup over a raw string. Names never interned cannot be
// declared anywhere, so a failed intern lookup short-circuits.
func (t *Table) LookupName(scope ScopeID, name string, space Space) VariableID {
	id, ok := t.Strings.IDOf(name)
	if !ok {
		return NoVariableID
	}
	return t.Lookup(scope, id, space)
}

// Shadows returns the variable that v hides, searching outward from the
// scope enclosing v's own. Returns NoVariableID when v shadows nothing.
func (t *Table) Shadows(v VariableID) VariableID {
	vv := t.Vars.Get(v)
	if vv == nil {
		return NoVariableID
	}
	space := SpaceValue
	if vv.Spaces&SpaceValue == 0 {
		space = SpaceType
	}
	parent := t.Scopes.Get(vv.Scope).Parent
	if !parent.IsValid() {
		return NoVariableID
	}
	return t.Lookup(parent, vv.Name, space)
}

// ResolvedVariable returns the variable a reference bound to, or
// NoVariableID for unresolved references.
func (t *Table) ResolvedVariable(ref ReferenceID) VariableID {
	r := t.Refs.Get(ref)
	if r == nil {
		return NoVariableID
	}
	return r.Resolved
}
