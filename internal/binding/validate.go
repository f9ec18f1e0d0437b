package binding

import (
	"errors"
	"fmt"
	"slices"
)

// Validate checks the structural invariants of a finished table: scope tree
// links are mutual, every variable is indexed by the scope that owns it,
// and every resolved reference points into an enclosing scope. Returns nil
// on a well formed table, otherwise all violations joined.
func (t *Table) Validate() error {
	var errs []error

	for i := 1; i <= t.Scopes.Len(); i++ {
		id := ScopeID(i)
		s := t.Scopes.Get(id)
		if id == t.Root {
			if s.Parent.IsValid() {
				errs = append(errs, fmt.Errorf("root scope %d has parent %d", id, s.Parent))
			}
		} else {
			parent := t.Scopes.Get(s.Parent)
			if parent == nil {
				errs = append(errs, fmt.Errorf("scope %d has invalid parent %d", id, s.Parent))
			} else if !slices.Contains(parent.Children, id) {
				errs = append(errs, fmt.Errorf("scope %d missing from children of parent %d", id, s.Parent))
			}
		}
		for _, child := range s.Children {
			c := t.Scopes.Get(child)
			if c == nil || c.Parent != id {
				errs = append(errs, fmt.Errorf("scope %d lists child %d with mismatched parent", id, child))
			}
		}
		for _, v := range s.Ordered {
			vv := t.Vars.Get(v)
			if vv == nil {
				errs = append(errs, fmt.Errorf("scope %d lists invalid variable %d", id, v))
				continue
			}
			if vv.Scope != id {
				errs = append(errs, fmt.Errorf("variable %d listed in scope %d but owned by %d", v, id, vv.Scope))
			}
			for _, space := range []Space{SpaceValue, SpaceType} {
				if vv.Spaces&space == 0 {
					continue
				}
				if !slices.Contains(s.table(space)[vv.Name], v) {
					errs = append(errs, fmt.Errorf("variable %d missing from name table of scope %d", v, id))
				}
			}
		}
	}

	for i := 1; i <= t.Vars.Len(); i++ {
		id := VariableID(i)
		v := t.Vars.Get(id)
		if len(v.Defs) == 0 && v.Flags&VarFlagImplicitGlobal == 0 {
			errs = append(errs, fmt.Errorf("variable %d has no definitions", id))
		}
		for _, d := range v.Defs {
			if t.Defs.Get(d) == nil {
				errs = append(errs, fmt.Errorf("variable %d lists invalid definition %d", id, d))
			}
		}
		for _, ref := range v.Refs {
			r := t.Refs.Get(ref)
			if r == nil || r.Resolved != id {
				errs = append(errs, fmt.Errorf("variable %d lists reference %d that does not resolve to it", id, ref))
			}
		}
	}

	for i := 1; i <= t.Refs.Len(); i++ {
		id := ReferenceID(i)
		r := t.Refs.Get(id)
		if t.Scopes.Get(r.Scope) == nil {
			errs = append(errs, fmt.Errorf("reference %d has invalid scope %d", id, r.Scope))
			continue
		}
		if !r.Resolved.IsValid() {
			continue
		}
		v := t.Vars.Get(r.Resolved)
		if v == nil {
			errs = append(errs, fmt.Errorf("reference %d resolved to invalid variable %d", id, r.Resolved))
			continue
		}
		if !t.encloses(v.Scope, r.Scope) {
			errs = append(errs, fmt.Errorf("reference %d in scope %d resolved to variable %d outside its scope chain", id, r.Scope, r.Resolved))
		}
	}

	return errors.Join(errs...)
}

// encloses reports whether outer is inner or one of inner's ancestors.
func (t *Table) encloses(outer, inner ScopeID) bool {
	for inner.IsValid() {
		if inner == outer {
			return true
		}
		inner = t.Scopes.Get(inner).Parent
	}
	return false
}
