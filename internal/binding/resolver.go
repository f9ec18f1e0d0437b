package binding

import (
	"fmt"

	"bindery/internal/diag"
	"bindery/internal/source"
)

// resolver runs after the binder finished registering the whole tree. It
// walks the scope tree bottom-up: every scope first tries its own
// references against its own name tables, then inherits whatever its
// children could not resolve, retries those, and passes its own leftovers
// outward. Only ordered slices are traversed, never map iteration, so the
// outcome is deterministic for a fixed tree.
type resolver struct {
	table    *Table
	reporter diag.Reporter
}

func (r *resolver) run() {
	leftover := r.finalize(r.table.Root)
	r.finishRoot(leftover)
}

// finalize resolves one scope and its subtree, returning the references
// that must be retried in the parent.
func (r *resolver) finalize(id ScopeID) []ReferenceID {
	scope := r.table.Scopes.Get(id)
	if scope == nil {
		return nil
	}
	var pending []ReferenceID
	for _, refID := range scope.Refs {
		if !r.tryBind(id, refID) {
			pending = append(pending, refID)
		}
	}
	for _, child := range scope.Children {
		for _, refID := range r.finalize(child) {
			if !r.tryBind(id, refID) {
				pending = append(pending, refID)
			}
		}
	}
	scope.Through = pending
	return pending
}

// tryBind looks the reference's name up in this scope's own tables and, on
// a hit, links reference and variable both ways.
func (r *resolver) tryBind(scopeID ScopeID, refID ReferenceID) bool {
	ref := r.table.Refs.Get(refID)
	node := r.table.Tree.Get(ref.Node)
	if node == nil || node.Name == source.NoStringID {
		return true // nothing to resolve; swallow
	}
	varID := r.table.lookupLocal(scopeID, node.Name, ref.space())
	if !varID.IsValid() {
		return false
	}
	r.bind(refID, ref, varID)
	return true
}

func (r *resolver) bind(refID ReferenceID, ref *Reference, varID VariableID) {
	v := r.table.Vars.Get(varID)
	ref.Resolved = varID
	v.Refs = append(v.Refs, refID)
	if ref.IsRead() {
		v.Flags |= VarFlagUsed
	}
	if v.TDZSensitive(r.table.Defs) && ref.Span.Start < r.earliestDecl(v) {
		ref.Flags |= RefFlagUsedBeforeDecl
		r.reportUseBeforeDecl(ref, v)
	}
}

func (r *resolver) reportUseBeforeDecl(ref *Reference, v *Variable) {
	msg := fmt.Sprintf("'%s' is used before its declaration", r.table.Strings.MustLookup(v.Name))
	builder := diag.ReportWarning(r.reporter, diag.BindUseBeforeDecl, ref.Span, msg)
	if len(v.Defs) > 0 {
		if def := r.table.Defs.Get(v.Defs[0]); def != nil && !def.NameSpan.Empty() {
			builder.WithNote(def.NameSpan, "declared here")
		}
	}
	builder.Emit()
}

// earliestDecl returns the smallest declaration start among the variable's
// definitions. Consumers wanting "closest preceding definition" compare
// positions across Defs themselves; resolution targets the variable as a
// whole.
func (r *resolver) earliestDecl(v *Variable) uint32 {
	earliest := ^uint32(0)
	for _, defID := range v.Defs {
		def := r.table.Defs.Get(defID)
		if def != nil && def.NameSpan.Start < earliest {
			earliest = def.NameSpan.Start
		}
	}
	return earliest
}

// finishRoot classifies everything that reached the root unresolved. In
// non-strict roots each leftover name materializes an implicit global in
// the root scope's own table, so repeated uses share one variable. Strict
// semantics suppress that for writes: an undeclared assignment stays
// unbound. The root's through list keeps all of them either way, which is
// what consumers inspect for undeclared-use policy.
func (r *resolver) finishRoot(leftover []ReferenceID) {
	root := r.table.Scopes.Get(r.table.Root)
	if root == nil {
		return
	}
	for _, refID := range leftover {
		ref := r.table.Refs.Get(refID)
		node := r.table.Tree.Get(ref.Node)
		if node == nil || node.Name == source.NoStringID {
			continue
		}
		if root.Strict && ref.IsWrite() && !ref.TypePosition() {
			continue
		}
		space := ref.space()
		varID := r.table.lookupLocal(r.table.Root, node.Name, space)
		if !varID.IsValid() {
			varID = r.materializeGlobal(root, node.Name, space)
		}
		r.bind(refID, ref, varID)
	}
}

// materializeGlobal creates a definition-less variable in the root scope.
func (r *resolver) materializeGlobal(root *Scope, name source.StringID, space Space) VariableID {
	id := r.table.Vars.New(&Variable{
		Name:   name,
		Scope:  r.table.Root,
		Spaces: space,
		Flags:  VarFlagImplicitGlobal,
	})
	root.Ordered = append(root.Ordered, id)
	tbl := root.table(space)
	tbl[name] = append(tbl[name], id)
	return id
}
