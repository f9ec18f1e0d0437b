package binding

import (
	"fmt"

	"fortio.org/safecast"

	"bindery/internal/ast"
	"bindery/internal/diag"
	"bindery/internal/source"
)

// Hints provide optional capacity suggestions for the table arenas.
type Hints struct{ Scopes, Variables, References, Definitions uint }

// Options controls one Analyze run.
type Options struct {
	Dialect  Dialect
	Reporter diag.Reporter
	Hints    Hints
	Validate bool
}

// Table is the finished scope graph for one syntax tree. It is mutable only
// during Analyze; afterwards it is shared read-only.
type Table struct {
	Tree    *ast.Builder
	Scopes  *Scopes
	Vars    *Variables
	Refs    *References
	Defs    *Definitions
	Strings *source.Interner

	Root   ScopeID // global scope owning implicit globals
	Module ScopeID // program scope

	dialect    Dialect
	nodeScopes map[ast.NodeID]ScopeID // scope-introducing node -> its scope
	resolved   bool
}

// NewTable builds an empty table over the given tree with capacity hints.
func NewTable(tree *ast.Builder, d Dialect, h Hints) *Table {
	if tree == nil {
		panic("binding: NewTable nil tree")
	}
	scopeCap, err := safecast.Conv[uint32](h.Scopes)
	if err != nil {
		panic(fmt.Errorf("scope capacity overflow: %w", err))
	}
	varCap, err := safecast.Conv[uint32](h.Variables)
	if err != nil {
		panic(fmt.Errorf("variable capacity overflow: %w", err))
	}
	refCap, err := safecast.Conv[uint32](h.References)
	if err != nil {
		panic(fmt.Errorf("reference capacity overflow: %w", err))
	}
	defCap, err := safecast.Conv[uint32](h.Definitions)
	if err != nil {
		panic(fmt.Errorf("definition capacity overflow: %w", err))
	}
	return &Table{
		Tree:       tree,
		Scopes:     NewScopes(scopeCap),
		Vars:       NewVariables(varCap),
		Refs:       NewReferences(refCap),
		Defs:       NewDefinitions(defCap),
		Strings:    tree.Strings,
		dialect:    d,
		nodeScopes: make(map[ast.NodeID]ScopeID),
	}
}

// Analyze binds and resolves one syntax tree rooted at root and returns the
// finished table. The root must be part of tree; anything else is a caller
// bug and panics. Construction is strictly sequential; the returned table is
// immutable and safe for concurrent readers.
func Analyze(tree *ast.Builder, root ast.NodeID, opts Options) *Table {
	if tree == nil || tree.Get(root) == nil {
		panic("binding: Analyze needs a root node inside the tree")
	}
	if opts.Dialect.Scopes == nil {
		opts.Dialect = Typed()
	}
	t := NewTable(tree, opts.Dialect, opts.Hints)

	rootNode := tree.Get(root)
	strict := opts.Dialect.ModuleStrict || rootNode.Flags&ast.FlagStrict != 0
	t.Root = t.newScope(ScopeGlobal, NoScopeID, root, rootNode.Span, strict)
	t.Module = t.newScope(ScopeModule, t.Root, root, rootNode.Span, strict)

	reporter := opts.Reporter
	if reporter == nil {
		reporter = diag.NopReporter{}
	}
	b := &binder{
		tree:     tree,
		table:    t,
		dialect:  opts.Dialect,
		reporter: reporter,
		stack:    []ScopeID{t.Root, t.Module},
	}
	b.walkChildren(root, refContext{})

	r := &resolver{table: t, reporter: reporter}
	r.run()
	t.resolved = true

	if opts.Validate {
		if err := t.Validate(); err != nil {
			if opts.Reporter != nil {
				msg := fmt.Sprintf("scope graph invariant violation: %v", err)
				diag.ReportError(opts.Reporter, diag.BindInvariantViolation, rootNode.Span, msg).Emit()
			} else {
				panic(err)
			}
		}
	}
	return t
}

// newScope allocates a scope and indexes it by its introducing node. When
// several scopes share one node (global+module at the root, function scope
// plus body block), the innermost one wins the node index.
func (t *Table) newScope(kind ScopeKind, parent ScopeID, node ast.NodeID, span source.Span, strict bool) ScopeID {
	id := t.Scopes.New(kind, parent, node, span, strict)
	if node.IsValid() {
		t.nodeScopes[node] = id
	}
	return id
}

// canMerge reports whether a new declaration of kind next appends a
// definition to an existing variable whose newest definition has kind
// existing, instead of creating a fresh variable.
func canMerge(existing, next DefKind) bool {
	if existing == next {
		switch existing {
		case DefVar, DefFunction, DefNamespace, DefEnum, DefInterface:
			return true
		}
		return false
	}
	switch {
	case existing == DefVar && next == DefFunction,
		existing == DefFunction && next == DefVar:
		return true
	case existing == DefNamespace && (next == DefFunction || next == DefClass || next == DefEnum),
		next == DefNamespace && (existing == DefFunction || existing == DefClass || existing == DefEnum):
		return true
	}
	return false
}

// declare installs a definition for name into scopeID, merging with the
// newest same-name variable when the declaration kinds are compatible and
// cover the same namespaces. Returns the variable and the variable it
// superseded, if any.
func (t *Table) declare(scopeID ScopeID, name source.StringID, spaces Space, def Definition, flags VarFlags) (VariableID, VariableID) {
	scope := t.Scopes.Get(scopeID)
	if scope == nil {
		panic(fmt.Sprintf("binding: declare into invalid scope %d", scopeID))
	}

	// Newest same-name variable visible in any of the targeted namespaces.
	var prev VariableID
	for _, space := range []Space{SpaceValue, SpaceType} {
		if spaces&space == 0 {
			continue
		}
		if bucket := scope.table(space)[name]; len(bucket) > 0 {
			if candidate := bucket[len(bucket)-1]; !prev.IsValid() || candidate > prev {
				prev = candidate
			}
		}
	}

	defID := t.Defs.New(&def)

	if prev.IsValid() {
		prevVar := t.Vars.Get(prev)
		lastDef := t.Defs.Get(prevVar.Defs[len(prevVar.Defs)-1])
		if prevVar.Spaces == spaces && canMerge(lastDef.Kind, def.Kind) {
			prevVar.Defs = append(prevVar.Defs, defID)
			prevVar.Flags |= flags
			return prev, NoVariableID
		}
	}

	id := t.Vars.New(&Variable{
		Name:   name,
		Scope:  scopeID,
		Spaces: spaces,
		Defs:   []DefinitionID{defID},
		Flags:  flags,
	})
	scope.Ordered = append(scope.Ordered, id)
	for _, space := range []Space{SpaceValue, SpaceType} {
		if spaces&space == 0 {
			continue
		}
		tbl := scope.table(space)
		tbl[name] = append(tbl[name], id)
	}
	if prev.IsValid() {
		return id, prev
	}
	return id, NoVariableID
}

// recordReference creates a reference attached to scopeID.
func (t *Table) recordReference(scopeID ScopeID, node ast.NodeID, span source.Span, access RefAccess, flags RefFlags) ReferenceID {
	scope := t.Scopes.Get(scopeID)
	if scope == nil {
		panic(fmt.Sprintf("binding: reference into invalid scope %d", scopeID))
	}
	id := t.Refs.New(&Reference{
		Node:   node,
		Scope:  scopeID,
		Span:   span,
		Access: access,
		Flags:  flags,
	})
	scope.Refs = append(scope.Refs, id)
	return id
}

// lookupLocal returns the newest variable for name in the scope's own table
// for the given namespace, honoring the unified-namespace dialect flag.
func (t *Table) lookupLocal(scopeID ScopeID, name source.StringID, space Space) VariableID {
	scope := t.Scopes.Get(scopeID)
	if scope == nil {
		return NoVariableID
	}
	if bucket := scope.table(space)[name]; len(bucket) > 0 {
		return bucket[len(bucket)-1]
	}
	if t.dialect.UnifiedNamespaces {
		other := SpaceValue
		if space == SpaceValue {
			other = SpaceType
		}
		if bucket := scope.table(other)[name]; len(bucket) > 0 {
			return bucket[len(bucket)-1]
		}
	}
	return NoVariableID
}
