package binding

import (
	"fmt"

	"bindery/internal/ast"
	"bindery/internal/diag"
	"bindery/internal/source"
)

// declareName registers one definition and reports when a previous
// same-scope binding was superseded: a duplicate for equal declaration
// kinds, an incompatible redeclaration otherwise.
func (b *binder) declareName(scopeID ScopeID, name source.StringID, spaces Space, def Definition, flags VarFlags, exported bool) VariableID {
	if name == source.NoStringID {
		return NoVariableID
	}
	if exported {
		flags |= VarFlagExported
	}
	id, superseded := b.table.declare(scopeID, name, spaces, def, flags)
	if superseded.IsValid() {
		b.reportRedecl(name, def, superseded)
	}
	return id
}

func (b *binder) reportRedecl(name source.StringID, def Definition, prev VariableID) {
	nameStr := b.table.Strings.MustLookup(name)
	code := diag.BindIncompatibleRedecl
	msg := fmt.Sprintf("declaration of '%s' supersedes earlier incompatible declaration", nameStr)
	prevVar := b.table.Vars.Get(prev)
	if prevVar != nil && len(prevVar.Defs) > 0 {
		if lastDef := b.table.Defs.Get(prevVar.Defs[len(prevVar.Defs)-1]); lastDef != nil && lastDef.Kind == def.Kind {
			code = diag.BindDuplicateDecl
			msg = fmt.Sprintf("duplicate declaration of '%s'", nameStr)
		}
	}
	builder := diag.ReportWarning(b.reporter, code, def.NameSpan, msg)
	if prevVar != nil && len(prevVar.Defs) > 0 {
		if prevDef := b.table.Defs.Get(prevVar.Defs[0]); prevDef != nil && !prevDef.NameSpan.Empty() {
			builder.WithNote(prevDef.NameSpan, "previous declaration here")
		}
	}
	builder.Emit()
}

// reportShadow emits an informational note when a fresh binding hides a
// same-named variable in an outer scope.
func (b *binder) reportShadow(id VariableID, span source.Span) {
	if !id.IsValid() {
		return
	}
	outer := b.table.Shadows(id)
	if !outer.IsValid() {
		return
	}
	v := b.table.Vars.Get(id)
	msg := fmt.Sprintf("declaration of '%s' shadows an outer binding", b.table.Strings.MustLookup(v.Name))
	builder := diag.ReportInfo(b.reporter, diag.BindShadowedDecl, span, msg)
	if outerVar := b.table.Vars.Get(outer); len(outerVar.Defs) > 0 {
		if outerDef := b.table.Defs.Get(outerVar.Defs[0]); outerDef != nil && !outerDef.NameSpan.Empty() {
			builder.WithNote(outerDef.NameSpan, "shadowed declaration here")
		}
	}
	builder.Emit()
}

// bindFunction handles both declarations and expressions. A declaration's
// name hoists to the nearest function-like scope; an expression's name is
// visible only inside its own scope. Parameters live in the function scope,
// created before the body block, so defaults see earlier parameters.
func (b *binder) bindFunction(id ast.NodeID, n *ast.Node, ctx refContext) {
	declared := b.dialect.declares(n.Kind)
	if declared && n.Kind == ast.KindFunctionDecl && n.Name != source.NoStringID {
		b.declareName(b.hoistTarget(), n.Name, SpaceValue, Definition{
			Kind:     DefFunction,
			Node:     id,
			NameSpan: n.Span,
		}, 0, ctx.exported)
	}

	kind, ok := b.dialect.introduces(n.Kind)
	if !ok {
		b.walkChildren(id, refContext{})
		return
	}
	scope := b.enter(kind, id)
	if declared && n.Kind == ast.KindFunctionExpr && n.Name != source.NoStringID {
		b.declareName(scope, n.Name, SpaceValue, Definition{
			Kind:     DefFunction,
			Node:     id,
			NameSpan: n.Span,
		}, 0, false)
	}
	for _, child := range n.Children {
		c := b.tree.Get(child)
		if c == nil {
			continue
		}
		switch c.Kind {
		case ast.KindTypeParams:
			b.bindTypeParams(child)
		case ast.KindParamList:
			b.bindParamList(child)
		case ast.KindTypeAnnotation:
			b.walkChildren(child, refContext{typePos: true})
		default:
			b.walk(child, refContext{})
		}
	}
	b.leave(scope)
}

// bindParamList declares each parameter into the current (function) scope,
// then walks its type annotation and default value. Defaults are evaluated
// left to right, so a default only sees parameters declared before it.
func (b *binder) bindParamList(id ast.NodeID) {
	n := b.tree.Get(id)
	if n == nil {
		return
	}
	for _, child := range n.Children {
		c := b.tree.Get(child)
		if c == nil || c.Kind != ast.KindParam {
			b.walk(child, refContext{})
			continue
		}
		pid := b.declareName(b.current(), c.Name, SpaceValue, Definition{
			Kind:     DefParameter,
			Node:     child,
			DeclList: id,
			NameSpan: c.Span,
		}, VarFlagParameter, false)
		b.reportShadow(pid, c.Span)
		for _, pc := range c.Children {
			pcn := b.tree.Get(pc)
			if pcn != nil && pcn.Kind == ast.KindTypeAnnotation {
				b.walkChildren(pc, refContext{typePos: true})
				continue
			}
			b.walk(pc, refContext{})
		}
	}
}

// bindTypeParams declares type parameters into the current scope's type
// namespace and walks their constraints/defaults in type position.
func (b *binder) bindTypeParams(id ast.NodeID) {
	n := b.tree.Get(id)
	if n == nil {
		return
	}
	for _, child := range n.Children {
		c := b.tree.Get(child)
		if c == nil {
			continue
		}
		if c.Kind == ast.KindTypeParam && b.dialect.declares(ast.KindTypeParam) {
			b.declareName(b.current(), c.Name, SpaceType, Definition{
				Kind:     DefTypeParam,
				Node:     child,
				DeclList: id,
				NameSpan: c.Span,
			}, 0, false)
		}
		b.walkChildren(child, refContext{typePos: true})
	}
}

// bindVarDecl registers every declarator of one declaration list. var
// declarators hoist to the nearest function-like scope; let/const attach to
// the lexically nearest scope and stay TDZ-sensitive.
func (b *binder) bindVarDecl(id ast.NodeID, n *ast.Node, ctx refContext) {
	if !b.dialect.declares(n.Kind) {
		b.walkChildren(id, refContext{})
		return
	}
	target := b.current()
	defKind := DefLet
	switch n.Mode {
	case ast.ModeVar:
		target = b.hoistTarget()
		defKind = DefVar
	case ast.ModeConst:
		defKind = DefConst
	}
	for _, child := range n.Children {
		c := b.tree.Get(child)
		if c == nil || c.Kind != ast.KindDeclarator {
			b.walk(child, refContext{})
			continue
		}
		vid := b.declareName(target, c.Name, SpaceValue, Definition{
			Kind:     defKind,
			Node:     child,
			DeclList: id,
			NameSpan: c.Span,
		}, 0, ctx.exported)
		b.reportShadow(vid, c.Span)
		initialized := false
		for _, init := range c.Children {
			initNode := b.tree.Get(init)
			if initNode != nil && initNode.Kind == ast.KindTypeAnnotation {
				b.walkChildren(init, refContext{typePos: true})
				continue
			}
			initialized = true
			b.walk(init, refContext{})
		}
		// The initializer stores into the fresh binding.
		if initialized {
			b.table.recordReference(b.current(), child, c.Span, RefWrite, RefFlagInit)
		}
	}
}

// bindClass declares the class name in the enclosing scope (both
// namespaces) and again inside the class's own scope, where the body sees
// it regardless of outer shadowing.
func (b *binder) bindClass(id ast.NodeID, n *ast.Node, ctx refContext) {
	if b.dialect.declares(n.Kind) {
		b.declareName(b.current(), n.Name, SpaceBoth, Definition{
			Kind:     DefClass,
			Node:     id,
			NameSpan: n.Span,
		}, 0, ctx.exported)
	}
	kind, ok := b.dialect.introduces(n.Kind)
	if !ok {
		b.walkChildren(id, refContext{})
		return
	}
	scope := b.enter(kind, id)
	if b.dialect.declares(n.Kind) && n.Name != source.NoStringID {
		b.declareName(scope, n.Name, SpaceBoth, Definition{
			Kind:     DefClass,
			Node:     id,
			NameSpan: n.Span,
		}, 0, false)
	}
	for _, child := range n.Children {
		c := b.tree.Get(child)
		if c != nil && c.Kind == ast.KindTypeParams {
			b.bindTypeParams(child)
			continue
		}
		b.walk(child, refContext{})
	}
	b.leave(scope)
}

// bindImport declares every import binding at module scope. Bindings occupy
// both namespaces unless the import is type-only.
func (b *binder) bindImport(id ast.NodeID, n *ast.Node) {
	if !b.dialect.declares(n.Kind) {
		b.walkChildren(id, refContext{})
		return
	}
	typeOnly := n.Flags&ast.FlagTypeOnly != 0
	for _, child := range n.Children {
		c := b.tree.Get(child)
		if c == nil || c.Kind != ast.KindImportBinding {
			continue
		}
		spaces := SpaceBoth
		var flags VarFlags
		if typeOnly || c.Flags&ast.FlagTypeOnly != 0 {
			spaces = SpaceType
			flags |= VarFlagTypeOnly
		}
		b.declareName(b.table.Module, c.Name, spaces, Definition{
			Kind:     DefImport,
			Node:     child,
			DeclList: id,
			NameSpan: c.Span,
		}, flags, false)
	}
}

// bindExport marks declarations under it as exported; bare identifier
// children (`export { x }`) are read references.
func (b *binder) bindExport(id ast.NodeID, n *ast.Node) {
	for _, child := range n.Children {
		c := b.tree.Get(child)
		if c == nil {
			continue
		}
		if c.Kind == ast.KindIdentifier {
			b.reference(child, c, refContext{})
			continue
		}
		b.walk(child, refContext{exported: true})
	}
}

// bindEnum declares the enum name (mergeable across partial declarations)
// and its members inside the enum scope.
func (b *binder) bindEnum(id ast.NodeID, n *ast.Node, ctx refContext) {
	if !b.dialect.declares(n.Kind) {
		b.walkChildren(id, refContext{})
		return
	}
	b.declareName(b.current(), n.Name, SpaceBoth, Definition{
		Kind:     DefEnum,
		Node:     id,
		NameSpan: n.Span,
	}, 0, ctx.exported)

	kind, ok := b.dialect.introduces(n.Kind)
	if !ok {
		b.walkChildren(id, refContext{})
		return
	}
	scope := b.enter(kind, id)
	for _, child := range n.Children {
		c := b.tree.Get(child)
		if c != nil && c.Kind == ast.KindEnumMember && b.dialect.declares(ast.KindEnumMember) {
			b.declareName(scope, c.Name, SpaceValue, Definition{
				Kind:     DefEnumMember,
				Node:     child,
				DeclList: id,
				NameSpan: c.Span,
			}, 0, false)
			b.walkChildren(child, refContext{})
			continue
		}
		b.walk(child, refContext{})
	}
	b.leave(scope)
}

// bindNamespace declares the namespace name (mergeable) and opens its body
// scope, which is a hoist boundary of its own.
func (b *binder) bindNamespace(id ast.NodeID, n *ast.Node, ctx refContext) {
	if !b.dialect.declares(n.Kind) {
		b.walkChildren(id, refContext{})
		return
	}
	b.declareName(b.current(), n.Name, SpaceValue, Definition{
		Kind:     DefNamespace,
		Node:     id,
		NameSpan: n.Span,
	}, 0, ctx.exported)

	kind, ok := b.dialect.introduces(n.Kind)
	if !ok {
		b.walkChildren(id, refContext{})
		return
	}
	scope := b.enter(kind, id)
	b.walkChildren(id, refContext{})
	b.leave(scope)
}

// bindInterface declares into the type namespace; interface declarations
// with matching names merge. Type parameters get their own scope.
func (b *binder) bindInterface(id ast.NodeID, n *ast.Node, ctx refContext) {
	if !b.dialect.declares(n.Kind) {
		b.walkChildren(id, refContext{typePos: true})
		return
	}
	b.declareName(b.current(), n.Name, SpaceType, Definition{
		Kind:     DefInterface,
		Node:     id,
		NameSpan: n.Span,
	}, 0, ctx.exported)
	b.bindTypeBody(id, n)
}

// bindTypeAlias declares into the type namespace and walks the aliased type
// in type position.
func (b *binder) bindTypeAlias(id ast.NodeID, n *ast.Node, ctx refContext) {
	if !b.dialect.declares(n.Kind) {
		b.walkChildren(id, refContext{typePos: true})
		return
	}
	b.declareName(b.current(), n.Name, SpaceType, Definition{
		Kind:     DefTypeAlias,
		Node:     id,
		NameSpan: n.Span,
	}, 0, ctx.exported)
	b.bindTypeBody(id, n)
}

// bindTypeBody walks an alias/interface body; when type parameters are
// present they need a scope of their own for the body to resolve against.
func (b *binder) bindTypeBody(id ast.NodeID, n *ast.Node) {
	hasTypeParams := false
	for _, child := range n.Children {
		if c := b.tree.Get(child); c != nil && c.Kind == ast.KindTypeParams {
			hasTypeParams = true
			break
		}
	}
	walkBody := func() {
		for _, child := range n.Children {
			c := b.tree.Get(child)
			if c != nil && c.Kind == ast.KindTypeParams {
				b.bindTypeParams(child)
				continue
			}
			b.walk(child, refContext{typePos: true})
		}
	}
	if !hasTypeParams {
		walkBody()
		return
	}
	scope := b.enter(ScopeType, id)
	walkBody()
	b.leave(scope)
}

// bindConditionalType opens the scope that infer bindings declare into.
func (b *binder) bindConditionalType(id ast.NodeID, n *ast.Node) {
	kind, ok := b.dialect.introduces(n.Kind)
	if !ok {
		b.walkChildren(id, refContext{typePos: true})
		return
	}
	scope := b.enter(kind, id)
	b.walkChildren(id, refContext{typePos: true})
	b.leave(scope)
}

// bindInfer declares an inferred type parameter into the innermost scope,
// normally the enclosing conditional type.
func (b *binder) bindInfer(id ast.NodeID, n *ast.Node) {
	if !b.dialect.declares(n.Kind) {
		b.walkChildren(id, refContext{typePos: true})
		return
	}
	b.declareName(b.current(), n.Name, SpaceType, Definition{
		Kind:     DefTypeParam,
		Node:     id,
		NameSpan: n.Span,
	}, 0, false)
	b.walkChildren(id, refContext{typePos: true})
}
