package binding

import (
	"fmt"

	"bindery/internal/ast"
	"bindery/internal/diag"
	"bindery/internal/source"
)

// refContext carries the syntactic classification for identifiers reached
// below the current node: how they access their target, whether they sit in
// a type position, and whether declarations at this level are exported.
type refContext struct {
	access   RefAccess
	typePos  bool
	exported bool
}

// binder performs the single depth-first registration pass: scopes,
// definitions and references, in source order. No resolution happens here.
type binder struct {
	tree     *ast.Builder
	table    *Table
	dialect  Dialect
	reporter diag.Reporter
	stack    []ScopeID
}

func (b *binder) current() ScopeID {
	if len(b.stack) == 0 {
		return NoScopeID
	}
	return b.stack[len(b.stack)-1]
}

// enter creates a child scope of the current one and pushes it. Strictness
// is inherited.
func (b *binder) enter(kind ScopeKind, node ast.NodeID) ScopeID {
	parent := b.current()
	strict := false
	if parentScope := b.table.Scopes.Get(parent); parentScope != nil {
		strict = parentScope.Strict
	}
	n := b.tree.Get(node)
	if n != nil && n.Flags&ast.FlagStrict != 0 {
		strict = true
	}
	scope := b.table.newScope(kind, parent, node, n.Span, strict)
	b.stack = append(b.stack, scope)
	return scope
}

// leave pops the current scope, validating against the expected one. A
// mismatch is a walker bug; it is reported and the stack repaired.
func (b *binder) leave(expected ScopeID) {
	if len(b.stack) == 0 {
		return
	}
	top := b.stack[len(b.stack)-1]
	b.stack = b.stack[:len(b.stack)-1]
	if expected.IsValid() && top != expected {
		b.reportScopeMismatch(expected, top)
	}
}

// hoistTarget returns the innermost scope on the stack that var-like and
// function declarations attach to.
func (b *binder) hoistTarget() ScopeID {
	for i := len(b.stack) - 1; i >= 0; i-- {
		scope := b.table.Scopes.Get(b.stack[i])
		if scope != nil && scope.Kind.HoistBoundary() {
			return b.stack[i]
		}
	}
	return b.table.Root
}

func (b *binder) walkChildren(id ast.NodeID, ctx refContext) {
	n := b.tree.Get(id)
	if n == nil {
		return
	}
	for _, child := range n.Children {
		b.walk(child, ctx)
	}
}

func (b *binder) walk(id ast.NodeID, ctx refContext) {
	n := b.tree.Get(id)
	if n == nil {
		return
	}
	switch n.Kind {
	case ast.KindIdentifier:
		b.reference(id, n, ctx)
	case ast.KindLiteral:
		// nothing to bind
	case ast.KindFunctionDecl, ast.KindFunctionExpr:
		b.bindFunction(id, n, ctx)
	case ast.KindVarDecl:
		b.bindVarDecl(id, n, ctx)
	case ast.KindClassDecl:
		b.bindClass(id, n, ctx)
	case ast.KindImport:
		b.bindImport(id, n)
	case ast.KindExport:
		b.bindExport(id, n)
	case ast.KindEnumDecl:
		b.bindEnum(id, n, ctx)
	case ast.KindNamespaceDecl:
		b.bindNamespace(id, n, ctx)
	case ast.KindInterfaceDecl:
		b.bindInterface(id, n, ctx)
	case ast.KindTypeAlias:
		b.bindTypeAlias(id, n, ctx)
	case ast.KindConditionalType:
		b.bindConditionalType(id, n)
	case ast.KindInferType:
		b.bindInfer(id, n)
	case ast.KindTypeAnnotation:
		b.walkChildren(id, refContext{typePos: true})
	case ast.KindTypeRef:
		b.bindTypeRef(id, n)
	case ast.KindAssign:
		b.bindAssign(id, n)
	case ast.KindUpdate:
		b.bindUpdate(id, n)
	case ast.KindMember:
		b.bindMember(id, n, ctx)
	case ast.KindCatch:
		b.bindCatch(id, n)
	case ast.KindSwitch:
		b.bindSwitch(id, n, ctx)
	default:
		// Statements, remaining expressions, and kinds this dialect does
		// not know. Scope-introducing kinds (block, for head, extensions)
		// still open their scope; everything else degrades to a plain
		// child walk.
		next := refContext{typePos: ctx.typePos}
		if kind, ok := b.dialect.introduces(n.Kind); ok {
			scope := b.enter(kind, id)
			b.walkChildren(id, next)
			b.leave(scope)
			return
		}
		b.walkChildren(id, next)
	}
}

// reference records one identifier use in the innermost scope.
func (b *binder) reference(id ast.NodeID, n *ast.Node, ctx refContext) {
	if n.Name == source.NoStringID {
		return
	}
	var flags RefFlags
	if ctx.typePos {
		flags |= RefFlagTypePosition
	}
	b.table.recordReference(b.current(), id, n.Span, ctx.access, flags)
}

// walkTarget classifies the left-hand side of an assignment. Direct
// identifiers get the write access; member stores read their object;
// unknown container kinds (future pattern syntax) propagate the access down
// to the identifiers they hold.
func (b *binder) walkTarget(id ast.NodeID, access RefAccess) {
	n := b.tree.Get(id)
	if n == nil {
		return
	}
	switch {
	case n.Kind == ast.KindIdentifier:
		b.reference(id, n, refContext{access: access})
	case n.Kind == ast.KindMember:
		b.bindMember(id, n, refContext{})
	case !ast.KnownKind(n.Kind):
		for _, child := range n.Children {
			b.walkTarget(child, access)
		}
	default:
		b.walk(id, refContext{})
	}
}

func (b *binder) bindAssign(id ast.NodeID, n *ast.Node) {
	if len(n.Children) == 0 {
		return
	}
	access := RefWrite
	if n.Op == ast.OpCompound {
		access = RefReadWrite
	}
	b.walkTarget(n.Children[0], access)
	for _, child := range n.Children[1:] {
		b.walk(child, refContext{})
	}
}

func (b *binder) bindUpdate(id ast.NodeID, n *ast.Node) {
	for _, child := range n.Children {
		b.walkTarget(child, RefReadWrite)
	}
}

func (b *binder) bindMember(id ast.NodeID, n *ast.Node, ctx refContext) {
	if len(n.Children) == 0 {
		return
	}
	b.walk(n.Children[0], refContext{typePos: ctx.typePos})
	// The property name is not a variable reference unless computed.
	if n.Flags&ast.FlagComputed != 0 && len(n.Children) > 1 {
		b.walk(n.Children[1], refContext{typePos: ctx.typePos})
	}
}

func (b *binder) bindTypeRef(id ast.NodeID, n *ast.Node) {
	if n.Name != source.NoStringID {
		b.table.recordReference(b.current(), id, n.Span, RefRead, RefFlagTypePosition)
	}
	b.walkChildren(id, refContext{typePos: true})
}

func (b *binder) bindSwitch(id ast.NodeID, n *ast.Node, ctx refContext) {
	kind, ok := b.dialect.introduces(n.Kind)
	if !ok {
		b.walkChildren(id, refContext{typePos: ctx.typePos})
		return
	}
	// The discriminant is evaluated outside the case scope.
	if len(n.Children) > 0 {
		b.walk(n.Children[0], refContext{})
	}
	scope := b.enter(kind, id)
	for _, child := range n.Children[1:] {
		b.walk(child, refContext{})
	}
	b.leave(scope)
}

func (b *binder) bindCatch(id ast.NodeID, n *ast.Node) {
	kind, ok := b.dialect.introduces(n.Kind)
	if !ok {
		b.walkChildren(id, refContext{})
		return
	}
	scope := b.enter(kind, id)
	for _, child := range n.Children {
		c := b.tree.Get(child)
		if c != nil && c.Kind == ast.KindParam && b.dialect.declares(ast.KindCatch) {
			b.declareName(b.current(), c.Name, SpaceValue, Definition{
				Kind:     DefCatchParam,
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

func (b *binder) reportScopeMismatch(expected, actual ScopeID) {
	label := func(id ScopeID) string {
		if scope := b.table.Scopes.Get(id); scope != nil {
			return fmt.Sprintf("%s scope #%d", scope.Kind, id)
		}
		return fmt.Sprintf("scope #%d", id)
	}
	var primary = b.tree.Get(b.table.Scopes.Get(actual).Node).Span
	msg := fmt.Sprintf("scope stack mismatch: closing %s while expecting %s", label(actual), label(expected))
	diag.ReportWarning(b.reporter, diag.BindScopeMismatch, primary, msg).Emit()
}
