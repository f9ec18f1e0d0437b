package binding

import (
	"bindery/internal/ast"
	"bindery/internal/source"
)

// DefKind classifies one declaration site.
type DefKind uint8

const (
	DefInvalid DefKind = iota
	DefVar
	DefLet
	DefConst
	DefFunction
	DefClass
	DefParameter
	DefImport
	DefCatchParam
	DefTypeAlias
	DefInterface
	DefEnum
	DefEnumMember
	DefNamespace
	DefTypeParam
)

func (k DefKind) String() string {
	switch k {
	case DefVar:
		return "var"
	case DefLet:
		return "let"
	case DefConst:
		return "const"
	case DefFunction:
		return "function"
	case DefClass:
		return "class"
	case DefParameter:
		return "parameter"
	case DefImport:
		return "import"
	case DefCatchParam:
		return "catch-param"
	case DefTypeAlias:
		return "type-alias"
	case DefInterface:
		return "interface"
	case DefEnum:
		return "enum"
	case DefEnumMember:
		return "enum-member"
	case DefNamespace:
		return "namespace"
	case DefTypeParam:
		return "type-param"
	default:
		return "invalid"
	}
}

// Hoisted reports whether a declaration of this kind attaches to the nearest
// hoist boundary rather than the lexically nearest scope.
func (k DefKind) Hoisted() bool {
	return k == DefVar || k == DefFunction
}

// tdzSensitive reports whether referencing a declaration of this kind before
// its declaration point is a temporal-dead-zone use.
func (k DefKind) tdzSensitive() bool {
	switch k {
	case DefLet, DefConst, DefClass:
		return true
	default:
		return false
	}
}

// Definition is one syntactic declaration site contributing to a Variable.
type Definition struct {
	Kind     DefKind
	Node     ast.NodeID // declaring node (declarator, param, decl)
	DeclList ast.NodeID // owning declaration list, if any (the var_decl node)
	NameSpan source.Span
}

// VarFlags encode derived attributes for quick checks.
type VarFlags uint8

const (
	// VarFlagUsed marks a variable with at least one read or read-write
	// reference.
	VarFlagUsed VarFlags = 1 << iota
	// VarFlagExported marks a variable declared under an export.
	VarFlagExported
	// VarFlagParameter marks a function parameter.
	VarFlagParameter
	// VarFlagTypeOnly marks a binding that exists only in the type
	// namespace.
	VarFlagTypeOnly
	// VarFlagImplicitGlobal marks a root-scope variable materialized from
	// an unresolved reference rather than a declaration.
	VarFlagImplicitGlobal
)

// Strings returns textual flag labels, mostly for debug output.
func (f VarFlags) Strings() []string {
	if f == 0 {
		return nil
	}
	labels := make([]string, 0, 5)
	if f&VarFlagUsed != 0 {
		labels = append(labels, "used")
	}
	if f&VarFlagExported != 0 {
		labels = append(labels, "exported")
	}
	if f&VarFlagParameter != 0 {
		labels = append(labels, "parameter")
	}
	if f&VarFlagTypeOnly != 0 {
		labels = append(labels, "type-only")
	}
	if f&VarFlagImplicitGlobal != 0 {
		labels = append(labels, "implicit-global")
	}
	return labels
}

// Variable is the identity a declared name resolves to. A variable may have
// several definition sites (merged declarations, var redeclarations) but is
// owned by exactly one scope.
type Variable struct {
	Name   source.StringID
	Scope  ScopeID
	Spaces Space
	Defs   []DefinitionID // declaration order
	Refs   []ReferenceID  // resolution order
	Flags  VarFlags
}

// TDZSensitive reports whether every definition of the variable is
// block-scoped, i.e. a reference before the first declaration point is a
// dead-zone use.
func (v *Variable) TDZSensitive(defs *Definitions) bool {
	if len(v.Defs) == 0 {
		return false
	}
	for _, defID := range v.Defs {
		def := defs.Get(defID)
		if def == nil || !def.Kind.tdzSensitive() {
			return false
		}
	}
	return true
}
