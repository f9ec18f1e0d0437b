package binding

import (
	"fmt"

	"github.com/BurntSushi/toml"

	"bindery/internal/ast"
)

// Dialect fixes which node kinds the binder recognizes: which introduce
// scopes (and of what kind), and which register declarations. Everything
// else is walked as a plain expression, so the engine degrades gracefully on
// syntax extensions it has not been taught.
type Dialect struct {
	Name string

	// Scopes maps a scope-introducing node kind to the scope kind it
	// opens.
	Scopes map[ast.NodeKind]ScopeKind

	// Decls is the set of declaration node kinds the binder registers.
	Decls map[ast.NodeKind]bool

	// UnifiedNamespaces makes lookup fall back to the other namespace when
	// a name is missing from the primary one, for dialects that treat type
	// and value declarations of one spelling as a single binding.
	UnifiedNamespaces bool

	// ModuleStrict applies strict-mode-like semantics to the program root
	// even without an explicit strict flag on the node.
	ModuleStrict bool
}

// Base returns the untyped dialect: functions, blocks, classes, switch,
// catch and for heads introduce scopes; type-level constructs are walked as
// plain expressions.
func Base() Dialect {
	return Dialect{
		Name: "base",
		Scopes: map[ast.NodeKind]ScopeKind{
			ast.KindFunctionDecl: ScopeFunction,
			ast.KindFunctionExpr: ScopeFunction,
			ast.KindBlock:        ScopeBlock,
			ast.KindClassDecl:    ScopeClass,
			ast.KindSwitch:       ScopeSwitch,
			ast.KindCatch:        ScopeCatch,
			ast.KindFor:          ScopeFor,
		},
		Decls: map[ast.NodeKind]bool{
			ast.KindFunctionDecl:  true,
			ast.KindFunctionExpr:  true,
			ast.KindParam:         true,
			ast.KindVarDecl:       true,
			ast.KindClassDecl:     true,
			ast.KindImport:        true,
			ast.KindImportBinding: true,
			ast.KindCatch:         true,
		},
	}
}

// Typed returns the typed superset dialect: everything in Base plus enums,
// namespaces, interfaces, type aliases, type parameters and conditional
// types.
func Typed() Dialect {
	d := Base()
	d.Name = "typed"
	d.Scopes[ast.KindEnumDecl] = ScopeEnum
	d.Scopes[ast.KindNamespaceDecl] = ScopeNamespace
	d.Scopes[ast.KindConditionalType] = ScopeConditionalType
	d.Decls[ast.KindEnumDecl] = true
	d.Decls[ast.KindEnumMember] = true
	d.Decls[ast.KindNamespaceDecl] = true
	d.Decls[ast.KindTypeAlias] = true
	d.Decls[ast.KindInterfaceDecl] = true
	d.Decls[ast.KindTypeParam] = true
	d.Decls[ast.KindInferType] = true
	return d
}

// introduces returns the scope kind opened by a node kind, if any.
func (d *Dialect) introduces(k ast.NodeKind) (ScopeKind, bool) {
	kind, ok := d.Scopes[k]
	return kind, ok
}

// declares reports whether the binder registers declarations for this kind.
func (d *Dialect) declares(k ast.NodeKind) bool {
	return d.Decls[k]
}

// dialectFile is the on-disk TOML shape.
//
//	name = "typed"
//	unified_namespaces = false
//	module_strict = true
//
//	[scopes]
//	block = "block"
//	function_decl = "function"
//
//	[decls]
//	var_decl = true
type dialectFile struct {
	Name              string            `toml:"name"`
	Extends           string            `toml:"extends"`
	UnifiedNamespaces bool              `toml:"unified_namespaces"`
	ModuleStrict      bool              `toml:"module_strict"`
	Scopes            map[string]string `toml:"scopes"`
	Decls             map[string]bool   `toml:"decls"`
}

// LoadDialect reads a dialect description from a TOML file. A file may
// extend one of the presets ("base" or "typed") and override entries, or
// define the whole dialect from scratch.
func LoadDialect(path string) (Dialect, error) {
	var file dialectFile
	if _, err := toml.DecodeFile(path, &file); err != nil {
		return Dialect{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	return dialectFromFile(path, file)
}

func dialectFromFile(path string, file dialectFile) (Dialect, error) {
	var d Dialect
	switch file.Extends {
	case "", "none":
		d = Dialect{
			Scopes: make(map[ast.NodeKind]ScopeKind),
			Decls:  make(map[ast.NodeKind]bool),
		}
	case "base":
		d = Base()
	case "typed":
		d = Typed()
	default:
		return Dialect{}, fmt.Errorf("%s: unknown preset %q", path, file.Extends)
	}
	if file.Name != "" {
		d.Name = file.Name
	}
	d.UnifiedNamespaces = file.UnifiedNamespaces
	d.ModuleStrict = file.ModuleStrict

	for nodeName, scopeName := range file.Scopes {
		nodeKind, ok := ast.KindByName(nodeName)
		if !ok {
			return Dialect{}, fmt.Errorf("%s: unknown node kind %q in [scopes]", path, nodeName)
		}
		scopeKind, ok := ScopeKindByName(scopeName)
		if !ok {
			return Dialect{}, fmt.Errorf("%s: unknown scope kind %q for %q", path, scopeName, nodeName)
		}
		d.Scopes[nodeKind] = scopeKind
	}
	for nodeName, on := range file.Decls {
		nodeKind, ok := ast.KindByName(nodeName)
		if !ok {
			return Dialect{}, fmt.Errorf("%s: unknown node kind %q in [decls]", path, nodeName)
		}
		if on {
			d.Decls[nodeKind] = true
		} else {
			delete(d.Decls, nodeKind)
		}
	}
	return d, nil
}
