package binding

import (
	"os"
	"path/filepath"
	"testing"

	"bindery/internal/ast"
)

func writeDialect(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dialect.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write dialect file: %v", err)
	}
	return path
}

func TestLoadDialectExtendsPreset(t *testing.T) {
	path := writeDialect(t, `
name = "strict-typed"
extends = "typed"
module_strict = true

[decls]
infer_type = false
`)
	d, err := LoadDialect(path)
	if err != nil {
		t.Fatalf("LoadDialect: %v", err)
	}
	if d.Name != "strict-typed" {
		t.Fatalf("name = %q", d.Name)
	}
	if !d.ModuleStrict {
		t.Fatalf("module_strict not applied")
	}
	if !d.declares(ast.KindEnumDecl) {
		t.Fatalf("typed preset entries must survive extension")
	}
	if d.declares(ast.KindInferType) {
		t.Fatalf("overridden decl must be removed")
	}
}

func TestLoadDialectFromScratch(t *testing.T) {
	path := writeDialect(t, `
name = "mini"

[scopes]
block = "block"
function_decl = "function"

[decls]
var_decl = true
function_decl = true
`)
	d, err := LoadDialect(path)
	if err != nil {
		t.Fatalf("LoadDialect: %v", err)
	}
	if kind, ok := d.introduces(ast.KindBlock); !ok || kind != ScopeBlock {
		t.Fatalf("block mapping missing, got %v %v", kind, ok)
	}
	if d.declares(ast.KindClassDecl) {
		t.Fatalf("scratch dialect must not inherit preset decls")
	}
}

func TestLoadDialectRejectsUnknownNames(t *testing.T) {
	for _, body := range []string{
		"extends = \"nope\"\n",
		"[scopes]\nmystery = \"block\"\n",
		"[scopes]\nblock = \"mystery\"\n",
		"[decls]\nmystery = true\n",
	} {
		path := writeDialect(t, body)
		if _, err := LoadDialect(path); err == nil {
			t.Fatalf("expected error for %q", body)
		}
	}
}

func TestMiniDialectIgnoresTypedConstructs(t *testing.T) {
	m := newMaker()
	program := m.node(ast.NoNodeID, ast.KindProgram)
	m.named(program, ast.KindInterfaceDecl, "I")
	m.varDecl(program, ast.ModeVar, "x")

	tbl := m.analyze(t, program, Options{Dialect: Base()})

	if v := tbl.lookupLocal(tbl.ModuleScope(), m.stringID(t, "I"), SpaceType); v.IsValid() {
		t.Fatalf("base dialect must not register interface declarations")
	}
	findVar(t, tbl, tbl.ModuleScope(), "x", SpaceValue)
}
