package driver

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"bindery/internal/binding"
	"bindery/internal/source"
)

const goodTree = `{
  "schema": 1,
  "root": 0,
  "nodes": [
    {"kind": "program", "start": 0, "end": 30, "children": [1, 3]},
    {"kind": "var_decl", "start": 0, "end": 10, "mode": "const", "children": [2]},
    {"kind": "declarator", "name": "answer", "start": 6, "end": 12},
    {"kind": "expr_stmt", "start": 14, "end": 22, "children": [4]},
    {"kind": "identifier", "name": "answer", "start": 14, "end": 20}
  ]
}`

const badTree = `{"schema": 42, "root": 0, "nodes": [{"kind": "program"}]}`

func writeTree(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestAnalyzeFile(t *testing.T) {
	dir := t.TempDir()
	path := writeTree(t, dir, "mod.json", goodTree)

	res, err := AnalyzeFile(source.NewFileSet(), path, Options{Validate: true})
	if err != nil {
		t.Fatalf("AnalyzeFile: %v", err)
	}
	if res.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", res.Bag.Items())
	}
	if res.Table == nil || !res.Table.Resolved() {
		t.Fatalf("analysis did not produce a resolved table")
	}
	vars := res.Table.VariablesOf(res.Table.ModuleScope())
	if len(vars) != 1 {
		t.Fatalf("expected one module variable, got %d", len(vars))
	}
	if refs := res.Table.UsesOf(vars[0]); len(refs) != 1 {
		t.Fatalf("use of answer did not resolve, got %d refs", len(refs))
	}
}

func TestAnalyzeFileMissingPath(t *testing.T) {
	if _, err := AnalyzeFile(source.NewFileSet(), filepath.Join(t.TempDir(), "absent.json"), Options{}); err == nil {
		t.Fatalf("missing file must return an error")
	}
}

func TestAnalyzeDirOrdersResultsByPath(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, "b.json", goodTree)
	writeTree(t, dir, "a.json", goodTree)
	writeTree(t, dir, "broken.json", badTree)
	writeTree(t, dir, "notes.txt", "not a tree")

	results, err := AnalyzeDir(context.Background(), dir, Options{Jobs: 2})
	if err != nil {
		t.Fatalf("AnalyzeDir: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	wantOrder := []string{"a.json", "b.json", "broken.json"}
	for i, res := range results {
		if got := filepath.Base(res.Path); got != wantOrder[i] {
			t.Fatalf("result %d = %s, want %s", i, got, wantOrder[i])
		}
	}
	if results[0].HasErrors() || results[1].HasErrors() {
		t.Fatalf("well formed trees must analyze cleanly")
	}
	if !results[2].HasErrors() {
		t.Fatalf("wrong-schema tree must carry diagnostics")
	}
	if results[2].Table != nil {
		t.Fatalf("broken tree must not produce a table")
	}
}

func TestAnalyzeDirEmpty(t *testing.T) {
	results, err := AnalyzeDir(context.Background(), t.TempDir(), Options{})
	if err != nil || results != nil {
		t.Fatalf("empty dir: results=%v err=%v", results, err)
	}
}

func TestDiskCacheRoundTrip(t *testing.T) {
	cache, err := OpenDiskCacheAt(t.TempDir())
	if err != nil {
		t.Fatalf("OpenDiskCacheAt: %v", err)
	}
	content := []byte(goodTree)
	want := Summary{Schema: cacheSchemaVersion, Scopes: 2, Variables: 1, References: 1}
	cache.Put(content, want)
	got, ok := cache.Get(content)
	if !ok || got != want {
		t.Fatalf("Get = %+v ok=%v, want %+v", got, ok, want)
	}
	if _, ok := cache.Get([]byte("other content")); ok {
		t.Fatalf("different content must miss")
	}
}

func TestAnalyzeDirServesSummariesFromCache(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, "mod.json", goodTree)
	cache, err := OpenDiskCacheAt(t.TempDir())
	if err != nil {
		t.Fatalf("OpenDiskCacheAt: %v", err)
	}
	opts := Options{Cache: cache, SummaryOnly: true}

	first, err := AnalyzeDir(context.Background(), dir, opts)
	if err != nil {
		t.Fatalf("first AnalyzeDir: %v", err)
	}
	if first[0].Table == nil || first[0].Summary == nil {
		t.Fatalf("cold run must analyze and record a summary")
	}

	second, err := AnalyzeDir(context.Background(), dir, opts)
	if err != nil {
		t.Fatalf("second AnalyzeDir: %v", err)
	}
	if second[0].Table != nil {
		t.Fatalf("warm run must be served from the cache without re-analyzing")
	}
	if second[0].Summary == nil || *second[0].Summary != *first[0].Summary {
		t.Fatalf("cached summary %+v differs from computed %+v", second[0].Summary, first[0].Summary)
	}
}

func TestSummarizeCountsUnresolved(t *testing.T) {
	dir := t.TempDir()
	strict := `{
  "schema": 1,
  "root": 0,
  "nodes": [
    {"kind": "program", "start": 0, "end": 20, "flags": ["strict"], "children": [1]},
    {"kind": "assign", "start": 0, "end": 10, "children": [2, 3]},
    {"kind": "identifier", "name": "ghost", "start": 0, "end": 5},
    {"kind": "literal", "start": 8, "end": 9}
  ]
}`
	path := writeTree(t, dir, "strict.json", strict)
	res, err := AnalyzeFile(source.NewFileSet(), path, Options{Dialect: binding.Typed()})
	if err != nil {
		t.Fatalf("AnalyzeFile: %v", err)
	}
	s := Summarize(res.Table)
	if s.Unresolved != 1 {
		t.Fatalf("strict undeclared write must count as unresolved, got %d", s.Unresolved)
	}
	if s.ImplicitGlobals != 0 {
		t.Fatalf("no implicit global expected, got %d", s.ImplicitGlobals)
	}
}
