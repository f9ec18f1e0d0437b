package treeio

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"bindery/internal/ast"
	"bindery/internal/diag"
)

const sampleTree = `{
  "schema": 1,
  "root": 0,
  "nodes": [
    {"kind": "program", "start": 0, "end": 40, "flags": ["strict"], "children": [1, 3]},
    {"kind": "var_decl", "start": 0, "end": 12, "mode": "let", "children": [2]},
    {"kind": "declarator", "name": "x", "start": 4, "end": 5},
    {"kind": "expr_stmt", "start": 14, "end": 16, "children": [4]},
    {"kind": "identifier", "name": "x", "start": 14, "end": 15}
  ]
}`

func TestDecodeBuildsTree(t *testing.T) {
	bag := diag.NewBag(16)
	tree, root, err := Decode([]byte(sampleTree), FormatJSON, 1, diag.BagReporter{Bag: bag})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", bag.Items())
	}
	rootNode := tree.Get(root)
	if rootNode.Kind != ast.KindProgram || rootNode.Flags&ast.FlagStrict == 0 {
		t.Fatalf("root decoded wrong: kind=%v flags=%v", rootNode.Kind, rootNode.Flags)
	}
	if len(rootNode.Children) != 2 {
		t.Fatalf("root children = %d, want 2", len(rootNode.Children))
	}
	decl := tree.Get(rootNode.Children[0])
	if decl.Kind != ast.KindVarDecl || decl.Mode != ast.ModeLet {
		t.Fatalf("decl decoded wrong: kind=%v mode=%v", decl.Kind, decl.Mode)
	}
	declarator := tree.Get(decl.Children[0])
	if got := tree.Strings.MustLookup(declarator.Name); got != "x" {
		t.Fatalf("declarator name %q", got)
	}
}

func TestDecodeRejectsWrongSchema(t *testing.T) {
	if _, _, err := Decode([]byte(`{"schema": 99, "nodes": [{"kind": "program"}]}`), FormatJSON, 1, diag.NopReporter{}); err == nil {
		t.Fatalf("schema 99 must be rejected")
	}
}

func TestDecodeDropsBadNodesButContinues(t *testing.T) {
	damaged := `{
  "schema": 1,
  "root": 0,
  "nodes": [
    {"kind": "program", "start": 0, "end": 10, "children": [1, 2, 9]},
    {"kind": "mystery", "start": 0, "end": 3},
    {"kind": "identifier", "name": "ok", "start": 4, "end": 6}
  ]
}`
	bag := diag.NewBag(16)
	tree, root, err := Decode([]byte(damaged), FormatJSON, 1, diag.BagReporter{Bag: bag})
	if err != nil {
		t.Fatalf("damaged document must still decode: %v", err)
	}
	if !bag.HasErrors() {
		t.Fatalf("expected diagnostics for the dropped node and bad edge")
	}
	rootNode := tree.Get(root)
	if len(rootNode.Children) != 1 {
		t.Fatalf("only the valid child survives, got %d", len(rootNode.Children))
	}
	if got := tree.Get(rootNode.Children[0]).Kind; got != ast.KindIdentifier {
		t.Fatalf("surviving child kind %v", got)
	}
}

func TestDecodeKeepsExtensionKinds(t *testing.T) {
	doc := `{
  "schema": 1,
  "root": 0,
  "nodes": [
    {"kind": "program", "start": 0, "end": 10, "children": [1]},
    {"kind_id": 300, "start": 0, "end": 5}
  ]
}`
	tree, root, err := Decode([]byte(doc), FormatJSON, 1, diag.NopReporter{})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	child := tree.Get(tree.Get(root).Children[0])
	if child.Kind != ast.NodeKind(300) {
		t.Fatalf("extension kind lost: %v", child.Kind)
	}
	if ast.KnownKind(child.Kind) {
		t.Fatalf("kind 300 must not be a known kind")
	}
}

func roundTrip(t *testing.T, format Format) {
	t.Helper()
	bag := diag.NewBag(16)
	tree, root, err := Decode([]byte(sampleTree), FormatJSON, 1, diag.BagReporter{Bag: bag})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	data, err := Encode(tree, root, format)
	if err != nil {
		t.Fatalf("Encode(%s): %v", format, err)
	}
	back, backRoot, err := Decode(data, format, 1, diag.BagReporter{Bag: bag})
	if err != nil {
		t.Fatalf("re-Decode(%s): %v", format, err)
	}
	if backRoot != root {
		t.Fatalf("root changed across round trip: %d -> %d", root, backRoot)
	}
	if diff := cmp.Diff(tree.Nodes(), back.Nodes()); diff != "" {
		t.Fatalf("tree changed across %s round trip:\n%s", format, diff)
	}
}

func TestRoundTripJSON(t *testing.T)    { roundTrip(t, FormatJSON) }
func TestRoundTripMsgpack(t *testing.T) { roundTrip(t, FormatMsgpack) }

func TestDetectFormat(t *testing.T) {
	cases := []struct {
		path string
		want Format
	}{
		{"tree.json", FormatJSON},
		{"tree.mp", FormatMsgpack},
		{"tree.msgpack", FormatMsgpack},
		{"tree", FormatJSON},
	}
	for _, tc := range cases {
		if got := DetectFormat(tc.path, FormatAuto); got != tc.want {
			t.Fatalf("DetectFormat(%q) = %v, want %v", tc.path, got, tc.want)
		}
	}
	if got := DetectFormat("tree.json", FormatMsgpack); got != FormatMsgpack {
		t.Fatalf("explicit format must win over extension")
	}
	if _, err := ParseFormat("yaml"); err == nil {
		t.Fatalf("unknown format name must error")
	}
}
