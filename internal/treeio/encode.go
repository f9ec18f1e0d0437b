package treeio

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/vmihailenco/msgpack/v5"

	"bindery/internal/ast"
	"bindery/internal/source"
)

// Encode serializes the builder's node table into a tree document. Node
// order follows the arena, so Decode(Encode(tree)) reproduces the same IDs.
func Encode(tree *ast.Builder, root ast.NodeID, format Format) ([]byte, error) {
	if tree == nil || tree.Get(root) == nil {
		return nil, fmt.Errorf("encode: root %d is not part of the tree", root)
	}
	doc := document{
		Schema: SchemaVersion,
		Root:   int(root) - 1,
		Nodes:  make([]wireNode, 0, tree.Len()),
	}
	for i := 1; i <= tree.Len(); i++ {
		n := tree.Get(ast.NodeID(i))
		wn := wireNode{
			Start: n.Span.Start,
			End:   n.Span.End,
		}
		if ast.KnownKind(n.Kind) {
			wn.Kind = n.Kind.String()
		} else {
			wn.KindID = uint16(n.Kind)
		}
		if n.Name != source.NoStringID {
			wn.Name = tree.Strings.MustLookup(n.Name)
		}
		if n.Mode != ast.ModeNone {
			wn.Mode = n.Mode.String()
		}
		if n.Op == ast.OpCompound {
			wn.Op = "compound"
		}
		for _, entry := range wireFlags {
			if n.Flags&entry.flag != 0 {
				wn.Flags = append(wn.Flags, entry.name)
			}
		}
		for _, child := range n.Children {
			wn.Children = append(wn.Children, int(child)-1)
		}
		doc.Nodes = append(doc.Nodes, wn)
	}
	switch format {
	case FormatMsgpack:
		return msgpack.Marshal(&doc)
	default:
		return json.MarshalIndent(&doc, "", "  ")
	}
}

// EncodeFile writes the serialized tree to path, resolving FormatAuto from
// the extension.
func EncodeFile(path string, tree *ast.Builder, root ast.NodeID, format Format) error {
	data, err := Encode(tree, root, DetectFormat(path, format))
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
