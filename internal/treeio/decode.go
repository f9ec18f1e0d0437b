package treeio

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/vmihailenco/msgpack/v5"

	"bindery/internal/ast"
	"bindery/internal/diag"
	"bindery/internal/source"
)

var wireFlags = []struct {
	name string
	flag ast.NodeFlags
}{
	{"strict", ast.FlagStrict},
	{"type_only", ast.FlagTypeOnly},
	{"computed", ast.FlagComputed},
	{"exported", ast.FlagExported},
}

// Decode reads one tree document and materializes it onto a fresh builder.
// Hard failures (unreadable payload, wrong schema) return an error.
// Recoverable per-node problems are reported through reporter and the
// offending node or edge is dropped, so a partially damaged document still
// yields an analyzable tree.
func Decode(data []byte, format Format, file source.FileID, reporter diag.Reporter) (*ast.Builder, ast.NodeID, error) {
	var doc document
	var err error
	switch format {
	case FormatMsgpack:
		err = msgpack.Unmarshal(data, &doc)
	default:
		err = json.Unmarshal(data, &doc)
	}
	if err != nil {
		report(reporter, diag.TreeDecodeError, source.Span{File: file},
			fmt.Sprintf("cannot decode %s tree document: %v", format, err))
		return nil, ast.NoNodeID, fmt.Errorf("decode tree document: %w", err)
	}
	if doc.Schema != SchemaVersion {
		msg := fmt.Sprintf("unsupported tree schema %d (want %d)", doc.Schema, SchemaVersion)
		report(reporter, diag.TreeBadSchema, source.Span{File: file}, msg)
		return nil, ast.NoNodeID, fmt.Errorf("%s", msg)
	}
	if len(doc.Nodes) == 0 {
		msg := "tree document has no nodes"
		report(reporter, diag.TreeBadNode, source.Span{File: file}, msg)
		return nil, ast.NoNodeID, fmt.Errorf("%s", msg)
	}
	if doc.Root < 0 || doc.Root >= len(doc.Nodes) {
		msg := fmt.Sprintf("root index %d outside node table of %d", doc.Root, len(doc.Nodes))
		report(reporter, diag.TreeBadNode, source.Span{File: file}, msg)
		return nil, ast.NoNodeID, fmt.Errorf("%s", msg)
	}

	builder := ast.NewBuilder(ast.Hints{Nodes: uint(len(doc.Nodes))}, nil)
	ids := make([]ast.NodeID, len(doc.Nodes))
	for i, wn := range doc.Nodes {
		span := source.Span{File: file, Start: wn.Start, End: wn.End}
		kind, ok := resolveKind(wn)
		if !ok {
			report(reporter, diag.TreeBadNodeKind, span,
				fmt.Sprintf("node %d has unknown kind %q and no kind_id", i, wn.Kind))
			continue
		}
		if wn.Name != "" {
			ids[i] = builder.NewNamed(kind, wn.Name, span)
		} else {
			ids[i] = builder.New(kind, span)
		}
		if mode, ok := ast.DeclModeByName(wn.Mode); ok {
			builder.SetMode(ids[i], mode)
		} else {
			report(reporter, diag.TreeBadNode, span,
				fmt.Sprintf("node %d has unknown declaration mode %q", i, wn.Mode))
		}
		if wn.Op == "compound" {
			builder.SetOp(ids[i], ast.OpCompound)
		}
		for _, name := range wn.Flags {
			flag, ok := flagByName(name)
			if !ok {
				report(reporter, diag.TreeBadNode, span,
					fmt.Sprintf("node %d has unknown flag %q", i, name))
				continue
			}
			builder.SetFlags(ids[i], flag)
		}
	}

	for i, wn := range doc.Nodes {
		if !ids[i].IsValid() {
			continue
		}
		for _, child := range wn.Children {
			switch {
			case child < 0 || child >= len(doc.Nodes):
				report(reporter, diag.TreeBadNode, builder.Get(ids[i]).Span,
					fmt.Sprintf("node %d references child %d outside the node table", i, child))
			case !ids[child].IsValid():
				report(reporter, diag.TreeDanglingChild, builder.Get(ids[i]).Span,
					fmt.Sprintf("node %d references dropped child %d", i, child))
			case builder.Get(ids[child]).Parent.IsValid():
				report(reporter, diag.TreeBadNode, builder.Get(ids[i]).Span,
					fmt.Sprintf("node %d is claimed by two parents", child))
			default:
				builder.AddChild(ids[i], ids[child])
			}
		}
	}

	root := ids[doc.Root]
	if !root.IsValid() {
		msg := fmt.Sprintf("root node %d was dropped during decoding", doc.Root)
		report(reporter, diag.TreeBadNode, source.Span{File: file}, msg)
		return nil, ast.NoNodeID, fmt.Errorf("%s", msg)
	}
	return builder, root, nil
}

// DecodeFile reads path with the format resolved from the extension when
// format is FormatAuto.
func DecodeFile(path string, format Format, file source.FileID, reporter diag.Reporter) (*ast.Builder, ast.NodeID, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		report(reporter, diag.IOLoadFileError, source.Span{File: file},
			fmt.Sprintf("cannot read %s: %v", path, err))
		return nil, ast.NoNodeID, err
	}
	return Decode(data, DetectFormat(path, format), file, reporter)
}

func resolveKind(wn wireNode) (ast.NodeKind, bool) {
	if wn.Kind != "" {
		if kind, ok := ast.KindByName(wn.Kind); ok {
			return kind, true
		}
	}
	if wn.KindID != 0 {
		return ast.NodeKind(wn.KindID), true
	}
	return 0, false
}

func flagByName(name string) (ast.NodeFlags, bool) {
	for _, entry := range wireFlags {
		if entry.name == name {
			return entry.flag, true
		}
	}
	return 0, false
}

func report(r diag.Reporter, code diag.Code, span source.Span, msg string) {
	if r == nil {
		return
	}
	if code == diag.TreeDanglingChild {
		diag.ReportWarning(r, code, span, msg).Emit()
		return
	}
	diag.ReportError(r, code, span, msg).Emit()
}
