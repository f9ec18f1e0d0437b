package ast

import (
	"testing"

	"bindery/internal/source"
)

func TestBuilderAllocatesWithSentinel(t *testing.T) {
	b := NewBuilder(Hints{}, nil)
	if b.Len() != 0 {
		t.Fatalf("fresh builder must be empty, got %d", b.Len())
	}
	root := b.New(KindProgram, source.Span{End: 10})
	if !root.IsValid() {
		t.Fatalf("first node must get a valid ID")
	}
	if b.Get(NoNodeID) != nil {
		t.Fatalf("NoNodeID must resolve to nil")
	}
	if b.Get(root).Kind != KindProgram {
		t.Fatalf("kind not stored")
	}
}

func TestBuilderParentBacklinks(t *testing.T) {
	b := NewBuilder(Hints{}, nil)
	root := b.New(KindProgram, source.Span{End: 10})
	id := b.NewNamed(KindIdentifier, "x", source.Span{Start: 1, End: 2})
	b.AddChild(root, id)

	if got := b.Get(id).Parent; got != root {
		t.Fatalf("parent backlink = %d, want %d", got, root)
	}
	if kids := b.Get(root).Children; len(kids) != 1 || kids[0] != id {
		t.Fatalf("children = %v", kids)
	}
	if name := b.Strings.MustLookup(b.Get(id).Name); name != "x" {
		t.Fatalf("name = %q", name)
	}
}

func TestBuilderRejectsReattachment(t *testing.T) {
	b := NewBuilder(Hints{}, nil)
	root := b.New(KindProgram, source.Span{})
	block := b.New(KindBlock, source.Span{})
	b.AddChild(root, block)

	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic on second attach")
		}
	}()
	b.AddChild(root, block)
}

func TestKindNamesRoundTrip(t *testing.T) {
	for k := KindProgram; k < kindCount; k++ {
		name := k.String()
		if name == "unknown" || name == "" {
			t.Fatalf("kind %d has no name", k)
		}
		back, ok := KindByName(name)
		if !ok || back != k {
			t.Fatalf("KindByName(%q) = %v, %v", name, back, ok)
		}
	}
	if _, ok := KindByName("no_such_kind"); ok {
		t.Fatalf("unexpected kind for bogus name")
	}
}
