package source

import "testing"

func TestInternerReusesIDs(t *testing.T) {
	in := NewInterner()
	a := in.Intern("alpha")
	b := in.Intern("beta")
	if a == b {
		t.Fatalf("distinct strings got same ID")
	}
	if got := in.Intern("alpha"); got != a {
		t.Fatalf("expected stable ID for repeated intern, got %d want %d", got, a)
	}
	if s := in.MustLookup(b); s != "beta" {
		t.Fatalf("lookup mismatch: %q", s)
	}
	if in.Intern("") != NoStringID {
		t.Fatalf("empty string must map to NoStringID")
	}
}

func TestSpanContainsAndCover(t *testing.T) {
	outer := Span{File: 1, Start: 0, End: 10}
	inner := Span{File: 1, Start: 2, End: 5}
	if !outer.Contains(inner) {
		t.Fatalf("expected %v to contain %v", outer, inner)
	}
	if inner.Contains(outer) {
		t.Fatalf("inner span must not contain outer")
	}
	other := Span{File: 2, Start: 2, End: 5}
	if outer.Contains(other) {
		t.Fatalf("spans from different files must not contain each other")
	}
	covered := Span{File: 1, Start: 4, End: 6}.Cover(Span{File: 1, Start: 1, End: 9})
	if covered.Start != 1 || covered.End != 9 {
		t.Fatalf("cover produced %v", covered)
	}
}

func TestFileSetResolvesLineCol(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("snippet.ts", []byte("let a;\nlet b;\n"))

	start, end := fs.Resolve(Span{File: id, Start: 7, End: 12})
	if start.Line != 2 || start.Col != 1 {
		t.Fatalf("start = %+v", start)
	}
	if end.Line != 2 || end.Col != 6 {
		t.Fatalf("end = %+v", end)
	}

	if f, ok := fs.GetByPath("snippet.ts"); !ok || f.ID != id {
		t.Fatalf("path lookup failed")
	}
}

func TestLineColAcrossLines(t *testing.T) {
	// newlines at offsets 6 and 13
	content := []byte("let a;\nlet b;\nb;")
	idx := buildLineIndex(content)
	cases := []struct {
		off  uint32
		want LineCol
	}{
		{0, LineCol{Line: 1, Col: 1}},
		{5, LineCol{Line: 1, Col: 6}},
		{6, LineCol{Line: 1, Col: 7}}, // the newline ends line 1
		{7, LineCol{Line: 2, Col: 1}},
		{12, LineCol{Line: 2, Col: 6}},
		{14, LineCol{Line: 3, Col: 1}},
		{15, LineCol{Line: 3, Col: 2}},
	}
	for _, tc := range cases {
		if got := toLineCol(idx, tc.off); got != tc.want {
			t.Fatalf("toLineCol(%d) = %+v, want %+v", tc.off, got, tc.want)
		}
	}
	if got := toLineCol(nil, 4); (got != LineCol{Line: 1, Col: 5}) {
		t.Fatalf("single-line file: %+v", got)
	}
}
