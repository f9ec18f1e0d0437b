package diag

import (
	"fmt"
)

type Code uint16

const (
	// UnknownCode covers anything without a dedicated code.
	UnknownCode Code = 0

	// Tree loading (serialized syntax trees).
	TreeDecodeError   Code = 1001
	TreeBadSchema     Code = 1002
	TreeBadNode       Code = 1003
	TreeBadNodeKind   Code = 1004
	TreeDanglingChild Code = 1005

	// Binding and resolution.
	BindDuplicateDecl      Code = 3002
	BindIncompatibleRedecl Code = 3003
	BindShadowedDecl       Code = 3004
	BindScopeMismatch      Code = 3005
	BindUseBeforeDecl      Code = 3006
	BindInvariantViolation Code = 3007

	// I/O.
	IOLoadFileError Code = 4000
)

var codeDescription = map[Code]string{
	UnknownCode: "unknown issue",

	TreeDecodeError:   "failed to decode serialized tree",
	TreeBadSchema:     "unsupported tree schema version",
	TreeBadNode:       "malformed tree node record",
	TreeBadNodeKind:   "unknown tree node kind",
	TreeDanglingChild: "node child points outside the tree",

	BindDuplicateDecl:      "duplicate declaration",
	BindIncompatibleRedecl: "redeclaration with incompatible kind",
	BindShadowedDecl:       "declaration shadows outer binding",
	BindScopeMismatch:      "scope stack mismatch",
	BindUseBeforeDecl:      "use before declaration",
	BindInvariantViolation: "scope graph invariant violation",

	IOLoadFileError: "I/O load file error",
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("TREE%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("BIND%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[Code(0)]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
