package diag

import (
	"bindery/internal/source"
)

// Note attaches secondary context to a diagnostic ("previous declaration
// here").
type Note struct {
	Span source.Span
	Msg  string
}

// Diagnostic is one finding produced by the tree-loading or binding phase.
type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Primary  source.Span
	Notes    []Note
}
