package binding

type (
	// ScopeID identifies a scope in the table arena.
	ScopeID uint32
	// VariableID identifies a declared variable.
	VariableID uint32
	// ReferenceID identifies one identifier use.
	ReferenceID uint32
	// DefinitionID identifies one declaration site of a variable.
	DefinitionID uint32
)

const (
	// NoScopeID marks the absence of a scope reference.
	NoScopeID ScopeID = 0
	// NoVariableID marks an unresolved reference target.
	NoVariableID VariableID = 0
	// NoReferenceID marks the absence of a reference.
	NoReferenceID ReferenceID = 0
	// NoDefinitionID marks the absence of a definition.
	NoDefinitionID DefinitionID = 0
)

// IsValid reports whether the ID refers to an allocated scope.
func (id ScopeID) IsValid() bool { return id != NoScopeID }

// IsValid reports whether the ID refers to an allocated variable.
func (id VariableID) IsValid() bool { return id != NoVariableID }

// IsValid reports whether the ID refers to an allocated reference.
func (id ReferenceID) IsValid() bool { return id != NoReferenceID }

// IsValid reports whether the ID refers to an allocated definition.
func (id DefinitionID) IsValid() bool { return id != NoDefinitionID }
