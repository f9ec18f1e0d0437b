package binding

import (
	"fmt"

	"fortio.org/safecast"

	"bindery/internal/ast"
	"bindery/internal/source"
)

// Scopes stores all allocated scopes in a compact slice-based arena.
type Scopes struct {
	data []Scope
}

// NewScopes creates an arena with an optional capacity hint.
func NewScopes(capacity uint32) *Scopes {
	if capacity == 0 {
		capacity = 32
	}
	return &Scopes{
		data: make([]Scope, 1, capacity+1), // index 0 reserved for NoScopeID
	}
}

// New allocates a scope, links it under parent, and returns its ID.
func (s *Scopes) New(kind ScopeKind, parent ScopeID, node ast.NodeID, span source.Span, strict bool) ScopeID {
	value, err := safecast.Conv[uint32](len(s.data))
	if err != nil {
		panic(fmt.Errorf("scopes arena overflow: %w", err))
	}
	id := ScopeID(value)
	s.data = append(s.data, Scope{
		Kind:   kind,
		Node:   node,
		Span:   span,
		Parent: parent,
		Values: make(map[source.StringID][]VariableID),
		Types:  make(map[source.StringID][]VariableID),
		Strict: strict,
	})
	if parent.IsValid() {
		if parentScope := s.Get(parent); parentScope != nil {
			parentScope.Children = append(parentScope.Children, id)
		}
	}
	return id
}

// Get returns the scope pointer or nil if the ID is invalid.
func (s *Scopes) Get(id ScopeID) *Scope {
	if !id.IsValid() || int(id) >= len(s.data) {
		return nil
	}
	return &s.data[id]
}

// Len reports the total number of scopes excluding the sentinel.
func (s *Scopes) Len() int { return len(s.data) - 1 }

// Data exposes the underlying slice without the sentinel.
func (s *Scopes) Data() []Scope {
	if len(s.data) <= 1 {
		return nil
	}
	return s.data[1:]
}

// Variables stores declared variables in a compact arena.
type Variables struct {
	data []Variable
}

// NewVariables creates a variable arena with an optional capacity hint.
func NewVariables(capacity uint32) *Variables {
	if capacity == 0 {
		capacity = 64
	}
	return &Variables{
		data: make([]Variable, 1, capacity+1), // index 0 reserved for NoVariableID
	}
}

// New allocates a variable in the arena and returns its ID.
func (s *Variables) New(v *Variable) VariableID {
	if v == nil {
		panic("binding: Variables.New nil variable")
	}
	value, err := safecast.Conv[uint32](len(s.data))
	if err != nil {
		panic(fmt.Errorf("variables arena overflow: %w", err))
	}
	id := VariableID(value)
	s.data = append(s.data, *v)
	return id
}

// Get returns a variable pointer or nil for an invalid ID.
func (s *Variables) Get(id VariableID) *Variable {
	if !id.IsValid() || int(id) >= len(s.data) {
		return nil
	}
	return &s.data[id]
}

// Len reports the number of stored variables excluding the sentinel.
func (s *Variables) Len() int { return len(s.data) - 1 }

// Data exposes the arena storage without the sentinel.
func (s *Variables) Data() []Variable {
	if len(s.data) <= 1 {
		return nil
	}
	return s.data[1:]
}

// References stores identifier uses in a compact arena.
type References struct {
	data []Reference
}

// NewReferences creates a reference arena with an optional capacity hint.
func NewReferences(capacity uint32) *References {
	if capacity == 0 {
		capacity = 128
	}
	return &References{
		data: make([]Reference, 1, capacity+1), // index 0 reserved for NoReferenceID
	}
}

// New allocates a reference in the arena and returns its ID.
func (s *References) New(r *Reference) ReferenceID {
	if r == nil {
		panic("binding: References.New nil reference")
	}
	value, err := safecast.Conv[uint32](len(s.data))
	if err != nil {
		panic(fmt.Errorf("references arena overflow: %w", err))
	}
	id := ReferenceID(value)
	s.data = append(s.data, *r)
	return id
}

// Get returns a reference pointer or nil for an invalid ID.
func (s *References) Get(id ReferenceID) *Reference {
	if !id.IsValid() || int(id) >= len(s.data) {
		return nil
	}
	return &s.data[id]
}

// Len reports the number of stored references excluding the sentinel.
func (s *References) Len() int { return len(s.data) - 1 }

// Data exposes the arena storage without the sentinel.
func (s *References) Data() []Reference {
	if len(s.data) <= 1 {
		return nil
	}
	return s.data[1:]
}

// Definitions stores declaration sites in a compact arena.
type Definitions struct {
	data []Definition
}

// NewDefinitions creates a definition arena with an optional capacity hint.
func NewDefinitions(capacity uint32) *Definitions {
	if capacity == 0 {
		capacity = 64
	}
	return &Definitions{
		data: make([]Definition, 1, capacity+1), // index 0 reserved for NoDefinitionID
	}
}

// New allocates a definition in the arena and returns its ID.
func (s *Definitions) New(d *Definition) DefinitionID {
	if d == nil {
		panic("binding: Definitions.New nil definition")
	}
	value, err := safecast.Conv[uint32](len(s.data))
	if err != nil {
		panic(fmt.Errorf("definitions arena overflow: %w", err))
	}
	id := DefinitionID(value)
	s.data = append(s.data, *d)
	return id
}

// Get returns a definition pointer or nil for an invalid ID.
func (s *Definitions) Get(id DefinitionID) *Definition {
	if !id.IsValid() || int(id) >= len(s.data) {
		return nil
	}
	return &s.data[id]
}

// Len reports the number of stored definitions excluding the sentinel.
func (s *Definitions) Len() int { return len(s.data) - 1 }

// Data exposes the arena storage without the sentinel.
func (s *Definitions) Data() []Definition {
	if len(s.data) <= 1 {
		return nil
	}
	return s.data[1:]
}
