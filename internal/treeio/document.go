package treeio

// SchemaVersion is the tree document revision this package reads and
// writes. Bump it when the node shape changes incompatibly.
const SchemaVersion uint16 = 1

// document is the wire shape shared by the JSON and msgpack encodings.
// Nodes are stored flat; children reference positions in the Nodes slice.
type document struct {
	Schema uint16     `json:"schema" msgpack:"schema"`
	Root   int        `json:"root" msgpack:"root"`
	Nodes  []wireNode `json:"nodes" msgpack:"nodes"`
}

// wireNode is one serialized syntax node. Kind carries the stable textual
// name; frontends emitting syntax extensions the base enumeration does not
// know set KindID instead, and the binder treats those by dialect.
type wireNode struct {
	Kind     string   `json:"kind,omitempty" msgpack:"kind,omitempty"`
	KindID   uint16   `json:"kind_id,omitempty" msgpack:"kind_id,omitempty"`
	Name     string   `json:"name,omitempty" msgpack:"name,omitempty"`
	Start    uint32   `json:"start" msgpack:"start"`
	End      uint32   `json:"end" msgpack:"end"`
	Mode     string   `json:"mode,omitempty" msgpack:"mode,omitempty"`
	Op       string   `json:"op,omitempty" msgpack:"op,omitempty"`
	Flags    []string `json:"flags,omitempty" msgpack:"flags,omitempty"`
	Children []int    `json:"children,omitempty" msgpack:"children,omitempty"`
}

