// Package ast holds the syntax tree shape consumed by the binding engine.
//
// The tree is produced elsewhere (an external parser, or a serialized form
// decoded by internal/treeio); this package only defines the in-memory
// representation: a compact node arena addressed by NodeID, with a
// discriminating kind, a span, an optional identifier name, parent backlinks
// and ordered children. Nodes carry just enough syntactic context (kind,
// parent role, declaration mode, assignment operator, flags) for the binder
// to classify declarations versus uses and read/write/type positions.
//
// Kind values beyond the known set are legal: the binder treats unfamiliar
// kinds as plain expression nodes and keeps walking their children.
package ast
