// Package treeio reads and writes serialized syntax trees. The engine does
// not parse source text itself; a frontend produces a flat node table which
// this package decodes onto an ast.Builder. Both JSON (for debugging and
// fixtures) and msgpack (for tooling pipelines) carry the same document
// shape.
package treeio
