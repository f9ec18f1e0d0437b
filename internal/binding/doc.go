// Package binding builds the scope graph for one syntax tree: lexical
// scopes, declared variables with their definition sites, and every
// identifier reference resolved to the nearest visible declaration.
//
// Construction happens in two strictly sequential passes. The binder walks
// the tree once in source order, pushing scopes for scope-introducing nodes,
// registering definitions (with var/function hoisting to the nearest
// function-like scope), and recording references with their read/write and
// value/type classification. The resolver then works bottom-up: each scope
// tries its own references against its own name tables, inherits the
// unresolved ("through") references of its children, retries those, and
// hands its own leftovers to its parent. Whatever reaches the root unbound
// becomes an implicit global, or stays unresolved for writes under strict
// semantics.
//
// After Analyze returns, the Table is immutable and safe for any number of
// concurrent readers. Language-level findings (use before declaration,
// shadowing, redeclaration) are represented as data on the graph; policy is
// left to consumers.
package binding
