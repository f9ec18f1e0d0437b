// Package diag defines the diagnostic model shared by the tree-loading and
// binding phases.
//
// Diagnostic is the central record: a Severity, a stable numeric Code, a
// message, a primary source.Span, and optional notes pointing at related
// spans ("previous declaration here"). Producers emit through the Reporter
// interface, usually via a ReportBuilder, so that emission stays decoupled
// from storage. BagReporter collects into a Bag, which supports capping,
// deterministic sorting, and merging.
//
// The binding engine itself treats language-level findings (shadowing,
// incompatible redeclaration, use before declaration) as data on the scope
// graph; diagnostics emitted here are a convenience channel for tools that
// want a flat report without walking the graph. Rendering is left to
// consumers.
package diag
