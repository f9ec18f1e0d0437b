package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"bindery/internal/binding"
	"bindery/internal/diag"
	"bindery/internal/driver"
)

type renderOptions struct {
	stats bool
	quiet bool
}

var (
	pathColor  = color.New(color.FgCyan, color.Bold)
	scopeColor = color.New(color.FgYellow)
	nameColor  = color.New(color.FgGreen)
	errColor   = color.New(color.FgRed, color.Bold)
	warnColor  = color.New(color.FgYellow, color.Bold)
	infoColor  = color.New(color.FgBlue)
	dimColor   = color.New(color.Faint)
)

func setColorEnabled(on bool) {
	color.NoColor = !on
}

func renderPretty(out io.Writer, results []*driver.Result, opts renderOptions) error {
	for _, res := range results {
		fmt.Fprintf(out, "%s\n", pathColor.Sprint(res.Path))
		for _, d := range res.Bag.Items() {
			printDiagnostic(out, d)
		}
		if opts.stats && res.Summary != nil {
			printSummary(out, *res.Summary)
			continue
		}
		if res.Table == nil {
			continue
		}
		if opts.stats {
			printSummary(out, driver.Summarize(res.Table))
			continue
		}
		printScope(out, res.Table, res.Table.GlobalScope(), 0)
		if !opts.quiet {
			printUnresolved(out, res.Table)
		}
	}
	return nil
}

func printDiagnostic(out io.Writer, d diag.Diagnostic) {
	var sev string
	switch d.Severity {
	case diag.SevError:
		sev = errColor.Sprint("error")
	case diag.SevWarning:
		sev = warnColor.Sprint("warning")
	default:
		sev = infoColor.Sprint("info")
	}
	fmt.Fprintf(out, "  %s[%s]: %s %s\n", sev, d.Code.ID(), d.Message,
		dimColor.Sprintf("(%d..%d)", d.Primary.Start, d.Primary.End))
	for _, note := range d.Notes {
		fmt.Fprintf(out, "    note: %s %s\n", note.Msg,
			dimColor.Sprintf("(%d..%d)", note.Span.Start, note.Span.End))
	}
}

func printScope(out io.Writer, t *binding.Table, id binding.ScopeID, depth int) {
	scope := t.Scopes.Get(id)
	indent := strings.Repeat("  ", depth+1)
	label := scopeColor.Sprintf("%s#%d", scope.Kind, id)
	extra := ""
	if scope.Strict {
		extra = dimColor.Sprint(" strict")
	}
	fmt.Fprintf(out, "%s%s%s\n", indent, label, extra)
	for _, varID := range t.VariablesOf(id) {
		v := t.Vars.Get(varID)
		kind := "implicit"
		if defs := t.DefinitionsOf(varID); len(defs) > 0 {
			parts := make([]string, 0, len(defs))
			for _, defID := range defs {
				parts = append(parts, t.Defs.Get(defID).Kind.String())
			}
			kind = strings.Join(parts, "+")
		}
		detail := fmt.Sprintf("%s, %s space, %d refs", kind, v.Spaces, len(v.Refs))
		if flags := v.Flags.Strings(); len(flags) > 0 {
			detail += ", " + strings.Join(flags, " ")
		}
		fmt.Fprintf(out, "%s  %s %s\n", indent,
			nameColor.Sprint(t.Strings.MustLookup(v.Name)), dimColor.Sprintf("(%s)", detail))
	}
	for _, child := range t.ChildrenOf(id) {
		printScope(out, t, child, depth+1)
	}
}

func printUnresolved(out io.Writer, t *binding.Table) {
	var lines []string
	for _, refID := range t.ThroughOf(t.GlobalScope()) {
		ref := t.Refs.Get(refID)
		if ref.IsResolved() {
			continue
		}
		node := t.Tree.Get(ref.Node)
		lines = append(lines, fmt.Sprintf("  %s %s at %d..%d",
			errColor.Sprint("unresolved"), t.Strings.MustLookup(node.Name), ref.Span.Start, ref.Span.End))
	}
	for _, line := range lines {
		fmt.Fprintln(out, line)
	}
}

func printSummary(out io.Writer, s driver.Summary) {
	fmt.Fprintf(out, "  scopes: %d  variables: %d  references: %d  definitions: %d\n",
		s.Scopes, s.Variables, s.References, s.Definitions)
	fmt.Fprintf(out, "  unresolved: %d  implicit globals: %d\n", s.Unresolved, s.ImplicitGlobals)
}

type jsonScope struct {
	ID        uint32      `json:"id"`
	Kind      string      `json:"kind"`
	Strict    bool        `json:"strict,omitempty"`
	Variables []jsonVar   `json:"variables,omitempty"`
	Children  []jsonScope `json:"children,omitempty"`
}

type jsonVar struct {
	Name   string   `json:"name"`
	Kinds  []string `json:"kinds,omitempty"`
	Spaces string   `json:"spaces"`
	Refs   int      `json:"refs"`
	Flags  []string `json:"flags,omitempty"`
}

type jsonDiagnostic struct {
	Severity string `json:"severity"`
	Code     string `json:"code"`
	Message  string `json:"message"`
	Start    uint32 `json:"start"`
	End      uint32 `json:"end"`
}

type jsonResult struct {
	Path        string           `json:"path"`
	Diagnostics []jsonDiagnostic `json:"diagnostics,omitempty"`
	Summary     *driver.Summary  `json:"summary,omitempty"`
	Scopes      *jsonScope       `json:"scopes,omitempty"`
}

func renderJSON(out io.Writer, results []*driver.Result, opts renderOptions) error {
	payload := make([]jsonResult, 0, len(results))
	for _, res := range results {
		jr := jsonResult{Path: res.Path}
		for _, d := range res.Bag.Items() {
			jr.Diagnostics = append(jr.Diagnostics, jsonDiagnostic{
				Severity: d.Severity.String(),
				Code:     d.Code.ID(),
				Message:  d.Message,
				Start:    d.Primary.Start,
				End:      d.Primary.End,
			})
		}
		jr.Summary = res.Summary
		if res.Table != nil {
			if jr.Summary == nil {
				summary := driver.Summarize(res.Table)
				jr.Summary = &summary
			}
			if !opts.stats {
				tree := buildJSONScope(res.Table, res.Table.GlobalScope())
				jr.Scopes = &tree
			}
		}
		payload = append(payload, jr)
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(payload)
}

func buildJSONScope(t *binding.Table, id binding.ScopeID) jsonScope {
	scope := t.Scopes.Get(id)
	js := jsonScope{
		ID:     uint32(id),
		Kind:   scope.Kind.String(),
		Strict: scope.Strict,
	}
	for _, varID := range t.VariablesOf(id) {
		v := t.Vars.Get(varID)
		jv := jsonVar{
			Name:   t.Strings.MustLookup(v.Name),
			Spaces: v.Spaces.String(),
			Refs:   len(v.Refs),
			Flags:  v.Flags.Strings(),
		}
		for _, defID := range t.DefinitionsOf(varID) {
			jv.Kinds = append(jv.Kinds, t.Defs.Get(defID).Kind.String())
		}
		js.Variables = append(js.Variables, jv)
	}
	for _, child := range t.ChildrenOf(id) {
		js.Children = append(js.Children, buildJSONScope(t, child))
	}
	return js
}
