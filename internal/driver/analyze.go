package driver

import (
	"fmt"

	"bindery/internal/ast"
	"bindery/internal/binding"
	"bindery/internal/diag"
	"bindery/internal/source"
	"bindery/internal/treeio"
)

const defaultMaxDiagnostics = 256

// Options configures one analysis run.
type Options struct {
	Dialect        binding.Dialect
	Format         treeio.Format
	MaxDiagnostics int
	Jobs           int
	Validate       bool
	Cache          *DiskCache

	// SummaryOnly limits the requested outcome to summary counts. With a
	// cache attached, a hit then skips re-analyzing the tree entirely.
	SummaryOnly bool
}

func (o *Options) maxDiagnostics() int {
	if o.MaxDiagnostics <= 0 {
		return defaultMaxDiagnostics
	}
	return o.MaxDiagnostics
}

// Result is the outcome of analyzing one serialized tree file. Summary is
// set whenever counts are available: computed from the table, or read back
// from the disk cache (in which case Tree and Table stay nil).
type Result struct {
	Path    string
	FileID  source.FileID
	Tree    *ast.Builder
	Root    ast.NodeID
	Table   *binding.Table
	Bag     *diag.Bag
	Summary *Summary
}

// HasErrors reports whether analysis produced error diagnostics.
func (r *Result) HasErrors() bool {
	return r.Bag != nil && r.Bag.HasErrors()
}

// AnalyzeFile decodes one tree file and runs scope analysis over it. Decode
// failures surface as diagnostics in the result bag; the returned error is
// reserved for I/O problems.
func AnalyzeFile(fileSet *source.FileSet, path string, opts Options) (*Result, error) {
	fileID, err := fileSet.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return analyzeCached(fileSet, fileID, path, opts), nil
}

// analyzeCached consults the disk cache before analyzing and stores the
// summary of a fresh run back into it. Only error-free runs are ever
// cached, so a hit never hides errors.
func analyzeCached(fileSet *source.FileSet, fileID source.FileID, path string, opts Options) *Result {
	content := fileSet.Get(fileID).Content
	if opts.Cache != nil && opts.SummaryOnly {
		if s, ok := opts.Cache.Get(content); ok {
			return &Result{
				Path:    path,
				FileID:  fileID,
				Bag:     diag.NewBag(opts.maxDiagnostics()),
				Summary: &s,
			}
		}
	}
	res := analyzeLoaded(fileSet, fileID, path, opts)
	if res.Table != nil {
		s := Summarize(res.Table)
		res.Summary = &s
		if opts.Cache != nil && !res.Bag.HasErrors() {
			opts.Cache.Put(content, s)
		}
	}
	return res
}

func analyzeLoaded(fileSet *source.FileSet, fileID source.FileID, path string, opts Options) *Result {
	bag := diag.NewBag(opts.maxDiagnostics())
	reporter := diag.BagReporter{Bag: bag}
	res := &Result{Path: path, FileID: fileID, Bag: bag}

	file := fileSet.Get(fileID)
	tree, root, err := treeio.Decode(file.Content, treeio.DetectFormat(path, opts.Format), fileID, reporter)
	if err != nil {
		return res
	}
	res.Tree = tree
	res.Root = root
	res.Table = binding.Analyze(tree, root, binding.Options{
		Dialect:  opts.Dialect,
		Reporter: reporter,
		Hints:    binding.Hints{Scopes: uint(tree.Len()/8 + 1), Variables: uint(tree.Len() / 4)},
		Validate: opts.Validate,
	})
	return res
}
