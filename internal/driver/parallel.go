package driver

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"bindery/internal/diag"
	"bindery/internal/source"
)

// treeFile reports whether a directory entry looks like a serialized tree.
func treeFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".json", ".mp", ".msgpack":
		return true
	default:
		return false
	}
}

// ListTreeFiles returns the serialized tree files directly under dir,
// sorted by path so runs are reproducible.
func ListTreeFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, entry := range entries {
		if entry.IsDir() || !treeFile(entry.Name()) {
			continue
		}
		files = append(files, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(files)
	return files, nil
}

// AnalyzeDir analyzes every tree file under dir, fanning the per-file work
// out over a bounded worker group. Results come back ordered by path
// regardless of completion order. Files that fail to load still produce a
// result whose bag carries the I/O diagnostic.
func AnalyzeDir(ctx context.Context, dir string, opts Options) ([]*Result, error) {
	files, err := ListTreeFiles(dir)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, nil
	}

	// The file set is loaded up front; workers only read from it.
	fileSet := source.NewFileSet()
	fileIDs := make([]source.FileID, len(files))
	loadErrs := make([]error, len(files))
	for i, path := range files {
		fileIDs[i], loadErrs[i] = fileSet.Load(path)
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	results := make([]*Result, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))
	for i, path := range files {
		i, path := i, path
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			if loadErrs[i] != nil {
				bag := diag.NewBag(opts.maxDiagnostics())
				bag.Add(diag.Diagnostic{
					Severity: diag.SevError,
					Code:     diag.IOLoadFileError,
					Message:  loadErrs[i].Error(),
				})
				results[i] = &Result{Path: path, Bag: bag}
				return nil
			}
			results[i] = analyzeCached(fileSet, fileIDs[i], path, opts)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
