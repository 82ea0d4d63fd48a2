package importgraph

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/groundlang/ground/internal/ast"
)

// DefaultMaxFiles truncates directory walks past this file count
// rather than allocating unbounded, per the resource policy of §5 and
// the supplemented directory-walk truncation feature.
const DefaultMaxFiles = 200_000

// denylist holds directory names skipped outright during the walk,
// grounded on cache/staleness.go's DefaultSkipDirectories, narrowed to
// the frameworks §4.D names explicitly.
var denylist = map[string]bool{
	"node_modules": true,
	"target":       true,
	"dist":         true,
	"build":        true,
	".svelte-kit":  true,
	"venv":         true,
	".venv":        true,
}

// BuildOptions configures the graph-building walk.
type BuildOptions struct {
	MaxFiles int
}

// DefaultBuildOptions returns {MaxFiles: DefaultMaxFiles}.
func DefaultBuildOptions() BuildOptions {
	return BuildOptions{MaxFiles: DefaultMaxFiles}
}

// Build walks root, parsing every file whose extension registry knows,
// extracting its imports, resolving each relative specifier per
// Resolve, and recording the result as a Graph. Non-relative
// specifiers are recorded as unresolved edges with an empty To.
func Build(ctx context.Context, root string, registry *ast.ParserRegistry, opts BuildOptions) (*Graph, error) {
	if opts.MaxFiles <= 0 {
		opts.MaxFiles = DefaultMaxFiles
	}

	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			name := d.Name()
			if name != "." && (strings.HasPrefix(name, ".") || denylist[name]) {
				return filepath.SkipDir
			}
			return nil
		}
		if d.Type()&fs.ModeSymlink != 0 {
			return nil
		}
		if _, ok := registry.GetByExtension(filepath.Ext(path)); !ok {
			return nil
		}
		files = append(files, path)
		if len(files) > opts.MaxFiles {
			return filepath.SkipAll
		}
		return nil
	})
	if err != nil && err != filepath.SkipAll {
		return nil, err
	}

	graph := NewGraph(root)
	truncated := len(files) > opts.MaxFiles
	if truncated {
		files = files[:opts.MaxFiles]
	}
	graph.Truncated = truncated
	sort.Strings(files)

	stat := StatFS()

	for _, path := range files {
		if ctx.Err() != nil {
			return graph, ctx.Err()
		}
		content, readErr := os.ReadFile(path)
		if readErr != nil {
			continue
		}
		parser, ok := registry.GetByExtension(filepath.Ext(path))
		if !ok {
			continue
		}
		result, parseErr := parser.Parse(ctx, content, path)
		if parseErr != nil {
			continue
		}
		graph.EnsureNode(path)
		for _, imp := range result.Imports {
			if !strings.HasPrefix(imp.Path, ".") {
				graph.AddEdge(&Edge{From: path, Kind: EdgeUnresolved, Specifier: imp.Path, Line: imp.Location.StartLine})
				continue
			}
			target, resolved := Resolve(path, imp.Path, stat)
			if resolved {
				graph.AddEdge(&Edge{From: path, To: target, Kind: EdgeResolved, Specifier: imp.Path, Line: imp.Location.StartLine})
			} else {
				graph.AddEdge(&Edge{From: path, Kind: EdgeUnresolved, Specifier: imp.Path, Line: imp.Location.StartLine})
			}
		}
	}

	return graph, nil
}
