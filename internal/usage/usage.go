// Package usage counts how many times a symbol name is referenced
// under a search root, the "Rams" level of §4.D's evidence model: a
// symbol that earns no uses anywhere hasn't earned its existence. No
// pack repo or original_source module covers symbol-occurrence counting
// directly, so this is grounded on the same literal line-scan
// technique internal/environment uses for denied-API detection,
// narrowed to a whole-identifier match so "foo" doesn't match
// "fooBar".
package usage

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/groundlang/ground/internal/ast"
)

// Location is one occurrence of a symbol.
type Location struct {
	File string
	Line int
}

// Evidence is the result of counting a symbol's uses under a search
// root.
type Evidence struct {
	Symbol     string
	SearchRoot string
	Count      int
	Locations  []Location
}

var denylist = map[string]bool{
	"node_modules": true,
	"target":       true,
	"dist":         true,
	"build":        true,
	".svelte-kit":  true,
	"venv":         true,
	".venv":        true,
}

// CountUsages walks searchRoot, scanning every file the parser
// registry recognizes for whole-identifier occurrences of symbol.
func CountUsages(ctx context.Context, symbol, searchRoot string, registry *ast.ParserRegistry) (Evidence, error) {
	pattern := regexp.MustCompile(`\b` + regexp.QuoteMeta(symbol) + `\b`)

	var files []string
	err := filepath.WalkDir(searchRoot, func(path string, d fs.DirEntry, err error) error {
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
		if _, ok := registry.GetByExtension(filepath.Ext(path)); !ok {
			return nil
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return Evidence{}, err
	}
	sort.Strings(files)

	var locations []Location
	for _, path := range files {
		if ctx.Err() != nil {
			return Evidence{}, ctx.Err()
		}
		content, readErr := os.ReadFile(path)
		if readErr != nil {
			continue
		}
		for i, line := range strings.Split(string(content), "\n") {
			if pattern.MatchString(line) {
				locations = append(locations, Location{File: path, Line: i + 1})
			}
		}
	}

	return Evidence{
		Symbol:     symbol,
		SearchRoot: searchRoot,
		Count:      len(locations),
		Locations:  locations,
	}, nil
}
