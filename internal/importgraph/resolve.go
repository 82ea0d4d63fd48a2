package importgraph

import (
	"os"
	"path/filepath"
	"strings"
)

// probeExtensions is the ordered list of extensions probed for a bare
// relative specifier, per §4.D step 2.
var probeExtensions = []string{".ts", ".tsx", ".js", ".jsx", ""}

// supportedExtensions names the extensions the resolution algorithm
// recognizes as "ending in a supported extension" for §4.D step 1.
var supportedExtensions = map[string]bool{
	".ts": true, ".tsx": true, ".js": true, ".jsx": true,
}

// Resolve implements §4.D's resolution algorithm for a relative
// specifier imported from file F. Only relative specifiers (starting
// with "." or "..") are resolvable; bare package specifiers are not
// handled by this function and should be treated as unresolved by the
// caller. stat is injected so tests can resolve against a virtual
// filesystem rather than requiring files on disk.
func Resolve(fromFile, specifier string, stat func(string) bool) (target string, ok bool) {
	if !strings.HasPrefix(specifier, ".") {
		return "", false
	}
	base := filepath.Join(filepath.Dir(fromFile), specifier)
	ext := filepath.Ext(specifier)

	// Step 1: specifier already ends in a supported extension.
	if supportedExtensions[ext] {
		if stat(base) {
			return base, true
		}
		// EcmaScript resolution style: a ".js"-ending specifier emitted
		// by a TypeScript source tree also resolves against ".ts".
		if ext == ".js" {
			tsCandidate := strings.TrimSuffix(base, ".js") + ".ts"
			if stat(tsCandidate) {
				return tsCandidate, true
			}
		}
		return "", false
	}

	// Step 2: probe {.ts, .tsx, .js, .jsx, ""} then index files.
	for _, probeExt := range probeExtensions {
		candidate := base + probeExt
		if stat(candidate) {
			return candidate, true
		}
	}
	for _, probeExt := range []string{".ts", ".tsx", ".js", ".jsx"} {
		candidate := filepath.Join(base, "index"+probeExt)
		if stat(candidate) {
			return candidate, true
		}
	}
	return "", false
}

// StatFS returns a stat function backed by the real filesystem, for
// use with Resolve outside of tests.
func StatFS() func(string) bool {
	return func(path string) bool {
		info, err := os.Stat(path)
		return err == nil && !info.IsDir()
	}
}
