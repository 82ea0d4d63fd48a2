// Package reachability determines which files in an import graph are
// reachable from a project's entry points and ranks modules by
// PageRank over the same graph, per §4.E.
package reachability

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
)

// packageManifest is the subset of package.json Ground reads to find
// Node-CLI entry points.
type packageManifest struct {
	Main string          `json:"main"`
	Bin  json.RawMessage `json:"bin"`
}

// implicitEntryPatterns are framework-conventional file locations
// treated as entry points even without an explicit manifest reference,
// per §4.E's "framework-specific implicit entries" clause: route
// files, layout files, and service-worker files.
var implicitEntryPatterns = []string{
	"route.ts", "route.tsx", "route.js",
	"layout.ts", "layout.tsx",
	"+page.ts", "+page.svelte",
	"service-worker.ts", "service-worker.js",
	"worker.ts", "worker.js",
}

// DiscoverEntryPoints finds the entry-point file set for a project
// rooted at root, given the set of file paths already known to the
// import graph (so implicit-pattern matches are confined to files
// Ground actually parsed).
func DiscoverEntryPoints(root string, knownFiles []string) []string {
	seen := make(map[string]bool)
	var entries []string

	add := func(path string) {
		if path != "" && !seen[path] {
			seen[path] = true
			entries = append(entries, path)
		}
	}

	if pkgPath := filepath.Join(root, "package.json"); fileExists(pkgPath) {
		if content, err := os.ReadFile(pkgPath); err == nil {
			var manifest packageManifest
			if json.Unmarshal(content, &manifest) == nil {
				if manifest.Main != "" {
					add(filepath.Join(root, manifest.Main))
				}
				for _, binPath := range binEntries(manifest.Bin) {
					add(filepath.Join(root, binPath))
				}
			}
		}
	}

	if descriptor, ok := findDescriptorPath(root); ok {
		if mainPath, ok := descriptorMain(descriptor); ok {
			add(filepath.Join(root, mainPath))
		}
	}

	for _, f := range knownFiles {
		base := filepath.Base(f)
		for _, pattern := range implicitEntryPatterns {
			if base == pattern {
				add(f)
				break
			}
		}
	}

	return entries
}

// binEntries normalizes package.json's "bin" field, which may be a
// bare string or a map of command name to script path.
func binEntries(raw json.RawMessage) []string {
	if len(raw) == 0 {
		return nil
	}
	var single string
	if json.Unmarshal(raw, &single) == nil {
		return []string{single}
	}
	var mapped map[string]string
	if json.Unmarshal(raw, &mapped) == nil {
		paths := make([]string, 0, len(mapped))
		for _, p := range mapped {
			paths = append(paths, p)
		}
		return paths
	}
	return nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// findDescriptorPath looks for a wrangler.toml in root, mirroring
// importgraph's architectural descriptor search but scoped to the
// project root only (entry-point discovery doesn't walk ancestors).
func findDescriptorPath(root string) (string, bool) {
	candidate := filepath.Join(root, "wrangler.toml")
	if fileExists(candidate) {
		return candidate, true
	}
	return "", false
}

// descriptorMain extracts the "main" key from a wrangler.toml-style
// descriptor using a tolerant line scan, avoiding a second TOML
// dependency import in this package (importgraph already owns full
// descriptor parsing for architectural edges).
func descriptorMain(path string) (string, bool) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", false
	}
	for _, line := range strings.Split(string(content), "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "main") {
			continue
		}
		idx := strings.Index(line, "=")
		if idx < 0 {
			continue
		}
		value := strings.TrimSpace(line[idx+1:])
		value = strings.Trim(value, `"'`)
		if value != "" {
			return value, true
		}
	}
	return "", false
}
