package environment

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/groundlang/ground/internal/importgraph"
	"github.com/groundlang/ground/internal/reachability"
)

// DetectEntryEnvironment walks up entryPoint's ancestor directories
// looking for a wrangler.toml/wrangler.jsonc (Workers) or a
// package.json containing a "bin" field (Node CLI), per §4.F.
func DetectEntryEnvironment(entryPoint string) Runtime {
	dir := filepath.Dir(entryPoint)
	for {
		if fileExists(filepath.Join(dir, "wrangler.toml")) || fileExists(filepath.Join(dir, "wrangler.jsonc")) {
			return RuntimeWorkers
		}
		pkgPath := filepath.Join(dir, "package.json")
		if content, err := os.ReadFile(pkgPath); err == nil {
			if strings.Contains(string(content), `"bin"`) {
				return RuntimeNode
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return RuntimeUnknown
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// ScanForAPIs scans content (the text of filePath) for literal
// environment-specific API substrings, line by line.
func ScanForAPIs(filePath, content string) []ApiUsage {
	var usages []ApiUsage
	for i, line := range strings.Split(content, "\n") {
		for _, e := range workersAPIs {
			if strings.Contains(line, e.API) {
				usages = append(usages, ApiUsage{
					API: e.API, Description: e.Description,
					File: filePath, Line: i + 1, Environment: RuntimeWorkers,
				})
			}
		}
		for _, e := range nodeAPIs {
			if strings.Contains(line, e.API) {
				usages = append(usages, ApiUsage{
					API: e.API, Description: e.Description,
					File: filePath, Line: i + 1, Environment: RuntimeNode,
				})
			}
		}
	}
	return usages
}

// GenerateWarnings compares each API usage's required runtime against
// entryEnv and emits a Warning for every mismatch. Only Node-entry vs.
// Workers-only API and Workers-entry vs. Node-only API combinations
// mismatch; anything involving Unknown or Universal does not.
func GenerateWarnings(entryEnv Runtime, usages []ApiUsage, chains map[string][]string) []Warning {
	var warnings []Warning
	for _, u := range usages {
		var severity Severity
		var suggestion string
		switch {
		case entryEnv == RuntimeNode && u.Environment == RuntimeWorkers:
			severity = SeverityError
			root := u.API
			if idx := strings.Index(root, "."); idx >= 0 {
				root = root[:idx]
			}
			suggestion = "Options:\n" +
				"  - Use conditional exports in package.json\n" +
				"  - Lazy-load with: const { " + root + " } = await import('./workers-only.js')\n" +
				"  - Split into separate /node and /workers entry points"
		case entryEnv == RuntimeWorkers && u.Environment == RuntimeNode:
			severity = SeverityError
			suggestion = "Options:\n" +
				"  - Use Workers-compatible alternative\n" +
				"  - Polyfill the Node.js API\n" +
				"  - Use conditional imports"
		default:
			continue
		}

		envLabel := "Environment-specific"
		switch u.Environment {
		case RuntimeWorkers:
			envLabel = "Workers-only"
		case RuntimeNode:
			envLabel = "Node.js-only"
		}
		entryLabel := "unknown"
		switch entryEnv {
		case RuntimeNode:
			entryLabel = "Node.js"
		case RuntimeWorkers:
			entryLabel = "Workers"
		}

		warnings = append(warnings, Warning{
			Severity:    severity,
			Message:     envLabel + " API '" + u.API + "' reachable from " + entryLabel + " entry point",
			ImportChain: chains[u.File],
			API:         u.API,
			Suggestion:  suggestion,
		})
	}
	return warnings
}

// AnalyzeEnvironmentSafety runs the full §4.F pipeline for one entry
// point: detect its runtime, walk g's reachable set from it, scan
// every reachable file (via contents) for environment-specific APIs,
// and generate warnings for any mismatch against the entry runtime.
func AnalyzeEnvironmentSafety(entryPoint string, g *importgraph.Graph, contents map[string]string) Evidence {
	entryEnv := DetectEntryEnvironment(entryPoint)
	result := reachability.Analyze(g, []string{entryPoint})

	var reachableModules []string
	for path := range g.Nodes() {
		if result.IsReachable(path) {
			reachableModules = append(reachableModules, path)
		}
	}

	var usages []ApiUsage
	chains := make(map[string][]string)
	for _, module := range reachableModules {
		content, ok := contents[module]
		if !ok {
			continue
		}
		found := ScanForAPIs(module, content)
		if len(found) == 0 {
			continue
		}
		usages = append(usages, found...)
		if _, ok := chains[module]; !ok {
			chains[module] = reachability.ShortestPath(g, entryPoint, module)
		}
	}

	warnings := GenerateWarnings(entryEnv, usages, chains)
	isSafe := true
	for _, w := range warnings {
		if w.Severity == SeverityError {
			isSafe = false
			break
		}
	}

	return Evidence{
		EntryPoint:       entryPoint,
		EntryEnvironment: entryEnv,
		ReachableModules: reachableModules,
		ApiUsages:        usages,
		Warnings:         warnings,
		IsSafe:           isSafe,
	}
}
