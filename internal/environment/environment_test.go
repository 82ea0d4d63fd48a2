package environment

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/groundlang/ground/internal/importgraph"
)

func TestDetectEntryEnvironmentFindsWranglerToml(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "wrangler.toml"), []byte("name=\"x\"\n"), 0o644))
	srcDir := filepath.Join(dir, "src")
	require.NoError(t, os.MkdirAll(srcDir, 0o755))
	entry := filepath.Join(srcDir, "index.ts")

	assert.Equal(t, RuntimeWorkers, DetectEntryEnvironment(entry))
}

func TestDetectEntryEnvironmentFindsPackageJSONBin(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "package.json"), []byte(`{"bin":"cli.js"}`), 0o644))
	entry := filepath.Join(dir, "cli.js")

	assert.Equal(t, RuntimeNode, DetectEntryEnvironment(entry))
}

func TestDetectEntryEnvironmentUnknownWithNoMarkers(t *testing.T) {
	dir := t.TempDir()
	entry := filepath.Join(dir, "index.ts")
	assert.Equal(t, RuntimeUnknown, DetectEntryEnvironment(entry))
}

func TestScanForAPIsFindsWorkersAndNodeUsages(t *testing.T) {
	content := "const cache = caches.default;\nconst p = process.env.FOO;\n"
	usages := ScanForAPIs("file.ts", content)

	require.Len(t, usages, 2)
	assert.Equal(t, "caches.default", usages[0].API)
	assert.Equal(t, 1, usages[0].Line)
	assert.Equal(t, RuntimeWorkers, usages[0].Environment)
	assert.Equal(t, "process.env", usages[1].API)
	assert.Equal(t, RuntimeNode, usages[1].Environment)
}

func TestGenerateWarningsFlagsNodeEntryUsingWorkersAPI(t *testing.T) {
	usages := []ApiUsage{{API: "env.KV", Description: "KV namespace binding", File: "a.ts", Line: 3, Environment: RuntimeWorkers}}
	warnings := GenerateWarnings(RuntimeNode, usages, map[string][]string{"a.ts": {"entry.ts", "a.ts"}})

	require.Len(t, warnings, 1)
	assert.Equal(t, SeverityError, warnings[0].Severity)
	assert.Contains(t, warnings[0].Message, "Workers-only")
	assert.Equal(t, []string{"entry.ts", "a.ts"}, warnings[0].ImportChain)
}

func TestGenerateWarningsSkipsMatchingEnvironment(t *testing.T) {
	usages := []ApiUsage{{API: "caches.default", Environment: RuntimeWorkers}}
	warnings := GenerateWarnings(RuntimeWorkers, usages, nil)
	assert.Empty(t, warnings)
}

func TestAnalyzeEnvironmentSafetyEndToEnd(t *testing.T) {
	g := importgraph.NewGraph("/project")
	g.AddEdge(&importgraph.Edge{From: "entry.ts", To: "worker-only.ts", Kind: importgraph.EdgeResolved})

	contents := map[string]string{
		"entry.ts":       "import './worker-only'\nconsole.log(process.env.FOO)\n",
		"worker-only.ts": "export const h = caches.default\n",
	}

	evidence := AnalyzeEnvironmentSafety("entry.ts", g, contents)

	assert.Equal(t, RuntimeUnknown, evidence.EntryEnvironment)
	assert.True(t, evidence.IsSafe)
	assert.Len(t, evidence.ApiUsages, 2)
}

func TestAnalyzeEnvironmentSafetyMarksUnsafeOnMismatch(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "package.json"), []byte(`{"bin":"cli.js"}`), 0o644))
	entry := filepath.Join(dir, "cli.js")
	workerFile := filepath.Join(dir, "worker-only.ts")

	g := importgraph.NewGraph(dir)
	g.AddEdge(&importgraph.Edge{From: entry, To: workerFile, Kind: importgraph.EdgeResolved})

	contents := map[string]string{
		entry:      "import './worker-only'\n",
		workerFile: "export const h = caches.default\n",
	}

	evidence := AnalyzeEnvironmentSafety(entry, g, contents)
	assert.Equal(t, RuntimeNode, evidence.EntryEnvironment)
	assert.False(t, evidence.IsSafe)
	require.Len(t, evidence.Warnings, 1)
	assert.Equal(t, SeverityError, evidence.Warnings[0].Severity)
}
