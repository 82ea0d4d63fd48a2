package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/groundlang/ground/internal/report"
)

func TestDefaultMatchesOriginalDefaults(t *testing.T) {
	cfg := Default()
	assert.Equal(t, 80, cfg.Thresholds.DuplicateSimilarity)
	assert.Equal(t, 5, cfg.Thresholds.MinFunctionLines)
	assert.Equal(t, report.FormatText, cfg.Report.Format)
	assert.True(t, cfg.Report.IncludeSuggestions)
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadParsesYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".ground.yml")
	content := `
version: "1"
ignore:
  functions:
    - getCapabilities
    - constructor
  paths:
    - "**/*.test.ts"
thresholds:
  duplicate_similarity: 90
  min_function_lines: 10
report:
  format: markdown
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, cfg.Ignore.Functions, 2)
	assert.Equal(t, 90, cfg.Thresholds.DuplicateSimilarity)
	assert.Equal(t, report.FormatMarkdown, cfg.Report.Format)
}

func TestLoadRejectsUnsupportedVersion(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".ground.yml")
	require.NoError(t, os.WriteFile(path, []byte(`version: "2"`), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadMergesExtends(t *testing.T) {
	dir := t.TempDir()
	basePath := filepath.Join(dir, "base.yml")
	require.NoError(t, os.WriteFile(basePath, []byte("ignore:\n  functions:\n    - constructor\n"), 0o644))

	childPath := filepath.Join(dir, ".ground.yml")
	content := "extends:\n  - base.yml\nignore:\n  functions:\n    - getCapabilities\n"
	require.NoError(t, os.WriteFile(childPath, []byte(content), 0o644))

	cfg, err := Load(childPath)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"constructor", "getCapabilities"}, cfg.Ignore.Functions)
}

func TestLoadSkipsMissingExtendsSilently(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".ground.yml")
	content := "extends:\n  - nonexistent.yml\nignore:\n  functions:\n    - constructor\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"constructor"}, cfg.Ignore.Functions)
}

func TestShouldIgnoreFunctionSupportsGlobAndExact(t *testing.T) {
	cfg := Default()
	cfg.Ignore.Functions = []string{"getCapabilities", "test_*"}

	assert.True(t, cfg.ShouldIgnoreFunction("getCapabilities"))
	assert.True(t, cfg.ShouldIgnoreFunction("test_foo"))
	assert.False(t, cfg.ShouldIgnoreFunction("doSomething"))
}

func TestShouldIgnorePathMatchesDoubleStarGlobs(t *testing.T) {
	cfg := Default()
	cfg.Ignore.Paths = []string{"**/*.test.ts", "**/fixtures/**"}

	assert.True(t, cfg.ShouldIgnorePath("src/foo.test.ts"))
	assert.True(t, cfg.ShouldIgnorePath("tests/fixtures/data.json"))
	assert.False(t, cfg.ShouldIgnorePath("src/index.ts"))
}

func TestShouldIgnorePairMatchesSuffixInEitherOrder(t *testing.T) {
	cfg := Default()
	cfg.Ignore.DuplicatePairs = [][2]string{{"src/a.ts", "src/b.ts"}}

	assert.True(t, cfg.ShouldIgnorePair("/Users/dev/proj/src/a.ts", "/Users/dev/proj/src/b.ts"))
	assert.True(t, cfg.ShouldIgnorePair("/Users/dev/proj/src/b.ts", "/Users/dev/proj/src/a.ts"))
	assert.False(t, cfg.ShouldIgnorePair("src/a.ts", "src/c.ts"))
}

func TestSimilarityThresholdConvertsPercentToFraction(t *testing.T) {
	cfg := Default()
	assert.InDelta(t, 0.80, cfg.SimilarityThreshold(), 1e-9)
}
