package policy

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGlobMatchSupportsDoubleStarRecursion(t *testing.T) {
	assert.True(t, globMatch("**/node_modules/**", "packages/api/node_modules/foo/index.js"))
	assert.True(t, globMatch("**/*.generated.*", "src/models/user.generated.ts"))
	assert.False(t, globMatch("**/node_modules/**", "packages/api/src/index.ts"))
}

func TestCheckExceptionMatchesIgnoredPath(t *testing.T) {
	cfg := DefaultConfig()
	m := CheckException(cfg, "a/dist/bundle.js", "b/other.js", nil, nil)
	assert.Equal(t, MatchIgnoredPath, m.Kind)
	assert.True(t, m.IsException())
}

func TestCheckExceptionMatchesIgnoredFile(t *testing.T) {
	cfg := DefaultConfig()
	m := CheckException(cfg, "packages/a/index.ts", "packages/b/index.ts", nil, nil)
	assert.Equal(t, MatchIgnoredFile, m.Kind)
}

func TestCheckExceptionMatchesAcceptablePatternBothOrderings(t *testing.T) {
	cfg := DefaultConfig()
	m1 := CheckException(cfg, "src/user.test.ts", "src/user.mock.ts", nil, nil)
	assert.Equal(t, MatchAcceptablePattern, m1.Kind)

	m2 := CheckException(cfg, "src/user.mock.ts", "src/user.test.ts", nil, nil)
	assert.Equal(t, MatchAcceptablePattern, m2.Kind)
}

func TestCheckExceptionMatchesBoilerplateWhenBothShort(t *testing.T) {
	cfg := DefaultConfig()
	short := "line1\nline2\nline3"
	m := CheckException(cfg, "a/foo.ts", "b/bar.ts", &short, &short)
	assert.Equal(t, MatchBoilerplate, m.Kind)
}

func TestCheckExceptionMatchesReExportOnly(t *testing.T) {
	cfg := DefaultConfig()
	barrel := "export * from './user'\nexport * from './order'\n"
	m := CheckException(cfg, "a/index.ts", "b/index.ts", &barrel, &barrel)
	// index.ts is also an ignored filename, so it matches that rule first.
	assert.True(t, m.IsException())
}

func TestIsReExportOnlyRejectsRealLogic(t *testing.T) {
	assert.False(t, isReExportOnly("export * from './user'\nfunction helper() { return 1 }\n"))
}

func TestIsReExportOnlyAcceptsImportsAndExports(t *testing.T) {
	assert.True(t, isReExportOnly("import { foo } from './foo'\nexport * from './foo'\nexport { bar } from './bar'\n"))
}

func TestCheckExceptionNoMatch(t *testing.T) {
	cfg := DefaultConfig()
	a := "function handler(req) { return complexLogicThatIsNotBoilerplateAtAllAndGoesOnForQuiteSomeLines(req) }\nfunction second() { return 2 }\nfunction third() { return 3 }\nfunction fourth() { return 4 }\nfunction fifth() { return 5 }\nfunction sixth() { return 6 }\nfunction seventh() { return 7 }\nfunction eighth() { return 8 }\nfunction ninth() { return 9 }\nfunction tenth() { return 10 }\nfunction eleventh() { return 11 }\nfunction twelfth() { return 12 }\nfunction thirteenth() { return 13 }\nfunction fourteenth() { return 14 }\nfunction fifteenth() { return 15 }\nfunction sixteenth() { return 16 }\n"
	m := CheckException(cfg, "src/real-handler-a.ts", "src/real-handler-b.ts", &a, &a)
	assert.False(t, m.IsException())
}

func TestThresholdForDomainClassifiesByConvention(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, cfg.DomainThresholds.UI, ThresholdForDomain(cfg, "src/routes/home.tsx"))
	assert.Equal(t, cfg.DomainThresholds.SharedLib, ThresholdForDomain(cfg, "packages/shared/utils.ts"))
	assert.Equal(t, cfg.DomainThresholds.Serverless, ThresholdForDomain(cfg, "src/workers/handler.ts"))
	assert.Equal(t, cfg.DomainThresholds.Fallback, ThresholdForDomain(cfg, "scripts/migrate.ts"))
}

func TestLoadConfigMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfigMergesOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "policy.yaml")
	content := "boilerplate_max_lines: 30\ndomain_thresholds:\n  ui: 0.9\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 30, cfg.BoilerplateMaxLines)
	assert.InDelta(t, 0.9, cfg.DomainThresholds.UI, 1e-9)
	assert.Equal(t, DefaultConfig().IgnorePaths, cfg.IgnorePaths)
}
