// Package config loads Ground's .ground.yml configuration, per §6's
// configuration table. Directly translated from
// original_source/packages/ground/src/config.rs's GroundConfig and
// its load/merge/should_ignore_* methods, re-expressed with Go's
// gopkg.in/yaml.v3 in place of serde_yaml and the hand-rolled glob
// translator in internal/policy in place of the Rust original's glob
// crate (see internal/policy's DESIGN.md entry for why no pack
// dependency offers `**` glob matching).
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/groundlang/ground/internal/policy"
	"github.com/groundlang/ground/internal/report"
)

// SupportedVersion is the only recognized schema version; any other
// value in a config file's `version` field is rejected per §6.
const SupportedVersion = "1"

// maxExtendsDepth bounds the `extends` merge chain, matching the Rust
// original's MAX_DEPTH exactly.
const maxExtendsDepth = 10

// MaxYAMLFileSize bounds how large a single config file (or any file
// reached via `extends`) may be before Ground refuses to parse it.
const MaxYAMLFileSize = 1 << 20 // 1 MiB

// Config is Ground's resolved configuration, matching GroundConfig.
type Config struct {
	Version    string
	Extends    []string
	Ignore     IgnoreConfig
	Thresholds ThresholdConfig
	Report     ReportConfig
}

// IgnoreConfig lists the names, exports, paths, and file pairs exempt
// from duplicate/dead-export detection.
type IgnoreConfig struct {
	Functions      []string
	Exports        []string
	Paths          []string
	DuplicatePairs [][2]string
}

// ThresholdConfig holds the analysis thresholds §6 exposes.
type ThresholdConfig struct {
	DuplicateSimilarity  int
	MinFunctionLines     int
	MaxDeadExportAgeDays *int
}

// ReportConfig holds the report-formatting options §6 exposes.
type ReportConfig struct {
	Format             report.Format
	IncludeSuggestions bool
	GroupBy            report.GroupBy
}

// Default returns Ground's built-in configuration, matching
// GroundConfig::default()/ThresholdConfig::default()/
// ReportConfig::default() exactly.
func Default() Config {
	return Config{
		Version: SupportedVersion,
		Thresholds: ThresholdConfig{
			DuplicateSimilarity: 80,
			MinFunctionLines:    5,
		},
		Report: ReportConfig{
			Format:             report.FormatText,
			IncludeSuggestions: true,
			GroupBy:            report.GroupByFile,
		},
	}
}

// SimilarityThreshold returns the configured duplicate-similarity
// threshold as a 0.0-1.0 fraction.
func (c Config) SimilarityThreshold() float64 {
	return float64(c.Thresholds.DuplicateSimilarity) / 100.0
}

// Load reads and resolves the config at path, following `extends`
// directives up to maxExtendsDepth. A missing path returns Default(),
// matching the Rust original's "silently fall back to defaults on a
// missing file" behavior for both the root config and each `extends`
// entry.
func Load(path string) (Config, error) {
	return loadWithDepth(path, 0)
}

func loadWithDepth(path string, depth int) (Config, error) {
	if depth > maxExtendsDepth {
		return Config{}, fmt.Errorf("config: extends depth exceeded %d (circular reference?)", maxExtendsDepth)
	}

	info, err := os.Stat(path)
	if err != nil {
		return Default(), nil
	}
	if info.Size() > MaxYAMLFileSize {
		return Config{}, fmt.Errorf("config: %s exceeds the %d byte limit", path, MaxYAMLFileSize)
	}

	contents, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: reading %s: %w", path, err)
	}

	var doc yamlConfig
	if err := yaml.Unmarshal(contents, &doc); err != nil {
		return Config{}, fmt.Errorf("config: parsing %s: %w", path, err)
	}

	cfg := doc.toConfig()
	if cfg.Version == "" {
		cfg.Version = SupportedVersion
	}
	if cfg.Version != SupportedVersion {
		return Config{}, fmt.Errorf("config: unsupported schema version %q in %s", cfg.Version, path)
	}

	extends := doc.Extends
	baseDir := filepath.Dir(path)
	for _, extendPath := range extends {
		resolved := filepath.Join(baseDir, extendPath)
		if _, err := os.Stat(resolved); err != nil {
			continue // silently skip missing extended files, same as the Rust original
		}
		extended, err := loadWithDepth(resolved, depth+1)
		if err != nil {
			return Config{}, err
		}
		cfg.merge(extended)
	}

	return cfg, nil
}

// LoadDefaultLocations tries .ground.yml, .ground.yaml, ground.yml,
// then ground.yaml in order, falling back to Default() if none parse.
func LoadDefaultLocations() Config {
	for _, name := range []string{".ground.yml", ".ground.yaml", "ground.yml", "ground.yaml"} {
		if _, err := os.Stat(name); err != nil {
			continue
		}
		if cfg, err := Load(name); err == nil {
			return cfg
		}
	}
	return Default()
}

// merge folds other onto c: ignore lists concatenate and deduplicate;
// thresholds and report settings keep c's own values (the base config
// wins), matching the Rust original's merge exactly.
func (c *Config) merge(other Config) {
	c.Ignore.Functions = dedupSorted(append(c.Ignore.Functions, other.Ignore.Functions...))
	c.Ignore.Exports = dedupSorted(append(c.Ignore.Exports, other.Ignore.Exports...))
	c.Ignore.Paths = dedupSorted(append(c.Ignore.Paths, other.Ignore.Paths...))
	c.Ignore.DuplicatePairs = append(c.Ignore.DuplicatePairs, other.Ignore.DuplicatePairs...)
}

func dedupSorted(items []string) []string {
	if len(items) == 0 {
		return nil
	}
	sort.Strings(items)
	out := items[:1]
	for _, item := range items[1:] {
		if item != out[len(out)-1] {
			out = append(out, item)
		}
	}
	return out
}

// ShouldIgnoreFunction reports whether name matches an ignore.functions
// entry, treating entries containing '*' as a glob pattern.
func (c Config) ShouldIgnoreFunction(name string) bool {
	return matchesAny(c.Ignore.Functions, name)
}

// ShouldIgnoreExport reports whether name matches an ignore.exports
// entry, treating entries containing '*' as a glob pattern.
func (c Config) ShouldIgnoreExport(name string) bool {
	return matchesAny(c.Ignore.Exports, name)
}

// ShouldIgnorePath reports whether path matches an ignore.paths glob.
func (c Config) ShouldIgnorePath(path string) bool {
	for _, pattern := range c.Ignore.Paths {
		if policy.GlobMatch(pattern, path) {
			return true
		}
	}
	return false
}

func matchesAny(patterns []string, name string) bool {
	for _, pattern := range patterns {
		if strings.Contains(pattern, "*") {
			if policy.GlobMatch(pattern, name) {
				return true
			}
		} else if pattern == name {
			return true
		}
	}
	return false
}

// ShouldIgnorePair reports whether the (fileA, fileB) duplicate pair
// is suppressed by an ignore.duplicate_pairs entry, via exact match,
// suffix match (to tolerate absolute-vs-relative path differences),
// or glob match, in either pairing order — reproducing
// should_ignore_pair exactly.
func (c Config) ShouldIgnorePair(fileA, fileB string) bool {
	for _, pair := range c.Ignore.DuplicatePairs {
		pa, pb := pair[0], pair[1]

		if (pa == fileA && pb == fileB) || (pa == fileB && pb == fileA) {
			return true
		}
		if (strings.HasSuffix(fileA, pa) && strings.HasSuffix(fileB, pb)) ||
			(strings.HasSuffix(fileA, pb) && strings.HasSuffix(fileB, pa)) {
			return true
		}
		if strings.Contains(pa, "*") || strings.Contains(pb, "*") {
			if (policy.GlobMatch(pa, fileA) && policy.GlobMatch(pb, fileB)) ||
				(policy.GlobMatch(pa, fileB) && policy.GlobMatch(pb, fileA)) {
				return true
			}
		}
	}
	return false
}
