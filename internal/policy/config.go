// Package policy implements the exception/policy layer (§4.J): the
// rules that keep the similarity and reachability engines from
// flagging deliberate, acceptable duplication or isolation. Grounded
// on original_source/packages/ground/src/exceptions/mod.rs, with
// default lists transcribed exactly from that file's ExceptionConfig.
package policy

// DomainThresholds holds the per-domain similarity threshold floor
// used when deciding whether a pair of files is similar enough to be
// worth a DryViolation claim. Not present in the Rust original (that
// crate applies one fixed DrySimilarity threshold everywhere); spec.md
// §4.J asks for domain-aware thresholds, so these values and the
// classification in ThresholdForDomain are an original design decision
// layered on top of the ported ExceptionConfig, recorded in DESIGN.md.
type DomainThresholds struct {
	UI         float64
	SharedLib  float64
	Serverless float64
	Fallback   float64
}

// DefaultDomainThresholds matches spec.md §4.J's stated values exactly.
func DefaultDomainThresholds() DomainThresholds {
	return DomainThresholds{
		UI:         0.80,
		SharedLib:  0.85,
		Serverless: 0.70,
		Fallback:   0.75,
	}
}

// Config mirrors the Rust original's ExceptionConfig, plus
// DomainThresholds for spec.md's domain-aware scoring extension.
type Config struct {
	IgnorePaths         []string
	IgnoreFiles         []string
	AcceptablePatterns  []string
	BoilerplateMaxLines int
	SmallFileMaxBytes   int64
	DomainThresholds    DomainThresholds
}

// DefaultConfig returns Ground's built-in exception policy. The
// ignore_paths, ignore_files, and acceptable_patterns lists are
// transcribed verbatim from ExceptionConfig::default() in
// exceptions/mod.rs; boilerplate_max_lines and small_file_max_bytes
// match that file's constants exactly.
func DefaultConfig() Config {
	return Config{
		IgnorePaths: []string{
			"**/node_modules/**",
			"**/dist/**",
			"**/build/**",
			"**/.next/**",
			"**/.wrangler/**",
			"**/coverage/**",
			"**/*.generated.*",
			"**/generated/**",
			"**/__generated__/**",
			"**/*.min.js",
		},
		IgnoreFiles: []string{
			"index.ts",
			"index.tsx",
			"index.js",
			"index.jsx",
			"types.ts",
			"constants.ts",
			"package.json",
			"tsconfig.json",
			"README.md",
			"CHANGELOG.md",
			".gitignore",
			".eslintrc.json",
			"vite.config.ts",
			"vitest.config.ts",
			"wrangler.toml",
		},
		AcceptablePatterns: []string{
			"test:mock",
			"fixture:fixture",
			"stub:stub",
			"example:example",
			"sample:sample",
			"demo:demo",
			"placeholder:placeholder",
			"template:template",
			"boilerplate:boilerplate",
		},
		BoilerplateMaxLines: 15,
		SmallFileMaxBytes:   300,
		DomainThresholds:    DefaultDomainThresholds(),
	}
}
