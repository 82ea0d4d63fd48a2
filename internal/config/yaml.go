package config

import "github.com/groundlang/ground/internal/report"

// yamlConfig is the on-disk YAML shape of a .ground.yml file,
// matching config.rs's GroundConfig field-for-field (the `#[serde(default
// = ...)]` annotations there become the zero-value fallbacks applied
// in toConfig below).
type yamlConfig struct {
	Version    string         `yaml:"version"`
	Extends    []string       `yaml:"extends"`
	Ignore     yamlIgnore     `yaml:"ignore"`
	Thresholds yamlThresholds `yaml:"thresholds"`
	Report     yamlReport     `yaml:"report"`
}

type yamlIgnore struct {
	Functions      []string    `yaml:"functions"`
	Exports        []string    `yaml:"exports"`
	Paths          []string    `yaml:"paths"`
	DuplicatePairs [][2]string `yaml:"duplicate_pairs"`
}

type yamlThresholds struct {
	DuplicateSimilarity  *int `yaml:"duplicate_similarity"`
	MinFunctionLines     *int `yaml:"min_function_lines"`
	MaxDeadExportAgeDays *int `yaml:"max_dead_export_age_days"`
}

type yamlReport struct {
	Format             string `yaml:"format"`
	IncludeSuggestions *bool  `yaml:"include_suggestions"`
	GroupBy            string `yaml:"group_by"`
}

func (y yamlConfig) toConfig() Config {
	cfg := Default()
	cfg.Version = y.Version
	cfg.Extends = y.Extends

	cfg.Ignore = IgnoreConfig{
		Functions:      y.Ignore.Functions,
		Exports:        y.Ignore.Exports,
		Paths:          y.Ignore.Paths,
		DuplicatePairs: y.Ignore.DuplicatePairs,
	}

	if y.Thresholds.DuplicateSimilarity != nil {
		cfg.Thresholds.DuplicateSimilarity = *y.Thresholds.DuplicateSimilarity
	}
	if y.Thresholds.MinFunctionLines != nil {
		cfg.Thresholds.MinFunctionLines = *y.Thresholds.MinFunctionLines
	}
	cfg.Thresholds.MaxDeadExportAgeDays = y.Thresholds.MaxDeadExportAgeDays

	if y.Report.Format != "" {
		cfg.Report.Format = report.Format(y.Report.Format)
	}
	if y.Report.IncludeSuggestions != nil {
		cfg.Report.IncludeSuggestions = *y.Report.IncludeSuggestions
	}
	if y.Report.GroupBy != "" {
		cfg.Report.GroupBy = report.GroupBy(y.Report.GroupBy)
	}

	return cfg
}
