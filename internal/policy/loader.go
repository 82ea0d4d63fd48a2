package policy

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// yamlConfig is the on-disk shape of a policy override file. Ground
// loads its exception policy as YAML rather than the Rust original's
// TOML (toml::from_str in exceptions/mod.rs's load_config): Ground's
// own config layer is YAML-based throughout (internal/config, built on
// the same gopkg.in/yaml.v3 dependency), and a second serialization
// format for one policy file would be an unjustified extra dependency
// surface. Any field omitted from the file keeps its DefaultConfig
// value.
type yamlConfig struct {
	IgnorePaths         []string `yaml:"ignore_paths"`
	IgnoreFiles         []string `yaml:"ignore_files"`
	AcceptablePatterns  []string `yaml:"acceptable_patterns"`
	BoilerplateMaxLines *int     `yaml:"boilerplate_max_lines"`
	SmallFileMaxBytes   *int64   `yaml:"small_file_max_bytes"`
	DomainThresholds    *struct {
		UI         *float64 `yaml:"ui"`
		SharedLib  *float64 `yaml:"shared_lib"`
		Serverless *float64 `yaml:"serverless"`
		Fallback   *float64 `yaml:"fallback"`
	} `yaml:"domain_thresholds"`
}

// LoadConfig reads a policy override file at path and merges it onto
// DefaultConfig. A missing file is not an error: it simply returns the
// defaults, mirroring load_config's fallback behavior in the Rust
// original.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("policy: reading config %s: %w", path, err)
	}

	var override yamlConfig
	if err := yaml.Unmarshal(data, &override); err != nil {
		return Config{}, fmt.Errorf("policy: parsing config %s: %w", path, err)
	}

	if len(override.IgnorePaths) > 0 {
		cfg.IgnorePaths = override.IgnorePaths
	}
	if len(override.IgnoreFiles) > 0 {
		cfg.IgnoreFiles = override.IgnoreFiles
	}
	if len(override.AcceptablePatterns) > 0 {
		cfg.AcceptablePatterns = override.AcceptablePatterns
	}
	if override.BoilerplateMaxLines != nil {
		cfg.BoilerplateMaxLines = *override.BoilerplateMaxLines
	}
	if override.SmallFileMaxBytes != nil {
		cfg.SmallFileMaxBytes = *override.SmallFileMaxBytes
	}
	if override.DomainThresholds != nil {
		if override.DomainThresholds.UI != nil {
			cfg.DomainThresholds.UI = *override.DomainThresholds.UI
		}
		if override.DomainThresholds.SharedLib != nil {
			cfg.DomainThresholds.SharedLib = *override.DomainThresholds.SharedLib
		}
		if override.DomainThresholds.Serverless != nil {
			cfg.DomainThresholds.Serverless = *override.DomainThresholds.Serverless
		}
		if override.DomainThresholds.Fallback != nil {
			cfg.DomainThresholds.Fallback = *override.DomainThresholds.Fallback
		}
	}

	return cfg, nil
}
