package rpcshell

// ToolSpec describes one `ground_*`-prefixed tool exposed via
// `tools/list`, matching the Rust original's `mcp::list_tools`
// entries.
type ToolSpec struct {
	Name        string
	Description string
	InputSchema map[string]any
}

func stringProp(description string) map[string]any {
	return map[string]any{"type": "string", "description": description}
}

func boolProp(description string) map[string]any {
	return map[string]any{"type": "boolean", "description": description}
}

func schema(required []string, props map[string]map[string]any) map[string]any {
	properties := make(map[string]any, len(props))
	for k, v := range props {
		properties[k] = v
	}
	return map[string]any{
		"type":       "object",
		"properties": properties,
		"required":   required,
	}
}

// ListTools returns the full ground_* tool catalogue, one entry per
// §4.C–K operation, matching §6's tool-name list exactly.
func ListTools() []ToolSpec {
	return []ToolSpec{
		{
			Name:        "ground_count_uses",
			Description: "Count references to a symbol across a search root.",
			InputSchema: schema([]string{"symbol", "search_path"}, map[string]map[string]any{
				"symbol":      stringProp("the identifier to count"),
				"search_path": stringProp("directory to search within"),
			}),
		},
		{
			Name:        "ground_find_dead_exports",
			Description: "Claim an export has zero usages, gated on recorded usage evidence.",
			InputSchema: schema([]string{"module_path", "symbol"}, map[string]map[string]any{
				"module_path": stringProp("directory containing the module"),
				"symbol":      stringProp("the exported identifier"),
			}),
		},
		{
			Name:        "ground_find_duplicate_functions",
			Description: "Scan a directory for duplicate functions above the similarity threshold.",
			InputSchema: schema([]string{"directory"}, map[string]map[string]any{
				"directory":     stringProp("directory to scan"),
				"cross_package": boolProp("whether to compare across package boundaries"),
			}),
		},
		{
			Name:        "ground_analyze",
			Description: "Run duplicate detection and orphan detection over a directory and summarize findings.",
			InputSchema: schema([]string{"directory"}, map[string]map[string]any{
				"directory": stringProp("directory to analyze"),
			}),
		},
		{
			Name:        "ground_check_connections",
			Description: "Claim a module is disconnected, gated on recorded connectivity evidence.",
			InputSchema: schema([]string{"module_path"}, map[string]map[string]any{
				"module_path": stringProp("module to check"),
			}),
		},
		{
			Name:        "ground_compare",
			Description: "Compute similarity and a preview diff between two specific files.",
			InputSchema: schema([]string{"file_a", "file_b"}, map[string]map[string]any{
				"file_a": stringProp("first file path"),
				"file_b": stringProp("second file path"),
			}),
		},
		{
			Name:        "ground_find_orphans",
			Description: "Rank modules by import-graph connectivity and flag likely-orphaned ones.",
			InputSchema: schema([]string{"directory"}, map[string]map[string]any{
				"directory": stringProp("directory to analyze"),
			}),
		},
		{
			Name:        "ground_check_environment",
			Description: "Detect an entry point's runtime and flag cross-runtime API usage reachable from it.",
			InputSchema: schema([]string{"entry_point"}, map[string]map[string]any{
				"entry_point": stringProp("entry point file"),
			}),
		},
		{
			Name:        "ground_find_drift",
			Description: "Design-token drift detection (not implemented in this build).",
			InputSchema: schema([]string{"directory"}, map[string]map[string]any{"directory": stringProp("directory to scan")}),
		},
		{
			Name:        "ground_adoption_ratio",
			Description: "Design-token adoption ratio (not implemented in this build).",
			InputSchema: schema([]string{"directory"}, map[string]map[string]any{"directory": stringProp("directory to scan")}),
		},
		{
			Name:        "ground_mine_patterns",
			Description: "Design pattern mining (not implemented in this build).",
			InputSchema: schema([]string{"directory"}, map[string]map[string]any{"directory": stringProp("directory to scan")}),
		},
		{
			Name:        "ground_suggest_pattern",
			Description: "Design pattern suggestion (not implemented in this build).",
			InputSchema: schema([]string{"file"}, map[string]map[string]any{"file": stringProp("file path")}),
		},
		{
			Name:        "ground_suggest_fix",
			Description: "Propose a refactor target and issue-tracker command for a duplicate pair.",
			InputSchema: schema([]string{"file_a", "file_b"}, map[string]map[string]any{
				"file_a": stringProp("first file path"),
				"file_b": stringProp("second file path"),
			}),
		},
	}
}
