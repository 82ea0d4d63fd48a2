package rpcshell

// UIResource is one bundled read-only asset served by URI, per §6's
// "UI resources are bundled read-only assets served by URI"
// requirement. Grounded on ground-mcp.rs's UiRegistry/resources/list
// and resources/read handling; the asset content itself is an
// original minimal placeholder, not translated from anywhere, since
// original_source ships the actual HTML/JS bundle as a build
// artifact rather than Rust source.
type UIResource struct {
	URI         string
	Name        string
	Description string
	MimeType    string
	Content     string
}

// UIRegistry holds the fixed set of UI resources this build serves.
type UIRegistry struct {
	resources []UIResource
}

// NewUIRegistry returns the registry pre-populated with the
// duplicate-explorer resource referenced by ground_find_duplicate_functions,
// ground_compare, and ground_suggest_fix in tools/list's _meta.
func NewUIRegistry() *UIRegistry {
	return &UIRegistry{
		resources: []UIResource{
			{
				URI:         "ui://ground/duplicate-explorer",
				Name:        "Duplicate Explorer",
				Description: "Side-by-side view of a duplicate file pair with a preview diff.",
				MimeType:    "text/html",
				Content:     duplicateExplorerHTML,
			},
		},
	}
}

// List returns every registered resource.
func (r *UIRegistry) List() []UIResource {
	return r.resources
}

// Get looks up a resource by URI.
func (r *UIRegistry) Get(uri string) (UIResource, bool) {
	for _, res := range r.resources {
		if res.URI == uri {
			return res, true
		}
	}
	return UIResource{}, false
}

// duplicateUIMetaTools names the tools tools/list attaches the
// duplicate-explorer resource URI to, matching ground-mcp.rs's
// tools/list special-casing.
var duplicateUIMetaTools = map[string]bool{
	"ground_find_duplicate_functions": true,
	"ground_compare":                  true,
	"ground_suggest_fix":              true,
}

const duplicateExplorerHTML = `<!doctype html>
<html>
<head><meta charset="utf-8"><title>Duplicate Explorer</title></head>
<body>
<h1>Duplicate Explorer</h1>
<p>Renders the file pair and diff hunks from a ground_compare or
ground_suggest_fix tool-call result. Populated client-side by the MCP
host; this file ships only the static shell.</p>
</body>
</html>
`
