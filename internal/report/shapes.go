// Package report formats Ground's findings for a human or an agent
// and proposes concrete refactor targets, per §4.K. Grounded directly
// on original_source/packages/ground/src/monorepo.rs: its
// detect_violation_pattern/extract_api_handler_type/extract_loader_type/
// extract_component_name classify a duplicate pair into a named
// refactor shape, and suggest_refactoring/generate_beads_command turn
// that shape into a target path, an import statement, and a `bd
// create` issue command. Ground has no single fixed monorepo layout
// to hard-code package names against (monorepo.rs's PROPERTY_PACKAGES/
// COMPONENT_EXPORTS are specific to one codebase's packages/ tree), so
// the shared-module root is generalized to packages/components
// without assuming which apps exist above it; the pattern-matching
// and target-path shape itself is reproduced as written.
package report

import (
	"fmt"
	"strings"
)

// Shape is one of the refactor shapes a duplicate pair's file paths
// are pattern-matched against, mirroring monorepo.rs's
// ViolationPattern.
type Shape int

const (
	ShapeUtilityFunction Shape = iota
	ShapeAPIHandler
	ShapePageLoader
	ShapeSvelteComponent
)

func (s Shape) String() string {
	switch s {
	case ShapeAPIHandler:
		return "api-handler"
	case ShapePageLoader:
		return "page-loader"
	case ShapeSvelteComponent:
		return "svelte-component"
	default:
		return "utility-function"
	}
}

// DetectShape classifies a duplicate file pair the same way
// monorepo.rs's detect_violation_pattern does — routes/api/ paths are
// an API handler, +page.server.ts/+layout.server.ts paths are a page
// loader, a shared .svelte extension is a component — and returns the
// label the matching extract_* function would have pulled from the
// path (the API module name, the route segment, or the component
// name). Anything that matches none of those falls back to
// ShapeUtilityFunction labeled with label, the caller-supplied name of
// the duplicated unit (a function name from a function-level DRY
// match, or the shorter file's base name when only whole-file
// evidence is available).
func DetectShape(fileA, fileB, label string) (Shape, string) {
	if strings.Contains(fileA, "/routes/api/") && strings.Contains(fileB, "/routes/api/") {
		handlerType := firstNonEmpty(apiHandlerType(fileA), apiHandlerType(fileB), "api")
		return ShapeAPIHandler, handlerType
	}
	if isPageLoaderPath(fileA) && isPageLoaderPath(fileB) {
		loaderType := firstNonEmpty(loaderSegment(fileA), loaderSegment(fileB), "page")
		return ShapePageLoader, loaderType
	}
	if strings.HasSuffix(fileA, ".svelte") && strings.HasSuffix(fileB, ".svelte") {
		name := firstNonEmpty(componentName(fileA), componentName(fileB), "Component")
		return ShapeSvelteComponent, name
	}
	if label == "" {
		label = baseNameNoExt(fileA)
	}
	return ShapeUtilityFunction, label
}

// apiHandlerType extracts the module name after /api/ in a routes
// path, e.g. ".../routes/api/analytics/events/+server.ts" -> "analytics",
// matching monorepo.rs's extract_api_handler_type.
func apiHandlerType(path string) string {
	parts := strings.Split(path, "/")
	for i, p := range parts {
		if p == "api" && i+1 < len(parts) {
			return parts[i+1]
		}
	}
	return ""
}

func isPageLoaderPath(path string) bool {
	return strings.Contains(path, "+page.server.ts") || strings.Contains(path, "+layout.server.ts")
}

// loaderSegment extracts the route segment after /routes/ that isn't
// itself a +file, e.g. ".../routes/account/+page.server.ts" ->
// "account", matching monorepo.rs's extract_loader_type.
func loaderSegment(path string) string {
	parts := strings.Split(path, "/")
	for i, p := range parts {
		if p != "routes" {
			continue
		}
		for _, seg := range parts[i+1:] {
			if !strings.HasPrefix(seg, "+") && !strings.Contains(seg, ".") {
				return seg
			}
		}
	}
	return ""
}

// componentName strips the .svelte extension from the file's base
// name, matching monorepo.rs's extract_component_name.
func componentName(path string) string {
	parts := strings.Split(path, "/")
	name := parts[len(parts)-1]
	return strings.TrimSuffix(name, ".svelte")
}

func baseNameNoExt(path string) string {
	parts := strings.Split(path, "/")
	name := parts[len(parts)-1]
	if i := strings.LastIndex(name, "."); i > 0 {
		name = name[:i]
	}
	return name
}

func firstNonEmpty(candidates ...string) string {
	for _, c := range candidates {
		if c != "" {
			return c
		}
	}
	return ""
}

// apiHandlerModule maps a handler_type to the shared-components module
// it belongs under, matching suggest_refactoring's match on
// handler_type ("analytics"/"newsletter" pass through, "auth"/"login"/
// "signup"/"user" all fold into "auth", everything else is generic
// "api").
func apiHandlerModule(handlerType string) string {
	switch handlerType {
	case "analytics", "newsletter":
		return handlerType
	case "auth", "login", "signup", "user":
		return "auth"
	default:
		return "api"
	}
}

// TargetLocation proposes the shared-module path a duplicate pair
// should be consolidated into, matching suggest_refactoring's
// per-pattern target_path conventions exactly.
func TargetLocation(shape Shape, label string) string {
	switch shape {
	case ShapeAPIHandler:
		return fmt.Sprintf("packages/components/src/lib/%s/handlers.ts", apiHandlerModule(label))
	case ShapePageLoader:
		return "packages/components/src/lib/auth/handlers.ts"
	case ShapeSvelteComponent:
		return fmt.Sprintf("packages/components/src/lib/components/%s.svelte", label)
	default:
		return "packages/components/src/lib/utils/index.ts"
	}
}

// ImportStatement renders the import line consumers should switch to
// once the duplicate is consolidated at TargetLocation, matching
// suggest_refactoring's import_statement conventions.
func ImportStatement(shape Shape, label string) string {
	switch shape {
	case ShapeAPIHandler:
		return fmt.Sprintf("import { create%sHandler } from '@components/%s'", toPascalCase(label), apiHandlerModule(label))
	case ShapePageLoader:
		return fmt.Sprintf("import { create%sPageLoader } from '@components/auth'", toPascalCase(label))
	case ShapeSvelteComponent:
		return fmt.Sprintf("import { %s } from '@components/components'", label)
	default:
		return fmt.Sprintf("import { %s } from '@components/utils'", label)
	}
}

// toPascalCase matches monorepo.rs's to_pascal_case: split on '_', '-',
// and ' ', then title-case and join each word.
func toPascalCase(s string) string {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == '_' || r == '-' || r == ' '
	})
	var b strings.Builder
	for _, word := range fields {
		if word == "" {
			continue
		}
		b.WriteString(strings.ToUpper(word[:1]))
		b.WriteString(word[1:])
	}
	return b.String()
}
