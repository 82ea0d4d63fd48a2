package report

import "fmt"

// Suggestion is §4.K's output for one duplicate-pair finding: the
// pattern-matched refactor shape, the proposed shared-module target
// location and import statement, a derived priority, and a ready-to-run
// `bd create` issue command — the same fields monorepo.rs's
// RefactoringSuggestion carries.
type Suggestion struct {
	Shape           Shape
	Label           string
	FileA           string
	FileB           string
	Similarity      float64
	Severity        Severity
	TargetLocation  string
	ImportStatement string
	Priority        Priority
}

// NewSuggestion pattern-matches fileA/fileB into a refactor shape and
// derives the target location, import statement, and priority. label
// is the name DetectShape falls back to for an unmatched
// (ShapeUtilityFunction) pair; whole-file callers that have no more
// specific name to offer should pass the empty string.
func NewSuggestion(fileA, fileB, label string, similarity float64, severity Severity) Suggestion {
	shape, resolvedLabel := DetectShape(fileA, fileB, label)
	return Suggestion{
		Shape:           shape,
		Label:           resolvedLabel,
		FileA:           fileA,
		FileB:           fileB,
		Similarity:      similarity,
		Severity:        severity,
		TargetLocation:  TargetLocation(shape, resolvedLabel),
		ImportStatement: ImportStatement(shape, resolvedLabel),
		Priority:        DerivePriority(shape, similarity, severity),
	}
}

// IssueCreateCommand renders a beads `bd create` command line for this
// suggestion, matching monorepo.rs's per-pattern beads_command strings
// (suggest_refactoring) and its generic generate_beads_command
// fallback for anything that didn't match a named pattern.
func (s Suggestion) IssueCreateCommand() string {
	pct := s.Similarity * 100
	var title string
	switch s.Shape {
	case ShapeAPIHandler:
		title = fmt.Sprintf("Extract shared %s handler (%.0f%% duplicate)", s.Label, pct)
	case ShapePageLoader:
		title = fmt.Sprintf("Extract shared %s loader (%.0f%% duplicate)", s.Label, pct)
	case ShapeSvelteComponent:
		title = fmt.Sprintf("Move %s to shared components (%.0f%% duplicate)", s.Label, pct)
	default:
		title = fmt.Sprintf("DRY violation: %s vs %s (%.0f%% similar)", s.FileA, s.FileB, pct)
	}
	return fmt.Sprintf("bd create %q --priority %s --label refactor", title, s.Priority)
}
