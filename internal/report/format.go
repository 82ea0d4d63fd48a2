package report

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/fatih/color"
)

// GroupBy selects how Format buckets findings, matching §6's
// `report.group_by` configuration option.
type GroupBy string

const (
	GroupByFile     GroupBy = "file"
	GroupByType     GroupBy = "type"
	GroupBySeverity GroupBy = "severity"
	GroupByPackage  GroupBy = "package"
	GroupByApp      GroupBy = "app"
)

// Format selects the output encoding, matching §6's `report.format`
// configuration option.
type Format string

const (
	FormatText     Format = "text"
	FormatMarkdown Format = "markdown"
	FormatJSON     Format = "json"
)

// Finding is one reportable claim: a duplicate pair, a dead export, an
// orphaned module, or an environment mismatch, with an optional
// refactor Suggestion attached.
type Finding struct {
	Type       string      `json:"type"`
	File       string      `json:"file"`
	Package    string      `json:"package,omitempty"`
	App        string      `json:"app,omitempty"`
	Severity   Severity    `json:"severity"`
	Message    string      `json:"message"`
	Suggestion *Suggestion `json:"suggestion,omitempty"`
}

// Options configures Format's output.
type Options struct {
	Format             Format
	GroupBy            GroupBy
	IncludeSuggestions bool
}

// DefaultOptions returns {FormatText, GroupByFile, IncludeSuggestions: true}.
func DefaultOptions() Options {
	return Options{Format: FormatText, GroupBy: GroupByFile, IncludeSuggestions: true}
}

// Render formats findings per opts.
func Render(findings []Finding, opts Options) (string, error) {
	if !opts.IncludeSuggestions {
		for i := range findings {
			findings[i].Suggestion = nil
		}
	}

	switch opts.Format {
	case FormatJSON:
		return renderJSON(findings)
	case FormatMarkdown:
		return renderMarkdown(findings, opts.GroupBy), nil
	default:
		return renderText(findings, opts.GroupBy), nil
	}
}

func renderJSON(findings []Finding) (string, error) {
	data, err := json.MarshalIndent(findings, "", "  ")
	if err != nil {
		return "", fmt.Errorf("report: marshaling findings: %w", err)
	}
	return string(data), nil
}

func groupKey(f Finding, groupBy GroupBy) string {
	switch groupBy {
	case GroupByType:
		return f.Type
	case GroupBySeverity:
		return f.Severity.String()
	case GroupByPackage:
		return f.Package
	case GroupByApp:
		return f.App
	default:
		return f.File
	}
}

func groupFindings(findings []Finding, groupBy GroupBy) ([]string, map[string][]Finding) {
	groups := make(map[string][]Finding)
	var order []string
	for _, f := range findings {
		key := groupKey(f, groupBy)
		if _, seen := groups[key]; !seen {
			order = append(order, key)
		}
		groups[key] = append(groups[key], f)
	}
	sort.Strings(order)
	return order, groups
}

func renderText(findings []Finding, groupBy GroupBy) string {
	order, groups := groupFindings(findings, groupBy)

	severityColor := func(s Severity) *color.Color {
		switch s {
		case SeverityError:
			return color.New(color.FgRed, color.Bold)
		case SeverityWarning:
			return color.New(color.FgYellow)
		default:
			return color.New(color.FgCyan)
		}
	}

	var b strings.Builder
	for _, key := range order {
		fmt.Fprintf(&b, "%s\n", color.New(color.Bold, color.Underline).Sprint(key))
		for _, f := range groups[key] {
			sev := severityColor(f.Severity).Sprintf("[%s]", strings.ToUpper(f.Severity.String()))
			fmt.Fprintf(&b, "  %s %s: %s\n", sev, f.Type, f.Message)
			if f.Suggestion != nil {
				s := f.Suggestion
				fmt.Fprintf(&b, "    -> %s (priority: %s): move to %s\n", s.Shape, s.Priority, s.TargetLocation)
			}
		}
	}
	return b.String()
}

func renderMarkdown(findings []Finding, groupBy GroupBy) string {
	order, groups := groupFindings(findings, groupBy)

	var b strings.Builder
	for _, key := range order {
		fmt.Fprintf(&b, "## %s\n\n", key)
		for _, f := range groups[key] {
			fmt.Fprintf(&b, "- **[%s] %s**: %s\n", strings.ToUpper(f.Severity.String()), f.Type, f.Message)
			if f.Suggestion != nil {
				s := f.Suggestion
				fmt.Fprintf(&b, "  - refactor: %s (priority: %s) -> `%s`\n", s.Shape, s.Priority, s.TargetLocation)
				fmt.Fprintf(&b, "  - `%s`\n", s.IssueCreateCommand())
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}
