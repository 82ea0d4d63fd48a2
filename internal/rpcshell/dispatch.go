package rpcshell

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/groundlang/ground/internal/ast"
	"github.com/groundlang/ground/internal/claimgate"
	"github.com/groundlang/ground/internal/confidence"
	"github.com/groundlang/ground/internal/config"
	"github.com/groundlang/ground/internal/environment"
	"github.com/groundlang/ground/internal/importgraph"
	"github.com/groundlang/ground/internal/reachability"
	"github.com/groundlang/ground/internal/registry"
	"github.com/groundlang/ground/internal/report"
	"github.com/groundlang/ground/internal/similarity"
	"github.com/groundlang/ground/internal/usage"
)

// Engine holds the shared, long-lived state a tool call needs: the
// durable registry, the parser registry, and claim thresholds. One
// Engine serves every request the shell loop dispatches.
type Engine struct {
	DB         *registry.DB
	Parsers    *ast.ParserRegistry
	Thresholds claimgate.Thresholds
}

// NewEngine returns an Engine with the default parser registry and
// claim thresholds.
func NewEngine(db *registry.DB) *Engine {
	return &Engine{
		DB:         db,
		Parsers:    ast.NewDefaultRegistry(),
		Thresholds: claimgate.DefaultThresholds(),
	}
}

// ToolResult is the outcome of one tools/call dispatch, matching the
// Rust original's ToolCallResult{success, content, error}.
type ToolResult struct {
	Success bool
	Content any
	Error   string
}

func failure(format string, args ...any) ToolResult {
	return ToolResult{Success: false, Error: fmt.Sprintf(format, args...)}
}

func success(content any) ToolResult {
	return ToolResult{Success: true, Content: content}
}

// HandleToolCall dispatches one ground_* tool by name, mirroring
// mcp::handle_tool_call's match arms.
func (e *Engine) HandleToolCall(ctx context.Context, name string, args map[string]any) ToolResult {
	switch name {
	case "ground_count_uses":
		return e.countUses(ctx, args)
	case "ground_find_dead_exports":
		return e.findDeadExports(ctx, args)
	case "ground_find_duplicate_functions":
		return e.findDuplicateFunctions(ctx, args)
	case "ground_analyze":
		return e.analyze(ctx, args)
	case "ground_check_connections":
		return e.checkConnections(ctx, args)
	case "ground_compare":
		return e.compare(ctx, args)
	case "ground_find_orphans":
		return e.findOrphans(ctx, args)
	case "ground_check_environment":
		return e.checkEnvironment(ctx, args)
	case "ground_suggest_fix":
		return e.suggestFix(ctx, args)
	case "ground_find_drift", "ground_adoption_ratio", "ground_mine_patterns", "ground_suggest_pattern":
		return failure("%s is not implemented: design-token drift detection is out of scope for this build", name)
	default:
		return failure("unknown tool: %s", name)
	}
}

func stringArg(args map[string]any, key string) (string, bool) {
	v, ok := args[key].(string)
	return v, ok && v != ""
}

func boolArg(args map[string]any, key string) bool {
	v, _ := args[key].(bool)
	return v
}

func (e *Engine) countUses(ctx context.Context, args map[string]any) ToolResult {
	symbol, ok := stringArg(args, "symbol")
	if !ok {
		return failure("missing required argument: symbol")
	}
	searchPath, _ := stringArg(args, "search_path")
	if searchPath == "" {
		searchPath = "."
	}

	ev, err := usage.CountUsages(ctx, symbol, searchPath, e.Parsers)
	if err != nil {
		return failure("count_uses failed: %v", err)
	}
	return success(ev)
}

func (e *Engine) findDeadExports(ctx context.Context, args map[string]any) ToolResult {
	modulePath, ok := stringArg(args, "module_path")
	if !ok {
		return failure("missing required argument: module_path")
	}
	symbol, ok := stringArg(args, "symbol")
	if !ok {
		return failure("missing required argument: symbol")
	}

	ev, err := usage.CountUsages(ctx, symbol, modulePath, e.Parsers)
	if err != nil {
		return failure("find_dead_exports failed: %v", err)
	}
	if _, err := registry.Record(ctx, e.DB, registry.VariantUsage, registry.UsageKey(symbol, modulePath),
		nil, map[string]int{"count": ev.Count}, time.Now()); err != nil {
		return failure("find_dead_exports: recording evidence: %v", err)
	}

	claim, err := claimgate.ClaimNoExistence(ctx, e.DB, symbol, modulePath, "no references found", e.Thresholds)
	if err != nil {
		return failure("find_dead_exports: %v", err)
	}
	score := confidence.DeadExportConfidence(ev)
	return success(map[string]any{"claim": claim, "confidence": score})
}

func (e *Engine) buildGraph(ctx context.Context, directory string) (*importgraph.Graph, error) {
	return importgraph.Build(ctx, directory, e.Parsers, importgraph.DefaultBuildOptions())
}

func (e *Engine) findDuplicateFunctions(ctx context.Context, args map[string]any) ToolResult {
	directory, ok := stringArg(args, "directory")
	if !ok {
		return failure("missing required argument: directory")
	}
	crossPackage := boolArg(args, "cross_package")

	functions, err := extractFunctionBodies(ctx, directory, e.Parsers)
	if err != nil {
		return failure("find_duplicate_functions failed: %v", err)
	}

	candidates := similarity.FindFunctionDry(functions, e.Thresholds.DrySimilarity)
	if !crossPackage {
		var samePackage []similarity.DryCandidate
		for _, c := range candidates {
			if filepath.Dir(c.A.FilePath) == filepath.Dir(c.B.FilePath) {
				samePackage = append(samePackage, c)
			}
		}
		candidates = samePackage
	}
	return success(candidates)
}

// extractFunctionBodies walks directory, parses every file its
// registered parsers cover, and slices out the source text of each
// function/method symbol whose line span meets the configured
// minimum, for function-level DRY scanning per §4.C.
func extractFunctionBodies(ctx context.Context, directory string, parsers *ast.ParserRegistry) ([]similarity.FunctionBody, error) {
	files, err := collectFiles(directory, parsers)
	if err != nil {
		return nil, err
	}
	minLines := config.Default().Thresholds.MinFunctionLines

	var functions []similarity.FunctionBody
	for _, f := range files {
		parser, ok := parsers.GetByExtension(strings.ToLower(filepath.Ext(f.Path)))
		if !ok {
			continue
		}
		result, err := parser.Parse(ctx, []byte(f.Content), f.Path)
		if err != nil {
			continue
		}
		lines := strings.Split(f.Content, "\n")
		for _, sym := range result.Symbols {
			appendFunctionBodies(sym, lines, minLines, &functions)
		}
	}
	return functions, nil
}

func appendFunctionBodies(sym *ast.Symbol, lines []string, minLines int, out *[]similarity.FunctionBody) {
	if sym.Kind == ast.SymbolFunction || sym.Kind == ast.SymbolMethod {
		span := sym.EndLine - sym.StartLine + 1
		if span >= minLines && sym.StartLine >= 1 && sym.EndLine <= len(lines) {
			body := strings.Join(lines[sym.StartLine-1:sym.EndLine], "\n")
			*out = append(*out, similarity.FunctionBody{FilePath: sym.FilePath, Name: sym.Name, Body: body})
		}
	}
	for _, child := range sym.Children {
		appendFunctionBodies(child, lines, minLines, out)
	}
}

func (e *Engine) analyze(ctx context.Context, args map[string]any) ToolResult {
	directory, ok := stringArg(args, "directory")
	if !ok {
		return failure("missing required argument: directory")
	}

	files, err := collectFiles(directory, e.Parsers)
	if err != nil {
		return failure("analyze failed: %v", err)
	}
	duplicates := similarity.ScanDuplicates(ctx, files, 0.80)

	var claims []claimgate.DryViolationClaim
	for _, pair := range duplicates {
		if _, err := claimgate.RecordSimilarityEvidence(ctx, e.DB, pair.FileA, pair.FileB,
			pair.Evidence.HashA, pair.Evidence.HashB, pair.Evidence.Similarity, pair.Evidence.ComputedAt); err != nil {
			return failure("analyze: recording evidence: %v", err)
		}
		claim, err := claimgate.ClaimDryViolation(ctx, e.DB, pair.FileA, pair.FileB,
			pair.Evidence.HashA, pair.Evidence.HashB, "composite similarity meets DRY threshold", e.Thresholds)
		if err != nil {
			continue
		}
		claims = append(claims, claim)
	}

	graph, err := e.buildGraph(ctx, directory)
	if err != nil {
		return failure("analyze failed: %v", err)
	}
	ranked := reachability.PageRank(ctx, graph, reachability.DefaultPageRankOptions())
	classes := reachability.Classify(ranked)

	return success(map[string]any{
		"duplicates":     duplicates,
		"claims":         claims,
		"classification": classes,
		"truncated":      graph.Truncated,
	})
}

func (e *Engine) checkConnections(ctx context.Context, args map[string]any) ToolResult {
	modulePath, ok := stringArg(args, "module_path")
	if !ok {
		return failure("missing required argument: module_path")
	}

	graph, err := e.buildGraph(ctx, filepath.Dir(modulePath))
	if err != nil {
		return failure("check_connections failed: %v", err)
	}
	ev := importgraph.AnalyzeConnectivity(graph, modulePath)

	if _, err := registry.Record(ctx, e.DB, registry.VariantConnectivity, registry.ConnectivityKey(modulePath),
		nil, map[string]int{"total_connections": ev.TotalConnections()}, time.Now()); err != nil {
		return failure("check_connections: recording evidence: %v", err)
	}

	claim, err := claimgate.ClaimDisconnection(ctx, e.DB, modulePath, "no incoming or outgoing edges", e.Thresholds)
	if err != nil {
		return failure("check_connections: %v", err)
	}
	score := confidence.OrphanConfidence(ev)
	return success(map[string]any{"claim": claim, "confidence": score})
}

func (e *Engine) compare(ctx context.Context, args map[string]any) ToolResult {
	fileA, ok := stringArg(args, "file_a")
	if !ok {
		return failure("missing required argument: file_a")
	}
	fileB, ok := stringArg(args, "file_b")
	if !ok {
		return failure("missing required argument: file_b")
	}

	contentA, err := os.ReadFile(fileA)
	if err != nil {
		return failure("compare failed: reading %s: %v", fileA, err)
	}
	contentB, err := os.ReadFile(fileB)
	if err != nil {
		return failure("compare failed: reading %s: %v", fileB, err)
	}

	ev := similarity.ComputePair(fileA, fileB, string(contentA), string(contentB))
	hunks, err := report.PreviewDiff(fileA, fileB, string(contentA), string(contentB))
	if err != nil {
		return failure("compare failed: %v", err)
	}

	if _, err := claimgate.RecordSimilarityEvidence(ctx, e.DB, fileA, fileB, ev.HashA, ev.HashB, ev.Similarity, ev.ComputedAt); err != nil {
		return failure("compare: recording evidence: %v", err)
	}
	claim, err := claimgate.ClaimDryViolation(ctx, e.DB, fileA, fileB, ev.HashA, ev.HashB, "composite similarity meets DRY threshold", e.Thresholds)
	if err != nil {
		return failure("compare: %v", err)
	}
	return success(map[string]any{"evidence": ev, "diff": hunks, "claim": claim})
}

func (e *Engine) findOrphans(ctx context.Context, args map[string]any) ToolResult {
	directory, ok := stringArg(args, "directory")
	if !ok {
		return failure("missing required argument: directory")
	}

	graph, err := e.buildGraph(ctx, directory)
	if err != nil {
		return failure("find_orphans failed: %v", err)
	}
	ranked := reachability.PageRank(ctx, graph, reachability.DefaultPageRankOptions())
	classes := reachability.Classify(ranked)

	var orphans []string
	for path, class := range classes {
		if class == reachability.Peripheral {
			orphans = append(orphans, path)
		}
	}
	return success(map[string]any{"orphans": orphans, "ranking": ranked})
}

func (e *Engine) checkEnvironment(ctx context.Context, args map[string]any) ToolResult {
	entryPoint, ok := stringArg(args, "entry_point")
	if !ok {
		return failure("missing required argument: entry_point")
	}

	graph, err := e.buildGraph(ctx, filepath.Dir(entryPoint))
	if err != nil {
		return failure("check_environment failed: %v", err)
	}

	contents := make(map[string]string)
	for path := range graph.Nodes() {
		data, err := os.ReadFile(path)
		if err == nil {
			contents[path] = string(data)
		}
	}

	ev := environment.AnalyzeEnvironmentSafety(entryPoint, graph, contents)
	score := confidence.EnvironmentSafetyConfidence(ev)
	return success(map[string]any{"evidence": ev, "confidence": score})
}

func (e *Engine) suggestFix(ctx context.Context, args map[string]any) ToolResult {
	fileA, ok := stringArg(args, "file_a")
	if !ok {
		return failure("missing required argument: file_a")
	}
	fileB, ok := stringArg(args, "file_b")
	if !ok {
		return failure("missing required argument: file_b")
	}

	contentA, err := os.ReadFile(fileA)
	if err != nil {
		return failure("suggest_fix failed: reading %s: %v", fileA, err)
	}
	contentB, err := os.ReadFile(fileB)
	if err != nil {
		return failure("suggest_fix failed: reading %s: %v", fileB, err)
	}

	ev := similarity.ComputePair(fileA, fileB, string(contentA), string(contentB))

	if _, err := claimgate.RecordSimilarityEvidence(ctx, e.DB, fileA, fileB, ev.HashA, ev.HashB, ev.Similarity, ev.ComputedAt); err != nil {
		return failure("suggest_fix: recording evidence: %v", err)
	}
	claim, err := claimgate.ClaimDryViolation(ctx, e.DB, fileA, fileB, ev.HashA, ev.HashB, "composite similarity meets DRY threshold", e.Thresholds)
	if err != nil {
		return failure("suggest_fix: %v", err)
	}

	severity := report.SeverityWarning
	if ev.Similarity >= 0.95 {
		severity = report.SeverityError
	}
	suggestion := report.NewSuggestion(fileA, fileB, "", ev.Similarity, severity)
	return success(map[string]any{"suggestion": suggestion, "command": suggestion.IssueCreateCommand(), "claim": claim})
}

func collectFiles(directory string, parsers *ast.ParserRegistry) ([]similarity.File, error) {
	graph, err := importgraph.Build(context.Background(), directory, parsers, importgraph.DefaultBuildOptions())
	if err != nil {
		return nil, err
	}
	var files []similarity.File
	for path := range graph.Nodes() {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		files = append(files, similarity.File{Path: path, Content: string(data)})
	}
	return files, nil
}
