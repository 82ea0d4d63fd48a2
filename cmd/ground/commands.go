package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/groundlang/ground/internal/ast"
	"github.com/groundlang/ground/internal/claimgate"
	"github.com/groundlang/ground/internal/config"
	"github.com/groundlang/ground/internal/importgraph"
	"github.com/groundlang/ground/internal/policy"
	"github.com/groundlang/ground/internal/reachability"
	"github.com/groundlang/ground/internal/registry"
	"github.com/groundlang/ground/internal/report"
	"github.com/groundlang/ground/internal/rpcshell"
	"github.com/groundlang/ground/internal/similarity"
	"github.com/groundlang/ground/pkg/logging"
)

// Exit codes, matching §6 exactly.
const (
	exitClean           = 0
	exitViolation       = 1
	exitConfigOrIOError = 2
)

var (
	dbPath        string
	workspacePath string
	reportFormat  string
	reportGroupBy string

	rootCmd = &cobra.Command{
		Use:   "ground",
		Short: "Grounded claims for code: duplication, dead exports, connectivity, environment safety",
	}

	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Run the JSON-RPC/MCP stdio server",
		Run:   runServe,
	}

	analyzeCmd = &cobra.Command{
		Use:   "analyze [directory]",
		Short: "Scan a directory for duplicate functions and orphaned modules",
		Args:  cobra.MaximumNArgs(1),
		Run:   runAnalyze,
	}

	reportCmd = &cobra.Command{
		Use:   "report [directory]",
		Short: "Render a findings report for a directory using the configured format",
		Args:  cobra.MaximumNArgs(1),
		Run:   runReport,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", ".ground/registry.db", "path to registry database")
	rootCmd.PersistentFlags().StringVar(&workspacePath, "workspace", "", "workspace root to resolve relative paths against")

	reportCmd.Flags().StringVar(&reportFormat, "format", "", "override report.format (text|markdown|json)")
	reportCmd.Flags().StringVar(&reportGroupBy, "group-by", "", "override report.group_by (file|type|severity|package|app)")

	rootCmd.AddCommand(serveCmd, analyzeCmd, reportCmd)
}

func changeToWorkspace(logger *logging.Logger) {
	if workspacePath == "" {
		return
	}
	info, err := os.Stat(workspacePath)
	if err != nil || !info.IsDir() {
		logger.Warn("workspace path does not exist", "path", workspacePath)
		return
	}
	if err := os.Chdir(workspacePath); err != nil {
		logger.Warn("could not change to workspace", "path", workspacePath, "error", err)
		return
	}
	logger.Info("workspace", "path", workspacePath)
}

// openRegistry opens the persistent evidence store at dbPath,
// creating its parent directory if needed.
func openRegistry(logger *logging.Logger) (*registry.DB, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		_ = os.MkdirAll(dir, 0o755)
	}
	dbCfg := registry.DefaultConfig()
	dbCfg.Path = dbPath
	db, err := registry.OpenDB(dbCfg)
	if err != nil {
		logger.Error("failed to open registry", "db", dbPath, "error", err)
		return nil, err
	}
	return db, nil
}

func runServe(cmd *cobra.Command, args []string) {
	logger := logging.Default().With("service", "ground-mcp")
	changeToWorkspace(logger)

	db, err := openRegistry(logger)
	if err != nil {
		os.Exit(exitConfigOrIOError)
	}
	defer db.Close()

	engine := rpcshell.NewEngine(db)
	shell := rpcshell.NewShell(engine)
	shell.Logger = logger

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-quit
		logger.Info("shutting down")
		cancel()
	}()

	logger.Info("MCP server started", "db", dbPath)
	if err := shell.Serve(ctx, os.Stdin, os.Stdout); err != nil && ctx.Err() == nil {
		logger.Error("serve loop exited with error", "error", err)
		os.Exit(exitConfigOrIOError)
	}
}

func targetDir(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return "."
}

// scanDirectory runs the duplicate-function scan and orphan-detection
// pass over directory, filters duplicate pairs through both the
// config-level pair suppressions and the built-in exception policy
// (boilerplate, re-export barrels, acceptable-pattern pairs, smart
// per-domain thresholds), persists similarity evidence for every
// surviving pair, and only reports a duplicate finding once
// claimgate.ClaimDryViolation can actually be asserted from that
// persisted evidence — a pair never becomes a finding on the strength
// of its raw similarity score alone.
func scanDirectory(ctx context.Context, db *registry.DB, directory string, cfg config.Config, polCfg policy.Config) ([]report.Finding, error) {
	parsers := ast.NewDefaultRegistry()

	graph, err := importgraph.Build(ctx, directory, parsers, importgraph.DefaultBuildOptions())
	if err != nil {
		return nil, fmt.Errorf("building import graph: %w", err)
	}

	var files []similarity.File
	for path := range graph.Nodes() {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		files = append(files, similarity.File{Path: path, Content: string(data)})
	}

	var findings []report.Finding
	for _, pair := range similarity.ScanDuplicates(ctx, files, 0.60) {
		threshold := policy.ThresholdForDomain(polCfg, pair.FileA)
		if pair.Evidence.Similarity < threshold {
			continue
		}
		if cfg.ShouldIgnorePair(pair.FileA, pair.FileB) || cfg.ShouldIgnorePath(pair.FileA) || cfg.ShouldIgnorePath(pair.FileB) {
			continue
		}

		contentA, contentB := contentsFor(files, pair.FileA, pair.FileB)
		match := policy.CheckException(polCfg, pair.FileA, pair.FileB, contentA, contentB)
		if match.IsException() {
			continue
		}

		if _, err := claimgate.RecordSimilarityEvidence(ctx, db, pair.FileA, pair.FileB,
			pair.Evidence.HashA, pair.Evidence.HashB, pair.Evidence.Similarity, pair.Evidence.ComputedAt); err != nil {
			return nil, fmt.Errorf("recording similarity evidence: %w", err)
		}
		pairThresholds := claimgate.DefaultThresholds()
		pairThresholds.DrySimilarity = threshold
		if _, err := claimgate.ClaimDryViolation(ctx, db, pair.FileA, pair.FileB,
			pair.Evidence.HashA, pair.Evidence.HashB, "composite similarity meets configured threshold", pairThresholds); err != nil {
			continue
		}

		severity := report.SeverityWarning
		if pair.Evidence.Similarity >= 0.95 {
			severity = report.SeverityError
		}
		suggestion := report.NewSuggestion(pair.FileA, pair.FileB, "", pair.Evidence.Similarity, severity)
		findings = append(findings, report.Finding{
			Type:       "duplicate_function",
			File:       pair.FileA,
			Severity:   severity,
			Message:    fmt.Sprintf("%.0f%% similar to %s", pair.Evidence.Similarity*100, pair.FileB),
			Suggestion: &suggestion,
		})
	}

	ranked := reachability.PageRank(ctx, graph, reachability.DefaultPageRankOptions())
	for path, class := range reachability.Classify(ranked) {
		if class != reachability.Peripheral || cfg.ShouldIgnorePath(path) {
			continue
		}
		findings = append(findings, report.Finding{
			Type:     "orphan",
			File:     path,
			Severity: report.SeverityInfo,
			Message:  "no significant incoming connections",
		})
	}

	return findings, nil
}

func contentsFor(files []similarity.File, fileA, fileB string) (*string, *string) {
	var a, b *string
	for i := range files {
		if files[i].Path == fileA {
			a = &files[i].Content
		}
		if files[i].Path == fileB {
			b = &files[i].Content
		}
	}
	return a, b
}

func loadConfigs(logger *logging.Logger) (config.Config, policy.Config) {
	cfg := config.LoadDefaultLocations()
	polCfg, err := policy.LoadConfig(".ground-exceptions.yml")
	if err != nil {
		logger.Error("loading exception policy", "error", err)
		os.Exit(exitConfigOrIOError)
	}
	return cfg, polCfg
}

func runAnalyze(cmd *cobra.Command, args []string) {
	logger := logging.Default().With("command", "analyze")
	changeToWorkspace(logger)

	cfg, polCfg := loadConfigs(logger)
	db, err := openRegistry(logger)
	if err != nil {
		os.Exit(exitConfigOrIOError)
	}
	defer db.Close()

	findings, err := scanDirectory(context.Background(), db, targetDir(args), cfg, polCfg)
	if err != nil {
		logger.Error("analyze failed", "error", err)
		os.Exit(exitConfigOrIOError)
	}

	text, err := report.Render(findings, report.Options{Format: report.FormatText, GroupBy: report.GroupByFile, IncludeSuggestions: true})
	if err != nil {
		logger.Error("rendering report", "error", err)
		os.Exit(exitConfigOrIOError)
	}
	fmt.Println(text)

	if len(findings) > 0 {
		os.Exit(exitViolation)
	}
	os.Exit(exitClean)
}

func runReport(cmd *cobra.Command, args []string) {
	logger := logging.Default().With("command", "report")
	changeToWorkspace(logger)

	cfg, polCfg := loadConfigs(logger)
	db, err := openRegistry(logger)
	if err != nil {
		os.Exit(exitConfigOrIOError)
	}
	defer db.Close()

	findings, err := scanDirectory(context.Background(), db, targetDir(args), cfg, polCfg)
	if err != nil {
		logger.Error("report failed", "error", err)
		os.Exit(exitConfigOrIOError)
	}

	opts := report.Options{
		Format:             cfg.Report.Format,
		GroupBy:            cfg.Report.GroupBy,
		IncludeSuggestions: cfg.Report.IncludeSuggestions,
	}
	if reportFormat != "" {
		opts.Format = report.Format(reportFormat)
	}
	if reportGroupBy != "" {
		opts.GroupBy = report.GroupBy(reportGroupBy)
	}

	text, err := report.Render(findings, opts)
	if err != nil {
		logger.Error("rendering report", "error", err)
		os.Exit(exitConfigOrIOError)
	}
	fmt.Println(text)

	if len(findings) > 0 {
		os.Exit(exitViolation)
	}
	os.Exit(exitClean)
}
