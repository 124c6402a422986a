package engine

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/webshift/webshift/internal/config"
	"github.com/webshift/webshift/internal/debug"
	"github.com/webshift/webshift/internal/frameworks"
	"github.com/webshift/webshift/internal/parser"
	"github.com/webshift/webshift/internal/types"
	"github.com/webshift/webshift/pkg/pathutil"
)

// Engine orchestrates a whole-project analysis: file discovery, per-file
// syntax analysis, aggregation, and suggestion generation. One Engine can
// run any number of analyses; per-run state lives on the stack of Analyze.
type Engine struct {
	cfg     *config.Config
	catalog *frameworks.Catalog
	cache   *resultCache
}

// New creates an Engine. A nil catalog selects the built-in framework
// tables.
func New(cfg *config.Config, catalog *frameworks.Catalog) *Engine {
	if catalog == nil {
		catalog = frameworks.Default()
	}
	return &Engine{
		cfg:     cfg,
		catalog: catalog,
		cache:   newResultCache(),
	}
}

// fileOutcome is the per-file result slot; exactly one of result/err is set.
type fileOutcome struct {
	result *parser.FileResult
	err    error
}

// Analyze analyzes the project at root (a single python file or a directory
// tree) and produces the complete project result. A failing file is logged,
// recorded in SkippedFiles and skipped; only discovery failures and context
// cancellation abort the run.
func (e *Engine) Analyze(ctx context.Context, root string, projectName string) (*types.ProjectAnalysisResult, error) {
	if projectName == "" {
		projectName = pathutil.ProjectName(root)
	}

	files, err := e.discover(root)
	if err != nil {
		return nil, err
	}

	outcomes := make([]fileOutcome, len(files))
	if e.cfg.Scan.Workers > 1 {
		err = e.analyzeParallel(ctx, files, outcomes)
	} else {
		err = e.analyzeSequential(ctx, files, outcomes)
	}
	if err != nil {
		return nil, err
	}

	result := e.aggregate(root, projectName, files, outcomes)
	return result, nil
}

func (e *Engine) discover(root string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{root}, nil
	}
	return NewScanner(e.cfg, root).Discover(root)
}

func (e *Engine) analyzeSequential(ctx context.Context, files []string, outcomes []fileOutcome) error {
	analyzer := parser.NewAnalyzer(e.catalog)
	defer analyzer.Close()

	for i, path := range files {
		if err := ctx.Err(); err != nil {
			return err
		}
		outcomes[i] = e.analyzeOne(analyzer, path)
	}
	return nil
}

// analyzeParallel fans files out over a bounded worker group. Safe because
// each worker owns its Analyzer and every per-file result, frameworks
// included, travels in the outcome slot rather than through shared state.
func (e *Engine) analyzeParallel(ctx context.Context, files []string, outcomes []fileOutcome) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.cfg.Scan.Workers)

	for i, path := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			analyzer := parser.NewAnalyzer(e.catalog)
			defer analyzer.Close()
			outcomes[i] = e.analyzeOne(analyzer, path)
			return nil
		})
	}
	return g.Wait()
}

// analyzeOne analyzes a single file, consulting the content cache first.
// All failure modes, unreadable file included, land in the outcome's err.
func (e *Engine) analyzeOne(analyzer *parser.Analyzer, path string) fileOutcome {
	content, err := os.ReadFile(path)
	if err != nil {
		debug.LogAnalyze("skipping unreadable file %s: %v", path, err)
		return fileOutcome{err: err}
	}

	key := e.cache.key(path, content)
	if analysis, seen, ok := e.cache.get(key); ok {
		return fileOutcome{result: &parser.FileResult{Analysis: analysis, Frameworks: seen}}
	}

	res := analyzer.AnalyzeSource(path, content)
	e.cache.put(key, res.Analysis, res.Frameworks)
	return fileOutcome{result: res}
}

// aggregate partitions file results, sums project-wide counts, and attaches
// the suggestion and guide sections.
func (e *Engine) aggregate(root, projectName string, files []string, outcomes []fileOutcome) *types.ProjectAnalysisResult {
	var (
		analyses []types.FileAnalysis
		skipped  []string
	)
	frameworksSeen := []string{}
	frameworkSet := make(map[string]struct{})

	for i, outcome := range outcomes {
		if outcome.err != nil {
			skipped = append(skipped, e.displayPath(root, files[i]))
			continue
		}
		analysis := outcome.result.Analysis
		analysis.Path = e.displayPath(root, analysis.Path)
		analyses = append(analyses, analysis)

		for _, name := range outcome.result.Frameworks {
			if _, dup := frameworkSet[name]; !dup {
				frameworkSet[name] = struct{}{}
				frameworksSeen = append(frameworksSeen, name)
			}
		}
	}

	result := &types.ProjectAnalysisResult{
		ProjectName:  projectName,
		TotalFiles:   len(analyses),
		UIFiles:      []types.FileAnalysis{},
		LogicFiles:   []types.FileAnalysis{},
		MixedFiles:   []types.FileAnalysis{},
		SkippedFiles: skipped,
	}

	summary := types.AnalysisSummary{UIFrameworks: frameworksSeen}
	for _, f := range analyses {
		summary.TotalLOC += f.LOC
		summary.TotalClasses += len(f.Classes)
		summary.TotalFunctions += len(f.Functions)
		switch {
		case f.IsUIFile:
			result.UIFiles = append(result.UIFiles, f)
		case f.IsLogicFile:
			result.LogicFiles = append(result.LogicFiles, f)
		case f.IsMixedFile:
			result.MixedFiles = append(result.MixedFiles, f)
		}
	}
	summary.UIFilesCount = len(result.UIFiles)
	summary.LogicFilesCount = len(result.LogicFiles)
	summary.MixedFilesCount = len(result.MixedFiles)
	summary.WebReadyPercentage = webReadyPercentage(analyses)
	result.AnalysisSummary = summary

	result.ExtractionSuggestions = extractionSuggestions(analyses)
	result.RefactoringSuggestions = refactoringSuggestions(analyses)
	result.WebConversionGuide = conversionGuide(result.UIFiles, result.LogicFiles, result.MixedFiles)

	debug.LogAnalyze("analyzed %d files (%d skipped) in project %s",
		len(analyses), len(skipped), projectName)
	return result
}

// displayPath renders a file path relative to the analyzed root.
func (e *Engine) displayPath(root, path string) string {
	if info, err := os.Stat(root); err == nil && !info.IsDir() {
		return filepath.Base(path)
	}
	rel := pathutil.ToRelative(path, root)
	if rel == path && strings.HasPrefix(path, root) {
		rel = strings.TrimPrefix(strings.TrimPrefix(path, root), string(filepath.Separator))
	}
	return filepath.ToSlash(rel)
}
