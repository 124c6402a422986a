package engine

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/webshift/webshift/internal/types"
)

// Suggestion thresholds. Extraction only scans mixed files: UI files have
// nothing worth pulling out and logic files need no pulling.
const (
	minPureExtractionLOC = 3   // pure functions shorter than this are not worth a suggestion
	minMinorUIExtractLOC = 5   // minimum size for a "minimal UI usage" extraction
	maxMinorUIUsages     = 2   // more UI touchpoints than this means real UI code
	largeUIClassLOC      = 200 // UI classes beyond this warrant decomposition
	highPriorityPureMin  = 3   // pure functions needed before a split is high priority
	topPatternCount      = 5   // base-class patterns listed in the guide
)

// extractionSuggestions proposes functions to pull out of mixed files. Pure
// functions are web-ready as-is; impure functions with at most two UI
// touchpoints are near-misses worth flagging. The two categories are
// mutually exclusive because a pure function has no UI usage by definition.
func extractionSuggestions(analyses []types.FileAnalysis) []types.ExtractionSuggestion {
	suggestions := []types.ExtractionSuggestion{}

	for _, file := range analyses {
		if !file.IsMixedFile {
			continue
		}

		for _, fn := range file.Functions {
			if fn.IsPure && fn.LOC >= minPureExtractionLOC {
				suggestions = append(suggestions, types.ExtractionSuggestion{
					File:            file.Path,
					Function:        fn.Name,
					StartLine:       fn.StartLine,
					EndLine:         fn.EndLine,
					Reason:          "Pure function with no UI dependencies",
					WebReady:        true,
					EstimatedEffort: "low",
					Dependencies:    fn.Dependencies,
				})
			}
		}

		for _, fn := range file.Functions {
			if !fn.IsPure && len(fn.UIUsage) <= maxMinorUIUsages && fn.LOC >= minMinorUIExtractLOC {
				suggestions = append(suggestions, types.ExtractionSuggestion{
					File:            file.Path,
					Function:        fn.Name,
					StartLine:       fn.StartLine,
					EndLine:         fn.EndLine,
					Reason:          fmt.Sprintf("Minimal UI usage: %s", strings.Join(fn.UIUsage, ", ")),
					WebReady:        false,
					EstimatedEffort: "medium",
					Dependencies:    fn.Dependencies,
				})
			}
		}
	}

	return suggestions
}

// refactoringSuggestions flags mixed files worth splitting and oversized UI
// classes in any file.
func refactoringSuggestions(analyses []types.FileAnalysis) []types.RefactoringSuggestion {
	suggestions := []types.RefactoringSuggestion{}

	for _, file := range analyses {
		if file.IsMixedFile {
			pureCount := 0
			uiCount := 0
			for _, fn := range file.Functions {
				if fn.IsPure {
					pureCount++
				}
				if len(fn.UIUsage) > 0 {
					uiCount++
				}
			}

			if pureCount > 0 && uiCount > 0 {
				priority := "medium"
				if pureCount >= highPriorityPureMin {
					priority = "high"
				}
				suggestions = append(suggestions, types.RefactoringSuggestion{
					File:            file.Path,
					Issue:           "Mixed UI and business logic",
					Suggestion:      fmt.Sprintf("Split into separate files: %d pure functions can be moved to a logic module", pureCount),
					Priority:        priority,
					EstimatedEffort: "medium",
				})
			}
		}

		for _, cls := range file.Classes {
			if cls.IsUIClass && cls.LOC > largeUIClassLOC {
				suggestions = append(suggestions, types.RefactoringSuggestion{
					File:            file.Path,
					Issue:           fmt.Sprintf("Large UI class: %s (%d LOC)", cls.Name, cls.LOC),
					Suggestion:      "Consider breaking down into smaller components or extracting business logic",
					Priority:        "medium",
					EstimatedEffort: "high",
				})
			}
		}
	}

	return suggestions
}

// basePattern pairs a UI base class with how many UI classes inherit it.
type basePattern struct {
	name  string
	count int
}

// conversionGuide summarizes how the project maps onto a web stack: the
// dominant widget base classes, a coarse complexity estimate, and a short
// set of recommendations gated on what the analysis actually found.
func conversionGuide(uiFiles, logicFiles, mixedFiles []types.FileAnalysis) types.WebConversionGuide {
	patterns := tallyBasePatterns(uiFiles)

	recommendations := []string{}

	logicFuncCount := 0
	for _, f := range logicFiles {
		logicFuncCount += len(f.Functions)
	}
	if logicFuncCount > 0 {
		recommendations = append(recommendations, fmt.Sprintf(
			"%d pure functions in %d files are web-ready and can be reused as-is",
			logicFuncCount, len(logicFiles)))
	}

	if len(mixedFiles) > 0 {
		recommendations = append(recommendations, fmt.Sprintf(
			"%d mixed files need refactoring to separate UI from logic", len(mixedFiles)))
	}

	if len(patterns) > 0 {
		recommendations = append(recommendations, fmt.Sprintf(
			"Main UI framework pattern: %s - consider React/Vue.js for web equivalent",
			patterns[0].name))
	}

	totalUIClasses := 0
	for _, f := range uiFiles {
		totalUIClasses += len(f.Classes)
	}
	complexity := "low"
	switch {
	case totalUIClasses > 20:
		complexity = "high"
	case totalUIClasses > 10:
		complexity = "medium"
	}

	reusable := make([]string, 0, len(logicFiles))
	for _, f := range logicFiles {
		reusable = append(reusable, f.Path)
	}
	toReplace := make([]string, 0, len(uiFiles))
	for _, f := range uiFiles {
		toReplace = append(toReplace, f.Path)
	}

	return types.WebConversionGuide{
		Summary: fmt.Sprintf("Project has %d web-ready files and %d files requiring UI conversion",
			len(logicFiles), len(uiFiles)+len(mixedFiles)),
		ReusableModules:       reusable,
		UIComponentsToReplace: toReplace,
		RecommendedApproach:   "API-based separation: reuse the logic layer behind an HTTP backend, replace the UI with a web frontend",
		EstimatedComplexity:   complexity,
		Recommendations:       recommendations,
	}
}

// tallyBasePatterns counts base-class frequency across UI classes in UI
// files and returns the top entries, most frequent first, ties broken by
// first-encountered order.
func tallyBasePatterns(uiFiles []types.FileAnalysis) []basePattern {
	counts := make(map[string]int)
	var order []string

	for _, file := range uiFiles {
		for _, cls := range file.Classes {
			if !cls.IsUIClass {
				continue
			}
			for _, base := range cls.Bases {
				if base == "" {
					continue
				}
				if _, seen := counts[base]; !seen {
					order = append(order, base)
				}
				counts[base]++
			}
		}
	}

	patterns := make([]basePattern, 0, len(order))
	for _, name := range order {
		patterns = append(patterns, basePattern{name: name, count: counts[name]})
	}
	sort.SliceStable(patterns, func(i, j int) bool {
		return patterns[i].count > patterns[j].count
	})
	if len(patterns) > topPatternCount {
		patterns = patterns[:topPatternCount]
	}
	return patterns
}

// webReadyPercentage: logic files count in full, mixed files contribute
// only their pure-function lines, UI files never count.
func webReadyPercentage(analyses []types.FileAnalysis) float64 {
	totalLOC := 0
	webReadyLOC := 0

	for _, f := range analyses {
		totalLOC += f.LOC
		switch {
		case f.IsLogicFile:
			webReadyLOC += f.LOC
		case f.IsMixedFile:
			for _, fn := range f.Functions {
				if fn.IsPure {
					webReadyLOC += fn.LOC
				}
			}
		}
	}

	if totalLOC == 0 {
		return 0.0
	}
	return math.Round(float64(webReadyLOC)/float64(totalLOC)*100*100) / 100
}
