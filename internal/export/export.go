// Package export serializes analysis results for delivery: pretty JSON for
// tooling, a CSV summary for spreadsheets, a ZIP of pure-function stubs for
// migration work, and a plain-text report for terminals.
package export

import (
	"archive/zip"
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/webshift/webshift/internal/debug"
	wserrors "github.com/webshift/webshift/internal/errors"
	"github.com/webshift/webshift/internal/types"
)

// JSON renders the complete result as indented JSON.
func JSON(result *types.ProjectAnalysisResult) ([]byte, error) {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return nil, wserrors.NewExportError("json", err)
	}
	debug.LogExport("exported JSON result (%d bytes)", len(data))
	return data, nil
}

// CSV renders the per-file summary table. The output starts with a UTF-8
// BOM so Excel opens it correctly.
func CSV(result *types.ProjectAnalysisResult) ([]byte, error) {
	var buf bytes.Buffer
	buf.Write([]byte{0xEF, 0xBB, 0xBF})

	w := csv.NewWriter(&buf)
	header := []string{"File Path", "Lines of Code", "UI Percentage (%)", "Pure Functions", "Classification", "Web Ready"}
	if err := w.Write(header); err != nil {
		return nil, wserrors.NewExportError("csv", err)
	}

	writeRows := func(files []types.FileAnalysis, classification string, webReady func(pure int) string) error {
		for i := range files {
			f := &files[i]
			pure := f.PureFunctionCount()
			row := []string{
				f.Path,
				fmt.Sprintf("%d", f.LOC),
				fmt.Sprintf("%.1f", f.UIPercentage),
				fmt.Sprintf("%d", pure),
				classification,
				webReady(pure),
			}
			if err := w.Write(row); err != nil {
				return err
			}
		}
		return nil
	}

	err := writeRows(result.UIFiles, "UI", func(int) string { return "No" })
	if err == nil {
		err = writeRows(result.LogicFiles, "Logic", func(pure int) string {
			if pure > 0 {
				return "Yes"
			}
			return "No"
		})
	}
	if err == nil {
		err = writeRows(result.MixedFiles, "Mixed", func(pure int) string {
			if pure > 0 {
				return "Partial"
			}
			return "No"
		})
	}
	if err != nil {
		return nil, wserrors.NewExportError("csv", err)
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, wserrors.NewExportError("csv", err)
	}
	debug.LogExport("exported CSV summary (%d bytes)", buf.Len())
	return buf.Bytes(), nil
}

// PureFunctionZIP builds a ZIP archive with one stub file per source file
// that has pure functions, plus a README summarizing the extraction. The
// stubs carry names and line spans only - the analysis records where pure
// functions live, never their source text.
func PureFunctionZIP(result *types.ProjectAnalysisResult) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	projectDir := result.ProjectName
	if projectDir == "" {
		projectDir = "extracted_functions"
	}

	totalPure := 0
	type extracted struct {
		file  string
		count int
	}
	var manifest []extracted

	for _, file := range result.AllFiles() {
		var pure []types.FunctionRecord
		for _, fn := range file.Functions {
			if fn.IsPure {
				pure = append(pure, fn)
			}
		}
		if len(pure) == 0 {
			continue
		}

		stem := strings.TrimSuffix(filepath.Base(file.Path), filepath.Ext(file.Path))
		entry, err := zw.Create(projectDir + "/" + stem + "_pure.py")
		if err != nil {
			return nil, wserrors.NewExportError("zip", err)
		}
		if _, err := entry.Write([]byte(pureFunctionStub(file.Path, pure))); err != nil {
			return nil, wserrors.NewExportError("zip", err)
		}

		totalPure += len(pure)
		manifest = append(manifest, extracted{file: file.Path, count: len(pure)})
	}

	readme, err := zw.Create(projectDir + "/README.md")
	if err != nil {
		return nil, wserrors.NewExportError("zip", err)
	}
	var md strings.Builder
	fmt.Fprintf(&md, "# Extracted Pure Functions\n\n")
	fmt.Fprintf(&md, "Project: %s\n\n", result.ProjectName)
	fmt.Fprintf(&md, "%d pure functions across %d files are web-ready.\n\n", totalPure, len(manifest))
	for _, m := range manifest {
		fmt.Fprintf(&md, "- `%s`: %d functions\n", m.file, m.count)
	}
	md.WriteString("\nEach stub lists the function name and its line span in the original file.\n")
	if _, err := readme.Write([]byte(md.String())); err != nil {
		return nil, wserrors.NewExportError("zip", err)
	}

	if err := zw.Close(); err != nil {
		return nil, wserrors.NewExportError("zip", err)
	}
	debug.LogExport("exported %d pure functions as ZIP (%d bytes)", totalPure, buf.Len())
	return buf.Bytes(), nil
}

func pureFunctionStub(sourceFile string, pure []types.FunctionRecord) string {
	var b strings.Builder
	b.WriteString("\"\"\"\n")
	fmt.Fprintf(&b, "Pure functions extracted from: %s\n\n", sourceFile)
	b.WriteString("These functions have no UI dependencies and can be reused in a web backend.\n")
	b.WriteString("\"\"\"\n")
	for _, fn := range pure {
		fmt.Fprintf(&b, "\n# %s: lines %d-%d (%d LOC)\n", fn.Name, fn.StartLine, fn.EndLine, fn.LOC)
		if len(fn.Dependencies) > 0 {
			fmt.Fprintf(&b, "# depends on: %s\n", strings.Join(fn.Dependencies, ", "))
		}
		fmt.Fprintf(&b, "# TODO: copy `%s` from %s:%d\n", fn.Name, sourceFile, fn.StartLine)
	}
	return b.String()
}

// Report renders a human-readable terminal summary.
func Report(result *types.ProjectAnalysisResult) string {
	var b strings.Builder
	s := result.AnalysisSummary

	fmt.Fprintf(&b, "Project: %s\n", result.ProjectName)
	fmt.Fprintf(&b, "Files analyzed: %d (%d UI, %d logic, %d mixed)\n",
		result.TotalFiles, s.UIFilesCount, s.LogicFilesCount, s.MixedFilesCount)
	fmt.Fprintf(&b, "Total LOC: %d  Classes: %d  Functions: %d\n",
		s.TotalLOC, s.TotalClasses, s.TotalFunctions)
	if len(s.UIFrameworks) > 0 {
		fmt.Fprintf(&b, "UI frameworks: %s\n", strings.Join(s.UIFrameworks, ", "))
	}
	fmt.Fprintf(&b, "Web-ready: %.2f%%\n", s.WebReadyPercentage)

	if len(result.ExtractionSuggestions) > 0 {
		fmt.Fprintf(&b, "\nExtraction suggestions (%d):\n", len(result.ExtractionSuggestions))
		for _, sug := range result.ExtractionSuggestions {
			fmt.Fprintf(&b, "  [%s] %s:%d-%d %s - %s\n",
				sug.EstimatedEffort, sug.File, sug.StartLine, sug.EndLine, sug.Function, sug.Reason)
		}
	}
	if len(result.RefactoringSuggestions) > 0 {
		fmt.Fprintf(&b, "\nRefactoring suggestions (%d):\n", len(result.RefactoringSuggestions))
		for _, sug := range result.RefactoringSuggestions {
			fmt.Fprintf(&b, "  [%s] %s: %s\n", sug.Priority, sug.File, sug.Issue)
		}
	}

	guide := result.WebConversionGuide
	fmt.Fprintf(&b, "\nConversion guide (%s complexity): %s\n", guide.EstimatedComplexity, guide.Summary)
	for _, rec := range guide.Recommendations {
		fmt.Fprintf(&b, "  - %s\n", rec)
	}
	if len(result.SkippedFiles) > 0 {
		fmt.Fprintf(&b, "\nSkipped files (%d):\n", len(result.SkippedFiles))
		for _, path := range result.SkippedFiles {
			fmt.Fprintf(&b, "  %s\n", path)
		}
	}

	return b.String()
}
