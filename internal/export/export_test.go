package export

import (
	"archive/zip"
	"bytes"
	"encoding/csv"
	"encoding/json"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/webshift/webshift/internal/types"
)

func sampleResult() *types.ProjectAnalysisResult {
	return &types.ProjectAnalysisResult{
		ProjectName: "demo",
		TotalFiles:  3,
		AnalysisSummary: types.AnalysisSummary{
			TotalLOC:           120,
			UIFilesCount:       1,
			LogicFilesCount:    1,
			MixedFilesCount:    1,
			TotalClasses:       2,
			TotalFunctions:     4,
			UIFrameworks:       []string{"PyQt5"},
			WebReadyPercentage: 45.83,
		},
		UIFiles: []types.FileAnalysis{{
			Path: "ui/window.py", LOC: 60, IsUIFile: true, UIPercentage: 100,
		}},
		LogicFiles: []types.FileAnalysis{{
			Path: "core/calc.py", LOC: 30, IsLogicFile: true,
			Functions: []types.FunctionRecord{
				{Name: "add", StartLine: 1, EndLine: 4, LOC: 4, IsPure: true},
				{Name: "mul", StartLine: 6, EndLine: 9, LOC: 4, IsPure: true, Dependencies: []string{"add"}},
			},
		}},
		MixedFiles: []types.FileAnalysis{{
			Path: "app.py", LOC: 30, IsMixedFile: true, UIPercentage: 50,
			Functions: []types.FunctionRecord{
				{Name: "compute", StartLine: 10, EndLine: 15, LOC: 6, IsPure: true},
				{Name: "redraw", StartLine: 17, EndLine: 22, LOC: 6, UIUsage: []string{".show()"}},
			},
		}},
		ExtractionSuggestions:  []types.ExtractionSuggestion{},
		RefactoringSuggestions: []types.RefactoringSuggestion{},
		WebConversionGuide: types.WebConversionGuide{
			Summary:             "Project has 1 web-ready files and 2 files requiring UI conversion",
			EstimatedComplexity: "low",
			Recommendations:     []string{"2 pure functions in 1 files are web-ready and can be reused as-is"},
		},
	}
}

func TestJSONRoundTrip(t *testing.T) {
	data, err := JSON(sampleResult())
	require.NoError(t, err)

	var decoded types.ProjectAnalysisResult
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "demo", decoded.ProjectName)
	assert.Equal(t, 3, decoded.TotalFiles)
	assert.Equal(t, 45.83, decoded.AnalysisSummary.WebReadyPercentage)
	assert.Len(t, decoded.MixedFiles, 1)

	// pretty-printed for human inspection
	assert.True(t, bytes.Contains(data, []byte("\n  ")))
}

func TestCSVFormat(t *testing.T) {
	data, err := CSV(sampleResult())
	require.NoError(t, err)

	require.True(t, bytes.HasPrefix(data, []byte{0xEF, 0xBB, 0xBF}), "missing UTF-8 BOM")

	r := csv.NewReader(bytes.NewReader(data[3:]))
	rows, err := r.ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 4)

	assert.Equal(t, []string{"File Path", "Lines of Code", "UI Percentage (%)", "Pure Functions", "Classification", "Web Ready"}, rows[0])
	assert.Equal(t, []string{"ui/window.py", "60", "100.0", "0", "UI", "No"}, rows[1])
	assert.Equal(t, []string{"core/calc.py", "30", "0.0", "2", "Logic", "Yes"}, rows[2])
	assert.Equal(t, []string{"app.py", "30", "50.0", "1", "Mixed", "Partial"}, rows[3])
}

func TestPureFunctionZIP(t *testing.T) {
	data, err := PureFunctionZIP(sampleResult())
	require.NoError(t, err)

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)

	names := make(map[string]string)
	for _, f := range zr.File {
		rc, err := f.Open()
		require.NoError(t, err)
		content, err := io.ReadAll(rc)
		require.NoError(t, err)
		require.NoError(t, rc.Close())
		names[f.Name] = string(content)
	}

	require.Contains(t, names, "demo/calc_pure.py")
	require.Contains(t, names, "demo/app_pure.py")
	require.Contains(t, names, "demo/README.md")

	assert.Contains(t, names["demo/calc_pure.py"], "add: lines 1-4")
	assert.Contains(t, names["demo/calc_pure.py"], "depends on: add")
	assert.Contains(t, names["demo/app_pure.py"], "compute: lines 10-15")
	assert.NotContains(t, names["demo/app_pure.py"], "redraw")
	assert.Contains(t, names["demo/README.md"], "3 pure functions across 2 files")
}

func TestReportSections(t *testing.T) {
	result := sampleResult()
	result.ExtractionSuggestions = []types.ExtractionSuggestion{{
		File: "app.py", Function: "compute", StartLine: 10, EndLine: 15,
		Reason: "Pure function with no UI dependencies", WebReady: true, EstimatedEffort: "low",
	}}
	result.SkippedFiles = []string{"broken.py"}

	out := Report(result)
	assert.Contains(t, out, "Project: demo")
	assert.Contains(t, out, "Files analyzed: 3 (1 UI, 1 logic, 1 mixed)")
	assert.Contains(t, out, "UI frameworks: PyQt5")
	assert.Contains(t, out, "Web-ready: 45.83%")
	assert.Contains(t, out, "compute")
	assert.Contains(t, out, "Skipped files (1)")
	assert.Contains(t, out, "broken.py")
}
