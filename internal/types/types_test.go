package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassification(t *testing.T) {
	assert.Equal(t, "UI", (&FileAnalysis{IsUIFile: true}).Classification())
	assert.Equal(t, "Logic", (&FileAnalysis{IsLogicFile: true}).Classification())
	assert.Equal(t, "Mixed", (&FileAnalysis{IsMixedFile: true}).Classification())
	assert.Equal(t, "Unclassified", (&FileAnalysis{}).Classification())
}

func TestPureFunctionCount(t *testing.T) {
	f := FileAnalysis{Functions: []FunctionRecord{
		{Name: "a", IsPure: true},
		{Name: "b"},
		{Name: "c", IsPure: true},
	}}
	assert.Equal(t, 2, f.PureFunctionCount())
	assert.Equal(t, 0, (&FileAnalysis{}).PureFunctionCount())
}

func TestAllFiles(t *testing.T) {
	r := ProjectAnalysisResult{
		UIFiles:    []FileAnalysis{{Path: "u.py"}},
		LogicFiles: []FileAnalysis{{Path: "l.py"}},
		MixedFiles: []FileAnalysis{{Path: "m.py"}},
	}
	all := r.AllFiles()
	paths := make([]string, len(all))
	for i, f := range all {
		paths[i] = f.Path
	}
	assert.Equal(t, []string{"u.py", "l.py", "m.py"}, paths)
}
