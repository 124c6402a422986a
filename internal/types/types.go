package types

// ImportRecord describes a single import statement found in a source file.
// One `import a, b` statement produces one record per imported module; one
// `from m import x, y` statement produces a single record carrying both names.
type ImportRecord struct {
	Module     string   `json:"module"`
	Names      []string `json:"names"`
	IsUI       bool     `json:"is_ui"`
	LineNumber int      `json:"line_number"`
}

// FunctionRecord describes a function or method definition.
// Lines are 1-based and inclusive; LOC = EndLine - StartLine + 1.
type FunctionRecord struct {
	Name            string   `json:"name"`
	StartLine       int      `json:"start_line"`
	EndLine         int      `json:"end_line"`
	LOC             int      `json:"loc"`
	IsPure          bool     `json:"is_pure"`
	UIUsage         []string `json:"ui_usage"`
	Dependencies    []string `json:"dependencies"`
	HasGlobalAccess bool     `json:"has_global_access"`
}

// ClassRecord describes a class definition. Base names are resolved
// textually (dotted attribute chains joined with "."), never semantically.
type ClassRecord struct {
	Name      string           `json:"name"`
	Bases     []string         `json:"bases"`
	IsUIClass bool             `json:"is_ui_class"`
	Methods   []FunctionRecord `json:"methods"`
	LOC       int              `json:"loc"`
	StartLine int              `json:"start_line"`
	EndLine   int              `json:"end_line"`
}

// FileAnalysis is the per-file result. For any file with at least one class
// or function, exactly one of IsUIFile/IsLogicFile/IsMixedFile is true.
type FileAnalysis struct {
	Path         string           `json:"path"`
	Imports      []ImportRecord   `json:"imports"`
	Classes      []ClassRecord    `json:"classes"`
	Functions    []FunctionRecord `json:"functions"`
	LOC          int              `json:"loc"`
	IsUIFile     bool             `json:"is_ui_file"`
	IsLogicFile  bool             `json:"is_logic_file"`
	IsMixedFile  bool             `json:"is_mixed_file"`
	UIPercentage float64          `json:"ui_percentage"`
}

// Classification returns the single classification label for the file.
func (f *FileAnalysis) Classification() string {
	switch {
	case f.IsUIFile:
		return "UI"
	case f.IsLogicFile:
		return "Logic"
	case f.IsMixedFile:
		return "Mixed"
	default:
		return "Unclassified"
	}
}

// PureFunctionCount counts top-level pure functions.
func (f *FileAnalysis) PureFunctionCount() int {
	n := 0
	for i := range f.Functions {
		if f.Functions[i].IsPure {
			n++
		}
	}
	return n
}

// ExtractionSuggestion recommends moving a function out of a mixed file.
type ExtractionSuggestion struct {
	File            string   `json:"file"`
	Function        string   `json:"function"`
	StartLine       int      `json:"start_line"`
	EndLine         int      `json:"end_line"`
	Reason          string   `json:"reason"`
	WebReady        bool     `json:"web_ready"`
	EstimatedEffort string   `json:"estimated_effort"`
	Dependencies    []string `json:"dependencies"`
}

// RefactoringSuggestion flags a structural problem in a file.
type RefactoringSuggestion struct {
	File            string `json:"file"`
	Issue           string `json:"issue"`
	Suggestion      string `json:"suggestion"`
	Priority        string `json:"priority"`
	EstimatedEffort string `json:"estimated_effort,omitempty"`
}

// WebConversionGuide summarizes how a desktop project maps onto a web stack.
type WebConversionGuide struct {
	Summary               string   `json:"summary"`
	ReusableModules       []string `json:"reusable_modules"`
	UIComponentsToReplace []string `json:"ui_components_to_replace"`
	RecommendedApproach   string   `json:"recommended_approach"`
	EstimatedComplexity   string   `json:"estimated_complexity"`
	Recommendations       []string `json:"recommendations"`
}

// AnalysisSummary holds project-wide aggregate counts.
type AnalysisSummary struct {
	TotalLOC           int      `json:"total_loc"`
	UIFilesCount       int      `json:"ui_files_count"`
	LogicFilesCount    int      `json:"logic_files_count"`
	MixedFilesCount    int      `json:"mixed_files_count"`
	TotalClasses       int      `json:"total_classes"`
	TotalFunctions     int      `json:"total_functions"`
	UIFrameworks       []string `json:"ui_frameworks"`
	WebReadyPercentage float64  `json:"web_ready_percentage"`
}

// ProjectAnalysisResult is the complete output of one analysis run.
// SkippedFiles lists discovered files that failed analysis and were omitted;
// the aggregate numbers reflect only the successfully analyzed files.
type ProjectAnalysisResult struct {
	ProjectName            string                  `json:"project_name"`
	TotalFiles             int                     `json:"total_files"`
	AnalysisSummary        AnalysisSummary         `json:"analysis_summary"`
	UIFiles                []FileAnalysis          `json:"ui_files"`
	LogicFiles             []FileAnalysis          `json:"logic_files"`
	MixedFiles             []FileAnalysis          `json:"mixed_files"`
	ExtractionSuggestions  []ExtractionSuggestion  `json:"extraction_suggestions"`
	RefactoringSuggestions []RefactoringSuggestion `json:"refactoring_suggestions"`
	WebConversionGuide     WebConversionGuide      `json:"web_conversion_guide"`
	SkippedFiles           []string                `json:"skipped_files,omitempty"`
}

// AllFiles returns every analyzed file across the three classification lists.
func (r *ProjectAnalysisResult) AllFiles() []FileAnalysis {
	out := make([]FileAnalysis, 0, len(r.UIFiles)+len(r.LogicFiles)+len(r.MixedFiles))
	out = append(out, r.UIFiles...)
	out = append(out, r.LogicFiles...)
	out = append(out, r.MixedFiles...)
	return out
}
