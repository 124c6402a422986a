package errors

import (
	"fmt"
	"time"
)

// Error types for the webshift analysis system
type ErrorType string

const (
	// Analysis errors
	ErrorTypeAnalysis ErrorType = "analysis"
	ErrorTypeParse    ErrorType = "parse"
	ErrorTypeExport   ErrorType = "export"

	// File errors
	ErrorTypeFileNotFound ErrorType = "file_not_found"
	ErrorTypeTooManyFiles ErrorType = "too_many_files"
	ErrorTypePath         ErrorType = "path"

	// Configuration errors
	ErrorTypeConfig ErrorType = "config"
)

// AnalysisError represents an error during a project analysis run
type AnalysisError struct {
	Type        ErrorType
	FilePath    string
	Operation   string
	Underlying  error
	Timestamp   time.Time
	Recoverable bool
}

// NewAnalysisError creates a new analysis error with context
func NewAnalysisError(op string, err error) *AnalysisError {
	return &AnalysisError{
		Type:       ErrorTypeAnalysis,
		Operation:  op,
		Underlying: err,
		Timestamp:  time.Now(),
	}
}

// WithFile adds file information to the error
func (e *AnalysisError) WithFile(path string) *AnalysisError {
	e.FilePath = path
	return e
}

// WithRecoverable marks the error as recoverable
func (e *AnalysisError) WithRecoverable(recoverable bool) *AnalysisError {
	e.Recoverable = recoverable
	return e
}

// Error implements the error interface
func (e *AnalysisError) Error() string {
	if e.FilePath != "" {
		return fmt.Sprintf("%s %s failed for %s: %v", e.Type, e.Operation, e.FilePath, e.Underlying)
	}
	return fmt.Sprintf("%s %s failed: %v", e.Type, e.Operation, e.Underlying)
}

// Unwrap returns the underlying error for errors.Is/As
func (e *AnalysisError) Unwrap() error {
	return e.Underlying
}

// IsRecoverable checks if the analysis run can continue past this error
func (e *AnalysisError) IsRecoverable() bool {
	return e.Recoverable
}

// PathError represents a rejected or invalid project path
type PathError struct {
	Type       ErrorType
	Path       string
	Reason     string
	Underlying error
}

// NewPathError creates a new path validation error
func NewPathError(path, reason string, err error) *PathError {
	return &PathError{
		Type:       ErrorTypePath,
		Path:       path,
		Reason:     reason,
		Underlying: err,
	}
}

// Error implements the error interface
func (e *PathError) Error() string {
	if e.Underlying != nil {
		return fmt.Sprintf("invalid path %s: %s: %v", e.Path, e.Reason, e.Underlying)
	}
	return fmt.Sprintf("invalid path %s: %s", e.Path, e.Reason)
}

// Unwrap returns the underlying error
func (e *PathError) Unwrap() error {
	return e.Underlying
}

// ExportError represents a failure while serializing analysis results
type ExportError struct {
	Type       ErrorType
	Format     string
	Underlying error
}

// NewExportError creates a new export error
func NewExportError(format string, err error) *ExportError {
	return &ExportError{
		Type:       ErrorTypeExport,
		Format:     format,
		Underlying: err,
	}
}

// Error implements the error interface
func (e *ExportError) Error() string {
	return fmt.Sprintf("export to %s failed: %v", e.Format, e.Underlying)
}

// Unwrap returns the underlying error
func (e *ExportError) Unwrap() error {
	return e.Underlying
}
