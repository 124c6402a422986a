package config

import (
	"fmt"
	"os"
	"path/filepath"
)

type Config struct {
	Version int
	Project Project
	Scan    Scan
	Include []string
	Exclude []string
	// FrameworksFile optionally points at a TOML catalog extending the
	// built-in UI framework tables.
	FrameworksFile string
}

type Project struct {
	Root string
	Name string
}

type Scan struct {
	MaxFileCount     int   // Maximum python files per analysis run
	MaxDepth         int   // Maximum directory nesting below the root
	MaxFileSize      int64 // Files larger than this are skipped
	FollowSymlinks   bool
	RespectGitignore bool // Fold .gitignore patterns into the exclusions
	Workers          int  // Concurrent file analyzers; <=1 means sequential
	WatchDebounceMs  int  // Debounce time for watch-mode change events
}

// Load loads configuration, searching the directory of the given config
// path for a project .webshift.kdl.
func Load(path string) (*Config, error) {
	return LoadWithRoot(path, "")
}

// LoadWithRoot is Load with an explicit search directory override.
func LoadWithRoot(path string, rootDir string) (*Config, error) {
	searchDir := filepath.Dir(path)
	if rootDir != "" {
		searchDir = rootDir
	}

	// Global base config from ~/.webshift.kdl (if exists)
	var baseConfig *Config
	if homeDir, err := os.UserHomeDir(); err == nil {
		if globalCfg, err := LoadKDL(homeDir); err == nil && globalCfg != nil {
			baseConfig = globalCfg
		}
	}

	// Project-specific config from the project directory
	var projectConfig *Config
	if kdlCfg, err := LoadKDL(searchDir); err == nil && kdlCfg != nil {
		projectConfig = kdlCfg
	} else if err != nil {
		return nil, err
	}

	switch {
	case baseConfig != nil && projectConfig != nil:
		return mergeConfigs(baseConfig, projectConfig), nil
	case projectConfig != nil:
		return projectConfig, nil
	case baseConfig != nil:
		baseConfig.Project.Root = searchDir
		return baseConfig, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		cwd = "."
	}
	cfg := DefaultConfig()
	cfg.Project.Root = cwd
	return cfg, nil
}

// DefaultConfig returns the configuration used when no .webshift.kdl exists.
// The scan limits match what the analysis engine promises its callers: a
// bounded, best-effort walk that cannot be blown up by a pathological tree.
func DefaultConfig() *Config {
	return &Config{
		Version: 1,
		Scan: Scan{
			MaxFileCount:     1000,
			MaxDepth:         10,
			MaxFileSize:      10 * 1024 * 1024,
			FollowSymlinks:   false,
			RespectGitignore: true,
			Workers:          1,
			WatchDebounceMs:  300,
		},
		Include: []string{},
		Exclude: []string{
			"**/__pycache__/**",
			"**/.*/**",
			"**/.*",
			"**/*.pyc",
			"**/node_modules/**",
			"**/venv/**",
			"**/.venv/**",
		},
	}
}

// Validate checks that configured limits are usable.
func (c *Config) Validate() error {
	if c.Scan.MaxFileCount <= 0 {
		return fmt.Errorf("scan max_file_count must be positive, got %d", c.Scan.MaxFileCount)
	}
	if c.Scan.MaxDepth <= 0 {
		return fmt.Errorf("scan max_depth must be positive, got %d", c.Scan.MaxDepth)
	}
	if c.Scan.Workers < 0 {
		return fmt.Errorf("scan workers must not be negative, got %d", c.Scan.Workers)
	}
	return nil
}

// mergeConfigs merges a base config with a project config.
// Project config takes precedence, but base exclusions are preserved.
func mergeConfigs(base, project *Config) *Config {
	merged := *project

	if len(base.Exclude) > 0 {
		// Keep base order first, then project-only patterns, so merge output
		// is deterministic.
		merged.Exclude = make([]string, 0, len(base.Exclude)+len(project.Exclude))
		seen := make(map[string]bool)
		for _, pattern := range append(append([]string{}, base.Exclude...), project.Exclude...) {
			if !seen[pattern] {
				seen[pattern] = true
				merged.Exclude = append(merged.Exclude, pattern)
			}
		}
	}

	if len(project.Include) == 0 && len(base.Include) > 0 {
		merged.Include = base.Include
	}
	if project.FrameworksFile == "" && base.FrameworksFile != "" {
		merged.FrameworksFile = base.FrameworksFile
	}

	return &merged
}
