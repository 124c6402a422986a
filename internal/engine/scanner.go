package engine

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/webshift/webshift/internal/config"
	"github.com/webshift/webshift/internal/debug"
	wserrors "github.com/webshift/webshift/internal/errors"
)

// Scanner discovers the python files of a project tree. Exclusion globs,
// gitignore patterns, and the scan limits all apply here so the engine
// proper only ever sees the files it will analyze.
type Scanner struct {
	cfg        *config.Config
	exclusions []string
	inclusions []string
}

// NewScanner builds a scanner from the config, folding the project's
// .gitignore into the exclusion set when enabled.
func NewScanner(cfg *config.Config, root string) *Scanner {
	s := &Scanner{
		cfg:        cfg,
		exclusions: append([]string{}, cfg.Exclude...),
		inclusions: append([]string{}, cfg.Include...),
	}

	if cfg.Scan.RespectGitignore {
		gp := config.NewGitignoreParser()
		if err := gp.LoadGitignore(root); err == nil {
			s.exclusions = append(s.exclusions, gp.ExclusionPatterns()...)
		}
	}

	return s
}

// Discover walks root and returns every analyzable python file in walk
// order. Paths containing a __pycache__ segment and dot-prefixed names are
// always skipped; configured globs are matched against the root-relative
// path. Exceeding the file-count limit is an error: a tree that large was
// not what the caller intended to point the tool at.
func (s *Scanner) Discover(root string) ([]string, error) {
	var files []string

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Unreadable directory entries degrade to omission.
			debug.LogScan("skipping %s: %v", path, err)
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		rel, relErr := filepath.Rel(root, path)
		if relErr != nil || rel == "." {
			return nil
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			name := d.Name()
			if name == "__pycache__" || strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			if depth(rel) > s.cfg.Scan.MaxDepth {
				debug.LogScan("depth limit reached at %s", rel)
				return filepath.SkipDir
			}
			if s.excluded(rel + "/") {
				return filepath.SkipDir
			}
			return nil
		}

		if !strings.EqualFold(filepath.Ext(path), ".py") {
			return nil
		}
		if strings.HasPrefix(d.Name(), ".") {
			return nil
		}
		if s.excluded(rel) || !s.included(rel) {
			return nil
		}
		if info, err := d.Info(); err == nil && s.cfg.Scan.MaxFileSize > 0 && info.Size() > s.cfg.Scan.MaxFileSize {
			debug.LogScan("skipping oversized file %s (%d bytes)", rel, info.Size())
			return nil
		}

		files = append(files, path)
		if len(files) > s.cfg.Scan.MaxFileCount {
			return &wserrors.AnalysisError{
				Type:       wserrors.ErrorTypeTooManyFiles,
				Operation:  "discover",
				FilePath:   root,
				Underlying: fmt.Errorf("more than %d python files", s.cfg.Scan.MaxFileCount),
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	debug.LogScan("discovered %d python files under %s", len(files), root)
	return files, nil
}

func depth(rel string) int {
	return strings.Count(rel, "/") + 1
}

func (s *Scanner) excluded(rel string) bool {
	for _, pattern := range s.exclusions {
		matched, err := doublestar.Match(pattern, rel)
		if err != nil {
			// A bad pattern must not break scanning.
			continue
		}
		if matched {
			return true
		}
	}
	return false
}

func (s *Scanner) included(rel string) bool {
	if len(s.inclusions) == 0 {
		return true
	}
	for _, pattern := range s.inclusions {
		matched, err := doublestar.Match(pattern, rel)
		if err != nil {
			continue
		}
		if matched {
			return true
		}
	}
	return false
}
