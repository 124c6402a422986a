package config

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
)

// GitignoreParser reads a project's .gitignore and converts its patterns to
// doublestar exclusion globs for the file scanner. Negation patterns are
// skipped: un-ignoring a path that a broader exclusion already matched would
// require full gitignore precedence rules, which the scanner does not model.
type GitignoreParser struct {
	patterns []gitignorePattern
}

type gitignorePattern struct {
	pattern   string
	negate    bool
	directory bool
	absolute  bool
}

// NewGitignoreParser creates an empty parser.
func NewGitignoreParser() *GitignoreParser {
	return &GitignoreParser{}
}

// LoadGitignore loads patterns from rootPath/.gitignore. A missing file is
// not an error.
func (gp *GitignoreParser) LoadGitignore(rootPath string) error {
	file, err := os.Open(filepath.Join(rootPath, ".gitignore"))
	if err != nil {
		return nil
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		gp.patterns = append(gp.patterns, parseGitignoreLine(line))
	}
	return scanner.Err()
}

// AddPattern adds a single pattern line.
func (gp *GitignoreParser) AddPattern(line string) {
	gp.patterns = append(gp.patterns, parseGitignoreLine(line))
}

func parseGitignoreLine(line string) gitignorePattern {
	p := gitignorePattern{}
	if strings.HasPrefix(line, "!") {
		p.negate = true
		line = line[1:]
	}
	if strings.HasSuffix(line, "/") {
		p.directory = true
		line = strings.TrimSuffix(line, "/")
	}
	if strings.HasPrefix(line, "/") {
		p.absolute = true
		line = line[1:]
	}
	p.pattern = line
	return p
}

// ExclusionPatterns returns the loaded patterns as doublestar globs
// relative to the project root.
func (gp *GitignoreParser) ExclusionPatterns() []string {
	var exclusions []string
	for _, p := range gp.patterns {
		if p.negate || p.pattern == "" {
			continue
		}
		exclusions = append(exclusions, toGlob(p))
	}
	return exclusions
}

func toGlob(p gitignorePattern) string {
	if p.directory {
		if p.absolute {
			return p.pattern + "/**"
		}
		return "**/" + p.pattern + "/**"
	}
	if p.absolute {
		return p.pattern
	}
	return "**/" + p.pattern
}
