package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGitignorePatternConversion(t *testing.T) {
	gp := NewGitignoreParser()
	gp.AddPattern("*.pyc")
	gp.AddPattern("build/")
	gp.AddPattern("/dist")
	gp.AddPattern("/out/")
	gp.AddPattern("!keep.pyc")

	got := gp.ExclusionPatterns()
	assert.Equal(t, []string{
		"**/*.pyc",
		"**/build/**",
		"dist",
		"out/**",
	}, got)
}

func TestGitignoreGlobsMatch(t *testing.T) {
	gp := NewGitignoreParser()
	gp.AddPattern("*.pyc")
	gp.AddPattern("build/")

	patterns := gp.ExclusionPatterns()
	matches := func(rel string) bool {
		for _, pattern := range patterns {
			if ok, err := doublestar.Match(pattern, rel); err == nil && ok {
				return true
			}
		}
		return false
	}

	assert.True(t, matches("build/gen.py"))
	assert.True(t, matches("pkg/cached.pyc"))
	assert.True(t, matches("cached.pyc"))
	assert.False(t, matches("src/app.py"))
}

func TestLoadGitignore(t *testing.T) {
	dir := t.TempDir()
	content := "# comment\n\n*.log\nvenv/\n!important.log\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".gitignore"), []byte(content), 0o644))

	gp := NewGitignoreParser()
	require.NoError(t, gp.LoadGitignore(dir))

	got := gp.ExclusionPatterns()
	assert.Equal(t, []string{"**/*.log", "**/venv/**"}, got)
}

func TestLoadGitignoreMissing(t *testing.T) {
	gp := NewGitignoreParser()
	require.NoError(t, gp.LoadGitignore(t.TempDir()))
	assert.Empty(t, gp.ExclusionPatterns())
}
