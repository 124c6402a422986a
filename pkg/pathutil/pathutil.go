// Package pathutil validates and normalizes project paths before analysis.
//
// Architecture Pattern:
// webshift uses absolute paths internally for consistency; user-facing
// output uses relative paths for readability. Validation happens once, at
// the CLI boundary, so the analysis engine can treat every path it receives
// as safe and readable.
package pathutil

import (
	"os"
	"path/filepath"
	"strings"

	wserrors "github.com/webshift/webshift/internal/errors"
)

// restrictedPrefixes are system locations an analysis run must never touch.
var restrictedPrefixes = []string{
	"/etc",
	"/sys",
	"/proc",
	"/dev",
	"/boot",
	`c:\windows`,
	`c:\program files`,
	`c:\program files (x86)`,
}

// ValidateRoot checks that a project root exists, is not a symlink, and is
// not inside a restricted system directory, and returns its absolute
// normalized form.
func ValidateRoot(path string) (string, error) {
	info, err := os.Lstat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", wserrors.NewPathError(path, "path does not exist", err)
		}
		return "", wserrors.NewPathError(path, "path is not accessible", err)
	}

	if info.Mode()&os.ModeSymlink != 0 {
		return "", wserrors.NewPathError(path, "symlinks are not allowed", nil)
	}

	resolved, err := filepath.Abs(path)
	if err != nil {
		return "", wserrors.NewPathError(path, "cannot resolve absolute path", err)
	}
	resolved = filepath.Clean(resolved)

	lower := strings.ToLower(resolved)
	for _, prefix := range restrictedPrefixes {
		if strings.HasPrefix(lower, prefix) {
			return "", wserrors.NewPathError(path, "access to system directories is restricted", nil)
		}
	}

	return resolved, nil
}

// ProjectName derives a human-readable project name from a root path: the
// file name without extension for a single file, the directory name
// otherwise.
func ProjectName(root string) string {
	info, err := os.Stat(root)
	base := filepath.Base(root)
	if err == nil && !info.IsDir() {
		return strings.TrimSuffix(base, filepath.Ext(base))
	}
	return base
}

// ToRelative converts an absolute path to relative based on a root
// directory. Falls back to the original path if conversion fails, the path
// is already relative, or the file lives outside the root.
func ToRelative(absPath, rootDir string) string {
	if absPath == "" || rootDir == "" {
		return absPath
	}
	if !filepath.IsAbs(absPath) {
		return absPath
	}

	absPath = filepath.Clean(absPath)
	rootDir = filepath.Clean(rootDir)

	relPath, err := filepath.Rel(rootDir, absPath)
	if err != nil {
		return absPath
	}
	if strings.HasPrefix(relPath, "..") {
		return absPath
	}
	return relPath
}
