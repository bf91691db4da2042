// Package pathutil prepares user-supplied output paths for run exports.
package pathutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// RedactPath reduces a full path to .../<parent>/<basename> for log lines.
// For example, "/home/user/runs/run.db" becomes ".../runs/run.db".
func RedactPath(path string) string {
	if path == "" {
		return ""
	}
	cleaned := filepath.Clean(path)
	dir := filepath.Dir(cleaned)
	base := filepath.Base(cleaned)
	parent := filepath.Base(dir)
	if parent == "." || parent == string(filepath.Separator) {
		return base
	}
	return ".../" + parent + "/" + base
}

// PrepareOutput validates an output file path and creates its parent
// directories. It returns the absolute, symlink-resolved path. Existing
// directories and paths containing NUL are rejected; whether an existing
// file may be replaced is left to the writer.
func PrepareOutput(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("output path is empty")
	}
	if strings.ContainsRune(path, '\x00') {
		return "", fmt.Errorf("output path contains null byte")
	}

	absPath, err := filepath.Abs(filepath.Clean(path))
	if err != nil {
		return "", fmt.Errorf("resolving output path: %w", err)
	}

	if info, err := os.Stat(absPath); err == nil && info.IsDir() {
		return "", fmt.Errorf("output path %q is a directory", RedactPath(absPath))
	}

	dir, err := resolveExistingParent(filepath.Dir(absPath))
	if err != nil {
		return "", fmt.Errorf("resolving output directory: %w", err)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}

	return filepath.Join(dir, filepath.Base(absPath)), nil
}

// DistinctOutputs fails when two non-empty prepared paths name the same file.
func DistinctOutputs(paths ...string) error {
	seen := make(map[string]bool, len(paths))
	for _, p := range paths {
		if p == "" {
			continue
		}
		if seen[p] {
			return fmt.Errorf("output %q is used more than once", RedactPath(p))
		}
		seen[p] = true
	}
	return nil
}

// resolveExistingParent resolves symlinks on the deepest existing ancestor
// of dir and re-appends the part that does not exist yet.
func resolveExistingParent(dir string) (string, error) {
	resolved, err := filepath.EvalSymlinks(dir)
	if err == nil {
		return resolved, nil
	}

	parent := filepath.Dir(dir)
	if parent == dir {
		return "", fmt.Errorf("cannot resolve path: %s", RedactPath(dir))
	}

	resolvedParent, err := resolveExistingParent(parent)
	if err != nil {
		return "", err
	}
	return filepath.Join(resolvedParent, filepath.Base(dir)), nil
}
