// Package pathguard resolves caller-supplied target paths against an
// authorized base directory and rejects anything that escapes it.
//
// The check is purely lexical: the input is resolved and normalized first,
// then the path relative to the base is inspected. Because the inspection
// happens after normalization it is not fooled by "./", duplicate
// separators or mixed "../" sequences.
//
// Symbolic links are NOT resolved. A symlink inside the base directory that
// points elsewhere is followed by later filesystem calls; this is a known
// limitation of the guard, not something handled downstream.
package pathguard

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/shinji-kodama/archscaffold/internal/model"
)

// parentPrefix is ".." followed by the platform separator.
var parentPrefix = ".." + string(filepath.Separator)

// Resolve returns the absolute, cleaned form of inputPath interpreted
// relative to baseDir. Absolute inputs are accepted as long as they lie
// within baseDir.
//
// It returns model.ErrEmptyPath for an empty input and a
// *model.SecurityViolationError when the result lies outside baseDir.
// Resolve performs no filesystem access.
func Resolve(inputPath, baseDir string) (string, error) {
	if inputPath == "" {
		return "", model.ErrEmptyPath
	}

	base, err := filepath.Abs(baseDir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve base directory %s: %w", baseDir, err)
	}

	var resolved string
	if filepath.IsAbs(inputPath) {
		resolved = filepath.Clean(inputPath)
	} else {
		// Join cleans the result, so ".." segments pop and "." collapses.
		resolved = filepath.Join(base, inputPath)
	}

	rel, err := filepath.Rel(base, resolved)
	if err != nil {
		// Rel fails when no relative path exists at all, e.g. across volumes.
		return "", &model.SecurityViolationError{Path: inputPath, BaseDir: base}
	}
	if escapes(rel) {
		return "", &model.SecurityViolationError{Path: inputPath, BaseDir: base}
	}

	return resolved, nil
}

// escapes reports whether a Rel result leaves the base. An absolute result
// cannot happen on single-root filesystems but is kept for multi-root ones.
func escapes(rel string) bool {
	if rel == ".." || strings.HasPrefix(rel, parentPrefix) {
		return true
	}
	return filepath.IsAbs(rel)
}
