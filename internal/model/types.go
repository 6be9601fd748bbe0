// Package model defines the domain types for the archscaffold CLI.
//
// A Pattern is a named, static template: an ordered list of directories and
// an ordered list of files with fixed byte content. A Result records what a
// single scaffold invocation did on disk.
package model

import (
	"bytes"
	"fmt"
	"slices"
	"strings"
)

// PatternKey identifies one entry of the built-in pattern catalog.
// The set of keys is closed and known at build time.
type PatternKey string

const (
	// PatternCleanArchitecture lays out entities, use cases, interface
	// adapters and frameworks as concentric layers.
	PatternCleanArchitecture PatternKey = "clean-architecture"

	// PatternHexagonal lays out a domain core surrounded by ports and adapters.
	PatternHexagonal PatternKey = "hexagonal"

	// PatternMVC lays out models, views and controllers.
	PatternMVC PatternKey = "mvc"

	// PatternFeatureSliced lays out the Feature-Sliced Design layers
	// (app, pages, widgets, features, entities, shared).
	PatternFeatureSliced PatternKey = "feature-sliced"

	// PatternLayered lays out a classic presentation/business/data stack.
	PatternLayered PatternKey = "layered"

	// PatternMicroservice lays out a single deployable service with its own
	// API, domain, infrastructure and deployment folders.
	PatternMicroservice PatternKey = "microservice"
)

// allPatternKeys is the declaration order used for listings and the
// transport's enum schema.
var allPatternKeys = []PatternKey{
	PatternCleanArchitecture,
	PatternHexagonal,
	PatternMVC,
	PatternFeatureSliced,
	PatternLayered,
	PatternMicroservice,
}

// AllPatternKeys returns every valid PatternKey in declaration order.
// The returned slice is a copy and may be modified by the caller.
func AllPatternKeys() []PatternKey {
	keys := make([]PatternKey, len(allPatternKeys))
	copy(keys, allPatternKeys)
	return keys
}

// PatternKeyStrings returns AllPatternKeys as plain strings, which is the
// form cobra completion and JSON schema enums want.
func PatternKeyStrings() []string {
	out := make([]string, len(allPatternKeys))
	for i, k := range allPatternKeys {
		out[i] = string(k)
	}
	return out
}

// String returns the string representation of PatternKey.
func (k PatternKey) String() string {
	return string(k)
}

// IsValid checks whether the PatternKey is one of the predefined keys.
func (k PatternKey) IsValid() bool {
	for _, known := range allPatternKeys {
		if k == known {
			return true
		}
	}
	return false
}

// ParsePatternKey converts a string to a PatternKey.
// Matching is case-insensitive and ignores surrounding whitespace.
func ParsePatternKey(s string) (PatternKey, error) {
	key := PatternKey(strings.ToLower(strings.TrimSpace(s)))
	if !key.IsValid() {
		return "", fmt.Errorf("%w: %q (valid: %s)", ErrUnknownPattern, s, strings.Join(PatternKeyStrings(), ", "))
	}
	return key, nil
}

// FileSpec is a single file of a pattern: a slash-separated path relative
// to the target root and the exact bytes to place there.
type FileSpec struct {
	// Path is relative to the target root and uses forward slashes.
	Path string `json:"path" yaml:"path"`

	// Content is written verbatim. No substitution is performed.
	Content []byte `json:"-" yaml:"-"`
}

// Pattern is an immutable catalog record describing a directory layout.
//
// Directories are created in declared order; ancestors are always implied,
// so order is not a dependency. Files are likewise materialized in declared
// order.
type Pattern struct {
	// Key is the catalog key. Ad-hoc patterns built in tests may leave it empty.
	Key PatternKey `json:"key"`

	// Label is the human-readable display name.
	Label string `json:"label"`

	// Description is a one-paragraph summary shown by `patterns list`.
	Description string `json:"description,omitempty"`

	// Directories lists slash-separated directory paths relative to the root.
	Directories []string `json:"directories"`

	// Files lists file specs relative to the root.
	Files []FileSpec `json:"files"`
}

// Clone returns a deep copy of the pattern. Empty content stays empty
// rather than becoming nil. Catalog lookups hand out clones
// so the shared catalog can never be mutated through a returned value.
func (p Pattern) Clone() Pattern {
	out := p
	out.Directories = slices.Clone(p.Directories)
	out.Files = make([]FileSpec, len(p.Files))
	for i, f := range p.Files {
		out.Files[i] = FileSpec{
			Path:    f.Path,
			Content: bytes.Clone(f.Content),
		}
	}
	return out
}

// FilePaths returns the relative paths of all files in declared order.
func (p Pattern) FilePaths() []string {
	paths := make([]string, len(p.Files))
	for i, f := range p.Files {
		paths[i] = f.Path
	}
	return paths
}

// Result is the outcome of one scaffold invocation. It is built up by the
// scaffolder as it proceeds and is not modified after being returned.
type Result struct {
	// ResolvedTarget is the absolute path actually used as the target root.
	ResolvedTarget string `json:"resolvedTarget"`

	// Pattern is the key of the pattern that was applied, if any.
	Pattern PatternKey `json:"pattern,omitempty"`

	// Label is the display name of the pattern that was applied.
	Label string `json:"label"`

	// CreatedDirectories lists every directory entry of the pattern in
	// declared order. Directories that already existed are included:
	// directory creation is idempotent and not distinguished.
	CreatedDirectories []string `json:"createdDirectories"`

	// CreatedFiles lists files newly written by this invocation.
	CreatedFiles []string `json:"createdFiles"`

	// SkippedFiles lists files that already existed and were left untouched.
	SkippedFiles []string `json:"skippedFiles"`
}

// NewResult returns a Result with non-nil, empty slices so that JSON
// output renders them as [] rather than null.
func NewResult(resolvedTarget string, pattern Pattern) *Result {
	return &Result{
		ResolvedTarget:     resolvedTarget,
		Pattern:            pattern.Key,
		Label:              pattern.Label,
		CreatedDirectories: make([]string, 0, len(pattern.Directories)),
		CreatedFiles:       make([]string, 0, len(pattern.Files)),
		SkippedFiles:       []string{},
	}
}

// Counts returns the number of directories, created files and skipped files.
func (r *Result) Counts() (dirs, created, skipped int) {
	return len(r.CreatedDirectories), len(r.CreatedFiles), len(r.SkippedFiles)
}
