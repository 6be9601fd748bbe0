// validate.go checks pattern definitions before they are applied.
//
// Pattern data is trusted, but a malformed entry (an absolute path, a ".."
// segment, a duplicate) would either escape the target root or produce a
// misleading result. The scaffolder only guards the root with pathguard,
// so entries are checked here instead: once when the catalog loads and
// again for ad-hoc patterns handed to the scaffolder directly.
package catalog

import (
	"fmt"
	"path"
	"strings"

	"github.com/shinji-kodama/archscaffold/internal/model"
)

// ValidatePattern returns every problem found in p. An empty slice means
// the pattern is safe to apply.
//
// Checks performed:
//   - label is present
//   - every directory and file path is non-empty, relative, slash-separated
//     and free of ".." segments
//   - no directory or file path is listed twice
//   - no file path is also listed as a directory
//   - no file path is an ancestor of another entry
func ValidatePattern(p model.Pattern) []model.ValidationError {
	var problems []model.ValidationError

	if strings.TrimSpace(p.Label) == "" {
		problems = append(problems, model.ValidationError{
			Field:   "label",
			Message: "label must not be empty",
		})
	}

	dirs := make(map[string]bool, len(p.Directories))
	for i, d := range p.Directories {
		field := fmt.Sprintf("directories[%d]", i)
		if msg := checkRelative(d); msg != "" {
			problems = append(problems, model.ValidationError{Field: field, Message: msg})
			continue
		}
		key := path.Clean(d)
		if dirs[key] {
			problems = append(problems, model.ValidationError{
				Field:   field,
				Message: fmt.Sprintf("directory %q is listed more than once", d),
			})
		}
		dirs[key] = true
	}

	files := make(map[string]bool, len(p.Files))
	for i, f := range p.Files {
		field := fmt.Sprintf("files[%d].path", i)
		if msg := checkRelative(f.Path); msg != "" {
			problems = append(problems, model.ValidationError{Field: field, Message: msg})
			continue
		}
		key := path.Clean(f.Path)
		if key == "." {
			problems = append(problems, model.ValidationError{
				Field:   field,
				Message: "file path must name a file, not the root",
			})
			continue
		}
		if files[key] {
			problems = append(problems, model.ValidationError{
				Field:   field,
				Message: fmt.Sprintf("file %q is listed more than once", f.Path),
			})
		}
		if dirs[key] {
			problems = append(problems, model.ValidationError{
				Field:   field,
				Message: fmt.Sprintf("file %q is also listed as a directory", f.Path),
			})
		}
		files[key] = true
	}

	for i, f := range p.Files {
		key := path.Clean(f.Path)
		if !files[key] || dirs[key] {
			continue
		}
		if child, ok := descendant(key, dirs, files); ok {
			problems = append(problems, model.ValidationError{
				Field:   fmt.Sprintf("files[%d].path", i),
				Message: fmt.Sprintf("file %q is a parent of %q", f.Path, child),
			})
		}
	}

	return problems
}

// descendant returns an entry of dirs or files that lies below key.
func descendant(key string, dirs, files map[string]bool) (string, bool) {
	prefix := key + "/"
	for _, set := range []map[string]bool{dirs, files} {
		for entry := range set {
			if strings.HasPrefix(entry, prefix) {
				return entry, true
			}
		}
	}
	return "", false
}

// Check validates p and wraps any problems in a *model.InvalidPatternError.
func Check(p model.Pattern) error {
	if problems := ValidatePattern(p); len(problems) > 0 {
		return &model.InvalidPatternError{Label: p.Label, Problems: problems}
	}
	return nil
}

// checkRelative returns a non-empty message when p is not a clean,
// slash-separated relative path that stays below the root.
func checkRelative(p string) string {
	switch {
	case strings.TrimSpace(p) == "":
		return "path must not be empty"
	case strings.Contains(p, `\`):
		return "path must use forward slashes"
	case path.IsAbs(p) || hasVolume(p):
		return "path must be relative to the target root"
	}
	for _, seg := range strings.Split(p, "/") {
		if seg == ".." {
			return "path must not contain '..' segments"
		}
	}
	return ""
}

// hasVolume reports a Windows drive prefix such as "C:". Pattern paths are
// platform-neutral, so this is checked on every OS.
func hasVolume(p string) bool {
	return len(p) >= 2 && p[1] == ':' &&
		((p[0] >= 'a' && p[0] <= 'z') || (p[0] >= 'A' && p[0] <= 'Z'))
}
