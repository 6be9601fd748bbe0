package scaffold

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/shinji-kodama/archscaffold/internal/catalog"
	"github.com/shinji-kodama/archscaffold/internal/model"
)

// demoPattern is the small pattern used by the end-to-end scenario.
func demoPattern() model.Pattern {
	return model.Pattern{
		Label:       "demo",
		Directories: []string{"src/components"},
		Files:       []model.FileSpec{{Path: "src/app.ts", Content: []byte("export {}\n")}},
	}
}

// newTestScaffolder returns a Scaffolder that logs through the test.
func newTestScaffolder(t *testing.T, opts ...Option) *Scaffolder {
	t.Helper()
	return New(append([]Option{WithLogger(zaptest.NewLogger(t))}, opts...)...)
}

// mapSource is an in-memory PatternSource.
type mapSource map[model.PatternKey]model.Pattern

func (m mapSource) Lookup(key model.PatternKey) (model.Pattern, bool) {
	p, ok := m[key]
	return p, ok
}

// TestScaffoldPattern_EndToEnd applies the demo pattern to a fresh root.
func TestScaffoldPattern_EndToEnd(t *testing.T) {
	root := t.TempDir()
	s := newTestScaffolder(t)

	res, err := s.ScaffoldPattern(context.Background(), ".", demoPattern(), root)
	require.NoError(t, err)

	assert.Equal(t, root, res.ResolvedTarget)
	assert.Equal(t, "demo", res.Label)
	assert.Equal(t, []string{"src/components"}, res.CreatedDirectories)
	assert.Equal(t, []string{"src/app.ts"}, res.CreatedFiles)
	assert.Equal(t, []string{}, res.SkippedFiles)

	got, err := os.ReadFile(filepath.Join(root, "src", "app.ts"))
	require.NoError(t, err)
	assert.Equal(t, "export {}\n", string(got))

	info, err := os.Stat(filepath.Join(root, "src", "components"))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

// TestScaffold_CatalogPatternsAreFaithful applies every built-in pattern
// and reads each created file back.
func TestScaffold_CatalogPatternsAreFaithful(t *testing.T) {
	base := t.TempDir()
	s := newTestScaffolder(t)

	for _, p := range catalog.Default().Patterns() {
		t.Run(p.Key.String(), func(t *testing.T) {
			res, err := s.Scaffold(context.Background(), p.Key.String(), p.Key, base)
			require.NoError(t, err)

			assert.Equal(t, filepath.Join(base, p.Key.String()), res.ResolvedTarget)
			assert.Equal(t, p.Key, res.Pattern)
			assert.Equal(t, p.Label, res.Label)
			assert.Equal(t, p.Directories, res.CreatedDirectories)
			assert.Equal(t, p.FilePaths(), res.CreatedFiles)
			assert.Empty(t, res.SkippedFiles)

			for _, f := range p.Files {
				got, err := os.ReadFile(filepath.Join(res.ResolvedTarget, filepath.FromSlash(f.Path)))
				require.NoError(t, err)
				assert.Equal(t, string(f.Content), string(got), "content mismatch for %s", f.Path)
			}
		})
	}
}

// TestScaffold_Idempotent runs the same scaffold twice.
func TestScaffold_Idempotent(t *testing.T) {
	base := t.TempDir()
	s := newTestScaffolder(t)
	ctx := context.Background()

	first, err := s.Scaffold(ctx, "app", model.PatternCleanArchitecture, base)
	require.NoError(t, err)
	second, err := s.Scaffold(ctx, "app", model.PatternCleanArchitecture, base)
	require.NoError(t, err)

	p, _ := catalog.Default().Lookup(model.PatternCleanArchitecture)
	assert.Empty(t, second.CreatedFiles)
	assert.Len(t, second.SkippedFiles, len(p.Files))
	assert.Equal(t, p.FilePaths(), second.SkippedFiles)
	assert.Equal(t, first.CreatedDirectories, second.CreatedDirectories)
}

// TestScaffold_NoClobber preserves a pre-seeded file.
func TestScaffold_NoClobber(t *testing.T) {
	root := t.TempDir()
	seeded := filepath.Join(root, "src", "app.ts")
	require.NoError(t, os.MkdirAll(filepath.Dir(seeded), 0o755))
	require.NoError(t, os.WriteFile(seeded, []byte("custom"), 0o644))

	res, err := newTestScaffolder(t).ScaffoldPattern(context.Background(), ".", demoPattern(), root)
	require.NoError(t, err)

	assert.Empty(t, res.CreatedFiles)
	assert.Equal(t, []string{"src/app.ts"}, res.SkippedFiles)

	got, err := os.ReadFile(seeded)
	require.NoError(t, err)
	assert.Equal(t, "custom", string(got))
}

// TestScaffold_DeclaredOrder keeps declaration order regardless of how the
// filesystem would sort the entries.
func TestScaffold_DeclaredOrder(t *testing.T) {
	p := model.Pattern{
		Label:       "order",
		Directories: []string{"zeta", "alpha/nested", "mid"},
		Files: []model.FileSpec{
			{Path: "z.txt", Content: []byte("z")},
			{Path: "alpha/a.txt", Content: []byte("a")},
			{Path: "m.txt", Content: []byte("m")},
		},
	}

	res, err := newTestScaffolder(t).ScaffoldPattern(context.Background(), "out", p, t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, []string{"zeta", "alpha/nested", "mid"}, res.CreatedDirectories)
	assert.Equal(t, []string{"z.txt", "alpha/a.txt", "m.txt"}, res.CreatedFiles)
}

// TestScaffold_SecurityViolation writes nothing for an escaping target.
func TestScaffold_SecurityViolation(t *testing.T) {
	parent := t.TempDir()
	base := filepath.Join(parent, "base")
	require.NoError(t, os.Mkdir(base, 0o755))
	s := newTestScaffolder(t)

	for _, target := range []string{"..", "../../etc", "/etc/passwd", "../escape"} {
		t.Run(target, func(t *testing.T) {
			res, err := s.Scaffold(context.Background(), target, model.PatternMVC, base)
			require.Error(t, err)
			assert.Nil(t, res)

			var secErr *model.SecurityViolationError
			require.ErrorAs(t, err, &secErr)
			assert.Equal(t, target, secErr.Path)
		})
	}

	entries, err := os.ReadDir(parent)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "nothing may be created outside the base")
}

// TestScaffold_SecurityCheckedBeforeKey reports the escape even when the
// key is also invalid.
func TestScaffold_SecurityCheckedBeforeKey(t *testing.T) {
	_, err := newTestScaffolder(t).Scaffold(context.Background(), "..", "onion", t.TempDir())
	var secErr *model.SecurityViolationError
	assert.ErrorAs(t, err, &secErr)
}

// TestScaffold_UnknownKey returns the sentinel instead of panicking.
func TestScaffold_UnknownKey(t *testing.T) {
	base := t.TempDir()
	_, err := newTestScaffolder(t).Scaffold(context.Background(), "app", "onion", base)
	require.ErrorIs(t, err, model.ErrUnknownPattern)

	_, statErr := os.Stat(filepath.Join(base, "app"))
	assert.True(t, os.IsNotExist(statErr), "no directory may be created for an unknown key")
}

// TestScaffold_CustomSource uses an injected PatternSource.
func TestScaffold_CustomSource(t *testing.T) {
	p := demoPattern()
	p.Key = model.PatternMVC
	s := newTestScaffolder(t, WithPatterns(mapSource{model.PatternMVC: p}))

	res, err := s.Scaffold(context.Background(), "x", model.PatternMVC, t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, []string{"src/app.ts"}, res.CreatedFiles)

	_, err = s.Scaffold(context.Background(), "x", model.PatternHexagonal, t.TempDir())
	assert.ErrorIs(t, err, model.ErrUnknownPattern)
}

// TestScaffoldPattern_InvalidPattern rejects a malformed pattern before
// any write.
func TestScaffoldPattern_InvalidPattern(t *testing.T) {
	tests := []struct {
		name    string
		pattern model.Pattern
	}{
		{
			name:    "escaping file",
			pattern: model.Pattern{Label: "bad", Files: []model.FileSpec{{Path: "../escape.txt"}}},
		},
		{
			name: "file above later directory",
			pattern: model.Pattern{
				Label:       "bad",
				Directories: []string{"docs", "src/app"},
				Files:       []model.FileSpec{{Path: "src"}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := filepath.Join(t.TempDir(), "target")

			_, err := newTestScaffolder(t).ScaffoldPattern(context.Background(), root, tt.pattern, filepath.Dir(root))
			var patErr *model.InvalidPatternError
			require.ErrorAs(t, err, &patErr)

			_, statErr := os.Stat(root)
			assert.True(t, os.IsNotExist(statErr))
		})
	}
}

// TestScaffold_DirectoryFailureAborts stops at the first fatal directory
// error and leaves earlier work in place.
func TestScaffold_DirectoryFailureAborts(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "blocked"), []byte("x"), 0o644))

	p := model.Pattern{
		Label:       "partial",
		Directories: []string{"first", "blocked/child", "never"},
		Files:       []model.FileSpec{{Path: "never.txt", Content: []byte("x")}},
	}

	res, err := newTestScaffolder(t).ScaffoldPattern(context.Background(), ".", p, root)
	require.Error(t, err)
	assert.Nil(t, res)

	var dirErr *model.DirectoryCreationError
	require.ErrorAs(t, err, &dirErr)

	assert.DirExists(t, filepath.Join(root, "first"))
	assert.NoDirExists(t, filepath.Join(root, "never"))
	assert.NoFileExists(t, filepath.Join(root, "never.txt"))
}

// TestScaffold_FileFailureAborts stops at the first fatal file error; a
// re-run after the obstacle is removed completes the pattern.
func TestScaffold_FileFailureAborts(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "lib"), []byte("x"), 0o644))

	p := model.Pattern{
		Label: "partial",
		Files: []model.FileSpec{
			{Path: "a.txt", Content: []byte("a")},
			{Path: "lib/b.txt", Content: []byte("b")},
			{Path: "c.txt", Content: []byte("c")},
		},
	}
	s := newTestScaffolder(t)

	_, err := s.ScaffoldPattern(context.Background(), ".", p, root)
	var fileErr *model.FileCreationError
	require.ErrorAs(t, err, &fileErr)
	assert.FileExists(t, filepath.Join(root, "a.txt"))
	assert.NoFileExists(t, filepath.Join(root, "c.txt"))

	require.NoError(t, os.Remove(filepath.Join(root, "lib")))
	res, err := s.ScaffoldPattern(context.Background(), ".", p, root)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.txt"}, res.SkippedFiles)
	assert.Equal(t, []string{"lib/b.txt", "c.txt"}, res.CreatedFiles)
}

// TestScaffold_CancelledContext stops before touching entries.
func TestScaffold_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	root := t.TempDir()
	_, err := newTestScaffolder(t).ScaffoldPattern(ctx, ".", demoPattern(), root)
	require.ErrorIs(t, err, context.Canceled)
	assert.NoDirExists(t, filepath.Join(root, "src"))
}

// TestScaffold_TargetCreatedWhenMissing creates a deep target root.
func TestScaffold_TargetCreatedWhenMissing(t *testing.T) {
	base := t.TempDir()
	p := model.Pattern{Label: "empty"}

	res, err := newTestScaffolder(t).ScaffoldPattern(context.Background(), "a/b/c", p, base)
	require.NoError(t, err)
	assert.DirExists(t, filepath.Join(base, "a", "b", "c"))
	assert.Equal(t, []string{}, res.CreatedDirectories)
}
