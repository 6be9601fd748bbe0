package pathguard

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shinji-kodama/archscaffold/internal/model"
)

// TestResolve_AllowsPathsInsideBase covers inputs that stay within the base
// after normalization.
func TestResolve_AllowsPathsInsideBase(t *testing.T) {
	base := t.TempDir()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"simple name", "my-app", filepath.Join(base, "my-app")},
		{"dot is base", ".", base},
		{"nested", "apps/web", filepath.Join(base, "apps", "web")},
		{"redundant dot segments", "./apps/./web", filepath.Join(base, "apps", "web")},
		{"duplicate separators", "apps//web", filepath.Join(base, "apps", "web")},
		{"dotdot that stays inside", "apps/../web", filepath.Join(base, "web")},
		{"name starting with dots", "..cache", filepath.Join(base, "..cache")},
		{"absolute inside base", filepath.Join(base, "abs"), filepath.Join(base, "abs")},
		{"absolute equal to base", base, base},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Resolve(tt.input, base)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

// TestResolve_JoinsOntoBase matches the documented example: a relative name
// is placed directly beneath the base.
func TestResolve_JoinsOntoBase(t *testing.T) {
	got, err := Resolve("my-app", "/tmp/X")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/tmp/X", "my-app"), got)
}

// TestResolve_RejectsEscapes covers leading and embedded escapes as well as
// absolute paths outside the base.
func TestResolve_RejectsEscapes(t *testing.T) {
	base := filepath.Join(t.TempDir(), "root")
	require.NoError(t, os.MkdirAll(base, 0o755))

	tests := []struct {
		name  string
		input string
	}{
		{"parent", ".."},
		{"grandparent etc", "../../etc"},
		{"embedded escape", "apps/../../outside"},
		{"trailing slash parent", "../"},
		{"absolute outside", "/etc/passwd"},
		{"sibling with shared prefix", filepath.Join(filepath.Dir(base), "root-sibling")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Resolve(tt.input, base)
			require.Error(t, err)
			assert.Empty(t, got)

			var secErr *model.SecurityViolationError
			require.ErrorAs(t, err, &secErr)
			assert.Equal(t, tt.input, secErr.Path)
			assert.Equal(t, base, secErr.BaseDir)
		})
	}

	// Nothing may have been written next to the base.
	entries, err := os.ReadDir(filepath.Dir(base))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "resolve must not touch the filesystem")
}

// TestResolve_EmptyInput rejects the empty string with its own sentinel.
func TestResolve_EmptyInput(t *testing.T) {
	_, err := Resolve("", t.TempDir())
	assert.ErrorIs(t, err, model.ErrEmptyPath)
}

// TestResolve_RelativeBase makes the base absolute before comparing.
func TestResolve_RelativeBase(t *testing.T) {
	cwd, err := os.Getwd()
	require.NoError(t, err)

	got, err := Resolve("x", ".")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(cwd, "x"), got)
}

// TestEscapes exercises the relative-result inspection directly.
func TestEscapes(t *testing.T) {
	assert.True(t, escapes(".."))
	assert.True(t, escapes(filepath.Join("..", "x")))
	assert.False(t, escapes("."))
	assert.False(t, escapes("..x"))
	assert.False(t, escapes(filepath.Join("a", "..b")))
}
