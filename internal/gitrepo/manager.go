// Package gitrepo initializes Git repositories in freshly scaffolded
// targets.
//
// This package wraps Git CLI commands (via os/exec). We shell out to `git`
// rather than using a Go Git library so that the user's own Git
// configuration (default branch name, templates, hooks) applies exactly as
// it would for a manual `git init`.
//
// All errors from Git commands are wrapped in model.CLIError with
// ExitGitError to enable proper CLI exit code handling.
package gitrepo

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/shinji-kodama/archscaffold/internal/model"
)

// ErrGitNotInstalled is returned when no git binary is on PATH.
var ErrGitNotInstalled = errors.New("git is not installed or not on PATH")

// Manager provides Git operations by invoking the git CLI.
type Manager struct {
	// binary is the git executable; tests may point it elsewhere.
	binary string
}

// NewManager creates a new Manager using the git found on PATH.
func NewManager() *Manager {
	return &Manager{binary: "git"}
}

// Available reports whether the git binary can be found.
func (m *Manager) Available() bool {
	_, err := exec.LookPath(m.binary)
	return err == nil
}

// IsInsideRepo reports whether path is inside an existing Git work tree.
// Any failure (not a repository, git missing) is reported as false.
func (m *Manager) IsInsideRepo(ctx context.Context, path string) bool {
	out, err := m.run(ctx, path, "rev-parse", "--is-inside-work-tree")
	return err == nil && strings.TrimSpace(out) == "true"
}

// Init runs `git init` in path unless path is already inside a repository.
// It reports whether a new repository was created.
func (m *Manager) Init(ctx context.Context, path string) (bool, error) {
	if !m.Available() {
		return false, model.WrapCLIError(model.ExitGitError, "cannot initialize repository", ErrGitNotInstalled)
	}
	if m.IsInsideRepo(ctx, path) {
		return false, nil
	}
	if _, err := m.run(ctx, path, "init", "--quiet"); err != nil {
		return false, err
	}
	return true, nil
}

// run executes git with the given arguments in dir and returns its stdout.
func (m *Manager) run(ctx context.Context, dir string, args ...string) (string, error) {
	// -C makes git operate in the target directory.
	fullArgs := append([]string{"-C", dir}, args...)

	// #nosec G204 -- args are constructed internally, not from user input
	cmd := exec.CommandContext(ctx, m.binary, fullArgs...)

	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		stderrStr := strings.TrimSpace(stderr.String())
		message := fmt.Sprintf("git %s failed", strings.Join(args, " "))
		if stderrStr != "" {
			message = fmt.Sprintf("%s: %s", message, stderrStr)
		}
		return "", model.WrapCLIError(model.ExitGitError, message, err)
	}

	return stdout.String(), nil
}
