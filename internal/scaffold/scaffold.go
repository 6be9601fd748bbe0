// Package scaffold materializes a pattern under a validated target root.
//
// Orchestration steps:
//  1. Resolve the target path against the base directory (pathguard)
//  2. Look up the pattern in the catalog
//  3. Validate the pattern entries
//  4. Ensure the target root exists
//  5. Ensure every directory, in declared order
//  6. Ensure every file, in declared order (never overwriting)
//  7. Return the aggregated Result
//
// The first fatal error aborts the run and nothing is rolled back. Running
// the same scaffold again is the recovery path: directories are idempotent
// and files that already exist are skipped.
package scaffold

import (
	"context"
	"fmt"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/shinji-kodama/archscaffold/internal/catalog"
	"github.com/shinji-kodama/archscaffold/internal/materialize"
	"github.com/shinji-kodama/archscaffold/internal/model"
	"github.com/shinji-kodama/archscaffold/internal/pathguard"
)

// PatternSource looks up patterns by key. *catalog.Catalog satisfies it.
type PatternSource interface {
	Lookup(key model.PatternKey) (model.Pattern, bool)
}

// Scaffolder applies patterns to target directories. It holds no mutable
// state, so one instance may serve concurrent invocations.
type Scaffolder struct {
	patterns PatternSource
	logger   *zap.Logger
}

// Option configures a Scaffolder.
type Option func(*Scaffolder)

// WithLogger sets the logger used for per-entry debug output.
func WithLogger(l *zap.Logger) Option {
	return func(s *Scaffolder) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithPatterns replaces the built-in catalog.
func WithPatterns(src PatternSource) Option {
	return func(s *Scaffolder) {
		if src != nil {
			s.patterns = src
		}
	}
}

// New creates a Scaffolder backed by the built-in catalog.
func New(opts ...Option) *Scaffolder {
	s := &Scaffolder{
		patterns: catalog.Default(),
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Scaffold resolves targetPath against baseDir and applies the catalog
// pattern registered under key.
//
// The target is resolved before the key is looked up, so an escaping path
// is always reported as a *model.SecurityViolationError. An unknown key
// returns model.ErrUnknownPattern.
func (s *Scaffolder) Scaffold(ctx context.Context, targetPath string, key model.PatternKey, baseDir string) (*model.Result, error) {
	root, err := pathguard.Resolve(targetPath, baseDir)
	if err != nil {
		return nil, err
	}

	pattern, ok := s.patterns.Lookup(key)
	if !ok {
		return nil, fmt.Errorf("%w: %q", model.ErrUnknownPattern, key)
	}

	return s.apply(ctx, root, pattern)
}

// ScaffoldPattern is Scaffold for a pattern supplied directly by the
// caller instead of looked up by key. The pattern is validated before
// anything is written.
func (s *Scaffolder) ScaffoldPattern(ctx context.Context, targetPath string, pattern model.Pattern, baseDir string) (*model.Result, error) {
	root, err := pathguard.Resolve(targetPath, baseDir)
	if err != nil {
		return nil, err
	}
	return s.apply(ctx, root, pattern)
}

// apply materializes pattern under the already-resolved root.
func (s *Scaffolder) apply(ctx context.Context, root string, pattern model.Pattern) (*model.Result, error) {
	if err := catalog.Check(pattern); err != nil {
		return nil, err
	}

	log := s.logger.With(zap.String("target", root), zap.String("pattern", pattern.Label))
	result := model.NewResult(root, pattern)

	if err := materialize.EnsureDirectory(root); err != nil {
		return nil, err
	}

	for _, dir := range pattern.Directories {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := materialize.EnsureDirectory(filepath.Join(root, filepath.FromSlash(dir))); err != nil {
			return nil, err
		}
		log.Debug("directory ensured", zap.String("path", dir))
		result.CreatedDirectories = append(result.CreatedDirectories, dir)
	}

	for _, file := range pattern.Files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		created, err := materialize.EnsureFile(filepath.Join(root, filepath.FromSlash(file.Path)), file.Content)
		if err != nil {
			return nil, err
		}
		if created {
			log.Debug("file created", zap.String("path", file.Path), zap.Int("bytes", len(file.Content)))
			result.CreatedFiles = append(result.CreatedFiles, file.Path)
		} else {
			log.Debug("file exists, skipped", zap.String("path", file.Path))
			result.SkippedFiles = append(result.SkippedFiles, file.Path)
		}
	}

	dirs, created, skipped := result.Counts()
	log.Info("scaffold complete",
		zap.Int("directories", dirs),
		zap.Int("created", created),
		zap.Int("skipped", skipped),
	)
	return result, nil
}
