// Package materialize creates directories and files on disk idempotently.
//
// Directory creation is always a no-op when the directory already exists.
// File creation never overwrites: a file that is already present is
// reported as not created and its content is never read or compared.
package materialize

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/shinji-kodama/archscaffold/internal/model"
)

const (
	// DirPerm is the permission used for every created directory.
	DirPerm os.FileMode = 0o755

	// FilePerm is the permission used for every created file.
	FilePerm os.FileMode = 0o644
)

// EnsureDirectory creates path and every missing ancestor. It succeeds
// silently when the directory already exists.
//
// Failures are returned as *model.DirectoryCreationError wrapping the
// underlying cause.
func EnsureDirectory(path string) error {
	if err := os.MkdirAll(path, DirPerm); err != nil {
		return &model.DirectoryCreationError{Path: path, Err: err}
	}
	return nil
}

// EnsureFile writes content to path unless a file already exists there.
// It reports true when the file was newly written and false when it was
// already present.
//
// The create is exclusive (O_EXCL), so a file that appears between two
// scaffold runs, or from a concurrent run, is never truncated. Any failure
// other than pre-existence is returned as *model.FileCreationError.
func EnsureFile(path string, content []byte) (bool, error) {
	if err := EnsureDirectory(filepath.Dir(path)); err != nil {
		return false, &model.FileCreationError{Path: path, Err: err}
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, FilePerm)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return false, nil
		}
		return false, &model.FileCreationError{Path: path, Err: err}
	}

	if err := writeAndClose(f, content); err != nil {
		// The file is ours; drop the partial copy so a re-run can recreate it.
		_ = os.Remove(path)
		return false, &model.FileCreationError{Path: path, Err: err}
	}

	return true, nil
}

// writeAndClose writes content, flushes it and closes f. The close error is
// reported because a failed close can mean lost data on some filesystems.
func writeAndClose(f *os.File, content []byte) error {
	if _, err := f.Write(content); err != nil {
		_ = f.Close()
		return fmt.Errorf("write: %w", err)
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		return fmt.Errorf("sync: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close: %w", err)
	}
	return nil
}
