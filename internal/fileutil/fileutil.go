// Package fileutil provides file helpers on top of an afero.Fs so callers can
// run against the OS or an in-memory filesystem.
package fileutil

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// Sentinel errors for file utility operations.
var (
	ErrEmptyPath = errors.New("path cannot be empty")
	ErrIsDir     = errors.New("path is a directory")
)

// FileExists returns true if the path exists and is a regular file.
func FileExists(fs afero.Fs, path string) bool {
	info, err := fs.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// CheckFile returns nil if path is an existing regular file. Otherwise it
// returns an error wrapping os.ErrNotExist or ErrIsDir.
func CheckFile(fs afero.Fs, path string) error {
	if path == "" {
		return ErrEmptyPath
	}
	info, err := fs.Stat(path)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("%w: %s", ErrIsDir, path)
	}
	return nil
}

// WriteFileAtomic writes data to a temporary file in the destination
// directory and renames it over path, so readers never observe a partially
// written file.
func WriteFileAtomic(fs afero.Fs, path string, data []byte, perm os.FileMode) error {
	if path == "" {
		return ErrEmptyPath
	}
	dir := filepath.Dir(path)

	tmp, err := afero.TempFile(fs, dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = fs.Remove(tmpName) }

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := fs.Chmod(tmpName, perm); err != nil {
		cleanup()
		return fmt.Errorf("setting permissions: %w", err)
	}
	if err := fs.Rename(tmpName, path); err != nil {
		cleanup()
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}

// RemoveQuietly deletes path and reports whether it succeeded. Errors are
// swallowed; callers use it for best-effort cleanup.
func RemoveQuietly(fs afero.Fs, path string) bool {
	return fs.Remove(path) == nil
}

// FileSize returns the size of the file at path in bytes.
func FileSize(fs afero.Fs, path string) (int64, error) {
	info, err := fs.Stat(path)
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}
