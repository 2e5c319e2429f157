// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package storage persists downloaded files on the local filesystem.
package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/zahardimidov/cu-lms-materials-downloader/internal/platform/constants"
)

// Local writes files under arbitrary paths of the local filesystem.
//
// # Concurrency
//
// Local holds no state; concurrent calls for the same directory are safe
// because directory creation is idempotent.
type Local struct{}

// NewLocal creates a local filesystem store.
func NewLocal() *Local {
	return &Local{}
}

// EnsureDir creates dir and all of its parents. An existing directory is not an error.
func (local *Local) EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, constants.DirPermissions); err != nil {
		return fmt.Errorf("storage: create directory %s: %w", dir, err)
	}
	return nil
}

// Exists reports whether a file or directory is present at path.
func (local *Local) Exists(path string) (bool, error) {
	_, err := os.Stat(path)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	default:
		return false, fmt.Errorf("storage: stat %s: %w", path, err)
	}
}

// Write stores data at path, creating parent directories as needed.
//
// An existing file is truncated. If writing or closing fails, the partial
// file is removed so no truncated material is left behind.
func (local *Local) Write(path string, data []byte) error {

	// 1. Ensure the directory exists
	if err := local.EnsureDir(filepath.Dir(path)); err != nil {
		return err
	}

	// 2. Create or truncate the file
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, constants.FilePermissions)
	if err != nil {
		return fmt.Errorf("storage: create %s: %w", path, err)
	}

	// 3. Write then close, cleaning up on any failure
	_, writeErr := file.Write(data)
	closeErr := file.Close()

	if err := errors.Join(writeErr, closeErr); err != nil {
		_ = os.Remove(path)
		return fmt.Errorf("storage: write %s: %w", path, err)
	}

	return nil
}
