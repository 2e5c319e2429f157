// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package storage_test

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zahardimidov/cu-lms-materials-downloader/internal/storage"
)

/*
TestLocal_Write creates parents and overwrites existing content.
*/
func TestLocal_Write(t *testing.T) {
	local := storage.NewLocal()
	path := filepath.Join(t.TempDir(), "Go", "Неделя 1", "notes.pdf")

	// 1. Parents are created
	require.NoError(t, local.Write(path, []byte("first version")))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "first version", string(data))

	// 2. Existing content is replaced, not appended
	require.NoError(t, local.Write(path, []byte("v2")))

	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "v2", string(data))
}

/*
TestLocal_Exists distinguishes present and missing paths.
*/
func TestLocal_Exists(t *testing.T) {
	local := storage.NewLocal()
	dir := t.TempDir()

	exists, err := local.Exists(filepath.Join(dir, "missing.pdf"))
	require.NoError(t, err)
	assert.False(t, exists)

	path := filepath.Join(dir, "present.pdf")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o600))

	exists, err = local.Exists(path)
	require.NoError(t, err)
	assert.True(t, exists)
}

/*
TestLocal_EnsureDir_Concurrent verifies directory creation is idempotent under concurrency.
*/
func TestLocal_EnsureDir_Concurrent(t *testing.T) {
	local := storage.NewLocal()
	dir := filepath.Join(t.TempDir(), "course", "week")

	var wg sync.WaitGroup
	errs := make(chan error, 16)

	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs <- local.Write(filepath.Join(dir, fmt.Sprintf("file-%d.bin", i)), []byte{byte(i)})
		}(i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 16)
	assert.NoError(t, local.EnsureDir(dir))
}

/*
TestLocal_Write_ParentIsFile fails cleanly when a parent path is a regular file.
*/
func TestLocal_Write_ParentIsFile(t *testing.T) {
	local := storage.NewLocal()
	dir := t.TempDir()

	blocker := filepath.Join(dir, "course")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o600))

	err := local.Write(filepath.Join(blocker, "week", "notes.pdf"), []byte("data"))
	assert.Error(t, err)
}
