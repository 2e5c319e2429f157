// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zahardimidov/cu-lms-materials-downloader/internal/platform/apperr"
	"github.com/zahardimidov/cu-lms-materials-downloader/internal/platform/config"
)

/*
TestLoadHeaders covers the present, missing and malformed file cases.
*/
func TestLoadHeaders(t *testing.T) {
	dir := t.TempDir()

	t.Run("present", func(t *testing.T) {
		path := filepath.Join(dir, "headers.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"cookie": "bff.cookie=abc", "x-custom": "1"}`), 0o600))

		headers, found, err := config.LoadHeaders(path)
		require.NoError(t, err)

		assert.True(t, found)
		assert.Equal(t, "bff.cookie=abc", headers.Get("Cookie"))
		assert.Equal(t, "1", headers.Get("X-Custom"))
	})

	t.Run("missing", func(t *testing.T) {
		headers, found, err := config.LoadHeaders(filepath.Join(dir, "nope.json"))
		require.NoError(t, err)

		assert.False(t, found)
		assert.Empty(t, headers)
	})

	t.Run("malformed", func(t *testing.T) {
		path := filepath.Join(dir, "bad.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"cookie": 42}`), 0o600))

		_, _, err := config.LoadHeaders(path)
		assert.True(t, apperr.HasCode(err, apperr.CodeValidation))
	})
}
