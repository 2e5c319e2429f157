// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"

	"github.com/zahardimidov/cu-lms-materials-downloader/internal/platform/apperr"
)

// LoadHeaders reads the static request headers from a JSON object of
// header name to value (typically a browser session cookie).
//
// # Returns
//   - The headers and true when the file exists.
//   - Empty headers and false when the file is missing. This is not an error;
//     the caller is expected to warn that requests will be anonymous.
//   - A VALIDATION_ERROR when the file is not a flat string object.
func LoadHeaders(path string) (http.Header, bool, error) {
	headers := http.Header{}

	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return headers, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("config: read headers %s: %w", path, err)
	}

	var values map[string]string
	if err := json.Unmarshal(raw, &values); err != nil {
		return nil, true, apperr.ValidationError("Headers file must be a JSON object of strings",
			apperr.FieldError{Field: path, Message: err.Error()},
		)
	}

	for name, value := range values {
		if name == "" {
			continue
		}
		headers.Set(name, value)
	}

	return headers, true, nil
}
