// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package download

import (
	"context"
	"net/url"

	"github.com/zahardimidov/cu-lms-materials-downloader/internal/lmsapi"
)

// API is the part of the gateway the engine needs.
type API interface {
	GetJSON(context context.Context, path string, query url.Values, target any) error
	Fetch(context context.Context, rawURL string) (*lmsapi.Response, error)
}

// FileWriter persists validated payloads, creating parent directories.
type FileWriter interface {
	Write(path string, data []byte) error
}
