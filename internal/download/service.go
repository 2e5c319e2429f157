// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package download resolves signed links, fetches file bytes, validates them and
persists them.

Outcomes:

  - A missing download URL or an undersized or unsuccessful payload is not an
    error. It is reported as a false result and nothing is written.
  - Gateway errors (401, 404, other statuses, transport) are returned as is.

There is no retry loop; callers wrap [Service.DownloadFile] when they want one.
*/
package download

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/zahardimidov/cu-lms-materials-downloader/internal/platform/constants"
	"github.com/zahardimidov/cu-lms-materials-downloader/internal/platform/ctxutil"
)

// linkResponse is the download-link payload. The url is optional.
type linkResponse struct {
	URL *string `json:"url"`
}

// Service is the download engine. It is safe for concurrent use.
type Service struct {
	api   API
	files FileWriter
}

// NewService creates an engine over the gateway and the file store.
func NewService(api API, files FileWriter) *Service {
	return &Service{
		api:   api,
		files: files,
	}
}

// ResolveDownloadLink exchanges (filename, version) for a signed URL.
//
// # Returns
//   - The URL and true when the LMS provides one.
//   - An empty string and false when the url field is absent or empty.
//   - An error for any gateway failure.
func (service *Service) ResolveDownloadLink(context context.Context, filename, version string) (string, bool, error) {
	query := url.Values{}
	query.Set(constants.QueryFilename, filename)
	query.Set(constants.QueryVersion, version)

	var payload linkResponse
	if err := service.api.GetJSON(context, constants.PathDownloadLink, query, &payload); err != nil {
		return "", false, fmt.Errorf("resolve download link for %s: %w", filename, err)
	}

	if payload.URL == nil || *payload.URL == "" {
		return "", false, nil
	}
	return *payload.URL, true, nil
}

// FetchAndValidate downloads the bytes behind a signed URL.
//
// A payload is accepted only with a 2xx status and strictly more than
// [constants.MinPayloadSize] bytes; small bodies are error pages served with 200.
func (service *Service) FetchAndValidate(context context.Context, rawURL string) ([]byte, bool, error) {
	response, err := service.api.Fetch(context, rawURL)
	if err != nil {
		return nil, false, err
	}

	if !response.OK() || len(response.Body) <= constants.MinPayloadSize {
		ctxutil.GetLogger(context).DebugContext(context, "payload_rejected",
			slog.Int("status", response.StatusCode),
			slog.Int("size", len(response.Body)),
		)
		return nil, false, nil
	}

	return response.Body, true, nil
}

// DownloadFile resolves, fetches, validates and writes one file to destination.
//
// It reports whether the file was written. Nothing is written when the link
// or the payload is rejected.
func (service *Service) DownloadFile(context context.Context, filename, version, destination string) (bool, error) {
	logger := ctxutil.GetLogger(context).With(slog.String(constants.FieldFile, filename))

	// 1. Exchange the key for a signed link
	link, ok, err := service.ResolveDownloadLink(context, filename, version)
	if err != nil {
		return false, err
	}
	if !ok {
		logger.DebugContext(context, "download_link_missing")
		return false, nil
	}

	// 2. Fetch and validate the bytes
	data, ok, err := service.FetchAndValidate(context, link)
	if err != nil {
		return false, fmt.Errorf("fetch %s: %w", filename, err)
	}
	if !ok {
		return false, nil
	}

	// 3. Persist, creating parent directories on the way
	if err := service.files.Write(destination, data); err != nil {
		return false, err
	}

	logger.DebugContext(context, "file_saved",
		slog.String(constants.FieldPath, destination),
		slog.Int("size", len(data)),
	)
	return true, nil
}
