// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package lmsapi is the thin authenticated gateway to the micro-LMS REST API.

It issues GET requests over a single pooled session and translates HTTP
status codes into typed outcomes:

  - 401: [apperr.CodeUnauthorized], the credentials are stale and the run must stop.
  - 404: [apperr.CodeNotFound], the referenced id does not exist.
  - Any other non-2xx: [apperr.CodeAPI] with the status and a body excerpt.

There is no retry at this layer. Callers that want one wrap the call.
*/
package lmsapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/zahardimidov/cu-lms-materials-downloader/internal/platform/apperr"
	"github.com/zahardimidov/cu-lms-materials-downloader/internal/platform/constants"
	"github.com/zahardimidov/cu-lms-materials-downloader/internal/platform/transport"
	"github.com/zahardimidov/cu-lms-materials-downloader/internal/platform/validate"
)

// DisallowUnknownFields controls JSON decoding of API payloads.
// The LMS adds fields freely, so unknown fields are ignored.
const DisallowUnknownFields = false

// Config is the immutable gateway configuration.
type Config struct {
	// BaseURL is the API origin, e.g. https://my.centraluniversity.ru.
	BaseURL string
	// Headers are attached to every request addressed to the BaseURL host.
	Headers http.Header
}

// Response is a fully read HTTP response.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// OK reports whether the status is 2xx.
func (response *Response) OK() bool {
	return response.StatusCode >= 200 && response.StatusCode < 300
}

// Gateway issues requests against the LMS. It is safe for concurrent use.
type Gateway struct {
	baseURL *url.URL
	client  *http.Client
}

// New validates config and builds a gateway on top of client.
//
// # Parameters
//   - config: Base URL and the static headers, copied at construction.
//   - client: The shared session; its transport is decorated, not replaced.
func New(config Config, client *http.Client) (*Gateway, error) {
	if err := new(validate.Validator).URL("base_url", config.BaseURL).Err(); err != nil {
		return nil, err
	}

	baseURL, err := url.Parse(strings.TrimRight(config.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("lmsapi: parse base url: %w", err)
	}

	if client == nil {
		client = http.DefaultClient
	}

	// Copy the client so the caller's instance stays untouched; the pool is shared.
	scoped := *client
	scoped.Transport = transport.Chain(client.Transport,
		transport.StaticHeaders(baseURL.Host, config.Headers.Clone()),
	)

	return &Gateway{baseURL: baseURL, client: &scoped}, nil
}

// # Requests

// Get requests an API path and classifies the status.
//
// # Returns
//   - The response for any 2xx status.
//   - An [*apperr.AppError] for 401, 404 and other non-2xx statuses.
//   - A wrapped transport error when no response was received.
func (gateway *Gateway) Get(context context.Context, path string, query url.Values) (*Response, error) {
	endpoint := *gateway.baseURL
	endpoint.Path = gateway.baseURL.Path + path
	endpoint.RawQuery = query.Encode()

	response, err := gateway.do(context, endpoint.String())
	if err != nil {
		return nil, err
	}

	if err := classify(path, response); err != nil {
		return nil, err
	}
	return response, nil
}

// GetJSON requests an API path and decodes the body into target.
func (gateway *Gateway) GetJSON(context context.Context, path string, query url.Values, target any) error {
	response, err := gateway.Get(context, path, query)
	if err != nil {
		return err
	}

	decoder := json.NewDecoder(bytes.NewReader(response.Body))
	if DisallowUnknownFields {
		decoder.DisallowUnknownFields()
	}

	if err := decoder.Decode(target); err != nil {
		return apperr.InvalidResponse(path, err)
	}
	return nil
}

// Fetch downloads an absolute URL, typically a signed storage link.
//
// The status is not classified; the caller decides what a non-2xx means.
// Bodies of unsuccessful responses are truncated.
func (gateway *Gateway) Fetch(context context.Context, rawURL string) (*Response, error) {
	return gateway.do(context, rawURL)
}

func (gateway *Gateway) do(context context.Context, rawURL string) (*Response, error) {
	request, err := http.NewRequestWithContext(context, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("lmsapi: build request: %w", err))
	}

	response, err := gateway.client.Do(request)
	if err != nil {
		return nil, fmt.Errorf("lmsapi: GET %s: %w", request.URL.Redacted(), err)
	}
	defer response.Body.Close()

	result := &Response{StatusCode: response.StatusCode, Header: response.Header}

	var reader io.Reader = response.Body
	if !result.OK() {
		reader = io.LimitReader(response.Body, 4*constants.ErrorBodyExcerpt)
	}

	if result.Body, err = io.ReadAll(reader); err != nil {
		return nil, fmt.Errorf("lmsapi: read %s: %w", request.URL.Path, err)
	}

	return result, nil
}

// classify maps a non-2xx status to the error taxonomy.
func classify(path string, response *Response) error {
	switch {
	case response.OK():
		return nil
	case response.StatusCode == http.StatusUnauthorized:
		return apperr.Unauthorized("LMS rejected the credentials, refresh the headers file")
	case response.StatusCode == http.StatusNotFound:
		return apperr.NotFound("Resource " + path)
	default:
		return apperr.Upstream(response.StatusCode, string(response.Body), constants.ErrorBodyExcerpt)
	}
}
