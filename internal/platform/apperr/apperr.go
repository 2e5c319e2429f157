// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package apperr defines the centralized error taxonomy of the downloader.

It provides a rich error type that classifies remote API outcomes so that the
traversal layer can decide between aborting the run, skipping one item, or
reporting a diagnostic.

Taxonomy:

  - UNAUTHORIZED: stale or missing credentials. Fatal, the whole run stops.
  - NOT_FOUND: a specific id or week number does not exist. Local to the item.
  - API_ERROR: any other non-success HTTP outcome, with status and body excerpt.
  - INVALID_RESPONSE: a payload that does not match the endpoint schema.
  - VALIDATION_ERROR: rejected local input (configuration, flags).

Every error that leaves the gateway or the resolver is either an [AppError]
or a wrapped transport error.
*/
package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Machine-readable error codes.
const (
	CodeUnauthorized    = "UNAUTHORIZED"
	CodeNotFound        = "NOT_FOUND"
	CodeAPI             = "API_ERROR"
	CodeInvalidResponse = "INVALID_RESPONSE"
	CodeValidation      = "VALIDATION_ERROR"
	CodeInternal        = "INTERNAL_ERROR"
)

// AppError is the canonical error type of the downloader.
//
// It carries the HTTP status observed from the LMS (zero for local errors),
// a machine-readable code, a human-readable message, and optional details.
type AppError struct {
	// Code is a machine-readable error identifier (e.g. "NOT_FOUND").
	Code string `json:"code"`
	// Message is a human-readable description.
	Message string `json:"error"`
	// HTTPStatus is the status code returned by the remote API, if any.
	HTTPStatus int `json:"status,omitempty"`
	// Cause is the underlying error.
	Cause error `json:"-"`
	// Details holds per-field information (invalid fields, valid ranges).
	Details []FieldError `json:"details,omitempty"`
}

// FieldError represents a single field-level detail.
type FieldError struct {
	// Field names the offending input or payload field.
	Field string `json:"field"`
	// Message is the human-readable description of the failure.
	Message string `json:"message"`
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if len(e.Details) == 0 {
		return e.Message
	}

	parts := make([]string, 0, len(e.Details))
	for _, detail := range e.Details {
		parts = append(parts, detail.Field+": "+detail.Message)
	}
	return e.Message + " (" + strings.Join(parts, "; ") + ")"
}

// Unwrap allows [errors.Is] and [errors.As] to traverse the cause chain.
func (e *AppError) Unwrap() error { return e.Cause }

// # Remote Outcomes

// Unauthorized creates a 401 [AppError]. The user must refresh the credentials file.
func Unauthorized(msg string) *AppError {
	return &AppError{
		Code:       CodeUnauthorized,
		Message:    msg,
		HTTPStatus: http.StatusUnauthorized,
	}
}

// NotFound creates a 404 [AppError] for a named resource.
//
// Example:
//
//	apperr.NotFound("Week #7") // Returns "Week #7 not found"
func NotFound(resource string, details ...FieldError) *AppError {
	return &AppError{
		Code:       CodeNotFound,
		Message:    resource + " not found",
		HTTPStatus: http.StatusNotFound,
		Details:    details,
	}
}

// Upstream creates an API_ERROR for any other non-success status.
// The body is truncated to maxBody characters.
func Upstream(status int, body string, maxBody int) *AppError {
	excerpt := []rune(strings.TrimSpace(body))
	if len(excerpt) > maxBody {
		excerpt = excerpt[:maxBody]
	}

	return &AppError{
		Code:       CodeAPI,
		Message:    fmt.Sprintf("LMS API error %d: %s", status, string(excerpt)),
		HTTPStatus: status,
	}
}

// InvalidResponse creates an error for a payload that cannot be decoded or
// that lacks required fields.
func InvalidResponse(endpoint string, cause error, details ...FieldError) *AppError {
	return &AppError{
		Code:    CodeInvalidResponse,
		Message: "Unexpected response from " + endpoint,
		Cause:   cause,
		Details: details,
	}
}

// # Local Errors

// ValidationError creates an [AppError] with optional per-field details.
func ValidationError(msg string, details ...FieldError) *AppError {
	return &AppError{
		Code:    CodeValidation,
		Message: msg,
		Details: details,
	}
}

// Internal wraps an unexpected local failure.
func Internal(cause error) *AppError {
	return &AppError{
		Code:    CodeInternal,
		Message: "An unexpected error occurred",
		Cause:   cause,
	}
}

// # Helpers

// As extracts the [*AppError] from err's chain. It returns nil if not found.
func As(err error) *AppError {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae
	}
	return nil
}

// HasCode reports whether err (or any error in its chain) is an [*AppError] with the given code.
func HasCode(err error, code string) bool {
	ae := As(err)
	return ae != nil && ae.Code == code
}

// IsUnauthorized reports whether err signals missing or stale credentials.
func IsUnauthorized(err error) bool { return HasCode(err, CodeUnauthorized) }

// IsNotFound reports whether err signals an unknown id or week number.
func IsNotFound(err error) bool { return HasCode(err, CodeNotFound) }

// IsUpstream reports whether err is a non-success status other than 401/404.
func IsUpstream(err error) bool { return HasCode(err, CodeAPI) }
