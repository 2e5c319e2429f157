// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package ctxkey defines typed context keys used by the transport chain and the traversal.
//
// # Safety
//
// It is used to store and retrieve per-run and per-request values (run ID, request ID, logger).
// Using a private, unexported type for keys prevents collisions with third-party
// packages that might also use context for storage.
package ctxkey

// key is an unexported type used for context keys to ensure type safety.
type key string

const (
	// KeyRunID is the context key for the identifier of one download run.
	KeyRunID key = "run_id"

	// KeyRequestID is the context key for the X-Request-ID of an outgoing request.
	KeyRequestID key = "request_id"

	// KeyLogger is the context key for the scoped [*log/slog.Logger].
	KeyLogger key = "logger"
)
