// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package uuidv7 wraps google/uuid to generate time-ordered UUIDv7 values.
//
// # Why UUIDv7?
//
// Run and request identifiers end up in log lines; time ordering keeps a
// sorted log readable without a separate timestamp column.
package uuidv7

import "github.com/google/uuid"

// New generates a new UUIDv7 string.
//
// If the OS random source fails it falls back to a random UUIDv4, so the
// caller always receives an identifier.
func New() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}

	return id.String()
}
