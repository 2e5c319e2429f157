// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package download

import (
	"github.com/zahardimidov/cu-lms-materials-downloader/internal/platform/apperr"
)

// ExistingFilePolicy decides what happens when the destination already exists.
type ExistingFilePolicy string

const (
	// PolicyOverwrite downloads again and replaces the file (full re-materialization).
	PolicyOverwrite ExistingFilePolicy = "overwrite"
	// PolicySkipExisting keeps the file on disk and does not contact the LMS for it.
	PolicySkipExisting ExistingFilePolicy = "skip"
)

// ParsePolicy converts a configuration value. The empty string means [PolicyOverwrite].
func ParsePolicy(value string) (ExistingFilePolicy, error) {
	switch ExistingFilePolicy(value) {
	case "", PolicyOverwrite:
		return PolicyOverwrite, nil
	case PolicySkipExisting:
		return PolicySkipExisting, nil
	default:
		return "", apperr.ValidationError("Unknown existing-file policy",
			apperr.FieldError{Field: "existing", Message: "Must be one of: overwrite, skip"},
		)
	}
}

// String implements [fmt.Stringer].
func (policy ExistingFilePolicy) String() string {
	return string(policy)
}
