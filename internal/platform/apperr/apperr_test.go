// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package apperr_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zahardimidov/cu-lms-materials-downloader/internal/platform/apperr"
)

/*
TestClassification verifies that the predicates see through wrapping.
*/
func TestClassification(t *testing.T) {
	wrapped := fmt.Errorf("list courses: %w", apperr.Unauthorized("refresh the cookie"))

	assert.True(t, apperr.IsUnauthorized(wrapped))
	assert.False(t, apperr.IsNotFound(wrapped))
	assert.False(t, apperr.IsUpstream(wrapped))

	assert.True(t, apperr.IsNotFound(apperr.NotFound("Course")))
	assert.True(t, apperr.IsUpstream(apperr.Upstream(500, "boom", 200)))

	assert.False(t, apperr.IsUnauthorized(errors.New("plain")))
	assert.Nil(t, apperr.As(errors.New("plain")))
}

/*
TestUpstream_TruncatesBody checks the diagnostic excerpt length.
*/
func TestUpstream_TruncatesBody(t *testing.T) {
	body := strings.Repeat("я", 500)

	ae := apperr.Upstream(502, body, 200)

	assert.Equal(t, 502, ae.HTTPStatus)
	assert.Equal(t, apperr.CodeAPI, ae.Code)
	assert.Contains(t, ae.Message, "502")
	assert.Contains(t, ae.Message, strings.Repeat("я", 200))
	assert.NotContains(t, ae.Message, strings.Repeat("я", 201))
}

/*
TestNotFound_Details checks that details are rendered in the message.
*/
func TestNotFound_Details(t *testing.T) {
	err := apperr.NotFound("Week #9", apperr.FieldError{Field: "week", Message: "valid range is 1..4"})

	assert.Equal(t, "Week #9 not found (week: valid range is 1..4)", err.Error())
}

/*
TestInvalidResponse_Unwrap ensures the decode cause stays reachable.
*/
func TestInvalidResponse_Unwrap(t *testing.T) {
	cause := errors.New("unexpected EOF")

	err := apperr.InvalidResponse("/api/x", cause)

	require.ErrorIs(t, err, cause)
	assert.Equal(t, apperr.CodeInvalidResponse, err.Code)
}
