// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package constants provides centralized, immutable values for the entire tool.

It defines the remote API schema and the download thresholds shared between
the transport, domain and CLI layers. Tunable defaults live on the
configuration schema.

Categories:

  - Remote API: Endpoint paths and query parameters.
  - HTTP: Error body excerpts.
  - Downloads: Payload validation and file permissions.
*/
package constants

// # Metadata

const (
	AppName    = "lmsdl"
	AppVersion = "0.1.0-dev"
)

// # Remote API

const (
	// PathStudentCourses lists the courses of the current student.
	PathStudentCourses = "/api/micro-lms/courses/student"

	// PathCourseOverview is formatted with a course id.
	PathCourseOverview = "/api/micro-lms/courses/%d/overview"

	// PathLongreadMaterials is formatted with a section (longread) id.
	PathLongreadMaterials = "/api/micro-lms/longreads/%d/materials"

	// PathDownloadLink exchanges (filename, version) for a signed URL.
	PathDownloadLink = "/api/micro-lms/content/download-link"

	// ListLimit is large enough for listings to be effectively unpaginated.
	ListLimit = "10000"

	// CourseStatePublished filters the course list.
	CourseStatePublished = "published"

	// DiscriminatorFile marks downloadable materials.
	DiscriminatorFile = "file"
)

// WeekMarkers identify themes that represent teaching weeks.
var WeekMarkers = []string{"Неделя", "Week"}

// # Query Parameters

const (
	QueryLimit    = "limit"
	QueryState    = "state"
	QueryFilename = "filename"
	QueryVersion  = "version"
)

// # HTTP Headers

const (
	HeaderXRequestID = "X-Request-ID"
	HeaderUserAgent  = "User-Agent"
)

// # HTTP Errors

const (
	// ErrorBodyExcerpt is the maximum number of characters kept from an error response body.
	ErrorBodyExcerpt = 200
)

// # Downloads

const (
	// MinPayloadSize is the size a payload must exceed to be accepted.
	// Smaller bodies are error or placeholder pages served with 200.
	MinPayloadSize = 1000

	// DirPermissions and FilePermissions apply to everything written under the output root.
	DirPermissions  = 0o755
	FilePermissions = 0o644
)

// # Structured Log Fields

const (
	FieldRunID   = "run_id"
	FieldCourse  = "course"
	FieldWeek    = "week"
	FieldSection = "section_id"
	FieldFile    = "file"
	FieldPath    = "path"
	FieldError   = "error"
)
