// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package course builds the Course, Week, Section and Material view of the LMS.
//
// Entities are rebuilt from every response and never cached. Order is always
// the order of the API response.
package course

import (
	"strings"

	"github.com/zahardimidov/cu-lms-materials-downloader/internal/platform/constants"
)

// Course is one course of the current student.
type Course struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	State      string `json:"state"`
	IsArchived bool   `json:"isArchived"`
}

// Week is a theme of the course overview whose name carries a week marker.
type Week struct {
	ID       int       `json:"id"`
	Name     string    `json:"name"`
	Sections []Section `json:"sections"`
}

// Section is a longread nested in a week.
type Section struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
}

// Material is a downloadable file record of a section.
//
// (Filename, Version) is the key used to request a download link. It is only
// meaningful within that request, not globally unique.
type Material struct {
	Discriminator string  `json:"discriminator"`
	Filename      string  `json:"filename"`
	Version       string  `json:"version"`
	Length        int64   `json:"length"`
	ViewType      *string `json:"viewType,omitempty"`
	MediaType     *string `json:"mediaType,omitempty"`
}

// IsWeekName reports whether a theme name identifies a teaching week.
func IsWeekName(name string) bool {
	for _, marker := range constants.WeekMarkers {
		if strings.Contains(name, marker) {
			return true
		}
	}
	return false
}
