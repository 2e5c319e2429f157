// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package course

import (
	"strings"

	"github.com/zahardimidov/cu-lms-materials-downloader/pkg/slice"
)

// # Course Predicates

// ByExactName accepts the course whose name equals name.
func ByExactName(name string) slice.Predicate[Course] {
	return func(course Course) bool {
		return course.Name == name
	}
}

// ByNameContains accepts courses whose name contains fragment, ignoring case.
func ByNameContains(fragment string) slice.Predicate[Course] {
	needle := strings.ToLower(fragment)
	return func(course Course) bool {
		return strings.Contains(strings.ToLower(course.Name), needle)
	}
}

// ExcludingNames rejects courses whose name contains any of the fragments.
func ExcludingNames(fragments ...string) slice.Predicate[Course] {
	return func(course Course) bool {
		for _, fragment := range fragments {
			if fragment != "" && strings.Contains(course.Name, fragment) {
				return false
			}
		}
		return true
	}
}

// NotArchived rejects archived courses.
func NotArchived() slice.Predicate[Course] {
	return func(course Course) bool {
		return !course.IsArchived
	}
}
