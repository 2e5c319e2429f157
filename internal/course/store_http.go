// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package course

import (
	"context"
	"fmt"
	"net/url"

	"github.com/zahardimidov/cu-lms-materials-downloader/internal/platform/apperr"
	"github.com/zahardimidov/cu-lms-materials-downloader/internal/platform/constants"
)

// JSONGetter is the part of the API gateway the repository needs.
type JSONGetter interface {
	GetJSON(context context.Context, path string, query url.Values, target any) error
}

// HTTPRepository reads the hierarchy from the LMS API.
type HTTPRepository struct {
	api JSONGetter
}

// NewHTTPRepository creates a repository on top of the gateway.
func NewHTTPRepository(api JSONGetter) *HTTPRepository {
	return &HTTPRepository{api: api}
}

// ListCourses fetches the published courses of the student.
func (repository *HTTPRepository) ListCourses(context context.Context) ([]Course, error) {
	query := url.Values{}
	query.Set(constants.QueryLimit, constants.ListLimit)
	query.Set(constants.QueryState, constants.CourseStatePublished)

	var payload courseListResponse
	if err := repository.api.GetJSON(context, constants.PathStudentCourses, query, &payload); err != nil {
		return nil, err
	}

	courses := make([]Course, 0, len(payload.Items))
	var problems []apperr.FieldError

	for i, item := range payload.Items {
		entity, fields := item.toEntity(i)
		problems = append(problems, fields...)
		courses = append(courses, entity)
	}

	if len(problems) > 0 {
		return nil, apperr.InvalidResponse(constants.PathStudentCourses, nil, problems...)
	}
	return courses, nil
}

// ListWeeks fetches the course overview and keeps the week themes.
//
// Themes without a week marker are dropped before validation; they are not
// part of the hierarchy.
func (repository *HTTPRepository) ListWeeks(context context.Context, courseID int) ([]Week, error) {
	path := fmt.Sprintf(constants.PathCourseOverview, courseID)

	var payload overviewResponse
	if err := repository.api.GetJSON(context, path, nil, &payload); err != nil {
		return nil, err
	}

	weeks := make([]Week, 0, len(payload.Themes))
	var problems []apperr.FieldError

	for i, theme := range payload.Themes {
		if !IsWeekName(theme.Name) {
			continue
		}
		entity, fields := theme.toEntity(i)
		problems = append(problems, fields...)
		weeks = append(weeks, entity)
	}

	if len(problems) > 0 {
		return nil, apperr.InvalidResponse(path, nil, problems...)
	}
	return weeks, nil
}

// ListMaterials fetches the materials of a section and keeps the files.
func (repository *HTTPRepository) ListMaterials(context context.Context, sectionID int) ([]Material, error) {
	path := fmt.Sprintf(constants.PathLongreadMaterials, sectionID)

	query := url.Values{}
	query.Set(constants.QueryLimit, constants.ListLimit)

	var payload materialListResponse
	if err := repository.api.GetJSON(context, path, query, &payload); err != nil {
		return nil, err
	}

	materials := make([]Material, 0, len(payload.Items))
	var problems []apperr.FieldError

	for i, item := range payload.Items {
		if item.Discriminator != constants.DiscriminatorFile {
			continue
		}
		entity, fields := item.toEntity(i)
		problems = append(problems, fields...)
		materials = append(materials, entity)
	}

	if len(problems) > 0 {
		return nil, apperr.InvalidResponse(path, nil, problems...)
	}
	return materials, nil
}
