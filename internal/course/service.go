// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package course

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/zahardimidov/cu-lms-materials-downloader/internal/platform/apperr"
	"github.com/zahardimidov/cu-lms-materials-downloader/internal/platform/constants"
	"github.com/zahardimidov/cu-lms-materials-downloader/pkg/slice"
)

// Service resolves the course hierarchy and applies caller predicates.
type Service struct {
	repository Repository
	logger     *slog.Logger
}

// NewService creates a resolver over the given repository.
func NewService(repository Repository, logger *slog.Logger) *Service {
	return &Service{
		repository: repository,
		logger:     logger,
	}
}

// ListCourses returns the courses accepted by predicate (all when nil).
func (service *Service) ListCourses(context context.Context, predicate slice.Predicate[Course]) ([]Course, error) {
	courses, err := service.repository.ListCourses(context)
	if err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}

	selected := slice.Filter(courses, predicate)
	service.logger.DebugContext(context, "courses_listed",
		slog.Int("total", len(courses)),
		slog.Int("selected", len(selected)),
	)
	return selected, nil
}

// ListWeeks returns the weeks of a course accepted by predicate (all when nil).
func (service *Service) ListWeeks(context context.Context, courseID int, predicate slice.Predicate[Week]) ([]Week, error) {
	weeks, err := service.repository.ListWeeks(context, courseID)
	if err != nil {
		return nil, fmt.Errorf("list weeks of course %d: %w", courseID, err)
	}
	return slice.Filter(weeks, predicate), nil
}

// GetWeek returns the 1-indexed week of a course.
//
// A number outside [1, N] yields NOT_FOUND citing the valid range 1..N.
func (service *Service) GetWeek(context context.Context, courseID, number int) (*Week, error) {
	weeks, err := service.ListWeeks(context, courseID, nil)
	if err != nil {
		return nil, err
	}

	if number < 1 || number > len(weeks) {
		validRange := fmt.Sprintf("1..%d", len(weeks))
		notFound := apperr.NotFound(
			fmt.Sprintf("Week #%d", number),
			apperr.FieldError{Field: constants.FieldWeek, Message: "valid range is " + validRange},
		)
		notFound.Message += " (available: " + validRange + ")"
		return nil, notFound
	}

	week := weeks[number-1]
	return &week, nil
}

// ListMaterials returns the downloadable files of a section in API order.
func (service *Service) ListMaterials(context context.Context, sectionID int) ([]Material, error) {
	materials, err := service.repository.ListMaterials(context, sectionID)
	if err != nil {
		return nil, fmt.Errorf("list materials of section %d: %w", sectionID, err)
	}

	service.logger.DebugContext(context, "materials_listed",
		slog.Int(constants.FieldSection, sectionID),
		slog.Int("files", len(materials)),
	)
	return materials, nil
}
