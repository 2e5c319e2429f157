// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package course

import (
	"fmt"

	"github.com/zahardimidov/cu-lms-materials-downloader/internal/platform/apperr"
	"github.com/zahardimidov/cu-lms-materials-downloader/internal/platform/validate"
	"github.com/zahardimidov/cu-lms-materials-downloader/pkg/pointer"
)

// # Wire Schema
//
// Required fields are pointers so a missing field can be told apart from a zero value.

type courseListResponse struct {
	Items []courseDTO `json:"items"`
}

type courseDTO struct {
	ID         *int    `json:"id"`
	Name       *string `json:"name"`
	State      string  `json:"state"`
	IsArchived bool    `json:"isArchived"`
}

type overviewResponse struct {
	Themes []themeDTO `json:"themes"`
}

type themeDTO struct {
	ID        *int          `json:"id"`
	Name      string        `json:"name"`
	Longreads []longreadDTO `json:"longreads"`
}

type longreadDTO struct {
	ID   *int    `json:"id"`
	Name *string `json:"name"`
	Type string  `json:"type"`
}

type materialListResponse struct {
	Items []materialDTO `json:"items"`
}

type materialDTO struct {
	Discriminator string  `json:"discriminator"`
	Filename      *string `json:"filename"`
	Version       *string `json:"version"`
	Length        int64   `json:"length"`
	ViewType      *string `json:"viewType"`
	MediaType     *string `json:"mediaType"`
}

// # Conversion

func (dto courseDTO) toEntity(index int) (Course, []apperr.FieldError) {
	v := &validate.Validator{}
	v.Present(field("items", index, "id"), dto.ID != nil).
		Present(field("items", index, "name"), dto.Name != nil)

	return Course{
		ID:         pointer.Val(dto.ID),
		Name:       pointer.Val(dto.Name),
		State:      dto.State,
		IsArchived: dto.IsArchived,
	}, v.Fields()
}

func (dto themeDTO) toEntity(index int) (Week, []apperr.FieldError) {
	v := &validate.Validator{}
	v.Present(field("themes", index, "id"), dto.ID != nil)

	week := Week{
		ID:       pointer.Val(dto.ID),
		Name:     dto.Name,
		Sections: make([]Section, 0, len(dto.Longreads)),
	}

	for i, longread := range dto.Longreads {
		prefix := fmt.Sprintf("themes[%d].longreads", index)
		v.Present(field(prefix, i, "id"), longread.ID != nil).
			Present(field(prefix, i, "name"), longread.Name != nil)

		week.Sections = append(week.Sections, Section{
			ID:   pointer.Val(longread.ID),
			Name: pointer.Val(longread.Name),
			Type: longread.Type,
		})
	}

	return week, v.Fields()
}

func (dto materialDTO) toEntity(index int) (Material, []apperr.FieldError) {
	v := &validate.Validator{}
	v.Present(field("items", index, "filename"), dto.Filename != nil).
		Present(field("items", index, "version"), dto.Version != nil)

	return Material{
		Discriminator: dto.Discriminator,
		Filename:      pointer.Val(dto.Filename),
		Version:       pointer.Val(dto.Version),
		Length:        dto.Length,
		ViewType:      dto.ViewType,
		MediaType:     dto.MediaType,
	}, v.Fields()
}

func field(collection string, index int, name string) string {
	return fmt.Sprintf("%s[%d].%s", collection, index, name)
}
