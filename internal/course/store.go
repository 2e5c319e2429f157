// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package course

import "context"

// Repository reads the course hierarchy from its source.
//
// Implementations apply the structural filters (week themes, file materials)
// and return entities in source order.
type Repository interface {
	ListCourses(context context.Context) ([]Course, error)
	ListWeeks(context context.Context, courseID int) ([]Week, error)
	ListMaterials(context context.Context, sectionID int) ([]Material, error)
}
