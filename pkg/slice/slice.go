// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package slice compliments the standard [slices] package by providing functional
programming utilities (Map, Filter) and composable predicates leveraging generics.
*/
package slice

// Predicate reports whether an element should be kept.
//
// A nil Predicate accepts everything.
type Predicate[T any] func(T) bool

// Map maps a slice of type T to a slice of type U using the provided transformation function.
func Map[T any, U any](input []T, transform func(T) U) []U {
	if input == nil {
		return nil
	}

	result := make([]U, len(input))
	for i, v := range input {
		result[i] = transform(v)
	}

	return result
}

// Filter filters a slice, returning only elements where the predicate evaluates to true.
//
// Order is preserved. A nil predicate returns the input unchanged.
func Filter[T any](input []T, predicate Predicate[T]) []T {
	if input == nil || predicate == nil {
		return input
	}

	// Not pre-allocating to full length to avoid excessive memory on heavy filters
	var result []T
	for _, v := range input {
		if predicate(v) {
			result = append(result, v)
		}
	}

	return result
}

// All combines predicates with logical AND. Nil predicates are ignored.
func All[T any](predicates ...Predicate[T]) Predicate[T] {
	return func(v T) bool {
		for _, predicate := range predicates {
			if predicate != nil && !predicate(v) {
				return false
			}
		}
		return true
	}
}
