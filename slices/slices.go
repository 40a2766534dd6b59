package slices

import (
	"sort"

	"github.com/a-peyrard/objgraph/fn"
)

// Filter returns a new slice containing only the elements for which the predicate function returns true.
func Filter[T any](slice []T, predicate func(T) bool) []T {
	var result []T
	for _, item := range slice {
		if predicate(item) {
			result = append(result, item)
		}
	}
	return result
}

// Map transforms every element of a slice with the given mapper.
func Map[F any, T any](original []F, mapper func(F) T) []T {
	destination := make([]T, len(original))
	for i, item := range original {
		destination[i] = mapper(item)
	}
	return destination
}

// Sorted returns a sorted copy of the slice, the original is left untouched.
func Sorted[T any](original []T, comparator fn.Comparator[T]) []T {
	sorted := make([]T, len(original))
	copy(sorted, original)
	sort.SliceStable(sorted, func(i, j int) bool {
		return comparator(sorted[i], sorted[j]) == fn.Less
	})
	return sorted
}
