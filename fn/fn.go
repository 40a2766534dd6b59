package fn

import "strings"

// ComparisonResult represents the result of comparing two values.
type ComparisonResult int

const (
	Equal   ComparisonResult = 0
	Less    ComparisonResult = -1
	Greater ComparisonResult = 1
)

// Comparator represents a function that compares two values of type T.
type Comparator[T any] func(i1 T, i2 T) ComparisonResult

// ComparingBy builds a comparator ordering elements by the string extracted with key.
func ComparingBy[T any](key func(T) string) Comparator[T] {
	return func(i1 T, i2 T) ComparisonResult {
		return ComparisonResult(strings.Compare(key(i1), key(i2)))
	}
}

// TriConsumer represents a function that accepts three input arguments and returns no result.
type TriConsumer[A any, B any, C any] func(a A, b B, c C)

// AllTriConsumer creates a tri-consumer that will execute all the given tri-consumers.
func AllTriConsumer[A any, B any, C any](consumers ...TriConsumer[A, B, C]) TriConsumer[A, B, C] {
	return func(a A, b B, c C) {
		for _, consumer := range consumers {
			consumer(a, b, c)
		}
	}
}
