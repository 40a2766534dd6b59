// Package option contains utility to use the variadic options pattern
package option

// Option represents a function that modifies options of type T.
type Option[T any] func(opts *T)

// Build applies a series of options to the given defaults and returns them.
func Build[T any](defaults *T, opts ...Option[T]) *T {
	for _, opt := range opts {
		if opt != nil {
			opt(defaults)
		}
	}
	return defaults
}

// New applies a series of options on a zero value of T.
func New[T any](opts ...Option[T]) *T {
	return Build(new(T), opts...)
}
