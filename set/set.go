// Package set provides a set keeping its values in insertion order, so that what is
// deduplicated through it is still processed deterministically.
package set

type Set[T comparable] struct {
	index  map[T]int
	values []T
}

func New[T comparable]() *Set[T] {
	return &Set[T]{index: make(map[T]int)}
}

// NewWithValues creates a set holding values, duplicates dropped.
func NewWithValues[T comparable](values ...T) *Set[T] {
	s := &Set[T]{index: make(map[T]int, len(values))}
	for _, v := range values {
		s.Add(v)
	}
	return s
}

// Add inserts value, reporting false if it was already there.
func (s *Set[T]) Add(value T) bool {
	if _, found := s.index[value]; found {
		return false
	}
	s.index[value] = len(s.values)
	s.values = append(s.values, value)
	return true
}

func (s *Set[T]) Contains(value T) bool {
	_, found := s.index[value]
	return found
}

func (s *Set[T]) Size() int {
	return len(s.values)
}

// Values returns a copy of the values, in insertion order.
func (s *Set[T]) Values() []T {
	values := make([]T, len(s.values))
	copy(values, s.values)
	return values
}
