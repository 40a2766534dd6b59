package objgraph

import (
	"fmt"
	"reflect"
	"strconv"
)

// Annotation distinguishes several bindings sharing the same name. The zero value
// is NoAnnotation.
type Annotation struct {
	value any
}

// NoAnnotation marks an unannotated binding.
var NoAnnotation = Annotation{}

// NewAnnotation wraps a discriminator. It panics if v is nil or not comparable, as
// annotations are used as map keys.
func NewAnnotation(v any) Annotation {
	if v == nil {
		panic("objgraph: annotation value cannot be nil, use NoAnnotation")
	}
	if !reflect.TypeOf(v).Comparable() {
		panic(fmt.Sprintf("objgraph: annotation value of type %T is not comparable", v))
	}
	return Annotation{value: v}
}

// IsAnnotated is false only for NoAnnotation.
func (a Annotation) IsAnnotated() bool {
	return a.value != nil
}

// Value returns the wrapped discriminator, nil for NoAnnotation.
func (a Annotation) Value() any {
	return a.value
}

func (a Annotation) String() string {
	if !a.IsAnnotated() {
		return "unannotated"
	}
	if s, ok := a.value.(string); ok {
		return "annotated with " + strconv.Quote(s)
	}
	return fmt.Sprintf("annotated with %v", a.value)
}
