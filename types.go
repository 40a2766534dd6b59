package objgraph

import (
	"reflect"
)

var (
	ErrorType  = TypeOf[error]()
	KwargsType = TypeOf[Kwargs]()

	deferredType = TypeOf[deferred]()
)

// TypeOf returns the reflect.Type of I, interfaces included.
func TypeOf[I any]() reflect.Type {
	var i I
	t := reflect.TypeOf(i)
	if t == nil {
		t = reflect.TypeOf((*I)(nil)).Elem()
	}
	return t
}
