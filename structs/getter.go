package structs

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/a-peyrard/objgraph/reflectutils"
)

// Get retrieves the value for the specified field from the provided struct.
// Supports nested access using dot notation (e.g., "Engine.Cylinders").
// Supports both struct fields and map keys.
func Get(origin any, field string) (any, error) {
	if origin == nil {
		return nil, fmt.Errorf("cannot get field %s from nil origin", field)
	}
	if field == "" {
		return nil, fmt.Errorf("field path cannot be empty")
	}

	current := origin
	for i, token := range strings.Split(field, ".") {
		if token == "" {
			return nil, fmt.Errorf("empty token at position %d in field path %s", i, field)
		}

		next, err := step(reflectutils.Deref(reflect.ValueOf(current)), token)
		if err != nil {
			return nil, fmt.Errorf("cannot resolve token %s (position %d) in field path %s:\n\t%w", token, i, field, err)
		}
		current = next
	}

	return current, nil
}

func step(valueOf reflect.Value, token string) (any, error) {
	if !valueOf.IsValid() {
		return nil, fmt.Errorf("encountered nil value")
	}

	switch valueOf.Kind() {
	case reflect.Map:
		mapValue := valueOf.MapIndex(reflect.ValueOf(token))
		if !mapValue.IsValid() {
			return nil, fmt.Errorf("key %s not found in map", token)
		}
		return mapValue.Interface(), nil

	case reflect.Struct:
		fieldValue := valueOf.FieldByName(token)
		if !fieldValue.IsValid() {
			return nil, fmt.Errorf("field %s not found in struct %s", token, valueOf.Type().Name())
		}
		if !fieldValue.CanInterface() {
			return nil, fmt.Errorf("field %s in struct %s is not exported", token, valueOf.Type().Name())
		}
		return fieldValue.Interface(), nil

	default:
		return nil, fmt.Errorf("expected struct or map but got %s", valueOf.Kind())
	}
}
