package objgraph

import (
	"fmt"
	"strconv"
	"strings"
)

// ProvidePrefix marks an arg as requesting a provider function instead of a value:
// "provide_engine" receives a func producing the "engine" binding.
const ProvidePrefix = "provide_"

type (
	// BindingKey identifies something that can be bound and resolved.
	BindingKey struct {
		name       string
		annotation Annotation
	}

	// Indirection tells whether an arg wants the value or a function producing it.
	Indirection int

	// ArgBindingKey ties a parameter of a constructor to the binding key resolving it.
	ArgBindingKey struct {
		argName     string
		bindingKey  BindingKey
		indirection Indirection
	}
)

// DirectValue args receive the bound value, IndirectValue args a function producing it.
const (
	DirectValue Indirection = iota
	IndirectValue
)

func NewBindingKey(name string, annotation Annotation) BindingKey {
	return BindingKey{name: name, annotation: annotation}
}

// Key is an unannotated binding key.
func Key(name string) BindingKey {
	return BindingKey{name: name}
}

// AnnotatedKey is a binding key annotated with v, see NewAnnotation.
func AnnotatedKey(name string, v any) BindingKey {
	return BindingKey{name: name, annotation: NewAnnotation(v)}
}

func (k BindingKey) Name() string {
	return k.name
}

func (k BindingKey) Annotation() Annotation {
	return k.annotation
}

func (k BindingKey) String() string {
	if !k.annotation.IsAnnotated() {
		return "the binding name " + strconv.Quote(k.name) + " (unannotated)"
	}
	return fmt.Sprintf("the binding name %q (%s)", k.name, k.annotation)
}

func (i Indirection) String() string {
	if i == IndirectValue {
		return "indirect"
	}
	return "direct"
}

// NewArgBindingKey builds the key of an arg, an arg named with ProvidePrefix is
// resolved indirectly against the name without the prefix.
func NewArgBindingKey(argName string, annotation Annotation) ArgBindingKey {
	name, indirection := argName, DirectValue
	if strings.HasPrefix(argName, ProvidePrefix) && len(argName) > len(ProvidePrefix) {
		name, indirection = strings.TrimPrefix(argName, ProvidePrefix), IndirectValue
	}
	return ArgBindingKey{
		argName:     argName,
		bindingKey:  NewBindingKey(name, annotation),
		indirection: indirection,
	}
}

func (k ArgBindingKey) ArgName() string {
	return k.argName
}

func (k ArgBindingKey) BindingKey() BindingKey {
	return k.bindingKey
}

func (k ArgBindingKey) Indirection() Indirection {
	return k.indirection
}

// ConflictsWith reports whether one of the others targets the same arg, whatever
// its annotation: an arg cannot be annotated twice.
func (k ArgBindingKey) ConflictsWith(others []ArgBindingKey) bool {
	for _, other := range others {
		if other.argName == k.argName {
			return true
		}
	}
	return false
}

func (k ArgBindingKey) withIndirection(indirection Indirection) ArgBindingKey {
	k.indirection = indirection
	return k
}

func (k ArgBindingKey) String() string {
	return fmt.Sprintf("the arg named %q %s", k.argName, k.bindingKey.annotation)
}
