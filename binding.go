package objgraph

import (
	"fmt"
	"path/filepath"
	"runtime"
)

type (
	// Kwargs are args passed directly to a constructor, by name.
	Kwargs map[string]any

	// Producer builds the value of a binding, resolving its own dependencies through op.
	Producer func(ictx *InjectionContext, op *ObjectProvider, kwargs Kwargs) (any, error)

	// Binding associates a binding key to the way of producing its value. Bindings are
	// immutable once created.
	Binding struct {
		key      BindingKey
		produce  Producer
		scopeID  ScopeID
		describe func() string
		location string
	}
)

func newBinding(key BindingKey, produce Producer, scopeID ScopeID, describe func() string, location string) *Binding {
	return &Binding{
		key:      key,
		produce:  produce,
		scopeID:  scopeID,
		describe: describe,
		location: location,
	}
}

func newClassBinding(key BindingKey, cls *Class, scopeID ScopeID, location string) *Binding {
	return newBinding(
		key,
		func(ictx *InjectionContext, op *ObjectProvider, kwargs Kwargs) (any, error) {
			return op.provideClass(cls, ictx, kwargs)
		},
		scopeID,
		func() string { return "the class " + cls.String() },
		location,
	)
}

func newInstanceBinding(key BindingKey, instance any, scopeID ScopeID, location string) *Binding {
	return newBinding(
		key,
		func(*InjectionContext, *ObjectProvider, Kwargs) (any, error) {
			return instance, nil
		},
		scopeID,
		func() string { return fmt.Sprintf("the instance %v", instance) },
		location,
	)
}

func newProviderBinding(pm *ProviderMethod) *Binding {
	return newBinding(
		pm.key,
		func(ictx *InjectionContext, op *ObjectProvider, kwargs Kwargs) (any, error) {
			return op.callWithInjection(pm.fn, ictx, kwargs)
		},
		pm.scopeID,
		func() string { return "the provider " + pm.fn.name },
		pm.location,
	)
}

func (b *Binding) Key() BindingKey {
	return b.key
}

func (b *Binding) ScopeID() ScopeID {
	return b.scopeID
}

// Location is the file:line where the binding was declared.
func (b *Binding) Location() string {
	return b.location
}

// Description names what the binding produces from.
func (b *Binding) Description() string {
	return b.describe()
}

func (b *Binding) String() string {
	return fmt.Sprintf("%s bound to %s at %s", b.key, b.describe(), b.location)
}

// callerLocation returns the file:line of the caller skip frames above its own caller.
func callerLocation(skip int) string {
	_, file, line, ok := runtime.Caller(skip + 1)
	if !ok {
		return "unknown location"
	}
	return fmt.Sprintf("%s:%d", filepath.Join(filepath.Base(filepath.Dir(file)), filepath.Base(file)), line)
}
