package objgraph

import (
	"github.com/a-peyrard/objgraph/option"
)

// Declaration gathers the options of NewClass, Provides and Binder.Bind. Each of them
// documents the options it reads, the others are ignored.
type Declaration struct {
	named          string
	annotation     Annotation
	scopeID        ScopeID
	args           []string
	defaults       map[string]any
	direct         []string
	argAnnotations []ArgBindingKey
	injectable     bool

	toClass     any
	hasClass    bool
	toInstance  any
	hasInstance bool
}

// Named overrides the class name of NewClass, or the binding name of Provides.
func Named(name string) option.Option[Declaration] {
	return func(d *Declaration) {
		d.named = name
	}
}

// Annotated annotates the binding declared by Provides.
func Annotated(v any) option.Option[Declaration] {
	annotation := NewAnnotation(v)
	return func(d *Declaration) {
		d.annotation = annotation
	}
}

// InScope sets the scope of the binding declared by Provides or Bind.
func InScope(id ScopeID) option.Option[Declaration] {
	return func(d *Declaration) {
		d.scopeID = id
	}
}

// Args names the parameters of a constructor or provider function, in order.
func Args(names ...string) option.Option[Declaration] {
	return func(d *Declaration) {
		d.args = append(d.args, names...)
	}
}

// WithDefault gives a default value to an arg, which is then never injected.
func WithDefault(arg string, value any) option.Option[Declaration] {
	return func(d *Declaration) {
		if d.defaults == nil {
			d.defaults = make(map[string]any)
		}
		d.defaults[arg] = value
	}
}

// Direct marks args that are not injected but passed directly through a
// ProviderWithArgs function.
func Direct(args ...string) option.Option[Declaration] {
	return func(d *Declaration) {
		d.direct = append(d.direct, args...)
	}
}

// AnnotateArg resolves arg with the binding annotated with v.
func AnnotateArg(arg string, v any) option.Option[Declaration] {
	key := NewArgBindingKey(arg, NewAnnotation(v))
	return func(d *Declaration) {
		d.argAnnotations = append(d.argAnnotations, key)
	}
}

// Injectable opts a class in for object graphs using only explicit bindings.
func Injectable() option.Option[Declaration] {
	return func(d *Declaration) {
		d.injectable = true
	}
}

// ToClass binds to a *Class, or to a constructor without args.
func ToClass(target any) option.Option[Declaration] {
	return func(d *Declaration) {
		d.toClass = target
		d.hasClass = true
	}
}

// ToInstance binds to an already built value, nil included.
func ToInstance(instance any) option.Option[Declaration] {
	return func(d *Declaration) {
		d.toInstance = instance
		d.hasInstance = true
	}
}
