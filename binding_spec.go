package objgraph

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/a-peyrard/objgraph/option"
	"github.com/a-peyrard/objgraph/set"
	"github.com/a-peyrard/objgraph/str"
	"github.com/rs/zerolog"
)

const providerMethodPrefix = "Provide"

type (
	// BindingSpec is a unit of binding declarations. It must be comparable (typically a
	// pointer) and implement at least one of Configurer, ProviderSpec or DependentSpec.
	BindingSpec = any

	// Configurer declares bindings imperatively.
	Configurer interface {
		Configure(b *Binder) error
	}

	// ProviderSpec declares provider functions, see Provides.
	ProviderSpec interface {
		Providers() []*ProviderMethod
	}

	// DependentSpec pulls other binding specs in. A spec reachable through several
	// paths is processed once.
	DependentSpec interface {
		Dependencies() []BindingSpec
	}

	// ProviderMethod is a function producing the value of a binding, its params being
	// injected like the ones of a class constructor.
	ProviderMethod struct {
		fn       *callable
		key      BindingKey
		scopeID  ScopeID
		location string
		err      error
	}

	// Binder is handed to Configurer specs to declare their bindings.
	Binder struct {
		scopes   Scopes
		bindings []*Binding
		required []RequiredBinding
		errs     []error
	}

	specAssembly struct {
		bindings []*Binding
		required []RequiredBinding
		specs    int
	}
)

// Provides declares fn as the provider of a binding. The binding name is derived from
// the func name, ProvideFooBar provides "foo_bar", unless Named is given. It reads the
// Named, Annotated, InScope, Args, WithDefault, Direct and AnnotateArg options:
//
//	objgraph.Provides(s.ProvideEngine, objgraph.Args("cylinders"), objgraph.InScope(objgraph.Prototype))
func Provides(fn any, opts ...option.Option[Declaration]) *ProviderMethod {
	location := callerLocation(1)
	decl := option.New(opts...)
	name := funcName(fn)

	pm := &ProviderMethod{location: location, scopeID: decl.scopeID}
	if pm.scopeID == "" {
		pm.scopeID = DefaultScope
	}

	c, err := newCallable(fn, name, decl)
	if err != nil {
		pm.err = fmt.Errorf("invalid provider declared at %s:\n\t%w", location, err)
		return pm
	}
	pm.fn = c

	bindingName := decl.named
	if bindingName == "" {
		bindingName = providedName(name)
	}
	if bindingName == "" {
		pm.err = &MissingProviderKeyError{Callable: name, Location: location}
		return pm
	}
	pm.key = NewBindingKey(bindingName, decl.annotation)

	return pm
}

// providedName derives "foo_bar" from pkg.(*Spec).ProvideFooBar-fm.
func providedName(funcName string) string {
	name := funcName[strings.LastIndexByte(funcName, '.')+1:]
	name = strings.TrimSuffix(name, "-fm")
	if !strings.HasPrefix(name, providerMethodPrefix) || len(name) == len(providerMethodPrefix) {
		return ""
	}
	return str.ToSnakeCase(strings.TrimPrefix(name, providerMethodPrefix))
}

func (pm *ProviderMethod) Key() BindingKey {
	return pm.key
}

func (pm *ProviderMethod) Location() string {
	return pm.location
}

// Bind binds key to a class or an instance. It reads the ToClass, ToInstance and
// InScope options, the scope defaulting to DefaultScope:
//
//	b.Bind(objgraph.Key("cylinders"), objgraph.ToInstance(4))
func (b *Binder) Bind(key BindingKey, opts ...option.Option[Declaration]) error {
	err := b.bind(key, callerLocation(1), opts...)
	if err != nil {
		b.errs = append(b.errs, err)
	}
	return err
}

func (b *Binder) bind(key BindingKey, location string, opts ...option.Option[Declaration]) error {
	decl := option.New(opts...)

	scopeID := decl.scopeID
	if scopeID == "" {
		scopeID = DefaultScope
	}
	if !b.scopes.has(scopeID) {
		return &UnknownScopeError{ScopeID: scopeID, Location: location}
	}

	switch {
	case decl.hasClass && decl.hasInstance:
		return &MultipleBindingTargetArgsError{Key: key, Location: location}
	case decl.hasInstance:
		b.bindings = append(b.bindings, newInstanceBinding(key, decl.toInstance, scopeID, location))
	case decl.hasClass:
		cls, err := asClass(decl.toClass, location)
		if err != nil {
			return &InvalidBindingTargetError{Key: key, Target: decl.toClass, Location: location}
		}
		b.bindings = append(b.bindings, newClassBinding(key, cls, scopeID, location))
	default:
		return &NoBindingTargetArgsError{Key: key, Location: location}
	}

	return nil
}

// Require asserts that key is bound, by this spec or any other one.
func (b *Binder) Require(key BindingKey) {
	b.required = append(b.required, RequiredBinding{key: key, location: callerLocation(1)})
}

func asClass(target any, location string) (*Class, error) {
	if cls, ok := target.(*Class); ok && cls != nil {
		return cls, nil
	}
	val := reflect.ValueOf(target)
	if !val.IsValid() || val.Kind() != reflect.Func || val.Type().NumIn() != 0 {
		return nil, fmt.Errorf("%T is neither a class nor a constructor without args", target)
	}
	return newClass(target, location)
}

// assembleSpecs walks the binding specs and their dependencies and collects the
// explicit bindings and the required ones.
func assembleSpecs(roots []BindingSpec, scopes Scopes, logger zerolog.Logger) (*specAssembly, error) {
	assembly := &specAssembly{}
	seen := set.New[BindingSpec]()
	queue := append([]BindingSpec{}, roots...)

	for len(queue) > 0 {
		spec := queue[0]
		queue = queue[1:]

		if spec == nil {
			return nil, &InvalidBindingSpecError{Spec: "<nil>", Reason: "binding spec cannot be nil"}
		}
		specName := fmt.Sprintf("%T", spec)
		if !reflect.TypeOf(spec).Comparable() {
			return nil, &InvalidBindingSpecError{Spec: specName, Reason: "binding spec must be comparable, use a pointer"}
		}
		if !seen.Add(spec) {
			continue
		}
		assembly.specs++

		handled := false
		if configurer, ok := spec.(Configurer); ok {
			handled = true
			if err := assembly.configure(configurer, specName, scopes); err != nil {
				return nil, err
			}
		}
		if providerSpec, ok := spec.(ProviderSpec); ok {
			handled = true
			if err := assembly.addProviders(providerSpec.Providers(), specName, scopes); err != nil {
				return nil, err
			}
		}
		if dependent, ok := spec.(DependentSpec); ok {
			handled = true
			queue = append(queue, dependent.Dependencies()...)
		}
		if !handled {
			return nil, &EmptyBindingSpecError{Spec: specName}
		}

		logger.Trace().Str("spec", specName).Msg("binding spec processed")
	}

	return assembly, nil
}

func (a *specAssembly) configure(configurer Configurer, specName string, scopes Scopes) error {
	binder := &Binder{scopes: scopes}
	if err := configurer.Configure(binder); err != nil {
		return fmt.Errorf("failed to configure binding spec %s:\n\t%w", specName, err)
	}
	if len(binder.errs) > 0 {
		return fmt.Errorf("invalid bindings in binding spec %s:\n\t%w", specName, errors.Join(binder.errs...))
	}
	a.bindings = append(a.bindings, binder.bindings...)
	a.required = append(a.required, binder.required...)
	return nil
}

func (a *specAssembly) addProviders(providers []*ProviderMethod, specName string, scopes Scopes) error {
	for _, pm := range providers {
		if pm == nil {
			return &InvalidBindingSpecError{Spec: specName, Reason: "nil provider method"}
		}
		if pm.err != nil {
			return fmt.Errorf("invalid provider in binding spec %s:\n\t%w", specName, pm.err)
		}
		if !scopes.has(pm.scopeID) {
			return &UnknownScopeError{ScopeID: pm.scopeID, Location: pm.location}
		}
		a.bindings = append(a.bindings, newProviderBinding(pm))
	}
	return nil
}
