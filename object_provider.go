package objgraph

import (
	"fmt"
	"reflect"
	"sort"

	"github.com/a-peyrard/objgraph/reflectutils"
	"github.com/rs/zerolog"
)

// ObjectProvider runs the resolution steps: binding lookup, scoped production and
// injection of constructor args.
type ObjectProvider struct {
	mapping  *BindingMapping
	scopes   Scopes
	allowNil bool
	logger   zerolog.Logger
}

func newObjectProvider(mapping *BindingMapping, scopes Scopes, allowNil bool, logger zerolog.Logger) *ObjectProvider {
	return &ObjectProvider{
		mapping:  mapping,
		scopes:   scopes,
		allowNil: allowNil,
		logger:   logger,
	}
}

// provideFromBindingKey returns the value bound to key, needed by site.
func (p *ObjectProvider) provideFromBindingKey(site string, key BindingKey, ictx *InjectionContext, kwargs Kwargs) (any, error) {
	binding, scope, err := p.lookup(site, key)
	if err != nil {
		return nil, err
	}
	return p.provideBinding(site, binding, scope, ictx, kwargs)
}

// provideFromArgBindingKey returns the value of a constructor arg of type paramType,
// or a function producing it when the arg is indirect.
func (p *ObjectProvider) provideFromArgBindingKey(site string, argKey ArgBindingKey, paramType reflect.Type, ictx *InjectionContext) (reflect.Value, error) {
	binding, scope, err := p.lookup(site, argKey.bindingKey)
	if err != nil {
		return reflect.Value{}, err
	}

	if argKey.indirection == DirectValue {
		value, err := p.provideBinding(site, binding, scope, ictx, nil)
		if err != nil {
			return reflect.Value{}, err
		}
		return convertValue(site, argKey.argName, value, paramType)
	}

	resultType := paramType.Out(0)
	providerFn := func(in []reflect.Value) []reflect.Value {
		var kwargs Kwargs
		if len(in) == 1 {
			kwargs, _ = in[0].Interface().(Kwargs)
		}
		value, err := p.provideBinding(site, binding, scope, ictx.forProviderCall(), kwargs)
		var result reflect.Value
		if err == nil {
			result, err = convertValue(site, argKey.argName, value, resultType)
		}
		if err != nil {
			return []reflect.Value{reflect.Zero(resultType), reflect.ValueOf(&err).Elem()}
		}
		return []reflect.Value{result, reflect.Zero(ErrorType)}
	}

	return reflect.MakeFunc(paramType, providerFn), nil
}

func (p *ObjectProvider) lookup(site string, key BindingKey) (*Binding, Scope, error) {
	binding, err := p.mapping.Get(key, site)
	if err != nil {
		return nil, nil, err
	}
	scope, found := p.scopes[binding.scopeID]
	if !found {
		return nil, nil, &UnknownScopeError{ScopeID: binding.scopeID, Location: binding.location}
	}
	return binding, scope, nil
}

// provideBinding checks the binding can be traversed from ictx before asking its scope
// for the value, so a cycle is reported rather than waiting on a lock it already holds.
func (p *ObjectProvider) provideBinding(site string, binding *Binding, scope Scope, ictx *InjectionContext, kwargs Kwargs) (any, error) {
	if _, cached := scope.(*SingletonScope); cached && len(kwargs) > 0 {
		return nil, &KwargsForCachedBindingError{Binding: binding, Site: site}
	}

	child, err := ictx.GetChild(site, binding)
	if err != nil {
		return nil, err
	}

	value, err := scope.Provide(ictx, binding.key, func() (any, error) {
		p.logger.Trace().
			Str("binding", binding.key.String()).
			Str("scope", string(binding.scopeID)).
			Str("path", child.Path()).
			Msg("producing")
		return binding.produce(child, p, kwargs)
	})
	if err != nil {
		return nil, err
	}

	if !p.allowNil && reflectutils.IsNil(value) {
		return nil, &InjectingNoneDisallowedError{Binding: binding, Site: site}
	}
	return value, nil
}

// provideClass builds an instance of cls, injecting every arg not passed in kwargs.
func (p *ObjectProvider) provideClass(cls *Class, ictx *InjectionContext, kwargs Kwargs) (any, error) {
	return p.callWithInjection(cls.ctor, ictx, kwargs)
}

// callWithInjection calls c with kwargs, defaults and injected values for the rest
// of its args.
func (p *ObjectProvider) callWithInjection(c *callable, ictx *InjectionContext, kwargs Kwargs) (any, error) {
	var overlapping, unknown, missing []string
	for arg := range kwargs {
		switch {
		case !c.hasArg(arg):
			unknown = append(unknown, arg)
		case c.isInjected(arg):
			overlapping = append(overlapping, arg)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return nil, &UnknownArgError{Callable: c.name, Args: unknown}
	}
	if len(overlapping) > 0 {
		sort.Strings(overlapping)
		return nil, &DirectlyPassingInjectedArgsError{Callable: c.name, Args: overlapping}
	}
	for _, arg := range c.args {
		_, passed := kwargs[arg]
		_, hasDefault := c.defaults[arg]
		if c.direct.Contains(arg) && !passed && !hasDefault {
			missing = append(missing, arg)
		}
	}
	if len(missing) > 0 {
		return nil, &OnlyInstantiableViaProviderFunctionError{Callable: c.name, Args: missing}
	}

	in := make([]reflect.Value, len(c.args))
	for i, arg := range c.args {
		paramType := c.typ.In(i)

		var (
			val reflect.Value
			err error
		)
		if passed, found := kwargs[arg]; found {
			val, err = convertValue(c.name, arg, passed, paramType)
		} else if defaultValue, found := c.defaults[arg]; found {
			val, err = convertValue(c.name, arg, defaultValue, paramType)
		} else {
			val, err = p.provideFromArgBindingKey(c.name, c.argKeys[i], paramType, ictx)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to provide arg %q of %s:\n\t%w", arg, c.name, err)
		}
		in[i] = val
	}

	return c.call(in)
}

func convertValue(site string, arg string, value any, target reflect.Type) (reflect.Value, error) {
	if value == nil {
		if reflectutils.IsNillable(target) {
			return reflect.Zero(target), nil
		}
		return reflect.Value{}, &WrongArgTypeError{Callable: site, Arg: arg, Want: target}
	}

	val := reflect.ValueOf(value)
	if !val.Type().AssignableTo(target) {
		return reflect.Value{}, &WrongArgTypeError{Callable: site, Arg: arg, Want: target, Got: val.Type()}
	}
	if val.Type() != target {
		converted := reflect.New(target).Elem()
		converted.Set(val)
		return converted, nil
	}
	return val, nil
}
