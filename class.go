package objgraph

import (
	"fmt"
	"path/filepath"
	"reflect"
	"runtime"
	"strings"

	"github.com/a-peyrard/objgraph/option"
	"github.com/a-peyrard/objgraph/set"
	"github.com/a-peyrard/objgraph/str"
)

type (
	// Class is an injectable type: the constructor building it plus the names of the
	// constructor params, which are the binding names they are resolved with.
	Class struct {
		typ        reflect.Type
		name       string
		ctor       *callable
		injectable bool
		location   string
	}

	callable struct {
		name     string
		fn       reflect.Value
		typ      reflect.Type
		args     []string
		argKeys  []ArgBindingKey
		defaults map[string]any
		direct   *set.Set[string]
	}
)

// NewClass describes the class built by ctor, a func returning either the instance or
// the instance and an error. It reads the Args, WithDefault, Direct, AnnotateArg,
// Injectable and Named options:
//
//	objgraph.NewClass(NewCar, objgraph.Args("engine", "provide_wheel"))
func NewClass(ctor any, opts ...option.Option[Declaration]) (*Class, error) {
	return newClass(ctor, callerLocation(1), opts...)
}

// MustClass is NewClass panicking on error, handy for package level declarations.
func MustClass(ctor any, opts ...option.Option[Declaration]) *Class {
	cls, err := newClass(ctor, callerLocation(1), opts...)
	if err != nil {
		panic(fmt.Sprintf("objgraph: invalid class:\n\t%v", err))
	}
	return cls
}

func newClass(ctor any, location string, opts ...option.Option[Declaration]) (*Class, error) {
	decl := option.New(opts...)

	c, err := newCallable(ctor, funcName(ctor), decl)
	if err != nil {
		return nil, fmt.Errorf("failed to create class from %T at %s:\n\t%w", ctor, location, err)
	}

	typ := c.typ.Out(0)
	name := decl.named
	if name == "" {
		name = className(typ)
	}
	if name == "" {
		return nil, &InvalidCallableError{
			Callable: c.name,
			Reason:   fmt.Sprintf("it builds the unnamed type %s, name the class with Named", typ),
		}
	}

	return &Class{
		typ:        typ,
		name:       name,
		ctor:       c,
		injectable: decl.injectable,
		location:   location,
	}, nil
}

func (c *Class) Name() string {
	return c.name
}

// Type is the type built by the class constructor.
func (c *Class) Type() reflect.Type {
	return c.typ
}

func (c *Class) Location() string {
	return c.location
}

func (c *Class) IsInjectable() bool {
	return c.injectable
}

// ArgName is the name the class is implicitly bound to: its snake cased name, without
// leading underscores. Car and _Car are both bound to "car".
func (c *Class) ArgName() string {
	return str.ToSnakeCase(strings.TrimLeft(c.name, "_"))
}

func (c *Class) String() string {
	return c.name
}

func className(typ reflect.Type) string {
	for typ.Kind() == reflect.Pointer {
		typ = typ.Elem()
	}
	name := typ.Name()
	if idx := strings.IndexByte(name, '['); idx >= 0 {
		name = name[:idx]
	}
	return name
}

func funcName(fn any) string {
	val := reflect.ValueOf(fn)
	if !val.IsValid() || val.Kind() != reflect.Func || val.IsNil() {
		return fmt.Sprintf("%T", fn)
	}
	if f := runtime.FuncForPC(val.Pointer()); f != nil {
		return filepath.Base(f.Name())
	}
	return val.Type().String()
}

func newCallable(fn any, name string, decl *Declaration) (*callable, error) {
	invalid := func(format string, args ...any) error {
		return &InvalidCallableError{Callable: name, Reason: fmt.Sprintf(format, args...)}
	}

	val := reflect.ValueOf(fn)
	if !val.IsValid() || val.Kind() != reflect.Func || val.IsNil() {
		return nil, invalid("expected a function")
	}
	typ := val.Type()
	if typ.IsVariadic() {
		return nil, invalid("variadic functions are not supported")
	}
	if typ.NumOut() != 1 && typ.NumOut() != 2 {
		return nil, invalid("it must either return the instance and an error, or just the instance")
	}
	if typ.NumOut() == 2 && typ.Out(1) != ErrorType {
		return nil, invalid("if it returns two elements, the second one must be an error")
	}
	if len(decl.args) != typ.NumIn() {
		return nil, invalid("%d args named for %d parameters", len(decl.args), typ.NumIn())
	}

	argSet := set.New[string]()
	for _, arg := range decl.args {
		if !argSet.Add(arg) {
			return nil, invalid("arg %q is named twice", arg)
		}
	}
	for arg := range decl.defaults {
		if !argSet.Contains(arg) {
			return nil, invalid("default value given for unknown arg %q", arg)
		}
	}
	for _, arg := range decl.direct {
		if !argSet.Contains(arg) {
			return nil, invalid("unknown arg %q marked as passed directly", arg)
		}
	}

	annotations := make(map[string]Annotation, len(decl.argAnnotations))
	annotated := make([]ArgBindingKey, 0, len(decl.argAnnotations))
	for _, key := range decl.argAnnotations {
		if !argSet.Contains(key.argName) {
			return nil, &NoSuchArgToAnnotateError{Callable: name, Arg: key.argName}
		}
		if key.ConflictsWith(annotated) {
			return nil, &ConflictingArgAnnotationError{Callable: name, Arg: key.argName}
		}
		annotated = append(annotated, key)
		annotations[key.argName] = key.bindingKey.annotation
	}

	c := &callable{
		name:     name,
		fn:       val,
		typ:      typ,
		args:     decl.args,
		argKeys:  make([]ArgBindingKey, len(decl.args)),
		defaults: decl.defaults,
		direct:   set.NewWithValues(decl.direct...),
	}
	for i, arg := range decl.args {
		key := NewArgBindingKey(arg, annotations[arg])
		paramType := typ.In(i)
		if paramType.Implements(deferredType) {
			key = key.withIndirection(IndirectValue)
		}
		if key.indirection == IndirectValue && c.isInjected(arg) && !isProviderFunc(paramType) {
			return nil, invalid("arg %q is provided indirectly, its type must be func() (T, error) or func(Kwargs) (T, error), got %s", arg, paramType)
		}
		c.argKeys[i] = key
	}

	return c, nil
}

func (c *callable) isInjected(arg string) bool {
	if _, found := c.defaults[arg]; found {
		return false
	}
	return !c.direct.Contains(arg)
}

func (c *callable) hasArg(arg string) bool {
	for _, a := range c.args {
		if a == arg {
			return true
		}
	}
	return false
}

func (c *callable) call(in []reflect.Value) (result any, err error) {
	// panic recovery, as `Call` can panic if the constructor panics
	defer func() {
		if r := recover(); r != nil {
			result, err = nil, &ProducerPanicError{Callable: c.name, Recovered: r}
		}
	}()

	results := c.fn.Call(in)
	if len(results) == 2 && !results[1].IsNil() {
		return nil, fmt.Errorf("%s failed:\n\t%w", c.name, results[1].Interface().(error))
	}
	return results[0].Interface(), nil
}

func isProviderFunc(typ reflect.Type) bool {
	if typ.Kind() != reflect.Func || typ.IsVariadic() {
		return false
	}
	if typ.NumOut() != 2 || typ.Out(1) != ErrorType {
		return false
	}
	return typ.NumIn() == 0 || (typ.NumIn() == 1 && typ.In(0) == KwargsType)
}
