package objgraph

import (
	"errors"
	"sort"
	"sync/atomic"

	"github.com/a-peyrard/objgraph/option"
)

type (
	Engine struct {
		Cylinders int
	}

	Car struct {
		Engine *Engine
	}

	Wheel struct {
		Position string
		Engine   *Engine
	}

	Garage struct {
		provideCar Provider[*Car]
	}

	Fleet struct {
		Engines       []*Engine
		provideEngine Provider[*Engine]
	}

	Closeable struct {
		closed atomic.Bool
		err    error
	}

	A struct{}
	B struct{}
	C struct{}

	Foo  struct{}
	_Foo struct{}
	Bar  struct {
		Foo *Foo
	}

	// specFunc is a binding spec configured by a func.
	specFunc struct {
		configure func(b *Binder) error
	}

	// instancesSpec binds each name to its instance.
	instancesSpec struct {
		instances map[string]any
		scopeID   ScopeID
	}

	engineProviders struct {
		cylinders int
	}
)

func NewEngine(cylinders int) *Engine {
	return &Engine{Cylinders: cylinders}
}

func NewCar(engine *Engine) *Car {
	return &Car{Engine: engine}
}

func NewWheel(position string, engine *Engine) *Wheel {
	return &Wheel{Position: position, Engine: engine}
}

func NewGarage(provideCar Provider[*Car]) *Garage {
	return &Garage{provideCar: provideCar}
}

func NewFailingEngine() (*Engine, error) {
	return nil, errors.New("engine intentionally failed")
}

func NewA(*B) *A {
	return &A{}
}

func NewB(*C) *B {
	return &B{}
}

func NewC(*A) *C {
	return &C{}
}

func NewFoo() *Foo {
	return &Foo{}
}

func New_Foo() *_Foo {
	return &_Foo{}
}

func NewBar(foo *Foo) *Bar {
	return &Bar{Foo: foo}
}

func (c *Closeable) Close() error {
	c.closed.Store(true)
	return c.err
}

func engineClass() *Class {
	return MustClass(NewEngine, Args("cylinders"))
}

func carClass() *Class {
	return MustClass(NewCar, Args("engine"))
}

func (s *specFunc) Configure(b *Binder) error {
	return s.configure(b)
}

func bindInstances(instances map[string]any) *instancesSpec {
	return &instancesSpec{instances: instances}
}

func (s *instancesSpec) Configure(b *Binder) error {
	names := make([]string, 0, len(s.instances))
	for name := range s.instances {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		opts := []option.Option[Declaration]{ToInstance(s.instances[name])}
		if s.scopeID != "" {
			opts = append(opts, InScope(s.scopeID))
		}
		if err := b.Bind(Key(name), opts...); err != nil {
			return err
		}
	}
	return nil
}

func (s *engineProviders) Providers() []*ProviderMethod {
	return []*ProviderMethod{
		Provides(s.ProvideCylinders),
		Provides(s.ProvideEngine, Args("cylinders"), InScope(Prototype)),
	}
}

func (s *engineProviders) ProvideCylinders() int {
	return s.cylinders
}

func (s *engineProviders) ProvideEngine(cylinders int) (*Engine, error) {
	return &Engine{Cylinders: cylinders}, nil
}
