package objgraph

import (
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"

	"github.com/a-peyrard/objgraph/fn"
	"github.com/a-peyrard/objgraph/option"
	"github.com/a-peyrard/objgraph/set"
	"github.com/a-peyrard/objgraph/slices"
	"github.com/rs/zerolog"
)

type (
	// Module groups the classes of a package, to discover them all at once.
	Module interface {
		Classes() []*Class
	}

	// Options of New.
	Options struct {
		classes      []*Class
		modules      []Module
		specs        []BindingSpec
		onlyExplicit bool
		allowNil     bool
		scopes       map[ScopeID]Scope
		usable       ScopeCompatibility
		verbose      bool
		logger       zerolog.Logger
	}

	// ObjectGraph builds objects, injecting their dependencies from its bindings. It is
	// safe for concurrent use.
	ObjectGraph struct {
		classes      []*Class
		mapping      *BindingMapping
		scopes       Scopes
		provider     *ObjectProvider
		contexts     injectionContextFactory
		onlyExplicit bool
		verbose      bool
		logger       zerolog.Logger
	}
)

func WithClasses(classes ...*Class) option.Option[Options] {
	return func(o *Options) {
		o.classes = append(o.classes, classes...)
	}
}

func WithModules(modules ...Module) option.Option[Options] {
	return func(o *Options) {
		o.modules = append(o.modules, modules...)
	}
}

func WithBindingSpecs(specs ...BindingSpec) option.Option[Options] {
	return func(o *Options) {
		o.specs = append(o.specs, specs...)
	}
}

// OnlyExplicitBindings restricts implicit bindings, and top-level provides, to the
// classes declared Injectable.
func OnlyExplicitBindings() option.Option[Options] {
	return func(o *Options) {
		o.onlyExplicit = true
	}
}

// AllowInjectingNil lets bindings produce nil values.
func AllowInjectingNil() option.Option[Options] {
	return func(o *Options) {
		o.allowNil = true
	}
}

// WithScopes registers custom scopes, next to Prototype and Singleton.
func WithScopes(scopes map[ScopeID]Scope) option.Option[Options] {
	return func(o *Options) {
		if o.scopes == nil {
			o.scopes = make(map[ScopeID]Scope, len(scopes))
		}
		for id, scope := range scopes {
			o.scopes[id] = scope
		}
	}
}

func WithScopeCompatibility(usable ScopeCompatibility) option.Option[Options] {
	return func(o *Options) {
		o.usable = usable
	}
}

// WithVerboseErrors makes Provide return the whole chain of errors, with the injection
// path, instead of the innermost relevant one.
func WithVerboseErrors() option.Option[Options] {
	return func(o *Options) {
		o.verbose = true
	}
}

func WithLogger(logger zerolog.Logger) option.Option[Options] {
	return func(o *Options) {
		o.logger = logger
	}
}

// WithSettings applies settings loaded with LoadSettings.
func WithSettings(settings Settings) option.Option[Options] {
	return func(o *Options) {
		o.onlyExplicit = o.onlyExplicit || settings.OnlyExplicitBindings
		o.allowNil = o.allowNil || settings.AllowInjectingNil
		o.verbose = o.verbose || settings.VerboseErrors
	}
}

// New assembles an object graph: implicit bindings of the classes, explicit bindings
// of the binding specs, and the check of the required bindings.
func New(opts ...option.Option[Options]) (*ObjectGraph, error) {
	options := option.Build(&Options{logger: zerolog.Nop()}, opts...)
	logger := options.logger.With().Str("component", "objgraph").Logger()

	scopes, err := newScopes(options.scopes)
	if err != nil {
		return nil, err
	}

	classes, err := discoverClasses(options.classes, options.modules)
	if err != nil {
		return nil, err
	}

	var implicit []*Binding
	for _, cls := range classes {
		if options.onlyExplicit && !cls.injectable {
			continue
		}
		implicit = append(implicit, newClassBinding(Key(cls.ArgName()), cls, DefaultScope, cls.location))
	}

	assembly, err := assembleSpecs(options.specs, scopes, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to assemble binding specs:\n\t%w", err)
	}

	mapping, err := mergeLayers(implicit, assembly.bindings)
	if err != nil {
		return nil, err
	}
	if err := verifyRequired(assembly.required, mapping); err != nil {
		return nil, err
	}

	logger.Debug().
		Int("classes", len(classes)).
		Int("specs", assembly.specs).
		Int("implicit", len(implicit)).
		Int("explicit", len(assembly.bindings)).
		Int("ambiguous", len(mapping.ambiguous)).
		Msg("object graph assembled")
	for key, colliding := range mapping.ambiguous {
		logger.Debug().
			Str("key", key.String()).
			Strs("candidates", slices.Map(colliding, (*Binding).Location)).
			Msg("ambiguous binding key")
	}

	return &ObjectGraph{
		classes:      classes,
		mapping:      mapping,
		scopes:       scopes,
		provider:     newObjectProvider(mapping, scopes, options.allowNil, logger),
		contexts:     newInjectionContextFactory(options.usable),
		onlyExplicit: options.onlyExplicit,
		verbose:      options.verbose,
		logger:       logger,
	}, nil
}

// MustNew is New panicking on error.
func MustNew(opts ...option.Option[Options]) *ObjectGraph {
	graph, err := New(opts...)
	if err != nil {
		panic(fmt.Sprintf("objgraph: cannot create object graph:\n\t%v", err))
	}
	return graph
}

func discoverClasses(classes []*Class, modules []Module) ([]*Class, error) {
	for _, module := range modules {
		if module == nil {
			return nil, errors.New("nil module")
		}
		classes = append(classes, module.Classes()...)
	}

	discovered := set.New[*Class]()
	for _, cls := range classes {
		if cls == nil {
			return nil, errors.New("nil class")
		}
		discovered.Add(cls)
	}
	return discovered.Values(), nil
}

// Provide builds a new instance of target, a *Class or the reflect.Type of a
// discovered class. Its dependencies are injected according to their scopes, the
// instance itself is never cached.
func (g *ObjectGraph) Provide(target any) (any, error) {
	cls, err := g.classOf(target)
	if err != nil {
		return nil, err
	}
	if g.onlyExplicit && !cls.injectable {
		return nil, &NonExplicitlyBoundClassError{Class: cls}
	}

	ictx := g.contexts.new(cls.name)

	g.logger.Trace().Str("class", cls.name).Msg("providing")
	value, err := g.provider.provideClass(cls, ictx, nil)
	if err != nil {
		return nil, g.report(fmt.Sprintf("failed to provide %s", cls), err)
	}
	return value, nil
}

func (g *ObjectGraph) classOf(target any) (*Class, error) {
	switch t := target.(type) {
	case *Class:
		if t == nil {
			return nil, &NotAClassError{Target: target}
		}
		return t, nil
	case reflect.Type:
		if t == nil {
			return nil, &NotAClassError{Target: target}
		}
		candidates := slices.Filter(g.classes, func(cls *Class) bool {
			return cls.typ == t
		})
		switch len(candidates) {
		case 0:
			return nil, &UnknownClassError{Type: t}
		case 1:
			return candidates[0], nil
		default:
			return nil, &AmbiguousClassError{Type: t, Classes: candidates}
		}
	default:
		return nil, &NotAClassError{Target: target}
	}
}

// provideKey returns the value bound to key, going through its scope.
func (g *ObjectGraph) provideKey(key BindingKey) (any, error) {
	site := "ProvideKey(" + key.name + ")"
	ictx := g.contexts.new(site)

	value, err := g.provider.provideFromBindingKey(site, key, ictx, nil)
	if err != nil {
		return nil, g.report(fmt.Sprintf("failed to provide %s", key), err)
	}
	return value, nil
}

// report shortens err to the first object graph error of its chain, unless the graph
// reports verbose errors.
func (g *ObjectGraph) report(msg string, err error) error {
	if g.verbose {
		return fmt.Errorf("%s:\n\t%w", msg, err)
	}
	var graphErr GraphError
	if errors.As(err, &graphErr) {
		return graphErr
	}
	return err
}

// Describe lists the bindings of the graph, for debugging purpose.
func (g *ObjectGraph) Describe() string {
	var b strings.Builder
	b.WriteString("* Classes:\n")
	for _, cls := range g.classes {
		b.WriteString(fmt.Sprintf("\t- %s (%s) at %s\n", cls, cls.typ, cls.location))
		if len(cls.ctor.args) > 0 {
			b.WriteString(fmt.Sprintf("\t\targs: %s\n", strings.Join(cls.ctor.args, ", ")))
		}
	}
	b.WriteString("* Bindings:\n")
	for _, binding := range g.mapping.Resolved() {
		b.WriteString(fmt.Sprintf("\t- %s\n\t\tscope: %s\n", binding, binding.scopeID))
	}
	if len(g.mapping.ambiguous) > 0 {
		b.WriteString("* Ambiguous:\n")
		ambiguous := g.mapping.Ambiguous()
		keys := make([]BindingKey, 0, len(ambiguous))
		for key := range ambiguous {
			keys = append(keys, key)
		}
		for _, key := range slices.Sorted(keys, fn.ComparingBy(BindingKey.String)) {
			b.WriteString(fmt.Sprintf("\t- %s:%s\n", key, listBindings(ambiguous[key])))
		}
	}
	return b.String()
}

// Close closes the scopes implementing io.Closer, releasing the cached values.
func (g *ObjectGraph) Close() error {
	var closeErrors []error
	for _, id := range sortedScopeIDs(g.scopes) {
		closer, ok := g.scopes[id].(io.Closer)
		if !ok {
			continue
		}
		if err := closer.Close(); err != nil {
			closeErrors = append(closeErrors, fmt.Errorf("failed to close scope %q:\n\t%w", id, err))
		}
	}
	return errors.Join(closeErrors...)
}

// Provide builds a new T, T being the type produced by one of the classes of graph.
func Provide[T any](graph *ObjectGraph) (T, error) {
	value, err := graph.Provide(TypeOf[T]())
	if err != nil {
		var zero T
		return zero, err
	}
	return as[T]("Provide", "", value)
}

// ProvideKey returns the value bound to key, as a T.
func ProvideKey[T any](graph *ObjectGraph, key BindingKey) (T, error) {
	value, err := graph.provideKey(key)
	if err != nil {
		var zero T
		return zero, err
	}
	return as[T]("ProvideKey", key.name, value)
}

func as[T any](site string, arg string, value any) (T, error) {
	var zero T
	val, err := convertValue(site, arg, value, TypeOf[T]())
	if err != nil {
		return zero, err
	}
	typed, _ := val.Interface().(T)
	return typed, nil
}
