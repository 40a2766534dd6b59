package objgraph

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/a-peyrard/objgraph/fn"
	"github.com/a-peyrard/objgraph/slices"
)

// GraphError is implemented by every error the object graph reports. They are all
// configuration mistakes: retrying without changing the bindings cannot succeed.
type GraphError interface {
	error
	graphError()
}

type marker struct{}

func (marker) graphError() {}

// Configuration-time errors, reported by New.
type (
	ConflictingExplicitBindingsError struct {
		marker
		Bindings []*Binding
	}

	UnknownScopeError struct {
		marker
		ScopeID  ScopeID
		Location string
	}

	OverridingDefaultScopeError struct {
		marker
		ScopeID ScopeID
	}

	EmptyBindingSpecError struct {
		marker
		Spec string
	}

	InvalidBindingSpecError struct {
		marker
		Spec   string
		Reason string
	}

	MissingRequiredBindingError struct {
		marker
		Key      BindingKey
		Location string
	}

	ConflictingRequiredBindingError struct {
		marker
		Key        BindingKey
		Location   string
		Candidates []*Binding
	}

	InvalidBindingTargetError struct {
		marker
		Key      BindingKey
		Target   any
		Location string
	}

	NoBindingTargetArgsError struct {
		marker
		Key      BindingKey
		Location string
	}

	MultipleBindingTargetArgsError struct {
		marker
		Key      BindingKey
		Location string
	}

	ConflictingArgAnnotationError struct {
		marker
		Callable string
		Arg      string
	}

	NoSuchArgToAnnotateError struct {
		marker
		Callable string
		Arg      string
	}

	InvalidCallableError struct {
		marker
		Callable string
		Reason   string
	}

	MissingProviderKeyError struct {
		marker
		Callable string
		Location string
	}
)

// Resolution-time errors, reported while providing an object.
type (
	NothingInjectableForArgError struct {
		marker
		Key  BindingKey
		Site string
	}

	AmbiguousArgNameError struct {
		marker
		Key        BindingKey
		Site       string
		Candidates []*Binding
	}

	// CyclicInjectionError holds the chain of bindings from the first occurrence of
	// the repeated binding to its second occurrence: A -> B -> C -> A.
	CyclicInjectionError struct {
		marker
		Chain []*Binding
	}

	BadDependencyScopeError struct {
		marker
		Binding   *Binding
		FromScope ScopeID
		Site      string
	}

	NonExplicitlyBoundClassError struct {
		marker
		Class *Class
	}

	InjectingNoneDisallowedError struct {
		marker
		Binding *Binding
		Site    string
	}

	DirectlyPassingInjectedArgsError struct {
		marker
		Callable string
		Args     []string
	}

	OnlyInstantiableViaProviderFunctionError struct {
		marker
		Callable string
		Args     []string
	}

	KwargsForCachedBindingError struct {
		marker
		Binding *Binding
		Site    string
	}

	UnknownArgError struct {
		marker
		Callable string
		Args     []string
	}

	WrongArgTypeError struct {
		marker
		Callable string
		Arg      string
		Want     reflect.Type
		Got      reflect.Type
	}

	ProducerPanicError struct {
		marker
		Callable  string
		Recovered any
	}

	NotAClassError struct {
		marker
		Target any
	}

	UnknownClassError struct {
		marker
		Type reflect.Type
	}

	AmbiguousClassError struct {
		marker
		Type    reflect.Type
		Classes []*Class
	}
)

func (e *ConflictingExplicitBindingsError) Error() string {
	return "multiple explicit bindings for the same binding key:" + listBindings(e.Bindings)
}

func (e *UnknownScopeError) Error() string {
	return fmt.Sprintf("unknown scope %q used at %s", e.ScopeID, e.Location)
}

func (e *OverridingDefaultScopeError) Error() string {
	return fmt.Sprintf("cannot override the default scope %q", e.ScopeID)
}

func (e *EmptyBindingSpecError) Error() string {
	return fmt.Sprintf("binding spec %s has no Configure, Providers nor Dependencies method", e.Spec)
}

func (e *InvalidBindingSpecError) Error() string {
	return fmt.Sprintf("invalid binding spec %s: %s", e.Spec, e.Reason)
}

func (e *MissingRequiredBindingError) Error() string {
	return fmt.Sprintf("%s is required at %s but no binding provides it", e.Key, e.Location)
}

func (e *ConflictingRequiredBindingError) Error() string {
	return fmt.Sprintf("%s is required at %s but is bound ambiguously:%s", e.Key, e.Location, listBindings(e.Candidates))
}

func (e *InvalidBindingTargetError) Error() string {
	return fmt.Sprintf("%s at %s cannot be bound to %T, expected a *Class or a constructor without args", e.Key, e.Location, e.Target)
}

func (e *NoBindingTargetArgsError) Error() string {
	return fmt.Sprintf("%s at %s must be bound with ToClass or ToInstance", e.Key, e.Location)
}

func (e *MultipleBindingTargetArgsError) Error() string {
	return fmt.Sprintf("%s at %s must be bound with only one of ToClass or ToInstance", e.Key, e.Location)
}

func (e *ConflictingArgAnnotationError) Error() string {
	return fmt.Sprintf("arg %q of %s is annotated more than once", e.Arg, e.Callable)
}

func (e *NoSuchArgToAnnotateError) Error() string {
	return fmt.Sprintf("cannot annotate unknown arg %q of %s", e.Arg, e.Callable)
}

func (e *InvalidCallableError) Error() string {
	return fmt.Sprintf("invalid constructor %s: %s", e.Callable, e.Reason)
}

func (e *MissingProviderKeyError) Error() string {
	return fmt.Sprintf("cannot derive the binding name of provider %s at %s, name it ProvideXxx or use Named", e.Callable, e.Location)
}

func (e *NothingInjectableForArgError) Error() string {
	return fmt.Sprintf("nothing injectable for %s, needed by %s", e.Key, e.Site)
}

func (e *AmbiguousArgNameError) Error() string {
	return fmt.Sprintf("%s, needed by %s, is ambiguous:%s", e.Key, e.Site, listBindings(e.Candidates))
}

func (e *CyclicInjectionError) Error() string {
	return "cyclic injection:" + strings.Join(slices.Map(e.Chain, func(b *Binding) string {
		return "\n\t-> " + b.String()
	}), "")
}

func (e *BadDependencyScopeError) Error() string {
	return fmt.Sprintf("%s in scope %q cannot be injected from scope %q by %s", e.Binding, e.Binding.scopeID, e.FromScope, e.Site)
}

func (e *NonExplicitlyBoundClassError) Error() string {
	return fmt.Sprintf("class %s is not injectable, only explicit bindings are allowed: mark it with Injectable()", e.Class)
}

func (e *InjectingNoneDisallowedError) Error() string {
	return fmt.Sprintf("%s produced nil for %s, and injecting nil is disallowed", e.Binding, e.Site)
}

func (e *DirectlyPassingInjectedArgsError) Error() string {
	return fmt.Sprintf("args %s of %s are injected and cannot be passed directly", strings.Join(e.Args, ", "), e.Callable)
}

func (e *OnlyInstantiableViaProviderFunctionError) Error() string {
	return fmt.Sprintf("%s needs args %s passed directly, it can only be built through a provider function", e.Callable, strings.Join(e.Args, ", "))
}

func (e *KwargsForCachedBindingError) Error() string {
	return fmt.Sprintf("%s is cached by its scope %q, %s cannot pass it args", e.Binding, e.Binding.scopeID, e.Site)
}

func (e *UnknownArgError) Error() string {
	return fmt.Sprintf("%s has no args named %s", e.Callable, strings.Join(e.Args, ", "))
}

func (e *WrongArgTypeError) Error() string {
	return fmt.Sprintf("arg %q of %s expects %s but got %s", e.Arg, e.Callable, e.Want, typeName(e.Got))
}

func (e *ProducerPanicError) Error() string {
	return fmt.Sprintf("panic calling %s: %v", e.Callable, e.Recovered)
}

func (e *NotAClassError) Error() string {
	return fmt.Sprintf("%T is not a class, expected a *Class or a reflect.Type", e.Target)
}

func (e *UnknownClassError) Error() string {
	return fmt.Sprintf("no class produces %s", e.Type)
}

func (e *AmbiguousClassError) Error() string {
	return fmt.Sprintf("several classes produce %s: %s", e.Type, strings.Join(slices.Map(e.Classes, (*Class).String), ", "))
}

func listBindings(bindings []*Binding) string {
	sorted := slices.Sorted(bindings, fn.ComparingBy((*Binding).String))
	return strings.Join(slices.Map(sorted, func(b *Binding) string {
		return "\n\t- " + b.String()
	}), "")
}

func typeName(typ reflect.Type) string {
	if typ == nil {
		return "nil"
	}
	return typ.String()
}
