package objgraph

type (
	// Provider is requested by a constructor arg to receive a function producing the
	// bound value on demand, instead of the value itself.
	Provider[T any] func() (T, error)

	// ProviderWithArgs is a Provider passing args directly to the bound constructor,
	// typically the ones it declares as Direct. A SingletonScope builds its value once,
	// so passing args to a binding in such a scope fails with KwargsForCachedBindingError.
	ProviderWithArgs[T any] func(kwargs Kwargs) (T, error)

	deferred interface {
		deferred()
	}
)

func (Provider[T]) deferred() {}

func (ProviderWithArgs[T]) deferred() {}
