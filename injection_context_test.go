package objgraph

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInjectionContext(t *testing.T) {
	a := instanceBinding("a", 1, "a.go:1")
	b := instanceBinding("b", 2, "b.go:1")
	c := instanceBinding("c", 3, "c.go:1")

	t.Run("it should start unscoped", func(t *testing.T) {
		// WHEN
		ictx := newInjectionContextFactory(nil).new("Car")

		// THEN
		assert.Equal(t, "Car", ictx.Site())
		assert.Equal(t, Unscoped, ictx.ScopeID())
		assert.Empty(t, ictx.Bindings())
		assert.Equal(t, "Car", ictx.Path())
	})

	t.Run("it should record the traversed bindings without changing the parent", func(t *testing.T) {
		// GIVEN
		root := newInjectionContextFactory(nil).new("A")

		// WHEN
		child, err := root.GetChild("A", b)
		require.NoError(t, err)
		grandChild, err := child.GetChild("B", c)
		require.NoError(t, err)

		// THEN
		assert.Empty(t, root.Bindings())
		assert.Equal(t, []*Binding{b}, child.Bindings())
		assert.Equal(t, []*Binding{b, c}, grandChild.Bindings())
		assert.Equal(t, Singleton, grandChild.ScopeID())
		assert.Equal(t, "A -> A -> B", grandChild.Path())
		assert.Same(t, root.lockOwner(), grandChild.lockOwner())
	})

	t.Run("it should detect cycles", func(t *testing.T) {
		// GIVEN
		ictx := newInjectionContextFactory(nil).new("A")
		for _, step := range []struct {
			site    string
			binding *Binding
		}{{"A", b}, {"B", c}, {"C", a}} {
			var err error
			ictx, err = ictx.GetChild(step.site, step.binding)
			require.NoError(t, err)
		}

		// WHEN
		_, err := ictx.GetChild("A", b)

		// THEN
		var cyclic *CyclicInjectionError
		require.True(t, errors.As(err, &cyclic))
		assert.Equal(t, []*Binding{b, c, a, b}, cyclic.Chain)
	})

	t.Run("it should check the scope compatibility", func(t *testing.T) {
		// GIVEN
		requestScoped := newInstanceBinding(Key("user"), "john", "request", "user.go:1")
		notInSingletons := func(bindingScope, contextScope ScopeID) bool {
			return !(bindingScope == "request" && contextScope == Singleton)
		}
		root := newInjectionContextFactory(notInSingletons).new("Car")
		singletonChild, err := root.GetChild("Car", a)
		require.NoError(t, err)

		// WHEN
		_, fromRoot := root.GetChild("Car", requestScoped)
		_, fromSingleton := singletonChild.GetChild("A", requestScoped)

		// THEN
		assert.NoError(t, fromRoot)
		var badScope *BadDependencyScopeError
		require.True(t, errors.As(fromSingleton, &badScope))
		assert.Equal(t, Singleton, badScope.FromScope)
		assert.Same(t, requestScoped, badScope.Binding)
	})

	t.Run("it should give each provider call its own owner started from the resolution", func(t *testing.T) {
		// GIVEN
		root := newInjectionContextFactory(nil).new("Garage")
		child, err := root.GetChild("Garage", a)
		require.NoError(t, err)

		// WHEN
		first := child.forProviderCall()
		second := child.forProviderCall()

		// THEN
		assert.NotSame(t, first.lockOwner(), second.lockOwner())
		assert.True(t, first.lockOwner().startedFrom(root.lockOwner()))
		assert.False(t, first.lockOwner().startedFrom(second.lockOwner()))
		assert.False(t, root.lockOwner().startedFrom(first.lockOwner()))
		assert.Equal(t, child.Bindings(), first.Bindings())
		assert.Equal(t, child.ScopeID(), first.ScopeID())
	})

	t.Run("it should give detached contexts a fresh owner", func(t *testing.T) {
		// GIVEN
		var detached *InjectionContext

		// THEN
		assert.NotSame(t, detached.lockOwner(), detached.lockOwner())
	})
}
