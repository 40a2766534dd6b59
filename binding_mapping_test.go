package objgraph

import (
	"errors"
	"fmt"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func instanceBinding(name string, instance any, location string) *Binding {
	return newInstanceBinding(Key(name), instance, DefaultScope, location)
}

func TestMergeLayers(t *testing.T) {
	t.Run("it should resolve keys bound once", func(t *testing.T) {
		// GIVEN
		engine := instanceBinding("engine", 1, "implicit.go:1")
		car := instanceBinding("car", 2, "explicit.go:1")

		// WHEN
		mapping, err := mergeLayers([]*Binding{engine}, []*Binding{car})

		// THEN
		require.NoError(t, err)
		found, err := mapping.Get(Key("engine"), "test")
		require.NoError(t, err)
		assert.Same(t, engine, found)
		found, err = mapping.Get(Key("car"), "test")
		require.NoError(t, err)
		assert.Same(t, car, found)
	})

	t.Run("it should fail when the explicit layer binds a key twice", func(t *testing.T) {
		// GIVEN
		first := instanceBinding("engine", 1, "explicit.go:1")
		second := instanceBinding("engine", 2, "explicit.go:2")

		// WHEN
		_, err := mergeLayers(nil, []*Binding{first, second})

		// THEN
		var conflicting *ConflictingExplicitBindingsError
		require.True(t, errors.As(err, &conflicting))
		assert.ElementsMatch(t, []*Binding{first, second}, conflicting.Bindings)
	})

	t.Run("it should keep implicit collisions aside until requested", func(t *testing.T) {
		// GIVEN
		first := instanceBinding("foo", 1, "implicit.go:2")
		second := instanceBinding("foo", 2, "implicit.go:1")

		// WHEN
		mapping, err := mergeLayers([]*Binding{first, second}, nil)

		// THEN
		require.NoError(t, err)
		_, err = mapping.Get(Key("foo"), "bar")
		var ambiguous *AmbiguousArgNameError
		require.True(t, errors.As(err, &ambiguous))
		assert.Equal(t, "bar", ambiguous.Site)
		assert.Equal(t, []*Binding{second, first}, ambiguous.Candidates)
		assert.Contains(t, mapping.Ambiguous(), Key("foo"))
		assert.Empty(t, mapping.Resolved())
	})

	t.Run("it should let an explicit binding override implicit ones", func(t *testing.T) {
		// GIVEN
		first := instanceBinding("foo", 1, "implicit.go:1")
		second := instanceBinding("foo", 2, "implicit.go:2")
		explicit := instanceBinding("foo", 3, "explicit.go:1")

		// WHEN
		mapping, err := mergeLayers([]*Binding{first, second}, []*Binding{explicit})

		// THEN
		require.NoError(t, err)
		found, err := mapping.Get(Key("foo"), "bar")
		require.NoError(t, err)
		assert.Same(t, explicit, found)
		assert.Empty(t, mapping.Ambiguous())
	})

	t.Run("it should report nothing injectable for unknown keys", func(t *testing.T) {
		// GIVEN
		mapping, err := mergeLayers(nil, nil)
		require.NoError(t, err)

		// WHEN
		_, err = mapping.Get(AnnotatedKey("engine", "v8"), "car")

		// THEN
		var nothing *NothingInjectableForArgError
		require.True(t, errors.As(err, &nothing))
		assert.Equal(t, AnnotatedKey("engine", "v8"), nothing.Key)
		assert.Equal(t, "car", nothing.Site)
	})
}

func TestMergeLayersProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("implicit duplicates are ambiguous, unless bound explicitly", prop.ForAll(
		func(implicitCount int, explicit bool) bool {
			implicit := make([]*Binding, implicitCount)
			for i := range implicit {
				implicit[i] = instanceBinding("foo", i, fmt.Sprintf("implicit.go:%d", i))
			}
			var explicitLayer []*Binding
			if explicit {
				explicitLayer = []*Binding{instanceBinding("foo", -1, "explicit.go:1")}
			}

			mapping, err := mergeLayers(implicit, explicitLayer)
			if err != nil {
				return false
			}
			binding, err := mapping.Get(Key("foo"), "test")

			var ambiguous *AmbiguousArgNameError
			switch {
			case explicit:
				return err == nil && binding == explicitLayer[0]
			case implicitCount == 1:
				return err == nil && binding == implicit[0]
			default:
				return errors.As(err, &ambiguous) && len(ambiguous.Candidates) == implicitCount
			}
		},
		gen.IntRange(1, 10),
		gen.Bool(),
	))

	properties.Property("explicit duplicates always conflict", prop.ForAll(
		func(explicitCount int) bool {
			explicit := make([]*Binding, explicitCount)
			for i := range explicit {
				explicit[i] = instanceBinding("foo", i, fmt.Sprintf("explicit.go:%d", i))
			}

			_, err := mergeLayers(nil, explicit)

			var conflicting *ConflictingExplicitBindingsError
			return errors.As(err, &conflicting)
		},
		gen.IntRange(2, 10),
	))

	properties.TestingRun(t)
}
