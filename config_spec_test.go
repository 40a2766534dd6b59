package objgraph

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/a-peyrard/objgraph/config"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type (
	carConfig struct {
		Engine engineConfig
		Labels map[string]string
	}

	engineConfig struct {
		Cylinders int
	}
)

func TestViperSpec(t *testing.T) {
	t.Run("it should bind configuration values", func(t *testing.T) {
		// GIVEN
		v := viper.New()
		v.Set("engine.cylinders", 6)
		graph, err := New(
			WithClasses(MustClass(NewEngine, Args("engine_cylinders"))),
			WithBindingSpecs(&ViperSpec{Viper: v}),
		)
		require.NoError(t, err)

		// WHEN
		engine, err := Provide[*Engine](graph)

		// THEN
		require.NoError(t, err)
		assert.Equal(t, 6, engine.Cylinders)
	})

	t.Run("it should cast values read from the environment", func(t *testing.T) {
		// GIVEN
		t.Setenv("CARS_CYLINDERS", "8")
		t.Setenv("CARS_WARMUP", "2s")
		v := viper.New()
		v.SetEnvPrefix("CARS")
		require.NoError(t, v.BindEnv("cylinders"))
		require.NoError(t, v.BindEnv("warmup"))
		graph, err := New(WithBindingSpecs(&ViperSpec{
			Viper: v,
			Keys:  []string{"cylinders", "warmup"},
			Types: map[string]reflect.Type{
				"cylinders": TypeOf[int](),
				"warmup":    TypeOf[time.Duration](),
			},
		}))
		require.NoError(t, err)

		// WHEN
		cylinders, cylindersErr := ProvideKey[int](graph, Key("cylinders"))
		warmup, warmupErr := ProvideKey[time.Duration](graph, Key("warmup"))

		// THEN
		require.NoError(t, cylindersErr)
		require.NoError(t, warmupErr)
		assert.Equal(t, 8, cylinders)
		assert.Equal(t, 2*time.Second, warmup)
	})

	t.Run("it should require the keys without value", func(t *testing.T) {
		// WHEN
		_, err := New(WithBindingSpecs(&ViperSpec{Viper: viper.New(), Keys: []string{"engine.cylinders"}}))

		// THEN
		var missing *MissingRequiredBindingError
		require.True(t, errors.As(err, &missing))
		assert.Equal(t, Key("engine_cylinders"), missing.Key)
	})

	t.Run("it should fail on values that cannot be cast", func(t *testing.T) {
		// GIVEN
		v := viper.New()
		v.Set("cylinders", "many")

		// WHEN
		_, err := New(WithBindingSpecs(&ViperSpec{
			Viper: v,
			Types: map[string]reflect.Type{"cylinders": TypeOf[int]()},
		}))

		// THEN
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid value for config key cylinders")
	})

	t.Run("it should fail without viper", func(t *testing.T) {
		// WHEN
		_, err := New(WithBindingSpecs(&ViperSpec{}))

		// THEN
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no viper instance")
	})
}

func TestStructFieldSpec(t *testing.T) {
	t.Run("it should bind fields of a loaded configuration", func(t *testing.T) {
		// GIVEN
		t.Setenv("GARAGE_ENGINE_CYLINDERS", "12")
		conf, err := config.Load[carConfig](config.WithEnvPrefix("GARAGE"))
		require.NoError(t, err)
		graph, err := New(
			WithClasses(engineClass()),
			WithBindingSpecs(&StructFieldSpec{Config: conf, Fields: map[string]string{"cylinders": "Engine.Cylinders"}}),
		)
		require.NoError(t, err)

		// WHEN
		engine, err := Provide[*Engine](graph)

		// THEN
		require.NoError(t, err)
		assert.Equal(t, 12, engine.Cylinders)
	})

	t.Run("it should bind map entries", func(t *testing.T) {
		// GIVEN
		conf := &carConfig{Labels: map[string]string{"brand": "volvo"}}
		graph, err := New(WithBindingSpecs(&StructFieldSpec{
			Config: conf,
			Fields: map[string]string{"brand": "Labels.brand"},
			Scope:  Prototype,
		}))
		require.NoError(t, err)

		// WHEN
		brand, err := ProvideKey[string](graph, Key("brand"))

		// THEN
		require.NoError(t, err)
		assert.Equal(t, "volvo", brand)
	})

	t.Run("it should fail on unknown fields", func(t *testing.T) {
		// WHEN
		_, err := New(WithBindingSpecs(&StructFieldSpec{
			Config: &carConfig{},
			Fields: map[string]string{"pistons": "Engine.Pistons"},
		}))

		// THEN
		require.Error(t, err)
		assert.Contains(t, err.Error(), `cannot bind "pistons" to the configuration`)
		assert.Contains(t, err.Error(), "Pistons")
	})
}

func TestSettings(t *testing.T) {
	t.Run("it should load settings from the environment", func(t *testing.T) {
		// GIVEN
		t.Setenv("OBJGRAPHTEST_ONLY_EXPLICIT_BINDINGS", "true")
		t.Setenv("OBJGRAPHTEST_VERBOSE_ERRORS", "true")

		// WHEN
		settings, err := LoadSettings("OBJGRAPHTEST")

		// THEN
		require.NoError(t, err)
		assert.Equal(t, Settings{OnlyExplicitBindings: true, VerboseErrors: true}, settings)
	})

	t.Run("it should default to permissive settings", func(t *testing.T) {
		// WHEN
		settings, err := LoadSettings("OBJGRAPHEMPTY")

		// THEN
		require.NoError(t, err)
		assert.Equal(t, Settings{}, settings)
	})

	t.Run("it should apply loaded settings to the graph", func(t *testing.T) {
		// GIVEN
		t.Setenv("OBJGRAPHNIL_ALLOW_INJECTING_NIL", "true")
		settings, err := LoadSettings("OBJGRAPHNIL")
		require.NoError(t, err)
		graph, err := New(
			WithClasses(carClass()),
			WithBindingSpecs(&specFunc{configure: func(b *Binder) error {
				return b.Bind(Key("engine"), ToInstance(nil))
			}}),
			WithSettings(settings),
		)
		require.NoError(t, err)

		// WHEN
		car, err := Provide[*Car](graph)

		// THEN
		require.NoError(t, err)
		assert.Nil(t, car.Engine)
	})
}
