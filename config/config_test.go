package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type (
	TestConfig struct {
		Engine *EngineTestConfig
		Wheels *WheelsTestConfig
	}
	EngineTestConfig struct {
		Brand     string
		Cylinders int
	}
	WheelsTestConfig struct {
		Count int
		Size  int
	}
	MultipleWordsConfig struct {
		FooBar     int
		CustomerId int
		Explicit   bool `mapstructure:"only_explicit"`
	}
)

func (c *WheelsTestConfig) ApplyDefault() {
	if c.Count == 0 {
		c.Count = 4
	}
}

func TestLoad(t *testing.T) {
	t.Run("it should load basic struct", func(t *testing.T) {
		// GIVEN
		t.Setenv("ENGINE_BRAND", "volvo")
		t.Setenv("ENGINE_CYLINDERS", "6")

		// WHEN
		conf, err := Load[EngineTestConfig](WithEnvPrefix("ENGINE"))

		// THEN
		require.NoError(t, err)
		assert.Equal(t, "volvo", conf.Brand)
		assert.Equal(t, 6, conf.Cylinders)
	})

	t.Run("it should load nested structs from env vars", func(t *testing.T) {
		// GIVEN
		t.Setenv("TEST_ENGINE_BRAND", "saab")
		t.Setenv("TEST_ENGINE_CYLINDERS", "8")
		t.Setenv("TEST_WHEELS_COUNT", "6")
		t.Setenv("TEST_WHEELS_SIZE", "17")

		// WHEN
		conf, err := Load[TestConfig](WithEnvPrefix("TEST"))

		// THEN
		require.NoError(t, err)
		assert.Equal(t, "saab", conf.Engine.Brand)
		assert.Equal(t, 8, conf.Engine.Cylinders)
		assert.Equal(t, 6, conf.Wheels.Count)
		assert.Equal(t, 17, conf.Wheels.Size)
	})

	t.Run("it should initialize nested structs and apply defaults", func(t *testing.T) {
		// WHEN
		conf, err := Load[TestConfig](WithEnvPrefix("EMPTY"))

		// THEN
		require.NoError(t, err)
		require.NotNil(t, conf.Engine)
		assert.Equal(t, "", conf.Engine.Brand)
		assert.Equal(t, 4, conf.Wheels.Count)
		assert.Equal(t, 0, conf.Wheels.Size)
	})

	t.Run("it should bind correctly multiple words variables", func(t *testing.T) {
		// GIVEN
		t.Setenv("TEST_FOO_BAR", "12")
		t.Setenv("TEST_CUSTOMER_ID", "66")
		t.Setenv("TEST_ONLY_EXPLICIT", "true")

		// WHEN
		conf, err := Load[MultipleWordsConfig](WithEnvPrefix("TEST"))

		// THEN
		require.NoError(t, err)
		assert.Equal(t, 12, conf.FooBar)
		assert.Equal(t, 66, conf.CustomerId)
		assert.True(t, conf.Explicit)
	})

	t.Run("it should read a config file and let env vars override it", func(t *testing.T) {
		// GIVEN
		path := filepath.Join(t.TempDir(), "car.yaml")
		content := "engine:\n  brand: volvo\n  cylinders: 4\nwheels:\n  size: 16\n"
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
		t.Setenv("FILE_ENGINE_CYLINDERS", "12")

		// WHEN
		conf, err := Load[TestConfig](WithEnvPrefix("FILE"), WithConfigFile(path))

		// THEN
		require.NoError(t, err)
		assert.Equal(t, "volvo", conf.Engine.Brand)
		assert.Equal(t, 12, conf.Engine.Cylinders)
		assert.Equal(t, 16, conf.Wheels.Size)
		assert.Equal(t, 4, conf.Wheels.Count)
	})

	t.Run("it should load from a provided viper instance", func(t *testing.T) {
		// GIVEN
		v := viper.New()
		v.Set("engine.brand", "tesla")

		// WHEN
		conf, err := Load[TestConfig](WithViper(v), WithEnvPrefix("VIPER"))

		// THEN
		require.NoError(t, err)
		assert.Equal(t, "tesla", conf.Engine.Brand)
	})

	t.Run("it should fail on a missing config file", func(t *testing.T) {
		// WHEN
		_, err := Load[TestConfig](WithConfigFile(filepath.Join(t.TempDir(), "missing.yaml")))

		// THEN
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unable to read config file")
	})

	t.Run("it should refuse non struct targets", func(t *testing.T) {
		// WHEN
		_, err := Load[string]()

		// THEN
		require.Error(t, err)
	})
}
