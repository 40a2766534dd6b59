// Package config loads typed configuration structs from the environment (and
// optionally a config file) through viper.
package config

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/a-peyrard/objgraph/fn"
	"github.com/a-peyrard/objgraph/option"
	"github.com/a-peyrard/objgraph/reflectutils"
	"github.com/a-peyrard/objgraph/str"
	"github.com/spf13/viper"
)

type (
	Options struct {
		prefix     string
		configFile string
		viper      *viper.Viper
	}

	// WithDefault is implemented by config structs that fill their own defaults once loaded.
	WithDefault interface {
		ApplyDefault()
	}
)

var withDefaultType = reflect.TypeOf((*WithDefault)(nil)).Elem()

// WithEnvPrefix sets the prefix of the environment variables, "OBJGRAPH" reads OBJGRAPH_*.
func WithEnvPrefix(prefix string) option.Option[Options] {
	return func(opts *Options) {
		opts.prefix = prefix
	}
}

// WithConfigFile reads the given file (any format viper knows) before applying env overrides.
func WithConfigFile(path string) option.Option[Options] {
	return func(opts *Options) {
		opts.configFile = path
	}
}

// WithViper loads from an existing viper instance instead of a fresh one.
func WithViper(v *viper.Viper) option.Option[Options] {
	return func(opts *Options) {
		opts.viper = v
	}
}

// Load builds a T from the configured sources.
func Load[T any](opts ...option.Option[Options]) (*T, error) {
	options := option.New(opts...)

	v := options.viper
	if v == nil {
		v = viper.New()
	}
	if options.configFile != "" {
		v.SetConfigFile(options.configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("unable to read config file %s:\n\t%w", options.configFile, err)
		}
	}
	v.SetEnvPrefix(options.prefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var vT T
	typ := reflect.TypeOf(vT)
	if typ == nil || typ.Kind() != reflect.Struct {
		return nil, fmt.Errorf("config target must be a struct, got %T", vT)
	}
	bindEnvs(v, options.prefix, typ)

	if err := v.Unmarshal(&vT); err != nil {
		return nil, fmt.Errorf("unable to unmarshal config:\n\t%w", err)
	}

	callApplyDefault := func(val reflect.Value, typ reflect.Type, _ []string) {
		if !typ.Implements(withDefaultType) || !val.IsValid() {
			return
		}
		if !reflectutils.IsNillable(typ) || !val.IsNil() {
			val.Interface().(WithDefault).ApplyDefault()
		}
	}
	reflectutils.WalkStruct(
		&vT,
		fn.AllTriConsumer(
			reflectutils.CreateNilStructs,
			callApplyDefault,
		),
	)

	return &vT, nil
}

func bindEnvs(v *viper.Viper, envPrefix string, typ reflect.Type, parts ...string) {
	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		if !field.IsExported() {
			continue
		}
		tag, ok := field.Tag.Lookup("mapstructure")
		if !ok {
			tag = field.Name
		}

		fieldType := field.Type
		if fieldType.Kind() == reflect.Pointer && fieldType.Elem().Kind() == reflect.Struct {
			fieldType = fieldType.Elem()
		}
		if fieldType.Kind() == reflect.Struct {
			bindEnvs(v, envPrefix, fieldType, append(parts, tag)...)
			continue
		}

		key := strings.Join(append(parts, tag), ".")
		env := strings.Join(append(parts, str.ToScreamingSnakeCase(tag)), "_")
		_ = v.BindEnv(key, mergeWithEnvPrefix(envPrefix, env))
	}
}

func mergeWithEnvPrefix(envPrefix string, in string) string {
	if envPrefix != "" {
		return strings.ToUpper(envPrefix + "_" + in)
	}

	return strings.ToUpper(in)
}
