package objgraph

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/a-peyrard/objgraph/structs"
	"github.com/spf13/cast"
	"github.com/spf13/viper"
)

type (
	// ViperSpec binds configuration values as instances. The key "engine.cylinders" is
	// bound to the binding name "engine_cylinders". A key without value is required
	// instead, another spec has to bind it.
	ViperSpec struct {
		Viper *viper.Viper
		// Keys to bind, every key known by Viper when empty.
		Keys []string
		// Types casts the values of some keys, env variables being read as strings.
		Types map[string]reflect.Type
		Scope ScopeID
	}

	// StructFieldSpec binds fields of a loaded configuration struct, Fields mapping the
	// binding names to the field paths, "cylinders": "Engine.Cylinders".
	StructFieldSpec struct {
		Config any
		Fields map[string]string
		Scope  ScopeID
	}
)

var durationType = TypeOf[time.Duration]()

func (s *ViperSpec) Configure(b *Binder) error {
	if s.Viper == nil {
		return errors.New("no viper instance to read the configuration from")
	}

	keys := s.Keys
	if len(keys) == 0 {
		keys = s.Viper.AllKeys()
	}
	keys = append([]string(nil), keys...)
	sort.Strings(keys)

	for _, key := range keys {
		bindingKey := Key(strings.ReplaceAll(strings.ToLower(key), ".", "_"))
		if !s.Viper.IsSet(key) {
			b.Require(bindingKey)
			continue
		}
		value, err := castValue(s.Viper.Get(key), s.Types[key])
		if err != nil {
			return fmt.Errorf("invalid value for config key %s:\n\t%w", key, err)
		}
		if err := b.Bind(bindingKey, ToInstance(value), InScope(scopeOrDefault(s.Scope))); err != nil {
			return err
		}
	}
	return nil
}

func castValue(value any, typ reflect.Type) (any, error) {
	if typ == nil {
		return value, nil
	}
	if typ == durationType {
		return cast.ToDurationE(value)
	}
	switch typ.Kind() {
	case reflect.String:
		return cast.ToStringE(value)
	case reflect.Bool:
		return cast.ToBoolE(value)
	case reflect.Int:
		return cast.ToIntE(value)
	case reflect.Int64:
		return cast.ToInt64E(value)
	case reflect.Uint:
		return cast.ToUintE(value)
	case reflect.Float64:
		return cast.ToFloat64E(value)
	case reflect.Slice:
		if typ.Elem().Kind() == reflect.String {
			return cast.ToStringSliceE(value)
		}
	case reflect.Map:
		if typ.Key().Kind() == reflect.String && typ.Elem().Kind() == reflect.String {
			return cast.ToStringMapStringE(value)
		}
	}
	return nil, fmt.Errorf("cannot cast configuration values to %s", typ)
}

func (s *StructFieldSpec) Configure(b *Binder) error {
	names := make([]string, 0, len(s.Fields))
	for name := range s.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		value, err := structs.Get(s.Config, s.Fields[name])
		if err != nil {
			return fmt.Errorf("cannot bind %q to the configuration:\n\t%w", name, err)
		}
		if err := b.Bind(Key(name), ToInstance(value), InScope(scopeOrDefault(s.Scope))); err != nil {
			return err
		}
	}
	return nil
}

func scopeOrDefault(id ScopeID) ScopeID {
	if id == "" {
		return DefaultScope
	}
	return id
}
