package objgraph

import (
	"fmt"

	"github.com/a-peyrard/objgraph/config"
	"github.com/a-peyrard/objgraph/option"
)

// Settings are the object graph behaviours that can be switched from the environment,
// see LoadSettings and WithSettings.
type Settings struct {
	OnlyExplicitBindings bool `mapstructure:"only_explicit_bindings"`
	AllowInjectingNil    bool `mapstructure:"allow_injecting_nil"`
	VerboseErrors        bool `mapstructure:"verbose_errors"`
}

// LoadSettings reads the settings, with the prefix "OBJGRAPH" the env variable
// OBJGRAPH_VERBOSE_ERRORS enables verbose errors.
func LoadSettings(prefix string, opts ...option.Option[config.Options]) (Settings, error) {
	settings, err := config.Load[Settings](append([]option.Option[config.Options]{config.WithEnvPrefix(prefix)}, opts...)...)
	if err != nil {
		return Settings{}, fmt.Errorf("failed to load object graph settings:\n\t%w", err)
	}
	return *settings, nil
}
