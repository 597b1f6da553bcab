package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"

	"github.com/goliatone/go-config/cfgx"
)

// Config captures module-level configuration knobs. Feature packages
// (directory, assignments, activity) pull from these nested structs.
type Config struct {
	Directory DirectoryConfig `mapstructure:"directory" json:"directory"`
	Events    EventsConfig    `mapstructure:"events" json:"events"`
	Activity  ActivityConfig  `mapstructure:"activity" json:"activity"`
}

// DirectoryConfig controls identity resolution.
type DirectoryConfig struct {
	// KeySeparator joins identifier field values into directory keys.
	// Changing it orphans entries stored under the previous separator.
	KeySeparator string `mapstructure:"key_separator" json:"key_separator"`
}

// EventsConfig toggles lifecycle event publication. Enabled is a pointer so
// an explicit false in the input survives default application; nil means
// "not set" and resolves to enabled.
type EventsConfig struct {
	Enabled *bool `mapstructure:"enabled" json:"enabled"`
}

// IsEnabled resolves the tri-state flag, defaulting to true when unset.
func (c EventsConfig) IsEnabled() bool {
	return c.Enabled == nil || *c.Enabled
}

// ActivityConfig toggles activity hook fan-out.
type ActivityConfig struct {
	Enabled *bool `mapstructure:"enabled" json:"enabled"`
}

// IsEnabled resolves the tri-state flag, defaulting to true when unset.
func (c ActivityConfig) IsEnabled() bool {
	return c.Enabled == nil || *c.Enabled
}

// Bool returns a pointer for literal flag values in config structs.
func Bool(v bool) *bool {
	return &v
}

// Defaults returns the baseline configuration.
func Defaults() Config {
	return Config{
		Directory: DirectoryConfig{KeySeparator: "-"},
		Events:    EventsConfig{Enabled: Bool(true)},
		Activity:  ActivityConfig{Enabled: Bool(true)},
	}
}

// Validate ensures required fields are present and sane.
func (c *Config) Validate() error {
	if c.Directory.KeySeparator == "" {
		return errors.New("directory.key_separator is required")
	}
	return nil
}

// Load decodes arbitrary input (struct, map, cfg struct) using cfgx helpers,
// falling back to a lightweight decoder for plain inputs.
func Load(input any, opts ...LoadOption) (Config, error) {
	settings := loadOptions{}
	for _, opt := range opts {
		opt(&settings)
	}

	cfg, err := cfgx.Build(input, settings.buildOpts...)
	if err != nil {
		return Config{}, err
	}

	if isZero(cfg) {
		if err := decodeFallback(input, &cfg); err != nil {
			return Config{}, err
		}
	}

	cfg = cfg.withDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// LoadOption lets callers amend cfgx build options.
type LoadOption func(*loadOptions)

type loadOptions struct {
	buildOpts []cfgx.Option[Config]
}

// WithBuildOptions forwards cfgx options (duration hooks, preprocessors, etc.).
func WithBuildOptions(opts ...cfgx.Option[Config]) LoadOption {
	return func(lo *loadOptions) {
		lo.buildOpts = append(lo.buildOpts, opts...)
	}
}

func (c Config) withDefaults() Config {
	defaults := Defaults()

	if c.Directory.KeySeparator == "" {
		c.Directory.KeySeparator = defaults.Directory.KeySeparator
	}
	if c.Events.Enabled == nil {
		c.Events.Enabled = defaults.Events.Enabled
	}
	if c.Activity.Enabled == nil {
		c.Activity.Enabled = defaults.Activity.Enabled
	}
	return c
}

func isZero(cfg Config) bool {
	return reflect.DeepEqual(cfg, Config{})
}

func decodeFallback(input any, cfg *Config) error {
	switch v := input.(type) {
	case nil:
		return nil
	case Config:
		*cfg = v
		return nil
	case *Config:
		if v != nil {
			*cfg = *v
		}
		return nil
	case map[string]any:
		return decodeMap(v, cfg)
	default:
		return fmt.Errorf("unsupported config input type: %T", input)
	}
}

func decodeMap(input map[string]any, cfg *Config) error {
	if input == nil {
		return nil
	}
	payload, err := json.Marshal(input)
	if err != nil {
		return err
	}
	return json.Unmarshal(payload, cfg)
}
