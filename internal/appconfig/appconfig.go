// Package appconfig resolves the command-line tool's own settings: which
// environment to load and where the variant files live.
//
// Values are layered with dario.cat/mergo. Each layer fills only the fields
// left empty by the layers before it, so the order of precedence is:
//
//  1. command-line flags
//  2. environment variables (LAYERCONF_ENV, LAYERCONF_CONFIG_DIR, LAYERCONF_VERBOSE)
//  3. built-in defaults
package appconfig

import (
	"errors"
	"fmt"

	"dario.cat/mergo"
	"github.com/caarlos0/env/v11"

	"github.com/shinji-kodama/layerconf/internal/model"
)

const (
	// DefaultEnvironment is used when neither a flag nor LAYERCONF_ENV names
	// an environment.
	DefaultEnvironment = "dev"

	// DefaultConfigDir is the directory variant files are read from by
	// default, relative to the working directory.
	DefaultConfigDir = "config"
)

// Config holds the resolved tool settings.
type Config struct {
	Environment string `env:"ENV"`
	ConfigDir   string `env:"CONFIG_DIR"`
	Verbose     bool   `env:"VERBOSE"`
}

// Defaults returns the built-in settings.
func Defaults() *Config {
	return &Config{
		Environment: DefaultEnvironment,
		ConfigDir:   DefaultConfigDir,
	}
}

// Validate checks the resolved settings.
func (c *Config) Validate() error {
	if err := model.ValidateEnvironment(c.Environment); err != nil {
		return err
	}
	if c.ConfigDir == "" {
		return errors.New("configuration directory must not be empty")
	}
	return nil
}

// Builder collects configuration layers, highest precedence first.
type Builder struct {
	layers []*Config
	err    error
}

// NewBuilder creates an empty Builder.
func NewBuilder() *Builder {
	return &Builder{layers: make([]*Config, 0, 3)}
}

// WithFlags adds the values given on the command line.
func (b *Builder) WithFlags(flags *Config) *Builder {
	if flags != nil {
		b.layers = append(b.layers, flags)
	}
	return b
}

// WithEnv adds the values of the LAYERCONF_* environment variables.
func (b *Builder) WithEnv() *Builder {
	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: "LAYERCONF_"}); err != nil {
		b.err = errors.Join(b.err, fmt.Errorf("error getting env configs: %w", err))
		return b
	}
	b.layers = append(b.layers, cfg)
	return b
}

// WithDefaults adds the built-in defaults.
func (b *Builder) WithDefaults() *Builder {
	b.layers = append(b.layers, Defaults())
	return b
}

// Build merges the layers and validates the result.
func (b *Builder) Build() (*Config, error) {
	if b.err != nil {
		return nil, fmt.Errorf("error occurred during building config: %w", b.err)
	}

	cfg := new(Config)
	for _, layer := range b.layers {
		if err := mergo.Merge(cfg, layer); err != nil {
			return nil, fmt.Errorf("error merging configs: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Load resolves the settings from flags, the environment and the defaults.
func Load(flags *Config) (*Config, error) {
	return NewBuilder().WithFlags(flags).WithEnv().WithDefaults().Build()
}
