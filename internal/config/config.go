// Package config loads settings from config.yaml, TODO_* environment
// variables and command-line overrides, in increasing precedence.
package config

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

const (
	configName = "config"
	configType = "yaml"
	envPrefix  = "TODO"

	// DefaultDir holds config.yaml and, unless overridden, the data.
	DefaultDir = "~/.tada"
	// DefaultNamespace is the collection name used when none is configured.
	DefaultNamespace = "todos-vanillajs"

	keyBackend   = "backend"
	keyDataDir   = "data_dir"
	keyNamespace = "namespace"
	keyLogLevel  = "log_level"
	keyLogFile   = "log_file"
	keyTheme     = "theme"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("config: invalid")

// Config is the resolved application configuration.
type Config struct {
	Backend   string `mapstructure:"backend" validate:"oneof=json diskv bolt sqlite memory"`
	DataDir   string `mapstructure:"data_dir" validate:"min=1"`
	Namespace string `mapstructure:"namespace" validate:"min=1,max=128,excludesall=/\\"`
	LogLevel  string `mapstructure:"log_level" validate:"oneof=debug info warn error"`
	LogFile   string `mapstructure:"log_file"`
	Theme     string `mapstructure:"theme" validate:"oneof=classic neon mono"`
}

// Overrides carry flag values; empty fields are ignored.
type Overrides struct {
	DataDir   string
	Backend   string
	Namespace string
}

// Load reads configDir/config.yaml if present, applies the environment and
// overrides, then validates. A missing config file is not an error.
func Load(configDir string, o Overrides) (*Config, error) {
	if configDir == "" {
		configDir = DefaultDir
	}
	dir, err := homedir.Expand(configDir)
	if err != nil {
		return nil, fmt.Errorf("expand config dir: %w", err)
	}

	v := viper.New()
	v.SetDefault(keyBackend, "json")
	v.SetDefault(keyDataDir, DefaultDir)
	v.SetDefault(keyNamespace, DefaultNamespace)
	v.SetDefault(keyLogLevel, "info")
	v.SetDefault(keyLogFile, "")
	v.SetDefault(keyTheme, "classic")
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	v.SetConfigName(configName)
	v.SetConfigType(configType)
	v.AddConfigPath(dir)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	for key, val := range map[string]string{
		keyDataDir:   o.DataDir,
		keyBackend:   o.Backend,
		keyNamespace: o.Namespace,
	} {
		if val != "" {
			v.Set(key, val)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.expand(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks every field against its allowed values.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return nil
}

func (c *Config) expand() error {
	dir, err := homedir.Expand(c.DataDir)
	if err != nil {
		return fmt.Errorf("expand data dir: %w", err)
	}
	c.DataDir = dir
	if c.LogFile == "" {
		c.LogFile = filepath.Join(c.DataDir, "todo.log")
		return nil
	}
	if c.LogFile, err = homedir.Expand(c.LogFile); err != nil {
		return fmt.Errorf("expand log file: %w", err)
	}
	return nil
}
