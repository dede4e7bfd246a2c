// Package config provides Viper-based configuration for vecfixture.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/viant/vecfixture/internal/logging"
)

// Config is the complete vecfixture configuration.
type Config struct {
	Store   StoreConfig   `mapstructure:"store"`
	Seed    SeedConfig    `mapstructure:"seed"`
	Logging LoggingConfig `mapstructure:"logging"`
	Output  OutputConfig  `mapstructure:"output"`
}

// StoreConfig locates the SQLite database.
type StoreConfig struct {
	Path string `mapstructure:"path"`
}

// SeedConfig holds seeding defaults.
type SeedConfig struct {
	Count     int `mapstructure:"count"`
	Dimension int `mapstructure:"dimension"`
	BatchSize int `mapstructure:"batch_size"`
	Workers   int `mapstructure:"workers"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// OutputConfig contains output formatting settings.
type OutputConfig struct {
	Colors bool `mapstructure:"colors"`
}

// Load reads configuration from cfgFile, or .vecfixture.yaml in the current
// directory or $HOME/.config/vecfixture, then applies VECFIXTURE_* environment
// overrides. A missing config file is not an error.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName(".vecfixture")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/vecfixture")
	}

	v.SetEnvPrefix("VECFIXTURE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return &cfg, nil
}

// Default returns the configuration Load produces with no file and no
// environment overrides.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	_ = v.Unmarshal(&cfg)
	return &cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("store.path", "vecfixture.db")

	v.SetDefault("seed.count", 1000)
	v.SetDefault("seed.dimension", 64)
	v.SetDefault("seed.batch_size", 500)
	v.SetDefault("seed.workers", 4)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")

	v.SetDefault("output.colors", true)
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Store.Path == "" {
		return errors.New("store path must not be empty")
	}
	if c.Seed.Count < 0 {
		return fmt.Errorf("invalid seed count: %d", c.Seed.Count)
	}
	if c.Seed.Dimension <= 0 {
		return fmt.Errorf("invalid seed dimension: %d (must be positive)", c.Seed.Dimension)
	}
	if c.Seed.BatchSize <= 0 {
		return fmt.Errorf("invalid seed batch size: %d (must be positive)", c.Seed.BatchSize)
	}
	if c.Seed.Workers <= 0 {
		return fmt.Errorf("invalid seed workers: %d (must be positive)", c.Seed.Workers)
	}
	if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
		return err
	}
	switch c.Logging.Format {
	case "text", "json":
	default:
		return fmt.Errorf("invalid logging format: %s (must be text or json)", c.Logging.Format)
	}
	return nil
}
