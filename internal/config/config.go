// Package config loads runtime settings from an optional YAML file and
// NETCHECK_* environment variables.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	ResolveTimeout time.Duration `mapstructure:"resolve_timeout"`
	ProbeTimeout   time.Duration `mapstructure:"probe_timeout"`
	SampleCount    int           `mapstructure:"sample_count"`
	Resolver       string        `mapstructure:"resolver"`
	Output         string        `mapstructure:"output"`
}

// Load reads configuration from path if non-empty, otherwise from a
// netcheck.yaml in the working directory when one exists. Environment
// variables such as NETCHECK_SAMPLE_COUNT override file values.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetDefault("resolve_timeout", 10*time.Second)
	v.SetDefault("probe_timeout", 30*time.Second)
	v.SetDefault("sample_count", 10)
	v.SetDefault("resolver", "")
	v.SetDefault("output", "pretty")

	v.SetEnvPrefix("NETCHECK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("reading config: %w", err)
		}
	} else {
		v.SetConfigName("netcheck")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return Config{}, fmt.Errorf("reading config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.ResolveTimeout <= 0 {
		return fmt.Errorf("resolve_timeout must be positive, got %s", c.ResolveTimeout)
	}
	if c.ProbeTimeout <= 0 {
		return fmt.Errorf("probe_timeout must be positive, got %s", c.ProbeTimeout)
	}
	if c.SampleCount < 1 {
		return fmt.Errorf("sample_count must be at least 1, got %d", c.SampleCount)
	}
	switch c.Output {
	case "pretty", "json":
	default:
		return fmt.Errorf("output must be pretty or json, got %q", c.Output)
	}
	return nil
}
