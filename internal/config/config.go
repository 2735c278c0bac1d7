// Package config loads chainforge configuration from an optional YAML file
// merged with CHAINFORGE_* environment variables.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"

	"github.com/cobaltstack/chainforge/internal/environment"
	"github.com/cobaltstack/chainforge/internal/factory"
)

// Config holds application-level configuration. Registry contents are
// registered in code, never configured; config only steers the ambient
// behavior around them.
type Config struct {
	Logging     LoggingConfig           `mapstructure:"logging" yaml:"logging"`
	Environment EnvironmentConfig       `mapstructure:"environment" yaml:"environment"`
	Modules     map[string]ModuleConfig `mapstructure:"modules" yaml:"modules,omitempty"`
}

// LoggingConfig controls zerolog output.
type LoggingConfig struct {
	// Level is one of trace, debug, info, warn, error.
	Level string `mapstructure:"level" yaml:"level"`
}

// EnvironmentConfig optionally forces the active environment set, bypassing
// runtime detection. Meant for development and CI, not production.
type EnvironmentConfig struct {
	// Force lists environment names ("server", "browser", "mobile");
	// empty keeps real detection.
	Force []string `mapstructure:"force" yaml:"force,omitempty"`
}

// ModuleConfig carries per-module defaults applied when a caller omits an
// adapter name or version.
type ModuleConfig struct {
	DefaultAdapter string `mapstructure:"default_adapter" yaml:"default_adapter,omitempty"`
	DefaultVersion string `mapstructure:"default_version" yaml:"default_version,omitempty"`
}

// Default returns the configuration used when no file or environment
// overrides are present.
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{Level: "info"},
		Modules: map[string]ModuleConfig{
			"wallet":     {DefaultAdapter: "localsigner"},
			"contracts":  {DefaultAdapter: "soltemplate"},
			"crosschain": {DefaultAdapter: "staticrouter"},
		},
	}
}

// Load reads configuration from path (optional; empty path or a missing file
// falls back to defaults) merged with CHAINFORGE_* environment variables,
// e.g. CHAINFORGE_LOGGING_LEVEL=debug.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("CHAINFORGE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := Default()
	v.SetDefault("logging.level", defaults.Logging.Level)

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			if _, missing := err.(viper.ConfigFileNotFoundError); !missing && !os.IsNotExist(err) {
				return nil, fmt.Errorf("read config %s: %w", path, err)
			}
		}
	}

	cfg := Default()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return cfg, nil
}

// Apply pushes config-level overrides into the process: a forced environment
// set takes effect immediately for all subsequent validation, and per-module
// adapter defaults become the fallback for factory calls that omit a name or
// version.
func (c *Config) Apply() {
	if len(c.Environment.Force) > 0 {
		envs := make([]environment.Environment, 0, len(c.Environment.Force))
		for _, name := range c.Environment.Force {
			envs = append(envs, environment.Environment(name))
		}
		environment.SetOverride(envs)
	}

	moduleDefaults := make(map[string]factory.Defaults, len(c.Modules))
	for module, mc := range c.Modules {
		if mc.DefaultAdapter == "" && mc.DefaultVersion == "" {
			continue
		}
		moduleDefaults[module] = factory.Defaults{
			Adapter: mc.DefaultAdapter,
			Version: mc.DefaultVersion,
		}
	}
	factory.SetDefaults(moduleDefaults)
}
