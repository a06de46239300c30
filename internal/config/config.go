// Package config provides centralized configuration management using Viper.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration values for planr.
type Config struct {
	// Period is the default plan period offered by the config step (weekly, monthly).
	Period   string `mapstructure:"period" yaml:"period"`
	DataDir  string `mapstructure:"data_dir" yaml:"data_dir"`
	LogLevel string `mapstructure:"log_level" yaml:"log_level"`
	LogFile  string `mapstructure:"log_file" yaml:"log_file"`
	// LockOnComplete makes the wizard terminal once it has completed.
	LockOnComplete bool `mapstructure:"lock_on_complete" yaml:"lock_on_complete"`
	// StartStep is the id of the step new wizards open on. Empty means the first step.
	StartStep string `mapstructure:"start_step" yaml:"start_step"`
}

// envKeys lists every key bound to a PLANR_ environment variable.
var envKeys = []string{
	"period",
	"data_dir",
	"log_level",
	"log_file",
	"lock_on_complete",
	"start_step",
}

// Default returns the configuration used when nothing else is set.
func Default() *Config {
	return &Config{
		Period:   "weekly",
		DataDir:  ".planr",
		LogLevel: "info",
	}
}

// Load loads configuration with full precedence:
// CLI flags > ENV vars > project config > XDG global config > defaults
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigName("planr")

	def := Default()
	v.SetDefault("period", def.Period)
	v.SetDefault("data_dir", def.DataDir)
	v.SetDefault("log_level", def.LogLevel)
	v.SetDefault("log_file", "")
	v.SetDefault("lock_on_complete", false)
	v.SetDefault("start_step", "")

	v.SetEnvPrefix("PLANR")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Explicit bindings so Unmarshal sees env-only values
	for _, key := range envKeys {
		if err := v.BindEnv(key, "PLANR_"+strings.ToUpper(key)); err != nil {
			return nil, fmt.Errorf("binding %s env: %w", key, err)
		}
	}

	globalPath := GlobalPath()
	if fileExists(globalPath) {
		v.SetConfigFile(globalPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading global config: %w", err)
		}
	}

	projectPath := ProjectPath()
	if fileExists(projectPath) {
		v.SetConfigFile(projectPath)
		if err := v.MergeInConfig(); err != nil {
			return nil, fmt.Errorf("merging project config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks values that viper cannot type-check.
func (c *Config) Validate() error {
	switch c.Period {
	case "weekly", "monthly":
	default:
		return fmt.Errorf("invalid period %q: must be weekly or monthly", c.Period)
	}
	if c.DataDir == "" {
		return fmt.Errorf("data_dir must not be empty")
	}
	return nil
}

// Exists returns true if any config file exists (global or project).
func Exists() bool {
	return fileExists(GlobalPath()) || fileExists(ProjectPath())
}

// GlobalPath returns the XDG global config path.
// Returns ~/.config/planr/planr.yml or $XDG_CONFIG_HOME/planr/planr.yml.
func GlobalPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "planr", "planr.yml")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "planr", "planr.yml")
}

// ProjectPath returns the project-local config path.
func ProjectPath() string {
	return "planr.yml"
}

// WriteGlobal writes the config to the XDG global location.
func WriteGlobal(cfg *Config) error {
	path := GlobalPath()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	return write(path, cfg)
}

// WriteProject writes the config to the project-local location.
func WriteProject(cfg *Config) error {
	return write(ProjectPath(), cfg)
}

func write(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
