// Package config provides Viper-based configuration loading for the combat
// simulator.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// BatchConfig holds batch simulation settings.
type BatchConfig struct {
	// Trials is the number of combats per batch.
	Trials int `mapstructure:"trials"`
	// MaxRounds caps a single combat before it is scored a draw.
	MaxRounds int `mapstructure:"max_rounds"`
	// Seed makes batches reproducible; 0 draws fresh randomness per trial.
	Seed int64 `mapstructure:"seed"`
	// Workers fans trials out over goroutines; values below 2 run serially.
	Workers int `mapstructure:"workers"`
	// Strategies maps team names to decision strategies: "aggressive",
	// "defensive", "balanced", or "random".
	Strategies map[string]string `mapstructure:"strategies"`
}

// ScenarioConfig holds battlefield settings.
type ScenarioConfig struct {
	// GridWidth and GridHeight size the tactical grid.
	GridWidth  int `mapstructure:"grid_width"`
	GridHeight int `mapstructure:"grid_height"`
	// TimeOfDay is "day" or "night".
	TimeOfDay string `mapstructure:"time_of_day"`
	// Underwater submerges the scene, restricting weapon choice.
	Underwater bool `mapstructure:"underwater"`
}

// ContentConfig holds content loading settings.
type ContentConfig struct {
	// ItemsDir is an optional directory of YAML overlays for the item
	// catalog (weapons.yaml, armor.yaml, shields.yaml, spells.yaml).
	ItemsDir string `mapstructure:"items_dir"`
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
}

// Config is the top-level application configuration.
type Config struct {
	Batch    BatchConfig    `mapstructure:"batch"`
	Scenario ScenarioConfig `mapstructure:"scenario"`
	Content  ContentConfig  `mapstructure:"content"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	var errs []string

	if err := validateBatch(c.Batch); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateScenario(c.Scenario); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateLogging(c.Logging); err != nil {
		errs = append(errs, err.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateBatch(b BatchConfig) error {
	var errs []string
	if b.Trials < 1 {
		errs = append(errs, fmt.Sprintf("batch.trials must be >= 1, got %d", b.Trials))
	}
	if b.MaxRounds < 1 {
		errs = append(errs, fmt.Sprintf("batch.max_rounds must be >= 1, got %d", b.MaxRounds))
	}
	if b.Workers < 0 {
		errs = append(errs, fmt.Sprintf("batch.workers must be >= 0, got %d", b.Workers))
	}
	validStrategies := map[string]bool{"aggressive": true, "defensive": true, "balanced": true, "random": true}
	for team, s := range b.Strategies {
		if !validStrategies[s] {
			errs = append(errs, fmt.Sprintf("batch.strategies[%s] must be one of [aggressive, defensive, balanced, random], got %q", team, s))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateScenario(s ScenarioConfig) error {
	var errs []string
	if s.GridWidth < 1 {
		errs = append(errs, fmt.Sprintf("scenario.grid_width must be >= 1, got %d", s.GridWidth))
	}
	if s.GridHeight < 1 {
		errs = append(errs, fmt.Sprintf("scenario.grid_height must be >= 1, got %d", s.GridHeight))
	}
	if s.TimeOfDay != "day" && s.TimeOfDay != "night" {
		errs = append(errs, fmt.Sprintf("scenario.time_of_day must be one of [day, night], got %q", s.TimeOfDay))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateLogging(l LoggingConfig) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		return fmt.Errorf("logging.level must be one of [debug, info, warn, error], got %q", l.Level)
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("logging.format must be one of [json, console], got %q", l.Format)
	}
	return nil
}

// Load reads configuration from the given file path, applies environment variable
// overrides, and validates the result.
//
// Precondition: path must be a valid file path to a YAML configuration file.
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	// Environment variable overrides with AVASIM_ prefix
	v.SetEnvPrefix("AVASIM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// LoadFromViper builds a Config from an already-configured Viper instance.
//
// Precondition: v must be non-nil and have configuration values set.
// Postcondition: Returns a valid Config or a non-nil error.
func LoadFromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Default returns the configuration used when no file is supplied.
func Default() Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	// Unmarshalling defaults cannot fail.
	_ = v.Unmarshal(&cfg)
	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("batch.trials", 100)
	v.SetDefault("batch.max_rounds", 50)
	v.SetDefault("batch.seed", 0)
	v.SetDefault("batch.workers", 0)

	v.SetDefault("scenario.grid_width", 20)
	v.SetDefault("scenario.grid_height", 10)
	v.SetDefault("scenario.time_of_day", "day")
	v.SetDefault("scenario.underwater", false)

	v.SetDefault("content.items_dir", "")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}
