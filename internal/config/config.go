// Package config loads the planner configuration from a YAML file, the
// environment and defaults.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is the main configuration struct combining all sub-configs
type Config struct {
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Planner   PlannerConfig   `mapstructure:"planner"`
	Simulator SimulatorConfig `mapstructure:"simulator"`
	Catalogue CatalogueConfig `mapstructure:"catalogue"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
}

// SchedulerConfig selects and tunes the scheduling service
type SchedulerConfig struct {
	// Mode: local (in-process solver) or grpc (remote service)
	Mode string `mapstructure:"mode" validate:"required,oneof=local grpc"`

	// Address of the remote service, required in grpc mode
	Address string `mapstructure:"address" validate:"required_if=Mode grpc"`

	Timeout time.Duration `mapstructure:"timeout" validate:"gt=0"`
	Workers int           `mapstructure:"workers" validate:"min=1,max=64"`

	// Listen address of cmd/scheduler-service
	Listen string `mapstructure:"listen" validate:"required"`
}

// PlannerConfig configures the build-order template
type PlannerConfig struct {
	// Horizon overrides the catalogue horizon when positive
	Horizon         int  `mapstructure:"horizon" validate:"min=0"`
	IncludeResearch bool `mapstructure:"include_research"`
}

// SimulatorConfig configures plan replay
type SimulatorConfig struct {
	WaitCeiling int `mapstructure:"wait_ceiling" validate:"min=1"`
}

// CatalogueConfig points at an optional YAML overlay of game constants
type CatalogueConfig struct {
	Path string `mapstructure:"path"`
}

// MetricsConfig configures the Prometheus textfile export
type MetricsConfig struct {
	// Textfile is written after each run when set
	Textfile string `mapstructure:"textfile"`
}

// keys lists every setting so environment variables resolve without a
// config file
var keys = []string{
	"scheduler.mode", "scheduler.address", "scheduler.timeout", "scheduler.workers", "scheduler.listen",
	"planner.horizon", "planner.include_research",
	"simulator.wait_ceiling",
	"catalogue.path",
	"logging.level", "logging.format", "logging.output",
	"metrics.textfile",
}

// LoadConfig loads configuration from multiple sources with priority:
// 1. Environment variables (PLANNER_ prefix, highest priority)
// 2. Config file (planner.yaml)
// 3. Defaults (lowest priority)
func LoadConfig(configPath string) (*Config, error) {
	// Load .env file if it exists (doesn't error if missing)
	_ = godotenv.Load()

	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("planner")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
	}

	v.SetEnvPrefix("PLANNER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, key := range keys {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	SetDefaults(&cfg)

	if err := ValidateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// Default returns the configuration used when nothing is set
func Default() *Config {
	cfg := &Config{}
	SetDefaults(cfg)
	return cfg
}
