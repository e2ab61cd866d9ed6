package config

import "time"

// SetDefaults fills every unset field
func SetDefaults(cfg *Config) {
	if cfg.Scheduler.Mode == "" {
		cfg.Scheduler.Mode = "local"
	}
	if cfg.Scheduler.Address == "" && cfg.Scheduler.Mode == "grpc" {
		cfg.Scheduler.Address = "localhost:50051"
	}
	if cfg.Scheduler.Timeout == 0 {
		cfg.Scheduler.Timeout = 30 * time.Second
	}
	if cfg.Scheduler.Workers == 0 {
		cfg.Scheduler.Workers = 8
	}
	if cfg.Scheduler.Listen == "" {
		cfg.Scheduler.Listen = ":50051"
	}

	if cfg.Simulator.WaitCeiling == 0 {
		cfg.Simulator.WaitCeiling = 1000
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "text"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stderr"
	}
}
