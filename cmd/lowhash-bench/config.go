package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/theflywheel/lowhash"
)

// Config describes one benchmark run: how each table is tuned and what
// workload is driven against it.
type Config struct {
	Table    TableConfig    `yaml:"table"`
	Workload WorkloadConfig `yaml:"workload"`
}

// TableConfig is the table construction input.
type TableConfig struct {
	Capacity       int `yaml:"capacity"`
	lowhash.Config `yaml:",inline"`
}

// WorkloadConfig is the operation mix run against every table.
type WorkloadConfig struct {
	Keys        int     `yaml:"keys"`
	KeyType     string  `yaml:"key_type"` // uint64, string or uuid
	Parallel    int     `yaml:"parallel"` // independent tables run at once
	RemoveRatio float64 `yaml:"remove_ratio"`
}

var keyTypes = map[string]bool{"uint64": true, "string": true, "uuid": true}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() Config {
	return Config{
		Table: TableConfig{Config: lowhash.DefaultConfig()},
		Workload: WorkloadConfig{
			Keys:        100_000,
			KeyType:     "uint64",
			Parallel:    1,
			RemoveRatio: 0.1,
		},
	}
}

// LoadConfig reads a YAML configuration file. Environment variables in the
// file are expanded before parsing. Fields left zero in the file keep
// their defaults. An empty path yields DefaultConfig.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file: %w", err)
	}

	var file Config
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), &file); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.merge(file)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// merge copies every non-zero field of o into c.
func (c *Config) merge(o Config) {
	if o.Table.Capacity != 0 {
		c.Table.Capacity = o.Table.Capacity
	}
	if o.Table.LoadFactor != 0 {
		c.Table.LoadFactor = o.Table.LoadFactor
	}
	if o.Table.GrowthFactor != 0 {
		c.Table.GrowthFactor = o.Table.GrowthFactor
	}
	if o.Table.MaxBuckets != 0 {
		c.Table.MaxBuckets = o.Table.MaxBuckets
	}
	if o.Table.AutoShrink {
		c.Table.AutoShrink = true
	}
	if o.Workload.Keys != 0 {
		c.Workload.Keys = o.Workload.Keys
	}
	if o.Workload.KeyType != "" {
		c.Workload.KeyType = o.Workload.KeyType
	}
	if o.Workload.Parallel != 0 {
		c.Workload.Parallel = o.Workload.Parallel
	}
	if o.Workload.RemoveRatio != 0 {
		c.Workload.RemoveRatio = o.Workload.RemoveRatio
	}
}

// Validate checks the workload and the table tunables.
func (c Config) Validate() error {
	if c.Table.Capacity < 0 {
		return fmt.Errorf("table.capacity must not be negative, got %d", c.Table.Capacity)
	}
	if err := c.Table.Config.Validate(); err != nil {
		return fmt.Errorf("table: %w", err)
	}
	if c.Workload.Keys <= 0 {
		return fmt.Errorf("workload.keys must be positive, got %d", c.Workload.Keys)
	}
	if !keyTypes[c.Workload.KeyType] {
		return fmt.Errorf("workload.key_type %q is not one of uint64, string, uuid", c.Workload.KeyType)
	}
	if c.Workload.Parallel < 1 {
		return fmt.Errorf("workload.parallel must be at least 1, got %d", c.Workload.Parallel)
	}
	if c.Workload.RemoveRatio < 0 || c.Workload.RemoveRatio > 1 {
		return fmt.Errorf("workload.remove_ratio %v not in [0, 1]", c.Workload.RemoveRatio)
	}
	return nil
}
