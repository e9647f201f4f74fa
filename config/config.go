// Package config loads driver defaults from a TOML file. Command-line
// flags always win over the file; the file wins over the built-in
// defaults.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// DefaultPath is the config file looked up in the working directory when
// no explicit path is given.
const DefaultPath = "minilang.toml"

// Config represents the driver configuration.
type Config struct {
	// Compilation settings
	Compile struct {
		Optimize bool `toml:"optimize"`
	} `toml:"compile"`

	// Execution settings
	Execution struct {
		TraceVM       bool `toml:"trace_vm"`
		SnapshotCells int  `toml:"snapshot_cells"`
	} `toml:"execution"`

	// Trace settings for the compile stages
	Trace struct {
		IR  bool `toml:"ir"`
		ASM bool `toml:"asm"`
	} `toml:"trace"`

	// Artifact emission settings
	Emit struct {
		OutDir string `toml:"out_dir"`
	} `toml:"emit"`
}

// DefaultConfig returns a configuration with default values.
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.Compile.Optimize = true
	cfg.Execution.TraceVM = false
	cfg.Execution.SnapshotCells = 32
	cfg.Trace.IR = false
	cfg.Trace.ASM = false
	cfg.Emit.OutDir = "out"

	return cfg
}

// Load reads the configuration from the given path. An empty path means
// DefaultPath; a missing file at the default path is not an error and
// yields the defaults.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}

	cfg := DefaultConfig()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if explicit {
			return nil, fmt.Errorf("config file not found: %s", path)
		}
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file %s: %w", path, err)
	}
	if cfg.Execution.SnapshotCells <= 0 {
		cfg.Execution.SnapshotCells = DefaultConfig().Execution.SnapshotCells
	}
	return cfg, nil
}

// Save writes the configuration as TOML to the given path.
func (cfg *Config) Save(path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("error creating config file: %w", err)
	}
	defer file.Close()
	return toml.NewEncoder(file).Encode(cfg)
}
