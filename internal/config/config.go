// Package config resolves the emulator's tunable runtime parameters: a
// default, overridable by environment variables, then overridable again by
// an optional YAML file - the same flags-over-struct-tags layering the
// teacher's command line uses, one level down in the stack.
package config

import (
	"os"

	"github.com/caarlos0/env/v6"
	"gopkg.in/yaml.v3"

	"github.com/wingez/gxpu/internal/vm"
)

// Runtime holds the values that parameterize a single emulator run.
type Runtime struct {
	MemorySize     int `env:"GXPU_MEMORY_SIZE" yaml:"memory_size"`
	MaxClockCycles int `env:"GXPU_MAX_CLOCK_CYCLES" yaml:"max_clock_cycles"`
}

// Default returns the built-in defaults: a full 256-byte memory and a
// 1000-cycle run budget.
func Default() Runtime {
	return Runtime{
		MemorySize:     vm.MemorySize,
		MaxClockCycles: vm.DefaultMaxClockCycles,
	}
}

// Load resolves a Runtime starting from Default, applying environment
// variables, then - if path is non-empty - the YAML file at path. A later
// source overrides an earlier one field by field.
func Load(path string) (Runtime, error) {
	rt := Default()

	if err := env.Parse(&rt); err != nil {
		return Runtime{}, err
	}

	if path == "" {
		return rt, nil
	}

	f, err := os.ReadFile(path)
	if err != nil {
		return Runtime{}, err
	}
	if err := yaml.Unmarshal(f, &rt); err != nil {
		return Runtime{}, err
	}
	return rt, nil
}
