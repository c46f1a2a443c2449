// Package planconfig loads the optional YAML override for the scenario
// tranche tables and the sector map. Without an override file the built-in
// defaults are used unchanged.
package planconfig

import (
	"fmt"

	"github.com/jwhan/trademate/internal/scenario"
)

// Config is the on-disk override shape.
type Config struct {
	// Scenarios replaces the built-in tranche table for the named
	// scenarios. Scenarios not listed keep their defaults.
	Scenarios map[scenario.Type][]scenario.Tranche `yaml:"scenarios"`

	// Sectors adds to (or overrides) the built-in symbol→sector map.
	Sectors map[string]string `yaml:"sectors"`
}

// Validate checks tranche tables for obviously broken entries.
func Validate(cfg *Config) error {
	for name, tranches := range cfg.Scenarios {
		if len(tranches) == 0 {
			return fmt.Errorf("scenario %q has no tranches", name)
		}
		var total float64
		for i, tr := range tranches {
			if tr.Ratio <= 0 || tr.Ratio > 1 {
				return fmt.Errorf("scenario %q tranche %d: ratio %v out of (0,1]", name, i, tr.Ratio)
			}
			total += tr.Ratio
		}
		if total > 1.0+1e-9 {
			return fmt.Errorf("scenario %q tranche ratios sum to %v, exceeding 1.0", name, total)
		}
	}
	return nil
}

// Definitions merges the override scenarios over the built-in table.
func (c *Config) Definitions() scenario.Definitions {
	defs := scenario.DefaultDefinitions()
	for name, tranches := range c.Scenarios {
		defs[name] = tranches
	}
	return defs
}
