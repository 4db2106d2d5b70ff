package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/san-kum/invpend/internal/config"
)

var initFlags = []string{"pos", "vel", "theta", "omega"}

// loadConfig layers preset, config file and explicitly set flags, in that
// order. It reports whether the initial state came from none of them.
func loadConfig(cmd *cobra.Command) (*config.Config, bool, error) {
	cfg := config.DefaultConfig()
	fromFile := false

	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, false, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}

	if configFile != "" {
		if err := cfg.Merge(configFile); err != nil {
			return nil, false, fmt.Errorf("failed to load config: %w", err)
		}
		fromFile = true
	}

	flags := cmd.Flags()
	if flags.Changed("dt") {
		cfg.Dt = dt
	}
	if flags.Changed("steps") {
		cfg.Steps = steps
	}
	if flags.Changed("integrator") {
		cfg.Integrator = integrator
	}
	if flags.Changed("regulator") {
		cfg.Regulator = regulator
	}
	if flags.Changed("out") {
		cfg.OutputDir = outDir
	}

	x := cfg.GetInitState()
	explicit := false
	for i, name := range initFlags {
		if flags.Changed(name) {
			v, _ := flags.GetFloat64(name)
			x[i] = v
			explicit = true
		}
	}
	cfg.SetInitState(x)

	interactive := preset == "" && !fromFile && !explicit
	return cfg, interactive, nil
}
