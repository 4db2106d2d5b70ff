package config

import (
	"fmt"
	"sort"
)

type Preset struct {
	Description string
	InitState   InitStateConfig
	Regulator   bool
	Steps       int
}

var Presets = map[string]Preset{
	"balance": {
		Description: "small tilt, regulator on",
		InitState:   InitStateConfig{Theta: 0.1},
		Regulator:   true,
		Steps:       3000,
	},
	"recover": {
		Description: "large tilt inside the balance region",
		InitState:   InitStateConfig{Theta: 0.5},
		Regulator:   true,
		Steps:       3000,
	},
	"swingup": {
		Description: "hanging almost straight down at rest",
		InitState:   InitStateConfig{Theta: 3.1},
		Regulator:   true,
		Steps:       DefaultSteps,
	},
	"edge": {
		Description: "cart heading for the track end",
		InitState:   InitStateConfig{Pos: 1.4, Vel: 1.5, Theta: 0.05},
		Regulator:   true,
		Steps:       2000,
	},
	"freefall": {
		Description: "small tilt, regulator off",
		InitState:   InitStateConfig{Theta: 0.1},
		Regulator:   false,
		Steps:       1000,
	},
}

// GetPreset returns a default config with the named preset applied, or nil
// if no such preset exists.
func GetPreset(name string) *Config {
	cfg := DefaultConfig()
	if err := cfg.ApplyPreset(name); err != nil {
		return nil
	}
	return cfg
}

// ApplyPreset overwrites the initial state, the regulator switch and the
// step count of c with the named preset.
func (c *Config) ApplyPreset(name string) error {
	p, ok := Presets[name]
	if !ok {
		return fmt.Errorf("unknown preset: %s (available: %v)", name, ListPresets())
	}
	c.InitState = p.InitState
	c.Regulator = p.Regulator
	c.Steps = p.Steps
	return nil
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
