package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/invpend/internal/control"
	"github.com/san-kum/invpend/internal/integrators"
	"github.com/san-kum/invpend/internal/physics"
)

const (
	DefaultDt         = 0.01
	DefaultSteps      = 10000
	DefaultIntegrator = "rk4"
	DefaultOutputDir  = "."
)

type Config struct {
	Integrator string          `yaml:"integrator"`
	Dt         float64         `yaml:"dt"`
	Steps      int             `yaml:"steps"`
	Regulator  bool            `yaml:"regulator"`
	OutputDir  string          `yaml:"output_dir"`
	InitState  InitStateConfig `yaml:"init_state"`
	Physics    physics.Params  `yaml:"physics"`
	Gains      [4]float64      `yaml:"gains"`
	Limits     physics.Limits  `yaml:"limits"`
}

type InitStateConfig struct {
	Pos   float64 `yaml:"pos"`
	Vel   float64 `yaml:"vel"`
	Theta float64 `yaml:"theta"`
	Omega float64 `yaml:"omega"`
}

func DefaultConfig() *Config {
	return &Config{
		Integrator: DefaultIntegrator,
		Dt:         DefaultDt,
		Steps:      DefaultSteps,
		Regulator:  true,
		OutputDir:  DefaultOutputDir,
		Physics:    physics.DefaultParams(),
		Gains:      control.DefaultGains,
		Limits:     physics.DefaultLimits(),
	}
}

// Load reads a YAML file on top of the defaults. Fields missing from the
// file keep their default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// Merge reads a YAML file on top of an existing config.
func (c *Config) Merge(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) GetInitState() [4]float64 {
	return [4]float64{c.InitState.Pos, c.InitState.Vel, c.InitState.Theta, c.InitState.Omega}
}

func (c *Config) SetInitState(x [4]float64) {
	c.InitState = InitStateConfig{Pos: x[0], Vel: x[1], Theta: x[2], Omega: x[3]}
}

func (c *Config) Validate() error {
	if c.Dt <= 0 {
		return fmt.Errorf("dt must be positive, got %g", c.Dt)
	}
	if c.Steps <= 0 {
		return fmt.Errorf("steps must be positive, got %d", c.Steps)
	}
	if _, err := integrators.Get(c.Integrator); err != nil {
		return err
	}
	for i, r := range c.Limits.Ranges() {
		if r.Min >= r.Max {
			return fmt.Errorf("limit %s is empty: %s", physics.StateNames[i], r)
		}
	}
	if err := c.Physics.Validate(); err != nil {
		return err
	}
	if err := c.Limits.Validate(c.GetInitState()); err != nil {
		return fmt.Errorf("initial state: %w", err)
	}
	return nil
}
