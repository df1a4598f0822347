// Package config loads and validates run parameters from YAML files,
// with defaults suitable for a short sheared Lennard-Jones run.
package config

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/jkleist/shearmd/internal/md"
)

const (
	DefaultN           = 256
	DefaultDensity     = 0.5
	DefaultTemperature = 1.0
	DefaultDt          = 0.005
	DefaultStrainRate  = 0.04
	DefaultLambda      = 0.15
	DefaultSteps       = 1000
	DefaultBlockSize   = 100
)

// Config is the full parameter set of a run. Lengths and cutoffs are in
// sigma units; dt and the strain rate in reduced time units.
type Config struct {
	N           int       `yaml:"n"`
	Density     float64   `yaml:"density"`
	Temperature float64   `yaml:"temperature"`
	Cutoffs     []float64 `yaml:"cutoffs"`
	Lambda      float64   `yaml:"lambda"`
	Dt          float64   `yaml:"dt"`
	StrainRate  float64   `yaml:"strain_rate"`
	Steps       int       `yaml:"steps"`
	BlockSize   int       `yaml:"block_size"`
	Seed        int64     `yaml:"seed"`
	SnapEvery   int       `yaml:"snapshot_every"`
	DataDir     string    `yaml:"data_dir"`
}

func DefaultConfig() *Config {
	return &Config{
		N:           DefaultN,
		Density:     DefaultDensity,
		Temperature: DefaultTemperature,
		Cutoffs:     []float64{2.3, 3.0, 3.6},
		Lambda:      DefaultLambda,
		Dt:          DefaultDt,
		StrainRate:  DefaultStrainRate,
		Steps:       DefaultSteps,
		BlockSize:   DefaultBlockSize,
		DataDir:     ".shearmd",
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Box is the cubic box side implied by N and the density.
func (c *Config) Box() float64 {
	return math.Cbrt(float64(c.N) / c.Density)
}

// Validate checks the parameter set. Cutoff ordering and spacing are
// checked again by the force engine; here the checks cover what only
// the full configuration knows, such as the minimum-image bound.
func (c *Config) Validate() error {
	if c.N <= 0 {
		return fmt.Errorf("%w: n = %d", md.ErrInvalidConfig, c.N)
	}
	if c.Density <= 0 {
		return fmt.Errorf("%w: density = %g", md.ErrInvalidConfig, c.Density)
	}
	if c.Temperature <= 0 {
		return fmt.Errorf("%w: temperature = %g", md.ErrInvalidConfig, c.Temperature)
	}
	if c.Dt <= 0 {
		return fmt.Errorf("%w: dt = %g", md.ErrInvalidConfig, c.Dt)
	}
	if c.Steps <= 0 {
		return fmt.Errorf("%w: steps = %d", md.ErrInvalidConfig, c.Steps)
	}
	if c.BlockSize <= 0 || c.BlockSize > c.Steps {
		return fmt.Errorf("%w: block size = %d with %d steps", md.ErrInvalidConfig, c.BlockSize, c.Steps)
	}
	if len(c.Cutoffs) == 0 {
		return fmt.Errorf("%w: no cutoffs", md.ErrInvalidConfig)
	}
	outer := c.Cutoffs[len(c.Cutoffs)-1]
	if half := c.Box() / 2; outer > half {
		return fmt.Errorf("%w: outermost cutoff %g exceeds half box %g", md.ErrInvalidConfig, outer, half)
	}
	return nil
}
